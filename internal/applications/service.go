// Copyright (c) 2026 Choice Properties. All rights reserved.

package applications

import (
	"context"
	"fmt"

	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/validate"
	"github.com/choiceproperties-source/choice/pkg/uuidv7"
)

// ListingChecker verifies that a property exists and is open for
// applications. Implemented by the listings service.
type ListingChecker interface {
	AcceptsApplications(ctx context.Context, propertyID string) error
}

// Service implements application use cases.
type Service struct {
	applications Repository
	listings     ListingChecker
}

// NewService constructs a Service.
func NewService(repository Repository, listings ListingChecker) *Service {
	return &Service{applications: repository, listings: listings}
}

// SubmitInput holds a new application. SubjectID is empty for anonymous
// submissions.
type SubmitInput struct {
	PropertyID         string
	SubjectID          string
	FullName           string
	Email              string
	MonthlyIncomeCents int64
	Message            string
}

// Submit validates and persists a new application.
func (service *Service) Submit(ctx context.Context, input SubmitInput) (*Application, error) {
	validator := &validate.Validator{}
	validator.
		Required("propertyId", input.PropertyID).
		UUID("propertyId", input.PropertyID).
		Required("fullName", input.FullName).
		MaxLen("fullName", input.FullName, 120).
		Required("email", input.Email).
		Email("email", input.Email).
		MaxLen("message", input.Message, 2000).
		Custom("monthlyIncomeCents", input.MonthlyIncomeCents < 0, "Cannot be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.listings.AcceptsApplications(ctx, input.PropertyID); err != nil {
		return nil, err
	}

	application := &Application{
		ID:                 uuidv7.New(),
		PropertyID:         input.PropertyID,
		UserID:             input.SubjectID,
		FullName:           input.FullName,
		Email:              input.Email,
		MonthlyIncomeCents: input.MonthlyIncomeCents,
		Message:            input.Message,
		Status:             StatusPending,
	}

	if err := service.applications.Create(ctx, application); err != nil {
		return nil, fmt.Errorf("applications_service_submit_failed: %w", err)
	}

	return application, nil
}

// Get returns one application.
func (service *Service) Get(ctx context.Context, id string) (*Application, error) {
	return service.applications.FindByID(ctx, id)
}

// ListMine returns the caller's applications.
func (service *Service) ListMine(ctx context.Context, subjectID string, limit, offset int) ([]*Application, int, error) {
	return service.applications.ListByApplicant(ctx, subjectID, limit, offset)
}

// ListForProperty returns the applications against a listing, for the
// reviewing side.
func (service *Service) ListForProperty(ctx context.Context, propertyID string, limit, offset int) ([]*Application, int, error) {
	return service.applications.ListByProperty(ctx, propertyID, limit, offset)
}

// Decide records an approve/reject decision by the reviewer.
//
// Only pending applications can be decided; anything else is a conflict,
// so two reviewers racing on the same application produce one decision.
func (service *Service) Decide(ctx context.Context, id string, status Status, reviewerID string) (*Application, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, apperr.ValidationError("Decision must be approved or rejected")
	}

	application, err := service.applications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if application.Status != StatusPending {
		return nil, apperr.Conflict(fmt.Sprintf("Application is already %s", application.Status))
	}

	if err := service.applications.UpdateStatus(ctx, id, status, reviewerID); err != nil {
		return nil, err
	}

	application.Status = status
	application.DecidedBy = reviewerID
	return application, nil
}

// Withdraw lets an applicant pull a pending application back.
func (service *Service) Withdraw(ctx context.Context, id string) error {
	application, err := service.applications.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if application.Status != StatusPending {
		return apperr.Conflict(fmt.Sprintf("Application is already %s", application.Status))
	}

	return service.applications.UpdateStatus(ctx, id, StatusWithdrawn, "")
}
