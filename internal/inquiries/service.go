// Copyright (c) 2026 Choice Properties. All rights reserved.

package inquiries

import (
	"context"
	"fmt"

	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/validate"
	"github.com/choiceproperties-source/choice/pkg/uuidv7"
)

// AgentResolver maps a property to the subject handling inquiries for it.
// Implemented by the listings service.
type AgentResolver interface {
	HandlingAgent(ctx context.Context, propertyID string) (string, error)
}

// Service implements inquiry use cases.
type Service struct {
	inquiries Repository
	agents    AgentResolver
}

// NewService constructs a Service.
func NewService(repository Repository, agents AgentResolver) *Service {
	return &Service{inquiries: repository, agents: agents}
}

// SubmitInput holds a new inquiry from a prospective client.
type SubmitInput struct {
	PropertyID string
	Name       string
	Email      string
	Phone      string
	Message    string
}

// Submit validates the inquiry, routes it to the property's handling
// agent, and persists it.
func (service *Service) Submit(ctx context.Context, input SubmitInput) (*Inquiry, error) {
	validator := &validate.Validator{}
	validator.
		Required("propertyId", input.PropertyID).
		UUID("propertyId", input.PropertyID).
		Required("name", input.Name).
		MaxLen("name", input.Name, 120).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("message", input.Message).
		MaxLen("message", input.Message, 2000).
		MaxLen("phone", input.Phone, 32)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	agentID, err := service.agents.HandlingAgent(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}

	inquiry := &Inquiry{
		ID:         uuidv7.New(),
		PropertyID: input.PropertyID,
		AgentID:    agentID,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Message:    input.Message,
		Status:     StatusOpen,
	}

	if err := service.inquiries.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("inquiries_service_submit_failed: %w", err)
	}

	return inquiry, nil
}

// Get returns one inquiry.
func (service *Service) Get(ctx context.Context, id string) (*Inquiry, error) {
	return service.inquiries.FindByID(ctx, id)
}

// ListMine returns the caller's assigned inquiries.
func (service *Service) ListMine(ctx context.Context, agentID string, limit, offset int) ([]*Inquiry, int, error) {
	return service.inquiries.ListByAgent(ctx, agentID, limit, offset)
}

// SetStatus moves an inquiry to a new working state.
func (service *Service) SetStatus(ctx context.Context, id string, status Status) (*Inquiry, error) {
	if status != StatusOpen && status != StatusReplied && status != StatusClosed {
		return nil, apperr.ValidationError(fmt.Sprintf("Unknown inquiry status %q", status))
	}

	if err := service.inquiries.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return service.inquiries.FindByID(ctx, id)
}
