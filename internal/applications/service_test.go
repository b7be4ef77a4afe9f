// Copyright (c) 2026 Choice Properties. All rights reserved.

package applications_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiceproperties-source/choice/internal/applications"
	"github.com/choiceproperties-source/choice/internal/platform/apperr"
)

// memRepo is an in-memory applications.Repository.
type memRepo struct {
	byID map[string]*applications.Application
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]*applications.Application{}}
}

func (m *memRepo) FindByID(_ context.Context, id string) (*applications.Application, error) {
	application, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("Application")
	}
	clone := *application
	return &clone, nil
}

func (m *memRepo) ListByApplicant(_ context.Context, userID string, limit, offset int) ([]*applications.Application, int, error) {
	return m.listWhere(func(a *applications.Application) bool { return a.UserID == userID }, limit, offset)
}

func (m *memRepo) ListByProperty(_ context.Context, propertyID string, limit, offset int) ([]*applications.Application, int, error) {
	return m.listWhere(func(a *applications.Application) bool { return a.PropertyID == propertyID }, limit, offset)
}

func (m *memRepo) listWhere(match func(*applications.Application) bool, limit, offset int) ([]*applications.Application, int, error) {
	matched := []*applications.Application{}
	for _, application := range m.byID {
		if match(application) {
			clone := *application
			matched = append(matched, &clone)
		}
	}
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (m *memRepo) Create(_ context.Context, application *applications.Application) error {
	clone := *application
	m.byID[application.ID] = &clone
	return nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, status applications.Status, decidedBy string) error {
	application, ok := m.byID[id]
	if !ok {
		return apperr.NotFound("Application")
	}
	application.Status = status
	application.DecidedBy = decidedBy
	return nil
}

// stubListings accepts or rejects applications per property id.
type stubListings struct {
	closed map[string]error
}

func (s *stubListings) AcceptsApplications(_ context.Context, propertyID string) error {
	if err, ok := s.closed[propertyID]; ok {
		return err
	}
	return nil
}

const propertyID = "018f6f2a-0000-7000-8000-000000000001"

func newService() (*applications.Service, *memRepo) {
	repo := newMemRepo()
	return applications.NewService(repo, &stubListings{closed: map[string]error{
		"018f6f2a-0000-7000-8000-00000000dead": apperr.Unprocessable("Property is not accepting applications"),
	}}), repo
}

func validSubmit() applications.SubmitInput {
	return applications.SubmitInput{
		PropertyID:         propertyID,
		FullName:           "Pat Example",
		Email:              "pat@example.com",
		MonthlyIncomeCents: 650000,
		Message:            "Available to move in next month.",
	}
}

func TestService_Submit(t *testing.T) {
	service, _ := newService()

	t.Run("anonymous", func(t *testing.T) {
		application, err := service.Submit(context.Background(), validSubmit())
		require.NoError(t, err)
		assert.Empty(t, application.UserID)
		assert.Equal(t, applications.StatusPending, application.Status)
	})

	t.Run("authenticated", func(t *testing.T) {
		input := validSubmit()
		input.SubjectID = "u1"
		application, err := service.Submit(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "u1", application.UserID)
	})

	t.Run("validation", func(t *testing.T) {
		input := validSubmit()
		input.Email = "not-an-email"
		input.PropertyID = "not-a-uuid"
		_, err := service.Submit(context.Background(), input)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})

	t.Run("closed_listing", func(t *testing.T) {
		input := validSubmit()
		input.PropertyID = "018f6f2a-0000-7000-8000-00000000dead"
		_, err := service.Submit(context.Background(), input)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 422, appError.HTTPStatus)
	})
}

func TestService_Decide(t *testing.T) {
	service, _ := newService()

	application, err := service.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	t.Run("invalid_status", func(t *testing.T) {
		_, err := service.Decide(context.Background(), application.ID, applications.StatusWithdrawn, "reviewer-1")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})

	t.Run("approve", func(t *testing.T) {
		decided, err := service.Decide(context.Background(), application.ID, applications.StatusApproved, "reviewer-1")
		require.NoError(t, err)
		assert.Equal(t, applications.StatusApproved, decided.Status)
		assert.Equal(t, "reviewer-1", decided.DecidedBy)
	})

	t.Run("already_decided", func(t *testing.T) {
		_, err := service.Decide(context.Background(), application.ID, applications.StatusRejected, "reviewer-2")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 409, appError.HTTPStatus)
	})
}

func TestService_Withdraw(t *testing.T) {
	service, _ := newService()

	input := validSubmit()
	input.SubjectID = "u1"
	application, err := service.Submit(context.Background(), input)
	require.NoError(t, err)

	require.NoError(t, service.Withdraw(context.Background(), application.ID))

	stored, err := service.Get(context.Background(), application.ID)
	require.NoError(t, err)
	assert.Equal(t, applications.StatusWithdrawn, stored.Status)

	// A withdrawn application cannot be decided.
	_, err = service.Decide(context.Background(), application.ID, applications.StatusApproved, "reviewer-1")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 409, appError.HTTPStatus)
}

func TestApplication_Redacted(t *testing.T) {
	application := &applications.Application{
		ID:                 "a1",
		FullName:           "Pat Example",
		Email:              "pat@example.com",
		MonthlyIncomeCents: 650000,
	}

	redacted := application.Redacted()

	assert.Empty(t, redacted.Email)
	assert.Zero(t, redacted.MonthlyIncomeCents)
	assert.Equal(t, "Pat Example", redacted.FullName)

	// The original is untouched.
	assert.Equal(t, "pat@example.com", application.Email)
}
