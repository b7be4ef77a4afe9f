// Copyright (c) 2026 Choice Properties. All rights reserved.

package applications

import (
	"context"
)

// Repository defines the data access contract for applications.
type Repository interface {
	// FindByID returns the application with the given ID.
	//
	// Returns [apperr.NotFound] if it does not exist.
	FindByID(ctx context.Context, id string) (*Application, error)

	// ListByApplicant returns the applications submitted by a user, newest
	// first.
	ListByApplicant(ctx context.Context, userID string, limit, offset int) ([]*Application, int, error)

	// ListByProperty returns the applications against one listing, newest
	// first.
	ListByProperty(ctx context.Context, propertyID string, limit, offset int) ([]*Application, int, error)

	// Create persists a new application.
	Create(ctx context.Context, application *Application) error

	// UpdateStatus records a review decision or a withdrawal.
	UpdateStatus(ctx context.Context, id string, status Status, decidedBy string) error
}
