// Copyright (c) 2026 Choice Properties. All rights reserved.

package inquiries

import (
	"context"
)

// Repository defines the data access contract for inquiries.
type Repository interface {
	// FindByID returns the inquiry with the given ID.
	//
	// Returns [apperr.NotFound] if it does not exist.
	FindByID(ctx context.Context, id string) (*Inquiry, error)

	// ListByAgent returns one page of an agent's inquiries, newest first.
	ListByAgent(ctx context.Context, agentID string, limit, offset int) ([]*Inquiry, int, error)

	// Create persists a new inquiry.
	Create(ctx context.Context, inquiry *Inquiry) error

	// UpdateStatus moves an inquiry through its working states.
	UpdateStatus(ctx context.Context, id string, status Status) error
}
