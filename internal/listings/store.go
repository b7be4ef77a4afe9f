// Copyright (c) 2026 Choice Properties. All rights reserved.

package listings

import (
	"context"
)

// Repository defines the data access contract for listings.
type Repository interface {
	// FindByID returns the listing with the given ID.
	//
	// Returns [apperr.NotFound] if the listing does not exist or is
	// soft-deleted.
	FindByID(ctx context.Context, id string) (*Listing, error)

	// FindBySlug returns the listing with the given slug.
	FindBySlug(ctx context.Context, slug string) (*Listing, error)

	// List returns one page of listings matching the filter plus the total
	// match count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Listing, int, error)

	// Create persists a new listing.
	//
	// Returns [apperr.Conflict] if the slug is already taken.
	Create(ctx context.Context, listing *Listing) error

	// Update persists changes to a listing's mutable fields.
	Update(ctx context.Context, listing *Listing) error

	// SoftDelete marks the listing as deleted without removing the row,
	// preserving applications and inquiries that reference it.
	SoftDelete(ctx context.Context, id string) error
}
