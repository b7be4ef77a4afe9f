// Copyright (c) 2026 Choice Properties. All rights reserved.

package listings

import (
	"context"
	"fmt"

	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/dberr"
	"github.com/choiceproperties-source/choice/internal/platform/validate"
	"github.com/choiceproperties-source/choice/pkg/slug"
	"github.com/choiceproperties-source/choice/pkg/uuidv7"
)

// Service implements listing use cases.
type Service struct {
	listings Repository
}

// NewService constructs a Service.
func NewService(repository Repository) *Service {
	return &Service{listings: repository}
}

// CreateInput holds the fields a caller may set when creating a listing.
type CreateInput struct {
	Title       string
	Description string
	Address     string
	City        string
	PriceCents  int64
	Bedrooms    int
	Bathrooms   int
	Type        ListingType
}

func validateCore(validator *validate.Validator, input CreateInput) {
	validator.
		Required("title", input.Title).
		MaxLen("title", input.Title, 160).
		Required("address", input.Address).
		Required("city", input.City).
		OneOf("type", string(input.Type), string(ListingRent), string(ListingSale)).
		Custom("priceCents", input.PriceCents <= 0, "Price must be positive").
		Custom("bedrooms", input.Bedrooms < 0, "Cannot be negative").
		Custom("bathrooms", input.Bathrooms < 0, "Cannot be negative")
}

// Create validates and persists a new listing owned by ownerID.
//
// The slug is derived from the title; a numeric suffix disambiguates
// collisions so two "Sunny 2BR" listings can coexist.
func (service *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*Listing, error) {
	validator := &validate.Validator{}
	validateCore(validator, input)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	uniqueSlug, err := service.uniqueSlug(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		ID:          uuidv7.New(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Slug:        uniqueSlug,
		Description: input.Description,
		Address:     input.Address,
		City:        input.City,
		PriceCents:  input.PriceCents,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Type:        input.Type,
		Status:      StatusDraft,
	}

	if err := service.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("listings_service_create_failed: %w", err)
	}

	return listing, nil
}

// UpdateInput holds the fields a caller may change after creation. The
// slug is immutable so shared links never break.
type UpdateInput struct {
	Title       string
	Description string
	Address     string
	City        string
	PriceCents  int64
	Bedrooms    int
	Bathrooms   int
	Type        ListingType
	Status      Status
}

// Update validates and persists changes to an existing listing.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Listing, error) {
	validator := &validate.Validator{}
	validateCore(validator, CreateInput{
		Title:      input.Title,
		Address:    input.Address,
		City:       input.City,
		PriceCents: input.PriceCents,
		Bedrooms:   input.Bedrooms,
		Bathrooms:  input.Bathrooms,
		Type:       input.Type,
	})
	validator.OneOf("status", string(input.Status), string(StatusDraft), string(StatusActive), string(StatusArchived))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	listing, err := service.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	listing.Title = input.Title
	listing.Description = input.Description
	listing.Address = input.Address
	listing.City = input.City
	listing.PriceCents = input.PriceCents
	listing.Bedrooms = input.Bedrooms
	listing.Bathrooms = input.Bathrooms
	listing.Type = input.Type
	listing.Status = input.Status

	if err := service.listings.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// Get returns a listing by ID or slug. Identifiers are UUIDs; anything
// else is treated as a slug.
func (service *Service) Get(ctx context.Context, identifier string) (*Listing, error) {
	probe := &validate.Validator{}
	if probe.UUID("identifier", identifier); !probe.HasErrors() {
		return service.listings.FindByID(ctx, identifier)
	}
	return service.listings.FindBySlug(ctx, identifier)
}

// List returns one filtered page of listings plus the total count.
func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Listing, int, error) {
	return service.listings.List(ctx, filter, limit, offset)
}

// Delete soft-deletes a listing.
func (service *Service) Delete(ctx context.Context, id string) error {
	return service.listings.SoftDelete(ctx, id)
}

// HandlingAgent returns the subject responsible for inquiries about a
// property: its owner. Only active listings take inquiries.
func (service *Service) HandlingAgent(ctx context.Context, propertyID string) (string, error) {
	listing, err := service.listings.FindByID(ctx, propertyID)
	if err != nil {
		return "", err
	}

	if listing.Status != StatusActive {
		return "", apperr.Unprocessable("Property is not accepting inquiries")
	}

	return listing.OwnerID, nil
}

// AcceptsApplications reports whether a property can take rental
// applications: it must exist, be active, and be rental inventory.
func (service *Service) AcceptsApplications(ctx context.Context, propertyID string) error {
	listing, err := service.listings.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}

	if listing.Status != StatusActive {
		return apperr.Unprocessable("Property is not accepting applications")
	}
	if listing.Type != ListingRent {
		return apperr.Unprocessable("Property is not offered for rent")
	}

	return nil
}

// uniqueSlug derives a slug from the title and suffixes it until free.
func (service *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.From(title)
	if base == "" {
		base = "listing"
	}

	candidate := base
	for attempt := 2; ; attempt++ {
		_, err := service.listings.FindBySlug(ctx, candidate)
		if err != nil {
			// A missing slug is exactly what we want.
			if dberr.IsNotFound(err) {
				return candidate, nil
			}
			return "", fmt.Errorf("listings_service_slug_probe_failed: %w", err)
		}
		if attempt > 50 {
			return "", fmt.Errorf("listings_service_slug_exhausted: %q", base)
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
}
