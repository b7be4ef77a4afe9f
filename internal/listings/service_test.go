// Copyright (c) 2026 Choice Properties. All rights reserved.

package listings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiceproperties-source/choice/internal/listings"
	"github.com/choiceproperties-source/choice/internal/platform/apperr"
)

// memRepo is an in-memory listings.Repository.
type memRepo struct {
	byID map[string]*listings.Listing
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]*listings.Listing{}}
}

func (m *memRepo) FindByID(_ context.Context, id string) (*listings.Listing, error) {
	listing, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("Property")
	}
	clone := *listing
	return &clone, nil
}

func (m *memRepo) FindBySlug(_ context.Context, slug string) (*listings.Listing, error) {
	for _, listing := range m.byID {
		if listing.Slug == slug {
			clone := *listing
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Property")
}

func (m *memRepo) List(_ context.Context, filter listings.Filter, limit, offset int) ([]*listings.Listing, int, error) {
	matched := []*listings.Listing{}
	for _, listing := range m.byID {
		if filter.OwnerID != "" && listing.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && listing.Status != filter.Status {
			continue
		}
		if filter.City != "" && listing.City != filter.City {
			continue
		}
		clone := *listing
		matched = append(matched, &clone)
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

func (m *memRepo) Create(_ context.Context, listing *listings.Listing) error {
	clone := *listing
	m.byID[listing.ID] = &clone
	return nil
}

func (m *memRepo) Update(_ context.Context, listing *listings.Listing) error {
	if _, ok := m.byID[listing.ID]; !ok {
		return apperr.NotFound("Property")
	}
	clone := *listing
	m.byID[listing.ID] = &clone
	return nil
}

func (m *memRepo) SoftDelete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound("Property")
	}
	delete(m.byID, id)
	return nil
}

func validInput() listings.CreateInput {
	return listings.CreateInput{
		Title:      "Sunny 2BR Apartment, Midtown",
		Address:    "12 Main Street",
		City:       "Austin",
		PriceCents: 185000,
		Bedrooms:   2,
		Bathrooms:  1,
		Type:       listings.ListingRent,
	}
}

func TestService_Create(t *testing.T) {
	service := listings.NewService(newMemRepo())

	listing, err := service.Create(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	assert.Equal(t, "owner-1", listing.OwnerID)
	assert.Equal(t, "sunny-2br-apartment-midtown", listing.Slug)
	assert.Equal(t, listings.StatusDraft, listing.Status, "new listings start as drafts")
}

func TestService_Create_SlugCollision(t *testing.T) {
	service := listings.NewService(newMemRepo())

	first, err := service.Create(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	second, err := service.Create(context.Background(), "owner-2", validInput())
	require.NoError(t, err)

	assert.Equal(t, "sunny-2br-apartment-midtown", first.Slug)
	assert.Equal(t, "sunny-2br-apartment-midtown-2", second.Slug)
}

func TestService_Create_Validation(t *testing.T) {
	service := listings.NewService(newMemRepo())

	_, err := service.Create(context.Background(), "owner-1", listings.CreateInput{
		Title:      "",
		City:       "Austin",
		PriceCents: -5,
		Type:       "timeshare",
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	assert.NotEmpty(t, appError.Details)
}

func TestService_Update(t *testing.T) {
	repo := newMemRepo()
	service := listings.NewService(repo)

	listing, err := service.Create(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), listing.ID, listings.UpdateInput{
		Title:      "Sunny 2BR Apartment, Midtown",
		Address:    "12 Main Street",
		City:       "Austin",
		PriceCents: 195000,
		Bedrooms:   2,
		Bathrooms:  1,
		Type:       listings.ListingRent,
		Status:     listings.StatusActive,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(195000), updated.PriceCents)
	assert.Equal(t, listings.StatusActive, updated.Status)
	assert.Equal(t, listing.Slug, updated.Slug, "slug is immutable")
}

func TestService_Get(t *testing.T) {
	service := listings.NewService(newMemRepo())

	listing, err := service.Create(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	t.Run("by_id", func(t *testing.T) {
		found, err := service.Get(context.Background(), listing.ID)
		require.NoError(t, err)
		assert.Equal(t, listing.ID, found.ID)
	})

	t.Run("by_slug", func(t *testing.T) {
		found, err := service.Get(context.Background(), listing.Slug)
		require.NoError(t, err)
		assert.Equal(t, listing.ID, found.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := service.Get(context.Background(), "no-such-listing")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 404, appError.HTTPStatus)
	})
}

func TestService_ListMineFilter(t *testing.T) {
	service := listings.NewService(newMemRepo())

	_, err := service.Create(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	other := validInput()
	other.Title = "Lakeview Cottage"
	_, err = service.Create(context.Background(), "owner-2", other)
	require.NoError(t, err)

	mine, total, err := service.List(context.Background(), listings.Filter{OwnerID: "owner-1"}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, "owner-1", mine[0].OwnerID)
}
