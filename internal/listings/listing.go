// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package listings manages property listings: the inventory side of the
marketplace.

# Access Control

Every mutating route is guarded by the authorization layer before a handler
in this package runs: authentication, the property-edit capability, the
tenant blocklist, and instance ownership. Handlers therefore assume a
vetted caller and do not re-check roles.
*/
package listings

import (
	"time"
)

// ListingType distinguishes rental inventory from sale inventory.
type ListingType string

const (
	ListingRent ListingType = "rent"
	ListingSale ListingType = "sale"
)

// Status is the lifecycle state of a listing.
type Status string

const (
	StatusDraft    Status = "draft"    // Visible only to the owner.
	StatusActive   Status = "active"   // Publicly listed.
	StatusArchived Status = "archived" // Withdrawn, kept for history.
)

// Listing represents a property offered for rent or sale.
//
// # Rules
//   - Slug is unique and derived from the title at creation.
//   - OwnerID is set from the authenticated caller and never writable
//     through the API.
type Listing struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"ownerId"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description,omitempty"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	PriceCents  int64       `json:"priceCents"`
	Bedrooms    int         `json:"bedrooms"`
	Bathrooms   int         `json:"bathrooms"`
	Type        ListingType `json:"type"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Filter narrows listing queries.
type Filter struct {
	City    string
	Type    ListingType
	Status  Status
	OwnerID string
}
