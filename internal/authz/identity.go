// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz

import (
	"context"

	"github.com/choiceproperties-source/choice/internal/platform/ctxkey"
)

// # Identity

// Identity is the result of successful authentication for one request.
//
// It is constructed fresh on every request by the [Resolver], attached to
// the request context by the authentication gates, and discarded when the
// request ends. It is written once and only read thereafter; the sole
// exception is the two-factor middleware, which replaces the attached
// identity with an enriched copy before the step-up gate runs.
type Identity struct {
	// UserID is the opaque subject id, stable per account.
	UserID string

	// Email is carried for display and logging only. It is never an input
	// to an authorization decision.
	Email string

	// Role is the resolved application role.
	Role Role

	// TwoFactorEnabled reports that the account has opted into two-factor
	// authentication. Unset unless hydrated by the two-factor middleware.
	TwoFactorEnabled bool

	// TwoFactorVerified reports that the current session has completed a
	// two-factor challenge. Unset unless hydrated.
	TwoFactorVerified bool
}

// IsAdmin reports whether the identity carries the administrator role.
func (i *Identity) IsAdmin() bool {
	return i != nil && IsAdminOnly(i.Role)
}

// # Context Attachment

// WithIdentity returns a new context with the identity attached.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, ctxkey.KeyIdentity, identity)
}

// IdentityFrom retrieves the attached [*Identity], or nil for anonymous
// requests.
func IdentityFrom(ctx context.Context) *Identity {
	identity, ok := ctx.Value(ctxkey.KeyIdentity).(*Identity)
	if !ok {
		return nil
	}
	return identity
}

// # Protected Resources

// ResourceType tags a protected resource class for ownership checks.
type ResourceType string

const (
	ResourceProperty    ResourceType = "property"
	ResourceApplication ResourceType = "application"
	ResourceReview      ResourceType = "review"
	ResourceInquiry     ResourceType = "inquiry"
	ResourceSavedSearch ResourceType = "saved_search"
	ResourceFavorite    ResourceType = "favorite"
	ResourceUser        ResourceType = "user"
)

// DisplayName returns the client-facing name used in "<Type> not found"
// error messages.
func (rt ResourceType) DisplayName() string {
	switch rt {
	case ResourceProperty:
		return "Property"
	case ResourceApplication:
		return "Application"
	case ResourceReview:
		return "Review"
	case ResourceInquiry:
		return "Inquiry"
	case ResourceSavedSearch:
		return "Saved search"
	case ResourceFavorite:
		return "Favorite"
	case ResourceUser:
		return "User"
	default:
		return "Resource"
	}
}
