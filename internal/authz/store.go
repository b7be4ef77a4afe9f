// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz

import (
	"context"

	"github.com/choiceproperties-source/choice/internal/platform/sec"
)

// # Collaborator Interfaces
//
// The gates treat persistence and the identity provider as narrow external
// collaborators. Defining the interfaces here decouples the middleware from
// concrete implementations and lets tests inject fakes per case.

// TokenVerifier validates a bearer token with the identity provider and
// returns the verified subject. The token contents are opaque to this layer.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.SubjectClaims, error)
}

// RoleStore resolves a subject's stored application role.
//
// A missing row is signaled with an error satisfying [dberr.IsNotFound];
// any other error is a transient persistence fault.
type RoleStore interface {
	GetUserRole(ctx context.Context, subjectID string) (Role, error)
}

// OwnershipStore fetches the ownership-relevant field for a protected
// resource instance.
//
// The returned value is the owning subject id for the resource type's
// configured owner column. A missing row is signaled with an error
// satisfying [dberr.IsNotFound].
type OwnershipStore interface {
	GetResourceOwner(ctx context.Context, resourceType ResourceType, resourceID string) (string, error)
}

// SecurityAuditor records security-relevant denials.
//
// Implementations must be fire-and-forget: recording failures are logged
// internally and never propagate to the request path.
type SecurityAuditor interface {
	LogSecurityEvent(ctx context.Context, event SecurityEvent)
}

// SecurityEvent describes one security-relevant decision.
type SecurityEvent struct {
	// SubjectID is the acting subject, empty for anonymous callers.
	SubjectID string

	// Kind classifies the event (e.g. "property_edit_denied").
	Kind string

	// Success is false for denials.
	Success bool

	// Detail is a short human-readable reason.
	Detail string

	// Role is the subject's role at decision time.
	Role Role

	// Path and Method locate the attempted request.
	Path   string
	Method string
}
