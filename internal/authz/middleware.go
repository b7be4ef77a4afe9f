// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz

import (
	"errors"
	"net/http"

	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/dberr"
	"github.com/choiceproperties-source/choice/internal/platform/respond"
	requestutil "github.com/choiceproperties-source/choice/internal/platform/request"
)

// # Authentication Gate

// Authenticate requires a valid bearer token and attaches the resolved
// [Identity] to the request context.
//
// # Flow
//
//  1. No token → 401 "Access token required".
//  2. Identity provider rejects the token → 401 "Invalid or expired token".
//  3. Unexpected internal fault (e.g. persistence unreachable during role
//     resolution) → 500 "Authentication failed".
//  4. Otherwise attach the identity and proceed.
func Authenticate(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, err := resolver.Resolve(request.Context(), BearerToken(request))
			if err != nil {
				switch {
				case errors.Is(err, ErrNoToken):
					respond.Error(writer, request, apperr.Unauthorized("Access token required"))
				case errors.Is(err, ErrInvalidToken):
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				default:
					respond.Error(writer, request, apperr.InternalMsg("Authentication failed", err))
				}
				return
			}

			ctx := WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Optional Authentication Gate

// OptionalAuthenticate performs the same resolution as [Authenticate] but
// proceeds regardless of the outcome, attaching an identity only when
// resolution succeeds.
//
// Used for endpoints that personalize behavior for logged-in users but also
// serve anonymous callers. Every failure here (missing token, invalid
// token, internal fault) is swallowed and the request proceeds anonymous;
// nothing is surfaced to the client.
func OptionalAuthenticate(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, err := resolver.Resolve(request.Context(), BearerToken(request))
			if err != nil || identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Role Gate

// RequireRole requires the attached identity's role to be literally in the
// allowed set.
//
// # Strictness
//
// This is a set-membership check, not a hierarchy-rank comparison: a
// higher-ranked role that is not explicitly listed is still rejected, so
// routes declare exactly who may use them. (Contrast with
// [RequireOwnership], where admin is an explicit universal bypass.)
//
// Must be chained after [Authenticate]; an absent identity fails 401.
func RequireRole(allowed ...Role) func(http.Handler) http.Handler {
	allowedSet := make(map[Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := IdentityFrom(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if _, ok := allowedSet[identity.Role]; !ok {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Ownership Gate

// RequireOwnership requires the caller to be an administrator or the
// recorded owner of the resource instance named by the "id" path parameter.
//
// # Flow
//
//  1. No attached identity → 401 "Authentication required".
//  2. Administrators bypass unconditionally, before the resource fetch,
//     so an admin is never blocked by a missing row.
//  3. Fetch the resource type's owner column. No row → 404 "<Type> not
//     found"; persistence fault → 500 "Failed to verify ownership".
//  4. Owner field ≠ caller's subject id → 403 "You do not own this
//     resource". For the user type the row's own id is the owner: a user
//     owns themself.
//
// The read is point-in-time; no lock is held across the downstream
// handler's mutation (accepted time-of-check/time-of-use gap).
func RequireOwnership(store OwnershipStore, resourceType ResourceType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := IdentityFrom(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if identity.IsAdmin() {
				next.ServeHTTP(writer, request)
				return
			}

			resourceID := requestutil.ID(request)

			ownerID, err := store.GetResourceOwner(request.Context(), resourceType, resourceID)
			if err != nil {
				if dberr.IsNotFound(err) {
					respond.Error(writer, request, apperr.NotFound(resourceType.DisplayName()))
					return
				}
				respond.Error(writer, request, apperr.InternalMsg("Failed to verify ownership", err))
				return
			}

			if ownerID != identity.UserID {
				respond.Error(writer, request, apperr.Forbidden("You do not own this resource"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
