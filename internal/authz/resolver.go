// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/choiceproperties-source/choice/internal/platform/cache"
	"github.com/choiceproperties-source/choice/internal/platform/constants"
	"github.com/choiceproperties-source/choice/internal/platform/dberr"
)

// # Resolution Errors

var (
	// ErrNoToken signals that the request carried no bearer token. This is
	// not a fault: the authentication gates decide whether it is fatal.
	ErrNoToken = errors.New("authz: no access token")

	// ErrInvalidToken signals that the identity provider rejected the token.
	ErrInvalidToken = errors.New("authz: invalid or expired token")
)

// # Identity Resolver

// Resolver turns a raw bearer token into a resolved [Identity].
//
// It is the only component that talks to the identity provider and the role
// cache. The cache is constructor-injected rather than process-global so
// tests can supply an isolated instance per case.
type Resolver struct {
	verifier TokenVerifier
	roles    RoleStore
	cache    *cache.Cache[Role]
}

// NewResolver constructs a Resolver.
func NewResolver(verifier TokenVerifier, roles RoleStore, roleCache *cache.Cache[Role]) *Resolver {
	return &Resolver{
		verifier: verifier,
		roles:    roles,
		cache:    roleCache,
	}
}

// Resolve authenticates the bearer token and resolves the subject's role.
//
// # Flow
//
//  1. Empty token → [ErrNoToken] (callers decide whether that's fatal).
//  2. Identity-provider verification failure → [ErrInvalidToken].
//  3. Role from cache ("user_role:" + subject id), else from persistence.
//  4. A subject with no persisted role row defaults to "renter". The
//     resolved-or-default role is cached for the role-cache TTL either way,
//     so unresolvable subjects are not re-queried on every request.
//
// A transient persistence fault is returned as-is (fail closed): only a
// genuinely-absent row coerces to the renter default. Note the consequence:
// a subject whose persisted role really is "renter" is indistinguishable
// from the fallback once cached.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	claims, err := r.verifier.VerifyToken(token)
	if err != nil || claims == nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	cacheKey := constants.RoleCacheKeyPrefix + claims.UserID

	role, ok := r.cache.Get(cacheKey)
	if !ok {
		role, err = r.roles.GetUserRole(ctx, claims.UserID)
		if err != nil {
			if !dberr.IsNotFound(err) {
				return nil, fmt.Errorf("authz: role lookup failed: %w", err)
			}
			role = RoleRenter
		}
		r.cache.Set(cacheKey, role, constants.RoleCacheTTL)
	}

	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}

// InvalidateRole evicts a subject's cached role, forcing the next request
// to re-read it from persistence. Called after role changes.
func (r *Resolver) InvalidateRole(subjectID string) {
	r.cache.Invalidate(constants.RoleCacheKeyPrefix + subjectID)
}

// BearerToken extracts the bearer token from an Authorization header.
// It returns "" when the header is absent or not a bearer scheme.
func BearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
