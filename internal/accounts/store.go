// Copyright (c) 2026 Choice Properties. All rights reserved.

package accounts

import (
	"context"

	"github.com/choiceproperties-source/choice/internal/authz"
)

// AccountRepository defines the data access contract for user accounts.
//
// # Implementations
//
// The canonical implementation is PostgreSQL ([NewPostgresStore]). Tests
// substitute in-memory fakes.
type AccountRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist or is
	// soft-deleted.
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no account is registered with it.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// Create persists a brand-new account.
	//
	// Returns [apperr.Conflict] if the email is already registered.
	Create(ctx context.Context, account *Account) error

	// Update persists changes to mutable profile fields (FullName, Phone).
	// Passwords move through [AccountRepository.UpdatePassword]; roles
	// through [AccountRepository.UpdateRole].
	Update(ctx context.Context, account *Account) error

	// UpdatePassword replaces only the password hash. Kept separate from
	// [AccountRepository.Update] so profile edits cannot clobber it.
	UpdatePassword(ctx context.Context, accountID, newHash string) error

	// UpdateRole replaces the persisted role. Callers must also invalidate
	// the authorization layer's cached role for the account.
	UpdateRole(ctx context.Context, accountID string, role authz.Role) error

	// SetTwoFactorEnabled flips two-factor enrollment for the account.
	SetTwoFactorEnabled(ctx context.Context, accountID string, enabled bool) error

	// SoftDelete marks the account as deleted without removing the row,
	// preserving listings and applications it relates to.
	SoftDelete(ctx context.Context, id string) error
}

// SessionRepository defines the data access contract for refresh-token
// sessions.
type SessionRepository interface {
	// Create persists a new session for an authenticated login.
	Create(ctx context.Context, session *Session) error

	// FindByTokenHash returns the active session matching the token hash.
	//
	// Returns [apperr.NotFound] if the session is missing, expired, or
	// revoked.
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Revoke marks a single session as permanently invalidated.
	Revoke(ctx context.Context, sessionID string) error

	// RevokeAll revokes every active session belonging to the account.
	// Used on password change and role change.
	RevokeAll(ctx context.Context, accountID string) error

	// DeleteExpired physically removes sessions past their expiry. Run by
	// the periodic cleanup worker.
	DeleteExpired(ctx context.Context) error
}
