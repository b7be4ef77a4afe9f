// Copyright (c) 2026 Choice Properties. All rights reserved.

package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/constants"
	"github.com/choiceproperties-source/choice/internal/platform/sec"
	"github.com/choiceproperties-source/choice/internal/platform/validate"
	"github.com/choiceproperties-source/choice/pkg/uuidv7"
)

// TokenProvider defines the contract for issuing access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT for the subject. The token
	// carries identity only; the subject's role is resolved per request by
	// the authorization layer.
	GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, error)
}

// RoleInvalidator evicts a subject's cached role after a role change.
//
// Implemented by [authz.Resolver]. Without the eviction a changed role
// would keep serving from cache until the entry's TTL lapsed.
type RoleInvalidator interface {
	InvalidateRole(subjectID string)
}

// TwoFactorReset drops a subject's two-factor verification mark.
type TwoFactorReset interface {
	ClearVerified(ctx context.Context, subjectID string) error
}

// Service implements the account lifecycle use cases.
type Service struct {
	accounts      AccountRepository
	sessions      SessionRepository
	tokenProvider TokenProvider
	roleCache     RoleInvalidator
	twoFactor     TwoFactorReset
}

// NewService constructs a Service with its dependencies.
func NewService(
	accountRepo AccountRepository,
	sessionRepo SessionRepository,
	tokenProvider TokenProvider,
	roleCache RoleInvalidator,
	twoFactor TwoFactorReset,
) *Service {
	return &Service{
		accounts:      accountRepo,
		sessions:      sessionRepo,
		tokenProvider: tokenProvider,
		roleCache:     roleCache,
		twoFactor:     twoFactor,
	}
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// Register validates, hashes, and persists a brand-new account.
//
// # Business Rules
//   - Emails must be unique.
//   - The default role is always renter; privileged roles are granted
//     later by an administrator.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	validator := &validate.Validator{}
	validator.
		Required("email", input.Email).
		Email("email", input.Email).
		Required("fullName", input.FullName).
		MaxLen("fullName", input.FullName, 120).
		MinLen("password", input.Password, 8)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 1. Uniqueness Check ───────────────────────────────────────────────

	if _, err := service.accounts.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("accounts_service_hash_failed: %w", err)
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	account := &Account{
		ID:           uuidv7.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Role:         authz.RoleRenter,
		IsVerified:   false,
	}

	if err := service.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("accounts_service_register_failed: %w", err)
	}

	return account, nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	Account               *Account
}

// Login validates credentials and issues an access/refresh token pair.
//
// A generic unauthorized error is returned for both unknown email and bad
// password, preventing account enumeration.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginSession, error) {
	account, err := service.accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issueSession(ctx, account, input.UserAgent, input.IPAddress)
}

// Logout revokes the session behind the given refresh token. Revoking an
// unknown or already-revoked token succeeds silently (idempotent).
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	session, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		return nil
	}

	if err := service.sessions.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("accounts_service_logout_failed: %w", err)
	}

	// A fresh login should require a fresh step-up challenge.
	if service.twoFactor != nil {
		_ = service.twoFactor.ClearVerified(ctx, session.UserID)
	}

	return nil
}

// RefreshSession rotates a refresh token: the presented token's session is
// revoked and a new token pair is issued, so a replayed old token fails.
func (service *Service) RefreshSession(ctx context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	session, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	if err := service.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("accounts_service_refresh_revoke_failed: %w", err)
	}

	account, err := service.accounts.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	return service.issueSession(ctx, account, userAgent, ipAddress)
}

// Profile returns the account behind the given subject id.
func (service *Service) Profile(ctx context.Context, accountID string) (*Account, error) {
	return service.accounts.FindByID(ctx, accountID)
}

// UpdateProfileInput holds mutable profile fields.
type UpdateProfileInput struct {
	FullName string
	Phone    string
}

// UpdateProfile updates the caller's own display fields.
func (service *Service) UpdateProfile(ctx context.Context, accountID string, input UpdateProfileInput) (*Account, error) {
	validator := &validate.Validator{}
	validator.
		Required("fullName", input.FullName).
		MaxLen("fullName", input.FullName, 120).
		MaxLen("phone", input.Phone, 32)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	account, err := service.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.FullName = input.FullName
	account.Phone = input.Phone
	if err := service.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// ChangePassword verifies the current password and replaces the hash. All
// sessions are revoked so stolen refresh tokens die with the old password.
func (service *Service) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	validator := &validate.Validator{}
	validator.MinLen("newPassword", newPassword, 8)
	if err := validator.Err(); err != nil {
		return err
	}

	account, err := service.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, account.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("accounts_service_rehash_failed: %w", err)
	}

	if err := service.accounts.UpdatePassword(ctx, accountID, newHash); err != nil {
		return err
	}

	if err := service.sessions.RevokeAll(ctx, accountID); err != nil {
		return fmt.Errorf("accounts_service_password_revoke_failed: %w", err)
	}

	return nil
}

// ChangeRole grants a new role to the target account.
//
// # Flow
//
//  1. Persist the new role.
//  2. Evict the cached role so the change takes effect on the subject's
//     next request rather than after the cache TTL.
//  3. Revoke the subject's sessions; their next access token is issued
//     against the new role context.
func (service *Service) ChangeRole(ctx context.Context, accountID string, role authz.Role) (*Account, error) {
	if !IsAssignable(role) {
		return nil, apperr.ValidationError(fmt.Sprintf("Role %q cannot be assigned", role))
	}

	if err := service.accounts.UpdateRole(ctx, accountID, role); err != nil {
		return nil, err
	}

	if service.roleCache != nil {
		service.roleCache.InvalidateRole(accountID)
	}

	if err := service.sessions.RevokeAll(ctx, accountID); err != nil {
		return nil, fmt.Errorf("accounts_service_role_revoke_failed: %w", err)
	}

	return service.accounts.FindByID(ctx, accountID)
}

// SetTwoFactor flips two-factor enrollment for the caller. Disabling also
// drops any live verification mark.
func (service *Service) SetTwoFactor(ctx context.Context, accountID string, enabled bool) error {
	if err := service.accounts.SetTwoFactorEnabled(ctx, accountID, enabled); err != nil {
		return err
	}

	if !enabled && service.twoFactor != nil {
		if err := service.twoFactor.ClearVerified(ctx, accountID); err != nil {
			return fmt.Errorf("accounts_service_twofactor_clear_failed: %w", err)
		}
	}

	return nil
}

// DeleteAccount soft-deletes the account and revokes all sessions.
func (service *Service) DeleteAccount(ctx context.Context, accountID string) error {
	if err := service.accounts.SoftDelete(ctx, accountID); err != nil {
		return err
	}

	if service.roleCache != nil {
		service.roleCache.InvalidateRole(accountID)
	}

	if err := service.sessions.RevokeAll(ctx, accountID); err != nil {
		return fmt.Errorf("accounts_service_delete_revoke_failed: %w", err)
	}

	return nil
}

// issueSession generates the access/refresh token pair and records the
// refresh session.
func (service *Service) issueSession(ctx context.Context, account *Account, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(account.ID, account.Email, constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("accounts_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("accounts_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(constants.RefreshTokenTTL)
	session := &Session{
		ID:        uuidv7.New(),
		UserID:    account.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("accounts_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		Account:               account,
	}, nil
}
