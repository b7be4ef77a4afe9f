// Copyright (c) 2026 Choice Properties. All rights reserved.

package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/dberr"
)

// PostgresStore implements [AccountRepository] and [SessionRepository]
// against the users schema.
//
// # Error Mapping
//
// Storage errors (like pgx.ErrNoRows) are mapped to [apperr.AppError]
// values so handlers never see driver details.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the PostgreSQL account store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const accountColumns = `id, email, passwordhash, fullname, phone, role, twofactorenabled, isverified, createdat, updatedat`

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.FullName,
		&account.Phone,
		&account.Role,
		&account.TwoFactorEnabled,
		&account.IsVerified,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// FindByID retrieves an account by its primary key.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	account, err := scanAccount(store.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("accounts_find_by_id_failed: %w", err)
	}

	return account, nil
}

// FindByEmail retrieves an account by its unique email address.
func (store *PostgresStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE email = $1 AND deletedat IS NULL`

	account, err := scanAccount(store.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("accounts_find_by_email_failed: %w", err)
	}

	return account, nil
}

// Create persists a new account row.
func (store *PostgresStore) Create(ctx context.Context, account *Account) error {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash, fullname, phone, role, twofactorenabled, isverified, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FullName,
		account.Phone,
		account.Role,
		account.TwoFactorEnabled,
		account.IsVerified,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	return nil
}

// Update persists mutable profile fields.
func (store *PostgresStore) Update(ctx context.Context, account *Account) error {
	const query = `
		UPDATE users.account
		SET fullname = $2, phone = $3, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := store.pool.Exec(ctx, query, account.ID, account.FullName, account.Phone)
	if err != nil {
		return fmt.Errorf("accounts_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// UpdatePassword replaces only the password hash.
func (store *PostgresStore) UpdatePassword(ctx context.Context, accountID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := store.pool.Exec(ctx, query, accountID, newHash)
	if err != nil {
		return fmt.Errorf("accounts_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// UpdateRole replaces the persisted role value.
func (store *PostgresStore) UpdateRole(ctx context.Context, accountID string, role authz.Role) error {
	const query = `
		UPDATE users.account
		SET role = $2, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := store.pool.Exec(ctx, query, accountID, role)
	if err != nil {
		return fmt.Errorf("accounts_update_role_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// SetTwoFactorEnabled flips two-factor enrollment.
func (store *PostgresStore) SetTwoFactorEnabled(ctx context.Context, accountID string, enabled bool) error {
	const query = `
		UPDATE users.account
		SET twofactorenabled = $2, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := store.pool.Exec(ctx, query, accountID, enabled)
	if err != nil {
		return fmt.Errorf("accounts_set_twofactor_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// SoftDelete marks the account as deleted without removing the row.
func (store *PostgresStore) SoftDelete(ctx context.Context, id string) error {
	const query = `
		UPDATE users.account
		SET deletedat = NOW(), updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := store.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("accounts_soft_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// # Sessions

// PostgresSessionStore implements [SessionRepository].
type PostgresSessionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionStore creates the PostgreSQL session store.
func NewPostgresSessionStore(pool *pgxpool.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

// Create persists a new refresh-token session.
func (store *PostgresSessionStore) Create(ctx context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (
			id, userid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := store.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("accounts_session_create_failed: %w", err)
	}

	return nil
}

// FindByTokenHash returns the live session for a hashed refresh token.
func (store *PostgresSessionStore) FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	const query = `
		SELECT id, userid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		FROM users.session
		WHERE tokenhash = $1 AND isrevoked = FALSE AND expiresat > NOW()`

	session := &Session{}
	err := store.pool.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("accounts_session_find_failed: %w", err)
	}

	return session, nil
}

// Revoke marks one session as invalidated.
func (store *PostgresSessionStore) Revoke(ctx context.Context, sessionID string) error {
	const query = `UPDATE users.session SET isrevoked = TRUE WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("accounts_session_revoke_failed: %w", err)
	}

	return nil
}

// RevokeAll invalidates every active session for the account.
func (store *PostgresSessionStore) RevokeAll(ctx context.Context, accountID string) error {
	const query = `UPDATE users.session SET isrevoked = TRUE WHERE userid = $1 AND isrevoked = FALSE`

	if _, err := store.pool.Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("accounts_session_revoke_all_failed: %w", err)
	}

	return nil
}

// DeleteExpired removes sessions past their expiry.
func (store *PostgresSessionStore) DeleteExpired(ctx context.Context) error {
	const query = `DELETE FROM users.session WHERE expiresat < NOW()`

	if _, err := store.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("accounts_session_cleanup_failed: %w", err)
	}

	return nil
}
