// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package twofactor tracks per-account two-factor enrollment and per-session
verification state.

Enrollment (has the account opted in?) lives in PostgreSQL alongside the
account row. Verification (has this session completed a challenge?) is
volatile and lives in Redis with a TTL, so a restart or expiry forces a
fresh challenge. The Hydrate middleware stitches both onto the request
identity before the step-up gate runs.
*/
package twofactor

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/constants"
)

// StateReader is the view of two-factor state the Hydrate middleware needs.
type StateReader interface {
	// Enabled reports whether the account has opted into two-factor
	// authentication.
	Enabled(ctx context.Context, subjectID string) (bool, error)

	// Verified reports whether the subject's current session has completed
	// a two-factor challenge.
	Verified(ctx context.Context, subjectID string) (bool, error)
}

// Store reads enrollment from PostgreSQL and verification state from Redis.
type Store struct {
	pool  *pgxpool.Pool
	cache *redis.Client
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool, cache *redis.Client) *Store {
	return &Store{pool: pool, cache: cache}
}

// Enabled reports whether the account has opted into two-factor
// authentication. A missing account row reads as not enrolled.
func (s *Store) Enabled(ctx context.Context, subjectID string) (bool, error) {
	const query = `
		SELECT twofactorenabled
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	var enabled bool
	if err := s.pool.QueryRow(ctx, query, subjectID).Scan(&enabled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return enabled, nil
}

// MarkVerified records that the subject's current session has passed a
// two-factor challenge. The mark expires after the configured state TTL.
func (s *Store) MarkVerified(ctx context.Context, subjectID string) error {
	key := constants.RedisPrefixTwoFactor + subjectID
	return s.cache.Set(ctx, key, "1", constants.TwoFactorStateTTL).Err()
}

// Verified reports whether the subject currently holds a verification mark.
func (s *Store) Verified(ctx context.Context, subjectID string) (bool, error) {
	key := constants.RedisPrefixTwoFactor + subjectID
	_, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// ClearVerified drops the subject's verification mark, forcing a fresh
// challenge on the next protected request. Called on logout and on
// enrollment changes.
func (s *Store) ClearVerified(ctx context.Context, subjectID string) error {
	key := constants.RedisPrefixTwoFactor + subjectID
	return s.cache.Del(ctx, key).Err()
}

// # Challenge Codes

// ErrChallengeInvalid is returned when a presented code does not match the
// subject's outstanding challenge, or no challenge is outstanding.
var ErrChallengeInvalid = errors.New("twofactor: invalid or expired challenge code")

// CreateChallenge issues a fresh six-digit one-time code for the subject
// and stores it with a short TTL. Re-issuing replaces any outstanding code.
//
// Delivery (email, SMS) happens out of band; the code is returned to the
// caller for handoff to the notification channel, never to the client.
func (s *Store) CreateChallenge(ctx context.Context, subjectID string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	key := constants.RedisPrefixTwoFactorChallenge + subjectID
	if err := s.cache.Set(ctx, key, code, constants.TwoFactorChallengeTTL).Err(); err != nil {
		return "", fmt.Errorf("twofactor: failed to store challenge: %w", err)
	}

	return code, nil
}

// VerifyChallenge redeems a challenge code. On success the code is consumed
// and the subject's verification mark is set.
func (s *Store) VerifyChallenge(ctx context.Context, subjectID, code string) error {
	key := constants.RedisPrefixTwoFactorChallenge + subjectID

	stored, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrChallengeInvalid
		}
		return fmt.Errorf("twofactor: challenge lookup failed: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrChallengeInvalid
	}

	if err := s.cache.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("twofactor: challenge consume failed: %w", err)
	}

	return s.MarkVerified(ctx, subjectID)
}

// generateCode returns a uniformly random six-digit code.
func generateCode() (string, error) {
	upper := big.NewInt(1000000)
	value, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("twofactor: failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", value.Int64()), nil
}

// Hydrate enriches the attached identity with two-factor state.
//
// It replaces the context identity with a copy carrying the enrollment and
// verification flags; the original identity value is never mutated. Lookup
// failures degrade to "enabled, unverified" when enrollment is known and
// to a pass-through otherwise, so the step-up gate stays fail-closed for
// enrolled accounts without taking anonymous traffic down with it.
//
// Chain it between the authentication gate and [authz.RequireTwoFactor].
func Hydrate(store StateReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := authz.IdentityFrom(request.Context())
			if identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			enabled, err := store.Enabled(request.Context(), identity.UserID)
			if err != nil || !enabled {
				next.ServeHTTP(writer, request)
				return
			}

			verified, err := store.Verified(request.Context(), identity.UserID)
			if err != nil {
				verified = false
			}

			enriched := *identity
			enriched.TwoFactorEnabled = true
			enriched.TwoFactorVerified = verified

			ctx := authz.WithIdentity(request.Context(), &enriched)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
