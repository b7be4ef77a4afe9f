// Copyright (c) 2026 Choice Properties. All rights reserved.

package twofactor_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/constants"
	"github.com/choiceproperties-source/choice/internal/twofactor"
)

func newStore(t *testing.T) (*twofactor.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return twofactor.NewStore(nil, client), mr
}

func TestStore_VerificationRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	verified, err := store.Verified(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, verified, "no mark yet")

	require.NoError(t, store.MarkVerified(ctx, "u1"))

	verified, err = store.Verified(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, verified)

	// Marks are per subject.
	verified, err = store.Verified(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestStore_ClearVerified(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.MarkVerified(ctx, "u1"))
	require.NoError(t, store.ClearVerified(ctx, "u1"))

	verified, err := store.Verified(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestStore_MarkExpires(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.MarkVerified(ctx, "u1"))

	// The mark carries the configured TTL; advance past it.
	mr.FastForward(constants.TwoFactorStateTTL + 1)

	verified, err := store.Verified(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, verified, "expired mark must read as unverified")
}

func TestStore_ChallengeFlow(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	code, err := store.CreateChallenge(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, code, 6)

	t.Run("wrong_code_rejected", func(t *testing.T) {
		err := store.VerifyChallenge(ctx, "u1", "999999x")
		assert.ErrorIs(t, err, twofactor.ErrChallengeInvalid)
	})

	t.Run("other_subject_rejected", func(t *testing.T) {
		err := store.VerifyChallenge(ctx, "u2", code)
		assert.ErrorIs(t, err, twofactor.ErrChallengeInvalid)
	})

	t.Run("correct_code_sets_mark_and_consumes", func(t *testing.T) {
		require.NoError(t, store.VerifyChallenge(ctx, "u1", code))

		verified, err := store.Verified(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, verified)

		// One-time: replaying the same code fails.
		assert.ErrorIs(t, store.VerifyChallenge(ctx, "u1", code), twofactor.ErrChallengeInvalid)
	})
}

func TestStore_ChallengeExpires(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	code, err := store.CreateChallenge(ctx, "u1")
	require.NoError(t, err)

	mr.FastForward(constants.TwoFactorChallengeTTL + 1)

	assert.ErrorIs(t, store.VerifyChallenge(ctx, "u1", code), twofactor.ErrChallengeInvalid)
}

// fakeState stubs StateReader for the middleware tests.
type fakeState struct {
	enabled     bool
	verified    bool
	enabledErr  error
	verifiedErr error
}

func (f *fakeState) Enabled(context.Context, string) (bool, error) {
	return f.enabled, f.enabledErr
}

func (f *fakeState) Verified(context.Context, string) (bool, error) {
	return f.verified, f.verifiedErr
}

func hydratedIdentity(t *testing.T, identity *authz.Identity, state twofactor.StateReader) *authz.Identity {
	t.Helper()

	var seen *authz.Identity
	handler := twofactor.Hydrate(state)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = authz.IdentityFrom(request.Context())
		writer.WriteHeader(http.StatusOK)
		require.NoError(t, json.NewEncoder(writer).Encode(map[string]bool{"ok": true}))
	}))

	request := httptest.NewRequest("GET", "/account/export", nil)
	if identity != nil {
		request = request.WithContext(authz.WithIdentity(request.Context(), identity))
	}
	handler.ServeHTTP(httptest.NewRecorder(), request)
	return seen
}

func TestHydrate(t *testing.T) {
	t.Run("anonymous_passes_through", func(t *testing.T) {
		seen := hydratedIdentity(t, nil, &fakeState{enabled: true, verified: true})
		assert.Nil(t, seen)
	})

	t.Run("not_enrolled_left_untouched", func(t *testing.T) {
		identity := &authz.Identity{UserID: "u1", Role: authz.RoleRenter}
		seen := hydratedIdentity(t, identity, &fakeState{enabled: false})

		require.NotNil(t, seen)
		assert.False(t, seen.TwoFactorEnabled)
		assert.False(t, seen.TwoFactorVerified)
	})

	t.Run("enrolled_and_verified", func(t *testing.T) {
		identity := &authz.Identity{UserID: "u1", Role: authz.RoleAgent}
		seen := hydratedIdentity(t, identity, &fakeState{enabled: true, verified: true})

		require.NotNil(t, seen)
		assert.True(t, seen.TwoFactorEnabled)
		assert.True(t, seen.TwoFactorVerified)

		// The original identity value is never mutated.
		assert.False(t, identity.TwoFactorEnabled)
	})

	t.Run("verification_lookup_fault_reads_unverified", func(t *testing.T) {
		identity := &authz.Identity{UserID: "u1", Role: authz.RoleAgent}
		seen := hydratedIdentity(t, identity, &fakeState{enabled: true, verifiedErr: errors.New("redis down")})

		require.NotNil(t, seen)
		assert.True(t, seen.TwoFactorEnabled)
		assert.False(t, seen.TwoFactorVerified, "enrolled accounts fail closed")
	})
}

// TestHydrate_FeedsStepUpGate chains hydration into the step-up gate the
// way protected routes do.
func TestHydrate_FeedsStepUpGate(t *testing.T) {
	identity := &authz.Identity{UserID: "u1", Role: authz.RoleAgent}

	run := func(state twofactor.StateReader) *httptest.ResponseRecorder {
		handler := twofactor.Hydrate(state)(
			authz.RequireTwoFactor()(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusOK)
			})),
		)

		request := httptest.NewRequest("GET", "/account/export", nil)
		request = request.WithContext(authz.WithIdentity(request.Context(), identity))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	recorder := run(&fakeState{enabled: true, verified: false})
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, true, body["requiresTwoFactor"])

	recorder = run(&fakeState{enabled: true, verified: true})
	assert.Equal(t, http.StatusOK, recorder.Code)
}
