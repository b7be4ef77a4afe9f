// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/cache"
	"github.com/choiceproperties-source/choice/internal/platform/sec"
)

// okHandler answers 200 and echoes whether an identity was attached.
func okHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(writer http.ResponseWriter, request *http.Request) {
		identity := authz.IdentityFrom(request.Context())
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(http.StatusOK)
		payload := map[string]any{"authenticated": identity != nil}
		if identity != nil {
			payload["subject"] = identity.UserID
			payload["role"] = string(identity.Role)
		}
		require.NoError(t, json.NewEncoder(writer).Encode(payload))
	}
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func seededResolver() *authz.Resolver {
	verifier := &fakeVerifier{subjects: map[string]*sec.SubjectClaims{
		"tok-admin":    {UserID: "u-admin", Email: "admin@example.com"},
		"tok-agent":    {UserID: "u-agent", Email: "agent@example.com"},
		"tok-renter":   {UserID: "u-renter", Email: "renter@example.com"},
		"tok-landlord": {UserID: "u-landlord", Email: "landlord@example.com"},
	}}
	store := &fakeRoleStore{roles: map[string]authz.Role{
		"u-admin":    authz.RoleAdmin,
		"u-agent":    authz.RoleAgent,
		"u-renter":   authz.RoleRenter,
		"u-landlord": authz.RoleLandlord,
	}}
	return authz.NewResolver(verifier, store, cache.New[authz.Role](16))
}

func doRequest(handler http.Handler, method, target, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// # Authenticate

func TestAuthenticate_MissingToken(t *testing.T) {
	router := chi.NewRouter()
	router.With(authz.Authenticate(seededResolver())).Get("/me", okHandler(t))

	recorder := doRequest(router, "GET", "/me", "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Access token required", decodeError(t, recorder)["error"])
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	router := chi.NewRouter()
	router.With(authz.Authenticate(seededResolver())).Get("/me", okHandler(t))

	recorder := doRequest(router, "GET", "/me", "forged")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Invalid or expired token", decodeError(t, recorder)["error"])
}

func TestAuthenticate_RoleLookupFault(t *testing.T) {
	verifier := &fakeVerifier{subjects: map[string]*sec.SubjectClaims{
		"tok-u1": {UserID: "u1", Email: "u1@example.com"},
	}}
	store := &fakeRoleStore{failErr: errors.New("pool exhausted")}
	resolver := authz.NewResolver(verifier, store, cache.New[authz.Role](16))

	router := chi.NewRouter()
	router.With(authz.Authenticate(resolver)).Get("/me", okHandler(t))

	recorder := doRequest(router, "GET", "/me", "tok-u1")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "Authentication failed", decodeError(t, recorder)["error"])
}

func TestAuthenticate_AttachesIdentity(t *testing.T) {
	router := chi.NewRouter()
	router.With(authz.Authenticate(seededResolver())).Get("/me", okHandler(t))

	recorder := doRequest(router, "GET", "/me", "tok-agent")

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeError(t, recorder)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "u-agent", body["subject"])
	assert.Equal(t, "agent", body["role"])
}

// # OptionalAuthenticate

func TestOptionalAuthenticate(t *testing.T) {
	router := chi.NewRouter()
	router.With(authz.OptionalAuthenticate(seededResolver())).Get("/feed", okHandler(t))

	t.Run("anonymous", func(t *testing.T) {
		recorder := doRequest(router, "GET", "/feed", "")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, false, decodeError(t, recorder)["authenticated"])
	})

	t.Run("invalid_token_still_proceeds", func(t *testing.T) {
		recorder := doRequest(router, "GET", "/feed", "forged")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, false, decodeError(t, recorder)["authenticated"])
	})

	t.Run("valid_token_attaches_identity", func(t *testing.T) {
		recorder := doRequest(router, "GET", "/feed", "tok-renter")
		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, "u-renter", body["subject"])
	})

	t.Run("internal_fault_still_proceeds", func(t *testing.T) {
		verifier := &fakeVerifier{subjects: map[string]*sec.SubjectClaims{
			"tok-u1": {UserID: "u1", Email: "u1@example.com"},
		}}
		store := &fakeRoleStore{failErr: errors.New("pool exhausted")}
		resolver := authz.NewResolver(verifier, store, cache.New[authz.Role](16))

		faultRouter := chi.NewRouter()
		faultRouter.With(authz.OptionalAuthenticate(resolver)).Get("/feed", okHandler(t))

		recorder := doRequest(faultRouter, "GET", "/feed", "tok-u1")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, false, decodeError(t, recorder)["authenticated"])
	})
}

// # RequireRole

func TestRequireRole(t *testing.T) {
	resolver := seededResolver()
	router := chi.NewRouter()
	router.With(
		authz.Authenticate(resolver),
		authz.RequireRole(authz.RoleAgent, authz.RoleLandlord),
	).Post("/listings", okHandler(t))

	t.Run("listed_role_passes", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/listings", "tok-agent")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("unlisted_role_rejected", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/listings", "tok-renter")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Equal(t, "Insufficient permissions", decodeError(t, recorder)["error"])
	})

	// Membership is literal: admin outranks agent but is not in the
	// allowed set, so admin is rejected too.
	t.Run("unlisted_admin_rejected", func(t *testing.T) {
		recorder := doRequest(router, "POST", "/listings", "tok-admin")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("no_identity_unauthorized", func(t *testing.T) {
		bare := chi.NewRouter()
		bare.With(authz.RequireRole(authz.RoleAgent)).Post("/listings", okHandler(t))

		recorder := doRequest(bare, "POST", "/listings", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Authentication required", decodeError(t, recorder)["error"])
	})
}

// # RequireOwnership

func ownershipRouter(t *testing.T, resolver *authz.Resolver, store *fakeOwnershipStore) http.Handler {
	t.Helper()
	router := chi.NewRouter()
	router.With(
		authz.Authenticate(resolver),
		authz.RequireOwnership(store, authz.ResourceProperty),
	).Patch("/properties/{id}", okHandler(t))
	return router
}

func TestRequireOwnership_OwnerPasses(t *testing.T) {
	store := &fakeOwnershipStore{owners: map[authz.ResourceType]map[string]string{
		authz.ResourceProperty: {"p1": "u-agent"},
	}}
	router := ownershipRouter(t, seededResolver(), store)

	recorder := doRequest(router, "PATCH", "/properties/p1", "tok-agent")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, store.fetchCount())
}

func TestRequireOwnership_NonOwnerForbidden(t *testing.T) {
	store := &fakeOwnershipStore{owners: map[authz.ResourceType]map[string]string{
		authz.ResourceProperty: {"p1": "u-landlord"},
	}}
	router := ownershipRouter(t, seededResolver(), store)

	recorder := doRequest(router, "PATCH", "/properties/p1", "tok-agent")

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "You do not own this resource", decodeError(t, recorder)["error"])
}

func TestRequireOwnership_AdminBypassesWithoutFetch(t *testing.T) {
	store := &fakeOwnershipStore{owners: map[authz.ResourceType]map[string]string{
		authz.ResourceProperty: {"p1": "u-agent"},
	}}
	router := ownershipRouter(t, seededResolver(), store)

	recorder := doRequest(router, "PATCH", "/properties/p1", "tok-admin")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 0, store.fetchCount(), "admin must short-circuit before the owner fetch")
}

func TestRequireOwnership_MissingResource(t *testing.T) {
	store := &fakeOwnershipStore{owners: map[authz.ResourceType]map[string]string{}}
	router := ownershipRouter(t, seededResolver(), store)

	recorder := doRequest(router, "PATCH", "/properties/nope", "tok-agent")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Property not found", decodeError(t, recorder)["error"])
}

func TestRequireOwnership_StoreFault(t *testing.T) {
	store := &fakeOwnershipStore{failErr: errors.New("connection reset")}
	router := ownershipRouter(t, seededResolver(), store)

	recorder := doRequest(router, "PATCH", "/properties/p1", "tok-agent")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "Failed to verify ownership", decodeError(t, recorder)["error"])
}

func TestRequireOwnership_UserOwnsThemself(t *testing.T) {
	store := &fakeOwnershipStore{owners: map[authz.ResourceType]map[string]string{
		authz.ResourceUser: {"u-renter": "u-renter"},
	}}
	router := chi.NewRouter()
	router.With(
		authz.Authenticate(seededResolver()),
		authz.RequireOwnership(store, authz.ResourceUser),
	).Patch("/users/{id}", okHandler(t))

	t.Run("self", func(t *testing.T) {
		recorder := doRequest(router, "PATCH", "/users/u-renter", "tok-renter")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("other_user", func(t *testing.T) {
		recorder := doRequest(router, "PATCH", "/users/u-renter", "tok-agent")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

// TestGateChain_AgentEditingForeignProperty walks the full chain a listing
// route uses: authenticate, role gate, ownership gate. An agent editing a
// property they don't own clears the first two gates and fails the third.
func TestGateChain_AgentEditingForeignProperty(t *testing.T) {
	store := &fakeOwnershipStore{owners: map[authz.ResourceType]map[string]string{
		authz.ResourceProperty: {
			"p-own":     "u-agent",
			"p-foreign": "u-landlord",
		},
	}}
	router := chi.NewRouter()
	router.With(
		authz.Authenticate(seededResolver()),
		authz.RequireRole(authz.RoleAdmin, authz.RoleAgent, authz.RoleLandlord),
		authz.RequireOwnership(store, authz.ResourceProperty),
	).Patch("/properties/{id}", okHandler(t))

	recorder := doRequest(router, "PATCH", "/properties/p-foreign", "tok-agent")
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "You do not own this resource", decodeError(t, recorder)["error"])

	recorder = doRequest(router, "PATCH", "/properties/p-own", "tok-agent")
	assert.Equal(t, http.StatusOK, recorder.Code)
}
