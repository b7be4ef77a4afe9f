// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiceproperties-source/choice/internal/authz"
)

// identityRouter wires a handler behind a middleware chain with a fixed
// identity pre-attached, skipping token resolution.
func identityRouter(t *testing.T, identity *authz.Identity, gate func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	attach := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if identity != nil {
				request = request.WithContext(authz.WithIdentity(request.Context(), identity))
			}
			next.ServeHTTP(writer, request)
		})
	}

	router := chi.NewRouter()
	router.With(attach, gate).Patch("/properties/{id}", okHandler(t))
	router.With(attach, gate).Put("/applications/{id}/decision", okHandler(t))
	router.With(attach, gate).Get("/account/export", okHandler(t))
	return router
}

// # RequirePropertyEdit

func TestRequirePropertyEdit(t *testing.T) {
	t.Run("management_role_passes", func(t *testing.T) {
		auditor := &fakeAuditor{}
		router := identityRouter(t, &authz.Identity{UserID: "u1", Role: authz.RoleLandlord}, authz.RequirePropertyEdit(auditor))

		recorder := doRequest(router, "PATCH", "/properties/p1", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, auditor.recorded(), "allowed requests are not audited")
	})

	t.Run("renter_denied_and_audited", func(t *testing.T) {
		auditor := &fakeAuditor{}
		router := identityRouter(t, &authz.Identity{UserID: "u2", Role: authz.RoleRenter}, authz.RequirePropertyEdit(auditor))

		recorder := doRequest(router, "PATCH", "/properties/p1", "")

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Equal(t, `Role "renter" does not have permission to manage property listings`,
			decodeError(t, recorder)["error"])

		events := auditor.recorded()
		require.Len(t, events, 1)
		assert.Equal(t, authz.EventPropertyEditDenied, events[0].Kind)
		assert.Equal(t, "u2", events[0].SubjectID)
		assert.Equal(t, authz.RoleRenter, events[0].Role)
		assert.Equal(t, "/properties/p1", events[0].Path)
		assert.Equal(t, "PATCH", events[0].Method)
		assert.False(t, events[0].Success)
	})

	t.Run("no_identity_unauthorized", func(t *testing.T) {
		router := identityRouter(t, nil, authz.RequirePropertyEdit(&fakeAuditor{}))

		recorder := doRequest(router, "PATCH", "/properties/p1", "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Authentication required", decodeError(t, recorder)["error"])
	})
}

// # RequireApplicationReview

func TestRequireApplicationReview(t *testing.T) {
	t.Run("agent_passes", func(t *testing.T) {
		auditor := &fakeAuditor{}
		router := identityRouter(t, &authz.Identity{UserID: "u1", Role: authz.RoleAgent}, authz.RequireApplicationReview(auditor))

		recorder := doRequest(router, "PUT", "/applications/a1/decision", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("buyer_denied_and_audited", func(t *testing.T) {
		auditor := &fakeAuditor{}
		router := identityRouter(t, &authz.Identity{UserID: "u3", Role: authz.RoleBuyer}, authz.RequireApplicationReview(auditor))

		recorder := doRequest(router, "PUT", "/applications/a1/decision", "")

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Equal(t, `Role "buyer" does not have permission to review rental applications`,
			decodeError(t, recorder)["error"])

		events := auditor.recorded()
		require.Len(t, events, 1)
		assert.Equal(t, authz.EventApplicationReviewDenied, events[0].Kind)
	})
}

// # BlockTenantEdits

func TestBlockTenantEdits(t *testing.T) {
	tenantMessage := "Tenants cannot modify property listings. Contact your agent or landlord."

	for _, role := range []authz.Role{authz.RoleRenter, authz.RoleBuyer} {
		t.Run("blocks_"+string(role), func(t *testing.T) {
			auditor := &fakeAuditor{}
			router := identityRouter(t, &authz.Identity{UserID: "u1", Role: role}, authz.BlockTenantEdits(auditor))

			recorder := doRequest(router, "PATCH", "/properties/p1", "")

			assert.Equal(t, http.StatusForbidden, recorder.Code)
			assert.Equal(t, tenantMessage, decodeError(t, recorder)["error"])

			events := auditor.recorded()
			require.Len(t, events, 1)
			assert.Equal(t, authz.EventTenantEditBlocked, events[0].Kind)
			assert.Equal(t, role, events[0].Role)
		})
	}

	for _, role := range []authz.Role{authz.RoleAdmin, authz.RoleAgent, authz.RoleLandlord, authz.RoleGuest} {
		t.Run("passes_"+string(role), func(t *testing.T) {
			auditor := &fakeAuditor{}
			router := identityRouter(t, &authz.Identity{UserID: "u1", Role: role}, authz.BlockTenantEdits(auditor))

			recorder := doRequest(router, "PATCH", "/properties/p1", "")

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Empty(t, auditor.recorded())
		})
	}
}

// # RequireTwoFactor

func TestRequireTwoFactor(t *testing.T) {
	t.Run("enabled_unverified_denied_with_marker", func(t *testing.T) {
		identity := &authz.Identity{UserID: "u1", Role: authz.RoleAgent, TwoFactorEnabled: true}
		router := identityRouter(t, identity, authz.RequireTwoFactor())

		recorder := doRequest(router, "GET", "/account/export", "")

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, "Two-factor authentication required", body["error"])
		assert.Equal(t, true, body["requiresTwoFactor"])
	})

	t.Run("enabled_verified_passes", func(t *testing.T) {
		identity := &authz.Identity{UserID: "u1", Role: authz.RoleAgent, TwoFactorEnabled: true, TwoFactorVerified: true}
		router := identityRouter(t, identity, authz.RequireTwoFactor())

		recorder := doRequest(router, "GET", "/account/export", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("not_enrolled_passes", func(t *testing.T) {
		identity := &authz.Identity{UserID: "u1", Role: authz.RoleRenter}
		router := identityRouter(t, identity, authz.RequireTwoFactor())

		recorder := doRequest(router, "GET", "/account/export", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.NotContains(t, decodeError(t, recorder), "requiresTwoFactor")
	})
}
