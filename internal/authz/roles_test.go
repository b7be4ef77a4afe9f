// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/choiceproperties-source/choice/internal/authz"
)

var allRoles = []authz.Role{
	authz.RoleAdmin,
	authz.RoleOwner,
	authz.RoleAgent,
	authz.RoleLandlord,
	authz.RolePropertyManager,
	authz.RoleBuyer,
	authz.RoleRenter,
	authz.RoleGuest,
}

/*
TestRankOf_UnknownRole verifies that any role absent from the hierarchy map
compares at rank 0.
*/
func TestRankOf_UnknownRole(t *testing.T) {
	assert.Equal(t, 0, authz.RankOf("superhero"))
	assert.Equal(t, 0, authz.RankOf(""))

	// Every configured role outranks an unknown one.
	for _, role := range allRoles {
		assert.True(t, role.HasHigherOrEqual("superhero"), "role %s", role)
	}
}

/*
TestHierarchy_Monotonicity verifies that HasHigherOrEqual agrees with the
rank ordering for every pair of configured roles.
*/
func TestHierarchy_Monotonicity(t *testing.T) {
	for _, a := range allRoles {
		for _, b := range allRoles {
			expected := authz.RankOf(a) >= authz.RankOf(b)
			assert.Equal(t, expected, a.HasHigherOrEqual(b), "%s vs %s", a, b)
		}
	}
}

/*
TestHierarchy_AdminOutranksAll verifies admin sits at the top of the ranking.
*/
func TestHierarchy_AdminOutranksAll(t *testing.T) {
	for _, role := range allRoles {
		assert.True(t, authz.RoleAdmin.HasHigherOrEqual(role), "admin vs %s", role)
		if role != authz.RoleAdmin {
			assert.False(t, role.HasHigherOrEqual(authz.RoleAdmin), "%s vs admin", role)
		}
	}
}

/*
TestCapabilities_AllowLists verifies the fixed membership of each capability
allow-list. These are set-membership tests, not rank checks.
*/
func TestCapabilities_AllowLists(t *testing.T) {
	management := []authz.Role{
		authz.RoleAdmin,
		authz.RoleOwner,
		authz.RoleAgent,
		authz.RoleLandlord,
		authz.RolePropertyManager,
	}
	excluded := []authz.Role{authz.RoleBuyer, authz.RoleRenter, authz.RoleGuest}

	for _, role := range management {
		assert.True(t, authz.CanEditProperties(role), "edit %s", role)
		assert.True(t, authz.CanReviewApplications(role), "review %s", role)
		assert.True(t, authz.CanAccessSensitiveData(role), "sensitive %s", role)
	}
	for _, role := range excluded {
		assert.False(t, authz.CanEditProperties(role), "edit %s", role)
		assert.False(t, authz.CanReviewApplications(role), "review %s", role)
		assert.False(t, authz.CanAccessSensitiveData(role), "sensitive %s", role)
	}
}

/*
TestCapabilities_AdminOnly verifies IsAdminOnly matches exactly {admin}.
*/
func TestCapabilities_AdminOnly(t *testing.T) {
	for _, role := range allRoles {
		assert.Equal(t, role == authz.RoleAdmin, authz.IsAdminOnly(role), "role %s", role)
	}
}

/*
TestCapabilities_TenantBlocklist verifies the tenant blocklist is exactly
{renter, buyer}.
*/
func TestCapabilities_TenantBlocklist(t *testing.T) {
	for _, role := range allRoles {
		expected := role == authz.RoleRenter || role == authz.RoleBuyer
		assert.Equal(t, expected, authz.IsTenantRole(role), "role %s", role)
	}
}
