// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package authz implements the authorization and access-control layer.

It defines the role model, the per-request identity, the resolver that turns
a bearer token into an identity, and the middleware gates that guard routes.

# Architecture

Gates are pure per-request decision functions over (Identity, resource
lookup, configuration). The only stateful component is the injected role
cache; everything else is read-once from persistence and discarded at the
end of the request.
*/
package authz

// # Roles

// Role is the authorization level granted to an account.
//
// The set is fixed configuration: roles are never created or destroyed at
// runtime. Any role missing from the hierarchy map compares at rank 0.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Owns property listings directly
	RoleOwner Role = "owner"

	// Manages listings and inquiries on behalf of owners
	RoleAgent Role = "agent"

	// Rents out properties they own
	RoleLandlord Role = "landlord"

	// Manages portfolios for landlords and owners
	RolePropertyManager Role = "property_manager"

	// Browses purchase listings
	RoleBuyer Role = "buyer"

	// Default role for registered users
	RoleRenter Role = "renter"

	// Unauthenticated or unprivileged visitor
	RoleGuest Role = "guest"
)

// # Role Hierarchy

// roleRanks maps each role to its numeric privilege rank.
//
// Higher = more privileged. The map is consulted only by rank comparisons
// ([RankOf], [Role.HasHigherOrEqual]); the route-level capability checks
// below use explicit allow-lists instead, and the two must be kept
// consistent by configuration.
var roleRanks = map[Role]int{
	RoleAdmin:           100,
	RoleOwner:           80,
	RoleAgent:           70,
	RoleLandlord:        60,
	RolePropertyManager: 50,
	RoleBuyer:           30,
	RoleRenter:          20,
	RoleGuest:           10,
}

// RankOf returns the configured rank for a role, or 0 for any role absent
// from the hierarchy map (lowest, unprivileged).
func RankOf(role Role) int {
	return roleRanks[role]
}

// HasHigherOrEqual reports whether the role's rank meets or exceeds the
// target role's rank.
func (r Role) HasHigherOrEqual(target Role) bool {
	return RankOf(r) >= RankOf(target)
}

// # Capability Allow-Lists

// Capability checks are deliberately set-membership tests, not rank
// comparisons. A higher-ranked role that is not listed does not acquire the
// capability implicitly; the lists below are the single source of truth for
// what each role may do.

// managementRoles may create and edit listings, review applications, and
// read sensitive applicant data. The three capabilities share one list in
// this system.
var managementRoles = map[Role]struct{}{
	RoleAdmin:           {},
	RoleOwner:           {},
	RoleAgent:           {},
	RoleLandlord:        {},
	RolePropertyManager: {},
}

// tenantRoles are explicitly blocked from modifying listings regardless of
// any other permission (see [BlockTenantEdits]).
var tenantRoles = map[Role]struct{}{
	RoleRenter: {},
	RoleBuyer:  {},
}

// CanEditProperties reports whether the role may create or modify property
// listings.
func CanEditProperties(role Role) bool {
	_, ok := managementRoles[role]
	return ok
}

// CanReviewApplications reports whether the role may review and decide
// rental applications.
func CanReviewApplications(role Role) bool {
	_, ok := managementRoles[role]
	return ok
}

// CanAccessSensitiveData reports whether the role may read sensitive
// applicant data (income, references, documents).
func CanAccessSensitiveData(role Role) bool {
	_, ok := managementRoles[role]
	return ok
}

// IsAdminOnly reports whether the role is the administrator role.
func IsAdminOnly(role Role) bool {
	return role == RoleAdmin
}

// IsTenantRole reports whether the role belongs to the tenant blocklist.
func IsTenantRole(role Role) bool {
	_, ok := tenantRoles[role]
	return ok
}
