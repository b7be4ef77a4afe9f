// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package accounts manages the user lifecycle: registration, login, session
refresh, role administration, and two-factor enrollment.

# Architecture

The package owns the users.account and users.session tables. Authorization
decisions never live here, they belong to the authz package; accounts only
persists the role value that authz resolves.
*/
package accounts

import (
	"time"

	"github.com/choiceproperties-source/choice/internal/authz"
)

// Account represents a registered user of the Choice platform.
//
// # Rules
//   - Email is unique and validated.
//   - PasswordHash is generated via bcrypt exclusively by the Service.
//   - Role defaults to renter on registration and changes only through
//     the admin role-management endpoint.
type Account struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"` // Explicitly omitted from JSON for security.
	FullName         string     `json:"fullName"`
	Phone            string     `json:"phone,omitempty"`
	Role             authz.Role `json:"role"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled"`
	IsVerified       bool       `json:"isVerified"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Session represents an active refresh-token session.
//
// Access tokens are short-lived stateless JWTs; sessions are the revocable
// half of the pair. Revoking a session logs the device out once its access
// token expires.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignableRoles lists the roles an administrator may grant through the
// role-management endpoint. Admin itself is excluded: promoting an account
// to admin is a manual database operation, not an API call.
var AssignableRoles = []authz.Role{
	authz.RoleOwner,
	authz.RoleAgent,
	authz.RoleLandlord,
	authz.RolePropertyManager,
	authz.RoleBuyer,
	authz.RoleRenter,
	authz.RoleGuest,
}

// IsAssignable reports whether the role may be granted via the API.
func IsAssignable(role authz.Role) bool {
	for _, candidate := range AssignableRoles {
		if candidate == role {
			return true
		}
	}
	return false
}
