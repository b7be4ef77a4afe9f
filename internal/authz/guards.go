// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz

import (
	"fmt"
	"net/http"

	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/respond"
)

// # Specialized Guards
//
// Composite policies built from the role model. Each guard requires an
// attached identity and records its denials through the [SecurityAuditor]
// collaborator. Audit recording is fire-and-forget: a failing auditor never
// masks the original 403.

// Audit event kinds emitted by the guards.
const (
	EventPropertyEditDenied      = "property_edit_denied"
	EventApplicationReviewDenied = "application_review_denied"
	EventTenantEditBlocked       = "tenant_edit_blocked"
)

// RequirePropertyEdit denies callers whose role cannot manage property
// listings.
func RequirePropertyEdit(auditor SecurityAuditor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := IdentityFrom(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !CanEditProperties(identity.Role) {
				reason := fmt.Sprintf("Role %q does not have permission to manage property listings", identity.Role)
				auditor.LogSecurityEvent(request.Context(), SecurityEvent{
					SubjectID: identity.UserID,
					Kind:      EventPropertyEditDenied,
					Success:   false,
					Detail:    reason,
					Role:      identity.Role,
					Path:      request.URL.Path,
					Method:    request.Method,
				})
				respond.Error(writer, request, apperr.Forbidden(reason))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireApplicationReview denies callers whose role cannot review rental
// applications.
func RequireApplicationReview(auditor SecurityAuditor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := IdentityFrom(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !CanReviewApplications(identity.Role) {
				reason := fmt.Sprintf("Role %q does not have permission to review rental applications", identity.Role)
				auditor.LogSecurityEvent(request.Context(), SecurityEvent{
					SubjectID: identity.UserID,
					Kind:      EventApplicationReviewDenied,
					Success:   false,
					Detail:    reason,
					Role:      identity.Role,
					Path:      request.URL.Path,
					Method:    request.Method,
				})
				respond.Error(writer, request, apperr.Forbidden(reason))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// BlockTenantEdits explicitly denies tenant roles (renter, buyer) from
// modifying listings.
//
// This is a blocklist applied in addition to the property-edit guard, not
// instead of it. A tenant role is rejected here even if some other
// configuration would grant it edit permission.
func BlockTenantEdits(auditor SecurityAuditor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := IdentityFrom(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if IsTenantRole(identity.Role) {
				auditor.LogSecurityEvent(request.Context(), SecurityEvent{
					SubjectID: identity.UserID,
					Kind:      EventTenantEditBlocked,
					Success:   false,
					Detail:    "Tenant role attempted a listing modification",
					Role:      identity.Role,
					Path:      request.URL.Path,
					Method:    request.Method,
				})
				respond.Error(writer, request, apperr.Forbidden("Tenants cannot modify property listings. Contact your agent or landlord."))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireTwoFactor blocks identities that have two-factor enabled but have
// not verified the current session.
//
// The denial carries a structured "requiresTwoFactor": true marker so
// clients can branch into the step-up flow instead of treating the 403 as
// terminal. The identity's two-factor flags must be hydrated (by the
// twofactor middleware) before this gate runs; an identity with the flags
// unset passes.
func RequireTwoFactor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := IdentityFrom(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if identity.TwoFactorEnabled && !identity.TwoFactorVerified {
				respond.Error(writer, request, apperr.TwoFactorRequired())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
