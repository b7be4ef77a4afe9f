// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, access
gates, and all domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Every access-control decision is composed here: which routes sit
    behind authentication, role gates, ownership gates, and the
    two-factor step-up gate is visible in one file.
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/choiceproperties-source/choice/internal/accounts"
	"github.com/choiceproperties-source/choice/internal/applications"
	"github.com/choiceproperties-source/choice/internal/audit"
	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/inquiries"
	"github.com/choiceproperties-source/choice/internal/listings"
	"github.com/choiceproperties-source/choice/internal/platform/config"
	"github.com/choiceproperties-source/choice/internal/platform/constants"
	"github.com/choiceproperties-source/choice/internal/platform/middleware"
	"github.com/choiceproperties-source/choice/internal/twofactor"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Accounts handles registration, sessions, profiles, and role changes.
	Accounts *accounts.Handler

	// Listings handles the property catalogue.
	Listings *listings.Handler

	// Applications handles rental applications.
	Applications *applications.Handler

	// Inquiries handles property inquiries routed to agents.
	Inquiries *inquiries.Handler

	// Audit serves the security event log to administrators.
	Audit *audit.Handler
}

// AccessControl groups the dependencies the gate chain is built from.
type AccessControl struct {
	// Resolver turns bearer tokens into identities.
	Resolver *authz.Resolver

	// Ownership answers who owns a protected resource.
	Ownership authz.OwnershipStore

	// Auditor records gate denials.
	Auditor authz.SecurityAuditor

	// TwoFactor reads per-account two-factor enrollment and verification
	// state for the step-up gate.
	TwoFactor twofactor.StateReader
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups behind their gates.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, access AccessControl, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. Authentication is
	// not global: each route group opts into the gates it needs below.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Access Gates
	// Shared gate instances, composed per route group below.
	authenticated := authz.Authenticate(access.Resolver)
	optionalAuth := authz.OptionalAuthenticate(access.Resolver)
	adminOnly := authz.RequireRole(authz.RoleAdmin)
	tenantBlock := authz.BlockTenantEdits(access.Auditor)
	propertyEdit := authz.RequirePropertyEdit(access.Auditor)
	applicationReview := authz.RequireApplicationReview(access.Auditor)
	stepUp := authz.RequireTwoFactor()
	hydrateTwoFactor := twofactor.Hydrate(access.TwoFactor)

	ownsProperty := authz.RequireOwnership(access.Ownership, authz.ResourceProperty)
	ownsApplication := authz.RequireOwnership(access.Ownership, authz.ResourceApplication)
	ownsInquiry := authz.RequireOwnership(access.Ownership, authz.ResourceInquiry)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Accounts.PublicRoutes())

		api.Group(func(me chi.Router) {
			me.Use(authenticated, hydrateTwoFactor)
			me.Mount("/me", h.Accounts.MeRoutes(stepUp))
		})

		api.Group(func(admin chi.Router) {
			admin.Use(authenticated, adminOnly)
			admin.Mount("/users", h.Accounts.AdminRoutes())
			admin.Mount("/admin/security-events", h.Audit.Routes())
		})

		api.Mount("/properties", h.Listings.Routes(listings.Gates{
			OptionalAuth:   optionalAuth,
			Authenticated:  authenticated,
			TenantBlock:    tenantBlock,
			EditPermission: propertyEdit,
			Ownership:      ownsProperty,
		}))

		api.Mount("/applications", h.Applications.Routes(applications.Gates{
			OptionalAuth:     optionalAuth,
			Authenticated:    authenticated,
			ReviewPermission: applicationReview,
			Ownership:        ownsApplication,
		}))

		api.Mount("/inquiries", h.Inquiries.Routes(inquiries.Gates{
			Authenticated: authenticated,
			Ownership:     ownsInquiry,
		}))
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
