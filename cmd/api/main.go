// Copyright (c) 2026 Choice Properties. All rights reserved.

// Command api is the entry point for the Choice HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire the identity resolver and access gates.
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/choiceproperties-source/choice/internal/accounts"
	"github.com/choiceproperties-source/choice/internal/api"
	"github.com/choiceproperties-source/choice/internal/applications"
	"github.com/choiceproperties-source/choice/internal/audit"
	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/inquiries"
	"github.com/choiceproperties-source/choice/internal/listings"
	"github.com/choiceproperties-source/choice/internal/platform/cache"
	"github.com/choiceproperties-source/choice/internal/platform/config"
	"github.com/choiceproperties-source/choice/internal/platform/constants"
	"github.com/choiceproperties-source/choice/internal/platform/migration"
	pgstore "github.com/choiceproperties-source/choice/internal/platform/postgres"
	redisstore "github.com/choiceproperties-source/choice/internal/platform/redis"
	"github.com/choiceproperties-source/choice/internal/platform/sec"
	"github.com/choiceproperties-source/choice/internal/twofactor"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Identity and Access Control ────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	authzStore := authz.NewPostgresStore(pool)
	roleCache := cache.New[authz.Role](cfg.RoleCacheCapacity)
	resolver := authz.NewResolver(jwtSvc, authzStore, roleCache)

	auditor := audit.NewRecorder(pool, log)
	twoFactorStore := twofactor.NewStore(pool, rdb)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	accountService := accounts.NewService(
		accounts.NewPostgresStore(pool),
		accounts.NewPostgresSessionStore(pool),
		jwtSvc,
		resolver,
		twoFactorStore,
	)
	accountHandler := accounts.NewHandler(accountService, twoFactorStore, log)

	listingService := listings.NewService(listings.NewPostgresStore(pool))
	listingHandler := listings.NewHandler(listingService)

	applicationService := applications.NewService(applications.NewPostgresStore(pool), listingService)
	applicationHandler := applications.NewHandler(applicationService)

	inquiryService := inquiries.NewService(inquiries.NewPostgresStore(pool), listingService)
	inquiryHandler := inquiries.NewHandler(inquiryService)

	auditHandler := audit.NewHandler(auditor)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Accounts:     accountHandler,
		Listings:     listingHandler,
		Applications: applicationHandler,
		Inquiries:    inquiryHandler,
		Audit:        auditHandler,
	}

	access := api.AccessControl{
		Resolver:  resolver,
		Ownership: authzStore,
		Auditor:   auditor,
		TwoFactor: twoFactorStore,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, access, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
