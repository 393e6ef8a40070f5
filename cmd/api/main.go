// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Libris HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the app store (SQLite, read-write) and run migrations.
//  4. Open the library store (Calibre SQLite, read-only).
//  5. Bootstrap the admin account when configured.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/buivan/libris/internal/api"
	"github.com/buivan/libris/internal/auth"
	"github.com/buivan/libris/internal/catalog"
	"github.com/buivan/libris/internal/platform/config"
	"github.com/buivan/libris/internal/platform/constants"
	"github.com/buivan/libris/internal/platform/migration"
	"github.com/buivan/libris/internal/platform/sec"
	"github.com/buivan/libris/internal/platform/sqlite"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "libris"))
	slog.SetDefault(log)

	log.Info("[Libris] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "libris"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("library", cfg.LibraryRoot),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. App Store ──────────────────────────────────────────────────────
	appDB, err := sqlite.OpenAppStore(startupCtx, cfg.AppDBPath, log)
	must(log, err, "open app store")
	defer func() {
		log.Info("closing app store")
		if cerr := appDB.Close(); cerr != nil {
			log.Error("app store close error", slog.Any("error", cerr))
		}
	}()

	must(log, migration.RunUp(cfg.AppDBPath, cfg.MigrationPath, log), "run migrations")

	// ── 4. Library Store ──────────────────────────────────────────────────
	libraryDB, err := sqlite.OpenLibrary(startupCtx, cfg.LibraryDBPath, log)
	must(log, err, "open library store")
	defer func() {
		log.Info("closing library store")
		if cerr := libraryDB.Close(); cerr != nil {
			log.Error("library store close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Auth Service ───────────────────────────────────────────────────
	if cfg.JWTSecret == constants.DefaultJWTSecret {
		log.Warn("jwt_secret_fallback_active",
			slog.String("hint", "set JWT_SECRET before exposing this server"))
	}
	jwtSvc := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, constants.AuthTokenTTL)

	userStore := auth.NewUserStore(appDB)
	authService := auth.NewService(userStore, jwtSvc, log)

	if cfg.AdminEmail != "" {
		must(log, authService.BootstrapAdmin(startupCtx, cfg.AdminEmail), "bootstrap admin account")
	}

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckAppStore: func() error {
			return sqlite.Ping(context.Background(), appDB)
		},
		CheckLibraryStore: func() error {
			return sqlite.Ping(context.Background(), libraryDB)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	oauthHandler := auth.NewOAuthHandler(cfg, authService, log)
	if oauthHandler == nil {
		log.Info("oauth_disabled", slog.String("reason", "no provider credentials configured"))
	}

	authHandler := auth.NewHTTPHandler(authService, oauthHandler)
	adminHandler := auth.NewAdminHTTPHandler(authService)

	bookStore := catalog.NewBookStore(libraryDB)
	catalogService := catalog.NewService(bookStore, cfg.LibraryRoot)
	catalogHandler := catalog.NewHTTPHandler(catalogService)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Admin:     adminHandler,
		Catalog:   catalogHandler,
	}

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
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
