// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/kennelwise/kennelwise/docs" // generated swagger spec
	"github.com/kennelwise/kennelwise/internal/api"
	"github.com/kennelwise/kennelwise/internal/auth"
	"github.com/kennelwise/kennelwise/internal/config"
	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/reminder"
	"github.com/kennelwise/kennelwise/internal/supervisor"
	"github.com/kennelwise/kennelwise/internal/supervisor/services"
	"github.com/kennelwise/kennelwise/internal/tenant"
	ws "github.com/kennelwise/kennelwise/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("base_domain", cfg.Server.BaseDomain).
		Msg("Starting Kennelwise")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	if cfg.Security.SuperAdminAPIKey == "" {
		logging.Warn().Msg("SUPER_ADMIN_API_KEY not set - tenant provisioning endpoints are disabled")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED - only use this for testing")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS is configured with a wildcard origin; set explicit origins in production")
	}

	// Context that ends the supervisor tree on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	handler := api.NewHandler(db, cfg, jwtManager, hub)

	chiMWConfig := api.DefaultChiMiddlewareConfig()
	chiMWConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	if cfg.Security.RateLimitReqs > 0 {
		chiMWConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	}
	if cfg.Security.RateLimitWindow > 0 {
		chiMWConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	}
	chiMWConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	router := api.NewRouter(
		handler,
		api.NewChiMiddleware(chiMWConfig),
		tenant.NewMiddleware(db, cfg.Server.BaseDomain),
		auth.NewMiddleware(jwtManager, cfg.Security.SuperAdminAPIKey),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// The supervisor tree logs through slog; bridge to zerolog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	if cfg.Reminder.Enabled {
		scheduler := reminder.NewScheduler(db, hub, cfg.Reminder)
		tree.AddMessagingService(services.NewReminderSchedulerService(scheduler))
		logging.Info().
			Dur("check_interval", cfg.Reminder.CheckInterval).
			Dur("lead_time", cfg.Reminder.LeadTime).
			Msg("Arrival reminder scheduler enabled")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Kennelwise stopped gracefully")
}
