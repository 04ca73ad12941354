// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/tomtom215/nutrimaster/docs" // swagger spec
	"github.com/tomtom215/nutrimaster/internal/api"
	"github.com/tomtom215/nutrimaster/internal/auth"
	"github.com/tomtom215/nutrimaster/internal/authz"
	"github.com/tomtom215/nutrimaster/internal/cache"
	"github.com/tomtom215/nutrimaster/internal/config"
	"github.com/tomtom215/nutrimaster/internal/database"
	"github.com/tomtom215/nutrimaster/internal/events"
	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/metrics"
	"github.com/tomtom215/nutrimaster/internal/nutrition"
	"github.com/tomtom215/nutrimaster/internal/supervisor"
	"github.com/tomtom215/nutrimaster/internal/supervisor/services"
	ws "github.com/tomtom215/nutrimaster/internal/websocket"
)

// sessionCleanupInterval is how often expired sessions are purged.
const sessionCleanupInterval = 15 * time.Minute

//nolint:gocyclo // sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", api.Version).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Nutrimaster")
	metrics.AppInfo.WithLabelValues(api.Version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	db.SetPageLimits(cfg.API.DefaultPageSize, cfg.API.MaxPageSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.SeedReferenceData {
		stats, err := db.SeedReferenceData(ctx)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed reference data")
		}
		logging.Info().
			Int("units", stats.Units).
			Int("nutrients", stats.Nutrients).
			Int("food_groups", stats.FoodGroups).
			Int("raw_materials", stats.RawMaterials).
			Msg("Reference data seeded")
	}

	catalogCache := cache.New("catalog", cfg.API.LookupCacheTTL)
	defer catalogCache.Close()
	calc := nutrition.NewService(db,
		nutrition.WithCache(catalogCache),
		nutrition.WithMaxIngredients(cfg.API.MaxIngredients),
	)

	authComponents, err := auth.Setup(&cfg.Security, 0)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}
	defer func() {
		if err := authComponents.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()
	warnInsecureSettings(cfg)

	enforcer, err := authz.NewEnforcer(&authz.EnforcerConfig{
		ModelPath:    cfg.Security.Casbin.ModelPath,
		PolicyPath:   cfg.Security.Casbin.PolicyPath,
		DefaultRole:  cfg.Security.Casbin.DefaultRole,
		CacheEnabled: cfg.Security.Casbin.CacheEnabled,
		CacheTTL:     cfg.Security.Casbin.CacheTTL,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}
	defer enforcer.Close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	bus, err := events.NewBus(events.DefaultBusConfig(), logging.NewWatermillLogger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	wsHub := ws.NewHub()
	bus.Subscribe("catalog-cache", calc.HandleChangeEvent)
	bus.Subscribe("websocket", wsHub.HandleChangeEvent)

	auditLogger := initAudit(ctx, cfg, db)
	if auditLogger != nil {
		defer func() {
			if err := auditLogger.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing audit logger")
			}
		}()
		bus.Subscribe("audit", auditLogger.HandleChangeEvent)
		tree.AddDataService(services.NewPeriodicService("audit-retention", auditLogger.CleanupInterval(), auditLogger.Cleanup))
	}

	if authComponents.Sessions != nil {
		store := authComponents.Sessions.Store()
		tree.AddDataService(services.NewPeriodicService("session-cleanup", sessionCleanupInterval, func(ctx context.Context) (int64, error) {
			n, err := store.CleanupExpired(ctx)
			return int64(n), err
		}))
	}

	handler := api.NewHandler(db, calc, cfg, authComponents, wsHub)
	handler.SetEventPublisher(bus)
	if auditLogger != nil {
		handler.SetAuditLogger(auditLogger)
	}
	initImporter(cfg, db, handler)

	router := api.NewRouter(handler,
		authComponents.Middleware,
		authz.NewMiddleware(enforcer),
		api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security)),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Strs("subscribers", bus.Handlers()).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
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

	logging.Info().Msg("Nutrimaster stopped")
}

// warnInsecureSettings logs settings that are acceptable in development only.
func warnInsecureSettings(cfg *config.Config) {
	if cfg.Security.AuthMode == "none" {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  Every request runs with the admin role.")
		logging.Warn().Msg("  Use only for local development or isolated networks.")
		logging.Warn().Msg("============================================================")
	}
	if cfg.Security.AuthMode == "basic" {
		logging.Warn().Msg("Basic Auth transmits credentials with each request. Use HTTPS in production!")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*). Set explicit origins in production.")
	}
	if cfg.Security.AuthMode == "session" && cfg.Security.SessionStore == "memory" && !cfg.IsDevelopment() {
		logging.Warn().Msg("Session store is 'memory': sessions are lost on restart. Consider SESSION_STORE=badger.")
	}
}
