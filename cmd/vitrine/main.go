// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Command vitrine runs the homepage content service: versioned sections,
// scheduled publication, and the cache-backed public read path.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vitrine-cms/vitrine/internal/cache"
	"github.com/vitrine-cms/vitrine/internal/config"
	"github.com/vitrine-cms/vitrine/internal/content"
	"github.com/vitrine-cms/vitrine/internal/handler/api"
	"github.com/vitrine-cms/vitrine/internal/logging"
	"github.com/vitrine-cms/vitrine/internal/schedule"
	"github.com/vitrine-cms/vitrine/internal/store"
)

// Version information, injected at build time via -ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Vitrine - storefront homepage content service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_DB_PATH         SQLite database path (default: ./data/vitrine.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_DEFAULT_LOCALE  Default content locale (default: en)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_REDIS_URL       Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_SWEEP_ENABLED   Run the minutely schedule sweep (default: true)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_DO_SEED         Seed demo content on startup (default: false)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("vitrine %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if cerr := db.Close(); cerr != nil {
			slog.Error("error closing database connection", "error", cerr)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	st := store.NewSQLiteStore(db)

	// Upgrade logger to also write WARN and ERROR logs to the Event Log database
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, st))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()

	// Seed demo content if enabled
	if cfg.DoSeed {
		if err := store.Seed(ctx, st, cfg.DefaultLocale, logger); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Cache backend: Redis when configured, in-process memory otherwise.
	// A Redis connection failure falls back to memory so the service still
	// starts; the event log records the degradation.
	cacheCfg := cache.Config{
		Type:            "memory",
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		CleanupInterval: time.Minute,
	}
	if cfg.UseRedisCache() {
		cacheCfg.Type = "redis"
		cacheCfg.RedisURL = cfg.RedisURL
	}
	cacher, err := cache.New(cacheCfg)
	if err != nil {
		logger.Warn("cache backend unavailable, falling back to memory cache",
			"type", cacheCfg.Type, "error", err)
		cacher, _ = cache.New(cache.Config{
			Type:            "memory",
			DefaultTTL:      cfg.CacheTTLDuration(),
			CleanupInterval: time.Minute,
		})
	}
	defer func() {
		if cerr := cacher.Close(); cerr != nil {
			logger.Error("error closing cache", "error", cerr)
		}
	}()
	slog.Info("cache ready", "type", cacheCfg.Type)

	// Invalidation coordinator with out-of-band retry
	retrier := cache.NewRetrier(cacher, logger, cache.DefaultRetrierConfig())
	retrier.Start(ctx)
	defer retrier.Stop()
	coordinator := cache.NewCoordinator(cacher, nil, retrier, logger, cfg.DefaultLocale)

	// Content engine
	sections := content.NewSectionManager(st, coordinator, logger, nil)
	versions := content.NewVersionManager(st, coordinator, logger, nil)
	publisher := content.NewPublisher(st, coordinator, logger, nil)
	reader := content.NewReader(st, cacher, logger, cfg.CacheTTLDuration())

	// Scheduler
	planner := schedule.NewPlanner(st, logger, nil)
	sweeper := schedule.NewSweeper(st, publisher, coordinator, logger, nil)
	if cfg.SweepEnabled {
		runner := schedule.NewRunner(sweeper, logger)
		if err := runner.Start(); err != nil {
			return fmt.Errorf("starting schedule runner: %w", err)
		}
		defer runner.Stop()
	}

	// HTTP surface
	apiHandler := api.NewHandler(sections, versions, publisher, reader, planner, sweeper, st, cacher, logger, cfg.DefaultLocale)
	healthHandler := api.NewHealthHandler(apiHandler)
	router := api.NewRouter(apiHandler, healthHandler, api.RouterConfig{
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if serr := srv.ListenAndServe(); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			slog.Error("server error", "error", serr)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
