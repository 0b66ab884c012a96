// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"VITRINE_DB_PATH" envDefault:"./data/vitrine.db"`
	ServerHost string `env:"VITRINE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"VITRINE_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"VITRINE_ENV" envDefault:"development"`
	LogLevel   string `env:"VITRINE_LOG_LEVEL" envDefault:"info"`

	// Locale configuration
	DefaultLocale string `env:"VITRINE_DEFAULT_LOCALE" envDefault:"en"`

	// Cache configuration
	RedisURL    string `env:"VITRINE_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix string `env:"VITRINE_CACHE_PREFIX" envDefault:"vitrine:"` // Redis key prefix
	CacheTTL    int    `env:"VITRINE_CACHE_TTL" envDefault:"300"`         // Homepage cache TTL in seconds

	// Scheduler configuration
	SweepEnabled bool `env:"VITRINE_SWEEP_ENABLED" envDefault:"true"` // Run the minutely schedule sweep

	// Rate limiting (requests per second per client, with burst)
	RateLimit float64 `env:"VITRINE_RATE_LIMIT" envDefault:"20"`
	RateBurst int     `env:"VITRINE_RATE_BURST" envDefault:"40"`

	// Seeding configuration
	DoSeed bool `env:"VITRINE_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("VITRINE_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.CacheTTL < 1 {
		return nil, fmt.Errorf("VITRINE_CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("VITRINE_RATE_LIMIT must be positive, got %v", cfg.RateLimit)
	}
	if cfg.DefaultLocale == "" {
		return nil, fmt.Errorf("VITRINE_DEFAULT_LOCALE must not be empty")
	}

	return cfg, nil
}
