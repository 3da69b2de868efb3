// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"OCMS_DB_PATH" envDefault:"./data/ocms-menus.db"`
	ServerHost string `env:"OCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OCMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"OCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"OCMS_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"OCMS_LOG_FORMAT" envDefault:"text"`
	CustomDir  string `env:"OCMS_CUSTOM_DIR" envDefault:"./custom"`

	// Cache configuration
	RedisURL     string `env:"OCMS_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"OCMS_CACHE_PREFIX" envDefault:"ocms:"`   // Redis key prefix
	CacheTTL     int    `env:"OCMS_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"OCMS_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Cron spec for refreshing cached site roots. Empty disables it.
	CacheRefreshSchedule string `env:"OCMS_CACHE_REFRESH_SCHEDULE" envDefault:"@every 5m"`

	// Languages accepted by the API "language" argument.
	Languages       []string `env:"OCMS_LANGUAGES" envDefault:"en" envSeparator:","`
	DefaultLanguage string   `env:"OCMS_DEFAULT_LANGUAGE" envDefault:"en"`

	APIRateLimit   float64       `env:"OCMS_API_RATE_LIMIT" envDefault:"20"`
	APIRateBurst   int           `env:"OCMS_API_RATE_BURST" envDefault:"40"`
	RequestTimeout time.Duration `env:"OCMS_REQUEST_TIMEOUT" envDefault:"30s"`

	// Seeding configuration
	DoSeed bool `env:"OCMS_DO_SEED" envDefault:"false"` // Seed a demo site, page tree and menus
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

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for i, lang := range c.Languages {
		c.Languages[i] = strings.TrimSpace(lang)
	}
	found := false
	for _, lang := range c.Languages {
		if strings.EqualFold(lang, c.DefaultLanguage) {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("OCMS_DEFAULT_LANGUAGE %q is not listed in OCMS_LANGUAGES", c.DefaultLanguage)
	}
	if c.APIRateLimit <= 0 || c.APIRateBurst <= 0 {
		return fmt.Errorf("OCMS_API_RATE_LIMIT and OCMS_API_RATE_BURST must be positive")
	}
	return nil
}
