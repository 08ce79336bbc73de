// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables and an optional YAML file. It provides a centralized Config
// struct used across the application.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host     string `yaml:"host"      env:"APP_HOST"  env-default:"0.0.0.0"`
	Port     string `yaml:"port"      env:"APP_PORT"  env-default:"8080"`
	Env      string `yaml:"env"       env:"APP_ENV"   env-default:"development"` // "development", "production", "testing"
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"debug"`

	// BaseURL is the public origin of the site. The OAuth redirect target
	// is built from it.
	BaseURL string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`

	// WebRoot is an optional directory holding the built client (index.html
	// plus assets/). Empty disables SPA serving.
	WebRoot string `yaml:"web_root" env:"WEB_ROOT"`

	// PostgreSQL connection
	DBHost     string `yaml:"db_host"     env:"POSTGRES_HOST"     env-default:"localhost"`
	DBPort     string `yaml:"db_port"     env:"POSTGRES_PORT"     env-default:"5432"`
	DBUser     string `yaml:"db_user"     env:"POSTGRES_USER"     env-default:"topichub"`
	DBPassword string `yaml:"db_password" env:"POSTGRES_PASSWORD" env-default:"changeme"`
	DBName     string `yaml:"db_name"     env:"POSTGRES_DB"       env-default:"topichub"`

	// Valkey (Redis-compatible cache + session store)
	ValkeyHost     string `yaml:"valkey_host"     env:"VALKEY_HOST"     env-default:"localhost"`
	ValkeyPort     string `yaml:"valkey_port"     env:"VALKEY_PORT"     env-default:"6379"`
	ValkeyPassword string `yaml:"valkey_password" env:"VALKEY_PASSWORD"`

	// S3-compatible object storage for uploaded files
	S3Endpoint  string `yaml:"s3_endpoint"   env:"S3_ENDPOINT"`
	S3Region    string `yaml:"s3_region"     env:"S3_REGION"     env-default:"fsn1"`
	S3AccessKey string `yaml:"s3_access_key" env:"S3_ACCESS_KEY"`
	S3SecretKey string `yaml:"s3_secret_key" env:"S3_SECRET_KEY"`
	S3Bucket    string `yaml:"s3_bucket"     env:"S3_BUCKET"     env-default:"files"`
	S3PublicURL string `yaml:"s3_public_url" env:"S3_PUBLIC_URL"`

	// Google OAuth
	GoogleClientID     string `yaml:"google_client_id"     env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `yaml:"google_client_secret" env:"GOOGLE_CLIENT_SECRET"`
	OAuthStateSecret   string `yaml:"oauth_state_secret"   env:"OAUTH_STATE_SECRET"`

	// Sessions
	SessionTTL               time.Duration `yaml:"session_ttl"                env:"SESSION_TTL"                env-default:"24h"`
	SessionReconcileInterval time.Duration `yaml:"session_reconcile_interval" env:"SESSION_RECONCILE_INTERVAL" env-default:"5m"`

	// Feed
	FeedCacheTTL              time.Duration `yaml:"feed_cache_ttl"               env:"FEED_CACHE_TTL"               env-default:"1m"`
	FeedSearchCaseInsensitive bool          `yaml:"feed_search_case_insensitive" env:"FEED_SEARCH_CASE_INSENSITIVE" env-default:"false"`

	// TrustProxy takes client addresses from X-Forwarded-For / X-Real-IP.
	// Enable only behind a reverse proxy that sets them.
	TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY" env-default:"false"`

	// Abandoned draft cleanup
	DraftAbandonAfter time.Duration `yaml:"draft_abandon_after" env:"DRAFT_ABANDON_AFTER" env-default:"24h"`
	DraftReapInterval time.Duration `yaml:"draft_reap_interval" env:"DRAFT_REAP_INTERVAL" env-default:"1h"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. When CONFIG_PATH points at a YAML
// file it is read first and environment variables override it. Returns an
// error if critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects intervals the workers cannot run with and enforces the
// settings production cannot run without.
func (c *Config) validate() error {
	if c.DraftReapInterval <= 0 {
		return fmt.Errorf("DRAFT_REAP_INTERVAL must be positive, got %s", c.DraftReapInterval)
	}
	if c.DraftAbandonAfter <= 0 {
		return fmt.Errorf("DRAFT_ABANDON_AFTER must be positive, got %s", c.DraftAbandonAfter)
	}
	if c.Env != "production" {
		return nil
	}
	if c.DBPassword == "changeme" {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	if c.GoogleEnabled() && len(c.OAuthStateSecret) < 32 {
		return fmt.Errorf("OAUTH_STATE_SECRET must be at least 32 characters when Google sign-in is enabled")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// GoogleEnabled reports whether both Google OAuth credentials are present.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// StorageEnabled reports whether object storage credentials are present.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// OAuthCallbackURL is the redirect target registered with the OAuth provider.
func (c *Config) OAuthCallbackURL() string {
	return c.BaseURL + "/auth/callback"
}
