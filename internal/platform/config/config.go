// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (gateway, session storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the vidshare web frontend.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// TrustedProxies lists CIDRs or addresses whose forwarding headers are
	// believed. Empty means the connection peer is always the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Remote video API
	APIBaseURL string `env:"API_BASE_URL,required"`

	// APITimeout of zero leaves the http.Client default in place (no timeout).
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`

	// Tab storage. An empty RedisURL selects the in-memory backend.
	RedisURL         string        `env:"REDIS_URL"`
	SessionSecret    string        `env:"SESSION_SECRET,required"`
	SessionBlockKey  string        `env:"SESSION_BLOCK_KEY"`
	SessionTTL       time.Duration `env:"SESSION_TTL"        envDefault:"24h"`
	OperationLockTTL time.Duration `env:"OPERATION_LOCK_TTL" envDefault:"10m"`
	SliceCapacity    int           `env:"SLICE_CAPACITY"     envDefault:"10000"`

	// Upload handling
	MaxUploadBytes  int64 `env:"MAX_UPLOAD_BYTES" envDefault:"536870912"`
	MultipartMemory int64 `env:"MULTIPART_MEMORY" envDefault:"33554432"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func load(options env.Options) (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}

	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("config: SESSION_SECRET must be at least 32 bytes")
	}

	switch len(c.SessionBlockKey) {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("config: SESSION_BLOCK_KEY must be 16, 24 or 32 bytes")
	}

	if c.SessionTTL <= 0 || c.OperationLockTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL and OPERATION_LOCK_TTL must be positive")
	}

	if c.MultipartMemory <= 0 || c.MaxUploadBytes < c.MultipartMemory {
		return fmt.Errorf("config: MAX_UPLOAD_BYTES must be >= MULTIPART_MEMORY > 0")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesRedis reports whether tab storage and operation tracking live in Redis.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}
