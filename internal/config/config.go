// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

// Package config loads and validates Kennelwise configuration.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or ./config.yaml)
//  3. Environment variables (SERVER_PORT, SECURITY_JWT_SECRET, ...)
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the Kennelwise server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Billing  BillingConfig  `koanf:"billing"`
	Reminder ReminderConfig `koanf:"reminder"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port. Default: 8480
	Port int `koanf:"port"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout is the graceful shutdown deadline.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// BaseDomain is the apex domain used for subdomain tenant resolution.
	// A request to "sunnypaws.kennelwise.app" resolves tenant "sunnypaws"
	// when BaseDomain is "kennelwise.app".
	BaseDomain string `koanf:"base_domain"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds DuckDB connection settings.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:" for an in-memory
	// database (used by tests).
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB worker thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`

	// SeedDemoData loads a small demo tenant with sample data at startup.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// SecurityConfig holds authentication and HTTP hardening settings.
type SecurityConfig struct {
	// JWTSecret signs access tokens (HS256). Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the JWT expiry. Default: 24h.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// SuperAdminAPIKey authenticates platform operators across tenants.
	// Empty disables the super-admin path entirely.
	SuperAdminAPIKey string `koanf:"super_admin_api_key"`

	// BcryptCost is the bcrypt hashing cost for staff passwords.
	BcryptCost int `koanf:"bcrypt_cost"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// CORSOrigins lists allowed cross-origin hosts. "*" allows any origin
	// and triggers a startup warning when authentication is enabled.
	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds pagination defaults.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// BillingConfig holds payment gateway settings.
type BillingConfig struct {
	// GatewayURL is the external card processor endpoint. Empty runs the
	// gateway client in record-only mode (cash/check payments still work).
	GatewayURL string `koanf:"gateway_url"`

	// GatewayAPIKey authenticates against the processor.
	GatewayAPIKey string `koanf:"gateway_api_key"`

	// GatewayTimeout bounds a single charge call.
	GatewayTimeout time.Duration `koanf:"gateway_timeout"`

	// GatewayRateLimit is the max charge requests per second sent upstream.
	GatewayRateLimit float64 `koanf:"gateway_rate_limit"`

	// DriftToleranceCents is the max allowed disagreement between revenue
	// computed from invoices, payments, and reservation charges before the
	// revenue report flags drift.
	DriftToleranceCents int64 `koanf:"drift_tolerance_cents"`
}

// ReminderConfig holds the reservation reminder scheduler settings.
type ReminderConfig struct {
	Enabled bool `koanf:"enabled"`

	// CheckInterval is how often the scheduler scans for upcoming arrivals.
	CheckInterval time.Duration `koanf:"check_interval"`

	// LeadTime is how far ahead of the reservation start a reminder fires.
	LeadTime time.Duration `koanf:"lead_time"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Environment, "development")
}

// ShouldWarnAboutCORS reports whether the wildcard-CORS startup warning
// applies: any-origin CORS combined with credentialed authentication.
func (c *Config) ShouldWarnAboutCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters (got %d)", len(c.Security.JWTSecret))
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive")
	}
	if c.Security.BcryptCost < 10 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost must be between 10 and 31, got %d", c.Security.BcryptCost)
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size must be between 1 and api.max_page_size")
	}
	if c.Billing.DriftToleranceCents < 0 {
		return fmt.Errorf("billing.drift_tolerance_cents must not be negative")
	}
	if c.Reminder.Enabled && c.Reminder.CheckInterval < time.Second {
		return fmt.Errorf("reminder.check_interval must be at least 1s when reminders are enabled")
	}
	return nil
}
