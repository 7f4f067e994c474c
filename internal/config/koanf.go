// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/kennelwise/config.yaml",
	"/etc/kennelwise/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// sections are the recognized environment variable prefixes. An env var maps
// to a koanf path by lowercasing and splitting on the first underscore after
// the section name: SECURITY_JWT_SECRET -> security.jwt_secret.
var sections = []string{
	"SERVER", "DATABASE", "SECURITY", "API", "BILLING", "REMINDER", "LOGGING",
}

// defaultConfig returns a Config with all defaults applied. These are the
// lowest-priority layer; config file and env vars override them.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			BaseDomain:      "",
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:         "/data/kennelwise.duckdb",
			MaxMemory:    "2GB",
			Threads:      0, // 0 = runtime.NumCPU()
			SeedDemoData: false,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			SessionTimeout:    24 * time.Hour,
			SuperAdminAPIKey:  "",
			BcryptCost:        12,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Billing: BillingConfig{
			GatewayURL:          "",
			GatewayAPIKey:       "",
			GatewayTimeout:      15 * time.Second,
			GatewayRateLimit:    10,
			DriftToleranceCents: 0,
		},
		Reminder: ReminderConfig{
			Enabled:       true,
			CheckInterval: time.Minute,
			LeadTime:      24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
// defaults, then an optional YAML file, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns empty string if none is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps an environment variable name to a koanf path.
// Unrecognized variables return "" and are skipped, so unrelated process
// environment never leaks into configuration.
func envTransform(key string) string {
	for _, section := range sections {
		prefix := section + "_"
		if strings.HasPrefix(key, prefix) && len(key) > len(prefix) {
			rest := strings.ToLower(key[len(prefix):])
			return strings.ToLower(section) + "." + rest
		}
	}
	return ""
}

// processSliceFields converts comma-separated env values into slices for
// fields typed []string. Koanf's env provider yields plain strings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range []string{"security.cors_origins"} {
		if !k.Exists(path) {
			continue
		}
		if raw, ok := k.Get(path).(string); ok {
			parts := []string{}
			for _, p := range strings.Split(raw, ",") {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					parts = append(parts, trimmed)
				}
			}
			if err := k.Set(path, parts); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
