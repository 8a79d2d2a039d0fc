// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

// Package config defines the layered runtime configuration: built-in
// defaults, an optional YAML file, and environment variable overrides.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Observatoire server.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Session    SessionConfig    `koanf:"session"`
	Quotes     QuotesConfig     `koanf:"quotes"`
	Literature LiteratureConfig `koanf:"literature"`
	Indicators IndicatorsConfig `koanf:"indicators"`
	API        APIConfig        `koanf:"api"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// SessionConfig governs the in-memory session manager.
type SessionConfig struct {
	IdleTTL       time.Duration `koanf:"idle_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// QuotesConfig governs upstream market-data providers.
type QuotesConfig struct {
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// LiteratureConfig governs the literature fan-out.
type LiteratureConfig struct {
	Timeout        time.Duration `koanf:"timeout"`
	PerSourceLimit int           `koanf:"per_source_limit"`
	MaxPerSource   int           `koanf:"max_per_source"`
	PubMedAPIKey   string        `koanf:"pubmed_api_key"`
}

// IndicatorsConfig governs the Statistics Canada WDS client.
type IndicatorsConfig struct {
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// APIConfig holds request-surface settings.
type APIConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("session.idle_ttl must be positive, got %s", c.Session.IdleTTL)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be positive, got %s", c.Session.SweepInterval)
	}
	if c.Quotes.BaseURL == "" {
		return fmt.Errorf("quotes.base_url must be set")
	}
	if c.Indicators.BaseURL == "" {
		return fmt.Errorf("indicators.base_url must be set")
	}
	if c.Literature.PerSourceLimit < 1 {
		return fmt.Errorf("literature.per_source_limit must be at least 1, got %d", c.Literature.PerSourceLimit)
	}
	if c.Literature.MaxPerSource < c.Literature.PerSourceLimit {
		return fmt.Errorf("literature.max_per_source %d is below per_source_limit %d",
			c.Literature.MaxPerSource, c.Literature.PerSourceLimit)
	}
	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("api.rate_limit_reqs must be at least 1, got %d", c.API.RateLimitReqs)
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("logging.level %q is not a valid zerolog level", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
