// Observatoire - Global Public Data & Markets Dashboard
// Copyright 2026 The Observatoire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/observatoire-global/observatoire

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

// DefaultConfigPaths lists where config files are searched, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/observatoire/config.yaml",
	"/etc/observatoire/config.yml",
}

// ConfigPathEnvVar overrides the config file search when set.
const ConfigPathEnvVar = "OBS_CONFIG_PATH"

// defaultConfig returns the built-in defaults. They are loaded first, then
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8480,
			Timeout: 30 * time.Second,
		},
		Session: SessionConfig{
			IdleTTL:       2 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
		Quotes: QuotesConfig{
			BaseURL:  "https://data.observatoire.example.net/v1",
			Timeout:  15 * time.Second,
			CacheTTL: time.Minute,
		},
		Literature: LiteratureConfig{
			Timeout:        20 * time.Second,
			PerSourceLimit: 10,
			MaxPerSource:   50,
			PubMedAPIKey:   "",
		},
		Indicators: IndicatorsConfig{
			BaseURL:  "https://www150.statcan.gc.ca/t1/wds/rest",
			Timeout:  30 * time.Second,
			CacheTTL: 15 * time.Minute,
		},
		API: APIConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources with clear precedence:
// environment variables over the optional YAML file over built-in defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
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

// findConfigFile returns the first existing config file path, or "".
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

// sliceConfigPaths names config paths parsed as comma-separated slices when
// they arrive from environment variables.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated strings to slices for known
// slice fields. Env vars come in as strings but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps OBS_* environment variables to koanf config paths.
// Unmapped variables are skipped so random environment noise cannot pollute
// the configuration.
//
// Examples:
//   - OBS_HTTP_PORT -> server.port
//   - OBS_SESSION_IDLE_TTL -> session.idle_ttl
//   - OBS_PUBMED_API_KEY -> literature.pubmed_api_key
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"obs_http_host":    "server.host",
		"obs_http_port":    "server.port",
		"obs_http_timeout": "server.timeout",

		// Session mappings
		"obs_session_idle_ttl":       "session.idle_ttl",
		"obs_session_sweep_interval": "session.sweep_interval",

		// Quote provider mappings
		"obs_quotes_base_url":  "quotes.base_url",
		"obs_quotes_timeout":   "quotes.timeout",
		"obs_quotes_cache_ttl": "quotes.cache_ttl",

		// Literature mappings
		"obs_literature_timeout":          "literature.timeout",
		"obs_literature_per_source_limit": "literature.per_source_limit",
		"obs_literature_max_per_source":   "literature.max_per_source",
		"obs_pubmed_api_key":              "literature.pubmed_api_key",

		// Indicator mappings
		"obs_indicators_base_url":  "indicators.base_url",
		"obs_indicators_timeout":   "indicators.timeout",
		"obs_indicators_cache_ttl": "indicators.cache_ttl",

		// API mappings
		"obs_cors_origins":        "api.cors_origins",
		"obs_rate_limit_requests": "api.rate_limit_reqs",
		"obs_rate_limit_window":   "api.rate_limit_window",

		// Logging mappings
		"obs_log_level":  "logging.level",
		"obs_log_format": "logging.format",
		"obs_log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
