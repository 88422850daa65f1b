// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tablescout/config.yaml",
	"/etc/tablescout/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the .env file location.
const DotEnvPathEnvVar = "DOTENV_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8010,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Geoapify: GeoapifyConfig{
			BaseURL:           "https://api.geoapify.com",
			Timeout:           15 * time.Second,
			MaxResults:        20,
			Categories:        "catering.restaurant",
			RequestsPerSecond: 5,
			RetryBackoff:      500 * time.Millisecond,
			GeocodeCacheTTL:   30 * time.Minute,
			GeocodeCacheSize:  128,
		},
		LLM: LLMConfig{
			Timeout:      20 * time.Second,
			HistoryTurns: 4,
			Temperature:  0.1,
		},
		Rerank: RerankConfig{
			Enabled: false,
			Model:   "cross-encoder/ms-marco-MiniLM-L-6-v2",
			Weight:  0.4,
			TopN:    10,
			Timeout: 5 * time.Second,
		},
		Enrich: EnrichConfig{
			TopN:          8,
			Concurrency:   4,
			Timeout:       8 * time.Second,
			SearchBaseURL: "https://api.tavily.com",
			MaxResults:    6,
		},
		Search: SearchConfig{
			DefaultDistanceKM: 3.0,
			BBoxPaddingKM:     0.6,
			MaxRadiusKM:       50.0,
			LangDefault:       "en",
			ResultLimit:       24,
		},
		Session: SessionConfig{
			Backend:  "memory",
			MaxTurns: 10,
			TTL:      time.Hour,
		},
		Stream: StreamConfig{
			InitialBatch: 5,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. .env file: Merged into the process environment (existing vars win)
//  3. Config File: Optional YAML config file (if exists)
//  4. Environment Variables: Override any mapped setting
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables (highest priority)
	// GEOAPIFY_API_KEY -> geoapify.api_key
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
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

// loadDotEnv merges a .env file into the environment. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
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

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak into config.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Geoapify
	"geoapify_base_url":           "geoapify.base_url",
	"geoapify_api_key":            "geoapify.api_key",
	"geoapify_timeout":            "geoapify.timeout",
	"geoapify_max_results":        "geoapify.max_results",
	"geoapify_categories":         "geoapify.categories",
	"geoapify_rps":                "geoapify.requests_per_second",
	"geoapify_retry_backoff":      "geoapify.retry_backoff",
	"geoapify_geocode_cache_ttl":  "geoapify.geocode_cache_ttl",
	"geoapify_geocode_cache_size": "geoapify.geocode_cache_size",

	// LLM
	"llm_provider":       "llm.provider",
	"llm_base_url":       "llm.base_url",
	"llm_model_id":       "llm.model",
	"llm_api_key":        "llm.api_key",
	"llm_timeout":        "llm.timeout",
	"llm_history_turns":  "llm.history_turns",
	"llm_temperature":    "llm.temperature",
	"llm_reason_enabled": "llm.reason_enabled",

	// Rerank
	"rerank_enabled":  "rerank.enabled",
	"rerank_base_url": "rerank.base_url",
	"rerank_model":    "rerank.model",
	"rerank_weight":   "rerank.weight",
	"rerank_top_n":    "rerank.top_n",
	"rerank_timeout":  "rerank.timeout",

	// Enrichment
	"enrich_top_n":           "enrich.top_n",
	"enrich_concurrency":     "enrich.concurrency",
	"enrich_timeout":         "enrich.timeout",
	"enrich_search_base_url": "enrich.search_base_url",
	"tavily_api_key":         "enrich.search_api_key",
	"enrich_max_results":     "enrich.max_results",

	// Search
	"default_distance_km":      "search.default_distance_km",
	"bbox_padding_km":          "search.bbox_padding_km",
	"max_radius_km":            "search.max_radius_km",
	"lang_default":             "search.lang_default",
	"result_limit":             "search.result_limit",
	"default_region_enabled":   "search.default_region.enabled",
	"default_region_label":     "search.default_region.label",
	"default_region_latitude":  "search.default_region.latitude",
	"default_region_longitude": "search.default_region.longitude",

	// Session
	"session_backend":   "session.backend",
	"session_max_turns": "session.max_turns",
	"session_ttl":       "session.ttl",

	// Stream
	"stream_initial_batch": "stream.initial_batch",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - GEOAPIFY_API_KEY -> geoapify.api_key
//   - LLM_MODEL_ID -> llm.model
//   - RERANK_TOP_N -> rerank.top_n
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
