// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values for every optional setting
//  2. .env: Loaded into the process environment when present (development)
//  3. Config File: Optional YAML config file (config.yaml)
//  4. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Upstreams:
//     - Geoapify: geocoding and place search (required)
//     - LLM: optional preference parsing and enrichment reasoning
//     - Rerank: optional cross-encoder relevance blending
//     - Enrich: detail sources for top-ranked candidates
//
//  2. Pipeline:
//     - Search: radius, padding, language, default region
//     - Stream: incremental delivery tuning
//     - Session: conversation history store
//
//  3. Service:
//     - Server: HTTP listener, CORS and rate limiting
//     - Logging: level and output format
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Geoapify GeoapifyConfig `koanf:"geoapify"`
	LLM      LLMConfig      `koanf:"llm"`
	Rerank   RerankConfig   `koanf:"rerank"`
	Enrich   EnrichConfig   `koanf:"enrich"`
	Search   SearchConfig   `koanf:"search"`
	Session  SessionConfig  `koanf:"session"`
	Stream   StreamConfig   `koanf:"stream"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              int           `koanf:"port"`
	Host              string        `koanf:"host"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"` // Zero disables; streaming responses can run long
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// GeoapifyConfig holds geocoding and place-search provider settings.
type GeoapifyConfig struct {
	BaseURL    string        `koanf:"base_url"`
	APIKey     string        `koanf:"api_key"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxResults int           `koanf:"max_results"`
	Categories string        `koanf:"categories"`
	// RequestsPerSecond caps outbound calls (free tier allows 5/s).
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// RetryBackoff is the single bounded backoff before the one retry.
	RetryBackoff     time.Duration `koanf:"retry_backoff"`
	GeocodeCacheTTL  time.Duration `koanf:"geocode_cache_ttl"`
	GeocodeCacheSize int           `koanf:"geocode_cache_size"`
}

// LLMConfig holds completion-service settings. An empty Provider selects
// the rule-based parser.
type LLMConfig struct {
	Provider     string        `koanf:"provider"` // "", openai, ollama, gemini
	BaseURL      string        `koanf:"base_url"`
	Model        string        `koanf:"model"`
	APIKey       string        `koanf:"api_key"`
	Timeout      time.Duration `koanf:"timeout"`
	HistoryTurns int           `koanf:"history_turns"`
	Temperature  float64       `koanf:"temperature"`
	// ReasonEnabled also routes enrichment reasoning through the LLM.
	ReasonEnabled bool `koanf:"reason_enabled"`
}

// RerankConfig holds cross-encoder reranker settings.
type RerankConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	Weight  float64       `koanf:"weight"`
	TopN    int           `koanf:"top_n"`
	Timeout time.Duration `koanf:"timeout"`
}

// EnrichConfig holds detail-source settings.
type EnrichConfig struct {
	TopN          int           `koanf:"top_n"`
	Concurrency   int           `koanf:"concurrency"`
	Timeout       time.Duration `koanf:"timeout"`
	SearchBaseURL string        `koanf:"search_base_url"`
	SearchAPIKey  string        `koanf:"search_api_key"`
	MaxResults    int           `koanf:"max_results"`
}

// SearchConfig holds search-area construction settings.
type SearchConfig struct {
	DefaultDistanceKM float64      `koanf:"default_distance_km"`
	BBoxPaddingKM     float64      `koanf:"bbox_padding_km"`
	MaxRadiusKM       float64      `koanf:"max_radius_km"`
	LangDefault       string       `koanf:"lang_default"`
	ResultLimit       int          `koanf:"result_limit"`
	DefaultRegion     RegionConfig `koanf:"default_region"`
}

// RegionConfig is the last-resort search anchor.
type RegionConfig struct {
	Enabled   bool    `koanf:"enabled"`
	Label     string  `koanf:"label"`
	Latitude  float64 `koanf:"latitude"`
	Longitude float64 `koanf:"longitude"`
}

// SessionConfig holds conversation history store settings.
type SessionConfig struct {
	Backend  string        `koanf:"backend"` // memory or badger
	MaxTurns int           `koanf:"max_turns"`
	TTL      time.Duration `koanf:"ttl"`
}

// StreamConfig holds incremental delivery settings.
type StreamConfig struct {
	// InitialBatch is how many leading candidates carry is_initial_batch=true.
	InitialBatch int `koanf:"initial_batch"`
}

// HasLLM reports whether a completion service is configured.
func (c *LLMConfig) HasLLM() bool {
	return c.Provider != ""
}
