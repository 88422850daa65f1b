// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateGeoapify,
		c.validateLLM,
		c.validateRerank,
		c.validateEnrich,
		c.validateSearch,
		c.validateSession,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateGeoapify() error {
	if c.Geoapify.APIKey == "" {
		return fmt.Errorf("GEOAPIFY_API_KEY is required")
	}
	if err := validateHTTPURL("GEOAPIFY_BASE_URL", c.Geoapify.BaseURL); err != nil {
		return err
	}
	if c.Geoapify.MaxResults < 1 || c.Geoapify.MaxResults > 500 {
		return fmt.Errorf("GEOAPIFY_MAX_RESULTS must be between 1 and 500")
	}
	if c.Geoapify.Timeout <= 0 {
		return fmt.Errorf("GEOAPIFY_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "":
		return nil
	case "openai", "ollama":
		if err := validateHTTPURL("LLM_BASE_URL", c.LLM.BaseURL); err != nil {
			return err
		}
	case "gemini":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of openai, ollama, gemini; got %q", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("LLM_MODEL_ID is required when LLM_PROVIDER is set")
	}
	if c.LLM.HistoryTurns < 0 {
		return fmt.Errorf("LLM_HISTORY_TURNS must not be negative")
	}
	return nil
}

func (c *Config) validateRerank() error {
	if c.Rerank.Weight < 0 || c.Rerank.Weight > 1 {
		return fmt.Errorf("RERANK_WEIGHT must be within [0, 1], got %v", c.Rerank.Weight)
	}
	if c.Rerank.TopN < 1 {
		return fmt.Errorf("RERANK_TOP_N must be at least 1")
	}
	if c.Rerank.Enabled {
		return validateHTTPURL("RERANK_BASE_URL", c.Rerank.BaseURL)
	}
	return nil
}

func (c *Config) validateEnrich() error {
	if c.Enrich.TopN < 0 {
		return fmt.Errorf("ENRICH_TOP_N must not be negative")
	}
	if c.Enrich.Concurrency < 1 {
		return fmt.Errorf("ENRICH_CONCURRENCY must be at least 1")
	}
	if c.Enrich.SearchAPIKey != "" {
		return validateHTTPURL("ENRICH_SEARCH_BASE_URL", c.Enrich.SearchBaseURL)
	}
	return nil
}

func (c *Config) validateSearch() error {
	s := c.Search
	if s.DefaultDistanceKM <= 0 {
		return fmt.Errorf("DEFAULT_DISTANCE_KM must be positive")
	}
	if s.BBoxPaddingKM < 0 {
		return fmt.Errorf("BBOX_PADDING_KM must not be negative")
	}
	if s.MaxRadiusKM < s.DefaultDistanceKM {
		return fmt.Errorf("MAX_RADIUS_KM (%v) must be >= DEFAULT_DISTANCE_KM (%v)", s.MaxRadiusKM, s.DefaultDistanceKM)
	}
	if s.ResultLimit < 1 {
		return fmt.Errorf("RESULT_LIMIT must be at least 1")
	}
	if s.DefaultRegion.Enabled {
		if s.DefaultRegion.Latitude < -90 || s.DefaultRegion.Latitude > 90 {
			return fmt.Errorf("DEFAULT_REGION_LATITUDE must be within [-90, 90]")
		}
		if s.DefaultRegion.Longitude < -180 || s.DefaultRegion.Longitude > 180 {
			return fmt.Errorf("DEFAULT_REGION_LONGITUDE must be within [-180, 180]")
		}
	}
	return nil
}

func (c *Config) validateSession() error {
	switch c.Session.Backend {
	case "memory", "badger":
	default:
		return fmt.Errorf("SESSION_BACKEND must be memory or badger, got %q", c.Session.Backend)
	}
	if c.Session.MaxTurns < 1 {
		return fmt.Errorf("SESSION_MAX_TURNS must be at least 1")
	}
	return nil
}

// validateHTTPURL requires an absolute http(s) URL.
func validateHTTPURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
