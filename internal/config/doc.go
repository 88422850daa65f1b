// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package config loads and validates service configuration with koanf v2.

# Sources

Layers, lowest priority first:
  - built-in defaults (structs provider)
  - .env in the working directory, merged into the process environment
    without overriding variables that are already set (godotenv)
  - an optional YAML file at CONFIG_PATH, ./config.yaml or
    /etc/tablescout/config.yaml
  - environment variables, mapped through an explicit table

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 8010)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT (0 disables; streams can run long)
  - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW,
    DISABLE_RATE_LIMIT

Geoapify (required):
  - GEOAPIFY_API_KEY, GEOAPIFY_BASE_URL, GEOAPIFY_MAX_RESULTS,
    GEOAPIFY_CATEGORIES, GEOAPIFY_RPS, GEOAPIFY_GEOCODE_CACHE_TTL

LLM (optional; empty provider selects the rule parser):
  - LLM_PROVIDER (openai, ollama, gemini), LLM_BASE_URL, LLM_MODEL_ID,
    LLM_API_KEY, LLM_HISTORY_TURNS, LLM_REASON_ENABLED

Rerank (optional):
  - RERANK_ENABLED, RERANK_BASE_URL, RERANK_MODEL, RERANK_WEIGHT,
    RERANK_TOP_N, RERANK_TIMEOUT

Enrichment:
  - ENRICH_TOP_N, ENRICH_CONCURRENCY, ENRICH_TIMEOUT,
    ENRICH_SEARCH_BASE_URL, TAVILY_API_KEY

Search:
  - DEFAULT_DISTANCE_KM, BBOX_PADDING_KM, MAX_RADIUS_KM, LANG_DEFAULT,
    RESULT_LIMIT, DEFAULT_REGION_ENABLED, DEFAULT_REGION_LABEL,
    DEFAULT_REGION_LATITUDE, DEFAULT_REGION_LONGITUDE

Session and stream:
  - SESSION_BACKEND (memory, badger), SESSION_MAX_TURNS, SESSION_TTL
  - STREAM_INITIAL_BATCH

# Validation

Validate rejects out-of-range values at startup: ports, a rerank weight
outside [0,1], non-positive top-N values, unknown providers or backends,
and malformed upstream URLs.

# Usage

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
*/
package config
