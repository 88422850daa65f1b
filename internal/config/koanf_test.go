// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points config discovery at an empty temp dir so the developer's
// own config.yaml or .env never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv(DotEnvPathEnvVar, "")
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Geoapify.BaseURL != "https://api.geoapify.com" {
		t.Errorf("Geoapify.BaseURL = %q", cfg.Geoapify.BaseURL)
	}
	if cfg.Geoapify.Timeout != 15*time.Second {
		t.Errorf("Geoapify.Timeout = %v, want 15s", cfg.Geoapify.Timeout)
	}
	if cfg.Geoapify.MaxResults != 20 {
		t.Errorf("Geoapify.MaxResults = %d, want 20", cfg.Geoapify.MaxResults)
	}
	if cfg.Search.DefaultDistanceKM != 3.0 {
		t.Errorf("Search.DefaultDistanceKM = %v, want 3", cfg.Search.DefaultDistanceKM)
	}
	if cfg.Search.BBoxPaddingKM != 0.6 {
		t.Errorf("Search.BBoxPaddingKM = %v, want 0.6", cfg.Search.BBoxPaddingKM)
	}
	if cfg.Search.MaxRadiusKM != 50 {
		t.Errorf("Search.MaxRadiusKM = %v, want 50", cfg.Search.MaxRadiusKM)
	}
	if cfg.Rerank.Enabled {
		t.Error("Rerank.Enabled should be false by default")
	}
	if cfg.Rerank.Weight != 0.4 {
		t.Errorf("Rerank.Weight = %v, want 0.4", cfg.Rerank.Weight)
	}
	if cfg.Rerank.TopN != 10 {
		t.Errorf("Rerank.TopN = %d, want 10", cfg.Rerank.TopN)
	}
	if cfg.LLM.HasLLM() {
		t.Error("LLM should be unconfigured by default")
	}
	if cfg.Session.Backend != "memory" {
		t.Errorf("Session.Backend = %q, want memory", cfg.Session.Backend)
	}
	if cfg.Search.DefaultRegion.Enabled {
		t.Error("DefaultRegion should be disabled by default")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"GEOAPIFY_API_KEY", "geoapify.api_key"},
		{"geoapify_api_key", "geoapify.api_key"},
		{"LLM_MODEL_ID", "llm.model"},
		{"RERANK_TOP_N", "rerank.top_n"},
		{"TAVILY_API_KEY", "enrich.search_api_key"},
		{"HTTP_PORT", "server.port"},
		{"DEFAULT_REGION_LATITUDE", "search.default_region.latitude"},
		{"SESSION_BACKEND", "session.backend"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("GEOAPIFY_API_KEY", "geo-key")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RERANK_WEIGHT", "0.25")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Geoapify.APIKey != "geo-key" {
		t.Errorf("Geoapify.APIKey = %q", cfg.Geoapify.APIKey)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Rerank.Weight != 0.25 {
		t.Errorf("Rerank.Weight = %v, want 0.25", cfg.Rerank.Weight)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `
geoapify:
  api_key: from-file
  max_results: 40
search:
  default_distance_km: 5
rerank:
  enabled: true
  base_url: http://reranker:8080
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("GEOAPIFY_MAX_RESULTS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Geoapify.APIKey != "from-file" {
		t.Errorf("Geoapify.APIKey = %q, want from-file", cfg.Geoapify.APIKey)
	}
	if cfg.Geoapify.MaxResults != 30 {
		t.Errorf("Geoapify.MaxResults = %d, want env override 30", cfg.Geoapify.MaxResults)
	}
	if cfg.Search.DefaultDistanceKM != 5 {
		t.Errorf("Search.DefaultDistanceKM = %v, want 5", cfg.Search.DefaultDistanceKM)
	}
	if !cfg.Rerank.Enabled || cfg.Rerank.BaseURL != "http://reranker:8080" {
		t.Errorf("Rerank = %+v", cfg.Rerank)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GEOAPIFY_API_KEY=dotenv-key\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv never overrides variables that already exist, so make sure it is unset.
	t.Setenv("GEOAPIFY_API_KEY", "")
	if err := os.Unsetenv("GEOAPIFY_API_KEY"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Geoapify.APIKey != "dotenv-key" {
		t.Errorf("Geoapify.APIKey = %q, want dotenv-key", cfg.Geoapify.APIKey)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{}"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("missing CONFIG_PATH should fall back, got %q", got)
	}
}
