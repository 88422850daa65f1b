// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package recommend

import (
	"math"
	"testing"
	"time"
)

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightCuisine + WeightAmbiance + WeightBudget + WeightDistance + WeightPopularity + WeightReliability
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum = %f, want 1", sum)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unlimited results", func(c *Config) { c.ResultLimit = 0 }, false},
		{"negative limit", func(c *Config) { c.ResultLimit = -1 }, true},
		{"zero top n", func(c *Config) { c.RerankTopN = 0 }, true},
		{"weight zero", func(c *Config) { c.RerankWeight = 0 }, false},
		{"weight one", func(c *Config) { c.RerankWeight = 1 }, false},
		{"weight above one", func(c *Config) { c.RerankWeight = 1.2 }, true},
		{"weight negative", func(c *Config) { c.RerankWeight = -0.1 }, true},
		{"zero timeout", func(c *Config) { c.RerankTimeout = 0 }, true},
		{"short timeout", func(c *Config) { c.RerankTimeout = time.Millisecond }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RerankTopN = -3
	if _, err := NewEngine(cfg, nil); err == nil {
		t.Fatal("NewEngine() error = nil, want error")
	}
}
