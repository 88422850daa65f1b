// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package recommend

import (
	"fmt"
	"time"
)

// Score term weights. They sum to 1 so the base score stays in [0, 1].
const (
	WeightCuisine     = 0.30
	WeightAmbiance    = 0.10
	WeightBudget      = 0.10
	WeightDistance    = 0.25
	WeightPopularity  = 0.20
	WeightReliability = 0.05
)

// Relaxed-tier adjustments applied before sorting.
const (
	// RelaxedTierDiscount scales the score of any candidate that violated a
	// hard constraint.
	RelaxedTierDiscount = 0.85

	// ExtraViolationPenalty is subtracted per violation beyond the first.
	ExtraViolationPenalty = 0.05
)

// Matching thresholds.
const (
	// DistanceMatchSlack lets a place slightly outside the radius still count
	// as a distance match.
	DistanceMatchSlack = 1.1

	// PopularRating is the provider rating from which a place counts as popular.
	PopularRating = 4.0

	// neutralScore is used for terms the user expressed no preference on.
	neutralScore = 0.5
)

// Config tunes ranking.
type Config struct {
	// ResultLimit caps the ranked list; 0 keeps everything.
	ResultLimit int `json:"result_limit"`

	// RerankTopN is how many leading candidates the reranker sees.
	RerankTopN int `json:"rerank_top_n"`

	// RerankWeight is w in base*(1-w) + rerank*w.
	RerankWeight float64 `json:"rerank_weight"`

	// RerankTimeout bounds the reranker call.
	RerankTimeout time.Duration `json:"rerank_timeout"`
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() Config {
	return Config{
		ResultLimit:   24,
		RerankTopN:    10,
		RerankWeight:  0.4,
		RerankTimeout: 5 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ResultLimit < 0 {
		return fmt.Errorf("result_limit must be non-negative, got %d", c.ResultLimit)
	}
	if c.RerankTopN < 1 {
		return fmt.Errorf("rerank_top_n must be positive, got %d", c.RerankTopN)
	}
	if c.RerankWeight < 0 || c.RerankWeight > 1 {
		return fmt.Errorf("rerank_weight must be in [0, 1], got %f", c.RerankWeight)
	}
	if c.RerankTimeout <= 0 {
		return fmt.Errorf("rerank_timeout must be positive, got %v", c.RerankTimeout)
	}
	return nil
}
