// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package recommend

import (
	"context"
	"sort"

	"github.com/tomtom215/tablescout/internal/models"
)

// Reranker scores documents against a query. Scores are returned in input
// order and may be on any scale; the engine min-max normalizes them.
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []string) ([]float64, error)
}

// Less is the ranking order: tier ascending, score descending, distance
// ascending, source trust descending, then name ascending so the order is
// total and deterministic.
func Less(a, b *models.Candidate) bool {
	if a.Tier != b.Tier {
		return a.Tier < b.Tier
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.DistanceKM != b.DistanceKM {
		return a.DistanceKM < b.DistanceKM
	}
	if a.SourceTrustScore != b.SourceTrustScore {
		return a.SourceTrustScore > b.SourceTrustScore
	}
	return a.Name() < b.Name()
}

// Sort orders candidates in place by Less.
func Sort(candidates []*models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return Less(candidates[i], candidates[j])
	})
}

// TierCounts returns how many candidates are in each tier.
func TierCounts(candidates []*models.Candidate) (strict, relaxed int) {
	for _, c := range candidates {
		if c.Relaxed() {
			relaxed++
		} else {
			strict++
		}
	}
	return strict, relaxed
}
