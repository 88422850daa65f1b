// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/models"
)

// Stats summarizes the leading candidates of a result.
type Stats struct {
	Candidates          int
	AvgTrust            float64
	MedianDistanceMiles float64
}

// Summarize computes Stats over the first top candidates. Distances of zero
// are left out of the median.
func Summarize(ranked []*models.Candidate, top int) Stats {
	s := Stats{Candidates: len(ranked)}
	top = min(top, len(ranked))
	if top <= 0 {
		return s
	}
	var trust float64
	miles := make([]float64, 0, top)
	for _, c := range ranked[:top] {
		trust += c.SourceTrustScore
		if c.DistanceMiles > 0 {
			miles = append(miles, c.DistanceMiles)
		}
	}
	s.AvgTrust = trust / float64(top)
	s.MedianDistanceMiles = median(miles)
	return s
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	slices.Sort(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

func (p *Pipeline) logSummary(ctx context.Context, r *run, elapsed time.Duration) {
	top := p.enrichCount(r)
	if top == 0 {
		top = len(r.ranked)
	}
	s := Summarize(r.ranked, top)
	logging.Ctx(ctx).Info().
		Str("component", "pipeline").
		Str("mode", r.mode).
		Str("city", r.prefs.City).
		Str("area", r.prefs.Area).
		Float64("radius_km", r.area.RadiusKM).
		Int("candidates", s.Candidates).
		Float64("avg_trust", s.AvgTrust).
		Float64("median_distance_miles", s.MedianDistanceMiles).
		Dur("elapsed", elapsed).
		Msg("Recommendation complete")
}
