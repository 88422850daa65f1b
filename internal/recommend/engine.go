// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
)

// Engine scores, tiers and ranks candidate places. It holds no per-request
// state and is safe for concurrent use.
type Engine struct {
	config   Config
	reranker Reranker
	logger   zerolog.Logger
}

// NewEngine creates a ranking engine. reranker may be nil, in which case the
// base score order is final.
func NewEngine(cfg Config, reranker Reranker) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranking config: %w", err)
	}
	return &Engine{
		config:   cfg,
		reranker: reranker,
		logger:   logging.WithComponent("ranking"),
	}, nil
}

// Score evaluates every place without sorting or truncating.
func (e *Engine) Score(prefs *models.PreferenceRecord, area *models.SearchArea, places []*models.PlaceRecord) []*models.Candidate {
	out := make([]*models.Candidate, 0, len(places))
	for _, p := range places {
		out = append(out, Evaluate(prefs, area, p))
	}
	return out
}

// Rank scores places, sorts them strict tier first, optionally reranks the
// leading candidates and truncates to the result limit. Hard-constraint
// violations demote a candidate to the relaxed tier; they never drop it.
func (e *Engine) Rank(ctx context.Context, prefs *models.PreferenceRecord, area *models.SearchArea, places []*models.PlaceRecord) []*models.Candidate {
	defer metrics.ObserveStage("score", time.Now())

	candidates := e.Score(prefs, area, places)
	Sort(candidates)

	if e.reranker != nil && len(candidates) > 1 {
		e.rerank(ctx, prefs, area, candidates)
	}

	if e.config.ResultLimit > 0 && len(candidates) > e.config.ResultLimit {
		candidates = candidates[:e.config.ResultLimit]
	}
	for _, c := range candidates {
		deriveRating(c)
	}

	strict, relaxed := TierCounts(candidates)
	metrics.RecordTierCounts(strict, relaxed)
	logging.Ctx(ctx).Debug().
		Int("places", len(places)).
		Int("strict", strict).
		Int("relaxed", relaxed).
		Msg("Ranked candidates")
	return candidates
}

// rerank blends reranker relevance into the leading candidates and re-sorts
// that segment only. Candidates keep their tier, so strict results still
// precede relaxed ones. Any failure leaves the base order untouched.
func (e *Engine) rerank(ctx context.Context, prefs *models.PreferenceRecord, area *models.SearchArea, candidates []*models.Candidate) {
	n := min(e.config.RerankTopN, len(candidates))
	head := candidates[:n]

	docs := make([]string, n)
	for i, c := range head {
		docs[i] = rerankDoc(c)
	}

	rctx, cancel := context.WithTimeout(ctx, e.config.RerankTimeout)
	defer cancel()

	start := time.Now()
	scores, err := e.reranker.Rerank(rctx, RerankQuery(prefs, area), docs)
	if err == nil && len(scores) != n {
		err = fmt.Errorf("reranker returned %d scores for %d documents", len(scores), n)
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		err = fmt.Errorf("%w: %w", models.ErrRerankDegraded, err)
		metrics.RecordDegradation(models.DegradationKind(err))
		logging.Ctx(ctx).Warn().Err(err).
			Dur("elapsed", time.Since(start)).
			Msg("Reranker unavailable, keeping base order")
		return
	}

	w := e.config.RerankWeight
	for i, c := range head {
		norm := normalized(scores, i)
		c.DebugScores["rerank"] = round3(norm)
		c.Score = c.Score*(1-w) + norm*w
	}
	Sort(head)
}

// normalized min-max scales scores[i]; a flat score set maps to 0.5.
func normalized(scores []float64, i int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range scores {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	if hi-lo < 1e-9 {
		return neutralScore
	}
	return (scores[i] - lo) / (hi - lo)
}

// RerankQuery describes the request to the reranker in one line.
func RerankQuery(prefs *models.PreferenceRecord, area *models.SearchArea) string {
	city := prefs.City
	if city == "" && area != nil {
		city = area.AnchorLabel
	}
	parts := []string{"Best restaurants in " + strings.TrimSpace(city)}
	if prefs.Area != "" {
		parts = append(parts, "Neighborhood: "+prefs.Area)
	}
	if cs := prefs.PreferredCuisines(); len(cs) > 0 {
		parts = append(parts, "Cuisine: "+strings.Join(cs, ", "))
	}
	if len(prefs.Ambiance) > 0 {
		parts = append(parts, "Ambience: "+strings.Join(prefs.Ambiance, ", "))
	}
	if prefs.BudgetPerCapita != nil {
		parts = append(parts, fmt.Sprintf("Budget $%.0f per person", *prefs.BudgetPerCapita))
	}
	return strings.Join(parts, " | ")
}

func rerankDoc(c *models.Candidate) string {
	p := c.Place
	return strings.Join([]string{
		p.Name,
		p.Address,
		strings.Join(p.Tags, ", "),
		strings.Join(c.Pros, "; "),
	}, " | ")
}
