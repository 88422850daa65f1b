// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package enrich

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
)

// Config bounds the enrichment fan-out.
type Config struct {
	// TopN is how many leading candidates are enriched.
	TopN int
	// Concurrency caps candidates processed at once.
	Concurrency int
	// Timeout bounds each source call and each reasoner call.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.TopN <= 0 {
		c.TopN = 5
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.Timeout <= 0 {
		c.Timeout = 8 * time.Second
	}
	return c
}

// Enricher attaches external detail and reasoning to candidates.
type Enricher struct {
	cfg      Config
	sources  []DetailSource
	reasoner Reasoner
	logger   zerolog.Logger
}

// New creates an Enricher. A nil reasoner uses RuleReasoner.
func New(cfg Config, reasoner Reasoner, sources ...DetailSource) *Enricher {
	if reasoner == nil {
		reasoner = RuleReasoner{}
	}
	return &Enricher{
		cfg:      cfg.withDefaults(),
		sources:  sources,
		reasoner: reasoner,
		logger:   logging.WithComponent("enrich"),
	}
}

// TopN is the number of candidates Enrich will touch.
func (e *Enricher) TopN() int {
	return e.cfg.TopN
}

// Enrich fills the detail fields of the first TopN candidates in place and
// calls onDone with each finished index, in completion order. onDone calls
// are serialized. Work still in flight when ctx is cancelled is discarded
// and not reported. Enrich returns once every started call has finished.
func (e *Enricher) Enrich(ctx context.Context, prefs *models.PreferenceRecord, candidates []*models.Candidate, onDone func(index int)) {
	defer metrics.ObserveStage("enrich", time.Now())

	n := min(e.cfg.TopN, len(candidates))
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(e.cfg.Concurrency)

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if !e.enrichOne(ctx, prefs, candidates[i]) || onDone == nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			onDone(i)
			return nil
		})
	}
	_ = g.Wait()
	e.logger.Debug().Int("candidates", n).Int("sources", len(e.sources)).Msg("Enrichment finished")
}

// enrichOne reports whether c was enriched before ctx ended.
func (e *Enricher) enrichOne(ctx context.Context, prefs *models.PreferenceRecord, c *models.Candidate) bool {
	detail := &DetailResult{}
	for _, src := range e.sources {
		if ctx.Err() != nil {
			return false
		}
		res, err := e.fetch(ctx, src, c.Place, prefs.Lang)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			err = fmt.Errorf("%w: %s: %w", models.ErrEnrichmentPartial, src.Name(), err)
			metrics.RecordEnrichment(src.Name(), "error")
			metrics.RecordDegradation(models.DegradationKind(err))
			logging.Ctx(ctx).Warn().Err(err).Str("source", src.Name()).Str("place", c.Name()).
				Msg("Detail source failed")
			continue
		}
		metrics.RecordEnrichment(src.Name(), "ok")
		detail.merge(res)
	}

	rctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	reasoning, err := e.reasoner.Reason(rctx, prefs, c, detail)
	cancel()
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		reasoning, _ = RuleReasoner{}.Reason(ctx, prefs, c, detail)
	}

	c.DetailSources = detail.Sources
	c.SourceHits = detail.Hits()
	if detail.Hits() > 0 {
		c.SourceTrustScore = detail.TrustScore()
	}
	c.Highlights = reasoning.Highlights
	c.SignatureDishes = reasoning.SignatureDishes
	c.WhyMatched = reasoning.WhyMatched
	c.Risks = reasoning.Risks
	c.Enriched = true
	return true
}

func (e *Enricher) fetch(ctx context.Context, src DetailSource, place *models.PlaceRecord, lang string) (*DetailResult, error) {
	fctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	return src.Fetch(fctx, place, lang)
}
