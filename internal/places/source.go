// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package places

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/upstream"
)

// Defaults applied by NewSource.
const (
	DefaultCategories   = "catering.restaurant"
	DefaultMaxResults   = 60
	DefaultRetryBackoff = 500 * time.Millisecond
	DefaultDedupRadiusM = 5.0
)

// Provider searches places inside a bounding box.
type Provider interface {
	PlacesInRect(ctx context.Context, bbox models.BBox, categories string, limit int, lang string) ([]models.PlaceRecord, error)
}

// Config tunes the candidate source.
type Config struct {
	Categories   string
	MaxResults   int
	RetryBackoff time.Duration
	DedupRadiusM float64
}

// Source produces candidates for a resolved search area.
type Source struct {
	provider Provider
	cfg      Config
	logger   zerolog.Logger
}

// NewSource creates a candidate source over provider.
func NewSource(provider Provider, cfg Config) *Source {
	if cfg.Categories == "" {
		cfg.Categories = DefaultCategories
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	if cfg.DedupRadiusM <= 0 {
		cfg.DedupRadiusM = DefaultDedupRadiusM
	}
	return &Source{
		provider: provider,
		cfg:      cfg,
		logger:   logging.WithComponent("places"),
	}
}

// Search returns a lazy sequence over the places in area. Nothing is fetched
// until Next or All is called.
func (s *Source) Search(ctx context.Context, area *models.SearchArea, prefs *models.PreferenceRecord) *PlaceSeq {
	lang := models.DefaultLang
	if prefs != nil && prefs.Lang != "" {
		lang = prefs.Lang
	}
	return &PlaceSeq{
		fetch: func() ([]models.PlaceRecord, error) {
			return s.fetch(ctx, area, lang)
		},
	}
}

func (s *Source) fetch(ctx context.Context, area *models.SearchArea, lang string) ([]models.PlaceRecord, error) {
	if area == nil {
		return nil, fmt.Errorf("search places: %w", models.ErrAreaUnresolved)
	}

	var raw []models.PlaceRecord
	err := upstream.RetryOnce(ctx, "geoapify", "places", s.cfg.RetryBackoff, func() error {
		var err error
		raw, err = s.provider.PlacesInRect(ctx, area.BBox, s.cfg.Categories, s.cfg.MaxResults, lang)
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("search places: %w", err)
		}
		s.logger.Error().Err(err).Str("bbox", fmt.Sprint(area.BBox.Array())).Msg("Place provider failed")
		return nil, fmt.Errorf("%w: %w", models.ErrUpstreamUnavailable, err)
	}

	places := Dedup(raw, s.cfg.DedupRadiusM)
	for i := range places {
		places[i].EnsureDatasourceURL()
	}

	logging.Ctx(ctx).Debug().Str("component", "places").
		Int("raw", len(raw)).
		Int("unique", len(places)).
		Str("anchor", area.AnchorLabel).
		Msg("Candidate places fetched")
	return places, nil
}

// PlaceSeq is a lazy, finite sequence of places. The provider is called at
// most once, on the first Next or All. It is not safe for concurrent use.
type PlaceSeq struct {
	fetch  func() ([]models.PlaceRecord, error)
	once   sync.Once
	places []models.PlaceRecord
	err    error
	pos    int
}

// NewPlaceSeq wraps a fixed slice, for callers that already hold places.
func NewPlaceSeq(places []models.PlaceRecord) *PlaceSeq {
	return &PlaceSeq{fetch: func() ([]models.PlaceRecord, error) { return places, nil }}
}

func (q *PlaceSeq) load() {
	q.once.Do(func() {
		q.places, q.err = q.fetch()
	})
}

// Next returns the next place, or false when the sequence is exhausted or
// the fetch failed. Check Err after a false return.
func (q *PlaceSeq) Next() (*models.PlaceRecord, bool) {
	q.load()
	if q.err != nil || q.pos >= len(q.places) {
		return nil, false
	}
	p := &q.places[q.pos]
	q.pos++
	return p, true
}

// Err returns the fetch error, if any.
func (q *PlaceSeq) Err() error {
	return q.err
}

// All drains the remaining places.
func (q *PlaceSeq) All() ([]models.PlaceRecord, error) {
	q.load()
	if q.err != nil {
		return nil, q.err
	}
	rest := q.places[q.pos:]
	q.pos = len(q.places)
	return rest, nil
}
