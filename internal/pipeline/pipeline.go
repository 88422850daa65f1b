// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tablescout/internal/events"
	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/places"
	"github.com/tomtom215/tablescout/internal/preferences"
	"github.com/tomtom215/tablescout/internal/recommend"
	"github.com/tomtom215/tablescout/internal/report"
	"github.com/tomtom215/tablescout/internal/session"
)

// Request modes, used as metric and event labels.
const (
	ModeBatch  = "batch"
	ModeStream = "stream"
)

// DefaultInitialBatch is how many leading candidates are flagged
// is_initial_batch in a stream.
const DefaultInitialBatch = 5

// MaxLimit caps Request.Limit.
const MaxLimit = 24

// AreaResolver turns preferences and location hints into a search area.
type AreaResolver interface {
	Resolve(ctx context.Context, prefs *models.PreferenceRecord, userLocation, lastKnown *models.LatLon) (*models.SearchArea, error)
}

// CandidateSource lists the places inside a search area.
type CandidateSource interface {
	Search(ctx context.Context, area *models.SearchArea, prefs *models.PreferenceRecord) *places.PlaceSeq
}

// Ranker scores and orders places.
type Ranker interface {
	Rank(ctx context.Context, prefs *models.PreferenceRecord, area *models.SearchArea, places []*models.PlaceRecord) []*models.Candidate
}

// Enricher adds detail to the leading candidates.
type Enricher interface {
	Enrich(ctx context.Context, prefs *models.PreferenceRecord, candidates []*models.Candidate, onDone func(index int))
	TopN() int
}

// Request is one recommendation request.
type Request struct {
	Query     string   `json:"query" validate:"required,max=2000"`
	SessionID string   `json:"session_id,omitempty" validate:"omitempty,sessionid"`
	Lang      string   `json:"lang,omitempty" validate:"omitempty,lang"`
	UserLat   *float64 `json:"user_lat,omitempty" validate:"required_with=UserLon,omitempty,latitude"`
	UserLon   *float64 `json:"user_lon,omitempty" validate:"required_with=UserLat,omitempty,longitude"`
	// Limit caps how many candidates are enriched; 0 uses the enricher's TopN.
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=24"`
}

// UserLocation returns the request coordinates, if both are set.
func (r *Request) UserLocation() *models.LatLon {
	if r.UserLat == nil || r.UserLon == nil {
		return nil
	}
	return &models.LatLon{Lat: *r.UserLat, Lon: *r.UserLon}
}

// RecommendResponse is the batch result.
type RecommendResponse struct {
	SessionID   string                   `json:"session_id"`
	Markdown    string                   `json:"recommendations_markdown"`
	Summary     string                   `json:"summary"`
	Candidates  []*models.Candidate      `json:"candidates"`
	Preferences *models.PreferenceRecord `json:"preferences"`
	Area        *models.SearchArea       `json:"area"`
	BBox        models.BBox              `json:"bbox"`
}

// Config tunes the pipeline.
type Config struct {
	// InitialBatch is how many leading stream candidates are flagged
	// is_initial_batch.
	InitialBatch int
}

// Deps are the stage implementations. Enricher and Events are optional.
type Deps struct {
	Parser   preferences.Parser
	Resolver AreaResolver
	Source   CandidateSource
	Ranker   Ranker
	Enricher Enricher
	Events   events.Publisher
}

// Pipeline wires the stages together. It is safe for concurrent use.
type Pipeline struct {
	cfg      Config
	sessions session.Store
	deps     Deps
	logger   zerolog.Logger
}

// New creates a pipeline. The session store holds conversation history
// across requests.
func New(cfg Config, sessions session.Store, deps Deps) (*Pipeline, error) {
	switch {
	case sessions == nil:
		return nil, errors.New("pipeline: session store is required")
	case deps.Parser == nil:
		return nil, errors.New("pipeline: parser is required")
	case deps.Resolver == nil:
		return nil, errors.New("pipeline: area resolver is required")
	case deps.Source == nil:
		return nil, errors.New("pipeline: candidate source is required")
	case deps.Ranker == nil:
		return nil, errors.New("pipeline: ranker is required")
	}
	if cfg.InitialBatch <= 0 {
		cfg.InitialBatch = DefaultInitialBatch
	}
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	return &Pipeline{
		cfg:      cfg,
		sessions: sessions,
		deps:     deps,
		logger:   logging.WithComponent("pipeline"),
	}, nil
}

// Sessions returns the session store.
func (p *Pipeline) Sessions() session.Store {
	return p.sessions
}

// run is the state of one request.
type run struct {
	mode      string
	req       Request
	sessionID string
	started   time.Time
	prefs     *models.PreferenceRecord
	area      *models.SearchArea
	ranked    []*models.Candidate
}

// Recommend runs the whole pipeline and returns the enriched result.
func (p *Pipeline) Recommend(ctx context.Context, req Request) (*RecommendResponse, error) {
	r, ctx := p.begin(ctx, ModeBatch, req)

	if err := p.rank(ctx, r); err != nil {
		p.fail(ctx, r, err)
		return nil, err
	}

	p.enrich(ctx, r, nil)
	if err := ctx.Err(); err != nil {
		err = fmt.Errorf("recommend: %w", err)
		p.fail(ctx, r, err)
		return nil, err
	}

	md, summary := p.report(r)
	p.complete(ctx, r, summary)

	return &RecommendResponse{
		SessionID:   r.sessionID,
		Markdown:    md,
		Summary:     summary,
		Candidates:  r.ranked,
		Preferences: r.prefs,
		Area:        r.area,
		BBox:        r.area.BBox,
	}, nil
}

// begin assigns a session ID and tags the context for logging.
func (p *Pipeline) begin(ctx context.Context, mode string, req Request) (*run, context.Context) {
	r := &run{mode: mode, req: req, sessionID: req.SessionID, started: time.Now()}
	if r.sessionID == "" {
		r.sessionID = uuid.NewString()
	}
	ctx = logging.ContextWithSessionID(ctx, r.sessionID)
	p.deps.Events.Publish(ctx, events.Event{
		Topic:     events.TopicStarted,
		SessionID: r.sessionID,
		Mode:      mode,
		Query:     req.Query,
	})
	return r, ctx
}

// rank runs parse, resolve, search and scoring.
func (p *Pipeline) rank(ctx context.Context, r *run) error {
	history, err := p.sessions.GetHistory(ctx, r.sessionID)
	if err != nil {
		if errors.Is(err, session.ErrInvalidID) {
			return err
		}
		// A broken history lookup costs context, not the request.
		logging.Ctx(ctx).Warn().Err(err).Str("component", "pipeline").Msg("Session history unavailable")
		history = nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	start := time.Now()
	prefs, err := p.deps.Parser.Parse(ctx, r.req.Query, history)
	metrics.ObserveStage("parse", start)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if r.req.Lang != "" {
		prefs.Lang = r.req.Lang
	}
	r.prefs = prefs

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	start = time.Now()
	area, err := p.deps.Resolver.Resolve(ctx, prefs, r.req.UserLocation(), models.LastCenter(history))
	metrics.ObserveStage("resolve", start)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	r.area = area

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	start = time.Now()
	found, err := p.deps.Source.Search(ctx, area, prefs).All()
	metrics.ObserveStage("search", start)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	placeRefs := make([]*models.PlaceRecord, len(found))
	for i := range found {
		placeRefs[i] = &found[i]
	}
	r.ranked = p.deps.Ranker.Rank(ctx, prefs, area, placeRefs)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rank: %w", err)
	}
	return nil
}

// enrich runs the enricher over the leading candidates. onDone sees each
// finished index.
func (p *Pipeline) enrich(ctx context.Context, r *run, onDone func(int)) {
	if p.deps.Enricher == nil || len(r.ranked) == 0 {
		return
	}
	p.deps.Enricher.Enrich(ctx, r.prefs, r.ranked[:p.enrichCount(r)], onDone)
}

// enrichCount is how many candidates Enrich will touch.
func (p *Pipeline) enrichCount(r *run) int {
	if p.deps.Enricher == nil {
		return 0
	}
	n := p.deps.Enricher.TopN()
	if r.req.Limit > 0 {
		n = min(n, r.req.Limit)
	}
	return min(n, len(r.ranked))
}

func (p *Pipeline) report(r *run) (md, summary string) {
	defer metrics.ObserveStage("report", time.Now())
	return report.Build(r.prefs, r.area, r.ranked), report.Headline(r.prefs, r.ranked)
}

// complete records the session turn and the request outcome.
func (p *Pipeline) complete(ctx context.Context, r *run, summary string) {
	center := r.area.Center
	turn := models.SessionTurn{
		Query:       r.req.Query,
		Preferences: r.prefs.Clone(),
		Center:      &center,
		Summary:     summary,
		Timestamp:   time.Now().UTC(),
	}
	if err := p.sessions.Append(ctx, r.sessionID, turn); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("component", "pipeline").Msg("Failed to record session turn")
	}

	strict, relaxed := recommend.TierCounts(r.ranked)
	elapsed := time.Since(r.started)
	metrics.RecordRecommendation(r.mode, "ok", len(r.ranked))
	p.logSummary(ctx, r, elapsed)
	p.deps.Events.Publish(ctx, events.Event{
		Topic:      events.TopicCompleted,
		SessionID:  r.sessionID,
		Mode:       r.mode,
		Query:      r.req.Query,
		City:       r.prefs.City,
		Area:       r.prefs.Area,
		Candidates: len(r.ranked),
		Strict:     strict,
		Relaxed:    relaxed,
		DurationMS: elapsed.Milliseconds(),
	})
}

// fail records a failed or aborted request.
func (p *Pipeline) fail(ctx context.Context, r *run, err error) {
	outcome := Outcome(err)
	metrics.RecordRecommendation(r.mode, outcome, 0)

	ev := logging.Ctx(ctx).Warn()
	if outcome == "error" {
		ev = logging.Ctx(ctx).Error()
	}
	ev.Err(err).Str("component", "pipeline").Str("mode", r.mode).Str("outcome", outcome).
		Dur("elapsed", time.Since(r.started)).Msg("Recommendation failed")

	e := events.Event{
		Topic:      events.TopicFailed,
		SessionID:  r.sessionID,
		Mode:       r.mode,
		Query:      r.req.Query,
		Error:      err.Error(),
		DurationMS: time.Since(r.started).Milliseconds(),
	}
	if r.prefs != nil {
		e.City, e.Area = r.prefs.City, r.prefs.Area
	}
	// The request context may already be done; the event still goes out.
	p.deps.Events.Publish(context.WithoutCancel(ctx), e)
}

// Outcome maps a pipeline error to its metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrStreamAborted), errors.Is(err, context.Canceled):
		return "aborted"
	case errors.Is(err, models.ErrAreaUnresolved):
		return "area_unresolved"
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
