// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/session"
)

// EventType names a stream event.
type EventType string

const (
	EventMetadata  EventType = "metadata"
	EventCandidate EventType = "candidate"
	EventComplete  EventType = "complete"
	EventError     EventType = "error"
)

// Candidate event statuses.
const (
	StatusPartial = "partial"
	StatusFull    = "full"
)

// Error codes carried by error events and API error envelopes.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAreaUnresolved = "AREA_UNRESOLVED"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeTimeout        = "TIMEOUT"
	CodeInternal       = "INTERNAL_ERROR"
)

// StreamEvent is one message of the streaming protocol. Fields not used by
// an event type are left empty.
type StreamEvent struct {
	Type EventType `json:"type"`

	// metadata
	SessionID   string                   `json:"session_id,omitempty"`
	Preferences *models.PreferenceRecord `json:"preferences,omitempty"`
	Area        *models.SearchArea       `json:"area,omitempty"`
	BBox        *models.BBox             `json:"bbox,omitempty"`
	Total       int                      `json:"total"`

	// candidate
	Index          *int              `json:"index,omitempty"`
	Status         string            `json:"status,omitempty"`
	Tier           int               `json:"tier,omitempty"`
	IsInitialBatch bool              `json:"is_initial_batch,omitempty"`
	Candidate      *models.Candidate `json:"candidate,omitempty"`

	// complete
	Markdown string `json:"recommendations_markdown,omitempty"`
	Summary  string `json:"summary,omitempty"`

	// error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Emitter delivers one event to the client. An error means the client is
// gone and the stream stops.
type Emitter func(ctx context.Context, ev StreamEvent) error

// ErrorCode maps a pipeline error to its client-facing code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrAreaUnresolved):
		return CodeAreaUnresolved
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return CodeUnavailable
	case errors.Is(err, session.ErrInvalidID):
		return CodeValidation
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	default:
		return CodeInternal
	}
}

// ErrorMessage is the client-facing text for err. Internal details stay in
// the logs.
func ErrorMessage(err error) string {
	switch ErrorCode(err) {
	case CodeAreaUnresolved:
		return "Could not determine where to search. Include a US city, neighborhood, ZIP code or coordinates."
	case CodeUnavailable:
		return "The place search provider is unavailable. Please try again shortly."
	case CodeValidation:
		return "Invalid session id"
	case CodeTimeout:
		return "The request timed out"
	default:
		return "Internal error"
	}
}

type indexState uint8

const (
	statePending indexState = iota
	statePartial
	stateFull
)

func (s indexState) String() string {
	switch s {
	case statePending:
		return "pending"
	case statePartial:
		return "partial"
	case stateFull:
		return "full"
	default:
		return fmt.Sprintf("state(%d)", s)
	}
}

var errIllegalTransition = errors.New("illegal stream transition")

// streamTracker enforces pending → partial → full per rank index.
type streamTracker struct {
	states []indexState
}

func newStreamTracker(n int) *streamTracker {
	return &streamTracker{states: make([]indexState, n)}
}

func (t *streamTracker) advance(i int, to indexState) error {
	if i < 0 || i >= len(t.states) {
		return fmt.Errorf("%w: index %d out of range", errIllegalTransition, i)
	}
	from := t.states[i]
	if to != from+1 {
		return fmt.Errorf("%w: index %d %s → %s", errIllegalTransition, i, from, to)
	}
	t.states[i] = to
	return nil
}

// Stream runs the pipeline and reports progress through emit. It returns
// nil once the complete event was delivered. A failed emit or a cancelled
// ctx stops all further upstream work and returns ErrStreamAborted; the
// session turn is not recorded in that case.
func (p *Pipeline) Stream(ctx context.Context, req Request, emit Emitter) error {
	r, ctx := p.begin(ctx, ModeStream, req)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := &streamer{p: p, r: r, emit: emit}

	if err := p.rank(ctx, r); err != nil {
		if ctx.Err() != nil {
			return s.abort(ctx, err)
		}
		p.fail(ctx, r, err)
		_ = s.send(ctx, StreamEvent{Type: EventError, Code: ErrorCode(err), Message: ErrorMessage(err)})
		return err
	}

	total := len(r.ranked)
	s.tracker = newStreamTracker(total)
	bbox := r.area.BBox
	if err := s.send(ctx, StreamEvent{
		Type:        EventMetadata,
		SessionID:   r.sessionID,
		Preferences: r.prefs,
		Area:        r.area,
		BBox:        &bbox,
		Total:       total,
	}); err != nil {
		return s.abort(ctx, err)
	}

	for i, c := range r.ranked {
		if err := s.candidate(ctx, i, c, statePartial); err != nil {
			return s.abort(ctx, err)
		}
	}

	var emitErr error
	p.enrich(ctx, r, func(i int) {
		if emitErr != nil {
			return
		}
		if err := s.candidate(ctx, i, r.ranked[i], stateFull); err != nil {
			emitErr = err
			cancel()
		}
	})
	if emitErr != nil {
		return s.abort(ctx, emitErr)
	}
	if err := ctx.Err(); err != nil {
		return s.abort(ctx, err)
	}

	md, summary := p.report(r)
	if err := s.send(ctx, StreamEvent{
		Type:      EventComplete,
		SessionID: r.sessionID,
		Total:     total,
		Markdown:  md,
		Summary:   summary,
	}); err != nil {
		return s.abort(ctx, err)
	}
	p.complete(ctx, r, summary)
	return nil
}

type streamer struct {
	p       *Pipeline
	r       *run
	emit    Emitter
	tracker *streamTracker
}

func (s *streamer) candidate(ctx context.Context, i int, c *models.Candidate, to indexState) error {
	if err := s.tracker.advance(i, to); err != nil {
		return err
	}
	status := StatusPartial
	if to == stateFull {
		status = StatusFull
	}
	return s.send(ctx, StreamEvent{
		Type:           EventCandidate,
		Total:          len(s.r.ranked),
		Index:          &i,
		Status:         status,
		Tier:           c.Tier,
		IsInitialBatch: i < s.p.cfg.InitialBatch,
		Candidate:      c.Clone(),
	})
}

func (s *streamer) send(ctx context.Context, ev StreamEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.emit(ctx, ev); err != nil {
		return err
	}
	metrics.RecordStreamEvent(string(ev.Type), ev.Status)
	return nil
}

// abort releases the request after the client went away.
func (s *streamer) abort(ctx context.Context, cause error) error {
	err := fmt.Errorf("%w: %w", models.ErrStreamAborted, cause)
	if errors.Is(cause, errIllegalTransition) {
		err = cause
	} else {
		metrics.RecordDegradation(models.DegradationKind(err))
	}
	s.p.fail(ctx, s.r, err)
	return err
}
