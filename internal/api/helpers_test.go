// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/pipeline"
	"github.com/tomtom215/tablescout/internal/session"
)

// fakeRecommender returns canned results and records requests.
type fakeRecommender struct {
	mu       sync.Mutex
	requests []pipeline.Request
	resp     *pipeline.RecommendResponse
	err      error
	events   []pipeline.StreamEvent
	// streamErr is returned by Stream after emitting events.
	streamErr error
	// blockUntilDone makes Stream wait for ctx cancellation after emitting.
	blockUntilDone bool
	cancelled      chan struct{}
}

func (f *fakeRecommender) Recommend(_ context.Context, req pipeline.Request) (*pipeline.RecommendResponse, error) {
	f.record(req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeRecommender) Stream(ctx context.Context, req pipeline.Request, emit pipeline.Emitter) error {
	f.record(req)
	for _, ev := range f.events {
		if err := emit(ctx, ev); err != nil {
			return err
		}
	}
	if f.blockUntilDone {
		<-ctx.Done()
		if f.cancelled != nil {
			close(f.cancelled)
		}
		return ctx.Err()
	}
	return f.streamErr
}

func (f *fakeRecommender) record(req pipeline.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *fakeRecommender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// fakePinger returns err from Ping.
type fakePinger struct {
	err     error
	breaker string
}

func (p fakePinger) Ping(context.Context) error { return p.err }
func (p fakePinger) BreakerState() string      { return p.breaker }

func sampleResponse() *pipeline.RecommendResponse {
	return &pipeline.RecommendResponse{
		SessionID: "sess-1",
		Markdown:  "# Seattle picks",
		Summary:   "Found 1 place",
		Candidates: []*models.Candidate{
			{Place: &models.PlaceRecord{Name: "Cafe Flora", Lat: 47.6215, Lon: -122.2985}},
		},
		Preferences: &models.PreferenceRecord{City: "Seattle"},
	}
}

func streamEvents() []pipeline.StreamEvent {
	zero := 0
	return []pipeline.StreamEvent{
		{Type: pipeline.EventMetadata, SessionID: "sess-1", Total: 1},
		{Type: pipeline.EventCandidate, Index: &zero, Status: pipeline.StatusPartial, IsInitialBatch: true},
		{Type: pipeline.EventCandidate, Index: &zero, Status: pipeline.StatusFull},
		{Type: pipeline.EventComplete, SessionID: "sess-1", Markdown: "# done"},
	}
}

type testEnv struct {
	rec      *fakeRecommender
	sessions *session.MemoryStore
	handler  *Handler
	router   http.Handler
}

func newTestEnv(t *testing.T, rec *fakeRecommender, cfg HandlerConfig, mw *ChiMiddlewareConfig) *testEnv {
	t.Helper()
	if rec == nil {
		rec = &fakeRecommender{resp: sampleResponse(), events: streamEvents()}
	}
	store := session.NewMemoryStore(session.Config{})
	cfg.Recommender = rec
	cfg.Sessions = store
	h, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	return &testEnv{
		rec:      rec,
		sessions: store,
		handler:  h,
		router:   NewRouter(h, NewChiMiddleware(mw)),
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelope is APIResponse with raw data for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v; body=%s", err, w.Body.String())
	}
	return env
}
