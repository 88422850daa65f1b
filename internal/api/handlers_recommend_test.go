// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/pipeline"
)

func TestRecommend_Success(t *testing.T) {
	env := newTestEnv(t, nil, HandlerConfig{}, nil)

	w := env.do(t, http.MethodPost, "/api/v1/recommend",
		`{"query":"quiet vegan dinner in Capitol Hill, Seattle","user_lat":47.62,"user_lon":-122.32,"limit":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID header")
	}

	resp := decodeEnvelope(t, w)
	if !resp.Success || resp.Error != nil {
		t.Fatalf("envelope = %+v", resp)
	}
	if resp.Meta == nil || resp.Meta.RequestID == "" {
		t.Error("meta.request_id missing")
	}
	var data pipeline.RecommendResponse
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.SessionID != "sess-1" || data.Markdown != "# Seattle picks" || len(data.Candidates) != 1 {
		t.Errorf("data = %+v", data)
	}

	if env.rec.calls() != 1 {
		t.Fatalf("recommender calls = %d", env.rec.calls())
	}
	req := env.rec.requests[0]
	if req.Limit != 3 || req.UserLocation() == nil {
		t.Errorf("forwarded request = %+v", req)
	}
}

func TestRecommend_BadRequests(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  string
		wantField string
	}{
		{"empty body", "", ErrCodeBadRequest, ""},
		{"malformed json", `{"query":`, ErrCodeBadRequest, ""},
		{"missing query", `{}`, ErrCodeValidation, "query"},
		{"bad session id", `{"query":"pizza","session_id":"has spaces"}`, ErrCodeValidation, "session_id"},
		{"latitude out of range", `{"query":"pizza","user_lat":123,"user_lon":10}`, ErrCodeValidation, "user_lat"},
		{"lat without lon", `{"query":"pizza","user_lat":47.6}`, ErrCodeValidation, "user_lon"},
		{"limit too large", `{"query":"pizza","limit":99}`, ErrCodeValidation, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, HandlerConfig{}, nil)
			w := env.do(t, http.MethodPost, "/api/v1/recommend", tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body=%s", w.Code, w.Body.String())
			}
			resp := decodeEnvelope(t, w)
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
			if tt.wantField != "" {
				details, _ := resp.Error.Details.(map[string]interface{})
				if details["field"] != tt.wantField {
					t.Errorf("details = %v, want field %q", resp.Error.Details, tt.wantField)
				}
			}
			if env.rec.calls() != 0 {
				t.Error("recommender called for an invalid request")
			}
		})
	}
}

func TestRecommend_PipelineErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"area unresolved", fmt.Errorf("resolve: %w", models.ErrAreaUnresolved), http.StatusUnprocessableEntity, ErrCodeAreaUnresolved},
		{"upstream unavailable", fmt.Errorf("search: %w", models.ErrUpstreamUnavailable), http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, ErrCodeTimeout},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &fakeRecommender{err: tt.err}, HandlerConfig{}, nil)
			w := env.do(t, http.MethodPost, "/api/v1/recommend", `{"query":"tacos in Austin"}`)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			resp := decodeEnvelope(t, w)
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
			if strings.Contains(resp.Error.Message, "boom") {
				t.Error("internal error text leaked to client")
			}
		})
	}
}

func TestRecommendStream_Frames(t *testing.T) {
	env := newTestEnv(t, nil, HandlerConfig{}, nil)

	w := env.do(t, http.MethodPost, "/api/v1/recommend/stream", `{"query":"ramen in Seattle"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !w.Flushed {
		t.Error("stream was never flushed")
	}

	frames := strings.Split(strings.TrimSuffix(w.Body.String(), "\n\n"), "\n\n")
	wantTypes := []pipeline.EventType{
		pipeline.EventMetadata, pipeline.EventCandidate, pipeline.EventCandidate, pipeline.EventComplete,
	}
	if len(frames) != len(wantTypes) {
		t.Fatalf("got %d frames, want %d: %q", len(frames), len(wantTypes), w.Body.String())
	}
	for i, frame := range frames {
		lines := strings.SplitN(frame, "\n", 2)
		if len(lines) != 2 {
			t.Fatalf("frame %d malformed: %q", i, frame)
		}
		if want := "event: " + string(wantTypes[i]); lines[0] != want {
			t.Errorf("frame %d header = %q, want %q", i, lines[0], want)
		}
		var ev pipeline.StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &ev); err != nil {
			t.Fatalf("frame %d data: %v", i, err)
		}
		if ev.Type != wantTypes[i] {
			t.Errorf("frame %d type = %s", i, ev.Type)
		}
	}
}

func TestRecommendStream_ValidationBeforeStream(t *testing.T) {
	env := newTestEnv(t, nil, HandlerConfig{}, nil)

	w := env.do(t, http.MethodPost, "/api/v1/recommend/stream", `{"query":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want JSON envelope", ct)
	}
	if env.rec.calls() != 0 {
		t.Error("stream started for an invalid request")
	}
}
