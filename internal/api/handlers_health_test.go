// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tablescout/internal/events"
)

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil, HandlerConfig{}, nil)
	w := env.do(t, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var status HealthStatus
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &status); err != nil {
		t.Fatal(err)
	}
	if status.Status != "ok" {
		t.Errorf("status = %q", status.Status)
	}
}

func TestHealthProbes(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		cfg         HandlerConfig
		wantStatus  int
		wantState   string
		wantBreaker string
	}{
		{"geo not configured", "/health/geo", HandlerConfig{}, http.StatusOK, "not_configured", ""},
		{"geo ok", "/health/geo", HandlerConfig{Geo: fakePinger{breaker: "closed"}}, http.StatusOK, "ok", "closed"},
		{"geo down", "/health/geo", HandlerConfig{Geo: fakePinger{err: errors.New("dial tcp: refused"), breaker: "open"}}, http.StatusServiceUnavailable, "unreachable", "open"},
		{"llm ok", "/health/llm", HandlerConfig{LLM: fakePinger{}}, http.StatusOK, "ok", ""},
		{"llm down", "/health/llm", HandlerConfig{LLM: fakePinger{err: errors.New("401")}}, http.StatusServiceUnavailable, "unreachable", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, tt.cfg, nil)
			w := env.do(t, http.MethodGet, tt.path, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			resp := decodeEnvelope(t, w)
			var raw []byte
			if resp.Success {
				raw = resp.Data
			} else {
				if resp.Error == nil || resp.Error.Code != ErrCodeServiceUnavailable {
					t.Fatalf("error = %+v", resp.Error)
				}
				raw, _ = json.Marshal(resp.Error.Details)
			}
			var status HealthStatus
			if err := json.Unmarshal(raw, &status); err != nil {
				t.Fatal(err)
			}
			if status.Status != tt.wantState || status.Breaker != tt.wantBreaker {
				t.Errorf("status = %+v, want %s/%s", status, tt.wantState, tt.wantBreaker)
			}
		})
	}
}

func TestRecentEvents(t *testing.T) {
	audit := events.NewAudit(10)
	_ = audit.Handle(context.Background(), events.Event{Topic: events.TopicCompleted, RequestID: "r-1"})

	env := newTestEnv(t, nil, HandlerConfig{Audit: audit}, nil)
	w := env.do(t, http.MethodGet, "/api/v1/events/recent", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []events.Event
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].RequestID != "r-1" {
		t.Errorf("events = %+v", got)
	}
}
