// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/tablescout/internal/config"
)

func TestNewHandler_RequiresDependencies(t *testing.T) {
	if _, err := NewHandler(HandlerConfig{}); err == nil {
		t.Error("expected error without recommender")
	}
	if _, err := NewHandler(HandlerConfig{Recommender: &fakeRecommender{}}); err == nil {
		t.Error("expected error without session store")
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	env := newTestEnv(t, nil, HandlerConfig{}, nil)

	w := env.do(t, http.MethodGet, "/api/v1/nothing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", resp.Error)
	}

	if w := env.do(t, http.MethodGet, "/api/v1/recommend", ""); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /recommend status = %d, want 405", w.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	mw := ChiMiddlewareConfigFromServer(config.ServerConfig{
		RateLimitReqs:   1,
		RateLimitWindow: time.Minute,
	})
	env := newTestEnv(t, nil, HandlerConfig{}, mw)

	body := `{"query":"pho in Seattle"}`
	if w := env.do(t, http.MethodPost, "/api/v1/recommend", body); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}
	w := env.do(t, http.MethodPost, "/api/v1/recommend", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Error == nil || resp.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", resp.Error)
	}

	// Health checks are outside the limited group.
	if w := env.do(t, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
}

func TestRouter_CORS(t *testing.T) {
	mw := DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = []string{"https://app.example.com"}
	mw.RateLimitDisabled = true
	env := newTestEnv(t, nil, HandlerConfig{}, mw)

	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/recommend", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestRouter_MetricsAndRequestID(t *testing.T) {
	env := newTestEnv(t, nil, HandlerConfig{}, nil)
	_ = env.do(t, http.MethodPost, "/api/v1/recommend", `{"query":"bbq in Austin"}`)

	w := env.do(t, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `endpoint="/api/v1/recommend"`) {
		t.Error("metrics missing route-pattern label for /api/v1/recommend")
	}

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q", got)
	}
}
