// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/tablescout/internal/events"
)

// HealthStatus is the payload of the health endpoints.
type HealthStatus struct {
	Status     string  `json:"status"`
	Dependency string  `json:"dependency,omitempty"`
	Detail     string  `json:"detail,omitempty"`
	Breaker    string  `json:"breaker,omitempty"`
	Uptime     float64 `json:"uptime_seconds"`
}

// breakerReporter is implemented by clients that expose breaker state.
type breakerReporter interface {
	BreakerState() string
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, HealthStatus{
		Status: "ok",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthGeo reports geocoding provider reachability.
func (h *Handler) HealthGeo(w http.ResponseWriter, r *http.Request) {
	h.probe(w, r, "geoapify", h.geo)
}

// HealthLLM reports completer reachability.
func (h *Handler) HealthLLM(w http.ResponseWriter, r *http.Request) {
	h.probe(w, r, "llm", h.llm)
}

func (h *Handler) probe(w http.ResponseWriter, r *http.Request, name string, p Pinger) {
	status := HealthStatus{Dependency: name, Uptime: time.Since(h.startTime).Seconds()}
	if p == nil {
		status.Status = "not_configured"
		WriteSuccess(w, r, status)
		return
	}
	if br, ok := p.(breakerReporter); ok {
		status.Breaker = br.BreakerState()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		status.Status = "unreachable"
		status.Detail = err.Error()
		h.logger.Warn().Err(err).Str("dependency", name).Msg("Health probe failed")
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusServiceUnavailable,
			ErrCodeServiceUnavailable, name+" is unreachable", status)
		return
	}
	status.Status = "ok"
	WriteSuccess(w, r, status)
}

// RecentEvents returns the lifecycle events kept by the audit subscriber,
// oldest first.
func (h *Handler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		WriteSuccess(w, r, []events.Event{})
		return
	}
	WriteSuccess(w, r, h.audit.Recent())
}
