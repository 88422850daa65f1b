// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/pipeline"
)

// Recommend handles POST /api/v1/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if !decodeRequest(w, r, &req) {
		return
	}

	resp, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		writePipelineError(w, r, err)
		return
	}
	WriteSuccess(w, r, resp)
}

// RecommendStream handles POST /api/v1/recommend/stream as Server-Sent Events.
// Validation failures are answered with a JSON envelope before the stream
// starts; later failures arrive as an error event.
func (h *Handler) RecommendStream(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if !decodeRequest(w, r, &req) {
		return
	}

	rc := http.NewResponseController(w)
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Response writer cannot flush; SSE unavailable")
		return
	}

	emit := func(_ context.Context, ev pipeline.StreamEvent) error {
		return writeSSE(w, rc, ev)
	}
	if err := h.recommender.Stream(r.Context(), req, emit); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Stream ended early")
	}
}

// writeSSE writes one event frame and flushes it.
func writeSSE(w http.ResponseWriter, rc *http.ResponseController, ev pipeline.StreamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	return rc.Flush()
}
