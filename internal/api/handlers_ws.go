// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/pipeline"
	live "github.com/tomtom215/tablescout/internal/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed for the client to send its request after the upgrade,
	// and between pongs afterwards.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// RecommendWS handles GET /api/v1/recommend/ws. The client sends one JSON
// request message and receives one text message per stream event. The
// stream is cancelled when the client goes away.
func (h *Handler) RecommendWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(maxRequestBody)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var req pipeline.Request
	if err := conn.ReadJSON(&req); err != nil {
		_ = writeWSEvent(conn, pipeline.StreamEvent{
			Type:    pipeline.EventError,
			Code:    ErrCodeBadRequest,
			Message: "invalid JSON request",
		})
		return
	}
	if verr := validateRequest(&req); verr != nil {
		apiErr := verr.ToAPIError()
		_ = writeWSEvent(conn, pipeline.StreamEvent{
			Type:    pipeline.EventError,
			Code:    apiErr.Code,
			Message: apiErr.Message,
		})
		return
	}

	// The reader only watches for the client closing; any read error
	// cancels the stream.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
	go keepAlive(ctx, conn)

	emit := func(_ context.Context, ev pipeline.StreamEvent) error {
		return writeWSEvent(conn, ev)
	}
	if err := h.recommender.Stream(ctx, req, emit); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("WebSocket stream ended early")
		return
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "complete"),
		time.Now().Add(writeWait))
}

// keepAlive pings the peer until ctx ends. WriteControl may run concurrently
// with the stream's data writes.
func keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeWSEvent(conn *websocket.Conn, ev pipeline.StreamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// LiveEvents handles GET /api/v1/events/ws, the live lifecycle event feed.
func (h *Handler) LiveEvents(w http.ResponseWriter, r *http.Request) {
	if h.live == nil {
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "live feed is disabled")
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	live.NewClient(h.live, conn).Start()
}
