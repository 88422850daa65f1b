// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tablescout/internal/events"
	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/pipeline"
	"github.com/tomtom215/tablescout/internal/session"
	live "github.com/tomtom215/tablescout/internal/websocket"
)

// maxRequestBody bounds recommendation request bodies.
const maxRequestBody = 64 << 10

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, req pipeline.Request) (*pipeline.RecommendResponse, error)
	Stream(ctx context.Context, req pipeline.Request, emit pipeline.Emitter) error
}

// Pinger checks reachability of an upstream dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerConfig holds the handler dependencies. Recommender and Sessions are
// required; the rest may be nil.
type HandlerConfig struct {
	Recommender Recommender
	Sessions    session.Store
	Audit       *events.Audit
	Live        *live.Hub
	Geo         Pinger
	LLM         Pinger
	// CheckOrigin overrides the WebSocket origin check. Nil accepts
	// same-origin requests only.
	CheckOrigin func(r *http.Request) bool
	// PingTimeout bounds health probes.
	PingTimeout time.Duration
}

// Handler serves the HTTP API.
type Handler struct {
	recommender Recommender
	sessions    session.Store
	audit       *events.Audit
	live        *live.Hub
	geo         Pinger
	llm         Pinger
	pingTimeout time.Duration
	upgrader    websocket.Upgrader
	startTime   time.Time
	logger      zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Recommender == nil {
		return nil, errors.New("api: recommender is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("api: session store is required")
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = 5 * time.Second
	}
	return &Handler{
		recommender: cfg.Recommender,
		sessions:    cfg.Sessions,
		audit:       cfg.Audit,
		live:        cfg.Live,
		geo:         cfg.Geo,
		llm:         cfg.LLM,
		pingTimeout: cfg.PingTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      cfg.CheckOrigin,
		},
		startTime: time.Now(),
		logger:    logging.WithComponent("api"),
	}, nil
}

// decodeRequest reads a JSON recommendation request and validates it.
// It writes the error response and returns false on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, req *pipeline.Request) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			WriteError(w, r, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
		case errors.Is(err, io.EOF):
			NewResponseWriter(w, r).BadRequest("request body is empty")
		default:
			NewResponseWriter(w, r).BadRequest("invalid JSON body")
		}
		return false
	}
	if verr := validateRequest(req); verr != nil {
		writeValidationError(w, r, verr)
		return false
	}
	return true
}
