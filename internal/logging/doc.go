// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package logging provides centralized zerolog-based structured logging.
//
// JSON output is used in production and console output for development.
// The global logger is configured once at startup:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("area", label).Msg("Area resolved")
//
// # Context fields
//
// Request handlers and pipeline stages attach identifiers to the context and
// log through Ctx, which adds correlation_id, request_id and session_id when
// present:
//
//	ctx = logging.ContextWithSessionID(ctx, req.SessionID)
//	logging.Ctx(ctx).Debug().Int("candidates", n).Msg("Ranked")
//
// # Adapters
//
// NewSlogLogger returns a *slog.Logger backed by the global zerolog logger,
// used by the suture supervisor tree. NewWatermillLogger adapts the same
// logger to watermill.LoggerAdapter for the event bus.
package logging
