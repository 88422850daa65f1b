// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package services adapts long-running components to suture.Service.
//
// HTTPServerService turns http.Server's blocking ListenAndServe into a
// context-aware Serve with graceful Shutdown. SessionJanitor evicts expired
// in-memory sessions on a ticker. The event bus implements suture.Service
// directly and needs no wrapper.
package services
