// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package upstream holds the plumbing shared by every outbound client:
// a gobreaker-backed circuit breaker with Prometheus state export, a JSON
// request helper with bounded error bodies, and a single-retry policy for
// transient failures (network errors, 429, 5xx).
package upstream
