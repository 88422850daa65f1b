// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package middleware provides the HTTP middleware shared by every route.

  - RequestID: assigns or propagates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - PrometheusMetrics: request counts, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode cardinality

Both are written against http.HandlerFunc and adapted to chi in the api
package:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

The metrics wrapper keeps http.Flusher and http.Hijacker working, which the
SSE and WebSocket stream endpoints depend on.
*/
package middleware
