// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package api provides the HTTP surface of the recommendation service.

Routes:

	POST   /api/v1/recommend          batch recommendation
	POST   /api/v1/recommend/stream   Server-Sent Events stream
	GET    /api/v1/recommend/ws       WebSocket stream
	GET    /api/v1/sessions/{id}      retained session turns
	DELETE /api/v1/sessions/{id}      forget a session
	GET    /api/v1/events/recent      recent lifecycle events
	GET    /api/v1/events/ws          live lifecycle event feed
	GET    /healthz                   liveness
	GET    /health/geo                geocoding provider reachability
	GET    /health/llm                completer reachability
	GET    /metrics                   Prometheus exposition

JSON responses use the APIResponse envelope. Stream endpoints emit
pipeline.StreamEvent values: as "event: <type>" / "data: <json>" frames for
SSE, and as one JSON text message per event for WebSocket.
*/
package api
