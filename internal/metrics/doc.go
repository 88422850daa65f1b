// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package metrics provides Prometheus instrumentation for Tablescout.

All collectors are registered with the default registry through promauto and
exposed at /metrics:

	curl http://localhost:8010/metrics

# Pipeline

  - tablescout_stage_duration_seconds{stage}: parse, resolve, search, score, rerank, enrich, report
  - tablescout_recommend_requests_total{mode,outcome}
  - tablescout_candidates_returned, tablescout_candidates_by_tier_total{match_mode}
  - tablescout_degradations_total{kind}: soft failures that never reach callers

# Upstreams

  - tablescout_upstream_requests_total{provider,operation,result}
  - tablescout_upstream_duration_seconds{provider,operation}
  - tablescout_circuit_breaker_*{name}
  - tablescout_geocode_cache_{hits,misses}_total
  - tablescout_enrichment_calls_total{source,outcome}

# Delivery and State

  - tablescout_stream_events_total{type,status}
  - tablescout_websocket_connections_active
  - tablescout_session_operations_total{backend,operation,result}
  - tablescout_events_{published,handled}_total{topic}
*/
package metrics
