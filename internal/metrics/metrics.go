// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - pipeline stage latency and request outcomes
// - degradations (parse, rerank, enrichment, stream aborts)
// - outbound provider calls and circuit breakers
// - streaming events and WebSocket connections
// - session store operations

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tablescout_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tablescout_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Pipeline Metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tablescout_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"stage"}, // parse, resolve, search, score, rerank, enrich, report
	)

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_recommend_requests_total",
			Help: "Recommendation requests by delivery mode and outcome",
		},
		[]string{"mode", "outcome"}, // mode: batch, stream; outcome: ok, area_unresolved, upstream_unavailable, timeout, aborted, error
	)

	CandidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tablescout_candidates_returned",
			Help:    "Number of ranked candidates per request",
			Buckets: []float64{0, 1, 3, 5, 10, 15, 20, 30, 50},
		},
	)

	CandidatesByTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_candidates_by_tier_total",
			Help: "Ranked candidates by match mode",
		},
		[]string{"match_mode"},
	)

	Degradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_degradations_total",
			Help: "Soft failures that degraded a request without failing it",
		},
		[]string{"kind"}, // parse, rerank, enrichment, reasoning, stream_aborted
	)

	// Upstream Metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_upstream_requests_total",
			Help: "Outbound requests to external providers",
		},
		[]string{"provider", "operation", "result"}, // result: ok, error, retry, rejected
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tablescout_upstream_duration_seconds",
			Help:    "Outbound request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	GeocodeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tablescout_geocode_cache_hits_total",
			Help: "Total number of geocode cache hits",
		},
	)

	GeocodeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tablescout_geocode_cache_misses_total",
			Help: "Total number of geocode cache misses",
		},
	)

	EnrichmentCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_enrichment_calls_total",
			Help: "Detail source calls by source and outcome",
		},
		[]string{"source", "outcome"}, // outcome: ok, error, empty
	)

	// Streaming Metrics
	StreamEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_stream_events_total",
			Help: "Streamed events by type and candidate status",
		},
		[]string{"type", "status"},
	)

	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tablescout_websocket_connections_active",
			Help: "Current number of active WebSocket stream connections",
		},
	)

	// Session Metrics
	SessionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_session_operations_total",
			Help: "Session store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	SessionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tablescout_sessions_active",
			Help: "Sessions currently held by the store",
		},
		[]string{"backend"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_events_published_total",
			Help: "Lifecycle events published to the in-process bus",
		},
		[]string{"topic"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_events_handled_total",
			Help: "Lifecycle events consumed by subscribers",
		},
		[]string{"topic", "result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tablescout_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tablescout_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablescout_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tablescout_app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// ObserveStage records how long a pipeline stage took.
//
//	defer metrics.ObserveStage("search", time.Now())
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordRecommendation records the outcome of one recommendation request.
func RecordRecommendation(mode, outcome string, candidates int) {
	RecommendRequests.WithLabelValues(mode, outcome).Inc()
	if outcome == "ok" {
		CandidatesReturned.Observe(float64(candidates))
	}
}

// RecordDegradation counts a soft failure. Empty kinds are ignored.
func RecordDegradation(kind string) {
	if kind == "" {
		return
	}
	Degradations.WithLabelValues(kind).Inc()
}

// RecordUpstream records one outbound call.
func RecordUpstream(provider, operation string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamRequests.WithLabelValues(provider, operation, result).Inc()
	UpstreamDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordUpstreamRetry counts a retried outbound call.
func RecordUpstreamRetry(provider, operation string) {
	UpstreamRequests.WithLabelValues(provider, operation, "retry").Inc()
}

// RecordGeocodeCache records a geocode cache lookup.
func RecordGeocodeCache(hit bool) {
	if hit {
		GeocodeCacheHits.Inc()
	} else {
		GeocodeCacheMisses.Inc()
	}
}

// RecordEnrichment records one detail-source call.
func RecordEnrichment(source, outcome string) {
	EnrichmentCalls.WithLabelValues(source, outcome).Inc()
}

// RecordStreamEvent records one emitted stream event.
func RecordStreamEvent(eventType, status string) {
	StreamEvents.WithLabelValues(eventType, status).Inc()
}

// RecordSessionOp records a session store operation.
func RecordSessionOp(backend, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SessionOperations.WithLabelValues(backend, operation, result).Inc()
}

// RecordTierCounts records how many ranked candidates fell in each tier.
func RecordTierCounts(strict, relaxed int) {
	CandidatesByTier.WithLabelValues("strict").Add(float64(strict))
	CandidatesByTier.WithLabelValues("relaxed").Add(float64(relaxed))
}

// RecordEventHandled records a subscriber outcome.
func RecordEventHandled(topic string, ok bool) {
	EventsHandled.WithLabelValues(topic, strconv.FormatBool(ok)).Inc()
}
