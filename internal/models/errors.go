// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package models

import "errors"

// Fatal errors abort a request.
var (
	// ErrAreaUnresolved means no location signal produced a search center.
	ErrAreaUnresolved = errors.New("search area could not be resolved")

	// ErrUpstreamUnavailable means the place provider failed after its retry.
	ErrUpstreamUnavailable = errors.New("place provider unavailable")
)

// Degradations are logged and counted but never returned to callers.
var (
	ErrParseDegraded     = errors.New("preference parsing degraded to rules")
	ErrRerankDegraded    = errors.New("reranker unavailable, base order kept")
	ErrEnrichmentPartial = errors.New("detail source failed, enrichment partial")
	ErrStreamAborted     = errors.New("stream aborted by client")
	ErrReasoningDegraded = errors.New("llm reasoning degraded to rules")
)

// DegradationKind returns the metric label for a degradation error, or ""
// when err is not one.
func DegradationKind(err error) string {
	switch {
	case errors.Is(err, ErrParseDegraded):
		return "parse"
	case errors.Is(err, ErrRerankDegraded):
		return "rerank"
	case errors.Is(err, ErrEnrichmentPartial):
		return "enrichment"
	case errors.Is(err, ErrStreamAborted):
		return "stream_aborted"
	case errors.Is(err, ErrReasoningDegraded):
		return "reasoning"
	default:
		return ""
	}
}
