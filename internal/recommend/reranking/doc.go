// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package reranking provides learned relevance scorers for the ranking
// engine.
//
// CrossEncoder calls a text-embeddings-inference compatible /rerank
// endpoint. The engine sends it the leading candidates as short documents
// and blends the returned relevance into the base score:
//
//	final = base*(1-w) + normalized(rerank)*w
//
// Scores come back in input order regardless of how the service sorts its
// response. The client sits behind a circuit breaker named "rerank"; when
// the breaker is open, calls fail fast and the engine keeps the base order.
package reranking
