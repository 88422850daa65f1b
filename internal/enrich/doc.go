// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package enrich adds external detail to the top-ranked candidates.
//
// For each of the first N candidates the Enricher queries every configured
// DetailSource, merges and weights the returned links, and asks a Reasoner
// for highlights, signature dishes, why-matched notes and risks. Candidates
// are processed concurrently with a bounded errgroup; every source call gets
// its own timeout.
//
// Enrichment is best effort. A failing source is logged as a partial
// enrichment and its fields stay empty; a failing LLM reasoner falls back to
// the rule reasoner. Enrichment never changes a candidate's score or
// position.
//
// Source trust is derived from the link host:
//
//	yelp 1.0, tripadvisor 0.9, opentable/resy 0.85, google maps 0.8,
//	the venue's own domain 0.9, delivery apps 0.4, anything else 0.5
//
// Job boards weigh 0 and are dropped. At most five distinct sources are
// kept per candidate; the trust score is their mean weight.
package enrich
