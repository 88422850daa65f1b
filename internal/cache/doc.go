// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package cache provides the two in-memory structures the pipeline needs:
//
//   - LRU: a generic TTL-bounded least-recently-used cache, used for geocode
//     lookups (area resolution only; search and scoring results are never cached)
//   - ProximityIndex: a uniform-grid spatial hash for radius queries, used to
//     collapse duplicate places a few meters apart
package cache
