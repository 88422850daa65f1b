// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package models defines the data shared by every pipeline stage.

  - PreferenceRecord: structured dining request; Normalize enforces its invariants
  - SearchArea, BBox, LatLon: resolved geographic scope
  - PlaceRecord: provider result, with IdentityKey for deduplication
  - Candidate: scored place plus explanation and enrichment fields
  - SessionTurn: the per-turn state retained between requests

The error taxonomy lives in errors.go. ErrAreaUnresolved and
ErrUpstreamUnavailable abort a request; the remaining sentinels describe
degradations that are logged and counted but never surfaced to callers.
*/
package models
