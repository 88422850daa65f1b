// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package pipeline runs one recommendation request end to end.

Stages run in order:

	parse → resolve → search → score/rerank → enrich (top-N) → report

Recommend returns everything at once. Stream delivers the same result
incrementally through an Emitter:

 1. metadata: preferences, bbox and total, sent once ranking is done
 2. one partial candidate event per rank index, the first K flagged
    is_initial_batch
 3. full candidate events for enriched indices, in completion order
 4. complete (with the Markdown report) or error

Each index moves through pending → partial → full; streamTracker rejects
any other transition.

The session turn is written only after a request completes, so an aborted
stream leaves history untouched. The context is checked before every
upstream call and results that arrive after cancellation are dropped.
*/
package pipeline
