// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package events carries recommendation lifecycle events over an in-process
// Watermill bus.
//
// The pipeline publishes a started event when a request begins and a
// completed or failed event when it ends. Subscribers run behind a
// Watermill router with panic recovery, correlation-ID propagation and a
// short retry; the built-in Audit subscriber logs every event and keeps the
// most recent ones in memory.
//
// Publishing never blocks a request on subscribers: the GoChannel pub/sub is
// buffered and publish errors are logged, not returned to callers.
package events
