// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package places is the candidate source: one provider query over the search
// bbox, normalized and deduplicated, exposed as a lazy PlaceSeq. It also
// evaluates OSM-style opening-hours strings.
package places
