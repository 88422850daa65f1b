// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package taxonomy holds the cuisine and ambiance vocabularies shared by the
// preference parser and the scoring engine.
//
// Labels are lower-case. Queries are matched on whole words ("la" never hits
// "place"); place text and provider category tags are matched by substring
// and by dotted tag segment, so "catering.restaurant.sushi" counts as japanese.
package taxonomy
