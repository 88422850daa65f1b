// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package recommend scores and ranks candidate restaurants.
//
// # Scoring
//
// Each place gets a linear composite of six terms, each in [0, 1]:
//
//	cuisine 0.30, distance 0.25, popularity 0.20,
//	ambiance 0.10, budget 0.10, reliability 0.05
//
// Terms the user expressed no preference on score 0.5 so they neither help
// nor hurt.
//
// # Tiers
//
// Hard constraints (excluded cuisine, missing required cuisine, budget,
// closed or unverifiable opening hours) never remove a place. A violating
// place moves to the relaxed tier, its score is discounted by 0.85 and each
// violation beyond the first costs another 0.05. Every strict candidate
// precedes every relaxed one.
//
// # Ordering
//
// Candidates sort by tier, score, distance, source trust and finally name,
// which makes the order total: the same inputs always produce the same list.
//
// # Reranking
//
// An optional Reranker rescores the leading candidates. Its output is
// min-max normalized and blended into the base score; only that leading
// segment is re-sorted, and tiers still win. A failing or slow reranker is
// logged as a degradation and the base order is kept.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), crossEncoder)
//	if err != nil {
//	    return err
//	}
//	ranked := engine.Rank(ctx, prefs, area, places)
package recommend
