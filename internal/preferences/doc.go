// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package preferences turns a natural-language dining request into a
models.PreferenceRecord.

Two implementations satisfy Parser:

  - RuleParser: deterministic regular-expression and keyword extraction,
    backed by the geo gazetteer for city and neighborhood names.
  - LLMParser: asks an llm.Completer for a JSON object, then falls back to
    RuleParser on any failure.

Parsing never fails a request. Previous turns only fill fields the current
turn left unset; the current turn always wins.

Example:

	p := preferences.NewParser(preferences.Config{DefaultDistanceKM: 3}, nil)
	rec, _ := p.Parse(ctx, "quiet vegetarian dinner on Capitol Hill for 2, $40 each", nil)
	// rec.City == "Seattle", rec.Area == "Capitol Hill", rec.People == 2
*/
package preferences
