// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package preferences

import (
	"context"

	"github.com/tomtom215/tablescout/internal/geo"
	"github.com/tomtom215/tablescout/internal/llm"
	"github.com/tomtom215/tablescout/internal/models"
)

// Parser extracts preferences from the current query and prior turns.
// Implementations never return a nil record with a nil error.
type Parser interface {
	Parse(ctx context.Context, query string, history []models.SessionTurn) (*models.PreferenceRecord, error)
}

// Config tunes both parser implementations.
type Config struct {
	DefaultDistanceKM float64
	DefaultLang       string

	// HistoryTurns bounds how many prior turns are sent to the LLM.
	HistoryTurns int

	// Gazetteer defaults to geo.DefaultGazetteer.
	Gazetteer *geo.Gazetteer
}

// NewParser returns an LLMParser when completer is non-nil, otherwise a
// RuleParser.
func NewParser(cfg Config, completer llm.Completer) Parser {
	rules := NewRuleParser(cfg)
	if completer == nil {
		return rules
	}
	return NewLLMParser(cfg, completer, rules)
}

// finish applies history inheritance, relative follow-ups ("cheaper",
// "closer") and normalization to a raw record.
func finish(rec *models.PreferenceRecord, query string, history []models.SessionTurn, cfg Config) *models.PreferenceRecord {
	prev := models.LastPreferences(history)
	explicitBudget := rec.BudgetPerCapita != nil
	explicitDistance := rec.DistanceKM > 0

	rec.InheritFrom(prev)
	if prev != nil {
		applyFollowUps(rec, query, prev, explicitBudget, explicitDistance)
	}
	rec.Normalize(cfg.DefaultDistanceKM, cfg.DefaultLang)
	return rec
}
