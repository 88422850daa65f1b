// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tablescout/internal/llm"
	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/taxonomy"
)

// DefaultHistoryTurns bounds the history sent to the model when unset.
const DefaultHistoryTurns = 4

// errNoLocation marks model output that names no city, area or anchor.
var errNoLocation = errors.New("model output has no location")

const systemPrompt = `You extract restaurant search preferences from a user's request.
Reply with ONE JSON object and nothing else. Use exactly these keys:
city, area, people, budget_per_capita, cuisines, ambiance, need_private_room,
rating_min, distance_km, lang, must_include_cuisines, must_exclude_cuisines,
dining_time, min_duration_min, strict_open_check, anchor_poi, anchor_zip.

Rules:
- Use null for anything the user did not state.
- budget_per_capita is USD per person; distance_km is kilometers.
- must_include_cuisines only for hard requirements ("must be hotpot");
  must_exclude_cuisines for things the user refuses ("no spicy" -> ["spicy"]).
- dining_time is "Ddd HH:MM" in 24h time ("Tue 20:00") or "HH:MM".
- strict_open_check is false only if the user says the time is flexible.
- Earlier turns are context: carry over the city unless the user changes it.

Example:
{"city":"Seattle","area":"Capitol Hill","people":2,"budget_per_capita":40,
"cuisines":["vegetarian"],"ambiance":["quiet"],"need_private_room":false,
"rating_min":null,"distance_km":null,"lang":"en","must_include_cuisines":[],
"must_exclude_cuisines":[],"dining_time":"Fri 19:30","min_duration_min":null,
"strict_open_check":true,"anchor_poi":null,"anchor_zip":null}`

// LLMParser asks a Completer for structured preferences. Every failure falls
// back to the RuleParser.
type LLMParser struct {
	cfg       Config
	completer llm.Completer
	rules     *RuleParser
}

var _ Parser = (*LLMParser)(nil)

// NewLLMParser creates an LLM-backed parser. rules may be nil.
func NewLLMParser(cfg Config, completer llm.Completer, rules *RuleParser) *LLMParser {
	if rules == nil {
		rules = NewRuleParser(cfg)
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = DefaultHistoryTurns
	}
	return &LLMParser{cfg: cfg, completer: completer, rules: rules}
}

// Parse implements Parser. It never returns an error.
func (p *LLMParser) Parse(ctx context.Context, query string, history []models.SessionTurn) (*models.PreferenceRecord, error) {
	rec, err := p.complete(ctx, query, history)
	if err != nil {
		err = fmt.Errorf("%w: %w", models.ErrParseDegraded, err)
		metrics.RecordDegradation(models.DegradationKind(err))
		logging.Ctx(ctx).Warn().Err(err).Str("component", "preferences").
			Msg("LLM preference parsing failed, falling back to rules")
		return p.rules.Parse(ctx, query, history)
	}
	return finish(rec, query, history, p.cfg), nil
}

func (p *LLMParser) complete(ctx context.Context, query string, history []models.SessionTurn) (*models.PreferenceRecord, error) {
	raw, err := p.completer.Complete(ctx, systemPrompt, p.prompt(query, history))
	if err != nil {
		return nil, err
	}
	body, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var out llmRecord
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}

	rec := out.record()
	p.mergeRules(rec, query)
	if rec.City == "" && rec.Area == "" && rec.AnchorPOI == "" && rec.AnchorZIP == "" {
		return nil, errNoLocation
	}
	return rec, nil
}

// prompt renders the bounded history window followed by the current request.
func (p *LLMParser) prompt(query string, history []models.SessionTurn) string {
	if len(history) > p.cfg.HistoryTurns {
		history = history[len(history)-p.cfg.HistoryTurns:]
	}
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Earlier turns, oldest first:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "user: %s\n", turn.Query)
			if turn.Preferences != nil {
				if prefs, err := json.Marshal(turn.Preferences); err == nil {
					fmt.Fprintf(&b, "extracted: %s\n", prefs)
				}
			}
			if turn.Summary != "" {
				fmt.Fprintf(&b, "assistant: %s\n", turn.Summary)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("Current request: ")
	b.WriteString(query)
	return b.String()
}

// mergeRules fills gaps in model output with deterministic signals from the
// current query: gazetteer location, anchors, time window and hard cuisine
// requirements.
func (p *LLMParser) mergeRules(rec *models.PreferenceRecord, query string) {
	r := p.rules.Extract(query)

	if rec.City == "" {
		rec.City = r.City
		if rec.Area == "" {
			rec.Area = r.Area
		}
	}
	if rec.AnchorPOI == "" {
		rec.AnchorPOI = r.AnchorPOI
	}
	if rec.AnchorZIP == "" {
		rec.AnchorZIP = r.AnchorZIP
	}
	if rec.DiningTime == "" {
		rec.DiningTime = r.DiningTime
	}
	rec.MinDurationMin = max(rec.MinDurationMin, r.MinDurationMin)
	rec.FlexibleOpen = rec.FlexibleOpen || r.FlexibleOpen
	rec.MustExcludeCuisines = models.NormalizeTerms(append(rec.MustExcludeCuisines, r.MustExcludeCuisines...))
	rec.MustIncludeCuisines = models.NormalizeTerms(append(rec.MustIncludeCuisines, r.MustIncludeCuisines...))
}

// llmRecord is the model's JSON. Field types are lenient: models often emit
// numbers as strings or a single string where a list is expected.
type llmRecord struct {
	City                string      `json:"city"`
	Area                string      `json:"area"`
	People              flexFloat   `json:"people"`
	BudgetPerCapita     flexFloat   `json:"budget_per_capita"`
	Cuisines            flexStrings `json:"cuisines"`
	Ambiance            flexStrings `json:"ambiance"`
	NeedPrivateRoom     flexBool    `json:"need_private_room"`
	RatingMin           flexFloat   `json:"rating_min"`
	DistanceKM          flexFloat   `json:"distance_km"`
	Lang                string      `json:"lang"`
	MustIncludeCuisines flexStrings `json:"must_include_cuisines"`
	MustExcludeCuisines flexStrings `json:"must_exclude_cuisines"`
	DiningTime          string      `json:"dining_time"`
	MinDurationMin      flexFloat   `json:"min_duration_min"`
	StrictOpenCheck     flexBool    `json:"strict_open_check"`
	AnchorPOI           string      `json:"anchor_poi"`
	AnchorZIP           string      `json:"anchor_zip"`
}

func (r *llmRecord) record() *models.PreferenceRecord {
	rec := &models.PreferenceRecord{
		City:                strings.TrimSpace(r.City),
		Area:                strings.TrimSpace(r.Area),
		People:              int(r.People.value),
		Cuisines:            taxonomy.CanonicalAll(r.Cuisines),
		Ambiance:            models.NormalizeTerms(r.Ambiance),
		MustIncludeCuisines: taxonomy.CanonicalAll(r.MustIncludeCuisines),
		MustExcludeCuisines: taxonomy.CanonicalAll(r.MustExcludeCuisines),
		DistanceKM:          r.DistanceKM.value,
		DiningTime:          canonicalDiningTime(r.DiningTime),
		MinDurationMin:      int(r.MinDurationMin.value),
		Lang:                strings.ToLower(strings.TrimSpace(r.Lang)),
		NeedPrivateRoom:     r.NeedPrivateRoom.value,
		AnchorPOI:           strings.TrimSpace(r.AnchorPOI),
		AnchorZIP:           strings.TrimSpace(r.AnchorZIP),
		FlexibleOpen:        r.StrictOpenCheck.set && !r.StrictOpenCheck.value,
	}
	if r.BudgetPerCapita.set {
		rec.BudgetPerCapita = models.Float(r.BudgetPerCapita.value)
	}
	if r.RatingMin.set {
		rec.RatingMin = models.Float(r.RatingMin.value)
	}
	return rec
}
