// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tablescout/internal/llm"
	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
)

const reasonerPrompt = `You are a restaurant guide. Using the diner preferences, venue metadata and the trusted sources below, produce a JSON object with:
- highlights: 3-5 short points grounded in the sources
- signature_dishes: 2-4 popular dishes or categories
- why_matched: reasons this venue fits the stated preferences
- risks: uncertainties the diner should verify
Only output JSON. If information is missing, say so instead of guessing.`

const maxPromptDetail = 3000

// LLMReasoner asks a completer for the reasoning and falls back to rules on
// any failure.
type LLMReasoner struct {
	completer llm.Completer
	fallback  Reasoner
}

var _ Reasoner = (*LLMReasoner)(nil)

// NewLLMReasoner creates an LLM-backed reasoner.
func NewLLMReasoner(completer llm.Completer) *LLMReasoner {
	return &LLMReasoner{completer: completer, fallback: RuleReasoner{}}
}

// Reason implements Reasoner. It never returns an error.
func (r *LLMReasoner) Reason(ctx context.Context, prefs *models.PreferenceRecord, c *models.Candidate, detail *DetailResult) (*Reasoning, error) {
	out, err := r.complete(ctx, prefs, c, detail)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	err = fmt.Errorf("%w: %w", models.ErrReasoningDegraded, err)
	metrics.RecordDegradation(models.DegradationKind(err))
	logging.Ctx(ctx).Warn().Err(err).Str("place", c.Name()).Msg("LLM reasoning failed, falling back to rules")
	return r.fallback.Reason(ctx, prefs, c, detail)
}

func (r *LLMReasoner) complete(ctx context.Context, prefs *models.PreferenceRecord, c *models.Candidate, detail *DetailResult) (*Reasoning, error) {
	raw, err := r.completer.Complete(ctx, reasonerPrompt, reasoningPrompt(prefs, c, detail))
	if err != nil {
		return nil, err
	}
	body, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	out := &Reasoning{
		Highlights:      stringList(fields["highlights"]),
		SignatureDishes: stringList(fields["signature_dishes"]),
		WhyMatched:      stringList(fields["why_matched"]),
		Risks:           stringList(fields["risks"]),
	}
	if len(out.Highlights)+len(out.SignatureDishes)+len(out.WhyMatched)+len(out.Risks) == 0 {
		return nil, fmt.Errorf("model output has no reasoning fields")
	}
	if len(out.SignatureDishes) > maxDishes {
		out.SignatureDishes = out.SignatureDishes[:maxDishes]
	}
	return out, nil
}

func reasoningPrompt(prefs *models.PreferenceRecord, c *models.Candidate, detail *DetailResult) string {
	var b strings.Builder
	if p, err := json.Marshal(prefs); err == nil {
		fmt.Fprintf(&b, "DINER PREFERENCES: %s\n", p)
	}
	place := c.Place
	fmt.Fprintf(&b, "RESTAURANT: name=%s, address=%s, tags=%s\n", place.Name, place.Address, strings.Join(place.Tags, ", "))
	fmt.Fprintf(&b, "TRUST_SCORE: %.2f, SOURCE_COUNT: %d\n", detail.TrustScore(), detail.Hits())
	if detail != nil && detail.Text != "" {
		text := detail.Text
		if len(text) > maxPromptDetail {
			text = text[:maxPromptDetail]
		}
		fmt.Fprintf(&b, "SOURCES:\n%s\n", text)
	}
	b.WriteString("Return the JSON object only.")
	return b.String()
}

// stringList accepts a JSON string array, a single string or null.
func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []interface{}
	if err := json.Unmarshal(raw, &list); err != nil {
		var one string
		if json.Unmarshal(raw, &one) == nil && strings.TrimSpace(one) != "" {
			return []string{strings.TrimSpace(one)}
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" && v != nil {
			out = append(out, s)
		}
	}
	return out
}
