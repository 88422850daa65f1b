// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/taxonomy"
)

// Reasoning is the narrative attached to an enriched candidate.
type Reasoning struct {
	Highlights      []string `json:"highlights"`
	SignatureDishes []string `json:"signature_dishes"`
	WhyMatched      []string `json:"why_matched"`
	Risks           []string `json:"risks"`
}

// Reasoner explains a candidate from the gathered detail.
type Reasoner interface {
	Reason(ctx context.Context, prefs *models.PreferenceRecord, c *models.Candidate, detail *DetailResult) (*Reasoning, error)
}

const (
	maxDishes          = 4
	lowTrustThreshold  = 0.6
	maxReportedRatings = 2
)

// dishKeywords are matched as whole words in snippet text.
var dishKeywords = []string{
	"ramen", "sushi", "udon", "tempura", "donburi", "yakitori",
	"pho", "banh mi", "spring roll",
	"bbq", "brisket", "steak", "burger",
	"pizza", "pasta", "risotto",
	"taco", "burrito",
	"hotpot", "dumpling", "noodle", "noodles",
	"curry", "bibimbap", "oyster",
}

// RuleReasoner derives reasoning from keywords and source statistics.
type RuleReasoner struct{}

var _ Reasoner = RuleReasoner{}

// Reason implements Reasoner. It never fails.
func (RuleReasoner) Reason(_ context.Context, prefs *models.PreferenceRecord, c *models.Candidate, detail *DetailResult) (*Reasoning, error) {
	text := ""
	if detail != nil {
		text = detail.Text
	}
	dishes := Dishes(text)
	r := &Reasoning{SignatureDishes: dishes}

	if len(dishes) > 0 {
		r.Highlights = append(r.Highlights, "Known for: "+strings.Join(dishes, ", "))
	}
	if detail != nil && len(detail.Ratings) > 0 {
		r.Highlights = append(r.Highlights,
			"Ratings reported: "+strings.Join(detail.Ratings[:min(len(detail.Ratings), maxReportedRatings)], ", "))
	}
	if hits := detail.Hits(); hits > 0 {
		r.Highlights = append(r.Highlights, fmt.Sprintf("%d reliable sources referenced", hits))
	}

	if c.MatchCuisine {
		r.WhyMatched = append(r.WhyMatched, "Serves "+strings.Join(matched(prefs.PreferredCuisines(), c), ", "))
	} else if prefs.HasCuisinePreference() {
		r.WhyMatched = append(r.WhyMatched, "Cuisine preference referenced; verify dishes with the sources")
	}
	if len(prefs.MustIncludeCuisines) > 0 && !hasViolation(c, models.ViolationMissingRequired) {
		r.WhyMatched = append(r.WhyMatched, "Hard requirement satisfied: "+strings.Join(prefs.MustIncludeCuisines, ", "))
	}
	if c.MatchAmbience {
		r.WhyMatched = append(r.WhyMatched, "Ambience matches: "+strings.Join(prefs.Ambiance, ", "))
	} else if len(prefs.Ambiance) > 0 {
		r.WhyMatched = append(r.WhyMatched, "Ambience preference not fully confirmed; consider contacting the venue")
	}
	if c.MatchDistance {
		r.WhyMatched = append(r.WhyMatched, fmt.Sprintf("Within %.1f miles of the search center", c.DistanceMiles))
	}

	if detail.Hits() == 0 {
		r.Risks = append(r.Risks, "Could not find trusted reviews; double-check availability")
	} else if detail.TrustScore() < lowTrustThreshold {
		r.Risks = append(r.Risks, "Source reliability is limited; confirm via official site")
	}
	r.Risks = append(r.Risks, c.Relaxations...)
	if len(r.Risks) == 0 {
		r.Risks = append(r.Risks, "Some information might be outdated; please verify with the source links")
	}
	return r, nil
}

// Dishes returns up to four dish keywords mentioned in text, in keyword
// order.
func Dishes(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, kw := range dishKeywords {
		if taxonomy.ContainsWord(text, kw) {
			out = append(out, kw)
			if len(out) == maxDishes {
				break
			}
		}
	}
	return out
}

func matched(wanted []string, c *models.Candidate) []string {
	profile := taxonomy.Profile(c.Place.SearchText(), c.Place.Tags)
	var out []string
	for _, w := range wanted {
		if profile.Mentions(w) {
			out = append(out, w)
		}
	}
	return out
}

func hasViolation(c *models.Candidate, name string) bool {
	for _, v := range c.ViolatedConstraints {
		if v == name {
			return true
		}
	}
	return false
}
