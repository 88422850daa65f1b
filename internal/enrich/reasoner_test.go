// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
)

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func ramenCandidate() *models.Candidate {
	return &models.Candidate{
		Place: &models.PlaceRecord{
			Name: "Ooink",
			Tags: []string{"catering.restaurant.ramen"},
		},
		MatchCuisine:  true,
		MatchDistance: true,
		DistanceMiles: 0.4,
	}
}

func TestDishes(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", ""},
		{"Try the Tonkotsu RAMEN and pork buns", "ramen"},
		{"sushi, udon, tempura, donburi and yakitori", "sushi,udon,tempura,donburi"},
		{"spring rolls? no, spring roll and pho", "pho,spring roll"},
		{"noodlesoup", ""},
	}
	for _, tt := range tests {
		if got := strings.Join(Dishes(tt.text), ","); got != tt.want {
			t.Errorf("Dishes(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestRuleReasoner(t *testing.T) {
	prefs := &models.PreferenceRecord{Cuisines: []string{"japanese"}, Ambiance: []string{"quiet"}}

	t.Run("with sources", func(t *testing.T) {
		detail := &DetailResult{
			Sources: []models.SourceRef{{Title: "Yelp", URL: "https://yelp.com/biz/ooink", Weight: 1}},
			Text:    "Famous for spicy miso ramen.",
			Ratings: []string{"4.5/5"},
		}
		r, _ := RuleReasoner{}.Reason(context.Background(), prefs, ramenCandidate(), detail)

		if strings.Join(r.SignatureDishes, ",") != "ramen" {
			t.Errorf("dishes = %v", r.SignatureDishes)
		}
		wantHighlights := []string{"Known for: ramen", "Ratings reported: 4.5/5", "1 reliable sources referenced"}
		if strings.Join(r.Highlights, "|") != strings.Join(wantHighlights, "|") {
			t.Errorf("highlights = %v", r.Highlights)
		}
		if len(r.WhyMatched) == 0 || r.WhyMatched[0] != "Serves japanese" {
			t.Errorf("why = %v", r.WhyMatched)
		}
		if len(r.Risks) != 1 || !strings.Contains(r.Risks[0], "outdated") {
			t.Errorf("risks = %v", r.Risks)
		}
	})

	t.Run("without sources", func(t *testing.T) {
		c := ramenCandidate()
		c.Relaxations = []string{"Closed during Tue 23:00"}
		r, _ := RuleReasoner{}.Reason(context.Background(), prefs, c, nil)

		if len(r.Highlights) != 0 || len(r.SignatureDishes) != 0 {
			t.Errorf("unexpected highlights %v / dishes %v", r.Highlights, r.SignatureDishes)
		}
		if len(r.Risks) != 2 || !strings.Contains(r.Risks[0], "trusted reviews") || r.Risks[1] != "Closed during Tue 23:00" {
			t.Errorf("risks = %v", r.Risks)
		}
	})

	t.Run("low trust", func(t *testing.T) {
		detail := &DetailResult{Sources: []models.SourceRef{{Title: "Blog", URL: "https://blog.example", Weight: 0.4}}}
		r, _ := RuleReasoner{}.Reason(context.Background(), prefs, ramenCandidate(), detail)
		if !strings.Contains(r.Risks[0], "reliability is limited") {
			t.Errorf("risks = %v", r.Risks)
		}
	})
}

func TestLLMReasoner(t *testing.T) {
	prefs := &models.PreferenceRecord{Cuisines: []string{"japanese"}}
	detail := &DetailResult{Text: "the ramen is great"}

	tests := []struct {
		name         string
		completer    *fakeCompleter
		wantHighlite string
		wantDegraded bool
	}{
		{
			name: "valid json",
			completer: &fakeCompleter{reply: "<think>hmm</think>Sure! " +
				`{"highlights":["Rich tonkotsu broth"],"signature_dishes":"ramen","why_matched":["Japanese"],"risks":[]}`},
			wantHighlite: "Rich tonkotsu broth",
		},
		{
			name:         "completer error",
			completer:    &fakeCompleter{err: errors.New("502 bad gateway")},
			wantHighlite: "Known for: ramen",
			wantDegraded: true,
		},
		{
			name:         "no json",
			completer:    &fakeCompleter{reply: "I cannot help with that."},
			wantHighlite: "Known for: ramen",
			wantDegraded: true,
		},
		{
			name:         "empty object",
			completer:    &fakeCompleter{reply: `{}`},
			wantHighlite: "Known for: ramen",
			wantDegraded: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.Degradations.WithLabelValues("reasoning"))

			r, err := NewLLMReasoner(tt.completer).Reason(context.Background(), prefs, ramenCandidate(), detail)
			if err != nil {
				t.Fatalf("Reason() error = %v", err)
			}
			if len(r.Highlights) == 0 || r.Highlights[0] != tt.wantHighlite {
				t.Errorf("highlights = %v, want first %q", r.Highlights, tt.wantHighlite)
			}

			delta := testutil.ToFloat64(metrics.Degradations.WithLabelValues("reasoning")) - before
			if (delta == 1) != tt.wantDegraded {
				t.Errorf("reasoning degradations delta = %v, wantDegraded %v", delta, tt.wantDegraded)
			}
		})
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`["a"," b ",""]`, "a|b"},
		{`"single"`, "single"},
		{`null`, ""},
		{`42`, ""},
		{`[1, "x"]`, "1|x"},
	}
	for _, tt := range tests {
		if got := strings.Join(stringList([]byte(tt.raw)), "|"); got != tt.want {
			t.Errorf("stringList(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
