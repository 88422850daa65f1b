// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package preferences

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
)

// fakeCompleter returns a canned reply and records prompts.
type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestLLMParser_Lenient(t *testing.T) {
	fc := &fakeCompleter{reply: `Here you go:
{"city":"Seattle","area":"Capitol Hill","people":"2","budget_per_capita":"$40",
 "cuisines":"Vegetarian, Sushi","ambiance":["Quiet"],"need_private_room":"yes",
 "rating_min":null,"strict_open_check":"no","dining_time":"friday 19:30"}`}
	p := NewLLMParser(Config{DefaultDistanceKM: 3}, fc, nil)

	rec, err := p.Parse(context.Background(), "something quiet", nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rec.City != "Seattle" || rec.Area != "Capitol Hill" || rec.People != 2 {
		t.Errorf("rec = %+v", rec)
	}
	if rec.BudgetPerCapita == nil || *rec.BudgetPerCapita != 40 {
		t.Errorf("BudgetPerCapita = %v", rec.BudgetPerCapita)
	}
	if !reflect.DeepEqual(rec.Cuisines, []string{"vegetarian", "japanese"}) {
		t.Errorf("Cuisines = %v", rec.Cuisines)
	}
	if !reflect.DeepEqual(rec.Ambiance, []string{"quiet"}) {
		t.Errorf("Ambiance = %v", rec.Ambiance)
	}
	if !rec.NeedPrivateRoom || rec.StrictOpenCheck || rec.DiningTime != "Fri 19:30" {
		t.Errorf("private/strict/time = %v/%v/%q", rec.NeedPrivateRoom, rec.StrictOpenCheck, rec.DiningTime)
	}
	if rec.RatingMin != nil {
		t.Errorf("RatingMin = %v, want nil", *rec.RatingMin)
	}
}

func TestLLMParser_MergesRuleSignals(t *testing.T) {
	fc := &fakeCompleter{reply: `{"city":"Seattle","cuisines":["hot pot"]}`}
	p := NewLLMParser(Config{}, fc, nil)

	rec, err := p.Parse(context.Background(), "haidilao near Pike Place Market, no spicy, after work ends at 6pm", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rec.MustIncludeCuisines, []string{"hotpot"}) {
		t.Errorf("MustInclude = %v", rec.MustIncludeCuisines)
	}
	if !reflect.DeepEqual(rec.MustExcludeCuisines, []string{"spicy"}) {
		t.Errorf("MustExclude = %v", rec.MustExcludeCuisines)
	}
	if rec.AnchorPOI != "Pike Place Market" {
		t.Errorf("AnchorPOI = %q", rec.AnchorPOI)
	}
	if rec.DiningTime != "18:15" || rec.MinDurationMin != 75 {
		t.Errorf("time = %q/%d", rec.DiningTime, rec.MinDurationMin)
	}
}

func TestLLMParser_FallsBackToRules(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"completer error", "", errors.New("llm: status 503")},
		{"no json", "I cannot help with that.", nil},
		{"broken json", `{"city": }`, nil},
		{"no location", `{"cuisines":["sushi"]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := metrics.Degradations.WithLabelValues("parse")
			before := testutil.ToFloat64(counter)

			p := NewLLMParser(Config{}, &fakeCompleter{reply: tt.reply, err: tt.err}, nil)
			rec, err := p.Parse(context.Background(), "quiet thai dinner please", nil)
			if err != nil {
				t.Fatalf("Parse() error = %v, want nil", err)
			}
			if !reflect.DeepEqual(rec.Cuisines, []string{"thai"}) || !reflect.DeepEqual(rec.Ambiance, []string{"quiet"}) {
				t.Errorf("rule result not used: cuisines %v ambiance %v", rec.Cuisines, rec.Ambiance)
			}
			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("parse degradations = %v, want %v", got, before+1)
			}
		})
	}
}

func TestLLMParser_HistoryWindow(t *testing.T) {
	fc := &fakeCompleter{reply: `{"city":"Seattle","cuisines":["ramen"]}`}
	p := NewLLMParser(Config{HistoryTurns: 2}, fc, nil)

	history := []models.SessionTurn{
		{Query: "first turn about tacos"},
		{Query: "second turn in Seattle", Preferences: &models.PreferenceRecord{City: "Seattle", BudgetPerCapita: models.Float(40)}},
		{Query: "third turn", Summary: "Top pick: Ramen Danbo"},
	}
	rec, err := p.Parse(context.Background(), "ramen instead", history)
	if err != nil {
		t.Fatal(err)
	}

	prompt := fc.prompts[0]
	if strings.Contains(prompt, "first turn") {
		t.Error("prompt includes a turn outside the history window")
	}
	for _, want := range []string{"second turn in Seattle", "third turn", "Top pick: Ramen Danbo", `"budget_per_capita":40`, "Current request: ramen instead"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	if rec.BudgetPerCapita == nil || *rec.BudgetPerCapita != 40 {
		t.Errorf("budget not inherited: %v", rec.BudgetPerCapita)
	}
	if !reflect.DeepEqual(rec.Cuisines, []string{"japanese"}) {
		t.Errorf("Cuisines = %v", rec.Cuisines)
	}
}
