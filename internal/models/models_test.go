// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	p := &PreferenceRecord{}
	p.Normalize(3, "en")

	if p.People != 1 {
		t.Errorf("People = %d, want 1", p.People)
	}
	if p.DistanceKM != 3 {
		t.Errorf("DistanceKM = %v, want 3", p.DistanceKM)
	}
	if p.MinDurationMin != 60 {
		t.Errorf("MinDurationMin = %d, want 60", p.MinDurationMin)
	}
	if !p.StrictOpenCheck {
		t.Error("StrictOpenCheck should default to true")
	}
	if p.Lang != "en" {
		t.Errorf("Lang = %q, want en", p.Lang)
	}
	if p.Cuisines == nil || p.MustIncludeCuisines == nil {
		t.Error("term sets should be non-nil after Normalize")
	}
}

func TestNormalizeClampsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    PreferenceRecord
		check func(t *testing.T, p *PreferenceRecord)
	}{
		{
			name: "negative people",
			in:   PreferenceRecord{People: -4},
			check: func(t *testing.T, p *PreferenceRecord) {
				if p.People != 1 {
					t.Errorf("People = %d", p.People)
				}
			},
		},
		{
			name: "short duration floors at 30",
			in:   PreferenceRecord{MinDurationMin: 10},
			check: func(t *testing.T, p *PreferenceRecord) {
				if p.MinDurationMin != 30 {
					t.Errorf("MinDurationMin = %d", p.MinDurationMin)
				}
			},
		},
		{
			name: "zero budget unset",
			in:   PreferenceRecord{BudgetPerCapita: Float(0)},
			check: func(t *testing.T, p *PreferenceRecord) {
				if p.BudgetPerCapita != nil {
					t.Errorf("BudgetPerCapita = %v", *p.BudgetPerCapita)
				}
			},
		},
		{
			name: "negative distance uses default",
			in:   PreferenceRecord{DistanceKM: -2},
			check: func(t *testing.T, p *PreferenceRecord) {
				if p.DistanceKM != 3 {
					t.Errorf("DistanceKM = %v", p.DistanceKM)
				}
			},
		},
		{
			name: "flexible open clears strict check",
			in:   PreferenceRecord{FlexibleOpen: true},
			check: func(t *testing.T, p *PreferenceRecord) {
				if p.StrictOpenCheck {
					t.Error("StrictOpenCheck should be false")
				}
			},
		},
		{
			name: "terms are lower-cased and deduplicated",
			in:   PreferenceRecord{Cuisines: []string{" Sichuan", "sichuan", "", "THAI"}},
			check: func(t *testing.T, p *PreferenceRecord) {
				if !reflect.DeepEqual(p.Cuisines, []string{"sichuan", "thai"}) {
					t.Errorf("Cuisines = %v", p.Cuisines)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := tt.in
			p.Normalize(3, "en")
			tt.check(t, &p)
		})
	}
}

func TestNormalizeMustSetsDisjoint(t *testing.T) {
	t.Parallel()

	pool := []string{"spicy", "Spicy", "hotpot", "pizza", "thai", " THAI "}
	for mask := 0; mask < 1<<len(pool); mask++ {
		var inc, exc []string
		for i, term := range pool {
			if mask&(1<<i) != 0 {
				inc = append(inc, term)
			}
			if mask&(1<<((i+2)%len(pool))) != 0 {
				exc = append(exc, term)
			}
		}
		p := &PreferenceRecord{MustIncludeCuisines: inc, MustExcludeCuisines: exc}
		p.Normalize(3, "en")

		excluded := make(map[string]bool)
		for _, e := range p.MustExcludeCuisines {
			excluded[e] = true
		}
		for _, i := range p.MustIncludeCuisines {
			if excluded[i] {
				t.Fatalf("mask %d: %q in both must-include %v and must-exclude %v",
					mask, i, p.MustIncludeCuisines, p.MustExcludeCuisines)
			}
		}
	}
}

func TestNormalizeExcludeWins(t *testing.T) {
	t.Parallel()

	p := &PreferenceRecord{
		MustIncludeCuisines: []string{"Spicy", "Hotpot"},
		MustExcludeCuisines: []string{"spicy"},
	}
	p.Normalize(3, "en")

	if !reflect.DeepEqual(p.MustIncludeCuisines, []string{"hotpot"}) {
		t.Errorf("MustIncludeCuisines = %v, want [hotpot]", p.MustIncludeCuisines)
	}
	if !reflect.DeepEqual(p.MustExcludeCuisines, []string{"spicy"}) {
		t.Errorf("MustExcludeCuisines = %v, want [spicy]", p.MustExcludeCuisines)
	}
}

func TestInheritFrom(t *testing.T) {
	t.Parallel()

	prev := &PreferenceRecord{
		City:            "Seattle",
		Area:            "Capitol Hill",
		People:          6,
		BudgetPerCapita: Float(30),
		Cuisines:        []string{"sichuan"},
		DistanceKM:      2,
		DiningTime:      "Fri 19:00",
		StrictOpenCheck: true,
		Lang:            "en",
	}

	t.Run("unset fields inherit", func(t *testing.T) {
		cur := &PreferenceRecord{Ambiance: []string{"quiet"}}
		cur.InheritFrom(prev)
		cur.Normalize(3, "en")

		if cur.City != "Seattle" || cur.Area != "Capitol Hill" {
			t.Errorf("location = %q/%q", cur.City, cur.Area)
		}
		if cur.People != 6 || cur.BudgetPerCapita == nil || *cur.BudgetPerCapita != 30 {
			t.Errorf("party/budget not inherited: %+v", cur)
		}
		if !reflect.DeepEqual(cur.Ambiance, []string{"quiet"}) {
			t.Errorf("current ambiance overwritten: %v", cur.Ambiance)
		}
		if cur.DiningTime != "Fri 19:00" || !cur.StrictOpenCheck {
			t.Errorf("dining time not inherited: %q strict=%v", cur.DiningTime, cur.StrictOpenCheck)
		}
	})

	t.Run("current values win", func(t *testing.T) {
		cur := &PreferenceRecord{People: 2, BudgetPerCapita: Float(15), Cuisines: []string{"thai"}}
		cur.InheritFrom(prev)

		if cur.People != 2 || *cur.BudgetPerCapita != 15 || cur.Cuisines[0] != "thai" {
			t.Errorf("current values lost: %+v", cur)
		}
	})

	t.Run("new city drops stale area", func(t *testing.T) {
		cur := &PreferenceRecord{City: "Austin"}
		cur.InheritFrom(prev)

		if cur.Area != "" {
			t.Errorf("Area = %q, want empty", cur.Area)
		}
	})

	t.Run("inherited budget is a copy", func(t *testing.T) {
		cur := &PreferenceRecord{}
		cur.InheritFrom(prev)
		*cur.BudgetPerCapita = 99

		if *prev.BudgetPerCapita != 30 {
			t.Error("InheritFrom aliased the previous budget")
		}
	})

	t.Run("nil previous is a no-op", func(t *testing.T) {
		cur := &PreferenceRecord{City: "Austin"}
		cur.InheritFrom(nil)
		if cur.City != "Austin" {
			t.Errorf("City = %q", cur.City)
		}
	})
}

func TestPreferenceClone(t *testing.T) {
	t.Parallel()

	p := &PreferenceRecord{Cuisines: []string{"thai"}, BudgetPerCapita: Float(20)}
	c := p.Clone()
	c.Cuisines[0] = "pizza"
	*c.BudgetPerCapita = 5

	if p.Cuisines[0] != "thai" || *p.BudgetPerCapita != 20 {
		t.Errorf("Clone shares state with original: %+v", p)
	}
	if (*PreferenceRecord)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Szechuan Noodle Bowl", "szechuan noodle bowl"},
		{"  Joe's   Pizza!! ", "joes pizza"},
		{"Café Flora", "café flora"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIdentityKey(t *testing.T) {
	t.Parallel()

	a := &PlaceRecord{Name: "Joe's Pizza", Lon: -122.32041, Lat: 47.61492}
	b := &PlaceRecord{Name: "joes pizza", Lon: -122.32039, Lat: 47.61488}
	c := &PlaceRecord{Name: "Joe's Pizza", Lon: -122.33, Lat: 47.61492}

	if a.IdentityKey() != b.IdentityKey() {
		t.Errorf("expected equal keys: %q vs %q", a.IdentityKey(), b.IdentityKey())
	}
	if a.IdentityKey() == c.IdentityKey() {
		t.Errorf("expected distinct keys for distant places: %q", a.IdentityKey())
	}
	if got := (&PlaceRecord{Name: "x", Lon: -0.00001}).IdentityKey(); strings.Contains(got, "-0.0000") {
		t.Errorf("negative zero leaked into key: %q", got)
	}
}

func TestRichness(t *testing.T) {
	t.Parallel()

	bare := &PlaceRecord{Name: "A", Tags: []string{"catering.restaurant"}}
	rich := &PlaceRecord{Name: "A", Tags: []string{"catering.restaurant"}, Website: "https://a.test", Rating: Float(4.2)}
	if rich.Richness() <= bare.Richness() {
		t.Errorf("richer record should outrank: %d <= %d", rich.Richness(), bare.Richness())
	}
}

func TestEnsureDatasourceURL(t *testing.T) {
	t.Parallel()

	p := &PlaceRecord{Name: "Spice Room", Address: "1 Pine St"}
	p.EnsureDatasourceURL()
	if !strings.HasPrefix(p.DatasourceURL, MapsSearchURL) || !strings.Contains(p.DatasourceURL, "Spice+Room") {
		t.Errorf("DatasourceURL = %q", p.DatasourceURL)
	}

	p2 := &PlaceRecord{Name: "X", DatasourceURL: "https://osm.test/node/1"}
	p2.EnsureDatasourceURL()
	if p2.DatasourceURL != "https://osm.test/node/1" {
		t.Errorf("existing URL overwritten: %q", p2.DatasourceURL)
	}
}

func TestBBoxJSON(t *testing.T) {
	t.Parallel()

	b := BBox{MinLon: -122.34, MinLat: 47.60, MaxLon: -122.30, MaxLat: 47.63}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[-122.34,47.6,-122.3,47.63]" {
		t.Errorf("bbox JSON = %s", data)
	}

	var decoded BBox
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != b {
		t.Errorf("decoded = %+v, want %+v", decoded, b)
	}
	if !b.Valid() || !b.Contains(b.Center()) {
		t.Errorf("bbox should be valid and contain its center")
	}
	if (BBox{MinLon: 1, MaxLon: 1, MinLat: 0, MaxLat: 1}).Valid() {
		t.Error("degenerate bbox reported valid")
	}
}

func TestCandidateClone(t *testing.T) {
	t.Parallel()

	c := &Candidate{
		Place:       &PlaceRecord{Name: "A"},
		Highlights:  []string{"one"},
		DebugScores: map[string]float64{"cuisine": 0.3},
	}
	cl := c.Clone()
	cl.Highlights[0] = "two"
	cl.DebugScores["cuisine"] = 0

	if c.Highlights[0] != "one" || c.DebugScores["cuisine"] != 0.3 {
		t.Error("Clone shares mutable state")
	}
	if cl.Place != c.Place {
		t.Error("Clone should share the immutable place record")
	}
}

func TestSessionHelpers(t *testing.T) {
	t.Parallel()

	center := LatLon{Lat: 47.6, Lon: -122.3}
	history := []SessionTurn{
		{Query: "a", Preferences: &PreferenceRecord{City: "Seattle"}, Center: &center},
		{Query: "b"},
	}

	if got := LastPreferences(history); got == nil || got.City != "Seattle" {
		t.Errorf("LastPreferences = %+v", got)
	}
	got := LastCenter(history)
	if got == nil || *got != center {
		t.Errorf("LastCenter = %+v", got)
	}
	got.Lat = 0
	if history[0].Center.Lat != 47.6 {
		t.Error("LastCenter returned an alias")
	}
	if LastPreferences(nil) != nil || LastCenter(nil) != nil {
		t.Error("empty history should yield nil")
	}
}

func TestDegradationKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrParseDegraded, "parse"},
		{fmt.Errorf("llm: %w", ErrRerankDegraded), "rerank"},
		{ErrEnrichmentPartial, "enrichment"},
		{ErrStreamAborted, "stream_aborted"},
		{ErrAreaUnresolved, ""},
		{errors.New("other"), ""},
	}
	for _, tt := range tests {
		if got := DegradationKind(tt.err); got != tt.want {
			t.Errorf("DegradationKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
