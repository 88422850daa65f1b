// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package enrich

import (
	"fmt"
	"testing"

	"github.com/tomtom215/tablescout/internal/models"
)

func TestSourceWeight(t *testing.T) {
	tests := []struct {
		url  string
		want float64
	}{
		{"https://www.yelp.com/biz/canlis-seattle", 1.0},
		{"https://www.tripadvisor.com/Restaurant_Review-canlis", 0.9},
		{"https://www.opentable.com/r/canlis", 0.85},
		{"https://resy.com/cities/sea/canlis", 0.85},
		{"https://www.google.com/maps/search/?api=1&query=Canlis", 0.8},
		{"https://www.doordash.com/store/canlis", 0.4},
		{"https://canlis.com/menu", 0.9},
		{"https://www.linkedin.com/company/canlis", 0},
		{"https://www.indeed.com/cmp/canlis/jobs", 0},
		{"https://www.seattlemet.com/eat-and-drink/best", 0.5},
		{"not a url", 0},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := SourceWeight(tt.url, "Canlis"); got != tt.want {
				t.Errorf("SourceWeight(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestSourceWeight_OwnDomainNeedsNameTokens(t *testing.T) {
	if got := SourceWeight("https://plumbistro.com", "Plum Bistro"); got != 0.9 {
		t.Errorf("own domain = %v, want 0.9", got)
	}
	if got := SourceWeight("https://plum.example.com", "Plum Bistro"); got != 0.5 {
		t.Errorf("partial name = %v, want 0.5", got)
	}
	// Short names carry no significant token.
	if got := SourceWeight("https://bar.com", "Bar"); got != 0.5 {
		t.Errorf("short name = %v, want 0.5", got)
	}
}

func TestDedupSources(t *testing.T) {
	in := []models.SourceRef{
		{Title: "Yelp", URL: "https://yelp.com/a", Weight: 0.5},
		{Title: "yelp ", URL: "https://YELP.com/a", Weight: 1.0},
		{Title: "", URL: "https://example.com", Weight: 0.5},
		{Title: "Jobs", URL: "https://indeed.com", Weight: 0},
		{Title: "No URL", URL: "", Weight: 0.9},
	}
	got := DedupSources(in)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Weight != 1.0 || got[0].Title != "Yelp" {
		t.Errorf("got[0] = %+v, want Yelp with the higher weight", got[0])
	}
	if got[1].Title != "https://example.com" {
		t.Errorf("empty title not replaced by URL: %+v", got[1])
	}
}

func TestDedupSources_Cap(t *testing.T) {
	var in []models.SourceRef
	for i := 0; i < 9; i++ {
		in = append(in, models.SourceRef{Title: fmt.Sprintf("s%d", i), URL: fmt.Sprintf("https://x.com/%d", i), Weight: 0.5})
	}
	if got := DedupSources(in); len(got) != MaxSources || got[0].Title != "s0" {
		t.Errorf("DedupSources() kept %d (first %q), want %d starting at s0", len(got), got[0].Title, MaxSources)
	}
}

func TestDetailResult_TrustAndMerge(t *testing.T) {
	var empty *DetailResult
	if empty.Hits() != 0 || empty.TrustScore() != 0 {
		t.Error("nil result should have no hits and zero trust")
	}

	d := &DetailResult{Sources: []models.SourceRef{{Title: "a", URL: "https://yelp.com/a", Weight: 1}}, Ratings: []string{"4.5/5"}}
	d.merge(&DetailResult{
		Sources: []models.SourceRef{{Title: "b", URL: "https://b.com", Weight: 0.5}},
		Text:    "great ramen",
		Ratings: []string{"4.5/5", "4/5"},
	})
	if d.Hits() != 2 || d.TrustScore() != 0.75 {
		t.Errorf("hits=%d trust=%v, want 2 and 0.75", d.Hits(), d.TrustScore())
	}
	if len(d.Ratings) != 2 || d.Text != "great ramen" {
		t.Errorf("merged = %+v", d)
	}
}

func TestSnippetRating(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"Rated 4.5/5 by diners", "4.5/5", true},
		{"4 stars on Yelp", "4/5", true},
		{"3.5 star average", "3.5/5", true},
		{"open until 10", "", false},
	}
	for _, tt := range tests {
		got, ok := snippetRating(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("snippetRating(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}
