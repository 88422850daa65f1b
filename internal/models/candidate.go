// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package models

// MatchMode is the constraint tier a candidate landed in.
type MatchMode string

const (
	MatchStrict  MatchMode = "strict"
	MatchRelaxed MatchMode = "relaxed"
)

// Tier values; lower sorts first.
const (
	TierStrict  = 1
	TierRelaxed = 2
)

// RatingSource tells whether DerivedRating came from the provider or the score.
type RatingSource string

const (
	RatingExternal  RatingSource = "external"
	RatingEstimated RatingSource = "estimated"
)

// Hard-constraint violation names.
const (
	ViolationExcludedCuisine = "excluded_cuisine:"
	ViolationMissingRequired = "missing_required_cuisine"
	ViolationBudget          = "budget"
	ViolationClosed          = "closed_at_requested_time"
	ViolationHoursUnknown    = "opening_hours_unknown"
)

// SourceRef is one external page backing a candidate.
type SourceRef struct {
	Title  string  `json:"title"`
	URL    string  `json:"url"`
	Weight float64 `json:"weight"`
}

// Candidate is a scored place. Enrichment fields are filled only for the top-N.
type Candidate struct {
	Place *PlaceRecord `json:"place"`

	Score               float64   `json:"score"`
	MatchMode           MatchMode `json:"match_mode"`
	Tier                int       `json:"tier"`
	ViolatedConstraints []string  `json:"violated_constraints"`
	Relaxations         []string  `json:"relaxations,omitempty"`

	MatchCuisine    bool     `json:"match_cuisine"`
	MatchAmbience   bool     `json:"match_ambience"`
	MatchBudget     bool     `json:"match_budget"`
	MatchDistance   bool     `json:"match_distance"`
	MatchPopularity bool     `json:"match_popularity"`
	PrimaryTags     []string `json:"primary_tags"`

	DistanceKM       float64 `json:"distance_km"`
	DistanceMiles    float64 `json:"distance_miles"`
	ReliabilityScore float64 `json:"reliability_score"`
	SourceTrustScore float64 `json:"source_trust_score"`
	SourceHits       int     `json:"source_hits"`
	IsOpenOK         bool    `json:"is_open_ok"`

	DebugScores   map[string]float64 `json:"debug_scores,omitempty"`
	DerivedRating float64            `json:"derived_rating"`
	RatingSource  RatingSource       `json:"rating_source"`

	Reason string   `json:"reason"`
	Pros   []string `json:"pros"`
	Cons   []string `json:"cons"`

	Highlights      []string    `json:"highlights,omitempty"`
	SignatureDishes []string    `json:"signature_dishes,omitempty"`
	WhyMatched      []string    `json:"why_matched,omitempty"`
	Risks           []string    `json:"risks,omitempty"`
	DetailSources   []SourceRef `json:"detail_sources,omitempty"`
	Enriched        bool        `json:"enriched"`
}

// Relaxed reports whether the candidate violated any hard constraint.
func (c *Candidate) Relaxed() bool {
	return c.Tier == TierRelaxed
}

// Name returns the place name, or "" for a bare candidate.
func (c *Candidate) Name() string {
	if c.Place == nil {
		return ""
	}
	return c.Place.Name
}

// Clone returns a copy safe to hand to another goroutine. The PlaceRecord is
// shared: it is never mutated after candidate generation.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	out := *c
	out.ViolatedConstraints = append([]string(nil), c.ViolatedConstraints...)
	out.Relaxations = append([]string(nil), c.Relaxations...)
	out.PrimaryTags = append([]string(nil), c.PrimaryTags...)
	out.Pros = append([]string(nil), c.Pros...)
	out.Cons = append([]string(nil), c.Cons...)
	out.Highlights = append([]string(nil), c.Highlights...)
	out.SignatureDishes = append([]string(nil), c.SignatureDishes...)
	out.WhyMatched = append([]string(nil), c.WhyMatched...)
	out.Risks = append([]string(nil), c.Risks...)
	out.DetailSources = append([]SourceRef(nil), c.DetailSources...)
	if c.DebugScores != nil {
		out.DebugScores = make(map[string]float64, len(c.DebugScores))
		for k, v := range c.DebugScores {
			out.DebugScores[k] = v
		}
	}
	return &out
}
