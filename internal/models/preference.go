// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package models

import (
	"math"
	"strings"
)

// Preference defaults applied by Normalize when a field is unset.
const (
	DefaultPeople         = 1
	DefaultDistanceKM     = 3.0
	DefaultMinDurationMin = 60
	MinDurationFloorMin   = 30
	DefaultLang           = "en"
)

// PreferenceRecord is the structured form of a dining request.
//
// Parsers produce a raw record in which zero values mean "not stated"; history
// inheritance (InheritFrom) runs on the raw record, and Normalize then fills
// defaults and enforces the invariants downstream stages rely on.
type PreferenceRecord struct {
	City                string   `json:"city,omitempty"`
	Area                string   `json:"area,omitempty"`
	People              int      `json:"people"`
	BudgetPerCapita     *float64 `json:"budget_per_capita,omitempty"`
	Cuisines            []string `json:"cuisines"`
	Ambiance            []string `json:"ambiance"`
	MustIncludeCuisines []string `json:"must_include_cuisines"`
	MustExcludeCuisines []string `json:"must_exclude_cuisines"`
	DistanceKM          float64  `json:"distance_km"`
	DiningTime          string   `json:"dining_time,omitempty"` // "Tue 20:00" or "20:00"
	MinDurationMin      int      `json:"min_duration_min"`
	StrictOpenCheck     bool     `json:"strict_open_check"`
	Lang                string   `json:"lang"`
	RatingMin           *float64 `json:"rating_min,omitempty"`
	NeedPrivateRoom     bool     `json:"need_private_room"`
	AnchorPOI           string   `json:"anchor_poi,omitempty"`
	AnchorZIP           string   `json:"anchor_zip,omitempty"`

	// Filled by area resolution.
	AnchorType  AnchorType `json:"anchor_type,omitempty"`
	AnchorLabel string     `json:"anchor_label,omitempty"`

	// FlexibleOpen records an explicit "if possible" so Normalize does not
	// restore the strict default.
	FlexibleOpen bool `json:"-"`
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

// Normalize fills defaults and enforces invariants:
//   - People >= 1, DistanceKM > 0, MinDurationMin >= 30
//   - cuisine/ambiance sets are trimmed, lower-cased and de-duplicated
//   - must-include and must-exclude are disjoint; exclude wins on conflict
//   - non-positive budgets are treated as unset
func (p *PreferenceRecord) Normalize(defaultDistanceKM float64, defaultLang string) {
	p.City = strings.TrimSpace(p.City)
	p.Area = strings.TrimSpace(p.Area)

	if p.People < 1 {
		p.People = DefaultPeople
	}
	if defaultDistanceKM <= 0 {
		defaultDistanceKM = DefaultDistanceKM
	}
	if p.DistanceKM <= 0 || math.IsNaN(p.DistanceKM) || math.IsInf(p.DistanceKM, 0) {
		p.DistanceKM = defaultDistanceKM
	}
	switch {
	case p.MinDurationMin == 0:
		p.MinDurationMin = DefaultMinDurationMin
	case p.MinDurationMin < MinDurationFloorMin:
		p.MinDurationMin = MinDurationFloorMin
	}
	if p.BudgetPerCapita != nil && (*p.BudgetPerCapita <= 0 || math.IsNaN(*p.BudgetPerCapita)) {
		p.BudgetPerCapita = nil
	}
	if p.RatingMin != nil && (*p.RatingMin <= 0 || *p.RatingMin > 5) {
		p.RatingMin = nil
	}
	if p.Lang == "" {
		p.Lang = defaultLang
	}
	if p.Lang == "" {
		p.Lang = DefaultLang
	}
	p.StrictOpenCheck = !p.FlexibleOpen

	p.Cuisines = NormalizeTerms(p.Cuisines)
	p.Ambiance = NormalizeTerms(p.Ambiance)
	p.MustExcludeCuisines = NormalizeTerms(p.MustExcludeCuisines)
	p.MustIncludeCuisines = subtract(NormalizeTerms(p.MustIncludeCuisines), p.MustExcludeCuisines)
}

// InheritFrom fills fields the current turn left unset from a previous turn's
// record. Current values always win. The area is only inherited together with
// its city so a new city never keeps a stale neighborhood.
func (p *PreferenceRecord) InheritFrom(prev *PreferenceRecord) {
	if prev == nil {
		return
	}
	if p.City == "" {
		p.City = prev.City
		if p.Area == "" {
			p.Area = prev.Area
		}
	}
	if p.People == 0 {
		p.People = prev.People
	}
	if p.BudgetPerCapita == nil && prev.BudgetPerCapita != nil {
		p.BudgetPerCapita = Float(*prev.BudgetPerCapita)
	}
	if len(p.Cuisines) == 0 {
		p.Cuisines = append([]string(nil), prev.Cuisines...)
	}
	if len(p.Ambiance) == 0 {
		p.Ambiance = append([]string(nil), prev.Ambiance...)
	}
	if len(p.MustIncludeCuisines) == 0 {
		p.MustIncludeCuisines = append([]string(nil), prev.MustIncludeCuisines...)
	}
	if len(p.MustExcludeCuisines) == 0 {
		p.MustExcludeCuisines = append([]string(nil), prev.MustExcludeCuisines...)
	}
	if p.DistanceKM == 0 {
		p.DistanceKM = prev.DistanceKM
	}
	if p.DiningTime == "" {
		p.DiningTime = prev.DiningTime
		if p.MinDurationMin == 0 {
			p.MinDurationMin = prev.MinDurationMin
		}
		if !p.FlexibleOpen {
			p.FlexibleOpen = !prev.StrictOpenCheck
		}
	}
	if p.RatingMin == nil && prev.RatingMin != nil {
		p.RatingMin = Float(*prev.RatingMin)
	}
	if p.AnchorPOI == "" && p.AnchorZIP == "" && p.City == prev.City {
		p.AnchorPOI = prev.AnchorPOI
		p.AnchorZIP = prev.AnchorZIP
	}
	if p.Lang == "" {
		p.Lang = prev.Lang
	}
	p.NeedPrivateRoom = p.NeedPrivateRoom || prev.NeedPrivateRoom
}

// Clone returns a deep copy.
func (p *PreferenceRecord) Clone() *PreferenceRecord {
	if p == nil {
		return nil
	}
	c := *p
	if p.BudgetPerCapita != nil {
		c.BudgetPerCapita = Float(*p.BudgetPerCapita)
	}
	if p.RatingMin != nil {
		c.RatingMin = Float(*p.RatingMin)
	}
	c.Cuisines = append([]string(nil), p.Cuisines...)
	c.Ambiance = append([]string(nil), p.Ambiance...)
	c.MustIncludeCuisines = append([]string(nil), p.MustIncludeCuisines...)
	c.MustExcludeCuisines = append([]string(nil), p.MustExcludeCuisines...)
	return &c
}

// HasCuisinePreference reports whether any cuisine signal was stated.
func (p *PreferenceRecord) HasCuisinePreference() bool {
	return len(p.Cuisines) > 0 || len(p.MustIncludeCuisines) > 0
}

// PreferredCuisines returns cuisines plus must-include terms, de-duplicated.
func (p *PreferenceRecord) PreferredCuisines() []string {
	all := make([]string, 0, len(p.Cuisines)+len(p.MustIncludeCuisines))
	all = append(all, p.Cuisines...)
	all = append(all, p.MustIncludeCuisines...)
	return NormalizeTerms(all)
}

// NormalizeTerms trims, lower-cases and de-duplicates terms, preserving first-seen order.
func NormalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func subtract(terms, remove []string) []string {
	if len(remove) == 0 {
		return terms
	}
	drop := make(map[string]struct{}, len(remove))
	for _, r := range remove {
		drop[r] = struct{}{}
	}
	out := terms[:0]
	for _, t := range terms {
		if _, ok := drop[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}
