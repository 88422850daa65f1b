// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package models

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode"
)

// MapsSearchURL is the fallback datasource link when a provider has none.
const MapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// PlaceRecord is one restaurant as returned by the place provider.
type PlaceRecord struct {
	Name          string   `json:"name"`
	Address       string   `json:"address,omitempty"`
	Lon           float64  `json:"lon"`
	Lat           float64  `json:"lat"`
	Website       string   `json:"website,omitempty"`
	OpeningHours  string   `json:"opening_hours,omitempty"`
	DatasourceURL string   `json:"datasource_url,omitempty"`
	Tags          []string `json:"tags"`
	Rating        *float64 `json:"rating,omitempty"`
	PriceLevel    int      `json:"price_level,omitempty"` // 1-4, 0 when unknown
}

// Location returns the place coordinate.
func (p *PlaceRecord) Location() LatLon {
	return LatLon{Lat: p.Lat, Lon: p.Lon}
}

// IdentityKey is the deduplication key: normalized name plus coordinates
// rounded to 4 decimals (about 11 m at the equator).
func (p *PlaceRecord) IdentityKey() string {
	return fmt.Sprintf("%s|%.4f|%.4f", NormalizeName(p.Name), round4(p.Lon), round4(p.Lat))
}

// Richness ranks duplicate records: one point per tag, plus website and rating.
func (p *PlaceRecord) Richness() int {
	n := len(p.Tags)
	if p.Website != "" {
		n++
	}
	if p.Rating != nil {
		n++
	}
	if p.OpeningHours != "" {
		n++
	}
	return n
}

// SearchText is the lower-cased haystack used by keyword matching.
func (p *PlaceRecord) SearchText() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(p.Name))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(p.Address))
	for _, t := range p.Tags {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(t))
	}
	return b.String()
}

// EnsureDatasourceURL synthesizes a maps search link when none was provided.
func (p *PlaceRecord) EnsureDatasourceURL() {
	if p.DatasourceURL != "" {
		return
	}
	q := strings.TrimSpace(p.Name + " " + p.Address)
	p.DatasourceURL = MapsSearchURL + url.QueryEscape(q)
}

// NormalizeName lower-cases a name and strips punctuation, collapsing whitespace.
func NormalizeName(name string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

func round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return 0 // avoid "-0.0000"
	}
	return r
}
