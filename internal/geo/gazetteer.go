// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package geo

import (
	"strings"

	"github.com/tomtom215/tablescout/internal/models"
)

// Neighborhood is a named area inside a city.
type Neighborhood struct {
	Name    string
	Aliases []string
	Center  models.LatLon
}

// City is a gazetteer entry.
type City struct {
	Name          string
	State         string
	Center        models.LatLon
	Aliases       []string
	Neighborhoods []Neighborhood
}

// Match is a successful gazetteer lookup.
type Match struct {
	City   string
	Area   string // empty when only the city matched
	Center models.LatLon
}

// Gazetteer resolves city and neighborhood names offline.
type Gazetteer struct {
	cities []City
	byName map[string]int // normalized name or alias -> index into cities
}

// NewGazetteer indexes cities by normalized name and alias.
func NewGazetteer(cities []City) *Gazetteer {
	g := &Gazetteer{
		cities: cities,
		byName: make(map[string]int, len(cities)*4),
	}
	for i := range cities {
		g.byName[models.NormalizeName(cities[i].Name)] = i
		for _, alias := range cities[i].Aliases {
			g.byName[models.NormalizeName(alias)] = i
		}
	}
	return g
}

// DefaultGazetteer returns the built-in US city table.
func DefaultGazetteer() *Gazetteer {
	return NewGazetteer(usCities)
}

// Cities returns the canonical city names.
func (g *Gazetteer) Cities() []string {
	names := make([]string, len(g.cities))
	for i := range g.cities {
		names[i] = g.cities[i].Name
	}
	return names
}

// Lookup resolves a city and optional area. When the area is unknown the
// city center is returned with Match.Area empty.
func (g *Gazetteer) Lookup(city, area string) (Match, bool) {
	c := g.city(city)
	if c == nil {
		return Match{}, false
	}
	if area != "" {
		if n := c.neighborhood(models.NormalizeName(area)); n != nil {
			return Match{City: c.Name, Area: n.Name, Center: n.Center}, true
		}
	}
	return Match{City: c.Name, Center: c.Center}, true
}

// DetectCity finds a city name or alias mentioned in free text. Matching is
// on whole words, so "la" never matches inside "place".
func (g *Gazetteer) DetectCity(text string) (string, bool) {
	padded := " " + models.NormalizeName(text) + " "
	best, bestLen := -1, 0
	for token, idx := range g.byName {
		if len(token) > bestLen && strings.Contains(padded, " "+token+" ") {
			best, bestLen = idx, len(token)
		}
	}
	if best < 0 {
		return "", false
	}
	return g.cities[best].Name, true
}

// DetectArea finds a neighborhood mentioned in free text. With a known city
// only that city's neighborhoods are considered; otherwise the match must be
// unambiguous across cities, and its city is returned too.
func (g *Gazetteer) DetectArea(text, city string) (area, inCity string, ok bool) {
	padded := " " + models.NormalizeName(text) + " "

	if c := g.city(city); c != nil {
		if n := c.detect(padded); n != nil {
			return n.Name, c.Name, true
		}
		return "", "", false
	}

	var hits []Match
	for i := range g.cities {
		if n := g.cities[i].detect(padded); n != nil {
			hits = append(hits, Match{City: g.cities[i].Name, Area: n.Name})
		}
	}
	if len(hits) != 1 {
		return "", "", false
	}
	return hits[0].Area, hits[0].City, true
}

func (g *Gazetteer) city(name string) *City {
	norm := normalizeCity(name)
	if norm == "" {
		return nil
	}
	if idx, ok := g.byName[norm]; ok {
		return &g.cities[idx]
	}
	return nil
}

func (c *City) neighborhood(norm string) *Neighborhood {
	for i := range c.Neighborhoods {
		n := &c.Neighborhoods[i]
		if models.NormalizeName(n.Name) == norm {
			return n
		}
		for _, alias := range n.Aliases {
			if models.NormalizeName(alias) == norm {
				return n
			}
		}
	}
	return nil
}

// detect returns the neighborhood with the longest name or alias found in
// padded text.
func (c *City) detect(padded string) *Neighborhood {
	var best *Neighborhood
	bestLen := 0
	for i := range c.Neighborhoods {
		n := &c.Neighborhoods[i]
		for _, token := range append([]string{n.Name}, n.Aliases...) {
			norm := models.NormalizeName(token)
			if len(norm) > bestLen && strings.Contains(padded, " "+norm+" ") {
				best, bestLen = n, len(norm)
			}
		}
	}
	return best
}

// normalizeCity lower-cases, strips punctuation and a trailing two-letter
// state code: "Seattle, WA" -> "seattle".
func normalizeCity(name string) string {
	parts := strings.Fields(models.NormalizeName(name))
	if len(parts) > 1 && len(parts[len(parts)-1]) == 2 {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}

func ll(lat, lon float64) models.LatLon {
	return models.LatLon{Lat: lat, Lon: lon}
}

var usCities = []City{
	{
		Name:    "Seattle",
		State:   "WA",
		Center:  ll(47.6062, -122.3321),
		Aliases: []string{"seattle washington"},
		Neighborhoods: []Neighborhood{
			{Name: "Capitol Hill", Aliases: []string{"capitolhill", "cap hill"}, Center: ll(47.6230, -122.3204)},
			{Name: "U District", Aliases: []string{"university district", "udistrict"}, Center: ll(47.6603, -122.3035)},
			{Name: "Ballard", Center: ll(47.6686, -122.3800)},
			{Name: "Fremont", Center: ll(47.6512, -122.3493)},
			{Name: "Queen Anne", Center: ll(47.6265, -122.3570)},
			{Name: "South Lake Union", Aliases: []string{"slu"}, Center: ll(47.6235, -122.3381)},
		},
	},
	{
		Name:    "San Francisco",
		State:   "CA",
		Center:  ll(37.7749, -122.4194),
		Aliases: []string{"sf", "san fran"},
		Neighborhoods: []Neighborhood{
			{Name: "SoMa", Aliases: []string{"south of market"}, Center: ll(37.7817, -122.4006)},
			{Name: "Mission District", Aliases: []string{"mission", "the mission"}, Center: ll(37.7599, -122.4192)},
			{Name: "Fisherman's Wharf", Aliases: []string{"fishermans wharf"}, Center: ll(37.8080, -122.4147)},
			{Name: "North Beach", Center: ll(37.8061, -122.4109)},
			{Name: "Nob Hill", Center: ll(37.7930, -122.4156)},
		},
	},
	{
		Name:    "New York",
		State:   "NY",
		Center:  ll(40.7580, -73.9855),
		Aliases: []string{"nyc", "new york city"},
		Neighborhoods: []Neighborhood{
			{Name: "Manhattan", Center: ll(40.7831, -73.9712)},
			{Name: "Midtown", Center: ll(40.7549, -73.9817)},
			{Name: "Flushing", Center: ll(40.7557, -73.8320)},
			{Name: "Brooklyn", Center: ll(40.6782, -73.9442)},
			{Name: "Queens", Center: ll(40.7282, -73.7949)},
			{Name: "Lower East Side", Aliases: []string{"les"}, Center: ll(40.7150, -73.9874)},
		},
	},
	{
		Name:    "Los Angeles",
		State:   "CA",
		Center:  ll(34.0522, -118.2437),
		Aliases: []string{"la"},
		Neighborhoods: []Neighborhood{
			{Name: "Hollywood", Center: ll(34.0928, -118.3287)},
			{Name: "Santa Monica", Center: ll(34.0195, -118.4965)},
			{Name: "Downtown", Aliases: []string{"dtla"}, Center: ll(34.0407, -118.2440)},
			{Name: "Koreatown", Aliases: []string{"ktown"}, Center: ll(34.0584, -118.3000)},
			{Name: "West Hollywood", Aliases: []string{"weho"}, Center: ll(34.0900, -118.3617)},
		},
	},
	{
		Name:   "Austin",
		State:  "TX",
		Center: ll(30.2672, -97.7431),
		Neighborhoods: []Neighborhood{
			{Name: "Downtown", Center: ll(30.2687, -97.7431)},
			{Name: "South Congress", Aliases: []string{"soco"}, Center: ll(30.2490, -97.7490)},
			{Name: "East Austin", Center: ll(30.2639, -97.7200)},
			{Name: "Domain", Aliases: []string{"the domain"}, Center: ll(30.4018, -97.7249)},
		},
	},
}
