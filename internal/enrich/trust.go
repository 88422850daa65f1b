// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package enrich

import (
	"math"
	"net/url"
	"strings"

	"github.com/tomtom215/tablescout/internal/models"
)

// MaxSources caps the sources kept per candidate.
const MaxSources = 5

// Host weights. Job boards are excluded outright.
var (
	excludedHosts = []string{"linkedin.com", "glassdoor.com", "indeed.com", "ziprecruiter.com", "monster.com"}
	deliveryHosts = []string{"ubereats", "doordash", "grubhub", "postmates", "seamless"}
)

// SourceWeight rates how much a link about placeName can be trusted.
func SourceWeight(rawURL, placeName string) float64 {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return 0
	}
	host := strings.ToLower(u.Hostname())
	for _, bad := range excludedHosts {
		if strings.Contains(host, bad) {
			return 0
		}
	}

	switch {
	case strings.Contains(host, "yelp."):
		return 1.0
	case strings.Contains(host, "tripadvisor"):
		return 0.9
	case strings.Contains(host, "opentable") || strings.Contains(host, "resy"):
		return 0.85
	case isGoogleMaps(host, u.Path):
		return 0.8
	}
	for _, d := range deliveryHosts {
		if strings.Contains(host, d) {
			return 0.4
		}
	}
	if ownDomain(host, placeName) {
		return 0.9
	}
	return 0.5
}

func isGoogleMaps(host, path string) bool {
	return strings.HasPrefix(host, "maps.google.") ||
		(strings.Contains(host, "google.") && strings.HasPrefix(path, "/maps"))
}

// ownDomain reports whether the host carries the first two significant words
// of the place name.
func ownDomain(host, placeName string) bool {
	var tokens []string
	for _, tok := range strings.Fields(models.NormalizeName(placeName)) {
		if len(tok) > 3 {
			tokens = append(tokens, tok)
		}
		if len(tokens) == 2 {
			break
		}
	}
	if len(tokens) == 0 {
		return false
	}
	flat := strings.ReplaceAll(host, "-", "")
	for _, tok := range tokens {
		if !strings.Contains(flat, tok) {
			return false
		}
	}
	return true
}

// DedupSources collapses sources with the same title and URL, keeping the
// higher weight, drops zero-weight links and caps the list at MaxSources.
// First-seen order is preserved.
func DedupSources(sources []models.SourceRef) []models.SourceRef {
	out := make([]models.SourceRef, 0, min(len(sources), MaxSources))
	index := make(map[string]int, len(sources))
	for _, s := range sources {
		s.URL = strings.TrimSpace(s.URL)
		s.Title = strings.TrimSpace(s.Title)
		if s.Title == "" {
			s.Title = s.URL
		}
		if s.URL == "" || s.Weight <= 0 {
			continue
		}
		s.Weight = round3(s.Weight)
		key := strings.ToLower(s.Title) + "|" + strings.ToLower(s.URL)
		if i, ok := index[key]; ok {
			if s.Weight > out[i].Weight {
				out[i].Weight = s.Weight
			}
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	if len(out) > MaxSources {
		out = out[:MaxSources]
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
