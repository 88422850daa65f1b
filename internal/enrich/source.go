// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package enrich

import (
	"context"
	"regexp"
	"strings"

	"github.com/tomtom215/tablescout/internal/models"
)

// maxDetailText bounds the snippet text handed to a reasoner.
const maxDetailText = 4000

// DetailSource fetches external information about one place.
type DetailSource interface {
	// Name labels the source in logs and metrics.
	Name() string
	Fetch(ctx context.Context, place *models.PlaceRecord, lang string) (*DetailResult, error)
}

// DetailResult is what one or more sources know about a place.
type DetailResult struct {
	Sources []models.SourceRef
	// Text is concatenated snippet text, bounded to a few thousand bytes.
	Text string
	// Ratings are review scores seen in snippets, e.g. "4.5/5".
	Ratings []string
}

// Hits is the number of distinct sources.
func (d *DetailResult) Hits() int {
	if d == nil {
		return 0
	}
	return len(d.Sources)
}

// TrustScore is the mean weight of the sources, or 0 without any.
func (d *DetailResult) TrustScore() float64 {
	if d.Hits() == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range d.Sources {
		sum += s.Weight
	}
	return round3(sum / float64(len(d.Sources)))
}

// merge folds other into d. Sources are deduplicated and capped afterwards.
func (d *DetailResult) merge(other *DetailResult) {
	if other == nil {
		return
	}
	d.Sources = DedupSources(append(d.Sources, other.Sources...))
	if other.Text != "" {
		if d.Text != "" {
			d.Text += "\n"
		}
		d.Text += other.Text
		if len(d.Text) > maxDetailText {
			d.Text = d.Text[:maxDetailText]
		}
	}
	for _, r := range other.Ratings {
		if !contains(d.Ratings, r) {
			d.Ratings = append(d.Ratings, r)
		}
	}
}

var reSnippetRating = regexp.MustCompile(`(?i)(\d(?:\.\d)?)\s*(?:/\s*5|stars?)`)

// snippetRating pulls a "4.5/5" style rating out of review text.
func snippetRating(text string) (string, bool) {
	m := reSnippetRating.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + "/5", true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
