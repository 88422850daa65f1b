// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package report renders ranked candidates as a Markdown recommendation
// report.
package report

import (
	"fmt"
	"strings"

	"github.com/tomtom215/tablescout/internal/geo"
	"github.com/tomtom215/tablescout/internal/models"
)

// TopPicks is how many candidates the report details.
const TopPicks = 5

const (
	notSpecified = "Not specified"
	disclaimer   = "> Note: menu items, ratings, or availability may change. Please confirm via the linked sources."
)

var anchorNames = map[models.AnchorType]string{
	models.AnchorCoord:   "Coordinates",
	models.AnchorPOI:     "POI",
	models.AnchorZIP:     "ZIP",
	models.AnchorArea:    "Area",
	models.AnchorCity:    "City",
	models.AnchorSession: "Previous search",
	models.AnchorDefault: "Default region",
}

// Build renders the report for ranked candidates inside area.
func Build(prefs *models.PreferenceRecord, area *models.SearchArea, ranked []*models.Candidate) string {
	var b strings.Builder
	writeHeader(&b, prefs, area)
	writeConstraints(&b, prefs)
	writePicks(&b, ranked)
	writeArea(&b, area)
	return strings.TrimRight(b.String(), "\n")
}

// Headline is the one-line summary stored with a session turn.
func Headline(prefs *models.PreferenceRecord, ranked []*models.Candidate) string {
	place := strings.TrimSpace(strings.Join(nonEmpty(prefs.Area, prefs.City), ", "))
	if place == "" {
		place = "the requested area"
	}
	if len(ranked) == 0 {
		return "No restaurants found near " + place
	}
	names := make([]string, 0, 3)
	for _, c := range ranked[:min(3, len(ranked))] {
		names = append(names, c.Name())
	}
	return fmt.Sprintf("%d restaurants near %s; top picks: %s", len(ranked), place, strings.Join(names, ", "))
}

func writeHeader(b *strings.Builder, prefs *models.PreferenceRecord, area *models.SearchArea) {
	b.WriteString("## Restaurant Recommendation Report\n\n")

	location := strings.TrimSpace(strings.Join(nonEmpty(prefs.City, prefs.Area), " "))
	if location == "" {
		location = "Unknown"
	}
	fmt.Fprintf(b, "- City / Area: %s\n", location)
	fmt.Fprintf(b, "- Party size: %d\n", max(prefs.People, 1))
	if prefs.BudgetPerCapita != nil {
		fmt.Fprintf(b, "- Budget per guest: $%.0f\n", *prefs.BudgetPerCapita)
	} else {
		fmt.Fprintf(b, "- Budget per guest: %s\n", notSpecified)
	}
	fmt.Fprintf(b, "- Preferred cuisines: %s\n", listOr(prefs.Cuisines))
	fmt.Fprintf(b, "- Ambience: %s\n", listOr(prefs.Ambiance))
	fmt.Fprintf(b, "- Anchor: %s\n", anchor(prefs, area))

	radius := prefs.DistanceKM
	if area != nil && area.RadiusKM > 0 {
		radius = area.RadiusKM
	}
	fmt.Fprintf(b, "- Search radius: %.1f km (~%.1f miles)\n\n", radius, geo.Miles(radius))
	b.WriteString(disclaimer)
	b.WriteString("\n\n")
}

func anchor(prefs *models.PreferenceRecord, area *models.SearchArea) string {
	kind, label := prefs.AnchorType, prefs.AnchorLabel
	if area != nil && area.AnchorType != "" {
		kind, label = area.AnchorType, area.AnchorLabel
	}
	if kind == "" {
		kind = models.AnchorCity
		if prefs.Area != "" {
			kind = models.AnchorArea
		}
	}
	name, ok := anchorNames[kind]
	if !ok {
		name = "City"
	}
	if label == "" {
		label = "Default"
	}
	return name + " - " + label
}

func writeConstraints(b *strings.Builder, prefs *models.PreferenceRecord) {
	var items []string
	if len(prefs.MustIncludeCuisines) > 0 {
		items = append(items, "Must include: "+strings.Join(prefs.MustIncludeCuisines, ", "))
	}
	if len(prefs.MustExcludeCuisines) > 0 {
		items = append(items, "Must exclude: "+strings.Join(prefs.MustExcludeCuisines, ", "))
	}
	if prefs.DiningTime != "" {
		mode := "flexible"
		if prefs.StrictOpenCheck {
			mode = "strict"
		}
		items = append(items, fmt.Sprintf("Dining time: %s (duration ≥ %d min) [%s]", prefs.DiningTime, prefs.MinDurationMin, mode))
	}
	if prefs.NeedPrivateRoom {
		items = append(items, "Private room requested (not verified)")
	}
	if len(items) == 0 {
		return
	}
	b.WriteString("### Hard Constraints\n")
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func writePicks(b *strings.Builder, ranked []*models.Candidate) {
	b.WriteString("### Top Picks\n")
	if len(ranked) == 0 {
		b.WriteString("No restaurants matched this search. Try a larger radius or fewer constraints.\n\n")
		return
	}
	for i, c := range ranked[:min(TopPicks, len(ranked))] {
		writePick(b, i+1, c)
	}
}

func writePick(b *strings.Builder, rank int, c *models.Candidate) {
	p := c.Place
	fmt.Fprintf(b, "#### %d. %s\n", rank, p.Name)
	fmt.Fprintf(b, "- Address: %s\n", or(p.Address, "Not provided"))
	fmt.Fprintf(b, "- Score: %.3f\n", c.Score)
	fmt.Fprintf(b, "- Rating: %.1f/5 (source: %s)\n", c.DerivedRating, or(c.RatingSource, "unknown"))

	mode := "Strict"
	if c.Relaxed() {
		mode = "Relaxed"
	}
	fmt.Fprintf(b, "- Match mode: %s\n", mode)
	fmt.Fprintf(b, "- Sources: %s (trust %.2f, %d links)\n", sourceLinks(c.DetailSources), c.SourceTrustScore, c.SourceHits)
	fmt.Fprintf(b, "- Distance: %.1f miles (%.1f km)\n", c.DistanceMiles, c.DistanceKM)
	if p.DatasourceURL != "" {
		fmt.Fprintf(b, "- Map: [View map](%s)\n", p.DatasourceURL)
	} else {
		b.WriteString("- Map: No map link\n")
	}

	status := "OK"
	if len(c.ViolatedConstraints) > 0 || !c.IsOpenOK {
		status = "Needs review"
	}
	fmt.Fprintf(b, "- Hard constraints status: %s\n", status)
	fmt.Fprintf(b, "- Constraint violations: %s\n", or(strings.Join(c.ViolatedConstraints, ", "), "None"))

	if len(c.SignatureDishes) > 0 {
		fmt.Fprintf(b, "- Signature dishes: %s\n", strings.Join(c.SignatureDishes[:min(4, len(c.SignatureDishes))], ", "))
	} else {
		b.WriteString("- Signature dishes: not captured\n")
	}

	notes := pickNotes(c)
	if len(notes) == 0 {
		b.WriteString("- Highlights: not available\n\n")
		return
	}
	b.WriteString("- Highlights:\n")
	for _, n := range notes {
		fmt.Fprintf(b, "  * %s\n", n)
	}
	b.WriteString("\n")
}

// pickNotes prefers enrichment output and falls back to the scoring reason.
func pickNotes(c *models.Candidate) []string {
	var notes []string
	notes = append(notes, c.Highlights[:min(3, len(c.Highlights))]...)
	notes = append(notes, c.WhyMatched[:min(2, len(c.WhyMatched))]...)
	if len(notes) == 0 && c.Reason != "" {
		for _, line := range strings.Split(c.Reason, "\n") {
			if line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- ")); line != "" {
				notes = append(notes, line)
			}
		}
	}
	if len(c.ViolatedConstraints) > 0 {
		notes = append(notes, "⚠ Constraints note: "+strings.Join(c.ViolatedConstraints, ", "))
	}
	return notes
}

func sourceLinks(sources []models.SourceRef) string {
	if len(sources) == 0 {
		return "No sources captured"
	}
	links := make([]string, 0, len(sources))
	for _, s := range sources {
		title := or(s.Title, "Source")
		if s.URL == "" {
			links = append(links, title)
			continue
		}
		links = append(links, fmt.Sprintf("[%s](%s)", title, s.URL))
	}
	return strings.Join(links, ", ")
}

func writeArea(b *strings.Builder, area *models.SearchArea) {
	b.WriteString("### Search Area\n")
	if area == nil {
		b.WriteString("- Bounding box: not resolved\n")
		return
	}
	bb := area.BBox
	fmt.Fprintf(b, "- Center: %s\n", area.Center)
	fmt.Fprintf(b, "- Bounding box: [%.5f,%.5f] to [%.5f,%.5f]\n", bb.MinLon, bb.MinLat, bb.MaxLon, bb.MaxLat)
}

func listOr(items []string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, ", ")
}

func or[S ~string](s S, def string) string {
	if s == "" {
		return def
	}
	return string(s)
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
