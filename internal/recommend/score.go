// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/tablescout/internal/enrich"
	"github.com/tomtom215/tablescout/internal/geo"
	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/places"
	"github.com/tomtom215/tablescout/internal/taxonomy"
)

// priceTierUSD is the estimated spend per person for provider price levels 1-4.
var priceTierUSD = [5]float64{0, 15, 30, 60, 100}

// Evaluate scores one place against prefs and area. Terms are evaluated in
// a fixed precedence: cuisine, hard cuisine constraints, ambiance, budget,
// distance, popularity and reliability; opening hours close the list of
// hard constraints.
func Evaluate(prefs *models.PreferenceRecord, area *models.SearchArea, place *models.PlaceRecord) *models.Candidate {
	c := &models.Candidate{
		Place:       place,
		DebugScores: make(map[string]float64, 8),
	}
	profile := taxonomy.Profile(place.SearchText(), place.Tags)
	placeCuisines := profile.Cuisines()
	ev := evaluation{prefs: prefs, c: c}

	ev.cuisine(profile)
	ev.hardCuisine(profile)
	ev.ambiance(profile)
	ev.budget()
	ev.distance(area)
	ev.popularity()
	ev.reliability()
	ev.provisionalTrust()
	ev.openingHours()

	c.PrimaryTags = primaryTags(placeCuisines, place.Tags)

	base := WeightCuisine*ev.scores.cuisine +
		WeightAmbiance*ev.scores.ambiance +
		WeightBudget*ev.scores.budget +
		WeightDistance*ev.scores.distance +
		WeightPopularity*ev.scores.popularity +
		WeightReliability*ev.scores.reliability
	c.DebugScores["base"] = round3(base)

	c.Tier, c.MatchMode = models.TierStrict, models.MatchStrict
	if n := len(c.ViolatedConstraints); n > 0 {
		c.Tier, c.MatchMode = models.TierRelaxed, models.MatchRelaxed
		base = base*RelaxedTierDiscount - ExtraViolationPenalty*float64(n-1)
	}
	c.Score = math.Max(0, base)
	c.Reason = reason(c)
	return c
}

type termScores struct {
	cuisine, ambiance, budget, distance, popularity, reliability float64
}

// evaluation accumulates term scores, violations, pros and cons for one
// candidate.
type evaluation struct {
	prefs  *models.PreferenceRecord
	c      *models.Candidate
	scores termScores
}

func (ev *evaluation) pro(format string, args ...interface{}) {
	ev.c.Pros = append(ev.c.Pros, fmt.Sprintf(format, args...))
}

func (ev *evaluation) con(format string, args ...interface{}) {
	ev.c.Cons = append(ev.c.Cons, fmt.Sprintf(format, args...))
}

func (ev *evaluation) violate(name, relaxation string) {
	ev.c.ViolatedConstraints = append(ev.c.ViolatedConstraints, name)
	ev.c.Relaxations = append(ev.c.Relaxations, relaxation)
}

func (ev *evaluation) set(term string, v float64) {
	ev.c.DebugScores[term] = round3(v)
}

func (ev *evaluation) cuisine(profile taxonomy.PlaceProfile) {
	wanted := ev.prefs.PreferredCuisines()
	if len(wanted) == 0 {
		ev.scores.cuisine = neutralScore
		ev.set("cuisine", neutralScore)
		return
	}
	var hits []string
	for _, w := range wanted {
		if profile.Mentions(w) {
			hits = append(hits, w)
		}
	}
	if len(hits) > 0 {
		ev.c.MatchCuisine = true
		ev.scores.cuisine = 1
		ev.pro("Cuisine match: %s", strings.Join(hits, ", "))
	} else {
		ev.con("Cuisine preference not explicitly detected")
	}
	ev.set("cuisine", ev.scores.cuisine)
}

func (ev *evaluation) hardCuisine(profile taxonomy.PlaceProfile) {
	for _, term := range ev.prefs.MustExcludeCuisines {
		if profile.Mentions(term) {
			ev.violate(models.ViolationExcludedCuisine+term, fmt.Sprintf("Serves excluded cuisine %q", term))
		}
	}
	if len(ev.prefs.MustIncludeCuisines) == 0 {
		return
	}
	for _, term := range ev.prefs.MustIncludeCuisines {
		if profile.Mentions(term) {
			return
		}
	}
	ev.violate(models.ViolationMissingRequired,
		"Does not clearly serve "+strings.Join(ev.prefs.MustIncludeCuisines, " or "))
}

func (ev *evaluation) ambiance(profile taxonomy.PlaceProfile) {
	if len(ev.prefs.Ambiance) == 0 {
		ev.scores.ambiance = neutralScore
		ev.set("ambiance", neutralScore)
		return
	}
	have := profile.Ambiance()
	var hits []string
	for _, want := range ev.prefs.Ambiance {
		for _, h := range have {
			if h == want {
				hits = append(hits, want)
			}
		}
	}
	if len(hits) > 0 {
		ev.c.MatchAmbience = true
		ev.scores.ambiance = 1
		ev.pro("Ambience keywords: %s", strings.Join(hits, ", "))
	} else {
		ev.con("Ambience preference not confirmed")
	}
	ev.set("ambiance", ev.scores.ambiance)
}

func (ev *evaluation) budget() {
	level := ev.c.Place.PriceLevel
	budget := ev.prefs.BudgetPerCapita
	switch {
	case budget == nil:
		ev.scores.budget = neutralScore
		ev.c.MatchBudget = true
	case level < 1 || level > 4:
		ev.scores.budget = neutralScore
		ev.con("Budget not verified against menu prices")
	default:
		est := priceTierUSD[level]
		if est <= *budget {
			ev.scores.budget = 1
			ev.c.MatchBudget = true
			ev.pro("Within budget (about $%.0f per person)", est)
		} else {
			ev.scores.budget = math.Max(0, 1-(est-*budget) / *budget)
			ev.violate(models.ViolationBudget, fmt.Sprintf("Likely above budget (about $%.0f per person)", est))
			ev.con("Likely above budget of $%.0f per person", *budget)
		}
	}
	ev.set("budget", ev.scores.budget)
}

func (ev *evaluation) distance(area *models.SearchArea) {
	c := ev.c
	c.DistanceKM = geo.HaversineKM(area.Center.Lat, area.Center.Lon, c.Place.Lat, c.Place.Lon)
	c.DistanceMiles = geo.Miles(c.DistanceKM)

	r := math.Max(area.RadiusKM, geo.MinRadiusKM)
	d := c.DistanceKM
	if d <= r {
		ev.scores.distance = 1 - 0.5*d/r
	} else {
		ev.scores.distance = math.Max(0, 0.5*(1-(d-r)/r))
	}
	c.MatchDistance = d <= r*DistanceMatchSlack
	ev.pro("Approx. %.1f miles from target area", c.DistanceMiles)
	ev.set("distance", ev.scores.distance)
}

func (ev *evaluation) popularity() {
	rating := ev.c.Place.Rating
	if rating == nil {
		ev.scores.popularity = neutralScore
		ev.con("Rating unavailable")
		ev.set("popularity", ev.scores.popularity)
		return
	}
	r := math.Min(math.Max(*rating, 0), 5)
	ev.scores.popularity = r / 5
	ev.c.MatchPopularity = r >= PopularRating
	ev.pro("Average rating %.1f★", r)
	if floor := ev.prefs.RatingMin; floor != nil && r < *floor {
		ev.con("Rating %.1f is below the requested %.1f", r, *floor)
	}
	ev.set("popularity", ev.scores.popularity)
}

// reliability estimates how complete the provider record is.
func (ev *evaluation) reliability() {
	p := ev.c.Place
	score := 0.0
	if p.Website != "" {
		score += 0.3
	}
	if p.OpeningHours != "" {
		score += 0.3
	}
	if p.Rating != nil {
		score += 0.2
	}
	if len(p.Tags) >= 2 {
		score += 0.2
	}
	ev.c.ReliabilityScore = round3(score)
	ev.scores.reliability = score
	ev.set("reliability", score)
}

// provisionalTrust seeds SourceTrustScore from the links the provider
// returned so the trust tiebreak applies before enrichment replaces it.
// It does not contribute to the score.
func (ev *evaluation) provisionalTrust() {
	p := ev.c.Place
	sum, n := 0.0, 0
	for _, u := range []string{p.Website, p.DatasourceURL} {
		if u == "" {
			continue
		}
		if w := enrich.SourceWeight(u, p.Name); w > 0 {
			sum += w
			n++
		}
	}
	if n > 0 {
		ev.c.SourceTrustScore = round3(sum / float64(n))
	}
}

func (ev *evaluation) openingHours() {
	ev.c.IsOpenOK = true
	if ev.prefs.DiningTime == "" {
		return
	}
	switch places.CheckOpen(ev.c.Place.OpeningHours, ev.prefs.DiningTime, ev.prefs.MinDurationMin) {
	case places.Open:
		ev.pro("Open for %d min from %s", ev.prefs.MinDurationMin, ev.prefs.DiningTime)
	case places.Closed:
		ev.c.IsOpenOK = false
		ev.con("Closed at the requested time")
		if ev.prefs.StrictOpenCheck {
			ev.violate(models.ViolationClosed, "Closed during "+ev.prefs.DiningTime)
		}
	default:
		ev.con("Opening hours unknown")
		if ev.prefs.StrictOpenCheck {
			ev.c.IsOpenOK = false
			ev.violate(models.ViolationHoursUnknown, "Opening hours could not be verified")
		}
	}
}

// primaryTags prefers matched cuisine labels, falling back to the most
// specific segment of the provider categories.
func primaryTags(cuisines, tags []string) []string {
	const maxTags = 3
	out := make([]string, 0, maxTags)
	for _, c := range cuisines {
		if c != "spicy" && len(out) < maxTags {
			out = append(out, c)
		}
	}
	if len(out) > 0 {
		return out
	}
	seen := make(map[string]bool)
	for _, t := range tags {
		parts := strings.Split(t, ".")
		leaf := parts[len(parts)-1]
		if len(parts) < 2 || seen[leaf] || leaf == "restaurant" {
			continue
		}
		seen[leaf] = true
		out = append(out, leaf)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

// reason renders the multi-line explanation shown with each candidate.
func reason(c *models.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Distance: %.1f km (%.1f miles)", c.DistanceKM, c.DistanceMiles)
	for _, p := range c.Pros {
		b.WriteString("\n- Pro: ")
		b.WriteString(p)
	}
	for _, r := range c.Cons {
		b.WriteString("\n- Risk: ")
		b.WriteString(r)
	}
	return b.String()
}

// deriveRating fills DerivedRating from the provider rating, or estimates it
// from the final score.
func deriveRating(c *models.Candidate) {
	if r := c.Place.Rating; r != nil {
		c.DerivedRating = math.Round(math.Min(math.Max(*r, 0), 5)*10) / 10
		c.RatingSource = models.RatingExternal
		return
	}
	c.DerivedRating = math.Round(math.Min(math.Max(c.Score*5, 0.5), 5)*10) / 10
	c.RatingSource = models.RatingEstimated
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
