// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package preferences

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tomtom215/tablescout/internal/geo"
	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/taxonomy"
)

var (
	reKM           = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:km|kms|kilometers|kilometres)\b`)
	reMiles        = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:miles?|mi)\b`)
	reWalking      = regexp.MustCompile(`\b(?:walking distance|walkable)\b`)
	rePeople       = regexp.MustCompile(`\b(\d{1,3}|` + numberWords + `)\s*(?:people|persons?|guests|friends|classmates|colleagues|ppl|pax|of us)\b`)
	reForN         = regexp.MustCompile(`\b(?:for|party of|group of)\s+(\d{1,2}|` + numberWords + `)\b(\s*(?:minutes|mins?|hours?|hrs?|am|pm|o'?clock|:\d|\$|usd|dollars|bucks|km|kilomet|miles?|mi\b|stars?|%))?`)
	reBudgetSign   = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)`)
	reBudgetWord   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:usd|dollars|bucks)\b`)
	reStars        = regexp.MustCompile(`(\d(?:\.\d)?)[\s+-]*stars?\b`)
	reRatedAbove   = regexp.MustCompile(`\brat(?:ed|ing)\s*(?:of\s*)?(?:at least|above|over|>=?)?\s*(\d(?:\.\d)?)\b`)
	rePrivateRoom  = regexp.MustCompile(`\b(?:private (?:room|dining|space|area)|separate room)\b`)
	reNegation     = regexp.MustCompile(`\b(?:no|not|avoid|without|except|nothing)\s+([a-z-]+(?:\s+[a-z-]+)?)`)
	reZIP          = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	reNearPhrase   = regexp.MustCompile(`\b(?:near|close to|next to|walking distance (?:of|from|to))\s+(?:the\s+)?([A-Z][\w'&.-]*(?:\s+(?:of\s+)?[A-Z][\w'&.-]*){0,4})`)
	rePOIKeyword   = regexp.MustCompile(`\b((?:[A-Z][\w'&.-]*\s+){1,4}(?i:university|college|campus|hospital|center|centre|station|museum|market|park|stadium|library|mall))\b`)
	reCheaper      = regexp.MustCompile(`\b(?:cheaper|less expensive|lower budget|more affordable)\b`)
	reCloser       = regexp.MustCompile(`\b(?:closer|nearer)\b`)
	rePizzaIntents = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:love|would love|want|crave|craving|need|prefer|treat(?:ing)?)\b.{0,40}\bpizza\b`),
		regexp.MustCompile(`\bpizza\b.{0,20}\b(?:place|spot|restaurant)\b`),
		regexp.MustCompile(`\b(?:grab|enjoy)\b.{0,20}\bpizza\b`),
	}
	rePizzaNegated = regexp.MustCompile(`\b(?:no|not|avoid|without)\b.{0,20}\bpizza\b`)
)

const numberWords = `one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve`

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

var (
	hotpotKeywords = []string{"hot pot", "hotpot", "shabu", "shabu-shabu", "haidilao", "liuyishou", "boiling point", "little sheep", "mala tang", "火锅"}
	noSpicyPhrases = []string{"no spicy", "not spicy", "non-spicy", "mild", "low spice", "no chili", "不要辣", "不辣", "无辣"}
	spicyKeywords  = []string{"spicy", "mala", "sichuan", "szechuan", "hunan", "chongqing"}
)

// walkingDistanceKM is the radius used for "walking distance".
const walkingDistanceKM = 1.2

// RuleParser extracts preferences with regular expressions and keyword
// tables. It is deterministic and never calls out.
type RuleParser struct {
	cfg       Config
	gazetteer *geo.Gazetteer
}

var _ Parser = (*RuleParser)(nil)

// NewRuleParser creates a rule-based parser.
func NewRuleParser(cfg Config) *RuleParser {
	g := cfg.Gazetteer
	if g == nil {
		g = geo.DefaultGazetteer()
	}
	return &RuleParser{cfg: cfg, gazetteer: g}
}

// Parse implements Parser. It never returns an error.
func (p *RuleParser) Parse(_ context.Context, query string, history []models.SessionTurn) (*models.PreferenceRecord, error) {
	return finish(p.Extract(query), query, history, p.cfg), nil
}

// Extract returns the raw record for query alone: zero values mean the query
// did not state the field.
func (p *RuleParser) Extract(query string) *models.PreferenceRecord {
	text := strings.TrimSpace(query)
	lower := strings.ToLower(text)
	rec := &models.PreferenceRecord{}

	if city, ok := p.gazetteer.DetectCity(text); ok {
		rec.City = city
	}
	if area, inCity, ok := p.gazetteer.DetectArea(text, rec.City); ok {
		rec.Area = area
		if rec.City == "" {
			rec.City = inCity
		}
	}

	rec.DistanceKM = extractDistance(lower)
	rec.People = extractPeople(lower)
	rec.BudgetPerCapita = extractBudget(lower)
	rec.RatingMin = extractRating(lower)
	rec.NeedPrivateRoom = rePrivateRoom.MatchString(lower)
	rec.Ambiance = taxonomy.AmbianceInQuery(text)

	rec.MustIncludeCuisines, rec.MustExcludeCuisines = extractHardCuisines(lower)
	positive := reNegation.ReplaceAllString(lower, " ")
	cuisines := taxonomy.CuisinesInQuery(positive)
	if containsAnyWord(positive, spicyKeywords) {
		cuisines = append(cuisines, "spicy")
	}
	rec.Cuisines = without(cuisines, rec.MustExcludeCuisines)

	dt := extractDiningTime(lower)
	rec.DiningTime = dt.token
	rec.MinDurationMin = dt.durationMin
	rec.FlexibleOpen = dt.flexible

	rec.AnchorZIP = reZIP.FindString(text)
	rec.AnchorPOI = p.extractPOI(text)
	return rec
}

func extractDistance(lower string) float64 {
	if m := reKM.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return v
		}
	}
	if m := reMiles.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return math.Round(v*geo.MilesToKM*100) / 100
		}
	}
	if reWalking.MatchString(lower) {
		return walkingDistanceKM
	}
	return 0
}

func extractPeople(lower string) int {
	if m := rePeople.FindStringSubmatch(lower); m != nil {
		if n := parseCount(m[1]); n > 0 {
			return n
		}
	}
	for _, m := range reForN.FindAllStringSubmatch(lower, -1) {
		if m[2] != "" {
			continue // "for 90 minutes", "for 8 pm", "for 40 dollars"
		}
		if n := parseCount(m[1]); n > 0 {
			return n
		}
	}
	return 0
}

func parseCount(s string) int {
	if n, ok := wordNumbers[s]; ok {
		return n
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func extractBudget(lower string) *float64 {
	for _, re := range []*regexp.Regexp{reBudgetSign, reBudgetWord} {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
				return models.Float(v)
			}
		}
	}
	return nil
}

func extractRating(lower string) *float64 {
	for _, re := range []*regexp.Regexp{reStars, reRatedAbove} {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 && v <= 5 {
				return models.Float(v)
			}
		}
	}
	return nil
}

// extractHardCuisines finds must-include terms (hotpot keywords, strong
// pizza intent) and must-exclude terms (no-spicy phrases, negated cuisines).
func extractHardCuisines(lower string) (include, exclude []string) {
	if containsAnyWord(lower, noSpicyPhrases) {
		exclude = append(exclude, "spicy")
	}
	for _, m := range reNegation.FindAllStringSubmatch(lower, -1) {
		words := strings.Fields(m[1])
		candidates := append([]string{m[1]}, words...)
		for _, w := range candidates {
			if label := taxonomy.Canonical(w); taxonomy.IsCuisine(label) {
				exclude = append(exclude, label)
				break
			}
		}
	}
	exclude = models.NormalizeTerms(exclude)

	if containsAnyWord(lower, hotpotKeywords) && !contains(exclude, "hotpot") {
		include = append(include, "hotpot")
	}
	if strongPizzaIntent(lower) && !contains(exclude, "pizza") {
		include = append(include, "pizza")
	}
	return include, exclude
}

func strongPizzaIntent(lower string) bool {
	if rePizzaNegated.MatchString(lower) {
		return false
	}
	for _, re := range rePizzaIntents {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// extractPOI returns a landmark the user anchored on: a capitalized phrase
// after "near"/"close to", or one ending in a landmark keyword. Phrases that
// name a known city or neighborhood are left to the gazetteer.
func (p *RuleParser) extractPOI(text string) string {
	var candidates []string
	if m := reNearPhrase.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := rePOIKeyword.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	for _, c := range candidates {
		c = strings.TrimSpace(strings.TrimRight(c, ".,"))
		if c == "" || p.isPlaceName(c) || isCalendarWord(c) {
			continue
		}
		return c
	}
	return ""
}

func (p *RuleParser) isPlaceName(phrase string) bool {
	if m, ok := p.gazetteer.Lookup(phrase, ""); ok && m.Area == "" {
		return true
	}
	area, _, ok := p.gazetteer.DetectArea(phrase, "")
	return ok && models.NormalizeName(area) == models.NormalizeName(phrase)
}

func isCalendarWord(phrase string) bool {
	first := strings.ToLower(strings.Fields(phrase)[0])
	for _, d := range weekdays {
		if first == d.name {
			return true
		}
	}
	switch first {
	case "today", "tonight", "tomorrow", "noon", "midnight":
		return true
	}
	return false
}

// applyFollowUps handles relative refinements of the previous turn when the
// current turn gives no absolute value.
func applyFollowUps(rec *models.PreferenceRecord, query string, prev *models.PreferenceRecord, explicitBudget, explicitDistance bool) {
	lower := strings.ToLower(query)
	if !explicitBudget && prev.BudgetPerCapita != nil && reCheaper.MatchString(lower) {
		rec.BudgetPerCapita = models.Float(math.Round(*prev.BudgetPerCapita * 0.75))
	}
	if !explicitDistance && prev.DistanceKM > 0 && reCloser.MatchString(lower) {
		rec.DistanceKM = math.Max(prev.DistanceKM/2, geo.MinRadiusKM)
	}
}

func containsAnyWord(text string, phrases []string) bool {
	for _, p := range phrases {
		if taxonomy.ContainsWord(text, p) {
			return true
		}
	}
	return false
}

func contains(terms []string, t string) bool {
	for _, x := range terms {
		if x == t {
			return true
		}
	}
	return false
}

func without(terms, remove []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if !contains(remove, t) {
			out = append(out, t)
		}
	}
	return out
}
