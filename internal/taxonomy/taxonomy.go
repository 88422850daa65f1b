// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package taxonomy

import (
	"strings"
	"unicode"
)

// Term is one vocabulary entry.
type Term struct {
	Label    string
	Keywords []string
}

// Cuisines is the cuisine vocabulary. "spicy" is a pseudo-cuisine so that
// "no spicy" can be enforced as an exclusion.
var Cuisines = []Term{
	{"sichuan", []string{"sichuan", "szechuan", "mala", "chongqing"}},
	{"hotpot", []string{"hotpot", "hot pot", "shabu", "haidilao", "liuyishou", "boiling point", "little sheep", "mala tang"}},
	{"chinese", []string{"chinese", "dim sum", "dumpling", "cantonese"}},
	{"japanese", []string{"japanese", "sushi", "ramen", "izakaya", "udon"}},
	{"korean", []string{"korean", "soondubu", "bibimbap"}},
	{"thai", []string{"thai"}},
	{"vietnamese", []string{"vietnamese", "pho", "banh mi"}},
	{"indian", []string{"indian", "curry", "tandoori"}},
	{"italian", []string{"italian", "pasta", "trattoria", "osteria", "pizza"}},
	{"pizza", []string{"pizza", "pizzeria"}},
	{"mexican", []string{"mexican", "taco", "taqueria", "burrito"}},
	{"vegan", []string{"vegan", "plant-based", "plant based"}},
	{"vegetarian", []string{"vegetarian", "veggie"}},
	{"seafood", []string{"seafood", "oyster", "lobster", "crab"}},
	{"bbq", []string{"bbq", "barbecue", "smokehouse"}},
	{"steakhouse", []string{"steak", "steakhouse"}},
	{"burger", []string{"burger"}},
	{"spicy", []string{"spicy", "sichuan", "szechuan", "mala", "hunan", "chongqing"}},
}

// Ambiance is the ambiance vocabulary.
var Ambiance = []Term{
	{"quiet", []string{"quiet", "calm", "relaxing", "low-noise", "study-friendly", "安静"}},
	{"romantic", []string{"romantic", "date night"}},
	{"casual", []string{"casual", "laid-back"}},
	{"family", []string{"family", "kid-friendly", "family friendly"}},
}

// CuisinesInQuery returns cuisine labels mentioned in free text, in
// vocabulary order. "spicy" is left out; callers decide how to treat it.
func CuisinesInQuery(text string) []string {
	return inQuery(text, Cuisines, "spicy")
}

// AmbianceInQuery returns ambiance labels mentioned in free text.
func AmbianceInQuery(text string) []string {
	return inQuery(text, Ambiance, "")
}

// Canonical maps a free term ("Sushi", "Korean BBQ") to a cuisine label when
// it names one; otherwise it returns the term lower-cased and trimmed.
func Canonical(term string) string {
	t := strings.ToLower(strings.TrimSpace(term))
	for _, c := range Cuisines {
		if c.Label == t {
			return t
		}
	}
	for _, c := range Cuisines {
		for _, kw := range c.Keywords {
			if kw == t {
				return c.Label
			}
		}
	}
	return t
}

// CanonicalAll applies Canonical to every term.
func CanonicalAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if c := Canonical(t); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// PlaceProfile is the keyword view of one place.
type PlaceProfile struct {
	text     string
	segments map[string]struct{}
}

// Profile builds a profile from a place's lower-cased search text and its
// provider category tags.
func Profile(searchText string, tags []string) PlaceProfile {
	p := PlaceProfile{
		text:     strings.ToLower(searchText),
		segments: make(map[string]struct{}, len(tags)*3),
	}
	for _, tag := range tags {
		for _, seg := range strings.FieldsFunc(strings.ToLower(tag), func(r rune) bool { return r == '.' || r == '_' }) {
			p.segments[seg] = struct{}{}
		}
	}
	return p
}

// Cuisines returns the cuisine labels the place matches.
func (p PlaceProfile) Cuisines() []string {
	return p.match(Cuisines)
}

// Ambiance returns the ambiance labels the place matches.
func (p PlaceProfile) Ambiance() []string {
	return p.match(Ambiance)
}

// Mentions reports whether the place matches term: a known label by its
// keywords, any other term by substring.
func (p PlaceProfile) Mentions(term string) bool {
	term = Canonical(term)
	for _, c := range Cuisines {
		if c.Label == term {
			return p.matches(c)
		}
	}
	if _, ok := p.segments[term]; ok {
		return true
	}
	return term != "" && strings.Contains(p.text, term)
}

func (p PlaceProfile) match(vocab []Term) []string {
	var out []string
	for _, t := range vocab {
		if p.matches(t) {
			out = append(out, t.Label)
		}
	}
	return out
}

func (p PlaceProfile) matches(t Term) bool {
	if _, ok := p.segments[t.Label]; ok {
		return true
	}
	for _, kw := range t.Keywords {
		if _, ok := p.segments[kw]; ok {
			return true
		}
		if strings.Contains(p.text, kw) {
			return true
		}
	}
	return false
}

func inQuery(text string, vocab []Term, skip string) []string {
	padded := " " + wordText(text) + " "
	lower := strings.ToLower(text)
	var out []string
	for _, t := range vocab {
		if t.Label == skip {
			continue
		}
		for _, kw := range t.Keywords {
			if hasWord(padded, lower, kw) {
				out = append(out, t.Label)
				break
			}
		}
	}
	return out
}

// ContainsWord reports whether phrase occurs in text as whole words.
func ContainsWord(text, phrase string) bool {
	return hasWord(" "+wordText(text)+" ", strings.ToLower(text), phrase)
}

func hasWord(padded, lower, kw string) bool {
	if !isASCII(kw) {
		return strings.Contains(lower, kw)
	}
	kw = wordText(kw)
	if strings.Contains(padded, " "+kw+" ") {
		return true
	}
	// "vegetarian-friendly" and "thai-style" carry the keyword as a hyphen part.
	if strings.Contains(kw, " ") || strings.Contains(kw, "-") || !strings.Contains(padded, "-") {
		return false
	}
	for _, field := range strings.Fields(padded) {
		if !strings.Contains(field, "-") || strings.HasPrefix(field, "non-") {
			continue
		}
		for _, part := range strings.Split(field, "-") {
			if part == kw {
				return true
			}
		}
	}
	return false
}

// wordText lower-cases text and replaces everything but letters, digits and
// hyphens with single spaces.
func wordText(text string) string {
	var b strings.Builder
	space := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// IsCuisine reports whether label is a known cuisine label.
func IsCuisine(label string) bool {
	for _, c := range Cuisines {
		if c.Label == label {
			return true
		}
	}
	return false
}
