// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package places

import (
	"regexp"
	"strconv"
	"strings"
)

// OpenState is the outcome of an opening-hours check.
type OpenState int

const (
	// OpenUnknown means the hours string could not be evaluated for the
	// requested day.
	OpenUnknown OpenState = iota
	Open
	Closed
)

func (s OpenState) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	reRange   = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)
	reDaySpec = regexp.MustCompile(`\b(mo|tu|we|th|fr|sa|su)(?:\s*-\s*(mo|tu|we|th|fr|sa|su))?\b`)
	reWhen    = regexp.MustCompile(`^(?:(mon|tue|wed|thu|fri|sat|sun)\s+)?(\d{1,2}):(\d{2})$`)
)

var dayIndex = map[string]int{"mo": 0, "tu": 1, "we": 2, "th": 3, "fr": 4, "sa": 5, "su": 6}

// CheckOpen evaluates OSM-style hours ("Mo-Fr 11:00-22:00; Sa 10:00-23:00",
// "daily 17:00-02:00", "24/7") for a visit starting at when ("Tue 20:00" or
// "20:00") and lasting durationMin. Without a day in when, any day's
// schedule may satisfy it. The whole visit must fit inside one open range;
// ranges whose close is not after their open run past midnight.
func CheckOpen(hours, when string, durationMin int) OpenState {
	h := strings.ToLower(strings.TrimSpace(hours))
	if h == "" {
		return OpenUnknown
	}
	m := reWhen.FindStringSubmatch(strings.ToLower(strings.TrimSpace(when)))
	if m == nil {
		return OpenUnknown
	}
	if h == "24/7" {
		return Open
	}

	day := -1
	if m[1] != "" {
		day = dayIndex[m[1][:2]]
	}
	hh, _ := strconv.Atoi(m[2])
	mm, _ := strconv.Atoi(m[3])
	start := hh*60 + mm
	end := start + max(durationMin, 0)

	prev := -1
	if day >= 0 {
		prev = (day + 6) % 7
	}
	evaluated := false
	for _, seg := range strings.Split(h, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		days, hasDays := segmentDays(seg)
		today := day < 0 || !hasDays || days[day]
		// A range past midnight on the previous day still covers early hours.
		yesterday := day < 0 || !hasDays || days[prev]
		if !today && !yesterday {
			continue
		}
		if strings.Contains(seg, "off") || strings.Contains(seg, "closed") {
			if today {
				evaluated = true
			}
			continue
		}
		for _, r := range reRange.FindAllStringSubmatch(seg, -1) {
			open := clock(r[1], r[2])
			closeAt := clock(r[3], r[4])
			if closeAt <= open {
				closeAt += 24 * 60
			}
			if today {
				evaluated = true
				if start >= open && end <= closeAt {
					return Open
				}
			}
			if yesterday && start+24*60 < closeAt {
				evaluated = true
				if start+24*60 >= open && end+24*60 <= closeAt {
					return Open
				}
			}
		}
	}
	if evaluated {
		return Closed
	}
	return OpenUnknown
}

// segmentDays returns the weekdays named before the first time in seg.
// "daily", "every day" or no day tokens at all mean every day.
func segmentDays(seg string) (days [7]bool, hasDays bool) {
	head := seg
	if i := strings.IndexAny(seg, "0123456789"); i >= 0 {
		head = seg[:i]
	}
	if strings.Contains(head, "daily") || strings.Contains(head, "every day") {
		return days, false
	}
	for _, m := range reDaySpec.FindAllStringSubmatch(head, -1) {
		hasDays = true
		from := dayIndex[m[1]]
		to := from
		if m[2] != "" {
			to = dayIndex[m[2]]
		}
		for d := from; ; d = (d + 1) % 7 {
			days[d] = true
			if d == to {
				break
			}
		}
	}
	return days, hasDays
}

func clock(h, m string) int {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	return hh*60 + mm
}
