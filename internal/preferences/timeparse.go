// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package preferences

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tomtom215/tablescout/internal/taxonomy"
)

var weekdays = []struct{ name, abbr string }{
	{"monday", "Mon"},
	{"tuesday", "Tue"},
	{"wednesday", "Wed"},
	{"thursday", "Thu"},
	{"friday", "Fri"},
	{"saturday", "Sat"},
	{"sunday", "Sun"},
}

var (
	reClock       = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	reOClock      = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*o'?clock(?:\s*(am|pm)\b)?`)
	reClock24     = regexp.MustCompile(`\b(?:at|by|around)\s+(\d{1,2}):(\d{2})\b`)
	reAfterCue    = regexp.MustCompile(`after|ends?|finish(?:es)?|gets out|wraps up`)
	reAfterStart  = regexp.MustCompile(`\bafter\s+\d|\bends?\s+at\b`)
	reDurationMin = regexp.MustCompile(`\bfor\s*(\d{1,3})\s*(?:minutes|mins?)\b`)
	reDurationHr  = regexp.MustCompile(`\bfor\s*(\d(?:\.\d)?)\s*(?:hours?|hrs?)\b`)
	reOpenUntil   = regexp.MustCompile(`\bopen\s+(?:until|till|til|through)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	reOpenLate    = regexp.MustCompile(`\bopen\s+late\b`)
	reFlexible    = regexp.MustCompile(`\b(?:flexible|if possible|preferably|ideally)\b`)
)

// Dining-time tuning, in minutes.
const (
	afterEventBufferMin = 15
	afterEventMinDur    = 75
	minDurationMin      = 30
	maxOpenSpanMin      = 180
	lateStartMin        = 20*60 + 15
	openLateCloseMin    = 22 * 60
	openUntilLeadMin    = 120
)

// diningTime is the extracted visit window.
type diningTime struct {
	token       string // "Tue 20:00", "20:00" or ""
	durationMin int    // 0 when not stated
	flexible    bool
}

// extractDiningTime reads day, start time, duration and closing-time
// requirements from lower-cased text.
func extractDiningTime(lower string) diningTime {
	var out diningTime
	out.flexible = reFlexible.MatchString(lower)

	day := ""
	for _, d := range weekdays {
		if taxonomy.ContainsWord(lower, d.name) {
			day = d.abbr
			break
		}
	}

	// "open until 11pm" is a closing requirement, not a start time.
	closeAt := -1
	if m := reOpenUntil.FindStringSubmatch(lower); m != nil {
		closeAt = clockMinutes(m[1], m[2], m[3], true)
		lower = reOpenUntil.ReplaceAllString(lower, " ")
	} else if reOpenLate.MatchString(lower) {
		closeAt = openLateCloseMin
	}
	if closeAt >= 0 && closeAt < 12*60 {
		closeAt += 24 * 60 // past midnight
	}

	start := -1
	afterEvent := false
	for _, re := range []*regexp.Regexp{reClock, reOClock} {
		if loc := re.FindStringSubmatchIndex(lower); loc != nil {
			start = clockMinutes(group(lower, loc, 1), group(lower, loc, 2), group(lower, loc, 3), true)
			ctxStart := loc[0] - 25
			if ctxStart < 0 {
				ctxStart = 0
			}
			afterEvent = reAfterCue.MatchString(lower[ctxStart:loc[0]])
			break
		}
	}
	if start < 0 {
		if m := reClock24.FindStringSubmatch(lower); m != nil {
			start = clockMinutes(m[1], m[2], "", false)
		}
	}
	if afterEvent && start >= 0 {
		start += afterEventBufferMin
	}

	if m := reDurationMin.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out.durationMin = max(n, minDurationMin)
		}
	} else if m := reDurationHr.FindStringSubmatch(lower); m != nil {
		if h, err := strconv.ParseFloat(m[1], 64); err == nil {
			out.durationMin = max(int(h*60), minDurationMin)
		}
	}
	if afterEvent || reAfterStart.MatchString(lower) {
		out.durationMin = max(out.durationMin, afterEventMinDur)
	}

	if closeAt >= 0 {
		if start < 0 {
			start = max(lateStartMin, closeAt-openUntilLeadMin)
		}
		if span := closeAt - start; span > 0 {
			out.durationMin = max(out.durationMin, min(maxOpenSpanMin, span))
		}
	}

	if start >= 0 {
		start %= 24 * 60
		out.token = fmt.Sprintf("%02d:%02d", start/60, start%60)
		if day != "" {
			out.token = day + " " + out.token
		}
	}
	return out
}

// clockMinutes converts hour, minute and an optional am/pm marker to
// minutes after midnight. Without a marker, hours 1-11 are read as evening
// when assumePM is set. Invalid input yields -1.
func clockMinutes(hour, minute, ampm string, assumePM bool) int {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return -1
	}
	m := 0
	if minute != "" {
		if m, err = strconv.Atoi(minute); err != nil || m > 59 {
			return -1
		}
	}
	switch ampm {
	case "am":
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 12 {
			h += 12
		}
	default:
		if assumePM && h >= 1 && h < 12 {
			h += 12
		}
	}
	if h > 23 {
		return -1
	}
	return h*60 + m
}

func group(s string, loc []int, i int) string {
	if loc[2*i] < 0 {
		return ""
	}
	return s[loc[2*i]:loc[2*i+1]]
}

// canonicalDiningTime validates and reformats an externally supplied token
// ("tuesday 8:00", "Tue 20:00", "20:00") into "Tue 20:00" form.
func canonicalDiningTime(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) == 0 || len(fields) > 2 {
		return ""
	}
	day := ""
	if len(fields) == 2 {
		for _, d := range weekdays {
			if strings.HasPrefix(d.name, fields[0]) && len(fields[0]) >= 3 {
				day = d.abbr
			}
		}
		if day == "" {
			return ""
		}
	}
	hm := strings.SplitN(fields[len(fields)-1], ":", 2)
	if len(hm) != 2 {
		return ""
	}
	mins := clockMinutes(hm[0], hm[1], "", false)
	if mins < 0 {
		return ""
	}
	out := fmt.Sprintf("%02d:%02d", mins/60, mins%60)
	if day != "" {
		out = day + " " + out
	}
	return out
}
