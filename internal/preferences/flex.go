// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package preferences

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// flexFloat accepts a number, a numeric string ("40", "$40") or null.
// Anything else leaves it unset rather than failing the whole decode.
type flexFloat struct {
	value float64
	set   bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		f.value, f.set = t, true
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "$"))
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			f.value, f.set = n, true
		}
	}
	return nil
}

// flexBool accepts a bool, "true"/"yes"/"false"/"no", a number or null.
type flexBool struct {
	value bool
	set   bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		b.value, b.set = t, true
	case float64:
		b.value, b.set = t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			b.value, b.set = true, true
		case "false", "no", "0":
			b.value, b.set = false, true
		}
	}
	return nil
}

// flexStrings accepts a list, a single comma-separated string or null.
// Non-string list items are skipped.
type flexStrings []string

func (s *flexStrings) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var out []string
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	*s = out
	return nil
}
