// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package models

import "time"

// SessionTurn is the only state kept between requests of a conversation.
type SessionTurn struct {
	Query       string            `json:"query"`
	Preferences *PreferenceRecord `json:"preferences,omitempty"`
	Center      *LatLon           `json:"center,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// LastPreferences returns the most recent turn's preferences, or nil.
func LastPreferences(history []SessionTurn) *PreferenceRecord {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Preferences != nil {
			return history[i].Preferences
		}
	}
	return nil
}

// LastCenter returns the most recent resolved center, or nil.
func LastCenter(history []SessionTurn) *LatLon {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Center != nil {
			c := *history[i].Center
			return &c
		}
	}
	return nil
}
