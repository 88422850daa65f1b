// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Topics.
const (
	TopicStarted   = "recommendation.started"
	TopicCompleted = "recommendation.completed"
	TopicFailed    = "recommendation.failed"
)

// Topics lists every lifecycle topic.
var Topics = []string{TopicStarted, TopicCompleted, TopicFailed}

// Event describes one stage of a recommendation request.
type Event struct {
	Topic      string    `json:"topic"`
	RequestID  string    `json:"request_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	Mode       string    `json:"mode"` // batch, stream
	Query      string    `json:"query,omitempty"`
	City       string    `json:"city,omitempty"`
	Area       string    `json:"area,omitempty"`
	Candidates int       `json:"candidates,omitempty"`
	Strict     int       `json:"strict,omitempty"`
	Relaxed    int       `json:"relaxed,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher accepts lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop discards events.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) {}

func encode(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return data, nil
}

func decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return e, nil
}
