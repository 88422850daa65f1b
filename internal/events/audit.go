// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package events

import (
	"context"
	"sync"

	"github.com/tomtom215/tablescout/internal/logging"
)

// DefaultAuditSize is how many events the audit log retains.
const DefaultAuditSize = 200

// Audit logs every lifecycle event and keeps the most recent ones.
type Audit struct {
	mu     sync.Mutex
	size   int
	events []Event
}

// NewAudit creates an audit log retaining up to size events.
func NewAudit(size int) *Audit {
	if size <= 0 {
		size = DefaultAuditSize
	}
	return &Audit{size: size}
}

// Register subscribes the audit log to every lifecycle topic.
func (a *Audit) Register(b *Bus) {
	for _, topic := range Topics {
		b.Subscribe("audit."+topic, topic, a.Handle)
	}
}

// Handle records one event.
func (a *Audit) Handle(ctx context.Context, e Event) error {
	ev := logging.Ctx(ctx).Info()
	if e.Topic == TopicFailed {
		ev = logging.Ctx(ctx).Warn()
	}
	ev.Str("component", "audit").
		Str("topic", e.Topic).
		Str("request_id", e.RequestID).
		Str("mode", e.Mode).
		Str("city", e.City).
		Int("candidates", e.Candidates).
		Int64("duration_ms", e.DurationMS).
		Str("error", e.Error).
		Msg("Recommendation lifecycle")

	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
	if len(a.events) > a.size {
		a.events = append(a.events[:0:0], a.events[len(a.events)-a.size:]...)
	}
	return nil
}

// Recent returns retained events, oldest first.
func (a *Audit) Recent() []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Event, len(a.events))
	copy(out, a.events)
	return out
}
