// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package services

import (
	"context"
	"time"

	"github.com/tomtom215/tablescout/internal/logging"
)

// ExpiryCleaner drops expired entries and reports how many it removed.
// session.MemoryStore implements it.
type ExpiryCleaner interface {
	CleanupExpired() int
}

// SessionJanitor periodically evicts expired sessions from an in-process
// store. Badger expires keys itself and needs no janitor.
type SessionJanitor struct {
	store    ExpiryCleaner
	interval time.Duration
}

// NewSessionJanitor creates a janitor running every interval (default 1m).
func NewSessionJanitor(store ExpiryCleaner, interval time.Duration) *SessionJanitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionJanitor{store: store, interval: interval}
}

// Serve implements suture.Service.
func (j *SessionJanitor) Serve(ctx context.Context) error {
	logger := logging.WithComponent("session")
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := j.store.CleanupExpired(); n > 0 {
				logger.Debug().Int("removed", n).Msg("Expired sessions evicted")
			}
		}
	}
}

// String implements fmt.Stringer.
func (j *SessionJanitor) String() string {
	return "session-janitor"
}
