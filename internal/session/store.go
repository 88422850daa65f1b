// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package session keeps the short conversational history that lets a
// follow-up request ("cheaper", "closer") inherit earlier preferences.
//
// Only derived SessionTurns are stored; no search or scoring results are
// cached across requests. Both backends serialize writes per session key and
// never hold a lock across sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/tablescout/internal/models"
)

// Backend names a session storage implementation.
type Backend string

const (
	// BackendMemory keeps sessions in a Go map.
	BackendMemory Backend = "memory"

	// BackendBadger keeps sessions in an in-memory BadgerDB.
	BackendBadger Backend = "badger"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultMaxTurns = 10
	DefaultTTL      = 2 * time.Hour
)

// ErrInvalidID is returned for empty or oversized session IDs.
var ErrInvalidID = errors.New("invalid session id")

const maxIDLength = 128

// Store holds the turns of each session, oldest first.
type Store interface {
	// GetHistory returns the retained turns, or nil for an unknown or
	// expired session.
	GetHistory(ctx context.Context, id string) ([]models.SessionTurn, error)
	// Append adds a turn, dropping the oldest beyond the turn limit.
	Append(ctx context.Context, id string, turn models.SessionTurn) error
	// Reset forgets a session. Unknown IDs are a no-op.
	Reset(ctx context.Context, id string) error
	// Close releases backend resources.
	Close() error
}

// Config selects and tunes a Store.
type Config struct {
	Backend  Backend
	MaxTurns int
	TTL      time.Duration
}

func (c Config) withDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	return c
}

// New creates the store named by cfg.Backend.
func New(cfg Config) (Store, error) {
	cfg = cfg.withDefaults()
	switch Backend(strings.ToLower(string(cfg.Backend))) {
	case BackendMemory:
		return NewMemoryStore(cfg), nil
	case BackendBadger:
		return NewBadgerStore(cfg)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > maxIDLength {
		return ErrInvalidID
	}
	return nil
}

// trim keeps the newest max turns.
func trim(turns []models.SessionTurn, max int) []models.SessionTurn {
	if len(turns) <= max {
		return turns
	}
	out := make([]models.SessionTurn, max)
	copy(out, turns[len(turns)-max:])
	return out
}

// keyLocks serializes work per key with a fixed set of striped mutexes.
type keyLocks struct {
	stripes [64]sync.Mutex
}

func (k *keyLocks) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &k.stripes[h.Sum32()%uint32(len(k.stripes))]
	m.Lock()
	return m.Unlock
}
