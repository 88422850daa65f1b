// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package session

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
)

// MemoryStore keeps sessions in process memory. Entries are found through a
// sync.Map and guarded by their own mutex.
type MemoryStore struct {
	cfg      Config
	sessions sync.Map // id -> *memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	mu        sync.Mutex
	turns     []models.SessionTurn
	expiresAt time.Time
	removed   bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(cfg Config) *MemoryStore {
	return &MemoryStore{cfg: cfg.withDefaults(), now: time.Now}
}

// GetHistory implements Store.
func (s *MemoryStore) GetHistory(_ context.Context, id string) (turns []models.SessionTurn, err error) {
	defer func() { metrics.RecordSessionOp(string(BackendMemory), "get", err) }()
	if err := validateID(id); err != nil {
		return nil, err
	}
	v, ok := s.sessions.Load(id)
	if !ok {
		return nil, nil
	}
	e := v.(*memoryEntry)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed || s.now().After(e.expiresAt) {
		return nil, nil
	}
	out := make([]models.SessionTurn, len(e.turns))
	copy(out, e.turns)
	return out, nil
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, id string, turn models.SessionTurn) (err error) {
	defer func() { metrics.RecordSessionOp(string(BackendMemory), "append", err) }()
	if err := validateID(id); err != nil {
		return err
	}
	for {
		v, _ := s.sessions.LoadOrStore(id, &memoryEntry{})
		e := v.(*memoryEntry)
		e.mu.Lock()
		if e.removed {
			// Lost a race with Reset; retry against a fresh entry.
			e.mu.Unlock()
			continue
		}
		now := s.now()
		if now.After(e.expiresAt) {
			e.turns = nil
		}
		e.turns = trim(append(e.turns, turn), s.cfg.MaxTurns)
		e.expiresAt = now.Add(s.cfg.TTL)
		e.mu.Unlock()
		return nil
	}
}

// Reset implements Store.
func (s *MemoryStore) Reset(_ context.Context, id string) (err error) {
	defer func() { metrics.RecordSessionOp(string(BackendMemory), "reset", err) }()
	if err := validateID(id); err != nil {
		return err
	}
	v, ok := s.sessions.LoadAndDelete(id)
	if !ok {
		return nil
	}
	e := v.(*memoryEntry)
	e.mu.Lock()
	e.removed = true
	e.turns = nil
	e.mu.Unlock()
	return nil
}

// CleanupExpired drops expired sessions and returns how many were removed.
func (s *MemoryStore) CleanupExpired() int {
	now := s.now()
	removed := 0
	s.sessions.Range(func(key, v any) bool {
		e := v.(*memoryEntry)
		e.mu.Lock()
		if now.After(e.expiresAt) && !e.removed {
			e.removed = true
			s.sessions.CompareAndDelete(key, v)
			removed++
		}
		e.mu.Unlock()
		return true
	})
	return removed
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
