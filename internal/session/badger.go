// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/tablescout/internal/metrics"
	"github.com/tomtom215/tablescout/internal/models"
)

const turnsKeyPrefix = "turns:"

// BadgerStore keeps sessions in an in-memory BadgerDB. Expiry uses Badger's
// entry TTL, refreshed on every append.
type BadgerStore struct {
	cfg   Config
	db    *badger.DB
	locks keyLocks
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore opens an in-memory BadgerDB.
func NewBadgerStore(cfg Config) (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	return &BadgerStore{cfg: cfg.withDefaults(), db: db}, nil
}

func turnsKey(id string) []byte {
	return []byte(turnsKeyPrefix + id)
}

// GetHistory implements Store.
func (s *BadgerStore) GetHistory(_ context.Context, id string) (turns []models.SessionTurn, err error) {
	defer func() { metrics.RecordSessionOp(string(BackendBadger), "get", err) }()
	if err := validateID(id); err != nil {
		return nil, err
	}
	err = s.db.View(func(txn *badger.Txn) error {
		turns, err = readTurns(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return turns, nil
}

// Append implements Store.
func (s *BadgerStore) Append(_ context.Context, id string, turn models.SessionTurn) (err error) {
	defer func() { metrics.RecordSessionOp(string(BackendBadger), "append", err) }()
	if err := validateID(id); err != nil {
		return err
	}
	unlock := s.locks.lock(id)
	defer unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		turns, err := readTurns(txn, id)
		if err != nil {
			return err
		}
		data, err := json.Marshal(trim(append(turns, turn), s.cfg.MaxTurns))
		if err != nil {
			return fmt.Errorf("marshal session turns: %w", err)
		}
		return txn.SetEntry(badger.NewEntry(turnsKey(id), data).WithTTL(s.cfg.TTL))
	})
}

// Reset implements Store.
func (s *BadgerStore) Reset(_ context.Context, id string) (err error) {
	defer func() { metrics.RecordSessionOp(string(BackendBadger), "reset", err) }()
	if err := validateID(id); err != nil {
		return err
	}
	unlock := s.locks.lock(id)
	defer unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(turnsKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func readTurns(txn *badger.Txn, id string) ([]models.SessionTurn, error) {
	item, err := txn.Get(turnsKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var turns []models.SessionTurn
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &turns)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal session turns: %w", err)
	}
	return turns, nil
}
