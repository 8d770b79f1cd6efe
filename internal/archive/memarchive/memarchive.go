// Package memarchive provides an in-memory archive for tests and dry runs.
package memarchive

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/discochess/alphabeta/internal/archive"
)

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// Store keeps PGN records in memory.
type Store struct {
	mu    sync.RWMutex
	games map[string][]byte
}

// New creates an empty in-memory archive.
func New() *Store {
	return &Store{
		games: make(map[string][]byte),
	}
}

// Put stores a copy of pgn.
func (s *Store) Put(ctx context.Context, id string, pgn []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := archive.ValidateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = bytes.Clone(pgn)
	return nil
}

// Get returns a copy of the stored record.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pgn, ok := s.games[id]
	if !ok {
		return nil, archive.ErrNotFound
	}
	return bytes.Clone(pgn), nil
}

// List returns the stored IDs in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
