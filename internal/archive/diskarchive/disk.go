// Package diskarchive implements a filesystem archive.
package diskarchive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/discochess/alphabeta/internal/archive"
	"github.com/discochess/alphabeta/internal/codec"
)

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// Store keeps one compressed PGN file per game under <root>/games.
type Store struct {
	root  string
	codec codec.Codec
}

// New creates a disk archive rooted at the given directory.
// The directory must exist; the games directory is created on demand.
func New(root string, c codec.Codec) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &Store{
		root:  root,
		codec: c,
	}, nil
}

// Put compresses pgn and writes it atomically.
func (s *Store) Put(ctx context.Context, id string, pgn []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := archive.ValidateID(id); err != nil {
		return err
	}

	data, err := s.codec.Compress(pgn)
	if err != nil {
		return fmt.Errorf("compressing game %s: %w", id, err)
	}

	dir := filepath.Join(s.root, archive.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating games directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing game %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing game %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		return fmt.Errorf("renaming game %s: %w", id, err)
	}
	return nil
}

// Get reads and decompresses a game.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if archive.ValidateID(id) != nil {
		return nil, archive.ErrNotFound
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, archive.ErrNotFound
		}
		return nil, fmt.Errorf("reading game %s: %w", id, err)
	}

	pgn, err := s.codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompressing game %s: %w", id, err)
	}
	return pgn, nil
}

// List returns the IDs of the games stored with this store's codec.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.root, archive.Dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing games: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := archive.IDFromFileName(e.Name(), s.codec.Extension()); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.root, archive.Dir, archive.FileName(id, s.codec.Extension()))
}
