// Package archive stores finished games as PGN records.
package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a game does not exist in the archive.
	ErrNotFound = errors.New("archive: game not found")

	// ErrInvalidID is returned for IDs that cannot be used as object names.
	ErrInvalidID = errors.New("archive: invalid game id")
)

// Store defines the interface for archive backends.
// Implementations handle key formats and compression internally.
type Store interface {
	// Put stores the PGN record of a game, replacing any previous record.
	Put(ctx context.Context, id string, pgn []byte) error

	// Get returns the PGN record of a game.
	Get(ctx context.Context, id string) ([]byte, error)

	// List returns the IDs of all stored games in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// Dir is the directory, or key segment, games are stored under.
const Dir = "games"

// NewID returns an ID for a game finished at t.
// IDs of later games sort after IDs of earlier ones.
func NewID(t time.Time) string {
	return t.UTC().Format("20060102T150405.000000000Z")
}

// ValidateID reports whether id is usable as a file or object name.
func ValidateID(id string) error {
	if id == "" || id[0] == '.' {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}

// FileName returns the name a game is stored under, e.g. "<id>.pgn.zst".
func FileName(id, ext string) string {
	name := id + ".pgn"
	if ext != "" {
		name += "." + ext
	}
	return name
}

// IDFromFileName reverses FileName. It reports false for names that do not
// belong to the archive.
func IDFromFileName(name, ext string) (string, bool) {
	suffix := ".pgn"
	if ext != "" {
		suffix += "." + ext
	}
	id, ok := strings.CutSuffix(name, suffix)
	if !ok || ValidateID(id) != nil {
		return "", false
	}
	return id, true
}
