// Package badgerarchive implements an archive in an embedded Badger
// key-value database.
package badgerarchive

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/discochess/alphabeta/internal/archive"
	"github.com/discochess/alphabeta/internal/codec"
)

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// Store keeps compressed PGN records under the key games/<file name>.
type Store struct {
	db    *badger.DB
	codec codec.Codec
}

// Option configures a Store.
type Option func(*badger.Options)

// InMemory keeps the database in memory only. The directory is ignored.
func InMemory() Option {
	return func(o *badger.Options) {
		*o = o.WithInMemory(true).WithDir("").WithValueDir("")
	}
}

// New opens or creates the database in dir.
func New(dir string, c codec.Codec, opts ...Option) (*Store, error) {
	o := badger.DefaultOptions(dir).WithLogger(nil)
	for _, opt := range opts {
		opt(&o)
	}

	db, err := badger.Open(o)
	if err != nil {
		return nil, fmt.Errorf("opening badger database %s: %w", dir, err)
	}
	return &Store{db: db, codec: c}, nil
}

// Put compresses pgn and stores it.
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

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(id), data)
	})
	if err != nil {
		return fmt.Errorf("writing game %s: %w", id, err)
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

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, archive.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading game %s: %w", id, err)
	}

	pgn, err := s.codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompressing game %s: %w", id, err)
	}
	return pgn, nil
}

// List returns the IDs of the games stored with this store's codec.
// Badger iterates keys in byte order, so IDs come out sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(archive.Dir + "/")
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := string(it.Item().Key()[len(prefix):])
			if id, ok := archive.IDFromFileName(name, s.codec.Extension()); ok {
				ids = append(ids, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	return ids, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) key(id string) []byte {
	return []byte(archive.Dir + "/" + archive.FileName(id, s.codec.Extension()))
}
