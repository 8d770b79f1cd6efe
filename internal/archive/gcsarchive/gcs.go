// Package gcsarchive implements a Google Cloud Storage archive.
package gcsarchive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/discochess/alphabeta/internal/archive"
	"github.com/discochess/alphabeta/internal/codec"
)

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// Store keeps one compressed PGN object per game in a GCS bucket.
type Store struct {
	client     *storage.Client
	bucket     *storage.BucketHandle
	prefix     string
	codec      codec.Codec
	clientOpts []option.ClientOption
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// WithClientOptions passes options to the storage client, e.g. an emulator
// endpoint together with option.WithoutAuthentication.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(s *Store) {
		s.clientOpts = append(s.clientOpts, opts...)
	}
}

// New creates a GCS archive. The bucket must already exist.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	s := &Store{codec: c}
	for _, opt := range opts {
		opt(s)
	}

	client, err := storage.NewClient(ctx, s.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}
	s.client = client
	s.bucket = client.Bucket(bucketName)
	return s, nil
}

// Put compresses pgn and uploads it.
func (s *Store) Put(ctx context.Context, id string, pgn []byte) error {
	if err := archive.ValidateID(id); err != nil {
		return err
	}

	data, err := s.codec.Compress(pgn)
	if err != nil {
		return fmt.Errorf("compressing game %s: %w", id, err)
	}

	w := s.bucket.Object(s.objectKey(id)).NewWriter(ctx)
	w.ContentType = "application/x-chess-pgn"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("uploading game %s: %w", id, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("uploading game %s: %w", id, err)
	}
	return nil
}

// Get downloads and decompresses a game.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if archive.ValidateID(id) != nil {
		return nil, archive.ErrNotFound
	}

	r, err := s.bucket.Object(s.objectKey(id)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, archive.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("downloading game %s: %w", id, err)
	}

	pgn, err := s.codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompressing game %s: %w", id, err)
	}
	return pgn, nil
}

// List returns the IDs of all games under the prefix.
func (s *Store) List(ctx context.Context) ([]string, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: s.dirKey()})

	var ids []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing games: %w", err)
		}
		if id, ok := s.idFromKey(attrs.Name); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// dirKey returns the key prefix shared by all games.
func (s *Store) dirKey() string {
	return s.prefix + archive.Dir + "/"
}

// objectKey returns the full object key for a game.
func (s *Store) objectKey(id string) string {
	return s.dirKey() + archive.FileName(id, s.codec.Extension())
}

func (s *Store) idFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, s.dirKey())
	if !ok || strings.Contains(rest, "/") {
		return "", false
	}
	return archive.IDFromFileName(rest, s.codec.Extension())
}
