// Package archiveurl opens an archive.Store from a location string.
package archiveurl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/discochess/alphabeta/internal/archive"
	"github.com/discochess/alphabeta/internal/archive/badgerarchive"
	"github.com/discochess/alphabeta/internal/archive/diskarchive"
	"github.com/discochess/alphabeta/internal/archive/gcsarchive"
	"github.com/discochess/alphabeta/internal/archive/memarchive"
	"github.com/discochess/alphabeta/internal/archive/s3archive"
	"github.com/discochess/alphabeta/internal/codec"
	"github.com/discochess/alphabeta/internal/codec/gzipcodec"
	"github.com/discochess/alphabeta/internal/codec/noopcodec"
	"github.com/discochess/alphabeta/internal/codec/zstdcodec"
)

var (
	// ErrUnknownCodec indicates a compression name Codec does not know.
	ErrUnknownCodec = errors.New("archiveurl: unknown codec")

	// ErrInvalidLocation indicates a location Open cannot parse.
	ErrInvalidLocation = errors.New("archiveurl: invalid location")
)

// Codec returns the codec for a compression name: "zstd", "gzip" or "none".
func Codec(name string) (codec.Codec, error) {
	switch strings.ToLower(name) {
	case "zstd", "zst":
		return zstdcodec.New(zstd.SpeedDefault)
	case "gzip", "gz":
		return gzipcodec.New(), nil
	case "none", "":
		return noopcodec.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Open returns the store for location:
//
//	mem://                                  in-memory, lost on exit
//	badger:///some/dir                      embedded Badger database
//	gs://bucket/prefix                      Google Cloud Storage
//	s3://bucket/prefix?region=r&endpoint=e  S3 or an S3-compatible service
//	/some/dir, file:///some/dir             local directory, created if missing
func Open(ctx context.Context, location string, c codec.Codec) (archive.Store, error) {
	if !strings.Contains(location, "://") {
		return openDir(location, c)
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	prefix := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case "mem":
		return memarchive.New(), nil
	case "file":
		return openDir(u.Path, c)
	case "badger":
		dir := u.Host + u.Path
		if dir == "" {
			return nil, fmt.Errorf("%w: missing directory in %q", ErrInvalidLocation, location)
		}
		return badgerarchive.New(dir, c)
	case "gs":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: missing bucket in %q", ErrInvalidLocation, location)
		}
		return gcsarchive.New(ctx, u.Host, c, gcsarchive.WithPrefix(prefix))
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: missing bucket in %q", ErrInvalidLocation, location)
		}
		opts := []s3archive.Option{s3archive.WithPrefix(prefix)}
		q := u.Query()
		if r := q.Get("region"); r != "" {
			opts = append(opts, s3archive.WithRegion(r))
		}
		if e := q.Get("endpoint"); e != "" {
			opts = append(opts, s3archive.WithEndpoint(e))
		}
		return s3archive.New(ctx, u.Host, c, opts...)
	}
	return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocation, u.Scheme)
}

func openDir(dir string, c codec.Codec) (archive.Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty directory", ErrInvalidLocation)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return diskarchive.New(dir, c)
}
