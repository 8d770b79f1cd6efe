// Package s3archive implements an AWS S3 archive.
package s3archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/discochess/alphabeta/internal/archive"
	"github.com/discochess/alphabeta/internal/codec"
)

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// API is the subset of the S3 client used by Store.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// Compile-time check that the SDK client satisfies API.
var _ API = (*s3.Client)(nil)

// Store keeps one compressed PGN object per game in an S3 bucket.
type Store struct {
	client API
	bucket string
	prefix string
	codec  codec.Codec

	region     string
	endpoint   string
	accessKey  string
	secretKey  string
	configured bool
}

// Option configures a Store.
type Option func(*Store) error

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) error {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
		return nil
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *Store) error {
		s.region = region
		return nil
	}
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like
// MinIO). Path-style addressing is used.
func WithEndpoint(endpoint string) Option {
	return func(s *Store) error {
		s.endpoint = endpoint
		return nil
	}
}

// WithStaticCredentials uses fixed credentials instead of the default
// credential chain.
func WithStaticCredentials(accessKey, secretKey string) Option {
	return func(s *Store) error {
		if accessKey == "" || secretKey == "" {
			return errors.New("s3archive: empty static credentials")
		}
		s.accessKey = accessKey
		s.secretKey = secretKey
		return nil
	}
}

// WithClient uses an existing client. Region, endpoint and credential
// options are ignored.
func WithClient(c API) Option {
	return func(s *Store) error {
		s.client = c
		s.configured = true
		return nil
	}
}

// New creates an S3 archive. The bucket must already exist.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	s := &Store{
		bucket: bucketName,
		codec:  c,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.configured {
		return s, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if s.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.region))
	}
	if s.accessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.accessKey, s.secretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
			o.UsePathStyle = true
		}
	})
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

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/x-chess-pgn"),
	})
	if err != nil {
		return fmt.Errorf("uploading game %s: %w", id, err)
	}
	return nil
}

// Get downloads and decompresses a game.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if archive.ValidateID(id) != nil {
		return nil, archive.ErrNotFound
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(id)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, archive.ErrNotFound
		}
		return nil, fmt.Errorf("downloading game %s: %w", id, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
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
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.dirKey()),
	})

	var ids []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing games: %w", err)
		}
		for _, obj := range page.Contents {
			if id, ok := s.idFromKey(aws.ToString(obj.Key)); ok {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// S3 client doesn't need explicit closing.
	return nil
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
