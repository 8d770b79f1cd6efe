package gcsarchive

import (
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/discochess/alphabeta/internal/codec/noopcodec"
	"github.com/discochess/alphabeta/internal/codec/zstdcodec"
)

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
		{"a/b/c/", "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := &Store{}
			WithPrefix(tt.input)(s)
			if s.prefix != tt.want {
				t.Errorf("prefix = %q, want %q", s.prefix, tt.want)
			}
		})
	}
}

func TestStore_objectKey(t *testing.T) {
	zc, err := zstdcodec.New(zstd.SpeedDefault)
	if err != nil {
		t.Fatalf("zstdcodec.New() error = %v", err)
	}

	tests := []struct {
		name string
		s    *Store
		want string
	}{
		{name: "zstd", s: &Store{codec: zc}, want: "games/g1.pgn.zst"},
		{name: "zstd with prefix", s: &Store{codec: zc, prefix: "runs/v1/"}, want: "runs/v1/games/g1.pgn.zst"},
		{name: "uncompressed", s: &Store{codec: noopcodec.New()}, want: "games/g1.pgn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.s.objectKey("g1")
			if got != tt.want {
				t.Errorf("objectKey() = %q, want %q", got, tt.want)
			}
			if id, ok := tt.s.idFromKey(got); !ok || id != "g1" {
				t.Errorf("idFromKey(%q) = %q, %v", got, id, ok)
			}
		})
	}
}

func TestStore_idFromKey_Foreign(t *testing.T) {
	s := &Store{codec: noopcodec.New(), prefix: "runs/"}

	for _, key := range []string{
		"games/g1.pgn",
		"runs/games/nested/g1.pgn",
		"runs/games/g1.pgn.zst",
		"runs/other/g1.pgn",
	} {
		if id, ok := s.idFromKey(key); ok {
			t.Errorf("idFromKey(%q) = %q, want no match", key, id)
		}
	}
}
