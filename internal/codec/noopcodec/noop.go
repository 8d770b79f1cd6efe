// Package noopcodec provides a no-op codec (no compression).
package noopcodec

import (
	"bytes"

	"github.com/discochess/alphabeta/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec stores data as is.
type Codec struct{}

// New returns a new no-op codec.
func New() *Codec {
	return &Codec{}
}

// Compress returns a copy of data.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

// Decompress returns a copy of data.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

// Extension returns empty string.
func (c *Codec) Extension() string {
	return ""
}
