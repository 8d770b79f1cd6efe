// Package codec compresses archived game records.
package codec

// Codec compresses and decompresses whole blobs.
// Implementations are safe for concurrent use.
type Codec interface {
	// Compress returns the compressed form of data.
	Compress(data []byte) ([]byte, error)
	// Decompress reverses Compress.
	Decompress(data []byte) ([]byte, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}
