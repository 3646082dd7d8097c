// Package compress centralizes snapshot payload compression.
//
// Snapshot containers record the compressor name in their header, so a
// model persisted with one compressor is always decompressed with the
// matching implementation on load.
package compress

import "fmt"

// Compressor compresses and decompresses snapshot payloads.
// Implementations must be safe for concurrent use.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// ByName returns a built-in compressor by its stable name.
func ByName(name string) (Compressor, bool) {
	switch name {
	case "none":
		return None{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// None is the identity compressor.
type None struct{}

// Compress returns the input unchanged.
func (None) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns the input unchanged.
func (None) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name returns the unique name of the compressor ("none").
func (None) Name() string { return "none" }

// MustCompress is a helper for internal tests.
func MustCompress(c Compressor, data []byte) []byte {
	if c == nil {
		c = None{}
	}
	b, err := c.Compress(data)
	if err != nil {
		panic(fmt.Errorf("compressor %s failed: %w", c.Name(), err))
	}
	return b
}
