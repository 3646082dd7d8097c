package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressors(t *testing.T) {
	compressors := []Compressor{None{}, Zstd{}, LZ4{}}

	in := bytes.Repeat([]byte(`{"alpha":[0.125,0.25,0.5],"beta":400.0}`), 64)

	for _, c := range compressors {
		t.Run(c.Name(), func(t *testing.T) {
			compressed, err := c.Compress(in)
			require.NoError(t, err)

			out, err := c.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestCompressionReducesRepetitiveData(t *testing.T) {
	in := bytes.Repeat([]byte("0.000001,"), 4096)

	for _, c := range []Compressor{Zstd{}, LZ4{}} {
		t.Run(c.Name(), func(t *testing.T) {
			compressed, err := c.Compress(in)
			require.NoError(t, err)
			assert.Less(t, len(compressed), len(in))
		})
	}
}

func TestDecompress_Garbage(t *testing.T) {
	for _, c := range []Compressor{Zstd{}, LZ4{}} {
		t.Run(c.Name(), func(t *testing.T) {
			_, err := c.Decompress([]byte("definitely not a frame"))
			assert.Error(t, err)
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"none", "zstd", "lz4"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("snappy")
	assert.False(t, ok)
}
