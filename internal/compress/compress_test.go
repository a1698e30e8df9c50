package compress

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress_RoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("block-data "), 600)
	random := make([]byte, 4096)
	_, _ = rand.Read(random)

	for _, typ := range []Type{None, LZ4, ZSTD} {
		t.Run(typ.String(), func(t *testing.T) {
			for _, data := range [][]byte{compressible, random, {}} {
				framed, err := Compress(data, typ)
				require.NoError(t, err)

				got, err := Decompress(framed, typ)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(got))
				assert.True(t, bytes.Equal(data, got))
			}
		})
	}
}

func TestCompress_Shrinks(t *testing.T) {
	data := make([]byte, 64*1024)

	for _, typ := range []Type{LZ4, ZSTD} {
		framed, err := Compress(data, typ)
		require.NoError(t, err)
		assert.Less(t, len(framed), len(data)/10, typ.String())
		assert.NotZero(t, binary.LittleEndian.Uint32(framed[4:]))
	}
}

func TestCompress_IncompressibleStoredRaw(t *testing.T) {
	data := make([]byte, 1024)
	_, _ = rand.Read(data)

	framed, err := Compress(data, ZSTD)
	require.NoError(t, err)
	assert.Len(t, framed, HeaderSize+len(data))
	assert.Zero(t, binary.LittleEndian.Uint32(framed[4:]))
}

func TestDecompress_Corrupt(t *testing.T) {
	_, err := Decompress([]byte{1, 2, 3}, LZ4)
	assert.ErrorIs(t, err, ErrCorrupt)

	framed, err := Compress(make([]byte, 4096), LZ4)
	require.NoError(t, err)
	_, err = Decompress(framed[:len(framed)-1], LZ4)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decompress(framed, None)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestType(t *testing.T) {
	typ, err := ParseType("zstd")
	require.NoError(t, err)
	assert.Equal(t, ZSTD, typ)

	_, err = ParseType("brotli")
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Compress(nil, Type(9))
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, "compression(9)", Type(9).String())
}
