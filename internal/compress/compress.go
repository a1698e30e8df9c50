// Package compress frames and compresses disk image payloads.
//
// Frame format: [UncompressedSize uint32][CompressedSize uint32][Data...],
// little endian. CompressedSize 0 means Data is stored uncompressed.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type selects the compression algorithm.
type Type uint8

const (
	// None stores data uncompressed.
	None Type = 0
	// LZ4 is fast block compression.
	LZ4 Type = 1
	// ZSTD trades speed for a better ratio.
	ZSTD Type = 2
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(t))
	}
}

// Valid reports whether t is a known algorithm.
func (t Type) Valid() bool {
	return t <= ZSTD
}

// ParseType returns the Type named s ("none", "lz4" or "zstd").
func ParseType(s string) (Type, error) {
	for _, t := range []Type{None, LZ4, ZSTD} {
		if t.String() == s {
			return t, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

var (
	// ErrUnknownType is returned for an unsupported compression type.
	ErrUnknownType = errors.New("compress: unknown compression type")
	// ErrCorrupt is returned when a frame is truncated or does not decode to its recorded size.
	ErrCorrupt = errors.New("compress: corrupt frame")
)

// HeaderSize is the size of the frame header.
const HeaderSize = 8

// Frames that do not shrink below this ratio are stored uncompressed.
const minRatio = 0.9

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Compress returns data framed with a header, compressed with t when that helps.
func Compress(data []byte, t Type) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}

	var compressed []byte
	switch t {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*minRatio {
		return frame(data, len(data), 0), nil
	}
	return frame(compressed, len(data), len(compressed)), nil
}

func frame(payload []byte, uncompressed, compressed int) []byte {
	out := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(out[0:], uint32(uncompressed))
	binary.LittleEndian.PutUint32(out[4:], uint32(compressed))
	copy(out[HeaderSize:], payload)
	return out
}

// Decompress decodes a frame written by Compress with the same t.
func Decompress(data []byte, t Type) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrCorrupt, len(data), HeaderSize)
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])
	body := data[HeaderSize:]

	if compressedSize == 0 {
		if uint64(len(body)) < uint64(uncompressedSize) {
			return nil, fmt.Errorf("%w: stored payload truncated", ErrCorrupt)
		}
		out := make([]byte, uncompressedSize)
		copy(out, body)
		return out, nil
	}

	if uint64(len(body)) < uint64(compressedSize) {
		return nil, fmt.Errorf("%w: compressed payload truncated", ErrCorrupt)
	}
	body = body[:compressedSize]
	out := make([]byte, uncompressedSize)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(body, out[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: frame is compressed but type is %s", ErrCorrupt, t)
	}
}
