package snapshot

import (
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/mdadm/internal/compress"
	"github.com/hupe1980/mdadm/jbod"
)

const (
	imageMagic      = "JBODIMG1"
	imageHeaderSize = 16
)

// encodeImage builds the image of one disk from the blocks in written.
func encodeImage(src Source, disk int, written *roaring.Bitmap, comp compress.Type) ([]byte, error) {
	written.RunOptimize()
	bm, err := written.ToBytes()
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, int(written.GetCardinality())*jbod.BlockSize)
	block := make([]byte, jbod.BlockSize)
	it := written.Iterator()
	for it.HasNext() {
		b := int(it.Next())
		if err := src.ReadBlockAt(disk, b, block); err != nil {
			return nil, fmt.Errorf("read disk %d block %d: %w", disk, b, err)
		}
		payload = append(payload, block...)
	}

	framed, err := compress.Compress(payload, comp)
	if err != nil {
		return nil, err
	}

	out := make([]byte, imageHeaderSize, imageHeaderSize+len(bm)+len(framed))
	copy(out, imageMagic)
	out[8] = byte(comp)
	binary.LittleEndian.PutUint32(out[12:], uint32(len(bm)))
	out = append(out, bm...)
	out = append(out, framed...)
	return out, nil
}

// decodeImage validates an image and returns its written blocks and their
// concatenated contents.
func decodeImage(data []byte) (*roaring.Bitmap, []byte, error) {
	if len(data) < imageHeaderSize || string(data[:8]) != imageMagic {
		return nil, nil, fmt.Errorf("%w: bad header", ErrCorrupt)
	}

	comp := compress.Type(data[8])
	if !comp.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, data[8])
	}

	bmLen := uint64(binary.LittleEndian.Uint32(data[12:]))
	rest := data[imageHeaderSize:]
	if bmLen > uint64(len(rest)) {
		return nil, nil, fmt.Errorf("%w: bitmap length %d exceeds image", ErrCorrupt, bmLen)
	}

	written := roaring.New()
	if err := written.UnmarshalBinary(rest[:bmLen]); err != nil {
		return nil, nil, fmt.Errorf("%w: bitmap: %w", ErrCorrupt, err)
	}
	if !written.IsEmpty() && written.Maximum() >= jbod.BlocksPerDisk {
		return nil, nil, fmt.Errorf("%w: block %d out of range", ErrCorrupt, written.Maximum())
	}

	payload, err := compress.Decompress(rest[bmLen:], comp)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if uint64(len(payload)) != written.GetCardinality()*jbod.BlockSize {
		return nil, nil, fmt.Errorf("%w: payload has %d bytes for %d blocks", ErrCorrupt, len(payload), written.GetCardinality())
	}

	return written, payload, nil
}
