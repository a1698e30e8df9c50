package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mdadm/jbod"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	first := a.Bytes(64)
	assert.Equal(t, first, b.Bytes(64))

	a.Reset()
	assert.Equal(t, first, a.Bytes(64))
	assert.Equal(t, int64(4711), a.Seed())
}

func TestRNG_Transfer(t *testing.T) {
	rng := NewRNG(1)

	for range 1000 {
		addr, length := rng.Transfer(jbod.MaxTransfer)
		require.LessOrEqual(t, length, uint32(jbod.MaxTransfer))
		require.LessOrEqual(t, uint64(addr)+uint64(length), uint64(jbod.MaxAddress))
	}
}

func TestRNG_HotTransfer(t *testing.T) {
	rng := NewRNG(2)

	hits := make(map[int]int)
	for range 1000 {
		addr, length := rng.HotTransfer(16, 1.5)
		require.NotZero(t, length)

		first := jbod.Locate(addr)
		last := jbod.Locate(addr + length - 1)
		require.Equal(t, first.Block, last.Block, "stays inside one block")
		require.Less(t, first.BlockIndex(), uint32(16))
		hits[first.Block]++
	}

	assert.Greater(t, hits[0], hits[15])
}

func TestZipf(t *testing.T) {
	rng := NewRNG(3)

	for range 100 {
		v := rng.Zipf(10, 1.0)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
	assert.Zero(t, rng.Zipf(1, 1.0))
}

func TestShadow(t *testing.T) {
	s := NewShadow()

	s.Write(jbod.DiskSize-1, []byte{0xAA, 0xBB})
	assert.Equal(t, []byte{0, 0xAA, 0xBB, 0}, s.Read(jbod.DiskSize-2, 4))

	blk := s.Block(1, 0)
	require.Len(t, blk, jbod.BlockSize)
	assert.Equal(t, byte(0xBB), blk[0])

	assert.Empty(t, s.Read(jbod.MaxAddress, 0))
}
