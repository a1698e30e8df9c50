package jbod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode_FieldLayout(t *testing.T) {
	op := Encode(SeekToDisk, 0xA, 0)
	assert.Equal(t, uint32(SeekToDisk)<<26|0xA<<22, uint32(op))

	op = Encode(SeekToBlock, 0, 0xFE)
	assert.Equal(t, uint32(SeekToBlock)<<26|0xFE, uint32(op))

	assert.Equal(t, Op(0), Encode(Mount, 0, 0))
}

func TestEncode_RoundTrip(t *testing.T) {
	for cmd := Mount; cmd <= WriteBlock; cmd++ {
		for _, disk := range []uint32{0, 7, 15} {
			for _, block := range []uint32{0, 128, 255} {
				op := Encode(cmd, disk, block)
				assert.Equal(t, cmd, op.Command())
				assert.Equal(t, disk, op.Disk())
				assert.Equal(t, block, op.Block())
				assert.Zero(t, op.Reserved())
			}
		}
	}
}

func TestEncode_TruncatesOperands(t *testing.T) {
	op := Encode(ReadBlock, 16, 256)
	assert.Equal(t, ReadBlock, op.Command())
	assert.Zero(t, op.Disk())
	assert.Zero(t, op.Block())
	assert.Zero(t, op.Reserved())
}

func TestOp_Reserved(t *testing.T) {
	op := Op(uint32(Encode(ReadBlock, 1, 2)) | 1<<8)
	assert.Equal(t, uint32(1), op.Reserved())
	assert.Equal(t, uint32(1), op.Disk())
	assert.Equal(t, uint32(2), op.Block())
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "SEEK_TO_BLOCK", SeekToBlock.String())
	assert.Equal(t, "COMMAND(42)", Command(42).String())
	assert.False(t, Command(42).Valid())
	assert.Equal(t, "SEEK_TO_DISK disk=3", Encode(SeekToDisk, 3, 0).String())
}

func TestLocate(t *testing.T) {
	tests := []struct {
		addr uint32
		want Location
	}{
		{0, Location{0, 0, 0}},
		{255, Location{0, 0, 255}},
		{256, Location{0, 1, 0}},
		{65535, Location{0, 255, 255}},
		{65536, Location{1, 0, 0}},
		{MaxAddress - 1, Location{15, 255, 255}},
	}
	for _, tt := range tests {
		got := Locate(tt.addr)
		assert.Equal(t, tt.want, got, "addr %d", tt.addr)
		assert.Equal(t, tt.addr, got.Address())
	}
	assert.Equal(t, uint32(257), Locate(65536+256).BlockIndex())
}
