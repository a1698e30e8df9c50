package snapshot

import (
	"bytes"
	"context"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mdadm/blobstore"
	"github.com/hupe1980/mdadm/codec"
	"github.com/hupe1980/mdadm/device"
	"github.com/hupe1980/mdadm/internal/compress"
	"github.com/hupe1980/mdadm/jbod"
	"github.com/hupe1980/mdadm/resource"
)

func pattern(disk, block int) []byte {
	b := make([]byte, jbod.BlockSize)
	for i := range b {
		b[i] = byte(disk*31 + block*7 + i)
	}
	return b
}

func populate(t *testing.T, arr *device.Array, blocks map[int][]int) {
	t.Helper()
	for disk, bs := range blocks {
		for _, b := range bs {
			require.NoError(t, arr.WriteBlockAt(disk, b, pattern(disk, b)))
		}
	}
}

func assertBlocks(t *testing.T, arr *device.Array, blocks map[int][]int) {
	t.Helper()
	got := make([]byte, jbod.BlockSize)
	for disk, bs := range blocks {
		for _, b := range bs {
			require.NoError(t, arr.ReadBlockAt(disk, b, got))
			assert.True(t, bytes.Equal(pattern(disk, b), got), "disk %d block %d", disk, b)
		}
	}
}

var sample = map[int][]int{
	0:  {0, 1, 2, 255},
	3:  {17},
	15: {128, 129, 255},
}

func TestSaveRestore_RoundTrip(t *testing.T) {
	for _, comp := range []compress.Type{compress.None, compress.LZ4, compress.ZSTD} {
		t.Run(comp.String(), func(t *testing.T) {
			ctx := context.Background()
			store := blobstore.NewMemoryStore()

			src := device.New()
			populate(t, src, sample)

			m, err := Save(ctx, store, src, WithCompression(comp), WithID("s1"))
			require.NoError(t, err)
			assert.Equal(t, "s1", m.ID)
			assert.Equal(t, comp.String(), m.Compression)
			assert.Equal(t, "json", m.Codec)
			assert.Len(t, m.Disks, 3)
			assert.Equal(t, uint64(8), m.Blocks())

			dst := device.New()
			restored, err := Restore(ctx, store, dst)
			require.NoError(t, err)
			assert.Equal(t, m.ID, restored.ID)
			assert.Equal(t, m.Disks, restored.Disks)

			assertBlocks(t, dst, sample)
			assert.Equal(t, uint64(8), dst.WrittenBlocks())
			assert.Equal(t, []uint32{0, 1, 2, 255}, dst.Written(0).ToArray())
		})
	}
}

func TestSave_Layout(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	src := device.New()
	populate(t, src, map[int][]int{2: {5}})

	_, err := Save(ctx, store, src, WithID("a"))
	require.NoError(t, err)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		blobstore.CurrentName,
		"snapshots/a/MANIFEST",
		"snapshots/a/disk-02.img",
	}, names)

	cur, err := blobstore.ReadAll(ctx, store, blobstore.CurrentName)
	require.NoError(t, err)
	assert.Equal(t, "snapshots/a/MANIFEST", string(cur))
}

func TestSave_EmptyArray(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	m, err := Save(ctx, store, device.New(), WithID("empty"))
	require.NoError(t, err)
	assert.Empty(t, m.Disks)

	restored, err := Restore(ctx, store, device.New())
	require.NoError(t, err)
	assert.Zero(t, restored.Blocks())
}

func TestSave_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Save(ctx, store, device.New(), WithID("a/b"))
	assert.ErrorIs(t, err, jbod.ErrInvalidArgument)

	_, err = Save(ctx, store, device.New(), WithCompression(compress.Type(7)))
	assert.ErrorIs(t, err, compress.ErrUnknownType)
	assert.Zero(t, store.Len())
}

func TestRestore_NoSnapshot(t *testing.T) {
	_, err := Restore(context.Background(), blobstore.NewMemoryStore(), device.New())
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.ErrorIs(t, err, jbod.ErrNotFound)
}

func TestRestore_ByID(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	src := device.New()
	populate(t, src, map[int][]int{1: {1}})
	_, err := Save(ctx, store, src, WithID("old"))
	require.NoError(t, err)

	populate(t, src, map[int][]int{1: {2}})
	_, err = Save(ctx, store, src, WithID("new"))
	require.NoError(t, err)

	dst := device.New()
	m, err := Restore(ctx, store, dst, WithID("old"))
	require.NoError(t, err)
	assert.Equal(t, "old", m.ID)
	assert.Equal(t, []uint32{1}, dst.Written(1).ToArray())

	cur, err := Current(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "new", cur.ID)
	assert.Equal(t, uint64(2), cur.Blocks())
}

func TestRestore_CorruptImage(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	src := device.New()
	populate(t, src, map[int][]int{4: {9}})
	_, err := Save(ctx, store, src, WithID("x"))
	require.NoError(t, err)

	img, err := blobstore.ReadAll(ctx, store, "snapshots/x/disk-04.img")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "snapshots/x/disk-04.img", img[:len(img)-3]))

	_, err = Restore(ctx, store, device.New())
	assert.ErrorIs(t, err, ErrCorrupt)

	img[0] = 'X'
	require.NoError(t, store.Put(ctx, "snapshots/x/disk-04.img", img))
	_, err = Restore(ctx, store, device.New())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRestore_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	src := device.New()
	populate(t, src, map[int][]int{2: {0, 1}})
	m, err := Save(ctx, store, src, WithID("x"), WithCompression(compress.None))
	require.NoError(t, err)
	require.Len(t, m.Disks, 1)
	assert.NotZero(t, m.Disks[0].Checksum)

	// Flip a payload bit; the image still decodes structurally.
	img, err := blobstore.ReadAll(ctx, store, m.Disks[0].Path)
	require.NoError(t, err)
	img[len(img)-1] ^= 0x01
	require.NoError(t, store.Put(ctx, m.Disks[0].Path, img))

	dst := device.New()
	_, err = Restore(ctx, store, dst)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "checksum")
	assert.Zero(t, dst.WrittenBlocks())
}

type otherCodec struct{ codec.JSON }

func (otherCodec) Name() string { return "other" }

func TestRestore_CodecMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Save(ctx, store, device.New(), WithID("a"))
	require.NoError(t, err)

	_, err = Current(ctx, store, WithCodec(otherCodec{}))
	assert.ErrorIs(t, err, ErrCodecMismatch)
}

func TestSaveRestore_LocalStoreWithWorkers(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	rc := resource.NewController(resource.Config{MaxWorkers: 2})

	src := device.New()
	all := map[int][]int{}
	for disk := range jbod.NumDisks {
		all[disk] = []int{disk, 100 + disk}
	}
	populate(t, src, all)

	m, err := Save(ctx, store, src, WithResourceController(rc), WithCompression(compress.ZSTD))
	require.NoError(t, err)
	assert.Len(t, m.Disks, jbod.NumDisks)
	assert.NotEmpty(t, m.ID)

	dst := device.New()
	_, err = Restore(ctx, store, dst, WithResourceController(rc))
	require.NoError(t, err)
	assertBlocks(t, dst, all)
}

func TestListDelete(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	src := device.New()
	populate(t, src, map[int][]int{0: {0}, 1: {0}})

	for _, id := range []string{"b", "a"} {
		_, err := Save(ctx, store, src, WithID(id))
		require.NoError(t, err)
	}

	ids, err := List(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	assert.ErrorIs(t, Delete(ctx, store, "a"), jbod.ErrInvalidState, "a is current")
	require.NoError(t, Delete(ctx, store, "b"))
	assert.ErrorIs(t, Delete(ctx, store, "b"), jbod.ErrNotFound)

	ids, err = List(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
}

func TestDecodeImage_RejectsOutOfRangeBlocks(t *testing.T) {
	bm := roaring.BitmapOf(300)
	img, err := encodeImage(fakeSource{}, 0, bm, compress.None)
	require.NoError(t, err)

	_, _, err = decodeImage(img)
	assert.ErrorIs(t, err, ErrCorrupt)
}

type fakeSource struct{}

func (fakeSource) Written(int) *roaring.Bitmap { return roaring.New() }
func (fakeSource) ReadBlockAt(_, _ int, p []byte) error {
	clear(p)
	return nil
}
