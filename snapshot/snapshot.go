package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/mdadm/blobstore"
	"github.com/hupe1980/mdadm/device"
	"github.com/hupe1980/mdadm/internal/compress"
	"github.com/hupe1980/mdadm/internal/hash"
	"github.com/hupe1980/mdadm/jbod"
)

// FormatVersion is the manifest format written by Save.
const FormatVersion = 1

const (
	rootPrefix   = "snapshots/"
	manifestName = "MANIFEST"
)

// Source is an array that can be read without moving its cursor.
// *device.Array implements it.
type Source interface {
	Written(disk int) *roaring.Bitmap
	ReadBlockAt(disk, block int, p []byte) error
}

// Target is an array that can be written without moving its cursor.
// *device.Array implements it.
type Target interface {
	WriteBlockAt(disk, block int, p []byte) error
}

var (
	_ Source = (*device.Array)(nil)
	_ Target = (*device.Array)(nil)
)

// Manifest describes one snapshot.
type Manifest struct {
	Version     int         `json:"version"`
	ID          string      `json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	Codec       string      `json:"codec"`
	Compression string      `json:"compression"`
	Disks       []DiskEntry `json:"disks"`
}

// DiskEntry describes the image of one disk.
type DiskEntry struct {
	Disk     int    `json:"disk"`
	Path     string `json:"path"`
	Blocks   uint64 `json:"blocks"`
	Size     int64  `json:"size"`
	Checksum uint32 `json:"checksum"`
}

// Blocks returns the number of blocks stored across all disks.
func (m *Manifest) Blocks() uint64 {
	var n uint64
	for _, d := range m.Disks {
		n += d.Blocks
	}
	return n
}

// Path returns the manifest blob name of snapshot id.
func Path(id string) string {
	return rootPrefix + id + "/" + manifestName
}

func diskPath(id string, disk int) string {
	return fmt.Sprintf("%s%s/disk-%02d.img", rootPrefix, id, disk)
}

func newID() string {
	return time.Now().UTC().Format("20060102T150405.000000000Z")
}

// Save writes the written blocks of src as a new snapshot and makes it CURRENT.
func Save(ctx context.Context, store blobstore.BlobStore, src Source, optFns ...Option) (*Manifest, error) {
	opts := newOptions(optFns)
	if !opts.compression.Valid() {
		return nil, fmt.Errorf("%w: %d", compress.ErrUnknownType, opts.compression)
	}

	id := opts.id
	if id == "" {
		id = newID()
	}
	if strings.ContainsAny(id, "/\\") {
		return nil, fmt.Errorf("%w: snapshot id %q", jbod.ErrInvalidArgument, id)
	}

	start := time.Now()
	entries := make([]*DiskEntry, jbod.NumDisks)
	var bytesWritten atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if opts.rc == nil {
		g.SetLimit(defaultConcurrency)
	}

	for disk := range jbod.NumDisks {
		g.Go(func() error {
			if err := opts.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer opts.rc.ReleaseWorker()

			written := src.Written(disk)
			if written.IsEmpty() {
				return nil
			}

			img, err := encodeImage(src, disk, written, opts.compression)
			if err != nil {
				return err
			}

			name := diskPath(id, disk)
			if err := store.Put(gctx, name, img); err != nil {
				return fmt.Errorf("put %s: %w", name, err)
			}
			bytesWritten.Add(int64(len(img)))

			entries[disk] = &DiskEntry{
				Disk:     disk,
				Path:     name,
				Blocks:   written.GetCardinality(),
				Size:     int64(len(img)),
				Checksum: hash.CRC32C(img),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Manifest{
		Version:     FormatVersion,
		ID:          id,
		CreatedAt:   start.UTC(),
		Codec:       opts.codec.Name(),
		Compression: opts.compression.String(),
		Disks:       []DiskEntry{},
	}
	for _, e := range entries {
		if e != nil {
			m.Disks = append(m.Disks, *e)
		}
	}

	data, err := opts.codec.Marshal(m)
	if err != nil {
		return nil, err
	}
	manifestPath := Path(id)
	if err := store.Put(ctx, manifestPath, data); err != nil {
		return nil, fmt.Errorf("put %s: %w", manifestPath, err)
	}
	if err := store.Put(ctx, blobstore.CurrentName, []byte(manifestPath)); err != nil {
		return nil, fmt.Errorf("commit %s: %w", manifestPath, err)
	}

	opts.logger.InfoContext(ctx, "snapshot saved",
		"id", id,
		"disks", len(m.Disks),
		"blocks", m.Blocks(),
		"bytes", bytesWritten.Load(),
		"compression", m.Compression,
		"duration", time.Since(start),
	)
	return m, nil
}

// Current returns the manifest CURRENT points at.
func Current(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Manifest, error) {
	opts := newOptions(optFns)

	ptr, err := blobstore.ReadAll(ctx, store, blobstore.CurrentName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return loadManifest(ctx, store, strings.TrimSpace(string(ptr)), opts)
}

// Load returns the manifest of snapshot id.
func Load(ctx context.Context, store blobstore.BlobStore, id string, optFns ...Option) (*Manifest, error) {
	return loadManifest(ctx, store, Path(id), newOptions(optFns))
}

func loadManifest(ctx context.Context, store blobstore.BlobStore, name string, opts options) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", name, err)
	}

	var m Manifest
	if err := opts.codec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest %s: %w", ErrCorrupt, name, err)
	}
	if m.Codec != opts.codec.Name() {
		return nil, fmt.Errorf("%w: %s written with %q", ErrCodecMismatch, name, m.Codec)
	}
	if m.Version != FormatVersion {
		return nil, fmt.Errorf("%w: manifest version %d", ErrCorrupt, m.Version)
	}
	for _, d := range m.Disks {
		if !jbod.ValidDisk(d.Disk) {
			return nil, fmt.Errorf("%w: manifest disk %d", ErrCorrupt, d.Disk)
		}
	}
	return &m, nil
}

// Restore writes the blocks of a snapshot into dst and returns its manifest.
// It restores CURRENT unless WithID selects another snapshot. Blocks the
// snapshot does not contain are left untouched.
func Restore(ctx context.Context, store blobstore.BlobStore, dst Target, optFns ...Option) (*Manifest, error) {
	opts := newOptions(optFns)

	var (
		m   *Manifest
		err error
	)
	if opts.id != "" {
		m, err = loadManifest(ctx, store, Path(opts.id), opts)
	} else {
		m, err = Current(ctx, store, optFns...)
	}
	if err != nil {
		return nil, err
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	if opts.rc == nil {
		g.SetLimit(defaultConcurrency)
	}

	for _, entry := range m.Disks {
		g.Go(func() error {
			if err := opts.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer opts.rc.ReleaseWorker()

			return restoreDisk(gctx, store, dst, entry)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts.logger.InfoContext(ctx, "snapshot restored",
		"id", m.ID,
		"disks", len(m.Disks),
		"blocks", m.Blocks(),
		"duration", time.Since(start),
	)
	return m, nil
}

func restoreDisk(ctx context.Context, store blobstore.BlobStore, dst Target, entry DiskEntry) error {
	data, err := blobstore.ReadAll(ctx, store, entry.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", entry.Path, err)
	}
	if !hash.Verify(data, entry.Checksum) {
		return fmt.Errorf("%w: %s checksum mismatch", ErrCorrupt, entry.Path)
	}

	written, payload, err := decodeImage(data)
	if err != nil {
		return fmt.Errorf("%s: %w", entry.Path, err)
	}
	if written.GetCardinality() != entry.Blocks {
		return fmt.Errorf("%w: %s has %d blocks, manifest says %d", ErrCorrupt, entry.Path, written.GetCardinality(), entry.Blocks)
	}

	it := written.Iterator()
	for off := 0; it.HasNext(); off += jbod.BlockSize {
		b := int(it.Next())
		if err := dst.WriteBlockAt(entry.Disk, b, payload[off:off+jbod.BlockSize]); err != nil {
			return fmt.Errorf("write disk %d block %d: %w", entry.Disk, b, err)
		}
	}
	return nil
}

// List returns the ids of all snapshots in store, oldest first for generated ids.
func List(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	names, err := store.List(ctx, rootPrefix)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, name := range names {
		dir, file := path.Split(strings.TrimPrefix(name, rootPrefix))
		if file == manifestName && dir != "" {
			ids = append(ids, strings.TrimSuffix(dir, "/"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the blobs of snapshot id. Deleting the snapshot CURRENT
// points at leaves CURRENT dangling, so it is refused.
func Delete(ctx context.Context, store blobstore.BlobStore, id string) error {
	if cur, err := blobstore.ReadAll(ctx, store, blobstore.CurrentName); err == nil {
		if strings.TrimSpace(string(cur)) == Path(id) {
			return fmt.Errorf("%w: snapshot %s is current", jbod.ErrInvalidState, id)
		}
	} else if !errors.Is(err, blobstore.ErrNotFound) {
		return err
	}

	names, err := store.List(ctx, rootPrefix+id+"/")
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: snapshot %s", jbod.ErrNotFound, id)
	}

	// The manifest goes first so a partial delete never leaves a listed
	// snapshot with missing images.
	sort.SliceStable(names, func(i, j int) bool {
		return path.Base(names[i]) == manifestName && path.Base(names[j]) != manifestName
	})
	for _, name := range names {
		if err := store.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
