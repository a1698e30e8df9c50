package device

import (
	"context"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/mdadm/jbod"
	"github.com/hupe1980/mdadm/resource"
)

// Array is an in-process JBOD array. It implements jbod.Device.
//
// An Array is safe for concurrent use; each command executes atomically.
type Array struct {
	mu sync.Mutex

	storage Storage
	rc      *resource.Controller

	mounted bool
	disk    int
	block   int

	written [jbod.NumDisks]*roaring.Bitmap

	stats   Stats
	tracing bool
	trace   []jbod.Op
}

var _ jbod.Device = (*Array)(nil)

// New returns an unmounted array.
func New(optFns ...Option) *Array {
	opts := options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.storage == nil {
		opts.storage = NewMemoryStorage()
	}

	a := &Array{
		storage: opts.storage,
		rc:      opts.rc,
		tracing: opts.trace,
	}
	for i := range a.written {
		a.written[i] = roaring.New()
	}
	return a
}

// Execute runs one command word.
func (a *Array) Execute(ctx context.Context, op jbod.Op, block []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tracing {
		a.trace = append(a.trace, op)
	}

	cmd := op.Command()
	if !cmd.Valid() || op.Reserved() != 0 {
		a.stats.Invalid++
		a.stats.Errors++
		return ErrInvalidOp
	}
	a.stats.Ops[cmd]++

	err := a.execute(ctx, cmd, op, block)
	if err != nil {
		a.stats.Errors++
	}
	return err
}

func (a *Array) execute(ctx context.Context, cmd jbod.Command, op jbod.Op, block []byte) error {
	if cmd == jbod.Mount {
		if a.mounted {
			return ErrAlreadyMounted
		}
		a.mounted = true
		a.disk, a.block = 0, 0
		return nil
	}

	if !a.mounted {
		return ErrNotMounted
	}

	switch cmd {
	case jbod.Unmount:
		a.mounted = false
		return a.storage.Sync()
	case jbod.SeekToDisk:
		a.disk = int(op.Disk())
		a.block = 0
		return nil
	case jbod.SeekToBlock:
		a.block = int(op.Block())
		return nil
	case jbod.ReadBlock:
		if err := a.prepareTransfer(ctx, block); err != nil {
			return err
		}
		if err := a.storage.ReadBlock(a.disk, a.block, block); err != nil {
			return err
		}
		a.block++
		return nil
	case jbod.WriteBlock:
		if err := a.prepareTransfer(ctx, block); err != nil {
			return err
		}
		if err := a.storage.WriteBlock(a.disk, a.block, block); err != nil {
			return err
		}
		a.written[a.disk].Add(uint32(a.block))
		a.block++
		return nil
	default:
		return ErrInvalidOp
	}
}

func (a *Array) prepareTransfer(ctx context.Context, block []byte) error {
	if len(block) < jbod.BlockSize {
		return ErrShortBuffer
	}
	// The cursor runs off the end of a disk after a transfer of its last block.
	if !jbod.ValidBlock(a.block) {
		return ErrOutOfRange
	}
	return a.rc.WaitIO(ctx, jbod.BlockSize)
}

// Mounted reports whether the array is mounted.
func (a *Array) Mounted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.mounted
}

// Position returns the current disk and block cursor.
func (a *Array) Position() (disk, block int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.disk, a.block
}

// ReadBlockAt copies a block into p without touching the cursor or the mount state.
func (a *Array) ReadBlockAt(disk, block int, p []byte) error {
	if !jbod.ValidDisk(disk) || !jbod.ValidBlock(block) {
		return ErrOutOfRange
	}
	if len(p) < jbod.BlockSize {
		return ErrShortBuffer
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.storage.ReadBlock(disk, block, p)
}

// WriteBlockAt stores a block without touching the cursor or the mount state.
// The block is marked written.
func (a *Array) WriteBlockAt(disk, block int, p []byte) error {
	if !jbod.ValidDisk(disk) || !jbod.ValidBlock(block) {
		return ErrOutOfRange
	}
	if len(p) < jbod.BlockSize {
		return ErrShortBuffer
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.storage.WriteBlock(disk, block, p); err != nil {
		return err
	}
	a.written[disk].Add(uint32(block))
	return nil
}

// Written returns a copy of the set of blocks of disk that were ever written.
func (a *Array) Written(disk int) *roaring.Bitmap {
	if !jbod.ValidDisk(disk) {
		return roaring.New()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.written[disk].Clone()
}

// WrittenBlocks returns the number of distinct blocks written across all disks.
func (a *Array) WrittenBlocks() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	var n uint64
	for _, bm := range a.written {
		n += bm.GetCardinality()
	}
	return n
}

// Stats returns a snapshot of the command counters.
func (a *Array) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.stats
}

// Trace returns the command words executed since the last ResetTrace.
// It is empty unless the array was created WithTrace.
func (a *Array) Trace() []jbod.Op {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]jbod.Op, len(a.trace))
	copy(out, a.trace)
	return out
}

// ResetTrace clears the trace and the command counters.
func (a *Array) ResetTrace() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.trace = a.trace[:0]
	a.stats = Stats{}
}

// Sync flushes the backing storage.
func (a *Array) Sync() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.storage.Sync()
}

// Close releases the backing storage. The array must not be used afterwards.
func (a *Array) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mounted = false
	return a.storage.Close()
}
