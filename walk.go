package mdadm

import (
	"context"
	"fmt"

	"github.com/hupe1980/mdadm/jbod"
)

type direction uint8

const (
	readDir direction = iota
	writeDir
)

// crossing classifies the last byte a transfer step handled.
type crossing uint8

const (
	withinBlock crossing = iota
	crossingBlock
	crossingDisk
)

// boundaryAt reports which boundary follows addr. The disk check wins because
// the last byte of a disk is also the last byte of a block.
func boundaryAt(addr uint32) crossing {
	switch {
	case addr%jbod.DiskSize == jbod.DiskSize-1:
		return crossingDisk
	case addr%jbod.BlockSize == jbod.BlockSize-1:
		return crossingBlock
	default:
		return withinBlock
	}
}

// walk is the device position of one transfer.
type walk struct {
	c     *Controller
	dir   direction
	disk  int
	block int
}

func (c *Controller) transfer(ctx context.Context, dir direction, addr, length uint32, buf []byte) (uint32, error) {
	if err := c.validate(addr, length, buf); err != nil {
		return 0, err
	}
	if length == 0 {
		return 0, nil
	}

	loc := jbod.Locate(addr)
	w := walk{c: c, dir: dir, disk: loc.Disk, block: loc.Block}

	var blk [jbod.BlockSize]byte
	if err := w.seekDisk(ctx); err != nil {
		return 0, err
	}
	if err := w.seekBlock(ctx); err != nil {
		return 0, err
	}
	if err := w.load(ctx, blk[:]); err != nil {
		return 0, err
	}

	off := loc.Offset
	var done uint32
	for {
		var n int
		if dir == readDir {
			n = copy(buf[done:length], blk[off:])
		} else {
			n = copy(blk[off:], buf[done:length])
		}
		done += uint32(n)

		if done == length {
			break
		}

		if dir == writeDir {
			if err := w.flush(ctx, blk[:]); err != nil {
				return 0, err
			}
		}
		if err := w.advance(ctx, boundaryAt(addr+done-1)); err != nil {
			return 0, err
		}
		if err := w.load(ctx, blk[:]); err != nil {
			return 0, err
		}
		off = 0
	}

	if dir == writeDir {
		if err := w.flush(ctx, blk[:]); err != nil {
			return 0, err
		}
	}
	return length, nil
}

// advance moves the device cursor past a boundary.
func (w *walk) advance(ctx context.Context, state crossing) error {
	switch state {
	case crossingDisk:
		w.disk++
		w.block = 0
		if err := w.seekDisk(ctx); err != nil {
			return err
		}
		return w.seekBlock(ctx)
	case crossingBlock:
		w.block++
		return w.seekBlock(ctx)
	default:
		return nil
	}
}

func (w *walk) seekDisk(ctx context.Context) error {
	if err := w.c.execute(ctx, jbod.Encode(jbod.SeekToDisk, uint32(w.disk), 0), nil); err != nil {
		return fmt.Errorf("seek disk %d: %w", w.disk, err)
	}
	return nil
}

func (w *walk) seekBlock(ctx context.Context) error {
	if err := w.c.execute(ctx, jbod.Encode(jbod.SeekToBlock, 0, uint32(w.block)), nil); err != nil {
		return fmt.Errorf("seek disk %d block %d: %w", w.disk, w.block, err)
	}
	return nil
}

// load fills blk with the current block. On the write path a device read
// moved the block cursor on, so it is put back for the following write.
func (w *walk) load(ctx context.Context, blk []byte) error {
	fromDevice, err := w.fetch(ctx, blk)
	if err != nil {
		return err
	}
	if fromDevice && w.dir == writeDir {
		return w.seekBlock(ctx)
	}
	return nil
}

// fetch reads the current block through the cache. It reports whether the
// device was read.
func (w *walk) fetch(ctx context.Context, blk []byte) (bool, error) {
	cached := w.c.cacheEnabled()
	if cached {
		hit, err := w.c.cache.Lookup(w.disk, w.block, blk)
		if err != nil {
			return false, fmt.Errorf("cache lookup disk %d block %d: %w", w.disk, w.block, err)
		}
		w.c.metrics.RecordCacheLookup(hit)
		if hit {
			return false, nil
		}
	}

	if err := w.c.execute(ctx, jbod.Encode(jbod.ReadBlock, 0, 0), blk); err != nil {
		return false, fmt.Errorf("read disk %d block %d: %w", w.disk, w.block, err)
	}

	if cached {
		if err := w.c.cache.Insert(w.disk, w.block, blk); err != nil {
			return true, fmt.Errorf("cache insert disk %d block %d: %w", w.disk, w.block, err)
		}
	}
	return true, nil
}

// flush writes blk to the current block and refreshes its cache entry.
func (w *walk) flush(ctx context.Context, blk []byte) error {
	if err := w.c.execute(ctx, jbod.Encode(jbod.WriteBlock, 0, 0), blk); err != nil {
		return fmt.Errorf("write disk %d block %d: %w", w.disk, w.block, err)
	}
	if w.c.cacheEnabled() && !w.c.cache.Update(w.disk, w.block, blk) {
		if err := w.c.cache.Insert(w.disk, w.block, blk); err != nil {
			return fmt.Errorf("cache insert disk %d block %d: %w", w.disk, w.block, err)
		}
	}
	return nil
}

func (c *Controller) cacheEnabled() bool {
	return c.cache != nil && c.cache.Enabled()
}
