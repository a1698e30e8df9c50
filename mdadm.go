package mdadm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/mdadm/cache"
	"github.com/hupe1980/mdadm/jbod"
)

// Controller presents the disks of a JBOD device as one linear address space
// of jbod.MaxAddress bytes.
//
// All methods are safe for concurrent use; each call holds the controller for
// its whole duration so transfers never interleave on the device cursor.
type Controller struct {
	mu sync.Mutex

	dev       jbod.Device
	cache     *cache.BlockCache
	ownsCache bool
	metrics   MetricsCollector
	logger    *Logger

	mounted bool
	closed  bool
}

// New returns an unmounted controller in front of dev.
func New(dev jbod.Device, optFns ...Option) (*Controller, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}

	opts := applyOptions(optFns)

	c := &Controller{
		dev:     dev,
		cache:   opts.cache,
		metrics: opts.metricsCollector,
		logger:  opts.logger,
	}

	if c.cache != nil {
		if err := c.cache.Attach(c); err != nil {
			return nil, err
		}
	} else if opts.cacheCapacity > 0 {
		bc, err := cache.New(opts.cacheCapacity, cache.WithResourceController(opts.rc))
		if err != nil {
			return nil, err
		}
		c.cache = bc
		c.ownsCache = true
	}

	return c, nil
}

// Mount issues MOUNT and marks the controller mounted.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.mount(ctx)
	c.metrics.RecordMount(true, err)
	c.logger.LogMount(ctx, err)
	return err
}

func (c *Controller) mount(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}
	if c.mounted {
		return ErrAlreadyMounted
	}
	if err := c.execute(ctx, jbod.Encode(jbod.Mount, 0, 0), nil); err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	c.mounted = true
	return nil
}

// Unmount issues UNMOUNT and marks the controller unmounted.
func (c *Controller) Unmount(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.unmount(ctx)
	c.metrics.RecordMount(false, err)
	c.logger.LogUnmount(ctx, err)
	return err
}

func (c *Controller) unmount(ctx context.Context) error {
	if !c.mounted {
		return ErrNotMounted
	}
	if err := c.execute(ctx, jbod.Encode(jbod.Unmount, 0, 0), nil); err != nil {
		return fmt.Errorf("unmount: %w", err)
	}
	c.mounted = false
	return nil
}

// Mounted reports whether the controller is mounted.
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Cache returns the block cache in front of the device, or nil.
func (c *Controller) Cache() *cache.BlockCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache
}

// Read copies length bytes starting at addr into buf and returns the number
// of bytes read.
//
// Arguments are validated before the device is touched. A zero length
// returns 0 without any device command.
func (c *Controller) Read(ctx context.Context, addr, length uint32, buf []byte) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	n, err := c.transfer(ctx, readDir, addr, length, buf)
	c.metrics.RecordRead(length, time.Since(start), err)
	c.logger.LogRead(ctx, addr, length, err)
	return n, err
}

// Write stores length bytes of buf at addr and returns the number of bytes
// written.
//
// Every touched block is read, patched and written back whole, so bytes of a
// partially covered block outside the range are preserved.
func (c *Controller) Write(ctx context.Context, addr, length uint32, buf []byte) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	n, err := c.transfer(ctx, writeDir, addr, length, buf)
	c.metrics.RecordWrite(length, time.Since(start), err)
	c.logger.LogWrite(ctx, addr, length, err)
	return n, err
}

// Close unmounts a mounted controller, destroys a cache created by
// WithCacheCapacity and detaches one given through WithCache. A closed
// controller cannot be mounted again; closing twice is a no-op.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var err error
	if c.mounted {
		err = c.unmount(ctx)
		c.metrics.RecordMount(false, err)
		c.logger.LogUnmount(ctx, err)
	}
	if c.ownsCache && c.cache != nil {
		if c.cache.Enabled() {
			c.cache.LogHitRate(ctx, c.logger.Logger)
		}
		if derr := c.cache.Destroy(); derr != nil && err == nil {
			err = derr
		}
		c.cache = nil
		c.ownsCache = false
	} else if c.cache != nil {
		c.cache.Detach(c)
	}
	return err
}

func (c *Controller) validate(addr, length uint32, buf []byte) error {
	if !c.mounted {
		return ErrNotMounted
	}
	if uint64(addr)+uint64(length) > jbod.MaxAddress {
		return &RangeError{Address: addr, Length: length}
	}
	if length > jbod.MaxTransfer {
		return ErrTransferTooLarge
	}
	if length != 0 && uint64(len(buf)) < uint64(length) {
		return ErrNilBuffer
	}
	return nil
}

// execute issues one command and reports it to the metrics collector.
func (c *Controller) execute(ctx context.Context, op jbod.Op, block []byte) error {
	err := c.dev.Execute(ctx, op, block)
	c.metrics.RecordDeviceOp(op.Command(), err)
	if err != nil {
		return &DeviceError{Op: op, Err: err}
	}
	return nil
}
