package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hupe1980/mdadm/jbod"
	"github.com/hupe1980/mdadm/resource"
)

const (
	// MinCapacity is the smallest number of slots a cache may have.
	MinCapacity = 2
	// MaxCapacity is the largest number of slots a cache may have.
	MaxCapacity = 4096
)

// Key identifies a cached block.
type Key struct {
	Disk  int
	Block int
}

func (k Key) valid() bool {
	return jbod.ValidDisk(k.Disk) && jbod.ValidBlock(k.Block)
}

type entry struct {
	key        Key
	data       [jbod.BlockSize]byte
	lastAccess int64
	valid      bool
}

// BlockCache is a fixed-capacity LRU cache of device blocks.
//
// The zero value is a cache that does not exist yet; call Create before use.
type BlockCache struct {
	mu    sync.Mutex
	rc    *resource.Controller
	owner any

	entries []entry
	created bool
	filled  int
	clock   int64
	queries int64
	hits    int64
}

// Option configures a BlockCache.
type Option func(*BlockCache)

// WithResourceController charges the slot memory of Create against rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(c *BlockCache) {
		c.rc = rc
	}
}

// New creates a cache with the given number of slots.
func New(capacity int, opts ...Option) (*BlockCache, error) {
	c := &BlockCache{}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Create(capacity); err != nil {
		return nil, err
	}
	return c, nil
}

// Create allocates capacity empty slots and resets the clock and counters.
func (c *BlockCache) Create(capacity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.created {
		return ErrAlreadyCreated
	}
	if capacity < MinCapacity || capacity > MaxCapacity {
		return ErrInvalidCapacity
	}

	if err := c.rc.ReserveMemory(slotBytes(capacity)); err != nil {
		return fmt.Errorf("cache: reserve %d slots: %w", capacity, err)
	}

	c.entries = make([]entry, capacity)
	c.created = true
	c.filled = 0
	c.clock = 0
	c.queries = 0
	c.hits = 0
	return nil
}

// Destroy releases all slots and resets the cache to "does not exist".
func (c *BlockCache) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.created {
		return ErrNotCreated
	}

	c.rc.ReleaseMemory(slotBytes(len(c.entries)))

	c.entries = nil
	c.created = false
	c.filled = 0
	c.clock = 0
	c.queries = 0
	c.hits = 0
	return nil
}

// Lookup copies the cached block for (disk, block) into out.
//
// Every call counts as a query. A miss returns false with a nil error; an
// error is returned only when the cache does not exist or out is too short.
func (c *BlockCache) Lookup(disk, block int, out []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queries++

	if !c.created {
		return false, ErrNotCreated
	}
	if len(out) < jbod.BlockSize {
		return false, ErrShortBuffer
	}
	if c.filled == 0 {
		return false, nil
	}

	if i := c.find(Key{disk, block}); i >= 0 {
		c.hits++
		copy(out, c.entries[i].data[:])
		return true, nil
	}
	return false, nil
}

// Update overwrites the data of every valid entry for (disk, block) and marks
// it most recently used. It never inserts; the result reports whether any
// entry matched. Calls on a missing cache or with a short buffer do nothing.
func (c *BlockCache) Update(disk, block int, data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.created || len(data) < jbod.BlockSize {
		return false
	}

	key := Key{disk, block}
	updated := false
	for i := range c.entries {
		e := &c.entries[i]
		if !e.valid || e.key != key {
			continue
		}
		c.clock++
		e.lastAccess = c.clock
		copy(e.data[:], data)
		updated = true
	}
	return updated
}

// Insert caches a copy of data under (disk, block).
//
// While the cache has never-used slots, the next one is taken. Once full, the
// entry with the smallest access stamp is evicted.
func (c *BlockCache) Insert(disk, block int, data []byte) error {
	key := Key{disk, block}
	if !key.valid() {
		return ErrInvalidKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.created {
		return ErrNotCreated
	}
	if len(data) < jbod.BlockSize {
		return ErrShortBuffer
	}
	if c.find(key) >= 0 {
		return ErrAlreadyCached
	}

	var slot int
	if c.full() {
		slot = c.victim()
	} else {
		slot = c.filled
		c.filled++
	}

	c.clock++
	e := &c.entries[slot]
	e.key = key
	e.lastAccess = c.clock
	e.valid = true
	copy(e.data[:], data)
	return nil
}

// Attach binds the cache to owner. Keys carry no device identity, so a cache
// may front only one device at a time. Attaching the current owner again is a
// no-op.
func (c *BlockCache) Attach(owner any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.owner != nil && c.owner != owner {
		return ErrAlreadyAttached
	}
	c.owner = owner
	return nil
}

// Detach releases the binding made by Attach. It does nothing unless owner
// holds the cache.
func (c *BlockCache) Detach(owner any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.owner == owner {
		c.owner = nil
	}
}

// Enabled reports whether a cache of at least MinCapacity slots exists.
func (c *BlockCache) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created && len(c.entries) >= MinCapacity
}

// Capacity returns the number of slots, or 0 if the cache does not exist.
func (c *BlockCache) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Len returns the number of filled slots.
func (c *BlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filled
}

// Full reports whether every slot has been filled.
func (c *BlockCache) Full() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.full()
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Capacity int
	Len      int
	Queries  int64
	Hits     int64
	Clock    int64
}

// Stats returns a snapshot of the cache counters.
func (c *BlockCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Capacity: len(c.entries),
		Len:      c.filled,
		Queries:  c.queries,
		Hits:     c.hits,
		Clock:    c.clock,
	}
}

// HitRate returns hits/queries as a percentage (0 when nothing was queried).
func (c *BlockCache) HitRate() float64 {
	s := c.Stats()
	if s.Queries == 0 {
		return 0
	}
	return 100 * float64(s.Hits) / float64(s.Queries)
}

// LogHitRate reports the hit rate through logger.
func (c *BlockCache) LogHitRate(ctx context.Context, logger *slog.Logger) {
	s := c.Stats()
	logger.InfoContext(ctx, "cache hit rate",
		"hit_rate", fmt.Sprintf("%5.1f%%", c.HitRate()),
		"hits", s.Hits,
		"queries", s.Queries,
	)
}

func (c *BlockCache) full() bool {
	return c.created && c.filled == len(c.entries)
}

// find returns the slot of the valid entry for key, or -1.
func (c *BlockCache) find(key Key) int {
	for i := range c.entries {
		if c.entries[i].valid && c.entries[i].key == key {
			return i
		}
	}
	return -1
}

// victim returns the slot with the smallest access stamp, first one on ties.
func (c *BlockCache) victim() int {
	lru := 0
	for i := 1; i < len(c.entries); i++ {
		if c.entries[i].lastAccess < c.entries[lru].lastAccess {
			lru = i
		}
	}
	return lru
}

func slotBytes(capacity int) int64 {
	return int64(capacity) * jbod.BlockSize
}
