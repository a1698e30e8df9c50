package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/mdadm/jbod"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Fill fills dst with random bytes.
func (r *RNG) Fill(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.rand.Read(dst)
}

// Bytes returns n random bytes.
func (r *RNG) Bytes(n int) []byte {
	b := make([]byte, n)
	r.Fill(b)
	return b
}

// Transfer returns a random range of at most maxLen bytes that lies inside
// the address space. The length may be zero.
func (r *RNG) Transfer(maxLen int) (addr, length uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	length = uint32(r.rand.Intn(maxLen + 1))
	addr = uint32(r.rand.Intn(jbod.MaxAddress - int(length) + 1))
	return addr, length
}

// HotTransfer returns a range inside one of the first blocks linear blocks,
// capped at the size of the array,
// picked with a Zipfian skew s. Repeated calls revisit the same few blocks,
// which is the access pattern a block cache is built for.
func (r *RNG) HotTransfer(blocks int, s float64) (addr, length uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blocks = min(blocks, jbod.NumDisks*jbod.BlocksPerDisk)
	block := r.zipfLocked(blocks, s)
	off := r.rand.Intn(jbod.BlockSize)
	length = uint32(r.rand.Intn(jbod.BlockSize-off) + 1)
	return uint32(block*jbod.BlockSize + off), length
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Normalization constant (harmonic number with exponent s)
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Inverse transform
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// Shadow is a flat in-memory copy of the whole address space. Tests apply
// every write to it and compare controller reads against it.
type Shadow struct {
	mu   sync.Mutex
	data []byte
}

// NewShadow returns a zeroed address space, matching a fresh device.
func NewShadow() *Shadow {
	return &Shadow{data: make([]byte, jbod.MaxAddress)}
}

// Write stores data at addr.
func (s *Shadow) Write(addr uint32, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.data[addr:], data)
}

// Read returns a copy of length bytes at addr.
func (s *Shadow) Read(addr, length uint32) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, length)
	copy(out, s.data[addr:uint64(addr)+uint64(length)])
	return out
}

// Block returns a copy of one device block.
func (s *Shadow) Block(disk, block int) []byte {
	return s.Read(jbod.Location{Disk: disk, Block: block}.Address(), jbod.BlockSize)
}
