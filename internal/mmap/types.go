package mmap

import "errors"

// AccessPattern is an madvise hint for a mapping or region.
type AccessPattern int

const (
	// AccessDefault leaves the kernel's read-ahead alone.
	AccessDefault AccessPattern = iota
	// AccessSequential suits blobs read front to back (snapshot images).
	AccessSequential
	// AccessRandom suits disk images addressed block by block.
	AccessRandom
)

var (
	// ErrClosed is returned for any access to a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for a negative mapping size.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfBounds is returned for an access or region past the end of the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrInvalidOffset is returned for a negative offset.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
	// ErrReadOnly is returned for a write to a read-only mapping.
	ErrReadOnly = errors.New("mmap: mapping is read-only")
)
