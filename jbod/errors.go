package jbod

import "errors"

// Error classes shared by every package of the module. Concrete errors wrap one
// of these so callers can test the class with errors.Is.
var (
	// ErrInvalidArgument covers out-of-range addresses, lengths, disks and
	// blocks, and absent or short buffers.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState covers operations issued in the wrong lifecycle state.
	ErrInvalidState = errors.New("invalid state")

	// ErrNotFound signals a lookup that found nothing.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPresent signals a duplicate insertion.
	ErrAlreadyPresent = errors.New("already present")
)
