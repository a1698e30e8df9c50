package cache

import (
	"fmt"

	"github.com/hupe1980/mdadm/jbod"
)

var (
	// ErrAlreadyCreated is returned by Create on a cache that already exists.
	ErrAlreadyCreated = fmt.Errorf("%w: cache already created", jbod.ErrInvalidState)

	// ErrNotCreated is returned by operations on a cache that does not exist.
	ErrNotCreated = fmt.Errorf("%w: cache not created", jbod.ErrInvalidState)

	// ErrInvalidCapacity is returned by Create for a capacity outside [MinCapacity, MaxCapacity].
	ErrInvalidCapacity = fmt.Errorf("%w: cache capacity must be in [%d, %d]", jbod.ErrInvalidArgument, MinCapacity, MaxCapacity)

	// ErrInvalidKey is returned for a disk or block id outside the array geometry.
	ErrInvalidKey = fmt.Errorf("%w: disk or block id out of range", jbod.ErrInvalidArgument)

	// ErrShortBuffer is returned for an absent buffer or one shorter than a block.
	ErrShortBuffer = fmt.Errorf("%w: buffer shorter than a block", jbod.ErrInvalidArgument)

	// ErrAlreadyAttached is returned by Attach while another owner holds the cache.
	ErrAlreadyAttached = fmt.Errorf("%w: cache attached to another device", jbod.ErrInvalidState)

	// ErrAlreadyCached is returned by Insert when the key already has a valid entry.
	ErrAlreadyCached = fmt.Errorf("%w: block already cached", jbod.ErrAlreadyPresent)
)
