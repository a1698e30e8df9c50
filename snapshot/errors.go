package snapshot

import (
	"errors"
	"fmt"

	"github.com/hupe1980/mdadm/jbod"
)

var (
	// ErrNoSnapshot is returned by Restore when no snapshot was ever committed.
	ErrNoSnapshot = fmt.Errorf("%w: no snapshot committed", jbod.ErrNotFound)

	// ErrCorrupt is returned when a disk image or manifest fails validation.
	ErrCorrupt = errors.New("snapshot: corrupt image")

	// ErrCodecMismatch is returned when a manifest was written with another codec.
	ErrCodecMismatch = errors.New("snapshot: manifest codec mismatch")
)
