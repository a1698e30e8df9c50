package device

import (
	"fmt"

	"github.com/hupe1980/mdadm/jbod"
)

var (
	// ErrNotMounted is returned for commands other than MOUNT on an unmounted array.
	ErrNotMounted = fmt.Errorf("%w: array not mounted", jbod.ErrInvalidState)

	// ErrAlreadyMounted is returned by MOUNT on a mounted array.
	ErrAlreadyMounted = fmt.Errorf("%w: array already mounted", jbod.ErrInvalidState)

	// ErrInvalidOp is returned for unknown commands or non-zero reserved bits.
	ErrInvalidOp = fmt.Errorf("%w: malformed command word", jbod.ErrInvalidArgument)

	// ErrShortBuffer is returned for a block transfer without a full block buffer.
	ErrShortBuffer = fmt.Errorf("%w: transfer buffer shorter than a block", jbod.ErrInvalidArgument)

	// ErrOutOfRange is returned when a transfer or direct access falls outside the array.
	ErrOutOfRange = fmt.Errorf("%w: disk or block out of range", jbod.ErrInvalidArgument)
)
