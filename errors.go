package mdadm

import (
	"errors"
	"fmt"

	"github.com/hupe1980/mdadm/jbod"
)

// Error classes. Every error returned by the controller wraps one of them.
var (
	ErrInvalidArgument = jbod.ErrInvalidArgument
	ErrInvalidState    = jbod.ErrInvalidState
	ErrNotFound        = jbod.ErrNotFound
	ErrAlreadyPresent  = jbod.ErrAlreadyPresent
)

var (
	// ErrNotMounted is returned by Unmount, Read and Write on an unmounted controller.
	ErrNotMounted = fmt.Errorf("%w: controller not mounted", ErrInvalidState)

	// ErrAlreadyMounted is returned by Mount on a mounted controller.
	ErrAlreadyMounted = fmt.Errorf("%w: controller already mounted", ErrInvalidState)

	// ErrClosed is returned by Mount on a closed controller.
	ErrClosed = fmt.Errorf("%w: controller closed", ErrInvalidState)

	// ErrTransferTooLarge is returned when a transfer exceeds jbod.MaxTransfer bytes.
	ErrTransferTooLarge = fmt.Errorf("%w: transfer larger than %d bytes", ErrInvalidArgument, jbod.MaxTransfer)

	// ErrNilBuffer is returned when a non-empty transfer has no buffer or one
	// shorter than the requested length.
	ErrNilBuffer = fmt.Errorf("%w: buffer missing or shorter than length", ErrInvalidArgument)

	// ErrNilDevice is returned by New without a device.
	ErrNilDevice = fmt.Errorf("%w: device is nil", ErrInvalidArgument)
)

// RangeError reports a transfer reaching past the end of the linear address space.
type RangeError struct {
	Address uint32
	Length  uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range [%#x, %#x) exceeds address space of %#x bytes",
		e.Address, uint64(e.Address)+uint64(e.Length), jbod.MaxAddress)
}

func (e *RangeError) Unwrap() error { return ErrInvalidArgument }

// DeviceError wraps a failure of the underlying device.
//
// The device error can be accessed via errors.Unwrap.
type DeviceError struct {
	Op  jbod.Op
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// IsDeviceError reports whether err originates from the device.
func IsDeviceError(err error) bool {
	var de *DeviceError
	return errors.As(err, &de)
}
