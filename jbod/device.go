package jbod

import "context"

// Device executes command words against a JBOD array.
//
// block must be a BlockSize buffer for ReadBlock and WriteBlock and is ignored
// otherwise. Execute is a blocking round trip.
type Device interface {
	Execute(ctx context.Context, op Op, block []byte) error
}

// DeviceFunc adapts an ordinary function to the Device interface.
type DeviceFunc func(ctx context.Context, op Op, block []byte) error

// Execute calls f(ctx, op, block).
func (f DeviceFunc) Execute(ctx context.Context, op Op, block []byte) error {
	return f(ctx, op, block)
}
