// Package resource governs the shared resources of a controller instance.
//
//   - Memory: cache slot reservations (non-blocking, fail-fast)
//   - Workers: concurrent snapshot encoders/decoders
//   - IO: token-bucket throttling of device block transfers
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 20,
//	    IOBytesPerSec:    64 * 1024,
//	})
//
//	if err := rc.ReserveMemory(4096 * 256); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(4096 * 256)
//
//	if err := rc.WaitIO(ctx, 256); err != nil {
//	    return err
//	}
//
// All methods are safe for concurrent use and treat a nil *Controller as
// unlimited.
package resource
