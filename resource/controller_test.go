package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1024})

	require.NoError(t, c.ReserveMemory(512))
	assert.Equal(t, int64(512), c.MemoryUsage())

	require.NoError(t, c.ReserveMemory(256))
	assert.Equal(t, int64(768), c.MemoryUsage())

	// Exceeds limit
	err := c.ReserveMemory(512)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(768), c.MemoryUsage())

	c.ReleaseMemory(512)
	assert.Equal(t, int64(256), c.MemoryUsage())

	require.NoError(t, c.ReserveMemory(512))
	assert.Equal(t, int64(768), c.MemoryUsage())
	assert.Equal(t, int64(1024), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.ReserveMemory(1<<20))
	assert.Equal(t, int64(1<<20), c.MemoryUsage())

	c.ReleaseMemory(1 << 19)
	assert.Equal(t, int64(1<<19), c.MemoryUsage())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.NoError(t, c.AcquireWorker(t.Context()))
	require.NoError(t, c.AcquireWorker(t.Context()))
	assert.False(t, c.TryAcquireWorker())

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
}

func TestController_WorkerCancel(t *testing.T) {
	c := NewController(Config{MaxWorkers: 1})
	require.NoError(t, c.AcquireWorker(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, c.AcquireWorker(ctx))
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOBytesPerSec: 512})

	assert.True(t, c.AllowIO(256))
	assert.True(t, c.AllowIO(256))
	assert.False(t, c.AllowIO(256), "bucket should be drained")

	require.NoError(t, c.WaitIO(t.Context(), 256))
	assert.Equal(t, int64(768), c.IOBytes())
}

func TestController_NilIsUnlimited(t *testing.T) {
	var c *Controller

	require.NoError(t, c.ReserveMemory(100))
	c.ReleaseMemory(100)
	assert.Zero(t, c.MemoryUsage())
	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.True(t, c.TryAcquireWorker())
	c.ReleaseWorker()
	require.NoError(t, c.WaitIO(context.Background(), 1<<30))
	assert.True(t, c.AllowIO(1<<30))
	assert.Zero(t, c.IOBytes())
}
