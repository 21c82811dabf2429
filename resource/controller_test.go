package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(60))
	assert.Equal(t, int64(60), c.MemoryUsage())

	assert.ErrorIs(t, c.AcquireMemory(50), ErrMemoryLimitExceeded)
	assert.Equal(t, int64(60), c.MemoryUsage())

	c.ReleaseMemory(60)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.NoError(t, c.AcquireMemory(100))
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_MemoryUnlimited(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireMemory(1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
}

func TestController_Runs(t *testing.T) {
	c := NewController(Config{MaxConcurrentRuns: 2})
	assert.Equal(t, 2, c.MaxConcurrentRuns())

	ctx := context.Background()
	require.NoError(t, c.AcquireRun(ctx))
	require.True(t, c.TryAcquireRun())
	assert.False(t, c.TryAcquireRun())

	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireRun(timeout))

	c.ReleaseRun()
	assert.True(t, c.TryAcquireRun())
}

func TestController_DefaultsToOneRun(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, 1, c.MaxConcurrentRuns())
	assert.True(t, c.TryAcquireRun())
	assert.False(t, c.TryAcquireRun())
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	ctx := context.Background()

	assert.NoError(t, c.AcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.NoError(t, c.AcquireRun(ctx))
	assert.True(t, c.TryAcquireRun())
	c.ReleaseRun()
	assert.NoError(t, c.AcquireIO(ctx, 1<<20))
	assert.Equal(t, 1, c.MaxConcurrentRuns())
}

func TestController_AcquireIOSplitsLargeRequests(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	// Larger than the burst; must not fail with "exceeds burst".
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20+10))
}

func TestRunFootprint(t *testing.T) {
	assert.Equal(t, int64(100*8+3*4*3*8+4*8), RunFootprint(100, 4, 3))
}

func TestRateLimitedIO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	r := NewRateLimitedReader(ctx, strings.NewReader("palette"), c)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "palette", string(data))

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)
	n, err := w.Write([]byte("labels"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "labels", buf.String())
}
