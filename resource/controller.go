package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a reservation would exceed the
// configured memory limit.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for run buffers (centers, labels,
	// scratch). If 0, usage is tracked but not limited.
	MemoryLimitBytes int64

	// MaxConcurrentRuns is the number of clustering runs allowed at once.
	// If 0, defaults to 1.
	MaxConcurrentRuns int64

	// IOLimitBytesPerSec caps blob read/write throughput. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages shared resources across runs.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	runSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentRuns <= 0 {
		cfg.MaxConcurrentRuns = 1
	}

	c := &Controller{
		cfg:    cfg,
		runSem: semaphore.NewWeighted(cfg.MaxConcurrentRuns),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// RunFootprint estimates the bytes a run over n points of dimension dim with
// k clusters allocates: labels, two center matrices, the previous-center
// copy and the per-cluster counts.
func RunFootprint(n, k, dim int) int64 {
	const word = 8
	return int64(n)*word + 3*int64(k)*int64(dim)*word + int64(k)*word
}

// AcquireMemory attempts to reserve memory.
// Non-blocking; returns ErrMemoryLimitExceeded if the limit would be exceeded.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current reserved memory in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// MaxConcurrentRuns returns the number of run slots.
func (c *Controller) MaxConcurrentRuns() int {
	if c == nil {
		return 1
	}
	return int(c.cfg.MaxConcurrentRuns)
}

// AcquireRun reserves a run slot, blocking until one is free or ctx is done.
func (c *Controller) AcquireRun(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.runSem.Acquire(ctx, 1)
}

// TryAcquireRun reserves a run slot without blocking.
func (c *Controller) TryAcquireRun() bool {
	if c == nil {
		return true
	}
	return c.runSem.TryAcquire(1)
}

// ReleaseRun releases a run slot.
func (c *Controller) ReleaseRun() {
	if c == nil {
		return
	}
	c.runSem.Release(1)
}

// AcquireIO waits until the IO limit allows bytes. Requests larger than the
// burst are split.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
