package quantize

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see the
// prommetrics package for a Prometheus implementation.
type MetricsCollector interface {
	// RecordRun is called after each clustering run.
	// iterations is 0 if the run failed before iterating.
	RecordRun(k, iterations int, duration time.Duration, err error)

	// RecordEmptyClusters is called when a run absorbed empty clusters.
	// events counts the affected iterations.
	RecordEmptyClusters(k, events int)

	// RecordSweep is called after each sweep over candidate k values.
	RecordSweep(candidates int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordEmptyClusters(int, int)             {}
func (NoopMetricsCollector) RecordSweep(int, time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount           atomic.Int64
	RunErrors          atomic.Int64
	RunTotalNanos      atomic.Int64
	IterationsTotal    atomic.Int64
	EmptyClusterEvents atomic.Int64
	SweepCount         atomic.Int64
	SweepErrors        atomic.Int64
	SweepCandidates    atomic.Int64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(k, iterations int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	b.IterationsTotal.Add(int64(iterations))
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordEmptyClusters implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmptyClusters(k, events int) {
	b.EmptyClusterEvents.Add(int64(events))
}

// RecordSweep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSweep(candidates int, duration time.Duration, err error) {
	b.SweepCount.Add(1)
	b.SweepCandidates.Add(int64(candidates))
	if err != nil {
		b.SweepErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		RunCount:           b.RunCount.Load(),
		RunErrors:          b.RunErrors.Load(),
		IterationsTotal:    b.IterationsTotal.Load(),
		EmptyClusterEvents: b.EmptyClusterEvents.Load(),
		SweepCount:         b.SweepCount.Load(),
		SweepErrors:        b.SweepErrors.Load(),
		SweepCandidates:    b.SweepCandidates.Load(),
	}
	if s.RunCount > 0 {
		s.RunAvgNanos = b.RunTotalNanos.Load() / s.RunCount
	}
	return s
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	RunCount           int64
	RunErrors          int64
	RunAvgNanos        int64
	IterationsTotal    int64
	EmptyClusterEvents int64
	SweepCount         int64
	SweepErrors        int64
	SweepCandidates    int64
}
