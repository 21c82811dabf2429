package prommetrics

import (
	"strconv"
	"time"

	"github.com/hupe1980/quantize"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quantize"

// Collector implements quantize.MetricsCollector with Prometheus metrics.
type Collector struct {
	runLatency    *prometheus.HistogramVec
	runs          *prometheus.CounterVec
	iterations    *prometheus.HistogramVec
	emptyClusters *prometheus.CounterVec
	sweepLatency  *prometheus.HistogramVec
	sweepK        prometheus.Counter
}

var _ quantize.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// It panics if registration fails, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		runLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Latency of clustering runs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"k", "status"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total clustering runs",
		}, []string{"status"}),
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_iterations",
			Help:      "Iterations performed per successful run",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}, []string{"k"}),
		emptyClusters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_cluster_events_total",
			Help:      "Iterations in which at least one cluster had no members",
		}, []string{"k"}),
		sweepLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Latency of k sweeps",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		sweepK: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_candidates_total",
			Help:      "Total candidate k values evaluated by sweeps",
		}),
	}

	reg.MustRegister(
		c.runLatency,
		c.runs,
		c.iterations,
		c.emptyClusters,
		c.sweepLatency,
		c.sweepK,
	)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordRun implements quantize.MetricsCollector.
func (c *Collector) RecordRun(k, iterations int, d time.Duration, err error) {
	label := strconv.Itoa(k)
	c.runLatency.WithLabelValues(label, status(err)).Observe(d.Seconds())
	c.runs.WithLabelValues(status(err)).Inc()
	if err == nil {
		c.iterations.WithLabelValues(label).Observe(float64(iterations))
	}
}

// RecordEmptyClusters implements quantize.MetricsCollector.
func (c *Collector) RecordEmptyClusters(k, events int) {
	c.emptyClusters.WithLabelValues(strconv.Itoa(k)).Add(float64(events))
}

// RecordSweep implements quantize.MetricsCollector.
func (c *Collector) RecordSweep(candidates int, d time.Duration, err error) {
	c.sweepLatency.WithLabelValues(status(err)).Observe(d.Seconds())
	c.sweepK.Add(float64(candidates))
}
