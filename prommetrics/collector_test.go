package prommetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/quantize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RecordRun(4, 3, 10*time.Millisecond, nil)
	c.RecordRun(4, 5, 20*time.Millisecond, nil)
	c.RecordRun(8, 0, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.runs.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("error")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.runLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(c.iterations))
}

func TestCollector_EmptyClustersAndSweep(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RecordEmptyClusters(3, 2)
	c.RecordEmptyClusters(3, 1)
	c.RecordSweep(4, time.Second, nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.emptyClusters.WithLabelValues("3")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.sweepK))
	assert.Equal(t, 1, testutil.CollectAndCount(c.sweepLatency))
}

func TestCollector_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestCollector_WithQuantizer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	q := quantize.New(quantize.WithMetricsCollector(c))

	points := [][]float64{{0, 0, 0}, {0, 0, 1}, {10, 10, 10}, {10, 10, 11}}
	_, err := q.Cluster(context.Background(), points, 2)
	require.NoError(t, err)

	_, err = q.Cluster(context.Background(), points, 5)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("error")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "quantize_runs_total")
	assert.Contains(t, names, "quantize_run_duration_seconds")
}
