package quantize

import (
	"log/slog"

	"github.com/hupe1980/quantize/internal/kmeans"
	"github.com/hupe1980/quantize/resource"
)

// EmptyClusterPolicy decides how the update step treats a cluster that lost
// all its members.
type EmptyClusterPolicy = kmeans.EmptyClusterPolicy

const (
	// FreezeAll leaves every center unchanged for an iteration in which any
	// cluster is empty. This is the default.
	FreezeAll = kmeans.FreezeAll
	// KeepEmpty re-averages populated clusters and keeps empty ones at
	// their previous center.
	KeepEmpty = kmeans.KeepEmpty
)

// Defaults applied by New.
const (
	DefaultTolerance     = kmeans.DefaultTolerance
	DefaultMaxIterations = kmeans.DefaultMaxIterations
	DefaultSeed          = kmeans.DefaultSeed
)

type options struct {
	tolerance        float64
	maxIterations    int
	seed             uint64
	emptyPolicy      EmptyClusterPolicy
	workers          int
	costHistory      bool
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
}

// Option configures a Quantizer.
type Option func(*options)

// WithTolerance sets the convergence threshold: a run stops once the norm of
// the flattened center displacement is strictly below tol.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithMaxIterations bounds the refinement loop.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithSeed sets the seed used to pick the initial centers. Runs with the
// same points, k and seed produce identical results.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithEmptyClusterPolicy selects the empty-cluster behavior.
func WithEmptyClusterPolicy(p EmptyClusterPolicy) Option {
	return func(o *options) {
		o.emptyPolicy = p
	}
}

// WithWorkers splits the assignment step across n goroutines.
// Results do not depend on n.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithCostHistory records the clustering cost after every iteration in
// Result.CostHistory.
func WithCostHistory() Option {
	return func(o *options) {
		o.costHistory = true
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &quantize.BasicMetricsCollector{}
//	q := quantize.New(quantize.WithMetricsCollector(metrics))
//	// ... use q ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.RunCount, stats.RunAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := quantize.NewJSONLogger(slog.LevelInfo)
//	q := quantize.New(quantize.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController shares run slots and memory accounting with other
// Quantizers. A nil controller imposes no limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		tolerance:        DefaultTolerance,
		maxIterations:    DefaultMaxIterations,
		seed:             DefaultSeed,
		emptyPolicy:      FreezeAll,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
