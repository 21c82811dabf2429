package kmeans

import (
	"context"
	"math"
)

// EmptyClusterPolicy decides what the update step does when a cluster has no
// members.
type EmptyClusterPolicy int

const (
	// FreezeAll leaves every center unchanged for the iteration if any
	// cluster is empty. The iteration then reports zero displacement.
	FreezeAll EmptyClusterPolicy = iota
	// KeepEmpty re-averages the populated clusters and leaves only the empty
	// ones at their previous position.
	KeepEmpty
)

func (p EmptyClusterPolicy) String() string {
	switch p {
	case FreezeAll:
		return "freeze-all"
	case KeepEmpty:
		return "keep-empty"
	default:
		return "unknown"
	}
}

const (
	// DefaultTolerance is the displacement norm below which a run converges.
	DefaultTolerance = 1e-2
	// DefaultMaxIterations bounds the refinement loop.
	DefaultMaxIterations = 100
	// DefaultSeed seeds center initialization.
	DefaultSeed uint64 = 42
)

// Config holds the parameters of a single run.
type Config struct {
	// K is the number of clusters, 1 <= K <= len(points).
	K int
	// Tolerance stops the loop once the flattened center displacement is
	// strictly below it.
	Tolerance float64
	// MaxIterations is the hard iteration cap (>= 1).
	MaxIterations int
	// Seed is the only source of randomness of a run.
	Seed uint64
	// EmptyPolicy selects the empty-cluster behavior of the update step.
	EmptyPolicy EmptyClusterPolicy
	// Workers splits the assignment step across goroutines. Values <= 1
	// run it inline.
	Workers int
	// RecordCost fills Result.CostHistory with the cost after every update.
	RecordCost bool
	// OnIteration, if set, is called after every iteration.
	OnIteration func(Iteration)
}

// DefaultConfig returns a Config for k clusters with the default tolerance,
// iteration cap and seed.
func DefaultConfig(k int) Config {
	return Config{
		K:             k,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Seed:          DefaultSeed,
		EmptyPolicy:   FreezeAll,
	}
}

// Iteration describes one completed assignment/update round.
type Iteration struct {
	// Number is 1-based.
	Number int
	// Displacement is the norm of the flattened center movement.
	Displacement float64
	// EmptyClusters counts clusters that had no members.
	EmptyClusters int
	// Cost is the clustering cost after the update; NaN unless
	// Config.RecordCost is set.
	Cost float64
}

// Result is the outcome of a run.
type Result struct {
	// Labels holds one cluster index in [0, K) per point.
	Labels []int
	// Centers holds exactly K centers.
	Centers [][]float64
	// Iterations is the number of iterations executed.
	Iterations int
	// Converged reports whether the run stopped on tolerance rather than on
	// the iteration cap.
	Converged bool
	// Displacement is the center displacement of the last iteration.
	Displacement float64
	// Cost is the sum of squared distances from each point to its center.
	Cost float64
	// CostHistory holds the cost after each iteration if requested.
	CostHistory []float64
	// EmptyClusterEvents counts iterations in which at least one cluster
	// was empty.
	EmptyClusterEvents int
}

// Run clusters points into cfg.K groups.
//
// Parameters are validated before any work; violations return a *ParamError.
// The context is checked between iterations.
func Run(ctx context.Context, points [][]float64, cfg Config) (*Result, error) {
	dim, err := Validate(points, cfg)
	if err != nil {
		return nil, err
	}

	seeds := SampleIndices(len(points), cfg.K, cfg.Seed)
	centers := newCenters(cfg.K, dim)
	for j, idx := range seeds {
		copy(centers.row(j), points[idx])
	}

	return refine(ctx, points, centers, cfg)
}

// RunFrom runs the refinement loop starting from the given centers instead of
// sampling them. The initial centers are copied, never modified.
func RunFrom(ctx context.Context, points [][]float64, initial [][]float64, cfg Config) (*Result, error) {
	cfg.K = len(initial)
	dim, err := Validate(points, cfg)
	if err != nil {
		return nil, err
	}

	centers := newCenters(cfg.K, dim)
	for j, c := range initial {
		if len(c) != dim {
			return nil, paramError("centers", j, "dimension %d does not match points (%d)", len(c), dim)
		}
		copy(centers.row(j), c)
	}

	return refine(ctx, points, centers, cfg)
}

// Validate checks points and cfg and returns the point dimension.
func Validate(points [][]float64, cfg Config) (int, error) {
	if len(points) == 0 {
		return 0, paramError("points", 0, "must not be empty")
	}
	if cfg.K < 1 {
		return 0, paramError("k", cfg.K, "must be at least 1")
	}
	if cfg.K > len(points) {
		return 0, paramError("k", cfg.K, "must not exceed the number of points (%d)", len(points))
	}
	if cfg.Tolerance < 0 || math.IsNaN(cfg.Tolerance) {
		return 0, paramError("tolerance", cfg.Tolerance, "must be non-negative")
	}
	if cfg.MaxIterations < 1 {
		return 0, paramError("max_iterations", cfg.MaxIterations, "must be at least 1")
	}
	switch cfg.EmptyPolicy {
	case FreezeAll, KeepEmpty:
	default:
		return 0, paramError("empty_policy", int(cfg.EmptyPolicy), "unknown policy")
	}

	dim := len(points[0])
	if dim == 0 {
		return 0, paramError("dimension", 0, "points must have at least one coordinate")
	}
	for i, p := range points {
		if len(p) != dim {
			return 0, paramError("points", i, "dimension %d does not match %d", len(p), dim)
		}
	}
	return dim, nil
}

func refine(ctx context.Context, points [][]float64, centers *centerSet, cfg Config) (*Result, error) {
	n := len(points)
	labels := make([]int, n)
	prev := make([]float64, len(centers.flat))
	copy(prev, centers.flat)

	scratch := newCenters(cfg.K, centers.dim)
	counts := make([]int, cfg.K)

	res := &Result{Labels: labels}
	if cfg.RecordCost {
		res.CostHistory = make([]float64, 0, cfg.MaxIterations)
	}

	for res.Iterations < cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Iterations++

		if err := assign(ctx, points, centers.rows, labels, cfg.Workers); err != nil {
			return nil, err
		}

		empty := update(points, labels, centers, scratch, counts, cfg.EmptyPolicy)
		if empty > 0 {
			res.EmptyClusterEvents++
		}

		res.Displacement = displacement(centers.flat, prev)

		it := Iteration{
			Number:        res.Iterations,
			Displacement:  res.Displacement,
			EmptyClusters: empty,
			Cost:          math.NaN(),
		}
		if cfg.RecordCost {
			it.Cost = Cost(points, labels, centers.rows)
			res.CostHistory = append(res.CostHistory, it.Cost)
		}
		if cfg.OnIteration != nil {
			cfg.OnIteration(it)
		}

		if res.Displacement < cfg.Tolerance {
			res.Converged = true
			break
		}
		copy(prev, centers.flat)
	}

	res.Centers = centers.rows
	res.Cost = Cost(points, labels, centers.rows)
	return res, nil
}
