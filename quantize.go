package quantize

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/hupe1980/quantize/internal/kmeans"
	"github.com/hupe1980/quantize/pixel"
	"github.com/hupe1980/quantize/resource"
)

// Quantizer runs k-means clustering over color vectors.
//
// A Quantizer holds configuration only; it keeps no state between runs and
// is safe for concurrent use.
type Quantizer struct {
	opts options
}

// New creates a Quantizer with the given options.
func New(optFns ...Option) *Quantizer {
	return &Quantizer{opts: applyOptions(optFns)}
}

// Quantized is an image reduced to a k-color palette.
type Quantized struct {
	*Result
	// Bounds are the bounds of the source image.
	Bounds image.Rectangle
	// Palette holds the centers as displayable colors.
	Palette []color.RGBA
	// Image is the source image repainted with the palette.
	Image *image.RGBA
}

// Cluster partitions points into k clusters.
//
// Every point must have the same dimension. Configuration errors are
// returned as *InvalidParameterError before any iteration runs.
func (q *Quantizer) Cluster(ctx context.Context, points [][]float64, k int) (*Result, error) {
	if err := q.opts.resources.AcquireRun(ctx); err != nil {
		return nil, err
	}
	defer q.opts.resources.ReleaseRun()

	return q.cluster(ctx, points, k)
}

// Quantize reduces img to k colors.
func (q *Quantizer) Quantize(ctx context.Context, img image.Image, k int) (*Quantized, error) {
	points, bounds := pixel.Flatten(img)

	res, err := q.Cluster(ctx, points, k)
	if err != nil {
		return nil, err
	}

	palette, err := pixel.Palette(res.Centers)
	if err != nil {
		return nil, err
	}
	out, err := pixel.Reconstruct(bounds, res.Labels, res.Centers)
	if err != nil {
		return nil, err
	}

	return &Quantized{
		Result:  res,
		Bounds:  bounds,
		Palette: palette,
		Image:   out,
	}, nil
}

func (q *Quantizer) config(k int) kmeans.Config {
	return kmeans.Config{
		K:             k,
		Tolerance:     q.opts.tolerance,
		MaxIterations: q.opts.maxIterations,
		Seed:          q.opts.seed,
		EmptyPolicy:   q.opts.emptyPolicy,
		Workers:       q.opts.workers,
		RecordCost:    q.opts.costHistory,
	}
}

// cluster runs without taking a run slot; callers hold one.
func (q *Quantizer) cluster(ctx context.Context, points [][]float64, k int) (res *Result, err error) {
	start := time.Now()
	log := q.opts.logger.WithK(k).WithCount(len(points))
	defer func() {
		iterations := 0
		if res != nil {
			iterations = res.Iterations
			if res.EmptyClusterEvents > 0 {
				q.opts.metricsCollector.RecordEmptyClusters(k, res.EmptyClusterEvents)
			}
		}
		q.opts.metricsCollector.RecordRun(k, iterations, time.Since(start), err)
		log.LogRun(ctx, res, err)
	}()

	cfg := q.config(k)
	dim, err := kmeans.Validate(points, cfg)
	if err != nil {
		return nil, translateError(err)
	}
	log = log.WithDimension(dim)
	if log.Enabled(ctx, slog.LevelDebug) {
		cfg.OnIteration = func(it kmeans.Iteration) {
			log.LogIteration(ctx, it.Number, it.Displacement, it.EmptyClusters)
		}
	}

	footprint := resource.RunFootprint(len(points), k, dim)
	if err := q.opts.resources.AcquireMemory(footprint); err != nil {
		return nil, fmt.Errorf("cluster k=%d: %w", k, err)
	}
	defer q.opts.resources.ReleaseMemory(footprint)

	kr, err := kmeans.Run(ctx, points, cfg)
	if err != nil {
		return nil, translateError(err)
	}

	return newResult(k, kr, time.Since(start)), nil
}
