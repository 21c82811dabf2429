package quantize

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// SweepReport holds the diagnostics of one run per candidate k.
// All slices are indexed like Ks.
type SweepReport struct {
	Ks         []int           `json:"ks"`
	Costs      []float64       `json:"costs"`
	Durations  []time.Duration `json:"durations"`
	Iterations []int           `json:"iterations"`
	Converged  []bool          `json:"converged"`
}

// Sweep clusters points once per candidate k and reports the clustering cost
// and wall-clock time of each run.
//
// Runs execute concurrently up to the resource controller's run limit
// (one at a time without a controller). Each duration covers only its own run.
func (q *Quantizer) Sweep(ctx context.Context, points [][]float64, ks []int) (report *SweepReport, err error) {
	start := time.Now()
	defer func() {
		q.opts.metricsCollector.RecordSweep(len(ks), time.Since(start), err)
		q.opts.logger.LogSweep(ctx, len(ks), time.Since(start), err)
	}()

	if len(ks) == 0 {
		return nil, ErrNoCandidates
	}

	report = &SweepReport{
		Ks:         append([]int(nil), ks...),
		Costs:      make([]float64, len(ks)),
		Durations:  make([]time.Duration, len(ks)),
		Iterations: make([]int, len(ks)),
		Converged:  make([]bool, len(ks)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.opts.resources.MaxConcurrentRuns())
	for i, k := range ks {
		g.Go(func() error {
			if err := q.opts.resources.AcquireRun(gctx); err != nil {
				return err
			}
			defer q.opts.resources.ReleaseRun()

			res, err := q.cluster(gctx, points, k)
			if err != nil {
				return err
			}
			report.Costs[i] = res.Cost
			report.Durations[i] = res.Duration
			report.Iterations[i] = res.Iterations
			report.Converged[i] = res.Converged
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
