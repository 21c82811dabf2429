package kmeans

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/hupe1980/quantize/distance"
)

// pcgStream is the fixed PCG increment; the seed alone selects the sequence.
const pcgStream = 0x9e3779b97f4a7c15

// minPointsPerWorker keeps tiny inputs on the inline path.
const minPointsPerWorker = 1024

// centerSet stores k centers in one row-major slice so the displacement can
// be taken over the flattened matrix. rows are views into flat.
type centerSet struct {
	dim  int
	flat []float64
	rows [][]float64
}

func newCenters(k, dim int) *centerSet {
	c := &centerSet{
		dim:  dim,
		flat: make([]float64, k*dim),
		rows: make([][]float64, k),
	}
	for j := range c.rows {
		c.rows[j] = c.flat[j*dim : (j+1)*dim : (j+1)*dim]
	}
	return c
}

func (c *centerSet) row(j int) []float64 { return c.rows[j] }

// SampleIndices draws k distinct indices from [0, n) using a generator seeded
// only by seed. The same (n, k, seed) always yields the same indices in the
// same order.
func SampleIndices(n, k int, seed uint64) []int {
	idxs := make([]int, k)
	sampleuv.WithoutReplacement(idxs, n, rand.NewPCG(seed, pcgStream))
	return idxs
}

// assign labels every point with its nearest center. Chunks are disjoint and
// each label is computed by the same code, so the worker count never changes
// the outcome.
func assign(ctx context.Context, points, centers [][]float64, labels []int, workers int) error {
	n := len(points)
	if workers > n/minPointsPerWorker {
		workers = n / minPointsPerWorker
	}
	if workers <= 1 {
		assignRange(points, centers, labels, 0, n)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			assignRange(points, centers, labels, start, end)
			return nil
		})
	}
	return g.Wait()
}

// Assign returns the index of the center nearest to p, preferring the lowest
// index on ties. A point whose distances are not finite still gets a valid
// index. It returns -1 when centers is empty.
func Assign(p []float64, centers [][]float64) int {
	j, _ := distance.Nearest(p, centers)
	return j
}

func assignRange(points, centers [][]float64, labels []int, start, end int) {
	for i := start; i < end; i++ {
		labels[i] = Assign(points[i], centers)
	}
}

// update recomputes every center as the mean of its members and returns the
// number of empty clusters. Under FreezeAll any empty cluster leaves all
// centers untouched.
func update(points [][]float64, labels []int, centers, sums *centerSet, counts []int, policy EmptyClusterPolicy) int {
	clear(sums.flat)
	clear(counts)
	for i, p := range points {
		j := labels[i]
		floats.Add(sums.rows[j], p)
		counts[j]++
	}

	empty := 0
	for _, c := range counts {
		if c == 0 {
			empty++
		}
	}
	if empty > 0 && policy == FreezeAll {
		return empty
	}

	for j, c := range counts {
		if c == 0 {
			continue
		}
		dst := centers.rows[j]
		copy(dst, sums.rows[j])
		floats.Scale(1/float64(c), dst)
	}
	return empty
}

// displacement is the Euclidean norm of cur-prev over the flattened centers.
func displacement(cur, prev []float64) float64 {
	return floats.Distance(cur, prev, 2)
}

// Cost returns the sum of squared distances from each point to its assigned
// center. Points are visited in order so the sum is reproducible.
func Cost(points [][]float64, labels []int, centers [][]float64) float64 {
	var total float64
	for i, p := range points {
		total += distance.SquaredL2(p, centers[labels[i]])
	}
	return total
}
