package distance

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Euclidean calculates the L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// SquaredL2 calculates the squared L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Norm returns the Euclidean norm of v.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// Nearest returns the index of the center closest to p and the Euclidean
// distance to it. Ties resolve to the lowest index. A NaN distance counts as
// the minimum, so the first center at NaN distance wins and every point gets
// a label even when its distances are not finite. Returns -1 if centers is
// empty.
func Nearest(p []float64, centers [][]float64) (int, float64) {
	if len(centers) == 0 {
		return -1, math.Inf(1)
	}
	best, bestDist := 0, Euclidean(p, centers[0])
	for j := 1; j < len(centers) && !math.IsNaN(bestDist); j++ {
		d := Euclidean(p, centers[j])
		if d < bestDist || math.IsNaN(d) {
			best = j
			bestDist = d
		}
	}
	return best, bestDist
}
