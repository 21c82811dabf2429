package quantize

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/quantize/internal/kmeans"
)

// Result is the outcome of a clustering run.
type Result struct {
	// K is the number of clusters.
	K int `json:"k"`
	// Labels assigns every input point a cluster index in [0, K).
	Labels []int `json:"-"`
	// Centers holds exactly K centers; Centers[Labels[i]] represents point i.
	Centers [][]float64 `json:"centers"`
	// Iterations is the number of iterations executed (<= max iterations).
	Iterations int `json:"iterations"`
	// Converged is false when the run stopped on the iteration cap.
	Converged bool `json:"converged"`
	// Cost is the sum of squared distances from each point to its center.
	Cost float64 `json:"cost"`
	// CostHistory is set when WithCostHistory is used.
	CostHistory []float64 `json:"cost_history,omitempty"`
	// EmptyClusterEvents counts iterations that had an empty cluster.
	EmptyClusterEvents int `json:"empty_cluster_events"`
	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

func newResult(k int, kr *kmeans.Result, d time.Duration) *Result {
	return &Result{
		K:                  k,
		Labels:             kr.Labels,
		Centers:            kr.Centers,
		Iterations:         kr.Iterations,
		Converged:          kr.Converged,
		Cost:               kr.Cost,
		CostHistory:        kr.CostHistory,
		EmptyClusterEvents: kr.EmptyClusterEvents,
		Duration:           d,
	}
}

// Sizes returns the number of points in each cluster.
func (r *Result) Sizes() []int {
	sizes := make([]int, len(r.Centers))
	for _, l := range r.Labels {
		sizes[l]++
	}
	return sizes
}

// Members returns the indices of the points assigned to cluster j.
// For an image these are the flattened pixel offsets painted with color j.
func (r *Result) Members(j int) *roaring.Bitmap {
	bm := roaring.New()
	for i, l := range r.Labels {
		if l == j {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Memberships returns one bitmap per cluster in a single pass.
func (r *Result) Memberships() []*roaring.Bitmap {
	bms := make([]*roaring.Bitmap, len(r.Centers))
	for j := range bms {
		bms[j] = roaring.New()
	}
	for i, l := range r.Labels {
		bms[l].Add(uint32(i))
	}
	for _, bm := range bms {
		bm.RunOptimize()
	}
	return bms
}

// Predict returns the cluster whose center is closest to p.
func (r *Result) Predict(p []float64) int {
	return kmeans.Assign(p, r.Centers)
}
