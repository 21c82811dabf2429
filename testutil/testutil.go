package testutil

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"sync"
)

// Primaries is a default set of well-separated RGB anchors.
var Primaries = [][]float64{
	{20, 20, 20},
	{230, 40, 40},
	{40, 200, 60},
	{50, 60, 220},
	{240, 240, 240},
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// UniformColors generates num RGB vectors with channels uniform in [0, 255).
// Uses a single backing array for efficiency.
func (r *RNG) UniformColors(num int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*3)
	points := make([][]float64, num)
	for i := range num {
		p := data[i*3 : (i+1)*3 : (i+1)*3]
		for c := range p {
			p[c] = r.rand.Float64() * 255
		}
		points[i] = p
	}
	return points
}

// ColorBlobs generates num vectors scattered around anchors with Gaussian
// noise of the given standard deviation. Each point picks an anchor at
// random. Channels are clamped to [0, 255].
func (r *RNG) ColorBlobs(num int, anchors [][]float64, stddev float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	dim := len(anchors[0])
	data := make([]float64, num*dim)
	points := make([][]float64, num)
	for i := range num {
		a := anchors[r.rand.IntN(len(anchors))]
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for c := range p {
			p[c] = clamp(a[c] + r.rand.NormFloat64()*stddev)
		}
		points[i] = p
	}
	return points
}

// StripedImage returns a w×h image made of horizontal stripes, one per
// anchor, with per-pixel noise of at most ±jitter on every channel.
func (r *RNG) StripedImage(w, h int, anchors [][]float64, jitter int) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stripe := max(1, h/len(anchors))
	for y := 0; y < h; y++ {
		a := anchors[min(y/stripe, len(anchors)-1)]
		for x := 0; x < w; x++ {
			n := func() float64 {
				if jitter == 0 {
					return 0
				}
				return float64(r.rand.IntN(2*jitter+1) - jitter)
			}
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(clamp(a[0] + n())),
				G: uint8(clamp(a[1] + n())),
				B: uint8(clamp(a[2] + n())),
				A: 0xff,
			})
		}
	}
	return img
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}
