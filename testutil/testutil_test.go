package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(42).ColorBlobs(100, Primaries, 5)
	b := NewRNG(42).ColorBlobs(100, Primaries, 5)
	assert.Equal(t, a, b)

	rng := NewRNG(7)
	first := rng.UniformColors(10)
	rng.Reset()
	assert.Equal(t, first, rng.UniformColors(10))
	assert.Equal(t, uint64(7), rng.Seed())
}

func TestUniformColors(t *testing.T) {
	points := NewRNG(1).UniformColors(500)
	require.Len(t, points, 500)
	for _, p := range points {
		require.Len(t, p, 3)
		for _, c := range p {
			assert.GreaterOrEqual(t, c, 0.0)
			assert.Less(t, c, 255.0)
		}
	}
}

func TestColorBlobs(t *testing.T) {
	points := NewRNG(3).ColorBlobs(1000, Primaries, 4)
	require.Len(t, points, 1000)
	for _, p := range points {
		for _, c := range p {
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 255.0)
		}
	}
}

func TestStripedImage(t *testing.T) {
	img := NewRNG(5).StripedImage(10, 10, Primaries, 0)
	assert.Equal(t, 10, img.Bounds().Dx())

	// Two rows per stripe; no jitter means exact anchor colors.
	c := img.RGBAAt(3, 2)
	assert.Equal(t, uint8(230), c.R)
	assert.Equal(t, uint8(40), c.G)
	assert.Equal(t, uint8(40), c.B)
	assert.Equal(t, uint8(255), c.A)
}
