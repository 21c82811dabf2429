// Package testutil provides testing utilities for quantize.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe generator for color vectors and
// synthetic images with a known number of dominant colors.
//
// # Random Color Generation
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformColors(1000)          // uniform in [0, 255]
//	points := rng.ColorBlobs(1000, anchors, 8) // noisy clusters around anchors
//
// # Synthetic Images
//
//	img := rng.StripedImage(64, 64, anchors, 4)
package testutil
