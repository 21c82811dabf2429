// Package distance provides the vector distance calculations used by the
// clustering engine.
//
// All functions operate on float64 slices and are backed by gonum/floats.
//
// # Usage
//
//	d := distance.Euclidean(a, b)
//	d2 := distance.SquaredL2(a, b)
//	j := distance.Nearest(p, centers)
package distance
