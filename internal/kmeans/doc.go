// Package kmeans implements the Lloyd-style k-means engine used for color
// quantization.
//
// A run is a pure function of its inputs: Run seeds its own generator from
// Config.Seed, owns its centers and labels for the duration of the call and
// retains nothing afterwards. Identical points and configuration always
// produce bit-identical labels and centers, independent of Config.Workers.
package kmeans
