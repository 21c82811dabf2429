// Package quantize reduces images to a small color palette with k-means
// clustering.
//
// The engine is a deterministic, Lloyd-style k-means: k distinct pixels are
// sampled as initial centers from a seeded generator, then assignment and
// update steps alternate until the centers move less than a tolerance or an
// iteration cap is hit. The same input, k and seed always produce the same
// labels and centers.
//
// # Quick Start
//
//	q := quantize.New(quantize.WithSeed(42))
//	out, err := q.Quantize(ctx, img, 8)
//	if err != nil {
//	    return err
//	}
//	png.Encode(w, out.Image)
//
// # Clustering Arbitrary Vectors
//
// Cluster works on any set of equal-length float64 vectors:
//
//	res, err := q.Cluster(ctx, points, 4)
//	for i, l := range res.Labels {
//	    fmt.Println(points[i], "->", res.Centers[l])
//	}
//
// # Comparing k
//
// Sweep runs one clustering per candidate k and returns the cost and
// wall-clock time of each run as parallel slices:
//
//	report, err := q.Sweep(ctx, points, []int{2, 4, 8, 16})
//	for i, k := range report.Ks {
//	    fmt.Println(k, report.Costs[i], report.Durations[i])
//	}
//
// # Empty Clusters
//
// When a cluster loses all its members the default policy (FreezeAll) keeps
// every center unchanged for that iteration. KeepEmpty re-averages the other
// clusters instead. Neither policy returns an error; occurrences are counted
// in Result.EmptyClusterEvents and reported to the MetricsCollector.
//
// # Errors
//
// Invalid configuration (k outside [1, len(points)], no points, a negative
// tolerance, ragged vectors) is reported as *InvalidParameterError, which
// matches ErrInvalidParameter with errors.Is.
package quantize
