package benchmark_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/quantize"
	"github.com/hupe1980/quantize/indexed"
	"github.com/hupe1980/quantize/pixel"
	"github.com/hupe1980/quantize/testutil"
)

func BenchmarkCluster_Workers(b *testing.B) {
	rng := testutil.NewRNG(1)
	points := rng.ColorBlobs(50_000, testutil.Primaries, 20)

	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			q := quantize.New(quantize.WithWorkers(workers))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := q.Cluster(context.Background(), points, 8); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCluster_K(b *testing.B) {
	rng := testutil.NewRNG(2)
	points := rng.UniformColors(20_000)

	for _, k := range []int{2, 16, 64} {
		b.Run(fmt.Sprintf("k=%d", k), func(b *testing.B) {
			q := quantize.New(quantize.WithMaxIterations(20))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := q.Cluster(context.Background(), points, k); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkQuantize_Image(b *testing.B) {
	rng := testutil.NewRNG(3)
	img := rng.StripedImage(256, 256, testutil.Primaries, 10)
	q := quantize.New(quantize.WithWorkers(4))

	b.ReportAllocs()
	b.SetBytes(256 * 256 * pixel.Channels)
	for b.Loop() {
		if _, err := q.Quantize(context.Background(), img, 5); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkIndexed_Encode(b *testing.B) {
	rng := testutil.NewRNG(4)
	img := rng.StripedImage(256, 256, testutil.Primaries, 10)
	res, err := quantize.New().Quantize(context.Background(), img, 5)
	if err != nil {
		b.Fatal(err)
	}
	ix := &indexed.Image{Width: 256, Height: 256, Palette: res.Centers, Labels: res.Labels}

	for _, c := range []indexed.Compression{indexed.CompressionNone, indexed.CompressionLZ4, indexed.CompressionZSTD} {
		b.Run(c.String(), func(b *testing.B) {
			var buf bytes.Buffer
			b.ReportAllocs()
			for b.Loop() {
				buf.Reset()
				if err := indexed.Encode(&buf, ix, c); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(buf.Len()), "encoded-bytes")
		})
	}
}
