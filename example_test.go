package quantize_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/quantize"
	"github.com/hupe1980/quantize/testutil"
)

// ExampleQuantizer_Cluster clusters four colors into two groups.
func ExampleQuantizer_Cluster() {
	points := [][]float64{
		{0, 0, 0},
		{0, 0, 1},
		{10, 10, 10},
		{10, 10, 11},
	}

	q := quantize.New(quantize.WithSeed(42))
	res, err := q.Cluster(context.Background(), points, 2)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("dark together:", res.Labels[0] == res.Labels[1])
	fmt.Println("light together:", res.Labels[2] == res.Labels[3])
	fmt.Printf("cost: %.2f\n", res.Cost)
	// Output:
	// dark together: true
	// light together: true
	// cost: 1.00
}

// ExampleQuantizer_Quantize reduces a synthetic image to a single color.
func ExampleQuantizer_Quantize() {
	img := testutil.NewRNG(1).StripedImage(16, 16, testutil.Primaries, 0)

	out, err := quantize.New().Quantize(context.Background(), img, 1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("palette:", len(out.Palette))
	fmt.Println("pixels:", out.Sizes()[0])
	// Output:
	// palette: 1
	// pixels: 256
}

// ExampleQuantizer_Sweep compares candidate cluster counts.
func ExampleQuantizer_Sweep() {
	points := [][]float64{{0}, {1}, {10}, {11}}

	report, err := quantize.New().Sweep(context.Background(), points, []int{1, 2, 4})
	if err != nil {
		log.Fatal(err)
	}

	for i, k := range report.Ks {
		fmt.Printf("k=%d cost=%.1f\n", k, report.Costs[i])
	}
	// Output:
	// k=1 cost=101.0
	// k=2 cost=1.0
	// k=4 cost=0.0
}
