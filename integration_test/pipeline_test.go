package integration_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quantize"
	"github.com/hupe1980/quantize/blobstore"
	"github.com/hupe1980/quantize/codec"
	"github.com/hupe1980/quantize/indexed"
	"github.com/hupe1980/quantize/pixel"
	"github.com/hupe1980/quantize/resource"
	"github.com/hupe1980/quantize/testutil"
)

// TestPipeline_StoreAndRestore quantizes an image, persists it as an
// indexed file and rebuilds the image from that file.
func TestPipeline_StoreAndRestore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewRetryStore(blobstore.NewLocalStore(t.TempDir()), blobstore.DefaultRetryConfig(), nil)
	rc := resource.NewController(resource.Config{MaxConcurrentRuns: 2, IOLimitBytesPerSec: 64 << 20})

	src := testutil.NewRNG(11).StripedImage(48, 40, testutil.Primaries[:4], 6)

	var buf bytes.Buffer
	require.NoError(t, pixel.Encode(&buf, src, pixel.FormatPNG))
	require.NoError(t, store.Put(ctx, "in/src.png", buf.Bytes()))

	data, err := blobstore.ReadAll(ctx, store, "in/src.png", rc)
	require.NoError(t, err)
	img, _, err := pixel.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	q := quantize.New(quantize.WithResourceController(rc), quantize.WithWorkers(3))
	res, err := q.Quantize(ctx, img, 4)
	require.NoError(t, err)

	for _, c := range []indexed.Compression{indexed.CompressionNone, indexed.CompressionLZ4, indexed.CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, indexed.Encode(&out, &indexed.Image{
				Width:   res.Bounds.Dx(),
				Height:  res.Bounds.Dy(),
				Palette: res.Centers,
				Labels:  res.Labels,
			}, c))
			name := "out/src." + c.String() + ".kqix"
			require.NoError(t, store.Put(ctx, name, out.Bytes()))

			raw, err := blobstore.ReadAll(ctx, store, name, rc)
			require.NoError(t, err)
			ix, err := indexed.Decode(bytes.NewReader(raw))
			require.NoError(t, err)

			restored, err := pixel.Reconstruct(res.Bounds, ix.Labels, ix.Palette)
			require.NoError(t, err)
			assert.Equal(t, res.Image.Pix, restored.Pix)
		})
	}

	names, err := store.List(ctx, "out/")
	require.NoError(t, err)
	assert.Len(t, names, 3)
	assert.Zero(t, rc.MemoryUsage())
}

// TestPipeline_Deterministic checks that two quantizers with the same seed
// agree on every pixel regardless of worker count.
func TestPipeline_Deterministic(t *testing.T) {
	ctx := context.Background()
	img := testutil.NewRNG(5).StripedImage(40, 40, testutil.Primaries, 20)

	a, err := quantize.New(quantize.WithSeed(99)).Quantize(ctx, img, 5)
	require.NoError(t, err)
	b, err := quantize.New(quantize.WithSeed(99), quantize.WithWorkers(4)).Quantize(ctx, img, 5)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Centers, b.Centers)
	assert.Equal(t, a.Image.Pix, b.Image.Pix)
}

func TestPipeline_SweepReport(t *testing.T) {
	ctx := context.Background()
	points := testutil.NewRNG(8).ColorBlobs(2000, testutil.Primaries, 10)

	report, err := quantize.New().Sweep(ctx, points, []int{1, 3, 5})
	require.NoError(t, err)

	for _, name := range []string{"json", "go-json"} {
		c, ok := codec.ByName(name)
		require.True(t, ok)

		data, err := c.Marshal(report)
		require.NoError(t, err)

		var decoded quantize.SweepReport
		require.NoError(t, c.Unmarshal(data, &decoded))
		assert.Equal(t, report.Ks, decoded.Ks)
		assert.Equal(t, report.Costs, decoded.Costs)
	}
}
