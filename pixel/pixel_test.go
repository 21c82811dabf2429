package pixel

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{B: 200, G: 10, A: 255})
			}
		}
	}
	return img
}

func TestFlatten(t *testing.T) {
	img := checkerboard(3, 2)

	points, bounds := Flatten(img)
	assert.Equal(t, img.Bounds(), bounds)
	require.Len(t, points, 6)

	assert.Equal(t, []float64{255, 0, 0}, points[0])
	assert.Equal(t, []float64{0, 10, 200}, points[1])
	// Row-major: index 3 is (0,1).
	assert.Equal(t, []float64{0, 10, 200}, points[3])
	for _, p := range points {
		assert.Len(t, p, Channels)
	}
}

func TestFlatten_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.SetRGBA(6, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	points, bounds := Flatten(img)
	require.Len(t, points, 2)
	assert.Equal(t, []float64{1, 2, 3}, points[1])

	out, err := Reconstruct(bounds, []int{0, 1}, [][]float64{{0, 0, 0}, {1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, out.RGBAAt(6, 5))
}

func TestReconstruct(t *testing.T) {
	img := checkerboard(4, 4)
	points, bounds := Flatten(img)

	labels := make([]int, len(points))
	for i, p := range points {
		if p[0] == 0 {
			labels[i] = 1
		}
	}
	centers := [][]float64{{254.6, -3, 0.4}, {0, 10.2, 300}}

	out, err := Reconstruct(bounds, labels, centers)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 0, G: 10, B: 255, A: 255}, out.RGBAAt(1, 0))
}

func TestReconstruct_Errors(t *testing.T) {
	bounds := image.Rect(0, 0, 2, 2)

	_, err := Reconstruct(bounds, []int{0, 0, 0}, [][]float64{{0, 0, 0}})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Reconstruct(bounds, []int{0, 0, 0, 2}, [][]float64{{0, 0, 0}})
	assert.Error(t, err)

	_, err = Reconstruct(bounds, []int{0, 0, 0, 0}, [][]float64{{0, 0}})
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	img := checkerboard(8, 8)

	for _, format := range []Format{FormatPNG, FormatJPEG} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, img, format))

			decoded, name, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, string(format), name)
			assert.Equal(t, img.Bounds(), decoded.Bounds())
		})
	}

	t.Run("PNGIsLossless", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, img, FormatPNG))
		decoded, _, err := Decode(&buf)
		require.NoError(t, err)

		want, _ := Flatten(img)
		got, _ := Flatten(decoded)
		assert.Equal(t, want, got)
	})

	assert.Error(t, Encode(&bytes.Buffer{}, img, Format("bmp")))
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestFormatFromName(t *testing.T) {
	assert.Equal(t, FormatJPEG, FormatFromName("photo.JPG"))
	assert.Equal(t, FormatJPEG, FormatFromName("a/b/photo.jpeg"))
	assert.Equal(t, FormatPNG, FormatFromName("out.png"))
	assert.Equal(t, FormatPNG, FormatFromName("noext"))
}
