package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// Channels is the dimension of a color vector (R, G, B).
const Channels = 3

// ErrShapeMismatch is returned when labels do not cover the target bounds.
var ErrShapeMismatch = errors.New("pixel: labels do not match image bounds")

// Flatten returns one RGB vector per pixel of img in row-major order together
// with the bounds needed to reshape them. Channels are in [0, 255].
func Flatten(img image.Image) ([][]float64, image.Rectangle) {
	b := img.Bounds()
	points := make([][]float64, 0, b.Dx()*b.Dy())
	flat := make([]float64, b.Dx()*b.Dy()*Channels)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			v := flat[i : i+Channels : i+Channels]
			v[0], v[1], v[2] = float64(c.R), float64(c.G), float64(c.B)
			points = append(points, v)
			i += Channels
		}
	}
	return points, b
}

// Reconstruct paints an image of the given bounds where pixel i takes the
// color centers[labels[i]]. Center channels are rounded and clamped to
// [0, 255]; alpha is opaque.
func Reconstruct(bounds image.Rectangle, labels []int, centers [][]float64) (*image.RGBA, error) {
	if len(labels) != bounds.Dx()*bounds.Dy() {
		return nil, fmt.Errorf("%w: %d labels for %dx%d", ErrShapeMismatch, len(labels), bounds.Dx(), bounds.Dy())
	}

	palette, err := Palette(centers)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(bounds)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			l := labels[i]
			if l < 0 || l >= len(palette) {
				return nil, fmt.Errorf("pixel: label %d at index %d out of range [0,%d)", l, i, len(palette))
			}
			img.SetRGBA(x, y, palette[l])
			i++
		}
	}
	return img, nil
}

// Palette converts centers to displayable colors.
func Palette(centers [][]float64) ([]color.RGBA, error) {
	palette := make([]color.RGBA, len(centers))
	for j, c := range centers {
		if len(c) != Channels {
			return nil, fmt.Errorf("pixel: center %d has %d channels, want %d", j, len(c), Channels)
		}
		palette[j] = color.RGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: 0xff}
	}
	return palette, nil
}

func channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(max(0, min(255, v))))
}
