package indexed

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrInvalidFormat is returned when decoding malformed data.
var ErrInvalidFormat = errors.New("indexed: invalid format")

const (
	magic   = "KQIX"
	version = 1

	headerSize = len(magic) + 3 + 3*4

	// maxLabelBytes is the largest packed label block the u32 block header
	// can describe.
	maxLabelBytes = math.MaxUint32
)

// Image is a palette-indexed image: pixel i (row-major) has the color
// Palette[Labels[i]].
type Image struct {
	Width   int
	Height  int
	Palette [][]float64
	Labels  []int
}

// Validate checks the image is internally consistent.
func (img *Image) Validate() error {
	if img.Width < 0 || img.Height < 0 || uint64(img.Width) > math.MaxUint32 || uint64(img.Height) > math.MaxUint32 {
		return fmt.Errorf("indexed: invalid size %dx%d", img.Width, img.Height)
	}
	if uint64(len(img.Palette)) > math.MaxUint32 {
		return fmt.Errorf("indexed: palette of %d entries is too large", len(img.Palette))
	}
	if _, ok := labelBytes(img.Width, img.Height, len(img.Palette)); !ok {
		return fmt.Errorf("indexed: %dx%d labels exceed %d bytes", img.Width, img.Height, uint64(maxLabelBytes))
	}
	if len(img.Labels) != img.Width*img.Height {
		return fmt.Errorf("indexed: %d labels for %dx%d pixels", len(img.Labels), img.Width, img.Height)
	}
	if len(img.Palette) == 0 {
		return errors.New("indexed: empty palette")
	}
	dim := len(img.Palette[0])
	if dim == 0 || dim > math.MaxUint8 {
		return fmt.Errorf("indexed: invalid palette dimension %d", dim)
	}
	for j, c := range img.Palette {
		if len(c) != dim {
			return fmt.Errorf("indexed: palette entry %d has dimension %d, want %d", j, len(c), dim)
		}
	}
	for i, l := range img.Labels {
		if l < 0 || l >= len(img.Palette) {
			return fmt.Errorf("indexed: label %d at %d out of range [0,%d)", l, i, len(img.Palette))
		}
	}
	return nil
}

// labelWidth returns the bytes used per label for a palette of size k.
func labelWidth(k int) int {
	switch {
	case k <= 1<<8:
		return 1
	case k <= 1<<16:
		return 2
	default:
		return 4
	}
}

// labelBytes returns the packed label size of a width x height image with a
// palette of k entries, and false if it does not fit a block.
func labelBytes(width, height, k int) (uint32, bool) {
	n := uint64(width) * uint64(height)
	if n > maxLabelBytes {
		return 0, false
	}
	n *= uint64(labelWidth(k))
	if n > maxLabelBytes {
		return 0, false
	}
	return uint32(n), true
}

// Encode writes img using the given label compression.
func Encode(w io.Writer, img *Image, c Compression) error {
	if err := img.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	k := len(img.Palette)
	dim := len(img.Palette[0])

	hdr := make([]byte, headerSize)
	copy(hdr, magic)
	hdr[4] = version
	hdr[5] = byte(c)
	hdr[6] = byte(dim)
	binary.LittleEndian.PutUint32(hdr[7:], uint32(img.Width))
	binary.LittleEndian.PutUint32(hdr[11:], uint32(img.Height))
	binary.LittleEndian.PutUint32(hdr[15:], uint32(k))
	if _, err := bw.Write(hdr); err != nil {
		return err
	}

	var buf [8]byte
	for _, center := range img.Palette {
		for _, v := range center {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			if _, err := bw.Write(buf[:]); err != nil {
				return err
			}
		}
	}

	if err := writeBlock(bw, packLabels(img.Labels, labelWidth(k)), c); err != nil {
		return err
	}
	return bw.Flush()
}

// Decode reads an image written by Encode.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrInvalidFormat, err)
	}
	if string(hdr[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, hdr[:4])
	}
	if hdr[4] != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, hdr[4])
	}

	c := Compression(hdr[5])
	dim := int(hdr[6])
	width := int(binary.LittleEndian.Uint32(hdr[7:]))
	height := int(binary.LittleEndian.Uint32(hdr[11:]))
	k := int(binary.LittleEndian.Uint32(hdr[15:]))
	if dim == 0 || k <= 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidFormat)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: invalid size", ErrInvalidFormat)
	}
	lw := labelWidth(k)
	want, ok := labelBytes(width, height, k)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d labels exceed block size", ErrInvalidFormat, width, height)
	}

	// Sizes come from untrusted input: the palette grows one row at a time
	// so a lying header fails on the first missing row.
	palette := make([][]float64, 0, min(k, 256))
	var buf [8]byte
	for len(palette) < k {
		row := make([]float64, dim)
		for i := range row {
			if _, err := io.ReadFull(br, buf[:]); err != nil {
				return nil, fmt.Errorf("%w: palette: %w", ErrInvalidFormat, err)
			}
			row[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
		}
		palette = append(palette, row)
	}

	data, err := readBlock(br, c, want)
	if err != nil {
		return nil, err
	}

	img := &Image{
		Width:   width,
		Height:  height,
		Palette: palette,
		Labels:  unpackLabels(data, lw),
	}
	for i, l := range img.Labels {
		if l >= k {
			return nil, fmt.Errorf("%w: label %d at %d exceeds palette size %d", ErrInvalidFormat, l, i, k)
		}
	}
	return img, nil
}

func packLabels(labels []int, width int) []byte {
	out := make([]byte, len(labels)*width)
	for i, l := range labels {
		switch width {
		case 1:
			out[i] = byte(l)
		case 2:
			binary.LittleEndian.PutUint16(out[i*2:], uint16(l))
		default:
			binary.LittleEndian.PutUint32(out[i*4:], uint32(l))
		}
	}
	return out
}

func unpackLabels(data []byte, width int) []int {
	labels := make([]int, len(data)/width)
	for i := range labels {
		switch width {
		case 1:
			labels[i] = int(data[i])
		case 2:
			labels[i] = int(binary.LittleEndian.Uint16(data[i*2:]))
		default:
			labels[i] = int(binary.LittleEndian.Uint32(data[i*4:]))
		}
	}
	return labels
}
