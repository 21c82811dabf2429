// Package indexed persists quantized images as a palette plus one label per
// pixel.
//
// File layout (little endian):
//
//	magic       [4]byte  "KQIX"
//	version     uint8
//	compression uint8
//	dim         uint8    channels per palette entry
//	width       uint32
//	height      uint32
//	k           uint32   palette size
//	palette     [k*dim]float64
//	labels      block
//
// Labels are packed as uint8 when k <= 256, uint16 when k <= 65536 and
// uint32 otherwise, then written as one block:
//
//	uncompressed uint32
//	compressed   uint32   0 means the data is stored raw
//	data         []byte
//
// A block is stored raw when compression does not save at least 10%.
package indexed
