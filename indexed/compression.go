package indexed

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the label block compression.
type Compression uint8

const (
	// CompressionNone stores labels raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("indexed: unknown compression %q", s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxWindow(zstdMaxWindow),
	)
	return dec
}

const (
	blockHeaderSize = 8

	// lz4MaxRatio bounds how far one LZ4 block can expand: a single
	// match-length byte adds at most 255 output bytes.
	lz4MaxRatio = 255

	// zstdMaxWindow caps the history a frame header can make the decoder
	// allocate. It is well above the encoder's default window.
	zstdMaxWindow = 64 << 20
)

// writeBlock writes data as a block, compressed if that saves at least 10%.
func writeBlock(w io.Writer, data []byte, c Compression) error {
	var compressed []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return fmt.Errorf("indexed: lz4: %w", err)
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return fmt.Errorf("indexed: unknown compression %d", c)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		compressed = nil
	}

	var hdr [blockHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(compressed)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	payload := data
	if compressed != nil {
		payload = compressed
	}
	_, err := w.Write(payload)
	return err
}

// readBlock reads one block and returns its uncompressed content.
// want is the expected uncompressed size.
func readBlock(r io.Reader, c Compression, want uint32) ([]byte, error) {
	var hdr [blockHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: block header: %w", ErrInvalidFormat, err)
	}
	uncompressedSize := binary.LittleEndian.Uint32(hdr[0:])
	compressedSize := binary.LittleEndian.Uint32(hdr[4:])

	if uncompressedSize != want {
		return nil, fmt.Errorf("%w: block holds %d bytes, want %d", ErrInvalidFormat, uncompressedSize, want)
	}

	if compressedSize == 0 {
		data, err := readN(r, uncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("%w: block data: %w", ErrInvalidFormat, err)
		}
		return data, nil
	}

	compressed, err := readN(r, compressedSize)
	if err != nil {
		return nil, fmt.Errorf("%w: block data: %w", ErrInvalidFormat, err)
	}

	switch c {
	case CompressionLZ4:
		if uint64(uncompressedSize) > uint64(compressedSize)*lz4MaxRatio {
			return nil, fmt.Errorf("%w: lz4 block of %d bytes cannot hold %d", ErrInvalidFormat, compressedSize, uncompressedSize)
		}
		result := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(compressed, result)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrInvalidFormat, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, errors.Join(ErrInvalidFormat, errors.New("decompressed size mismatch"))
		}
		return result, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		if err := dec.Reset(bytes.NewReader(compressed)); err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrInvalidFormat, err)
		}
		decoded, err := readN(dec, uncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrInvalidFormat, err)
		}
		var extra [1]byte
		if n, _ := dec.Read(extra[:]); n != 0 {
			return nil, errors.Join(ErrInvalidFormat, errors.New("decompressed size mismatch"))
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: compressed block with compression %s", ErrInvalidFormat, c)
	}
}

// readN reads exactly n bytes. The buffer grows as data arrives, so a size
// taken from a corrupt header costs no more memory than the input holds.
func readN(r io.Reader, n uint32) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
