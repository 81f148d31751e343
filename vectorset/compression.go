package vectorset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the frame format Write wraps a set in.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// ParseCompression parses "none", "zstd" or "lz4".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "raw":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("vectorset: unknown compression %q", s)
	}
}

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// detect sniffs the frame magic of r and returns a reader of the payload.
// Streams shorter than a magic number are passed through.
//
// The zstd magic read as a row count is negative, so it never collides with
// a raw set. The LZ4 magic is a valid row count; see lz4Descriptor.
func detect(r *bufio.Reader) (io.Reader, Compression, func(), error) {
	magic, err := r.Peek(4)
	if err != nil {
		// Too short for any frame; let the header reader report it.
		return r, CompressionNone, func() {}, nil
	}

	switch {
	case bytes.Equal(magic, zstdMagic):
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, CompressionZstd, nil, err
		}
		return dec, CompressionZstd, dec.Close, nil
	case bytes.Equal(magic, lz4Magic) && lz4Descriptor(r):
		return lz4.NewReader(r), CompressionLZ4, func() {}, nil
	default:
		return r, CompressionNone, func() {}, nil
	}
}

// lz4Descriptor reports whether the two bytes after the LZ4 magic form a
// frame descriptor: version 01, reserved bits clear and a block size code of
// 4 to 7. A raw set with 0x184D2204 rows is only taken for a frame when its
// column count also passes this check.
func lz4Descriptor(r *bufio.Reader) bool {
	hdr, err := r.Peek(6)
	if err != nil {
		return false
	}
	flg, bd := hdr[4], hdr[5]
	return flg>>6 == 0b01 && flg&0x02 == 0 && bd&0x8F == 0 && bd>>4 >= 4
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// compress wraps w in the frame format c. Close flushes the frame but does
// not close w.
func compress(w io.Writer, c Compression, level int) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		opts := []zstd.EOption{zstd.WithEncoderConcurrency(1)}
		if level > 0 {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		return zstd.NewWriter(w, opts...)
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		if level > 0 {
			if err := zw.Apply(lz4.CompressionLevelOption(lz4Level(level))); err != nil {
				return nil, err
			}
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("vectorset: unknown compression %v", c)
	}
}

func lz4Level(level int) lz4.CompressionLevel {
	switch {
	case level <= 1:
		return lz4.Fast
	case level >= 9:
		return lz4.Level9
	default:
		return lz4.CompressionLevel(1 << (8 + level))
	}
}
