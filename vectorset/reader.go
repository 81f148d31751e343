package vectorset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/quantization"
)

// Options describes how a vector-set file is interpreted.
type Options struct {
	// ElementType is the component type of the rows.
	ElementType distance.ElementType

	// Quantized declares that a codebook follows the matrix header and that
	// the rows are uint8 codes of it.
	Quantized bool

	// Install publishes the codebook of a quantized set as the process-wide
	// quantizer once the whole set has been read.
	Install bool

	// MaxBytes bounds the size of the row data. Zero means no limit.
	MaxBytes int64

	// Reserve, if set, is called with the size of the row data before it
	// is allocated. An error aborts the read. Release is called with the
	// same size if the read fails afterwards.
	Reserve func(bytes int64) error
	Release func(bytes int64)
}

// Info summarizes a successful read.
type Info struct {
	Compression Compression
	DataBytes   int64
}

const headerSize = 8

// Read parses a vector set from r.
func Read(r io.Reader, opts Options) (*Set, error) {
	s, _, err := ReadWithInfo(r, opts)
	return s, err
}

// ReadWithInfo parses a vector set from r and reports how it was stored.
func ReadWithInfo(r io.Reader, opts Options) (*Set, Info, error) {
	var info Info

	if !opts.ElementType.Valid() {
		return nil, info, fmt.Errorf("%w: %v", distance.ErrUnknownElementType, opts.ElementType)
	}

	src, c, closeFn, err := detect(bufio.NewReaderSize(r, 64<<10))
	if err != nil {
		return nil, info, fmt.Errorf("vectorset: open %s frame: %w", c, err)
	}
	defer closeFn()
	info.Compression = c

	var hdr [headerSize]byte
	if _, err := io.ReadFull(src, hdr[:]); err != nil {
		return nil, info, shortRead("header", err)
	}

	rows := int64(int32(binary.LittleEndian.Uint32(hdr[0:])))
	cols := int64(int32(binary.LittleEndian.Uint32(hdr[4:])))
	if rows < 0 {
		return nil, info, &HeaderError{Field: "rows", Value: rows, Reason: "negative"}
	}
	if cols < 0 {
		return nil, info, &HeaderError{Field: "cols", Value: cols, Reason: "negative"}
	}

	var pq *quantization.ProductQuantizer
	if opts.Quantized {
		pq, err = quantization.ReadCodebook(src)
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, info, shortRead("codebook", err)
			}
			return nil, info, &HeaderError{Field: "codebook", Reason: "unusable", Err: err}
		}
		if err := checkCodes(opts.ElementType, int(cols), pq); err != nil {
			return nil, info, err
		}
	}

	size := int64(opts.ElementType.Size())
	hi, n := bits.Mul64(uint64(rows*cols), uint64(size))
	if hi != 0 || n > math.MaxInt {
		return nil, info, &HeaderError{Field: "rows", Value: rows, Reason: "matrix too large"}
	}
	if opts.MaxBytes > 0 && int64(n) > opts.MaxBytes {
		return nil, info, &HeaderError{Field: "rows", Value: rows, Reason: fmt.Sprintf("%d bytes exceed limit %d", n, opts.MaxBytes)}
	}

	if opts.Reserve != nil {
		if err := opts.Reserve(int64(n)); err != nil {
			return nil, info, fmt.Errorf("vectorset: reserve %d bytes: %w", n, err)
		}
	}

	data := alloc(int(n))
	if _, err := io.ReadFull(src, data); err != nil {
		if opts.Release != nil {
			opts.Release(int64(n))
		}
		return nil, info, shortRead("rows", err)
	}
	if pq != nil {
		if err := checkRowCodes(data, int(cols), pq); err != nil {
			if opts.Release != nil {
				opts.Release(int64(n))
			}
			return nil, info, err
		}
	}
	toHostOrder(data, int(size))
	info.DataBytes = int64(n)

	s := &Set{
		rows:     int(rows),
		cols:     int(cols),
		elemType: opts.ElementType,
		pq:       pq,
		data:     data,
	}

	if opts.Install && pq != nil {
		s.Install()
	}

	return s, info, nil
}

func shortRead(section string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s: %w", ErrShortRead, section, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("vectorset: read %s: %w", section, err)
}

var bigEndianHost = binary.NativeEndian.Uint16([]byte{0, 1}) == 1

// toHostOrder converts little-endian elements of the given size in place.
func toHostOrder(data []byte, size int) {
	if !bigEndianHost || size == 1 {
		return
	}
	for i := 0; i+size <= len(data); i += size {
		for a, b := i, i+size-1; a < b; a, b = a+1, b-1 {
			data[a], data[b] = data[b], data[a]
		}
	}
}
