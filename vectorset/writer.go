package vectorset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
)

// WriteOptions configures Write.
type WriteOptions struct {
	Compression Compression
	// Level is the compression level; zero selects the codec default.
	Level int
}

// Write encodes s to w. Quantized sets include their codebook.
func Write(w io.Writer, s *Set, opts WriteOptions) error {
	bw := bufio.NewWriterSize(w, 64<<10)

	cw, err := compress(bw, opts.Compression, opts.Level)
	if err != nil {
		return err
	}

	if err := writeSet(cw, s); err != nil {
		_ = cw.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		return err
	}
	return bw.Flush()
}

// Encode returns the encoded form of s.
func Encode(s *Set, opts WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, s, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSet(w io.Writer, s *Set) error {
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(int32(s.rows)))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(int32(s.cols)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	if s.pq != nil {
		if _, err := s.pq.WriteTo(w); err != nil {
			return err
		}
	}

	if !bigEndianHost || s.elemType.Size() == 1 {
		_, err := w.Write(s.data)
		return err
	}

	le := bytes.Clone(s.data)
	toHostOrder(le, s.elemType.Size())
	_, err := w.Write(le)
	return err
}
