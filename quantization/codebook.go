package quantization

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// codebookHeaderSize is three int32 values: M, K and D.
const codebookHeaderSize = 12

// MarshalBinary encodes the codebook in the vector-set header layout.
func (pq *ProductQuantizer) MarshalBinary() ([]byte, error) {
	buf := make([]byte, codebookHeaderSize+4*len(pq.codebook))
	binary.LittleEndian.PutUint32(buf[0:], uint32(int32(pq.numSubvectors)))
	binary.LittleEndian.PutUint32(buf[4:], uint32(int32(pq.ksPerSubvector)))
	binary.LittleEndian.PutUint32(buf[8:], uint32(int32(pq.dimPerSubvector)))

	off := codebookHeaderSize
	for _, v := range pq.codebook {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	return buf, nil
}

// WriteTo writes the encoded codebook to w.
func (pq *ProductQuantizer) WriteTo(w io.Writer) (int64, error) {
	buf, err := pq.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadCodebook decodes a codebook written by MarshalBinary and builds a
// quantizer from it. A truncated stream yields io.ErrUnexpectedEOF.
func ReadCodebook(r io.Reader) (*ProductQuantizer, error) {
	var hdr [codebookHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, unexpectedEOF(err)
	}

	m := int(int32(binary.LittleEndian.Uint32(hdr[0:])))
	k := int(int32(binary.LittleEndian.Uint32(hdr[4:])))
	d := int(int32(binary.LittleEndian.Uint32(hdr[8:])))
	if err := checkShape(m, k, d); err != nil {
		return nil, err
	}
	n := m * k * d

	raw := make([]byte, 4*n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, unexpectedEOF(err)
	}

	codebook := make([]float32, n)
	for i := range codebook {
		codebook[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}

	return NewProductQuantizer(m, k, d, codebook)
}

// UnmarshalBinary is the inverse of MarshalBinary.
func UnmarshalBinary(data []byte) (*ProductQuantizer, error) {
	return ReadCodebook(bytes.NewReader(data))
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
