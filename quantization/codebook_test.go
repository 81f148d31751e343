package quantization

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodebookLayout(t *testing.T) {
	pq := tinyQuantizer(t)

	data, err := pq.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 12+8*4)

	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[8:]))

	// Subvector 1, centroid 2 is the seventh float.
	var v float32
	require.NoError(t, binary.Read(bytes.NewReader(data[12+6*4:]), binary.LittleEndian, &v))
	assert.Equal(t, float32(20), v)

	back, err := UnmarshalBinary(data)
	require.NoError(t, err)
	assert.Equal(t, pq.Codebook(), back.Codebook())
	assert.Equal(t, pq.L2Distance([]byte{1, 2}, []byte{3, 0}), back.L2Distance([]byte{1, 2}, []byte{3, 0}))

	var buf bytes.Buffer
	n, err := pq.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, data, buf.Bytes())
}

func TestReadCodebook_Truncated(t *testing.T) {
	pq := tinyQuantizer(t)
	data, err := pq.MarshalBinary()
	require.NoError(t, err)

	for _, n := range []int{0, 5, 12, len(data) - 1} {
		_, err := ReadCodebook(bytes.NewReader(data[:n]))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "length %d", n)
	}
}

func TestReadCodebook_BadShape(t *testing.T) {
	tests := []struct {
		name    string
		m, k, d uint32
	}{
		{"NegativeK", 2, 0xFFFFFFFF, 1},
		{"ZeroD", 2, 4, 0},
		{"TooManyCentroids", 1, 257, 1},
		{"ProductOverflows", math.MaxInt32, 4, math.MaxInt32},
		{"CodebookTooLarge", 1, 256, 1 << 21},
		{"TablesTooLarge", 1 << 20, 256, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hdr := make([]byte, 12)
			binary.LittleEndian.PutUint32(hdr[0:], tc.m)
			binary.LittleEndian.PutUint32(hdr[4:], tc.k)
			binary.LittleEndian.PutUint32(hdr[8:], tc.d)

			_, err := ReadCodebook(bytes.NewReader(hdr))
			assert.ErrorIs(t, err, ErrInvalidCodebook)
		})
	}
}
