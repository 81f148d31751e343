package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector(t *testing.T) {
	rng := NewRNG(4711)

	i8 := Vector[int8](rng, 4096)
	assert.Len(t, i8, 4096)
	assert.Contains(t, i8, int8(-128))
	assert.Contains(t, i8, int8(127))

	u8 := Vector[uint8](rng, 4096)
	assert.Contains(t, u8, uint8(0))
	assert.Contains(t, u8, uint8(255))

	f := Vector[float32](rng, 64)
	for _, v := range f {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.Less(t, v, float32(1))
	}
}

func TestUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UnitVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))

	for _, vec := range v {
		var sum float32
		for _, val := range vec {
			sum += val * val
		}
		assert.InDelta(t, float32(1.0), sum, 1e-5)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformVectors(1, 10)
	rng.Reset()
	v2 := rng.UniformVectors(1, 10)
	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestReference(t *testing.T) {
	want, scale := ReferenceSquaredL2([]float32{1, 2, 3, 4, 5}, []float32{2, 2, 2, 2, 2})
	assert.Equal(t, 15.0, want)
	assert.Equal(t, 15.0, scale)

	want, scale = ReferenceDot([]int8{1, -2}, []int8{3, 4})
	assert.Equal(t, -5.0, want)
	assert.Equal(t, 11.0, scale)
}
