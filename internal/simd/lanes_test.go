package simd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEightBitLaneBound(t *testing.T) {
	assert.Less(t, int64(maxEightBitLane), int64(math.MaxInt32))
	assert.Equal(t, int64(260100), int64(maxEightBitLane))
}

func TestEightBitLaneLayout(t *testing.T) {
	// One-hot inputs show which lane each element lands in.
	for e := 0; e < 16; e++ {
		x := make([]uint8, 16)
		y := make([]uint8, 16)
		x[e] = 1
		y[e] = 1

		acc := mul8(x, y)

		want := (e % 8) / 2
		for j := range acc {
			if j == want {
				assert.Equal(t, float32(1), acc[j], "element %d", e)
			} else {
				assert.Equal(t, float32(0), acc[j], "element %d", e)
			}
		}
	}
}

func TestInt16SquaredLaneLayout(t *testing.T) {
	for e := 0; e < 8; e++ {
		x := make([]int16, 8)
		y := make([]int16, 8)
		x[e] = 3

		acc := sqdf16(x, y)
		assert.Equal(t, float32(9), acc[e%4], "element %d", e)
	}
}

func TestLaneWidths(t *testing.T) {
	require.Equal(t, BatchWidth[int8](Narrow), width8)
	require.Equal(t, BatchWidth[uint8](Narrow), width8)
	require.Equal(t, BatchWidth[int16](Narrow), width16)
	require.Equal(t, BatchWidth[float32](Narrow), width32)
}

func TestInt16DotLaneLayout(t *testing.T) {
	for e := 0; e < 8; e++ {
		x := make([]int16, 8)
		y := make([]int16, 8)
		x[e] = 2
		y[e] = 5

		acc := mul16(x, y)
		assert.Equal(t, float32(10), acc[e/2], "element %d", e)
		assert.Equal(t, float32(10), acc.sum(), "element %d", e)
	}
}

func TestLanesFold(t *testing.T) {
	a := lanes{1, 2, 3, 4}
	b := lanes{10, 20, 30, 40}
	assert.Equal(t, lanes{11, 22, 33, 44}, a.add(b))
	assert.Equal(t, float32(110), a.add(b).sum())
}

func TestOverrideIsAvailable(t *testing.T) {
	if IsOverridden() {
		assert.True(t, IsAvailable(ActiveTier()))
	}
	assert.False(t, IsAvailable(Tier(42)))
}
