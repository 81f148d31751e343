package distance_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/quantization"
	"github.com/hupe1980/vecdist/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tiers = []distance.Tier{distance.TierScalar, distance.TierNarrow, distance.TierWide}

func engines(opts ...distance.Option) []*distance.Engine {
	out := make([]*distance.Engine, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, distance.New(append([]distance.Option{distance.WithTier(t)}, opts...)...))
	}
	return out
}

func TestFloatScenario(t *testing.T) {
	x := []float32{1, 2, 3, 4, 5}
	y := []float32{2, 2, 2, 2, 2}

	for _, e := range engines() {
		t.Run(e.Tier().String(), func(t *testing.T) {
			assert.Equal(t, float32(15), e.SquaredL2Float32(x, y))
			assert.Equal(t, float32(-29), e.CosineFloat32(x, y))

			assert.Equal(t, float32(15), e.Distance(distance.MetricL2, distance.Float32, distance.Bytes(x), distance.Bytes(y), 5))
			assert.Equal(t, float32(-29), e.Distance(distance.MetricCosine, distance.Float32, distance.Bytes(x), distance.Bytes(y), 5))
		})
	}
}

func TestInt8Scenario(t *testing.T) {
	x := []int8{127, -128, 0}

	for _, e := range engines() {
		t.Run(e.Tier().String(), func(t *testing.T) {
			assert.Equal(t, float32(0), distance.Compute(e, distance.MetricL2, x, x))
			assert.Equal(t, float32(-16384), distance.Compute(e, distance.MetricCosine, x, x))
		})
	}
}

func TestCosineConstants(t *testing.T) {
	tests := []struct {
		typ  distance.ElementType
		base int
		c    float32
		size int
	}{
		{distance.Int8, 127, 16129, 1},
		{distance.Uint8, 255, 65025, 1},
		{distance.Int16, 32767, 1073676289, 2},
		{distance.Float32, 1, 1, 4},
	}
	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			assert.Equal(t, tc.base, tc.typ.Base())
			assert.Equal(t, tc.c, tc.typ.CosineConstant())
			assert.Equal(t, tc.size, tc.typ.Size())
			assert.True(t, tc.typ.Valid())
		})
	}
	assert.False(t, distance.ElementType(9).Valid())
}

func TestZeroLength(t *testing.T) {
	types := []distance.ElementType{distance.Int8, distance.Uint8, distance.Int16, distance.Float32}
	metrics := []distance.Metric{distance.MetricL2, distance.MetricCosine}

	q := gateQuantizer(t)
	for _, e := range append(engines(), engines(distance.WithQuantizer(q))...) {
		for _, typ := range types {
			for _, m := range metrics {
				assert.Equal(t, float32(0), e.Distance(m, typ, nil, nil, 0), "%s %s %s", e.Tier(), typ, m)

				fn, err := e.Func(m, typ)
				require.NoError(t, err)
				assert.Equal(t, float32(0), fn(nil, nil, 0))
			}
		}
		assert.Equal(t, float32(0), e.CosineInt8(nil, nil))
		assert.Equal(t, float32(0), e.CosineInt16([]int16{}, []int16{}))
		assert.Equal(t, float32(0), e.CosineUint8(nil, nil))
	}
}

// gateQuantizer has codebooks {0,1,2,3} and {0,10,20,30}.
func gateQuantizer(t *testing.T) *quantization.ProductQuantizer {
	t.Helper()
	q, err := quantization.NewProductQuantizer(2, 4, 1, []float32{0, 1, 2, 3, 0, 10, 20, 30})
	require.NoError(t, err)
	return q
}

func TestQuantizerGate(t *testing.T) {
	q := gateQuantizer(t)
	x := []uint8{1, 2}
	y := []uint8{3, 0}

	for _, raw := range engines() {
		t.Run(raw.Tier().String(), func(t *testing.T) {
			gated := raw.WithQuantizer(q)
			assert.Equal(t, raw.Tier(), gated.Tier())
			assert.Nil(t, raw.Quantizer())

			// Raw byte arithmetic.
			assert.Equal(t, float32(8), raw.SquaredL2Uint8(x, y))
			assert.Equal(t, float32(65022), raw.CosineUint8(x, y))

			// Codebook lookup.
			assert.Equal(t, float32(404), gated.SquaredL2Uint8(x, y))
			assert.Equal(t, float32(-2), gated.CosineUint8(x, y))
			assert.Equal(t, float32(404), distance.Compute(gated, distance.MetricL2, x, y))
			assert.Equal(t, float32(404), gated.Distance(distance.MetricL2, distance.Uint8, x, y, 2))
			assert.Equal(t, float32(-2), gated.Distance(distance.MetricCosine, distance.Uint8, x, y, 2))

			fn, err := gated.Func(distance.MetricL2, distance.Uint8)
			require.NoError(t, err)
			assert.Equal(t, float32(404), fn(x, y, 2))

			// Other element types never consult the quantizer.
			xi := []int8{1, 2}
			yi := []int8{3, 0}
			assert.Equal(t, raw.SquaredL2Int8(xi, yi), gated.SquaredL2Int8(xi, yi))
			assert.Equal(t, float32(8), gated.SquaredL2Int8(xi, yi))

			assert.Nil(t, gated.WithQuantizer(nil).Quantizer())
			assert.Equal(t, float32(8), gated.WithQuantizer(nil).SquaredL2Uint8(x, y))
		})
	}
}

func TestTierEquivalence(t *testing.T) {
	rng := testutil.NewRNG(11)
	es := engines()

	for dim := 0; dim <= 4*32+5; dim += 3 {
		checkTypeEquivalence[int8](t, rng, es, dim)
		checkTypeEquivalence[uint8](t, rng, es, dim)
		checkTypeEquivalence[int16](t, rng, es, dim)
		checkTypeEquivalence[float32](t, rng, es, dim)
	}
}

func checkTypeEquivalence[E distance.Element](t *testing.T, rng *testutil.RNG, es []*distance.Engine, dim int) {
	t.Helper()
	x := testutil.Vector[E](rng, dim)
	y := testutil.Vector[E](rng, dim)
	typ := distance.TypeOf[E]()

	_, l2Scale := testutil.ReferenceSquaredL2(x, y)
	_, dotScale := testutil.ReferenceDot(x, y)
	cosScale := dotScale + float64(typ.CosineConstant())

	base := es[0]
	for _, e := range es[1:] {
		msg := fmt.Sprintf("%s %s dim=%d", e.Tier(), typ, dim)
		testutil.AssertClose(t,
			float64(distance.Compute(base, distance.MetricL2, x, y)),
			float64(distance.Compute(e, distance.MetricL2, x, y)), l2Scale, msg)
		testutil.AssertClose(t,
			float64(distance.Compute(base, distance.MetricCosine, x, y)),
			float64(distance.Compute(e, distance.MetricCosine, x, y)), cosScale, msg)

		assert.Equal(t,
			distance.Compute(e, distance.MetricL2, x, y),
			e.Distance(distance.MetricL2, typ, distance.Bytes(x), distance.Bytes(y), dim), msg)
	}
}

func TestSymmetryAndSelf(t *testing.T) {
	rng := testutil.NewRNG(3)
	for _, e := range engines() {
		for _, dim := range []int{1, 17, 64, 131} {
			checkSymmetryAndSelf[int8](t, rng, e, dim)
			checkSymmetryAndSelf[uint8](t, rng, e, dim)
			checkSymmetryAndSelf[int16](t, rng, e, dim)
			checkSymmetryAndSelf[float32](t, rng, e, dim)
		}
	}
}

func checkSymmetryAndSelf[E distance.Element](t *testing.T, rng *testutil.RNG, e *distance.Engine, dim int) {
	t.Helper()
	a := testutil.Vector[E](rng, dim)
	b := testutil.Vector[E](rng, dim)

	for _, m := range []distance.Metric{distance.MetricL2, distance.MetricCosine} {
		msg := fmt.Sprintf("%s %s %s dim=%d", e.Tier(), distance.TypeOf[E](), m, dim)
		assert.Equal(t, distance.Compute(e, m, a, b), distance.Compute(e, m, b, a), msg)
	}
	assert.Equal(t, float32(0), distance.Compute(e, distance.MetricL2, a, a), "%s %s dim=%d", e.Tier(), distance.TypeOf[E](), dim)
}

func TestTypedNilQuantizer(t *testing.T) {
	var pq *quantization.ProductQuantizer

	e := distance.New(distance.WithTier(distance.TierScalar), distance.WithQuantizer(pq))
	assert.Nil(t, e.Quantizer())
	assert.Equal(t, float32(25), e.SquaredL2Uint8([]uint8{0, 3}, []uint8{4, 0}))

	assert.Nil(t, e.WithQuantizer(pq).Quantizer())

	t.Cleanup(func() { distance.SetDefault(nil) })
	distance.SetQuantizer(pq)
	assert.Nil(t, distance.InstalledQuantizer())
	assert.Equal(t, float32(25), distance.Distance(distance.MetricL2, distance.Uint8, []byte{0, 3}, []byte{4, 0}, 2))
}

func TestFuncErrors(t *testing.T) {
	e := distance.New()

	_, err := e.Func(distance.Metric(7), distance.Int8)
	assert.ErrorIs(t, err, distance.ErrUnknownMetric)

	_, err = e.Func(distance.MetricL2, distance.ElementType(7))
	assert.ErrorIs(t, err, distance.ErrUnknownElementType)

	assert.Equal(t, float32(0), e.Distance(distance.MetricL2, distance.ElementType(7), []byte{1}, []byte{2}, 1))
}

func TestParse(t *testing.T) {
	m, err := distance.ParseMetric(" COSINE ")
	require.NoError(t, err)
	assert.Equal(t, distance.MetricCosine, m)
	assert.Equal(t, "Cosine", m.String())

	_, err = distance.ParseMetric("dot")
	assert.ErrorIs(t, err, distance.ErrUnknownMetric)

	typ, err := distance.ParseElementType("float")
	require.NoError(t, err)
	assert.Equal(t, distance.Float32, typ)

	_, err = distance.ParseElementType("int64")
	assert.ErrorIs(t, err, distance.ErrUnknownElementType)

	tier, err := distance.ParseTier("neon")
	require.NoError(t, err)
	assert.Equal(t, distance.TierNarrow, tier)

	_, err = distance.ParseTier("sve")
	assert.ErrorIs(t, err, distance.ErrUnknownTier)

	assert.Equal(t, "Unknown(9)", distance.Metric(9).String())
	assert.Equal(t, distance.Int16, distance.TypeOf[int16]())
}

func TestViewBytes(t *testing.T) {
	v := []int16{1, -2, 300}
	b := distance.Bytes(v)
	require.Len(t, b, 6)

	back := distance.View[int16](b, 3)
	assert.Equal(t, v, back)
	assert.Nil(t, distance.View[int16](b, 0))
	assert.Nil(t, distance.Bytes([]float32{}))

	assert.Panics(t, func() { distance.View[int16](b, 4) })
}

func TestProvider(t *testing.T) {
	fn, err := distance.Provider(distance.MetricL2)
	require.NoError(t, err)
	assert.Equal(t, float32(27), fn([]float32{1, 2, 3}, []float32{4, 5, 6}))

	fn, err = distance.Provider(distance.MetricCosine)
	require.NoError(t, err)
	assert.Equal(t, float32(0), fn([]float32{1, 0}, []float32{1, 0}))

	_, err = distance.Provider(distance.Metric(5))
	assert.ErrorIs(t, err, distance.ErrUnknownMetric)
}

func TestConcurrentUse(t *testing.T) {
	q := gateQuantizer(t)
	e := distance.New(distance.WithQuantizer(q))
	x := []uint8{1, 2}
	y := []uint8{3, 0}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				if e.SquaredL2Uint8(x, y) != 404 {
					t.Error("unexpected distance")
					return
				}
			}
		}()
	}
	wg.Wait()
}
