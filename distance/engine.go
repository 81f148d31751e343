package distance

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/hupe1980/vecdist/internal/simd"
)

// Tier is a kernel acceleration level.
type Tier = simd.Tier

const (
	TierScalar = simd.Scalar
	TierNarrow = simd.Narrow
	TierWide   = simd.Wide
)

// ParseTier resolves a tier name such as "scalar", "sse2" or "avx2".
func ParseTier(s string) (Tier, error) {
	t, ok := simd.ParseTier(s)
	if !ok {
		return TierScalar, fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

// Quantizer answers uint8 distance calls on product-quantization codes.
//
// Implementations must be safe for concurrent use and must not be mutated
// after they are bound to an Engine.
type Quantizer interface {
	L2Distance(x, y []byte) float32
	CosineDistance(x, y []byte) float32
}

// Engine computes distances with one kernel tier and an optional quantizer.
//
// An Engine is immutable and safe for concurrent use. Binding a different
// quantizer produces a new Engine.
type Engine struct {
	k simd.Kernels
	q Quantizer
}

type options struct {
	tier    simd.Tier
	hasTier bool
	q       Quantizer
}

// Option configures an Engine.
type Option func(*options)

// WithTier forces the kernel tier. Every tier is portable Go, so a tier
// may be selected even when the CPU lacks the instruction set it models.
func WithTier(t Tier) Option {
	return func(o *options) {
		o.tier = t
		o.hasTier = true
	}
}

// WithQuantizer binds q to the engine's uint8 entry points.
func WithQuantizer(q Quantizer) Option {
	return func(o *options) {
		o.q = boundQuantizer(q)
	}
}

// New creates an Engine. Without WithTier the tier detected at process
// start is used.
func New(optFns ...Option) *Engine {
	opts := options{tier: simd.ActiveTier()}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		k: simd.KernelsFor(opts.tier),
		q: opts.q,
	}
}

// Tier returns the kernel tier of the engine.
func (e *Engine) Tier() Tier {
	return e.k.Tier
}

// Quantizer returns the bound quantizer, or nil.
func (e *Engine) Quantizer() Quantizer {
	return e.q
}

// WithQuantizer returns a copy of e bound to q. A nil q, typed or not,
// unbinds.
func (e *Engine) WithQuantizer(q Quantizer) *Engine {
	return &Engine{k: e.k, q: boundQuantizer(q)}
}

// boundQuantizer maps a nil pointer wrapped in the interface to nil, so the
// gate never dispatches to it.
func boundQuantizer(q Quantizer) Quantizer {
	if q == nil {
		return nil
	}
	if v := reflect.ValueOf(q); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return q
}

// SquaredL2Int8 returns the squared Euclidean distance of a and b.
func (e *Engine) SquaredL2Int8(a, b []int8) float32 {
	return e.k.SquaredL2Int8(a, b)
}

// CosineInt8 returns 16129 − dot(a, b).
func (e *Engine) CosineInt8(a, b []int8) float32 {
	if len(a) == 0 {
		return 0
	}
	return cosineInt8 - e.k.DotInt8(a, b)
}

// SquaredL2Uint8 returns the squared Euclidean distance of a and b, or the
// quantizer's code distance when one is bound.
func (e *Engine) SquaredL2Uint8(a, b []uint8) float32 {
	if len(a) == 0 {
		return 0
	}
	if e.q != nil {
		return e.q.L2Distance(a, b)
	}
	return e.k.SquaredL2Uint8(a, b)
}

// CosineUint8 returns 65025 − dot(a, b), or the quantizer's code distance
// when one is bound.
func (e *Engine) CosineUint8(a, b []uint8) float32 {
	if len(a) == 0 {
		return 0
	}
	if e.q != nil {
		return e.q.CosineDistance(a, b)
	}
	return cosineUint8 - e.k.DotUint8(a, b)
}

// SquaredL2Int16 returns the squared Euclidean distance of a and b.
func (e *Engine) SquaredL2Int16(a, b []int16) float32 {
	return e.k.SquaredL2Int16(a, b)
}

// CosineInt16 returns 1073676289 − dot(a, b).
func (e *Engine) CosineInt16(a, b []int16) float32 {
	if len(a) == 0 {
		return 0
	}
	return cosineInt16 - e.k.DotInt16(a, b)
}

// SquaredL2Float32 returns the squared Euclidean distance of a and b.
func (e *Engine) SquaredL2Float32(a, b []float32) float32 {
	return e.k.SquaredL2Float32(a, b)
}

// CosineFloat32 returns 1 − dot(a, b). Inputs are expected to be unit
// vectors.
func (e *Engine) CosineFloat32(a, b []float32) float32 {
	if len(a) == 0 {
		return 0
	}
	return cosineFloat32 - e.k.DotFloat32(a, b)
}

// Compute returns the distance of a and b under metric m. Metrics other
// than MetricCosine are treated as MetricL2.
//
// SAFETY: a and b must have the same length.
func Compute[E Element](e *Engine, m Metric, a, b []E) float32 {
	switch x := any(a).(type) {
	case []int8:
		y := any(b).([]int8)
		if m == MetricCosine {
			return e.CosineInt8(x, y)
		}
		return e.SquaredL2Int8(x, y)
	case []uint8:
		y := any(b).([]uint8)
		if m == MetricCosine {
			return e.CosineUint8(x, y)
		}
		return e.SquaredL2Uint8(x, y)
	case []int16:
		y := any(b).([]int16)
		if m == MetricCosine {
			return e.CosineInt16(x, y)
		}
		return e.SquaredL2Int16(x, y)
	default:
		x32, y32 := any(a).([]float32), any(b).([]float32)
		if m == MetricCosine {
			return e.CosineFloat32(x32, y32)
		}
		return e.SquaredL2Float32(x32, y32)
	}
}

// ByteFunc computes a distance over dim components stored in raw buffers.
type ByteFunc func(a, b []byte, dim int) float32

// Func resolves the byte-level function for metric m and element type t.
// Resolve once and reuse the result in hot loops.
func (e *Engine) Func(m Metric, t ElementType) (ByteFunc, error) {
	if m != MetricL2 && m != MetricCosine {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMetric, m)
	}

	switch t {
	case Int8:
		return byteFunc(e, m, (*Engine).SquaredL2Int8, (*Engine).CosineInt8), nil
	case Uint8:
		return byteFunc(e, m, (*Engine).SquaredL2Uint8, (*Engine).CosineUint8), nil
	case Int16:
		return byteFunc(e, m, (*Engine).SquaredL2Int16, (*Engine).CosineInt16), nil
	case Float32:
		return byteFunc(e, m, (*Engine).SquaredL2Float32, (*Engine).CosineFloat32), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownElementType, t)
	}
}

func byteFunc[E Element](e *Engine, m Metric, l2, cos func(*Engine, []E, []E) float32) ByteFunc {
	fn := l2
	if m == MetricCosine {
		fn = cos
	}
	return func(a, b []byte, dim int) float32 {
		if dim == 0 {
			return 0
		}
		return fn(e, View[E](a, dim), View[E](b, dim))
	}
}

// Distance returns the distance of the first dim components of a and b,
// interpreted as element type t. Unknown metrics are treated as MetricL2;
// unknown element types yield 0.
//
// SAFETY: a and b must hold at least dim*t.Size() bytes, aligned for t, in
// host byte order.
func (e *Engine) Distance(m Metric, t ElementType, a, b []byte, dim int) float32 {
	if dim == 0 {
		return 0
	}

	switch t {
	case Int8:
		return Compute(e, m, View[int8](a, dim), View[int8](b, dim))
	case Uint8:
		return Compute(e, m, View[uint8](a, dim), View[uint8](b, dim))
	case Int16:
		return Compute(e, m, View[int16](a, dim), View[int16](b, dim))
	case Float32:
		return Compute(e, m, View[float32](a, dim), View[float32](b, dim))
	default:
		return 0
	}
}

// View reinterprets the first dim components of p as []E without copying.
//
// SAFETY: p must hold at least dim*sizeof(E) bytes aligned for E.
func View[E Element](p []byte, dim int) []E {
	if dim <= 0 {
		return nil
	}
	var zero E
	_ = p[dim*int(unsafe.Sizeof(zero))-1]
	return unsafe.Slice((*E)(unsafe.Pointer(unsafe.SliceData(p))), dim)
}

// Bytes reinterprets v as its raw byte representation without copying.
func Bytes[E Element](v []E) []byte {
	if len(v) == 0 {
		return nil
	}
	var zero E
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v))), len(v)*int(unsafe.Sizeof(zero)))
}
