package simd

import "unsafe"

// Kernels is the resolved function table for one tier.
// Tables are built once and never mutated, so they can be shared freely.
//
// SAFETY: Every function assumes len(x) == len(y). Caller MUST ensure lengths match.
type Kernels struct {
	Tier Tier

	SquaredL2Int8    func(x, y []int8) float32
	DotInt8          func(x, y []int8) float32
	SquaredL2Uint8   func(x, y []uint8) float32
	DotUint8         func(x, y []uint8) float32
	SquaredL2Int16   func(x, y []int16) float32
	DotInt16         func(x, y []int16) float32
	SquaredL2Float32 func(x, y []float32) float32
	DotFloat32       func(x, y []float32) float32
}

var (
	scalarKernels = Kernels{
		Tier:             Scalar,
		SquaredL2Int8:    SquaredL2Scalar[int8],
		DotInt8:          DotScalar[int8],
		SquaredL2Uint8:   SquaredL2Scalar[uint8],
		DotUint8:         DotScalar[uint8],
		SquaredL2Int16:   SquaredL2Scalar[int16],
		DotInt16:         DotScalar[int16],
		SquaredL2Float32: SquaredL2Scalar[float32],
		DotFloat32:       DotScalar[float32],
	}

	narrowKernels = Kernels{
		Tier:             Narrow,
		SquaredL2Int8:    narrowSquared8[int8],
		DotInt8:          narrowDot8[int8],
		SquaredL2Uint8:   narrowSquared8[uint8],
		DotUint8:         narrowDot8[uint8],
		SquaredL2Int16:   narrowSquaredInt16,
		DotInt16:         narrowDotInt16,
		SquaredL2Float32: narrowSquaredFloat32,
		DotFloat32:       narrowDotFloat32,
	}

	wideKernels = Kernels{
		Tier:             Wide,
		SquaredL2Int8:    wideSquared8[int8],
		DotInt8:          wideDot8[int8],
		SquaredL2Uint8:   wideSquared8[uint8],
		DotUint8:         wideDot8[uint8],
		SquaredL2Int16:   wideSquaredInt16,
		DotInt16:         wideDotInt16,
		SquaredL2Float32: wideSquaredFloat32,
		DotFloat32:       wideDotFloat32,
	}
)

// KernelsFor returns the function table of tier t.
//
// The lane kernels are portable Go, so any tier can be requested regardless
// of IsAvailable. Unknown tiers resolve to Scalar.
func KernelsFor(t Tier) Kernels {
	switch t {
	case Narrow:
		return narrowKernels
	case Wide:
		return wideKernels
	default:
		return scalarKernels
	}
}

// Active returns the function table of the tier selected at process start.
func Active() Kernels {
	return KernelsFor(activeTier)
}

// BatchWidth returns how many elements of E one register of tier t holds.
// Scalar returns 1.
func BatchWidth[E Element](t Tier) int {
	var zero E
	width := 16 / int(unsafe.Sizeof(zero))
	switch t {
	case Narrow:
		return width
	case Wide:
		return 2 * width
	default:
		return 1
	}
}
