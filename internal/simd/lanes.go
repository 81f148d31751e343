package simd

import "math"

// This file holds the per-type lane operations. Each batch function consumes
// exactly one 128-bit register worth of x and y and returns its four lane
// results. Wide kernels call them once per 128-bit half, which mirrors the
// in-lane unpack behaviour of 256-bit integer ops.

// Elements per 128-bit register.
const (
	width8  = 16
	width16 = 8
	width32 = 4
)

// lanes is a four-lane float32 accumulator.
type lanes [4]float32

func (a lanes) add(b lanes) lanes {
	return lanes{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

// sum reduces the lanes in index order.
func (a lanes) sum() float32 {
	return a[0] + a[1] + a[2] + a[3]
}

type eightBit interface {
	~int8 | ~uint8
}

// 8-bit inputs are widened to 16-bit lanes and combined pairwise into four
// int32 lanes. Lane j holds the terms for elements 2j, 2j+1, 8+2j and 9+2j.
// The int32 lanes are converted to float32 after every batch, so the integer
// accumulator only ever carries eightBitTermsPerLane terms.
const (
	eightBitTermsPerLane = 4
	maxEightBitTerm      = 255 * 255
	maxEightBitLane      = eightBitTermsPerLane * maxEightBitTerm
)

// Compile-time check: a negative constant cannot convert to uint32.
const _ = uint32(math.MaxInt32 - maxEightBitLane)

func sqdf8[E eightBit](x, y []E) lanes {
	x = x[:width8]
	y = y[:width8]
	var out lanes
	for j := 0; j < 4; j++ {
		d0 := int32(x[2*j]) - int32(y[2*j])
		d1 := int32(x[2*j+1]) - int32(y[2*j+1])
		d2 := int32(x[8+2*j]) - int32(y[8+2*j])
		d3 := int32(x[9+2*j]) - int32(y[9+2*j])
		out[j] = float32((d0*d0 + d1*d1) + (d2*d2 + d3*d3))
	}
	return out
}

func mul8[E eightBit](x, y []E) lanes {
	x = x[:width8]
	y = y[:width8]
	var out lanes
	for j := 0; j < 4; j++ {
		p0 := int32(x[2*j]) * int32(y[2*j])
		p1 := int32(x[2*j+1]) * int32(y[2*j+1])
		p2 := int32(x[8+2*j]) * int32(y[8+2*j])
		p3 := int32(x[9+2*j]) * int32(y[9+2*j])
		out[j] = float32((p0 + p1) + (p2 + p3))
	}
	return out
}

// sqdf16 sign-extends int16 inputs to int32 lanes; lane j covers elements j
// and 4+j. The difference is squared in float32 since 65535^2 overflows int32.
func sqdf16(x, y []int16) lanes {
	x = x[:width16]
	y = y[:width16]
	var out lanes
	for j := 0; j < 4; j++ {
		lo := float32(int32(x[j]) - int32(y[j]))
		hi := float32(int32(x[4+j]) - int32(y[4+j]))
		out[j] = float32(lo*lo) + float32(hi*hi)
	}
	return out
}

// mul16 combines adjacent int16 products into lane j (elements 2j, 2j+1).
// The pair sum can reach 2^31 for two (-32768)^2 terms, so it is formed in
// int64 before the float32 conversion.
func mul16(x, y []int16) lanes {
	x = x[:width16]
	y = y[:width16]
	var out lanes
	for j := 0; j < 4; j++ {
		out[j] = float32(int64(x[2*j])*int64(y[2*j]) + int64(x[2*j+1])*int64(y[2*j+1]))
	}
	return out
}
