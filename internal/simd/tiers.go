package simd

// Narrow kernels consume whole 128-bit registers into four lanes, reduce the
// lanes in index order and finish the remainder with the scalar tail.
//
// Wide kernels consume whole 256-bit registers, keeping the low and high
// 128-bit halves in separate accumulators. They then fold the halves,
// continue with single 128-bit registers and finish with the scalar tail.

func narrowSquared8[E eightBit](x, y []E) float32 {
	n := len(x)
	y = y[:n]

	var acc lanes
	i := 0
	for ; i+width8 <= n; i += width8 {
		acc = acc.add(sqdf8(x[i:i+width8], y[i:i+width8]))
	}
	return squaredTail(x, y, i, acc.sum())
}

func narrowDot8[E eightBit](x, y []E) float32 {
	n := len(x)
	y = y[:n]

	var acc lanes
	i := 0
	for ; i+width8 <= n; i += width8 {
		acc = acc.add(mul8(x[i:i+width8], y[i:i+width8]))
	}
	return dotTail(x, y, i, acc.sum())
}

func wideSquared8[E eightBit](x, y []E) float32 {
	n := len(x)
	y = y[:n]

	var lo, hi lanes
	i := 0
	for ; i+2*width8 <= n; i += 2 * width8 {
		lo = lo.add(sqdf8(x[i:i+width8], y[i:i+width8]))
		hi = hi.add(sqdf8(x[i+width8:i+2*width8], y[i+width8:i+2*width8]))
	}
	acc := lo.add(hi)
	for ; i+width8 <= n; i += width8 {
		acc = acc.add(sqdf8(x[i:i+width8], y[i:i+width8]))
	}
	return squaredTail(x, y, i, acc.sum())
}

func wideDot8[E eightBit](x, y []E) float32 {
	n := len(x)
	y = y[:n]

	var lo, hi lanes
	i := 0
	for ; i+2*width8 <= n; i += 2 * width8 {
		lo = lo.add(mul8(x[i:i+width8], y[i:i+width8]))
		hi = hi.add(mul8(x[i+width8:i+2*width8], y[i+width8:i+2*width8]))
	}
	acc := lo.add(hi)
	for ; i+width8 <= n; i += width8 {
		acc = acc.add(mul8(x[i:i+width8], y[i:i+width8]))
	}
	return dotTail(x, y, i, acc.sum())
}

func narrowSquaredInt16(x, y []int16) float32 {
	n := len(x)
	y = y[:n]

	var acc lanes
	i := 0
	for ; i+width16 <= n; i += width16 {
		acc = acc.add(sqdf16(x[i:i+width16], y[i:i+width16]))
	}
	return squaredTail(x, y, i, acc.sum())
}

func narrowDotInt16(x, y []int16) float32 {
	n := len(x)
	y = y[:n]

	var acc lanes
	i := 0
	for ; i+width16 <= n; i += width16 {
		acc = acc.add(mul16(x[i:i+width16], y[i:i+width16]))
	}
	return dotTail(x, y, i, acc.sum())
}

func wideSquaredInt16(x, y []int16) float32 {
	n := len(x)
	y = y[:n]

	var lo, hi lanes
	i := 0
	for ; i+2*width16 <= n; i += 2 * width16 {
		lo = lo.add(sqdf16(x[i:i+width16], y[i:i+width16]))
		hi = hi.add(sqdf16(x[i+width16:i+2*width16], y[i+width16:i+2*width16]))
	}
	acc := lo.add(hi)
	for ; i+width16 <= n; i += width16 {
		acc = acc.add(sqdf16(x[i:i+width16], y[i:i+width16]))
	}
	return squaredTail(x, y, i, acc.sum())
}

func wideDotInt16(x, y []int16) float32 {
	n := len(x)
	y = y[:n]

	var lo, hi lanes
	i := 0
	for ; i+2*width16 <= n; i += 2 * width16 {
		lo = lo.add(mul16(x[i:i+width16], y[i:i+width16]))
		hi = hi.add(mul16(x[i+width16:i+2*width16], y[i+width16:i+2*width16]))
	}
	acc := lo.add(hi)
	for ; i+width16 <= n; i += width16 {
		acc = acc.add(mul16(x[i:i+width16], y[i:i+width16]))
	}
	return dotTail(x, y, i, acc.sum())
}

// The float32 kernels keep their lanes in locals; a register is only four
// elements wide, so a call per batch would dominate.

func narrowSquaredFloat32(x, y []float32) float32 {
	n := len(x)
	y = y[:n]

	var a0, a1, a2, a3 float32
	i := 0
	for ; i+width32 <= n; i += width32 {
		xs := x[i : i+width32 : i+width32]
		ys := y[i : i+width32 : i+width32]
		d0 := xs[0] - ys[0]
		d1 := xs[1] - ys[1]
		d2 := xs[2] - ys[2]
		d3 := xs[3] - ys[3]
		a0 += float32(d0 * d0)
		a1 += float32(d1 * d1)
		a2 += float32(d2 * d2)
		a3 += float32(d3 * d3)
	}
	return squaredTail(x, y, i, a0+a1+a2+a3)
}

func narrowDotFloat32(x, y []float32) float32 {
	n := len(x)
	y = y[:n]

	var a0, a1, a2, a3 float32
	i := 0
	for ; i+width32 <= n; i += width32 {
		xs := x[i : i+width32 : i+width32]
		ys := y[i : i+width32 : i+width32]
		a0 += float32(xs[0] * ys[0])
		a1 += float32(xs[1] * ys[1])
		a2 += float32(xs[2] * ys[2])
		a3 += float32(xs[3] * ys[3])
	}
	return dotTail(x, y, i, a0+a1+a2+a3)
}

func wideSquaredFloat32(x, y []float32) float32 {
	n := len(x)
	y = y[:n]

	var l0, l1, l2, l3, h0, h1, h2, h3 float32
	i := 0
	for ; i+2*width32 <= n; i += 2 * width32 {
		xs := x[i : i+2*width32 : i+2*width32]
		ys := y[i : i+2*width32 : i+2*width32]
		d0 := xs[0] - ys[0]
		d1 := xs[1] - ys[1]
		d2 := xs[2] - ys[2]
		d3 := xs[3] - ys[3]
		d4 := xs[4] - ys[4]
		d5 := xs[5] - ys[5]
		d6 := xs[6] - ys[6]
		d7 := xs[7] - ys[7]
		l0 += float32(d0 * d0)
		l1 += float32(d1 * d1)
		l2 += float32(d2 * d2)
		l3 += float32(d3 * d3)
		h0 += float32(d4 * d4)
		h1 += float32(d5 * d5)
		h2 += float32(d6 * d6)
		h3 += float32(d7 * d7)
	}

	a0, a1, a2, a3 := l0+h0, l1+h1, l2+h2, l3+h3
	for ; i+width32 <= n; i += width32 {
		xs := x[i : i+width32 : i+width32]
		ys := y[i : i+width32 : i+width32]
		d0 := xs[0] - ys[0]
		d1 := xs[1] - ys[1]
		d2 := xs[2] - ys[2]
		d3 := xs[3] - ys[3]
		a0 += float32(d0 * d0)
		a1 += float32(d1 * d1)
		a2 += float32(d2 * d2)
		a3 += float32(d3 * d3)
	}
	return squaredTail(x, y, i, a0+a1+a2+a3)
}

func wideDotFloat32(x, y []float32) float32 {
	n := len(x)
	y = y[:n]

	var l0, l1, l2, l3, h0, h1, h2, h3 float32
	i := 0
	for ; i+2*width32 <= n; i += 2 * width32 {
		xs := x[i : i+2*width32 : i+2*width32]
		ys := y[i : i+2*width32 : i+2*width32]
		l0 += float32(xs[0] * ys[0])
		l1 += float32(xs[1] * ys[1])
		l2 += float32(xs[2] * ys[2])
		l3 += float32(xs[3] * ys[3])
		h0 += float32(xs[4] * ys[4])
		h1 += float32(xs[5] * ys[5])
		h2 += float32(xs[6] * ys[6])
		h3 += float32(xs[7] * ys[7])
	}

	a0, a1, a2, a3 := l0+h0, l1+h1, l2+h2, l3+h3
	for ; i+width32 <= n; i += width32 {
		xs := x[i : i+width32 : i+width32]
		ys := y[i : i+width32 : i+width32]
		a0 += float32(xs[0] * ys[0])
		a1 += float32(xs[1] * ys[1])
		a2 += float32(xs[2] * ys[2])
		a3 += float32(xs[3] * ys[3])
	}
	return dotTail(x, y, i, a0+a1+a2+a3)
}
