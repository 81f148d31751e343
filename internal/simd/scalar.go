package simd

// Element is the set of supported vector component types.
type Element interface {
	~int8 | ~uint8 | ~int16 | ~float32
}

// SquaredL2Scalar computes sum((x[i]-y[i])^2) with the reference loop.
//
// SAFETY: Assumes len(x) == len(y). Caller MUST ensure lengths match.
func SquaredL2Scalar[E Element](x, y []E) float32 {
	return squaredTail(x, y, 0, 0)
}

// DotScalar computes sum(x[i]*y[i]) with the reference loop.
//
// SAFETY: Assumes len(x) == len(y). Caller MUST ensure lengths match.
func DotScalar[E Element](x, y []E) float32 {
	return dotTail(x, y, 0, 0)
}

// squaredTail adds the squared differences of x[i:] and y[i:] to acc, four
// elements at a time and then one at a time. Every tier finishes with it.
//
// The explicit float32 conversions keep each product rounded on its own, so
// the compiler cannot fuse it into the running sum.
func squaredTail[E Element](x, y []E, i int, acc float32) float32 {
	n := len(x)
	for ; i+4 <= n; i += 4 {
		d0 := float32(x[i]) - float32(y[i])
		acc += float32(d0 * d0)
		d1 := float32(x[i+1]) - float32(y[i+1])
		acc += float32(d1 * d1)
		d2 := float32(x[i+2]) - float32(y[i+2])
		acc += float32(d2 * d2)
		d3 := float32(x[i+3]) - float32(y[i+3])
		acc += float32(d3 * d3)
	}
	for ; i < n; i++ {
		d := float32(x[i]) - float32(y[i])
		acc += float32(d * d)
	}
	return acc
}

// dotTail adds the products of x[i:] and y[i:] to acc, four elements at a
// time and then one at a time.
func dotTail[E Element](x, y []E, i int, acc float32) float32 {
	n := len(x)
	for ; i+4 <= n; i += 4 {
		acc += float32(float32(x[i]) * float32(y[i]))
		acc += float32(float32(x[i+1]) * float32(y[i+1]))
		acc += float32(float32(x[i+2]) * float32(y[i+2]))
		acc += float32(float32(x[i+3]) * float32(y[i+3]))
	}
	for ; i < n; i++ {
		acc += float32(float32(x[i]) * float32(y[i]))
	}
	return acc
}
