package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ReferenceSquaredL2 computes the squared L2 distance in float64.
// scale is the sum of absolute terms, a bound on the rounding error budget.
func ReferenceSquaredL2[E Element](x, y []E) (want, scale float64) {
	for i := range x {
		d := float64(x[i]) - float64(y[i])
		want += d * d
	}
	return want, want
}

// ReferenceDot computes the inner product in float64.
// scale is the sum of absolute products.
func ReferenceDot[E Element](x, y []E) (want, scale float64) {
	for i := range x {
		p := float64(x[i]) * float64(y[i])
		want += p
		scale += math.Abs(p)
	}
	return want, scale
}

// RelativeTolerance is the tolerance used when comparing kernel tiers.
const RelativeTolerance = 1e-4

// AssertClose asserts that got is within RelativeTolerance of want, relative
// to max(1, |want|, scale).
func AssertClose(t testing.TB, want, got, scale float64, msgAndArgs ...any) bool {
	t.Helper()
	bound := math.Max(1, math.Max(math.Abs(want), scale))
	return assert.InDelta(t, want, got, RelativeTolerance*bound, msgAndArgs...)
}
