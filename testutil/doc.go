// Package testutil provides testing utilities for vecdist.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors of every supported
// element type and a float64 reference for distance results.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	x := testutil.Vector[int8](rng, 128) // full int8 range
//	v := rng.UnitVectors(10, 128)        // L2-normalized float32
//
// # Reference Distances
//
//	want, scale := testutil.ReferenceSquaredL2(x, y)
//	testutil.AssertClose(t, want, got, scale)
package testutil
