// Package distance computes dissimilarity scores between two vectors of one
// declared element type.
//
// Two metrics are supported for int8, uint8, int16 and float32 vectors:
//
//   - MetricL2: squared Euclidean distance
//   - MetricCosine: cosine-derived distance, Base² − dot(x, y), where Base is
//     the largest magnitude of the element type (1 for float32)
//
// Kernels come in three tiers (scalar, 128-bit, 256-bit) that agree within
// floating-point tolerance. An Engine binds one tier and, optionally, a
// Quantizer. When a quantizer is bound, every uint8 call is treated as a
// comparison of product-quantization codes and is answered by the quantizer.
//
// # Usage
//
//	e := distance.New(distance.WithQuantizer(pq))
//	d := e.SquaredL2Float32(a, b)
//	d = distance.Compute(e, distance.MetricCosine, codesA, codesB)
//
// The package-level Distance function uses the process-wide default engine,
// which is replaced atomically by SetQuantizer.
package distance
