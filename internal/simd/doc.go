// Package simd provides the tiered distance kernels.
//
// # Tiers
//
//   - Scalar: reference loops, the oracle for every other tier
//   - Narrow: one 128-bit register per batch (SSE2 on x86-64, NEON on ARM64)
//   - Wide: one 256-bit register per batch (AVX2 on x86-64)
//
// Runtime CPU feature detection selects the tier once at package init.
// Set VECDIST_SIMD=scalar|narrow|wide to override the detected tier.
//
// # Lane model
//
// Narrow and wide kernels are written as explicit lane loops that follow the
// register layout of the matching instruction set: integer inputs are widened
// before arithmetic, partial sums are kept per lane, and the lanes are reduced
// in fixed index order. The remainder that does not fill a register goes
// through the scalar four-at-a-time and one-at-a-time tail, so every tier
// shares the same tail code path.
package simd
