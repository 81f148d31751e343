// Package vecdist provides tiered distance kernels for approximate nearest
// neighbor search over int8, uint8, int16 and float32 vectors.
//
// Two metrics are supported: squared Euclidean distance and a cosine-derived
// dissimilarity (Base² − dot for integer types, 1 − dot for float32, where
// vectors are assumed to be normalized). Kernels come in three tiers, a
// scalar baseline plus 128-bit and 256-bit lane layouts, selected from the
// host CPU at process start. uint8 vectors may instead be product-quantization
// codes, in which case distances are answered from codebook lookup tables.
//
// # Quick Start
//
// Load a vector set and compare rows:
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./data")
//	c, _ := vecdist.Open(ctx, store, "base.fvecs", distance.Float32, vecdist.WithMetric(distance.MetricCosine))
//	d, _ := c.Distance(0, 1)
//
// Quantized sets carry their codebook after the matrix header:
//
//	c, _ := vecdist.Open(ctx, store, "codes.bin", distance.Uint8, vecdist.WithQuantized(), vecdist.WithInstall())
//
// WithInstall also binds the codebook to the process-wide engine, so
// distance.Distance on uint8 operands is answered by the quantizer.
//
// # Lower-level packages
//
//   - distance: Engine, metrics, element types and the process-wide default
//   - quantization: product quantizer, training and codebook encoding
//   - vectorset: the binary vector-set format, with zstd and LZ4 framing
//   - blobstore: local, in-memory, S3 and MinIO sources
//
// # Observability
//
// Structured logging goes through Logger (log/slog); metrics through
// MetricsCollector. metrics/promcollector adapts the latter to Prometheus.
package vecdist
