// Package vectorset reads and writes vector-set files.
//
// A vector set is a row-major matrix of vectors of one element type,
// optionally carrying the product-quantization codebook its rows were
// encoded with. The binary layout is little-endian:
//
//	rows int32
//	cols int32
//	[quantized only]
//	  numSubvectors   int32
//	  ksPerSubvector  int32
//	  dimPerSubvector int32
//	  codebook        float32[numSubvectors][ksPerSubvector][dimPerSubvector]
//	data              E[rows][cols]
//
// The element type and whether a codebook is present are not recorded in
// the file; the reader is told through Options.
//
// Files may be wrapped in a zstd or LZ4 frame. Read detects both by their
// magic numbers.
//
// Read never returns a partially loaded set. A quantized set's codebook is
// only published to the process-wide distance engine after every row has
// been read, and only when Options.Install is set or Set.Install is called.
package vectorset
