// Package quantization implements product quantization (PQ) for uint8 code
// vectors.
//
// A ProductQuantizer owns a codebook of NumSubvectors × KsPerSubvector
// centroids, each DimPerSubvector floats long. A vector of
// NumSubvectors × DimPerSubvector floats is encoded as one uint8 code per
// subvector: the index of the nearest centroid in that subvector's codebook.
//
// Distances between two code vectors are answered from tables computed once
// when the quantizer is built, so no vector is decoded:
//
//	L2Distance(x, y)     = Σ_m ‖c_m[x_m] − c_m[y_m]‖²
//	CosineDistance(x, y) = 1 − Σ_m ⟨c_m[x_m], c_m[y_m]⟩
//
// ProductQuantizer satisfies distance.Quantizer:
//
//	pq, _ := quantization.Train(ctx, vectors, 8, 256)
//	engine := distance.New(distance.WithQuantizer(pq))
//	d := engine.SquaredL2Uint8(pq.Encode(a), pq.Encode(b))
//
// Codebooks are serialized in the vector-set header layout: three
// little-endian int32 values (subvectors, centroids, dimensions) followed by
// the centroids as float32 in subvector, centroid, dimension order.
package quantization
