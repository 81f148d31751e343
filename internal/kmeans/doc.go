// Package kmeans implements k-means clustering for codebook training.
//
// Product quantization trains one clustering per subvector position; the
// resulting centroids become that position's codebook.
package kmeans
