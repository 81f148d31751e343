package quantization

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/internal/kmeans"
	"github.com/hupe1980/vecdist/internal/simd"
)

// MaxCentroids is the largest codebook a uint8 code can address.
const MaxCentroids = 256

var (
	// ErrInvalidCodebook is returned when codebook dimensions are inconsistent.
	ErrInvalidCodebook = errors.New("quantization: invalid codebook")

	// ErrDimensionMismatch is returned when a vector or code length does not
	// match the quantizer.
	ErrDimensionMismatch = errors.New("quantization: dimension mismatch")
)

// ProductQuantizer is an immutable product quantizer.
// It is safe for concurrent use.
type ProductQuantizer struct {
	numSubvectors   int       // M
	ksPerSubvector  int       // K
	dimPerSubvector int       // D
	codebook        []float32 // M*K*D, subvector-major

	// Pairwise centroid tables, M*K*K each.
	l2Table  []float32
	dotTable []float32
}

var _ distance.Quantizer = (*ProductQuantizer)(nil)

// NewProductQuantizer builds a quantizer from a flattened codebook of
// numSubvectors*ksPerSubvector*dimPerSubvector floats. The codebook is
// copied.
func NewProductQuantizer(numSubvectors, ksPerSubvector, dimPerSubvector int, codebook []float32) (*ProductQuantizer, error) {
	if err := checkShape(numSubvectors, ksPerSubvector, dimPerSubvector); err != nil {
		return nil, err
	}
	if want := numSubvectors * ksPerSubvector * dimPerSubvector; len(codebook) != want {
		return nil, fmt.Errorf("%w: got %d floats, want %d", ErrInvalidCodebook, len(codebook), want)
	}

	pq := &ProductQuantizer{
		numSubvectors:   numSubvectors,
		ksPerSubvector:  ksPerSubvector,
		dimPerSubvector: dimPerSubvector,
		codebook:        append([]float32(nil), codebook...),
	}
	pq.buildTables()

	return pq, nil
}

// Allocation limits for codebooks and their centroid tables. Shapes come
// from untrusted headers.
const (
	maxCodebookFloats = 1 << 28
	maxTableEntries   = 1 << 26
)

// checkShape validates M, K and D without overflowing int.
func checkShape(m, k, d int) error {
	if m <= 0 || k <= 0 || d <= 0 {
		return fmt.Errorf("%w: shape %dx%dx%d", ErrInvalidCodebook, m, k, d)
	}
	if k > MaxCentroids {
		return fmt.Errorf("%w: %d centroids exceed uint8 codes", ErrInvalidCodebook, k)
	}
	if m > maxTableEntries/(k*k) {
		return fmt.Errorf("%w: %d subvectors of %d centroids exceed the table limit", ErrInvalidCodebook, m, k)
	}
	if d > maxCodebookFloats/(m*k) {
		return fmt.Errorf("%w: shape %dx%dx%d exceeds %d floats", ErrInvalidCodebook, m, k, d, maxCodebookFloats)
	}
	return nil
}

func (pq *ProductQuantizer) buildTables() {
	m, k := pq.numSubvectors, pq.ksPerSubvector
	pq.l2Table = make([]float32, m*k*k)
	pq.dotTable = make([]float32, m*k*k)

	// Tables use the scalar kernels so they do not depend on the host CPU.
	for s := 0; s < m; s++ {
		for i := 0; i < k; i++ {
			ci := pq.Centroid(s, i)
			for j := i; j < k; j++ {
				cj := pq.Centroid(s, j)
				l2 := simd.SquaredL2Scalar(ci, cj)
				dot := simd.DotScalar(ci, cj)

				pq.l2Table[(s*k+i)*k+j] = l2
				pq.l2Table[(s*k+j)*k+i] = l2
				pq.dotTable[(s*k+i)*k+j] = dot
				pq.dotTable[(s*k+j)*k+i] = dot
			}
		}
	}
}

// NumSubvectors returns the number of subvectors (M), which is also the
// code length.
func (pq *ProductQuantizer) NumSubvectors() int { return pq.numSubvectors }

// KsPerSubvector returns the number of centroids per subvector (K).
func (pq *ProductQuantizer) KsPerSubvector() int { return pq.ksPerSubvector }

// DimPerSubvector returns the number of dimensions per subvector (D).
func (pq *ProductQuantizer) DimPerSubvector() int { return pq.dimPerSubvector }

// Dimension returns the dimension of the vectors the quantizer encodes.
func (pq *ProductQuantizer) Dimension() int { return pq.numSubvectors * pq.dimPerSubvector }

// BytesPerVector returns the compressed size per vector in bytes.
func (pq *ProductQuantizer) BytesPerVector() int { return pq.numSubvectors }

// CompressionRatio returns the size ratio of float32 vectors to codes.
func (pq *ProductQuantizer) CompressionRatio() float64 {
	return float64(pq.Dimension()*4) / float64(pq.numSubvectors)
}

// Centroid returns centroid k of subvector m. The slice aliases the
// codebook and must not be modified.
func (pq *ProductQuantizer) Centroid(m, k int) []float32 {
	off := (m*pq.ksPerSubvector + k) * pq.dimPerSubvector
	return pq.codebook[off : off+pq.dimPerSubvector : off+pq.dimPerSubvector]
}

// Codebook returns a copy of the flattened codebook.
func (pq *ProductQuantizer) Codebook() []float32 {
	return append([]float32(nil), pq.codebook...)
}

// L2Distance returns the squared Euclidean distance of the vectors that
// codes x and y decode to.
//
// SAFETY: len(x) == len(y) <= NumSubvectors and every code < KsPerSubvector.
func (pq *ProductQuantizer) L2Distance(x, y []byte) float32 {
	return pq.lookup(pq.l2Table, x, y)
}

// CosineDistance returns 1 minus the inner product of the vectors that codes
// x and y decode to.
//
// SAFETY: len(x) == len(y) <= NumSubvectors and every code < KsPerSubvector.
func (pq *ProductQuantizer) CosineDistance(x, y []byte) float32 {
	return 1 - pq.lookup(pq.dotTable, x, y)
}

func (pq *ProductQuantizer) lookup(table []float32, x, y []byte) float32 {
	k := pq.ksPerSubvector
	y = y[:len(x)]

	var sum float32
	for m, cx := range x {
		sum += table[(m*k+int(cx))*k+int(y[m])]
	}
	return sum
}

// Encode quantizes vec into one code per subvector.
func (pq *ProductQuantizer) Encode(vec []float32) ([]byte, error) {
	if len(vec) != pq.Dimension() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), pq.Dimension())
	}

	dist := distance.Default().SquaredL2Float32
	d := pq.dimPerSubvector
	block := pq.ksPerSubvector * d
	codes := make([]byte, pq.numSubvectors)
	for m := range codes {
		c, _ := kmeans.Nearest(dist, vec[m*d:(m+1)*d], pq.codebook[m*block:(m+1)*block], d)
		codes[m] = byte(c)
	}

	return codes, nil
}

// Decode reconstructs an approximate vector from codes.
func (pq *ProductQuantizer) Decode(codes []byte) ([]float32, error) {
	if err := pq.checkCodes(codes); err != nil {
		return nil, err
	}

	out := make([]float32, pq.Dimension())
	for m, c := range codes {
		copy(out[m*pq.dimPerSubvector:], pq.Centroid(m, int(c)))
	}
	return out, nil
}

func (pq *ProductQuantizer) checkCodes(codes []byte) error {
	if len(codes) != pq.numSubvectors {
		return fmt.Errorf("%w: got %d codes, want %d", ErrDimensionMismatch, len(codes), pq.numSubvectors)
	}
	for m, c := range codes {
		if int(c) >= pq.ksPerSubvector {
			return fmt.Errorf("%w: code %d at subvector %d exceeds %d centroids", ErrInvalidCodebook, c, m, pq.ksPerSubvector)
		}
	}
	return nil
}

// BuildDistanceTable precomputes distances from a query to all centroids.
// Returns a flattened table of size M * K where table[m*K + k] is the squared distance
// from query subvector m to centroid k.
func (pq *ProductQuantizer) BuildDistanceTable(query []float32) ([]float32, error) {
	if len(query) != pq.Dimension() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), pq.Dimension())
	}

	e := distance.Default()
	d, k := pq.dimPerSubvector, pq.ksPerSubvector
	table := make([]float32, pq.numSubvectors*k)
	for m := 0; m < pq.numSubvectors; m++ {
		sub := query[m*d : (m+1)*d]
		for c := 0; c < k; c++ {
			table[m*k+c] = e.SquaredL2Float32(sub, pq.Centroid(m, c))
		}
	}
	return table, nil
}

// AdcDistance computes the approximate distance between a query (represented
// by its distance table) and a quantized vector.
func (pq *ProductQuantizer) AdcDistance(table []float32, codes []byte) float32 {
	k := pq.ksPerSubvector
	var sum float32
	for m, c := range codes {
		sum += table[m*k+int(c)]
	}
	return sum
}

// ComputeAsymmetricDistance computes the squared distance between a full
// precision query and a quantized vector without decoding it.
func (pq *ProductQuantizer) ComputeAsymmetricDistance(query []float32, codes []byte) (float32, error) {
	if len(query) != pq.Dimension() {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), pq.Dimension())
	}
	if err := pq.checkCodes(codes); err != nil {
		return 0, err
	}

	e := distance.Default()
	d := pq.dimPerSubvector
	var sum float32
	for m, c := range codes {
		sum += e.SquaredL2Float32(query[m*d:(m+1)*d], pq.Centroid(m, int(c)))
	}
	return sum, nil
}
