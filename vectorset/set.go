package vectorset

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/quantization"
)

// Set is an immutable, row-major vector matrix.
type Set struct {
	rows     int
	cols     int
	elemType distance.ElementType
	pq       *quantization.ProductQuantizer
	data     []byte // rows*cols elements in host byte order, 8-byte aligned
}

// Rows returns the number of vectors.
func (s *Set) Rows() int { return s.rows }

// Cols returns the number of components per vector.
func (s *Set) Cols() int { return s.cols }

// ElementType returns the component type.
func (s *Set) ElementType() distance.ElementType { return s.elemType }

// Quantizer returns the codebook of a quantized set, or nil.
func (s *Set) Quantizer() *quantization.ProductQuantizer { return s.pq }

// Quantized reports whether the rows are product-quantization codes.
func (s *Set) Quantized() bool { return s.pq != nil }

// RowBytes returns the size of one row in bytes.
func (s *Set) RowBytes() int { return s.cols * s.elemType.Size() }

// Data returns the raw matrix. It must not be modified.
func (s *Set) Data() []byte { return s.data }

// Row returns the raw bytes of row i. It must not be modified.
func (s *Set) Row(i int) []byte {
	n := s.RowBytes()
	return s.data[i*n : (i+1)*n : (i+1)*n]
}

// Engine returns base bound to the set's quantizer. Unquantized sets unbind
// any quantizer of base. A nil base means distance.Default().
func (s *Set) Engine(base *distance.Engine) *distance.Engine {
	if base == nil {
		base = distance.Default()
	}
	if s.pq == nil {
		return base.WithQuantizer(nil)
	}
	return base.WithQuantizer(s.pq)
}

// Install publishes the set's quantizer as the process-wide quantizer.
// Installing an unquantized set clears it.
func (s *Set) Install() {
	if s.pq == nil {
		distance.SetQuantizer(nil)
		return
	}
	distance.SetQuantizer(s.pq)
}

// WithQuantizer returns a copy of a uint8 set whose rows are codes of pq.
// The row data is shared.
func (s *Set) WithQuantizer(pq *quantization.ProductQuantizer) (*Set, error) {
	if err := checkCodes(s.elemType, s.cols, pq); err != nil {
		return nil, err
	}
	if pq != nil {
		if err := checkRowCodes(s.data, s.cols, pq); err != nil {
			return nil, err
		}
	}
	out := *s
	out.pq = pq
	return &out, nil
}

func checkCodes(t distance.ElementType, cols int, pq *quantization.ProductQuantizer) error {
	if pq == nil {
		return nil
	}
	if t != distance.Uint8 {
		return &HeaderError{Field: "elementType", Value: int64(t), Reason: "quantized sets hold uint8 codes"}
	}
	if cols != pq.NumSubvectors() {
		return &HeaderError{Field: "cols", Value: int64(cols), Reason: fmt.Sprintf("want %d codes per row", pq.NumSubvectors())}
	}
	return nil
}

// checkRowCodes rejects codes that address no centroid of pq. Such a code
// would index past the centroid tables on the first distance call.
func checkRowCodes(data []byte, cols int, pq *quantization.ProductQuantizer) error {
	k := pq.KsPerSubvector()
	if k >= quantization.MaxCentroids {
		return nil
	}
	for i, c := range data {
		if int(c) >= k {
			return &HeaderError{
				Field:  "codes",
				Value:  int64(c),
				Reason: fmt.Sprintf("row %d subvector %d: want a code below %d", i/cols, i%cols, k),
			}
		}
	}
	return nil
}

// FromRows copies rows into a new set.
func FromRows[E distance.Element](rows [][]E) (*Set, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}

	t := distance.TypeOf[E]()
	s := &Set{
		rows:     len(rows),
		cols:     cols,
		elemType: t,
		data:     alloc(len(rows) * cols * t.Size()),
	}

	all := distance.View[E](s.data, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d components, want %d", ErrRaggedRows, i, len(r), cols)
		}
		copy(all[i*cols:], r)
	}
	return s, nil
}

// FromCodes builds a quantized set from code rows of pq.
func FromCodes(pq *quantization.ProductQuantizer, codes [][]byte) (*Set, error) {
	s, err := FromRows(codes)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		s.cols = pq.NumSubvectors()
	}
	return s.WithQuantizer(pq)
}

// RowsOf returns views of every row as []E. The views alias the set.
func RowsOf[E distance.Element](s *Set) ([][]E, error) {
	if t := distance.TypeOf[E](); t != s.elemType {
		return nil, fmt.Errorf("%w: set holds %s, requested %s", ErrElementType, s.elemType, t)
	}

	all := distance.View[E](s.data, s.rows*s.cols)
	out := make([][]E, s.rows)
	for i := range out {
		out[i] = all[i*s.cols : (i+1)*s.cols : (i+1)*s.cols]
	}
	return out, nil
}

// alloc returns n bytes backed by 8-byte aligned storage, so that any
// element type can be viewed in place.
func alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), n)
}
