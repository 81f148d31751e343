package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// Element is the set of vector component types the engine supports.
type Element interface {
	~int8 | ~uint8 | ~int16 | ~float32
}

// RNG is a seeded, mutex-guarded source of test vectors.
type RNG struct {
	mu   sync.Mutex
	src  *rand.Rand
	seed int64
}

// NewRNG returns an RNG seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed)), seed: seed}
}

// Reset rewinds r to its seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	r.src = rand.New(rand.NewSource(r.seed))
	r.mu.Unlock()
}

// Seed returns the seed r was created with.
func (r *RNG) Seed() int64 { return r.seed }

// with runs fn while holding the lock.
func (r *RNG) with(fn func(src *rand.Rand)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.src)
}

// Vector returns n random components spanning the full value range of E.
// float32 components are drawn from [-1, 1).
func Vector[E Element](r *RNG, n int) []E {
	v := make([]E, n)
	r.with(func(src *rand.Rand) {
		for i := range v {
			v[i] = component[E](src)
		}
	})
	return v
}

func component[E Element](src *rand.Rand) E {
	var z E
	switch any(z).(type) {
	case int8:
		return E(int8(src.Intn(1<<8) - 1<<7))
	case uint8:
		return E(uint8(src.Intn(1 << 8)))
	case int16:
		return E(int16(src.Intn(1<<16) - 1<<15))
	default:
		return E(src.Float32()*2 - 1)
	}
}

// rows allocates num rows of dim components over one backing array and fills
// each row with fill.
func (r *RNG) rows(num, dim int, fill func(src *rand.Rand, row []float32)) [][]float32 {
	backing := make([]float32, num*dim)
	out := make([][]float32, num)
	r.with(func(src *rand.Rand) {
		for i := range out {
			out[i] = backing[i*dim : (i+1)*dim : (i+1)*dim]
			fill(src, out[i])
		}
	})
	return out
}

// UniformVectors returns num float32 vectors with components in [0, 1).
func (r *RNG) UniformVectors(num, dim int) [][]float32 {
	return r.rows(num, dim, func(src *rand.Rand, row []float32) {
		for j := range row {
			row[j] = src.Float32()
		}
	})
}

// UnitVectors returns num L2-normalized float32 vectors, uniformly
// distributed on the unit sphere.
func (r *RNG) UnitVectors(num, dim int) [][]float32 {
	return r.rows(num, dim, func(src *rand.Rand, row []float32) {
		var sq float64
		for j := range row {
			g := src.NormFloat64()
			row[j] = float32(g)
			sq += g * g
		}
		if sq == 0 {
			return
		}
		inv := float32(1 / math.Sqrt(sq))
		for j := range row {
			row[j] *= inv
		}
	})
}

// ClusteredVectors returns num float32 vectors scattered with Gaussian noise
// of the given spread around clusters random centers in [-1, 1)^dim. Codebook
// training needs data of this shape to be testable.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float32) [][]float32 {
	centers := r.rows(clusters, dim, func(src *rand.Rand, row []float32) {
		for j := range row {
			row[j] = src.Float32()*2 - 1
		}
	})
	return r.rows(num, dim, func(src *rand.Rand, row []float32) {
		center := centers[src.Intn(clusters)]
		for j := range row {
			row[j] = center[j] + spread*float32(src.NormFloat64())
		}
	})
}
