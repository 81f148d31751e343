package kmeans

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/hupe1980/vecdist/distance"
)

// ErrInvalidInput is returned for a non-positive dimension or centroid
// count, or data without a single full row.
var ErrInvalidInput = errors.New("kmeans: invalid input")

type options struct {
	seed       int64
	hasSeed    bool
	iterations int
	engine     *distance.Engine
}

// Option configures Train.
type Option func(*options)

// WithSeed makes centroid initialization deterministic.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.hasSeed = true
	}
}

// WithIterations bounds the number of Lloyd iterations. The default is 20.
func WithIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.iterations = n
		}
	}
}

// WithEngine selects the engine rows are compared with. The default is the
// process-wide engine at the time Train is called.
func WithEngine(e *distance.Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

// Train clusters the rows of data (len(data)/dim rows of dim components) into
// k centroids under squared Euclidean distance and returns them flattened in
// row-major order.
//
// With fewer rows than k, the rows are repeated to fill the table.
func Train(ctx context.Context, data []float32, dim, k int, optFns ...Option) ([]float32, error) {
	if dim <= 0 || k <= 0 {
		return nil, fmt.Errorf("%w: dim=%d k=%d", ErrInvalidInput, dim, k)
	}
	if len(data) < dim {
		return nil, fmt.Errorf("%w: %d values hold no row of %d", ErrInvalidInput, len(data), dim)
	}

	o := options{iterations: 20}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.engine == nil {
		o.engine = distance.Default()
	}
	if !o.hasSeed {
		o.seed = rand.Int63()
	}

	t := &trainer{
		dist:      o.engine.SquaredL2Float32,
		data:      data,
		dim:       dim,
		n:         len(data) / dim,
		k:         k,
		centroids: make([]float32, k*dim),
		rng:       rand.New(rand.NewSource(o.seed)),
	}

	if t.n < k {
		for c := range k {
			copy(t.centroid(c), t.row(c%t.n))
		}
		return t.centroids, nil
	}

	t.seed()
	if err := t.lloyd(ctx, o.iterations); err != nil {
		return nil, err
	}
	return t.centroids, nil
}

type trainer struct {
	dist      distance.Func
	data      []float32
	dim, n, k int
	centroids []float32
	rng       *rand.Rand
}

func (t *trainer) row(i int) []float32      { return t.data[i*t.dim : (i+1)*t.dim] }
func (t *trainer) centroid(c int) []float32 { return t.centroids[c*t.dim : (c+1)*t.dim] }

// seed runs k-means++: each further centroid is drawn with probability
// proportional to the distance from the closest centroid chosen so far.
func (t *trainer) seed() {
	copy(t.centroid(0), t.row(t.rng.Intn(t.n)))

	closest := make([]float64, t.n)
	var total float64
	for i := range closest {
		closest[i] = float64(t.dist(t.row(i), t.centroid(0)))
		total += closest[i]
	}

	for c := 1; c < t.k; c++ {
		pick := t.rng.Intn(t.n)
		if total > 0 {
			target := t.rng.Float64() * total
			for i, d := range closest {
				if target -= d; target <= 0 {
					pick = i
					break
				}
			}
		}
		copy(t.centroid(c), t.row(pick))

		total = 0
		for i := range closest {
			closest[i] = min(closest[i], float64(t.dist(t.row(i), t.centroid(c))))
			total += closest[i]
		}
	}
}

func (t *trainer) lloyd(ctx context.Context, iterations int) error {
	assign := make([]int, t.n)
	for i := range assign {
		assign[i] = -1
	}
	cost := make([]float32, t.n)
	sizes := make([]int, t.k)
	sums := make([]float64, t.k*t.dim)

	for range iterations {
		if err := ctx.Err(); err != nil {
			return err
		}

		moved := 0
		for i := range t.n {
			c, d := Nearest(t.dist, t.row(i), t.centroids, t.dim)
			cost[i] = d
			if assign[i] != c {
				assign[i] = c
				moved++
			}
		}
		if moved == 0 {
			return nil
		}

		clear(sizes)
		clear(sums)
		for i, c := range assign {
			sizes[c]++
			acc := sums[c*t.dim : (c+1)*t.dim]
			for j, v := range t.row(i) {
				acc[j] += float64(v)
			}
		}

		for c := range t.k {
			if sizes[c] == 0 {
				// An empty cluster takes over the row that is worst served.
				far := 0
				for i := range cost {
					if cost[i] > cost[far] {
						far = i
					}
				}
				copy(t.centroid(c), t.row(far))
				cost[far] = 0
				continue
			}
			inv := 1 / float64(sizes[c])
			dst := t.centroid(c)
			for j := range dst {
				dst[j] = float32(sums[c*t.dim+j] * inv)
			}
		}
	}
	return nil
}

// Nearest returns the index of the centroid in centroids (flattened rows of
// dim components) closest to vec under dist, and that distance.
func Nearest(dist distance.Func, vec, centroids []float32, dim int) (int, float32) {
	best, bestDist := 0, float32(math.MaxFloat32)
	for c := 0; (c+1)*dim <= len(centroids); c++ {
		if d := dist(vec, centroids[c*dim:(c+1)*dim]); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}
