package quantization

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/internal/kmeans"
)

// ErrNoTrainingData is returned when Train receives no vectors.
var ErrNoTrainingData = errors.New("quantization: no vectors provided for training")

type trainOptions struct {
	iterations  int
	seed        int64
	hasSeed     bool
	concurrency int
}

// TrainOption configures Train.
type TrainOption func(*trainOptions)

// WithIterations sets the maximum number of k-means iterations per
// subvector. Default is 20.
func WithIterations(n int) TrainOption {
	return func(o *trainOptions) {
		o.iterations = n
	}
}

// WithSeed makes training deterministic. Subvector m uses seed+m.
func WithSeed(seed int64) TrainOption {
	return func(o *trainOptions) {
		o.seed = seed
		o.hasSeed = true
	}
}

// WithConcurrency bounds the number of subvectors trained in parallel.
// Default is GOMAXPROCS.
func WithConcurrency(n int) TrainOption {
	return func(o *trainOptions) {
		o.concurrency = n
	}
}

// Train learns a codebook of numSubvectors × ksPerSubvector centroids from
// vectors. All vectors must share a dimension divisible by numSubvectors.
func Train(ctx context.Context, vectors [][]float32, numSubvectors, ksPerSubvector int, optFns ...TrainOption) (*ProductQuantizer, error) {
	if len(vectors) == 0 {
		return nil, ErrNoTrainingData
	}
	if numSubvectors <= 0 || ksPerSubvector <= 0 || ksPerSubvector > MaxCentroids {
		return nil, fmt.Errorf("%w: %d subvectors with %d centroids", ErrInvalidCodebook, numSubvectors, ksPerSubvector)
	}

	dim := len(vectors[0])
	if dim == 0 || dim%numSubvectors != 0 {
		return nil, fmt.Errorf("%w: dimension %d not divisible by %d subvectors", ErrDimensionMismatch, dim, numSubvectors)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}

	opts := trainOptions{
		iterations:  20,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	subDim := dim / numSubvectors
	if err := checkShape(numSubvectors, ksPerSubvector, subDim); err != nil {
		return nil, err
	}
	codebook := make([]float32, numSubvectors*ksPerSubvector*subDim)

	engine := distance.Default()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.concurrency))

	for m := 0; m < numSubvectors; m++ {
		g.Go(func() error {
			sub := make([]float32, 0, len(vectors)*subDim)
			for _, v := range vectors {
				sub = append(sub, v[m*subDim:(m+1)*subDim]...)
			}

			kmOpts := []kmeans.Option{
				kmeans.WithIterations(opts.iterations),
				kmeans.WithEngine(engine),
			}
			if opts.hasSeed {
				kmOpts = append(kmOpts, kmeans.WithSeed(opts.seed+int64(m)))
			}

			centroids, err := kmeans.Train(ctx, sub, subDim, ksPerSubvector, kmOpts...)
			if err != nil {
				return fmt.Errorf("subvector %d: %w", m, err)
			}

			copy(codebook[m*ksPerSubvector*subDim:], centroids)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewProductQuantizer(numSubvectors, ksPerSubvector, subDim, codebook)
}
