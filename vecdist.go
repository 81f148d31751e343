package vecdist

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecdist/blobstore"
	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/resource"
	"github.com/hupe1980/vecdist/vectorset"
)

// Collection is a loaded vector set bound to a distance engine and metric.
//
// A Collection is immutable and safe for concurrent use.
type Collection struct {
	name   string
	set    *vectorset.Set
	info   vectorset.Info
	engine *distance.Engine
	dist   distance.ByteFunc
	opts   options

	reserved  int64
	closeOnce sync.Once
}

// Open loads the vector set stored under name in store.
func Open(ctx context.Context, store blobstore.BlobStore, name string, elemType distance.ElementType, optFns ...Option) (*Collection, error) {
	o := applyOptions(optFns)

	if err := o.resources.AcquireLoad(ctx); err != nil {
		return nil, err
	}
	defer o.resources.ReleaseLoad()

	start := time.Now()
	set, info, err := vectorset.Load(ctx, o.resources.Store(store), name, o.readOptions(ctx, elemType))
	return finishLoad(ctx, name, set, info, err, time.Since(start), o)
}

// Load reads a vector set from r.
func Load(ctx context.Context, r io.Reader, elemType distance.ElementType, optFns ...Option) (*Collection, error) {
	o := applyOptions(optFns)

	if o.resources != nil {
		if err := o.resources.AcquireLoad(ctx); err != nil {
			return nil, err
		}
		defer o.resources.ReleaseLoad()
		r = resource.NewRateLimitedReader(ctx, r, o.resources)
	}

	start := time.Now()
	set, info, err := vectorset.ReadWithInfo(r, o.readOptions(ctx, elemType))
	return finishLoad(ctx, "", set, info, err, time.Since(start), o)
}

// New wraps a set that is already in memory. WithQuantized, WithMaxBytes and
// WithResourceController have no effect; the quantizer of set is used as is.
func New(ctx context.Context, set *vectorset.Set, optFns ...Option) (*Collection, error) {
	o := applyOptions(optFns)
	o.resources = nil
	if o.install && set.Quantized() {
		set.Install()
	}
	return newCollection(ctx, "", set, vectorset.Info{DataBytes: int64(len(set.Data()))}, o)
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

func (o options) readOptions(ctx context.Context, elemType distance.ElementType) vectorset.Options {
	ro := vectorset.Options{
		ElementType: elemType,
		Quantized:   o.quantized,
		Install:     o.install,
		MaxBytes:    o.maxBytes,
	}
	if rc := o.resources; rc != nil {
		ro.Reserve = func(n int64) error { return rc.AcquireMemory(ctx, n) }
		ro.Release = rc.ReleaseMemory
	}
	return ro
}

func finishLoad(ctx context.Context, name string, set *vectorset.Set, info vectorset.Info, err error, elapsed time.Duration, o options) (*Collection, error) {
	o.metricsCollector.RecordLoad(info.DataBytes, elapsed, err)
	if err != nil {
		o.logger.LogLoad(ctx, name, 0, 0, info.Compression.String(), err)
		return nil, translateError(err)
	}
	o.logger.LogLoad(ctx, name, set.Rows(), set.Cols(), info.Compression.String(), nil)

	c, err := newCollection(ctx, name, set, info, o)
	if err != nil {
		o.resources.ReleaseMemory(info.DataBytes)
		return nil, err
	}
	return c, nil
}

func newCollection(ctx context.Context, name string, set *vectorset.Set, info vectorset.Info, o options) (*Collection, error) {
	base := distance.Default()
	if o.hasTier {
		base = distance.New(distance.WithTier(o.tier))
	}
	engine := set.Engine(base)

	dist, err := engine.Func(o.metric, set.ElementType())
	if err != nil {
		return nil, translateError(err)
	}

	if o.install && set.Quantized() {
		pq := set.Quantizer()
		o.logger.LogQuantizerInstalled(ctx, pq.NumSubvectors(), pq.KsPerSubvector(), pq.DimPerSubvector())
	}

	c := &Collection{
		name:   name,
		set:    set,
		info:   info,
		engine: engine,
		dist:   dist,
		opts:   o,
	}
	if o.resources != nil {
		c.reserved = info.DataBytes
	}
	return c, nil
}

// Close returns the memory reserved for the collection to its resource
// controller. The collection stays usable; Close only ends the accounting.
func (c *Collection) Close() error {
	c.closeOnce.Do(func() {
		c.opts.resources.ReleaseMemory(c.reserved)
	})
	return nil
}

// Name returns the store name the collection was opened from, or "".
func (c *Collection) Name() string { return c.name }

// Set returns the underlying vector set.
func (c *Collection) Set() *vectorset.Set { return c.set }

// Info reports how the set was stored.
func (c *Collection) Info() vectorset.Info { return c.info }

// Rows returns the number of vectors.
func (c *Collection) Rows() int { return c.set.Rows() }

// Cols returns the number of components per vector. For quantized sets this
// is the number of codes.
func (c *Collection) Cols() int { return c.set.Cols() }

// ElementType returns the component type of the vectors.
func (c *Collection) ElementType() distance.ElementType { return c.set.ElementType() }

// Metric returns the metric used by Distance and Pairwise.
func (c *Collection) Metric() distance.Metric { return c.opts.metric }

// Engine returns the engine the collection computes with.
func (c *Collection) Engine() *distance.Engine { return c.engine }

func (c *Collection) checkRow(i int) error {
	if i < 0 || i >= c.set.Rows() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, i, c.set.Rows())
	}
	return nil
}

// Distance returns the distance between rows i and j.
func (c *Collection) Distance(i, j int) (float32, error) {
	if err := c.checkRow(i); err != nil {
		return 0, err
	}
	if err := c.checkRow(j); err != nil {
		return 0, err
	}
	return c.dist(c.set.Row(i), c.set.Row(j), c.set.Cols()), nil
}

// DistanceTo returns the distance between row i of c and query.
func DistanceTo[E distance.Element](c *Collection, i int, query []E) (float32, error) {
	if err := c.checkRow(i); err != nil {
		return 0, err
	}
	if t := distance.TypeOf[E](); t != c.ElementType() {
		return 0, fmt.Errorf("%w: %w: query is %s, set is %s", ErrInvalidArgument, vectorset.ErrElementType, t, c.ElementType())
	}
	if len(query) != c.Cols() {
		return 0, &ErrDimensionMismatch{Expected: c.Cols(), Actual: len(query)}
	}
	return c.dist(c.set.Row(i), distance.Bytes(query), c.Cols()), nil
}

// Pairwise returns the rows×rows distance matrix in row-major order.
// Rows are distributed over at most WithConcurrency goroutines.
func (c *Collection) Pairwise(ctx context.Context) ([]float32, error) {
	ids := make([]int, c.set.Rows())
	for i := range ids {
		ids[i] = i
	}
	return c.pairwise(ctx, ids)
}

// PairwiseRows is Pairwise restricted to the rows in sel. The matrix is
// ordered by ascending row index, which is also the order of the returned ids.
func (c *Collection) PairwiseRows(ctx context.Context, sel *roaring.Bitmap) ([]float32, []uint32, error) {
	if sel == nil || sel.IsEmpty() {
		return nil, nil, nil
	}
	if last := sel.Maximum(); int64(last) >= int64(c.set.Rows()) {
		return nil, nil, fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, last, c.set.Rows())
	}

	rows := sel.ToArray()
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = int(r)
	}

	m, err := c.pairwise(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return m, rows, nil
}

func (c *Collection) pairwise(ctx context.Context, ids []int) ([]float32, error) {
	start := time.Now()
	n := len(ids)
	cols := c.set.Cols()
	out := make([]float32, n*n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.concurrency)

	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a := c.set.Row(ids[i])
			for j := i; j < n; j++ {
				d := c.dist(a, c.set.Row(ids[j]), cols)
				out[i*n+j] = d
				out[j*n+i] = d
			}
			return nil
		})
	}

	err := g.Wait()
	c.opts.metricsCollector.RecordPairwise(n*(n+1)/2, time.Since(start), err)
	c.opts.logger.LogPairwise(ctx, n, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}
