package resource

import (
	"context"
	"io"

	"github.com/hupe1980/vecdist/blobstore"
)

// RateLimitedReader wraps an io.Reader with rate limiting.
// Bytes are charged after they are read, so the limiter never waits for
// more than was actually transferred.
type RateLimitedReader struct {
	r   io.Reader
	rc  *Controller
	ctx context.Context
}

// NewRateLimitedReader creates a new RateLimitedReader.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{
		r:   r,
		rc:  rc,
		ctx: ctx,
	}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.rc.AcquireIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// Store wraps s so that every blob read through it is charged against the
// IO limit of c. Without an IO limit s is returned unchanged.
func (c *Controller) Store(s blobstore.BlobStore) blobstore.BlobStore {
	if c == nil || c.ioLimiter == nil {
		return s
	}
	return &limitedStore{BlobStore: s, rc: c}
}

type limitedStore struct {
	blobstore.BlobStore
	rc *Controller
}

func (s *limitedStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	b, err := s.BlobStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &limitedBlob{Blob: b, rc: s.rc}, nil
}

type limitedBlob struct {
	blobstore.Blob
	rc *Controller
}

func (b *limitedBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	n, err := b.Blob.ReadAt(ctx, p, off)
	if n > 0 {
		if werr := b.rc.AcquireIO(ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func (b *limitedBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	rc, err := b.Blob.ReadRange(ctx, off, length)
	if err != nil {
		return nil, err
	}
	return &limitedReadCloser{
		RateLimitedReader: NewRateLimitedReader(ctx, rc, b.rc),
		c:                 rc,
	}, nil
}

type limitedReadCloser struct {
	*RateLimitedReader
	c io.Closer
}

func (r *limitedReadCloser) Close() error { return r.c.Close() }
