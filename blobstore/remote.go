package blobstore

import (
	"context"
	"io"
	"path"
	"strings"
)

// RangeFunc fetches the inclusive byte range [off, end] of a remote object.
type RangeFunc func(ctx context.Context, off, end int64) (io.ReadCloser, error)

// NewRangeBlob returns a Blob of the given size whose reads are served by
// fetch, one ranged request per ReadAt or ReadRange.
func NewRangeBlob(size int64, fetch RangeFunc) Blob {
	return &rangeBlob{size: size, fetch: fetch}
}

type rangeBlob struct {
	size  int64
	fetch RangeFunc
}

func (b *rangeBlob) Size() int64  { return b.size }
func (b *rangeBlob) Close() error { return nil }

func (b *rangeBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	end, ok := ClipRange(off, int64(len(p)), b.size)
	if !ok {
		return 0, io.EOF
	}

	body, err := b.fetch(ctx, off, end)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	n, err := io.ReadFull(body, p[:end-off+1])
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

func (b *rangeBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	end, ok := ClipRange(off, length, b.size)
	if !ok {
		return io.NopCloser(eofReader{}), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.fetch(ctx, off, end)
}

// Prefix maps blob names to object keys below a root prefix.
type Prefix string

// Key returns the object key of name.
func (p Prefix) Key(name string) string {
	return path.Join(string(p), name)
}

// Scope returns the key prefix that selects the names starting with prefix.
// Unlike Key it keeps a trailing slash, so "sets/" does not match "sets2".
func (p Prefix) Scope(prefix string) string {
	root := p.root()
	if root == "" {
		return prefix
	}
	return root + "/" + prefix
}

// Name returns the blob name of key. It returns "" when key is the prefix
// itself or lies outside it.
func (p Prefix) Name(key string) string {
	root := p.root()
	if root == "" {
		return key
	}
	name, ok := strings.CutPrefix(key, root+"/")
	if !ok {
		return ""
	}
	return name
}

func (p Prefix) root() string {
	return strings.TrimSuffix(string(p), "/")
}
