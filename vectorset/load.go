package vectorset

import (
	"context"

	"github.com/hupe1980/vecdist/blobstore"
)

// Load reads the vector set stored under name.
func Load(ctx context.Context, store blobstore.BlobStore, name string, opts Options) (*Set, Info, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, Info{}, err
	}
	defer func() { _ = blob.Close() }()

	r, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, Info{}, err
	}
	defer func() { _ = r.Close() }()

	return ReadWithInfo(r, opts)
}

// Save encodes s and stores it under name.
func Save(ctx context.Context, store blobstore.BlobStore, name string, s *Set, opts WriteOptions) error {
	data, err := Encode(s, opts)
	if err != nil {
		return err
	}
	return store.Put(ctx, name, data)
}
