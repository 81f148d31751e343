package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hupe1980/vecdist/blobstore"
	"github.com/hupe1980/vecdist/blobstore/minio"
	"github.com/hupe1980/vecdist/blobstore/s3"
)

// openStore resolves cfg.URL to a blob store.
func openStore(ctx context.Context, cfg StoreConfig) (blobstore.BlobStore, error) {
	raw := cfg.URL
	if raw == "" {
		raw = "."
	}
	if !strings.Contains(raw, "://") {
		return blobstore.NewLocalStore(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("store url: %w", err)
	}

	switch u.Scheme {
	case "file":
		return blobstore.NewLocalStore(u.Path), nil
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("store url %q: missing bucket", raw)
		}
		opts := []s3.Option{s3.WithPrefix(strings.TrimPrefix(u.Path, "/"))}
		if cfg.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Endpoint))
		}
		return s3.New(ctx, u.Host, opts...)
	case "minio":
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return nil, fmt.Errorf("store url %q: want minio://host/bucket[/prefix]", raw)
		}
		return minio.Dial(u.Host, cfg.AccessKey, cfg.SecretKey, cfg.Secure, bucket, prefix)
	default:
		return nil, fmt.Errorf("store url %q: unsupported scheme %q", raw, u.Scheme)
	}
}
