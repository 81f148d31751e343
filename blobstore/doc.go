// Package blobstore provides read and write access to vector-set files in
// local or remote storage.
//
// BlobStore is the interface for opening, writing and listing blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem rooted at a directory
//   - MemoryStore: In-memory store for tests and tools
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// Remote backends build their blobs with NewRangeBlob and map names to keys
// with Prefix.
//
// # Custom Implementations
//
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)     // Open for reading
//	    Put(ctx, name, data) error        // Atomic write
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blobs are read sequentially with NewReader, or in ranges:
//
//	type Blob interface {
//	    ReadAt(ctx, p, off) (int, error)
//	    ReadRange(ctx, off, len) (io.ReadCloser, error)
//	    Size() int64
//	    Close() error
//	}
package blobstore
