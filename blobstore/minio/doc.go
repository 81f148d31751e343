// Package minio stores vector sets in a MinIO bucket, or any other service
// speaking the S3 API that the MinIO client supports.
//
//	store, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false, "my-bucket", "vectors/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	set, info, err := vectorset.Load(ctx, store, "base.fbin", vectorset.Options{ElementType: distance.Float32})
//
// NewStore wraps an already configured *minio.Client.
package minio
