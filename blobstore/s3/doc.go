// Package s3 stores vector sets in an Amazon S3 bucket.
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("vectors/"),
//	    s3.WithRegion("us-east-1"),
//	)
//	set, info, err := vectorset.Load(ctx, store, "base.u8bin", vectorset.Options{ElementType: distance.Uint8})
//
// Credentials come from the default AWS chain. WithEndpoint points the
// client at an S3-compatible service and switches to path-style addressing.
// Reads are ranged GETs; Put goes through the multipart upload manager.
package s3
