// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.NewFromConfig(ctx, "my-bucket", "quantized/",
//	    config.WithRegion("us-east-1"),
//	)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large images
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
