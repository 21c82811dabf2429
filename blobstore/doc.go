// Package blobstore abstracts where input images and quantization outputs
// live.
//
// A BlobStore reads and writes whole named blobs. Implementations must be
// safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem rooted at a directory
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with ranged reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// RetryStore wraps any of them with exponential backoff for transient
// failures.
package blobstore
