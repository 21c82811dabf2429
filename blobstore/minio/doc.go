// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage system. This package uses the
// official MinIO Go client library and also works with other S3-compatible
// services like Ceph, SeaweedFS and Garage.
//
// # Basic Usage
//
//	store, err := minio.NewStoreFromConfig(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "images",
//	})
package minio
