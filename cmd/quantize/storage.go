package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/hupe1980/quantize/blobstore"
	"github.com/hupe1980/quantize/blobstore/minio"
	"github.com/hupe1980/quantize/blobstore/s3"
)

// location is a parsed blob URI.
type location struct {
	scheme string // "file", "s3" or "minio"
	bucket string // directory for "file"
	name   string
}

func (l location) String() string {
	if l.scheme == "file" {
		return filepath.Join(l.bucket, l.name)
	}
	return l.scheme + "://" + l.bucket + "/" + l.name
}

// parseLocation accepts a plain path, file://path, s3://bucket/key or
// minio://bucket/key.
func parseLocation(uri string) (location, error) {
	if uri == "" {
		return location{}, fmt.Errorf("empty location")
	}
	if !strings.Contains(uri, "://") {
		return fileLocation(uri)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return location{}, fmt.Errorf("parse %q: %w", uri, err)
	}

	switch u.Scheme {
	case "file":
		return fileLocation(u.Host + u.Path)
	case "s3", "minio":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return location{}, fmt.Errorf("%q: want %s://bucket/key", uri, u.Scheme)
		}
		return location{scheme: u.Scheme, bucket: u.Host, name: key}, nil
	default:
		return location{}, fmt.Errorf("%q: unsupported scheme %q", uri, u.Scheme)
	}
}

func fileLocation(path string) (location, error) {
	path = filepath.Clean(path)
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return location{}, fmt.Errorf("%q is not a file path", path)
	}
	return location{scheme: "file", bucket: filepath.Dir(path), name: name}, nil
}

// storeFor builds the store serving loc. Remote stores retry transient
// failures.
func storeFor(ctx context.Context, loc location, cfg Config, logger *slog.Logger) (blobstore.BlobStore, error) {
	switch loc.scheme {
	case "file":
		return blobstore.NewLocalStore(loc.bucket), nil
	case "s3":
		var optFns []func(*config.LoadOptions) error
		if cfg.S3.Region != "" {
			optFns = append(optFns, config.WithRegion(cfg.S3.Region))
		}
		store, err := s3.NewFromConfig(ctx, loc.bucket, "", optFns...)
		if err != nil {
			return nil, err
		}
		return blobstore.NewRetryStore(store, cfg.retryConfig(), logger), nil
	case "minio":
		mc := cfg.MinIO
		mc.Bucket = loc.bucket
		mc.Prefix = ""
		store, err := minio.NewStoreFromConfig(mc)
		if err != nil {
			return nil, err
		}
		return blobstore.NewRetryStore(store, cfg.retryConfig(), logger), nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q", loc.scheme)
	}
}
