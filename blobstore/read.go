package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/quantize/resource"
)

// ReadAll opens name and reads it completely.
//
// When rc is non-nil the read is charged against its IO rate limit.
func ReadAll(ctx context.Context, store BlobStore, name string, rc *resource.Controller) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = blob.Close() }()

	var r io.Reader = io.NewSectionReader(blob, 0, blob.Size())
	if rc != nil {
		r = resource.NewRateLimitedReader(ctx, r, rc)
	}

	buf := bytes.NewBuffer(make([]byte, 0, blob.Size()))
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("blobstore: read %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
