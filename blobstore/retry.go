package blobstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig configures RetryStore.
type RetryConfig struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	MaxElapsedTime      time.Duration
	Multiplier          float64
	RandomizationFactor float64
	// MaxRetries bounds the number of retries after the first attempt.
	// 0 means no bound other than MaxElapsedTime.
	MaxRetries uint64
}

// DefaultRetryConfig returns settings suited to object storage round trips.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval:     100 * time.Millisecond,
		MaxInterval:         5 * time.Second,
		MaxElapsedTime:      30 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.1,
		MaxRetries:          5,
	}
}

// RetryStore retries failed operations of the wrapped store with
// exponential backoff.
//
// ErrNotFound, context cancellation and errors for which IsRetryable
// returns false are returned immediately.
type RetryStore struct {
	inner  BlobStore
	cfg    RetryConfig
	logger *slog.Logger

	// IsRetryable classifies errors. Nil retries everything except the
	// permanent errors above.
	IsRetryable func(error) bool
}

// NewRetryStore wraps inner. A nil logger discards retry notifications.
func NewRetryStore(inner BlobStore, cfg RetryConfig, logger *slog.Logger) *RetryStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RetryStore{inner: inner, cfg: cfg, logger: logger}
}

func (s *RetryStore) policy(ctx context.Context) backoff.BackOffContext {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.cfg.InitialInterval
	policy.MaxInterval = s.cfg.MaxInterval
	policy.MaxElapsedTime = s.cfg.MaxElapsedTime
	policy.Multiplier = s.cfg.Multiplier
	policy.RandomizationFactor = s.cfg.RandomizationFactor

	var b backoff.BackOff = policy
	if s.cfg.MaxRetries > 0 {
		b = backoff.WithMaxRetries(b, s.cfg.MaxRetries)
	}
	return backoff.WithContext(b, ctx)
}

func (s *RetryStore) permanent(err error) bool {
	if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return s.IsRetryable != nil && !s.IsRetryable(err)
}

func (s *RetryStore) do(ctx context.Context, op, name string, fn func() error) error {
	return backoff.RetryNotify(
		func() error {
			err := fn()
			if err != nil && s.permanent(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		s.policy(ctx),
		func(err error, wait time.Duration) {
			s.logger.WarnContext(ctx, "blob operation failed, retrying",
				slog.String("op", op),
				slog.String("name", name),
				slog.Duration("wait", wait),
				slog.Any("error", err),
			)
		},
	)
}

// Open opens a blob, retrying transient failures.
func (s *RetryStore) Open(ctx context.Context, name string) (Blob, error) {
	var blob Blob
	err := s.do(ctx, "open", name, func() error {
		var err error
		blob, err = s.inner.Open(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// Put writes a blob, retrying transient failures.
func (s *RetryStore) Put(ctx context.Context, name string, data []byte) error {
	return s.do(ctx, "put", name, func() error {
		return s.inner.Put(ctx, name, data)
	})
}

// Delete removes a blob, retrying transient failures.
func (s *RetryStore) Delete(ctx context.Context, name string) error {
	return s.do(ctx, "delete", name, func() error {
		return s.inner.Delete(ctx, name)
	})
}

// List lists blobs, retrying transient failures.
func (s *RetryStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := s.do(ctx, "list", prefix, func() error {
		var err error
		names, err = s.inner.List(ctx, prefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
