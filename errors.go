package quantize

import (
	"errors"
	"fmt"

	"github.com/hupe1980/quantize/internal/kmeans"
)

var (
	// ErrInvalidParameter is matched by every *InvalidParameterError.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNoCandidates is returned by Sweep when no k values are given.
	ErrNoCandidates = errors.New("sweep requires at least one k")
)

// InvalidParameterError indicates a malformed run configuration: k out of
// bounds, an empty point set, a negative tolerance and so on. It is returned
// before any iteration runs.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type InvalidParameterError struct {
	Param  string
	Value  any
	Reason string
	cause  error
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidParameter.
func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

func (e *InvalidParameterError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pe *kmeans.ParamError
	if errors.As(err, &pe) {
		return &InvalidParameterError{Param: pe.Param, Value: pe.Value, Reason: pe.Reason, cause: err}
	}

	return err
}
