package kmeans

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is the sentinel matched by every ParamError.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError describes a rejected run configuration.
type ParamError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }

func paramError(param string, value any, format string, args ...any) error {
	return &ParamError{Param: param, Value: value, Reason: fmt.Sprintf(format, args...)}
}
