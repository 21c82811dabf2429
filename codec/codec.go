// Package codec encodes run and sweep reports.
//
// Reports are written by name ("json" or "go-json"); both produce the same
// JSON document so either codec can read what the other wrote.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Appender is implemented by codecs that can encode into an existing buffer.
type Appender interface {
	Append(dst []byte, v any) ([]byte, error)
}

// Append encodes v with c (or Default when c is nil) and appends the result
// to dst.
func Append(c Codec, dst []byte, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if a, ok := c.(Appender); ok {
		return a.Append(dst, v)
	}
	b, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	return append(dst, b...), nil
}
