package vectorset

import (
	"errors"
	"fmt"
)

var (
	// ErrShortRead is returned when the input ends before the header,
	// codebook or rows declared by the header are complete.
	ErrShortRead = errors.New("vectorset: short read")

	// ErrInvalidHeader is the sentinel wrapped by every HeaderError.
	ErrInvalidHeader = errors.New("vectorset: invalid header")

	// ErrElementType is returned when a typed accessor does not match the
	// element type of the set.
	ErrElementType = errors.New("vectorset: element type mismatch")

	// ErrRaggedRows is returned when rows passed to FromRows differ in length.
	ErrRaggedRows = errors.New("vectorset: rows differ in length")
)

// HeaderError describes a header field that is out of range or inconsistent.
type HeaderError struct {
	Field  string
	Value  int64
	Reason string
	Err    error
}

func (e *HeaderError) Error() string {
	msg := fmt.Sprintf("vectorset: invalid header field %s=%d: %s", e.Field, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrInvalidHeader and the underlying cause.
func (e *HeaderError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidHeader, e.Err}
	}
	return []error{ErrInvalidHeader}
}
