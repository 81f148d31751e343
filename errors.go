package vecdist

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecdist/blobstore"
	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/quantization"
	"github.com/hupe1980/vecdist/vectorset"
)

var (
	// ErrNotFound is returned when the named vector set does not exist.
	ErrNotFound = errors.New("vector set not found")

	// ErrLoad is returned when a vector set cannot be decoded.
	ErrLoad = errors.New("vector set load failed")

	// ErrRowOutOfRange is returned when a row index is outside the set.
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrInvalidArgument is returned for unresolvable metrics, element types or tiers.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if errors.Is(err, distance.ErrUnknownMetric) ||
		errors.Is(err, distance.ErrUnknownElementType) ||
		errors.Is(err, distance.ErrUnknownTier) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if errors.Is(err, quantization.ErrDimensionMismatch) {
		return &ErrDimensionMismatch{cause: err}
	}

	if errors.Is(err, vectorset.ErrInvalidHeader) ||
		errors.Is(err, vectorset.ErrShortRead) ||
		errors.Is(err, vectorset.ErrRaggedRows) ||
		errors.Is(err, quantization.ErrInvalidCodebook) {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	return err
}
