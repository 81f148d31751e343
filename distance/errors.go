package distance

import "errors"

var (
	// ErrUnknownMetric is returned when a metric cannot be resolved.
	ErrUnknownMetric = errors.New("distance: unknown metric")

	// ErrUnknownElementType is returned when an element type cannot be resolved.
	ErrUnknownElementType = errors.New("distance: unknown element type")

	// ErrUnknownTier is returned when a kernel tier name cannot be resolved.
	ErrUnknownTier = errors.New("distance: unknown tier")
)
