package matutil

import "errors"

// Sentinel errors for matutil package operations.
var (
	// ErrNegativeCount is returned when a requested pad/splice count is negative.
	ErrNegativeCount = errors.New("matutil: negative pad/splice count")

	// ErrBadPosition is returned when a splice position is out of the valid
	// [0, cols] range (position == -1 meaning "append" is handled separately).
	ErrBadPosition = errors.New("matutil: splice position out of range")

	// ErrDimensionMismatch is returned when VStack/HStack operands disagree on
	// the dimension that must match.
	ErrDimensionMismatch = errors.New("matutil: dimension mismatch")
)
