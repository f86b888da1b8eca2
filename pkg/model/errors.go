package model

import "errors"

// Sentinel errors shared by the readers and the analyses. Callers wrap them
// with the offending line, coordinate or descriptor.
var (
	// ErrMalformedRecord indicates an input line that does not match its format.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrMalformedCallable indicates a callable descriptor that cannot be split.
	ErrMalformedCallable = errors.New("malformed callable descriptor")
	// ErrMisalignedInput indicates breaking-change and extension collections
	// that do not describe the same set of coordinates.
	ErrMisalignedInput = errors.New("misaligned input collections")
	// ErrEmptyInput indicates a ratio or average over an empty collection.
	ErrEmptyInput = errors.New("empty input")
)
