package algorithms

import "errors"

// Sentinel errors for the EPEC strategy half of package algorithms.
var (
	// ErrUnknownKind is returned by New for an unrecognized Kind.
	ErrUnknownKind = errors.New("algorithms: unknown strategy kind")

	// ErrNoCandidate is returned by IsSolved before any Solve call has
	// produced a candidate profile.
	ErrNoCandidate = errors.New("algorithms: no candidate solution yet")
)
