package solver

import "errors"

// Sentinel errors shared by every Backend implementation.
var (
	// ErrUnknownVar is returned when a VarRef does not belong to the model
	// it was passed to.
	ErrUnknownVar = errors.New("solver: unknown variable reference")

	// ErrNoSolution is returned by VarValue/ObjectiveValue/WriteSolution
	// before a successful Optimize call.
	ErrNoSolution = errors.New("solver: no solution available")

	// ErrNotBinary is returned when AddIndicatorConstraint is given a
	// non-Binary indicator variable.
	ErrNotBinary = errors.New("solver: indicator variable is not binary")

	// ErrInvalidBounds is returned when AddVar is given lb > ub.
	ErrInvalidBounds = errors.New("solver: lower bound exceeds upper bound")
)
