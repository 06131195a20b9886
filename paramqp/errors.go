package paramqp

import "errors"

// Sentinel errors for package paramqp.
var (
	// ErrInvalidShape is returned by New/Set when Q, C, A, B, c, or b have
	// mismatched or non-symmetric dimensions.
	ErrInvalidShape = errors.New("paramqp: invalid shape")

	// ErrWrongArity is returned by SolveFixed when xHat's length != Nx.
	ErrWrongArity = errors.New("paramqp: wrong arity")

	// ErrNotPSD is returned by New/Set when Q fails a positive-semidefinite check.
	ErrNotPSD = errors.New("paramqp: Q is not positive semidefinite")

	// ErrNoBackend is returned by SolveFixed when the supplied backend is nil.
	ErrNoBackend = errors.New("paramqp: nil backend")
)
