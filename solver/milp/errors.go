package milp

import "errors"

// Sentinel errors for the reference backend, beyond those in package solver.
var (
	// ErrUnsupportedModel is returned when Optimize is asked to solve a
	// shape this reference backend cannot handle: GE/EQ constraints or a
	// nonzero lower bound mixed with a quadratic objective — the KKT-LCP
	// path only supports <= constraints with variables bounded below by
	// zero, matching ParamQP's own shape.
	ErrUnsupportedModel = errors.New("milp: unsupported model shape for reference backend")

	// ErrSimplexUnbounded is returned when the LP relaxation is unbounded.
	ErrSimplexUnbounded = errors.New("milp: LP relaxation is unbounded")

	// ErrLemkeRayTermination is returned when Lemke's algorithm terminates
	// on a secondary ray without finding a complementary solution (can
	// happen when M is not PSD, or due to degeneracy).
	ErrLemkeRayTermination = errors.New("milp: Lemke's algorithm terminated on a ray")
)
