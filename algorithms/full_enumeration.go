package algorithms

import (
	"context"

	"github.com/ssriram1992/epecsolve/solver"
)

// fullEnumeration enumerates every 2^n polyhedron for every country,
// builds the complete convex-hull QP, and solves the upper-level Nash
// game exactly once.
type fullEnumeration struct {
	o         Orchestrator
	candidate []float64
}

func (s *fullEnumeration) Solve(ctx context.Context) (Status, error) {
	for i := 0; i < s.o.CountryCount(); i++ {
		if err := s.o.EnumerateCountry(ctx, i); err != nil {
			return SolverError, err
		}
		if deadlineExceeded(s.o) {
			return TimeLimit, nil
		}
	}

	if err := s.o.MakePlayersQP(ctx); err != nil {
		return SolverError, err
	}

	status, x, err := s.o.SolveUpperLevelOnce(ctx)
	if err != nil {
		return SolverError, err
	}
	if status == solver.StatusTimeLimit {
		return TimeLimit, nil
	}
	if !status.Succeeded() {
		return NashEqNotFound, nil
	}

	s.candidate = x

	return NashEqFound, nil
}

func (s *fullEnumeration) IsSolved(tol float64) (bool, error) {
	if s.candidate == nil {
		return false, ErrNoCandidate
	}
	ok, _, _, err := s.o.IsSolved(s.candidate, tol)

	return ok, err
}
