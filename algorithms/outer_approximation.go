package algorithms

import (
	"context"

	"github.com/ssriram1992/epecsolve/solver"
)

// outerApproximation gives each country an OuterLCP and a branching tree.
// Per iteration it branches one node per country (the host picks the
// location via the composite rule of spec.md §4.8: prefer a complementarity
// violated by the current candidate, else the best-response deviation's
// encoding, else the first still-permitted position, whose choice does not
// weigh the sizes of x or z), re-derives every
// country's ParamQP, and re-solves the upper-level LCP. It stops once an
// equilibrium is found or every country's branching tree is exhausted.
type outerApproximation struct {
	o         Orchestrator
	candidate []float64
}

func (s *outerApproximation) Solve(ctx context.Context) (Status, error) {
	n := s.o.CountryCount()
	for i := 0; i < n; i++ {
		if err := s.o.ResetCountryApprox(i); err != nil {
			return SolverError, err
		}
	}

	for {
		if deadlineExceeded(s.o) {
			return TimeLimit, nil
		}

		anyBranched := false
		for i := 0; i < n; i++ {
			branched, err := s.o.BranchCountryOnce(ctx, i, s.candidate)
			if err != nil {
				return SolverError, err
			}
			if branched {
				anyBranched = true
			}
		}
		if !anyBranched {
			break
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
			continue
		}
		s.candidate = x

		ok, _, _, err := s.o.IsSolved(s.candidate, innerApproxTol)
		if err != nil {
			return SolverError, err
		}
		if ok {
			return NashEqFound, nil
		}
	}

	return NashEqNotFound, nil
}

func (s *outerApproximation) IsSolved(tol float64) (bool, error) {
	if s.candidate == nil {
		return false, ErrNoCandidate
	}
	ok, _, _, err := s.o.IsSolved(s.candidate, tol)

	return ok, err
}
