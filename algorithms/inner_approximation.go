package algorithms

import (
	"context"

	"github.com/ssriram1992/epecsolve/solver"
)

// innerApproximation starts every country with an empty polyhedron set
// and iteratively adds heuristically-sampled batches (or a deviation-
// targeted polyhedron once a candidate profile exists) until every
// country's best response is within tolerance of the candidate, a
// non-trivial number of iterations adds nothing new, or the time budget
// is exhausted.
type innerApproximation struct {
	o         Orchestrator
	opts      Options
	candidate []float64
}

const (
	innerApproxTol             = 1e-6
	innerApproxStallIterations = 3
)

func (s *innerApproximation) Solve(ctx context.Context) (Status, error) {
	n := s.o.CountryCount()
	for i := 0; i < n; i++ {
		if err := s.o.ResetCountryApprox(i); err != nil {
			return SolverError, err
		}
	}

	stall := 0
	iteration := 0
	for {
		if deadlineExceeded(s.o) {
			return TimeLimit, nil
		}
		if s.opts.MaxIterations > 0 && iteration >= s.opts.MaxIterations {
			break
		}
		iteration++

		added := 0
		if s.candidate == nil {
			for i := 0; i < n; i++ {
				got, err := s.o.AddCountryPolyBatch(ctx, i, s.opts.Aggressiveness)
				if err != nil {
					return SolverError, err
				}
				added += got
			}
		} else {
			ok, violator, _, err := s.o.IsSolved(s.candidate, innerApproxTol)
			if err != nil {
				return SolverError, err
			}
			if ok {
				return NashEqFound, nil
			}
			if err := s.o.AddCountryPolyFromDeviation(ctx, violator, s.candidate); err != nil {
				return SolverError, err
			}
			added++
		}

		if added == 0 {
			stall++
			if stall >= innerApproxStallIterations {
				if s.candidate != nil {
					return NumericalIssue, nil
				}

				return NashEqNotFound, nil
			}
		} else {
			stall = 0
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
	}

	if s.candidate == nil {
		return NashEqNotFound, nil
	}

	ok, _, _, err := s.o.IsSolved(s.candidate, innerApproxTol)
	if err != nil {
		return SolverError, err
	}
	if ok {
		return NashEqFound, nil
	}

	return NashEqNotFound, nil
}

func (s *innerApproximation) IsSolved(tol float64) (bool, error) {
	if s.candidate == nil {
		return false, ErrNoCandidate
	}
	ok, _, _, err := s.o.IsSolved(s.candidate, tol)

	return ok, err
}
