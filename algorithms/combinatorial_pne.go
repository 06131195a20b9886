package algorithms

import (
	"context"

	"github.com/ssriram1992/epecsolve/solver"
)

// leafDeadlineExceeded checks both ctx cancellation and the host's
// wall-clock budget before each leaf, per spec.md §5's "before each leaf
// in combinatorial PNE" cadence point.
func leafDeadlineExceeded(ctx context.Context, o Orchestrator) bool {
	if ctx.Err() != nil {
		return true
	}

	return deadlineExceeded(o)
}

// combinatorialPNE exhaustively searches the Cartesian product of each
// country's feasible polyhedra: at each leaf (one polyhedron fixed per
// country) it assembles each country's QP from that single polyhedron,
// solves the upper-level LCP as an MIP, and stops on the first solved,
// pure leaf. excluded skips combinations visited in a prior run.
type combinatorialPNE struct {
	o         Orchestrator
	excluded  map[string]bool
	candidate []float64
}

func excludeSet(combos [][]int) map[string]bool {
	set := make(map[string]bool, len(combos))
	for _, c := range combos {
		set[comboKey(c)] = true
	}

	return set
}

func comboKey(indices []int) string {
	key := make([]byte, 0, len(indices)*4)
	for _, idx := range indices {
		key = append(key, byte(idx>>24), byte(idx>>16), byte(idx>>8), byte(idx))
	}

	return string(key)
}

func (s *combinatorialPNE) Solve(ctx context.Context) (Status, error) {
	n := s.o.CountryCount()
	if n == 0 {
		return NashEqNotFound, nil
	}

	for i := 0; i < n; i++ {
		if err := s.o.EnumerateCountry(ctx, i); err != nil {
			return SolverError, err
		}
	}

	widths := make([]int, n)
	for i := 0; i < n; i++ {
		widths[i] = s.o.CombinatorialCount(i)
		if widths[i] == 0 {
			return InfeasibleRelaxed, nil
		}
	}

	indices := make([]int, n)
	for {
		if leafDeadlineExceeded(ctx, s.o) {
			return TimeLimit, nil
		}

		if !s.excluded[comboKey(indices)] {
			status, x, err := s.o.SolveLeafCombination(ctx, append([]int(nil), indices...))
			if err != nil {
				return SolverError, err
			}
			if status == solver.StatusTimeLimit {
				return TimeLimit, nil
			}
			if status.Succeeded() {
				s.candidate = x
				return NashEqFound, nil
			}
			s.excluded[comboKey(indices)] = true
		}

		if !nextCombination(indices, widths) {
			break
		}
	}

	return NashEqNotFound, nil
}

func nextCombination(indices, widths []int) bool {
	for i := len(indices) - 1; i >= 0; i-- {
		indices[i]++
		if indices[i] < widths[i] {
			return true
		}
		indices[i] = 0
	}

	return false
}

func (s *combinatorialPNE) IsSolved(tol float64) (bool, error) {
	if s.candidate == nil {
		return false, ErrNoCandidate
	}
	ok, _, _, err := s.o.IsSolved(s.candidate, tol)

	return ok, err
}
