package milp

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/ssriram1992/epecsolve/solver"
)

// bbEngine holds all branch-and-bound search state. A dedicated engine
// struct (rather than closures over Model) keeps dependencies explicit and
// the hot path predictable, following tsp/bb.go's bbEngine.
type bbEngine struct {
	m *Model

	binaryIdx []int // indices into m.vars that are Binary
	fixed     map[int][2]float64

	useDeadline bool
	deadline    time.Time
	steps       int

	incumbent    []float64
	incumbentObj float64
	found        bool

	nodeLimit int
	nodes     int
}

// deadlineCheck performs a rare, practically-free deadline test.
func (e *bbEngine) deadlineCheck() bool {
	e.steps++
	if !e.useDeadline || (e.steps&255) != 0 {
		return false
	}

	return time.Now().After(e.deadline)
}

// mostFractional returns the binary variable whose relaxed value is closest
// to 0.5, or -1 if every binary variable is already integral (within tol).
func (e *bbEngine) mostFractional(values []float64) int {
	const tol = 1e-6
	best := -1
	bestDist := tol
	for _, idx := range e.binaryIdx {
		if _, alreadyFixed := e.fixed[idx]; alreadyFixed {
			continue
		}
		frac := values[idx] - math.Floor(values[idx])
		dist := math.Abs(frac - 0.5)
		if math.Min(frac, 1-frac) > tol && (best == -1 || dist < bestDist) {
			best = idx
			bestDist = dist
		}
	}

	return best
}

// branch explores the node with e.fixed applied, recursing on the most
// fractional binary variable. It prunes whenever the relaxation's objective
// cannot beat the current incumbent.
func (e *bbEngine) branch() {
	if e.deadlineCheck() || e.nodes >= e.nodeLimit {
		return
	}
	e.nodes++

	values, objVal, status, err := e.m.solveLPRelaxation(e.fixed)
	if err != nil || !status.Succeeded() {
		return // infeasible subtree
	}
	if e.found && relaxationWorseOrEqual(e.m.sense, objVal, e.incumbentObj) {
		return // bound: cannot improve the incumbent
	}

	branchVar := e.mostFractional(values)
	if branchVar == -1 {
		// Integral: candidate incumbent.
		if !e.found || relaxationBetter(e.m.sense, objVal, e.incumbentObj) {
			e.incumbent = append([]float64(nil), values...)
			e.incumbentObj = objVal
			e.found = true
		}

		return
	}

	// Branch order: floor (0) first, then ceil (1). Both are feasible
	// regions of a binary variable's two fixed states.
	for _, v := range [2]float64{0, 1} {
		e.fixed[branchVar] = [2]float64{v, v}
		e.branch()
		delete(e.fixed, branchVar)

		if e.deadlineCheck() {
			return
		}
	}
}

func relaxationBetter(sense solver.Sense, candidate, incumbent float64) bool {
	if sense == solver.Maximize {
		return candidate > incumbent+1e-9
	}
	return candidate < incumbent-1e-9
}

func relaxationWorseOrEqual(sense solver.Sense, relaxed, incumbent float64) bool {
	if sense == solver.Maximize {
		return relaxed <= incumbent+1e-9
	}
	return relaxed >= incumbent-1e-9
}

// solveBranchAndBound runs exact branch-and-bound over the model's binary
// variables, using solveLPRelaxation (or solveQP's LCP path is not reused
// here: binaries force a pure-LP relaxation at each node) as the bounding
// procedure, grounded on tsp/bb.go's dedicated-engine-struct, deadline-aware
// DFS and on the retrieval pack's jjhbw/GoMILP fractional-branching scheme.
func (m *Model) solveBranchAndBound(ctx context.Context) ([]float64, float64, solver.Status, error) {
	e := &bbEngine{
		m:         m,
		fixed:     make(map[int][2]float64),
		nodeLimit: 200000,
	}
	for i, v := range m.vars {
		if v.kind == solver.Binary {
			e.binaryIdx = append(e.binaryIdx, i)
		}
	}
	sort.Ints(e.binaryIdx)

	if dl, ok := ctx.Deadline(); ok {
		e.useDeadline = true
		e.deadline = dl
	}
	if tl, ok := m.params["TimeLimit"]; ok && tl > 0 {
		d := time.Now().Add(time.Duration(tl * float64(time.Second)))
		if !e.useDeadline || d.Before(e.deadline) {
			e.useDeadline = true
			e.deadline = d
		}
	}

	e.branch()

	if ctx.Err() != nil {
		if e.found {
			return e.incumbent, e.incumbentObj, solver.StatusTimeLimit, nil
		}
		return nil, 0, solver.StatusTimeLimit, nil
	}
	if e.useDeadline && time.Now().After(e.deadline) {
		if e.found {
			return e.incumbent, e.incumbentObj, solver.StatusTimeLimit, nil
		}
		return nil, 0, solver.StatusTimeLimit, nil
	}
	if !e.found {
		return nil, 0, solver.StatusInfeasible, nil
	}

	return e.incumbent, e.incumbentObj, solver.StatusOptimal, nil
}
