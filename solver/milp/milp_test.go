// Package milp_test validates the reference solver.Backend: the simplex LP
// engine, the Lemke QP-via-KKT-LCP engine, branch-and-bound over binaries,
// and indicator-constraint compilation to Big-M rows.
package milp_test

import (
	"context"
	"testing"
	"time"

	"github.com/ssriram1992/epecsolve/solver"
	"github.com/ssriram1992/epecsolve/solver/milp"
)

func newModel(t *testing.T, name string) solver.Model {
	t.Helper()
	b := milp.NewBackend()
	m, err := b.NewModel(name)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	return m
}

// TestSimplex_SimpleLP solves: minimize -x - y s.t. x+2y<=4, 3x+y<=6, x,y>=0.
// Optimal: x=8/5, y=6/5, obj=-14/5.
func TestSimplex_SimpleLP(t *testing.T) {
	m := newModel(t, "lp1")
	x, _ := m.AddVar(0, 1e9, solver.Continuous, "x")
	y, _ := m.AddVar(0, 1e9, solver.Continuous, "y")

	if err := m.SetLinearObjective(map[solver.VarRef]float64{x: -1, y: -1}, solver.Minimize); err != nil {
		t.Fatalf("SetLinearObjective: %v", err)
	}
	if err := m.AddLinearConstraint(map[solver.VarRef]float64{x: 1, y: 2}, solver.LE, 4, "c1"); err != nil {
		t.Fatalf("AddLinearConstraint c1: %v", err)
	}
	if err := m.AddLinearConstraint(map[solver.VarRef]float64{x: 3, y: 1}, solver.LE, 6, "c2"); err != nil {
		t.Fatalf("AddLinearConstraint c2: %v", err)
	}

	status, err := m.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !status.Succeeded() {
		t.Fatalf("expected success, got status %v", status)
	}

	obj, err := m.ObjectiveValue()
	if err != nil {
		t.Fatalf("ObjectiveValue: %v", err)
	}
	if diff := obj - (-14.0 / 5.0); diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("objective = %v, want -2.8", obj)
	}

	xv, _ := m.VarValue(x)
	yv, _ := m.VarValue(y)
	if diff := xv - 1.6; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("x = %v, want 1.6", xv)
	}
	if diff := yv - 1.2; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("y = %v, want 1.2", yv)
	}
}

// TestSimplex_Infeasible sets up x<=1 and x>=3, x>=0: no feasible point.
func TestSimplex_Infeasible(t *testing.T) {
	m := newModel(t, "infeasible")
	x, _ := m.AddVar(0, 1e9, solver.Continuous, "x")
	_ = m.SetLinearObjective(map[solver.VarRef]float64{x: 1}, solver.Minimize)
	_ = m.AddLinearConstraint(map[solver.VarRef]float64{x: 1}, solver.LE, 1, "c1")
	_ = m.AddLinearConstraint(map[solver.VarRef]float64{x: 1}, solver.GE, 3, "c2")

	status, err := m.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if status != solver.StatusInfeasible {
		t.Fatalf("status = %v, want StatusInfeasible", status)
	}
}

// TestQP_Unconstrained minimizes x^2 - 2x (unconstrained over x>=0): optimum x=1, obj=-1.
func TestQP_Unconstrained(t *testing.T) {
	m := newModel(t, "qp1")
	x, _ := m.AddVar(0, 1e9, solver.Continuous, "x")
	_ = m.SetLinearObjective(map[solver.VarRef]float64{x: -2}, solver.Minimize)
	if err := m.SetQuadraticObjective(map[[2]solver.VarRef]float64{{x, x}: 1}); err != nil {
		t.Fatalf("SetQuadraticObjective: %v", err)
	}

	status, err := m.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !status.Succeeded() {
		t.Fatalf("status = %v", status)
	}
	xv, _ := m.VarValue(x)
	if diff := xv - 1.0; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("x = %v, want 1.0", xv)
	}
}

// TestQP_Constrained minimizes x^2 + y^2 s.t. x+y>=... expressed as x+y<=2 is
// not binding at the unconstrained optimum (0,0), so it should reduce to that.
func TestQP_Constrained(t *testing.T) {
	m := newModel(t, "qp2")
	x, _ := m.AddVar(0, 1e9, solver.Continuous, "x")
	y, _ := m.AddVar(0, 1e9, solver.Continuous, "y")
	_ = m.SetQuadraticObjective(map[[2]solver.VarRef]float64{{x, x}: 1, {y, y}: 1})
	_ = m.AddLinearConstraint(map[solver.VarRef]float64{x: 1, y: 1}, solver.LE, 2, "cap")

	status, err := m.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !status.Succeeded() {
		t.Fatalf("status = %v", status)
	}
	xv, _ := m.VarValue(x)
	yv, _ := m.VarValue(y)
	if xv > 1e-4 || yv > 1e-4 {
		t.Fatalf("expected (0,0), got (%v,%v)", xv, yv)
	}
}

// TestBranchAndBound_SimpleBinary maximizes 5a+4b s.t. a+b<=1, a,b binary:
// optimum picks a=1,b=0, obj=5.
func TestBranchAndBound_SimpleBinary(t *testing.T) {
	m := newModel(t, "bin1")
	a, _ := m.AddVar(0, 1, solver.Binary, "a")
	b, _ := m.AddVar(0, 1, solver.Binary, "b")
	_ = m.SetLinearObjective(map[solver.VarRef]float64{a: 5, b: 4}, solver.Maximize)
	_ = m.AddLinearConstraint(map[solver.VarRef]float64{a: 1, b: 1}, solver.LE, 1, "cap")

	status, err := m.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !status.Succeeded() {
		t.Fatalf("status = %v", status)
	}
	obj, _ := m.ObjectiveValue()
	if diff := obj - 5.0; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("obj = %v, want 5", obj)
	}
	av, _ := m.VarValue(a)
	bv, _ := m.VarValue(b)
	if av != 1 || bv != 0 {
		t.Fatalf("(a,b) = (%v,%v), want (1,0)", av, bv)
	}
}

// TestBranchAndBound_Deadline confirms a near-zero deadline returns
// StatusTimeLimit rather than hanging or panicking.
func TestBranchAndBound_Deadline(t *testing.T) {
	m := newModel(t, "deadline")
	var refs []solver.VarRef
	for i := 0; i < 12; i++ {
		v, _ := m.AddVar(0, 1, solver.Binary, "v")
		refs = append(refs, v)
	}
	coeffs := make(map[solver.VarRef]float64, len(refs))
	for i, v := range refs {
		coeffs[v] = float64(i + 1)
	}
	_ = m.SetLinearObjective(coeffs, solver.Maximize)
	_ = m.AddLinearConstraint(coeffs, solver.LE, 30, "cap")

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	time.Sleep(time.Millisecond)

	status, err := m.Optimize(ctx)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if status != solver.StatusTimeLimit && !status.Succeeded() {
		t.Fatalf("status = %v, want StatusTimeLimit or a found incumbent", status)
	}
}

// TestIndicatorConstraint_Compiles verifies AddIndicatorConstraint does not
// error and that the resulting model still solves (Big-M compilation smoke test).
func TestIndicatorConstraint_Compiles(t *testing.T) {
	m := newModel(t, "indicator")
	u, _ := m.AddVar(0, 1, solver.Binary, "u")
	x, _ := m.AddVar(0, 10, solver.Continuous, "x")
	_ = m.SetLinearObjective(map[solver.VarRef]float64{x: 1}, solver.Minimize)
	// u == 1  =>  x >= 5
	if err := m.AddIndicatorConstraint(u, true, map[solver.VarRef]float64{x: 1}, solver.GE, 5); err != nil {
		t.Fatalf("AddIndicatorConstraint: %v", err)
	}
	_ = m.AddLinearConstraint(map[solver.VarRef]float64{u: 1}, solver.EQ, 1, "force")

	status, err := m.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !status.Succeeded() {
		t.Fatalf("status = %v", status)
	}
	xv, _ := m.VarValue(x)
	if xv < 5-1e-6 {
		t.Fatalf("x = %v, want >= 5 under active indicator", xv)
	}
}

// TestIndicatorConstraint_RejectsNonBinary enforces the contract that the
// indicator variable itself must be Binary.
func TestIndicatorConstraint_RejectsNonBinary(t *testing.T) {
	m := newModel(t, "badindicator")
	cont, _ := m.AddVar(0, 1, solver.Continuous, "cont")
	x, _ := m.AddVar(0, 10, solver.Continuous, "x")
	err := m.AddIndicatorConstraint(cont, true, map[solver.VarRef]float64{x: 1}, solver.GE, 5)
	if err != solver.ErrNotBinary {
		t.Fatalf("err = %v, want ErrNotBinary", err)
	}
}

// TestVarValue_BeforeSolve confirms VarValue/ObjectiveValue reject queries
// before a successful Optimize call.
func TestVarValue_BeforeSolve(t *testing.T) {
	m := newModel(t, "unsolved")
	x, _ := m.AddVar(0, 1, solver.Continuous, "x")
	if _, err := m.VarValue(x); err != solver.ErrNoSolution {
		t.Fatalf("err = %v, want ErrNoSolution", err)
	}
	if _, err := m.ObjectiveValue(); err != solver.ErrNoSolution {
		t.Fatalf("err = %v, want ErrNoSolution", err)
	}
}

// TestClone_IsIndependent confirms Clone produces a deep-enough copy that
// further mutation of the original does not alter the clone's constraints.
func TestClone_IsIndependent(t *testing.T) {
	m := newModel(t, "cloneme")
	x, _ := m.AddVar(0, 10, solver.Continuous, "x")
	_ = m.SetLinearObjective(map[solver.VarRef]float64{x: 1}, solver.Maximize)
	_ = m.AddLinearConstraint(map[solver.VarRef]float64{x: 1}, solver.LE, 5, "c1")

	clone, err := m.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if err := m.AddLinearConstraint(map[solver.VarRef]float64{x: 1}, solver.LE, 2, "c2"); err != nil {
		t.Fatalf("AddLinearConstraint: %v", err)
	}

	_, err = clone.Optimize(context.Background())
	if err != nil {
		t.Fatalf("clone Optimize: %v", err)
	}
	xv, _ := clone.VarValue(x)
	if xv < 4.99 {
		t.Fatalf("clone x = %v, want ~5 (unaffected by original's later c2)", xv)
	}
}
