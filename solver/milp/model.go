package milp

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/ssriram1992/epecsolve/solver"
)

type variable struct {
	lb, ub float64
	kind   solver.VarKind
	name   string
}

type linConstraint struct {
	coeffs map[solver.VarRef]float64
	sense  solver.ConstraintSense
	rhs    float64
	name   string
}

// Model is the reference solver.Model implementation. It is not
// goroutine-safe; per spec §5 the whole engine is single-threaded.
type Model struct {
	name   string
	vars   []variable
	objLin map[solver.VarRef]float64
	sense  solver.Sense
	objQ   map[[2]solver.VarRef]float64
	cons   []linConstraint
	params map[string]float64

	solved bool
	status solver.Status
	values []float64
	objVal float64
}

// NewModel allocates a fresh, empty Model.
func NewModel(name string) (*Model, error) {
	return &Model{
		name:   name,
		objLin: make(map[solver.VarRef]float64),
		objQ:   make(map[[2]solver.VarRef]float64),
		params: map[string]float64{"BigM": 1e7, "IntFeasTol": 1e-6, "MIPGap": 1e-9, "Threads": 0, "TimeLimit": 0},
	}, nil
}

func (m *Model) AddVar(lb, ub float64, kind solver.VarKind, name string) (solver.VarRef, error) {
	if kind == solver.Binary {
		lb, ub = 0, 1
	} else if lb > ub {
		return 0, solver.ErrInvalidBounds
	}
	m.vars = append(m.vars, variable{lb: lb, ub: ub, kind: kind, name: name})
	m.solved = false

	return solver.VarRef(len(m.vars) - 1), nil
}

func (m *Model) checkVar(v solver.VarRef) error {
	if int(v) < 0 || int(v) >= len(m.vars) {
		return solver.ErrUnknownVar
	}
	return nil
}

func (m *Model) SetLinearObjective(coeffs map[solver.VarRef]float64, sense solver.Sense) error {
	for v := range coeffs {
		if err := m.checkVar(v); err != nil {
			return err
		}
	}
	cp := make(map[solver.VarRef]float64, len(coeffs))
	for k, v := range coeffs {
		cp[k] = v
	}
	m.objLin = cp
	m.sense = sense
	m.solved = false

	return nil
}

func (m *Model) SetQuadraticObjective(q map[[2]solver.VarRef]float64) error {
	for pair := range q {
		if err := m.checkVar(pair[0]); err != nil {
			return err
		}
		if err := m.checkVar(pair[1]); err != nil {
			return err
		}
	}
	cp := make(map[[2]solver.VarRef]float64, len(q))
	for k, v := range q {
		cp[k] = v
	}
	m.objQ = cp
	m.solved = false

	return nil
}

func (m *Model) AddLinearConstraint(coeffs map[solver.VarRef]float64, sense solver.ConstraintSense, rhs float64, name string) error {
	for v := range coeffs {
		if err := m.checkVar(v); err != nil {
			return err
		}
	}
	cp := make(map[solver.VarRef]float64, len(coeffs))
	for k, v := range coeffs {
		cp[k] = v
	}
	m.cons = append(m.cons, linConstraint{coeffs: cp, sense: sense, rhs: rhs, name: name})
	m.solved = false

	return nil
}

// AddIndicatorConstraint compiles (indicator == indicatorValue) => (coeffs·x
// <sense> rhs) into Big-M linear constraint(s), per this package's doc.go.
func (m *Model) AddIndicatorConstraint(indicator solver.VarRef, indicatorValue bool, coeffs map[solver.VarRef]float64, sense solver.ConstraintSense, rhs float64) error {
	if err := m.checkVar(indicator); err != nil {
		return err
	}
	if m.vars[indicator].kind != solver.Binary {
		return solver.ErrNotBinary
	}
	bigM := m.params["BigM"]
	sign := 1.0
	if !indicatorValue {
		sign = -1.0
	}

	addRow := func(sense solver.ConstraintSense, rhsAdj float64, name string) error {
		cp := make(map[solver.VarRef]float64, len(coeffs)+1)
		for k, v := range coeffs {
			cp[k] = v
		}
		indCoef := sign * bigM
		if sense == solver.GE {
			indCoef = -indCoef
		}
		cp[indicator] += indCoef
		return m.AddLinearConstraint(cp, sense, rhsAdj, name)
	}

	switch sense {
	case solver.LE:
		// coeffs·x <= rhs + M*(1-u)  [u active]  or  <= rhs + M*u  [1-u active]
		if indicatorValue {
			return addRow(solver.LE, rhs+bigM, fmt.Sprintf("%s_ind_le", m.name))
		}
		return addRow(solver.LE, rhs, fmt.Sprintf("%s_ind_le", m.name))
	case solver.GE:
		if indicatorValue {
			return addRow(solver.GE, rhs-bigM, fmt.Sprintf("%s_ind_ge", m.name))
		}
		return addRow(solver.GE, rhs, fmt.Sprintf("%s_ind_ge", m.name))
	case solver.EQ:
		leRhs, geRhs := rhs, rhs
		if indicatorValue {
			leRhs += bigM
			geRhs -= bigM
		}
		if err := addRow(solver.LE, leRhs, fmt.Sprintf("%s_ind_eq_le", m.name)); err != nil {
			return err
		}
		return addRow(solver.GE, geRhs, fmt.Sprintf("%s_ind_eq_ge", m.name))
	}

	return nil
}

func (m *Model) SetParam(name string, value float64) error {
	m.params[name] = value
	return nil
}

func (m *Model) VarValue(v solver.VarRef) (float64, error) {
	if err := m.checkVar(v); err != nil {
		return 0, err
	}
	if !m.solved {
		return 0, solver.ErrNoSolution
	}
	return m.values[v], nil
}

func (m *Model) ObjectiveValue() (float64, error) {
	if !m.solved {
		return 0, solver.ErrNoSolution
	}
	return m.objVal, nil
}

func (m *Model) Clone() (solver.Model, error) {
	cp := &Model{
		name:   m.name,
		vars:   append([]variable(nil), m.vars...),
		objLin: make(map[solver.VarRef]float64, len(m.objLin)),
		sense:  m.sense,
		objQ:   make(map[[2]solver.VarRef]float64, len(m.objQ)),
		params: make(map[string]float64, len(m.params)),
		solved: m.solved,
		status: m.status,
		objVal: m.objVal,
	}
	for k, v := range m.objLin {
		cp.objLin[k] = v
	}
	for k, v := range m.objQ {
		cp.objQ[k] = v
	}
	for k, v := range m.params {
		cp.params[k] = v
	}
	cp.cons = make([]linConstraint, len(m.cons))
	for i, c := range m.cons {
		nc := linConstraint{sense: c.sense, rhs: c.rhs, name: c.name, coeffs: make(map[solver.VarRef]float64, len(c.coeffs))}
		for k, v := range c.coeffs {
			nc.coeffs[k] = v
		}
		cp.cons[i] = nc
	}
	if m.values != nil {
		cp.values = append([]float64(nil), m.values...)
	}

	return cp, nil
}

func (m *Model) WriteLP(w io.Writer) error {
	fmt.Fprintf(w, "\\ Model %s\n", m.name)
	dir := "Minimize"
	if m.sense == solver.Maximize {
		dir = "Maximize"
	}
	fmt.Fprintf(w, "%s\n obj:", dir)
	names := sortedVarRefs(m.objLin)
	for _, v := range names {
		fmt.Fprintf(w, " %+g x%d", m.objLin[v], v)
	}
	fmt.Fprintln(w)
	if len(m.objQ) > 0 {
		fmt.Fprintln(w, " + [ quadratic terms ]")
	}
	fmt.Fprintln(w, "Subject To")
	for i, c := range m.cons {
		fmt.Fprintf(w, " c%d:", i)
		for _, v := range sortedVarRefs(c.coeffs) {
			fmt.Fprintf(w, " %+g x%d", c.coeffs[v], v)
		}
		fmt.Fprintf(w, " %s %g\n", senseStr(c.sense), c.rhs)
	}
	fmt.Fprintln(w, "Bounds")
	for i, v := range m.vars {
		fmt.Fprintf(w, " %g <= x%d <= %g\n", v.lb, i, v.ub)
	}
	fmt.Fprintln(w, "End")

	return nil
}

func (m *Model) WriteSolution(w io.Writer) error {
	if !m.solved {
		return solver.ErrNoSolution
	}
	fmt.Fprintf(w, "# Solution for %s, objective %g\n", m.name, m.objVal)
	for i, val := range m.values {
		fmt.Fprintf(w, "x%d %g\n", i, val)
	}

	return nil
}

func sortedVarRefs(m interface{}) []solver.VarRef {
	var out []solver.VarRef
	switch mm := m.(type) {
	case map[solver.VarRef]float64:
		for v := range mm {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func senseStr(s solver.ConstraintSense) string {
	switch s {
	case solver.LE:
		return "<="
	case solver.GE:
		return ">="
	default:
		return "="
	}
}

// Optimize dispatches to the LP, QP (KKT-LCP), or branch-and-bound engine
// depending on what the model contains, per this package's doc.go.
func (m *Model) Optimize(ctx context.Context) (solver.Status, error) {
	hasBinary := false
	for _, v := range m.vars {
		if v.kind == solver.Binary {
			hasBinary = true
			break
		}
	}

	var status solver.Status
	var values []float64
	var objVal float64
	var err error

	switch {
	case hasBinary:
		values, objVal, status, err = m.solveBranchAndBound(ctx)
	case len(m.objQ) > 0:
		values, objVal, status, err = m.solveQP()
	default:
		values, objVal, status, err = m.solveLPRelaxation(nil)
	}
	if err != nil {
		return status, err
	}

	m.solved = status.Succeeded()
	m.status = status
	m.values = values
	m.objVal = objVal

	return status, nil
}

// signedObj returns the objective coefficient vector oriented for
// minimization (negated if the model's sense is Maximize).
func (m *Model) signedObj() []float64 {
	c := make([]float64, len(m.vars))
	for v, coef := range m.objLin {
		c[v] = coef
	}
	if m.sense == solver.Maximize {
		for i := range c {
			c[i] = -c[i]
		}
	}

	return c
}

func (m *Model) reportObjective(values []float64) float64 {
	var v float64
	for vr, coef := range m.objLin {
		v += coef * values[vr]
	}
	for pair, coef := range m.objQ {
		v += coef * values[pair[0]] * values[pair[1]]
	}

	return v
}

// solveLPRelaxation solves the model as a pure LP, with fixed overrides
// (used by branch-and-bound to fix binary variables at a node) optionally
// replacing each variable's [lb,ub] by a single point.
func (m *Model) solveLPRelaxation(fixed map[int][2]float64) ([]float64, float64, solver.Status, error) {
	n := len(m.vars)
	lb := make([]float64, n)
	ub := make([]float64, n)
	for i, v := range m.vars {
		lb[i], ub[i] = v.lb, v.ub
	}
	for i, bounds := range fixed {
		lb[i], ub[i] = bounds[0], bounds[1]
	}

	// Shift variables so every LP variable is >= 0: x_i = x'_i + lb_i.
	rows := make([]lpRow, 0, len(m.cons)+n)
	for _, c := range m.cons {
		row := make([]float64, n)
		shift := 0.0
		for v, coef := range c.coeffs {
			row[v] = coef
			if !math.IsInf(lb[v], 0) {
				shift += coef * lb[v]
			}
		}
		rows = append(rows, lpRow{coeffs: row, sense: c.sense, rhs: c.rhs - shift})
	}
	for i := 0; i < n; i++ {
		if !math.IsInf(ub[i], 0) {
			row := make([]float64, n)
			row[i] = 1
			rows = append(rows, lpRow{coeffs: row, sense: solver.LE, rhs: ub[i] - lb[i]})
		}
	}

	obj := m.signedObj()
	shiftedValues, shiftedObj, status, err := solveLP(n, obj, rows)
	if err != nil || !status.Succeeded() {
		return nil, 0, status, err
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = shiftedValues[i] + lb[i]
	}
	objVal := m.reportObjective(values)
	_ = shiftedObj

	return values, objVal, status, nil
}

// solveQP solves a convex quadratic model with no binary variables by
// forming its KKT system as a linear complementarity problem and invoking
// Lemke's algorithm. Supported shape: all variables have lb == 0 and all
// constraints are <=; a finite upper bound becomes one more <= row.
func (m *Model) solveQP() ([]float64, float64, solver.Status, error) {
	n := len(m.vars)
	cons := append([]linConstraint(nil), m.cons...)
	for i, v := range m.vars {
		if v.lb != 0 {
			return nil, 0, solver.StatusInfeasible, ErrUnsupportedModel
		}
		if !math.IsInf(v.ub, 1) {
			cons = append(cons, linConstraint{coeffs: map[solver.VarRef]float64{solver.VarRef(i): 1}, sense: solver.LE, rhs: v.ub})
		}
	}
	for _, c := range cons {
		if c.sense != solver.LE {
			return nil, 0, solver.StatusInfeasible, ErrUnsupportedModel
		}
	}

	nCons := len(cons)
	dim := n + nCons

	mk := make([][]float64, dim)
	for i := range mk {
		mk[i] = make([]float64, dim)
	}
	// Top-left n x n block: the Hessian of sum_{i,j} q_ij x_i x_j, i.e.
	// 2*q_ii on the diagonal and q_ij added to both (i,j) and (j,i).
	for pair, coef := range m.objQ {
		i, j := int(pair[0]), int(pair[1])
		if i == j {
			mk[i][i] += 2 * coef
		} else {
			mk[i][j] += coef
			mk[j][i] += coef
		}
	}
	// Top-right n x nCons block: Aᵀ (constraint coeffs transposed).
	// Bottom-left nCons x n block: -A.
	aRows := make([][]float64, nCons)
	bRhs := make([]float64, nCons)
	for k, c := range cons {
		row := make([]float64, n)
		for v, coef := range c.coeffs {
			row[v] = coef
		}
		aRows[k] = row
		bRhs[k] = c.rhs
		for i := 0; i < n; i++ {
			mk[i][n+k] += row[i]
			mk[n+k][i] -= row[i]
		}
	}

	q := make([]float64, dim)
	for v, coef := range m.objLin {
		q[v] = coef
	}
	copy(q[n:], bRhs)

	z, _, err := solveLCP(mk, q)
	if err != nil {
		return nil, 0, solver.StatusInfeasible, err
	}
	values := z[:n]
	objVal := m.reportObjective(values)

	return values, objVal, solver.StatusOptimal, nil
}
