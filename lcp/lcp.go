package lcp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/nashgame"
	"github.com/ssriram1992/epecsolve/persist"
	"github.com/ssriram1992/epecsolve/solver"
)

// Reformulation selects which MIP encoding of complementarity LCP.buildModel
// emits, mirroring the teacher's tsp.BoundAlgo enum-and-switch idiom.
type Reformulation int

const (
	// ReformulationIndicator emits two binaries per pair (u+v=1) with
	// indicator constraints; numerically robust, the package default.
	ReformulationIndicator Reformulation = iota
	// ReformulationBigM emits one binary per pair with Big-M constraints;
	// numerically fragile for large BigM but preferred when the backend's
	// barrier method is in use.
	ReformulationBigM
)

// DefaultBigM is the default Big-M constant (spec default 1e7).
const DefaultBigM = 1e7

// LCP is the base linear complementarity problem 0 <= x ⊥ Mx+q >= 0 with an
// explicit complementarity pairing, optional side constraints, and a
// contiguous non-complemented "leader" variable range. M is generally
// non-square: leader variables occupy columns of x but never rows of M,
// since they carry no complementarity condition of their own, so
// cols(M) == rows(M) + leaderCount.
type LCP struct {
	m *mat.Dense
	q []float64

	pairing   [][2]int // (equation row index, variable column index)
	leadStart int
	leadEnd   int // inclusive; leadEnd < leadStart means empty

	aSide *mat.Dense
	bSide []float64

	Reform Reformulation
	BigM   float64

	relaxedBuilt bool
}

// New constructs an LCP from explicit data, validating pairing coverage.
// M need not be square: cols(M) must equal rows(M) + leaderCount, since
// leader variables (one per column in [leadStart, leadEnd]) have no
// corresponding equation row.
func New(m *mat.Dense, q []float64, pairing [][2]int, leadStart, leadEnd int, aSide *mat.Dense, bSide []float64) (*LCP, error) {
	r, c := m.Dims()
	if len(q) != r {
		return nil, ErrBadShape
	}
	if leadStart < 0 || leadEnd >= c || leadEnd < leadStart-1 {
		return nil, ErrBadLeaderRange
	}

	leaderCount := 0
	if leadEnd >= leadStart {
		leaderCount = leadEnd - leadStart + 1
	}
	if c != r+leaderCount {
		return nil, ErrBadShape
	}
	if len(pairing) != r {
		return nil, ErrPairingMismatch
	}
	seenEq := make(map[int]bool, len(pairing))
	seenVar := make(map[int]bool, len(pairing))
	for _, p := range pairing {
		if seenEq[p[0]] || seenVar[p[1]] {
			return nil, ErrPairingMismatch
		}
		seenEq[p[0]] = true
		seenVar[p[1]] = true
	}

	l := &LCP{
		m:         m,
		q:         append([]float64(nil), q...),
		pairing:   append([][2]int(nil), pairing...),
		leadStart: leadStart,
		leadEnd:   leadEnd,
		aSide:     aSide,
		bSide:     append([]float64(nil), bSide...),
		Reform:    ReformulationIndicator,
		BigM:      DefaultBigM,
	}

	return l, nil
}

// NewFromLeadRange constructs an LCP implicitly pairing row i with column i
// for rows below the leader block, and row i with column i+leaderCount for
// rows at or past it — the canonical shape nashgame.FormulateLCP produces.
func NewFromLeadRange(m *mat.Dense, q []float64, leadStart, leadEnd int, aSide *mat.Dense, bSide []float64) (*LCP, error) {
	r, _ := m.Dims()
	leaderCount := 0
	if leadEnd >= leadStart {
		leaderCount = leadEnd - leadStart + 1
	}

	pairing := make([][2]int, r)
	for eq := 0; eq < r; eq++ {
		col := eq
		if eq >= leadStart {
			col = eq + leaderCount
		}
		pairing[eq] = [2]int{eq, col}
	}

	return New(m, q, pairing, leadStart, leadEnd, aSide, bSide)
}

// NewFromNashGame formulates g's joint KKT system and wraps it as an LCP,
// with g's (rewritten) leader/market-clearing constraints as side
// constraints.
func NewFromNashGame(g *nashgame.NashGame) (*LCP, error) {
	m, q, pairing, leadStart, leadEnd, err := g.FormulateLCP()
	if err != nil {
		return nil, err
	}
	aSide, bSide, err := g.RewriteLeaderConstraints()
	if err != nil {
		return nil, err
	}

	return New(m, q, pairing, leadStart, leadEnd, aSide, bSide)
}

// N returns the width of the composite x vector (cols(M)).
func (l *LCP) N() int { _, c := l.m.Dims(); return c }

// Rows returns the number of complementarity equations (rows(M)), i.e.
// N() - leaderCount.
func (l *LCP) Rows() int { r, _ := l.m.Dims(); return r }

// LeaderRange returns the (inclusive) non-complemented variable range.
func (l *LCP) LeaderRange() (int, int) { return l.leadStart, l.leadEnd }

// Pairing returns a copy of the complementarity pairing.
func (l *LCP) Pairing() [][2]int { return append([][2]int(nil), l.pairing...) }

// M returns the LCP's coefficient matrix (not a copy; callers must not mutate it).
func (l *LCP) M() *mat.Dense { return l.m }

// Q returns a copy of the LCP's constant vector.
func (l *LCP) Q() []float64 { return append([]float64(nil), l.q...) }

// SideConstraints returns the LCP's side-constraint system (A_side, b_side), if any.
func (l *LCP) SideConstraints() (*mat.Dense, []float64) { return l.aSide, l.bSide }

// CheckEncodingFeasible runs a single LP feasibility check on the relaxed
// model with upper bounds of 0 placed on the z's/x's an encoding fixes to
// zero: +1 at position idx forces z_(pairing[idx].eq) <= 0 (i.e. == 0,
// combined with its >= 0 bound); -1 forces x_(pairing[idx].var) <= 0.
// Zero entries (partial encodings, as outerlcp allows) are left unbounded.
func (l *LCP) CheckEncodingFeasible(ctx context.Context, be solver.Backend, encoding []int8) (bool, error) {
	if be == nil {
		return false, ErrNoBackend
	}
	model, err := be.NewModel("lcp.CheckEncodingFeasible")
	if err != nil {
		return false, err
	}
	xVars, zVars, err := l.buildRelaxed(model)
	if err != nil {
		return false, err
	}
	for idx, val := range encoding {
		if val == 0 {
			continue
		}
		eq, v := l.pairing[idx][0], l.pairing[idx][1]
		switch val {
		case 1:
			if err := model.AddLinearConstraint(map[solver.VarRef]float64{zVars[eq]: 1}, solver.LE, 0, fmt.Sprintf("fix_z%d", idx)); err != nil {
				return false, err
			}
		case -1:
			if err := model.AddLinearConstraint(map[solver.VarRef]float64{xVars[v]: 1}, solver.LE, 0, fmt.Sprintf("fix_x%d", idx)); err != nil {
				return false, err
			}
		}
	}
	if err := model.SetLinearObjective(nil, solver.Minimize); err != nil {
		return false, err
	}
	status, err := model.Optimize(ctx)
	if err != nil {
		return false, err
	}

	return status.Succeeded(), nil
}

func (l *LCP) isLeaderVar(idx int) bool {
	return idx >= l.leadStart && idx <= l.leadEnd
}

// buildRelaxed adds the x, z variables and z = Mx+q equality rows (plus any
// side constraints) to model, returning the x-variable refs and a map from
// equation row index to its z-variable ref (only for non-leader rows).
func (l *LCP) buildRelaxed(model solver.Model) ([]solver.VarRef, map[int]solver.VarRef, error) {
	n := l.N()
	rows := l.Rows()
	xVars := make([]solver.VarRef, n)
	for i := 0; i < n; i++ {
		lb := 0.0
		if l.isLeaderVar(i) {
			lb = math.Inf(-1)
		}
		v, err := model.AddVar(lb, math.Inf(1), solver.Continuous, fmt.Sprintf("x%d", i))
		if err != nil {
			return nil, nil, err
		}
		xVars[i] = v
	}

	zVars := make(map[int]solver.VarRef, rows)
	for i := 0; i < rows; i++ {
		v, err := model.AddVar(0, math.Inf(1), solver.Continuous, fmt.Sprintf("z%d", i))
		if err != nil {
			return nil, nil, err
		}
		zVars[i] = v

		row := map[solver.VarRef]float64{v: 1}
		for j := 0; j < n; j++ {
			if coef := l.m.At(i, j); coef != 0 {
				row[xVars[j]] -= coef
			}
		}
		if err := model.AddLinearConstraint(row, solver.EQ, l.q[i], fmt.Sprintf("kkt%d", i)); err != nil {
			return nil, nil, err
		}
	}

	if l.aSide != nil {
		sideRows, _ := l.aSide.Dims()
		for i := 0; i < sideRows; i++ {
			row := make(map[solver.VarRef]float64, n)
			for j := 0; j < n; j++ {
				if coef := l.aSide.At(i, j); coef != 0 {
					row[xVars[j]] = coef
				}
			}
			if err := model.AddLinearConstraint(row, solver.LE, l.bSide[i], fmt.Sprintf("side%d", i)); err != nil {
				return nil, nil, err
			}
		}
	}

	return xVars, zVars, nil
}

// buildComplementarity adds the MIP encoding of every complementarity pair
// to model, per l.Reform.
func (l *LCP) buildComplementarity(model solver.Model, xVars []solver.VarRef, zVars map[int]solver.VarRef) error {
	for idx, pair := range l.pairing {
		eq, v := pair[0], pair[1]
		z := zVars[eq]
		x := xVars[v]

		switch l.Reform {
		case ReformulationBigM:
			u, err := model.AddVar(0, 1, solver.Binary, fmt.Sprintf("u%d", idx))
			if err != nil {
				return err
			}
			if err := model.AddLinearConstraint(map[solver.VarRef]float64{z: 1, u: -l.BigM}, solver.LE, 0, fmt.Sprintf("bigm_z%d", idx)); err != nil {
				return err
			}
			if err := model.AddLinearConstraint(map[solver.VarRef]float64{x: 1, u: l.BigM}, solver.LE, l.BigM, fmt.Sprintf("bigm_x%d", idx)); err != nil {
				return err
			}
		default: // ReformulationIndicator
			u, err := model.AddVar(0, 1, solver.Binary, fmt.Sprintf("u%d", idx))
			if err != nil {
				return err
			}
			vv, err := model.AddVar(0, 1, solver.Binary, fmt.Sprintf("v%d", idx))
			if err != nil {
				return err
			}
			if err := model.AddLinearConstraint(map[solver.VarRef]float64{u: 1, vv: 1}, solver.EQ, 1, fmt.Sprintf("uv%d", idx)); err != nil {
				return err
			}
			if err := model.AddIndicatorConstraint(u, true, map[solver.VarRef]float64{z: 1}, solver.LE, 0); err != nil {
				return err
			}
			if err := model.AddIndicatorConstraint(vv, true, map[solver.VarRef]float64{x: 1}, solver.LE, 0); err != nil {
				return err
			}
		}
	}

	return nil
}

// SolveAsMIP checks feasibility of the LCP (zero objective) via the binary-
// expanded MIP reformulation, returning the extracted (x, z) on success.
func (l *LCP) SolveAsMIP(ctx context.Context, be solver.Backend) (x, z []float64, status solver.Status, err error) {
	if be == nil {
		return nil, nil, solver.StatusInfeasible, ErrNoBackend
	}
	model, err := be.NewModel("lcp.SolveAsMIP")
	if err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}
	xVars, zVars, err := l.buildRelaxed(model)
	if err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}
	if err := l.buildComplementarity(model, xVars, zVars); err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}
	if err := model.SetLinearObjective(nil, solver.Minimize); err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}

	status, err = model.Optimize(ctx)
	if err != nil {
		return nil, nil, status, err
	}
	if !status.Succeeded() {
		return nil, nil, status, nil
	}

	return extractXZ(model, xVars, zVars, l.N(), l.Rows())
}

func extractXZ(model solver.Model, xVars []solver.VarRef, zVars map[int]solver.VarRef, xN, zN int) ([]float64, []float64, solver.Status, error) {
	x := make([]float64, xN)
	for i, v := range xVars {
		val, err := model.VarValue(v)
		if err != nil {
			return nil, nil, solver.StatusInfeasible, err
		}
		x[i] = val
	}
	z := make([]float64, zN)
	for i, v := range zVars {
		val, err := model.VarValue(v)
		if err != nil {
			return nil, nil, solver.StatusInfeasible, err
		}
		z[i] = val
	}

	return x, z, solver.StatusOptimal, nil
}

// MpecAsMILP replaces the feasibility objective with a linear leader
// objective c + Cᵀ·xMinusI over the binary-expanded LCP. c has length N();
// bigC has rows == len(xMinusI) and cols == N().
func (l *LCP) MpecAsMILP(ctx context.Context, be solver.Backend, c []float64, bigC *mat.Dense, xMinusI []float64) (x, z []float64, status solver.Status, err error) {
	if be == nil {
		return nil, nil, solver.StatusInfeasible, ErrNoBackend
	}
	model, err := be.NewModel("lcp.MpecAsMILP")
	if err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}
	xVars, zVars, err := l.buildRelaxed(model)
	if err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}
	if err := l.buildComplementarity(model, xVars, zVars); err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}

	n := l.N()
	linObj := make(map[solver.VarRef]float64, n)
	for i := 0; i < n && i < len(c); i++ {
		linObj[xVars[i]] += c[i]
	}
	if bigC != nil {
		rows, cols := bigC.Dims()
		for i := 0; i < rows && i < len(xMinusI); i++ {
			for j := 0; j < cols && j < n; j++ {
				if coef := bigC.At(i, j); coef != 0 {
					linObj[xVars[j]] += coef * xMinusI[i]
				}
			}
		}
	}
	if err := model.SetLinearObjective(linObj, solver.Minimize); err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}

	status, err = model.Optimize(ctx)
	if err != nil {
		return nil, nil, status, err
	}
	if !status.Succeeded() {
		return nil, nil, status, nil
	}

	return extractXZ(model, xVars, zVars, n, l.Rows())
}

// MpecAsMIQP layers a quadratic term Q (Ny x Ny over the leading
// q.Symmetric() variables) on top of MpecAsMILP's linear objective; it
// degrades to the MILP when q is nil.
func (l *LCP) MpecAsMIQP(ctx context.Context, be solver.Backend, q *mat.SymDense, c []float64, bigC *mat.Dense, xMinusI []float64) (x, z []float64, status solver.Status, err error) {
	if q == nil {
		return l.MpecAsMILP(ctx, be, c, bigC, xMinusI)
	}
	if be == nil {
		return nil, nil, solver.StatusInfeasible, ErrNoBackend
	}
	model, err := be.NewModel("lcp.MpecAsMIQP")
	if err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}
	xVars, zVars, err := l.buildRelaxed(model)
	if err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}
	if err := l.buildComplementarity(model, xVars, zVars); err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}

	n := l.N()
	linObj := make(map[solver.VarRef]float64, n)
	for i := 0; i < n && i < len(c); i++ {
		linObj[xVars[i]] += c[i]
	}
	if bigC != nil {
		rows, cols := bigC.Dims()
		for i := 0; i < rows && i < len(xMinusI); i++ {
			for j := 0; j < cols && j < n; j++ {
				if coef := bigC.At(i, j); coef != 0 {
					linObj[xVars[j]] += coef * xMinusI[i]
				}
			}
		}
	}
	if err := model.SetLinearObjective(linObj, solver.Minimize); err != nil {
		return nil, nil, solver.StatusInfeasible, err
	}

	qd := q.Symmetric()
	quadObj := make(map[[2]solver.VarRef]float64)
	for i := 0; i < qd && i < n; i++ {
		for j := i; j < qd && j < n; j++ {
			val := q.At(i, j)
			if val == 0 {
				continue
			}
			if i == j {
				quadObj[[2]solver.VarRef{xVars[i], xVars[j]}] += 0.5 * val
			} else {
				quadObj[[2]solver.VarRef{xVars[i], xVars[j]}] += val
			}
		}
	}
	if len(quadObj) > 0 {
		if err := model.SetQuadraticObjective(quadObj); err != nil {
			return nil, nil, solver.StatusInfeasible, err
		}
	}

	status, err = model.Optimize(ctx)
	if err != nil {
		return nil, nil, status, err
	}
	if !status.Succeeded() {
		return nil, nil, status, nil
	}

	return extractXZ(model, xVars, zVars, n, l.Rows())
}

// EncodingFromPoint derives the +1/-1/0 encoding of a feasible (x, z) pair:
// +1 where z_i == 0 and x_j > 0; -1 where x_j == 0 and z_i > 0; 0 where
// both are tol-zero. Returns ErrNotComplementary if both are strictly
// positive for some pair.
func (l *LCP) EncodingFromPoint(x, z []float64, tol float64) ([]int8, error) {
	enc := make([]int8, len(l.pairing))
	for idx, pair := range l.pairing {
		eq, v := pair[0], pair[1]
		zi, xj := z[eq], x[v]
		switch {
		case zi <= tol && xj > tol:
			enc[idx] = 1
		case xj <= tol && zi > tol:
			enc[idx] = -1
		case zi <= tol && xj <= tol:
			enc[idx] = 0
		default:
			return nil, ErrNotComplementary
		}
	}

	return enc, nil
}

// Save writes a textual log of M, q, the pairing, leader indices, and side
// constraints, framed via package persist, beginning with the "LCP" magic.
func (l *LCP) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return l.WriteTo(f)
}

// WriteTo writes the same format as Save to an arbitrary writer.
func (l *LCP) WriteTo(w io.Writer) error {
	if err := persist.WriteMagic(w, "LCP"); err != nil {
		return err
	}
	rows, n := l.Rows(), l.N()
	mFlat := make([]float64, 0, rows*n)
	for i := 0; i < rows; i++ {
		for j := 0; j < n; j++ {
			mFlat = append(mFlat, l.m.At(i, j))
		}
	}
	if err := persist.WriteIntSection(w, "dims", []int{rows, n}); err != nil {
		return err
	}
	if err := persist.WriteSection(w, "M", mFlat); err != nil {
		return err
	}
	if err := persist.WriteSection(w, "q", l.q); err != nil {
		return err
	}

	pairFlat := make([]int, 0, 2*len(l.pairing))
	for _, p := range l.pairing {
		pairFlat = append(pairFlat, p[0], p[1])
	}
	if err := persist.WriteIntSection(w, "pairing", pairFlat); err != nil {
		return err
	}
	if err := persist.WriteIntSection(w, "leader", []int{l.leadStart, l.leadEnd}); err != nil {
		return err
	}

	sideRows := 0
	var sideFlat []float64
	if l.aSide != nil {
		sideRows, _ = l.aSide.Dims()
		for i := 0; i < sideRows; i++ {
			for j := 0; j < n; j++ {
				sideFlat = append(sideFlat, l.aSide.At(i, j))
			}
		}
	}
	if err := persist.WriteIntSection(w, "siderows", []int{sideRows}); err != nil {
		return err
	}
	if err := persist.WriteSection(w, "Aside", sideFlat); err != nil {
		return err
	}
	if err := persist.WriteSection(w, "bside", l.bSide); err != nil {
		return err
	}

	return nil
}

// Load is the exact inverse of Save, beginning with the "LCP" magic string.
func Load(path string) (*LCP, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadFrom(f)
}

// ReadFrom is the exact inverse of WriteTo.
func ReadFrom(r io.Reader) (*LCP, error) {
	br := bufio.NewReader(r)
	if err := persist.ReadMagic(br, "LCP"); err != nil {
		if err == persist.ErrBadMagic {
			return nil, ErrBadMagic
		}
		return nil, err
	}

	_, dims, err := persist.ReadIntSection(br, "dims")
	if err != nil {
		return nil, err
	}
	rows, n := dims[0], dims[1]

	_, mFlat, err := persist.ReadSection(br, "M")
	if err != nil {
		return nil, err
	}
	m := mat.NewDense(rows, n, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, mFlat[i*n+j])
		}
	}

	_, q, err := persist.ReadSection(br, "q")
	if err != nil {
		return nil, err
	}

	_, pairFlat, err := persist.ReadIntSection(br, "pairing")
	if err != nil {
		return nil, err
	}
	pairing := make([][2]int, len(pairFlat)/2)
	for i := range pairing {
		pairing[i] = [2]int{pairFlat[2*i], pairFlat[2*i+1]}
	}

	_, leader, err := persist.ReadIntSection(br, "leader")
	if err != nil {
		return nil, err
	}

	_, sideRows, err := persist.ReadIntSection(br, "siderows")
	if err != nil {
		return nil, err
	}
	_, sideFlat, err := persist.ReadSection(br, "Aside")
	if err != nil {
		return nil, err
	}
	_, bSide, err := persist.ReadSection(br, "bside")
	if err != nil {
		return nil, err
	}

	var aSide *mat.Dense
	if sideRows[0] > 0 {
		aSide = mat.NewDense(sideRows[0], n, nil)
		for i := 0; i < sideRows[0]; i++ {
			for j := 0; j < n; j++ {
				aSide.Set(i, j, sideFlat[i*n+j])
			}
		}
	}

	return New(m, q, pairing, leader[0], leader[1], aSide, bSide)
}
