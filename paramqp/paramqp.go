package paramqp

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/matrix"
	"github.com/ssriram1992/epecsolve/matrix/ops"
	"github.com/ssriram1992/epecsolve/matutil"
	"github.com/ssriram1992/epecsolve/solver"
)

// eigenFallbackTol and eigenFallbackIter bound the Jacobi sweep isPSD falls
// back to when Cholesky reports a borderline-singular Q.
const (
	eigenFallbackTol  = 1e-9
	eigenFallbackIter = 100
)

// ParamQP is a parametric quadratic program:
//
//	minimize   (1/2) yᵀQy + cᵀy + (Cx)ᵀy
//	subject to Ax + By <= b,  y >= 0
//
// y (length Ny) are this program's own variables; x (length Nx) are
// exogenous parameters supplied at SolveFixed time.
type ParamQP struct {
	q *mat.SymDense // Ny x Ny
	c *mat.Dense    // Ny x Nx ("C" in the governing inequality)
	a *mat.Dense    // Ncons x Nx
	b *mat.Dense    // Ncons x Ny

	cVec []float64 // length Ny
	bVec []float64 // length Ncons

	// quadCached is set when SolveFixed puts a non-zero yᵀQy term into its
	// backend model and cleared by Set and AddDummy. SolveFixed builds a
	// fresh backend model on every call, so no model is kept between calls
	// and nothing reads this flag.
	quadCached bool
}

// SolvedModel is the opaque handle returned by SolveFixed: the optimal y
// and the achieved objective value, plus the backend status that produced
// them.
type SolvedModel struct {
	Y      []float64
	Obj    float64
	Status solver.Status
}

func dims(m *mat.Dense) (int, int) {
	if m == nil {
		return 0, 0
	}
	return m.Dims()
}

// New constructs a ParamQP, validating shapes and Q's symmetric
// positive-semidefiniteness.
func New(q *mat.SymDense, c *mat.Dense, a, b *mat.Dense, cVec, bVec []float64) (*ParamQP, error) {
	p := &ParamQP{}
	if err := p.Set(q, c, a, b, cVec, bVec); err != nil {
		return nil, err
	}

	return p, nil
}

// Set replaces the program's data in place, validating shapes and Q's
// positive-semidefiniteness. Clears quadCached.
func (p *ParamQP) Set(q *mat.SymDense, c, a, b *mat.Dense, cVec, bVec []float64) error {
	if q == nil {
		return ErrInvalidShape
	}
	ny := q.Symmetric()

	br, bc := dims(b)
	if bc != ny {
		return ErrInvalidShape
	}

	// A nil c or a stands for the Nx == 0 case (no exogenous parameters):
	// an ny x 0 / br x 0 zero matrix, rather than a literal 0x0 shape
	// mismatch against ny/br.
	cr, cc := dims(c)
	if c == nil {
		cr, cc = ny, 0
	}
	ar, ac := dims(a)
	if a == nil {
		ar, ac = br, 0
	}

	if cr != ny {
		return ErrInvalidShape
	}
	if ar != br {
		return ErrInvalidShape
	}
	if ac != cc {
		return ErrInvalidShape
	}
	if len(cVec) != ny {
		return ErrInvalidShape
	}
	if len(bVec) != ar {
		return ErrInvalidShape
	}

	if !isPSD(q) {
		return ErrNotPSD
	}

	p.q = q
	p.c = c
	p.a = a
	p.b = b
	p.cVec = append([]float64(nil), cVec...)
	p.bVec = append([]float64(nil), bVec...)
	p.quadCached = false

	return nil
}

// isPSD checks Q ⪰ 0 via a Cholesky factorization attempt, falling back to
// matrix/ops.Eigen's Jacobi eigendecomposition's sign test when Cholesky
// fails on a borderline-singular matrix (Cholesky is decisive for the
// strictly-PSD case solvers actually feed it; the Jacobi sweep only runs on
// the rare rejected Q, so its O(n^3)-per-sweep cost never sits on the
// common path).
func isPSD(q *mat.SymDense) bool {
	var chol mat.Cholesky
	if chol.Factorize(q) {
		return true
	}

	n := q.Symmetric()
	if n == 0 {
		return true
	}

	dense, err := matrix.NewDense(n, n)
	if err != nil {
		return false
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if err := dense.Set(i, j, q.At(i, j)); err != nil {
				return false
			}
		}
	}

	eigs, _, err := ops.Eigen(dense, eigenFallbackTol, eigenFallbackIter)
	if err != nil {
		return false
	}
	for _, v := range eigs {
		if v < -1e-7 {
			return false
		}
	}

	return true
}

// Ny returns the program's own decision-variable count.
func (p *ParamQP) Ny() int { return p.q.Symmetric() }

// Nx returns the program's exogenous parameter count.
func (p *ParamQP) Nx() int {
	_, c := dims(p.a)
	return c
}

// Ncons returns the number of Ax+By<=b rows.
func (p *ParamQP) Ncons() int {
	r, _ := dims(p.b)
	return r
}

// AddDummy zero-pads the parameter and/or decision spaces. position == -1
// appends; any other value splices a column/row block at that index.
// Q, B, c grow in the decision dimension; A, C grow in the parameter
// dimension (a nil A or C, which stands for zero width, becomes a zero
// block of the added width). Pre-existing non-zero entries are preserved.
// Always clears quadCached.
func (p *ParamQP) AddDummy(parsAdded, varsAdded, position int) error {
	if parsAdded < 0 || varsAdded < 0 {
		return matutil.ErrNegativeCount
	}
	p.quadCached = false

	if varsAdded > 0 {
		qDense := denseFromSym(p.q)
		qCols, err := matutil.SpliceCols(qDense, varsAdded, position)
		if err != nil {
			return err
		}
		qFull, err := matutil.SpliceRows(qCols, varsAdded, position)
		if err != nil {
			return err
		}
		p.q = symFromDense(qFull)

		if p.b != nil {
			b, err := matutil.SpliceCols(p.b, varsAdded, position)
			if err != nil {
				return err
			}
			p.b = b
		}
		cVec, err := matutil.SpliceVector(p.cVec, varsAdded, position)
		if err != nil {
			return err
		}
		p.cVec = cVec

		if p.c != nil {
			cRows, err := matutil.SpliceRows(p.c, varsAdded, position)
			if err != nil {
				return err
			}
			p.c = cRows
		}
	}

	if parsAdded > 0 {
		if p.a != nil {
			a, err := matutil.SpliceCols(p.a, parsAdded, position)
			if err != nil {
				return err
			}
			p.a = a
		} else if p.Ncons() > 0 {
			p.a = mat.NewDense(p.Ncons(), parsAdded, nil)
		}
		if p.c == nil {
			p.c = mat.NewDense(p.Ny(), parsAdded, nil)
		} else {
			c, err := matutil.SpliceCols(p.c, parsAdded, position)
			if err != nil {
				return err
			}
			p.c = c
		}
	}

	return nil
}

func denseFromSym(s *mat.SymDense) *mat.Dense {
	n := s.Symmetric()
	d := mat.NewDense(n, n, nil)
	d.CopySym(s)

	return d
}

func symFromDense(d *mat.Dense) *mat.SymDense {
	n, _ := d.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, d.At(i, j))
		}
	}

	return s
}

// KKT emits the parameter-in, dual-out block system:
//
//	0 <= [y; λ] ⊥ M_kkt·[y; λ] + N_kkt·x + q_kkt >= 0
//
// with M_kkt = [[Q, Bᵀ], [-B, 0]], N_kkt = [C; -A] (stacked), and
// q_kkt = [c; b] (stacked). λ are the Ncons dual variables of Ax+By<=b.
func (p *ParamQP) KKT() (mKkt, nKkt *mat.Dense, qKkt []float64, err error) {
	ny := p.Ny()
	ncons := p.Ncons()
	dim := ny + ncons

	mKkt = mat.NewDense(dim, dim, nil)
	mKkt.Slice(0, ny, 0, ny).(*mat.Dense).Copy(denseFromSym(p.q))
	if p.b != nil {
		mKkt.Slice(0, ny, ny, dim).(*mat.Dense).Copy(p.b.T())
		neg := mat.NewDense(ncons, ny, nil)
		neg.Scale(-1, p.b)
		mKkt.Slice(ny, dim, 0, ny).(*mat.Dense).Copy(neg)
	}

	nx := p.Nx()
	nKkt = mat.NewDense(dim, nx, nil)
	if p.c != nil {
		nKkt.Slice(0, ny, 0, nx).(*mat.Dense).Copy(p.c)
	}
	if p.a != nil {
		neg := mat.NewDense(ncons, nx, nil)
		neg.Scale(-1, p.a)
		nKkt.Slice(ny, dim, 0, nx).(*mat.Dense).Copy(neg)
	}

	qKkt = make([]float64, dim)
	copy(qKkt[:ny], p.cVec)
	copy(qKkt[ny:], p.bVec)

	return mKkt, nKkt, qKkt, nil
}

// SolveFixed instantiates the QP at parameter value x = xHat and solves it
// to optimality via be, returning the optimal y and objective value.
func (p *ParamQP) SolveFixed(ctx context.Context, xHat []float64, be solver.Backend) (*SolvedModel, error) {
	if len(xHat) != p.Nx() {
		return nil, ErrWrongArity
	}
	if be == nil {
		return nil, ErrNoBackend
	}

	model, err := be.NewModel("paramqp.SolveFixed")
	if err != nil {
		return nil, err
	}

	ny := p.Ny()
	yVars := make([]solver.VarRef, ny)
	for i := 0; i < ny; i++ {
		v, err := model.AddVar(0, math.Inf(1), solver.Continuous, "y")
		if err != nil {
			return nil, err
		}
		yVars[i] = v
	}

	linObj := make(map[solver.VarRef]float64, ny)
	cx := make([]float64, ny)
	if p.c != nil {
		for i := 0; i < ny; i++ {
			var acc float64
			for j, xv := range xHat {
				acc += p.c.At(i, j) * xv
			}
			cx[i] = acc
		}
	}
	for i := 0; i < ny; i++ {
		linObj[yVars[i]] += p.cVec[i] + cx[i]
	}
	if err := model.SetLinearObjective(linObj, solver.Minimize); err != nil {
		return nil, err
	}

	quadObj := make(map[[2]solver.VarRef]float64)
	for i := 0; i < ny; i++ {
		for j := i; j < ny; j++ {
			val := p.q.At(i, j)
			if val == 0 {
				continue
			}
			if i == j {
				quadObj[[2]solver.VarRef{yVars[i], yVars[j]}] += 0.5 * val
			} else {
				quadObj[[2]solver.VarRef{yVars[i], yVars[j]}] += val
			}
		}
	}
	if len(quadObj) > 0 {
		if err := model.SetQuadraticObjective(quadObj); err != nil {
			return nil, err
		}
		p.quadCached = true
	}

	ncons := p.Ncons()
	for i := 0; i < ncons; i++ {
		row := make(map[solver.VarRef]float64, ny)
		for j := 0; j < ny; j++ {
			if v := p.b.At(i, j); v != 0 {
				row[yVars[j]] = v
			}
		}
		rhs := p.bVec[i]
		if p.a != nil {
			for j, xv := range xHat {
				rhs -= p.a.At(i, j) * xv
			}
		}
		if err := model.AddLinearConstraint(row, solver.LE, rhs, "rowcons"); err != nil {
			return nil, err
		}
	}

	status, err := model.Optimize(ctx)
	if err != nil {
		return nil, err
	}

	result := &SolvedModel{Status: status}
	if !status.Succeeded() {
		return result, nil
	}

	y := make([]float64, ny)
	for i, v := range yVars {
		val, err := model.VarValue(v)
		if err != nil {
			return nil, err
		}
		y[i] = val
	}
	obj, err := model.ObjectiveValue()
	if err != nil {
		return nil, err
	}
	result.Y = y
	result.Obj = obj

	return result, nil
}

// ComputeObjective evaluates (1/2) yᵀQy + cᵀy + (Cx)ᵀy and, if checkFeas,
// additionally verifies Ax+By <= b within a fixed numerical tolerance.
func (p *ParamQP) ComputeObjective(y, x []float64, checkFeas bool) (float64, error) {
	ny := p.Ny()
	if len(y) != ny {
		return 0, ErrWrongArity
	}
	if len(x) != p.Nx() {
		return 0, ErrWrongArity
	}

	var quad float64
	for i := 0; i < ny; i++ {
		for j := 0; j < ny; j++ {
			quad += y[i] * p.q.At(i, j) * y[j]
		}
	}
	quad *= 0.5

	var lin float64
	for i := 0; i < ny; i++ {
		lin += p.cVec[i] * y[i]
	}

	var cx float64
	if p.c != nil {
		for i := 0; i < ny; i++ {
			var acc float64
			for j, xv := range x {
				acc += p.c.At(i, j) * xv
			}
			cx += acc * y[i]
		}
	}

	obj := quad + lin + cx

	if checkFeas {
		const tol = 1e-6
		ncons := p.Ncons()
		for i := 0; i < ncons; i++ {
			var lhs float64
			if p.a != nil {
				for j, xv := range x {
					lhs += p.a.At(i, j) * xv
				}
			}
			for j := 0; j < ny; j++ {
				lhs += p.b.At(i, j) * y[j]
			}
			if lhs > p.bVec[i]+tol {
				return obj, ErrInvalidShape
			}
		}
	}

	return obj, nil
}
