package outerlcp

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/lcp"
	"github.com/ssriram1992/epecsolve/matutil"
	"github.com/ssriram1992/epecsolve/paramqp"
	"github.com/ssriram1992/epecsolve/solver"
)

// Poly is one owned polyhedron {x : A x <= b}.
type Poly struct {
	A *mat.Dense
	B []float64
}

// OuterLCP is the outer polyhedral approximation of an LCP's feasible
// region: an owned polyhedron list plus the three encoding-id bookkeeping
// sets from the data model, over possibly-partial ({-1,0,+1}) encodings.
type OuterLCP struct {
	base *lcp.LCP

	polys      []Poly
	enumerated map[uint64]bool
	feasible   map[uint64]bool
	infeasible map[uint64]bool
}

// New wraps base for outer-approximation bookkeeping.
func New(base *lcp.LCP) *OuterLCP {
	return &OuterLCP{
		base:       base,
		enumerated: make(map[uint64]bool),
		feasible:   make(map[uint64]bool),
		infeasible: make(map[uint64]bool),
	}
}

func (p *OuterLCP) n() int { return len(p.base.Pairing()) }

func encodeID(encoding []int8) uint64 {
	var id uint64
	for i, v := range encoding {
		var bits uint64
		switch v {
		case 1:
			bits = 1
		case -1:
			bits = 2
		}
		id |= bits << uint(2*i)
	}

	return id
}

// EnumeratedCount, FeasibleCount, InfeasibleCount report bookkeeping set
// sizes, for statistics.
func (p *OuterLCP) EnumeratedCount() int { return len(p.enumerated) }
func (p *OuterLCP) FeasibleCount() int   { return len(p.feasible) }
func (p *OuterLCP) InfeasibleCount() int { return len(p.infeasible) }

// Polys returns the owned polyhedron list.
func (p *OuterLCP) Polys() []Poly { return p.polys }

// IsInfeasible reports whether encoding was previously cached as
// infeasible (directly or via ancestor pruning).
func (p *OuterLCP) IsInfeasible(encoding []int8) bool {
	return p.infeasible[encodeID(encoding)]
}

// ancestorInfeasible reports whether any single-position relaxation of
// encoding (zeroing one resolved entry) is already known infeasible: since
// resolving a zero to +1/-1 only shrinks the feasible region, that
// shrinking can never recover feasibility.
func (p *OuterLCP) ancestorInfeasible(encoding []int8) bool {
	for i, v := range encoding {
		if v == 0 {
			continue
		}
		parent := append([]int8(nil), encoding...)
		parent[i] = 0
		if p.infeasible[encodeID(parent)] {
			return true
		}
	}

	return false
}

// AddPolyFromEncoding materializes the polyhedron for a possibly-partial
// encoding (zero entries leave that complementarity pair unconstrained). If
// checkFeas, runs a feasibility LP first and caches the verdict (treating
// unresolved positions as unconstrained, i.e. not fixed to either bound).
// Pruned (parent-infeasible) or already-enumerated encodings are a silent
// no-op.
func (p *OuterLCP) AddPolyFromEncoding(ctx context.Context, be solver.Backend, encoding []int8, checkFeas bool) error {
	if len(encoding) != p.n() {
		return ErrEncodingLength
	}

	id := encodeID(encoding)
	if p.enumerated[id] || p.infeasible[id] {
		return nil
	}
	if p.ancestorInfeasible(encoding) {
		p.infeasible[id] = true
		return nil
	}

	if checkFeas {
		ok, err := p.base.CheckEncodingFeasible(ctx, be, encoding)
		if err != nil {
			return err
		}
		if !ok {
			p.infeasible[id] = true
			return nil
		}
		p.feasible[id] = true
	}

	n := p.base.N()
	pairing := p.base.Pairing()
	m := p.base.M()
	q := p.base.Q()

	var aRows [][]float64
	var bRows []float64
	for i, pair := range pairing {
		eq, v := pair[0], pair[1]
		switch encoding[i] {
		case 1:
			row := make([]float64, n)
			for j := 0; j < n; j++ {
				row[j] = m.At(eq, j)
			}
			aRows = append(aRows, row)
			bRows = append(bRows, -q[eq])
		case -1:
			row := make([]float64, n)
			row[v] = 1
			aRows = append(aRows, row)
			bRows = append(bRows, 0)
		}
	}

	a := mat.NewDense(len(aRows), n, nil)
	for i, row := range aRows {
		for j, v := range row {
			a.Set(i, j, v)
		}
	}

	p.polys = append(p.polys, Poly{A: a, B: bRows})
	p.enumerated[id] = true

	return nil
}

// AddPoliesFromEncoding depth-first expands partialEncoding, adding the
// polyhedron at every node it visits (not just fully-resolved leaves),
// pruning a subtree as soon as its root polyhedron is infeasible.
func (p *OuterLCP) AddPoliesFromEncoding(ctx context.Context, be solver.Backend, partialEncoding []int8) error {
	id := encodeID(partialEncoding)
	if err := p.AddPolyFromEncoding(ctx, be, partialEncoding, true); err != nil {
		return err
	}
	if p.infeasible[id] {
		return nil
	}

	zeroIdx := -1
	for i, v := range partialEncoding {
		if v == 0 {
			zeroIdx = i
			break
		}
	}
	if zeroIdx == -1 {
		return nil
	}

	for _, branch := range [2]int8{1, -1} {
		next := append([]int8(nil), partialEncoding...)
		next[zeroIdx] = branch
		if err := p.AddPoliesFromEncoding(ctx, be, next); err != nil {
			return err
		}
	}

	return nil
}

// EnumerateAll populates the approximation with every node of the
// expansion tree rooted at the all-zero (fully relaxed) encoding, pruning
// infeasible subtrees.
func (p *OuterLCP) EnumerateAll(ctx context.Context, be solver.Backend) error {
	return p.AddPoliesFromEncoding(ctx, be, make([]int8, p.n()))
}

// ConvexHull forms the extended formulation for the union of owned
// polyhedra, identically to polylcp.PolyLCP.ConvexHull (see that package
// for the extended-variable layout); degenerates to the one polyhedron's
// inequalities plus the base LCP's side constraints when only one
// polyhedron has been added.
func (p *OuterLCP) ConvexHull() (aOut *mat.Dense, bOut []float64, xDim int, err error) {
	k := len(p.polys)
	if k == 0 {
		return nil, nil, 0, ErrNoPolyhedra
	}
	n := p.base.N()
	aSide, bSide := p.base.SideConstraints()

	if k == 1 {
		poly := p.polys[0]
		sideRows := 0
		if aSide != nil {
			sideRows, _ = aSide.Dims()
		}
		rows := len(poly.B) + sideRows
		aOut = mat.NewDense(rows, n, nil)
		bOut = make([]float64, rows)
		aOut.Slice(0, len(poly.B), 0, n).(*mat.Dense).Copy(poly.A)
		copy(bOut, poly.B)
		if aSide != nil {
			aOut.Slice(len(poly.B), rows, 0, n).(*mat.Dense).Copy(aSide)
			copy(bOut[len(poly.B):], bSide)
		}

		return aOut, bOut, n, nil
	}

	xDim = n + k*n + k
	deltaStart := n + k*n

	var aRows [][]float64
	var bRows []float64

	for ki, poly := range p.polys {
		copyStart := n + ki*n
		rowsK, _ := poly.A.Dims()
		for r := 0; r < rowsK; r++ {
			row := make([]float64, xDim)
			for c := 0; c < n; c++ {
				row[copyStart+c] = poly.A.At(r, c)
			}
			row[deltaStart+ki] = -poly.B[r]
			aRows = append(aRows, row)
			bRows = append(bRows, 0)
		}
	}

	sumRowPos := make([]float64, xDim)
	for ki := 0; ki < k; ki++ {
		sumRowPos[deltaStart+ki] = 1
	}
	sumRowNeg := make([]float64, xDim)
	copy(sumRowNeg, sumRowPos)
	for i := range sumRowNeg {
		sumRowNeg[i] = -sumRowNeg[i]
	}
	aRows = append(aRows, sumRowPos, sumRowNeg)
	bRows = append(bRows, 1, -1)

	for c := 0; c < n; c++ {
		rowPos := make([]float64, xDim)
		rowPos[c] = 1
		for ki := 0; ki < k; ki++ {
			rowPos[n+ki*n+c] = -1
		}
		rowNeg := make([]float64, xDim)
		copy(rowNeg, rowPos)
		for i := range rowNeg {
			rowNeg[i] = -rowNeg[i]
		}
		aRows = append(aRows, rowPos, rowNeg)
		bRows = append(bRows, 0, 0)
	}

	if aSide != nil {
		sideRows, _ := aSide.Dims()
		for r := 0; r < sideRows; r++ {
			row := make([]float64, xDim)
			for c := 0; c < n; c++ {
				row[c] = aSide.At(r, c)
			}
			aRows = append(aRows, row)
			bRows = append(bRows, bSide[r])
		}
	}

	aOut = mat.NewDense(len(aRows), xDim, nil)
	for r, row := range aRows {
		for c, v := range row {
			if v != 0 {
				aOut.Set(r, c, v)
			}
		}
	}
	bOut = bRows

	return aOut, bOut, xDim, nil
}

// MakeQP folds the convex-hull constraints in as the B matrix of a new
// ParamQP, identically to polylcp.PolyLCP.MakeQP (see that package).
// Returns the new ParamQP and the count of effectively feasible
// polyhedra, for statistics.
func (p *OuterLCP) MakeQP(qTemplate *mat.SymDense, cTemplate *mat.Dense, cVecTemplate []float64, aParam *mat.Dense) (*paramqp.ParamQP, int, error) {
	b, bVec, xDim, err := p.ConvexHull()
	if err != nil {
		return nil, 0, err
	}

	n := p.base.N()
	qExt := mat.NewSymDense(xDim, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			qExt.SetSym(i, j, qTemplate.At(i, j))
		}
	}

	var cExt *mat.Dense
	if cTemplate != nil {
		cExt, err = matutil.PadRows(cTemplate, xDim-n)
		if err != nil {
			return nil, 0, err
		}
	}

	cVecExt, err := matutil.PadVector(cVecTemplate, xDim-n)
	if err != nil {
		return nil, 0, err
	}

	newQP, err := paramqp.New(qExt, cExt, aParam, b, cVecExt, bVec)
	if err != nil {
		return nil, 0, err
	}

	return newQP, p.FeasibleCount(), nil
}
