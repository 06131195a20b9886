package polylcp

import (
	"context"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/ssriram1992/epecsolve/lcp"
	"github.com/ssriram1992/epecsolve/matutil"
	"github.com/ssriram1992/epecsolve/paramqp"
	"github.com/ssriram1992/epecsolve/solver"
)

// SelectionPolicy chooses which encoding AddOnePoly samples next.
type SelectionPolicy int

const (
	// Sequential iterates encoding identifiers in natural ascending order.
	Sequential SelectionPolicy = iota
	// ReverseSequential iterates identifiers in descending order.
	ReverseSequential
	// Random samples ids uniformly from the 2-bits-per-position id space
	// [0, 4^n), rejecting already-decided ids and ids that do not decode
	// to a full +1/-1 encoding.
	Random
)

// Poly is one owned polyhedron {x : A x <= b}.
type Poly struct {
	A *mat.Dense
	B []float64
}

// PolyLCP is the inner polyhedral approximation of an LCP's feasible
// region: an owned polyhedron list plus the three encoding-id bookkeeping
// sets from the data model. It holds a non-owning reference to the base
// LCP (the LCP's owner — typically an epec.EPEC country — keeps it alive).
type PolyLCP struct {
	base *lcp.LCP

	polys      []Poly
	enumerated map[uint64]bool
	feasible   map[uint64]bool
	infeasible map[uint64]bool

	rng *rand.Rand

	seqCursor uint64
}

// New wraps base for inner-approximation bookkeeping. seed seeds the
// Random selection policy's PCG generator; if seed == 0 a default derived
// from the base LCP's dimension is used (documented, reproducible default
// per this package's design, grounded on the teacher's tsp.Options.Seed
// convention).
func New(base *lcp.LCP, seed uint64) *PolyLCP {
	if seed == 0 {
		seed = uint64(len(base.Pairing()))*2654435761 + 0x9e3779b9
	}

	return &PolyLCP{
		base:       base,
		enumerated: make(map[uint64]bool),
		feasible:   make(map[uint64]bool),
		infeasible: make(map[uint64]bool),
		rng:        rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
	}
}

func (p *PolyLCP) n() int { return len(p.base.Pairing()) }

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

func decodeID(id uint64, n int) []int8 {
	enc := make([]int8, n)
	for i := 0; i < n; i++ {
		switch (id >> uint(2*i)) & 0x3 {
		case 1:
			enc[i] = 1
		case 2:
			enc[i] = -1
		}
	}

	return enc
}

// Enumerated, Feasible, Infeasible counts, for statistics.
func (p *PolyLCP) EnumeratedCount() int { return len(p.enumerated) }
func (p *PolyLCP) FeasibleCount() int   { return len(p.feasible) }
func (p *PolyLCP) InfeasibleCount() int { return len(p.infeasible) }

// Polys returns the owned polyhedron list.
func (p *PolyLCP) Polys() []Poly { return p.polys }

// AddPolyFromEncoding materializes the polyhedron for a fully-resolved
// +1/-1 encoding. If checkFeas, runs a feasibility LP first and caches the
// verdict; an infeasible or already-enumerated encoding is silently
// rejected (returns nil, no error).
func (p *PolyLCP) AddPolyFromEncoding(ctx context.Context, be solver.Backend, encoding []int8, checkFeas bool) error {
	if len(encoding) != p.n() {
		return ErrEncodingLength
	}
	for _, v := range encoding {
		if v == 0 {
			return ErrPartialEncoding
		}
	}

	id := encodeID(encoding)
	if p.enumerated[id] || p.infeasible[id] {
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

// AddPoliesFromEncoding depth-first expands partialEncoding, replacing each
// zero with +1 then -1 recursively, invoking AddPolyFromEncoding at leaves.
func (p *PolyLCP) AddPoliesFromEncoding(ctx context.Context, be solver.Backend, partialEncoding []int8, checkFeas bool) error {
	zeroIdx := -1
	for i, v := range partialEncoding {
		if v == 0 {
			zeroIdx = i
			break
		}
	}
	if zeroIdx == -1 {
		return p.AddPolyFromEncoding(ctx, be, partialEncoding, checkFeas)
	}

	for _, branch := range [2]int8{1, -1} {
		next := append([]int8(nil), partialEncoding...)
		next[zeroIdx] = branch
		if err := p.AddPoliesFromEncoding(ctx, be, next, checkFeas); err != nil {
			return err
		}
	}

	return nil
}

// EnumerateAll populates the approximation with every polyhedron from the
// all-zero encoding (2^n in the worst case).
func (p *PolyLCP) EnumerateAll(ctx context.Context, be solver.Backend) error {
	return p.AddPoliesFromEncoding(ctx, be, make([]int8, p.n()), true)
}

// AddOnePoly adds up to limit feasible polyhedra using the given selection
// policy, skipping ids already enumerated or known infeasible.
func (p *PolyLCP) AddOnePoly(ctx context.Context, be solver.Backend, limit int, policy SelectionPolicy) (int, error) {
	n := p.n()
	total := uint64(1) << uint(2*n) // upper bound on the id space (sparse over ternary ids)
	added := 0

	tryID := func(id uint64) (bool, error) {
		enc := decodeID(id, n)
		for _, v := range enc {
			if v == 0 { // a 00 or 11 bit pair: not a full +1/-1 encoding
				return false, nil
			}
		}
		before := len(p.polys)
		if err := p.AddPolyFromEncoding(ctx, be, enc, true); err != nil {
			return false, err
		}
		return len(p.polys) > before, nil
	}

	switch policy {
	case Sequential:
		for added < limit && p.seqCursor < total {
			ok, err := tryID(p.seqCursor)
			p.seqCursor++
			if err != nil {
				return added, err
			}
			if ok {
				added++
			}
		}
	case ReverseSequential:
		for added < limit && p.seqCursor < total {
			id := total - 1 - p.seqCursor
			ok, err := tryID(id)
			p.seqCursor++
			if err != nil {
				return added, err
			}
			if ok {
				added++
			}
		}
	default: // Random
		const maxAttempts = 10000
		attempts := 0
		for added < limit && attempts < maxAttempts {
			id := p.rng.Uint64N(total)
			attempts++
			if p.enumerated[id] || p.infeasible[id] {
				continue
			}
			ok, err := tryID(id)
			if err != nil {
				return added, err
			}
			if ok {
				added++
			}
		}
	}

	return added, nil
}

// AddPolyFromPoint encodes the given point (via the base LCP's
// EncodingFromPoint) replacing any zeros with +1, and adds the resulting
// polyhedron.
func (p *PolyLCP) AddPolyFromPoint(ctx context.Context, be solver.Backend, x, z []float64, tol float64) error {
	enc, err := p.base.EncodingFromPoint(x, z, tol)
	if err != nil {
		return err
	}
	for i, v := range enc {
		if v == 0 {
			enc[i] = 1
		}
	}

	return p.AddPolyFromEncoding(ctx, be, enc, true)
}

// ConvexHull forms the extended formulation for the union of owned
// polyhedra {A_i x <= b_i}: for each polyhedron k, a copy vector x^k and a
// weight delta_k >= 0, with A_k x^k <= b_k delta_k, sum delta_k == 1, and
// x == sum x^k, plus the base LCP's side constraints applied to the shared
// x. Degenerates to that one polyhedron's inequalities (plus the common
// block) when only one polyhedron has been added. The returned xDim is the
// width of the extended variable vector the rows are expressed over.
func (p *PolyLCP) ConvexHull() (aOut *mat.Dense, bOut []float64, xDim int, err error) {
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

	// Extended variable layout: [x(n)][x^1..x^k(n each)][delta_1..delta_k].
	xDim = n + k*n + k
	deltaStart := n + k*n

	var aRows [][]float64
	var bRows []float64

	for ki, poly := range p.polys {
		copyStart := n + ki*n
		rowsK, colsK := poly.A.Dims()
		_ = colsK
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

	// sum delta_k == 1, as two inequalities.
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

	// x == sum_k x^k, as two inequalities per coordinate.
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

	// Common block: base LCP side constraints, applied to the shared x.
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
// ParamQP (y is the extended decision vector), lifting qTemplate/
// cTemplate/cVecTemplate (sized for the base LCP's n variables) to the
// extended size with zero padding. aParam, if non-nil, must carry exactly
// as many rows as ConvexHull's output (the upper-level parametric
// dependence on each convex-hull row); pass nil for Nx == 0. Returns the
// new ParamQP and the count of effectively feasible polyhedra, for
// statistics.
func (p *PolyLCP) MakeQP(qTemplate *mat.SymDense, cTemplate *mat.Dense, cVecTemplate []float64, aParam *mat.Dense) (*paramqp.ParamQP, int, error) {
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
