package matutil

import "gonum.org/v1/gonum/mat"

// PadRows returns a fresh (r+extra)×c matrix holding m's entries in the top
// r rows and zeros in the extra rows below. extra must be >= 0.
//
// Complexity: O((r+extra)*c) time and space.
func PadRows(m *mat.Dense, extra int) (*mat.Dense, error) {
	if extra < 0 {
		return nil, ErrNegativeCount
	}
	r, c := m.Dims()
	out := mat.NewDense(r+extra, c, nil)
	out.Slice(0, r, 0, c).(*mat.Dense).Copy(m)

	return out, nil
}

// PadCols returns a fresh r×(c+extra) matrix holding m's entries in the left
// c columns and zeros in the extra columns to the right. extra must be >= 0.
//
// Complexity: O(r*(c+extra)) time and space.
func PadCols(m *mat.Dense, extra int) (*mat.Dense, error) {
	if extra < 0 {
		return nil, ErrNegativeCount
	}
	r, c := m.Dims()
	out := mat.NewDense(r, c+extra, nil)
	out.Slice(0, r, 0, c).(*mat.Dense).Copy(m)

	return out, nil
}

// SpliceCols returns a fresh r×(c+extra) matrix equal to m with extra
// zero-columns inserted starting at column position (0 <= position <= c).
// position == -1 is equivalent to PadCols (append at the end).
//
// Complexity: O(r*(c+extra)) time and space.
func SpliceCols(m *mat.Dense, extra int, position int) (*mat.Dense, error) {
	if extra < 0 {
		return nil, ErrNegativeCount
	}
	r, c := m.Dims()
	if position == -1 {
		position = c
	}
	if position < 0 || position > c {
		return nil, ErrBadPosition
	}
	out := mat.NewDense(r, c+extra, nil)
	if position > 0 {
		out.Slice(0, r, 0, position).(*mat.Dense).Copy(m.Slice(0, r, 0, position))
	}
	if position < c {
		out.Slice(0, r, position+extra, c+extra).(*mat.Dense).Copy(m.Slice(0, r, position, c))
	}

	return out, nil
}

// SpliceRows returns a fresh (r+extra)×c matrix equal to m with extra
// zero-rows inserted starting at row position (0 <= position <= r).
// position == -1 is equivalent to PadRows (append at the end).
//
// Complexity: O((r+extra)*c) time and space.
func SpliceRows(m *mat.Dense, extra int, position int) (*mat.Dense, error) {
	if extra < 0 {
		return nil, ErrNegativeCount
	}
	r, c := m.Dims()
	if position == -1 {
		position = r
	}
	if position < 0 || position > r {
		return nil, ErrBadPosition
	}
	out := mat.NewDense(r+extra, c, nil)
	if position > 0 {
		out.Slice(0, position, 0, c).(*mat.Dense).Copy(m.Slice(0, position, 0, c))
	}
	if position < r {
		out.Slice(position+extra, r+extra, 0, c).(*mat.Dense).Copy(m.Slice(position, r, 0, c))
	}

	return out, nil
}

// HStack returns a fresh matrix equal to [a | b] (a's columns followed by
// b's columns). a and b must share the same row count.
//
// Complexity: O(r*(ca+cb)) time and space.
func HStack(a, b *mat.Dense) (*mat.Dense, error) {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra != rb {
		return nil, ErrDimensionMismatch
	}
	out := mat.NewDense(ra, ca+cb, nil)
	out.Slice(0, ra, 0, ca).(*mat.Dense).Copy(a)
	out.Slice(0, ra, ca, ca+cb).(*mat.Dense).Copy(b)

	return out, nil
}

// VStack returns a fresh matrix equal to [a; b] (a's rows followed by b's
// rows). a and b must share the same column count.
//
// Complexity: O((ra+rb)*c) time and space.
func VStack(a, b *mat.Dense) (*mat.Dense, error) {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ca != cb {
		return nil, ErrDimensionMismatch
	}
	out := mat.NewDense(ra+rb, ca, nil)
	out.Slice(0, ra, 0, ca).(*mat.Dense).Copy(a)
	out.Slice(ra, ra+rb, 0, ca).(*mat.Dense).Copy(b)

	return out, nil
}

// BlockDiag returns a fresh square matrix with a and b placed on the
// diagonal and zeros elsewhere: [[a, 0], [0, b]].
//
// Complexity: O((ra+rb)*(ca+cb)) time and space.
func BlockDiag(a, b *mat.Dense) *mat.Dense {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	out := mat.NewDense(ra+rb, ca+cb, nil)
	out.Slice(0, ra, 0, ca).(*mat.Dense).Copy(a)
	out.Slice(ra, ra+rb, ca, ca+cb).(*mat.Dense).Copy(b)

	return out
}

// PadVector returns a fresh vector of length n+extra holding v's entries
// followed by zeros. extra must be >= 0.
func PadVector(v []float64, extra int) ([]float64, error) {
	if extra < 0 {
		return nil, ErrNegativeCount
	}
	out := make([]float64, len(v)+extra)
	copy(out, v)

	return out, nil
}

// SpliceVector returns a fresh vector equal to v with extra zeros inserted
// starting at position (0 <= position <= len(v)). position == -1 appends.
func SpliceVector(v []float64, extra int, position int) ([]float64, error) {
	if extra < 0 {
		return nil, ErrNegativeCount
	}
	n := len(v)
	if position == -1 {
		position = n
	}
	if position < 0 || position > n {
		return nil, ErrBadPosition
	}
	out := make([]float64, n+extra)
	copy(out[:position], v[:position])
	copy(out[position+extra:], v[position:])

	return out, nil
}
