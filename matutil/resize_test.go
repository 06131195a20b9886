package matutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPadCols_PreservesEntriesAndZeroesExtra(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	out, err := PadCols(m, 2)
	require.NoError(t, err)
	r, c := out.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 4, c)
	require.Equal(t, 1.0, out.At(0, 0))
	require.Equal(t, 2.0, out.At(0, 1))
	require.Equal(t, 0.0, out.At(0, 2))
	require.Equal(t, 0.0, out.At(1, 3))
	// original untouched
	require.Equal(t, 1.0, m.At(0, 0))
}

func TestSpliceCols_InsertsAtPosition(t *testing.T) {
	m := mat.NewDense(1, 3, []float64{10, 20, 30})
	out, err := SpliceCols(m, 1, 1)
	require.NoError(t, err)
	r, c := out.Dims()
	require.Equal(t, 1, r)
	require.Equal(t, 4, c)
	require.Equal(t, []float64{10, 0, 20, 30}, out.RawRowView(0))
}

func TestSpliceCols_AppendEquivalentToPadCols(t *testing.T) {
	m := mat.NewDense(1, 2, []float64{5, 6})
	appended, err := SpliceCols(m, 2, -1)
	require.NoError(t, err)
	padded, err := PadCols(m, 2)
	require.NoError(t, err)
	require.True(t, mat.Equal(appended, padded))
}

func TestSpliceCols_BadPosition(t *testing.T) {
	m := mat.NewDense(1, 2, []float64{1, 2})
	_, err := SpliceCols(m, 1, 5)
	require.ErrorIs(t, err, ErrBadPosition)
}

func TestNegativeCountRejected(t *testing.T) {
	m := mat.NewDense(1, 1, []float64{1})
	_, err := PadCols(m, -1)
	require.ErrorIs(t, err, ErrNegativeCount)
	_, err = PadRows(m, -1)
	require.ErrorIs(t, err, ErrNegativeCount)
}

func TestHStackVStack(t *testing.T) {
	a := mat.NewDense(2, 1, []float64{1, 2})
	b := mat.NewDense(2, 1, []float64{3, 4})
	h, err := HStack(a, b)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 3}, h.RawRowView(0))

	v, err := VStack(mat.NewDense(1, 2, []float64{1, 2}), mat.NewDense(1, 2, []float64{3, 4}))
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4}, v.RawRowView(1))
}

func TestBlockDiag(t *testing.T) {
	a := mat.NewDense(1, 1, []float64{1})
	b := mat.NewDense(1, 1, []float64{2})
	out := BlockDiag(a, b)
	require.Equal(t, 1.0, out.At(0, 0))
	require.Equal(t, 0.0, out.At(0, 1))
	require.Equal(t, 0.0, out.At(1, 0))
	require.Equal(t, 2.0, out.At(1, 1))
}

func TestPadVectorAndSpliceVector(t *testing.T) {
	v := []float64{1, 2, 3}
	out, err := PadVector(v, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 0, 0}, out)

	spliced, err := SpliceVector(v, 1, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 2, 3}, spliced)
}
