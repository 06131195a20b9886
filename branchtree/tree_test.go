// Package branchtree_test validates arena growth, mask clearing, and the
// three branching operations.
package branchtree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssriram1992/epecsolve/branchtree"
)

func TestNew_RootAllPermitted(t *testing.T) {
	tr := branchtree.New(3)
	root, err := tr.Node(tr.Root())
	require.NoError(t, err)
	require.Equal(t, []int8{0, 0, 0}, root.Encoding)
	for _, m := range root.Mask {
		require.True(t, m)
	}
}

func TestSingleBranch_CreatesTwoChildren(t *testing.T) {
	tr := branchtree.New(3)
	neg, pos, err := tr.SingleBranch(tr.Root(), 1)
	require.NoError(t, err)

	negNode, _ := tr.Node(neg)
	require.Equal(t, int8(-1), negNode.Encoding[1])
	require.False(t, negNode.Mask[1])

	posNode, _ := tr.Node(pos)
	require.Equal(t, int8(1), posNode.Encoding[1])
	require.False(t, posNode.Mask[1])

	root, _ := tr.Node(tr.Root())
	require.ElementsMatch(t, []int{neg, pos}, root.Children)
}

func TestSingleBranch_RejectsForbiddenPosition(t *testing.T) {
	tr := branchtree.New(2)
	require.NoError(t, tr.DenyBranch(tr.Root(), 0))
	_, _, err := tr.SingleBranch(tr.Root(), 0)
	require.ErrorIs(t, err, branchtree.ErrPositionNotPermitted)
}

func TestMultipleBranch_FixesAllPositions(t *testing.T) {
	tr := branchtree.New(4)
	child, err := tr.MultipleBranch(tr.Root(), []int{0, 2})
	require.NoError(t, err)

	node, _ := tr.Node(child)
	require.Equal(t, []int8{1, 0, 1, 0}, node.Encoding)
	require.False(t, node.Mask[0])
	require.True(t, node.Mask[1])
	require.False(t, node.Mask[2])
}

func TestDenyBranch_DoesNotCreateChild(t *testing.T) {
	tr := branchtree.New(2)
	before := tr.Len()
	require.NoError(t, tr.DenyBranch(tr.Root(), 1))
	require.Equal(t, before, tr.Len())

	root, _ := tr.Node(tr.Root())
	require.False(t, root.Mask[1])
	require.Empty(t, root.Children)
}

func TestPositionOutOfRange(t *testing.T) {
	tr := branchtree.New(2)
	_, _, err := tr.SingleBranch(tr.Root(), 5)
	require.ErrorIs(t, err, branchtree.ErrPositionOOB)
}
