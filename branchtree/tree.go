package branchtree

// Node is one branching-tree node: an encoding over complementarities with
// values in {-1, 0, +1}, and a mask of positions still legal to branch on.
type Node struct {
	Encoding []int8
	Mask     []bool
	Parent   int // -1 for the root
	Children []int
}

// Tree is an append-only arena of Nodes; children are referenced by index
// so non-owning references (plain ints) remain valid across growth.
type Tree struct {
	nodes []Node
	n     int // number of complementarities
}

// New creates a tree over n complementarities, with a root node carrying
// the all-zero encoding and every position permitted.
func New(n int) *Tree {
	root := Node{
		Encoding: make([]int8, n),
		Mask:     make([]bool, n),
		Parent:   -1,
	}
	for i := range root.Mask {
		root.Mask[i] = true
	}

	return &Tree{nodes: []Node{root}, n: n}
}

// Root returns the root node's index (always 0).
func (t *Tree) Root() int { return 0 }

// Len returns the number of nodes currently in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns a copy of the node at idx.
func (t *Tree) Node(idx int) (Node, error) {
	if idx < 0 || idx >= len(t.nodes) {
		return Node{}, ErrNodeIndexOOB
	}
	n := t.nodes[idx]
	cp := Node{
		Encoding: append([]int8(nil), n.Encoding...),
		Mask:     append([]bool(nil), n.Mask...),
		Parent:   n.Parent,
		Children: append([]int(nil), n.Children...),
	}

	return cp, nil
}

func (t *Tree) checkPosition(node, position int) error {
	if node < 0 || node >= len(t.nodes) {
		return ErrNodeIndexOOB
	}
	if position < 0 || position >= t.n {
		return ErrPositionOOB
	}
	if !t.nodes[node].Mask[position] {
		return ErrPositionNotPermitted
	}

	return nil
}

func (t *Tree) child(parent int, fix map[int]int8) int {
	p := t.nodes[parent]
	enc := append([]int8(nil), p.Encoding...)
	mask := append([]bool(nil), p.Mask...)
	for pos, val := range fix {
		enc[pos] = val
		mask[pos] = false
	}
	idx := len(t.nodes)
	t.nodes = append(t.nodes, Node{Encoding: enc, Mask: mask, Parent: parent})
	t.nodes[parent].Children = append(t.nodes[parent].Children, idx)

	return idx
}

// SingleBranch creates two children of node, fixing compIndex to -1 and +1
// respectively, clearing that position from both children's masks.
func (t *Tree) SingleBranch(node, compIndex int) (childNeg, childPos int, err error) {
	if err := t.checkPosition(node, compIndex); err != nil {
		return -1, -1, err
	}
	childNeg = t.child(node, map[int]int8{compIndex: -1})
	childPos = t.child(node, map[int]int8{compIndex: 1})

	return childNeg, childPos, nil
}

// MultipleBranch creates one child of node fixing every listed position to
// +1 simultaneously (one level, multiple decisions), clearing them all.
func (t *Tree) MultipleBranch(node int, compIndices []int) (int, error) {
	fix := make(map[int]int8, len(compIndices))
	for _, pos := range compIndices {
		if err := t.checkPosition(node, pos); err != nil {
			return -1, err
		}
		fix[pos] = 1
	}

	return t.child(node, fix), nil
}

// DenyBranch marks position as forbidden at node without creating a child,
// used when infeasibility is detected at the would-be child.
func (t *Tree) DenyBranch(node, position int) error {
	if err := t.checkPosition(node, position); err != nil {
		return err
	}
	t.nodes[node].Mask[position] = false

	return nil
}
