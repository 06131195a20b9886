// DFS explores as far as possible along each branch before backtracking.
// Alongside BFS it backs the trade-topology connectivity diagnostic.
package algorithms

import (
	"context"
	"fmt"

	"github.com/ssriram1992/epecsolve/core"
)

// ErrDFSVertexNotFound is returned when the start vertex is absent.
var ErrDFSVertexNotFound = ErrVertexNotFound

// DFSOptions configures the DFS traversal.
type DFSOptions struct {
	// Ctx allows cancellation; if nil, background context is used.
	Ctx context.Context
	// OnVisit(id, depth) is called when id is first visited. Returning an
	// error aborts traversal (id is already in Order).
	OnVisit func(id string, depth int) error

	// OnExit(id, depth) is called after all descendants of id are processed.
	OnExit func(id string, depth int)
}

// DFSResult holds the outcome of a DFS traversal.
type DFSResult struct {
	// Order is the sequence of visited vertex IDs.
	Order []string
	// Depth maps vertex ID to recursion depth from start.
	Depth map[string]int
	// Parent maps vertex ID to predecessor in the DFS tree.
	Parent map[string]string
	// Visited tracks reached vertices.
	Visited map[string]bool
}

type dfsWalker struct {
	g    *core.Graph
	opts *DFSOptions
	res  *DFSResult
	ctx  context.Context
}

// DFS performs a depth-first search on g from startID using opts.
func DFS(g *core.Graph, startID string, opts *DFSOptions) (*DFSResult, error) {
	ctx := context.Background()
	if opts != nil && opts.Ctx != nil {
		ctx = opts.Ctx
	}

	res := &DFSResult{
		Order:   make([]string, 0),
		Depth:   make(map[string]int),
		Parent:  make(map[string]string),
		Visited: make(map[string]bool),
	}
	w := &dfsWalker{g: g, opts: opts, res: res, ctx: ctx}

	if !g.HasVertex(startID) {
		return res, ErrDFSVertexNotFound
	}
	if err := w.traverse(startID, 0); err != nil {
		return res, err
	}

	return res, nil
}

func (w *dfsWalker) traverse(id string, depth int) error {
	select {
	case <-w.ctx.Done():
		return w.ctx.Err()
	default:
	}

	w.res.Visited[id] = true
	w.res.Depth[id] = depth
	w.res.Order = append(w.res.Order, id)

	if w.opts != nil && w.opts.OnVisit != nil {
		if err := w.opts.OnVisit(id, depth); err != nil {
			return fmt.Errorf("algorithms: OnVisit at %q: %w", id, err)
		}
	}

	neighborIDs, err := w.g.NeighborIDs(id)
	if err != nil {
		return fmt.Errorf("algorithms: DFS neighbors of %q: %w", id, err)
	}
	for _, nbr := range neighborIDs {
		if w.res.Visited[nbr] {
			continue
		}
		w.res.Parent[nbr] = id
		if err := w.traverse(nbr, depth+1); err != nil {
			return err
		}
	}

	if w.opts != nil && w.opts.OnExit != nil {
		w.opts.OnExit(id, depth)
	}

	return nil
}
