// BFS explores a graph level by level from a start vertex. package algorithms
// uses it as a connectivity diagnostic over the trade-topology graph built
// from an instance's transport-cost matrix: a country unreachable from the
// others is flagged before the expensive EPEC solve runs at all.
package algorithms

import (
	"context"
	"errors"
	"fmt"

	"github.com/ssriram1992/epecsolve/core"
)

// ErrVertexNotFound is returned when the start vertex does not exist in g.
var ErrVertexNotFound = errors.New("algorithms: start vertex not found")

// BFSOptions configures traversal behavior.
type BFSOptions struct {
	// Ctx allows cancellation; if nil, context.Background() is used.
	Ctx context.Context

	// OnVisit(id, depth) is called when id is visited. If it returns an
	// error, traversal aborts (id is already in Order).
	OnVisit func(id string, depth int) error
}

// BFSResult holds the outcome of a BFS traversal.
type BFSResult struct {
	// Order is the sequence of visited vertex IDs.
	Order []string
	// Depth maps vertex ID to distance (in edges) from the start vertex.
	Depth map[string]int
	// Parent maps vertex ID to its predecessor ID in the BFS tree.
	Parent map[string]string
	// Visited tracks which vertices have been reached.
	Visited map[string]bool
}

// queueItem pairs a vertex ID with its BFS depth.
type queueItem struct {
	id    string
	depth int
}

// BFS performs a breadth-first search on g from startID. Edges are followed
// per Neighbors' directedness rule: directed edges only From->To, undirected
// edges both ways.
func BFS(g *core.Graph, startID string, opts *BFSOptions) (*BFSResult, error) {
	ctx := context.Background()
	if opts != nil && opts.Ctx != nil {
		ctx = opts.Ctx
	}
	if !g.HasVertex(startID) {
		return nil, ErrVertexNotFound
	}

	res := &BFSResult{
		Order:   make([]string, 0),
		Depth:   map[string]int{startID: 0},
		Parent:  make(map[string]string),
		Visited: map[string]bool{startID: true},
	}

	queue := []queueItem{{id: startID, depth: 0}}
	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		item := queue[0]
		queue = queue[1:]

		res.Order = append(res.Order, item.id)
		if opts != nil && opts.OnVisit != nil {
			if err := opts.OnVisit(item.id, item.depth); err != nil {
				return res, fmt.Errorf("algorithms: OnVisit at %q: %w", item.id, err)
			}
		}

		neighborIDs, err := g.NeighborIDs(item.id)
		if err != nil {
			return res, fmt.Errorf("algorithms: BFS neighbors of %q: %w", item.id, err)
		}
		for _, nbr := range neighborIDs {
			if res.Visited[nbr] {
				continue
			}
			res.Visited[nbr] = true
			res.Parent[nbr] = item.id
			res.Depth[nbr] = item.depth + 1
			queue = append(queue, queueItem{id: nbr, depth: item.depth + 1})
		}
	}

	return res, nil
}

// ReachableFrom returns the set of vertex IDs reachable from startID,
// startID included.
func ReachableFrom(g *core.Graph, startID string) (map[string]bool, error) {
	res, err := BFS(g, startID, nil)
	if err != nil {
		return nil, err
	}

	return res.Visited, nil
}
