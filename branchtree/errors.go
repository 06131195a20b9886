package branchtree

import "errors"

// Sentinel errors for package branchtree.
var (
	// ErrNodeIndexOOB is returned when a node index is out of range for the arena.
	ErrNodeIndexOOB = errors.New("branchtree: node index out of range")

	// ErrPositionNotPermitted is returned when branching on a position the
	// node's mask has already closed off.
	ErrPositionNotPermitted = errors.New("branchtree: position not permitted at this node")

	// ErrPositionOOB is returned when a complementarity index is outside [0, n).
	ErrPositionOOB = errors.New("branchtree: position out of range")
)
