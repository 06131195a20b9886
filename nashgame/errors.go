package nashgame

import "errors"

// Sentinel errors for package nashgame.
var (
	// ErrNoPlayers is returned by New when given an empty player list.
	ErrNoPlayers = errors.New("nashgame: at least one player required")

	// ErrArityMismatch is returned by New when a player's Nx does not equal
	// the total-primals-minus-own-Ny-plus-leader-count invariant.
	ErrArityMismatch = errors.New("nashgame: player parameter arity mismatch")

	// ErrBadCompositeLength is returned by Respond/IsSolved when the
	// supplied composite vector does not match the game's total width.
	ErrBadCompositeLength = errors.New("nashgame: composite vector has wrong length")

	// ErrPlayerIndexOOB is returned by Respond when playerIndex is out of range.
	ErrPlayerIndexOOB = errors.New("nashgame: player index out of range")
)
