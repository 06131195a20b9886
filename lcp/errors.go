package lcp

import "errors"

// Sentinel errors for package lcp.
var (
	// ErrBadShape is returned when cols(M) != rows(M) + leaderCount, or
	// q's length does not match rows(M).
	ErrBadShape = errors.New("lcp: cols(M) must equal rows(M) + leaderCount")

	// ErrPairingMismatch is returned when the complementarity pairing does
	// not cover every non-leader equation exactly once.
	ErrPairingMismatch = errors.New("lcp: complementarity pairing is malformed")

	// ErrBadLeaderRange is returned when leadStart/leadEnd fall outside [0, n).
	ErrBadLeaderRange = errors.New("lcp: invalid leader range")

	// ErrNotComplementary is returned by EncodingFromPoint when some pair
	// has both z_i > 0 and x_j > 0 simultaneously (not complementarity-feasible).
	ErrNotComplementary = errors.New("lcp: point is not complementarity-feasible")

	// ErrPartialEncoding names the case where a fully-resolved encoding is
	// required but a zero entry remains. No function in this package
	// returns it.
	ErrPartialEncoding = errors.New("lcp: encoding has unresolved entries")

	// ErrNoBackend is returned when a MIP solve is requested with a nil backend.
	ErrNoBackend = errors.New("lcp: nil backend")

	// ErrBadMagic is returned by Load and ReadFrom when the input does not begin with
	// the "LCP" magic header.
	ErrBadMagic = errors.New("lcp: bad magic header")
)
