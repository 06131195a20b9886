package polylcp

import "errors"

// Sentinel errors for package polylcp.
var (
	// ErrPartialEncoding is returned by AddPolyFromEncoding when the
	// encoding contains an unresolved (zero) entry.
	ErrPartialEncoding = errors.New("polylcp: encoding has unresolved entries")

	// ErrEncodingLength is returned when an encoding's length does not
	// match the base LCP's complementarity count.
	ErrEncodingLength = errors.New("polylcp: encoding length mismatch")

	// ErrNoPolyhedra is returned by ConvexHull/MakeQP when no feasible
	// polyhedron has been added yet.
	ErrNoPolyhedra = errors.New("polylcp: no polyhedra to combine")
)
