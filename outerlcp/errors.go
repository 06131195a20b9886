package outerlcp

import "errors"

// Sentinel errors for package outerlcp.
var (
	// ErrEncodingLength is returned when an encoding's length does not
	// match the base LCP's complementarity count.
	ErrEncodingLength = errors.New("outerlcp: encoding length mismatch")

	// ErrNoPolyhedra is returned by ConvexHull/MakeQP when no feasible
	// polyhedron has been added yet.
	ErrNoPolyhedra = errors.New("outerlcp: no polyhedra to combine")
)
