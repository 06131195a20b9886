// Package matutil provides size-agnostic, pure-function edits over dense
// matrices built on top of gonum.org/v1/gonum/mat.
//
// Every helper here returns a freshly allocated matrix; none mutates its
// arguments in place. This is a deliberate re-derivation of the "resize
// patch" utility described for ParamQP.AddDummy / NashGame.AddDummy: the
// underlying dense backend mishandles zero-sized dimensions the same way
// the teacher's own matrix library does, so padding is always done by
// building a new matrix of the target shape and copying old entries across,
// never by growing a matrix's backing storage in place.
package matutil
