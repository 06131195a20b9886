package milp

import "github.com/ssriram1992/epecsolve/solver"

// Backend is the reference solver.Backend implementation; every call
// returns a fresh *Model.
type Backend struct{}

// NewBackend constructs the reference in-house MILP/MIQP backend.
func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) NewModel(name string) (solver.Model, error) {
	return NewModel(name)
}
