package history

import "errors"

var (
	ErrClosed  = errors.New("history: store is closed")
	ErrNotOpen = errors.New("history: database not open")
)
