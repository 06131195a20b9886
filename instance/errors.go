package instance

import "errors"

var (
	ErrNoCountries      = errors.New("instance: no countries")
	ErrFollowerArity    = errors.New("instance: follower parameter arrays must have equal length")
	ErrTransportShape   = errors.New("instance: transport matrix must be square, sized to the country count, with zero diagonal")
	ErrUnknownParadigm  = errors.New("instance: unrecognized tax paradigm tag")
	ErrDuplicateCountry = errors.New("instance: duplicate country name")
)
