package construction

import "errors"

var (
	// ErrInvalidCoordinate is returned by AddPoint for NaN or infinite
	// coordinates.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrUnknownPoint is returned by AddLine when an endpoint is not in
	// the graph.
	ErrUnknownPoint = errors.New("unknown point")
)
