package capability

import "errors"

var (
	// ErrInvalidDocument indicates a catalog document could not be decoded.
	ErrInvalidDocument = errors.New("invalid capability document")
)
