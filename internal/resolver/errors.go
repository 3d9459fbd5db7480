package resolver

import "errors"

var (
	// ErrMissingCatalog indicates an Input without a capability catalog.
	ErrMissingCatalog = errors.New("capture resolver: missing capability catalog")
)
