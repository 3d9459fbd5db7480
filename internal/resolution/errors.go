package resolution

import "errors"

var (
	// ErrInvalidPipeline indicates a step list that cannot be run: a nil step, a duplicate
	// parameter, or a step placed before one of the parameters it reads.
	ErrInvalidPipeline = errors.New("invalid resolution pipeline")
	// ErrInvalidQuirk indicates a quirk without a name or aimed at an undeclared parameter.
	ErrInvalidQuirk = errors.New("invalid hardware quirk")
)
