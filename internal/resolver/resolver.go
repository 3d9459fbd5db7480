package resolver

import "context"

// Resolver computes a Plan (the settings for one capture session) for a given Input.
type Resolver interface {
	Resolve(ctx context.Context, in Input) (Plan, error)
}
