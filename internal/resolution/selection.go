package resolution

import (
	"fmt"
	"math"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/semver"
)

// Candidate is one entry of a PriorityRule. Since optionally limits the platform levels
// the candidate may be chosen on.
type Candidate struct {
	Value capability.Value
	Since semver.Constraint
}

// PriorityRule is an ordered preference list with an ultimate fallback.
type PriorityRule struct {
	Candidates []Candidate
	Fallback   capability.Value
}

// Priority builds a rule from candidates in preference order.
func Priority(fallback capability.Value, candidates ...capability.Value) PriorityRule {
	r := PriorityRule{Fallback: fallback}
	for _, c := range candidates {
		r.Candidates = append(r.Candidates, Candidate{Value: c})
	}
	return r
}

// Choose walks the candidates in order and returns the first one offered by d and allowed
// on platform. It returns index -1 and the fallback when nothing matches.
func (r PriorityRule) Choose(d capability.Descriptor, platform semver.Level) (capability.Value, int) {
	for i, c := range r.Candidates {
		if !c.Since.Allows(platform) {
			continue
		}
		if d.Contains(c.Value) {
			return c.Value, i
		}
	}
	return r.Fallback, -1
}

// Prefer selects from a DiscreteSet using rule.
func Prefer(rule PriorityRule) Selector {
	return func(in Input) Setting {
		if in.Descriptor.Kind != capability.DiscreteSet {
			return Anomalous(in.ID, fmt.Sprintf("expected a discrete set, catalog reports %s", in.Descriptor.Kind))
		}
		if len(in.Descriptor.Values) == 0 {
			return Anomalous(in.ID, "catalog reports an empty value set")
		}
		v, idx := rule.Choose(in.Descriptor, in.Catalog.Platform())
		return priorityOutcome(in.ID, v, idx)
	}
}

func priorityOutcome(id capability.ParameterID, v capability.Value, idx int) Setting {
	switch {
	case idx == 0:
		return Resolved(id, v, "preferred value")
	case idx > 0:
		return Resolved(id, v, fmt.Sprintf("preferred value absent; chose priority entry %d", idx+1))
	default:
		return ResolvedFallback(id, v, "no candidate offered; fell back to "+v.String())
	}
}

// Extremum is the selection policy for numeric ranges and numeric sets.
type Extremum int

const (
	Minimum Extremum = iota
	Maximum
)

func (e Extremum) String() string {
	if e == Maximum {
		return "maximum"
	}
	return "minimum"
}

// numericBounds extracts the numeric extent of a Range or of a DiscreteSet of numbers.
func numericBounds(d capability.Descriptor) (capability.Interval, string) {
	switch d.Kind {
	case capability.Range:
		if d.Bounds.Lower > d.Bounds.Upper {
			return capability.Interval{}, fmt.Sprintf("range lower bound %v exceeds upper bound %v", d.Bounds.Lower, d.Bounds.Upper)
		}
		return d.Bounds, ""
	case capability.DiscreteSet:
		if len(d.Values) == 0 {
			return capability.Interval{}, "catalog reports an empty value set"
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range d.Values {
			n, ok := v.Number()
			if !ok {
				return capability.Interval{}, fmt.Sprintf("value %s is not numeric", v)
			}
			lo, hi = math.Min(lo, n), math.Max(hi, n)
		}
		return capability.Interval{Lower: lo, Upper: hi}, ""
	default:
		return capability.Interval{}, fmt.Sprintf("expected a numeric range, catalog reports %s", d.Kind)
	}
}

// Extreme selects the minimum or maximum of a Range or numeric DiscreteSet.
func Extreme(policy Extremum) Selector {
	return func(in Input) Setting {
		bounds, bad := numericBounds(in.Descriptor)
		if bad != "" {
			return Anomalous(in.ID, bad)
		}
		if policy == Maximum {
			return Resolved(in.ID, Number(bounds.Upper), "maximum of "+bounds.String())
		}
		return Resolved(in.ID, Number(bounds.Lower), "minimum of "+bounds.String())
	}
}

// Target selects target when the range contains it, otherwise the extremum given by otherwise.
func Target(target float64, otherwise Extremum) Selector {
	return func(in Input) Setting {
		bounds, bad := numericBounds(in.Descriptor)
		if bad != "" {
			return Anomalous(in.ID, bad)
		}
		if bounds.Contains(target) {
			return Resolved(in.ID, Number(target), "preferred value")
		}
		v := bounds.Lower
		if otherwise == Maximum {
			v = bounds.Upper
		}
		return ResolvedFallback(in.ID, Number(v), fmt.Sprintf("%s outside %s; fell back to %s", Number(target), bounds, otherwise))
	}
}

// Number returns an Int value for integral f and a Float otherwise.
func Number(f float64) capability.Value {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return capability.Int(int64(f))
	}
	return capability.Float(f)
}

// FastestRange picks the best rate interval among candidates.
//
// The first candidate starts as best. A later candidate replaces it only if its upper
// bound is at least best's upper bound and either its lower bound is greater, or the
// lower bounds tie and its lower*upper product is greater. Ties keep the earlier
// candidate. The index of the winner is returned, or -1 for no candidates.
func FastestRange(candidates []capability.Interval) (capability.Interval, int) {
	if len(candidates) == 0 {
		return capability.Interval{}, -1
	}
	best, bestIdx := candidates[0], 0
	for i := 1; i < len(candidates); i++ {
		c := candidates[i]
		if c.Upper < best.Upper {
			continue
		}
		if c.Lower > best.Lower || (c.Lower == best.Lower && c.Lower*c.Upper > best.Lower*best.Upper) {
			best, bestIdx = c, i
		}
	}
	return best, bestIdx
}

// Fastest selects a rate interval with FastestRange. A Range descriptor is its own single
// candidate. When keep is non-nil only matching intervals compete; if none match, every
// interval competes and the result is marked as a fallback.
func Fastest(keep func(capability.Interval) bool) Selector {
	return func(in Input) Setting {
		var all []capability.Interval
		switch in.Descriptor.Kind {
		case capability.Range:
			all = []capability.Interval{in.Descriptor.Bounds}
		case capability.DiscreteSet:
			for _, v := range in.Descriptor.Values {
				iv, ok := v.Interval()
				if !ok {
					return Anomalous(in.ID, fmt.Sprintf("value %s is not an interval", v))
				}
				all = append(all, iv)
			}
		default:
			return Anomalous(in.ID, fmt.Sprintf("expected rate intervals, catalog reports %s", in.Descriptor.Kind))
		}
		if len(all) == 0 {
			return Anomalous(in.ID, "catalog reports no rate intervals")
		}

		pool := all
		if keep != nil {
			pool = nil
			for _, iv := range all {
				if keep(iv) {
					pool = append(pool, iv)
				}
			}
		}
		if len(pool) == 0 {
			best, _ := FastestRange(all)
			return ResolvedFallback(in.ID, capability.Span(best.Lower, best.Upper), "no interval within limits; fell back to fastest offered")
		}
		best, _ := FastestRange(pool)
		return Resolved(in.ID, capability.Span(best.Lower, best.Upper), fmt.Sprintf("fastest of %d intervals", len(pool)))
	}
}

// Constant always resolves to v once the parameter is available.
func Constant(v capability.Value, rationale string) Selector {
	return func(in Input) Setting {
		return Resolved(in.ID, v, rationale)
	}
}

// Informational resolves to NotApplicable: the parameter exists but has no default.
func Informational(rationale string) Selector {
	return func(in Input) Setting {
		return NotApplicable(in.ID, rationale)
	}
}
