package capability

// DescriptorKind tags a Descriptor.
type DescriptorKind int

const (
	// Unavailable means the hardware does not expose the parameter.
	Unavailable DescriptorKind = iota
	// DiscreteSet is a set of permitted values (modes, numeric options, rate ranges).
	DiscreteSet
	// Range is a closed numeric interval.
	Range
	// Flag is a presence indicator with no further detail.
	Flag
)

func (k DescriptorKind) String() string {
	switch k {
	case Unavailable:
		return "Unavailable"
	case DiscreteSet:
		return "DiscreteSet"
	case Range:
		return "Range"
	case Flag:
		return "Flag"
	default:
		return "Unknown"
	}
}

// Descriptor describes what the hardware supports for one parameter.
//
// A DiscreteSet with no values, or a Range with Lower > Upper, is representable on
// purpose: providers sometimes report such data and steps classify it as anomalous.
type Descriptor struct {
	Kind    DescriptorKind
	Values  []Value
	Bounds  Interval
	Present bool
}

func NotAvailable() Descriptor { return Descriptor{Kind: Unavailable} }

func Discrete(values ...Value) Descriptor {
	return Descriptor{Kind: DiscreteSet, Values: append([]Value(nil), values...)}
}

// Enums is shorthand for a DiscreteSet of enum names.
func Enums(names ...string) Descriptor {
	vals := make([]Value, 0, len(names))
	for _, n := range names {
		vals = append(vals, Enum(n))
	}
	return Descriptor{Kind: DiscreteSet, Values: vals}
}

func Between(lo, hi float64) Descriptor {
	return Descriptor{Kind: Range, Bounds: Interval{Lower: lo, Upper: hi}}
}

func Present(b bool) Descriptor { return Descriptor{Kind: Flag, Present: b} }

func (d Descriptor) Available() bool { return d.Kind != Unavailable }

// Contains reports whether v is a member of a DiscreteSet, or lies within a numeric Range.
func (d Descriptor) Contains(v Value) bool {
	switch d.Kind {
	case DiscreteSet:
		for _, have := range d.Values {
			if have.Equal(v) {
				return true
			}
		}
		return false
	case Range:
		n, ok := v.Number()
		return ok && d.Bounds.Contains(n)
	default:
		return false
	}
}

func (d Descriptor) clone() Descriptor {
	d.Values = append([]Value(nil), d.Values...)
	return d
}
