package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Level is a platform level (for example the API level a device reports).
//
// Levels are parsed leniently, so "28", "28.1" and "28.0.0" are all valid.
// The zero Level is "unknown" and satisfies every constraint.
type Level struct {
	v *mm.Version
}

// Constraint restricts the platform levels a step or candidate is valid on.
//
// Examples:
// - ">= 28"
// - ">= 23, < 26"
// - "< 23"
type Constraint struct {
	raw string
	c   *mm.Constraints
}

func ParseLevel(raw string) (Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Level{}, nil
	}
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Level{}, fmt.Errorf("semver: parse level %q: %w", raw, err)
	}
	return Level{v: v}, nil
}

func MustParseLevel(raw string) Level {
	l, err := ParseLevel(raw)
	if err != nil {
		panic(err)
	}
	return l
}

// Known reports whether the level was set.
func (l Level) Known() bool { return l.v != nil }

func (l Level) String() string {
	if l.v == nil {
		return "unknown"
	}
	return l.v.Original()
}

func ParseConstraint(raw string) (Constraint, error) {
	c, err := mm.NewConstraint(raw)
	if err != nil {
		return Constraint{}, fmt.Errorf("semver: parse constraint %q: %w", raw, err)
	}
	return Constraint{raw: raw, c: c}, nil
}

func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Constraint) String() string { return c.raw }

// Allows reports whether l satisfies c. Unknown levels and empty constraints always pass.
func (c Constraint) Allows(l Level) bool {
	if c.c == nil || l.v == nil {
		return true
	}
	return c.c.Check(l.v)
}
