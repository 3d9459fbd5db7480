package resolution

import (
	"fmt"
	"strings"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/semver"
)

// Step resolves one parameter from the settings resolved so far and the catalog.
//
// Implementations must be pure: the same prior settings and catalog always produce the
// same Setting, and Resolve never mutates either input.
type Step interface {
	ParameterID() capability.ParameterID
	// DependsOn lists the parameters Resolve reads from prior settings.
	DependsOn() []capability.ParameterID
	Resolve(prior *SettingsMap, catalog *capability.Catalog) Setting
}

// Dependency declares an upstream parameter a Rule reads, and which upstream outcomes
// disable the rule.
//
// By default any non-Resolved upstream disables the rule. Requires, when set, disables
// the rule unless the upstream resolved to one of the listed values. Blocks disables it
// when the upstream resolved to one of the listed values.
type Dependency struct {
	On       capability.ParameterID
	Requires []capability.Value
	Blocks   []capability.Value
}

// Input is what a Selector sees once every gate has passed.
type Input struct {
	ID         capability.ParameterID
	Descriptor capability.Descriptor
	Prior      *SettingsMap
	Catalog    *capability.Catalog
}

// Selector chooses the value for a parameter.
type Selector func(in Input) Setting

// Rule is the standard Step: availability gate, platform gate, dependency gate, then Select.
type Rule struct {
	ID    capability.ParameterID
	Needs []Dependency
	// Since restricts the platform levels the parameter exists on. Zero means always.
	Since  semver.Constraint
	Select Selector
}

var _ Step = Rule{}

func (r Rule) ParameterID() capability.ParameterID { return r.ID }

func (r Rule) DependsOn() []capability.ParameterID {
	out := make([]capability.ParameterID, 0, len(r.Needs))
	for _, d := range r.Needs {
		out = append(out, d.On)
	}
	return out
}

func (r Rule) Resolve(prior *SettingsMap, catalog *capability.Catalog) Setting {
	desc := catalog.Lookup(r.ID)
	if !desc.Available() {
		return NotSupported(r.ID, "not exposed by hardware")
	}
	if platform := catalog.Platform(); !r.Since.Allows(platform) {
		return NotSupported(r.ID, fmt.Sprintf("requires platform %s, device reports %s", r.Since, platform))
	}
	for _, dep := range r.Needs {
		if gated, why := dep.gate(prior); gated {
			if why == "" {
				return Anomalous(r.ID, fmt.Sprintf("dependency %s has not been resolved", dep.On))
			}
			return Disabled(r.ID, why)
		}
	}
	if r.Select == nil {
		return Anomalous(r.ID, "no selection policy")
	}
	out := r.Select(Input{ID: r.ID, Descriptor: desc, Prior: prior, Catalog: catalog})
	out.Parameter = r.ID
	return out
}

// gate reports whether dep disables its dependent. A true result with an empty reason
// means the upstream setting is missing from prior.
func (dep Dependency) gate(prior *SettingsMap) (bool, string) {
	up, ok := prior.Get(dep.On)
	if !ok {
		return true, ""
	}
	if up.Status != StatusResolved {
		return true, fmt.Sprintf("%s is %s", dep.On, up.Status)
	}
	if containsValue(dep.Blocks, up.Value) {
		return true, fmt.Sprintf("%s is %s", dep.On, up.Value)
	}
	if len(dep.Requires) > 0 && !containsValue(dep.Requires, up.Value) {
		return true, fmt.Sprintf("%s is %s, needs %s", dep.On, up.Value, joinValues(dep.Requires, " or "))
	}
	return false, ""
}

func containsValue(vals []capability.Value, v capability.Value) bool {
	for _, x := range vals {
		if x.Equal(v) {
			return true
		}
	}
	return false
}

func joinValues(vals []capability.Value, sep string) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, sep)
}
