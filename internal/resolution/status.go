package resolution

import (
	"fmt"

	"github.com/bayleafwalker/capture-core/internal/capability"
)

// Status is the outcome class of one resolved parameter.
type Status int

const (
	// StatusResolved means a value was chosen and should be applied.
	StatusResolved Status = iota
	// StatusDisabled means the parameter is meaningful on this hardware but an upstream
	// choice made it inapplicable.
	StatusDisabled
	// StatusNotSupported means the hardware does not expose the parameter.
	StatusNotSupported
	// StatusNotApplicable means the parameter has no resolvable default.
	StatusNotApplicable
	// StatusAnomalous means capability data that should have been present was missing or
	// malformed. It is treated like NotSupported but reported separately.
	StatusAnomalous
)

var statusNames = [...]string{
	StatusResolved:      "RESOLVED",
	StatusDisabled:      "DISABLED",
	StatusNotSupported:  "NOT SUPPORTED",
	StatusNotApplicable: "NOT APPLICABLE",
	StatusAnomalous:     "ANOMALOUS",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// AllStatuses lists every status in declaration order.
func AllStatuses() []Status {
	return []Status{StatusResolved, StatusDisabled, StatusNotSupported, StatusNotApplicable, StatusAnomalous}
}

// Setting is the resolution outcome for one parameter.
type Setting struct {
	Parameter capability.ParameterID
	Status    Status
	// Value is only meaningful when Status is StatusResolved.
	Value     capability.Value
	Rationale string
	// Fallback marks a Resolved value that came from a rule's ultimate fallback.
	Fallback bool
	// Quirk names the hardware quirk that overrode the step's outcome, if any.
	Quirk string
}

func (s Setting) IsResolved() bool { return s.Status == StatusResolved }

func Resolved(id capability.ParameterID, v capability.Value, rationale string) Setting {
	return Setting{Parameter: id, Status: StatusResolved, Value: v, Rationale: rationale}
}

func ResolvedFallback(id capability.ParameterID, v capability.Value, rationale string) Setting {
	return Setting{Parameter: id, Status: StatusResolved, Value: v, Rationale: rationale, Fallback: true}
}

func Disabled(id capability.ParameterID, rationale string) Setting {
	return Setting{Parameter: id, Status: StatusDisabled, Rationale: rationale}
}

func NotSupported(id capability.ParameterID, rationale string) Setting {
	return Setting{Parameter: id, Status: StatusNotSupported, Rationale: rationale}
}

func NotApplicable(id capability.ParameterID, rationale string) Setting {
	return Setting{Parameter: id, Status: StatusNotApplicable, Rationale: rationale}
}

func Anomalous(id capability.ParameterID, rationale string) Setting {
	return Setting{Parameter: id, Status: StatusAnomalous, Rationale: rationale}
}
