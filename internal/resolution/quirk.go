package resolution

import "github.com/bayleafwalker/capture-core/internal/capability"

// Quirk is a named, device-specific override applied after every step has run.
//
// Quirks exist for firmware behaviour the priority rules cannot express. Each quirk targets
// one declared parameter and sees the fully settled map.
type Quirk interface {
	Name() string
	ParameterID() capability.ParameterID
	// Override returns the replacement setting and true, or false to leave current alone.
	Override(current Setting, settled *SettingsMap, catalog *capability.Catalog) (Setting, bool)
}

// Override is a Quirk built from a function.
type Override struct {
	QuirkName string
	Target    capability.ParameterID
	Apply     func(current Setting, settled *SettingsMap, catalog *capability.Catalog) (Setting, bool)
}

var _ Quirk = Override{}

func (o Override) Name() string                        { return o.QuirkName }
func (o Override) ParameterID() capability.ParameterID { return o.Target }

func (o Override) Override(current Setting, settled *SettingsMap, catalog *capability.Catalog) (Setting, bool) {
	if o.Apply == nil {
		return current, false
	}
	return o.Apply(current, settled, catalog)
}
