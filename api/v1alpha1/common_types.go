package v1alpha1

type ObjectRef struct {
	Name string `json:"name"`
}

// Phases reported in CaptureProfile.status.phase.
const (
	PhasePending  = "Pending"
	PhaseResolved = "Resolved"
	PhaseError    = "Error"
)

// Status strings reported in CaptureProfile.status.settings[].status.
const (
	SettingResolved      = "RESOLVED"
	SettingDisabled      = "DISABLED"
	SettingNotSupported  = "NOT SUPPORTED"
	SettingNotApplicable = "NOT APPLICABLE"
	SettingAnomalous     = "ANOMALOUS"
)
