package resolver

import (
	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/capture"
	"github.com/bayleafwalker/capture-core/internal/resolution"
)

// Input is the normalized view of one device that the resolver operates on.
type Input struct {
	// Device is a label used in logs and diagnostics only.
	Device  string
	Catalog *capability.Catalog
	Options capture.Options
}

// Plan is the output of one resolution run.
type Plan struct {
	// RunID identifies this run in logs, status and published messages.
	RunID    string
	Settings *resolution.SettingsMap
	// Declared is the full parameter set of the pipeline, in order.
	Declared    []capability.ParameterID
	Diagnostics Diagnostics
}

// Diagnostics captures human-readable information about resolution.
//
// This is useful for status/messages/events, and for logging.
type Diagnostics struct {
	Anomalies  []Finding
	Fallbacks  []Finding
	Overridden []Finding
	// Unresolved lists declared parameters missing from the settings map.
	Unresolved []capability.ParameterID
}

type Finding struct {
	Parameter capability.ParameterID
	Reason    string
}
