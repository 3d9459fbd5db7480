package resolver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/capture"
	"github.com/bayleafwalker/capture-core/internal/resolution"
)

// DefaultResolver is the default implementation wired into the controller and the RPC server.
type DefaultResolver struct {
	// NewRunID generates run identifiers. Defaults to random UUIDs.
	NewRunID func() string
}

func NewDefault() *DefaultResolver {
	return &DefaultResolver{NewRunID: func() string { return uuid.NewString() }}
}

func (r *DefaultResolver) Resolve(ctx context.Context, in Input) (Plan, error) {
	if in.Catalog == nil {
		return Plan{}, ErrMissingCatalog
	}
	pipeline, err := capture.NewPipeline(in.Options)
	if err != nil {
		return Plan{}, fmt.Errorf("build pipeline: %w", err)
	}

	runID := ""
	if r.NewRunID != nil {
		runID = r.NewRunID()
	}
	logger := log.FromContext(ctx).WithValues("device", in.Device, "runID", runID, "platform", in.Catalog.Platform().String())

	settings := pipeline.Run(in.Catalog)
	plan := Plan{
		RunID:    runID,
		Settings: settings,
		Declared: pipeline.Declared(),
	}
	plan.Diagnostics = diagnose(settings, plan.Declared)

	for _, a := range plan.Diagnostics.Anomalies {
		logger.Info("anomalous capability data", "parameter", a.Parameter, "reason", a.Reason)
	}
	logger.V(1).Info("resolved capture settings",
		"resolved", settings.Count(resolution.StatusResolved),
		"fallbacks", len(plan.Diagnostics.Fallbacks),
		"anomalies", len(plan.Diagnostics.Anomalies),
	)
	return plan, nil
}

func diagnose(settings *resolution.SettingsMap, declared []capability.ParameterID) Diagnostics {
	d := Diagnostics{Unresolved: settings.UnresolvedKeys(declared)}
	for _, s := range settings.Entries() {
		switch {
		case s.Status == resolution.StatusAnomalous:
			d.Anomalies = append(d.Anomalies, Finding{Parameter: s.Parameter, Reason: s.Rationale})
		case s.Fallback:
			d.Fallbacks = append(d.Fallbacks, Finding{Parameter: s.Parameter, Reason: s.Rationale})
		}
		if s.Quirk != "" {
			d.Overridden = append(d.Overridden, Finding{Parameter: s.Parameter, Reason: s.Quirk})
		}
	}
	return d
}
