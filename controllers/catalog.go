package controllers

import (
	"errors"
	"fmt"
	"strconv"

	capturev1alpha1 "github.com/bayleafwalker/capture-core/api/v1alpha1"
	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/capture"
	"github.com/bayleafwalker/capture-core/internal/semver"
)

// catalogFromSpec converts a DeviceCatalog spec into a capability catalog. A non-empty
// platformOverride replaces the reported platform level.
func catalogFromSpec(spec capturev1alpha1.DeviceCatalogSpec, platformOverride string) (*capability.Catalog, error) {
	raw := spec.Platform
	if platformOverride != "" {
		raw = platformOverride
	}
	level, err := semver.ParseLevel(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: platform: %v", capability.ErrInvalidDocument, err)
	}

	b := capability.NewBuilder().Platform(level)
	seen := make(map[string]struct{}, len(spec.Parameters))
	var errs []error
	for _, e := range spec.Parameters {
		if e.Parameter == "" {
			errs = append(errs, fmt.Errorf("%w: entry without parameter name", capability.ErrInvalidDocument))
			continue
		}
		if _, dup := seen[e.Parameter]; dup {
			errs = append(errs, fmt.Errorf("%w: %s listed more than once", capability.ErrInvalidDocument, e.Parameter))
			continue
		}
		seen[e.Parameter] = struct{}{}

		d, err := descriptorFromEntry(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.Set(capability.ParameterID(e.Parameter), d)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func descriptorFromEntry(e capturev1alpha1.CapabilityEntry) (capability.Descriptor, error) {
	shapes := 0
	if len(e.Values) > 0 {
		shapes++
	}
	if e.Range != nil {
		shapes++
	}
	if e.Flag != nil {
		shapes++
	}
	if e.Unavailable {
		shapes++
	}
	if e.Empty {
		shapes++
	}
	if shapes != 1 {
		return capability.Descriptor{}, fmt.Errorf("%w: %s must set exactly one of values, range, flag, empty or unavailable", capability.ErrInvalidDocument, e.Parameter)
	}

	switch {
	case e.Unavailable:
		return capability.NotAvailable(), nil
	case e.Flag != nil:
		return capability.Present(*e.Flag), nil
	case e.Range != nil:
		lo, err := strconv.ParseFloat(e.Range.Min, 64)
		if err != nil {
			return capability.Descriptor{}, fmt.Errorf("%w: %s range min %q", capability.ErrInvalidDocument, e.Parameter, e.Range.Min)
		}
		hi, err := strconv.ParseFloat(e.Range.Max, 64)
		if err != nil {
			return capability.Descriptor{}, fmt.Errorf("%w: %s range max %q", capability.ErrInvalidDocument, e.Parameter, e.Range.Max)
		}
		// Inverted bounds are kept; the step reports them as anomalous.
		return capability.Between(lo, hi), nil
	case e.Empty:
		return capability.Discrete(), nil
	default:
		values := make([]capability.Value, 0, len(e.Values))
		for _, raw := range e.Values {
			values = append(values, capability.ParseValue(raw))
		}
		return capability.Discrete(values...), nil
	}
}

// optionsFromPolicy layers a profile policy over the resolver defaults.
func optionsFromPolicy(p capturev1alpha1.CapturePolicy) capture.Options {
	opts := capture.DefaultOptions()
	opts.ForceControlModeAuto = p.ForceControlModeAuto
	opts.ForceWorstConfiguration = p.ForceWorstConfiguration
	if p.MaxFPS != nil {
		opts.MaxFPS = float64(*p.MaxFPS)
	}
	if p.MaxFPSDiff != nil {
		opts.MaxFPSDiff = float64(*p.MaxFPSDiff)
	}
	if len(p.Quirks) > 0 {
		opts.Quirks = append([]string(nil), p.Quirks...)
	}
	return opts
}
