// Package sink applies resolved settings to a platform-specific request object.
package sink

import (
	"errors"
	"fmt"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/resolution"
)

// Target is a request object that accepts one value per parameter.
type Target interface {
	Set(id capability.ParameterID, v capability.Value) error
}

type Result struct {
	Applied int
	Skipped int
}

// Apply walks m once and sets every Resolved entry on t. Entries with any other status are
// skipped. Errors from t do not stop the walk; they are joined and returned.
func Apply(m *resolution.SettingsMap, t Target) (Result, error) {
	var (
		res  Result
		errs []error
	)
	for _, s := range m.Entries() {
		if !s.IsResolved() {
			res.Skipped++
			continue
		}
		if err := t.Set(s.Parameter, s.Value); err != nil {
			errs = append(errs, fmt.Errorf("set %s: %w", s.Parameter, err))
			continue
		}
		res.Applied++
	}
	return res, errors.Join(errs...)
}

// MapTarget collects values as strings, keyed by parameter id.
type MapTarget map[string]string

func (m MapTarget) Set(id capability.ParameterID, v capability.Value) error {
	m[string(id)] = v.String()
	return nil
}
