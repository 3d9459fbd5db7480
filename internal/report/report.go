// Package report renders settings maps as ordered text lines.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/resolution"
)

// NotAvailable is the rendering of an entry that could not be formatted.
const NotAvailable = "not available"

const unsetHeader = "Keys unset:"

// Reporter renders settings one line per parameter.
type Reporter struct {
	// Width pads parameter names to align the status column. Zero disables padding.
	Width int
}

func New() *Reporter {
	return &Reporter{Width: 40}
}

// Lines renders every entry of m in order. A line that fails to render becomes
// "<parameter>: not available"; the rest of the report is unaffected.
func (r *Reporter) Lines(m *resolution.SettingsMap) []string {
	entries := m.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, r.line(e))
	}
	return out
}

// Unset renders the declared parameters missing from m under a "Keys unset:" header.
// It returns nil when nothing is missing.
func (r *Reporter) Unset(m *resolution.SettingsMap, declared []capability.ParameterID) []string {
	missing := m.UnresolvedKeys(declared)
	if len(missing) == 0 {
		return nil
	}
	out := []string{unsetHeader}
	for _, id := range missing {
		out = append(out, "  "+string(id))
	}
	return out
}

// Write renders m, followed by the unset section, to w.
func (r *Reporter) Write(w io.Writer, m *resolution.SettingsMap, declared []capability.ParameterID) error {
	lines := append(r.Lines(m), r.Unset(m, declared)...)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

func (r *Reporter) line(s resolution.Setting) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = r.name(s.Parameter) + NotAvailable
		}
	}()
	return r.name(s.Parameter) + Format(s)
}

func (r *Reporter) name(id capability.ParameterID) string {
	label := string(id) + ":"
	if pad := r.Width - len(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	} else {
		label += " "
	}
	return label
}

// Format renders one setting without its parameter name, e.g.
// "RESOLVED 30 (preferred value)" or "DISABLED (awb-mode is OFF)".
func Format(s resolution.Setting) string {
	var b strings.Builder
	b.WriteString(s.Status.String())
	if s.Status == resolution.StatusResolved {
		v := s.Value.String()
		if v == "" {
			v = NotAvailable
		}
		b.WriteString(" ")
		b.WriteString(v)
	}
	if s.Rationale != "" {
		b.WriteString(" (")
		b.WriteString(s.Rationale)
		b.WriteString(")")
	}
	return b.String()
}
