package capture

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/resolution"
)

// QuirkPreviewCaptureIntent replaces a MANUAL capture intent with PREVIEW. Some firmware
// drops frames or stalls when the manual intent is requested.
const QuirkPreviewCaptureIntent = "preview-capture-intent"

var quirks = map[string]resolution.Quirk{
	QuirkPreviewCaptureIntent: resolution.Override{
		QuirkName: QuirkPreviewCaptureIntent,
		Target:    CaptureIntent,
		Apply: func(cur resolution.Setting, _ *resolution.SettingsMap, _ *capability.Catalog) (resolution.Setting, bool) {
			if !cur.IsResolved() || !cur.Value.Equal(intentManual) {
				return cur, false
			}
			return resolution.Resolved(CaptureIntent, intentPreview, "manual intent is unstable on this device"), true
		},
	},
}

// Quirks looks up quirks by name, preserving order.
func Quirks(names []string) ([]resolution.Quirk, error) {
	out := make([]resolution.Quirk, 0, len(names))
	for _, n := range names {
		q, ok := quirks[n]
		if !ok {
			return nil, unknownQuirk(n)
		}
		out = append(out, q)
	}
	return out, nil
}

// KnownQuirks lists the registered quirk names.
func KnownQuirks() []string {
	out := make([]string, 0, len(quirks))
	for n := range quirks {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func unknownQuirk(name string) error {
	return fmt.Errorf("%w: %q (known: %s)", ErrUnknownQuirk, name, strings.Join(KnownQuirks(), ", "))
}
