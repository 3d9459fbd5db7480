package capture

import (
	"errors"
	"fmt"

	"github.com/bayleafwalker/capture-core/internal/capability"
)

var (
	ErrInvalidOptions = errors.New("invalid capture options")
	ErrUnknownQuirk   = errors.New("unknown hardware quirk")
)

// Options are the global knobs that shape the step table.
type Options struct {
	// ForceControlModeAuto selects automatic control whenever the device offers it.
	ForceControlModeAuto bool
	// ForceWorstConfiguration inverts quality-sensitive priorities (aberration, tonemap).
	ForceWorstConfiguration bool
	// MaxFPS caps the upper bound of candidate fps ranges. Zero disables the cap.
	MaxFPS float64
	// MaxFPSDiff caps upper-lower of candidate fps ranges. Zero disables the cap.
	MaxFPSDiff float64
	// Quirks names the hardware quirks to apply, in order.
	Quirks []string
}

func DefaultOptions() Options {
	return Options{MaxFPS: 30, MaxFPSDiff: 2}
}

func (o Options) Validate() error {
	if o.MaxFPS < 0 {
		return fmt.Errorf("%w: maxFPS must not be negative, got %v", ErrInvalidOptions, o.MaxFPS)
	}
	if o.MaxFPSDiff < 0 {
		return fmt.Errorf("%w: maxFPSDiff must not be negative, got %v", ErrInvalidOptions, o.MaxFPSDiff)
	}
	for _, q := range o.Quirks {
		if _, ok := quirks[q]; !ok {
			return unknownQuirk(q)
		}
	}
	return nil
}

// fpsWithinLimits reports whether a candidate fps range respects MaxFPS and MaxFPSDiff.
func (o Options) fpsWithinLimits(iv capability.Interval) bool {
	if o.MaxFPS > 0 && iv.Upper > o.MaxFPS {
		return false
	}
	if o.MaxFPSDiff > 0 && iv.Upper-iv.Lower > o.MaxFPSDiff {
		return false
	}
	return true
}
