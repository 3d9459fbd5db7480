package capture

import (
	"fmt"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/resolution"
	"github.com/bayleafwalker/capture-core/internal/semver"
)

var (
	since23 = semver.MustParseConstraint(">= 23")
	since24 = semver.MustParseConstraint(">= 24")
	since26 = semver.MustParseConstraint(">= 26")
	since28 = semver.MustParseConstraint(">= 28")
	legacy  = semver.MustParseConstraint("< 23")
)

// onLegacyPlatform is true only when the device reports a level below 23.
func onLegacyPlatform(c *capability.Catalog) bool {
	l := c.Platform()
	return l.Known() && legacy.Allows(l)
}

func requires(on capability.ParameterID, values ...capability.Value) resolution.Dependency {
	return resolution.Dependency{On: on, Requires: values}
}

// manualOnly disables a manual sensor control unless auto-exposure resolved to something other than ON.
func manualOnly() resolution.Dependency {
	return resolution.Dependency{On: AEMode, Blocks: []capability.Value{aeOn}}
}

// followsControl is the dependency of a 3A mode on control-mode.
func followsControl() []resolution.Dependency {
	return []resolution.Dependency{{On: ControlMode}}
}

// underControl resolves a 3A mode to OFF while control-mode is OFF, and otherwise defers to automatic.
func underControl(automatic resolution.Selector) resolution.Selector {
	return func(in resolution.Input) resolution.Setting {
		control, _ := in.Prior.Get(ControlMode)
		if !control.Value.Equal(off) {
			return automatic(in)
		}
		if !in.Descriptor.Contains(off) {
			return resolution.Anomalous(in.ID, "control-mode is OFF but OFF is not offered")
		}
		return resolution.Resolved(in.ID, off, "manual control")
	}
}

func prefer(fallback capability.Value, candidates ...capability.Value) resolution.Selector {
	return resolution.Prefer(resolution.Priority(fallback, candidates...))
}

// Steps returns the ordered step table for opts.
func Steps(opts Options) []resolution.Step {
	aberration := prefer(fast, off)
	tonemap := prefer(fast, contrastCurve)
	if opts.ForceWorstConfiguration {
		aberration = prefer(off, fast)
		tonemap = prefer(fast, fast)
	}

	return []resolution.Step{
		// Control.
		resolution.Rule{ID: ControlMode, Select: selectControlMode(opts)},
		resolution.Rule{ID: CaptureIntent, Select: selectCaptureIntent},
		resolution.Rule{ID: AWBMode, Needs: followsControl(), Select: underControl(prefer(auto, off))},
		resolution.Rule{ID: AWBLock, Needs: []resolution.Dependency{requires(AWBMode, auto)}, Select: selectLock},
		resolution.Rule{ID: AWBRegions, Select: resolution.Informational("metering regions are left to the device")},
		resolution.Rule{ID: AFMode, Needs: followsControl(), Select: underControl(prefer(auto, off))},
		resolution.Rule{ID: AFRegions, Select: resolution.Informational("metering regions are left to the device")},
		resolution.Rule{ID: AFTrigger, Select: resolution.Informational("trigger is a per-frame action")},
		resolution.Rule{ID: AEMode, Needs: followsControl(), Select: underControl(prefer(aeOn, off))},
		resolution.Rule{ID: AELock, Needs: []resolution.Dependency{requires(AEMode, aeOn)}, Select: selectLock},
		resolution.Rule{ID: AERegions, Select: resolution.Informational("metering regions are left to the device")},
		resolution.Rule{ID: AEPrecaptureTrigger, Select: resolution.Informational("trigger is a per-frame action")},
		resolution.Rule{ID: AEAntibandingMode, Needs: []resolution.Dependency{requires(AEMode, aeOn)}, Select: prefer(antibanding60, off, auto)},
		resolution.Rule{ID: AEExposureCompensation, Needs: []resolution.Dependency{requires(AEMode, aeOn)}, Select: selectExposureCompensation},
		resolution.Rule{ID: AETargetFPSRange, Needs: []resolution.Dependency{requires(AEMode, aeOn)}, Select: resolution.Fastest(opts.fpsWithinLimits)},
		resolution.Rule{ID: EffectMode, Select: resolution.Constant(off, "effects off")},
		resolution.Rule{ID: EnableZSL, Since: since26, Select: resolution.Constant(unlockedFalse, "zero shutter lag disabled")},
		resolution.Rule{ID: PostRawSensitivityBoost, Since: since24, Select: resolution.Target(100, resolution.Maximum)},
		resolution.Rule{ID: SceneMode, Select: resolution.Constant(disabledScene, "scene modes disabled")},
		resolution.Rule{ID: VideoStabilizationMode, Select: resolution.Constant(off, "video stabilization off")},

		// Post-processing.
		resolution.Rule{ID: BlackLevelLock, Select: resolution.Constant(lockedTrue, "locked; device may not confirm")},
		resolution.Rule{ID: ColorCorrectionAberrationMode, Select: aberration},
		resolution.Rule{
			ID:     ColorCorrectionMode,
			Needs:  []resolution.Dependency{{On: AWBMode, Blocks: []capability.Value{auto}}},
			Select: prefer(fast, transformMat),
		},
		resolution.Rule{
			ID:     ColorCorrectionTransform,
			Needs:  []resolution.Dependency{requires(ColorCorrectionMode, transformMat)},
			Select: resolution.Constant(capability.Vector(1, 0, 0, 0, 1, 0, 0, 0, 1), "identity transform"),
		},
		resolution.Rule{
			ID:     ColorCorrectionGains,
			Needs:  []resolution.Dependency{requires(ColorCorrectionMode, transformMat)},
			Select: resolution.Constant(capability.Vector(1, 1, 1, 1), "unity gains"),
		},
		resolution.Rule{ID: DistortionCorrectionMode, Since: since28, Select: prefer(fast, off)},
		resolution.Rule{ID: EdgeMode, Select: prefer(fast, off)},
		resolution.Rule{ID: FlashMode, Select: selectFlash},
		resolution.Rule{ID: HotPixelMode, Select: prefer(fast, off)},
		resolution.Rule{ID: JPEGGPSLocation, Select: resolution.Informational("jpeg output only")},
		resolution.Rule{ID: JPEGOrientation, Select: resolution.Informational("jpeg output only")},
		resolution.Rule{ID: JPEGQuality, Select: resolution.Informational("jpeg output only")},
		resolution.Rule{ID: JPEGThumbnailQuality, Select: resolution.Informational("jpeg output only")},
		resolution.Rule{ID: JPEGThumbnailSize, Select: resolution.Informational("jpeg output only")},

		// Lens.
		resolution.Rule{ID: LensAperture, Select: resolution.Extreme(resolution.Minimum)},
		resolution.Rule{ID: LensFilterDensity, Select: resolution.Extreme(resolution.Maximum)},
		resolution.Rule{ID: LensFocalLength, Select: resolution.Extreme(resolution.Maximum)},
		resolution.Rule{ID: LensFocusDistance, Select: resolution.Constant(capability.Int(0), "focused at infinity")},
		resolution.Rule{ID: LensOpticalStabilizationMode, Select: prefer(opticalStabOn, off)},

		resolution.Rule{
			ID: NoiseReductionMode,
			Select: resolution.Prefer(resolution.PriorityRule{
				Candidates: []resolution.Candidate{{Value: off}, {Value: minimal, Since: since23}},
				Fallback:   fast,
			}),
		},
		resolution.Rule{ID: ReprocessEffectiveExposure, Since: since23, Select: selectReprocessFactor},
		resolution.Rule{ID: ScalerCropRegion, Select: resolution.Informational("full sensor area")},

		// Sensor.
		resolution.Rule{ID: SensorFrameDuration, Needs: []resolution.Dependency{manualOnly()}, Select: resolution.Extreme(resolution.Minimum)},
		resolution.Rule{
			ID:     SensorExposureTime,
			Needs:  []resolution.Dependency{manualOnly(), {On: SensorFrameDuration}},
			Select: selectExposureTime,
		},
		resolution.Rule{ID: SensorSensitivity, Needs: []resolution.Dependency{manualOnly()}, Select: resolution.Extreme(resolution.Maximum)},
		resolution.Rule{ID: SensorTestPatternMode, Select: resolution.Constant(off, "test pattern off")},
		resolution.Rule{ID: SensorTestPatternData, Select: resolution.Informational("only used with a test pattern")},
		resolution.Rule{ID: ShadingMode, Select: prefer(fast, off)},

		// Statistics.
		resolution.Rule{ID: StatisticsFaceDetectMode, Select: resolution.Constant(off, "face detection off")},
		resolution.Rule{ID: StatisticsHotPixelMapMode, Select: resolution.Constant(unlockedFalse, "hot pixel map off")},
		resolution.Rule{ID: StatisticsLensShadingMapMode, Select: resolution.Constant(off, "lens shading map off")},
		resolution.Rule{ID: StatisticsOISDataMode, Since: since28, Select: resolution.Constant(off, "stabilization data off")},

		// Tonemap.
		resolution.Rule{ID: TonemapMode, Select: tonemap},
		resolution.Rule{
			ID:     TonemapCurve,
			Needs:  []resolution.Dependency{requires(TonemapMode, contrastCurve)},
			Select: resolution.Constant(capability.Vector(0, 0, 1, 1), "linear curve"),
		},
		resolution.Rule{
			ID:     TonemapGamma,
			Since:  since23,
			Needs:  []resolution.Dependency{requires(TonemapMode, gammaValue)},
			Select: resolution.Constant(capability.Float(5), "gamma 5.0"),
		},
		resolution.Rule{
			ID:     TonemapPresetCurve,
			Since:  since23,
			Needs:  []resolution.Dependency{requires(TonemapMode, presetCurve)},
			Select: resolution.Constant(presetRec709, "Rec. 709 preset"),
		},
	}
}

// Declared lists every parameter the step table resolves, in order.
func Declared() []capability.ParameterID {
	steps := Steps(DefaultOptions())
	out := make([]capability.ParameterID, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.ParameterID())
	}
	return out
}

// NewPipeline builds the camera pipeline for opts, including its quirk stage.
func NewPipeline(opts Options) (*resolution.Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	qs, err := Quirks(opts.Quirks)
	if err != nil {
		return nil, err
	}
	return resolution.NewPipeline(Steps(opts), qs...)
}

func selectControlMode(opts Options) resolution.Selector {
	preferred := prefer(auto, off)
	return func(in resolution.Input) resolution.Setting {
		if opts.ForceControlModeAuto && in.Descriptor.Contains(auto) {
			return resolution.Resolved(in.ID, auto, "automatic control forced")
		}
		if onLegacyPlatform(in.Catalog) {
			level := in.Catalog.Lookup(HardwareLevel)
			if level.Kind != capability.DiscreteSet || len(level.Values) == 0 {
				return resolution.Anomalous(in.ID, "hardware level missing on a legacy platform")
			}
			switch name := level.Values[0].Name(); name {
			case LevelLegacy, LevelExternal:
				return resolution.ResolvedFallback(in.ID, auto, fmt.Sprintf("%s hardware only supports automatic control", name))
			default:
				return resolution.Resolved(in.ID, off, fmt.Sprintf("%s hardware supports manual control", name))
			}
		}
		return preferred(in)
	}
}

func selectCaptureIntent(in resolution.Input) resolution.Setting {
	if in.Catalog.Lookup(AvailableCapabilities).Contains(capability.Enum(CapManualSensor)) {
		return prefer(intentPreview, intentManual, intentPreview)(in)
	}
	return prefer(intentPreview, intentPreview)(in)
}

// selectLock prefers a locked 3A routine. A Flag descriptor reports whether locking is
// possible at all.
func selectLock(in resolution.Input) resolution.Setting {
	if onLegacyPlatform(in.Catalog) {
		return resolution.Resolved(in.ID, lockedTrue, "lock requested; platform cannot confirm availability")
	}
	if in.Descriptor.Kind == capability.Flag {
		if in.Descriptor.Present {
			return resolution.Resolved(in.ID, lockedTrue, "preferred value")
		}
		return resolution.ResolvedFallback(in.ID, unlockedFalse, "lock not available; left unlocked")
	}
	return prefer(unlockedFalse, lockedTrue)(in)
}

func selectExposureCompensation(in resolution.Input) resolution.Setting {
	if in.Descriptor.Kind == capability.Range && in.Descriptor.Bounds == (capability.Interval{}) {
		return resolution.NotSupported(in.ID, "compensation range is [0, 0]")
	}
	return resolution.Extreme(resolution.Maximum)(in)
}

func selectFlash(in resolution.Input) resolution.Setting {
	if in.Descriptor.Kind == capability.Flag {
		if !in.Descriptor.Present {
			return resolution.NotSupported(in.ID, "no flash unit")
		}
		return resolution.Resolved(in.ID, off, "flash unit present; kept off")
	}
	return prefer(off, off)(in)
}

func selectReprocessFactor(in resolution.Input) resolution.Setting {
	if !in.Catalog.Lookup(AvailableCapabilities).Contains(capability.Enum(CapYUVReprocessing)) {
		return resolution.NotApplicable(in.ID, "device does not reprocess YUV")
	}
	return resolution.Resolved(in.ID, capability.Float(1), "unity exposure factor")
}

// selectExposureTime matches the exposure to the chosen frame duration, clamped to the
// exposure range.
func selectExposureTime(in resolution.Input) resolution.Setting {
	frame, _ := in.Prior.Get(SensorFrameDuration)
	duration, ok := frame.Value.Number()
	if !ok {
		return resolution.Anomalous(in.ID, fmt.Sprintf("frame duration %s is not numeric", frame.Value))
	}
	if in.Descriptor.Kind != capability.Range {
		return resolution.Anomalous(in.ID, fmt.Sprintf("expected a numeric range, catalog reports %s", in.Descriptor.Kind))
	}
	b := in.Descriptor.Bounds
	if b.Lower > b.Upper {
		return resolution.Anomalous(in.ID, fmt.Sprintf("range lower bound %v exceeds upper bound %v", b.Lower, b.Upper))
	}
	switch {
	case duration > b.Upper:
		return resolution.ResolvedFallback(in.ID, resolution.Number(b.Upper), "frame duration exceeds exposure range; clamped to maximum")
	case duration < b.Lower:
		return resolution.ResolvedFallback(in.ID, resolution.Number(b.Lower), "frame duration below exposure range; clamped to minimum")
	default:
		return resolution.Resolved(in.ID, resolution.Number(duration), "matches frame duration")
	}
}
