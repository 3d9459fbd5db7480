// Package capture defines the camera capture parameter set: identifiers, global options,
// the ordered step table and the named hardware quirks.
package capture

import "github.com/bayleafwalker/capture-core/internal/capability"

// Resolved parameters, in pipeline order.
const (
	ControlMode                   capability.ParameterID = "control-mode"
	CaptureIntent                 capability.ParameterID = "capture-intent"
	AWBMode                       capability.ParameterID = "awb-mode"
	AWBLock                       capability.ParameterID = "awb-lock"
	AWBRegions                    capability.ParameterID = "awb-regions"
	AFMode                        capability.ParameterID = "af-mode"
	AFRegions                     capability.ParameterID = "af-regions"
	AFTrigger                     capability.ParameterID = "af-trigger"
	AEMode                        capability.ParameterID = "ae-mode"
	AELock                        capability.ParameterID = "ae-lock"
	AERegions                     capability.ParameterID = "ae-regions"
	AEPrecaptureTrigger           capability.ParameterID = "ae-precapture-trigger"
	AEAntibandingMode             capability.ParameterID = "ae-antibanding-mode"
	AEExposureCompensation        capability.ParameterID = "ae-exposure-compensation"
	AETargetFPSRange              capability.ParameterID = "ae-target-fps-range"
	EffectMode                    capability.ParameterID = "effect-mode"
	EnableZSL                     capability.ParameterID = "enable-zsl"
	PostRawSensitivityBoost       capability.ParameterID = "post-raw-sensitivity-boost"
	SceneMode                     capability.ParameterID = "scene-mode"
	VideoStabilizationMode        capability.ParameterID = "video-stabilization-mode"
	BlackLevelLock                capability.ParameterID = "black-level-lock"
	ColorCorrectionAberrationMode capability.ParameterID = "color-correction-aberration-mode"
	ColorCorrectionMode           capability.ParameterID = "color-correction-mode"
	ColorCorrectionTransform      capability.ParameterID = "color-correction-transform"
	ColorCorrectionGains          capability.ParameterID = "color-correction-gains"
	DistortionCorrectionMode      capability.ParameterID = "distortion-correction-mode"
	EdgeMode                      capability.ParameterID = "edge-mode"
	FlashMode                     capability.ParameterID = "flash-mode"
	HotPixelMode                  capability.ParameterID = "hot-pixel-mode"
	JPEGGPSLocation               capability.ParameterID = "jpeg-gps-location"
	JPEGOrientation               capability.ParameterID = "jpeg-orientation"
	JPEGQuality                   capability.ParameterID = "jpeg-quality"
	JPEGThumbnailQuality          capability.ParameterID = "jpeg-thumbnail-quality"
	JPEGThumbnailSize             capability.ParameterID = "jpeg-thumbnail-size"
	LensAperture                  capability.ParameterID = "lens-aperture"
	LensFilterDensity             capability.ParameterID = "lens-filter-density"
	LensFocalLength               capability.ParameterID = "lens-focal-length"
	LensFocusDistance             capability.ParameterID = "lens-focus-distance"
	LensOpticalStabilizationMode  capability.ParameterID = "lens-optical-stabilization-mode"
	NoiseReductionMode            capability.ParameterID = "noise-reduction-mode"
	ReprocessEffectiveExposure    capability.ParameterID = "reprocess-effective-exposure-factor"
	ScalerCropRegion              capability.ParameterID = "scaler-crop-region"
	SensorFrameDuration           capability.ParameterID = "sensor-frame-duration"
	SensorExposureTime            capability.ParameterID = "sensor-exposure-time"
	SensorSensitivity             capability.ParameterID = "sensor-sensitivity"
	SensorTestPatternMode         capability.ParameterID = "sensor-test-pattern-mode"
	SensorTestPatternData         capability.ParameterID = "sensor-test-pattern-data"
	ShadingMode                   capability.ParameterID = "shading-mode"
	StatisticsFaceDetectMode      capability.ParameterID = "statistics-face-detect-mode"
	StatisticsHotPixelMapMode     capability.ParameterID = "statistics-hot-pixel-map-mode"
	StatisticsLensShadingMapMode  capability.ParameterID = "statistics-lens-shading-map-mode"
	StatisticsOISDataMode         capability.ParameterID = "statistics-ois-data-mode"
	TonemapMode                   capability.ParameterID = "tonemap-mode"
	TonemapCurve                  capability.ParameterID = "tonemap-curve"
	TonemapGamma                  capability.ParameterID = "tonemap-gamma"
	TonemapPresetCurve            capability.ParameterID = "tonemap-preset-curve"
)

// Characteristics the steps read but never resolve.
const (
	// AvailableCapabilities is a DiscreteSet of capability names such as MANUAL_SENSOR.
	AvailableCapabilities capability.ParameterID = "available-capabilities"
	// HardwareLevel is a single-valued DiscreteSet: LEGACY, LIMITED, FULL, LEVEL_3 or EXTERNAL.
	HardwareLevel capability.ParameterID = "hardware-level"
)

// Capability names reported under AvailableCapabilities.
const (
	CapBackwardCompatible   = "BACKWARD_COMPATIBLE"
	CapManualSensor         = "MANUAL_SENSOR"
	CapManualPostProcessing = "MANUAL_POST_PROCESSING"
	CapRaw                  = "RAW"
	CapYUVReprocessing      = "YUV_REPROCESSING"
)

// Hardware levels reported under HardwareLevel.
const (
	LevelLegacy   = "LEGACY"
	LevelLimited  = "LIMITED"
	LevelFull     = "FULL"
	Level3        = "LEVEL_3"
	LevelExternal = "EXTERNAL"
)

// Enum values shared by several steps.
var (
	off           = capability.Enum("OFF")
	auto          = capability.Enum("AUTO")
	aeOn          = capability.Enum("ON")
	fast          = capability.Enum("FAST")
	minimal       = capability.Enum("MINIMAL")
	disabledScene = capability.Enum("DISABLED")
	intentManual  = capability.Enum("MANUAL")
	intentPreview = capability.Enum("PREVIEW")
	antibanding60 = capability.Enum("60HZ")
	transformMat  = capability.Enum("TRANSFORM_MATRIX")
	contrastCurve = capability.Enum("CONTRAST_CURVE")
	gammaValue    = capability.Enum("GAMMA_VALUE")
	presetCurve   = capability.Enum("PRESET_CURVE")
	presetRec709  = capability.Enum("REC709")
	opticalStabOn = capability.Enum("ON")
	lockedTrue    = capability.Bool(true)
	unlockedFalse = capability.Bool(false)
)
