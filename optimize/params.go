package optimize

// Params is the immutable optimization-parameter record derived once per
// image. Each field stays within its declared band; the transform pipeline
// consumes them in its fixed step order.
type Params struct {
	// ExposureAdjustment in EV, [-2.0, 2.0].
	ExposureAdjustment float64 `json:"exposure_adjustment"`
	// ContrastAdjustment multiplier, [0.5, 1.5]; 1.0 is no change.
	ContrastAdjustment float64 `json:"contrast_adjustment"`
	// ShadowLift amount, [0.0, 1.0].
	ShadowLift float64 `json:"shadow_lift"`
	// HighlightRecovery amount, [0.0, 1.0].
	HighlightRecovery float64 `json:"highlight_recovery"`
	// SaturationAdjustment multiplier, [0.5, 1.5]; 1.0 is no change.
	SaturationAdjustment float64 `json:"saturation_adjustment"`
	// SharpnessAmount, [0.0, 2.0].
	SharpnessAmount float64 `json:"sharpness_amount"`
	// NoiseReduction amount, [0.0, 1.0].
	NoiseReduction float64 `json:"noise_reduction"`
	// SkinToneProtection excludes the skin hue band from saturation
	// scaling; the pipeline is contractually required to honor it.
	SkinToneProtection bool `json:"skin_tone_protection"`
}
