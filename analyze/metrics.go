package analyze

import "github.com/camden-git/printprep/metadata"

// HueRange is a bounded interval of hue angles, in degrees, observed for
// skin-like pixels in a given image.
type HueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Metrics is the immutable analysis record produced once per image. All
// fields are clamped to their declared ranges; degenerate inputs resolve to
// neutral values instead of errors, so the record is always complete.
type Metrics struct {
	// ExposureLevel is the EV deviation from ideal midpoint exposure,
	// in [-2.0, 2.0].
	ExposureLevel float64 `json:"exposure_level"`
	// ContrastLevel is the normalized luminance spread, in [0.0, 1.0].
	ContrastLevel float64 `json:"contrast_level"`
	// ShadowClippingPercent and HighlightClippingPercent are the fraction
	// of pixels at the extreme ends of the luminance range, in [0, 100].
	ShadowClippingPercent    float64 `json:"shadow_clipping_percent"`
	HighlightClippingPercent float64 `json:"highlight_clipping_percent"`
	// SaturationLevel is the mean HSV saturation scaled to [0.0, 2.0],
	// where 1.0 is normal.
	SaturationLevel float64 `json:"saturation_level"`
	// SharpnessScore is the normalized edge-energy estimate, in [0.0, 1.0].
	SharpnessScore float64 `json:"sharpness_score"`
	// NoiseLevel is the ISO-adjusted high-frequency energy, in [0.0, 1.0].
	NoiseLevel float64 `json:"noise_level"`

	SkinToneDetected bool      `json:"skin_tone_detected"`
	SkinToneHueRange *HueRange `json:"skin_tone_hue_range,omitempty"`

	IsBacklit  bool `json:"is_backlit"`
	IsLowLight bool `json:"is_low_light"`

	// Capture carries the metadata the image was analyzed with, so the
	// deriver can consult ISO and flash without a second lookup. Nil when
	// no metadata was supplied.
	Capture *metadata.CaptureMetadata `json:"capture_metadata,omitempty"`
}
