package metadata

// CaptureMetadata holds the capture tags that inform analysis and parameter
// derivation. Every field is independently optional: a nil pointer means the
// tag was absent or unreadable, and downstream calculations fall back to
// image-only heuristics for that signal.
type CaptureMetadata struct {
	ISO                  *int     `json:"iso,omitempty"`
	ExposureTime         *float64 `json:"exposure_time,omitempty"`         // seconds
	Aperture             *float64 `json:"aperture,omitempty"`              // F-number
	ExposureCompensation *float64 `json:"exposure_compensation,omitempty"` // EV
	FlashFired           *bool    `json:"flash_fired,omitempty"`
	SceneType            *string  `json:"scene_type,omitempty"`
	BrightnessValue      *float64 `json:"brightness_value,omitempty"`
	MeteringMode         *string  `json:"metering_mode,omitempty"`
}

// HighISO reports whether ISO is known and at least threshold.
func (m *CaptureMetadata) HighISO(threshold int) bool {
	return m != nil && m.ISO != nil && *m.ISO >= threshold
}

// SlowShutter reports whether the exposure time is known and at least
// maxSeconds (long exposures indicate low ambient light).
func (m *CaptureMetadata) SlowShutter(maxSeconds float64) bool {
	return m != nil && m.ExposureTime != nil && *m.ExposureTime >= maxSeconds
}

// FlashWasFired reports whether the flash tag is present and set.
func (m *CaptureMetadata) FlashWasFired() bool {
	return m != nil && m.FlashFired != nil && *m.FlashFired
}
