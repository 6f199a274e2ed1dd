package models

import "gorm.io/gorm"

// Result represents one processed image's diagnostics record using GORM.
// It corresponds to the 'results' table and flattens the Metrics and
// OptimizationParams records for querying.
type Result struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	CreatedAt int64 `gorm:"autoCreateTime;index" json:"created_at"`

	InputPath   string  `gorm:"not null;index" json:"input_path"`
	OutputPath  *string `gorm:"" json:"output_path,omitempty"`  // Nullable
	PreviewPath *string `gorm:"" json:"preview_path,omitempty"` // Nullable

	Status           string  `gorm:"not null" json:"status"` // success, failed, skipped
	ErrorMessage     *string `gorm:"" json:"error_message,omitempty"`
	ProcessingMillis int64   `gorm:"" json:"processing_ms"`

	// measured metrics
	ExposureLevel            *float64 `gorm:"" json:"exposure_level,omitempty"`
	ContrastLevel            *float64 `gorm:"" json:"contrast_level,omitempty"`
	ShadowClippingPercent    *float64 `gorm:"" json:"shadow_clipping_percent,omitempty"`
	HighlightClippingPercent *float64 `gorm:"" json:"highlight_clipping_percent,omitempty"`
	SaturationLevel          *float64 `gorm:"" json:"saturation_level,omitempty"`
	SharpnessScore           *float64 `gorm:"" json:"sharpness_score,omitempty"`
	NoiseLevel               *float64 `gorm:"" json:"noise_level,omitempty"`
	SkinToneDetected         *bool    `gorm:"" json:"skin_tone_detected,omitempty"`
	SkinToneHueMin           *float64 `gorm:"" json:"skin_tone_hue_min,omitempty"`
	SkinToneHueMax           *float64 `gorm:"" json:"skin_tone_hue_max,omitempty"`
	IsBacklit                *bool    `gorm:"index" json:"is_backlit,omitempty"`
	IsLowLight               *bool    `gorm:"index" json:"is_low_light,omitempty"`

	// capture metadata consulted during analysis
	ISO          *int     `gorm:"index" json:"iso,omitempty"`
	ExposureTime *float64 `gorm:"" json:"exposure_time,omitempty"`
	Aperture     *float64 `gorm:"" json:"aperture,omitempty"`
	FlashFired   *bool    `gorm:"" json:"flash_fired,omitempty"`

	// derived optimization parameters
	ExposureAdjustment   *float64 `gorm:"" json:"exposure_adjustment,omitempty"`
	ContrastAdjustment   *float64 `gorm:"" json:"contrast_adjustment,omitempty"`
	ShadowLift           *float64 `gorm:"" json:"shadow_lift,omitempty"`
	HighlightRecovery    *float64 `gorm:"" json:"highlight_recovery,omitempty"`
	SaturationAdjustment *float64 `gorm:"" json:"saturation_adjustment,omitempty"`
	SharpnessAmount      *float64 `gorm:"" json:"sharpness_amount,omitempty"`
	NoiseReduction       *float64 `gorm:"" json:"noise_reduction,omitempty"`
	SkinToneProtection   *bool    `gorm:"" json:"skin_tone_protection,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"` // For soft deletes
}

// TableName explicitly sets the table name for GORM.
func (Result) TableName() string {
	return "results"
}
