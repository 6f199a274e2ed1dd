package optimize

// StylePreferences biases parameter derivation toward conservative values.
// It is supplied once per run and shared read-only across all images in a
// batch.
type StylePreferences struct {
	// NaturalAppearance prefers subtle corrections over full ones.
	NaturalAppearance bool `json:"natural_appearance"`
	// PreserveHighlights keeps highlight recovery at or above a floor and
	// escalates it aggressively with measured clipping.
	PreserveHighlights bool `json:"preserve_highlights"`
	// StableSkinTones maps detected skin hues to protection in the
	// transform pipeline and keeps saturation changes minimal.
	StableSkinTones bool `json:"stable_skin_tones"`
	// AvoidFilterLook applies a global gentleness ceiling to the stylistic
	// adjustments.
	AvoidFilterLook bool `json:"avoid_filter_look"`
}

// DefaultStylePreferences enables every conservative bias.
func DefaultStylePreferences() StylePreferences {
	return StylePreferences{
		NaturalAppearance:  true,
		PreserveHighlights: true,
		StableSkinTones:    true,
		AvoidFilterLook:    true,
	}
}
