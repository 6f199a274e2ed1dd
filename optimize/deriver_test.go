package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camden-git/printprep/analyze"
	"github.com/camden-git/printprep/metadata"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// baseMetrics is a frame already at every target: the deriver should leave
// it essentially untouched.
func baseMetrics() analyze.Metrics {
	return analyze.Metrics{
		ExposureLevel:   0.0,
		ContrastLevel:   0.65,
		SaturationLevel: 1.0,
		SharpnessScore:  0.65,
	}
}

func TestDeriveNeutralInput(t *testing.T) {
	t.Parallel()

	p := NewDeriver(DefaultStylePreferences()).Derive(baseMetrics())

	assert.InDelta(t, 0.0, p.ExposureAdjustment, 1e-9)
	assert.InDelta(t, 1.0, p.ContrastAdjustment, 1e-9)
	assert.InDelta(t, 0.0, p.ShadowLift, 1e-9)
	assert.InDelta(t, 0.05, p.HighlightRecovery, 1e-9, "preserve-highlights floor applies even with no clipping")
	assert.InDelta(t, 1.0, p.SaturationAdjustment, 1e-9)
	assert.InDelta(t, 0.0, p.SharpnessAmount, 1e-9)
	assert.InDelta(t, 0.0, p.NoiseReduction, 1e-9)
	assert.False(t, p.SkinToneProtection)
}

func TestDeriveDeterministic(t *testing.T) {
	t.Parallel()

	m := baseMetrics()
	m.ExposureLevel = -0.8
	m.ShadowClippingPercent = 9.0
	m.HighlightClippingPercent = 3.0
	m.IsBacklit = true
	m.IsLowLight = true
	m.SkinToneDetected = true
	m.Capture = &metadata.CaptureMetadata{ISO: intPtr(1250)}

	d := NewDeriver(DefaultStylePreferences())
	assert.Equal(t, d.Derive(m), d.Derive(m), "same metrics must yield identical params")
}

func TestNoiseReductionISOBands(t *testing.T) {
	t.Parallel()

	t.Run("monotonic in ISO at fixed measured noise", func(t *testing.T) {
		t.Parallel()
		d := NewDeriver(DefaultStylePreferences())
		prev := -1.0
		for _, iso := range []int{100, 200, 400, 800, 1600, 3200, 6400} {
			m := baseMetrics()
			m.NoiseLevel = 0.5
			m.Capture = &metadata.CaptureMetadata{ISO: intPtr(iso)}
			nr := d.Derive(m).NoiseReduction
			assert.GreaterOrEqual(t, nr, prev, "ISO %d", iso)
			prev = nr
		}
	})

	t.Run("high ISO low light stays inside the top band", func(t *testing.T) {
		t.Parallel()
		m := baseMetrics()
		m.NoiseLevel = 0.9
		m.IsLowLight = true
		m.Capture = &metadata.CaptureMetadata{ISO: intPtr(3200)}

		nr := NewDeriver(DefaultStylePreferences()).Derive(m).NoiseReduction
		assert.GreaterOrEqual(t, nr, 0.7)
		assert.LessOrEqual(t, nr, 0.9)
	})

	t.Run("low light boost without ISO metadata", func(t *testing.T) {
		t.Parallel()
		m := baseMetrics()
		m.NoiseLevel = 0.5

		d := NewDeriver(DefaultStylePreferences())
		calm := d.Derive(m).NoiseReduction

		m.IsLowLight = true
		boosted := d.Derive(m).NoiseReduction
		assert.Greater(t, boosted, calm)
	})
}

func TestShadowLift(t *testing.T) {
	t.Parallel()

	t.Run("flash halves the lift", func(t *testing.T) {
		t.Parallel()
		d := NewDeriver(DefaultStylePreferences())

		m := baseMetrics()
		m.ShadowClippingPercent = 15.0
		noFlash := d.Derive(m).ShadowLift

		m.Capture = &metadata.CaptureMetadata{FlashFired: boolPtr(true)}
		withFlash := d.Derive(m).ShadowLift

		assert.InDelta(t, noFlash/2.0, withFlash, 1e-9)
	})

	t.Run("backlit scenes land in the boosted band", func(t *testing.T) {
		t.Parallel()
		m := baseMetrics()
		m.IsBacklit = true

		lift := NewDeriver(DefaultStylePreferences()).Derive(m).ShadowLift
		assert.GreaterOrEqual(t, lift, 0.5)
		assert.LessOrEqual(t, lift, 0.8)
	})

	t.Run("deep backlit shadows push toward the band ceiling", func(t *testing.T) {
		t.Parallel()
		m := baseMetrics()
		m.IsBacklit = true
		m.ExposureLevel = -1.0
		m.ShadowClippingPercent = 20.0

		lift := NewDeriver(DefaultStylePreferences()).Derive(m).ShadowLift
		assert.Greater(t, lift, 0.6)
		assert.LessOrEqual(t, lift, 0.8)
	})
}

func TestHighlightRecovery(t *testing.T) {
	t.Parallel()

	t.Run("disabled preference drops the floor", func(t *testing.T) {
		t.Parallel()
		prefs := DefaultStylePreferences()
		prefs.PreserveHighlights = false
		p := NewDeriver(prefs).Derive(baseMetrics())
		assert.Zero(t, p.HighlightRecovery)
	})

	t.Run("heavy clipping escalates sharply", func(t *testing.T) {
		t.Parallel()
		m := baseMetrics()
		m.HighlightClippingPercent = 15.0
		p := NewDeriver(DefaultStylePreferences()).Derive(m)
		assert.Greater(t, p.HighlightRecovery, 0.8)
		assert.LessOrEqual(t, p.HighlightRecovery, 1.0)
	})

	t.Run("backlit scenes get proactive recovery", func(t *testing.T) {
		t.Parallel()
		m := baseMetrics()
		m.IsBacklit = true
		p := NewDeriver(DefaultStylePreferences()).Derive(m)
		assert.GreaterOrEqual(t, p.HighlightRecovery, 0.12)
	})
}

func TestStylePreferences(t *testing.T) {
	t.Parallel()

	t.Run("natural appearance corrects exposure more gently", func(t *testing.T) {
		t.Parallel()
		m := baseMetrics()
		m.ExposureLevel = 1.0

		natural := StylePreferences{NaturalAppearance: true}
		punchy := StylePreferences{}
		a := NewDeriver(natural).Derive(m).ExposureAdjustment
		b := NewDeriver(punchy).Derive(m).ExposureAdjustment

		assert.Less(t, a, 0.0)
		assert.Less(t, b, 0.0)
		assert.Greater(t, a, b, "natural appearance pulls less hard toward neutral")
	})

	t.Run("avoid filter look attenuates stylistic adjustments", func(t *testing.T) {
		t.Parallel()
		m := baseMetrics()
		m.ExposureLevel = 1.0
		m.ContrastLevel = 0.2

		plain := NewDeriver(StylePreferences{}).Derive(m)
		gentle := NewDeriver(StylePreferences{AvoidFilterLook: true}).Derive(m)

		assert.InDelta(t, plain.ExposureAdjustment*0.85, gentle.ExposureAdjustment, 1e-9)
		assert.Less(t, gentle.ContrastAdjustment-1.0, plain.ContrastAdjustment-1.0)
	})

	t.Run("skin protection requires detection and the preference", func(t *testing.T) {
		t.Parallel()
		m := baseMetrics()
		m.SkinToneDetected = true

		assert.True(t, NewDeriver(DefaultStylePreferences()).Derive(m).SkinToneProtection)

		off := DefaultStylePreferences()
		off.StableSkinTones = false
		assert.False(t, NewDeriver(off).Derive(m).SkinToneProtection)

		m.SkinToneDetected = false
		assert.False(t, NewDeriver(DefaultStylePreferences()).Derive(m).SkinToneProtection)
	})
}

// TestDeriveBands sweeps a coarse grid of metric values and asserts every
// derived parameter stays inside its documented band.
func TestDeriveBands(t *testing.T) {
	t.Parallel()

	prefSets := []StylePreferences{
		DefaultStylePreferences(),
		{},
		{NaturalAppearance: true},
		{PreserveHighlights: true, AvoidFilterLook: true},
	}
	isoValues := []*int{nil, intPtr(100), intPtr(800), intPtr(3200)}

	for _, prefs := range prefSets {
		for _, exposure := range []float64{-2.0, -0.5, 0.0, 0.5, 2.0} {
			for _, clip := range []float64{0.0, 3.0, 8.0, 15.0, 60.0} {
				for _, noise := range []float64{0.0, 0.5, 1.0} {
					for _, iso := range isoValues {
						m := baseMetrics()
						m.ExposureLevel = exposure
						m.ShadowClippingPercent = clip
						m.HighlightClippingPercent = clip
						m.NoiseLevel = noise
						m.SaturationLevel = 0.3
						m.SharpnessScore = 0.1
						m.IsBacklit = clip > 5
						m.IsLowLight = noise > 0.5
						m.SkinToneDetected = true
						if iso != nil {
							m.Capture = &metadata.CaptureMetadata{ISO: iso}
						}

						p := NewDeriver(prefs).Derive(m)

						assert.GreaterOrEqual(t, p.ExposureAdjustment, -2.0)
						assert.LessOrEqual(t, p.ExposureAdjustment, 2.0)
						assert.GreaterOrEqual(t, p.ContrastAdjustment, 0.5)
						assert.LessOrEqual(t, p.ContrastAdjustment, 1.5)
						assert.GreaterOrEqual(t, p.ShadowLift, 0.0)
						assert.LessOrEqual(t, p.ShadowLift, 1.0)
						assert.GreaterOrEqual(t, p.HighlightRecovery, 0.0)
						assert.LessOrEqual(t, p.HighlightRecovery, 1.0)
						assert.GreaterOrEqual(t, p.SaturationAdjustment, 0.5)
						assert.LessOrEqual(t, p.SaturationAdjustment, 1.5)
						assert.GreaterOrEqual(t, p.SharpnessAmount, 0.0)
						assert.LessOrEqual(t, p.SharpnessAmount, 2.0)
						assert.GreaterOrEqual(t, p.NoiseReduction, 0.0)
						assert.LessOrEqual(t, p.NoiseReduction, 1.0)
					}
				}
			}
		}
	}
}
