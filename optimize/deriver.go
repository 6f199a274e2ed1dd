package optimize

import (
	"math"

	"github.com/camden-git/printprep/analyze"
	"github.com/camden-git/printprep/pixel"
)

const (
	targetContrast   = 0.65
	targetSaturation = 1.0
	targetSharpness  = 0.65

	// minimum highlight recovery whenever PreserveHighlights is set
	highlightRecoveryFloor = 0.05

	// deviation-from-neutral factor applied by AvoidFilterLook to the
	// stylistic adjustments
	gentlenessFactor = 0.85
)

// ISO bands for noise reduction. Floors and ceilings are nondecreasing with
// ISO, which is what makes the derived value monotonic in ISO at fixed
// measured noise.
var isoNoiseBands = []struct {
	maxISO int // exclusive; 0 means open-ended
	lo, hi float64
}{
	{400, 0.0, 0.2},
	{800, 0.2, 0.5},
	{1600, 0.5, 0.7},
	{0, 0.7, 0.9},
}

// Deriver turns a Metrics record into OptimizationParams under a fixed set
// of style preferences. It is a pure function of its inputs: the same
// metrics always yield bit-identical params.
type Deriver struct {
	Prefs StylePreferences
}

func NewDeriver(prefs StylePreferences) *Deriver {
	return &Deriver{Prefs: prefs}
}

// Derive computes all eight adjustment values. There are no error cases;
// every metric arrives pre-clamped by the analyzer.
func (d *Deriver) Derive(m analyze.Metrics) Params {
	noiseReduction := d.noiseReduction(m)

	p := Params{
		ExposureAdjustment:   d.exposureAdjustment(m),
		ContrastAdjustment:   d.contrastAdjustment(m),
		ShadowLift:           d.shadowLift(m),
		HighlightRecovery:    d.highlightRecovery(m),
		SaturationAdjustment: d.saturationAdjustment(m),
		SharpnessAmount:      d.sharpnessAmount(m, noiseReduction),
		NoiseReduction:       noiseReduction,
		SkinToneProtection:   m.SkinToneDetected && d.Prefs.StableSkinTones,
	}

	if d.Prefs.AvoidFilterLook {
		// gentleness ceiling on the stylistic adjustments; the protective
		// tone-rescue values (shadow lift, highlight recovery) and the
		// ISO-banded noise reduction keep their derived strengths
		p.ExposureAdjustment *= gentlenessFactor
		p.ContrastAdjustment = 1.0 + (p.ContrastAdjustment-1.0)*gentlenessFactor
		p.SaturationAdjustment = 1.0 + (p.SaturationAdjustment-1.0)*gentlenessFactor
		p.SharpnessAmount *= gentlenessFactor
	}
	return p
}

// exposureAdjustment counteracts the measured deviation toward 0 EV,
// correcting only part of the way so output stays believable.
func (d *Deriver) exposureAdjustment(m analyze.Metrics) float64 {
	factor := 0.8
	if d.Prefs.NaturalAppearance {
		factor = 0.5
	}
	return pixel.Clamp(-m.ExposureLevel*factor, -2.0, 2.0)
}

func (d *Deriver) contrastAdjustment(m analyze.Metrics) float64 {
	raiseGain, lowerGain := 0.5, 0.4
	if d.Prefs.NaturalAppearance {
		raiseGain, lowerGain = 0.3, 0.2
	}
	var adjustment float64
	if m.ContrastLevel < targetContrast {
		adjustment = 1.0 + (targetContrast-m.ContrastLevel)*raiseGain
	} else {
		adjustment = 1.0 - (m.ContrastLevel-targetContrast)*lowerGain
	}
	return pixel.Clamp(adjustment, 0.5, 1.5)
}

// highlightRecovery escalates sharply once clipping passes 10% of the frame
// and never drops below the floor while PreserveHighlights is set.
func (d *Deriver) highlightRecovery(m analyze.Metrics) float64 {
	clip := m.HighlightClippingPercent

	if !d.Prefs.PreserveHighlights {
		if clip > 10.0 {
			return 0.3
		}
		return 0.0
	}

	var recovery float64
	switch {
	case clip > 10.0:
		recovery = 0.8 + (clip-10.0)/100.0
	case clip > 5.0:
		recovery = 0.5 + (clip-5.0)/20.0
	case clip > 1.0:
		recovery = 0.2 + (clip-1.0)/20.0
	}

	// backlit scenes get proactive protection: shadow lift is about to push
	// bright backgrounds further up
	if m.IsBacklit && m.ExposureLevel > -0.2 {
		recovery = math.Max(recovery, 0.12)
	}

	return pixel.Clamp(math.Max(recovery, highlightRecoveryFloor), 0.0, 1.0)
}

// shadowLift scales with measured shadow clipping, jumps to the boosted
// 0.5-0.8 band for backlit scenes, and is halved when flash already
// brightened the foreground.
func (d *Deriver) shadowLift(m analyze.Metrics) float64 {
	var base float64
	switch {
	case m.ShadowClippingPercent > 12.0:
		base = 0.4
	case m.ShadowClippingPercent > 6.0:
		base = 0.2
	case m.ShadowClippingPercent > 2.0:
		base = 0.1
	}
	if d.Prefs.NaturalAppearance {
		base *= 0.85
	}

	if m.IsBacklit {
		backlit := 0.5
		if m.ExposureLevel < -0.35 {
			backlit += 0.1
		}
		if m.ShadowClippingPercent > 10.0 {
			backlit += 0.15
		}
		if m.HighlightClippingPercent > 1.0 {
			backlit -= 0.05
		}
		base = math.Max(base, pixel.Clamp(backlit, 0.5, 0.8))
	}

	if m.Capture.FlashWasFired() {
		base *= 0.5
	}
	return pixel.Clamp01(base)
}

// saturationAdjustment trends toward 1.0, most strongly when detected skin
// tones must stay stable.
func (d *Deriver) saturationAdjustment(m analyze.Metrics) float64 {
	var gain float64
	switch {
	case m.SkinToneDetected && d.Prefs.StableSkinTones:
		gain = 0.1
	case d.Prefs.AvoidFilterLook:
		gain = 0.2
	default:
		gain = 0.3
	}
	adjustment := 1.0 + (targetSaturation-m.SaturationLevel)*gain
	return pixel.Clamp(adjustment, 0.5, 1.5)
}

// sharpnessAmount is inversely related to measured sharpness and capped
// when heavy noise reduction is about to be applied.
func (d *Deriver) sharpnessAmount(m analyze.Metrics, noiseReduction float64) float64 {
	var amount float64
	if m.SharpnessScore < targetSharpness {
		amount = (targetSharpness - m.SharpnessScore) * 2.0
	}
	if noiseReduction > 0.5 {
		amount *= 0.5
	}
	if d.Prefs.NaturalAppearance {
		amount *= 0.7
	}
	return pixel.Clamp(amount, 0.0, 2.0)
}

// noiseReduction is monotonic in measured noise; when ISO is known the
// result is confined to the band for that ISO, with the low-light boost
// clamped to the band ceiling so containment holds.
func (d *Deriver) noiseReduction(m analyze.Metrics) float64 {
	if m.Capture != nil && m.Capture.ISO != nil {
		iso := *m.Capture.ISO
		lo, hi := isoBand(iso)
		reduction := lo + m.NoiseLevel*(hi-lo)
		if m.IsLowLight {
			reduction = math.Min(reduction*1.2, hi)
		}
		return pixel.Clamp01(reduction)
	}

	reduction := m.NoiseLevel
	if m.IsLowLight {
		reduction = math.Min(reduction*1.2, 1.0)
	}
	return pixel.Clamp01(reduction)
}

func isoBand(iso int) (lo, hi float64) {
	for _, band := range isoNoiseBands {
		if band.maxISO == 0 || iso < band.maxISO {
			return band.lo, band.hi
		}
	}
	last := isoNoiseBands[len(isoNoiseBands)-1]
	return last.lo, last.hi
}
