package transform

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/camden-git/printprep/analyze"
	"github.com/camden-git/printprep/optimize"
	"github.com/camden-git/printprep/pixel"
)

// adjustments closer to neutral than this are skipped outright
const negligible = 0.01

const (
	shadowMaskKnee     = 0.55 // luminance below which shadow lift engages
	shadowMaskExponent = 1.8  // steeper falloff keeps midtones untouched

	highlightKnee = 0.7 // luminance above which recovery compresses

	// auto highlight recovery guard, active after brightening steps
	autoHighlightTriggerPct = 0.7
	autoHighlightBase       = 0.10
	autoHighlightSlope      = 0.04
	autoHighlightMax        = 0.45

	// denoise parameters derived from the noise_reduction amount
	denoiseBaseRadius = 2
	denoiseMaxExtra   = 3
	denoiseHighISO    = 1600

	sharpenBlurSigma = 1.0
	// strong smoothing in the previous step scales sharpening down to
	// avoid re-amplifying the noise it just removed
	sharpenDampThreshold = 0.6
	sharpenDampFactor    = 0.6
)

// 1. Exposure: multiplicative luminance shift, 2^EV per stop.
func applyExposure(f *frame, ctx *stepContext) {
	ev := ctx.params.ExposureAdjustment
	if math.Abs(ev) <= negligible {
		return
	}
	mult := math.Pow(2.0, ev)
	for i, v := range f.pix {
		f.pix[i] = pixel.Clamp01(v * mult)
	}
}

// 2. Contrast: curve remap pivoting around middle gray.
func applyContrast(f *frame, ctx *stepContext) {
	c := ctx.params.ContrastAdjustment
	if math.Abs(c-1.0) <= negligible {
		return
	}
	for i, v := range f.pix {
		f.pix[i] = pixel.Clamp01((v-0.5)*c + 0.5)
	}
}

// 3. Shadow lift: non-linear gain concentrated in the low-luminance range.
func applyShadowLift(f *frame, ctx *stepContext) {
	amount := ctx.params.ShadowLift
	if amount <= negligible {
		return
	}
	n := f.w * f.h
	for i := 0; i < n; i++ {
		l := f.lum(i)
		mask := pixel.Clamp01((shadowMaskKnee - l) / shadowMaskKnee)
		if mask == 0 {
			continue
		}
		gain := 1.0 + amount*math.Pow(mask, shadowMaskExponent)
		p := i * pixel.Channels
		f.pix[p] = pixel.Clamp01(f.pix[p] * gain)
		f.pix[p+1] = pixel.Clamp01(f.pix[p+1] * gain)
		f.pix[p+2] = pixel.Clamp01(f.pix[p+2] * gain)
	}
}

// 4. Highlight recovery: soft-knee compression of bright values. The
// effective amount is raised by an adaptive guard when the brightening
// steps before it have pushed tones into clipping, and a final rescue pass
// guarantees no pixel clips that was unclipped at entry.
func applyHighlightRecovery(f *frame, ctx *stepContext) {
	amount := math.Max(ctx.params.HighlightRecovery, autoRecoveryAmount(f, ctx.params))
	if amount > negligible {
		strength := amount * 0.3
		n := f.w * f.h
		for i := 0; i < n; i++ {
			l := f.lum(i)
			if l <= highlightKnee {
				continue
			}
			compression := strength * (l - highlightKnee)
			p := i * pixel.Channels
			f.pix[p] = pixel.Clamp01(f.pix[p] - compression)
			f.pix[p+1] = pixel.Clamp01(f.pix[p+1] - compression)
			f.pix[p+2] = pixel.Clamp01(f.pix[p+2] - compression)
		}
	}
	guardNewClipping(f, ctx)
}

// autoRecoveryAmount estimates extra recovery needed after exposure,
// contrast, or shadow lifting may have increased clipping. It is
// intentionally conservative and only activates once float-domain clipping
// passes the trigger.
func autoRecoveryAmount(f *frame, params optimize.Params) float64 {
	brightened := params.ExposureAdjustment > 0.0 ||
		params.ContrastAdjustment > 1.0 ||
		params.ShadowLift > 0.0
	if !brightened {
		return 0.0
	}

	n := f.w * f.h
	clipped := 0
	for i := 0; i < n; i++ {
		if f.lum(i) >= highlightClipFloat {
			clipped++
		}
	}
	clipPct := float64(clipped) / float64(n) * 100.0
	if clipPct <= autoHighlightTriggerPct {
		return 0.0
	}
	auto := autoHighlightBase + (clipPct-autoHighlightTriggerPct)*autoHighlightSlope
	return pixel.Clamp(auto, 0.0, autoHighlightMax)
}

// 5. Saturation: hue-preserving scale in HSV space. Protected skin-band
// pixels are identity-mapped, not merely attenuated.
func applySaturation(f *frame, ctx *stepContext) {
	mult := ctx.params.SaturationAdjustment
	if math.Abs(mult-1.0) <= negligible {
		return
	}
	protect := ctx.params.SkinToneProtection

	n := f.w * f.h
	for i := 0; i < n; i++ {
		p := i * pixel.Channels
		h, s, v := pixel.RGBToHSV(f.pix[p], f.pix[p+1], f.pix[p+2])
		if protect && h >= analyze.SkinToneHueMin && h <= analyze.SkinToneHueMax {
			continue
		}
		r, g, b := pixel.HSVToRGB(h, pixel.Clamp01(s*mult), v)
		f.pix[p], f.pix[p+1], f.pix[p+2] = r, g, b
	}
	guardNewClipping(f, ctx)
}

// 6. Noise reduction: edge-preserving bilateral smoothing. Radius and
// intensity tolerance scale with the derived amount, widened further at
// high ISO when capture metadata is available.
func applyNoiseReduction(f *frame, ctx *stepContext) {
	amount := ctx.params.NoiseReduction
	if amount <= negligible {
		return
	}

	radius := denoiseBaseRadius + int(amount*float64(denoiseMaxExtra)+0.5)
	sigmaColor := (25.0 + amount*50.0) / 255.0
	if ctx.meta.HighISO(denoiseHighISO) {
		radius++
		sigmaColor *= 1.25
	}
	sigmaSpace := float64(radius)

	bilateralFilter(f, radius, sigmaColor, sigmaSpace)
	guardNewClipping(f, ctx)
}

// bilateralFilter smooths flat regions while leaving edges intact: spatial
// weights fall off with distance, range weights with luminance difference.
func bilateralFilter(f *frame, radius int, sigmaColor, sigmaSpace float64) {
	lum := make([]float64, f.w*f.h)
	for i := range lum {
		lum[i] = f.lum(i)
	}

	spatial := make([]float64, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*(2*radius+1)+(dx+radius)] = math.Exp(-d2 / (2.0 * sigmaSpace * sigmaSpace))
		}
	}
	twoSigmaColor2 := 2.0 * sigmaColor * sigmaColor

	out := make([]float64, len(f.pix))
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			center := y*f.w + x
			centerLum := lum[center]

			var wSum, rSum, gSum, bSum float64
			for dy := -radius; dy <= radius; dy++ {
				yy := y + dy
				if yy < 0 || yy >= f.h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					xx := x + dx
					if xx < 0 || xx >= f.w {
						continue
					}
					idx := yy*f.w + xx
					diff := lum[idx] - centerLum
					w := spatial[(dy+radius)*(2*radius+1)+(dx+radius)] *
						math.Exp(-(diff*diff)/twoSigmaColor2)
					p := idx * pixel.Channels
					wSum += w
					rSum += w * f.pix[p]
					gSum += w * f.pix[p+1]
					bSum += w * f.pix[p+2]
				}
			}

			p := center * pixel.Channels
			out[p] = rSum / wSum
			out[p+1] = gSum / wSum
			out[p+2] = bSum / wSum
		}
	}
	f.pix = out
}

// 7. Sharpening: unsharp-style enhancement built on a Gaussian blur base.
func applySharpen(f *frame, ctx *stepContext) {
	amount := ctx.params.SharpnessAmount
	if ctx.params.NoiseReduction > sharpenDampThreshold {
		amount *= sharpenDampFactor
	}
	if amount <= negligible {
		return
	}

	blurred := imaging.Blur(f.toNRGBA(), sharpenBlurSigma)

	src := 0
	for y := 0; y < f.h; y++ {
		row := y * blurred.Stride
		for x := 0; x < f.w; x++ {
			base := row + x*4
			for c := 0; c < pixel.Channels; c++ {
				blur := float64(blurred.Pix[base+c]) / 255.0
				orig := f.pix[src+c]
				f.pix[src+c] = pixel.Clamp01(orig + amount*(orig-blur))
			}
			src += pixel.Channels
		}
	}
	guardNewClipping(f, ctx)
}
