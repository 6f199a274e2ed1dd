package analyze

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/camden-git/printprep/metadata"
	"github.com/camden-git/printprep/pixel"
)

// Detection thresholds. These are shared with the deriver's expectations, so
// changing one end requires revisiting the parameter bands.
const (
	ShadowClipThreshold    = 5.0   // luminance 0-5 counts as shadow clipping
	HighlightClipThreshold = 250.0 // luminance 250-255 counts as highlight clipping

	SkinToneHueMin = 0.0  // degrees
	SkinToneHueMax = 50.0 // degrees
	skinSatMin     = 20.0 / 255.0
	skinSatMax     = 170.0 / 255.0
	skinValueMin   = 50.0 / 255.0
	// minimum fraction of the frame that must match before skin tones count
	// as detected; small color patches below this are treated as noise
	skinAreaMinPercent = 5.0

	LowLightLuminance = 0.3 // mean luminance below this is low-light
	HighISOThreshold  = 800
	slowShutterSec    = 1.0 / 30.0

	// center/border brightness ratio above which a scene counts as backlit
	backlitBrightnessRatio = 1.5

	// weighting applied to the EXIF exposure-compensation bias when folding
	// it into the measured exposure level
	exposureCompWeight = 1.0

	contrastNormalization  = 128.0  // typical luminance stddev span for 8-bit
	sharpnessNormalization = 1000.0 // typical Laplacian variance for sharp input
	noiseNormalization     = 20.0   // typical high-frequency stddev span
	noiseISOReference      = 3200.0
)

// Analyzer computes the per-image Metrics record. It holds no state and is
// safe to share across goroutines; every call depends only on its inputs.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze measures the image and returns a complete Metrics record. meta may
// be nil or partially populated; absent fields only remove a signal, never
// cause an error. The only failure mode is a malformed array, which is a
// caller contract violation.
func (an *Analyzer) Analyze(arr *pixel.Array, meta *metadata.CaptureMetadata) (Metrics, error) {
	if err := arr.Validate(); err != nil {
		return Metrics{}, fmt.Errorf("analyze: %w", err)
	}

	lum := arr.LuminancePlane()
	meanLum := stat.Mean(lum, nil) / 255.0

	shadowClip, highlightClip := an.measureClipping(lum)
	sat, skinDetected, skinRange := an.measureColor(arr)

	m := Metrics{
		ExposureLevel:            an.measureExposure(lum, meanLum, meta),
		ContrastLevel:            an.measureContrast(lum),
		ShadowClippingPercent:    shadowClip,
		HighlightClippingPercent: highlightClip,
		SaturationLevel:          sat,
		SharpnessScore:           an.measureSharpness(arr, lum),
		NoiseLevel:               an.measureNoise(arr, lum, meta),
		SkinToneDetected:         skinDetected,
		SkinToneHueRange:         skinRange,
		IsBacklit:                an.detectBacklit(arr, lum),
		IsLowLight:               an.detectLowLight(meanLum, meta),
		Capture:                  meta,
	}
	return m, nil
}

// measureExposure estimates EV deviation from middle gray using the middle
// 50% of the luminance histogram, then folds in any EXIF exposure bias.
func (an *Analyzer) measureExposure(lum []float64, meanLum float64, meta *metadata.CaptureMetadata) float64 {
	var hist [256]float64
	for _, v := range lum {
		idx := int(v)
		if idx > 255 {
			idx = 255
		}
		hist[idx]++
	}
	total := float64(len(lum))

	// walk the cumulative distribution to find the 25th and 75th percentile bins
	lower, upper := 0, 255
	cum := 0.0
	for i, c := range hist {
		cum += c / total
		if cum < 0.25 {
			lower = i + 1
		}
		if cum < 0.75 {
			upper = i + 1
		}
	}
	if upper > 255 {
		upper = 255
	}
	if lower > upper {
		lower = upper
	}

	weightSum, valueSum := 0.0, 0.0
	for i := lower; i <= upper; i++ {
		weightSum += hist[i]
		valueSum += float64(i) * hist[i]
	}

	var middleMean float64
	if weightSum > 0 {
		middleMean = valueSum / weightSum / 255.0
	} else {
		middleMean = meanLum
	}

	var ev float64
	if middleMean > 0 {
		ev = math.Log2(middleMean / 0.5)
	} else {
		// all-black middle band: report the darkest representable deviation
		ev = -2.0
	}

	if meta != nil && meta.ExposureCompensation != nil {
		ev += *meta.ExposureCompensation * exposureCompWeight
	}
	return pixel.Clamp(ev, -2.0, 2.0)
}

// measureContrast normalizes the luminance standard deviation into [0,1].
func (an *Analyzer) measureContrast(lum []float64) float64 {
	if len(lum) < 2 {
		return 0.0
	}
	return pixel.Clamp01(stat.StdDev(lum, nil) / contrastNormalization)
}

func (an *Analyzer) measureClipping(lum []float64) (shadowPct, highlightPct float64) {
	shadow, highlight := 0, 0
	for _, v := range lum {
		if v <= ShadowClipThreshold {
			shadow++
		}
		if v >= HighlightClipThreshold {
			highlight++
		}
	}
	total := float64(len(lum))
	return float64(shadow) / total * 100.0, float64(highlight) / total * 100.0
}

// measureColor computes mean saturation and skin-tone detection in a single
// HSV pass over the frame.
func (an *Analyzer) measureColor(arr *pixel.Array) (saturation float64, detected bool, hueRange *HueRange) {
	satSum := 0.0
	skinCount := 0
	skinHueMin, skinHueMax := math.Inf(1), math.Inf(-1)

	n := arr.Width * arr.Height
	for i := 0; i < n; i++ {
		p := i * pixel.Channels
		r := float64(arr.Pix[p]) / 255.0
		g := float64(arr.Pix[p+1]) / 255.0
		b := float64(arr.Pix[p+2]) / 255.0
		h, s, v := pixel.RGBToHSV(r, g, b)
		satSum += s

		if h >= SkinToneHueMin && h <= SkinToneHueMax &&
			s >= skinSatMin && s <= skinSatMax && v >= skinValueMin {
			skinCount++
			if h < skinHueMin {
				skinHueMin = h
			}
			if h > skinHueMax {
				skinHueMax = h
			}
		}
	}

	saturation = pixel.Clamp(satSum/float64(n)*2.0, 0.0, 2.0)

	skinPercent := float64(skinCount) / float64(n) * 100.0
	if skinPercent > skinAreaMinPercent {
		return saturation, true, &HueRange{Min: skinHueMin, Max: skinHueMax}
	}
	return saturation, false, nil
}

// measureSharpness normalizes the variance of a 4-neighbor Laplacian over
// the luminance plane. Frames too small for an interior are reported as 0.
func (an *Analyzer) measureSharpness(arr *pixel.Array, lum []float64) float64 {
	w, h := arr.Width, arr.Height
	if w < 3 || h < 3 {
		return 0.0
	}
	responses := make([]float64, 0, (w-2)*(h-2))
	for y := 1; y < h-1; y++ {
		row := y * w
		for x := 1; x < w-1; x++ {
			i := row + x
			l := lum[i-w] + lum[i+w] + lum[i-1] + lum[i+1] - 4.0*lum[i]
			responses = append(responses, l)
		}
	}
	if len(responses) < 2 {
		return 0.0
	}
	return pixel.Clamp01(stat.Variance(responses, nil) / sharpnessNormalization)
}

// measureNoise isolates the high-frequency residual (luminance minus a 5×5
// Gaussian low-pass) and mixes its energy with an ISO-driven factor once the
// capture reaches the high-ISO range.
func (an *Analyzer) measureNoise(arr *pixel.Array, lum []float64, meta *metadata.CaptureMetadata) float64 {
	blurred := gaussian5x5(lum, arr.Width, arr.Height)
	residual := make([]float64, len(lum))
	for i := range lum {
		residual[i] = lum[i] - blurred[i]
	}

	var measured float64
	if len(residual) >= 2 {
		measured = pixel.Clamp01(stat.StdDev(residual, nil) / noiseNormalization)
	}

	if meta.HighISO(HighISOThreshold) {
		isoFactor := math.Min(float64(*meta.ISO)/noiseISOReference, 1.0)
		return pixel.Clamp01(0.6*measured + 0.4*isoFactor)
	}
	return measured
}

// detectBacklit compares the mean luminance of the central 40% region
// against the mean of a 20% border; a much brighter border means the subject
// is lit from behind.
func (an *Analyzer) detectBacklit(arr *pixel.Array, lum []float64) bool {
	w, h := arr.Width, arr.Height

	cy0, cy1 := int(float64(h)*0.3), int(float64(h)*0.7)
	cx0, cx1 := int(float64(w)*0.3), int(float64(w)*0.7)
	edge := int(float64(minInt(w, h)) * 0.2)
	if edge < 1 || cy1 <= cy0 || cx1 <= cx0 {
		// frame too small to distinguish center from border
		return false
	}

	centerSum, centerN := 0.0, 0
	for y := cy0; y < cy1; y++ {
		row := y * w
		for x := cx0; x < cx1; x++ {
			centerSum += lum[row+x]
			centerN++
		}
	}

	edgeSum, edgeN := 0.0, 0
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			if y < edge || y >= h-edge || x < edge || x >= w-edge {
				edgeSum += lum[row+x]
				edgeN++
			}
		}
	}
	if centerN == 0 || edgeN == 0 {
		return false
	}

	center := centerSum / float64(centerN)
	border := edgeSum / float64(edgeN)
	return border/(center+1e-6) > backlitBrightnessRatio
}

// detectLowLight classifies the scene from mean luminance, widened by
// high-ISO or slow-shutter capture settings when they are known.
func (an *Analyzer) detectLowLight(meanLum float64, meta *metadata.CaptureMetadata) bool {
	dark := meanLum < LowLightLuminance
	if meta == nil {
		return dark
	}
	return dark || meta.HighISO(HighISOThreshold) || meta.SlowShutter(slowShutterSec)
}

// gaussian5x5 applies a separable [1 4 6 4 1]/16 kernel with clamped edges.
func gaussian5x5(plane []float64, w, h int) []float64 {
	kernel := [5]float64{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}

	tmp := make([]float64, len(plane))
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -2; k <= 2; k++ {
				xx := clampInt(x+k, 0, w-1)
				sum += plane[row+xx] * kernel[k+2]
			}
			tmp[row+x] = sum
		}
	}

	out := make([]float64, len(plane))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -2; k <= 2; k++ {
				yy := clampInt(y+k, 0, h-1)
				sum += tmp[yy*w+x] * kernel[k+2]
			}
			out[y*w+x] = sum
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
