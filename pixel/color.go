package pixel

import "math"

// Rec. 601 luma weights, same coefficients the analyzer and the transform
// pipeline both rely on so their notion of "luminance" agrees.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Luminance returns the 0–1 luma of a 0–1 RGB triple.
func Luminance(r, g, b float64) float64 {
	return lumaR*r + lumaG*g + lumaB*b
}

// Luminance8 returns the 0–255 luma of an 8-bit RGB triple.
func Luminance8(r, g, b uint8) float64 {
	return lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b)
}

// LuminancePlane extracts the 0–255 luma of every pixel into a flat slice,
// row-major. Metric calculations operate on this plane.
func (a *Array) LuminancePlane() []float64 {
	plane := make([]float64, a.Width*a.Height)
	for i := range plane {
		p := i * Channels
		plane[i] = Luminance8(a.Pix[p], a.Pix[p+1], a.Pix[p+2])
	}
	return plane
}

// RGBToHSV converts a 0–1 RGB triple to hue in degrees [0,360), saturation
// [0,1] and value [0,1].
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v = max
	delta := max - min
	if max > 0 {
		s = delta / max
	}
	if delta == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = math.Mod((g-b)/delta, 6)
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// HSVToRGB converts hue in degrees [0,360), saturation [0,1] and value
// [0,1] back to a 0–1 RGB triple.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp bounds v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
