package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/printprep/metadata"
	"github.com/camden-git/printprep/optimize"
	"github.com/camden-git/printprep/pixel"
)

// neutralParams carries no adjustment at all; the pipeline must be an
// identity for it.
func neutralParams() optimize.Params {
	return optimize.Params{
		ContrastAdjustment:   1.0,
		SaturationAdjustment: 1.0,
	}
}

func gradientArray(t *testing.T, w, h int) *pixel.Array {
	t.Helper()
	arr, err := pixel.New(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x * 255) / (w - 1))
			arr.Set(x, y, v, v, v)
		}
	}
	return arr
}

func countClippedHighlights(arr *pixel.Array) int {
	clipped := 0
	n := arr.Width * arr.Height
	for i := 0; i < n; i++ {
		p := i * pixel.Channels
		if pixel.Luminance8(arr.Pix[p], arr.Pix[p+1], arr.Pix[p+2]) >= 250.0 {
			clipped++
		}
	}
	return clipped
}

func TestStepOrder(t *testing.T) {
	t.Parallel()

	want := []string{
		"exposure",
		"contrast",
		"shadow_lift",
		"highlight_recovery",
		"saturation",
		"noise_reduction",
		"sharpen",
	}
	assert.Equal(t, want, NewPipeline().StepNames())
}

func TestApplyNeutralIdentity(t *testing.T) {
	t.Parallel()

	arr := gradientArray(t, 32, 16)
	out, err := NewPipeline().Apply(arr, neutralParams(), nil)
	require.NoError(t, err)

	assert.Equal(t, arr.Pix, out.Pix, "neutral params must not alter the image")
	assert.NotSame(t, arr, out, "output is a newly-owned array")
}

func TestApplyPreservesDimensionsAndInput(t *testing.T) {
	t.Parallel()

	arr := gradientArray(t, 40, 30)
	before := arr.Clone()

	params := neutralParams()
	params.ExposureAdjustment = 0.6
	params.ContrastAdjustment = 1.2
	params.ShadowLift = 0.4
	params.SharpnessAmount = 0.8

	out, err := NewPipeline().Apply(arr, params, nil)
	require.NoError(t, err)

	assert.Equal(t, arr.Width, out.Width)
	assert.Equal(t, arr.Height, out.Height)
	assert.Equal(t, before.Pix, arr.Pix, "input array must only be read")
}

func TestApplyNeverAddsClippedHighlights(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		params func() optimize.Params
	}{
		{"strong brightening", func() optimize.Params {
			p := neutralParams()
			p.ExposureAdjustment = 1.5
			p.ShadowLift = 0.8
			return p
		}},
		{"contrast push", func() optimize.Params {
			p := neutralParams()
			p.ContrastAdjustment = 1.5
			p.SharpnessAmount = 1.0
			return p
		}},
		{"saturation boost", func() optimize.Params {
			p := neutralParams()
			p.SaturationAdjustment = 1.5
			p.ExposureAdjustment = 1.0
			return p
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			arr := gradientArray(t, 64, 32)
			before := countClippedHighlights(arr)

			out, err := NewPipeline().Apply(arr, tc.params(), nil)
			require.NoError(t, err)

			after := countClippedHighlights(out)
			assert.LessOrEqual(t, after, before,
				"output clipping %d must not exceed input clipping %d", after, before)
		})
	}
}

func TestApplySkinToneProtection(t *testing.T) {
	t.Parallel()

	skin := func(t *testing.T) *pixel.Array {
		t.Helper()
		arr, err := pixel.New(16, 16)
		require.NoError(t, err)
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				arr.Set(x, y, 200, 150, 120)
			}
		}
		return arr
	}

	params := neutralParams()
	params.SaturationAdjustment = 1.5

	t.Run("protected band is identity-mapped", func(t *testing.T) {
		t.Parallel()
		arr := skin(t)
		params := params
		params.SkinToneProtection = true
		out, err := NewPipeline().Apply(arr, params, nil)
		require.NoError(t, err)
		assert.Equal(t, arr.Pix, out.Pix)
	})

	t.Run("unprotected band is scaled", func(t *testing.T) {
		t.Parallel()
		arr := skin(t)
		out, err := NewPipeline().Apply(arr, params, nil)
		require.NoError(t, err)
		assert.NotEqual(t, arr.Pix, out.Pix)
	})
}

func TestApplyNoiseReduction(t *testing.T) {
	t.Parallel()

	// checkerboard noise on a flat field should flatten out
	arr, err := pixel.New(24, 24)
	require.NoError(t, err)
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			v := uint8(120)
			if (x+y)%2 == 0 {
				v = 136
			}
			arr.Set(x, y, v, v, v)
		}
	}

	params := neutralParams()
	params.NoiseReduction = 0.8

	out, err := NewPipeline().Apply(arr, params, nil)
	require.NoError(t, err)

	variance := func(a *pixel.Array) float64 {
		lum := a.LuminancePlane()
		mean := 0.0
		for _, v := range lum {
			mean += v
		}
		mean /= float64(len(lum))
		sum := 0.0
		for _, v := range lum {
			sum += (v - mean) * (v - mean)
		}
		return sum / float64(len(lum))
	}
	assert.Less(t, variance(out), variance(arr), "denoise must reduce pixel-level variation")
}

func TestApplyHighISOWidensDenoise(t *testing.T) {
	t.Parallel()

	arr := gradientArray(t, 24, 24)
	params := neutralParams()
	params.NoiseReduction = 0.5

	iso := 3200
	meta := &metadata.CaptureMetadata{ISO: &iso}

	plain, err := NewPipeline().Apply(arr, params, nil)
	require.NoError(t, err)
	wide, err := NewPipeline().Apply(arr, params, meta)
	require.NoError(t, err)

	assert.NotEqual(t, plain.Pix, wide.Pix, "high-ISO metadata changes the smoothing strength")
}

func TestApplyInvalidArray(t *testing.T) {
	t.Parallel()

	bad := &pixel.Array{Width: 3, Height: 3, Pix: make([]uint8, 2)}
	_, err := NewPipeline().Apply(bad, neutralParams(), nil)
	assert.ErrorIs(t, err, pixel.ErrInvalidShape)
}
