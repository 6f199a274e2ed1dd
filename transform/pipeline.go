package transform

import (
	"fmt"

	"github.com/camden-git/printprep/metadata"
	"github.com/camden-git/printprep/optimize"
	"github.com/camden-git/printprep/pixel"
)

// luminance at or above this float value counts as a clipped highlight,
// mirroring the analyzer's 250/255 threshold
const highlightClipFloat = 250.0 / 255.0

// stepContext carries the per-invocation inputs every step can consult.
type stepContext struct {
	params optimize.Params
	meta   *metadata.CaptureMetadata

	// entryClipped marks the pixels whose luminance was already clipped
	// when the pipeline was entered. Steps that can brighten use it to
	// guarantee they never mint new clipped highlights.
	entryClipped []bool
}

// Step is one named transform in the fixed chain. The order of steps is
// load-bearing: each stage's output is the next stage's domain.
type Step struct {
	Name  string
	apply func(f *frame, ctx *stepContext)
}

// Pipeline applies the seven ordered numeric transforms. It holds only the
// immutable step list, so a single Pipeline is safe to share across
// concurrent per-image invocations.
type Pipeline struct {
	steps []Step
}

// NewPipeline builds the chain in its contractual order.
func NewPipeline() *Pipeline {
	return &Pipeline{steps: []Step{
		{Name: "exposure", apply: applyExposure},
		{Name: "contrast", apply: applyContrast},
		{Name: "shadow_lift", apply: applyShadowLift},
		{Name: "highlight_recovery", apply: applyHighlightRecovery},
		{Name: "saturation", apply: applySaturation},
		{Name: "noise_reduction", apply: applyNoiseReduction},
		{Name: "sharpen", apply: applySharpen},
	}}
}

// StepNames exposes the chain order for inspection and tests.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Apply runs every step in order and returns a newly-owned output array of
// the same dimensions. The input array is only read. meta may be nil; it
// refines the denoise strength when ISO is known.
func (p *Pipeline) Apply(arr *pixel.Array, params optimize.Params, meta *metadata.CaptureMetadata) (*pixel.Array, error) {
	if err := arr.Validate(); err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	f := frameFromArray(arr)
	ctx := &stepContext{
		params:       params,
		meta:         meta,
		entryClipped: make([]bool, f.w*f.h),
	}
	for i := range ctx.entryClipped {
		ctx.entryClipped[i] = f.lum(i) >= highlightClipFloat
	}

	for _, step := range p.steps {
		step.apply(f, ctx)
	}
	return f.toArray(), nil
}

// guardNewClipping rescales any pixel that a step pushed into clipped
// luminance even though it entered the pipeline unclipped. The rescale is
// multiplicative so hue and saturation are preserved. Clipped-at-entry
// pixels are left alone, which keeps the output clip count bounded by the
// input clip count.
func guardNewClipping(f *frame, ctx *stepContext) {
	const ceiling = highlightClipFloat - 1.0/255.0
	n := f.w * f.h
	for i := 0; i < n; i++ {
		if ctx.entryClipped[i] {
			continue
		}
		l := f.lum(i)
		if l < highlightClipFloat {
			continue
		}
		scale := ceiling / l
		p := i * pixel.Channels
		f.pix[p] *= scale
		f.pix[p+1] *= scale
		f.pix[p+2] *= scale
	}
}
