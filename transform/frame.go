package transform

import (
	"image"

	"github.com/camden-git/printprep/pixel"
)

// frame is the pipeline's working representation: interleaved RGB samples in
// [0,1] float64. All steps operate in this domain and convert back to 8-bit
// only once, at the end.
type frame struct {
	w, h int
	pix  []float64 // len == w*h*3
}

func frameFromArray(arr *pixel.Array) *frame {
	f := &frame{
		w:   arr.Width,
		h:   arr.Height,
		pix: make([]float64, len(arr.Pix)),
	}
	for i, v := range arr.Pix {
		f.pix[i] = float64(v) / 255.0
	}
	return f
}

func (f *frame) toArray() *pixel.Array {
	out := &pixel.Array{
		Width:  f.w,
		Height: f.h,
		Pix:    make([]uint8, len(f.pix)),
	}
	for i, v := range f.pix {
		out.Pix[i] = uint8(pixel.Clamp01(v)*255.0 + 0.5)
	}
	return out
}

// lum returns the luminance of pixel index i (0 .. w*h-1).
func (f *frame) lum(i int) float64 {
	p := i * pixel.Channels
	return pixel.Luminance(f.pix[p], f.pix[p+1], f.pix[p+2])
}

func (f *frame) toNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.w, f.h))
	src := 0
	for y := 0; y < f.h; y++ {
		dst := y * img.Stride
		for x := 0; x < f.w; x++ {
			img.Pix[dst] = uint8(pixel.Clamp01(f.pix[src])*255.0 + 0.5)
			img.Pix[dst+1] = uint8(pixel.Clamp01(f.pix[src+1])*255.0 + 0.5)
			img.Pix[dst+2] = uint8(pixel.Clamp01(f.pix[src+2])*255.0 + 0.5)
			img.Pix[dst+3] = 0xff
			src += pixel.Channels
			dst += 4
		}
	}
	return img
}
