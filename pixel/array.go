package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// channels per pixel (R, G, B)
const Channels = 3

var ErrInvalidShape = errors.New("pixel: invalid array shape")

// Array is a height × width × 3 grid of 8-bit RGB samples stored in a flat
// slice, row-major, interleaved channels. It is the unit of exchange between
// the decode collaborator, the analyzer and the transform pipeline.
type Array struct {
	Width  int
	Height int
	Pix    []uint8 // len == Width*Height*Channels
}

// New allocates a zeroed array of the given dimensions.
func New(width, height int) (*Array, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidShape, width, height)
	}
	return &Array{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}, nil
}

// Validate checks the caller contract: positive dimensions and a backing
// slice of exactly Width*Height*Channels samples.
func (a *Array) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrInvalidShape)
	}
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidShape, a.Width, a.Height)
	}
	if len(a.Pix) != a.Width*a.Height*Channels {
		return fmt.Errorf("%w: %dx%d with %d samples", ErrInvalidShape, a.Width, a.Height, len(a.Pix))
	}
	return nil
}

// Clone returns a deep copy. Stages that report "returns a new array" copy
// through here so callers keep exclusive ownership of their input.
func (a *Array) Clone() *Array {
	pix := make([]uint8, len(a.Pix))
	copy(pix, a.Pix)
	return &Array{Width: a.Width, Height: a.Height, Pix: pix}
}

// At returns the RGB triple at (x, y).
func (a *Array) At(x, y int) (r, g, b uint8) {
	i := (y*a.Width + x) * Channels
	return a.Pix[i], a.Pix[i+1], a.Pix[i+2]
}

// Set writes the RGB triple at (x, y).
func (a *Array) Set(x, y int, r, g, b uint8) {
	i := (y*a.Width + x) * Channels
	a.Pix[i], a.Pix[i+1], a.Pix[i+2] = r, g, b
}

// FromImage copies an image.Image into a new Array, flattening any alpha
// against black the way NRGBA conversion does.
func FromImage(img image.Image) (*Array, error) {
	bounds := img.Bounds()
	arr, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("pixel: cannot build array from image: %w", err)
	}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			arr.Pix[i] = c.R
			arr.Pix[i+1] = c.G
			arr.Pix[i+2] = c.B
			i += Channels
		}
	}
	return arr, nil
}

// ToImage converts the array to an *image.NRGBA suitable for the imaging
// package (encoding, resizing, blurring).
func (a *Array) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, a.Width, a.Height))
	src := 0
	for y := 0; y < a.Height; y++ {
		dst := y * img.Stride
		for x := 0; x < a.Width; x++ {
			img.Pix[dst] = a.Pix[src]
			img.Pix[dst+1] = a.Pix[src+1]
			img.Pix[dst+2] = a.Pix[src+2]
			img.Pix[dst+3] = 0xff
			src += Channels
			dst += 4
		}
	}
	return img
}
