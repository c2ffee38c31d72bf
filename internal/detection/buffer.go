package detection

import (
	"fmt"
	"image"
)

// maxChannel is the full-scale value of one 8-bit color channel, used to
// normalize samples into [0, 1].
const maxChannel = 255.0

// InputError reports a violation of the pixel buffer input contract.
// It is returned for malformed buffers; degenerate-but-valid geometry
// (an image too small for one grid row) is not an error.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

// PixelBuffer describes a decoded image as row-major RGBA8 samples.
//
// The buffer is read-only input owned by the caller for the duration of one
// detection call; the detector never mutates or retains it.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // len == Width*Height*4
}

// NewPixelBuffer validates dimensions against the sample slice and returns
// a PixelBuffer. The pixel data is referenced, not copied.
func NewPixelBuffer(width, height int, pix []uint8) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, &InputError{Reason: fmt.Sprintf("non-positive dimensions %dx%d", width, height)}
	}
	if len(pix) != width*height*4 {
		return nil, &InputError{
			Reason: fmt.Sprintf("buffer length %d, want %d (%dx%dx4)", len(pix), width*height*4, width, height),
		}
	}
	return &PixelBuffer{Width: width, Height: height, Pix: pix}, nil
}

// FromRGBA wraps an *image.RGBA as a PixelBuffer. The image must have a
// zero-origin bounds rectangle and a stride of exactly 4*width, which is
// what image.NewRGBA produces.
func FromRGBA(img *image.RGBA) (*PixelBuffer, error) {
	b := img.Bounds()
	if b.Min.X != 0 || b.Min.Y != 0 {
		return nil, &InputError{Reason: "image bounds must start at the origin"}
	}
	if img.Stride != b.Dx()*4 {
		return nil, &InputError{Reason: "image stride must be 4*width"}
	}
	return NewPixelBuffer(b.Dx(), b.Dy(), img.Pix)
}

// pixelVec returns the (R, G, B) triple at (x, y), each component normalized
// to [0, 1]. Coordinates must be in bounds; callers guarantee this via the
// configured grid margins.
func (p *PixelBuffer) pixelVec(x, y int) Vec {
	i := (y*p.Width + x) * 4
	return Vec{
		R: float64(p.Pix[i]) / maxChannel,
		G: float64(p.Pix[i+1]) / maxChannel,
		B: float64(p.Pix[i+2]) / maxChannel,
	}
}

// luminosity returns the perceptual brightness at (x, y) in [0, 1].
// Like pixelVec, it is bounds-unchecked by contract.
func (p *PixelBuffer) luminosity(x, y int) float64 {
	i := (y*p.Width + x) * 4
	return (float64(p.Pix[i])*lumR + float64(p.Pix[i+1])*lumG + float64(p.Pix[i+2])*lumB) / maxChannel
}
