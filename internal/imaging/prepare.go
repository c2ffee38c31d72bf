package imaging

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/text-region-mcp/internal/detection"
)

// PrepareOptions controls the preprocessing applied before detection.
type PrepareOptions struct {
	// MaxDimension caps the longer image side in pixels; larger images are
	// downscaled proportionally before detection. Zero disables scaling.
	MaxDimension int `json:"max_dimension"`

	// BlurSigma applies a Gaussian pre-blur to suppress single-pixel noise
	// that would otherwise read as texture. Zero disables the blur.
	BlurSigma float64 `json:"blur_sigma"`
}

// Prepare converts an image into a detection pixel buffer, applying the
// configured downscale and pre-blur first.
//
// The returned buffer owns its pixels; mutating the source image afterward
// does not affect it. Scaling changes the coordinate space of detection
// results — use ScaleFactor to map them back to the source image.
func Prepare(img image.Image, opts PrepareOptions) (*detection.PixelBuffer, error) {
	if opts.MaxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
			img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
		}
	}

	if opts.BlurSigma > 0 {
		img = blur.Gaussian(img, opts.BlurSigma)
	}

	return detection.FromRGBA(toRGBA(img))
}

// ScaleFactor returns the factor by which detection coordinates must be
// multiplied to land on the original image, given the options used to
// prepare it. It is 1 when no scaling occurred.
func ScaleFactor(img image.Image, opts PrepareOptions) float64 {
	if opts.MaxDimension <= 0 {
		return 1
	}
	b := img.Bounds()
	longest := b.Dx()
	if b.Dy() > longest {
		longest = b.Dy()
	}
	if longest <= opts.MaxDimension {
		return 1
	}
	return float64(longest) / float64(opts.MaxDimension)
}

// toRGBA copies img into a fresh *image.RGBA anchored at the origin. The
// copy keeps the detection buffer independent of the (possibly cached and
// shared) source image.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
