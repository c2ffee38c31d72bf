package imaging

import (
	"fmt"
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/text-region-mcp/internal/detection"
)

// RGBColor holds 8-bit RGB components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor holds a color in HSL space: hue 0-360, saturation and
// lightness 0-100.
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// Region is a rectangular image region with inclusive top-left and
// exclusive bottom-right corners.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// ColorInfo describes one color in the formats callers commonly need,
// together with how much of the analyzed region it covers.
type ColorInfo struct {
	Hex        string   `json:"hex"`
	RGB        RGBColor `json:"rgb"`
	HSL        HSLColor `json:"hsl"`
	Percentage float64  `json:"percentage"`
}

// quantShift groups colors into 16-unit-per-channel buckets so that
// anti-aliased neighbors count toward the same dominant color.
const quantShift = 4

// DominantColor returns the most frequent color in the region, or in the
// whole image when region is nil. The reported color is the average of the
// pixels in the winning quantization bucket, not the bucket corner, so the
// hex value looks like the region rather than a rounded-down version of it.
func DominantColor(img image.Image, region *Region) (*ColorInfo, error) {
	bounds := img.Bounds()
	if region != nil {
		r := image.Rect(region.X1, region.Y1, region.X2, region.Y2)
		if !r.In(bounds) {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds %v",
				region.X1, region.Y1, region.X2, region.Y2, bounds)
		}
		bounds = r
	}
	if bounds.Empty() {
		return nil, fmt.Errorf("empty region")
	}

	type bucket struct {
		count   int
		r, g, b uint64
	}
	buckets := make(map[uint32]*bucket)
	total := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			r8, g8, b8 := r>>8, g>>8, b>>8

			key := uint32(r8>>quantShift)<<16 | uint32(g8>>quantShift)<<8 | uint32(b8>>quantShift)
			bk := buckets[key]
			if bk == nil {
				bk = &bucket{}
				buckets[key] = bk
			}
			bk.count++
			bk.r += uint64(r8)
			bk.g += uint64(g8)
			bk.b += uint64(b8)
			total++
		}
	}

	var best *bucket
	for _, bk := range buckets {
		if best == nil || bk.count > best.count {
			best = bk
		}
	}

	n := uint64(best.count)
	rgb := RGBColor{
		R: uint8(best.r / n),
		G: uint8(best.g / n),
		B: uint8(best.b / n),
	}
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	h, s, l := c.Hsl()

	return &ColorInfo{
		Hex: c.Hex(),
		RGB: rgb,
		HSL: HSLColor{
			H: int(h + 0.5),
			S: int(s*100 + 0.5),
			L: int(l*100 + 0.5),
		},
		Percentage: float64(best.count) / float64(total) * 100,
	}, nil
}

// AnnotateColors fills each rectangle's Color field with the dominant color
// of its grown extent, clamped to the image. Rectangles whose extent falls
// entirely outside the image are left unannotated.
func AnnotateColors(img image.Image, rects []detection.Rectangle) {
	bounds := img.Bounds()
	for i := range rects {
		g := rects[i].Grown
		r := image.Rect(g.X1, g.Y1, g.X2, g.Y2).Intersect(bounds)
		if r.Empty() {
			continue
		}
		info, err := DominantColor(img, &Region{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y})
		if err != nil {
			continue
		}
		rects[i].Color = info.Hex
	}
}
