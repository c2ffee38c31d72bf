package detection

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// classifyPoint reduces a point's 8 ray summaries into the normalized
// 7-component classification vector.
//
// The intuition: strong collisions on the purely horizontal rays mean the
// point sits between glyphs (interior); strong collisions on the vertical
// rays mean it sits between text lines (edge); strong collisions isolated
// to the NW/SE diagonal axis mean it sits at a corner.
func classifyPoint(p *SamplePoint, cfg Config) {
	// Horizontal axis: west positive, east negative, so a point with text
	// to its east (a left edge) drives hBias negative.
	hTotal := p.Rays[rayE].Magnitude + p.Rays[rayW].Magnitude
	hBias := p.Rays[rayW].Magnitude - p.Rays[rayE].Magnitude

	// Vertical axis: south positive (y grows downward), so a point with
	// text below it (a top edge) drives vBias positive.
	vTotal := p.Rays[rayN].Magnitude + p.Rays[rayS].Magnitude
	vBias := p.Rays[rayS].Magnitude - p.Rays[rayN].Magnitude

	// Diagonal axis: each diagonal weighted by its dot product with
	// (1, 1). NE and SW are orthogonal to that axis and contribute only
	// to the total; SE counts positive, NW negative.
	dTotal := p.Rays[rayNE].Magnitude + p.Rays[raySE].Magnitude +
		p.Rays[raySW].Magnitude + p.Rays[rayNW].Magnitude
	dBias := p.Rays[raySE].Magnitude - p.Rays[rayNW].Magnitude

	top := vBias + vTotal/2
	nw := dBias + dTotal/2

	raw := [7]float64{
		cfg.InteriorBias*hTotal + vTotal + dTotal, // interior
		math.Max(0, -hBias),                       // left edge
		math.Max(0, hBias),                        // right edge
		top,                                       // top edge
		vTotal - top,                              // bottom edge
		nw,                                        // nw corner
		dTotal - nw,                               // se corner
	}

	// Negative raw scores carry no rectangle evidence; clamping keeps the
	// vector componentwise non-negative.
	for i, v := range raw {
		if v < 0 {
			raw[i] = 0
		}
	}

	// Normalize by the Euclidean norm, clamped to >= 1 so near-zero
	// vectors are not amplified into false signals.
	norm := floats.Norm(raw[:], 2)
	if norm < 1 {
		norm = 1
	}

	p.Class = Classification{
		Interior:   raw[0] / norm,
		LeftEdge:   raw[1] / norm,
		RightEdge:  raw[2] / norm,
		TopEdge:    raw[3] / norm,
		BottomEdge: raw[4] / norm,
		NWCorner:   raw[5] / norm,
		SECorner:   raw[6] / norm,
	}
}
