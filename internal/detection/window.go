package detection

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Window holds the color statistics of one square pixel neighborhood:
// its bounding rectangle, per-channel average, and per-channel variance.
// Windows are ephemeral — pure functions of (center, radius) over an
// immutable buffer, recomputed per query.
type Window struct {
	Bounds   Bounds
	Average  Vec
	Variance Vec
}

// windowAt computes the statistics of the (2r+1)x(2r+1) window centered at
// (cx, cy). The caller guarantees the window is in bounds via the grid
// margin.
func windowAt(buf *PixelBuffer, cx, cy, radius int) Window {
	side := 2*radius + 1
	n := side * side
	rs := make([]float64, 0, n)
	gs := make([]float64, 0, n)
	bs := make([]float64, 0, n)

	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			v := buf.pixelVec(x, y)
			rs = append(rs, v.R)
			gs = append(gs, v.G)
			bs = append(bs, v.B)
		}
	}

	meanR, varR := stat.MeanVariance(rs, nil)
	meanG, varG := stat.MeanVariance(gs, nil)
	meanB, varB := stat.MeanVariance(bs, nil)

	return Window{
		Bounds:   Bounds{X1: cx - radius, Y1: cy - radius, X2: cx + radius + 1, Y2: cy + radius + 1},
		Average:  Vec{R: meanR, G: meanG, B: meanB},
		Variance: Vec{R: varR, G: varG, B: varB},
	}
}

// windowScore rates the transition across three consecutive windows. The
// score is high when variance changes sharply at both transitions while the
// average color stays put — the signature of text against a stable
// background. The +1 terms in both denominators make division by zero
// structurally impossible.
func windowScore(w1, w2, w3 Window) float64 {
	dVar1 := w2.Variance.Sub(w1.Variance)
	dVar2 := w3.Variance.Sub(w2.Variance)
	dAvg1 := w2.Average.Sub(w1.Average)
	dAvg2 := w3.Average.Sub(w2.Average)

	varianceTerm := math.Abs(dVar1.Dot(dVar2)) /
		(1 + math.Abs(dVar1.Luminosity()*dVar2.Luminosity()))

	avgDot := dAvg1.Dot(dAvg2)
	averageTerm := math.Abs(dAvg1.Luminosity()-dAvg2.Luminosity()) /
		(1 + avgDot*avgDot)

	return varianceTerm * averageTerm
}

// windowDetector is the sliding-window strategy. It evaluates the window
// score along each of the 8 ray directions and feeds the per-direction
// magnitudes into the same classification, linking, and growth stages as
// the ray strategy, making the two interchangeable.
type windowDetector struct {
	cfg Config
}

func (d *windowDetector) Detect(buf *PixelBuffer) (*Result, error) {
	if err := validate(buf); err != nil {
		return nil, err
	}

	g := newGrid(buf, d.cfg)
	if g.empty() {
		return &Result{Rectangles: []Rectangle{}}, nil
	}

	forEachPoint(g, func(p *SamplePoint) {
		analyzeWindows(buf, d.cfg, p)
	})

	// Raw window scores are products of [0,1] channel statistics and sit
	// orders of magnitude below ray magnitudes. Rescaling against the
	// field maximum puts them in the range the classifier thresholds
	// expect, which is what makes the two strategies interchangeable.
	scaleWindowMagnitudes(g)

	forEachPoint(g, func(p *SamplePoint) {
		classifyPoint(p, d.cfg)
	})

	g.link()

	rects, maxConf := growRectangles(g, d.cfg)
	out := normalizeResults(rects, maxConf, d.cfg)
	return &Result{Rectangles: out, Count: len(out)}, nil
}

// scaleWindowMagnitudes divides every per-direction magnitude by the
// maximum observed across the whole grid, so the strongest direction in the
// field carries magnitude 1. A field with no signal at all is left alone.
func scaleWindowMagnitudes(g *pointGrid) {
	var max float64
	for i := range g.points {
		for d := 0; d < rayCount; d++ {
			if m := g.points[i].Rays[d].Magnitude; m > max {
				max = m
			}
		}
	}
	if max <= 0 {
		return
	}

	inv := 1 / max
	for i := range g.points {
		for d := 0; d < rayCount; d++ {
			g.points[i].Rays[d].Magnitude *= inv
		}
	}
}

// analyzeWindows fills the point's ray summaries from sliding-window
// comparisons. For each direction, WindowDepth windows march outward from
// the point spaced one window apart; every consecutive triple contributes
// one score, and the direction's magnitude is their mean.
func analyzeWindows(buf *PixelBuffer, cfg Config, p *SamplePoint) {
	radius := cfg.WindowRadius
	depth := cfg.WindowDepth
	step := 2 * radius

	for d := 0; d < rayCount; d++ {
		dir := rayDirs[d]

		windows := make([]Window, depth)
		for i := 0; i < depth; i++ {
			windows[i] = windowAt(buf, p.X+dir.dx*step*i, p.Y+dir.dy*step*i, radius)
		}

		var total float64
		triples := depth - 2
		for i := 0; i < triples; i++ {
			total += windowScore(windows[i], windows[i+1], windows[i+2])
		}
		if triples > 0 {
			p.Rays[d] = RaySummary{
				Magnitude: total / float64(triples),
				Distance:  float64(step*(depth-1)) / 2,
			}
		}
	}
}
