package detection

import (
	"runtime"
	"sync"
)

// Bounds is an axis-aligned pixel rectangle with inclusive top-left and
// exclusive bottom-right corners.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rectangle is one detected candidate text region.
type Rectangle struct {
	// X, Y anchor the candidate at its seed point; Width and Height are
	// one grid cell (the lattice spacing).
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Confidence is in [0, 1] after normalization. Candidates below the
	// configured minimum never appear in output.
	Confidence float64 `json:"confidence"`

	// Grown is the full extent reached by the growth walk around the
	// seed. Overlapping grown extents from neighboring seeds can be
	// merged by the caller.
	Grown Bounds `json:"grown"`

	// Color optionally holds the region's dominant color as "#RRGGBB".
	// The detector itself leaves it empty; the imaging layer fills it.
	Color string `json:"color,omitempty"`
}

// Result is the output of one detection call: a freshly allocated ordered
// sequence with no aliasing into internal grid state.
type Result struct {
	Rectangles []Rectangle `json:"rectangles"`
	Count      int         `json:"count"`
}

// Detector finds probable text regions in a pixel buffer. Implementations
// are stateless: nothing persists between calls, and concurrent calls on
// the same Detector are safe as long as each buffer is immutable for the
// duration of its call.
type Detector interface {
	Detect(buf *PixelBuffer) (*Result, error)
}

// New returns the Detector selected by cfg.Strategy, with unset config
// fields filled from the defaults.
func New(cfg Config) Detector {
	cfg = cfg.withDefaults()
	if cfg.Strategy == StrategyWindow {
		return &windowDetector{cfg: cfg}
	}
	return &rayDetector{cfg: cfg}
}

// Detect runs one detection call with the given config; a convenience for
// callers that do not hold a Detector.
func Detect(buf *PixelBuffer, cfg Config) (*Result, error) {
	return New(cfg).Detect(buf)
}

// rayDetector is the ray-casting strategy.
type rayDetector struct {
	cfg Config
}

func (d *rayDetector) Detect(buf *PixelBuffer) (*Result, error) {
	if err := validate(buf); err != nil {
		return nil, err
	}

	g := newGrid(buf, d.cfg)
	if g.empty() {
		return &Result{Rectangles: []Rectangle{}}, nil
	}

	// Per-point work is embarrassingly parallel: each point owns its own
	// state exclusively during classification.
	forEachPoint(g, func(p *SamplePoint) {
		analyzeRays(buf, d.cfg, p)
		classifyPoint(p, d.cfg)
	})

	// Barrier: linking reads every point's coordinates.
	g.link()

	rects, maxConf := growRectangles(g, d.cfg)
	out := normalizeResults(rects, maxConf, d.cfg)
	return &Result{Rectangles: out, Count: len(out)}, nil
}

// validate enforces the input contract shared by both strategies.
func validate(buf *PixelBuffer) error {
	if buf == nil {
		return &InputError{Reason: "nil pixel buffer"}
	}
	_, err := NewPixelBuffer(buf.Width, buf.Height, buf.Pix)
	return err
}

// forEachPoint applies fn to every grid point, splitting the arena into
// contiguous index ranges across one worker per CPU. fn must touch only
// the point it is handed.
func forEachPoint(g *pointGrid, fn func(p *SamplePoint)) {
	n := len(g.points)
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := range g.points {
			fn(&g.points[i])
		}
		return
	}

	per := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * per
		end := start + per
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(&g.points[i])
			}
		}(start, end)
	}
	wg.Wait()
}
