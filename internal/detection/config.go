package detection

// Strategy selects which detection heuristic runs. The strategies are
// interchangeable behind the Detector interface and are never blended.
type Strategy string

const (
	// StrategyRays is the ray-casting pipeline (the default).
	StrategyRays Strategy = "rays"

	// StrategyWindow is the sliding-window variance/average heuristic.
	StrategyWindow Strategy = "window"
)

// Config holds the tuning parameters for one detection call. It is a plain
// value type: copy it freely, fill in what you need, and leave the rest
// zero — unset fields fall back to the defaults at call entry. Once a
// detection call starts the config is immutable.
type Config struct {
	// Strategy picks the detection heuristic. Default StrategyRays.
	Strategy Strategy `json:"strategy"`

	// HorizontalSpacing is the grid column step in pixels. Default 8.
	HorizontalSpacing int `json:"horizontal_spacing"`

	// VerticalSpacing is the grid row step in pixels. Default 4.
	// Vertical sampling is denser than horizontal because text lines are
	// short and wide; RayAspect compensates on the ray side.
	VerticalSpacing int `json:"vertical_spacing"`

	// RayInterval is the pixel stride between consecutive ray samples.
	// Default 1.
	RayInterval int `json:"ray_interval"`

	// RaySteps is the number of luminosity samples per ray. Default 8.
	RaySteps int `json:"ray_steps"`

	// RayAspect stretches the horizontal component of ray directions,
	// compensating for the grid's denser vertical sampling. Default 2.
	RayAspect int `json:"ray_aspect"`

	// InteriorBias weights horizontal ray collisions in the interior
	// score. Default 1.
	InteriorBias float64 `json:"interior_bias"`

	// LeftEdgeBias and RightEdgeBias bias the horizontal growth walks.
	// Default 0.
	LeftEdgeBias  float64 `json:"left_edge_bias"`
	RightEdgeBias float64 `json:"right_edge_bias"`

	// MinimumInterior is the seed-point acceptance floor: points whose
	// interior score falls at or below it never start a rectangle.
	// Default 0.5.
	MinimumInterior float64 `json:"minimum_interior"`

	// MinimumConfidence is the output filter floor after normalization.
	// Default 0.1.
	MinimumConfidence float64 `json:"minimum_confidence"`

	// WindowRadius is the half-extent of the sliding window
	// (window strategy only). Default 6.
	WindowRadius int `json:"window_radius"`

	// WindowDepth is the delta-history length of the sliding window
	// comparison (window strategy only). Default 4.
	WindowDepth int `json:"window_depth"`
}

// DefaultConfig returns the documented defaults for every option.
func DefaultConfig() Config {
	return Config{
		Strategy:          StrategyRays,
		HorizontalSpacing: 8,
		VerticalSpacing:   4,
		RayInterval:       1,
		RaySteps:          8,
		RayAspect:         2,
		InteriorBias:      1,
		LeftEdgeBias:      0,
		RightEdgeBias:     0,
		MinimumInterior:   0.5,
		MinimumConfidence: 0.1,
		WindowRadius:      6,
		WindowDepth:       4,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig. This is the one
// merge point; the result is treated as immutable for the rest of the call.
//
// LeftEdgeBias and RightEdgeBias legitimately stay zero, so they are never
// defaulted.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Strategy == "" {
		c.Strategy = d.Strategy
	}
	if c.HorizontalSpacing <= 0 {
		c.HorizontalSpacing = d.HorizontalSpacing
	}
	if c.VerticalSpacing <= 0 {
		c.VerticalSpacing = d.VerticalSpacing
	}
	if c.RayInterval <= 0 {
		c.RayInterval = d.RayInterval
	}
	if c.RaySteps <= 0 {
		c.RaySteps = d.RaySteps
	}
	if c.RayAspect <= 0 {
		c.RayAspect = d.RayAspect
	}
	if c.InteriorBias == 0 {
		c.InteriorBias = d.InteriorBias
	}
	if c.MinimumInterior == 0 {
		c.MinimumInterior = d.MinimumInterior
	}
	if c.MinimumConfidence == 0 {
		c.MinimumConfidence = d.MinimumConfidence
	}
	if c.WindowRadius <= 0 {
		c.WindowRadius = d.WindowRadius
	}
	if c.WindowDepth < 3 {
		// Three windows is the minimum for one delta-of-deltas
		// comparison.
		c.WindowDepth = d.WindowDepth
	}
	return c
}

// rayLengthX is the horizontal pixel extent of the longest ray.
func (c Config) rayLengthX() int {
	return c.RaySteps * c.RayInterval * c.RayAspect
}

// rayLengthY is the vertical pixel extent of the longest ray.
func (c Config) rayLengthY() int {
	return c.RaySteps * c.RayInterval
}

// windowReach is the farthest pixel offset touched by a window chain:
// WindowDepth windows spaced two radii apart, plus the outermost window's
// own radius.
func (c Config) windowReach() int {
	return (c.WindowDepth-1)*2*c.WindowRadius + c.WindowRadius
}

// margin is the border inside which no sample point may fall, chosen so
// every ray (or window chain) cast from a sample point stays inside the
// image.
func (c Config) margin() int {
	m := c.rayLengthX()
	if ly := c.rayLengthY(); ly > m {
		m = ly
	}
	if c.Strategy == StrategyWindow {
		if w := c.windowReach(); w > m {
			m = w
		}
	}
	return m
}
