package detection

// Segment records one maximal run of same-signed luminosity deviation along
// a ray — a "moment" where the signal departs from and returns to the local
// average.
type Segment struct {
	// Value is the absolute accumulated deviation of the run.
	Value float64

	// Position is the sample index at which the run closed.
	Position int

	// Length is the number of samples folded into the run.
	Length int
}

// RaySummary reduces a ray's segment list to two scalars.
type RaySummary struct {
	// Magnitude is the sum of value/length over the ray's segments:
	// the average deviation rate.
	Magnitude float64

	// Distance is the length-weighted mean position of the segments.
	Distance float64
}

// Classification is the 7-component score vector describing a point's role
// in a hypothesized rectangle. After classifyPoint, every component is
// non-negative and the vector's Euclidean norm is at most 1 + ε.
type Classification struct {
	Interior   float64 `json:"interior"`
	LeftEdge   float64 `json:"left_edge"`
	RightEdge  float64 `json:"right_edge"`
	TopEdge    float64 `json:"top_edge"`
	BottomEdge float64 `json:"bottom_edge"`
	NWCorner   float64 `json:"nw_corner"`
	SECorner   float64 `json:"se_corner"`
}

// noNeighbor marks an absent grid link.
const noNeighbor = -1

// SamplePoint is one lattice point of the detection grid. Points live in a
// flat arena owned by a single detection call; neighbor relationships are
// arena indices rather than pointers, keeping the mesh acyclic and cheap to
// walk.
//
// A point is mutated in place by ray analysis and classification, and is
// read-only afterward.
type SamplePoint struct {
	// X, Y are pixel coordinates in the source buffer.
	X, Y int

	// Segments and Rays hold per-direction ray data, indexed by the
	// direction table in rays.go.
	Segments [rayCount][]Segment
	Rays     [rayCount]RaySummary

	// Class is the normalized classification vector.
	Class Classification

	// Up, Down, Left, Right are arena indices of the 4-connected
	// neighbors, or noNeighbor at the grid boundary.
	Up, Down, Left, Right int
}

// linked reports whether the point has all four neighbors. Only fully
// linked points may seed rectangle growth.
func (p *SamplePoint) linked() bool {
	return p.Up != noNeighbor && p.Down != noNeighbor && p.Left != noNeighbor && p.Right != noNeighbor
}
