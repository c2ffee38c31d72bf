package detection

// pointGrid is the arena of sample points for one detection call, laid out
// row-major over a margin-clipped lattice. Neighbor links are arena indices
// assigned by link(); until then every point is unlinked.
type pointGrid struct {
	points []SamplePoint
	cols   int
	rows   int
}

// newGrid lays sample points on an evenly spaced lattice starting at the
// configured margin and stopping before width-margin / height-margin, so
// that every ray (or window) cast from any point stays inside the buffer.
//
// An image smaller than twice the margin in either dimension produces an
// empty grid; detection then short-circuits to an empty result.
func newGrid(buf *PixelBuffer, cfg Config) *pointGrid {
	margin := cfg.margin()

	cols := 0
	for x := margin; x < buf.Width-margin; x += cfg.HorizontalSpacing {
		cols++
	}
	rows := 0
	for y := margin; y < buf.Height-margin; y += cfg.VerticalSpacing {
		rows++
	}
	if cols <= 0 || rows <= 0 {
		return &pointGrid{}
	}

	g := &pointGrid{
		points: make([]SamplePoint, cols*rows),
		cols:   cols,
		rows:   rows,
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := &g.points[r*cols+c]
			p.X = margin + c*cfg.HorizontalSpacing
			p.Y = margin + r*cfg.VerticalSpacing
			p.Up = noNeighbor
			p.Down = noNeighbor
			p.Left = noNeighbor
			p.Right = noNeighbor
		}
	}
	return g
}

// link builds the 4-neighbor adjacency across the lattice. It must run only
// after every point has been classified — it is the pipeline's one
// synchronization barrier. Grid coordinates increase strictly along rows
// and columns, so the links form a simple acyclic 2-D mesh.
func (g *pointGrid) link() {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			i := r*g.cols + c
			p := &g.points[i]
			if r > 0 {
				p.Up = i - g.cols
			}
			if r < g.rows-1 {
				p.Down = i + g.cols
			}
			if c > 0 {
				p.Left = i - 1
			}
			if c < g.cols-1 {
				p.Right = i + 1
			}
		}
	}
}

// empty reports whether the grid has no sample points.
func (g *pointGrid) empty() bool {
	return len(g.points) == 0
}
