package detection

import "sort"

// growRectangles walks the classified, linked grid and produces one
// candidate rectangle per surviving seed point, together with the maximum
// raw confidence seen (for normalization).
//
// Seeds are visited in order of descending interior score. Boundary points
// (missing any of the four links) cannot seed. Once the scan reaches a
// point at or below MinimumInterior it stops — every remaining point is
// weaker. Candidates are not deduplicated by geometry here; overlap
// handling belongs to the caller.
func growRectangles(g *pointGrid, cfg Config) ([]Rectangle, float64) {
	order := make([]int, len(g.points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return g.points[order[a]].Class.Interior > g.points[order[b]].Class.Interior
	})

	var rects []Rectangle
	var maxConf float64

	for _, idx := range order {
		seed := &g.points[idx]
		if seed.Class.Interior <= cfg.MinimumInterior {
			break
		}
		if !seed.linked() {
			continue
		}

		r := growFromSeed(g, cfg, idx)
		if r.Confidence > maxConf {
			maxConf = r.Confidence
		}
		rects = append(rects, r)
	}

	return rects, maxConf
}

// growFromSeed finds the rectangle anchored at one seed point: vertical
// growth locates the top and bottom edge rows, horizontal growth the left
// and right edge columns, and the confidence integrates classification
// scores over the resulting boundary and interior.
func growFromSeed(g *pointGrid, cfg Config, seedIdx int) Rectangle {
	seed := &g.points[seedIdx]

	topIdx := g.walkVertical(seedIdx, true)
	bottomIdx := g.walkVertical(seedIdx, false)
	leftIdx := g.walkLeft(seedIdx, topIdx, cfg)
	rightIdx := g.walkRight(seedIdx, bottomIdx, cfg)

	topRow := topIdx / g.cols
	bottomRow := bottomIdx / g.cols
	leftCol := leftIdx % g.cols
	rightCol := rightIdx % g.cols

	conf := g.integrate(topRow, bottomRow, leftCol, rightCol)

	return Rectangle{
		X:          seed.X,
		Y:          seed.Y,
		Width:      cfg.HorizontalSpacing,
		Height:     cfg.VerticalSpacing,
		Confidence: conf,
		Grown: Bounds{
			X1: g.points[topRow*g.cols+leftCol].X,
			Y1: g.points[topRow*g.cols+leftCol].Y,
			X2: g.points[topRow*g.cols+rightCol].X + cfg.HorizontalSpacing,
			Y2: g.points[bottomRow*g.cols+leftCol].Y + cfg.VerticalSpacing,
		},
	}
}

// walkVertical grows from the seed toward the top (up=true) or bottom edge.
//
// The walk continues while the next point still looks more like interior
// than like the terminating edge, and while including it does not drop the
// running average rate of accumulated moment — a greedy optimal-stopping
// rule rather than a fixed threshold. Implemented as an explicit loop so
// pathological inputs cannot grow the stack.
func (g *pointGrid) walkVertical(seedIdx int, up bool) int {
	cur := seedIdx
	sum := g.points[seedIdx].Class.Interior
	count := 1

	for {
		next := g.points[cur].Down
		if up {
			next = g.points[cur].Up
		}
		if next == noNeighbor {
			return cur
		}

		n := &g.points[next]
		val := n.Class.Interior - n.Class.BottomEdge
		if up {
			val = n.Class.Interior - n.Class.TopEdge
		}
		if val <= 0 {
			return cur
		}
		// Keep growing only while the candidate sustains the average.
		if val*float64(count) < sum {
			return cur
		}

		sum += val
		count++
		cur = next
	}
}

// walkLeft grows from the seed toward the left edge, advancing a corner
// pointer in lock-step along the already-found top edge row. The walk
// continues while the neighbor's interior evidence (plus the corner's top
// edge score and the configured bias) outweighs its left-edge/corner
// evidence.
func (g *pointGrid) walkLeft(seedIdx, topIdx int, cfg Config) int {
	cur := seedIdx
	corner := topIdx

	for {
		nextCur := g.points[cur].Left
		nextCorner := g.points[corner].Left
		if nextCur == noNeighbor || nextCorner == noNeighbor {
			return cur
		}

		l := &g.points[nextCur]
		tc := &g.points[corner]
		if l.Class.Interior+tc.Class.TopEdge+cfg.LeftEdgeBias <= l.Class.LeftEdge+tc.Class.NWCorner {
			return cur
		}

		cur = nextCur
		corner = nextCorner
	}
}

// walkRight mirrors walkLeft: it grows toward the right edge with the
// corner pointer tracking the bottom edge row.
func (g *pointGrid) walkRight(seedIdx, bottomIdx int, cfg Config) int {
	cur := seedIdx
	corner := bottomIdx

	for {
		nextCur := g.points[cur].Right
		nextCorner := g.points[corner].Right
		if nextCur == noNeighbor || nextCorner == noNeighbor {
			return cur
		}

		r := &g.points[nextCur]
		bc := &g.points[corner]
		if r.Class.Interior+bc.Class.BottomEdge+cfg.RightEdgeBias <= r.Class.RightEdge+bc.Class.SECorner {
			return cur
		}

		cur = nextCur
		corner = nextCorner
	}
}

// integrate sums classification scores over the rectangle: interior scores
// for inside cells, edge scores along the four borders, and the two corner
// scores, normalized by area times height (an area-normalized density).
func (g *pointGrid) integrate(topRow, bottomRow, leftCol, rightCol int) float64 {
	var total float64

	for r := topRow; r <= bottomRow; r++ {
		for c := leftCol; c <= rightCol; c++ {
			cl := &g.points[r*g.cols+c].Class
			onBorder := false
			if r == topRow {
				total += cl.TopEdge
				onBorder = true
			}
			if r == bottomRow {
				total += cl.BottomEdge
				onBorder = true
			}
			if c == leftCol {
				total += cl.LeftEdge
				onBorder = true
			}
			if c == rightCol {
				total += cl.RightEdge
				onBorder = true
			}
			if !onBorder {
				total += cl.Interior
			}
		}
	}

	total += g.points[topRow*g.cols+leftCol].Class.NWCorner
	total += g.points[bottomRow*g.cols+rightCol].Class.SECorner

	width := rightCol - leftCol + 1
	height := bottomRow - topRow + 1
	area := width * height

	return total / float64(area*height)
}
