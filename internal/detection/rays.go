package detection

import "math"

// The 8 ray directions, clockwise from north. The horizontal component is
// stretched by Config.RayAspect at sampling time; the table stores unit
// steps only.
const rayCount = 8

const (
	rayN = iota
	rayNE
	rayE
	raySE
	rayS
	raySW
	rayW
	rayNW
)

var rayDirs = [rayCount]struct{ dx, dy int }{
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
}

// segmentNoiseFloor is the minimum accumulated deviation (in normalized
// luminosity units) for a segment to count as a real moment rather than
// sensor noise.
const segmentNoiseFloor = 0.025

// analyzeRays casts all 8 rays from the point and fills in its segment
// lists and ray summaries. The point's coordinates are guaranteed to sit
// inside the grid margin, so every sample is in bounds.
func analyzeRays(buf *PixelBuffer, cfg Config, p *SamplePoint) {
	var samples [rayCount][]float64
	for d := 0; d < rayCount; d++ {
		samples[d] = sampleRay(buf, cfg, p.X, p.Y, d)
	}
	for d := 0; d < rayCount; d++ {
		p.Segments[d] = extractSegments(samples[d])
		p.Rays[d] = summarizeSegments(p.Segments[d])
	}
}

// sampleRay collects RaySteps luminosity samples along one direction,
// spaced RayInterval pixels apart, starting one interval away from the
// origin point.
func sampleRay(buf *PixelBuffer, cfg Config, x, y, dir int) []float64 {
	d := rayDirs[dir]
	stepX := d.dx * cfg.RayInterval * cfg.RayAspect
	stepY := d.dy * cfg.RayInterval
	out := make([]float64, cfg.RaySteps)
	for i := 0; i < cfg.RaySteps; i++ {
		out[i] = buf.luminosity(x+stepX*(i+1), y+stepY*(i+1))
	}
	return out
}

// extractSegments converts a ray's luminosity samples into segments: maximal
// runs of same-signed deviation from the ray's mean.
//
// A running signed subtotal accumulates deviations while their sign agrees
// with the subtotal's; a sign flip closes the segment, which is recorded
// only if its magnitude clears the noise floor. The final in-progress
// segment is discarded — it was never confirmed by a second sign crossing.
func extractSegments(samples []float64) []Segment {
	if len(samples) == 0 {
		return nil
	}

	var mean float64
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	var segs []Segment
	var subtotal float64
	count := 0

	for i, s := range samples {
		dev := s - mean
		if count == 0 || subtotal*dev >= 0 {
			subtotal += dev
			count++
			continue
		}

		if v := math.Abs(subtotal); v > segmentNoiseFloor {
			segs = append(segs, Segment{Value: v, Position: i, Length: count})
		}
		subtotal = dev
		count = 1
	}

	return segs
}

// summarizeSegments reduces a segment list to its magnitude (sum of
// value/length, the average deviation rate) and distance (length-weighted
// mean position along the ray).
func summarizeSegments(segs []Segment) RaySummary {
	var s RaySummary
	if len(segs) == 0 {
		return s
	}

	var weighted float64
	var totalLen int
	for _, seg := range segs {
		s.Magnitude += seg.Value / float64(seg.Length)
		weighted += float64(seg.Position * seg.Length)
		totalLen += seg.Length
	}
	s.Distance = weighted / float64(totalLen)
	return s
}
