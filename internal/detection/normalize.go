package detection

import "math"

// normalizeResults rescales candidate confidences into [0, 1] against the
// observed maximum (log-dampened so a single outlier does not crush the
// rest of the field), then drops candidates below the configured floor.
// When there are no candidates, or the maximum is zero, normalization is
// skipped entirely.
//
// The result is always a non-nil slice, so empty results serialize as an
// empty list rather than null. Survivors keep their generation order;
// callers may sort by confidence for presentation.
func normalizeResults(rects []Rectangle, maxConf float64, cfg Config) []Rectangle {
	out := make([]Rectangle, 0, len(rects))
	if len(rects) == 0 || maxConf <= 0 {
		return out
	}

	logMax := math.Log1p(maxConf)
	for _, r := range rects {
		r.Confidence = math.Log1p(r.Confidence) / logMax
		if r.Confidence < cfg.MinimumConfidence {
			continue
		}
		out = append(out, r)
	}
	return out
}
