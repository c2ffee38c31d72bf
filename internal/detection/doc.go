// Package detection locates probable rectangular text regions in a raster
// image using purely geometric and statistical heuristics — no OCR engine,
// no trained model.
//
// The detector works on a caller-supplied RGBA pixel buffer and a Config of
// tuning parameters, and returns candidate rectangles with confidence scores
// in [0, 1].
//
// # Pipeline
//
// Detection is a fixed pipeline with no feedback loops:
//
//  1. Sample points are laid out on an evenly spaced lattice, margin-clipped
//     so that every ray fits inside the image.
//  2. From each point, 8 fixed-direction rays (N, NE, E, SE, S, SW, W, NW)
//     sample luminosity at regular intervals. Runs of same-signed deviation
//     from the ray's mean become "segments" — the discrete signature of a
//     glyph stroke crossing the ray.
//  3. Each point's 8 ray summaries reduce to a 7-component, L2-normalized
//     classification vector: interior, left/right/top/bottom edge, and
//     nw/se corner scores.
//  4. After every point is classified, points are linked into a 4-neighbor
//     grid (the pipeline's one synchronization barrier).
//  5. Starting from the strongest interior points, rectangles grow outward
//     along the linked grid using greedy running-average stopping rules,
//     and a confidence is integrated over the boundary and interior.
//  6. Confidences are rescaled into [0, 1] against the observed maximum and
//     weak candidates are dropped.
//
// # Strategies
//
// Two interchangeable strategies implement the Detector interface:
//
//   - StrategyRays (default): the ray-casting pipeline above.
//   - StrategyWindow: a sliding-window heuristic that compares average and
//     variance color vectors across consecutive windows. High variance change
//     with flat average luminosity is the signature of text on a stable
//     background. Window scores feed the same classification, linking, and
//     growth stages.
//
// Strategies are selected by Config.Strategy and never blended.
//
// # Determinism and Concurrency
//
// A detection call is a pure, synchronous computation over an immutable
// input: two calls with the same buffer and config produce bit-identical
// output. Per-point classification is parallelized internally across
// goroutines; no state persists between calls and the caller needs no
// synchronization beyond not mutating the buffer mid-call.
//
// # Errors
//
// Malformed input (buffer length not width*height*4, non-positive
// dimensions) yields an *InputError. An image too small to hold one full
// grid row or column is not an error — it produces an empty result.
// Numeric edge cases are handled by epsilon terms baked into the formulas;
// no division by zero is reachable.
package detection
