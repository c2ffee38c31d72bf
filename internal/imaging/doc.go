// Package imaging handles everything between an image file on disk and the
// detection pipeline: loading and caching, preprocessing (downscale and
// pre-blur), region color analysis, cropping, and rendering detection
// results back onto the image.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner;
// X increases rightward and Y increases downward. Regions are inclusive at
// the top-left corner and exclusive at the bottom-right.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining operations are
// stateless functions over immutable inputs and can run concurrently.
//
// # Encoded Output
//
// Operations that produce an image (cropping, detection overlays) return it
// as a base64-encoded PNG rather than writing files, so results can travel
// over a JSON transport unchanged.
package imaging
