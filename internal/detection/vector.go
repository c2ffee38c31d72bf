package detection

// Perceptual luminosity weights (ITU-R BT.709).
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// Vec is a 3-component color vector (R, G, B). Components are normalized to
// [0, 1] when sampled from a pixel buffer, but Vec arithmetic itself places
// no range restriction. All operations are pure value operations.
type Vec struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Add returns the componentwise sum v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{v.R + o.R, v.G + o.G, v.B + o.B}
}

// Sub returns the componentwise difference v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{v.R - o.R, v.G - o.G, v.B - o.B}
}

// Scale returns v with every component multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v.R * s, v.G * s, v.B * s}
}

// Mul returns the elementwise (Hadamard) product of v and o.
func (v Vec) Mul(o Vec) Vec {
	return Vec{v.R * o.R, v.G * o.G, v.B * o.B}
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.R*o.R + v.G*o.G + v.B*o.B
}

// Luminosity returns the perceptual brightness of v using fixed weights
// (0.2126, 0.7152, 0.0722).
func (v Vec) Luminosity() float64 {
	return v.R*lumR + v.G*lumG + v.B*lumB
}
