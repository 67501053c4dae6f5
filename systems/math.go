package systems

import "math"

// Small float32 helpers shared by the systems' hot paths.

// clampf clamps a float32 value between lo and hi.
func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// minf returns the smaller of two float32 values.
func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// maxf returns the larger of two float32 values.
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// sqrtf is float32 square root.
func sqrtf(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
