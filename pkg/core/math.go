package core

import (
	"github.com/chewxy/math32"
)

// OneMinusEpsilon is the largest float32 strictly below one.
const OneMinusEpsilon float32 = 0x1.fffffep-1

// AngleBetween returns the angle between a and b in [0, pi]. It stays
// accurate for nearly parallel vectors, where acos of the dot product loses
// most of its precision in float32. The angle to a zero vector is zero.
func AngleBetween(a, b Vec3) float32 {
	return math32.Atan2(a.Cross(b).Length(), a.Dot(b))
}

// ClampUnit clamps u into [0, 1).
func ClampUnit(u float32) float32 {
	if u < 0 {
		return 0
	}
	return min(u, OneMinusEpsilon)
}

// IsFinite reports whether x is neither NaN nor infinite
func IsFinite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// SmoothStep is the cubic Hermite interpolation of x between edge0 and edge1
func SmoothStep(edge0, edge1, x float32) float32 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	t = max(0, min(1, t))
	return t * t * (3 - 2*t)
}
