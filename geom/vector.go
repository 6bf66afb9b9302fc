package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/common"
)

const smallNumber = 1e-8

// SafeNormal returns v normalized, or the zero vector when v is too short.
func SafeNormal(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < smallNumber {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// DirectionUnit is the unit vector pointing from -> to.
func DirectionUnit(from, to mgl64.Vec3) mgl64.Vec3 {
	return SafeNormal(to.Sub(from))
}

// AngleBetweenDeg returns the absolute angle between a and b in degrees.
// Zero-length inputs count as perpendicular.
func AngleBetweenDeg(a, b mgl64.Vec3) float64 {
	d := common.Clamp(SafeNormal(a).Dot(SafeNormal(b)), -1, 1)
	return math.Abs(mgl64.RadToDeg(math.Acos(d)))
}

// Horizontal drops the Z component.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), v.Y(), 0}
}

// ClampLen limits the length of v to max.
func ClampLen(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l <= max || l < smallNumber {
		return v
	}
	return v.Mul(max / l)
}

// NearlyEqual compares two vectors component-wise.
func NearlyEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) <= tolerance &&
		math.Abs(a.Y()-b.Y()) <= tolerance &&
		math.Abs(a.Z()-b.Z()) <= tolerance
}

// LerpVec interpolates linearly between a and b.
func LerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
