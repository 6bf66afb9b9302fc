// Package geom holds the rotation and vector helpers shared by the probe,
// the climbing core and the reference movement host. Vectors are mgl64.Vec3
// with Z up; rotations are Euler angles in degrees.
package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/common"
)

const rotatorTolerance = 1e-4

// Rotator is an orientation expressed as pitch (around Y, nose up positive),
// yaw (around Z) and roll (around X), all in degrees.
type Rotator struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

// Rot is shorthand for Rotator{pitch, yaw, roll}.
func Rot(pitch, yaw, roll float64) Rotator {
	return Rotator{Pitch: pitch, Yaw: yaw, Roll: roll}
}

func (r Rotator) String() string {
	return fmt.Sprintf("P=%.2f Y=%.2f R=%.2f", r.Pitch, r.Yaw, r.Roll)
}

// NormalizeAxis maps an angle into (-180, 180].
func NormalizeAxis(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	if angle > 180 {
		angle -= 360
	}
	return angle
}

// Normalized returns r with every axis in (-180, 180].
func (r Rotator) Normalized() Rotator {
	return Rotator{
		Pitch: NormalizeAxis(r.Pitch),
		Yaw:   NormalizeAxis(r.Yaw),
		Roll:  NormalizeAxis(r.Roll),
	}
}

func (r Rotator) Add(o Rotator) Rotator {
	return Rotator{Pitch: r.Pitch + o.Pitch, Yaw: r.Yaw + o.Yaw, Roll: r.Roll + o.Roll}
}

func (r Rotator) Sub(o Rotator) Rotator {
	return Rotator{Pitch: r.Pitch - o.Pitch, Yaw: r.Yaw - o.Yaw, Roll: r.Roll - o.Roll}
}

func (r Rotator) Scale(s float64) Rotator {
	return Rotator{Pitch: r.Pitch * s, Yaw: r.Yaw * s, Roll: r.Roll * s}
}

// Equal compares two rotators axis by axis after normalization.
func (r Rotator) Equal(o Rotator, tolerance float64) bool {
	d := r.Sub(o).Normalized()
	return math.Abs(d.Pitch) <= tolerance && math.Abs(d.Yaw) <= tolerance && math.Abs(d.Roll) <= tolerance
}

// IsNearlyZero reports whether every axis is within tolerance of zero.
func (r Rotator) IsNearlyZero(tolerance float64) bool {
	return r.Equal(Rotator{}, tolerance)
}

// YawOnly drops pitch and roll.
func (r Rotator) YawOnly() Rotator {
	return Rotator{Yaw: r.Yaw}
}

func (r Rotator) sinCos() (sp, cp, sy, cy, sr, cr float64) {
	sp, cp = math.Sincos(mgl64.DegToRad(r.Pitch))
	sy, cy = math.Sincos(mgl64.DegToRad(r.Yaw))
	sr, cr = math.Sincos(mgl64.DegToRad(r.Roll))
	return
}

// Forward is the X axis of the rotation matrix.
func (r Rotator) Forward() mgl64.Vec3 {
	sp, cp, sy, cy, _, _ := r.sinCos()
	return mgl64.Vec3{cp * cy, cp * sy, sp}
}

// Right is the Y axis of the rotation matrix.
func (r Rotator) Right() mgl64.Vec3 {
	sp, cp, sy, cy, sr, cr := r.sinCos()
	return mgl64.Vec3{sr*sp*cy - cr*sy, sr*sp*sy + cr*cy, -sr * cp}
}

// Up is the Z axis of the rotation matrix.
func (r Rotator) Up() mgl64.Vec3 {
	sp, cp, sy, cy, sr, cr := r.sinCos()
	return mgl64.Vec3{-(cr*sp*cy + sr*sy), cy*sr - cr*sp*sy, cr * cp}
}

// Quat converts the rotator to a quaternion: yaw about Z, then pitch, then
// roll, matching the Forward/Right/Up basis.
func (r Rotator) Quat() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(r.Yaw), mgl64.Vec3{0, 0, 1})
	pitch := mgl64.QuatRotate(-mgl64.DegToRad(r.Pitch), mgl64.Vec3{0, 1, 0})
	roll := mgl64.QuatRotate(-mgl64.DegToRad(r.Roll), mgl64.Vec3{1, 0, 0})
	return yaw.Mul(pitch).Mul(roll)
}

// MakeRotFromX builds the rotator whose forward axis points along x. Roll is
// always zero.
func MakeRotFromX(x mgl64.Vec3) Rotator {
	yaw := mgl64.RadToDeg(math.Atan2(x.Y(), x.X()))
	pitch := mgl64.RadToDeg(math.Atan2(x.Z(), math.Hypot(x.X(), x.Y())))
	return Rotator{Pitch: pitch, Yaw: yaw}
}

// RInterpTo moves current toward target along the shortest path on every
// axis. The step is proportional to the remaining delta, clamped so it never
// overshoots.
func RInterpTo(current, target Rotator, dt, speed float64) Rotator {
	if dt == 0 || current.Equal(target, 0) {
		return current
	}
	if speed <= 0 {
		return target
	}
	delta := target.Sub(current).Normalized()
	if delta.IsNearlyZero(rotatorTolerance) {
		return target
	}
	step := common.Clamp(dt*speed, 0, 1)
	return current.Add(delta.Scale(step)).Normalized()
}

// RLerp interpolates between a and b along the shortest path.
func RLerp(a, b Rotator, alpha float64) Rotator {
	delta := b.Sub(a).Normalized()
	return a.Add(delta.Scale(alpha)).Normalized()
}
