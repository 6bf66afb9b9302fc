package probe

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCapsule
)

// wallBoxExtent is the half extent of the near-zero box used for ray-like
// wall sweeps.
const wallBoxExtent = 0.01

// Shape is the volume swept through the world. Capsules are always upright
// (their axis is world Z).
type Shape struct {
	Kind       ShapeKind
	HalfExtent mgl64.Vec3
	Radius     float64
	HalfHeight float64
}

func Box(halfExtent mgl64.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtent: halfExtent}
}

// WallBox is the tiny box used for directional probes.
func WallBox() Shape {
	return Box(mgl64.Vec3{wallBoxExtent, wallBoxExtent, wallBoxExtent})
}

// Capsule returns an upright capsule. halfHeight includes the hemispherical
// caps and is clamped to at least radius.
func Capsule(radius, halfHeight float64) Shape {
	if halfHeight < radius {
		halfHeight = radius
	}
	return Shape{Kind: ShapeCapsule, Radius: radius, HalfHeight: halfHeight}
}

// Extent is the half size of the shape's axis-aligned bounds.
func (s Shape) Extent() mgl64.Vec3 {
	if s.Kind == ShapeCapsule {
		return mgl64.Vec3{s.Radius, s.Radius, s.HalfHeight}
	}
	return s.HalfExtent
}

func (s Shape) String() string {
	if s.Kind == ShapeCapsule {
		return fmt.Sprintf("capsule(r=%.2f hh=%.2f)", s.Radius, s.HalfHeight)
	}
	return fmt.Sprintf("box(%.2f,%.2f,%.2f)", s.HalfExtent.X(), s.HalfExtent.Y(), s.HalfExtent.Z())
}
