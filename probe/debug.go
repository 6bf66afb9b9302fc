package probe

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Drawer receives debug visualisation of sweeps. Implementations must not
// affect the sweep result.
type Drawer interface {
	Line(start, end mgl64.Vec3, c color.Color, lifetime float64)
	Capsule(center mgl64.Vec3, radius, halfHeight float64, c color.Color, lifetime float64)
}

// DebugPrimitive is one line or capsule held by DebugLines.
type DebugPrimitive struct {
	Start      mgl64.Vec3
	End        mgl64.Vec3
	Capsule    bool
	Radius     float64
	HalfHeight float64
	Color      color.Color
	Remaining  float64
}

// DebugLines keeps debug primitives alive for their lifetime.
type DebugLines struct {
	items []DebugPrimitive
	max   int
}

// NewDebugLines bounds the buffer to max primitives; older ones are dropped.
func NewDebugLines(max int) *DebugLines {
	if max <= 0 {
		max = 256
	}
	return &DebugLines{max: max}
}

func (d *DebugLines) Line(start, end mgl64.Vec3, c color.Color, lifetime float64) {
	d.push(DebugPrimitive{Start: start, End: end, Color: c, Remaining: lifetime})
}

func (d *DebugLines) Capsule(center mgl64.Vec3, radius, halfHeight float64, c color.Color, lifetime float64) {
	d.push(DebugPrimitive{Start: center, End: center, Capsule: true, Radius: radius, HalfHeight: halfHeight, Color: c, Remaining: lifetime})
}

func (d *DebugLines) push(p DebugPrimitive) {
	if d == nil {
		return
	}
	if len(d.items) >= d.max {
		copy(d.items, d.items[1:])
		d.items = d.items[:len(d.items)-1]
	}
	d.items = append(d.items, p)
}

// Tick ages every primitive and drops expired ones.
func (d *DebugLines) Tick(dt float64) {
	if d == nil {
		return
	}
	kept := d.items[:0]
	for _, p := range d.items {
		p.Remaining -= dt
		if p.Remaining > 0 {
			kept = append(kept, p)
		}
	}
	d.items = kept
}

func (d *DebugLines) Each(fn func(p DebugPrimitive)) {
	if d == nil {
		return
	}
	for _, p := range d.items {
		fn(p)
	}
}

func (d *DebugLines) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}
