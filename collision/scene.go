// Package collision is a small static 3D world of boxes and slanted panels
// that answers swept-shape queries for the probe.
package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/geom"
	"github.com/milk9111/wallclimb/levels"
	"github.com/milk9111/wallclimb/probe"
)

const epsilon = 1e-9

// Box is a solid axis-aligned box.
type Box struct {
	Min, Max mgl64.Vec3
}

// Center of the box.
func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box) expand(e mgl64.Vec3) Box {
	return Box{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

func (b Box) contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] <= b.Min[i] || p[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

// Panel is a single-sided rectangle. Only its front (the side Normal points
// to) blocks.
type Panel struct {
	Center       mgl64.Vec3
	Normal       mgl64.Vec3
	U, V         mgl64.Vec3
	HalfU, HalfV float64
}

// NewPanel builds a panel from a centre, normal and in-plane direction u.
// V is derived so that (U, V, Normal) is right-handed.
func NewPanel(center, normal, u mgl64.Vec3, halfU, halfV float64) Panel {
	n := geom.SafeNormal(normal)
	u = geom.SafeNormal(u.Sub(n.Mul(u.Dot(n))))
	return Panel{
		Center: center,
		Normal: n,
		U:      u,
		V:      n.Cross(u),
		HalfU:  halfU,
		HalfV:  halfV,
	}
}

// Corners returns the four panel corners in winding order.
func (p Panel) Corners() [4]mgl64.Vec3 {
	u := p.U.Mul(p.HalfU)
	v := p.V.Mul(p.HalfV)
	return [4]mgl64.Vec3{
		p.Center.Sub(u).Sub(v),
		p.Center.Add(u).Sub(v),
		p.Center.Add(u).Add(v),
		p.Center.Sub(u).Add(v),
	}
}

// Scene holds static geometry. Every channel sees all geometry.
type Scene struct {
	boxes  []Box
	panels []Panel
}

func NewScene() *Scene {
	return &Scene{}
}

// FromLevel extrudes a level's solid tiles along world Y and adds its panels.
func FromLevel(lvl *levels.Level) *Scene {
	s := NewScene()
	if lvl == nil {
		return s
	}
	half := lvl.Depth / 2
	for _, r := range lvl.SolidRects() {
		s.AddBox(mgl64.Vec3{r.X0, -half, r.Z0}, mgl64.Vec3{r.X1, half, r.Z1})
	}
	for _, p := range lvl.Panels {
		s.AddPanel(NewPanel(mgl64.Vec3(p.Center), mgl64.Vec3(p.Normal), mgl64.Vec3(p.U), p.HalfU, p.HalfV))
	}
	return s
}

// AddBox adds a box spanning the two corners in any order.
func (s *Scene) AddBox(a, b mgl64.Vec3) {
	var box Box
	for i := 0; i < 3; i++ {
		box.Min[i] = math.Min(a[i], b[i])
		box.Max[i] = math.Max(a[i], b[i])
	}
	s.boxes = append(s.boxes, box)
}

func (s *Scene) AddPanel(p Panel) {
	s.panels = append(s.panels, p)
}

func (s *Scene) Boxes() []Box {
	return s.boxes
}

func (s *Scene) Panels() []Panel {
	return s.panels
}

// Sweep moves the bounds of shape from start to end and reports the earliest
// blocking contact. Capsules are swept as their bounding box. A zero-length
// sweep is an overlap test.
func (s *Scene) Sweep(shape probe.Shape, start, end mgl64.Vec3, _ probe.Channel) (probe.SurfaceHit, bool) {
	if s == nil {
		return probe.SurfaceHit{}, false
	}
	ext := shape.Extent()
	d := end.Sub(start)

	best := probe.SurfaceHit{Time: math.Inf(1)}
	found := false
	for _, b := range s.boxes {
		t, n, ok := sweepBox(b.expand(ext), start, d)
		if !ok || t >= best.Time {
			continue
		}
		loc := start.Add(d.Mul(t))
		best = probe.SurfaceHit{
			Location:    loc,
			ImpactPoint: clampToBox(loc, b),
			Normal:      n,
			Time:        t,
		}
		found = true
	}
	for _, p := range s.panels {
		t, ok := sweepPanel(p, ext, start, d)
		if !ok || t >= best.Time {
			continue
		}
		loc := start.Add(d.Mul(t))
		best = probe.SurfaceHit{
			Location:    loc,
			ImpactPoint: p.closestPoint(loc),
			Normal:      p.Normal,
			Time:        t,
		}
		found = true
	}
	if !found {
		return probe.SurfaceHit{}, false
	}
	best.Blocking = true
	best.TraceStart = start
	best.TraceEnd = end
	return best, true
}

// sweepBox intersects the ray start + d*t, t in [0,1], with an already
// expanded box.
func sweepBox(b Box, start, d mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	if d.Len() < epsilon {
		if !b.contains(start) {
			return 0, mgl64.Vec3{}, false
		}
		return 0, penetrationNormal(b, start), true
	}

	tEnter, tExit := math.Inf(-1), math.Inf(1)
	var normal mgl64.Vec3
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < epsilon {
			if start[i] <= b.Min[i] || start[i] >= b.Max[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (b.Min[i] - start[i]) * inv
		t2 := (b.Max[i] - start[i]) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tEnter {
			tEnter = t1
			normal = mgl64.Vec3{}
			normal[i] = sign
		}
		tExit = math.Min(tExit, t2)
		if tEnter >= tExit {
			return 0, mgl64.Vec3{}, false
		}
	}
	if tExit <= 0 || tEnter > 1 {
		return 0, mgl64.Vec3{}, false
	}
	if tEnter < 0 {
		// Started inside. Moving out is free.
		n := penetrationNormal(b, start)
		if d.Dot(n) >= 0 {
			return 0, mgl64.Vec3{}, false
		}
		return 0, n, true
	}
	return tEnter, normal, true
}

// penetrationNormal is the outward normal of the face nearest to p.
func penetrationNormal(b Box, p mgl64.Vec3) mgl64.Vec3 {
	best := math.Inf(1)
	var n mgl64.Vec3
	for i := 0; i < 3; i++ {
		if depth := p[i] - b.Min[i]; depth < best {
			best = depth
			n = mgl64.Vec3{}
			n[i] = -1
		}
		if depth := b.Max[i] - p[i]; depth < best {
			best = depth
			n = mgl64.Vec3{}
			n[i] = 1
		}
	}
	return n
}

func clampToBox(p mgl64.Vec3, b Box) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		p[i] = math.Max(b.Min[i], math.Min(b.Max[i], p[i]))
	}
	return p
}

// support is how far a box of half size ext reaches along n.
func support(n, ext mgl64.Vec3) float64 {
	return math.Abs(n.X())*ext.X() + math.Abs(n.Y())*ext.Y() + math.Abs(n.Z())*ext.Z()
}

func sweepPanel(p Panel, ext, start, d mgl64.Vec3) (float64, bool) {
	s := support(p.Normal, ext)
	dist := start.Sub(p.Center).Dot(p.Normal)
	dn := d.Dot(p.Normal)

	var t float64
	switch {
	case dist >= s:
		if dn >= -epsilon {
			return 0, false
		}
		t = (dist - s) / -dn
		if t > 1 {
			return 0, false
		}
	case dist > -s:
		// Already touching the panel. Only approaching motion or an overlap
		// test is blocked.
		if d.Len() >= epsilon && dn >= 0 {
			return 0, false
		}
		t = 0
	default:
		return 0, false
	}

	at := start.Add(d.Mul(t)).Sub(p.Center)
	su := support(p.U, ext)
	sv := support(p.V, ext)
	if math.Abs(at.Dot(p.U)) > p.HalfU+su || math.Abs(at.Dot(p.V)) > p.HalfV+sv {
		return 0, false
	}
	return t, true
}

func (p Panel) closestPoint(q mgl64.Vec3) mgl64.Vec3 {
	rel := q.Sub(p.Center)
	u := math.Max(-p.HalfU, math.Min(p.HalfU, rel.Dot(p.U)))
	v := math.Max(-p.HalfV, math.Min(p.HalfV, rel.Dot(p.V)))
	return p.Center.Add(p.U.Mul(u)).Add(p.V.Mul(v))
}
