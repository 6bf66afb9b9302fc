// Package planar answers sweeps against a Chipmunk space built from a level's
// side view. World X maps to space X and world Z maps to space Y; the depth
// axis is ignored, so every solid is treated as infinitely deep.
package planar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wallclimb/levels"
	"github.com/milk9111/wallclimb/logger"
	"github.com/milk9111/wallclimb/probe"
	"go.uber.org/zap"
)

const overlapSlop = 1e-6

// World owns the Chipmunk space and static level shapes.
type World struct {
	level *levels.Level
	space *cp.Space
	log   *zap.Logger
}

// NewWorld creates a planar world for a level.
func NewWorld(level *levels.Level, log *zap.Logger) *World {
	log = logger.OrNop(log)
	space := cp.NewSpace()
	space.Iterations = 20

	w := &World{level: level, space: space, log: log}
	w.buildStaticShapes()
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Level() *levels.Level {
	if w == nil {
		return nil
	}
	return w.level
}

func (w *World) buildStaticShapes() {
	if w.level == nil {
		return
	}
	static := w.space.StaticBody
	rects := w.level.SolidRects()
	for _, r := range rects {
		bb := cp.BB{L: r.X0, B: r.Z0, R: r.X1, T: r.Z1}
		shape := cp.NewBox2(static, bb, 0)
		shape.SetFriction(0.8)
		w.space.AddShape(shape)
	}
	// Panels that run along the depth axis show up as segments in the side
	// view. Their single-sidedness is lost here.
	panels := 0
	for _, p := range w.level.Panels {
		n := mgl64.Vec3(p.Normal)
		if math.Abs(n.Y()) > 1e-6 {
			continue
		}
		side := mgl64.Vec3{0, 1, 0}.Cross(n).Normalize()
		c := mgl64.Vec3(p.Center)
		a := c.Sub(side.Mul(p.HalfV))
		b := c.Add(side.Mul(p.HalfV))
		shape := cp.NewSegment(static, toSpace(a), toSpace(b), 0)
		w.space.AddShape(shape)
		panels++
	}
	w.log.Debug("planar world built", zap.Int("boxes", len(rects)), zap.Int("panels", panels))
}

// Sweep implements probe.World. Capsules sweep a column of circles along
// their core; boxes sweep a circle of their largest planar half extent.
func (w *World) Sweep(shape probe.Shape, start, end mgl64.Vec3, _ probe.Channel) (probe.SurfaceHit, bool) {
	if w == nil || w.space == nil {
		return probe.SurfaceHit{}, false
	}
	radius, offsets := footprint(shape)
	d := end.Sub(start)
	dv := toSpace(d)
	moving := dv.Length() > overlapSlop

	best := probe.SurfaceHit{Time: math.Inf(1)}
	found := false
	for _, off := range offsets {
		a := toSpace(start).Add(cp.Vector{Y: off})

		// Chipmunk does not report shapes a query starts inside of.
		var leaving *cp.Shape
		near := w.space.PointQueryNearest(a, radius, cp.SHAPE_FILTER_ALL)
		if near != nil && near.Shape != nil && near.Distance < radius-overlapSlop {
			leaving = near.Shape
			if !moving || dv.Dot(near.Gradient) < 0 {
				if 0 < best.Time {
					best = probe.SurfaceHit{
						Location:    start,
						ImpactPoint: fromSpace(near.Point, start.Y()),
						Normal:      fromSpace(near.Gradient, 0),
						Time:        0,
					}
					found = true
				}
				continue
			}
		}
		if !moving {
			continue
		}

		info := w.firstHit(a, a.Add(dv), radius, leaving)
		if info.Shape == nil || info.Alpha >= best.Time {
			continue
		}
		loc := start.Add(d.Mul(info.Alpha))
		best = probe.SurfaceHit{
			Location:    loc,
			ImpactPoint: fromSpace(info.Point, loc.Y()),
			Normal:      fromSpace(info.Normal, 0),
			Time:        info.Alpha,
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

// firstHit is SegmentQueryFirst ignoring skip, a shape the query starts
// inside of and moves away from.
func (w *World) firstHit(a, b cp.Vector, radius float64, skip *cp.Shape) cp.SegmentQueryInfo {
	if skip == nil {
		return w.space.SegmentQueryFirst(a, b, radius, cp.SHAPE_FILTER_ALL)
	}
	info := cp.SegmentQueryInfo{Point: b, Alpha: 1}
	w.space.SegmentQuery(a, b, radius, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, _ interface{}) {
		if shape == skip || (info.Shape != nil && alpha >= info.Alpha) {
			return
		}
		info = cp.SegmentQueryInfo{Shape: shape, Point: point, Normal: normal, Alpha: alpha}
	}, nil)
	return info
}

// footprint is the circle radius and the vertical offsets of the circle
// centres that cover the shape's side view.
func footprint(shape probe.Shape) (float64, []float64) {
	if shape.Kind != probe.ShapeCapsule {
		ext := shape.Extent()
		return math.Max(ext.X(), ext.Z()), []float64{0}
	}
	r := shape.Radius
	core := shape.HalfHeight - r
	if core <= 0 || r <= 0 {
		return r, []float64{0}
	}
	n := int(math.Ceil(2*core/r)) + 1
	offsets := make([]float64, n)
	for i := range offsets {
		offsets[i] = -core + 2*core*float64(i)/float64(n-1)
	}
	return r, offsets
}

func toSpace(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}

func fromSpace(v cp.Vector, y float64) mgl64.Vec3 {
	return mgl64.Vec3{v.X, y, v.Y}
}
