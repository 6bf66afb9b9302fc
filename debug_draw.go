package main

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wallclimb/collision"
	"github.com/milk9111/wallclimb/common"
	"github.com/milk9111/wallclimb/probe"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// view maps the side view (world X right, world Z up) to the screen, centred
// on the camera.
type view struct {
	camX, camZ float64
	zoom       float64
}

func (v view) toScreen(x, z float64) (float32, float32) {
	sx := (x-v.camX)*v.zoom + common.BaseWidth/2
	sy := common.BaseHeight/2 - (z-v.camZ)*v.zoom
	return float32(sx), float32(sy)
}

func (v view) line(screen *ebiten.Image, a, b mgl64.Vec3, c color.Color) {
	x1, y1 := v.toScreen(a.X(), a.Z())
	x2, y2 := v.toScreen(b.X(), b.Z())
	vector.StrokeLine(screen, x1, y1, x2, y2, 1, c, true)
}

// capsule outlines a capsule seen from the side.
func (v view) capsule(screen *ebiten.Image, center mgl64.Vec3, r, hh float64, c color.Color) {
	core := math.Max(hh-r, 0)
	top := center.Add(mgl64.Vec3{0, 0, core})
	bottom := center.Sub(mgl64.Vec3{0, 0, core})
	v.line(screen, top.Add(mgl64.Vec3{-r, 0, 0}), bottom.Add(mgl64.Vec3{-r, 0, 0}), c)
	v.line(screen, top.Add(mgl64.Vec3{r, 0, 0}), bottom.Add(mgl64.Vec3{r, 0, 0}), c)
	v.arc(screen, top, r, 0, math.Pi, c)
	v.arc(screen, bottom, r, math.Pi, 2*math.Pi, c)
}

func (v view) arc(screen *ebiten.Image, center mgl64.Vec3, r, from, to float64, c color.Color) {
	steps := debugCircleSegments / 2
	prev := center.Add(mgl64.Vec3{math.Cos(from) * r, 0, math.Sin(from) * r})
	for i := 1; i <= steps; i++ {
		th := from + (to-from)*float64(i)/float64(steps)
		cur := center.Add(mgl64.Vec3{math.Cos(th) * r, 0, math.Sin(th) * r})
		v.line(screen, prev, cur, c)
		prev = cur
	}
}

// debugLines draws the live probe traces and vault clearance capsules.
func (v view) debugLines(screen *ebiten.Image, d *probe.DebugLines) {
	d.Each(func(p probe.DebugPrimitive) {
		if p.Capsule {
			v.capsule(screen, p.Start, p.Radius, p.HalfHeight, p.Color)
			return
		}
		v.line(screen, p.Start, p.End, p.Color)
	})
}

// panels draws the slanted scene panels as their side-view outline.
func (v view) panels(screen *ebiten.Image, s *collision.Scene, c color.Color) {
	if s == nil {
		return
	}
	for _, p := range s.Panels() {
		corners := p.Corners()
		for i := range corners {
			v.line(screen, corners[i], corners[(i+1)%len(corners)], c)
		}
	}
}

// spaceDrawer renders a Chipmunk space through the view.
type spaceDrawer struct {
	screen *ebiten.Image
	view   view
}

func drawSpace(space *cp.Space, screen *ebiten.Image, v view) {
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &spaceDrawer{screen: screen, view: v})
}

func (d *spaceDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *spaceDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *spaceDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *spaceDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *spaceDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *spaceDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *spaceDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
}

func (d *spaceDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
}

func (d *spaceDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *spaceDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *spaceDrawer) Data() interface{} {
	return nil
}

func (d *spaceDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.view.toScreen(a.X, a.Y)
	x2, y2 := d.view.toScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, toNRGBA(c), true)
}

func (d *spaceDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *spaceDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
