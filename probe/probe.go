// Package probe issues swept-shape queries against a collision world and
// turns them into surface hits for the climbing core.
package probe

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/geom"
	"github.com/milk9111/wallclimb/logger"
	"go.uber.org/zap"
)

const (
	traceLifetime   = 0.3
	capsuleLifetime = 2.0
)

var (
	ColorAttach   = color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
	ColorLateral  = color.RGBA{R: 0x80, G: 0x00, B: 0x80, A: 0xff}
	ColorForward  = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	ColorVault    = color.RGBA{R: 0x50, G: 0xc8, B: 0x78, A: 0xff}
	ColorMovement = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
)

// Probe sweeps shapes through an injected collision world.
type Probe struct {
	world  World
	drawer Drawer
	log    *zap.Logger
}

// New returns a probe over world. drawer and log may be nil.
func New(world World, drawer Drawer, log *zap.Logger) *Probe {
	return &Probe{world: world, drawer: drawer, log: logger.OrNop(log)}
}

// SetDrawer swaps the debug drawer; nil disables visualisation.
func (p *Probe) SetDrawer(d Drawer) {
	p.drawer = d
}

// Sweep returns the first blocking hit of shape moving from start to end on
// the visibility channel, or a no-hit result.
func (p *Probe) Sweep(start, end mgl64.Vec3, shape Shape) SurfaceHit {
	return p.SweepChannel(start, end, shape, Visibility)
}

// SweepChannel is Sweep on an explicit channel.
func (p *Probe) SweepChannel(start, end mgl64.Vec3, shape Shape, channel Channel) SurfaceHit {
	if p == nil || p.world == nil {
		return Miss(start, end)
	}
	hit, ok := p.world.Sweep(shape, start, end, channel)
	if !ok {
		return Miss(start, end)
	}
	hit.Blocking = true
	hit.TraceStart = start
	hit.TraceEnd = end
	hit.Normal = geom.SafeNormal(hit.Normal)
	if p.log.Core().Enabled(zap.DebugLevel) {
		p.log.Debug("sweep hit",
			zap.Stringer("shape", shape),
			zap.Float64("time", hit.Time),
			zap.Float64s("normal", hit.Normal[:]),
		)
	}
	return hit
}

// Wall sweeps the near-zero wall box and draws the trace.
func (p *Probe) Wall(start, end mgl64.Vec3, c color.Color) SurfaceHit {
	if p != nil && p.drawer != nil {
		p.drawer.Line(start, end, c, traceLifetime)
	}
	return p.Sweep(start, end, WallBox())
}

// Clearance checks whether a capsule fits at center.
func (p *Probe) Clearance(center mgl64.Vec3, radius, halfHeight float64) SurfaceHit {
	if p != nil && p.drawer != nil {
		p.drawer.Capsule(center, radius, halfHeight, ColorVault, capsuleLifetime)
	}
	return p.Sweep(center, center, Capsule(radius, halfHeight))
}
