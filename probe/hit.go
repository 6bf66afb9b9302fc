package probe

import "github.com/go-gl/mathgl/mgl64"

// Channel selects the collision layer a sweep is tested against.
type Channel uint8

const (
	Visibility Channel = iota
	WorldStatic
)

// SurfaceHit is the result of one sweep. When Blocking is false only the
// trace fields are meaningful.
type SurfaceHit struct {
	Blocking bool
	// Location is where the shape's centre was when it touched the surface.
	Location mgl64.Vec3
	// ImpactPoint is the contact point on the surface.
	ImpactPoint mgl64.Vec3
	// Normal is the unit surface normal at the impact.
	Normal     mgl64.Vec3
	TraceStart mgl64.Vec3
	TraceEnd   mgl64.Vec3
	// Time is the fraction of the trace travelled before the impact.
	Time float64
}

// Miss builds the no-hit result for a trace.
func Miss(start, end mgl64.Vec3) SurfaceHit {
	return SurfaceHit{TraceStart: start, TraceEnd: end, Time: 1, Location: end}
}

// World is the collision world queried by the probe.
type World interface {
	// Sweep moves shape from start to end and reports the first blocking hit.
	Sweep(shape Shape, start, end mgl64.Vec3, channel Channel) (SurfaceHit, bool)
}

// WorldFunc adapts a function to World.
type WorldFunc func(shape Shape, start, end mgl64.Vec3, channel Channel) (SurfaceHit, bool)

func (f WorldFunc) Sweep(shape Shape, start, end mgl64.Vec3, channel Channel) (SurfaceHit, bool) {
	return f(shape, start, end, channel)
}
