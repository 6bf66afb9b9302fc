// Package movement is a small capsule character integrator that hosts the
// climbing core: gravity, walking, flying along walls, sweep and slide
// against a probe.World, and landed/apex notifications.
package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/climb"
	"github.com/milk9111/wallclimb/common"
	"github.com/milk9111/wallclimb/geom"
	"github.com/milk9111/wallclimb/logger"
	"github.com/milk9111/wallclimb/probe"
	"go.uber.org/zap"
)

const (
	skin         = 0.05
	inputEpsilon = 1e-6
)

// Body is one character's movement state.
type Body struct {
	cfg   Config
	world probe.World
	log   *zap.Logger

	loc    mgl64.Vec3
	rot    geom.Rotator
	vel    mgl64.Vec3
	mode   climb.MovementMode
	orient bool

	dt         float64
	input      mgl64.Vec3
	jumping    bool
	notifyApex bool
	floor      probe.SurfaceHit

	landed []func()
	apex   []func()
}

// NewBody places a body at loc. world may be nil for a body that never
// collides.
func NewBody(cfg Config, world probe.World, loc mgl64.Vec3, rot geom.Rotator, log *zap.Logger) (*Body, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Body{
		cfg:    cfg,
		world:  world,
		log:    logger.OrNop(log),
		loc:    loc,
		rot:    rot,
		mode:   climb.ModeAirborne,
		orient: true,
		dt:     common.DefaultDelta,
	}, nil
}

func (b *Body) Config() Config { return b.cfg }

func (b *Body) Mode() climb.MovementMode { return b.mode }

func (b *Body) SetMode(mode climb.MovementMode) {
	if mode == b.mode {
		return
	}
	b.log.Debug("mode", zap.Stringer("from", b.mode), zap.Stringer("to", mode))
	b.mode = mode
	if mode == climb.ModeWallAttached {
		b.jumping = false
	}
}

func (b *Body) SetOrientToMovement(enabled bool) { b.orient = enabled }

func (b *Body) OrientToMovement() bool { return b.orient }

func (b *Body) StopMovementImmediately() { b.vel = mgl64.Vec3{} }

// Launch adds v to the velocity. An upward launch leaves the ground.
func (b *Body) Launch(v mgl64.Vec3) {
	b.vel = b.vel.Add(v)
	if b.mode == climb.ModeGrounded && v.Z() > 0 {
		b.SetMode(climb.ModeAirborne)
	}
}

func (b *Body) AddMovementInput(dir mgl64.Vec3, scale float64) {
	b.input = b.input.Add(dir.Mul(scale))
}

func (b *Body) Location() mgl64.Vec3 { return b.loc }
func (b *Body) SetLocation(loc mgl64.Vec3) { b.loc = loc }
func (b *Body) Rotation() geom.Rotator { return b.rot }
func (b *Body) SetRotation(rot geom.Rotator) { b.rot = rot }
func (b *Body) Velocity() mgl64.Vec3 { return b.vel }
func (b *Body) Capsule() (float64, float64) { return b.cfg.Radius, b.cfg.HalfHeight }
func (b *Body) DeltaSeconds() float64 { return b.dt }
func (b *Body) Floor() (probe.SurfaceHit, bool) { return b.floor, b.floor.Blocking }

func (b *Body) OnLanded(fn func()) {
	if fn != nil {
		b.landed = append(b.landed, fn)
	}
}

func (b *Body) OnJumpApex(fn func()) {
	if fn != nil {
		b.apex = append(b.apex, fn)
	}
}

// Jump requests a jump on the next Integrate. Only a grounded body jumps.
func (b *Body) Jump() {
	if b.mode == climb.ModeGrounded {
		b.jumping = true
	}
}

func (b *Body) StopJumping() { b.jumping = false }

// SetNotifyApex arms a single jump apex notification.
func (b *Body) SetNotifyApex(enabled bool) { b.notifyApex = enabled }

// BeginFrame sets the frame's delta time. Movement input added afterwards is
// consumed by the next Integrate.
func (b *Body) BeginFrame(dt float64) {
	if dt < 0 {
		dt = 0
	}
	b.dt = dt
}

// Integrate applies the frame's input, gravity and collision.
func (b *Body) Integrate() {
	dt := b.dt
	input := geom.ClampLen(b.input, 1)
	b.input = mgl64.Vec3{}
	if dt == 0 {
		return
	}

	prevVZ := b.vel.Z()
	switch b.mode {
	case climb.ModeGrounded:
		if b.jumping {
			b.jumping = false
			b.vel[2] = b.cfg.JumpZVelocity
			b.SetMode(climb.ModeAirborne)
			b.integrateAir(input, dt)
			break
		}
		b.integrateWalk(input, dt)
	case climb.ModeAirborne:
		b.integrateAir(input, dt)
	case climb.ModeWallAttached:
		b.integrateFly(input, dt)
	}

	if b.orient {
		b.orientTo(input, dt)
	}
	b.move(b.vel.Mul(dt))

	if b.mode.IsFree() {
		b.findFloor()
	}
	if b.mode == climb.ModeAirborne && b.notifyApex && prevVZ > 0 && b.vel.Z() <= 0 {
		b.notifyApex = false
		b.log.Debug("jump apex", zap.Float64("z", b.loc.Z()))
		for _, fn := range b.apex {
			fn()
		}
	}
}

func (b *Body) integrateWalk(input mgl64.Vec3, dt float64) {
	h := geom.Horizontal(input)
	desired := h.Mul(b.cfg.MaxWalkSpeed)
	rate := b.cfg.Acceleration
	if h.Len() < inputEpsilon {
		rate = b.cfg.BrakingDecelerationWalking
	}
	v := approach(geom.Horizontal(b.vel), desired, rate*dt)
	b.vel = mgl64.Vec3{v.X(), v.Y(), 0}
}

func (b *Body) integrateAir(input mgl64.Vec3, dt float64) {
	h := geom.Horizontal(input)
	if h.Len() >= inputEpsilon {
		v := approach(geom.Horizontal(b.vel), h.Mul(b.cfg.MaxWalkSpeed), b.cfg.Acceleration*b.cfg.AirControl*dt)
		b.vel = mgl64.Vec3{v.X(), v.Y(), b.vel.Z()}
	}
	b.vel[2] += b.cfg.Gravity * dt
}

func (b *Body) integrateFly(input mgl64.Vec3, dt float64) {
	rate := b.cfg.Acceleration
	if input.Len() < inputEpsilon {
		rate = b.cfg.BrakingDecelerationFlying
	}
	b.vel = approach(b.vel, input.Mul(b.cfg.MaxFlySpeed), rate*dt)
}

func (b *Body) orientTo(input mgl64.Vec3, dt float64) {
	h := geom.Horizontal(input)
	if h.Len() < inputEpsilon {
		return
	}
	target := mgl64.RadToDeg(math.Atan2(h.Y(), h.X()))
	delta := geom.NormalizeAxis(target - b.rot.Yaw)
	step := b.cfg.RotationRate * dt
	if math.Abs(delta) <= step {
		b.rot.Yaw = target
		return
	}
	b.rot.Yaw = geom.NormalizeAxis(b.rot.Yaw + math.Copysign(step, delta))
}

// move sweeps the capsule along delta, sliding along whatever it hits.
func (b *Body) move(delta mgl64.Vec3) {
	shape := probe.Capsule(b.cfg.Radius, b.cfg.HalfHeight)
	for i := 0; i < b.cfg.MaxIterations && delta.Len() > inputEpsilon; i++ {
		if b.world == nil {
			b.loc = b.loc.Add(delta)
			return
		}
		hit, ok := b.world.Sweep(shape, b.loc, b.loc.Add(delta), probe.WorldStatic)
		if !ok {
			b.loc = b.loc.Add(delta)
			return
		}
		n := geom.SafeNormal(hit.Normal)
		b.loc = hit.Location.Add(n.Mul(skin))
		rest := delta.Mul(1 - hit.Time)
		delta = rest.Sub(n.Mul(rest.Dot(n)))
		if d := b.vel.Dot(n); d < 0 {
			b.vel = b.vel.Sub(n.Mul(d))
		}
	}
}

func (b *Body) findFloor() {
	b.floor = probe.SurfaceHit{}
	if b.world == nil {
		return
	}
	shape := probe.Capsule(b.cfg.Radius, b.cfg.HalfHeight)
	end := b.loc.Sub(mgl64.Vec3{0, 0, b.cfg.FloorProbe})
	hit, ok := b.world.Sweep(shape, b.loc, end, probe.WorldStatic)
	walkable := ok && geom.SafeNormal(hit.Normal).Z() >= b.cfg.WalkableFloorZ

	switch {
	case walkable && b.mode == climb.ModeAirborne && b.vel.Z() <= 0:
		b.floor = hit
		b.floor.Blocking = true
		b.loc = hit.Location.Add(mgl64.Vec3{0, 0, skin})
		b.vel[2] = 0
		b.SetMode(climb.ModeGrounded)
		b.log.Debug("landed", zap.Float64s("at", b.loc[:]))
		for _, fn := range b.landed {
			fn()
		}
	case walkable && b.mode == climb.ModeGrounded:
		b.floor = hit
		b.floor.Blocking = true
		b.loc = hit.Location.Add(mgl64.Vec3{0, 0, skin})
	case !walkable && b.mode == climb.ModeGrounded:
		b.SetMode(climb.ModeAirborne)
	}
}

func approach(cur, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	return cur.Add(geom.ClampLen(target.Sub(cur), maxDelta))
}
