// Package climb is the wall-climbing core: the attach/detach state machine,
// surface-relative wall locomotion and the ledge vault.
package climb

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/geom"
	"github.com/milk9111/wallclimb/logger"
	"github.com/milk9111/wallclimb/probe"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

var ErrNoMover = errors.New("climb: nil mover")

// Climber drives one character's climbing. It is not safe for concurrent
// use; every call happens on the frame update.
type Climber struct {
	mover      Mover
	probe      *probe.Probe
	cfg        Config
	log        *zap.Logger
	flags      Flags
	transition *Transition
}

// New returns a climber for mover. probe may be nil, in which case nothing is
// ever hit.
func New(mover Mover, p *probe.Probe, cfg Config, log *zap.Logger) (*Climber, error) {
	if mover == nil {
		return nil, ErrNoMover
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Climber{
		mover: mover,
		probe: p,
		cfg:   cfg,
		log:   logger.OrNop(log),
	}, nil
}

func (c *Climber) Mode() MovementMode {
	return c.mover.Mode()
}

func (c *Climber) Flags() Flags {
	return c.flags
}

func (c *Climber) Config() Config {
	return c.cfg
}

// Transition returns the in-flight move, if any.
func (c *Climber) Transition() *Transition {
	return c.transition
}

// Subscribe registers the landing and apex handlers with n.
func (c *Climber) Subscribe(n Notifier) {
	if n == nil {
		return
	}
	n.OnLanded(c.OnLanded)
	n.OnJumpApex(c.OnJumpApex)
}

// Attach grabs the wall straight ahead. Without a wall within reach it
// detaches instead and returns false.
func (c *Climber) Attach() bool {
	mode := c.mover.Mode()
	if !mode.IsFree() {
		return false
	}
	r, _ := c.mover.Capsule()
	loc := c.mover.Location()
	rot := c.mover.Rotation()
	end := loc.Add(rot.Forward().Mul(c.cfg.AttachProbeRadii * r))
	hit := c.probe.Wall(loc, end, probe.ColorAttach)
	if !hit.Blocking {
		c.log.Debug("attach: no wall ahead", zap.Stringer("mode", mode))
		c.Detach()
		return false
	}

	c.mover.SetMode(ModeWallAttached)
	c.mover.StopMovementImmediately()
	c.mover.SetOrientToMovement(false)

	targetLoc := hit.Location.Add(hit.Normal.Mul(r))
	targetRot := geom.MakeRotFromX(hit.Normal.Mul(-1))
	c.begin(NewTransition("attach", loc, rot, targetLoc, targetRot, c.cfg.AttachMoveDuration, ease.Linear))
	c.log.Debug("attached",
		zap.Stringer("from", mode),
		zap.Float64s("normal", hit.Normal[:]),
		zap.Stringer("rotation", targetRot),
	)
	return true
}

// Detach returns to free movement, levelling pitch and roll. It is safe to
// call in any mode.
func (c *Climber) Detach() {
	c.cancel()
	c.flags.Climbing = false
	if c.mover.Mode() == ModeWallAttached {
		c.mover.SetMode(ModeGrounded)
		c.log.Debug("detached")
	}
	c.mover.SetOrientToMovement(true)
	c.resetRotation()
}

// ToggleGrab attaches when free and detaches when on a wall.
func (c *Climber) ToggleGrab() {
	mode := c.mover.Mode()
	switch {
	case mode.IsFree():
		c.Attach()
	case mode == ModeWallAttached:
		c.Detach()
	}
}

// JumpFromWall launches the character up off the wall and arms the re-grab
// at the jump's apex.
func (c *Climber) JumpFromWall() bool {
	if c.mover.Mode() != ModeWallAttached {
		return false
	}
	c.cancel()
	c.flags.Climbing = false
	c.mover.SetMode(ModeGrounded)
	c.mover.SetOrientToMovement(true)
	// The launch replaces the climbing velocity so every wall jump has the
	// same height.
	c.mover.StopMovementImmediately()
	c.mover.Launch(c.mover.Rotation().Up().Mul(c.cfg.WallJumpImpulse))
	c.flags.CheckForApex = true
	c.log.Debug("wall jump", zap.Float64("impulse", c.cfg.WallJumpImpulse))
	return true
}

// OnJumpApex re-grabs at the top of a wall jump.
func (c *Climber) OnJumpApex() {
	if !c.flags.CheckForApex || !c.cfg.ReattachOnApex {
		return
	}
	c.Attach()
}

func (c *Climber) OnLanded() {
	c.flags.CheckForApex = false
}

// Update advances the in-flight transition. The transition owns the pose
// while it runs.
func (c *Climber) Update(dt float64) {
	t := c.transition
	if t == nil {
		return
	}
	loc, rot, done := t.Tick(dt)
	c.mover.SetLocation(loc)
	c.mover.SetRotation(rot)
	c.mover.StopMovementImmediately()
	if done {
		c.transition = t.Next()
	}
}

func (c *Climber) begin(t *Transition) {
	if c.transition != nil {
		c.log.Debug("transition replaced", zap.String("old", c.transition.Name), zap.String("new", t.Name))
	}
	c.transition = t
}

func (c *Climber) cancel() {
	c.transition = nil
}

func (c *Climber) resetRotation() {
	rot := c.mover.Rotation()
	c.mover.SetRotation(geom.Rotator{Yaw: rot.Yaw})
}

// isActorUp reports whether dir is the mover's current up vector.
func (c *Climber) isActorUp(dir mgl64.Vec3) bool {
	return geom.NearlyEqual(dir, c.mover.Rotation().Up(), 1e-6)
}
