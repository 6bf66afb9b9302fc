// Package character is the controller facade: it routes player input to
// ground movement or the climbing core depending on the movement mode and
// owns the camera rig.
package character

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/climb"
	"github.com/milk9111/wallclimb/geom"
	"github.com/milk9111/wallclimb/logger"
	"github.com/milk9111/wallclimb/probe"
	"go.uber.org/zap"
)

var ErrNoPawn = errors.New("character: nil pawn")

// Pawn is the movement host the controller drives.
type Pawn interface {
	climb.Mover
	climb.Notifier
	Jump()
	StopJumping()
	// SetNotifyApex arms one jump apex notification.
	SetNotifyApex(enabled bool)
	BeginFrame(dt float64)
	Integrate()
}

type Options struct {
	Probe    *probe.Probe
	Climb    climb.Config
	Camera   CameraRig
	Bindings *Bindings
	Logger   *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		Climb:    climb.DefaultConfig(),
		Camera:   DefaultCameraRig(),
		Bindings: DefaultBindings(),
	}
}

// Frame reports what one Tick did.
type Frame struct {
	Mode    climb.MovementMode
	Forward climb.StepOutcome
	Right   climb.StepOutcome
}

// Controller routes input for one pawn.
type Controller struct {
	pawn     Pawn
	climber  *climb.Climber
	probe    *probe.Probe
	rig      CameraRig
	bindings *Bindings
	control  geom.Rotator
	log      *zap.Logger
	frame    Frame
}

// New wires a controller, and its climber, to pawn. Nil bindings mean
// DefaultBindings.
func New(pawn Pawn, opts Options) (*Controller, error) {
	if pawn == nil {
		return nil, ErrNoPawn
	}
	if opts.Bindings == nil {
		opts.Bindings = DefaultBindings()
	}
	if err := opts.Bindings.Validate(); err != nil {
		return nil, err
	}
	log := logger.OrNop(opts.Logger)
	climber, err := climb.New(pawn, opts.Probe, opts.Climb, log.Named("climb"))
	if err != nil {
		return nil, err
	}
	climber.Subscribe(pawn)

	return &Controller{
		pawn:     pawn,
		climber:  climber,
		probe:    opts.Probe,
		rig:      opts.Camera,
		bindings: opts.Bindings,
		control:  pawn.Rotation().YawOnly(),
		log:      log,
	}, nil
}

func (c *Controller) Climber() *climb.Climber { return c.climber }
func (c *Controller) Pawn() Pawn { return c.pawn }
func (c *Controller) CameraRig() CameraRig { return c.rig }
func (c *Controller) Bindings() *Bindings { return c.bindings }

// ControlRotation is the rotation the camera and ground movement follow.
func (c *Controller) ControlRotation() geom.Rotator { return c.control }

func (c *Controller) SetControlRotation(rot geom.Rotator) {
	c.control = geom.Rotator{Pitch: c.rig.clampPitch(rot.Pitch), Yaw: geom.NormalizeAxis(rot.Yaw)}
}

// MoveForward walks along the control yaw, or climbs up and down the wall.
// Ground and air movement report StepNotAttached.
func (c *Controller) MoveForward(v float64) climb.StepOutcome {
	if v == 0 {
		return climb.StepNoInput
	}
	switch mode := c.pawn.Mode(); {
	case mode.IsFree():
		c.pawn.AddMovementInput(c.control.YawOnly().Forward(), v)
	case mode == climb.ModeWallAttached:
		return c.step(v, c.pawn.Rotation().Up(), true)
	}
	return climb.StepNotAttached
}

// MoveRight strafes along the control yaw, or climbs sideways on the wall.
func (c *Controller) MoveRight(v float64) climb.StepOutcome {
	if v == 0 {
		return climb.StepNoInput
	}
	switch mode := c.pawn.Mode(); {
	case mode.IsFree():
		c.pawn.AddMovementInput(c.control.YawOnly().Right(), v)
	case mode == climb.ModeWallAttached:
		return c.step(v, c.pawn.Rotation().Right(), false)
	}
	return climb.StepNotAttached
}

func (c *Controller) step(v float64, dir mgl64.Vec3, vertical bool) climb.StepOutcome {
	out := c.climber.StepAlongWall(v, dir, vertical)
	if ce := c.log.Check(zap.DebugLevel, "wall step"); ce != nil {
		ce.Write(zap.Stringer("outcome", out), zap.Float64("axis", v), zap.Bool("vertical", vertical))
	}
	return out
}

// Turn adds yaw to the control rotation.
func (c *Controller) Turn(v float64) {
	if v != 0 {
		c.SetControlRotation(c.control.Add(geom.Rotator{Yaw: v}))
	}
}

// TurnAtRate turns at rate times the rig's base turn rate per second.
func (c *Controller) TurnAtRate(rate float64) {
	c.Turn(rate * c.rig.BaseTurnRate * c.pawn.DeltaSeconds())
}

// LookUp adds pitch to the control rotation.
func (c *Controller) LookUp(v float64) {
	if v != 0 {
		c.SetControlRotation(c.control.Add(geom.Rotator{Pitch: v}))
	}
}

func (c *Controller) LookUpAtRate(rate float64) {
	c.LookUp(rate * c.rig.BaseLookUpRate * c.pawn.DeltaSeconds())
}

// JumpPressed jumps off the ground or off the wall. Either way the next jump
// apex is reported.
func (c *Controller) JumpPressed() {
	c.pawn.SetNotifyApex(true)
	switch c.pawn.Mode() {
	case climb.ModeGrounded:
		c.pawn.Jump()
	case climb.ModeWallAttached:
		c.climber.JumpFromWall()
	}
}

func (c *Controller) JumpReleased() {
	c.pawn.StopJumping()
}

// GrabPressed toggles holding the wall.
func (c *Controller) GrabPressed() {
	c.climber.ToggleGrab()
}

func (c *Controller) TouchStarted() {
	c.pawn.Jump()
}

func (c *Controller) TouchStopped() {
	c.pawn.StopJumping()
}

// Tick runs one frame: input routing, pawn integration, then the climbing
// transition.
func (c *Controller) Tick(dt float64, in Input) Frame {
	c.pawn.BeginFrame(dt)

	if in.GrabPressed {
		c.GrabPressed()
	}
	if in.JumpPressed {
		c.JumpPressed()
	}
	if in.JumpReleased {
		c.JumpReleased()
	}
	if in.TouchStarted {
		c.TouchStarted()
	}
	if in.TouchStopped {
		c.TouchStopped()
	}

	c.Turn(in.Turn)
	c.TurnAtRate(in.TurnRate)
	c.LookUp(in.LookUp)
	c.LookUpAtRate(in.LookUpRate)

	c.frame = Frame{
		Forward: c.MoveForward(in.Forward),
		Right:   c.MoveRight(in.Right),
	}

	c.pawn.Integrate()
	c.climber.Update(dt)
	c.frame.Mode = c.pawn.Mode()
	return c.frame
}

// LastFrame is the result of the latest Tick.
func (c *Controller) LastFrame() Frame { return c.frame }

// CameraLocation is where the boom puts the camera this frame.
func (c *Controller) CameraLocation() mgl64.Vec3 {
	rot := c.control
	if !c.rig.UsePawnControlRotation {
		rot = c.pawn.Rotation()
	}
	return c.rig.boomEnd(c.probe, c.pawn.Location(), rot)
}
