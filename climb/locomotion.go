package climb

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/common"
	"github.com/milk9111/wallclimb/geom"
	"github.com/milk9111/wallclimb/probe"
	"go.uber.org/zap"
)

// StepAlongWall moves the attached character along the wall for one input
// axis. direction is the actor axis the input maps to (up for the vertical
// axis, right for the horizontal one). A step that is rejected leaves the
// character untouched.
func (c *Climber) StepAlongWall(axis float64, direction mgl64.Vec3, vertical bool) StepOutcome {
	if axis == 0 {
		return StepNoInput
	}
	if c.mover.Mode() != ModeWallAttached {
		return StepNotAttached
	}

	r, hh := c.mover.Capsule()
	loc := c.mover.Location()
	rot := c.mover.Rotation()
	fwd := rot.Forward()

	offset := c.cfg.HorizontalProbeOffset * r
	if vertical {
		offset = c.cfg.VerticalProbeOffset * hh
	}
	start1 := loc.Add(direction.Mul(offset * axis))
	hit1 := c.probe.Wall(start1, start1.Add(fwd.Mul(c.cfg.LateralProbeRadii*r)), probe.ColorLateral)
	hit2 := c.probe.Wall(loc, loc.Add(fwd.Mul(c.cfg.ForwardProbeLength)), probe.ColorForward)

	if !hit1.Blocking {
		c.log.Debug("wall not found", zap.Float64("axis", axis), zap.Bool("vertical", vertical))
		return c.tryVault(axis, direction)
	}

	// A missing forward hit has a zero normal and counts as perpendicular.
	turn := geom.AngleBetweenDeg(hit1.Normal, hit2.Normal)
	if turn > c.cfg.MaxTurnAngle {
		c.log.Debug("turn angle exceeded", zap.Float64("angle", turn), zap.Float64("max", c.cfg.MaxTurnAngle))
		return StepTurnTooSharp
	}

	target := geom.MakeRotFromX(hit1.Normal.Mul(-1))
	if target.Pitch > c.cfg.MaxClimbAngle || target.Pitch < c.cfg.MinClimbAngle {
		c.log.Debug("climb angle invalid", zap.Float64("angle", target.Pitch))
		return StepClimbAngleInvalid
	}

	dest := hit1.Location.Add(hit1.Normal.Mul(r))
	worldDir := geom.DirectionUnit(loc, dest).Mul(common.Sign(axis))
	c.mover.AddMovementInput(worldDir, axis)
	c.mover.SetRotation(geom.RInterpTo(rot, target, c.mover.DeltaSeconds(), c.cfg.RotationInterpSpeed))
	c.flags.Climbing = true
	return StepMoved
}
