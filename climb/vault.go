package climb

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// tryVault runs when the wall ends in the direction of travel. Only an
// upward push while actively climbing vaults, and only when a capsule fits
// on top of the ledge.
func (c *Climber) tryVault(axis float64, direction mgl64.Vec3) StepOutcome {
	if axis <= 0 || !c.flags.Climbing || !c.isActorUp(direction) {
		return StepNoWall
	}

	r, hh := c.mover.Capsule()
	rot := c.mover.Rotation()
	fwd := rot.Forward()
	spot := c.mover.Location().Add(rot.Up().Mul(2 * hh)).Add(fwd.Mul(2 * r))
	if hit := c.probe.Clearance(spot, r, hh); hit.Blocking {
		c.log.Debug("can't vault", zap.Float64s("at", spot[:]))
		return StepVaultBlocked
	}

	forward := spot.Add(fwd.Mul(c.cfg.VaultForwardOffset))
	retreat := forward.Sub(fwd.Mul(c.cfg.VaultRetreatRadii * r))
	c.VaultUp(retreat, forward)
	return StepVaulted
}

// VaultUp detaches and moves up onto the ledge: first to retreat, then, when
// the second stage is enabled, forward onto it.
func (c *Climber) VaultUp(retreat, forward mgl64.Vec3) {
	c.Detach()
	loc := c.mover.Location()
	rot := c.mover.Rotation()
	t := NewTransition("vault", loc, rot, retreat, rot, c.cfg.VaultMoveDuration, ease.InQuad)
	if c.cfg.VaultSecondStage {
		t.Then(NewTransition("vault_forward", retreat, rot, forward, rot, c.cfg.VaultForwardMoveDuration, ease.InQuad))
	}
	c.begin(t)
	c.log.Debug("vault", zap.Float64s("retreat", retreat[:]), zap.Float64s("forward", forward[:]))
}
