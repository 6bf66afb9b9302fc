package climb

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/geom"
)

// Mover is the movement capability the climbing core drives.
type Mover interface {
	Mode() MovementMode
	// SetMode switches physics; ModeWallAttached disables gravity and ground
	// friction.
	SetMode(mode MovementMode)
	SetOrientToMovement(enabled bool)
	// StopMovementImmediately zeroes velocity.
	StopMovementImmediately()
	// Launch adds an instantaneous velocity change.
	Launch(velocity mgl64.Vec3)
	// AddMovementInput requests movement along direction scaled by scale for
	// the current frame.
	AddMovementInput(direction mgl64.Vec3, scale float64)
	Location() mgl64.Vec3
	SetLocation(loc mgl64.Vec3)
	Rotation() geom.Rotator
	SetRotation(rot geom.Rotator)
	Capsule() (radius, halfHeight float64)
	DeltaSeconds() float64
}

// Notifier delivers landing and jump apex events.
type Notifier interface {
	OnLanded(fn func())
	OnJumpApex(fn func())
}
