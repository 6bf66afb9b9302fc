package climb

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid climb config")

// Config is the per-session climbing tuning. Lengths given in radii or half
// heights are multiples of the mover's capsule.
type Config struct {
	// MinClimbAngle and MaxClimbAngle bound the pitch of the orientation
	// facing into the wall, in degrees.
	MinClimbAngle float64
	MaxClimbAngle float64
	// MaxTurnAngle is the largest angle between the wall ahead and the wall
	// in the direction of travel.
	MaxTurnAngle float64

	AttachProbeRadii      float64
	VerticalProbeOffset   float64
	HorizontalProbeOffset float64
	LateralProbeRadii     float64
	ForwardProbeLength    float64

	RotationInterpSpeed float64

	AttachMoveDuration       float64
	VaultMoveDuration        float64
	VaultForwardMoveDuration float64
	VaultForwardOffset       float64
	VaultRetreatRadii        float64
	// VaultSecondStage slides onto the ledge after the vault's first move.
	VaultSecondStage bool

	WallJumpImpulse float64
	ReattachOnApex  bool
}

func DefaultConfig() Config {
	return Config{
		MinClimbAngle:            -75,
		MaxClimbAngle:            45,
		MaxTurnAngle:             65,
		AttachProbeRadii:         3,
		VerticalProbeOffset:      1,
		HorizontalProbeOffset:    1.5,
		LateralProbeRadii:        2,
		ForwardProbeLength:       80,
		RotationInterpSpeed:      5,
		AttachMoveDuration:       0.2,
		VaultMoveDuration:        0.5,
		VaultForwardMoveDuration: 0.35,
		VaultForwardOffset:       30,
		VaultRetreatRadii:        2,
		WallJumpImpulse:          600,
		ReattachOnApex:           true,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MinClimbAngle < -90 || c.MaxClimbAngle > 90:
		return fmt.Errorf("climb: %w: climb angles [%g, %g] outside [-90, 90]", ErrInvalidConfig, c.MinClimbAngle, c.MaxClimbAngle)
	case c.MinClimbAngle > c.MaxClimbAngle:
		return fmt.Errorf("climb: %w: min climb angle %g above max %g", ErrInvalidConfig, c.MinClimbAngle, c.MaxClimbAngle)
	case c.MaxTurnAngle < 0 || c.MaxTurnAngle > 180:
		return fmt.Errorf("climb: %w: max turn angle %g outside [0, 180]", ErrInvalidConfig, c.MaxTurnAngle)
	case c.AttachProbeRadii <= 0 || c.LateralProbeRadii <= 0 || c.ForwardProbeLength <= 0:
		return fmt.Errorf("climb: %w: probe lengths must be positive", ErrInvalidConfig)
	case c.VerticalProbeOffset < 0 || c.HorizontalProbeOffset < 0:
		return fmt.Errorf("climb: %w: probe offsets must not be negative", ErrInvalidConfig)
	case c.AttachMoveDuration < 0 || c.VaultMoveDuration < 0 || c.VaultForwardMoveDuration < 0:
		return fmt.Errorf("climb: %w: move durations must not be negative", ErrInvalidConfig)
	case c.RotationInterpSpeed < 0 || c.WallJumpImpulse < 0:
		return fmt.Errorf("climb: %w: rates must not be negative", ErrInvalidConfig)
	}
	return nil
}
