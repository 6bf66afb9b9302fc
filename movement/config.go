package movement

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid movement config")

// Config tunes the reference character movement.
type Config struct {
	Radius     float64
	HalfHeight float64

	Gravity       float64
	JumpZVelocity float64
	AirControl    float64

	MaxWalkSpeed float64
	MaxFlySpeed  float64
	Acceleration float64

	BrakingDecelerationWalking float64
	BrakingDecelerationFlying  float64

	// RotationRate is the yaw speed, in degrees per second, used when
	// orienting to movement.
	RotationRate float64

	// WalkableFloorZ is the smallest normal Z that counts as floor.
	WalkableFloorZ float64
	FloorProbe     float64
	MaxIterations  int
}

func DefaultConfig() Config {
	return Config{
		Radius:                     42,
		HalfHeight:                 96,
		Gravity:                    -980,
		JumpZVelocity:              600,
		AirControl:                 0.2,
		MaxWalkSpeed:               600,
		MaxFlySpeed:                600,
		Acceleration:               2048,
		BrakingDecelerationWalking: 2048,
		BrakingDecelerationFlying:  2048,
		RotationRate:               540,
		WalkableFloorZ:             0.71,
		FloorProbe:                 2.4,
		MaxIterations:              4,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Radius <= 0 || c.HalfHeight < c.Radius:
		return fmt.Errorf("movement: %w: capsule %gx%g", ErrInvalidConfig, c.Radius, c.HalfHeight)
	case c.MaxWalkSpeed < 0 || c.MaxFlySpeed < 0 || c.Acceleration < 0:
		return fmt.Errorf("movement: %w: speeds must not be negative", ErrInvalidConfig)
	case c.AirControl < 0 || c.AirControl > 1:
		return fmt.Errorf("movement: %w: air control %g outside [0, 1]", ErrInvalidConfig, c.AirControl)
	case c.WalkableFloorZ <= 0 || c.WalkableFloorZ > 1:
		return fmt.Errorf("movement: %w: walkable floor z %g outside (0, 1]", ErrInvalidConfig, c.WalkableFloorZ)
	case c.MaxIterations <= 0:
		return fmt.Errorf("movement: %w: max iterations %d", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}
