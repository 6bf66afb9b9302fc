package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/wallclimb/character"
	"github.com/milk9111/wallclimb/climb"
	"github.com/milk9111/wallclimb/logger"
	"github.com/milk9111/wallclimb/movement"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid prefab config")

// LoadSpec decodes filename over base, so keys missing from the file keep
// their base values.
func LoadSpec[T any](filename string, base T) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	spec := base
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type CapsuleSpec struct {
	Radius     float64 `yaml:"radius"`
	HalfHeight float64 `yaml:"half_height"`
}

type MovementSpec struct {
	Gravity                    float64 `yaml:"gravity"`
	JumpZVelocity              float64 `yaml:"jump_z_velocity"`
	AirControl                 float64 `yaml:"air_control"`
	MaxWalkSpeed               float64 `yaml:"max_walk_speed"`
	MaxFlySpeed                float64 `yaml:"max_fly_speed"`
	Acceleration               float64 `yaml:"acceleration"`
	BrakingDecelerationWalking float64 `yaml:"braking_deceleration_walking"`
	BrakingDecelerationFlying  float64 `yaml:"braking_deceleration_flying"`
	RotationRate               float64 `yaml:"rotation_rate"`
	WalkableFloorZ             float64 `yaml:"walkable_floor_z"`
	FloorProbe                 float64 `yaml:"floor_probe"`
	MaxIterations              int     `yaml:"max_iterations"`
}

type ClimbSpec struct {
	MinClimbAngle            float64 `yaml:"min_climb_angle"`
	MaxClimbAngle            float64 `yaml:"max_climb_angle"`
	MaxTurnAngle             float64 `yaml:"max_turn_angle"`
	AttachProbeRadii         float64 `yaml:"attach_probe_radii"`
	VerticalProbeOffset      float64 `yaml:"vertical_probe_offset"`
	HorizontalProbeOffset    float64 `yaml:"horizontal_probe_offset"`
	LateralProbeRadii        float64 `yaml:"lateral_probe_radii"`
	ForwardProbeLength       float64 `yaml:"forward_probe_length"`
	RotationInterpSpeed      float64 `yaml:"rotation_interp_speed"`
	AttachMoveDuration       float64 `yaml:"attach_move_duration"`
	VaultMoveDuration        float64 `yaml:"vault_move_duration"`
	VaultForwardMoveDuration float64 `yaml:"vault_forward_move_duration"`
	VaultForwardOffset       float64 `yaml:"vault_forward_offset"`
	VaultRetreatRadii        float64 `yaml:"vault_retreat_radii"`
	VaultSecondStage         bool    `yaml:"vault_second_stage"`
	WallJumpImpulse          float64 `yaml:"wall_jump_impulse"`
	ReattachOnApex           bool    `yaml:"reattach_on_apex"`
}

type CameraSpec struct {
	BoomLength             float64 `yaml:"boom_length"`
	BaseTurnRate           float64 `yaml:"base_turn_rate"`
	BaseLookUpRate         float64 `yaml:"base_look_up_rate"`
	MinPitch               float64 `yaml:"min_pitch"`
	MaxPitch               float64 `yaml:"max_pitch"`
	UsePawnControlRotation bool    `yaml:"use_pawn_control_rotation"`
	ProbeSize              float64 `yaml:"probe_size"`
	CollisionTest          bool    `yaml:"collision_test"`
}

// CharacterSpec is the climbing character prefab.
type CharacterSpec struct {
	Name     string              `yaml:"name"`
	Level    string              `yaml:"level"`
	Script   string              `yaml:"script"`
	Capsule  CapsuleSpec         `yaml:"capsule"`
	Movement MovementSpec        `yaml:"movement"`
	Climb    ClimbSpec           `yaml:"climb"`
	Camera   CameraSpec          `yaml:"camera"`
	Log      logger.Config       `yaml:"log"`
	Bindings *character.Bindings `yaml:"bindings"`
}

// DefaultCharacterSpec mirrors the runtime defaults of every section.
func DefaultCharacterSpec() *CharacterSpec {
	m := movement.DefaultConfig()
	c := climb.DefaultConfig()
	r := character.DefaultCameraRig()
	return &CharacterSpec{
		Name:    "climber",
		Level:   "climbing_wall",
		Capsule: CapsuleSpec{Radius: m.Radius, HalfHeight: m.HalfHeight},
		Movement: MovementSpec{
			Gravity:                    m.Gravity,
			JumpZVelocity:              m.JumpZVelocity,
			AirControl:                 m.AirControl,
			MaxWalkSpeed:               m.MaxWalkSpeed,
			MaxFlySpeed:                m.MaxFlySpeed,
			Acceleration:               m.Acceleration,
			BrakingDecelerationWalking: m.BrakingDecelerationWalking,
			BrakingDecelerationFlying:  m.BrakingDecelerationFlying,
			RotationRate:               m.RotationRate,
			WalkableFloorZ:             m.WalkableFloorZ,
			FloorProbe:                 m.FloorProbe,
			MaxIterations:              m.MaxIterations,
		},
		Climb: ClimbSpec{
			MinClimbAngle:            c.MinClimbAngle,
			MaxClimbAngle:            c.MaxClimbAngle,
			MaxTurnAngle:             c.MaxTurnAngle,
			AttachProbeRadii:         c.AttachProbeRadii,
			VerticalProbeOffset:      c.VerticalProbeOffset,
			HorizontalProbeOffset:    c.HorizontalProbeOffset,
			LateralProbeRadii:        c.LateralProbeRadii,
			ForwardProbeLength:       c.ForwardProbeLength,
			RotationInterpSpeed:      c.RotationInterpSpeed,
			AttachMoveDuration:       c.AttachMoveDuration,
			VaultMoveDuration:        c.VaultMoveDuration,
			VaultForwardMoveDuration: c.VaultForwardMoveDuration,
			VaultForwardOffset:       c.VaultForwardOffset,
			VaultRetreatRadii:        c.VaultRetreatRadii,
			VaultSecondStage:         c.VaultSecondStage,
			WallJumpImpulse:          c.WallJumpImpulse,
			ReattachOnApex:           c.ReattachOnApex,
		},
		Camera: CameraSpec{
			BoomLength:             r.BoomLength,
			BaseTurnRate:           r.BaseTurnRate,
			BaseLookUpRate:         r.BaseLookUpRate,
			MinPitch:               r.MinPitch,
			MaxPitch:               r.MaxPitch,
			UsePawnControlRotation: r.UsePawnControlRotation,
			ProbeSize:              r.ProbeSize,
			CollisionTest:          r.CollisionTest,
		},
		Log:      logger.DefaultConfig(),
		Bindings: character.DefaultBindings(),
	}
}

// LoadCharacterSpec loads character.yaml.
func LoadCharacterSpec() (*CharacterSpec, error) {
	return LoadCharacterSpecFile("character.yaml")
}

// LoadCharacterSpecFile loads and validates a character prefab.
func LoadCharacterSpecFile(filename string) (*CharacterSpec, error) {
	spec, err := LoadSpec(filename, *DefaultCharacterSpec())
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: validate %s: %w", filename, err)
	}
	return &spec, nil
}

func (s *CharacterSpec) Validate() error {
	if err := s.MovementConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := s.ClimbConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if s.Camera.MinPitch > s.Camera.MaxPitch || s.Camera.BoomLength < 0 {
		return fmt.Errorf("%w: camera pitch [%g, %g] boom %g", ErrInvalidConfig, s.Camera.MinPitch, s.Camera.MaxPitch, s.Camera.BoomLength)
	}
	if err := s.Bindings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (s *CharacterSpec) MovementConfig() movement.Config {
	m := s.Movement
	return movement.Config{
		Radius:                     s.Capsule.Radius,
		HalfHeight:                 s.Capsule.HalfHeight,
		Gravity:                    m.Gravity,
		JumpZVelocity:              m.JumpZVelocity,
		AirControl:                 m.AirControl,
		MaxWalkSpeed:               m.MaxWalkSpeed,
		MaxFlySpeed:                m.MaxFlySpeed,
		Acceleration:               m.Acceleration,
		BrakingDecelerationWalking: m.BrakingDecelerationWalking,
		BrakingDecelerationFlying:  m.BrakingDecelerationFlying,
		RotationRate:               m.RotationRate,
		WalkableFloorZ:             m.WalkableFloorZ,
		FloorProbe:                 m.FloorProbe,
		MaxIterations:              m.MaxIterations,
	}
}

func (s *CharacterSpec) ClimbConfig() climb.Config {
	c := s.Climb
	return climb.Config{
		MinClimbAngle:            c.MinClimbAngle,
		MaxClimbAngle:            c.MaxClimbAngle,
		MaxTurnAngle:             c.MaxTurnAngle,
		AttachProbeRadii:         c.AttachProbeRadii,
		VerticalProbeOffset:      c.VerticalProbeOffset,
		HorizontalProbeOffset:    c.HorizontalProbeOffset,
		LateralProbeRadii:        c.LateralProbeRadii,
		ForwardProbeLength:       c.ForwardProbeLength,
		RotationInterpSpeed:      c.RotationInterpSpeed,
		AttachMoveDuration:       c.AttachMoveDuration,
		VaultMoveDuration:        c.VaultMoveDuration,
		VaultForwardMoveDuration: c.VaultForwardMoveDuration,
		VaultForwardOffset:       c.VaultForwardOffset,
		VaultRetreatRadii:        c.VaultRetreatRadii,
		VaultSecondStage:         c.VaultSecondStage,
		WallJumpImpulse:          c.WallJumpImpulse,
		ReattachOnApex:           c.ReattachOnApex,
	}
}

func (s *CharacterSpec) CameraRig() character.CameraRig {
	c := s.Camera
	return character.CameraRig{
		BoomLength:             c.BoomLength,
		BaseTurnRate:           c.BaseTurnRate,
		BaseLookUpRate:         c.BaseLookUpRate,
		MinPitch:               c.MinPitch,
		MaxPitch:               c.MaxPitch,
		UsePawnControlRotation: c.UsePawnControlRotation,
		ProbeSize:              c.ProbeSize,
		CollisionTest:          c.CollisionTest,
	}
}

// ControllerOptions builds the character options for a session. The probe is
// left for the caller to wire to its world.
func (s *CharacterSpec) ControllerOptions() character.Options {
	return character.Options{
		Climb:    s.ClimbConfig(),
		Camera:   s.CameraRig(),
		Bindings: s.Bindings,
	}
}
