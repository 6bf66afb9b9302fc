package climb

// MovementMode is the character's authoritative locomotion mode.
type MovementMode uint8

const (
	ModeGrounded MovementMode = iota
	ModeAirborne
	ModeWallAttached
)

func (m MovementMode) String() string {
	switch m {
	case ModeGrounded:
		return "grounded"
	case ModeAirborne:
		return "airborne"
	case ModeWallAttached:
		return "wall_attached"
	}
	return "unknown"
}

// IsFree reports whether normal character physics (gravity, ground friction)
// drives the character.
func (m MovementMode) IsFree() bool {
	return m == ModeGrounded || m == ModeAirborne
}

// Flags are the climbing bookkeeping bits.
type Flags struct {
	// Climbing is set once a wall step succeeds after attaching. Vaulting is
	// only attempted while it is set.
	Climbing bool
	// CheckForApex arms the automatic re-grab at the top of a wall jump.
	CheckForApex bool
}

// StepOutcome is the result of one StepAlongWall call.
type StepOutcome uint8

const (
	StepNoInput StepOutcome = iota
	StepNotAttached
	StepMoved
	StepTurnTooSharp
	StepClimbAngleInvalid
	StepNoWall
	StepVaulted
	StepVaultBlocked
)

func (o StepOutcome) String() string {
	switch o {
	case StepNoInput:
		return "no_input"
	case StepNotAttached:
		return "not_attached"
	case StepMoved:
		return "moved"
	case StepTurnTooSharp:
		return "turn_too_sharp"
	case StepClimbAngleInvalid:
		return "climb_angle_invalid"
	case StepNoWall:
		return "no_wall"
	case StepVaulted:
		return "vaulted"
	case StepVaultBlocked:
		return "vault_blocked"
	}
	return "unknown"
}

// Moved reports whether the step applied movement or started a vault.
func (o StepOutcome) Moved() bool {
	return o == StepMoved || o == StepVaulted
}
