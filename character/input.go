package character

import (
	"errors"
	"fmt"
	"sort"
)

var ErrNoBindings = errors.New("character: nil input bindings")

// Input is one frame of player input. Axes are in [-1, 1]; actions are edge
// triggered.
type Input struct {
	Forward    float64
	Right      float64
	Turn       float64
	TurnRate   float64
	LookUp     float64
	LookUpRate float64

	JumpPressed  bool
	JumpReleased bool
	GrabPressed  bool
	TouchStarted bool
	TouchStopped bool
}

// Axis and action names.
const (
	AxisMoveForward = "MoveForward"
	AxisMoveRight   = "MoveRight"
	AxisTurn        = "Turn"
	AxisTurnRate    = "TurnRate"
	AxisLookUp      = "LookUp"
	AxisLookUpRate  = "LookUpRate"

	ActionJump     = "Jump"
	ActionGrabWall = "GrabWall"
)

// AxisKey maps a key to an axis with a scale.
type AxisKey struct {
	Key   string  `yaml:"key"`
	Scale float64 `yaml:"scale"`
}

// Bindings names the keys driving each axis and action. Key names are the
// host's (for the sandbox, ebiten key names).
type Bindings struct {
	Axes    map[string][]AxisKey `yaml:"axes"`
	Actions map[string][]string  `yaml:"actions"`
}

func DefaultBindings() *Bindings {
	return &Bindings{
		Axes: map[string][]AxisKey{
			AxisMoveForward: {{Key: "W", Scale: 1}, {Key: "S", Scale: -1}, {Key: "ArrowUp", Scale: 1}, {Key: "ArrowDown", Scale: -1}},
			AxisMoveRight:   {{Key: "D", Scale: 1}, {Key: "A", Scale: -1}},
			AxisTurnRate:    {{Key: "ArrowRight", Scale: 1}, {Key: "ArrowLeft", Scale: -1}},
			AxisLookUpRate:  {{Key: "PageUp", Scale: 1}, {Key: "PageDown", Scale: -1}},
		},
		Actions: map[string][]string{
			ActionJump:     {"Space"},
			ActionGrabWall: {"E"},
		},
	}
}

// Validate checks that every axis and action is known and bound to a key.
func (b *Bindings) Validate() error {
	if b == nil {
		return ErrNoBindings
	}
	for axis, keys := range b.Axes {
		switch axis {
		case AxisMoveForward, AxisMoveRight, AxisTurn, AxisTurnRate, AxisLookUp, AxisLookUpRate:
		default:
			return fmt.Errorf("character: unknown axis %q", axis)
		}
		for _, k := range keys {
			if k.Key == "" {
				return fmt.Errorf("character: axis %s has an empty key", axis)
			}
		}
	}
	for action, keys := range b.Actions {
		if action != ActionJump && action != ActionGrabWall {
			return fmt.Errorf("character: unknown action %q", action)
		}
		if len(keys) == 0 {
			return fmt.Errorf("character: action %s has no keys", action)
		}
		for _, k := range keys {
			if k == "" {
				return fmt.Errorf("character: action %s has an empty key", action)
			}
		}
	}
	return nil
}

// Describe lists "name: keys" lines for display, sorted by name.
func (b *Bindings) Describe() []string {
	if b == nil {
		return nil
	}
	var out []string
	for axis, keys := range b.Axes {
		s := axis + ":"
		for _, k := range keys {
			s += fmt.Sprintf(" %s(%+g)", k.Key, k.Scale)
		}
		out = append(out, s)
	}
	for action, keys := range b.Actions {
		s := action + ":"
		for _, k := range keys {
			s += " " + k
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
