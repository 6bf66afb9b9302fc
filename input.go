package main

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/wallclimb/character"
)

const stickDeadzone = 0.2

// keyboard resolves binding key names to ebiten keys.
type keyboard struct {
	axes    map[string][]axisKey
	actions map[string][]ebiten.Key
}

type axisKey struct {
	key   ebiten.Key
	scale float64
}

var keysByName = func() map[string]ebiten.Key {
	m := make(map[string]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		m[k.String()] = k
	}
	return m
}()

func newKeyboard(b *character.Bindings) (*keyboard, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	kb := &keyboard{axes: map[string][]axisKey{}, actions: map[string][]ebiten.Key{}}
	for axis, keys := range b.Axes {
		for _, k := range keys {
			key, ok := keysByName[k.Key]
			if !ok {
				return nil, fmt.Errorf("input: unknown key %q for %s", k.Key, axis)
			}
			kb.axes[axis] = append(kb.axes[axis], axisKey{key: key, scale: k.Scale})
		}
	}
	for action, keys := range b.Actions {
		for _, name := range keys {
			key, ok := keysByName[name]
			if !ok {
				return nil, fmt.Errorf("input: unknown key %q for %s", name, action)
			}
			kb.actions[action] = append(kb.actions[action], key)
		}
	}
	return kb, nil
}

func (kb *keyboard) axis(name string) float64 {
	v := 0.0
	for _, k := range kb.axes[name] {
		if ebiten.IsKeyPressed(k.key) {
			v += k.scale
		}
	}
	return math.Max(-1, math.Min(1, v))
}

func (kb *keyboard) justPressed(name string) bool {
	for _, k := range kb.actions[name] {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func (kb *keyboard) justReleased(name string) bool {
	for _, k := range kb.actions[name] {
		if inpututil.IsKeyJustReleased(k) {
			return true
		}
	}
	return false
}

// poll reads one frame of keyboard, gamepad and touch input.
func (kb *keyboard) poll() character.Input {
	in := character.Input{
		Forward:      kb.axis(character.AxisMoveForward),
		Right:        kb.axis(character.AxisMoveRight),
		Turn:         kb.axis(character.AxisTurn),
		TurnRate:     kb.axis(character.AxisTurnRate),
		LookUp:       kb.axis(character.AxisLookUp),
		LookUpRate:   kb.axis(character.AxisLookUpRate),
		JumpPressed:  kb.justPressed(character.ActionJump),
		JumpReleased: kb.justReleased(character.ActionJump),
		GrabPressed:  kb.justPressed(character.ActionGrabWall),
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(lx) > stickDeadzone {
			in.Right = lx
		}
		if math.Abs(ly) > stickDeadzone {
			in.Forward = -ly
		}
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Abs(rx) > stickDeadzone {
			in.TurnRate = rx
		}
		if math.Abs(ry) > stickDeadzone {
			in.LookUpRate = -ry
		}

		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.JumpReleased = in.JumpReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightBottom)
		in.GrabPressed = in.GrabPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
	}

	in.TouchStarted = len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
	in.TouchStopped = len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0
	return in
}
