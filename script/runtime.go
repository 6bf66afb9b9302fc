// Package script drives a character from a tengo input script. The script
// defines next(frame, t, state, pawn) returning a map of inputs for the frame,
// or undefined once it is done.
package script

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/character"
	"github.com/milk9111/wallclimb/climb"
	"github.com/milk9111/wallclimb/common"
	"github.com/milk9111/wallclimb/logger"
	"github.com/milk9111/wallclimb/prefabs"
	"go.uber.org/zap"
)

// ErrNoInput is returned by Next once the script has nothing more to play.
var ErrNoInput = errors.New("script: no more input")

const dispatchScript = `
__out = next(__frame, __time, __state, __pawn)
`

// Status is what the script sees of the pawn.
type Status struct {
	Mode     climb.MovementMode
	Flags    climb.Flags
	Location mgl64.Vec3
	Frame    character.Frame
}

// Runtime runs one compiled input script. State set by the script persists
// between frames.
type Runtime struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	pawn     *tengo.ImmutableMap
	log      *zap.Logger
}

// Load compiles the named script from prefabs/scripts.
func Load(name string, log *zap.Logger) (*Runtime, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Compile(name, src, log)
}

// Compile builds a runtime from source.
func Compile(name string, src []byte, log *zap.Logger) (*Runtime, error) {
	log = logger.OrNop(log)
	s := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	for _, v := range []struct {
		name  string
		value any
	}{
		{"__frame", 0},
		{"__time", 0.0},
		{"__state", map[string]any{}},
		{"__pawn", map[string]any{}},
		{"__out", nil},
	} {
		if err := s.Add(v.name, v.value); err != nil {
			return nil, fmt.Errorf("script: compile %s: %w", name, err)
		}
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	log.Debug("script compiled", zap.String("name", name))
	return &Runtime{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		pawn:     StatusObject(Status{}),
		log:      log,
	}, nil
}

func (r *Runtime) Name() string {
	return r.name
}

// Observe hands the pawn's latest status to the next call.
func (r *Runtime) Observe(st Status) {
	r.pawn = StatusObject(st)
}

// Next runs the script for one frame. A panic inside the VM is returned as an
// error.
func (r *Runtime) Next(frame int, t float64) (in character.Input, err error) {
	if r == nil || r.compiled == nil {
		return character.Input{}, fmt.Errorf("script: nil runtime")
	}
	defer func() {
		if rec := recover(); rec != nil {
			in = character.Input{}
			err = fmt.Errorf("script: %s: run frame %d: %v", r.name, frame, rec)
			r.log.Warn("script panicked", zap.Int("frame", frame), zap.Any("panic", rec))
		}
	}()
	for _, v := range []struct {
		name  string
		value any
	}{
		{"__frame", frame},
		{"__time", t},
		{"__state", r.state},
		{"__pawn", r.pawn},
		{"__out", nil},
	} {
		if err := r.compiled.Set(v.name, v.value); err != nil {
			return character.Input{}, fmt.Errorf("script: %s: set %s: %w", r.name, v.name, err)
		}
	}
	if err := r.compiled.Run(); err != nil {
		return character.Input{}, fmt.Errorf("script: %s: run frame %d: %w", r.name, frame, err)
	}

	out := r.compiled.Get("__out").Object()
	switch m := out.(type) {
	case *tengo.Undefined:
		return character.Input{}, ErrNoInput
	case *tengo.Map:
		return decodeInput(m.Value)
	case *tengo.ImmutableMap:
		return decodeInput(m.Value)
	}
	return character.Input{}, fmt.Errorf("script: %s: next returned %s, want a map", r.name, out.TypeName())
}

// StatusObject converts a status to the read-only map scripts receive as pawn.
func StatusObject(st Status) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"mode":           &tengo.String{Value: st.Mode.String()},
		"climbing":       boolObject(st.Flags.Climbing),
		"check_for_apex": boolObject(st.Flags.CheckForApex),
		"x":              &tengo.Float{Value: st.Location.X()},
		"y":              &tengo.Float{Value: st.Location.Y()},
		"z":              &tengo.Float{Value: st.Location.Z()},
		"forward":        &tengo.String{Value: st.Frame.Forward.String()},
		"right":          &tengo.String{Value: st.Frame.Right.String()},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

// rateAxes are scaled by a rate or a probe length and must stay in [-1, 1].
var rateAxes = map[string]bool{
	"forward":      true,
	"right":        true,
	"turn_rate":    true,
	"look_up_rate": true,
}

func decodeInput(values map[string]tengo.Object) (character.Input, error) {
	var in character.Input
	axes := map[string]*float64{
		"forward":      &in.Forward,
		"right":        &in.Right,
		"turn":         &in.Turn,
		"turn_rate":    &in.TurnRate,
		"look_up":      &in.LookUp,
		"look_up_rate": &in.LookUpRate,
	}
	actions := map[string]*bool{
		"jump":          &in.JumpPressed,
		"jump_released": &in.JumpReleased,
		"grab":          &in.GrabPressed,
		"touch_started": &in.TouchStarted,
		"touch_stopped": &in.TouchStopped,
	}
	for key, obj := range values {
		name := strings.TrimSpace(key)
		if dst, ok := axes[name]; ok {
			f, ok := objectAsFloat(obj)
			if !ok {
				return character.Input{}, fmt.Errorf("script: input %s is %s, want a number", name, obj.TypeName())
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return character.Input{}, fmt.Errorf("script: input %s is %g, want a finite number", name, f)
			}
			if rateAxes[name] {
				f = common.Clamp(f, -1, 1)
			}
			*dst = f
			continue
		}
		if dst, ok := actions[name]; ok {
			*dst = !obj.IsFalsy()
			continue
		}
		return character.Input{}, fmt.Errorf("script: unknown input %q", name)
	}
	return in, nil
}

func objectAsFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	}
	return 0, false
}
