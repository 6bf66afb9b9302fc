// Package sim assembles a playable session from a character prefab: the level,
// its collision world, the movement body and the controller. The headless
// runner and the sandbox both drive a Session.
package sim

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/character"
	"github.com/milk9111/wallclimb/climb"
	"github.com/milk9111/wallclimb/collision"
	"github.com/milk9111/wallclimb/geom"
	"github.com/milk9111/wallclimb/levels"
	"github.com/milk9111/wallclimb/logger"
	"github.com/milk9111/wallclimb/movement"
	"github.com/milk9111/wallclimb/planar"
	"github.com/milk9111/wallclimb/prefabs"
	"github.com/milk9111/wallclimb/probe"
	"github.com/milk9111/wallclimb/script"
	"go.uber.org/zap"
)

var ErrUnknownWorld = errors.New("sim: unknown world kind")

// WorldKind selects the collision backend.
type WorldKind string

const (
	// WorldBox is the 3D box and panel scene.
	WorldBox WorldKind = "box"
	// WorldPlanar is the Chipmunk side-view space.
	WorldPlanar WorldKind = "planar"
)

func ParseWorldKind(s string) (WorldKind, error) {
	switch k := WorldKind(s); k {
	case WorldBox, WorldPlanar:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWorld, s)
}

const debugCapacity = 512

// Session is one character in one level.
type Session struct {
	Spec       *prefabs.CharacterSpec
	Level      *levels.Level
	Kind       WorldKind
	World      probe.World
	Planar     *planar.World
	Probe      *probe.Probe
	Debug      *probe.DebugLines
	Body       *movement.Body
	Controller *character.Controller

	log      *zap.Logger
	frame    int
	elapsed  float64
	summary  Summary
	lastMode climb.MovementMode
}

// New loads spec.Level and spawns the character standing at its spawn tile.
func New(spec *prefabs.CharacterSpec, kind WorldKind, log *zap.Logger) (*Session, error) {
	if spec == nil {
		spec = prefabs.DefaultCharacterSpec()
	}
	lvl, err := levels.Load(spec.Level)
	if err != nil {
		return nil, err
	}
	return NewWithLevel(spec, lvl, kind, log)
}

// NewWithLevel is New with an already loaded level.
func NewWithLevel(spec *prefabs.CharacterSpec, lvl *levels.Level, kind WorldKind, log *zap.Logger) (*Session, error) {
	log = logger.OrNop(log)
	s := &Session{Spec: spec, Level: lvl, Kind: kind, log: log.Named("sim")}

	switch kind {
	case WorldBox:
		s.World = collision.FromLevel(lvl)
	case WorldPlanar:
		s.Planar = planar.NewWorld(lvl, log.Named("planar"))
		s.World = s.Planar
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorld, kind)
	}

	s.Debug = probe.NewDebugLines(debugCapacity)
	s.Probe = probe.New(s.World, s.Debug, log.Named("probe"))

	cfg := spec.MovementConfig()
	spawn := lvl.Spawn().Add(mgl64.Vec3{0, 0, cfg.HalfHeight + 1})
	body, err := movement.NewBody(cfg, s.World, spawn, geom.Rotator{}, log.Named("movement"))
	if err != nil {
		return nil, err
	}
	s.Body = body

	opts := spec.ControllerOptions()
	opts.Probe = s.Probe
	opts.Logger = log.Named("character")
	ctrl, err := character.New(body, opts)
	if err != nil {
		return nil, err
	}
	s.Controller = ctrl
	s.lastMode = body.Mode()
	s.summary = newSummary(spawn)

	s.log.Info("session started",
		zap.String("character", spec.Name),
		zap.String("world", string(kind)),
		zap.Float64s("spawn", spawn[:]),
	)
	return s, nil
}

// Step advances the session one frame.
func (s *Session) Step(dt float64, in character.Input) character.Frame {
	f := s.Controller.Tick(dt, in)
	s.Debug.Tick(dt)
	s.frame++
	s.elapsed += dt

	if f.Mode != s.lastMode {
		s.log.Info("mode changed",
			zap.Int("frame", s.frame),
			zap.Stringer("from", s.lastMode),
			zap.Stringer("to", f.Mode),
		)
		s.lastMode = f.Mode
		s.summary.ModeChanges++
	}
	for _, out := range []climb.StepOutcome{f.Forward, f.Right} {
		if out == climb.StepNoInput || out == climb.StepNotAttached {
			continue
		}
		s.summary.Outcomes[out]++
		if out == climb.StepVaulted || out == climb.StepVaultBlocked {
			s.log.Info("vault", zap.Int("frame", s.frame), zap.Stringer("outcome", out))
		}
	}
	s.summary.observe(s.frame, s.elapsed, s.Body.Location(), f.Mode)
	return f
}

// Status is the pawn as input scripts see it.
func (s *Session) Status() script.Status {
	return script.Status{
		Mode:     s.Body.Mode(),
		Flags:    s.Controller.Climber().Flags(),
		Location: s.Body.Location(),
		Frame:    s.Controller.LastFrame(),
	}
}

func (s *Session) Frame() int {
	return s.frame
}

func (s *Session) Elapsed() float64 {
	return s.elapsed
}

func (s *Session) Summary() Summary {
	return s.summary
}

// Play drives the session from rt until the script ends or maxFrames frames
// have run. maxFrames <= 0 means no limit.
func (s *Session) Play(rt *script.Runtime, dt float64, maxFrames int) (Summary, error) {
	for maxFrames <= 0 || s.frame < maxFrames {
		rt.Observe(s.Status())
		in, err := rt.Next(s.frame, s.elapsed)
		if errors.Is(err, script.ErrNoInput) {
			break
		}
		if err != nil {
			return s.summary, err
		}
		s.Step(dt, in)
	}
	s.log.Info("session finished", zap.Object("summary", s.summary))
	return s.summary, nil
}
