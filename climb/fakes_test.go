package climb

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/geom"
	"github.com/milk9111/wallclimb/probe"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testRadius     = 42.0
	testHalfHeight = 96.0
	testDelta      = 1.0 / 60
)

type movementInput struct {
	dir   mgl64.Vec3
	scale float64
}

// fakeMover records every command the climber issues.
type fakeMover struct {
	mode     MovementMode
	orient   bool
	loc      mgl64.Vec3
	rot      geom.Rotator
	velocity mgl64.Vec3
	stops    int
	launches []mgl64.Vec3
	inputs   []movementInput
	modes    []MovementMode
}

func newFakeMover(loc mgl64.Vec3, rot geom.Rotator) *fakeMover {
	return &fakeMover{mode: ModeGrounded, orient: true, loc: loc, rot: rot}
}

func (m *fakeMover) Mode() MovementMode { return m.mode }
func (m *fakeMover) SetMode(mode MovementMode) {
	m.mode = mode
	m.modes = append(m.modes, mode)
}
func (m *fakeMover) SetOrientToMovement(enabled bool) { m.orient = enabled }
func (m *fakeMover) StopMovementImmediately() {
	m.velocity = mgl64.Vec3{}
	m.stops++
}
func (m *fakeMover) Launch(v mgl64.Vec3) {
	m.velocity = m.velocity.Add(v)
	m.launches = append(m.launches, v)
}
func (m *fakeMover) AddMovementInput(dir mgl64.Vec3, scale float64) {
	m.inputs = append(m.inputs, movementInput{dir: dir, scale: scale})
}
func (m *fakeMover) Location() mgl64.Vec3 { return m.loc }
func (m *fakeMover) SetLocation(loc mgl64.Vec3) { m.loc = loc }
func (m *fakeMover) Rotation() geom.Rotator { return m.rot }
func (m *fakeMover) SetRotation(rot geom.Rotator) { m.rot = rot }
func (m *fakeMover) Capsule() (float64, float64) { return testRadius, testHalfHeight }
func (m *fakeMover) DeltaSeconds() float64 { return testDelta }

type fakeNotifier struct {
	landed []func()
	apex   []func()
}

func (n *fakeNotifier) OnLanded(fn func()) { n.landed = append(n.landed, fn) }
func (n *fakeNotifier) OnJumpApex(fn func()) { n.apex = append(n.apex, fn) }

func (n *fakeNotifier) land() {
	for _, fn := range n.landed {
		fn()
	}
}

func (n *fakeNotifier) reachApex() {
	for _, fn := range n.apex {
		fn()
	}
}

// normalWorld answers every wall sweep with a hit of the given normal at the
// end of the trace; capsule sweeps never hit. forwardNormal is used for traces
// that start at the mover's location.
type normalWorld struct {
	mover         *fakeMover
	lateralNormal mgl64.Vec3
	forwardNormal mgl64.Vec3
	lateralMiss   bool
}

func (w *normalWorld) Sweep(shape probe.Shape, start, end mgl64.Vec3, _ probe.Channel) (probe.SurfaceHit, bool) {
	if shape.Kind == probe.ShapeCapsule {
		return probe.SurfaceHit{}, false
	}
	n := w.lateralNormal
	if start == w.mover.loc {
		n = w.forwardNormal
	} else if w.lateralMiss {
		return probe.SurfaceHit{}, false
	}
	if n == (mgl64.Vec3{}) {
		return probe.SurfaceHit{}, false
	}
	return probe.SurfaceHit{Location: end, ImpactPoint: end, Normal: n, Time: 1}, true
}

func newTestClimber(t *testing.T, m *fakeMover, world probe.World, cfg Config) (*Climber, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)
	c, err := New(m, probe.New(world, nil, nil), cfg, log)
	require.NoError(t, err)
	return c, logs
}

// attached puts m on the wall without going through Attach.
func attached(m *fakeMover) *fakeMover {
	m.mode = ModeWallAttached
	m.orient = false
	return m
}
