package sim

import (
	"testing"

	"github.com/milk9111/wallclimb/character"
	"github.com/milk9111/wallclimb/climb"
	"github.com/milk9111/wallclimb/common"
	"github.com/milk9111/wallclimb/prefabs"
	"github.com/milk9111/wallclimb/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// The embedded level's block has its climbable face at x = 768 and its top
// at z = 576.
const (
	blockFace = 768.0
	blockTop  = 576.0
	blockEnd  = 1152.0
)

func newTestSession(t *testing.T, kind WorldKind) (*Session, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	s, err := New(prefabs.DefaultCharacterSpec(), kind, zap.New(core))
	require.NoError(t, err)
	return s, logs
}

func loadScript(t *testing.T, name string) *script.Runtime {
	t.Helper()
	rt, err := script.Load(name, nil)
	require.NoError(t, err)
	return rt
}

func TestParseWorldKind(t *testing.T) {
	for _, s := range []string{"box", "planar"} {
		k, err := ParseWorldKind(s)
		require.NoError(t, err)
		assert.Equal(t, WorldKind(s), k)
	}
	_, err := ParseWorldKind("voxel")
	assert.ErrorIs(t, err, ErrUnknownWorld)
}

func TestNewErrors(t *testing.T) {
	spec := prefabs.DefaultCharacterSpec()
	spec.Level = "no_such_level"
	_, err := New(spec, WorldBox, nil)
	assert.Error(t, err)

	s, _ := newTestSession(t, WorldBox)
	_, err = NewWithLevel(prefabs.DefaultCharacterSpec(), s.Level, "voxel", nil)
	assert.ErrorIs(t, err, ErrUnknownWorld)
}

func TestSpawnSettles(t *testing.T) {
	s, logs := newTestSession(t, WorldBox)
	assert.Equal(t, climb.ModeAirborne, s.Body.Mode())
	for i := 0; i < 30; i++ {
		s.Step(common.DefaultDelta, character.Input{})
	}
	assert.Equal(t, climb.ModeGrounded, s.Body.Mode())
	assert.InDelta(t, s.Level.Spawn().Z()+96, s.Body.Location().Z(), 0.1)
	assert.Equal(t, 1, s.Summary().ModeChanges)
	assert.Equal(t, 1, logs.FilterMessage("mode changed").Len())
	assert.Equal(t, 30, s.Frame())
}

func TestClimbAndVault(t *testing.T) {
	s, logs := newTestSession(t, WorldBox)
	sum, err := s.Play(loadScript(t, "climb_and_vault"), common.DefaultDelta, 600)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Outcomes[climb.StepVaulted], sum.String())
	assert.Greater(t, sum.Outcomes[climb.StepMoved], 20)
	assert.Zero(t, sum.Outcomes[climb.StepVaultBlocked])
	assert.Greater(t, sum.AttachedFrames, 0)

	// Standing on top of the block.
	assert.Equal(t, climb.ModeGrounded, sum.FinalMode, sum.String())
	assert.InDelta(t, blockTop+96, sum.Final.Z(), 0.5)
	assert.Greater(t, sum.Final.X(), blockFace-42)
	assert.Less(t, sum.Final.X(), blockEnd)
	assert.Less(t, sum.Frames, 600)

	assert.Equal(t, 1, logs.FilterMessage("vault").Len())
	assert.Equal(t, 1, logs.FilterMessage("session finished").Len())
}

func TestWallJumpRegrab(t *testing.T) {
	s, _ := newTestSession(t, WorldBox)
	sum, err := s.Play(loadScript(t, "wall_jump"), common.DefaultDelta, 0)
	require.NoError(t, err)

	assert.Equal(t, 300, sum.Frames)
	assert.Greater(t, sum.AttachedFrames, 45, sum.String())
	assert.Greater(t, sum.MaxZ, s.Level.Spawn().Z()+96+150)
	// A fixed launch keeps the apex below the block top, where the re-grab finds the face.
	assert.Less(t, sum.MaxZ, blockTop, sum.String())
	assert.Equal(t, climb.ModeGrounded, sum.FinalMode, sum.String())
	assert.False(t, s.Controller.Climber().Flags().CheckForApex)
}

func TestPlayFrameLimit(t *testing.T) {
	s, _ := newTestSession(t, WorldBox)
	sum, err := s.Play(loadScript(t, "climb_and_vault"), common.DefaultDelta, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, sum.Frames)
	assert.InDelta(t, 10*common.DefaultDelta, sum.Elapsed, 1e-9)
}

func TestPlayScriptError(t *testing.T) {
	s, _ := newTestSession(t, WorldBox)
	rt, err := script.Compile("bad", []byte(`next := func(frame, t, state, pawn) { return {fly: 1} }`), nil)
	require.NoError(t, err)
	_, err = s.Play(rt, common.DefaultDelta, 10)
	assert.Error(t, err)
	assert.Zero(t, s.Frame())
}

func TestPlanarSession(t *testing.T) {
	s, _ := newTestSession(t, WorldPlanar)
	require.NotNil(t, s.Planar)
	require.NotNil(t, s.Planar.Space())

	sum, err := s.Play(loadScript(t, "climb_and_vault"), common.DefaultDelta, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, sum.Frames)
	assert.Contains(t, sum.String(), "frames=120")
}
