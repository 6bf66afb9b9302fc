package climb

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/collision"
	"github.com/milk9111/wallclimb/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onWall is the pose of a character attached to flatWall at height z.
func onWall(z float64) *fakeMover {
	return attached(newFakeMover(mgl64.Vec3{100 - 0.01 - testRadius, 0, z}, geom.Rotator{}))
}

func TestStepNoInput(t *testing.T) {
	for _, vertical := range []bool{true, false} {
		m := onWall(200)
		m.rot = geom.Rot(3, 4, 0)
		c, _ := newTestClimber(t, m, flatWall(), DefaultConfig())
		c.flags.Climbing = vertical

		loc, rot, flags := m.loc, m.rot, c.Flags()
		assert.Equal(t, StepNoInput, c.StepAlongWall(0, m.rot.Up(), vertical))
		assert.Equal(t, loc, m.loc)
		assert.Equal(t, rot, m.rot)
		assert.Equal(t, flags, c.Flags())
		assert.Empty(t, m.inputs)
	}
}

func TestStepNotAttached(t *testing.T) {
	m := newFakeMover(mgl64.Vec3{58, 0, 200}, geom.Rotator{})
	c, _ := newTestClimber(t, m, flatWall(), DefaultConfig())
	assert.Equal(t, StepNotAttached, c.StepAlongWall(1, m.rot.Up(), true))
	assert.Empty(t, m.inputs)
	assert.False(t, c.Flags().Climbing)
}

func TestStepFlatWall(t *testing.T) {
	tests := []struct {
		name     string
		axis     float64
		vertical bool
		wantDir  mgl64.Vec3
	}{
		{"up", 1, true, mgl64.Vec3{0, 0, 1}},
		{"down_half", -0.5, true, mgl64.Vec3{0, 0, 1}},
		{"right", 1, false, mgl64.Vec3{0, 1, 0}},
		{"left", -1, false, mgl64.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := onWall(200)
			c, logs := newTestClimber(t, m, flatWall(), DefaultConfig())
			dir := m.rot.Up()
			if !tt.vertical {
				dir = m.rot.Right()
			}

			require.Equal(t, StepMoved, c.StepAlongWall(tt.axis, dir, tt.vertical))
			assert.True(t, c.Flags().Climbing)
			assert.Equal(t, ModeWallAttached, m.mode)
			require.Len(t, m.inputs, 1)
			in := m.inputs[0]
			assert.Equal(t, tt.axis, in.scale)
			// The direction points at the probed spot; sign(axis) and the
			// scale together move the character toward the input.
			assert.InDelta(t, 1, in.dir.Len(), 1e-9)
			assert.InDelta(t, 1, in.dir.Dot(tt.wantDir), 1e-3)
			assert.Zero(t, logs.Len())
		})
	}
}

func TestStepRotatesTowardWall(t *testing.T) {
	m := onWall(200)
	m.rot = geom.Rot(0, 30, 0)
	c, _ := newTestClimber(t, m, flatWall(), DefaultConfig())

	require.Equal(t, StepMoved, c.StepAlongWall(1, m.rot.Up(), true))
	// 5/s at 60 fps closes a twelfth of the gap.
	assert.InDelta(t, 30-30*5*testDelta, m.rot.Yaw, 1e-6)
	assert.Equal(t, 0.0, m.rot.Pitch)
}

func TestStepTurnAngle(t *testing.T) {
	turned := func(deg float64) mgl64.Vec3 {
		rad := mgl64.DegToRad(deg)
		return mgl64.Vec3{-math.Cos(rad), math.Sin(rad), 0}
	}
	tests := []struct {
		name string
		deg  float64
		want StepOutcome
	}{
		{"inside_corner_70", 70, StepTurnTooSharp},
		{"outside_corner_-90", -90, StepTurnTooSharp},
		{"gentle_60", 60, StepMoved},
		{"at_limit_65", 64.9, StepMoved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := onWall(200)
			w := &normalWorld{mover: m, forwardNormal: mgl64.Vec3{-1, 0, 0}, lateralNormal: turned(tt.deg)}
			c, logs := newTestClimber(t, m, w, DefaultConfig())
			loc, rot := m.loc, m.rot

			assert.Equal(t, tt.want, c.StepAlongWall(1, m.rot.Right(), false))
			assert.Equal(t, ModeWallAttached, m.mode)
			if tt.want == StepTurnTooSharp {
				assert.Empty(t, m.inputs)
				assert.Equal(t, loc, m.loc)
				assert.Equal(t, rot, m.rot)
				assert.False(t, c.Flags().Climbing)
				assert.Equal(t, 1, logs.FilterMessage("turn angle exceeded").Len())
			} else {
				assert.Len(t, m.inputs, 1)
			}
		})
	}
}

func TestStepForwardMissCountsAsPerpendicular(t *testing.T) {
	m := onWall(200)
	w := &normalWorld{mover: m, lateralNormal: mgl64.Vec3{-1, 0, 0}}
	c, _ := newTestClimber(t, m, w, DefaultConfig())
	assert.Equal(t, StepTurnTooSharp, c.StepAlongWall(1, m.rot.Up(), true))

	cfg := DefaultConfig()
	cfg.MaxTurnAngle = 91
	c, _ = newTestClimber(t, m, w, cfg)
	assert.Equal(t, StepMoved, c.StepAlongWall(1, m.rot.Up(), true))
}

func TestStepClimbAngle(t *testing.T) {
	// wallNormal returns the normal of a wall the character faces at the
	// given climb pitch.
	wallNormal := func(pitch float64) mgl64.Vec3 {
		return geom.Rot(pitch, 0, 0).Forward().Mul(-1)
	}
	tests := []struct {
		name  string
		pitch float64
		want  StepOutcome
	}{
		{"vertical", 0, StepMoved},
		{"overhang_40", 40, StepMoved},
		{"overhang_60", 60, StepClimbAngleInvalid},
		{"slab_-70", -70, StepMoved},
		{"slab_-80", -80, StepClimbAngleInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := onWall(200)
			n := wallNormal(tt.pitch)
			w := &normalWorld{mover: m, forwardNormal: n, lateralNormal: n}
			c, logs := newTestClimber(t, m, w, DefaultConfig())
			loc, rot := m.loc, m.rot

			assert.Equal(t, tt.want, c.StepAlongWall(1, m.rot.Up(), true))
			if tt.want == StepClimbAngleInvalid {
				assert.Empty(t, m.inputs)
				assert.Equal(t, loc, m.loc)
				assert.Equal(t, rot, m.rot)
				assert.Equal(t, 1, logs.FilterMessage("climb angle invalid").Len())
			} else {
				assert.Len(t, m.inputs, 1)
				assert.Greater(t, m.rot.Pitch*tt.pitch, -1e-9, "rotates toward the wall pitch")
			}
		})
	}
}

// ledge is flatWall cut at z = 300.
func ledge() *collision.Scene {
	s := collision.NewScene()
	s.AddBox(mgl64.Vec3{100, -500, 0}, mgl64.Vec3{300, 500, 300})
	return s
}

func TestStepVault(t *testing.T) {
	m := onWall(150)
	c, logs := newTestClimber(t, m, ledge(), DefaultConfig())

	require.Equal(t, StepMoved, c.StepAlongWall(1, m.rot.Up(), true))
	require.True(t, c.Flags().Climbing)

	m.loc = m.loc.Add(mgl64.Vec3{0, 0, 100})
	start := m.loc
	assert.Equal(t, StepVaulted, c.StepAlongWall(1, m.rot.Up(), true))
	assert.True(t, m.mode.IsFree(), "vault detaches immediately")
	assert.False(t, c.Flags().Climbing)
	assert.True(t, m.orient)
	assert.Equal(t, 1, logs.FilterMessage("wall not found").Len())

	tr := c.Transition()
	require.NotNil(t, tr)
	assert.Equal(t, 0.5, tr.Duration())
	assert.Nil(t, tr.Next())
	// Spot checked for clearance: two half heights up, one diameter forward.
	spot := start.Add(mgl64.Vec3{2 * testRadius, 0, 2 * testHalfHeight})
	wantRetreat := spot.Add(mgl64.Vec3{30 - 2*testRadius, 0, 0})
	target, _ := tr.Target()
	assert.True(t, geom.NearlyEqual(wantRetreat, target, 1e-9))

	c.Update(0.6)
	assert.True(t, geom.NearlyEqual(wantRetreat, m.loc, 1e-9))
	assert.Nil(t, c.Transition())
}

func TestStepVaultSecondStage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VaultSecondStage = true
	m := onWall(250)
	c, _ := newTestClimber(t, m, ledge(), cfg)
	c.flags.Climbing = true

	require.Equal(t, StepVaulted, c.StepAlongWall(1, m.rot.Up(), true))
	first := c.Transition()
	require.NotNil(t, first)
	require.NotNil(t, first.Next())
	forward, _ := first.Next().Target()
	retreat, _ := first.Target()
	assert.InDelta(t, 2*testRadius, forward.X()-retreat.X(), 1e-9)

	c.Update(0.5)
	assert.True(t, geom.NearlyEqual(retreat, m.loc, 1e-9))
	require.NotNil(t, c.Transition())
	c.Update(0.35)
	assert.True(t, geom.NearlyEqual(forward, m.loc, 1e-9))
	assert.Nil(t, c.Transition())
}

func TestStepVaultBlocked(t *testing.T) {
	s := ledge()
	// Ceiling over the ledge.
	s.AddBox(mgl64.Vec3{100, -500, 420}, mgl64.Vec3{300, 500, 500})
	m := onWall(250)
	c, logs := newTestClimber(t, m, s, DefaultConfig())
	c.flags.Climbing = true
	loc := m.loc

	assert.Equal(t, StepVaultBlocked, c.StepAlongWall(1, m.rot.Up(), true))
	assert.Equal(t, ModeWallAttached, m.mode)
	assert.True(t, c.Flags().Climbing)
	assert.Equal(t, loc, m.loc)
	assert.Nil(t, c.Transition())
	assert.Equal(t, 1, logs.FilterMessage("can't vault").Len())
}

func TestStepNoVault(t *testing.T) {
	tests := []struct {
		name     string
		climbing bool
		axis     float64
		vertical bool
	}{
		{"not_climbing_yet", false, 1, true},
		{"horizontal", true, 1, false},
		{"downward", true, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := onWall(250)
			w := &normalWorld{mover: m, forwardNormal: mgl64.Vec3{-1, 0, 0}, lateralMiss: true}
			c, _ := newTestClimber(t, m, w, DefaultConfig())
			c.flags.Climbing = tt.climbing
			dir := m.rot.Up()
			if !tt.vertical {
				dir = m.rot.Right()
			}

			assert.Equal(t, StepNoWall, c.StepAlongWall(tt.axis, dir, tt.vertical))
			assert.Equal(t, ModeWallAttached, m.mode)
			assert.Empty(t, m.inputs)
			assert.Nil(t, c.Transition())
		})
	}
}
