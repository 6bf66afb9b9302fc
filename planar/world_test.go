package planar

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/levels"
	"github.com/milk9111/wallclimb/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// wallLevel is a 4x4 level, tile 100, with a solid right column (x >= 300)
// and a solid floor row (z < 100).
func wallLevel(t *testing.T) *levels.Level {
	t.Helper()
	lvl := &levels.Level{
		Width: 4, Height: 4, TileSize: 100,
		Layers: [][]int{{
			0, 0, 0, 1,
			0, 0, 0, 1,
			0, 0, 0, 1,
			1, 1, 1, 1,
		}},
	}
	require.NoError(t, lvl.Validate())
	return lvl
}

func TestSweep(t *testing.T) {
	w := NewWorld(wallLevel(t), zaptest.NewLogger(t))
	require.NotNil(t, w.Space())

	tests := []struct {
		name     string
		shape    probe.Shape
		start    mgl64.Vec3
		end      mgl64.Vec3
		wantHit  bool
		wantX    float64
		wantNorm mgl64.Vec3
	}{
		{
			name:     "ray_hits_wall",
			shape:    probe.WallBox(),
			start:    mgl64.Vec3{100, 0, 200},
			end:      mgl64.Vec3{400, 0, 200},
			wantHit:  true,
			wantX:    300 - 0.01,
			wantNorm: mgl64.Vec3{-1, 0, 0},
		},
		{
			name:    "ray_short",
			shape:   probe.WallBox(),
			start:   mgl64.Vec3{100, 0, 200},
			end:     mgl64.Vec3{200, 0, 200},
			wantHit: false,
		},
		{
			name:     "capsule_hits_wall",
			shape:    probe.Capsule(20, 50),
			start:    mgl64.Vec3{150, 0, 200},
			end:      mgl64.Vec3{350, 0, 200},
			wantHit:  true,
			wantX:    280,
			wantNorm: mgl64.Vec3{-1, 0, 0},
		},
		{
			name:    "depth_is_ignored",
			shape:   probe.WallBox(),
			start:   mgl64.Vec3{100, 5000, 200},
			end:     mgl64.Vec3{100, -5000, 200},
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := w.Sweep(tt.shape, tt.start, tt.end, probe.Visibility)
			assert.Equal(t, tt.wantHit, ok)
			if !tt.wantHit {
				return
			}
			assert.InDelta(t, tt.wantX, hit.Location.X(), 0.5)
			assert.InDelta(t, tt.wantNorm.X(), hit.Normal.X(), 1e-6)
			assert.InDelta(t, tt.wantNorm.Z(), hit.Normal.Z(), 1e-6)
			assert.Equal(t, 0.0, hit.Normal.Y())
			assert.True(t, hit.Blocking)
		})
	}
}

func TestSweepOverlap(t *testing.T) {
	w := NewWorld(wallLevel(t), nil)
	capsule := probe.Capsule(20, 50)

	t.Run("clear", func(t *testing.T) {
		at := mgl64.Vec3{150, 0, 200}
		_, ok := w.Sweep(capsule, at, at, probe.Visibility)
		assert.False(t, ok)
	})

	t.Run("inside_floor", func(t *testing.T) {
		at := mgl64.Vec3{150, 0, 120}
		hit, ok := w.Sweep(capsule, at, at, probe.Visibility)
		require.True(t, ok)
		assert.Equal(t, 0.0, hit.Time)
		assert.Greater(t, hit.Normal.Z(), 0.9)
	})

	t.Run("leaving_contact_is_free", func(t *testing.T) {
		at := mgl64.Vec3{150, 0, 120}
		_, ok := w.Sweep(capsule, at, at.Add(mgl64.Vec3{0, 0, 100}), probe.Visibility)
		assert.False(t, ok)
	})

	t.Run("sliding_out_of_floor_still_hits_wall", func(t *testing.T) {
		at := mgl64.Vec3{150, 0, 120}
		hit, ok := w.Sweep(capsule, at, at.Add(mgl64.Vec3{200, 0, 0}), probe.Visibility)
		require.True(t, ok)
		assert.Greater(t, hit.Time, 0.0)
		assert.InDelta(t, 280, hit.Location.X(), 0.5)
		assert.InDelta(t, -1, hit.Normal.X(), 1e-6)
	})
}

func TestFootprint(t *testing.T) {
	r, offs := footprint(probe.Capsule(42, 96))
	assert.Equal(t, 42.0, r)
	require.GreaterOrEqual(t, len(offs), 3)
	assert.InDelta(t, -54, offs[0], 1e-9)
	assert.InDelta(t, 54, offs[len(offs)-1], 1e-9)
	for i := 1; i < len(offs); i++ {
		assert.LessOrEqual(t, offs[i]-offs[i-1], r)
	}

	r, offs = footprint(probe.WallBox())
	assert.InDelta(t, 0.01, r, 1e-12)
	assert.Equal(t, []float64{0}, offs)
}

func TestEmbeddedLevelPanel(t *testing.T) {
	lvl, err := levels.Load("climbing_wall")
	require.NoError(t, err)
	w := NewWorld(lvl, nil)
	assert.Equal(t, lvl, w.Level())

	// The overhang panel sits in open air to the right of the climbing block.
	p := lvl.Panels[0]
	c := mgl64.Vec3(p.Center)
	hit, ok := w.Sweep(probe.WallBox(), c.Sub(mgl64.Vec3{60, 0, 0}), c.Add(mgl64.Vec3{60, 0, 0}), probe.Visibility)
	require.True(t, ok)
	assert.Less(t, hit.Location.X(), c.X()+1)
}

func TestNilWorld(t *testing.T) {
	var w *World
	assert.Nil(t, w.Space())
	_, ok := w.Sweep(probe.WallBox(), mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, probe.Visibility)
	assert.False(t, ok)
}
