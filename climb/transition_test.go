package climb

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/geom"
	"github.com/stretchr/testify/assert"
	"github.com/tanema/gween/ease"
)

func TestTransitionLinear(t *testing.T) {
	tr := NewTransition("attach", mgl64.Vec3{0, 0, 0}, geom.Rot(0, 0, 0), mgl64.Vec3{100, 0, 0}, geom.Rot(0, 90, 0), 0.2, ease.Linear)

	loc, rot, done := tr.Tick(0.1)
	assert.False(t, done)
	assert.InDelta(t, 50, loc.X(), 1e-3)
	assert.InDelta(t, 45, rot.Yaw, 1e-3)
	assert.InDelta(t, 0.1, tr.Elapsed(), 1e-9)

	loc, rot, done = tr.Tick(0.25)
	assert.True(t, done)
	assert.Equal(t, mgl64.Vec3{100, 0, 0}, loc)
	assert.Equal(t, 90.0, rot.Yaw)
	assert.Equal(t, 0.2, tr.Elapsed())
}

func TestTransitionEaseIn(t *testing.T) {
	tr := NewTransition("vault", mgl64.Vec3{}, geom.Rotator{}, mgl64.Vec3{0, 0, 100}, geom.Rotator{}, 0.5, ease.InQuad)
	loc, _, done := tr.Tick(0.25)
	assert.False(t, done)
	// Eased in: slower than linear at the halfway mark.
	assert.InDelta(t, 25, loc.Z(), 1e-3)
}

func TestTransitionShortestRotation(t *testing.T) {
	tr := NewTransition("turn", mgl64.Vec3{}, geom.Rot(0, 170, 0), mgl64.Vec3{}, geom.Rot(0, -170, 0), 1, nil)
	_, rot, _ := tr.Tick(0.5)
	assert.InDelta(t, 180, abs(rot.Yaw), 1e-3)
}

func TestTransitionZeroDuration(t *testing.T) {
	tr := NewTransition("snap", mgl64.Vec3{}, geom.Rotator{}, mgl64.Vec3{1, 2, 3}, geom.Rot(0, 10, 0), 0, ease.Linear)
	loc, rot, done := tr.Tick(0)
	assert.True(t, done)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, loc)
	assert.Equal(t, geom.Rot(0, 10, 0), rot)
}

func TestTransitionThen(t *testing.T) {
	second := NewTransition("b", mgl64.Vec3{1, 0, 0}, geom.Rotator{}, mgl64.Vec3{2, 0, 0}, geom.Rotator{}, 0.1, nil)
	first := NewTransition("a", mgl64.Vec3{}, geom.Rotator{}, mgl64.Vec3{1, 0, 0}, geom.Rotator{}, 0.1, nil).Then(second)
	assert.Same(t, second, first.Next())
	assert.Nil(t, second.Next())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
