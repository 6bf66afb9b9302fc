package climb

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/geom"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Transition is a timed, eased move of location and rotation. A transition
// may carry a follow-up stage that starts once it finishes.
type Transition struct {
	Name     string
	fromLoc  mgl64.Vec3
	toLoc    mgl64.Vec3
	fromRot  geom.Rotator
	toRot    geom.Rotator
	duration float64
	elapsed  float64
	tween    *gween.Tween
	next     *Transition
}

// NewTransition moves from (fromLoc, fromRot) to (toLoc, toRot) over
// duration seconds using easing.
func NewTransition(name string, fromLoc mgl64.Vec3, fromRot geom.Rotator, toLoc mgl64.Vec3, toRot geom.Rotator, duration float64, easing ease.TweenFunc) *Transition {
	if easing == nil {
		easing = ease.Linear
	}
	t := &Transition{
		Name:     name,
		fromLoc:  fromLoc,
		toLoc:    toLoc,
		fromRot:  fromRot,
		toRot:    toRot,
		duration: duration,
	}
	if duration > 0 {
		t.tween = gween.New(0, 1, float32(duration), easing)
	}
	return t
}

// Then queues next to run after t and returns t.
func (t *Transition) Then(next *Transition) *Transition {
	t.next = next
	return t
}

func (t *Transition) Next() *Transition {
	return t.next
}

// Target is where the transition ends.
func (t *Transition) Target() (mgl64.Vec3, geom.Rotator) {
	return t.toLoc, t.toRot
}

func (t *Transition) Duration() float64 {
	return t.duration
}

func (t *Transition) Elapsed() float64 {
	return t.elapsed
}

// Tick advances the transition by dt and returns the pose to apply.
func (t *Transition) Tick(dt float64) (mgl64.Vec3, geom.Rotator, bool) {
	if t.tween == nil {
		return t.toLoc, t.toRot, true
	}
	t.elapsed += dt
	if t.elapsed > t.duration {
		t.elapsed = t.duration
	}
	alpha, done := t.tween.Update(float32(dt))
	if done {
		return t.toLoc, t.toRot, true
	}
	a := float64(alpha)
	return geom.LerpVec(t.fromLoc, t.toLoc, a), geom.RLerp(t.fromRot, t.toRot, a), false
}
