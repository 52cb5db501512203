package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animator owns at most one in-flight transform transition. Starting a new
// transition replaces the previous one synchronously, which makes "one
// transform animation at a time" a structural property rather than a
// convention.
type Animator struct {
	x, y, s *gween.Tween
	target  Transform
	active  bool
}

// Start begins an ease-out cubic transition from the current transform to
// target over duration seconds, cancelling any in-flight transition.
func (a *Animator) Start(from, to Transform, duration float32) {
	if duration <= 0 {
		a.Cancel()
		return
	}
	a.x = gween.New(float32(from.X), float32(to.X), duration, ease.OutCubic)
	a.y = gween.New(float32(from.Y), float32(to.Y), duration, ease.OutCubic)
	a.s = gween.New(float32(from.Scale), float32(to.Scale), duration, ease.OutCubic)
	a.target = to
	a.active = true
}

// Cancel drops the in-flight transition, if any, leaving the last applied
// transform in place.
func (a *Animator) Cancel() {
	a.x, a.y, a.s = nil, nil, nil
	a.active = false
}

// Active reports whether a transition is in flight.
func (a *Animator) Active() bool {
	return a.active
}

// Target returns the transform the in-flight transition is heading to. Only
// meaningful while Active.
func (a *Animator) Target() Transform {
	return a.target
}

// Update advances the transition by dt seconds and returns the current
// transform. done is true on the frame the transition completes; the
// animator deactivates itself and the returned transform equals the target
// exactly (no float32 drift on the final value).
func (a *Animator) Update(dt float32) (t Transform, done bool) {
	if !a.active {
		return Transform{}, false
	}
	xv, xd := a.x.Update(dt)
	yv, yd := a.y.Update(dt)
	sv, sd := a.s.Update(dt)
	if xd && yd && sd {
		a.Cancel()
		return a.target, true
	}
	return Transform{X: float64(xv), Y: float64(yv), Scale: float64(sv)}, false
}
