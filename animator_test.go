package arbor

import "testing"

func TestAnimatorInactiveByDefault(t *testing.T) {
	var a Animator
	if a.Active() {
		t.Error("fresh animator reports active")
	}
	if tr, done := a.Update(0.1); done || tr != (Transform{}) {
		t.Errorf("Update on inactive animator = %+v, %v, want zero, false", tr, done)
	}
}

func TestAnimatorReachesExactTarget(t *testing.T) {
	var a Animator
	from := Transform{X: 0, Y: 0, Scale: 1}
	to := Transform{X: 100, Y: -50, Scale: 0.5}
	a.Start(from, to, 0.4)

	var last Transform
	var done bool
	for i := 0; i < 120 && !done; i++ {
		last, done = a.Update(1.0 / 60.0)
	}
	if !done {
		t.Fatal("animation never completed")
	}
	// The final frame must equal the target exactly, not a float32
	// approximation of it.
	if last != to {
		t.Errorf("final transform = %+v, want exactly %+v", last, to)
	}
	if a.Active() {
		t.Error("animator still active after completion")
	}
}

func TestAnimatorEaseOutFrontLoaded(t *testing.T) {
	var a Animator
	a.Start(Transform{Scale: 1}, Transform{X: 100, Scale: 1}, 1.0)

	half, _ := a.Update(0.5)
	// Ease-out cubic covers well over half the distance in the first half.
	if half.X <= 60 {
		t.Errorf("X at t=0.5 is %f, want > 60 for ease-out", half.X)
	}
}

func TestAnimatorCancelOnReplace(t *testing.T) {
	var a Animator
	a.Start(Transform{Scale: 1}, Transform{X: 100, Scale: 1}, 1.0)
	a.Update(0.2)

	// Replacing mid-flight retargets synchronously.
	a.Start(Transform{X: 20, Scale: 1}, Transform{X: -40, Scale: 1}, 0.1)
	if a.Target() != (Transform{X: -40, Scale: 1}) {
		t.Errorf("Target = %+v, want the replacement", a.Target())
	}

	var last Transform
	var done bool
	for i := 0; i < 60 && !done; i++ {
		last, done = a.Update(1.0 / 60.0)
	}
	if !done || last != (Transform{X: -40, Scale: 1}) {
		t.Errorf("after replace: %+v done=%v, want exactly the replacement target", last, done)
	}
}

func TestAnimatorCancel(t *testing.T) {
	var a Animator
	a.Start(Transform{Scale: 1}, Transform{X: 100, Scale: 1}, 1.0)
	a.Cancel()
	if a.Active() {
		t.Error("animator active after Cancel")
	}
	if _, done := a.Update(0.1); done {
		t.Error("cancelled animator reported completion")
	}
}

func TestAnimatorZeroDuration(t *testing.T) {
	var a Animator
	a.Start(Transform{Scale: 1}, Transform{X: 100, Scale: 1}, 0)
	if a.Active() {
		t.Error("zero-duration start must not activate; callers commit instantly")
	}
}
