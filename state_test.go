package arbor

import (
	"fmt"
	"testing"
	"time"
)

// machineClock is an injectable test clock.
type machineClock struct {
	t time.Time
}

func newMachineClock() *machineClock {
	return &machineClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *machineClock) now() time.Time { return c.t }

func (c *machineClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testMachine(clock *machineClock) *stateMachine {
	m := newStateMachine(300*time.Millisecond, 5*time.Second)
	m.now = clock.now
	return m
}

func snapshotOfIDs(ids ...string) Snapshot {
	var s Snapshot
	for _, id := range ids {
		s.Nodes = append(s.Nodes, GraphNode{ID: id})
	}
	return s
}

func TestMachineStartsUninitialized(t *testing.T) {
	m := testMachine(newMachineClock())
	if m.phase != PhaseUninitialized {
		t.Errorf("phase = %v, want uninitialized", m.phase)
	}
	if !m.interactionBlocked() {
		t.Error("interaction must be blocked before the first fit")
	}
}

func TestMachineSnapshotBeforeDims(t *testing.T) {
	m := testMachine(newMachineClock())
	if !m.observeSnapshot(snapshotOfIDs("a", "b")) {
		t.Error("first snapshot must be a real change")
	}
	// No dimensions yet: positioning must wait.
	if m.phase != PhaseUninitialized {
		t.Errorf("phase = %v, want uninitialized until dims arrive", m.phase)
	}

	m.observeDims(Vec2{800, 600})
	if m.phase != PhasePositioning {
		t.Errorf("phase = %v, want positioning once dims arrive", m.phase)
	}
}

func TestMachineInvalidDimsAreAHold(t *testing.T) {
	m := testMachine(newMachineClock())
	m.observeSnapshot(snapshotOfIDs("a"))
	m.observeDims(Vec2{0, 600})
	m.observeDims(Vec2{-5, 600})
	if m.phase != PhaseUninitialized {
		t.Errorf("phase = %v, want uninitialized on invalid dims", m.phase)
	}
}

func TestMachineCommitReachesStable(t *testing.T) {
	m := testMachine(newMachineClock())
	m.observeSnapshot(snapshotOfIDs("a"))
	m.observeDims(Vec2{800, 600})
	m.commit()
	if m.phase != PhaseStable {
		t.Errorf("phase = %v, want stable after commit", m.phase)
	}
	if m.interactionBlocked() {
		t.Error("interaction must be allowed when stable")
	}
}

func TestMachineIDSetChangeDetection(t *testing.T) {
	m := testMachine(newMachineClock())
	m.observeDims(Vec2{800, 600})

	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%d", i)
	}
	m.observeSnapshot(snapshotOfIDs(ids...))
	m.commit()

	// Same ids again: not a change, even with different stats.
	if m.observeSnapshot(snapshotOfIDs(ids...)) {
		t.Error("identical id set reported as a change")
	}
	if m.phase != PhaseStable {
		t.Errorf("phase = %v, want stable preserved on no-op snapshot", m.phase)
	}

	// Same count, one id swapped: a real change.
	ids[9] = "n9-replacement"
	if !m.observeSnapshot(snapshotOfIDs(ids...)) {
		t.Error("swapped id with equal count not reported as a change")
	}
	if m.phase != PhasePositioning {
		t.Errorf("phase = %v, want positioning on real change", m.phase)
	}
}

func TestMachineEdgeIDChangeIsAChange(t *testing.T) {
	m := testMachine(newMachineClock())
	m.observeDims(Vec2{800, 600})

	s := snapshotOfIDs("a", "b")
	s.Edges = []GraphEdge{{ID: "e1", From: "a", To: "b"}}
	m.observeSnapshot(s)
	m.commit()

	s.Edges = []GraphEdge{{ID: "e2", From: "a", To: "b"}}
	if !m.observeSnapshot(s) {
		t.Error("edge id change not reported as a change")
	}
}

func TestMachineResizeDebounce(t *testing.T) {
	clock := newMachineClock()
	m := testMachine(clock)
	m.observeSnapshot(snapshotOfIDs("a"))
	m.observeDims(Vec2{800, 600})
	m.commit()

	m.observeDims(Vec2{900, 600})
	if !m.resizing {
		t.Fatal("resize overlay not raised")
	}
	if m.interactionBlocked() {
		t.Error("resizing must not block interaction; phase stays stable")
	}

	// A second change 200ms in restarts the debounce window.
	clock.advance(200 * time.Millisecond)
	m.observeDims(Vec2{950, 600})

	clock.advance(200 * time.Millisecond)
	if cleared, _ := m.tick(); cleared {
		t.Error("debounce cleared 200ms after the last change, want 300ms")
	}

	clock.advance(150 * time.Millisecond)
	cleared, _ := m.tick()
	if !cleared {
		t.Error("debounce did not clear after the window elapsed")
	}
	if m.resizing {
		t.Error("overlay still raised after clearing")
	}
}

func TestMachineResizeBurstCoalesces(t *testing.T) {
	clock := newMachineClock()
	m := testMachine(clock)
	m.observeSnapshot(snapshotOfIDs("a"))
	m.observeDims(Vec2{800, 600})
	m.commit()

	// Burst of changes at t=0, 50, 120, 200ms: the overlay must clear about
	// 500ms in, 300ms after the last change.
	start := clock.t
	for _, at := range []time.Duration{0, 50 * time.Millisecond, 120 * time.Millisecond, 200 * time.Millisecond} {
		clock.t = start.Add(at)
		m.observeDims(Vec2{800 + float64(at.Milliseconds()), 600})
	}

	clock.t = start.Add(450 * time.Millisecond)
	if cleared, _ := m.tick(); cleared {
		t.Error("cleared at 450ms, want ~500ms")
	}
	clock.t = start.Add(510 * time.Millisecond)
	if cleared, _ := m.tick(); !cleared {
		t.Error("not cleared at 510ms, want ~500ms")
	}
}

func TestMachinePositioningTimeout(t *testing.T) {
	clock := newMachineClock()
	m := testMachine(clock)
	m.observeSnapshot(snapshotOfIDs("a"))
	m.observeDims(Vec2{800, 600})

	clock.advance(4 * time.Second)
	if _, force := m.tick(); force {
		t.Error("forced stable before the 5s window")
	}

	clock.advance(1100 * time.Millisecond)
	if _, force := m.tick(); !force {
		t.Error("positioning past its window not forced stable")
	}
}

func TestMachineResizeDuringPositioningDoesNotOverlay(t *testing.T) {
	m := testMachine(newMachineClock())
	m.observeSnapshot(snapshotOfIDs("a"))
	m.observeDims(Vec2{800, 600})

	// Still positioning: a dimension change updates dims without raising
	// the stable-phase resize overlay.
	m.observeDims(Vec2{900, 700})
	if m.resizing {
		t.Error("resize overlay raised during positioning")
	}
	if m.dims != (Vec2{900, 700}) {
		t.Errorf("dims = %v, want updated", m.dims)
	}
}
