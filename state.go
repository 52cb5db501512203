package arbor

import "time"

// Phase is the engine's readiness state. Uninitialized holds until viewport
// dimensions are known; Positioning covers layout plus the initial fit;
// Stable allows interaction. Resizing is an orthogonal overlay tracked
// separately (see stateMachine.resizing).
type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhasePositioning
	PhaseStable
)

// String returns the phase name for diagnostics.
func (p Phase) String() string {
	switch p {
	case PhasePositioning:
		return "positioning"
	case PhaseStable:
		return "stable"
	default:
		return "uninitialized"
	}
}

// stateMachine reconciles dimension availability, data changes versus pure
// resizes, and exposes the interaction-blocked predicate. All transitions
// happen within single frame callbacks; there is no concurrency to guard.
type stateMachine struct {
	phase    Phase
	resizing bool

	dims        Vec2
	hasSnapshot bool
	nodeIDs     map[string]struct{}
	edgeIDs     map[string]struct{}

	resizeDeadline   time.Time
	positioningSince time.Time

	debounce time.Duration
	timeout  time.Duration
	now      func() time.Time // injectable clock
}

func newStateMachine(debounce, timeout time.Duration) *stateMachine {
	return &stateMachine{
		debounce: debounce,
		timeout:  timeout,
		now:      time.Now,
	}
}

// observeSnapshot records a new snapshot and reports whether it is a real
// data change. Identity is compared by node and edge id sets: an equal
// count with different ids is still a real change. A real change (re)enters
// Positioning once dimensions are known.
func (m *stateMachine) observeSnapshot(s Snapshot) bool {
	nodes, edges := idSets(s)
	if m.hasSnapshot && sameIDSet(nodes, m.nodeIDs) && sameIDSet(edges, m.edgeIDs) {
		return false
	}
	m.nodeIDs = nodes
	m.edgeIDs = edges
	m.hasSnapshot = true
	if validDims(m.dims) {
		m.enterPositioning()
	}
	return true
}

// observeDims records a viewport dimension change. Invalid dimensions
// (zero, negative, NaN, Inf) are a hold, not an error: the machine stays
// put and the engine defers rendering until valid dimensions arrive. A
// dimension change after Stable raises the Resizing overlay and arms the
// debounce timer; the committed transform is preserved.
func (m *stateMachine) observeDims(dims Vec2) {
	if !validDims(dims) {
		return
	}
	if dims == m.dims {
		return
	}
	first := !validDims(m.dims)
	m.dims = dims

	switch {
	case first:
		if m.hasSnapshot && m.phase == PhaseUninitialized {
			m.enterPositioning()
		}
	case m.phase == PhaseStable:
		m.resizing = true
		m.resizeDeadline = m.now().Add(m.debounce)
	}
}

func (m *stateMachine) enterPositioning() {
	m.phase = PhasePositioning
	m.resizing = false
	m.positioningSince = m.now()
}

// commit marks the initial transform as committed, moving Positioning to
// Stable. No-op in other phases.
func (m *stateMachine) commit() {
	if m.phase == PhasePositioning {
		m.phase = PhaseStable
	}
}

// tick advances time-based transitions. resizeCleared is true on the tick
// the Resizing overlay's debounce expires; forceStable is true when
// Positioning has exceeded its fallback timeout and the engine must commit
// an identity transform as recovery.
func (m *stateMachine) tick() (resizeCleared, forceStable bool) {
	t := m.now()
	if m.resizing && !t.Before(m.resizeDeadline) {
		m.resizing = false
		resizeCleared = true
	}
	if m.phase == PhasePositioning && t.Sub(m.positioningSince) >= m.timeout {
		forceStable = true
	}
	return resizeCleared, forceStable
}

// interactionBlocked reports whether pointer, wheel, and keyboard input must
// be rejected outright (never queued).
func (m *stateMachine) interactionBlocked() bool {
	return m.phase != PhaseStable
}
