package arbor

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const dragDeadZone = 4.0 // logical pixels of movement before a pan starts

// InputAction is a semantic keyboard command. Keeping actions semantic
// rather than key codes lets tests trigger commands without a display.
type InputAction uint8

const (
	ActionFitAll         InputAction = iota // frame the whole tree
	ActionResetView                         // reset to the identity transform
	ActionClearSelection                    // deselect, same as an empty-space click
)

// InputSource abstracts the host's input devices so the engine never
// installs global listeners and stays testable without a display. Cursor
// coordinates are in device pixels as the host reports them; the engine
// converts using its device scale.
type InputSource interface {
	CursorPosition() (x, y float64)
	ButtonPressed(b MouseButton) bool
	// Wheel returns this frame's scroll offsets.
	Wheel() (dx, dy float64)
	// ActionJustPressed reports a one-shot semantic key command.
	ActionJustPressed(a InputAction) bool
}

// DeviceInput is the ebiten-backed input source used in production.
type DeviceInput struct{}

// CursorPosition implements InputSource.
func (DeviceInput) CursorPosition() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

// ButtonPressed implements InputSource.
func (DeviceInput) ButtonPressed(b MouseButton) bool {
	switch b {
	case MouseButtonRight:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	case MouseButtonMiddle:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	default:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	}
}

// Wheel implements InputSource.
func (DeviceInput) Wheel() (float64, float64) {
	return ebiten.Wheel()
}

// ActionJustPressed implements InputSource.
func (DeviceInput) ActionJustPressed(a InputAction) bool {
	switch a {
	case ActionFitAll:
		return inpututil.IsKeyJustPressed(ebiten.KeyF)
	case ActionResetView:
		return inpututil.IsKeyJustPressed(ebiten.Key0)
	case ActionClearSelection:
		return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	default:
		return false
	}
}

// ScriptInput is a programmable input source for tests and automation: set
// the cursor, press and release buttons, queue wheel offsets and actions,
// then run engine frames. Wheel offsets and actions are one-shot, consumed
// by the next frame that reads them, mirroring real per-frame input.
type ScriptInput struct {
	cursor  Vec2
	buttons [3]bool
	wheelX  float64
	wheelY  float64
	actions map[InputAction]bool
}

// NewScriptInput returns an idle script source.
func NewScriptInput() *ScriptInput {
	return &ScriptInput{actions: make(map[InputAction]bool)}
}

// MoveTo positions the cursor, in device pixels.
func (s *ScriptInput) MoveTo(x, y float64) {
	s.cursor = Vec2{x, y}
}

// Press holds a button down until Release.
func (s *ScriptInput) Press(b MouseButton) {
	s.buttons[b] = true
}

// Release lets a button up.
func (s *ScriptInput) Release(b MouseButton) {
	s.buttons[b] = false
}

// Scroll queues a wheel offset for the next frame.
func (s *ScriptInput) Scroll(dx, dy float64) {
	s.wheelX += dx
	s.wheelY += dy
}

// Trigger queues a one-shot action for the next frame.
func (s *ScriptInput) Trigger(a InputAction) {
	s.actions[a] = true
}

// CursorPosition implements InputSource.
func (s *ScriptInput) CursorPosition() (float64, float64) {
	return s.cursor.X, s.cursor.Y
}

// ButtonPressed implements InputSource.
func (s *ScriptInput) ButtonPressed(b MouseButton) bool {
	return s.buttons[b]
}

// Wheel implements InputSource.
func (s *ScriptInput) Wheel() (float64, float64) {
	dx, dy := s.wheelX, s.wheelY
	s.wheelX, s.wheelY = 0, 0
	return dx, dy
}

// ActionJustPressed implements InputSource.
func (s *ScriptInput) ActionJustPressed(a InputAction) bool {
	if s.actions[a] {
		delete(s.actions, a)
		return true
	}
	return false
}

// pointerState tracks one frame-to-frame pointer interaction.
type pointerState struct {
	down     bool
	button   MouseButton
	start    Vec2 // logical pixels
	last     Vec2
	dragging bool
}

// hoverTarget remembers what the pointer was last over, for hover
// enter/leave events.
type hoverTarget struct {
	nodeID    string
	clusterID string
	any       bool
}

// processInput runs once per Update. While the state machine reports
// blocked, every gesture is rejected outright, nothing is queued, and the
// pointer state resets so a press spanning the blocked window cannot turn
// into a click afterwards.
func (e *Engine) processInput() {
	if e.input == nil {
		return
	}

	// FitAll is the one command allowed through while blocked. It acts on
	// whatever is positioned right now and no-ops otherwise, so nothing is
	// ever queued.
	if e.input.ActionJustPressed(ActionFitAll) {
		e.FitAll()
	}

	if e.machine.interactionBlocked() {
		// Drain the one-shot inputs so nothing from the blocked window
		// leaks into the first interactive frame.
		e.input.Wheel()
		e.input.ActionJustPressed(ActionResetView)
		e.input.ActionJustPressed(ActionClearSelection)
		e.cursor = CursorBlocked
		e.pointer = pointerState{}
		return
	}

	cx, cy := e.input.CursorPosition()
	p := Vec2{cx / e.deviceScale, cy / e.deviceScale}

	if e.input.ActionJustPressed(ActionResetView) {
		e.ResetView()
	}
	if e.input.ActionJustPressed(ActionClearSelection) {
		e.emit(NodeEvent{Type: EventClick, Screen: p, World: e.view.Active().Invert(p)})
	}

	// Wheel zoom under the cursor. A manual transform write cancels any
	// in-flight fit animation first.
	if _, wy := e.input.Wheel(); wy != 0 {
		factor := math.Pow(e.opts.WheelZoomStep, wy)
		e.anim.Cancel()
		e.commitTransform(ZoomAt(e.view.Active(), factor, p))
	}

	left := e.input.ButtonPressed(MouseButtonLeft)
	right := e.input.ButtonPressed(MouseButtonRight)
	pressed := left || right
	button := MouseButtonLeft
	if right && !left {
		button = MouseButtonRight
	}

	ps := &e.pointer
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.start = p
		ps.last = p
		ps.dragging = false

	case pressed && ps.down:
		if p != ps.last {
			if !ps.dragging && ps.button == MouseButtonLeft && p.Sub(ps.start).Len() > dragDeadZone {
				ps.dragging = true
				e.anim.Cancel()
			}
			if ps.dragging {
				t := e.view.Active()
				t.X += p.X - ps.last.X
				t.Y += p.Y - ps.last.Y
				e.commitTransform(t)
			}
			ps.last = p
		}

	case !pressed && ps.down:
		if !ps.dragging {
			typ := EventClick
			if ps.button == MouseButtonRight {
				typ = EventRightClick
			}
			e.emitPointerEvent(typ, p)
		}
		*ps = pointerState{}

	default:
		if p != ps.last {
			e.updateHover(p)
			ps.last = p
		}
	}

	e.updateCursorHint()
}

// emitPointerEvent resolves the hit target (nodes take priority over
// clusters) and emits the event. A miss still emits with both targets nil
// so hosts can clear selection on empty-space clicks.
func (e *Engine) emitPointerEvent(typ EventType, screen Vec2) {
	ev := NodeEvent{Type: typ, Screen: screen, World: e.view.Active().Invert(screen)}
	if n := e.NodeAt(screen.X, screen.Y); n != nil {
		ev.Node = n
	} else if c := e.ClusterAt(screen.X, screen.Y); c != nil {
		ev.Cluster = c
	}
	e.emit(ev)
}

// updateHover fires Hover/HoverEnd when the pointer target changes.
func (e *Engine) updateHover(screen Vec2) {
	var next hoverTarget
	node := e.NodeAt(screen.X, screen.Y)
	var cluster *Cluster
	if node != nil {
		next = hoverTarget{nodeID: node.ID, any: true}
	} else if cluster = e.ClusterAt(screen.X, screen.Y); cluster != nil {
		next = hoverTarget{clusterID: cluster.ID, any: true}
	}

	if next == e.hover {
		return
	}
	world := e.view.Active().Invert(screen)
	if e.hover.any {
		e.emit(NodeEvent{Type: EventHoverEnd, Screen: screen, World: world})
	}
	if next.any {
		e.emit(NodeEvent{Type: EventHover, Node: node, Cluster: cluster, Screen: screen, World: world})
	}
	e.hover = next
}

// updateCursorHint recomputes the read-only cursor hint from the current
// pointer target.
func (e *Engine) updateCursorHint() {
	switch {
	case e.machine.interactionBlocked():
		e.cursor = CursorBlocked
	case e.hover.any || e.pointer.dragging:
		e.cursor = CursorPointer
	default:
		e.cursor = CursorDefault
	}
}
