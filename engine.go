package arbor

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// NodeEvent is delivered to the host's event callback for pointer
// interactions. Node and Cluster identify the hit target; both nil means the
// interaction landed on empty space (hosts typically clear selection).
type NodeEvent struct {
	Type    EventType
	Node    *PositionedNode
	Cluster *Cluster
	Screen  Vec2 // logical pixels
	World   Vec2
}

// HoveredMove describes a candidate move the host's UI is previewing, to be
// drawn as a directional indicator from the current position.
type HoveredMove struct {
	SAN       string
	WinRate   float64
	GameCount int
}

// ClusterMode selects which cluster detection runs, if any.
type ClusterMode uint8

const (
	ClusterModeNone    ClusterMode = iota
	ClusterModeFamily              // externally-assigned opening families
	ClusterModePath                // proximity to the current move path
	ClusterModeWinRate             // statistical performance buckets
)

// Engine is the graph visualization engine. It implements ebiten.Game and is
// driven entirely by the host's frame loop; it owns no goroutines and
// installs no global listeners. All mutation happens through the exported
// setters between frames or from the event callback.
type Engine struct {
	opts    Options
	machine *stateMachine
	view    ViewportState
	anim    Animator

	layout   Layout
	snapshot Snapshot

	nodes []PositionedNode
	edges []GraphEdge
	byID  map[string]int // node id -> index into nodes

	clusterMode ClusterMode
	clusters    []Cluster
	clusterPrev map[string]Vec2 // positions the clusters were built from
	families    map[string]string
	currentSeq  []string
	hoveredMove *HoveredMove

	input   InputSource
	pointer pointerState
	hover   hoverTarget
	cursor  CursorHint
	events  func(NodeEvent)

	deviceScale float64
	renderer    Renderer
	dbg         debugStats

	needsLayout bool
}

// NewEngine constructs an engine with the given options. Invalid options are
// rejected rather than silently corrected.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Force = opts.Force.withDefaults()
	opts.Cluster = opts.Cluster.withDefaults()
	debugEnabled = opts.Debug
	return &Engine{
		opts:        opts,
		machine:     newStateMachine(opts.resizeDebounce(), opts.positioningTimeout()),
		layout:      &ForceLayout{Config: opts.Force},
		input:       DeviceInput{},
		deviceScale: 1,
	}, nil
}

// SetInputSource replaces the input source. Pass nil to detach input
// entirely.
func (e *Engine) SetInputSource(src InputSource) {
	e.input = src
}

// OnNodeEvent registers the host callback for pointer events. Only one
// callback is held; passing nil unregisters.
func (e *Engine) OnNodeEvent(fn func(NodeEvent)) {
	e.events = fn
}

// SetLayout replaces the layout strategy. The next snapshot change uses it;
// already-positioned nodes keep their coordinates.
func (e *Engine) SetLayout(l Layout) {
	if l != nil {
		e.layout = l
	}
}

// SetSnapshot replaces the graph wholesale. The snapshot is sanitized
// (defaults filled, dangling edges dropped) and compared by id sets against
// the previous one; an identical id set is a no-op even if statistics
// changed in place, in which case the stats are refreshed without
// re-running layout.
func (e *Engine) SetSnapshot(s Snapshot) {
	s = sanitizeSnapshot(s, Vec2{e.opts.NodeWidth, e.opts.NodeHeight})
	changed := e.machine.observeSnapshot(s)
	e.snapshot = s
	if changed {
		e.needsLayout = true
		return
	}
	e.refreshStats()
}

// SetClusterMode selects cluster detection. Changing the mode rebuilds
// clusters on the next frame.
func (e *Engine) SetClusterMode(m ClusterMode) {
	if m == e.clusterMode {
		return
	}
	e.clusterMode = m
	e.clusterPrev = nil
}

// SetOpeningFamilies provides the node-id to family-name assignment used by
// ClusterModeFamily.
func (e *Engine) SetOpeningFamilies(families map[string]string) {
	e.families = families
	if e.clusterMode == ClusterModeFamily {
		e.clusterPrev = nil
	}
}

// SetCurrentSequence sets the move path the host considers current. Affects
// path clustering and the current-path highlight.
func (e *Engine) SetCurrentSequence(moves []string) {
	e.currentSeq = append(e.currentSeq[:0], moves...)
	if e.clusterMode == ClusterModePath {
		e.clusterPrev = nil
	}
}

// SetHoveredMove sets or clears (nil) the previewed move indicator.
func (e *Engine) SetHoveredMove(m *HoveredMove) {
	e.hoveredMove = m
}

// Resize reports new viewport dimensions in logical pixels. Hosts embedding
// the engine in their own ebiten game call this from their Layout; when the
// engine runs as the ebiten.Game itself its Layout method does it.
func (e *Engine) Resize(w, h float64) {
	e.machine.observeDims(Vec2{w, h})
	e.view.Dims = Vec2{w, h}
}

// Phase returns the readiness phase.
func (e *Engine) Phase() Phase {
	return e.machine.phase
}

// Resizing reports whether the resize overlay is active.
func (e *Engine) Resizing() bool {
	return e.machine.resizing
}

// InteractionBlocked reports whether input is currently rejected.
func (e *Engine) InteractionBlocked() bool {
	return e.machine.interactionBlocked()
}

// CursorHint returns the cursor the host should show.
func (e *Engine) CursorHint() CursorHint {
	return e.cursor
}

// Viewport returns the current view state. The transform pointer is nil
// until the first fit commits.
func (e *Engine) Viewport() ViewportState {
	return e.view
}

// Nodes returns the positioned nodes. The slice is owned by the engine;
// callers must not mutate it.
func (e *Engine) Nodes() []PositionedNode {
	return e.nodes
}

// Clusters returns the current clusters in draw order.
func (e *Engine) Clusters() []Cluster {
	return e.clusters
}

// FitAll frames the whole tree. Animated when the engine is interactive,
// instant otherwise. No-op when nothing is positioned yet.
func (e *Engine) FitAll() {
	e.fitTo(e.nodes)
}

// FitToIDs frames the subset of nodes with the given ids. Unknown ids are
// ignored; an empty resolved subset is a no-op. Rejected while interaction
// is blocked, since the positioned set may be stale mid-repositioning.
func (e *Engine) FitToIDs(ids []string) {
	if e.machine.interactionBlocked() {
		return
	}
	var subset []PositionedNode
	for _, id := range ids {
		if i, ok := e.byID[id]; ok {
			subset = append(subset, e.nodes[i])
		}
	}
	e.fitTo(subset)
}

// ResetView returns to the identity transform. Rejected while interaction
// is blocked; only FitAll is allowed through the blocked window.
func (e *Engine) ResetView() {
	if e.machine.interactionBlocked() {
		return
	}
	e.transitionTo(IdentityTransform())
}

func (e *Engine) fitTo(nodes []PositionedNode) {
	if len(nodes) == 0 || !validDims(e.machine.dims) {
		return
	}
	e.transitionTo(FitTransform(nodes, e.machine.dims, e.opts.FitPadding))
}

// transitionTo moves the view to target, animating when the engine is
// interactive and animation is enabled.
func (e *Engine) transitionTo(target Transform) {
	if e.opts.AnimationSeconds > 0 && e.machine.phase == PhaseStable && e.view.Ready {
		e.anim.Start(e.view.Active(), target, float32(e.opts.AnimationSeconds))
		return
	}
	e.anim.Cancel()
	e.commitTransform(target)
}

// commitTransform makes t the committed transform.
func (e *Engine) commitTransform(t Transform) {
	e.view.Transform = &t
	e.view.Ready = true
}

// NodeAt returns the topmost node under the logical-pixel screen point, or
// nil. Nodes take priority over clusters; among nodes the last drawn wins.
func (e *Engine) NodeAt(x, y float64) *PositionedNode {
	if !e.view.Ready {
		return nil
	}
	w := e.view.Active().Invert(Vec2{x, y})
	for i := len(e.nodes) - 1; i >= 0; i-- {
		if e.nodes[i].WorldRect().Contains(w.X, w.Y) {
			return &e.nodes[i]
		}
	}
	return nil
}

// ClusterAt returns the topmost cluster under the logical-pixel screen
// point, or nil. Clusters are tested in reverse draw order so the one
// painted on top wins.
func (e *Engine) ClusterAt(x, y float64) *Cluster {
	if !e.view.Ready {
		return nil
	}
	w := e.view.Active().Invert(Vec2{x, y})
	for i := len(e.clusters) - 1; i >= 0; i-- {
		if PointInPolygon(w, e.clusters[i].Outline) {
			return &e.clusters[i]
		}
	}
	return nil
}

// Update advances one frame: time-based state transitions, layout when a
// new snapshot is pending, the fit animation, cluster staleness, and input.
// Implements ebiten.Game.
func (e *Engine) Update() error {
	resizeCleared, forceStable := e.machine.tick()

	if forceStable {
		// Positioning overran its window; recover with the identity
		// transform so the host is never stuck on the loading state.
		e.anim.Cancel()
		e.commitTransform(IdentityTransform())
		e.machine.commit()
		e.needsLayout = false
		debugf("positioning timeout, forcing stable")
	}

	if e.machine.phase == PhasePositioning && e.needsLayout && validDims(e.machine.dims) {
		e.runLayout()
	}

	if resizeCleared && e.opts.RefitOnResize {
		// Dimensions settled and the host opted in; otherwise a resize
		// keeps the committed transform.
		e.fitTo(e.nodes)
	}

	if e.anim.Active() {
		t, _ := e.anim.Update(e.frameDelta())
		e.commitTransform(t)
	}

	e.reconcileClusters()
	e.processInput()
	e.dbg.frame(e)
	return nil
}

// Draw renders the frame. Implements ebiten.Game.
func (e *Engine) Draw(screen *ebiten.Image) {
	e.drawScene(screen)
}

// Layout reports the render size in device pixels and feeds the logical
// size to the state machine. Implements ebiten.Game.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	e.deviceScale = scale
	e.Resize(float64(outsideWidth), float64(outsideHeight))
	return int(math.Ceil(float64(outsideWidth) * scale)), int(math.Ceil(float64(outsideHeight) * scale))
}

// runLayout positions the pending snapshot, rebuilds clusters, and commits
// the initial fit instantly. Completing the fit moves the machine to Stable.
func (e *Engine) runLayout() {
	e.nodes = e.layout.Apply(e.snapshot.Nodes, e.snapshot.Edges, e.machine.dims)
	e.edges = e.snapshot.Edges
	e.byID = make(map[string]int, len(e.nodes))
	for i := range e.nodes {
		e.byID[e.nodes[i].ID] = i
	}
	e.clusterPrev = nil
	e.reconcileClusters()

	e.anim.Cancel()
	e.commitTransform(FitTransform(e.nodes, e.machine.dims, e.opts.FitPadding))
	e.machine.commit()
	e.needsLayout = false
	debugf("layout %q positioned %d nodes, %d edges", e.layout.Name(), len(e.nodes), len(e.edges))
}

// refreshStats copies updated statistics from the snapshot onto the
// positioned nodes without moving anything.
func (e *Engine) refreshStats() {
	for _, gn := range e.snapshot.Nodes {
		if i, ok := e.byID[gn.ID]; ok {
			e.nodes[i].GraphNode = gn
		}
	}
	e.edges = e.snapshot.Edges
}

// reconcileClusters rebuilds the cluster slice wholesale when membership
// inputs changed or members moved beyond tolerance. Clusters are never
// patched in place.
func (e *Engine) reconcileClusters() {
	if e.clusterMode == ClusterModeNone {
		if e.clusters != nil {
			e.clusters = nil
			e.clusterPrev = nil
		}
		return
	}
	if len(e.nodes) == 0 {
		e.clusters = nil
		e.clusterPrev = nil
		return
	}
	if e.clusterPrev != nil && !clustersStale(e.nodes, e.clusterPrev, e.opts.Cluster.Epsilon) {
		return
	}

	switch e.clusterMode {
	case ClusterModeFamily:
		e.clusters = ClustersByFamily(e.nodes, e.families, e.opts.Cluster)
	case ClusterModePath:
		e.clusters = ClusterByPath(e.nodes, e.currentSeq, e.opts.Cluster)
	case ClusterModeWinRate:
		e.clusters = ClustersByWinRate(e.nodes, e.opts.Cluster)
	}
	e.clusterPrev = positionIndex(e.nodes)
}

// frameDelta returns the frame duration in seconds from the host tick rate.
func (e *Engine) frameDelta() float32 {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = 60
	}
	return 1 / float32(tps)
}

func (e *Engine) emit(ev NodeEvent) {
	if e.events != nil {
		e.events(ev)
	}
}

// currentNode returns the node whose move sequence equals the current path.
func (e *Engine) currentNode() *PositionedNode {
	for i := range e.nodes {
		if len(e.nodes[i].Moves) == len(e.currentSeq) && movesArePrefix(e.nodes[i].Moves, e.currentSeq) {
			return &e.nodes[i]
		}
	}
	return nil
}

// childByMove returns the child of cur reached by playing san, or nil.
func (e *Engine) childByMove(cur *PositionedNode, san string) *PositionedNode {
	want := len(cur.Moves) + 1
	for i := range e.nodes {
		n := &e.nodes[i]
		if len(n.Moves) == want && movesArePrefix(cur.Moves, n.Moves) && n.Moves[want-1] == san {
			return n
		}
	}
	return nil
}

// onCurrentPath reports whether moves is a prefix of the current sequence.
func (e *Engine) onCurrentPath(moves []string) bool {
	if len(e.currentSeq) == 0 {
		return false
	}
	return movesArePrefix(moves, e.currentSeq)
}
