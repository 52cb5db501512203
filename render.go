package arbor

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Palette. Tuned for a dark board-analysis background; win-rate colors are
// blended from the struggling/strong endpoints through neutral.
var (
	colorBackground = Color{0.09, 0.10, 0.12, 1}
	colorNodeFill   = Color{0.16, 0.18, 0.22, 1}
	colorNodeBorder = Color{0.35, 0.38, 0.45, 1}
	colorRootAccent = Color{0.85, 0.68, 0.25, 1}
	colorPathAccent = Color{0.35, 0.62, 0.90, 1}
	colorStruggling = Color{0.80, 0.30, 0.28, 1}
	colorNeutral    = Color{0.55, 0.55, 0.58, 1}
	colorStrong     = Color{0.30, 0.72, 0.42, 1}
	colorOverlay    = Color{0.05, 0.05, 0.07, 0.6}
)

// winRateColor maps a 0..100 win rate onto the struggling/neutral/strong
// gradient.
func winRateColor(wr float64) Color {
	wr = math.Max(0, math.Min(100, wr))
	if wr < 50 {
		return lerpColor(colorStruggling, colorNeutral, wr/50)
	}
	return lerpColor(colorNeutral, colorStrong, (wr-50)/50)
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// clusterFill returns the translucent region color for a cluster type.
func clusterFill(typ ClusterType, label string) Color {
	switch typ {
	case ClusterPosition:
		return Color{colorPathAccent.R, colorPathAccent.G, colorPathAccent.B, 0.10}
	case ClusterStatistical:
		c := colorNeutral
		switch label {
		case "struggling":
			c = colorStruggling
		case "strong":
			c = colorStrong
		}
		return Color{c.R, c.G, c.B, 0.08}
	default:
		return Color{0.55, 0.45, 0.75, 0.10}
	}
}

var whitePixel *ebiten.Image

// ensureWhitePixel lazily creates the shared 1x1 white image every untextured
// draw samples from. Lazy so tests that never call Draw run without a display.
func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(colorToRGBA(Color{1, 1, 1, 1}))
	}
	return whitePixel
}

// Renderer accumulates colored triangles for one frame and submits them in a
// single DrawTriangles call. Vertex and index slices grow to a high-water
// mark and are reused across frames.
type Renderer struct {
	verts []ebiten.Vertex
	inds  []uint16
}

func (r *Renderer) begin() {
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

// pushVert appends one vertex sampling the white pixel with color c.
func (r *Renderer) pushVert(p Vec2, c Color) uint16 {
	i := uint16(len(r.verts))
	r.verts = append(r.verts, ebiten.Vertex{
		DstX: float32(p.X), DstY: float32(p.Y),
		SrcX: 0.5, SrcY: 0.5,
		ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: float32(c.A),
	})
	return i
}

// pushQuad appends a filled axis-aligned rectangle.
func (r *Renderer) pushQuad(rect Rect, c Color) {
	tl := r.pushVert(Vec2{rect.X, rect.Y}, c)
	tr := r.pushVert(Vec2{rect.X + rect.Width, rect.Y}, c)
	br := r.pushVert(Vec2{rect.X + rect.Width, rect.Y + rect.Height}, c)
	bl := r.pushVert(Vec2{rect.X, rect.Y + rect.Height}, c)
	r.inds = append(r.inds, tl, tr, br, tl, br, bl)
}

// pushLine appends a filled quad spanning a to b with the given width.
func (r *Renderer) pushLine(a, b Vec2, width float64, c Color) {
	d := b.Sub(a)
	l := d.Len()
	if l < epsilon {
		return
	}
	// Unit left-perpendicular scaled to half width.
	nx := -d.Y / l * width / 2
	ny := d.X / l * width / 2
	v0 := r.pushVert(Vec2{a.X + nx, a.Y + ny}, c)
	v1 := r.pushVert(Vec2{a.X - nx, a.Y - ny}, c)
	v2 := r.pushVert(Vec2{b.X - nx, b.Y - ny}, c)
	v3 := r.pushVert(Vec2{b.X + nx, b.Y + ny}, c)
	r.inds = append(r.inds, v0, v1, v2, v0, v2, v3)
}

// pushFan appends a fan-triangulated convex polygon.
func (r *Renderer) pushFan(points []Vec2, c Color) {
	if len(points) < 3 {
		return
	}
	hub := r.pushVert(points[0], c)
	prev := r.pushVert(points[1], c)
	for _, p := range points[2:] {
		cur := r.pushVert(p, c)
		r.inds = append(r.inds, hub, prev, cur)
		prev = cur
	}
}

// pushOutline appends a closed polyline around the polygon.
func (r *Renderer) pushOutline(points []Vec2, width float64, c Color) {
	n := len(points)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		r.pushLine(points[i], points[(i+1)%n], width, c)
	}
}

// flush submits the accumulated triangles.
func (r *Renderer) flush(screen *ebiten.Image) {
	if len(r.inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	screen.DrawTriangles(r.verts, r.inds, ensureWhitePixel(), &op)
}

func colorToRGBA(c Color) colorRGBA {
	return colorRGBA{c}
}

// colorRGBA adapts Color to the standard color.Color interface for Fill.
type colorRGBA struct{ c Color }

func (w colorRGBA) RGBA() (uint32, uint32, uint32, uint32) {
	to := func(v float64) uint32 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint32(v * 0xffff)
	}
	a := w.c.A
	return to(w.c.R * a), to(w.c.G * a), to(w.c.B * a), to(a)
}

// drawScene renders one frame: background, clusters, edges, nodes, the
// hovered-move indicator, labels, then any readiness overlay. Everything is
// pushed in device pixels; dt is the committed transform with the device
// scale folded in.
func (e *Engine) drawScene(screen *ebiten.Image) {
	screen.Fill(colorToRGBA(colorBackground))

	if !validDims(e.machine.dims) {
		return
	}

	t := e.view.Active()
	dt := Transform{X: t.X * e.deviceScale, Y: t.Y * e.deviceScale, Scale: t.Scale * e.deviceScale}

	r := &e.renderer
	r.begin()

	e.drawClusters(r, dt)
	e.drawEdges(r, dt)
	e.drawNodes(r, dt)
	e.drawHoveredMove(r, dt)

	r.flush(screen)

	e.drawLabels(screen, dt)
	e.drawOverlay(screen)

	if e.opts.Debug {
		e.debugFrame(screen)
	}
}

// drawClusters renders cluster regions in slice order, so later clusters
// paint over earlier ones. Hit testing walks the same slice in reverse to
// match.
func (e *Engine) drawClusters(r *Renderer, dt Transform) {
	var buf []Vec2
	for _, c := range e.clusters {
		if len(c.Outline) < 3 {
			continue
		}
		if cap(buf) < len(c.Outline) {
			buf = make([]Vec2, len(c.Outline))
		}
		buf = buf[:len(c.Outline)]
		for i, p := range c.Outline {
			buf[i] = dt.Apply(p)
		}
		fill := clusterFill(c.Type, c.Label)
		r.pushFan(buf, fill)
		r.pushOutline(buf, 1.5*e.deviceScale, Color{fill.R, fill.G, fill.B, 0.45})
	}
}

// drawEdges renders edges as quads between node centers, width scaled by
// traffic and color by win rate.
func (e *Engine) drawEdges(r *Renderer, dt Transform) {
	for _, ed := range e.edges {
		from, okF := e.byID[ed.From]
		to, okT := e.byID[ed.To]
		if !okF || !okT {
			continue
		}
		a := dt.Apply(e.nodes[from].World)
		b := dt.Apply(e.nodes[to].World)
		w := (1.5 + math.Log1p(float64(ed.GameCount))) * e.deviceScale
		c := winRateColor(ed.WinRate)
		c.A = 0.55
		if e.onCurrentPath(e.nodes[to].Moves) {
			w += 1.5 * e.deviceScale
			c = colorPathAccent
			c.A = 0.8
		}
		r.pushLine(a, b, w, c)
	}
}

// drawNodes renders node rectangles: a border quad with a slightly inset
// fill. The root gets the accent border, current-path nodes the path accent.
func (e *Engine) drawNodes(r *Renderer, dt Transform) {
	inset := 2.0 * e.deviceScale
	for i := range e.nodes {
		n := &e.nodes[i]
		rect := dt.ApplyRect(n.WorldRect())

		border := colorNodeBorder
		switch {
		case n.Root:
			border = colorRootAccent
		case e.onCurrentPath(n.Moves):
			border = colorPathAccent
		}
		r.pushQuad(rect, border)

		if rect.Width > 2*inset && rect.Height > 2*inset {
			fill := lerpColor(colorNodeFill, winRateColor(n.WinRate), 0.35)
			r.pushQuad(Rect{
				X: rect.X + inset, Y: rect.Y + inset,
				Width: rect.Width - 2*inset, Height: rect.Height - 2*inset,
			}, fill)
		}
	}
}

// drawHoveredMove renders the directional indicator from the current node
// toward the child reached by the hovered move.
func (e *Engine) drawHoveredMove(r *Renderer, dt Transform) {
	if e.hoveredMove == nil {
		return
	}
	cur := e.currentNode()
	if cur == nil {
		return
	}
	target := e.childByMove(cur, e.hoveredMove.SAN)
	if target == nil {
		return
	}
	a := dt.Apply(cur.World)
	b := dt.Apply(target.World)
	c := winRateColor(e.hoveredMove.WinRate)
	c.A = 0.9
	r.pushLine(a, b, 5*e.deviceScale, c)

	// Arrowhead: two short strokes back from the target.
	d := b.Sub(a)
	l := d.Len()
	if l > epsilon {
		ux, uy := d.X/l, d.Y/l
		size := 14 * e.deviceScale
		left := Vec2{b.X - ux*size - uy*size*0.6, b.Y - uy*size + ux*size*0.6}
		right := Vec2{b.X - ux*size + uy*size*0.6, b.Y - uy*size - ux*size*0.6}
		r.pushLine(b, left, 5*e.deviceScale, c)
		r.pushLine(b, right, 5*e.deviceScale, c)
	}
}

// drawLabels prints node move labels and cluster labels. Labels are skipped
// below a readability scale cutoff.
func (e *Engine) drawLabels(screen *ebiten.Image, dt Transform) {
	if dt.Scale >= 0.4*e.deviceScale {
		for i := range e.nodes {
			n := &e.nodes[i]
			label := "start"
			if len(n.Moves) > 0 {
				label = n.Moves[len(n.Moves)-1]
			}
			p := dt.Apply(n.World)
			ebitenutil.DebugPrintAt(screen, label, int(p.X)-len(label)*3, int(p.Y)-6)
		}
	}
	for _, c := range e.clusters {
		if len(c.Outline) == 0 || c.Label == "" {
			continue
		}
		p := dt.Apply(centroid(c.Outline))
		ebitenutil.DebugPrintAt(screen, c.Label, int(p.X), int(p.Y))
	}
	if e.hoveredMove != nil {
		msg := fmt.Sprintf("%s  %.0f%% / %d games", e.hoveredMove.SAN, e.hoveredMove.WinRate, e.hoveredMove.GameCount)
		ebitenutil.DebugPrintAt(screen, msg, 8, 8)
	}
}

// drawOverlay dims the scene and prints a status line while the engine is
// not interactive.
func (e *Engine) drawOverlay(screen *ebiten.Image) {
	var msg string
	switch {
	case e.machine.phase == PhasePositioning:
		msg = "positioning..."
	case e.machine.resizing:
		msg = "resizing..."
	default:
		return
	}
	b := screen.Bounds()
	e.renderer.begin()
	e.renderer.pushQuad(Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}, colorOverlay)
	e.renderer.flush(screen)
	ebitenutil.DebugPrintAt(screen, msg, b.Dx()/2-len(msg)*3, b.Dy()/2)
}
