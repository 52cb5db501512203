package arbor

import (
	"math"
	"testing"
)

func nodeAt(id string, x, y, w, h float64) PositionedNode {
	return PositionedNode{
		GraphNode: GraphNode{ID: id, Size: Vec2{w, h}},
		World:     Vec2{x, y},
	}
}

func TestFitTransformEmpty(t *testing.T) {
	got := FitTransform(nil, Vec2{800, 600}, 50)
	if got != IdentityTransform() {
		t.Errorf("FitTransform(nil) = %+v, want identity", got)
	}
}

func TestFitTransformDegenerateViewport(t *testing.T) {
	nodes := []PositionedNode{nodeAt("a", 0, 0, 10, 10)}
	got := FitTransform(nodes, Vec2{80, 600}, 50)
	// 80 wide minus 2*50 padding leaves nothing to fit into.
	if got != IdentityTransform() {
		t.Errorf("FitTransform with no available space = %+v, want identity", got)
	}
}

func TestFitTransformCentersContent(t *testing.T) {
	nodes := []PositionedNode{
		nodeAt("a", 0, 0, 100, 100),
		nodeAt("b", 200, 0, 100, 100),
		nodeAt("c", 100, 150, 100, 100),
	}
	dims := Vec2{800, 600}
	tr := FitTransform(nodes, dims, 50)
	b := tr.ApplyRect(nodeBounds(nodes))

	// Content spans world 300x250; available 700x500 -> raw scale
	// min(700/300, 500/250) = 2.0, exactly the manual max.
	if !approxEqual(tr.Scale, 2.0, epsilon) {
		t.Errorf("Scale = %f, want 2.0", tr.Scale)
	}
	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2
	if !approxEqual(cx, 400, 1e-6) || !approxEqual(cy, 300, 1e-6) {
		t.Errorf("content center = (%f,%f), want (400,300)", cx, cy)
	}
}

func TestFitTransformTriangleWorkedExample(t *testing.T) {
	// Three 10x10 nodes spanning a 150x100 box into a 400x300 viewport with
	// padding 50: available space is 300x200, so the raw scale is exactly 2.
	nodes := []PositionedNode{
		nodeAt("a", 5, 5, 10, 10),
		nodeAt("b", 145, 45, 10, 10),
		nodeAt("c", 75, 95, 10, 10),
	}
	tr := FitTransform(nodes, Vec2{400, 300}, 50)
	if !approxEqual(tr.Scale, 2.0, epsilon) {
		t.Errorf("Scale = %f, want 2.0", tr.Scale)
	}
	b := tr.ApplyRect(nodeBounds(nodes))
	if b.X < 50-1e-9 || b.Y < 50-1e-9 || b.X+b.Width > 350+1e-9 || b.Y+b.Height > 250+1e-9 {
		t.Errorf("content box %+v escapes the padded viewport", b)
	}
}

func TestFitTransformScaleClamp(t *testing.T) {
	// A single tiny node would need a huge scale; it must clamp to MaxScale.
	nodes := []PositionedNode{nodeAt("a", 0, 0, 2, 2)}
	tr := FitTransform(nodes, Vec2{800, 600}, 50)
	if tr.Scale != MaxScale {
		t.Errorf("Scale = %f, want clamp to %f", tr.Scale, MaxScale)
	}

	// A gigantic spread needs a tiny scale; it may go below the manual
	// minimum but never below the auto minimum.
	nodes = []PositionedNode{
		nodeAt("a", 0, 0, 10, 10),
		nodeAt("b", 5e6, 5e6, 10, 10),
	}
	tr = FitTransform(nodes, Vec2{800, 600}, 50)
	if tr.Scale < MinScaleAuto || tr.Scale >= MinScaleManual {
		t.Errorf("Scale = %f, want within [%f, %f)", tr.Scale, MinScaleAuto, MinScaleManual)
	}
}

func TestFitTransformContainment(t *testing.T) {
	nodes := []PositionedNode{
		nodeAt("a", -500, -300, 120, 72),
		nodeAt("b", 500, 300, 120, 72),
		nodeAt("c", 0, 0, 120, 72),
	}
	dims := Vec2{640, 480}
	const padding = 40.0
	tr := FitTransform(nodes, dims, padding)
	b := tr.ApplyRect(nodeBounds(nodes))

	if b.X < padding-1e-6 || b.Y < padding-1e-6 ||
		b.X+b.Width > dims.X-padding+1e-6 || b.Y+b.Height > dims.Y-padding+1e-6 {
		t.Errorf("content box %+v escapes padded viewport %v", b, dims)
	}
}

func TestZoomAtAnchorInvariant(t *testing.T) {
	tr := Transform{X: 120, Y: -40, Scale: 0.8}
	anchor := Vec2{333, 217}
	world := tr.Invert(anchor)

	zoomed := ZoomAt(tr, 1.25, anchor)
	after := zoomed.Apply(world)
	if !approxEqual(after.X, anchor.X, 1e-9) || !approxEqual(after.Y, anchor.Y, 1e-9) {
		t.Errorf("anchor moved: %v -> %v", anchor, after)
	}
	if !approxEqual(zoomed.Scale, 1.0, epsilon) {
		t.Errorf("Scale = %f, want 1.0", zoomed.Scale)
	}
}

func TestZoomAtManualClamp(t *testing.T) {
	tests := []struct {
		name   string
		start  float64
		factor float64
		want   float64
	}{
		{"ceiling", 1.5, 10, MaxScale},
		{"floor", 0.02, 0.01, MinScaleManual},
		{"within range", 1.0, 1.1, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZoomAt(Transform{Scale: tt.start}, tt.factor, Vec2{100, 100})
			if !approxEqual(got.Scale, tt.want, epsilon) {
				t.Errorf("Scale = %f, want %f", got.Scale, tt.want)
			}
		})
	}
}

func TestZoomAtBelowManualFloorRecovers(t *testing.T) {
	// Auto-fit may commit a scale below the manual floor; the first manual
	// zoom must clamp back into the manual range, not get stuck.
	tr := Transform{Scale: 0.002}
	got := ZoomAt(tr, 1.1, Vec2{0, 0})
	if got.Scale != MinScaleManual {
		t.Errorf("Scale = %f, want %f", got.Scale, MinScaleManual)
	}
}

func TestViewportStateActive(t *testing.T) {
	var v ViewportState
	if v.Active() != IdentityTransform() {
		t.Errorf("Active() without commit = %+v, want identity", v.Active())
	}
	tr := Transform{X: 5, Y: 6, Scale: 0.5}
	v.Transform = &tr
	if v.Active() != tr {
		t.Errorf("Active() = %+v, want %+v", v.Active(), tr)
	}
}

func TestValidDims(t *testing.T) {
	tests := []struct {
		name string
		dims Vec2
		want bool
	}{
		{"normal", Vec2{800, 600}, true},
		{"zero width", Vec2{0, 600}, false},
		{"negative height", Vec2{800, -1}, false},
		{"nan", Vec2{math.NaN(), 600}, false},
		{"inf", Vec2{800, math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validDims(tt.dims); got != tt.want {
				t.Errorf("validDims(%v) = %v, want %v", tt.dims, got, tt.want)
			}
		})
	}
}
