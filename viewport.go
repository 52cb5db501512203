package arbor

import "math"

// Scale clamp bounds. Auto-fit may zoom out without practical limit so large
// trees always frame; manual zoom stops earlier to keep content legible.
const (
	MinScaleAuto   = 0.001
	MinScaleManual = 0.01
	MaxScale       = 2.0
)

// Transform is the affine world-to-screen mapping: uniform scale followed by
// translation. screen = world*Scale + (X, Y).
type Transform struct {
	X, Y, Scale float64
}

// IdentityTransform returns the identity mapping.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// Apply maps a world point to screen coordinates.
func (t Transform) Apply(w Vec2) Vec2 {
	return Vec2{w.X*t.Scale + t.X, w.Y*t.Scale + t.Y}
}

// Invert maps a screen point back to world coordinates.
func (t Transform) Invert(s Vec2) Vec2 {
	if t.Scale == 0 {
		return Vec2{}
	}
	return Vec2{(s.X - t.X) / t.Scale, (s.Y - t.Y) / t.Scale}
}

// ApplyRect maps a world rectangle to screen coordinates.
func (t Transform) ApplyRect(r Rect) Rect {
	return Rect{
		X:      r.X*t.Scale + t.X,
		Y:      r.Y*t.Scale + t.Y,
		Width:  r.Width * t.Scale,
		Height: r.Height * t.Scale,
	}
}

// clampScale restricts s to [min, MaxScale].
func clampScale(s, min float64) float64 {
	return math.Max(min, math.Min(s, MaxScale))
}

// nodeBounds returns the union of the nodes' full world rectangles.
func nodeBounds(nodes []PositionedNode) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}
	b := nodes[0].WorldRect()
	for _, n := range nodes[1:] {
		b = b.Union(n.WorldRect())
	}
	return b
}

// FitTransform computes the transform framing the given nodes (their full
// rectangles, not centers) inside dims with the given padding on every side.
// The scale is min(rawX, rawY) clamped to the auto-fit range, the content is
// centered, and the result is then corrected axis by axis so no part of the
// bounding box falls outside the padded viewport. This is a hard
// post-condition, not best effort. Zero nodes resolve to the identity
// transform.
func FitTransform(nodes []PositionedNode, dims Vec2, padding float64) Transform {
	if len(nodes) == 0 {
		return IdentityTransform()
	}

	b := nodeBounds(nodes)
	availW := dims.X - 2*padding
	availH := dims.Y - 2*padding
	if availW <= 0 || availH <= 0 {
		return IdentityTransform()
	}

	scale := MaxScale
	if b.Width > 0 {
		scale = availW / b.Width
	}
	if b.Height > 0 {
		scale = math.Min(scale, availH/b.Height)
	}
	scale = clampScale(scale, MinScaleAuto)

	// Center the bounding box in the viewport.
	c := b.Center()
	t := Transform{
		X:     dims.X/2 - c.X*scale,
		Y:     dims.Y/2 - c.Y*scale,
		Scale: scale,
	}
	return correctContainment(t, b, dims, padding)
}

// correctContainment shifts t axis by axis so the screen projection of the
// world box b stays inside [padding, dims-padding]. If the box is wider or
// taller than the padded viewport (scale was clamped), that axis stays
// centered; keeping the most content visible is the best the invariant
// allows.
func correctContainment(t Transform, b Rect, dims Vec2, padding float64) Transform {
	s := t.ApplyRect(b)

	if s.Width <= dims.X-2*padding {
		if s.X < padding {
			t.X += padding - s.X
		} else if s.X+s.Width > dims.X-padding {
			t.X -= s.X + s.Width - (dims.X - padding)
		}
	} else {
		t.X = dims.X/2 - b.Center().X*t.Scale
	}

	if s.Height <= dims.Y-2*padding {
		if s.Y < padding {
			t.Y += padding - s.Y
		} else if s.Y+s.Height > dims.Y-padding {
			t.Y -= s.Y + s.Height - (dims.Y - padding)
		}
	} else {
		t.Y = dims.Y/2 - b.Center().Y*t.Scale
	}

	return t
}

// ZoomAt rescales t by factor while keeping the world point under the anchor
// screen point fixed (standard zoom-under-cursor). The resulting scale is
// clamped to the manual range.
func ZoomAt(t Transform, factor float64, anchor Vec2) Transform {
	newScale := clampScale(t.Scale*factor, MinScaleManual)
	if t.Scale == 0 {
		return Transform{Scale: newScale}
	}
	ratio := newScale / t.Scale
	return Transform{
		X:     anchor.X - (anchor.X-t.X)*ratio,
		Y:     anchor.Y - (anchor.Y-t.Y)*ratio,
		Scale: newScale,
	}
}

// ViewportState is the single authoritative view value passed into hit
// testing and rendering. Transform is nil only before the first successful
// fit.
type ViewportState struct {
	Dims      Vec2
	Transform *Transform
	Ready     bool
}

// Active returns the committed transform, or identity when none has been
// committed yet.
func (v ViewportState) Active() Transform {
	if v.Transform == nil {
		return IdentityTransform()
	}
	return *v.Transform
}

// validDims reports whether dims can be rendered against: positive, finite
// extents on both axes.
func validDims(dims Vec2) bool {
	return dims.X > 0 && dims.Y > 0 &&
		!math.IsNaN(dims.X) && !math.IsNaN(dims.Y) &&
		!math.IsInf(dims.X, 0) && !math.IsInf(dims.Y, 0)
}
