package arbor

import "math"

// Vec2 is an x,y pair. The API uses it for every 2D quantity: world
// positions, screen positions, footprints, and offsets.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rect is an axis-aligned rectangle, top-left origin, Y growing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies within r, boundary included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Color holds straight (non-premultiplied) RGBA components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// EventType identifies a kind of pointer interaction event emitted to UI
// collaborators.
type EventType uint8

const (
	EventClick      EventType = iota // press then release over the same target
	EventHover                       // pointer moved over a new target
	EventHoverEnd                    // pointer left the previous target
	EventRightClick                  // secondary-button click
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button
)

// CursorHint tells the host which cursor shape fits the current pointer
// target. Read-only feedback; the engine never sets the OS cursor itself.
type CursorHint uint8

const (
	CursorDefault CursorHint = iota // nothing interactive under the pointer
	CursorPointer                   // a node or cluster is under the pointer
	CursorBlocked                   // interaction is currently rejected
)

// String returns the hint's wire name.
func (c CursorHint) String() string {
	switch c {
	case CursorPointer:
		return "pointer"
	case CursorBlocked:
		return "blocked"
	default:
		return "default"
	}
}

// epsilon is the tolerance used for float comparisons in geometry code.
const epsilon = 1e-9
