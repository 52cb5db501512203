package arbor

import (
	"math"
	"sort"
)

// Geometry kernel: pure functions over point sets. No state, no RNG,
// identical input always yields identical output.

// cross returns the z component of (a-o) × (b-o). Positive means the turn
// o→a→b is counter-clockwise.
func cross(o, a, b Vec2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// centroid returns the arithmetic mean of the points. Zero value for an
// empty slice.
func centroid(points []Vec2) Vec2 {
	if len(points) == 0 {
		return Vec2{}
	}
	var c Vec2
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(points))
	return Vec2{c.X / n, c.Y / n}
}

// ConvexHull computes the convex hull of points using a Graham scan and
// returns it in counter-clockwise order. Fewer than 3 points are returned
// unchanged (degenerate hull). The input slice is not modified.
func ConvexHull(points []Vec2) []Vec2 {
	if len(points) < 3 {
		out := make([]Vec2, len(points))
		copy(out, points)
		return out
	}

	pts := make([]Vec2, len(points))
	copy(pts, points)

	// Pivot: lowest Y, ties broken by lowest X.
	pivot := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[pivot].Y ||
			(pts[i].Y == pts[pivot].Y && pts[i].X < pts[pivot].X) {
			pivot = i
		}
	}
	pts[0], pts[pivot] = pts[pivot], pts[0]
	p0 := pts[0]

	// Sort the rest by polar angle around the pivot; collinear points sort
	// nearer-first so the scan keeps the farthest.
	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		c := cross(p0, rest[i], rest[j])
		if math.Abs(c) < epsilon {
			di := rest[i].Sub(p0).Len()
			dj := rest[j].Sub(p0).Len()
			return di < dj
		}
		return c > 0
	})

	hull := make([]Vec2, 0, len(pts))
	hull = append(hull, pts[0])
	for _, p := range rest {
		// Pop any point that would make a clockwise (non-left) turn.
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= epsilon {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Fully collinear input collapses to a segment here.
	return hull
}

// ExpandHull moves every hull point radially away from the hull's centroid
// by padding, approximating a uniform margin around the shape. Points that
// coincide with the centroid are left in place.
func ExpandHull(hull []Vec2, padding float64) []Vec2 {
	if len(hull) == 0 || padding == 0 {
		out := make([]Vec2, len(hull))
		copy(out, hull)
		return out
	}
	c := centroid(hull)
	out := make([]Vec2, len(hull))
	for i, p := range hull {
		d := p.Sub(c)
		l := d.Len()
		if l < epsilon {
			out[i] = p
			continue
		}
		out[i] = p.Add(d.Scale(padding / l))
	}
	return out
}

// Ellipse is an oriented ellipse: center, semi-axis radii, and the rotation
// of the major axis in radians.
type Ellipse struct {
	Center Vec2
	RX, RY float64
	Angle  float64
}

// FitEllipse fits a principal-axis ellipse to the points: the axes are the
// eigenvectors of the 2x2 covariance matrix, and each radius is the maximum
// projection of any point onto that axis plus margin. Pass a margin that
// includes half the node footprint so the ellipse encloses full node
// rectangles, not just their centers. Degenerate inputs (fewer than 3
// points, or zero spread) produce a circle of radius margin around the
// centroid.
func FitEllipse(points []Vec2, margin float64) Ellipse {
	c := centroid(points)
	if len(points) < 3 {
		return Ellipse{Center: c, RX: margin, RY: margin}
	}

	var sxx, syy, sxy float64
	for _, p := range points {
		dx := p.X - c.X
		dy := p.Y - c.Y
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	n := float64(len(points))
	sxx /= n
	syy /= n
	sxy /= n

	// Closed-form eigen decomposition of [[sxx, sxy], [sxy, syy]].
	tr := sxx + syy
	disc := math.Sqrt((sxx-syy)*(sxx-syy)/4 + sxy*sxy)
	l1 := tr/2 + disc
	var axis Vec2
	if math.Abs(sxy) > epsilon {
		axis = Vec2{l1 - syy, sxy}
	} else if sxx >= syy {
		axis = Vec2{1, 0}
	} else {
		axis = Vec2{0, 1}
	}
	al := axis.Len()
	if al < epsilon {
		axis = Vec2{1, 0}
		al = 1
	}
	major := axis.Scale(1 / al)
	minor := Vec2{-major.Y, major.X}

	// Radii: max projection of the members onto each axis.
	var rx, ry float64
	for _, p := range points {
		d := p.Sub(c)
		px := math.Abs(d.X*major.X + d.Y*major.Y)
		py := math.Abs(d.X*minor.X + d.Y*minor.Y)
		if px > rx {
			rx = px
		}
		if py > ry {
			ry = py
		}
	}

	return Ellipse{
		Center: c,
		RX:     rx + margin,
		RY:     ry + margin,
		Angle:  math.Atan2(major.Y, major.X),
	}
}

// Contains reports whether the point lies inside or on the ellipse.
func (e Ellipse) Contains(p Vec2) bool {
	if e.RX < epsilon || e.RY < epsilon {
		return false
	}
	d := p.Sub(e.Center)
	cos := math.Cos(-e.Angle)
	sin := math.Sin(-e.Angle)
	lx := d.X*cos - d.Y*sin
	ly := d.X*sin + d.Y*cos
	return (lx*lx)/(e.RX*e.RX)+(ly*ly)/(e.RY*e.RY) <= 1+epsilon
}

// Polygon approximates the ellipse outline with the given number of segments
// (minimum 8), in counter-clockwise order.
func (e Ellipse) Polygon(segments int) []Vec2 {
	if segments < 8 {
		segments = 8
	}
	cos := math.Cos(e.Angle)
	sin := math.Sin(e.Angle)
	out := make([]Vec2, segments)
	for i := 0; i < segments; i++ {
		t := float64(i) / float64(segments) * 2 * math.Pi
		lx := e.RX * math.Cos(t)
		ly := e.RY * math.Sin(t)
		out[i] = Vec2{
			X: e.Center.X + lx*cos - ly*sin,
			Y: e.Center.Y + lx*sin + ly*cos,
		}
	}
	return out
}

// PointInPolygon reports whether p lies inside the polygon using the
// even-odd (ray casting) rule. Polygons with fewer than 3 points never
// contain anything.
func PointInPolygon(p Vec2, poly []Vec2) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		pi := poly[i]
		pj := poly[j]
		// The Y comparison guarantees pj.Y != pi.Y, so the divide is safe.
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			x := pi.X + (p.Y-pi.Y)/(pj.Y-pi.Y)*(pj.X-pi.X)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// boundsOf returns the axis-aligned bounding rect of the points. Zero rect
// for an empty slice.
func boundsOf(points []Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
