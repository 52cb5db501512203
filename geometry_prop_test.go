package arbor

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genVec2() gopter.Gen {
	return gopter.DeriveGen(
		func(x, y float64) Vec2 { return Vec2{x, y} },
		func(v Vec2) (float64, float64) { return v.X, v.Y },
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(-1000, 1000),
	)
}

func TestConvexHullProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("expanded hull contains every input point", prop.ForAll(
		func(pts []Vec2) bool {
			hull := ConvexHull(pts)
			if len(hull) < 3 {
				return true // degenerate clouds have no interior
			}
			grown := ExpandHull(hull, 1)
			for _, p := range pts {
				if !PointInPolygon(p, grown) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(12, genVec2()),
	))

	properties.Property("hull winding is counter-clockwise", prop.ForAll(
		func(pts []Vec2) bool {
			hull := ConvexHull(pts)
			if len(hull) < 3 {
				return true
			}
			var area float64
			for i := range hull {
				j := (i + 1) % len(hull)
				area += hull[i].X*hull[j].Y - hull[j].X*hull[i].Y
			}
			return area > 0
		},
		gen.SliceOfN(10, genVec2()),
	))

	properties.Property("hull vertices come from the input", prop.ForAll(
		func(pts []Vec2) bool {
			for _, h := range ConvexHull(pts) {
				found := false
				for _, p := range pts {
					if p == h {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(8, genVec2()),
	))

	properties.TestingRun(t)
}

func TestTransformRoundtripProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("Invert undoes Apply", prop.ForAll(
		func(p Vec2, tx, ty, scale float64) bool {
			tr := Transform{X: tx, Y: ty, Scale: scale}
			back := tr.Invert(tr.Apply(p))
			return approxEqual(back.X, p.X, 1e-6) && approxEqual(back.Y, p.Y, 1e-6)
		},
		genVec2(),
		gen.Float64Range(-5000, 5000),
		gen.Float64Range(-5000, 5000),
		gen.Float64Range(MinScaleManual, MaxScale),
	))

	properties.TestingRun(t)
}

func TestFitTransformContainmentProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	genNode := gopter.DeriveGen(
		func(p Vec2) PositionedNode {
			return PositionedNode{
				GraphNode: GraphNode{ID: "n", Size: Vec2{120, 72}},
				World:     p,
			}
		},
		func(n PositionedNode) Vec2 { return n.World },
		genVec2(),
	)

	properties.Property("fitted content stays inside the padded viewport", prop.ForAll(
		func(nodes []PositionedNode) bool {
			dims := Vec2{800, 600}
			const padding = 50.0
			t := FitTransform(nodes, dims, padding)
			b := t.ApplyRect(nodeBounds(nodes))
			// When the box fits at the clamped scale the margin is hard.
			if b.Width > dims.X-2*padding || b.Height > dims.Y-2*padding {
				return true
			}
			const slack = 1e-6
			return b.X >= padding-slack && b.Y >= padding-slack &&
				b.X+b.Width <= dims.X-padding+slack &&
				b.Y+b.Height <= dims.Y-padding+slack
		},
		gen.SliceOfN(6, genNode),
	))

	properties.TestingRun(t)
}
