package arbor

import (
	"math"
	"math/rand"
	"sort"
)

// Layout places snapshot nodes in world space. Strategies are interchangeable:
// downstream consumers (clustering, fit, rendering) only see the positioned
// result.
type Layout interface {
	// Name identifies the strategy for diagnostics.
	Name() string
	// Apply returns a positioned copy of nodes. An empty node set returns an
	// empty result without doing any work.
	Apply(nodes []GraphNode, edges []GraphEdge, canvas Vec2) []PositionedNode
}

// ForceConfig tunes the force simulation. Zero fields take defaults.
type ForceConfig struct {
	MaxIterations    int     `yaml:"maxIterations"`    // hard iteration cap (default 300)
	LinkStrength     float64 `yaml:"linkStrength"`     // spring constant toward target distance (default 0.1)
	BaseDistance     float64 `yaml:"baseDistance"`     // link target distance before statistics scaling (default 120)
	ChargeStrength   float64 `yaml:"chargeStrength"`   // per-node repulsion base (default 60)
	DepthCharge      float64 `yaml:"depthCharge"`      // extra repulsion per ply of depth (default 0.15)
	CenterStrength   float64 `yaml:"centerStrength"`   // pull toward canvas center (default 0.3)
	CollisionPadding float64 `yaml:"collisionPadding"` // extra separation beyond node footprints (default 8)
	RootRadius       float64 `yaml:"rootRadius"`       // fixed collision radius of the root node (default 90)
	AlphaDecay       float64 `yaml:"alphaDecay"`       // per-iteration energy decay (default 0.97)
	AlphaMin         float64 `yaml:"alphaMin"`         // stop when alpha falls below this (default 0.005)
	Seed             int64   `yaml:"seed"`             // initial-placement RNG seed (default 42)
}

// withDefaults fills zero fields with their default values.
func (c ForceConfig) withDefaults() ForceConfig {
	if c.MaxIterations == 0 {
		c.MaxIterations = 300
	}
	if c.LinkStrength == 0 {
		c.LinkStrength = 0.1
	}
	if c.BaseDistance == 0 {
		c.BaseDistance = 120
	}
	if c.ChargeStrength == 0 {
		c.ChargeStrength = 60
	}
	if c.DepthCharge == 0 {
		c.DepthCharge = 0.15
	}
	if c.CenterStrength == 0 {
		c.CenterStrength = 0.3
	}
	if c.CollisionPadding == 0 {
		c.CollisionPadding = 8
	}
	if c.RootRadius == 0 {
		c.RootRadius = 90
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = 0.97
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = 0.005
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	return c
}

// perfMultiplier scales link distances by move performance: winning lines
// pull tighter, losing lines spread out.
func perfMultiplier(winRate float64) float64 {
	switch {
	case winRate > 60:
		return 0.8
	case winRate < 40:
		return 1.2
	default:
		return 1
	}
}

// collisionRadius is the hard minimum separation radius of a node. The root
// gets a fixed, larger radius; other nodes scale with their game count so
// well-explored positions claim more space. The radius always covers the
// node's half diagonal so rectangles cannot visually overlap.
func collisionRadius(n GraphNode, cfg ForceConfig) float64 {
	halfDiag := math.Hypot(n.Size.X, n.Size.Y) / 2
	if n.Root {
		return math.Max(cfg.RootRadius, halfDiag+cfg.CollisionPadding)
	}
	r := halfDiag + cfg.CollisionPadding*(1+math.Log1p(float64(n.GameCount)))
	return r
}

// ForceLayout is the force-directed strategy: link attraction, statistical
// charge repulsion, a weak centering pull, and hard collision separation,
// iterated until the simulation energy decays or the iteration cap is hit.
// The root node is pinned at the canvas center.
type ForceLayout struct {
	Config ForceConfig
}

// NewForceLayout returns a force strategy with the given tuning.
func NewForceLayout(cfg ForceConfig) *ForceLayout {
	return &ForceLayout{Config: cfg}
}

// Name implements Layout.
func (l *ForceLayout) Name() string { return "force" }

// Apply implements Layout.
func (l *ForceLayout) Apply(nodes []GraphNode, edges []GraphEdge, canvas Vec2) []PositionedNode {
	if len(nodes) == 0 {
		return nil
	}
	cfg := l.Config.withDefaults()

	if canvas.X <= 0 || canvas.Y <= 0 {
		canvas = Vec2{1000, 1000}
	}
	center := Vec2{canvas.X / 2, canvas.Y / 2}
	spread := math.Min(canvas.X, canvas.Y) * 0.4

	out := make([]PositionedNode, len(nodes))
	byID := make(map[string]int, len(nodes))
	rootIdx := -1

	// Seeded initial placement for reproducible runs.
	rng := rand.New(rand.NewSource(cfg.Seed))
	for i, n := range nodes {
		out[i] = PositionedNode{GraphNode: n}
		byID[n.ID] = i
		if n.Root && rootIdx < 0 {
			rootIdx = i
			out[i].World = center
			continue
		}
		out[i].World = Vec2{
			X: center.X + (rng.Float64()-0.5)*spread,
			Y: center.Y + (rng.Float64()-0.5)*spread,
		}
	}

	charge := make([]float64, len(nodes))
	radius := make([]float64, len(nodes))
	for i, n := range nodes {
		charge[i] = cfg.ChargeStrength * (1 + math.Log1p(float64(n.GameCount))) * (1 + cfg.DepthCharge*float64(n.Depth))
		radius[i] = collisionRadius(n, cfg)
	}

	vx := make([]float64, len(nodes))
	vy := make([]float64, len(nodes))
	maxTemp := math.Min(canvas.X, canvas.Y) / 2

	alpha := 1.0
	for iter := 0; iter < cfg.MaxIterations && alpha > cfg.AlphaMin; iter++ {
		for i := range vx {
			vx[i] = 0
			vy[i] = 0
		}

		// Charge: all-pairs repulsion, Coulomb-style falloff.
		for i := range out {
			for j := range out {
				if i == j {
					continue
				}
				dx := out[i].World.X - out[j].World.X
				dy := out[i].World.Y - out[j].World.Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 1 {
					dist = 1
				}
				f := charge[i] * charge[j] / (dist * dist) * 0.01
				vx[i] += dx / dist * f
				vy[i] += dy / dist * f
			}
		}

		// Links: spring toward the statistics-scaled target distance.
		for _, e := range edges {
			si, ok1 := byID[e.From]
			ti, ok2 := byID[e.To]
			if !ok1 || !ok2 {
				continue
			}
			target := cfg.BaseDistance + math.Log1p(float64(e.GameCount))*10*perfMultiplier(e.WinRate)
			dx := out[ti].World.X - out[si].World.X
			dy := out[ti].World.Y - out[si].World.Y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < 1 {
				dist = 1
			}
			f := (dist - target) * cfg.LinkStrength
			vx[si] += dx / dist * f
			vy[si] += dy / dist * f
			vx[ti] -= dx / dist * f
			vy[ti] -= dy / dist * f
		}

		// Center: weak global pull to prevent drift.
		for i := range out {
			vx[i] += (center.X - out[i].World.X) * cfg.CenterStrength * alpha * 0.05
			vy[i] += (center.Y - out[i].World.Y) * cfg.CenterStrength * alpha * 0.05
		}

		// Temperature-limited displacement; root stays pinned.
		temp := maxTemp * alpha
		for i := range out {
			if i == rootIdx {
				continue
			}
			disp := math.Sqrt(vx[i]*vx[i] + vy[i]*vy[i])
			if disp > temp {
				vx[i] = vx[i] / disp * temp
				vy[i] = vy[i] / disp * temp
			}
			out[i].World.X += vx[i]
			out[i].World.Y += vy[i]
		}

		alpha *= cfg.AlphaDecay
	}

	resolveCollisions(out, radius, rootIdx)
	return out
}

// resolveCollisions sweeps overlapping pairs apart until every pair satisfies
// its minimum separation or the sweep cap is reached. The pinned root never
// moves; its partner absorbs the full correction.
func resolveCollisions(nodes []PositionedNode, radius []float64, rootIdx int) {
	const maxSweeps = 12
	for sweep := 0; sweep < maxSweeps; sweep++ {
		moved := false
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				minDist := radius[i] + radius[j]
				dx := nodes[j].World.X - nodes[i].World.X
				dy := nodes[j].World.Y - nodes[i].World.Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist >= minDist {
					continue
				}
				if dist < epsilon {
					// Coincident points: separate along a fixed axis.
					dx, dy, dist = 1, 0, 1
				}
				push := (minDist - dist) / dist
				switch {
				case i == rootIdx:
					nodes[j].World.X += dx * push
					nodes[j].World.Y += dy * push
				case j == rootIdx:
					nodes[i].World.X -= dx * push
					nodes[i].World.Y -= dy * push
				default:
					nodes[i].World.X -= dx * push / 2
					nodes[i].World.Y -= dy * push / 2
					nodes[j].World.X += dx * push / 2
					nodes[j].World.Y += dy * push / 2
				}
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}

// --- Deterministic strategies ---

// DeclaredLayout places every node at its collaborator-declared position.
type DeclaredLayout struct{}

// Name implements Layout.
func (DeclaredLayout) Name() string { return "declared" }

// Apply implements Layout.
func (DeclaredLayout) Apply(nodes []GraphNode, _ []GraphEdge, _ Vec2) []PositionedNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]PositionedNode, len(nodes))
	for i, n := range nodes {
		out[i] = PositionedNode{GraphNode: n, World: n.Declared}
	}
	return out
}

// DepthLayout arranges nodes in horizontal rows by depth, each row centered
// and ordered by id for stability.
type DepthLayout struct {
	HGap float64 // horizontal spacing within a row (default 160)
	VGap float64 // vertical spacing between depths (default 140)
}

// Name implements Layout.
func (DepthLayout) Name() string { return "depth" }

// Apply implements Layout.
func (l DepthLayout) Apply(nodes []GraphNode, _ []GraphEdge, canvas Vec2) []PositionedNode {
	if len(nodes) == 0 {
		return nil
	}
	hGap, vGap := l.HGap, l.VGap
	if hGap <= 0 {
		hGap = 160
	}
	if vGap <= 0 {
		vGap = 140
	}
	cx := canvas.X / 2
	if cx <= 0 {
		cx = 500
	}

	rows := groupByDepth(nodes)
	out := make([]PositionedNode, 0, len(nodes))
	for depth, row := range rows {
		for i, n := range row {
			x := cx + (float64(i)-float64(len(row)-1)/2)*hGap
			out = append(out, PositionedNode{
				GraphNode: n,
				World:     Vec2{X: x, Y: 80 + float64(depth)*vGap},
			})
		}
	}
	return out
}

// RadialLayout places the root at the canvas center and each depth on a
// concentric ring, evenly spaced by angle.
type RadialLayout struct {
	RingGap float64 // radius increase per depth (default 170)
}

// Name implements Layout.
func (RadialLayout) Name() string { return "radial" }

// Apply implements Layout.
func (l RadialLayout) Apply(nodes []GraphNode, _ []GraphEdge, canvas Vec2) []PositionedNode {
	if len(nodes) == 0 {
		return nil
	}
	ringGap := l.RingGap
	if ringGap <= 0 {
		ringGap = 170
	}
	if canvas.X <= 0 || canvas.Y <= 0 {
		canvas = Vec2{1000, 1000}
	}
	center := Vec2{canvas.X / 2, canvas.Y / 2}

	rows := groupByDepth(nodes)
	out := make([]PositionedNode, 0, len(nodes))
	for depth, ring := range rows {
		if depth == 0 {
			for _, n := range ring {
				out = append(out, PositionedNode{GraphNode: n, World: center})
			}
			continue
		}
		r := float64(depth) * ringGap
		for i, n := range ring {
			a := 2 * math.Pi * float64(i) / float64(len(ring))
			out = append(out, PositionedNode{
				GraphNode: n,
				World: Vec2{
					X: center.X + r*math.Cos(a),
					Y: center.Y + r*math.Sin(a),
				},
			})
		}
	}
	return out
}

// BucketLayout groups nodes into three performance columns (win rate below
// 40, 40-60, above 60), stacked by depth within each column.
type BucketLayout struct {
	ColGap float64 // spacing between columns (default 360)
	VGap   float64 // vertical spacing within a column (default 120)
}

// Name implements Layout.
func (BucketLayout) Name() string { return "buckets" }

// Apply implements Layout.
func (l BucketLayout) Apply(nodes []GraphNode, _ []GraphEdge, canvas Vec2) []PositionedNode {
	if len(nodes) == 0 {
		return nil
	}
	colGap, vGap := l.ColGap, l.VGap
	if colGap <= 0 {
		colGap = 360
	}
	if vGap <= 0 {
		vGap = 120
	}
	cx := canvas.X / 2
	if cx <= 0 {
		cx = 600
	}

	var cols [3][]GraphNode
	for _, n := range nodes {
		cols[winRateBucket(n.WinRate)] = append(cols[winRateBucket(n.WinRate)], n)
	}
	for b := range cols {
		sortNodes(cols[b])
	}

	out := make([]PositionedNode, 0, len(nodes))
	for b, col := range cols {
		x := cx + float64(b-1)*colGap
		for i, n := range col {
			out = append(out, PositionedNode{
				GraphNode: n,
				World:     Vec2{X: x, Y: 80 + float64(i)*vGap},
			})
		}
	}
	return out
}

// winRateBucket maps a win rate to a performance bucket: 0 = struggling
// (below 40), 1 = balanced, 2 = strong (above 60).
func winRateBucket(winRate float64) int {
	switch {
	case winRate < 40:
		return 0
	case winRate > 60:
		return 2
	default:
		return 1
	}
}

// groupByDepth buckets nodes by depth (clamped at 0), each bucket sorted by
// id for deterministic output.
func groupByDepth(nodes []GraphNode) map[int][]GraphNode {
	rows := make(map[int][]GraphNode)
	for _, n := range nodes {
		d := n.Depth
		if d < 0 {
			d = 0
		}
		rows[d] = append(rows[d], n)
	}
	for d := range rows {
		sortNodes(rows[d])
	}
	return rows
}

// sortNodes orders nodes by (depth, id).
func sortNodes(nodes []GraphNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Depth != nodes[j].Depth {
			return nodes[i].Depth < nodes[j].Depth
		}
		return nodes[i].ID < nodes[j].ID
	})
}
