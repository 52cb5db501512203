package arbor

import (
	"fmt"
	"math"
	"sort"
)

// ClusterType distinguishes how a cluster's membership was derived.
type ClusterType uint8

const (
	ClusterOpening     ClusterType = iota // externally-assigned opening family
	ClusterPosition                       // proximity to the current move path
	ClusterStatistical                    // win-rate bucket
)

// Cluster is a visual region grouping positioned nodes. Clusters are derived
// values: whenever membership or member positions change beyond tolerance the
// whole slice is rebuilt; a cluster is never patched in place.
type Cluster struct {
	ID      string
	Type    ClusterType
	Members []string // member node ids, sorted
	Outline []Vec2   // closed polygon in world coordinates, counter-clockwise
	Label   string
}

// ClusterOptions tunes cluster detection and outline construction.
type ClusterOptions struct {
	Padding    float64 `yaml:"padding"`    // outline margin around member footprints (default 60)
	Epsilon    float64 `yaml:"epsilon"`    // member movement below this does not trigger recompute (default 0.5)
	PathRadius float64 `yaml:"pathRadius"` // world distance from the current node counted as "near" (default 250)
}

// withDefaults fills zero fields with their default values.
func (o ClusterOptions) withDefaults() ClusterOptions {
	if o.Padding == 0 {
		o.Padding = 60
	}
	if o.Epsilon == 0 {
		o.Epsilon = 0.5
	}
	if o.PathRadius == 0 {
		o.PathRadius = 250
	}
	return o
}

// ClustersByFamily groups nodes by the externally-assigned opening family in
// families (node id -> family name). Nodes without a family are left
// unclustered. Output order is deterministic (sorted by family name).
func ClustersByFamily(nodes []PositionedNode, families map[string]string, opts ClusterOptions) []Cluster {
	opts = opts.withDefaults()
	groups := make(map[string][]PositionedNode)
	for _, n := range nodes {
		fam, ok := families[n.ID]
		if !ok || fam == "" {
			continue
		}
		groups[fam] = append(groups[fam], n)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Cluster, 0, len(names))
	for _, name := range names {
		members := groups[name]
		out = append(out, buildCluster("opening:"+name, ClusterOpening, name, members, opts))
	}
	return out
}

// ClusterByPath builds a single cluster of the nodes on the current move
// path plus any node within PathRadius of the path's tip. Returns nil when
// the current sequence matches no node.
func ClusterByPath(nodes []PositionedNode, current []string, opts ClusterOptions) []Cluster {
	opts = opts.withDefaults()

	var tip *PositionedNode
	for i := range nodes {
		if len(nodes[i].Moves) == len(current) && movesArePrefix(nodes[i].Moves, current) {
			tip = &nodes[i]
			break
		}
	}
	if tip == nil {
		return nil
	}

	var members []PositionedNode
	for i := range nodes {
		n := nodes[i]
		onPath := movesArePrefix(n.Moves, current)
		near := n.World.Sub(tip.World).Len() <= opts.PathRadius
		if onPath || near {
			members = append(members, n)
		}
	}

	label := "current line"
	if len(current) > 0 {
		label = current[len(current)-1]
	}
	return []Cluster{buildCluster("position:current", ClusterPosition, label, members, opts)}
}

// ClustersByWinRate groups nodes into the three performance buckets. Empty
// buckets produce no cluster. Statistical clusters use the fitted ellipse
// outline, which reads better over the diffuse clouds buckets produce.
func ClustersByWinRate(nodes []PositionedNode, opts ClusterOptions) []Cluster {
	opts = opts.withDefaults()
	labels := [3]string{"struggling", "balanced", "strong"}
	var groups [3][]PositionedNode
	for _, n := range nodes {
		b := winRateBucket(n.WinRate)
		groups[b] = append(groups[b], n)
	}

	out := make([]Cluster, 0, 3)
	for b, members := range groups {
		if len(members) == 0 {
			continue
		}
		out = append(out, buildCluster(fmt.Sprintf("stat:%s", labels[b]), ClusterStatistical, labels[b], members, opts))
	}
	return out
}

// buildCluster constructs a cluster with an outline that fully encloses
// every member's footprint with consistent padding:
//
//	1 member  -> padded square around the node
//	2 members -> padded rectangle spanning both
//	3+        -> padded convex hull (ellipse fit for statistical clusters)
func buildCluster(id string, typ ClusterType, label string, members []PositionedNode, opts ClusterOptions) Cluster {
	c := Cluster{ID: id, Type: typ, Label: label}
	c.Members = make([]string, len(members))
	for i, m := range members {
		c.Members[i] = m.ID
	}
	sort.Strings(c.Members)
	c.Outline = clusterOutline(members, typ, opts)
	return c
}

// clusterOutline computes the enclosing polygon for the member set.
func clusterOutline(members []PositionedNode, typ ClusterType, opts ClusterOptions) []Vec2 {
	if len(members) == 0 {
		return nil
	}

	halfFoot := maxHalfDiagonal(members)

	switch len(members) {
	case 1:
		// Padded square. The half-width scales with padding (1.5x) but never
		// drops below the footprint plus half the padding.
		c := members[0].World
		half := math.Max(opts.Padding*1.5, halfFoot+opts.Padding*0.5)
		return []Vec2{
			{c.X - half, c.Y - half},
			{c.X + half, c.Y - half},
			{c.X + half, c.Y + half},
			{c.X - half, c.Y + half},
		}
	case 2:
		// Padded rectangle spanning both footprints.
		b := members[0].WorldRect().Union(members[1].WorldRect())
		p := opts.Padding
		return []Vec2{
			{b.X - p, b.Y - p},
			{b.X + b.Width + p, b.Y - p},
			{b.X + b.Width + p, b.Y + b.Height + p},
			{b.X - p, b.Y + b.Height + p},
		}
	}

	centers := make([]Vec2, len(members))
	for i, m := range members {
		centers[i] = m.World
	}

	if typ == ClusterStatistical {
		return FitEllipse(centers, opts.Padding+halfFoot).Polygon(32)
	}

	hull := ConvexHull(centers)
	if len(hull) < 3 {
		// Collinear centers: fall back to a padded bounding rectangle.
		b := boundsOf(centers)
		p := opts.Padding + halfFoot
		return []Vec2{
			{b.X - p, b.Y - p},
			{b.X + b.Width + p, b.Y - p},
			{b.X + b.Width + p, b.Y + b.Height + p},
			{b.X - p, b.Y + b.Height + p},
		}
	}
	return ExpandHull(hull, opts.Padding+halfFoot)
}

// maxHalfDiagonal returns the largest half-diagonal of any member footprint.
func maxHalfDiagonal(members []PositionedNode) float64 {
	var m float64
	for _, n := range members {
		d := math.Hypot(n.Size.X, n.Size.Y) / 2
		if d > m {
			m = d
		}
	}
	return m
}

// clustersStale reports whether clusters must be rebuilt: membership-relevant
// positions moved by more than eps since the positions the clusters were
// built from. prev maps node id to the position used at build time.
func clustersStale(nodes []PositionedNode, prev map[string]Vec2, eps float64) bool {
	if len(prev) != len(nodes) {
		return true
	}
	for _, n := range nodes {
		p, ok := prev[n.ID]
		if !ok {
			return true
		}
		if math.Abs(p.X-n.World.X) > eps || math.Abs(p.Y-n.World.Y) > eps {
			return true
		}
	}
	return false
}

// positionIndex captures the node positions a cluster build used, for later
// staleness checks.
func positionIndex(nodes []PositionedNode) map[string]Vec2 {
	out := make(map[string]Vec2, len(nodes))
	for _, n := range nodes {
		out[n.ID] = n.World
	}
	return out
}
