package arbor

import "math"

// GraphNode is one chess position in the snapshot supplied by the
// graph-builder collaborator. The engine treats it as immutable and never
// writes to snapshot nodes; layout works on a derived positioned copy.
type GraphNode struct {
	ID        string
	Declared  Vec2 // collaborator-declared world position (center)
	Size      Vec2 // visual footprint in world units
	Depth     int  // plies from the root position
	GameCount int
	WinRate   float64 // percentage in [0, 100]
	Root      bool
	Moves     []string // move sequence leading here; opaque labels to the engine
}

// GraphEdge is one move between two positions. Edges referencing a node id
// that is not present in the snapshot are dropped during sanitization.
type GraphEdge struct {
	ID        string
	From, To  string
	GameCount int
	WinRate   float64
}

// Snapshot is the immutable node/edge set supplied per update.
type Snapshot struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

// PositionedNode is a snapshot node plus its layout-assigned world position.
// World is the node's center.
type PositionedNode struct {
	GraphNode
	World Vec2
}

// WorldRect returns the node's full rectangle in world coordinates.
func (p PositionedNode) WorldRect() Rect {
	return Rect{
		X:      p.World.X - p.Size.X/2,
		Y:      p.World.Y - p.Size.Y/2,
		Width:  p.Size.X,
		Height: p.Size.Y,
	}
}

// sanitizeSnapshot returns a cleaned copy of s: nodes get defaulted numeric
// fields (win rate 50 when missing or out of range, game count 0 when
// negative, the fallback footprint when the size is non-positive), and edges
// referencing an absent endpoint are dropped. Bad input degrades, it never
// fails.
func sanitizeSnapshot(s Snapshot, fallbackSize Vec2) Snapshot {
	out := Snapshot{
		Nodes: make([]GraphNode, 0, len(s.Nodes)),
		Edges: make([]GraphEdge, 0, len(s.Edges)),
	}

	present := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			continue
		}
		if math.IsNaN(n.WinRate) || n.WinRate < 0 || n.WinRate > 100 {
			n.WinRate = 50
		}
		if n.GameCount < 0 {
			n.GameCount = 0
		}
		// A node with no games has no meaningful win rate; neutral it.
		if n.GameCount == 0 && n.WinRate == 0 {
			n.WinRate = 50
		}
		if n.Size.X <= 0 || n.Size.Y <= 0 || math.IsNaN(n.Size.X) || math.IsNaN(n.Size.Y) {
			n.Size = fallbackSize
		}
		if math.IsNaN(n.Declared.X) || math.IsNaN(n.Declared.Y) {
			n.Declared = Vec2{}
		}
		out.Nodes = append(out.Nodes, n)
		present[n.ID] = true
	}

	for _, e := range s.Edges {
		if !present[e.From] || !present[e.To] {
			continue
		}
		if math.IsNaN(e.WinRate) || e.WinRate < 0 || e.WinRate > 100 {
			e.WinRate = 50
		}
		if e.GameCount < 0 {
			e.GameCount = 0
		}
		out.Edges = append(out.Edges, e)
	}

	return out
}

// idSets extracts the node and edge identity sets of a snapshot. Change
// detection compares these sets, not counts or serialized forms, so an equal
// count with different ids is still a real change and ordering is irrelevant.
func idSets(s Snapshot) (nodes, edges map[string]struct{}) {
	nodes = make(map[string]struct{}, len(s.Nodes))
	for _, n := range s.Nodes {
		nodes[n.ID] = struct{}{}
	}
	edges = make(map[string]struct{}, len(s.Edges))
	for _, e := range s.Edges {
		edges[e.ID] = struct{}{}
	}
	return nodes, edges
}

// sameIDSet reports whether two identity sets contain exactly the same ids.
func sameIDSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// movesArePrefix reports whether prefix is a leading subsequence of seq.
func movesArePrefix(prefix, seq []string) bool {
	if len(prefix) > len(seq) {
		return false
	}
	for i, m := range prefix {
		if seq[i] != m {
			return false
		}
	}
	return true
}
