package arbor

import "testing"

func TestSanitizeSnapshotDefaults(t *testing.T) {
	s := sanitizeSnapshot(Snapshot{
		Nodes: []GraphNode{{ID: "a"}},
	}, Vec2{120, 72})

	n := s.Nodes[0]
	if n.WinRate != 50 {
		t.Errorf("WinRate = %v, want default 50", n.WinRate)
	}
	if n.GameCount != 0 {
		t.Errorf("GameCount = %v, want 0", n.GameCount)
	}
	if n.Size != (Vec2{120, 72}) {
		t.Errorf("Size = %v, want fallback 120x72", n.Size)
	}
}

func TestSanitizeSnapshotDropsEmptyIDs(t *testing.T) {
	s := sanitizeSnapshot(Snapshot{
		Nodes: []GraphNode{{ID: ""}, {ID: "a"}},
	}, Vec2{1, 1})
	if len(s.Nodes) != 1 || s.Nodes[0].ID != "a" {
		t.Errorf("nodes = %v, want only %q", s.Nodes, "a")
	}
}

func TestSanitizeSnapshotDropsDanglingEdges(t *testing.T) {
	s := sanitizeSnapshot(Snapshot{
		Nodes: []GraphNode{{ID: "a"}, {ID: "b"}},
		Edges: []GraphEdge{
			{ID: "ok", From: "a", To: "b"},
			{ID: "dangling-to", From: "a", To: "ghost"},
			{ID: "dangling-from", From: "ghost", To: "b"},
		},
	}, Vec2{1, 1})
	if len(s.Edges) != 1 || s.Edges[0].ID != "ok" {
		t.Errorf("edges = %v, want only the resolvable one", s.Edges)
	}
}

func TestSanitizeSnapshotOutOfRangeWinRate(t *testing.T) {
	s := sanitizeSnapshot(Snapshot{
		Nodes: []GraphNode{
			{ID: "low", WinRate: -20, GameCount: 5},
			{ID: "high", WinRate: 140, GameCount: 5},
			{ID: "zero with games", WinRate: 0, GameCount: 5},
		},
	}, Vec2{1, 1})
	if s.Nodes[0].WinRate != 50 || s.Nodes[1].WinRate != 50 {
		t.Errorf("out-of-range win rates = %v / %v, want neutral 50", s.Nodes[0].WinRate, s.Nodes[1].WinRate)
	}
	// A genuine 0% over real games survives.
	if s.Nodes[2].WinRate != 0 {
		t.Errorf("0%% with games = %v, want preserved", s.Nodes[2].WinRate)
	}
}

func TestWorldRectCentered(t *testing.T) {
	n := PositionedNode{
		GraphNode: GraphNode{ID: "a", Size: Vec2{100, 60}},
		World:     Vec2{200, 300},
	}
	r := n.WorldRect()
	want := Rect{X: 150, Y: 270, Width: 100, Height: 60}
	if r != want {
		t.Errorf("WorldRect = %+v, want %+v", r, want)
	}
}

func TestMovesArePrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix []string
		seq    []string
		want   bool
	}{
		{"empty prefix", nil, []string{"e4"}, true},
		{"exact", []string{"e4", "e5"}, []string{"e4", "e5"}, true},
		{"proper prefix", []string{"e4"}, []string{"e4", "e5"}, true},
		{"longer than seq", []string{"e4", "e5"}, []string{"e4"}, false},
		{"diverging", []string{"d4"}, []string{"e4", "e5"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := movesArePrefix(tt.prefix, tt.seq); got != tt.want {
				t.Errorf("movesArePrefix(%v, %v) = %v, want %v", tt.prefix, tt.seq, got, tt.want)
			}
		})
	}
}
