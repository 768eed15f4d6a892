package graph

import "testing"

func buildTriangle() *Graph {
	g := New()
	g.AddNode(Node{ID: 1, Lat: 54.450, Lon: -3.080})
	g.AddNode(Node{ID: 2, Lat: 54.460, Lon: -3.080})
	g.AddNode(Node{ID: 3, Lat: 54.450, Lon: -3.090})

	g.AddEdge(1, 2, 1000, 0, 0, 0, 10, []NodeID{1, 2})
	g.AddEdge(2, 3, 2000, 0, 0, 0, 10, []NodeID{2, 3})
	g.AddEdge(3, 1, 3000, 0, 0, 0, 10, []NodeID{3, 1})
	return g
}

// Invariant 1: for every edge (a, b), b appears in a's neighbours and a in b's.
func TestAddEdgeIsSymmetric(t *testing.T) {
	g := buildTriangle()

	hasNeighbour := func(n, want NodeID) bool {
		for _, ne := range g.Neighbours(n) {
			if NeighbourNode(ne) == want {
				return true
			}
		}
		return false
	}

	pairs := [][2]NodeID{{1, 2}, {2, 3}, {3, 1}}
	for _, p := range pairs {
		if !hasNeighbour(p[0], p[1]) {
			t.Errorf("%d does not have %d as a neighbour", p[0], p[1])
		}
		if !hasNeighbour(p[1], p[0]) {
			t.Errorf("%d does not have %d as a neighbour", p[1], p[0])
		}
	}
}

// Invariant 2: the geometry list's first and last identifiers equal the
// edge's two endpoints in some order.
func TestEdgeGeometryEndsMatchEndpoints(t *testing.T) {
	g := buildTriangle()

	for _, ne := range g.Neighbours(1) {
		e := NeighbourEdge(ne)
		first, last := e.Geometry[0], e.Geometry[len(e.Geometry)-1]
		endpoints := map[NodeID]bool{1: true, NeighbourNode(ne): true}
		if !endpoints[first] || !endpoints[last] {
			t.Errorf("edge geometry %v does not start/end at {1, %d}", e.Geometry, NeighbourNode(ne))
		}
	}
}

func TestNumNodesAndIterate(t *testing.T) {
	g := buildTriangle()
	if g.NumNodes() != 3 {
		t.Fatalf("NumNodes() = %d, want 3", g.NumNodes())
	}

	seen := make(map[NodeID]bool)
	g.Iterate(func(id NodeID, n *Node) {
		seen[id] = true
		if n.ID != id {
			t.Errorf("node stored under key %d has ID %d", id, n.ID)
		}
	})
	if len(seen) != 3 {
		t.Errorf("Iterate visited %d nodes, want 3", len(seen))
	}
}

func TestClosest(t *testing.T) {
	g := buildTriangle()

	id, dist, ok := g.Closest(54.450, -3.080)
	if !ok {
		t.Fatal("Closest() returned ok=false")
	}
	if id != 1 {
		t.Errorf("Closest(54.450,-3.080) = node %d, want 1", id)
	}
	if dist > 1 {
		t.Errorf("Closest distance to an exact match = %f m, want ~0", dist)
	}
}

func TestClosestEmptyGraph(t *testing.T) {
	g := New()
	_, _, ok := g.Closest(54.45, -3.08)
	if ok {
		t.Error("Closest() on an empty graph should report ok=false")
	}
}

func TestEdgeCost(t *testing.T) {
	w := CostWeights{Length: 1, Elevation: 2, Difficulty: 3, Cars: 4}
	e := Edge{Length: 100, Slope: 0.1, Traffic: 2, Difficulty: 1}

	got := w.EdgeCost(e)
	want := 1*100.0 + 2*(0.1+3) + 4*2 + 3*1
	if got != want {
		t.Errorf("EdgeCost() = %f, want %f", got, want)
	}
}

func TestNormalizeRank(t *testing.T) {
	if NormalizeRank(-1) != 0 {
		t.Error("NormalizeRank(-1) should be 0")
	}
	if NormalizeRank(4) != 4 {
		t.Error("NormalizeRank(4) should be unchanged")
	}
}
