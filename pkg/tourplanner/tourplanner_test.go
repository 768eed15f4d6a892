package tourplanner

import (
	"math"
	"math/rand"
	"testing"

	"github.com/thepurplepot/prettypath/pkg/config"
	"github.com/thepurplepot/prettypath/pkg/graph"
	"github.com/thepurplepot/prettypath/pkg/mapload"
)

var unitWeights = graph.CostWeights{Length: 1}

// ring builds a closed ring of n nodes, 100m between consecutive nodes, so
// every pair is connected via the shorter arc.
func ring(n int) *graph.Graph {
	g := graph.New()
	for i := 0; i < n; i++ {
		g.AddNode(graph.Node{ID: graph.NodeID(i), Lat: 54.0 + float64(i)*0.001, Lon: -3.0})
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		g.AddEdge(graph.NodeID(i), graph.NodeID(j), 100, 0, 0, 0, 1, []graph.NodeID{graph.NodeID(i), graph.NodeID(j)})
	}
	return g
}

func poiAt(name string, g *graph.Graph, id graph.NodeID) *mapload.POI {
	n, _ := g.Node(id)
	return &mapload.POI{Name: name, Lat: n.Lat, Lon: n.Lon}
}

func TestFilterPOIsElevationAreaBBoxBlacklist(t *testing.T) {
	pois := []*mapload.POI{
		{Name: "ok", Lat: 54.5, Lon: -3.0, Elevation: 300, Area: 1000, HasArea: true},
		{Name: "too high", Lat: 54.5, Lon: -3.0, Elevation: 900, Area: 1000, HasArea: true},
		{Name: "too small", Lat: 54.5, Lon: -3.0, Elevation: 300, Area: 1, HasArea: true},
		{Name: "outside bbox", Lat: 60.0, Lon: -3.0, Elevation: 300, Area: 1000, HasArea: true},
		{Name: "blacklisted", Lat: 54.5, Lon: -3.0, Elevation: 300, Area: 1000, HasArea: true},
		{Name: "no area info", Lat: 54.5, Lon: -3.0, Elevation: 300},
	}
	tarn := config.TarnConstraints{MinElevation: 100, MaxElevation: 500, MinArea: 100, MaxArea: 5000, Blacklist: []string{"blacklisted"}}
	mapc := config.MapConstraints{MinLatitude: 54.0, MaxLatitude: 55.0, MinLongitude: -4.0, MaxLongitude: -2.0}

	got := FilterPOIs(pois, tarn, mapc)
	if len(got) != 2 {
		names := make([]string, len(got))
		for i, p := range got {
			names[i] = p.Name
		}
		t.Fatalf("got %d survivors %v, want 2 (ok, no area info)", len(got), names)
	}
}

func TestInjectStartSkippedWhenZero(t *testing.T) {
	pois := []*mapload.POI{{Name: "A"}}
	if got := InjectStart(pois, nil); len(got) != 1 {
		t.Errorf("nil start: len = %d, want 1", len(got))
	}
	if got := InjectStart(pois, &config.StartLocation{}); len(got) != 1 {
		t.Errorf("zero start: len = %d, want 1", len(got))
	}
}

func TestInjectStartPrepends(t *testing.T) {
	pois := []*mapload.POI{{Name: "A"}}
	got := InjectStart(pois, &config.StartLocation{Latitude: 54.5, Longitude: -3.1})
	if len(got) != 2 || got[0].Name != "Start" || got[1].Name != "A" {
		t.Fatalf("got %+v, want [Start, A]", got)
	}
}

// S1-style trivial pair: two POIs on a ring, the matrix distance should
// match the shorter arc between them.
func TestBuildMatrixTrivialRing(t *testing.T) {
	g := ring(4)
	a := poiAt("A", g, 0)
	b := poiAt("B", g, 2)

	m := BuildMatrix(g, unitWeights, []*mapload.POI{a, b}, nil)
	if m.Dist[0][1] != m.Dist[1][0] {
		t.Errorf("matrix not symmetric: %f vs %f", m.Dist[0][1], m.Dist[1][0])
	}
	if m.Dist[0][1] != 200 {
		t.Errorf("dist(A,B) = %f, want 200", m.Dist[0][1])
	}
}

// Invariant 5: matrix symmetry across a larger POI set.
func TestMatrixSymmetric(t *testing.T) {
	g := ring(8)
	var pois []*mapload.POI
	for _, id := range []graph.NodeID{0, 2, 4, 6} {
		pois = append(pois, poiAt("p", g, id))
	}
	m := BuildMatrix(g, unitWeights, pois, nil)
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			if m.Dist[i][j] != m.Dist[j][i] {
				t.Errorf("dist[%d][%d]=%f != dist[%d][%d]=%f", i, j, m.Dist[i][j], j, i, m.Dist[j][i])
			}
		}
	}
}

// S4 — pruning: an isolated POI with too few reachable legs is dropped.
// POIs 0-3 are mutually close (3 finite legs each, above the >2 survival
// threshold); POI 4 is an island reachable only from the anchor.
func TestPrune(t *testing.T) {
	inf := math.Inf(1)
	m := &Matrix{N: 5, Dist: [][]float64{
		{0, 100, 100, 100, 100},
		{100, 0, 100, 100, inf},
		{100, 100, 0, 100, inf},
		{100, 100, 100, 0, inf},
		{100, inf, inf, inf, 0},
	}}
	keep := Prune(m, 500)
	want := map[int]bool{0: true, 1: true, 2: true, 3: true}
	if len(keep) != len(want) {
		t.Fatalf("keep = %v, want indices %v (4 removed: only 1 finite leg < maxLeg)", keep, want)
	}
	for _, k := range keep {
		if !want[k] {
			t.Errorf("unexpected survivor %d", k)
		}
	}
}

// Invariant 7: exact DP matches brute-force permutation search.
func TestHeldKarpMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := 3 + rng.Intn(6) // 3..8
		dist := randomMetric(rng, n)

		order := HeldKarp(dist)
		got := tourLength(order, dist)
		want := bruteForceBest(dist)

		if math.Abs(got-want) > 1e-6 {
			t.Errorf("trial %d (n=%d): HeldKarp = %f, brute force = %f", trial, n, got, want)
		}
	}
}

// Invariant 6: annealing never returns a tour worse than the identity's.
func TestAnnealNeverWorseThanIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	dist := randomMetric(rng, 6)
	identity := make([]int, 6)
	for i := range identity {
		identity[i] = i
	}
	identityCost := tourObjective(identity, dist, 0)

	order := Anneal(dist, 0, rand.New(rand.NewSource(1)))
	gotCost := tourObjective(order, dist, 0)

	if gotCost > identityCost+1e-9 {
		t.Errorf("annealed cost %f worse than identity cost %f", gotCost, identityCost)
	}
}

// S5 — ordered mode bypasses filtering/ordering entirely.
func TestPlanFixedOrder(t *testing.T) {
	g := ring(6)
	p1 := poiAt("P1", g, 1)
	p2 := poiAt("P2", g, 2)
	p3 := poiAt("P3", g, 4)
	cfg := &config.Config{
		PathCost:        config.PathCost{LengthWeight: 1},
		TarnConstraints: config.TarnConstraints{UseOrderedTarns: true},
		PathConstraints: config.PathConstraints{StartLocation: &config.StartLocation{Latitude: 54.0, Longitude: -3.0}},
	}

	result, err := Plan(g, []*mapload.POI{p1, p2, p3}, cfg, Options{})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	wantNames := []string{"Start", "P1", "P2", "P3", "Start"}
	if len(result.Legs) != len(wantNames) {
		t.Fatalf("got %d legs, want %d", len(result.Legs), len(wantNames))
	}
	for i, name := range wantNames {
		if result.Legs[i].POI.Name != name {
			t.Errorf("leg %d = %q, want %q", i, result.Legs[i].POI.Name, name)
		}
	}
	if result.Legs[len(result.Legs)-1].NodeCount != 0 {
		t.Errorf("final leg NodeCount = %d, want 0", result.Legs[len(result.Legs)-1].NodeCount)
	}
}

func TestReconstructReversesBackwardLegs(t *testing.T) {
	m := &Matrix{
		N:    3,
		Dist: [][]float64{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}},
		Paths: map[[2]int][]graph.NodeID{
			{0, 1}: {10, 11},
			{1, 2}: {11, 12},
			{0, 2}: {10, 99, 12},
		},
	}
	pois := []*mapload.POI{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	// Order 0 -> 2 -> 1 -> (back to 0): the 2->1 leg is stored as {1,2} and
	// must be reversed; the 1->0 leg is stored as {0,1} and must be reversed too.
	legs, path := Reconstruct(m, pois, []int{0, 2, 1})

	wantPath := []graph.NodeID{10, 99, 12, 12, 11, 11, 10}
	if len(path) != len(wantPath) {
		t.Fatalf("path = %v, want %v", path, wantPath)
	}
	for i := range wantPath {
		if path[i] != wantPath[i] {
			t.Fatalf("path = %v, want %v", path, wantPath)
		}
	}
	if legs[len(legs)-1].POI.Name != "A" || legs[len(legs)-1].NodeCount != 0 {
		t.Errorf("final leg = %+v, want {A, 0}", legs[len(legs)-1])
	}
}

// randomMetric builds a random symmetric distance matrix satisfying the
// triangle inequality by embedding points on a line and taking |i-j|.
func randomMetric(rng *rand.Rand, n int) [][]float64 {
	points := make([]float64, n)
	for i := range points {
		points[i] = rng.Float64() * 100
	}
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			dist[i][j] = math.Abs(points[i] - points[j])
		}
	}
	return dist
}

func tourLength(order []int, dist [][]float64) float64 {
	var total float64
	for i := 0; i < len(order); i++ {
		total += dist[order[i]][order[(i+1)%len(order)]]
	}
	return total
}

func bruteForceBest(dist [][]float64) float64 {
	n := len(dist)
	rest := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		rest = append(rest, i)
	}
	best := math.Inf(1)
	permute(rest, 0, func(p []int) {
		order := append([]int{0}, p...)
		if l := tourLength(order, dist); l < best {
			best = l
		}
	})
	return best
}

func permute(items []int, k int, visit func([]int)) {
	if k == len(items) {
		cp := append([]int(nil), items...)
		visit(cp)
		return
	}
	for i := k; i < len(items); i++ {
		items[k], items[i] = items[i], items[k]
		permute(items, k+1, visit)
		items[k], items[i] = items[i], items[k]
	}
}
