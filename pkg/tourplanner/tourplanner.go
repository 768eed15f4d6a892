// Package tourplanner turns a loaded Graph and a candidate POI list into an
// ordered tour: filter POIs against the configured constraints, build the
// pairwise distance matrix (the pipeline's one concurrent stage), prune
// mutually unreachable POIs, solve the ordering problem exactly or
// approximately depending on its size, and reconstruct the concatenated
// node-level path.
package tourplanner

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/thepurplepot/prettypath/pkg/config"
	"github.com/thepurplepot/prettypath/pkg/graph"
	"github.com/thepurplepot/prettypath/pkg/mapload"
)

// exactOrderingLimit is the POI count at or below which Held-Karp's exact
// bitmask DP is preferred over simulated annealing (not prescribed by the
// original tool, which only ever ran annealing; chosen here as the natural
// crossover where 2^n*n stays in the low millions).
const exactOrderingLimit = 18

// Options configures a single planning run.
type Options struct {
	// Progress, if non-nil, is called after each pairwise distance is
	// resolved with the number done and the total pair count.
	Progress func(done, total int)
	// Seed seeds the simulated annealing RNG. Zero means wall-clock seeded.
	Seed int64
}

// Result is a planned tour: the POI visiting order paired with how many
// graph nodes its outgoing leg contains, and the concatenated node path.
type Result struct {
	Legs     []Leg
	NodePath []graph.NodeID
}

// Leg pairs a POI with the node count of the leg leaving it. The final Leg
// always repeats the starting POI with NodeCount 0, closing the cycle.
type Leg struct {
	POI       *mapload.POI
	NodeCount int
}

// Plan runs the full pipeline: FilterPOIs (skipped in ordered mode),
// InjectStart, BuildMatrix, Prune, HeldKarp or Anneal, then Reconstruct.
func Plan(g *graph.Graph, rawPOIs []*mapload.POI, cfg *config.Config, opts Options) (*Result, error) {
	weights := graph.CostWeights{
		Length:     cfg.PathCost.LengthWeight,
		Elevation:  cfg.PathCost.ElevationWeight,
		Difficulty: cfg.PathCost.DifficultyWeight,
		Cars:       cfg.PathCost.CarsWeight,
	}

	if cfg.TarnConstraints.UseOrderedTarns {
		pois := InjectStart(append([]*mapload.POI(nil), rawPOIs...), cfg.PathConstraints.StartLocation)
		return planFixedOrder(g, weights, pois)
	}

	pois := InjectStart(FilterPOIs(rawPOIs, cfg.TarnConstraints, cfg.MapConstraints), cfg.PathConstraints.StartLocation)
	if len(pois) < 2 {
		return nil, fmt.Errorf("tourplanner: only %d POI(s) survived filtering, need at least 2", len(pois))
	}

	matrix := BuildMatrix(g, weights, pois, opts.Progress)

	keep := Prune(matrix, cfg.PathConstraints.MaxLength)
	if len(keep) < 2 {
		return nil, fmt.Errorf("tourplanner: only %d POI(s) survived pruning, need at least 2", len(keep))
	}

	sub := subMatrix(matrix, keep)

	var order []int
	if len(keep) <= exactOrderingLimit {
		order = HeldKarp(sub)
	} else {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		order = Anneal(sub, cfg.PathConstraints.MinLength, rand.New(rand.NewSource(seed)))
	}

	originalOrder := make([]int, len(order))
	for i, idx := range order {
		originalOrder[i] = keep[idx]
	}

	legs, nodePath := Reconstruct(matrix, pois, originalOrder)
	return &Result{Legs: legs, NodePath: nodePath}, nil
}

// planFixedOrder routes consecutive POIs in the order given, bypassing
// filtering, the distance matrix, and ordering entirely.
func planFixedOrder(g *graph.Graph, weights graph.CostWeights, pois []*mapload.POI) (*Result, error) {
	n := len(pois)
	if n < 2 {
		return nil, fmt.Errorf("tourplanner: ordered mode needs at least 2 POIs, got %d", n)
	}

	var legs []Leg
	var nodePath []graph.NodeID
	for i := 0; i < n; i++ {
		from, to := pois[i], pois[(i+1)%n]
		cost, path := pairDistance(g, weights, from, to)
		if math.IsInf(cost, 1) {
			return nil, fmt.Errorf("tourplanner: no path found between %q and %q", from.Name, to.Name)
		}
		legs = append(legs, Leg{POI: from, NodeCount: len(path)})
		nodePath = append(nodePath, path...)
	}
	legs = append(legs, Leg{POI: pois[0], NodeCount: 0})
	return &Result{Legs: legs, NodePath: nodePath}, nil
}

func subMatrix(m *Matrix, keep []int) [][]float64 {
	n := len(keep)
	sub := make([][]float64, n)
	for i := range sub {
		sub[i] = make([]float64, n)
		for j := range sub[i] {
			sub[i][j] = m.Dist[keep[i]][keep[j]]
		}
	}
	return sub
}
