package tourplanner

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/thepurplepot/prettypath/pkg/graph"
	"github.com/thepurplepot/prettypath/pkg/mapload"
	"github.com/thepurplepot/prettypath/pkg/pathengine"
)

// Matrix is the symmetric n×n pairwise distance matrix across a POI list,
// plus the node-level path for each reachable pair. Paths are stored once
// per unordered pair, keyed by the ascending (i, j); traversing j→i means
// reversing the stored slice.
type Matrix struct {
	N     int
	Dist  [][]float64
	Paths map[[2]int][]graph.NodeID
}

type pairResult struct {
	i, j int
	cost float64
	path []graph.NodeID
}

// BuildMatrix computes every pairwise shortest path across pois, dispatched
// on a worker pool sized to hardware parallelism. Column 0 runs first and
// alone: every pair in it touches POI 0, so resolving POI 0's best-node
// cache synchronously beforehand, then running that column's distinct-POI
// pairs concurrently, avoids two goroutines racing to populate the same
// cache. By the time the remaining pairs run, every POI's cache is already
// warm and read-only.
func BuildMatrix(g *graph.Graph, weights graph.CostWeights, pois []*mapload.POI, progress func(done, total int)) *Matrix {
	n := len(pois)
	m := &Matrix{N: n, Dist: make([][]float64, n), Paths: make(map[[2]int][]graph.NodeID)}
	for i := range m.Dist {
		m.Dist[i] = make([]float64, n)
	}
	if n == 0 {
		return m
	}

	total := n * (n - 1) / 2
	var done int64
	report := func() {
		if progress != nil {
			progress(int(atomic.AddInt64(&done, 1)), total)
		}
	}

	pois[0].BestNode(g)

	run := func(pairs [][2]int) {
		runPairs(g, weights, pois, pairs, m, report)
	}

	if n > 1 {
		column0 := make([][2]int, 0, n-1)
		for j := 1; j < n; j++ {
			column0 = append(column0, [2]int{0, j})
		}
		run(column0)
	}

	var rest [][2]int
	for i := 1; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rest = append(rest, [2]int{i, j})
		}
	}
	run(rest)

	return m
}

func runPairs(g *graph.Graph, weights graph.CostWeights, pois []*mapload.POI, pairs [][2]int, m *Matrix, report func()) {
	if len(pairs) == 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers > len(pairs) {
		workers = len(pairs)
	}

	jobs := make(chan [2]int)
	results := make(chan pairResult)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for pair := range jobs {
				i, j := pair[0], pair[1]
				cost, path := pairDistance(g, weights, pois[i], pois[j])
				results <- pairResult{i: i, j: j, cost: cost, path: path}
			}
		}()
	}
	go func() {
		for _, p := range pairs {
			jobs <- p
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		m.Dist[r.i][r.j] = r.cost
		m.Dist[r.j][r.i] = r.cost
		if !math.IsInf(r.cost, 1) {
			m.Paths[[2]int{r.i, r.j}] = r.path
		}
		report()
	}
}

// pairDistance resolves a's and b's best graph nodes and runs the path
// engine between them, falling back to endpoint perturbation when the
// connectivity pre-check fails. It reports +Inf when no path exists.
func pairDistance(g *graph.Graph, weights graph.CostWeights, a, b *mapload.POI) (float64, []graph.NodeID) {
	start, ok1 := a.BestNode(g)
	goal, ok2 := b.BestNode(g)
	if !ok1 || !ok2 {
		return math.Inf(1), nil
	}

	if !pathengine.Connected(g, start, goal) {
		newStart, newGoal, ok := pathengine.PerturbEndpoints(g, start, goal)
		if !ok {
			return math.Inf(1), nil
		}
		start, goal = newStart, newGoal
	}

	path, cost, ok := pathengine.AStar(g, weights, start, goal)
	if !ok {
		return math.Inf(1), nil
	}
	return cost, path
}
