package pathengine

import (
	"github.com/thepurplepot/prettypath/pkg/geo"
	"github.com/thepurplepot/prettypath/pkg/graph"
)

// pqItem is a priority queue entry: a node, its f-score, and the sequence
// number it was pushed with. Ties on f are broken by sequence so that
// equal-f nodes expand in FIFO order, matching the stability contract
// spec.md §4.4 requires of A*'s tie-breaking.
type pqItem struct {
	node graph.NodeID
	f    float64
	seq  int
}

// minHeap is a concrete-typed min-heap, avoiding container/heap's interface
// boxing — the same trade the teacher made for its Dijkstra priority queue.
type minHeap struct {
	items []pqItem
}

func less(a, b pqItem) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	return a.seq < b.seq
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) Push(node graph.NodeID, f float64, seq int) {
	h.items = append(h.items, pqItem{node: node, f: f, seq: seq})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) Pop() pqItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// AStar finds the least-cost path from start to goal. The heuristic is
// great-circle (Haversine) distance to the goal, admissible so long as the
// configured length weight is ≥ 1 and the other cost terms are non-negative
// (the cost contract spec.md §9 assumes).
// It returns the node path, its total edge cost, and whether a path was
// found.
func AStar(g *graph.Graph, weights graph.CostWeights, start, goal graph.NodeID) ([]graph.NodeID, float64, bool) {
	goalNode, ok := g.Node(goal)
	if !ok {
		return nil, 0, false
	}
	startNode, ok := g.Node(start)
	if !ok {
		return nil, 0, false
	}

	gScore := map[graph.NodeID]float64{start: 0}
	cameFrom := map[graph.NodeID]graph.NodeID{}
	visited := map[graph.NodeID]bool{}

	var pq minHeap
	seq := 0
	pq.Push(start, geo.Haversine(startNode.Lat, startNode.Lon, goalNode.Lat, goalNode.Lon), seq)
	seq++

	for pq.Len() > 0 {
		item := pq.Pop()
		current := item.node
		if visited[current] {
			continue
		}
		visited[current] = true

		if current == goal {
			return reconstructPath(cameFrom, current), gScore[current], true
		}

		for _, ne := range g.Neighbours(current) {
			neighbour := graph.NeighbourNode(ne)
			edge := graph.NeighbourEdge(ne)
			tentative := gScore[current] + weights.EdgeCost(edge)

			existing, known := gScore[neighbour]
			if known && tentative >= existing {
				continue
			}
			gScore[neighbour] = tentative
			cameFrom[neighbour] = current

			nn, _ := g.Node(neighbour)
			f := tentative + geo.Haversine(nn.Lat, nn.Lon, goalNode.Lat, goalNode.Lon)
			pq.Push(neighbour, f, seq)
			seq++
		}
	}

	return nil, 0, false
}

func reconstructPath(cameFrom map[graph.NodeID]graph.NodeID, current graph.NodeID) []graph.NodeID {
	path := []graph.NodeID{current}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost sums EdgeCost along a node path — used by tests that verify A*'s
// returned g-cost is consistent with a fresh walk of the returned path.
func PathCost(g *graph.Graph, weights graph.CostWeights, path []graph.NodeID) (float64, bool) {
	var total float64
	for i := 1; i < len(path); i++ {
		found := false
		for _, ne := range g.Neighbours(path[i-1]) {
			if graph.NeighbourNode(ne) == path[i] {
				total += weights.EdgeCost(graph.NeighbourEdge(ne))
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return total, true
}
