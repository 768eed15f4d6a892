// Package pathengine finds least-cost routes over a loaded Graph: A* with a
// Haversine admissible heuristic, a cheap bidirectional-DFS reachability
// pre-check, and an endpoint-perturbation fallback for disconnected pairs.
package pathengine

import "github.com/thepurplepot/prettypath/pkg/graph"

// Connected is a cheap filter run before A*: two search frontiers grow
// alternately from start and from goal as plain DFS stacks; if either
// frontier pops a node the other has already visited, the two are
// connected. If both stacks empty out first, they are not.
func Connected(g *graph.Graph, start, goal graph.NodeID) bool {
	if start == goal {
		return true
	}

	fwdStack := []graph.NodeID{start}
	bwdStack := []graph.NodeID{goal}
	fwdVisited := map[graph.NodeID]bool{start: true}
	bwdVisited := map[graph.NodeID]bool{goal: true}

	for len(fwdStack) > 0 || len(bwdStack) > 0 {
		if len(fwdStack) > 0 {
			n := fwdStack[len(fwdStack)-1]
			fwdStack = fwdStack[:len(fwdStack)-1]
			if bwdVisited[n] {
				return true
			}
			for _, ne := range g.Neighbours(n) {
				nb := graph.NeighbourNode(ne)
				if !fwdVisited[nb] {
					fwdVisited[nb] = true
					fwdStack = append(fwdStack, nb)
				}
			}
		}

		if len(bwdStack) > 0 {
			n := bwdStack[len(bwdStack)-1]
			bwdStack = bwdStack[:len(bwdStack)-1]
			if fwdVisited[n] {
				return true
			}
			for _, ne := range g.Neighbours(n) {
				nb := graph.NeighbourNode(ne)
				if !bwdVisited[nb] {
					bwdVisited[nb] = true
					bwdStack = append(bwdStack, nb)
				}
			}
		}
	}

	return false
}
