package pathengine

import (
	"math"
	"sort"

	"github.com/thepurplepot/prettypath/pkg/geo"
	"github.com/thepurplepot/prettypath/pkg/graph"
)

const (
	perturbationStartRadiusM        = 50.0
	perturbationMaxAttempts         = 15
	perturbationRadiusDoublingEvery = 5
)

// PerturbEndpoints is the fallback used when Connected(start, goal) fails.
// It searches for an alternative goal and a compatible alternative start so
// that the caller can retry A* on a pair it can actually route between.
// The returned node IDs are graph nodes. The tour planner uses them for the
// one pair being routed; it does not write them back into any POI's
// best-node cache.
func PerturbEndpoints(g *graph.Graph, start, goal graph.NodeID) (newStart, newGoal graph.NodeID, ok bool) {
	startNode, okS := g.Node(start)
	originalGoalNode, okG := g.Node(goal)
	if !okS || !okG {
		return 0, 0, false
	}

	currentGoal := goal
	attempted := map[graph.NodeID]bool{goal: true}
	radius := perturbationStartRadiusM

	for attempt := 1; attempt <= perturbationMaxAttempts; attempt++ {
		if candidate, found := findNearbyConnectedNode(g, startNode.Lat, startNode.Lon, currentGoal, radius); found {
			return candidate, currentGoal, true
		}

		nextGoal, found := closestExcluding(g, originalGoalNode.Lat, originalGoalNode.Lon, attempted, radius)
		if !found {
			return 0, 0, false
		}
		attempted[nextGoal] = true
		currentGoal = nextGoal

		if attempt%perturbationRadiusDoublingEvery == 0 {
			radius *= 2
		}
	}

	return 0, 0, false
}

// findNearbyConnectedNode scans graph nodes other than anchor in increasing
// distance from (fromLat, fromLon), checking Connected(candidate, anchor),
// trying radii {r, 2r, ..., 10r} until a candidate is found.
func findNearbyConnectedNode(g *graph.Graph, fromLat, fromLon float64, anchor graph.NodeID, baseRadius float64) (graph.NodeID, bool) {
	type candidate struct {
		id   graph.NodeID
		dist float64
	}
	var all []candidate
	g.Iterate(func(id graph.NodeID, n *graph.Node) {
		all = append(all, candidate{id: id, dist: geo.Haversine(fromLat, fromLon, n.Lat, n.Lon)})
	})
	sort.Slice(all, func(i, j int) bool { return all[i].dist < all[j].dist })

	for multiple := 1; multiple <= 10; multiple++ {
		limit := baseRadius * float64(multiple)
		for _, c := range all {
			if c.dist > limit {
				break
			}
			if c.id == anchor {
				continue
			}
			if Connected(g, c.id, anchor) {
				return c.id, true
			}
		}
	}
	return 0, false
}

// closestExcluding returns the node closest to (lat, lon) that is not in
// excluded and is at distance >= minDist.
func closestExcluding(g *graph.Graph, lat, lon float64, excluded map[graph.NodeID]bool, minDist float64) (graph.NodeID, bool) {
	var best graph.NodeID
	bestDist := math.Inf(1)
	found := false

	g.Iterate(func(id graph.NodeID, n *graph.Node) {
		if excluded[id] {
			return
		}
		d := geo.Haversine(lat, lon, n.Lat, n.Lon)
		if d < minDist {
			return
		}
		if d < bestDist {
			bestDist = d
			best = id
			found = true
		}
	})

	return best, found
}
