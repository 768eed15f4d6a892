// Package pathwriter expands a planned tour's node-level path back into
// full polyline geometry and emits the per-leg CSV and combined GPX
// artifacts spec.md §4.6 describes.
package pathwriter

import (
	"github.com/thepurplepot/prettypath/pkg/geo"
	"github.com/thepurplepot/prettypath/pkg/graph"
)

// Point is one expanded geometry point along a leg: a graph node's
// location and elevation, plus the distance from the previous point in the
// same leg (0 for the first point).
type Point struct {
	ID             graph.NodeID
	Lat, Lon       float64
	Elevation      float64
	SegmentLengthM float64
}

// ExpandLeg walks a leg's node-level path (consecutive graph nodes, each
// pair connected by one graph edge) and expands every edge's geometry into
// its intermediate nodes, reversing the geometry when the edge's stored
// direction runs the other way. The terminal geometry node of each edge is
// dropped except on the leg's final edge, since the next edge repeats it.
func ExpandLeg(g *graph.Graph, nodePath []graph.NodeID) []Point {
	var out []Point
	for i := 0; i+1 < len(nodePath); i++ {
		u, v := nodePath[i], nodePath[i+1]
		edge, ok := findEdge(g, u, v)
		if !ok {
			continue
		}

		geomIDs := edge.Geometry
		if len(geomIDs) > 0 && geomIDs[0] != u {
			geomIDs = reverseNodeIDs(geomIDs)
		}

		isFinalEdge := i == len(nodePath)-2
		upto := len(geomIDs)
		if !isFinalEdge && upto > 0 {
			upto--
		}

		for k := 0; k < upto; k++ {
			n, ok := g.Node(geomIDs[k])
			if !ok {
				continue
			}
			p := Point{ID: geomIDs[k], Lat: n.Lat, Lon: n.Lon, Elevation: n.Elevation}
			if len(out) > 0 {
				prev := out[len(out)-1]
				p.SegmentLengthM = geo.Haversine(prev.Lat, prev.Lon, p.Lat, p.Lon)
			}
			out = append(out, p)
		}
	}
	return out
}

func findEdge(g *graph.Graph, u, v graph.NodeID) (graph.Edge, bool) {
	for _, ne := range g.Neighbours(u) {
		if graph.NeighbourNode(ne) == v {
			return graph.NeighbourEdge(ne), true
		}
	}
	return graph.Edge{}, false
}

func reverseNodeIDs(ids []graph.NodeID) []graph.NodeID {
	rev := make([]graph.NodeID, len(ids))
	for i, id := range ids {
		rev[len(ids)-1-i] = id
	}
	return rev
}
