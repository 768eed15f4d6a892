// Package graph holds the routing graph's data model: nodes, undirected
// edges, the adjacency structure that joins them, and the nearest-node
// spatial index used by POI resolution.
package graph

// NodeID is the stable 64-bit identifier inherited from the source extract.
type NodeID int64

// Node is immutable once the graph is loaded. WaysCount is transient — the
// Map Builder uses it to find junctions and the field is meaningless after
// load.
type Node struct {
	ID        NodeID
	Lat, Lon  float64
	Elevation float64
	WaysCount int
}

// Edge is undirected and value-copied into both endpoints' adjacency
// entries. SourceID is the opaque source-way identifier it was split from.
// Geometry is inclusive of both endpoints, in the order they were recorded
// when the edge was built; a consumer walking the edge from its second
// endpoint reverses the slice.
type Edge struct {
	Length     float64
	Slope      float64
	Traffic    int
	Difficulty int
	SourceID   int64
	Geometry   []NodeID
}

// neighbourEdge is one adjacency-list entry: the far endpoint and a copy of
// the edge data.
type neighbourEdge struct {
	Neighbour NodeID
	Edge      Edge
}

// Graph is a mapping from node to the set of (neighbour, edge) pairs, plus
// a nearest-node spatial index. The zero value is not usable; use New.
type Graph struct {
	nodes     map[NodeID]*Node
	adjacency map[NodeID][]neighbourEdge
	index     *spatialIndex
}

// New returns an empty, ready-to-populate Graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[NodeID]*Node),
		adjacency: make(map[NodeID][]neighbourEdge),
		index:     newSpatialIndex(),
	}
}

// AddNode registers a node. Calling AddNode twice for the same ID overwrites
// the previous record; callers normally add each node exactly once.
func (g *Graph) AddNode(n Node) {
	stored := n
	g.nodes[n.ID] = &stored
	g.index.insert(n.ID, n.Lat, n.Lon)
}

// AddEdge appends the (b, edge) pair to a's adjacency and the (a, edge) pair
// to b's. The edge data is value-copied into each entry — this is the only
// place the two endpoints' view of the edge is linked.
func (g *Graph) AddEdge(a, b NodeID, length, slope float64, traffic, difficulty int, sourceID int64, geometry []NodeID) {
	e := Edge{
		Length:     length,
		Slope:      slope,
		Traffic:    traffic,
		Difficulty: difficulty,
		SourceID:   sourceID,
		Geometry:   geometry,
	}
	g.adjacency[a] = append(g.adjacency[a], neighbourEdge{Neighbour: b, Edge: e})
	g.adjacency[b] = append(g.adjacency[b], neighbourEdge{Neighbour: a, Edge: e})
}

// Node returns the node record for id, if known.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NumNodes returns the number of registered nodes.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// Neighbours returns the (neighbour, edge) pairs reachable in one hop from n.
func (g *Graph) Neighbours(n NodeID) []neighbourEdge {
	return g.adjacency[n]
}

// NeighbourNode and NeighbourEdge are accessors for a Neighbours() entry —
// neighbourEdge is unexported so callers outside the package read it through
// these rather than reaching into the struct.
func NeighbourNode(ne neighbourEdge) NodeID { return ne.Neighbour }
func NeighbourEdge(ne neighbourEdge) Edge   { return ne.Edge }

// Iterate applies f to every node in the graph. Order is unspecified.
func (g *Graph) Iterate(f func(NodeID, *Node)) {
	for id, n := range g.nodes {
		f(id, n)
	}
}

// Closest finds the graph node nearest (lat, lon) and its distance in
// meters. It is backed by a nearest-neighbour spatial index rather than the
// linear Haversine scan a small graph could get away with, since a planner
// run calls it once per POI and a production-sized regional extract can
// carry hundreds of thousands of nodes.
func (g *Graph) Closest(lat, lon float64) (NodeID, float64, bool) {
	return g.index.nearest(lat, lon)
}

// CostWeights are the configured per-unit weights used to turn an edge's
// physical attributes into a scalar routing cost.
type CostWeights struct {
	Length     float64
	Elevation  float64
	Difficulty float64
	Cars       float64
}

// EdgeCost computes cost = w_L·L + w_e·(slope+3) + w_c·traffic + w_d·difficulty.
// The +3 offset keeps the elevation term non-negative for realistic slopes.
func (w CostWeights) EdgeCost(e Edge) float64 {
	return w.Length*e.Length + w.Elevation*(e.Slope+3) + w.Cars*float64(e.Traffic) + w.Difficulty*float64(e.Difficulty)
}

// NormalizeRank maps the builder's "-1 = unknown" sentinel to 0, per §3's
// load-time normalisation rule for traffic and difficulty ranks.
func NormalizeRank(rank int) int {
	if rank < 0 {
		return 0
	}
	return rank
}
