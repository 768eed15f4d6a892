// Package mapbuild converts a raw OSM scan plus an elevation sampler into
// the three map artifacts: nodes, edges, and tarns. It owns all the tag
// classification the original OSM handler did — walkable/tarn detection,
// traffic and difficulty ranking — generalised from the teacher's
// car-accessibility classification to this domain's walkable/tarn rules.
package mapbuild

import (
	"log"
	"sort"

	"github.com/thepurplepot/prettypath/pkg/elevation"
	"github.com/thepurplepot/prettypath/pkg/geo"
	"github.com/thepurplepot/prettypath/pkg/osm"
)

// NodeRecord is a retained node: its location, sampled elevation, and the
// number of walkable ways it participates in.
type NodeRecord struct {
	Lat, Lon  float64
	Elevation float64
	WaysCount int
}

// EdgeRecord is one split segment of a walkable way.
type EdgeRecord struct {
	ID          int
	SourceWayID osm.WayID
	EndpointA   osm.NodeID
	EndpointB   osm.NodeID
	Length      float64
	Slope       float64
	Difficulty  int
	Traffic     int
	Geometry    []osm.NodeID
}

// TarnRecord is a deduplicated closed polygon tagged as a named body of
// still water.
type TarnRecord struct {
	SourceWayID osm.WayID
	Name        string
	Lat, Lon    float64
	Elevation   float64
	AreaM2      float64
}

// Result holds every artifact the Map Builder produced.
type Result struct {
	Nodes  map[osm.NodeID]*NodeRecord
	Edges  []EdgeRecord
	Tarns  []TarnRecord
	Bounds Bounds
}

// Bounds is the realised lat/lon extent of a Result's retained nodes.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Options configures Build.
type Options struct {
	// BBox, if non-zero, drops any way with a node outside the box — the
	// whole way is dropped, not just the out-of-box node.
	BBox osm.BBox
}

// trafficRankByHighway backs the traffic ranking, not walkability — spec walkability
// only excludes motorway/motorway_link/trunk/trunk_link explicitly.
var trafficRankByHighway = map[string]int{
	"motorway":       6,
	"trunk":          5,
	"primary":        4,
	"secondary":      3,
	"tertiary":       2,
	"residential":    1,
	"unclassified":   1,
	"service":        1,
	"motorway_link":  1,
	"trunk_link":     1,
	"primary_link":   1,
	"secondary_link": 1,
	"tertiary_link":  1,
	"track":          0,
	"path":           0,
	"footway":        0,
	"bridleway":      0,
	"cycleway":       0,
}

var difficultyRankBySacScale = map[string]int{
	"hiking":                    0,
	"mountain_hiking":           1,
	"demanding_mountain_hiking": 2,
	"alpine_hiking":             3,
	"demanding_alpine_hiking":   4,
	"difficult_alpine_hiking":   5,
}

var nonWalkableHighways = map[string]bool{
	"motorway":      true,
	"motorway_link": true,
	"trunk":         true,
	"trunk_link":    true,
}

// isWalkable reports whether a way is part of the walkable network.
func isWalkable(tags osm.Tags) bool {
	foot := tags.Find("foot")
	if foot == "no" || foot == "private" {
		return false
	}
	if nonWalkableHighways[tags.Find("highway")] {
		return false
	}
	if tags.Find("natural") == "water" {
		return false
	}
	return true
}

// tarnName reports the tarn's registered name, and ok=false if the way is
// not a qualifying tarn.
func tarnName(tags osm.Tags) (string, bool) {
	if tags.Find("natural") != "water" {
		return "", false
	}
	if water := tags.Find("water"); water == "river" || water == "stream" {
		return "", false
	}
	name := tags.Find("name")
	if name == "" {
		return "", false
	}
	return name, true
}

func trafficRank(tags osm.Tags) int {
	if rank, ok := trafficRankByHighway[tags.Find("highway")]; ok {
		return rank
	}
	return -1
}

func difficultyRank(tags osm.Tags) int {
	if rank, ok := difficultyRankBySacScale[tags.Find("sac_scale")]; ok {
		return rank
	}
	return -1
}

// wayClass is a walkable way's retained classification, carried from pass 2
// into edge splitting.
type wayClass struct {
	way        osm.Way
	traffic    int
	difficulty int
}

// Build runs the Map Builder's two passes over a scanned OSM extract:
// node intake (with elevation sampling) then way intake (classification,
// tarn registration, and edge splitting).
func Build(scan *osm.ScanResult, sampler *elevation.Sampler, opts ...Options) *Result {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	useBBox := !opt.BBox.IsZero()

	// Pass 1: node intake.
	nodes := make(map[osm.NodeID]*NodeRecord, len(scan.Nodes))
	for id, n := range scan.Nodes {
		nodes[id] = &NodeRecord{
			Lat:       n.Lat,
			Lon:       n.Lon,
			Elevation: sampler.Sample(n.Lat, n.Lon),
		}
	}

	// Pass 2: way intake.
	var walkable []wayClass
	tarnOccurrences := make(map[string]int)
	var tarns []TarnRecord
	var skippedShort, skippedUnknownNode, skippedOutOfBBox, skippedDuplicateTarn int

	for _, w := range scan.Ways {
		name, isTarn := tarnName(w.Tags)
		walk := isWalkable(w.Tags)
		if !walk && !isTarn {
			continue
		}
		if len(w.NodeIDs) < 2 {
			skippedShort++
			continue
		}

		allKnown := true
		outOfBBox := false
		for _, id := range w.NodeIDs {
			n, known := nodes[id]
			if !known {
				allKnown = false
				break
			}
			if useBBox && !opt.BBox.Contains(n.Lat, n.Lon) {
				outOfBBox = true
				break
			}
		}
		if !allKnown {
			skippedUnknownNode++
			continue
		}
		if outOfBBox {
			skippedOutOfBBox++
			continue
		}

		if isTarn {
			tarnOccurrences[name]++
			if tarnOccurrences[name] > 1 {
				skippedDuplicateTarn++
				log.Printf("mapbuild: skipping duplicate tarn %q (way %d)", name, w.ID)
				continue
			}
			tarns = append(tarns, buildTarn(w, name, nodes, sampler))
			continue
		}

		for _, id := range w.NodeIDs {
			nodes[id].WaysCount++
		}
		walkable = append(walkable, wayClass{
			way:        w,
			traffic:    trafficRank(w.Tags),
			difficulty: difficultyRank(w.Tags),
		})
	}

	if skippedShort > 0 {
		log.Printf("mapbuild: skipped %d ways with fewer than 2 nodes", skippedShort)
	}
	if skippedUnknownNode > 0 {
		log.Printf("mapbuild: skipped %d ways referencing an unknown node", skippedUnknownNode)
	}
	if skippedOutOfBBox > 0 {
		log.Printf("mapbuild: skipped %d ways leaving the bounding box", skippedOutOfBBox)
	}

	edges := splitEdges(walkable, nodes)

	retained := make(map[osm.NodeID]*NodeRecord)
	minLat, maxLat, minLon, maxLon := 1000.0, -1000.0, 1000.0, -1000.0
	for id, n := range nodes {
		if n.WaysCount <= 0 {
			continue
		}
		retained[id] = n
		minLat, maxLat = min(minLat, n.Lat), max(maxLat, n.Lat)
		minLon, maxLon = min(minLon, n.Lon), max(maxLon, n.Lon)
	}

	log.Printf("mapbuild: nodes=%d edges=%d tarns=%d", len(retained), len(edges), len(tarns))

	bounds := Bounds{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
	return &Result{Nodes: retained, Edges: edges, Tarns: tarns, Bounds: bounds}
}

// splitEdges converts each walkable way into one or more edges, splitting
// at every interior node shared with another walkable way (WaysCount > 1)
// and at the way's own end.
func splitEdges(walkable []wayClass, nodes map[osm.NodeID]*NodeRecord) []EdgeRecord {
	var edges []EdgeRecord
	nextID := 0

	for _, wc := range walkable {
		ids := wc.way.NodeIDs
		segStart := 0

		for i := 1; i < len(ids); i++ {
			isEnd := i == len(ids)-1
			isJunction := nodes[ids[i]].WaysCount > 1
			if !isEnd && !isJunction {
				continue
			}

			segment := ids[segStart : i+1]
			if len(segment) < 2 {
				segStart = i
				continue
			}

			var length, ascent, descent float64
			for k := 1; k < len(segment); k++ {
				a, b := nodes[segment[k-1]], nodes[segment[k]]
				d := geo.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
				length += d

				if elevation.IsNoData(a.Elevation) || elevation.IsNoData(b.Elevation) {
					continue
				}
				delta := b.Elevation - a.Elevation
				if delta > 0 {
					ascent += delta
				} else {
					descent += -delta
				}
			}

			var slope float64
			if length > 0 {
				slope = (ascent - descent) / length
			}

			geometry := make([]osm.NodeID, len(segment))
			copy(geometry, segment)

			edges = append(edges, EdgeRecord{
				ID:          nextID,
				SourceWayID: wc.way.ID,
				EndpointA:   segment[0],
				EndpointB:   segment[len(segment)-1],
				Length:      length,
				Slope:       slope,
				Difficulty:  wc.difficulty,
				Traffic:     wc.traffic,
				Geometry:    geometry,
			})
			nextID++

			segStart = i
		}
	}

	return edges
}

// buildTarn computes a tarn's centroid, area, and sampled elevation from
// its polygon's referenced nodes.
func buildTarn(w osm.Way, name string, nodes map[osm.NodeID]*NodeRecord, sampler *elevation.Sampler) TarnRecord {
	lats := make([]float64, len(w.NodeIDs))
	lons := make([]float64, len(w.NodeIDs))
	for i, id := range w.NodeIDs {
		lats[i] = nodes[id].Lat
		lons[i] = nodes[id].Lon
	}

	centroidLat, centroidLon, area := geo.PolygonCentroidAndArea(lats, lons)

	return TarnRecord{
		SourceWayID: w.ID,
		Name:        name,
		Lat:         centroidLat,
		Lon:         centroidLon,
		Elevation:   sampler.Sample(centroidLat, centroidLon),
		AreaM2:      area,
	}
}

// SortedEdgeIDs returns edge indices sorted by ID, used by writers that
// want deterministic artifact output.
func SortedEdgeIDs(edges []EdgeRecord) []int {
	ids := make([]int, len(edges))
	for i := range edges {
		ids[i] = i
	}
	sort.Slice(ids, func(i, j int) bool { return edges[ids[i]].ID < edges[ids[j]].ID })
	return ids
}
