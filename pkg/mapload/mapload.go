// Package mapload reads the Map Builder's CSV artifacts back into an
// in-memory Graph and a list of candidate POIs, skipping and warning on
// malformed rows rather than failing the whole load (spec.md §7's
// best-effort propagation policy).
package mapload

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/thepurplepot/prettypath/pkg/graph"
)

// POI is a candidate point of interest with a lazily-populated best graph
// node cache, set once by the Tour Planner's first distance sweep and
// reused thereafter.
type POI struct {
	Name      string
	Lat, Lon  float64
	SourceID  int64
	Elevation float64
	Area      float64 // 0 if not provided by the source row
	HasArea   bool

	bestNode    graph.NodeID
	bestNodeSet bool
}

// BestNode returns the POI's cached nearest graph node, resolving and
// caching it against g on first use.
func (p *POI) BestNode(g *graph.Graph) (graph.NodeID, bool) {
	if p.bestNodeSet {
		return p.bestNode, true
	}
	id, _, ok := g.Closest(p.Lat, p.Lon)
	if !ok {
		return 0, false
	}
	p.bestNode = id
	p.bestNodeSet = true
	return id, true
}

// LoadNodes reads the nodes artifact (header id,lat,lon,elevation) and adds
// each row as a graph node. Malformed rows are skipped with a warning.
func LoadNodes(path string, g *graph.Graph) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open nodes artifact %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return fmt.Errorf("read nodes header: %w", err)
	}

	lineNo := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			log.Printf("mapload: nodes artifact line %d: %v, skipping", lineNo, err)
			continue
		}
		if len(row) < 4 {
			log.Printf("mapload: nodes artifact line %d: expected 4 columns, got %d, skipping", lineNo, len(row))
			continue
		}

		id, err1 := strconv.ParseInt(row[0], 10, 64)
		lat, err2 := strconv.ParseFloat(row[1], 64)
		lon, err3 := strconv.ParseFloat(row[2], 64)
		elev, err4 := strconv.ParseFloat(row[3], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			log.Printf("mapload: nodes artifact line %d: malformed row %v, skipping", lineNo, row)
			continue
		}

		g.AddNode(graph.Node{ID: graph.NodeID(id), Lat: lat, Lon: lon, Elevation: elev})
	}
	return nil
}

// LoadEdges reads the edges artifact (header
// id,osm_id,source_id,target_id,length,slope,difficulty,cars,geometry) and
// adds each row to g. An edge referencing an unknown node, or whose
// geometry references an unknown node, is skipped with a warning — it is
// rejected at load, per the Graph invariant in spec.md §3.
func LoadEdges(path string, g *graph.Graph) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open edges artifact %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // the geometry tail has a variable column count
	if _, err := r.Read(); err != nil {
		return fmt.Errorf("read edges header: %w", err)
	}

	const prefixCols = 8
	lineNo := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			log.Printf("mapload: edges artifact line %d: %v, skipping", lineNo, err)
			continue
		}
		if len(row) < prefixCols+2 { // need at least 2 geometry nodes
			log.Printf("mapload: edges artifact line %d: expected at least %d columns, got %d, skipping", lineNo, prefixCols+2, len(row))
			continue
		}

		osmID, err1 := strconv.ParseInt(row[1], 10, 64)
		sourceNode, err2 := strconv.ParseInt(row[2], 10, 64)
		targetNode, err3 := strconv.ParseInt(row[3], 10, 64)
		length, err4 := strconv.ParseFloat(row[4], 64)
		slope, err5 := strconv.ParseFloat(row[5], 64)
		difficulty, err6 := strconv.Atoi(row[6])
		traffic, err7 := strconv.Atoi(row[7])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil || err7 != nil {
			log.Printf("mapload: edges artifact line %d: malformed row %v, skipping", lineNo, row)
			continue
		}
		if sourceNode == targetNode {
			log.Printf("mapload: edges artifact line %d: endpoints are not distinct, skipping", lineNo)
			continue
		}

		geometry := make([]graph.NodeID, 0, len(row)-prefixCols)
		geometryOK := true
		for _, tok := range row[prefixCols:] {
			gid, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				geometryOK = false
				break
			}
			id := graph.NodeID(gid)
			if _, known := g.Node(id); !known {
				log.Printf("mapload: edges artifact line %d: geometry references unknown node %d, skipping edge", lineNo, id)
				geometryOK = false
				break
			}
			geometry = append(geometry, id)
		}
		if !geometryOK {
			continue
		}

		a, b := graph.NodeID(sourceNode), graph.NodeID(targetNode)
		if _, ok := g.Node(a); !ok {
			log.Printf("mapload: edges artifact line %d: unknown source node %d, skipping", lineNo, a)
			continue
		}
		if _, ok := g.Node(b); !ok {
			log.Printf("mapload: edges artifact line %d: unknown target node %d, skipping", lineNo, b)
			continue
		}

		g.AddEdge(a, b, length, slope, graph.NormalizeRank(traffic), graph.NormalizeRank(difficulty), osmID, geometry)
	}
	return nil
}

// LoadPOIs reads the POIs artifact (header osm_id,name,lat,lon,elevation,area).
func LoadPOIs(path string) ([]*POI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open POIs artifact %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read POIs header: %w", err)
	}

	var pois []*POI
	lineNo := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			log.Printf("mapload: POIs artifact line %d: %v, skipping", lineNo, err)
			continue
		}
		if len(row) < 6 {
			log.Printf("mapload: POIs artifact line %d: expected 6 columns, got %d, skipping", lineNo, len(row))
			continue
		}

		sourceID, err1 := strconv.ParseInt(row[0], 10, 64)
		lat, err2 := strconv.ParseFloat(row[2], 64)
		lon, err3 := strconv.ParseFloat(row[3], 64)
		elev, err4 := strconv.ParseFloat(row[4], 64)
		area, err5 := strconv.ParseFloat(row[5], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			log.Printf("mapload: POIs artifact line %d: malformed row %v, skipping", lineNo, row)
			continue
		}

		pois = append(pois, &POI{
			Name:      row[1],
			Lat:       lat,
			Lon:       lon,
			SourceID:  sourceID,
			Elevation: elev,
			Area:      area,
			HasArea:   err5 == nil,
		})
	}
	return pois, nil
}

// Load reads all three artifacts and returns the assembled graph and POI list.
func Load(nodesPath, edgesPath, poisPath string) (*graph.Graph, []*POI, error) {
	g := graph.New()
	if err := LoadNodes(nodesPath, g); err != nil {
		return nil, nil, err
	}
	if err := LoadEdges(edgesPath, g); err != nil {
		return nil, nil, err
	}
	pois, err := LoadPOIs(poisPath)
	if err != nil {
		return nil, nil, err
	}
	return g, pois, nil
}
