// Package osm scans an OSM PBF extract into raw node and way records. It
// does no tag classification of its own — that is the Map Builder's job
// (see package mapbuild) — this package only owns the two-pass PBF scan.
package osm

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// NodeID aliases the upstream osm package's node identifier type.
type NodeID = osm.NodeID

// WayID aliases the upstream osm package's way identifier type.
type WayID = osm.WayID

// Tags aliases the upstream osm package's tag dictionary type.
type Tags = osm.Tags

// Node is a raw OSM node: just a location, keyed by NodeID in ScanResult.
type Node struct {
	Lat, Lon float64
}

// Way is a raw OSM way: an ordered node-id list plus its tag dictionary.
type Way struct {
	ID      WayID
	NodeIDs []NodeID
	Tags    Tags
}

// ScanResult holds every way in the extract and the coordinates of every
// node any way references. Nodes not referenced by any way are never
// loaded, matching the teacher's two-pass memory-saving approach.
type ScanResult struct {
	Nodes map[NodeID]Node
	Ways  []Way
}

// BBox is a geographic bounding box used to skip out-of-box node records
// during the scan. A zero BBox disables filtering.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// IsZero reports whether the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLon == 0 && b.MaxLon == 0
}

// Contains reports whether the point lies inside the bounding box.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// ScanOptions configures Scan.
type ScanOptions struct {
	// BBox, if non-zero, makes pass 2 skip node records outside the box, so
	// their coordinates are never collected. Ways are not filtered here: a
	// way touching a skipped node reaches the Map Builder with an unknown
	// node reference and is dropped there as a whole.
	BBox BBox
}

// Scan reads an OSM PBF file and returns every way plus the coordinates of
// every node a way references. The reader is consumed twice — once for
// ways, once for nodes — so it must implement io.ReadSeeker.
func Scan(ctx context.Context, rs io.ReadSeeker, opts ...ScanOptions) (*ScanResult, error) {
	var opt ScanOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	referenced := make(map[NodeID]struct{})
	var ways []Way

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		w, ok := obj.(*osm.Way)
		if !ok {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}

		nodeIDs := make([]NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}

		ways = append(ways, Way{ID: w.ID, NodeIDs: nodeIDs, Tags: w.Tags})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("osm: pass 1 complete: %d ways, %d referenced nodes", len(ways), len(referenced))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodes := make(map[NodeID]Node, len(referenced))
	useBBox := !opt.BBox.IsZero()

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		n, ok := obj.(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		if useBBox && !opt.BBox.Contains(n.Lat, n.Lon) {
			continue
		}
		nodes[n.ID] = Node{Lat: n.Lat, Lon: n.Lon}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("osm: pass 2 complete: %d node coordinates collected", len(nodes))

	return &ScanResult{Nodes: nodes, Ways: ways}, nil
}
