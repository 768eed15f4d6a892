// Command mapbuilder scans an OSM extract and a DEM raster into the three
// map artifacts the planner loads: nodes, edges, and tarns.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/thepurplepot/prettypath/pkg/elevation"
	"github.com/thepurplepot/prettypath/pkg/mapbuild"
	"github.com/thepurplepot/prettypath/pkg/osm"
)

func main() {
	nodesOut := flag.String("nodes", "nodes.csv", "Output path for the nodes artifact")
	edgesOut := flag.String("edges", "edges.csv", "Output path for the edges artifact")
	tarnsOut := flag.String("tarns", "tarns.csv", "Output path for the tarns (POIs) artifact")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLon,maxLat,maxLon")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mapbuilder [flags] <osm_file> <dem_file>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	osmPath, demPath := flag.Arg(0), flag.Arg(1)

	var scanOpts osm.ScanOptions
	if *bbox != "" {
		var minLat, minLon, maxLat, maxLon float64
		if _, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLon, &maxLat, &maxLon); err != nil {
			log.Fatalf("invalid -bbox (expected minLat,minLon,maxLat,maxLon): %v", err)
		}
		scanOpts.BBox = osm.BBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
		log.Printf("using bounding box filter: lat [%.4f, %.4f], lon [%.4f, %.4f]", minLat, maxLat, minLon, maxLon)
	}

	start := time.Now()

	log.Println("opening OSM extract...")
	osmFile, err := os.Open(osmPath)
	if err != nil {
		log.Fatalf("open OSM extract: %v", err)
	}
	defer osmFile.Close()

	log.Println("scanning OSM extract...")
	scanResult, err := osm.Scan(context.Background(), osmFile, scanOpts)
	if err != nil {
		log.Fatalf("scan OSM extract: %v", err)
	}
	log.Printf("scanned %d nodes, %d ways", len(scanResult.Nodes), len(scanResult.Ways))

	log.Println("opening DEM raster...")
	grid, err := elevation.OpenGridFile(demPath)
	if err != nil {
		log.Fatalf("open DEM raster: %v", err)
	}
	defer grid.Close()
	sampler := elevation.NewSampler(grid)

	log.Println("building map artifacts...")
	var buildOpts mapbuild.Options
	buildOpts.BBox = scanOpts.BBox
	result := mapbuild.Build(scanResult, sampler, buildOpts)
	b := result.Bounds
	log.Printf("map bounds: %f -> %f, %f -> %f", b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)

	log.Printf("writing %s...", *nodesOut)
	if err := mapbuild.WriteNodes(*nodesOut, result.Nodes); err != nil {
		log.Fatalf("write nodes artifact: %v", err)
	}
	log.Printf("writing %s...", *edgesOut)
	if err := mapbuild.WriteEdges(*edgesOut, result.Edges); err != nil {
		log.Fatalf("write edges artifact: %v", err)
	}
	log.Printf("writing %s...", *tarnsOut)
	if err := mapbuild.WriteTarns(*tarnsOut, result.Tarns); err != nil {
		log.Fatalf("write tarns artifact: %v", err)
	}

	log.Printf("done in %s: %d nodes, %d edges, %d tarns", time.Since(start).Round(time.Millisecond), len(result.Nodes), len(result.Edges), len(result.Tarns))
}
