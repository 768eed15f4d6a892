package pathwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/thepurplepot/prettypath/pkg/graph"
	"github.com/thepurplepot/prettypath/pkg/tourplanner"
)

// ClearOutputDir removes and recreates dir, so a write phase never mixes
// leg files from a previous run with the current one.
func ClearOutputDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear output dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return nil
}

// WriteLegCSV emits one leg's expanded geometry (header
// id,lat,lon,segment_length_m,elevation).
func WriteLegCSV(path string, points []Point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create leg artifact %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "lat", "lon", "segment_length_m", "elevation"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.FormatInt(int64(p.ID), 10),
			strconv.FormatFloat(p.Lat, 'f', 6, 64),
			strconv.FormatFloat(p.Lon, 'f', 6, 64),
			strconv.FormatFloat(p.SegmentLengthM, 'f', 3, 64),
			strconv.FormatFloat(p.Elevation, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// BuildGPX assembles a combined document: every POI in the tour as a
// waypoint, and each leg as its own named track.
func BuildGPX(legs []tourplanner.Leg, legPoints [][]Point) *gpx.GPX {
	doc := &gpx.GPX{Version: "1.1", Creator: "prettypath"}

	for _, leg := range legs {
		doc.Waypoints = append(doc.Waypoints, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  leg.POI.Lat,
				Longitude: leg.POI.Lon,
				Elevation: *gpx.NewNullableFloat64(leg.POI.Elevation),
			},
			Name: leg.POI.Name,
		})
	}

	for i, points := range legPoints {
		track := gpx.GPXTrack{Name: legName(legs[i].POI.Name, legs[i+1].POI.Name)}
		seg := gpx.GPXTrackSegment{}
		for _, p := range points {
			seg.Points = append(seg.Points, gpx.GPXPoint{
				Point: gpx.Point{
					Latitude:  p.Lat,
					Longitude: p.Lon,
					Elevation: *gpx.NewNullableFloat64(p.Elevation),
				},
			})
		}
		track.Segments = append(track.Segments, seg)
		doc.Tracks = append(doc.Tracks, track)
	}

	return doc
}

// WriteGPX serializes doc to path.
func WriteGPX(path string, doc *gpx.GPX) error {
	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("encode gpx document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write gpx artifact %s: %w", path, err)
	}
	return nil
}

// legName builds the "<POI_A>_to_<POI_B>" stem shared by a leg's CSV
// filename and its GPX track name, converting spaces to underscores.
func legName(a, b string) string {
	return strings.ReplaceAll(a, " ", "_") + "_to_" + strings.ReplaceAll(b, " ", "_")
}

// Write expands and writes every leg of result, then the combined GPX
// document, clearing outputDir first.
func Write(g *graph.Graph, result *tourplanner.Result, outputDir, gpxPath string) error {
	if err := ClearOutputDir(outputDir); err != nil {
		return err
	}

	legPoints := make([][]Point, 0, len(result.Legs)-1)
	offset := 0
	for i := 0; i+1 < len(result.Legs); i++ {
		leg := result.Legs[i]
		if offset+leg.NodeCount > len(result.NodePath) {
			return fmt.Errorf("pathwriter: leg %d node count exceeds remaining path", i)
		}
		segment := result.NodePath[offset : offset+leg.NodeCount]
		offset += leg.NodeCount

		points := ExpandLeg(g, segment)
		legPoints = append(legPoints, points)

		name := legName(leg.POI.Name, result.Legs[i+1].POI.Name) + ".csv"
		if err := WriteLegCSV(filepath.Join(outputDir, name), points); err != nil {
			return err
		}
	}

	return WriteGPX(gpxPath, BuildGPX(result.Legs, legPoints))
}
