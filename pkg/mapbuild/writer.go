package mapbuild

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/thepurplepot/prettypath/pkg/osm"
)

// WriteNodes writes the nodes artifact: header id,lat,lon,elevation. Lat/lon
// are printed with 6 decimals; only nodes with WaysCount > 0 are retained
// (Build already filters Result.Nodes down to these).
func WriteNodes(path string, nodes map[osm.NodeID]*NodeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "lat", "lon", "elevation"}); err != nil {
		return err
	}
	for id, n := range nodes {
		row := []string{
			strconv.FormatInt(int64(id), 10),
			strconv.FormatFloat(n.Lat, 'f', 6, 64),
			strconv.FormatFloat(n.Lon, 'f', 6, 64),
			strconv.FormatFloat(n.Elevation, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteEdges writes the edges artifact: header
// id,osm_id,source_id,target_id,length,slope,difficulty,cars,geometry. The
// geometry tail has a variable number of columns per row.
func WriteEdges(path string, edges []EdgeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "osm_id", "source_id", "target_id", "length", "slope", "difficulty", "cars", "geometry"}); err != nil {
		return err
	}

	for _, id := range SortedEdgeIDs(edges) {
		e := edges[id]
		row := make([]string, 0, 8+len(e.Geometry))
		row = append(row,
			strconv.Itoa(e.ID),
			strconv.FormatInt(int64(e.SourceWayID), 10),
			strconv.FormatInt(int64(e.EndpointA), 10),
			strconv.FormatInt(int64(e.EndpointB), 10),
			strconv.FormatFloat(e.Length, 'f', 6, 64),
			strconv.FormatFloat(e.Slope, 'f', 6, 64),
			strconv.Itoa(e.Difficulty),
			strconv.Itoa(e.Traffic),
		)
		for _, g := range e.Geometry {
			row = append(row, strconv.FormatInt(int64(g), 10))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteTarns writes the POIs artifact: header osm_id,name,lat,lon,elevation,area.
func WriteTarns(path string, tarns []TarnRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"osm_id", "name", "lat", "lon", "elevation", "area"}); err != nil {
		return err
	}
	for _, t := range tarns {
		row := []string{
			strconv.FormatInt(int64(t.SourceWayID), 10),
			t.Name,
			strconv.FormatFloat(t.Lat, 'f', 6, 64),
			strconv.FormatFloat(t.Lon, 'f', 6, 64),
			strconv.FormatFloat(t.Elevation, 'f', 6, 64),
			strconv.FormatFloat(t.AreaM2, 'f', 0, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
