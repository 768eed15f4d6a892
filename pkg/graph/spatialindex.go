package graph

import (
	"math"

	"github.com/tidwall/rtree"

	"github.com/thepurplepot/prettypath/pkg/geo"
)

// spatialIndex answers nearest-node queries. The teacher's go.mod already
// declares tidwall/rtree as a direct dependency; this wires it up for real
// rather than leaving it unused.
type spatialIndex struct {
	tr    rtree.RTree[NodeID]
	point map[NodeID][2]float64
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{point: make(map[NodeID][2]float64)}
}

func (idx *spatialIndex) insert(id NodeID, lat, lon float64) {
	p := [2]float64{lon, lat}
	idx.point[id] = p
	idx.tr.Insert(p, p, id)
}

// nearest finds the closest indexed point to (lat, lon) using Haversine
// distance, by searching an expanding box around the query point. Box
// half-widths are in degrees; starting small and quadrupling keeps the
// common case (a POI near the trail network) cheap while still terminating
// for a POI far outside the network's extent. The search stops once the best
// candidate is nearer than any point outside the current box can be.
func (idx *spatialIndex) nearest(lat, lon float64) (NodeID, float64, bool) {
	if len(idx.point) == 0 {
		return 0, 0, false
	}

	const startHalfWidthDeg = 0.002 // roughly 150-200m at UK latitudes
	const maxAttempts = 20

	var best NodeID
	bestDist := math.Inf(1)
	found := false

	halfWidth := startHalfWidthDeg
	for attempt := 0; attempt < maxAttempts; attempt++ {
		min := [2]float64{lon - halfWidth, lat - halfWidth}
		max := [2]float64{lon + halfWidth, lat + halfWidth}
		idx.tr.Search(min, max, func(_, _ [2]float64, data NodeID) bool {
			p := idx.point[data]
			d := geo.Haversine(lat, lon, p[1], p[0])
			if d < bestDist {
				bestDist = d
				best = data
				found = true
			}
			return true
		})

		// covered is a lower bound on the distance of any point outside the box.
		h := geo.DegToRad(halfWidth)
		covered := math.Inf(1)
		if halfWidth < 360 {
			covered = 0
			if farLat := geo.DegToRad(math.Abs(lat)) + h; farLat < math.Pi/2 {
				byLon := 2 * geo.EarthRadiusMeters * math.Asin(math.Sqrt(math.Cos(geo.DegToRad(lat))*math.Cos(farLat))*math.Sin(h/2))
				covered = math.Min(geo.EarthRadiusMeters*h, byLon)
			}
		}
		if found && bestDist <= covered {
			return best, bestDist, true
		}
		halfWidth *= 4
	}

	return best, bestDist, found
}
