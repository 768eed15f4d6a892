package tourplanner

import (
	"github.com/thepurplepot/prettypath/pkg/config"
	"github.com/thepurplepot/prettypath/pkg/mapload"
)

// FilterPOIs keeps POIs whose elevation and (if present) area lie within
// the configured ranges, whose coordinates fall within the map's bounding
// box, and whose name is not blacklisted.
func FilterPOIs(pois []*mapload.POI, tarn config.TarnConstraints, mapc config.MapConstraints) []*mapload.POI {
	var out []*mapload.POI
	for _, p := range pois {
		if p.Elevation < tarn.MinElevation || p.Elevation > tarn.MaxElevation {
			continue
		}
		if p.HasArea && (p.Area < tarn.MinArea || p.Area > tarn.MaxArea) {
			continue
		}
		if p.Lat < mapc.MinLatitude || p.Lat > mapc.MaxLatitude {
			continue
		}
		if p.Lon < mapc.MinLongitude || p.Lon > mapc.MaxLongitude {
			continue
		}
		if blacklisted(p.Name, tarn.Blacklist) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func blacklisted(name string, list []string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

// InjectStart prepends a synthetic "Start" POI at the configured start
// location, unless the location is unset (either coordinate is zero). The
// tour is a cycle returning to index 0, so the injected POI becomes the
// tour's anchor.
func InjectStart(pois []*mapload.POI, start *config.StartLocation) []*mapload.POI {
	if start == nil || start.Latitude == 0 || start.Longitude == 0 {
		return pois
	}
	out := make([]*mapload.POI, 0, len(pois)+1)
	out = append(out, &mapload.POI{Name: "Start", Lat: start.Latitude, Lon: start.Longitude})
	out = append(out, pois...)
	return out
}
