// Package elevation looks up a digital-elevation-model value at a given
// lat/lon using an affine geotransform, exactly as a GIS raster library
// would report it. Decoding the raster bytes themselves is delegated to a
// RasterSource — actual GeoTIFF/DEM ingestion is an external collaborator
// (see SPEC_FULL.md §4.1); this package owns only the coordinate lookup.
package elevation

import (
	"log"
	"math"
)

// GeoTransform is the 6-value affine transform GDAL-family tools use to map
// pixel (x, y) to geographic (lon, lat):
//
//	lon = OriginX + x*PixelW
//	lat = OriginY + y*PixelH  (PixelH is negative — rows increase southward)
type GeoTransform struct {
	OriginX     float64
	PixelW      float64
	RowRotation float64 // unused for north-up rasters
	OriginY     float64
	ColRotation float64 // unused for north-up rasters
	PixelH      float64
}

// RasterSource is the out-of-scope collaborator: anything that can report
// its geotransform, its pixel extent, and read a single-band float32 value
// at a pixel coordinate.
type RasterSource interface {
	GeoTransform() GeoTransform
	Extent() (width, height int)
	ReadPixel(x, y int) (float32, error)
}

// Sampler looks up elevation at a lat/lon against a RasterSource.
type Sampler struct {
	src RasterSource
	gt  GeoTransform
	w, h int
}

// NewSampler wraps a RasterSource for repeated lat/lon lookups.
func NewSampler(src RasterSource) *Sampler {
	w, h := src.Extent()
	return &Sampler{
		src: src,
		gt:  src.GeoTransform(),
		w:   w,
		h:   h,
	}
}

// noData is returned for queries outside the raster's extent.
var noData = math.Inf(-1)

// Sample returns the elevation in meters at (lat, lon). Out-of-extent
// queries return -Inf ("no data"); a raster read failure is logged and
// returns 0, matching the original collaborator's behaviour.
func (s *Sampler) Sample(lat, lon float64) float64 {
	x := int((lon - s.gt.OriginX) / s.gt.PixelW)
	y := int((lat - s.gt.OriginY) / s.gt.PixelH)

	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return noData
	}

	v, err := s.src.ReadPixel(x, y)
	if err != nil {
		log.Printf("elevation: read pixel (%d,%d): %v", x, y, err)
		return 0
	}
	return float64(v)
}

// IsNoData reports whether an elevation value is the "no data" sentinel.
func IsNoData(elevation float64) bool {
	return math.IsInf(elevation, -1)
}
