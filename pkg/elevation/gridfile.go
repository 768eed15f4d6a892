package elevation

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// gridMagic identifies the flat little-endian float32 grid format used by
// GridFile. This is the simplest concrete RasterSource the module ships;
// production DEM ingestion (an actual GeoTIFF) is the external collaborator
// spec.md §1 calls out.
const gridMagic = "PPDEM001"

// gridHeader is the on-disk header: magic, geotransform, pixel extent.
type gridHeader struct {
	Magic  [8]byte
	GT     GeoTransform
	Width  uint32
	Height uint32
}

// GridFile is a RasterSource backed by a flat little-endian float32 grid
// with a small header, read via os.File.ReadAt (no full in-memory decode).
type GridFile struct {
	f      *os.File
	gt     GeoTransform
	w, h   int
	offset int64
}

// OpenGridFile opens a grid file and validates its header.
func OpenGridFile(path string) (*GridFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var hdr gridHeader
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != gridMagic {
		f.Close()
		return nil, fmt.Errorf("%s: not a grid elevation file (bad magic)", path)
	}

	return &GridFile{
		f:      f,
		gt:     hdr.GT,
		w:      int(hdr.Width),
		h:      int(hdr.Height),
		offset: int64(binary.Size(hdr)),
	}, nil
}

// Close releases the underlying file.
func (g *GridFile) Close() error {
	return g.f.Close()
}

// GeoTransform implements RasterSource.
func (g *GridFile) GeoTransform() GeoTransform {
	return g.gt
}

// Extent implements RasterSource.
func (g *GridFile) Extent() (width, height int) {
	return g.w, g.h
}

// ReadPixel implements RasterSource, reading a single float32 at (x, y).
func (g *GridFile) ReadPixel(x, y int) (float32, error) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return 0, fmt.Errorf("pixel (%d,%d) out of bounds (%dx%d)", x, y, g.w, g.h)
	}
	pos := g.offset + (int64(y)*int64(g.w)+int64(x))*4
	var buf [4]byte
	if _, err := g.f.ReadAt(buf[:], pos); err != nil && err != io.EOF {
		return 0, fmt.Errorf("read at %d: %w", pos, err)
	}
	bits := binary.LittleEndian.Uint32(buf[:])
	return math.Float32frombits(bits), nil
}

// WriteGridFile writes a grid of float32 values (row-major, width*height
// long) to path with the given geotransform. Used by tests and by tools
// that pre-bake a DEM extract into the grid format.
func WriteGridFile(path string, gt GeoTransform, width, height int, values []float32) error {
	if len(values) != width*height {
		return fmt.Errorf("values length %d != width*height %d", len(values), width*height)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	hdr := gridHeader{GT: gt, Width: uint32(width), Height: uint32(height)}
	copy(hdr.Magic[:], gridMagic)
	if err := binary.Write(f, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, values); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	return nil
}
