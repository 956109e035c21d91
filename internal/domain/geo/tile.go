package geo

import (
	"fmt"
	"math"
)

// Zoom bounds accepted at the API boundary. Tiles outside this range are
// rejected before any spatial lookup runs.
const (
	MinZoom = 1
	MaxZoom = 18
)

// Tile identifies a tile in the standard slippy-map (XYZ) tiling scheme.
type Tile struct {
	X int
	Y int
	Z int
}

// BoundingBox is a geographic rectangle. South < North, West < East.
type BoundingBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// Contains reports whether the coordinate lies within the box (inclusive).
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.South && c.Lat <= b.North && c.Lon >= b.West && c.Lon <= b.East
}

// Validate checks zoom range and tile indices for the given zoom.
func (t Tile) Validate() error {
	if t.Z < MinZoom || t.Z > MaxZoom {
		return fmt.Errorf("zoom %d out of range [%d, %d]", t.Z, MinZoom, MaxZoom)
	}
	n := 1 << uint(t.Z)
	if t.X < 0 || t.X >= n || t.Y < 0 || t.Y >= n {
		return fmt.Errorf("tile (%d, %d) out of range for zoom %d", t.X, t.Y, t.Z)
	}
	return nil
}

// Bounds converts the tile to its geographic bounding box using the
// standard web-map projection math.
func (t Tile) Bounds() BoundingBox {
	n := float64(int(1) << uint(t.Z))
	west := float64(t.X)/n*360 - 180
	east := float64(t.X+1)/n*360 - 180
	north := tileLat(float64(t.Y), n)
	south := tileLat(float64(t.Y+1), n)
	return BoundingBox{South: south, West: west, North: north, East: east}
}

// tileLat converts a fractional tile row to latitude.
func tileLat(y, n float64) float64 {
	rad := math.Atan(math.Sinh(math.Pi * (1 - 2*y/n)))
	return rad * 180 / math.Pi
}
