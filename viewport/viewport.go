// Package viewport maps a viewport (center, zoom, aspect) to the set of
// map tiles intersecting it, and derives the discrete tile-pyramid zoom
// level from a viewport's pixel size.
package viewport

import (
	"math"

	"github.com/bachmap/bach/tilecoord"
)

// HalfExtent returns the viewport's half-width and half-height in
// normalized world units (the whole world map is the unit square), for a
// viewport at zoom zv with pixel aspect ratio a = width/height.
func HalfExtent(zv, aspect float64) (halfW, halfH float64) {
	scale := 1 / math.Pow(2, zv)
	return scale * math.Min(1, 1/aspect) / 2, scale * math.Max(1, aspect) / 2
}

// VisibleTiles returns every tilecoord.Coord at zoom zm whose unit square
// intersects the viewport centered at (vpX, vpY) with aspect ratio a and
// viewport zoom zv. zm is clamped to zero if negative.
//
// The returned slice is ordered row-major (y outer, x inner) to match the
// original renderer's iteration order; callers that need the
// lexicographic tilecoord.Coord.Less order should sort explicitly.
func VisibleTiles(vpX, vpY, aspect, zv float64, zm int) []tilecoord.Coord {
	if zm < 0 {
		zm = 0
	}

	halfW, halfH := HalfExtent(zv, aspect)

	minX, maxX := vpX-halfW, vpX+halfW
	minY, maxY := vpY-halfH, vpY+halfH

	n := 1 << zm
	clampToGrid := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > n-1 {
			return n - 1
		}
		return v
	}

	// Tile i spans [i, i+1) in grid units, so the last tile reached by an
	// edge at grid position e is ceil(e)-1.
	left := clampToGrid(int(math.Floor(minX * float64(n))))
	right := clampToGrid(int(math.Ceil(maxX*float64(n))) - 1)
	top := clampToGrid(int(math.Floor(minY * float64(n))))
	bottom := clampToGrid(int(math.Ceil(maxY*float64(n))) - 1)

	var out []tilecoord.Coord
	for y := top; y <= bottom; y++ {
		for x := left; x <= right; x++ {
			out = append(out, tilecoord.Coord{Z: zm, X: x, Y: y})
		}
	}
	return out
}

// MapZoomForTileSize derives the integer tile-pyramid zoom level at which
// tiles should be fetched and rendered, given the viewport's pixel
// dimensions, its continuous zoom level, and the desired on-screen tile
// size in pixels.
func MapZoomForTileSize(vpWidthPixels, vpHeightPixels int, vpZoom float64, desiredTileSizePixels int) int {
	currentTileSize := vpWidthPixels
	if vpHeightPixels > currentTileSize {
		currentTileSize = vpHeightPixels
	}

	desiredScale := float64(desiredTileSizePixels) / float64(currentTileSize)
	mapZoom := vpZoom - math.Log2(desiredScale)

	z := int(math.Round(mapZoom))
	if z < 0 {
		return 0
	}
	if z > tilecoord.MaxZoom {
		return tilecoord.MaxZoom
	}
	return z
}
