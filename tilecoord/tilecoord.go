// Package tilecoord defines tile identity, URL templating, and disk-path
// mapping for the map tile pyramid.
package tilecoord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bachmap/bach/tileerr"
)

// MaxZoom is the highest tile zoom level this module will request, cache,
// or render.
const MaxZoom = 16

// TileType distinguishes the two tile payload kinds the loader handles.
type TileType int

const (
	Vector TileType = iota
	Raster
)

func (t TileType) String() string {
	switch t {
	case Vector:
		return "vector"
	case Raster:
		return "raster"
	default:
		return "unknown"
	}
}

// Ext returns the on-disk file extension for this tile type.
func (t TileType) Ext() string {
	switch t {
	case Vector:
		return "mvt"
	case Raster:
		return "png"
	default:
		return "bin"
	}
}

// Coord is an immutable tile identity (z, x, y). Zero value is tile
// (0, 0, 0), the single tile covering the whole world at zoom 0.
//
// Coord is totally ordered lexicographically by (Z, X, Y), which is the
// order Less implements.
type Coord struct {
	Z, X, Y int
}

// New constructs a Coord, returning tileerr.ErrInvalidCoord if it falls
// outside [0, MaxZoom] or the valid x/y range for its zoom.
func New(z, x, y int) (Coord, error) {
	c := Coord{Z: z, X: x, Y: y}
	if !c.Valid() {
		return Coord{}, fmt.Errorf("%w: z=%d x=%d y=%d", tileerr.ErrInvalidCoord, z, x, y)
	}
	return c, nil
}

// Valid reports whether c lies within the tile pyramid: 0 <= Z <= MaxZoom
// and 0 <= X, Y < 2^Z.
func (c Coord) Valid() bool {
	if c.Z < 0 || c.Z > MaxZoom {
		return false
	}
	n := 1 << c.Z
	return c.X >= 0 && c.X < n && c.Y >= 0 && c.Y < n
}

// Less implements the lexicographic (Z, X, Y) ordering mandated for
// TileCoord.
func (c Coord) Less(other Coord) bool {
	if c.Z != other.Z {
		return c.Z < other.Z
	}
	if c.X != other.X {
		return c.X < other.X
	}
	return c.Y < other.Y
}

// String returns the stable form "z<z>x<x>y<y>", used both as a
// human-readable identity and as the basis of the on-disk cache path.
func (c Coord) String() string {
	return "z" + strconv.Itoa(c.Z) + "x" + strconv.Itoa(c.X) + "y" + strconv.Itoa(c.Y)
}

// Key returns a stable key combining the coordinate and tile type, used as
// the map key for the loader's memory cache and as the singleflight key
// for in-flight load coalescing.
func (c Coord) Key(t TileType) string {
	return c.String() + "." + t.Ext()
}

// PbfURL substitutes the {z}, {x}, {y} tokens in template with c's
// components. Any other content in template (including query strings) is
// passed through unchanged.
func PbfURL(template string, c Coord) (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("%w: %v", tileerr.ErrInvalidCoord, c)
	}
	s := strings.ReplaceAll(template, "{z}", strconv.Itoa(c.Z))
	s = strings.ReplaceAll(s, "{x}", strconv.Itoa(c.X))
	s = strings.ReplaceAll(s, "{y}", strconv.Itoa(c.Y))
	return s, nil
}

// DiskSubPath returns the storage path fragment "z<z>x<x>y<y>.mvt" or
// ".png" beneath a cache root, per the fixed disk layout.
func DiskSubPath(c Coord, t TileType) (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("%w: %v", tileerr.ErrInvalidCoord, c)
	}
	return c.String() + "." + t.Ext(), nil
}
