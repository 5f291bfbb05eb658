// Package mvt decodes Mapbox Vector Tile v2 wire bytes into typed layers
// and features. Geometry commands, tag constants, and value-type tags
// in this package follow the real MVT protocol field numbers (not reinvented),
// cross-checked against the geometry command/type enumeration used by
// the tile-encoding reference in the example pack.
package mvt

import "github.com/bachmap/bach/value"

// FeatureType is the closed set of geometry variants a decoded feature
// can be. Unknown is kept rather than surfaced as an error so that a
// single unrecognized feature does not fail the whole tile — only
// malformed bytes do (see Decode).
type FeatureType int

const (
	Unknown FeatureType = iota
	Polygon
	Line
	PointFeature
)

// Point is a tile-local coordinate in [0, Extent].
type Point struct {
	X, Y float64
}

// Feature is one decoded feature. Exactly one of Rings, Lines, or Points
// is populated, depending on Type.
type Feature struct {
	Type FeatureType

	// Rings holds a polygon's exterior ring first, then holes, each
	// already closed (the decoder appends the implicit closing point).
	Rings [][]Point

	// Lines holds one or more poly-lines (MoveTo starts a new one).
	Lines [][]Point

	// Points holds one or more point coordinates. Symbol placement
	// policy for features with more than one point is the renderer's
	// concern (see render.pointFeatureCoordIndex), not the decoder's.
	Points []Point

	meta map[string]value.Value
}

// Get returns the feature's metadata value for key, or the null Value if
// absent. Feature implements the minimal interface the expression
// evaluator needs without importing this package.
func (f *Feature) Get(key string) value.Value {
	if f.meta == nil {
		return value.NullValue()
	}
	return f.meta[key]
}

// Has reports whether the feature's metadata contains key.
func (f *Feature) Has(key string) bool {
	if f.meta == nil {
		return false
	}
	_, ok := f.meta[key]
	return ok
}

// Layer is an ordered sequence of features decoded from one named
// source-layer.
type Layer struct {
	Name     string
	Extent   int64
	Features []Feature
}

// Tile is a fully decoded vector tile: a mapping from source-layer name
// to Layer, preserving the order layers appeared in the wire bytes.
type Tile struct {
	layerOrder []string
	layers     map[string]*Layer
}

// Layer looks up a source-layer by name.
func (t *Tile) Layer(name string) (*Layer, bool) {
	l, ok := t.layers[name]
	return l, ok
}

// Layers returns the decoded layers in wire order.
func (t *Tile) Layers() []*Layer {
	out := make([]*Layer, 0, len(t.layerOrder))
	for _, name := range t.layerOrder {
		out = append(out, t.layers[name])
	}
	return out
}
