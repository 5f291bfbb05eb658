// Package style parses a JSON stylesheet document into an ordered list of
// layer styles with zoom-indexed property resolvers, per the Mapbox Style
// Specification restricted to the layer types and expression operators this
// module understands.
package style

import (
	"math"

	"github.com/bachmap/bach/value"
)

// LayerType identifies the visual treatment a LayerStyle applies.
type LayerType int

const (
	Background LayerType = iota
	Fill
	Line
	Symbol
	Raster
)

func (t LayerType) String() string {
	switch t {
	case Background:
		return "background"
	case Fill:
		return "fill"
	case Line:
		return "line"
	case Symbol:
		return "symbol"
	case Raster:
		return "raster"
	default:
		return "unknown"
	}
}

// LayerStyle is one rule in the stylesheet: a visibility window, a source
// layer to read features from, and a set of typed paint/layout properties.
type LayerStyle struct {
	ID          string
	Type        LayerType
	SourceLayer string
	MinZoom     int
	MaxZoom     int
	Paint       map[string]*Property
	Layout      map[string]*Property
	Filter      any // raw expression tree, nil when the layer carries no filter
}

// VisibleAt reports whether the layer is active at integer map zoom z.
func (l *LayerStyle) VisibleAt(z int) bool {
	return z >= l.MinZoom && z <= l.MaxZoom
}

// Paint property lookups. A nil return means the stylesheet did not set
// this property; callers fall back to their own default.
func (l *LayerStyle) PaintProperty(name string) *Property  { return l.Paint[name] }
func (l *LayerStyle) LayoutProperty(name string) *Property { return l.Layout[name] }

// propKind distinguishes the three shapes a stylesheet property can take.
type propKind int

const (
	propConstant propKind = iota
	propStops
	propExpression
)

type zoomStop struct {
	zoom float64
	val  value.Value
}

// Property is a single paint/layout value: a constant, a zoom-stop
// function (linear for numeric stops, step for anything else), or a raw
// expression tree left for the evaluator to resolve against a feature.
type Property struct {
	kind     propKind
	constant value.Value
	stops    []zoomStop
	base     float64
	expr     any
}

// IsExpression reports whether this property must be resolved by the
// expression evaluator against a feature, rather than by GetAtZoom alone.
func (p *Property) IsExpression() bool { return p.kind == propExpression }

// Expression returns the raw expression tree. Valid only when
// IsExpression reports true.
func (p *Property) Expression() any { return p.expr }

// GetAtZoom resolves a constant or zoom-stop property at integer map
// zoom z. Calling it on an expression-valued property returns null; use
// Expression and the evaluator instead.
func (p *Property) GetAtZoom(z float64) value.Value {
	switch p.kind {
	case propConstant:
		return p.constant
	case propStops:
		return p.stopsAtZoom(z)
	default:
		return value.NullValue()
	}
}

func (p *Property) stopsAtZoom(z float64) value.Value {
	if len(p.stops) == 0 {
		return value.NullValue()
	}
	if z <= p.stops[0].zoom {
		return p.stops[0].val
	}
	last := p.stops[len(p.stops)-1]
	if z >= last.zoom {
		return last.val
	}
	for i := 0; i+1 < len(p.stops); i++ {
		lo, hi := p.stops[i], p.stops[i+1]
		if z < hi.zoom {
			loNum, loOK := lo.val.Number()
			hiNum, hiOK := hi.val.Number()
			if !loOK || !hiOK {
				return lo.val // step: hold the lower stop's value until the next one
			}
			t := fraction(p.base, lo.zoom, hi.zoom, z)
			return value.OfNumber(loNum + (hiNum-loNum)*t)
		}
	}
	return last.val
}

func fraction(base, lo, hi, z float64) float64 {
	if hi == lo {
		return 0
	}
	if base == 1 {
		return (z - lo) / (hi - lo)
	}
	return (math.Pow(base, z-lo) - 1) / (math.Pow(base, hi-lo) - 1)
}
