package style

import (
	"encoding/json"
	"fmt"

	"github.com/bachmap/bach/expr"
	"github.com/bachmap/bach/tileerr"
	"github.com/bachmap/bach/value"
)

// StyleSheet is an ordered sequence of layer styles, evaluated
// back-to-front: array order is paint order.
type StyleSheet struct {
	Layers []*LayerStyle
}

type rawDocument struct {
	Layers []rawLayer `json:"layers"`
}

type rawLayer struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	SourceLayer string         `json:"source-layer"`
	MinZoom     *float64       `json:"minzoom"`
	MaxZoom     *float64       `json:"maxzoom"`
	Paint       map[string]any `json:"paint"`
	Layout      map[string]any `json:"layout"`
	Filter      any            `json:"filter"`
}

var layerTypes = map[string]LayerType{
	"background": Background,
	"fill":        Fill,
	"line":        Line,
	"symbol":      Symbol,
	"raster":      Raster,
}

// Parse decodes a JSON stylesheet document into an ordered StyleSheet.
// Any unknown operator, unknown layer type, or missing required field
// fails the whole parse with tileerr.ErrBadStylesheet; partial
// stylesheets are never returned.
func Parse(data []byte) (*StyleSheet, error) {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", tileerr.ErrBadStylesheet, err)
	}

	sheet := &StyleSheet{Layers: make([]*LayerStyle, 0, len(doc.Layers))}
	for i, rl := range doc.Layers {
		ls, err := buildLayer(rl)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d: %v", tileerr.ErrBadStylesheet, i, err)
		}
		sheet.Layers = append(sheet.Layers, ls)
	}
	return sheet, nil
}

func buildLayer(rl rawLayer) (*LayerStyle, error) {
	if rl.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	typ, ok := layerTypes[rl.Type]
	if !ok {
		return nil, fmt.Errorf("unknown layer type %q", rl.Type)
	}
	if typ != Background && rl.SourceLayer == "" {
		return nil, fmt.Errorf("layer %q: missing source-layer", rl.ID)
	}

	ls := &LayerStyle{
		ID:          rl.ID,
		Type:        typ,
		SourceLayer: rl.SourceLayer,
		MinZoom:     0,
		MaxZoom:     maxZoomDefault,
	}
	if rl.MinZoom != nil {
		ls.MinZoom = int(*rl.MinZoom)
	}
	if rl.MaxZoom != nil {
		ls.MaxZoom = int(*rl.MaxZoom)
	}

	var err error
	if ls.Paint, err = buildProperties(rl.Paint); err != nil {
		return nil, fmt.Errorf("layer %q: paint: %w", rl.ID, err)
	}
	if ls.Layout, err = buildProperties(rl.Layout); err != nil {
		return nil, fmt.Errorf("layer %q: layout: %w", rl.ID, err)
	}
	if rl.Filter != nil {
		if err := validateExpression(rl.Filter); err != nil {
			return nil, fmt.Errorf("layer %q: filter: %w", rl.ID, err)
		}
		ls.Filter = rl.Filter
	}
	return ls, nil
}

// maxZoomDefault is the maxzoom given to a layer that does not set one.
// It has the same value as tilecoord.MaxZoom but is declared separately.
const maxZoomDefault = 16

func buildProperties(raw map[string]any) (map[string]*Property, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]*Property, len(raw))
	for name, node := range raw {
		prop, err := buildProperty(node)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = prop
	}
	return out, nil
}

func buildProperty(node any) (*Property, error) {
	if expr.IsExpression(node) {
		if err := validateExpression(node); err != nil {
			return nil, err
		}
		return &Property{kind: propExpression, expr: node}, nil
	}

	if obj, ok := node.(map[string]any); ok {
		return buildStopsProperty(obj)
	}

	return &Property{kind: propConstant, constant: literalValue(node)}, nil
}

func buildStopsProperty(obj map[string]any) (*Property, error) {
	rawStops, ok := obj["stops"].([]any)
	if !ok {
		return nil, fmt.Errorf("zoom-stop function missing \"stops\"")
	}
	base := 1.0
	if b, ok := obj["base"].(float64); ok {
		base = b
	}

	stops := make([]zoomStop, 0, len(rawStops))
	for _, raw := range rawStops {
		pair, ok := raw.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("malformed stop entry")
		}
		zoom, ok := pair[0].(float64)
		if !ok {
			return nil, fmt.Errorf("stop zoom must be numeric")
		}
		stops = append(stops, zoomStop{zoom: zoom, val: literalValue(pair[1])})
	}
	return &Property{kind: propStops, stops: stops, base: base}, nil
}

// literalValue converts a decoded JSON scalar into the shared value
// variant. Arrays are left as Array values without further expression
// evaluation, since a literal stylesheet property's array is data.
func literalValue(node any) value.Value {
	switch v := node.(type) {
	case nil:
		return value.NullValue()
	case bool:
		return value.Of(v)
	case float64:
		return value.OfNumber(v)
	case string:
		if c, ok := value.ParseColor(v); ok {
			return value.OfColor(c)
		}
		return value.OfString(v)
	case []any:
		out := make([]value.Value, 0, len(v))
		for _, el := range v {
			out = append(out, literalValue(el))
		}
		return value.OfArray(out)
	default:
		return value.NullValue()
	}
}
