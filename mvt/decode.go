package mvt

import (
	"fmt"
	"math"

	"github.com/bachmap/bach/tileerr"
	"github.com/bachmap/bach/value"
)

func float32FromBits(b uint32) float32 { return math.Float32frombits(b) }

func float64FromBits(b uint64) float64 { return math.Float64frombits(b) }

const (
	cmdMoveTo    = 1
	cmdLineTo    = 2
	cmdClosePath = 7
)

const (
	geomUnknown    = 0
	geomPoint      = 1
	geomLineString = 2
	geomPolygon    = 3
)

// Decode parses MVT v2 wire bytes into a Tile. Any malformed input —
// unexpected tags, truncated varints, out-of-range lengths — fails the
// whole tile with tileerr.ErrParsingFailed; partial tiles are never
// returned.
func Decode(data []byte) (*Tile, error) {
	t := &Tile{layers: make(map[string]*Layer)}

	r := newReader(data)
	for !r.done() {
		field, wt, err := r.tag()
		if err != nil {
			return nil, err
		}
		if field == 3 && wt == wireLengthDelimited {
			buf, err := r.bytesField()
			if err != nil {
				return nil, err
			}
			layer, err := decodeLayer(buf)
			if err != nil {
				return nil, err
			}
			if _, exists := t.layers[layer.Name]; exists {
				return nil, fmt.Errorf("%w: duplicate layer name %q", tileerr.ErrParsingFailed, layer.Name)
			}
			t.layers[layer.Name] = layer
			t.layerOrder = append(t.layerOrder, layer.Name)
			continue
		}
		if err := r.skip(wt); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func decodeLayer(buf []byte) (*Layer, error) {
	layer := &Layer{Extent: 4096}
	var keys []string
	var values []value.Value
	type rawFeature struct {
		tags []uint64
		typ  int64
		geom []uint64
	}
	var rawFeatures []rawFeature

	r := newReader(buf)
	for !r.done() {
		field, wt, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch {
		case field == 1 && wt == wireLengthDelimited: // name
			name, err := r.stringField()
			if err != nil {
				return nil, err
			}
			layer.Name = name
		case field == 3 && wt == wireLengthDelimited: // keys
			key, err := r.stringField()
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		case field == 4 && wt == wireLengthDelimited: // values
			vbuf, err := r.bytesField()
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(vbuf)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		case field == 5 && wt == wireVarint: // extent
			n, err := r.varint()
			if err != nil {
				return nil, err
			}
			layer.Extent = int64(n)
		case field == 2 && wt == wireLengthDelimited: // features
			fbuf, err := r.bytesField()
			if err != nil {
				return nil, err
			}
			tags, typ, geom, err := decodeRawFeature(fbuf)
			if err != nil {
				return nil, err
			}
			rawFeatures = append(rawFeatures, rawFeature{tags: tags, typ: typ, geom: geom})
		default:
			if err := r.skip(wt); err != nil {
				return nil, err
			}
		}
	}

	if layer.Name == "" {
		return nil, fmt.Errorf("%w: layer missing required name", tileerr.ErrParsingFailed)
	}

	layer.Features = make([]Feature, 0, len(rawFeatures))
	for _, rf := range rawFeatures {
		feat, err := buildFeature(rf.tags, rf.typ, rf.geom, keys, values)
		if err != nil {
			return nil, err
		}
		layer.Features = append(layer.Features, feat)
	}
	return layer, nil
}

func decodeRawFeature(buf []byte) (tags []uint64, typ int64, geom []uint64, err error) {
	typ = geomUnknown
	r := newReader(buf)
	for !r.done() {
		field, wt, err := r.tag()
		if err != nil {
			return nil, 0, nil, err
		}
		switch {
		case field == 2 && wt == wireLengthDelimited: // tags (packed)
			tbuf, err := r.bytesField()
			if err != nil {
				return nil, 0, nil, err
			}
			vals, err := packedVarints(tbuf)
			if err != nil {
				return nil, 0, nil, err
			}
			tags = vals
		case field == 3 && wt == wireVarint: // type
			n, err := r.varint()
			if err != nil {
				return nil, 0, nil, err
			}
			typ = int64(n)
		case field == 4 && wt == wireLengthDelimited: // geometry (packed)
			gbuf, err := r.bytesField()
			if err != nil {
				return nil, 0, nil, err
			}
			vals, err := packedVarints(gbuf)
			if err != nil {
				return nil, 0, nil, err
			}
			geom = vals
		default:
			if err := r.skip(wt); err != nil {
				return nil, 0, nil, err
			}
		}
	}
	return tags, typ, geom, nil
}

func decodeValue(buf []byte) (value.Value, error) {
	r := newReader(buf)
	for !r.done() {
		field, wt, err := r.tag()
		if err != nil {
			return value.Value{}, err
		}
		switch {
		case field == 1 && wt == wireLengthDelimited: // string_value
			s, err := r.stringField()
			if err != nil {
				return value.Value{}, err
			}
			return value.OfString(s), nil
		case field == 2 && wt == wireFixed32: // float_value
			n, err := r.fixed32()
			if err != nil {
				return value.Value{}, err
			}
			return value.OfNumber(float64(float32FromBits(n))), nil
		case field == 3 && wt == wireFixed64: // double_value
			n, err := r.fixed64()
			if err != nil {
				return value.Value{}, err
			}
			return value.OfNumber(float64FromBits(n)), nil
		case field == 4 && wt == wireVarint: // int_value
			n, err := r.varint()
			if err != nil {
				return value.Value{}, err
			}
			return value.OfNumber(float64(int64(n))), nil
		case field == 5 && wt == wireVarint: // uint_value
			n, err := r.varint()
			if err != nil {
				return value.Value{}, err
			}
			return value.OfNumber(float64(n)), nil
		case field == 6 && wt == wireVarint: // sint_value
			n, err := r.varint()
			if err != nil {
				return value.Value{}, err
			}
			return value.OfNumber(float64(zigzag(n))), nil
		case field == 7 && wt == wireVarint: // bool_value
			n, err := r.varint()
			if err != nil {
				return value.Value{}, err
			}
			return value.Of(n != 0), nil
		default:
			if err := r.skip(wt); err != nil {
				return value.Value{}, err
			}
		}
	}
	return value.NullValue(), nil
}

func buildFeature(tags []uint64, typ int64, geom []uint64, keys []string, values []value.Value) (Feature, error) {
	meta := make(map[string]value.Value, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		ki, vi := tags[i], tags[i+1]
		if ki >= uint64(len(keys)) || vi >= uint64(len(values)) {
			return Feature{}, fmt.Errorf("%w: tag index out of range", tileerr.ErrParsingFailed)
		}
		meta[keys[ki]] = values[vi]
	}

	f := Feature{meta: meta}
	switch typ {
	case geomPolygon:
		f.Type = Polygon
		rings, err := decodeRings(geom)
		if err != nil {
			return Feature{}, err
		}
		f.Rings = rings
	case geomLineString:
		f.Type = Line
		lines, err := decodeLines(geom)
		if err != nil {
			return Feature{}, err
		}
		f.Lines = lines
	case geomPoint:
		f.Type = PointFeature
		points, err := decodePoints(geom)
		if err != nil {
			return Feature{}, err
		}
		f.Points = points
	default:
		f.Type = Unknown
	}
	return f, nil
}

// decodeRings walks MoveTo/LineTo/ClosePath commands for a polygon
// feature. Per the MVT spec, exterior and interior rings are not tagged
// as such on the wire; this decoder preserves wire order (exterior first,
// then holes) and leaves winding-rule interpretation to the painter's
// non-zero fill rule.
func decodeRings(geom []uint64) ([][]Point, error) {
	var rings [][]Point
	var cur []Point
	var x, y int64
	i := 0
	for i < len(geom) {
		cmdInt := geom[i]
		i++
		cmdID := cmdInt & 0x7
		count := cmdInt >> 3
		switch cmdID {
		case cmdMoveTo:
			if cur != nil {
				rings = append(rings, cur)
			}
			cur = nil
			for n := uint64(0); n < count; n++ {
				dx, dy, err := readDelta(geom, &i)
				if err != nil {
					return nil, err
				}
				x += dx
				y += dy
				cur = append(cur, Point{X: float64(x), Y: float64(y)})
			}
		case cmdLineTo:
			for n := uint64(0); n < count; n++ {
				dx, dy, err := readDelta(geom, &i)
				if err != nil {
					return nil, err
				}
				x += dx
				y += dy
				cur = append(cur, Point{X: float64(x), Y: float64(y)})
			}
		case cmdClosePath:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
			}
		default:
			return nil, fmt.Errorf("%w: unknown geometry command %d", tileerr.ErrParsingFailed, cmdID)
		}
	}
	if cur != nil {
		rings = append(rings, cur)
	}
	return rings, nil
}

func decodeLines(geom []uint64) ([][]Point, error) {
	var lines [][]Point
	var cur []Point
	var x, y int64
	i := 0
	for i < len(geom) {
		cmdInt := geom[i]
		i++
		cmdID := cmdInt & 0x7
		count := cmdInt >> 3
		switch cmdID {
		case cmdMoveTo:
			if cur != nil {
				lines = append(lines, cur)
			}
			cur = nil
			for n := uint64(0); n < count; n++ {
				dx, dy, err := readDelta(geom, &i)
				if err != nil {
					return nil, err
				}
				x += dx
				y += dy
				cur = append(cur, Point{X: float64(x), Y: float64(y)})
			}
		case cmdLineTo:
			for n := uint64(0); n < count; n++ {
				dx, dy, err := readDelta(geom, &i)
				if err != nil {
					return nil, err
				}
				x += dx
				y += dy
				cur = append(cur, Point{X: float64(x), Y: float64(y)})
			}
		default:
			return nil, fmt.Errorf("%w: unexpected command %d in line geometry", tileerr.ErrParsingFailed, cmdID)
		}
	}
	if cur != nil {
		lines = append(lines, cur)
	}
	return lines, nil
}

func decodePoints(geom []uint64) ([]Point, error) {
	var points []Point
	var x, y int64
	i := 0
	for i < len(geom) {
		cmdInt := geom[i]
		i++
		cmdID := cmdInt & 0x7
		count := cmdInt >> 3
		if cmdID != cmdMoveTo {
			return nil, fmt.Errorf("%w: unexpected command %d in point geometry", tileerr.ErrParsingFailed, cmdID)
		}
		for n := uint64(0); n < count; n++ {
			dx, dy, err := readDelta(geom, &i)
			if err != nil {
				return nil, err
			}
			x += dx
			y += dy
			points = append(points, Point{X: float64(x), Y: float64(y)})
		}
	}
	return points, nil
}

func readDelta(geom []uint64, i *int) (dx, dy int64, err error) {
	if *i+1 > len(geom)-1 {
		return 0, 0, fmt.Errorf("%w: truncated geometry parameter pair", tileerr.ErrParsingFailed)
	}
	dx = zigzag(geom[*i])
	dy = zigzag(geom[*i+1])
	*i += 2
	return dx, dy, nil
}
