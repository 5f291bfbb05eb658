package mvt

// This file provides a minimal reference encoder used only by tests, to
// exercise the round-trip invariant (encode(decode(P)) == P on the subset
// of features this decoder emits) without depending on an external tile
// fixture generator.

import (
	"encoding/binary"
	"math"

	"github.com/bachmap/bach/value"
)

type featureSpec struct {
	typ  int64
	tags []uint64
	geom []uint64
}

type layerSpec struct {
	name     string
	extent   uint64
	keys     []string
	values   []value.Value
	features []featureSpec
}

func encodeTile(layers []layerSpec) []byte {
	var out []byte
	for _, l := range layers {
		buf := encodeLayer(l)
		out = appendTag(out, 3, wireLengthDelimited)
		out = appendVarint(out, uint64(len(buf)))
		out = append(out, buf...)
	}
	return out
}

func encodeLayer(l layerSpec) []byte {
	var buf []byte
	buf = appendTag(buf, 1, wireLengthDelimited)
	buf = appendVarint(buf, uint64(len(l.name)))
	buf = append(buf, l.name...)

	for _, f := range l.features {
		fb := encodeFeature(f)
		buf = appendTag(buf, 2, wireLengthDelimited)
		buf = appendVarint(buf, uint64(len(fb)))
		buf = append(buf, fb...)
	}
	for _, k := range l.keys {
		buf = appendTag(buf, 3, wireLengthDelimited)
		buf = appendVarint(buf, uint64(len(k)))
		buf = append(buf, k...)
	}
	for _, v := range l.values {
		vb := encodeValue(v)
		buf = appendTag(buf, 4, wireLengthDelimited)
		buf = appendVarint(buf, uint64(len(vb)))
		buf = append(buf, vb...)
	}
	buf = appendTag(buf, 5, wireVarint)
	buf = appendVarint(buf, l.extent)
	return buf
}

func encodeFeature(f featureSpec) []byte {
	var buf []byte
	if len(f.tags) > 0 {
		var tb []byte
		for _, t := range f.tags {
			tb = appendVarint(tb, t)
		}
		buf = appendTag(buf, 2, wireLengthDelimited)
		buf = appendVarint(buf, uint64(len(tb)))
		buf = append(buf, tb...)
	}
	buf = appendTag(buf, 3, wireVarint)
	buf = appendVarint(buf, uint64(f.typ))

	var gb []byte
	for _, g := range f.geom {
		gb = appendVarint(gb, g)
	}
	buf = appendTag(buf, 4, wireLengthDelimited)
	buf = appendVarint(buf, uint64(len(gb)))
	buf = append(buf, gb...)
	return buf
}

func encodeValue(v value.Value) []byte {
	var buf []byte
	switch v.Kind() {
	case value.String:
		s, _ := v.String()
		buf = appendTag(buf, 1, wireLengthDelimited)
		buf = appendVarint(buf, uint64(len(s)))
		buf = append(buf, s...)
	case value.Number:
		n, _ := v.Number()
		buf = appendTag(buf, 3, wireFixed64)
		bits := make([]byte, 8)
		binary.LittleEndian.PutUint64(bits, math.Float64bits(n))
		buf = append(buf, bits...)
	case value.Bool:
		b, _ := v.Bool()
		buf = appendTag(buf, 7, wireVarint)
		if b {
			buf = appendVarint(buf, 1)
		} else {
			buf = appendVarint(buf, 0)
		}
	}
	return buf
}

func appendTag(buf []byte, field int, wt wireType) []byte {
	return appendVarint(buf, uint64(field)<<3|uint64(wt))
}

func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func encodeZigzag(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}
