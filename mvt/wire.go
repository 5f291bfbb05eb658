package mvt

import (
	"encoding/binary"
	"fmt"

	"github.com/bachmap/bach/tileerr"
)

// wireType mirrors the four protobuf wire types this decoder handles.
// Wire types 1 (64-bit) and 5 (32-bit) carry a value's double_value and
// float_value, and skip also uses them to step over unknown fields.
type wireType uint64

const (
	wireVarint          wireType = 0
	wireFixed64         wireType = 1
	wireLengthDelimited wireType = 2
	wireFixed32         wireType = 5
)

// reader walks a length-delimited, tag-typed byte buffer one field at a
// time, following the subset of the protobuf wire format that Mapbox
// Vector Tile v2 messages use.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

func (r *reader) done() bool { return r.pos >= len(r.buf) }

// varint reads a base-128 varint, per the protobuf wire format.
func (r *reader) varint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		if r.pos >= len(r.buf) {
			return 0, fmt.Errorf("%w: truncated varint", tileerr.ErrParsingFailed)
		}
		b := r.buf[r.pos]
		r.pos++
		if shift >= 64 {
			return 0, fmt.Errorf("%w: varint too long", tileerr.ErrParsingFailed)
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// tag reads a field tag, returning the field number and wire type.
func (r *reader) tag() (field int, wt wireType, err error) {
	v, err := r.varint()
	if err != nil {
		return 0, 0, err
	}
	return int(v >> 3), wireType(v & 0x7), nil
}

// bytesField reads a length-delimited field's payload.
func (r *reader) bytesField() ([]byte, error) {
	n, err := r.varint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(r.buf)-r.pos) {
		return nil, fmt.Errorf("%w: length-delimited field overruns buffer", tileerr.ErrParsingFailed)
	}
	start := r.pos
	r.pos += int(n)
	return r.buf[start:r.pos], nil
}

func (r *reader) stringField() (string, error) {
	b, err := r.bytesField()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) fixed64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, fmt.Errorf("%w: truncated fixed64", tileerr.ErrParsingFailed)
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) fixed32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, fmt.Errorf("%w: truncated fixed32", tileerr.ErrParsingFailed)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// skip advances past a field's payload without interpreting it, given its
// wire type, used for forward-compatible fields this decoder doesn't read.
func (r *reader) skip(wt wireType) error {
	switch wt {
	case wireVarint:
		_, err := r.varint()
		return err
	case wireFixed64:
		_, err := r.fixed64()
		return err
	case wireLengthDelimited:
		_, err := r.bytesField()
		return err
	case wireFixed32:
		_, err := r.fixed32()
		return err
	default:
		return fmt.Errorf("%w: unknown wire type %d", tileerr.ErrParsingFailed, wt)
	}
}

// packedVarints decodes a length-delimited field whose payload is a
// sequence of varints (the packed encoding MVT uses for geometry commands
// and feature tags).
func packedVarints(buf []byte) ([]uint64, error) {
	r := newReader(buf)
	var out []uint64
	for !r.done() {
		v, err := r.varint()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// zigzag decodes a zig-zag encoded signed integer, as used by geometry
// command parameters.
func zigzag(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}
