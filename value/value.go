// Package value defines the scalar variant shared by decoded tile feature
// metadata and style-expression results: null, bool, number, string,
// color, or array. It deliberately avoids a dynamic-typed generic
// container (interface{}/any) at call sites that only need to distinguish
// these six shapes, per the evaluator's design note on closed variants.
package value

import (
	"strconv"

	gg "github.com/bachmap/bach"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Color
	Array
)

// Value is a closed scalar variant. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	c    gg.RGBA
	arr  []Value
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

// NullValue returns the null value.
func NullValue() Value { return Value{} }

func Of(b bool) Value { return Value{kind: Bool, b: b} }

func OfNumber(n float64) Value { return Value{kind: Number, n: n} }

func OfString(s string) Value { return Value{kind: String, s: s} }

func OfColor(c gg.RGBA) Value { return Value{kind: Color, c: c} }

func OfArray(a []Value) Value { return Value{kind: Array, arr: a} }

// Bool returns the boolean payload and whether v actually held one.
func (v Value) Bool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// Number returns the numeric payload and whether v actually held one.
// Only a Number value qualifies; a String holding digits is not
// converted.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case Number:
		return v.n, true
	default:
		return 0, false
	}
}

// String returns the string payload and whether v actually held one.
func (v Value) String() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// Color returns the color payload and whether v actually held one.
func (v Value) Color() (gg.RGBA, bool) {
	if v.kind != Color {
		return gg.RGBA{}, false
	}
	return v.c, true
}

// Array returns the array payload and whether v actually held one.
func (v Value) Array() ([]Value, bool) {
	if v.kind != Array {
		return nil, false
	}
	return v.arr, true
}

// Equal reports whether two values are equal under the comparison rules
// used by the expression evaluator's compare operators: same kind,
// same payload; numbers compare numerically, strings lexicographically.
// Mixed-kind comparisons are never equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Number:
		return a.n == b.n
	case String:
		return a.s == b.s
	case Color:
		return a.c == b.c
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Less reports whether a < b under the evaluator's ordering rules:
// numbers numerically, strings lexicographically. Any other pairing,
// including mixed kinds, is not ordered and returns false.
func Less(a, b Value) bool {
	switch {
	case a.kind == Number && b.kind == Number:
		return a.n < b.n
	case a.kind == String && b.kind == String:
		return a.s < b.s
	default:
		return false
	}
}

// ParseColor recognizes the hex forms the Style Specification allows for
// color literals ("#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA") and defers to
// gg.Hex, which already supports all four. Anything else is not a color.
func ParseColor(s string) (gg.RGBA, bool) {
	if len(s) == 0 || s[0] != '#' {
		return gg.RGBA{}, false
	}
	for _, r := range s[1:] {
		if _, err := strconv.ParseUint(string(r), 16, 8); err != nil {
			return gg.RGBA{}, false
		}
	}
	return gg.Hex(s), true
}
