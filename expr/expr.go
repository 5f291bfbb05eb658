// Package expr resolves data-driven style expressions against a
// feature/zoom context. The operator set is closed: all, case, coalesce,
// the six comparisons, get, has, in, interpolate, and match. Unknown
// operators yield null rather than erroring, since a single unsupported
// property expression must not abort rendering of the rest of the frame.
package expr

import (
	"math"

	gg "github.com/bachmap/bach"
	"github.com/bachmap/bach/value"
)

// Feature is the minimal read-only view the evaluator needs of a decoded
// tile feature. mvt.Feature satisfies this without expr importing mvt.
type Feature interface {
	Get(key string) value.Value
	Has(key string) bool
}

// operators is the closed set recognized as expression heads. Any other
// array is a literal array, per the evaluator's design note.
var operators = map[string]bool{
	"all": true, "case": true, "coalesce": true,
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"get": true, "has": true, "in": true, "interpolate": true, "match": true,
}

// IsExpression reports whether a decoded JSON node is an expression (an
// array whose first element is a recognized operator name) rather than a
// literal array.
func IsExpression(node any) bool {
	arr, ok := node.([]any)
	if !ok || len(arr) == 0 {
		return false
	}
	head, ok := arr[0].(string)
	return ok && operators[head]
}

// Resolve evaluates a decoded style-property JSON node against a feature
// and zoom context, per §4.D. Resolve is pure and re-entrant: it allocates
// only for its own return value and never mutates feature or node.
func Resolve(node any, feature Feature, mapZoom int, vpZoom float64) value.Value {
	switch v := node.(type) {
	case nil:
		return value.NullValue()
	case bool:
		return value.Of(v)
	case float64:
		return value.OfNumber(v)
	case string:
		return value.OfString(v)
	case []any:
		if len(v) == 0 {
			return value.OfArray(nil)
		}
		if head, ok := v[0].(string); ok && operators[head] {
			return resolveOp(head, v, feature, mapZoom, vpZoom)
		}
		return resolveLiteralArray(v)
	default:
		return value.NullValue()
	}
}

// resolveLiteralArray converts a plain JSON array (not recognized as an
// expression) into an Array value without expression-evaluating its
// elements — a literal array is data, not code, even when nested inside
// an expression tree.
func resolveLiteralArray(arr []any) value.Value {
	out := make([]value.Value, 0, len(arr))
	for _, el := range arr {
		out = append(out, literalOf(el))
	}
	return value.OfArray(out)
}

func literalOf(node any) value.Value {
	switch v := node.(type) {
	case nil:
		return value.NullValue()
	case bool:
		return value.Of(v)
	case float64:
		return value.OfNumber(v)
	case string:
		return value.OfString(v)
	case []any:
		return resolveLiteralArray(v)
	default:
		return value.NullValue()
	}
}

func resolveOp(op string, args []any, feature Feature, mapZoom int, vpZoom float64) value.Value {
	tail := args[1:]
	switch op {
	case "all":
		return opAll(tail, feature, mapZoom, vpZoom)
	case "case":
		return opCase(tail, feature, mapZoom, vpZoom)
	case "coalesce":
		return opCoalesce(tail, feature, mapZoom, vpZoom)
	case "==", "!=", "<", ">", "<=", ">=":
		return opCompare(op, tail, feature, mapZoom, vpZoom)
	case "get":
		return opGet(tail, feature)
	case "has":
		return opHas(tail, feature)
	case "in":
		return opIn(tail, feature, mapZoom, vpZoom)
	case "interpolate":
		return opInterpolate(tail, feature, mapZoom, vpZoom)
	case "match":
		return opMatch(tail, feature, mapZoom, vpZoom)
	default:
		return value.NullValue()
	}
}

func asBool(v value.Value) bool {
	b, ok := v.Bool()
	return ok && b
}

func opAll(tail []any, feature Feature, mapZoom int, vpZoom float64) value.Value {
	for _, node := range tail {
		if !asBool(Resolve(node, feature, mapZoom, vpZoom)) {
			return value.Of(false)
		}
	}
	return value.Of(true)
}

func opCase(tail []any, feature Feature, mapZoom int, vpZoom float64) value.Value {
	i := 0
	for i+1 < len(tail) {
		if asBool(Resolve(tail[i], feature, mapZoom, vpZoom)) {
			return Resolve(tail[i+1], feature, mapZoom, vpZoom)
		}
		i += 2
	}
	if i < len(tail) {
		return Resolve(tail[i], feature, mapZoom, vpZoom)
	}
	return value.NullValue()
}

func opCoalesce(tail []any, feature Feature, mapZoom int, vpZoom float64) value.Value {
	for _, node := range tail {
		v := Resolve(node, feature, mapZoom, vpZoom)
		if !v.IsNull() {
			return v
		}
	}
	return value.NullValue()
}

func opCompare(op string, tail []any, feature Feature, mapZoom int, vpZoom float64) value.Value {
	if len(tail) < 2 {
		return value.NullValue()
	}
	a := Resolve(tail[0], feature, mapZoom, vpZoom)
	b := Resolve(tail[1], feature, mapZoom, vpZoom)
	switch op {
	case "==":
		return value.Of(value.Equal(a, b))
	case "!=":
		return value.Of(!value.Equal(a, b))
	case "<":
		return value.Of(value.Less(a, b))
	case ">":
		return value.Of(value.Less(b, a))
	case "<=":
		return value.Of(!value.Less(b, a))
	case ">=":
		return value.Of(!value.Less(a, b))
	default:
		return value.NullValue()
	}
}

func opGet(tail []any, feature Feature) value.Value {
	if len(tail) < 1 {
		return value.NullValue()
	}
	key, ok := tail[0].(string)
	if !ok {
		return value.NullValue()
	}
	return feature.Get(key)
}

func opHas(tail []any, feature Feature) value.Value {
	if len(tail) < 1 {
		return value.Of(false)
	}
	key, ok := tail[0].(string)
	if !ok {
		return value.Of(false)
	}
	return value.Of(feature.Has(key))
}

func opIn(tail []any, feature Feature, mapZoom int, vpZoom float64) value.Value {
	if len(tail) < 2 {
		return value.Of(false)
	}
	needle := Resolve(tail[0], feature, mapZoom, vpZoom)
	haystack := Resolve(tail[1], feature, mapZoom, vpZoom)
	arr, ok := haystack.Array()
	if !ok {
		return value.Of(false)
	}
	for _, el := range arr {
		if value.Equal(needle, el) {
			return value.Of(true)
		}
	}
	return value.Of(false)
}

func opMatch(tail []any, feature Feature, mapZoom int, vpZoom float64) value.Value {
	if len(tail) < 1 {
		return value.NullValue()
	}
	input := Resolve(tail[0], feature, mapZoom, vpZoom)
	rest := tail[1:]
	i := 0
	for i+1 < len(rest) {
		label, output := rest[i], rest[i+1]
		if matchLabel(label, input, feature, mapZoom, vpZoom) {
			return Resolve(output, feature, mapZoom, vpZoom)
		}
		i += 2
	}
	if i < len(rest) {
		return Resolve(rest[i], feature, mapZoom, vpZoom)
	}
	return value.NullValue()
}

// matchLabel supports both a single label value and an array of label
// values mapping to the same output, per the Style Specification's match
// expression.
func matchLabel(label any, input value.Value, feature Feature, mapZoom int, vpZoom float64) bool {
	if arr, ok := label.([]any); ok {
		for _, l := range arr {
			if value.Equal(Resolve(l, feature, mapZoom, vpZoom), input) {
				return true
			}
		}
		return false
	}
	return value.Equal(Resolve(label, feature, mapZoom, vpZoom), input)
}

// opInterpolate implements interpolate(["linear"]|["exponential", base],
// input, s1, v1, s2, v2, ...). The interpolation-type node is inspected
// directly as a raw JSON array rather than through Resolve, since
// "linear"/"exponential" are not expression operators and would otherwise
// resolve as an ordinary literal array — exactly the shape this decoder
// needs anyway, just read before generic literal conversion discards the
// distinction between the mode tag and its base argument.
func opInterpolate(tail []any, feature Feature, mapZoom int, vpZoom float64) value.Value {
	if len(tail) < 2 {
		return value.NullValue()
	}
	mode, base := interpolationType(tail[0])
	input := Resolve(tail[1], feature, mapZoom, vpZoom)
	inputNum, ok := input.Number()
	if !ok {
		return value.NullValue()
	}

	stops := tail[2:]
	if len(stops) < 4 || len(stops)%2 != 0 {
		return value.NullValue()
	}

	type stop struct {
		at  float64
		val value.Value
	}
	parsed := make([]stop, 0, len(stops)/2)
	for i := 0; i+1 < len(stops); i += 2 {
		atNode := Resolve(stops[i], feature, mapZoom, vpZoom)
		at, ok := atNode.Number()
		if !ok {
			return value.NullValue()
		}
		parsed = append(parsed, stop{at: at, val: Resolve(stops[i+1], feature, mapZoom, vpZoom)})
	}

	if inputNum <= parsed[0].at {
		return parsed[0].val
	}
	last := parsed[len(parsed)-1]
	if inputNum >= last.at {
		return last.val
	}

	for i := 0; i+1 < len(parsed); i++ {
		lo, hi := parsed[i], parsed[i+1]
		if inputNum >= lo.at && inputNum <= hi.at {
			t := interpFraction(mode, base, lo.at, hi.at, inputNum)
			return interpolateValues(lo.val, hi.val, t)
		}
	}
	return last.val
}

func interpolationType(node any) (mode string, base float64) {
	arr, ok := node.([]any)
	if !ok || len(arr) == 0 {
		return "linear", 1
	}
	mode, _ = arr[0].(string)
	if mode != "exponential" {
		return "linear", 1
	}
	if len(arr) > 1 {
		if b, ok := arr[1].(float64); ok {
			return "exponential", b
		}
	}
	// Base omitted on an exponential node collapses to the linear formula,
	// matching the Style Specification's default base of 1.
	return "exponential", 1
}

func interpFraction(mode string, base, lo, hi, x float64) float64 {
	if mode != "exponential" || base == 1 {
		if hi == lo {
			return 0
		}
		return (x - lo) / (hi - lo)
	}
	diff := hi - lo
	if diff == 0 {
		return 0
	}
	return (math.Pow(base, x-lo) - 1) / (math.Pow(base, diff) - 1)
}

func interpolateValues(a, b value.Value, t float64) value.Value {
	if ac, ok := a.Color(); ok {
		if bc, ok := b.Color(); ok {
			return value.OfColor(gg.RGBA{
				R: lerp(ac.R, bc.R, t),
				G: lerp(ac.G, bc.G, t),
				B: lerp(ac.B, bc.B, t),
				A: lerp(ac.A, bc.A, t),
			})
		}
	}
	if as, ok := a.String(); ok {
		if ac, aok := value.ParseColor(as); aok {
			if bs, ok := b.String(); ok {
				if bc, bok := value.ParseColor(bs); bok {
					return value.OfColor(gg.RGBA{
						R: lerp(ac.R, bc.R, t),
						G: lerp(ac.G, bc.G, t),
						B: lerp(ac.B, bc.B, t),
						A: lerp(ac.A, bc.A, t),
					})
				}
			}
		}
	}
	an, aok := a.Number()
	bn, bok := b.Number()
	if aok && bok {
		return value.OfNumber(lerp(an, bn, t))
	}
	if t < 0.5 {
		return a
	}
	return b
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
