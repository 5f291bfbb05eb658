package style

import "fmt"

// knownOperators mirrors the closed operator set the evaluator
// recognizes at runtime (package expr). Stylesheet parsing rejects any
// operator outside this set up front, rather than letting it silently
// resolve to null at render time.
var knownOperators = map[string]bool{
	"all": true, "case": true, "coalesce": true,
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"get": true, "has": true, "in": true, "interpolate": true, "match": true,
}

// validateExpression walks an expression tree and fails on the first
// operator name not in knownOperators. Argument positions that hold
// literal data rather than sub-expressions (match labels, get/has keys,
// the interpolation-type node) are left unvalidated: a literal array
// there is not a mistyped operator.
func validateExpression(node any) error {
	arr, ok := node.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	head, ok := arr[0].(string)
	if !ok {
		return nil
	}
	if !knownOperators[head] {
		return fmt.Errorf("unknown operator %q", head)
	}

	tail := arr[1:]
	switch head {
	case "all", "coalesce":
		return validateEach(tail)
	case "case":
		return validateCase(tail)
	case "==", "!=", "<", ">", "<=", ">=":
		return validateEach(tail)
	case "get", "has":
		return nil // key argument is a literal string
	case "in":
		return validateIn(tail)
	case "match":
		return validateMatch(tail)
	case "interpolate":
		return validateInterpolate(tail)
	}
	return nil
}

func validateEach(nodes []any) error {
	for _, n := range nodes {
		if err := validateExpression(n); err != nil {
			return err
		}
	}
	return nil
}

func validateCase(tail []any) error {
	i := 0
	for i+1 < len(tail) {
		if err := validateExpression(tail[i]); err != nil {
			return err
		}
		if err := validateExpression(tail[i+1]); err != nil {
			return err
		}
		i += 2
	}
	if i < len(tail) {
		return validateExpression(tail[i])
	}
	return nil
}

func validateIn(tail []any) error {
	if len(tail) > 0 {
		if err := validateExpression(tail[0]); err != nil {
			return err
		}
	}
	// tail[1], the haystack, is ordinarily a literal array (e.g. a list
	// of class names) and is not validated as a sub-expression: its head
	// being a plain string is data, not a mistyped operator.
	return nil
}

func validateMatch(tail []any) error {
	if len(tail) == 0 {
		return nil
	}
	if err := validateExpression(tail[0]); err != nil {
		return err
	}
	rest := tail[1:]
	i := 0
	for i+1 < len(rest) {
		// rest[i] is a label or array of labels, literal data either way.
		if err := validateExpression(rest[i+1]); err != nil {
			return err
		}
		i += 2
	}
	if i < len(rest) {
		return validateExpression(rest[i])
	}
	return nil
}

func validateInterpolate(tail []any) error {
	// tail[0] is the interpolation-type node (["linear"]|["exponential",base]),
	// literal data, not an expression.
	if len(tail) > 1 {
		if err := validateExpression(tail[1]); err != nil {
			return err
		}
	}
	stops := tail[2:]
	for i := 0; i+1 < len(stops); i += 2 {
		if err := validateExpression(stops[i]); err != nil {
			return err
		}
		if err := validateExpression(stops[i+1]); err != nil {
			return err
		}
	}
	return nil
}
