package eval

import (
	"fmt"
	"math"
	"strconv"

	"github.com/takoeight0821/lox/token"
)

// Value is a runtime value: nil, bool, float64 or string.
type Value = any

// RuntimeError aborts the run. Token locates the expression that failed.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// Stringify renders v the way `print` shows it.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		switch {
		case math.IsNaN(v):
			return "nan"
		case math.IsInf(v, 1):
			return "inf"
		case math.IsInf(v, -1):
			return "-inf"
		}
		return formatNumber(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatNumber prints the shortest decimal that round-trips: 3, not 3.0.
// Magnitudes below 1e-4 or from 1e16 up use exponent form (1e+16, 1e-05).
func formatNumber(n float64) string {
	if abs := math.Abs(n); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(n, 'e', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// isTruthy reports whether v counts as true. Only nil and false do not.
func isTruthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// isEqual never fails: values of different kinds are simply unequal.
func isEqual(a, b Value) bool {
	return a == b
}

func checkNumber(op token.Token, operand Value) (float64, error) {
	if n, ok := operand.(float64); ok {
		return n, nil
	}
	return 0, &RuntimeError{Token: op, Message: "operand must be a number"}
}

func checkNumbers(op token.Token, left, right Value) (float64, float64, error) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if lok && rok {
		return l, r, nil
	}
	return 0, 0, &RuntimeError{Token: op, Message: "operands must be a number"}
}
