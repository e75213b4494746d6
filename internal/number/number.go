// Package number centralizes the numeric coercion rule shared by the
// comparison operators.
package number

import "github.com/Beluki/MQLite/internal/value"

// ToFloat64 extracts a float64 from a JSON value, succeeding only for
// value.Number: MQLite does not coerce strings or booleans into numbers
// for ordering comparisons.
func ToFloat64(v value.Value) (float64, bool) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, false
	}
	return float64(n), true
}
