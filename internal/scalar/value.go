// Package scalar converts single raw cell values into typed values.
//
// Every function here is total: a value that cannot be converted yields
// ok=false instead of an error, and callers treat it as excluded.
package scalar

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// nullTokens are string spellings treated as a missing cell.
var nullTokens = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
	"nat":  {},
}

// IsNull reports whether v represents a missing cell: nil, NaN, a blank
// string, or one of the null spellings ("nan", "none", "null", "nat").
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		if s == "" {
			return true
		}
		_, ok := nullTokens[s]
		return ok
	}
	return false
}

// AsFloat returns v as float64 when it already holds a numeric Go type.
// Strings are not parsed; use ToNumber for that.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String renders v the way categorical counting sees it. Missing values
// render as the empty string; integral floats drop their fraction.
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
