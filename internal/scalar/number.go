package scalar

import (
	"math"
	"strconv"
	"strings"
)

const (
	decreaseMarker = "▼"
	increaseMarker = "▲"
)

var numberNullTokens = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
	"na":   {},
	"n/a":  {},
	"-":    {},
}

// ToNumber converts v to a float64. Strings may carry thousands separators,
// embedded spaces, a percent sign (kept at face value), a leading plus, a
// currency suffix, or a ▲/▼ change marker. ▼ forces the result negative.
func ToNumber(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if _, isBool := v.(bool); isBool {
		return 0, false
	}
	if f, ok := AsFloat(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}

	s := strings.TrimSpace(String(v))
	if s == "" {
		return 0, false
	}
	if _, ok := numberNullTokens[strings.ToLower(s)]; ok {
		return 0, false
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	negative := false
	if strings.Contains(s, decreaseMarker) {
		negative = true
		s = strings.ReplaceAll(s, decreaseMarker, "")
	}
	s = strings.ReplaceAll(s, increaseMarker, "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "+", "")
	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	switch {
	case s == "", s == "-", s == ".", s == "-.", s == ".-":
		return 0, false
	case strings.Count(s, ".") > 1, strings.Count(s, "-") > 1:
		return 0, false
	case strings.Contains(s, "-") && !strings.HasPrefix(s, "-"):
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	if negative {
		f = -math.Abs(f)
	}
	return f, true
}
