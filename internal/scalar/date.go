package scalar

import (
	"strings"
	"time"
)

// minSerialMagnitude is the smallest numeric value considered as a possible
// serialized date. Smaller numbers are ids or counts.
const minSerialMagnitude = 10000

// Layout groups, tried in order. Each group is a separate step of the chain
// and the first success ends the chain.
var (
	fullDateLayouts = []string{
		"2006-1-2",
		"2006/1/2",
		"2006.1.2",
		"2006-1-2 15:04:05",
		"2006/1/2 15:04:05",
		"2006.1.2 15:04:05",
	}
	monthDayLayouts  = []string{"1/2", "1-2", "1.2"}
	yearMonthLayouts = []string{"1/2006", "1-2006", "1.2006", "2006-1", "2006/1"}
	// fallbackLayouts cover free-form spellings seen in exported sheets.
	fallbackLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-1-2 15:04",
		"2006/1/2 15:04",
		"2006.1.2 15:04",
		"20060102",
		"20060102150405",
		"2006년 1월 2일",
		"2006년1월2일",
		"2006년 1월 2일 15:04",
		"2006년 1월",
		"2006. 1. 2.",
		"2006. 1. 2",
		"2006. 1. 2. 15:04",
		"1/2/2006",
		"1/2/2006 15:04",
		"1/2/2006 15:04:05",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
		"02-Jan-2006",
		"2006-Jan-02",
		time.RFC1123,
		time.RFC1123Z,
		time.RFC822,
		time.ANSIC,
	}
)

// ParseDate parses v as a calendar date-time using the current clock for
// month/day values that carry no year.
func ParseDate(v any) (time.Time, bool) {
	return ParseDateAt(v, time.Now())
}

// ParseDateAt is ParseDate with an explicit reference time. A month/day
// value such as "3/14" is placed in now's calendar year.
//
// The chain is strict: null sentinels, native times, small numbers, full
// dates (time part truncated to seconds), month/day, year/month, then the
// permissive fallback list. The first step that succeeds wins.
func ParseDateAt(v any, now time.Time) (time.Time, bool) {
	if IsNull(v) {
		return time.Time{}, false
	}
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case bool:
		return time.Time{}, false
	}
	if f, ok := AsFloat(v); ok {
		if f < minSerialMagnitude {
			return time.Time{}, false
		}
		// Large numbers may only match through the fallback, e.g. 20240115.
		return parseLayouts(String(v), fallbackLayouts)
	}

	s := strings.TrimSpace(String(v))
	if t, ok := parseLayouts(truncateRunes(s, 19), fullDateLayouts); ok {
		return t, true
	}
	if t, ok := parseMonthDay(s, now.Year()); ok {
		return t, true
	}
	if t, ok := parseLayouts(s, yearMonthLayouts); ok {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
	}
	return parseLayouts(s, fallbackLayouts)
}

func parseLayouts(s string, layouts []string) (time.Time, bool) {
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseMonthDay(s string, year int) (time.Time, bool) {
	for _, l := range monthDayLayouts {
		t, err := time.Parse(l, s)
		if err != nil {
			continue
		}
		// time.Parse validated the day against year 0; re-check for the target year.
		if t.Day() > daysIn(t.Month(), year) {
			continue
		}
		return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
