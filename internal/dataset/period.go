package dataset

import (
	"time"

	"github.com/KaramelBytes/sheetbrief/internal/scalar"
)

// Period is a calendar year and month.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Before reports whether p is strictly earlier than q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Prev returns the preceding month.
func (p Period) Prev() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// FilterPeriod keeps the rows whose dateCol value parses to a date inside
// the given year and month. Rows with unparseable dates are dropped. An
// unknown column yields an empty dataset with the same columns.
func FilterPeriod(d *Dataset, dateCol string, p Period) *Dataset {
	if !d.Has(dateCol) {
		return d.Filter(func(int) bool { return false })
	}
	now := time.Now()
	return d.Filter(func(i int) bool {
		t, ok := scalar.ParseDateAt(d.Value(i, dateCol), now)
		return ok && PeriodOf(t) == p
	})
}

// LatestPeriod returns the most recent period among the parseable values of
// dateCol. ok is false when no value parses.
func LatestPeriod(d *Dataset, dateCol string) (latest Period, ok bool) {
	if !d.Has(dateCol) {
		return Period{}, false
	}
	now := time.Now()
	for i := 0; i < d.Len(); i++ {
		t, parsed := scalar.ParseDateAt(d.Value(i, dateCol), now)
		if !parsed {
			continue
		}
		p := PeriodOf(t)
		if !ok || latest.Before(p) {
			latest, ok = p, true
		}
	}
	return latest, ok
}
