package report

import (
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
	"github.com/KaramelBytes/sheetbrief/internal/scalar"
	"github.com/KaramelBytes/sheetbrief/internal/schema"
)

// cumulative builds one monthly series per numeric column, up to and
// including target. The month axis is the column with the highest date
// parse ratio over the whole dataset, independent of the detected schema.
func (b *Builder) cumulative(d *dataset.Dataset, target dataset.Period) ([]Component, error) {
	cols := d.Columns()
	ratios := schema.DateRatios(d)
	axis, best := -1, 0.0
	for i, r := range ratios {
		if r > best {
			axis, best = i, r
		}
	}
	if axis < 0 {
		return nil, noDateAxis()
	}
	axisCol := cols[axis]
	b.log.Debug("cumulative axis", zap.String("column", axisCol), zap.Float64("ratio", best))

	// Month index per row; -1 marks rows outside the series.
	rowMonth := make([]int, d.Len())
	periods := make([]dataset.Period, d.Len())
	parsed := make([]bool, d.Len())
	var first, last dataset.Period
	seen := false
	now := time.Now()
	for i := range rowMonth {
		t, ok := scalar.ParseDateAt(d.Value(i, axisCol), now)
		if !ok {
			continue
		}
		p := dataset.PeriodOf(t)
		periods[i], parsed[i] = p, true
		if !seen || p.Before(first) {
			first = p
		}
		if !seen || last.Before(p) {
			last = p
		}
		seen = true
	}
	end := last
	if target.Before(end) {
		end = target
	}
	var labels []string
	index := map[dataset.Period]int{}
	for p := first; !end.Before(p); p = p.Next() {
		index[p] = len(labels)
		labels = append(labels, fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)))
	}
	for i := range rowMonth {
		rowMonth[i] = -1
		if !parsed[i] || target.Before(periods[i]) {
			continue
		}
		if j, ok := index[periods[i]]; ok {
			rowMonth[i] = j
		}
	}

	series := make([][]int, len(cols))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for ci, col := range cols {
		if ci == axis {
			continue
		}
		g.Go(func() error {
			if len(labels) == 0 {
				// Target precedes the data: numeric columns get empty series.
				if hasNumber(d, col) {
					series[ci] = []int{}
				}
				return nil
			}
			series[ci] = monthlySums(d, col, rowMonth, len(labels))
			return nil
		})
	}
	_ = g.Wait()

	var out []Component
	for ci, col := range cols {
		if series[ci] == nil {
			continue
		}
		out = append(out, Component{
			Type:   TypeCumulativeColumn,
			Title:  col,
			Source: col,
			Icon:   "bar-chart",
			Color:  b.opt.Palette[len(out)%len(b.opt.Palette)],
			Data: CumulativeData{
				ColumnName: col,
				Labels:     append([]string{}, labels...),
				Values:     series[ci],
				ChartType:  "bar",
			},
		})
	}
	if len(out) == 0 {
		return nil, noNumericColumns()
	}
	return out, nil
}

// monthlySums coerces col to numbers over in-range rows and sums them per
// month, truncating each sum toward zero. It returns nil when no value
// coerces.
func monthlySums(d *dataset.Dataset, col string, rowMonth []int, months int) []int {
	buckets := make([][]float64, months)
	numeric := false
	for i, m := range rowMonth {
		if m < 0 {
			continue
		}
		f, ok := scalar.ToNumber(d.Value(i, col))
		if !ok {
			continue
		}
		numeric = true
		buckets[m] = append(buckets[m], f)
	}
	if !numeric {
		return nil
	}
	out := make([]int, months)
	for m, vals := range buckets {
		out[m] = int(floats.Sum(vals))
	}
	return out
}

func hasNumber(d *dataset.Dataset, col string) bool {
	for _, v := range d.Column(col) {
		if _, ok := scalar.ToNumber(v); ok {
			return true
		}
	}
	return false
}
