// Package report turns period statistics into ordered display components.
package report

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
	"github.com/KaramelBytes/sheetbrief/internal/scalar"
	"github.com/KaramelBytes/sheetbrief/internal/schema"
	"github.com/KaramelBytes/sheetbrief/internal/stats"
)

// Options controls component construction.
type Options struct {
	// ChangeThreshold is the percent change below which a difference is neutral.
	ChangeThreshold float64
	// ChartKeywords is the size of the keyword bar chart.
	ChartKeywords int
	// MonthlyTopN caps the travel-date month distribution.
	MonthlyTopN int
	// TravelDateColumns are tried in order for the month distribution.
	TravelDateColumns []string
	// Palette colors cumulative series in rotation.
	Palette []string
}

// DefaultOptions returns the standard report settings.
func DefaultOptions() Options {
	return Options{
		ChangeThreshold:   0.1,
		ChartKeywords:     5,
		MonthlyTopN:       12,
		TravelDateColumns: []string{"여행일", "여행일자"},
		Palette:           []string{"indigo", "blue", "green", "yellow", "orange", "red", "pink", "purple", "cyan", "teal"},
	}
}

const (
	unitCount     = "건"
	currentColor  = "#0ea5e9"
	previousColor = "#38bdf8"
)

// Builder assembles reports. It is stateless between calls.
type Builder struct {
	calc *stats.Calculator
	opt  Options
	log  *zap.Logger
}

// NewBuilder returns a Builder using calc for all statistics.
func NewBuilder(calc *stats.Calculator, opt Options, log *zap.Logger) *Builder {
	if calc == nil {
		calc = stats.New(nil, nil, stats.DefaultLimits(), log)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if len(opt.Palette) == 0 {
		opt.Palette = DefaultOptions().Palette
	}
	return &Builder{calc: calc, opt: opt, log: log}
}

// Build produces the components of one report for the target period. An
// empty dataset yields an empty list and no error. Only cumulative reports
// fail, with an *AxisError.
func (b *Builder) Build(kind Kind, d *dataset.Dataset, sch schema.ColumnSchema, target dataset.Period) ([]Component, error) {
	if target.Month < time.January || target.Month > time.December {
		return nil, fmt.Errorf("invalid month %d", target.Month)
	}
	if d.Empty() {
		return []Component{}, nil
	}
	if kind == KindCumulative {
		return b.cumulative(d, target)
	}
	if kind != KindSingle && sch.DateColumn == "" {
		b.log.Debug("no date column, building single report", zap.String("requested", string(kind)))
		kind = KindSingle
	}

	cur := b.current(d, sch, target)
	if cur.stats == nil {
		return []Component{}, nil
	}

	var out []Component
	if kind == KindSingle {
		out = b.single(cur.stats, sch.CategoricalColumns)
	} else {
		prev := b.previous(d, sch, cur.period)
		out = b.comparison(cur.stats, prev, sch.CategoricalColumns, cur.period)
	}
	out = append(out, b.details(kind, cur, sch)...)
	if c, ok := b.travelMonths(d); ok {
		out = append(out, c)
	}
	return out, nil
}

type periodSlice struct {
	data   *dataset.Dataset
	stats  *stats.PeriodStats
	period dataset.Period
}

// current computes the current period, falling back to the latest dated
// period and then to the whole dataset.
func (b *Builder) current(d *dataset.Dataset, sch schema.ColumnSchema, target dataset.Period) periodSlice {
	s := periodSlice{period: target}
	if sch.DateColumn != "" {
		s.data = dataset.FilterPeriod(d, sch.DateColumn, target)
		s.stats = b.calc.Compute(s.data, sch)
		if s.stats != nil {
			return s
		}
		if latest, ok := dataset.LatestPeriod(d, sch.DateColumn); ok {
			b.log.Debug("requested period empty, using latest",
				zap.Int("year", latest.Year), zap.Int("month", int(latest.Month)))
			s.period = latest
			s.data = dataset.FilterPeriod(d, sch.DateColumn, latest)
			s.stats = b.calc.Compute(s.data, sch)
			if s.stats != nil {
				return s
			}
		}
	}
	b.log.Debug("using whole dataset")
	s.data = d
	s.stats = b.calc.Compute(d, sch)
	return s
}

func (b *Builder) previous(d *dataset.Dataset, sch schema.ColumnSchema, p dataset.Period) *stats.PeriodStats {
	return b.calc.Compute(dataset.FilterPeriod(d, sch.DateColumn, p.Prev()), sch)
}

func (b *Builder) single(ps *stats.PeriodStats, cats []string) []Component {
	out := []Component{
		{
			Type: TypeKPI, Title: "총 문의 수", Source: "total_count", Icon: "hash", Color: "indigo",
			Data: KPIData{Value: ps.TotalCount, Unit: unitCount},
		},
		{
			Type: TypeKPI, Title: "피크 일자", Source: "peak_day", Icon: "trending-up", Color: "orange",
			Data: KPIData{Value: ps.PeakDay.Count, Unit: unitCount, Subtitle: ps.PeakDay.Date},
		},
	}
	for _, col := range cats {
		dist, _ := ps.Distribution(col)
		top := dist.Top
		if top == nil {
			top = []stats.CategoryCount{}
		}
		out = append(out, Component{
			Type: TypeBarChart, Title: col + "별 분포", Source: col, Icon: "pie-chart", Color: "sky",
			Data: top,
		})
	}
	return out
}

// comparison builds the two-period metrics. A nil prev counts as an empty
// period.
func (b *Builder) comparison(cur, prev *stats.PeriodStats, cats []string, p dataset.Period) []Component {
	if prev == nil {
		prev = &stats.PeriodStats{PeakDay: stats.DayCount{Date: stats.NotAvailable}}
	}
	curLabel := monthLabel(p.Month)
	prevLabel := monthLabel(p.Prev().Month)

	total := Compare(cur.TotalCount, prev.TotalCount, b.opt.ChangeThreshold)
	peak := Compare(cur.PeakDay.Count, prev.PeakDay.Count, b.opt.ChangeThreshold)

	out := []Component{
		{
			Type: TypeComparisonKPI, Title: "총 문의 수 비교", Source: "total_count", Icon: "hash", Color: "indigo",
			Data: ComparisonKPIData{
				CurrentValue: cur.TotalCount, PreviousValue: prev.TotalCount, Unit: unitCount,
				ChangeText: total.Text, ChangeStatus: total.Status, ChangePercent: total.Percent,
				CurrentLabel: curLabel, PreviousLabel: prevLabel,
			},
		},
		{
			Type: TypeComparisonKPI, Title: "일일 최대 문의", Source: "peak_day", Icon: "trending-up", Color: "orange",
			Data: ComparisonKPIData{
				CurrentValue: cur.PeakDay.Count, PreviousValue: prev.PeakDay.Count, Unit: unitCount,
				ChangeText: peak.Text, ChangeStatus: peak.Status, ChangePercent: peak.Percent,
				CurrentLabel:  peakLabel(curLabel, cur.PeakDay),
				PreviousLabel: peakLabel(prevLabel, prev.PeakDay),
			},
		},
	}
	for _, col := range cats {
		curDist, _ := cur.Distribution(col)
		prevDist, _ := prev.Distribution(col)
		prevCounts := make(map[string]int, len(prevDist.Top)+len(prevDist.Others))
		for _, c := range prevDist.Top {
			prevCounts[c.Name] = c.Count
		}
		for _, c := range prevDist.Others {
			prevCounts[c.Name] = c.Count
		}
		items := make([]ComparisonItem, 0, len(curDist.Top))
		for _, c := range curDist.Top {
			items = append(items, ComparisonItem{Name: c.Name, CurrentCount: c.Count, PrevCount: prevCounts[c.Name]})
		}
		out = append(out, Component{
			Type: TypeComparisonBarChart, Title: col + "별 비교", Source: col, Icon: "pie-chart", Color: "sky",
			Data: ComparisonBarData{
				Comparison:    items,
				CurrentLabel:  curLabel,
				PreviousLabel: prevLabel,
				CurrentColor:  currentColor,
				PreviousColor: previousColor,
				Others:        OthersData{Current: nonNil(curDist.Others), Previous: nonNil(prevDist.Others)},
			},
		})
	}
	return out
}

// details appends the daily breakdown, summary and keyword chart shared by
// single and comparison reports.
func (b *Builder) details(kind Kind, cur periodSlice, sch schema.ColumnSchema) []Component {
	var out []Component
	m := int(cur.period.Month)
	if len(cur.stats.Daily) > 0 {
		out = append(out, Component{
			Type: TypeDailyBreakdown, Title: fmt.Sprintf("%d월 일자별 오류 현황", m), Source: "daily_breakdown",
			Icon: "calendar", Color: "cyan", Data: cur.stats.Daily,
		})
	}
	if len(cur.stats.Summary) > 0 {
		out = append(out, Component{
			Type: TypeSummary, Title: fmt.Sprintf("%d월 주요 오류 내용 요약", m), Source: "summary",
			Icon: "alert-triangle", Color: "rose", Data: SummaryData{Items: cur.stats.Summary},
		})
	}
	if sch.TextColumn != "" && cur.data.Has(sch.TextColumn) {
		if kws := b.calc.Keywords(cur.data, sch.TextColumn, b.opt.ChartKeywords); len(kws) > 0 {
			title := "주요 문의 키워드"
			if kind == KindComparison {
				title = fmt.Sprintf("주요 문의 키워드(%d월)", m)
			}
			out = append(out, Component{
				Type: TypeBarChart, Title: title, Source: "keywords_top", Icon: "pie-chart", Color: "rose", Data: kws,
			})
		}
	}
	return out
}

// travelMonths builds the month-of-year distribution from the first travel
// date column that yields one. Failures omit the component.
func (b *Builder) travelMonths(d *dataset.Dataset) (Component, bool) {
	for _, col := range b.opt.TravelDateColumns {
		if !d.Has(col) {
			continue
		}
		var counts [13]int
		found := false
		now := time.Now()
		for _, v := range d.Column(col) {
			if t, ok := scalar.ParseDateAt(v, now); ok {
				counts[t.Month()]++
				found = true
			}
		}
		if !found {
			b.log.Debug("travel date column has no dates", zap.String("column", col))
			continue
		}
		var items []stats.CategoryCount
		var months []int
		for m := 1; m <= 12; m++ {
			if counts[m] > 0 {
				months = append(months, m)
			}
		}
		sort.SliceStable(months, func(i, j int) bool { return counts[months[i]] > counts[months[j]] })
		for _, m := range months {
			if b.opt.MonthlyTopN > 0 && len(items) >= b.opt.MonthlyTopN {
				break
			}
			items = append(items, stats.CategoryCount{Name: monthLabel(time.Month(m)), Count: counts[m]})
		}
		return Component{
			Type: TypeMonthlyDistribution, Title: "월별 여행일자 분포", Source: col,
			Icon: "calendar", Color: "orange", Data: items,
		}, true
	}
	return Component{}, false
}

func monthLabel(m time.Month) string { return fmt.Sprintf("%d월", int(m)) }

// peakLabel appends the already formatted peak date to a month label.
func peakLabel(month string, peak stats.DayCount) string {
	if peak.Date == "" || peak.Date == stats.NotAvailable {
		return month
	}
	return fmt.Sprintf("%s (%s)", month, peak.Date)
}

func nonNil(c []stats.CategoryCount) []stats.CategoryCount {
	if c == nil {
		return []stats.CategoryCount{}
	}
	return c
}
