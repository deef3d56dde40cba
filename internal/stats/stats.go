// Package stats computes per-period statistics over a dataset slice.
package stats

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
	"github.com/KaramelBytes/sheetbrief/internal/keyword"
	"github.com/KaramelBytes/sheetbrief/internal/normalize"
	"github.com/KaramelBytes/sheetbrief/internal/scalar"
	"github.com/KaramelBytes/sheetbrief/internal/schema"
)

// NotAvailable labels the peak day when no date could be read.
const NotAvailable = "N/A"

var weekdayNames = [...]string{"월", "화", "수", "목", "금", "토", "일"}

// Limits caps the sizes of the lists in PeriodStats. A negative cap means
// unlimited.
type Limits struct {
	MaxDaily    int
	MaxCategory int
	// SummaryPool is how many keywords are extracted; SummaryItems how many
	// of them become summary lines.
	SummaryPool  int
	SummaryItems int
}

// DefaultLimits returns the standard caps.
func DefaultLimits() Limits {
	return Limits{MaxDaily: 10, MaxCategory: 5, SummaryPool: 5, SummaryItems: 4}
}

// CategoryCount is one value of a categorical distribution.
type CategoryCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// DayCount is a day bucket. Date is the display label; Day is the ISO key.
type DayCount struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
	Day   string `json:"-" yaml:"-"`
}

// Distribution is the ranked value split of one categorical column.
type Distribution struct {
	Column string          `json:"column" yaml:"column"`
	Top    []CategoryCount `json:"top" yaml:"top"`
	Others []CategoryCount `json:"others" yaml:"others"`
}

// PeriodStats is an immutable snapshot of one period.
type PeriodStats struct {
	TotalCount    int            `json:"total_count" yaml:"total_count"`
	PeakDay       DayCount       `json:"peak_day" yaml:"peak_day"`
	Daily         []DayCount     `json:"daily_list" yaml:"daily_list"`
	Distributions []Distribution `json:"distributions" yaml:"distributions"`
	Summary       []string       `json:"summary_items" yaml:"summary_items"`
}

// Distribution returns the distribution of col, if computed.
func (p *PeriodStats) Distribution(col string) (Distribution, bool) {
	if p == nil {
		return Distribution{}, false
	}
	for _, d := range p.Distributions {
		if d.Column == col {
			return d, true
		}
	}
	return Distribution{}, false
}

// Calculator computes PeriodStats. It holds no per-call state.
type Calculator struct {
	norm   *normalize.Normalizer
	ext    *keyword.Extractor
	limits Limits
	log    *zap.Logger
}

// New builds a Calculator. Nil dependencies select package defaults.
func New(norm *normalize.Normalizer, ext *keyword.Extractor, limits Limits, log *zap.Logger) *Calculator {
	if norm == nil {
		norm = normalize.Default()
	}
	if ext == nil {
		ext = keyword.New(nil, norm, keyword.DefaultRules())
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{norm: norm, ext: ext, limits: limits, log: log}
}

// Compute returns statistics for the slice d using the roles in cols, or nil
// when d has no rows.
func (c *Calculator) Compute(d *dataset.Dataset, cols schema.ColumnSchema) *PeriodStats {
	if d.Len() == 0 {
		return nil
	}
	ps := &PeriodStats{
		TotalCount: d.Len(),
		PeakDay:    DayCount{Date: NotAvailable},
		Daily:      []DayCount{},
		Summary:    []string{},
	}
	if cols.DateColumn != "" && d.Has(cols.DateColumn) {
		ps.PeakDay, ps.Daily = c.days(d.Column(cols.DateColumn))
	}
	ps.Distributions = c.distributions(d, cols.CategoricalColumns)
	if cols.TextColumn != "" && d.Has(cols.TextColumn) {
		for _, kw := range c.Keywords(d, cols.TextColumn, c.limits.SummaryPool) {
			if len(ps.Summary) >= c.limits.SummaryItems {
				break
			}
			ps.Summary = append(ps.Summary, fmt.Sprintf("[%s] %d건", kw.Name, kw.Count))
		}
	}
	return ps
}

// Keywords extracts the top n phrases from the non-null values of col.
func (c *Calculator) Keywords(d *dataset.Dataset, col string, n int) []keyword.KeywordCount {
	var texts []string
	for _, v := range d.Column(col) {
		if v == nil {
			continue
		}
		texts = append(texts, scalar.String(v))
	}
	return c.ext.Extract(texts, n)
}

type bucket struct {
	key   string
	t     time.Time
	count int
}

func (c *Calculator) days(values []any) (DayCount, []DayCount) {
	now := time.Now()
	index := map[string]int{}
	var buckets []bucket
	for _, v := range values {
		t, ok := scalar.ParseDateAt(v, now)
		if !ok {
			continue
		}
		key := t.Format("2006-01-02")
		i, seen := index[key]
		if !seen {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, bucket{key: key, t: t})
		}
		buckets[i].count++
	}
	if len(buckets) == 0 {
		return DayCount{Date: NotAvailable}, []DayCount{}
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].count > buckets[j].count })

	top := buckets[0]
	peak := DayCount{Date: fmt.Sprintf("%d월 %d일", top.t.Month(), top.t.Day()), Count: top.count, Day: top.key}
	n := len(buckets)
	if c.limits.MaxDaily >= 0 && n > c.limits.MaxDaily {
		n = c.limits.MaxDaily
	}
	daily := make([]DayCount, 0, n)
	for _, b := range buckets[:n] {
		daily = append(daily, DayCount{
			Date:  fmt.Sprintf("%d월 %d일 (%s)", b.t.Month(), b.t.Day(), WeekdayName(b.t)),
			Count: b.count,
			Day:   b.key,
		})
	}
	return peak, daily
}

// WeekdayName returns the short Monday-first weekday name of t.
func WeekdayName(t time.Time) string {
	return weekdayNames[(int(t.Weekday())+6)%7]
}

func (c *Calculator) distributions(d *dataset.Dataset, cols []string) []Distribution {
	out := make([]Distribution, len(cols))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, col := range cols {
		g.Go(func() error {
			out[i] = c.distribution(d, col)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// distribution counts normalized values of col. Equal counts keep the order
// of first appearance.
func (c *Calculator) distribution(d *dataset.Dataset, col string) Distribution {
	dist := Distribution{Column: col, Top: []CategoryCount{}, Others: []CategoryCount{}}
	if !d.Has(col) {
		return dist
	}
	index := map[string]int{}
	var counts []CategoryCount
	for _, v := range d.Column(col) {
		name := c.norm.Normalize(strings.TrimSpace(scalar.String(v)))
		i, ok := index[name]
		if !ok {
			i = len(counts)
			index[name] = i
			counts = append(counts, CategoryCount{Name: name})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	k := len(counts)
	if c.limits.MaxCategory >= 0 && k > c.limits.MaxCategory {
		k = c.limits.MaxCategory
	}
	dist.Top = append(dist.Top, counts[:k]...)
	dist.Others = append(dist.Others, counts[k:]...)
	return dist
}
