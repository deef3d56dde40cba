// Package analysis profiles a dataset column by column: inferred kind,
// missingness, numeric spread with robust outliers, and frequent values.
package analysis

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
	"github.com/KaramelBytes/sheetbrief/internal/scalar"
	"github.com/KaramelBytes/sheetbrief/internal/schema"
)

// Options controls profiling behavior.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// TopValues caps the frequent values listed per categorical column.
	TopValues int
	// OutlierThreshold is the robust |z| (MAD based) above which a value counts as an outlier.
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopValues: 5, OutlierThreshold: 3.5}
}

// Column kinds.
const (
	KindNumeric     = "numeric"
	KindDatetime    = "datetime"
	KindText        = "text"
	KindCategorical = "categorical"
	KindUnknown     = "unknown"
)

// Report is a markdown-friendly profile of a dataset.
type Report struct {
	Name    string              `json:"name"`
	Rows    int                 `json:"rows"`
	Schema  schema.ColumnSchema `json:"schema"`
	Cols    []ColumnSummary     `json:"columns"`
	Samples [][]string          `json:"samples"`
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Role    string `json:"role"`
	NonNull int    `json:"non_null"`
	Missing int    `json:"missing"`
	Unique  int    `json:"unique"`
	// Numeric stats
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Mean float64 `json:"mean,omitempty"`
	Std  float64 `json:"std,omitempty"`
	// Outliers (robust Z via MAD)
	OutliersCount   int     `json:"outliers,omitempty"`
	OutliersMaxAbsZ float64 `json:"outliers_max_abs_z,omitempty"`
	// Categorical top values
	TopValues    []CategoryCount `json:"top_values,omitempty"`
	ExampleTexts []string        `json:"examples,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Profile summarizes every column of d. Roles come from sch.
func Profile(name string, d *dataset.Dataset, sch schema.ColumnSchema, opt Options) *Report {
	rep := &Report{Name: name, Rows: d.Len(), Schema: sch}
	cols := d.Columns()
	rep.Cols = make([]ColumnSummary, len(cols))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, col := range cols {
		g.Go(func() error {
			rep.Cols[i] = summarize(col, d.Column(col), sch, opt)
			return nil
		})
	}
	_ = g.Wait()

	n := opt.SampleRows
	if n > d.Len() {
		n = d.Len()
	}
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = scalar.String(d.Value(i, col))
		}
		rep.Samples = append(rep.Samples, row)
	}
	return rep
}

func summarize(name string, values []any, sch schema.ColumnSchema, opt Options) ColumnSummary {
	c := ColumnSummary{Name: name, Role: role(name, sch)}
	var nums []float64
	dates := 0
	index := map[string]int{}
	var counts []CategoryCount
	for _, v := range values {
		if scalar.IsNull(v) {
			c.Missing++
			continue
		}
		c.NonNull++
		if f, ok := numberOf(v); ok {
			nums = append(nums, f)
		}
		if _, ok := scalar.ParseDate(v); ok {
			dates++
		}
		s := strings.TrimSpace(scalar.String(v))
		i, seen := index[s]
		if !seen {
			i = len(counts)
			index[s] = i
			counts = append(counts, CategoryCount{Value: s})
			if len(c.ExampleTexts) < 3 {
				c.ExampleTexts = append(c.ExampleTexts, s)
			}
		}
		counts[i].Count++
	}
	c.Unique = len(counts)

	switch {
	case c.NonNull == 0:
		c.Kind = KindUnknown
	case len(nums) == c.NonNull:
		c.Kind = KindNumeric
		numeric(&c, nums, opt.OutlierThreshold)
	case dates*2 >= c.NonNull:
		c.Kind = KindDatetime
	case name == sch.TextColumn:
		c.Kind = KindText
	default:
		c.Kind = KindCategorical
		sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
		k := len(counts)
		if opt.TopValues >= 0 && k > opt.TopValues {
			k = opt.TopValues
		}
		c.TopValues = counts[:k]
	}
	if c.Kind != KindText {
		c.ExampleTexts = nil
	}
	return c
}

// numberOf accepts typed numbers and formatted numeric strings such as
// "1,200" or "▲3%". Strings containing letters are not numbers.
func numberOf(v any) (float64, bool) {
	if s, ok := v.(string); ok && strings.IndexFunc(s, unicode.IsLetter) >= 0 {
		return 0, false
	}
	return scalar.ToNumber(v)
}

func numeric(c *ColumnSummary, nums []float64, threshold float64) {
	data := stats.Float64Data(nums)
	c.Min, _ = stats.Min(data)
	c.Max, _ = stats.Max(data)
	c.Mean, _ = stats.Mean(data)
	if len(nums) > 1 {
		c.Std, _ = stats.StandardDeviationSample(data)
	}
	if threshold <= 0 {
		return
	}
	median, err := stats.Median(data)
	if err != nil {
		return
	}
	mad, err := stats.MedianAbsoluteDeviation(data)
	if err != nil || mad == 0 {
		return
	}
	for _, x := range nums {
		z := math.Abs(0.6745 * (x - median) / mad)
		if z > threshold {
			c.OutliersCount++
			if z > c.OutliersMaxAbsZ {
				c.OutliersMaxAbsZ = z
			}
		}
	}
}

func role(name string, sch schema.ColumnSchema) string {
	switch name {
	case sch.DateColumn:
		return "date"
	case sch.TextColumn:
		return "text"
	}
	return "categorical"
}

// Markdown renders a compact profile suitable for review or standalone docs.
func (r *Report) Markdown(threshold float64) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[ROLES]\n")
	b.WriteString(fmt.Sprintf("- date: %s\n", orNone(r.Schema.DateColumn)))
	b.WriteString(fmt.Sprintf("- text: %s\n", orNone(r.Schema.TextColumn)))
	b.WriteString(fmt.Sprintf("- categorical: %s\n\n", orNone(strings.Join(r.Schema.CategoricalColumns, ", "))))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		missPct := 0.0
		if total := c.NonNull + c.Missing; total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case KindNumeric:
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if threshold > 0 && c.OutliersCount > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f (max |z|≈%.2f)", c.OutliersCount, threshold, c.OutliersMaxAbsZ))
			}
		case KindCategorical:
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case KindText:
			if len(c.ExampleTexts) > 0 {
				b.WriteString("; e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(truncate(ex, 40)))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n|")
		for range r.Cols {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(truncate(val, 80)))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
