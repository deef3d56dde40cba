// Package schema classifies dataset columns into date, text and
// categorical roles.
package schema

import (
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
	"github.com/KaramelBytes/sheetbrief/internal/scalar"
)

// ColumnSchema is the detected role assignment. Empty names mean absent.
type ColumnSchema struct {
	DateColumn         string   `json:"dateColumn,omitempty" yaml:"date_column,omitempty"`
	TextColumn         string   `json:"textualColumn,omitempty" yaml:"text_column,omitempty"`
	CategoricalColumns []string `json:"categoricalColumns" yaml:"categorical_columns"`
}

// Options controls detection thresholds.
type Options struct {
	// DateMinRatio is the minimum share of parseable values for a date column.
	DateMinRatio float64
	// TextMinAvgLength is the minimum mean length, in code points, of a text column.
	TextMinAvgLength float64
	// PreferredDate and PreferredText are tried in order before any content scan.
	PreferredDate []string
	PreferredText []string
	Logger        *zap.Logger
}

// DefaultOptions returns the standard thresholds and preferred names.
func DefaultOptions() Options {
	return Options{
		DateMinRatio:     0.5,
		TextMinAvgLength: 20,
		PreferredDate:    []string{"날짜", "date", "일자", "접수일", "작성일"},
		PreferredText:    []string{"문의 내용", "content", "내용", "설명", "description", "메모"},
	}
}

// Detect assigns column roles. An empty dataset yields an empty schema.
//
// Equal date ratios or text lengths resolve to the column that comes first in
// the dataset.
func Detect(d *dataset.Dataset, opt Options) ColumnSchema {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if d.Empty() {
		return ColumnSchema{CategoricalColumns: []string{}}
	}
	cols := d.Columns()

	date := firstPresent(d, opt.PreferredDate, "")
	if date == "" {
		ratios := DateRatios(d)
		best := -1.0
		for i, c := range cols {
			if ratios[i] > 0 && ratios[i] >= opt.DateMinRatio && ratios[i] > best {
				best, date = ratios[i], c
			}
		}
		log.Debug("date column by content", zap.String("column", date), zap.Float64("ratio", best))
	}

	text := firstPresent(d, opt.PreferredText, date)
	if text == "" {
		best := -1.0
		for _, c := range cols {
			if c == date {
				continue
			}
			avg, ok := meanTextLength(d.Column(c))
			if ok && avg >= opt.TextMinAvgLength && avg > best {
				best, text = avg, c
			}
		}
		log.Debug("text column by content", zap.String("column", text), zap.Float64("avg_len", best))
	}

	out := ColumnSchema{DateColumn: date, TextColumn: text, CategoricalColumns: make([]string, 0, len(cols))}
	for _, c := range cols {
		if c != date && c != text {
			out.CategoricalColumns = append(out.CategoricalColumns, c)
		}
	}
	return out
}

// DateRatios returns, per column in dataset order, the share of rows whose
// value parses as a date. Columns are scanned in parallel.
func DateRatios(d *dataset.Dataset) []float64 {
	cols := d.Columns()
	ratios := make([]float64, len(cols))
	if d.Len() == 0 {
		return ratios
	}
	now := time.Now()
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range cols {
		g.Go(func() error {
			ok := 0
			for _, v := range d.Column(c) {
				if _, parsed := scalar.ParseDateAt(v, now); parsed {
					ok++
				}
			}
			ratios[i] = float64(ok) / float64(d.Len())
			return nil
		})
	}
	_ = g.Wait()
	return ratios
}

func firstPresent(d *dataset.Dataset, names []string, exclude string) string {
	for _, n := range names {
		if n != exclude && d.Has(n) {
			return n
		}
	}
	return ""
}

// meanTextLength averages the rendered length of non-null values. Columns
// without a single string value are not text candidates.
func meanTextLength(values []any) (float64, bool) {
	hasString := false
	var lengths []float64
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			hasString = true
			lengths = append(lengths, float64(utf8.RuneCountInString(s)))
			continue
		}
		lengths = append(lengths, float64(utf8.RuneCountInString(scalar.String(v))))
	}
	if !hasString {
		return 0, false
	}
	m, err := stats.Mean(lengths)
	if err != nil {
		return 0, false
	}
	return m, true
}
