// Package dataset holds an in-memory table of loosely typed records.
//
// Column names are trimmed of surrounding whitespace. When two keys of one
// record trim to the same name the first occurrence is kept and later ones
// are ignored. Column order is the order in which names are first seen,
// scanning records top to bottom and fields left to right.
package dataset

import "strings"

// Field is one named cell of a record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered list of fields. Missing names read as nil.
type Record []Field

// Dataset is an immutable row-major table.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New builds a Dataset from records.
func New(records []Record) *Dataset {
	d := &Dataset{index: make(map[string]int)}
	for _, rec := range records {
		row := make([]any, len(d.columns), len(d.columns)+len(rec))
		seen := make(map[string]struct{}, len(rec))
		for _, f := range rec {
			name := strings.TrimSpace(f.Name)
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			i, ok := d.index[name]
			if !ok {
				i = len(d.columns)
				d.index[name] = i
				d.columns = append(d.columns, name)
				row = append(row, nil)
			}
			row[i] = f.Value
		}
		d.rows = append(d.rows, row)
	}
	return d
}

// FromTable builds a Dataset from a header row and positional rows. Rows
// shorter than the header are padded with nil; extra cells are dropped.
func FromTable(header []string, rows [][]any) *Dataset {
	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		rec := make(Record, 0, len(header))
		for i, h := range header {
			var v any
			if i < len(r) {
				v = r[i]
			}
			rec = append(rec, Field{Name: h, Value: v})
		}
		records = append(records, rec)
	}
	d := New(records)
	if len(rows) == 0 {
		for _, h := range header {
			name := strings.TrimSpace(h)
			if _, ok := d.index[name]; !ok {
				d.index[name] = len(d.columns)
				d.columns = append(d.columns, name)
			}
		}
	}
	return d
}

// Columns returns the column names in first-seen order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Empty reports whether the dataset has no rows or no columns.
func (d *Dataset) Empty() bool {
	return d.Len() == 0 || len(d.columns) == 0
}

// Has reports whether col is a known column.
func (d *Dataset) Has(col string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[col]
	return ok
}

// Value returns the cell at row i for col, or nil.
func (d *Dataset) Value(i int, col string) any {
	j, ok := d.index[col]
	if !ok || i < 0 || i >= len(d.rows) {
		return nil
	}
	if row := d.rows[i]; j < len(row) {
		return row[j]
	}
	return nil
}

// Column returns a copy of all values of col in row order. Unknown columns
// yield nil.
func (d *Dataset) Column(col string) []any {
	if !d.Has(col) {
		return nil
	}
	out := make([]any, len(d.rows))
	for i := range d.rows {
		out[i] = d.Value(i, col)
	}
	return out
}

// Filter returns a new Dataset with the rows for which keep returns true.
// The column set is unchanged.
func (d *Dataset) Filter(keep func(i int) bool) *Dataset {
	out := &Dataset{columns: d.columns, index: d.index}
	for i, r := range d.rows {
		if keep(i) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}
