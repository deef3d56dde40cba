// Package parser loads tabular input files into datasets.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/KaramelBytes/sheetbrief/internal/dataset"
)

// Table is a loaded input. Year, Month and Kind are report defaults carried
// by a JSON request envelope; they are zero when the input has none.
type Table struct {
	Name  string
	Data  *dataset.Dataset
	Year  int
	Month int
	Kind  string
}

// Options selects the part of a file to load.
type Options struct {
	// SheetName picks a workbook sheet, case-insensitively.
	SheetName string
	// SheetIndex is 1-based and used when SheetName is empty.
	SheetIndex int
}

// Loader defines an input format implementation.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no loader handles the file's extension.
var ErrUnsupported = errors.New("unsupported input format")

// LoadFile selects a loader based on the file extension.
func LoadFile(path string, opt Options) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			t, err := l.Load(path, opt)
			if err != nil {
				return nil, err
			}
			if t.Name == "" {
				t.Name = filepath.Base(path)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (use .csv, .tsv, .xlsx or .json)", ErrUnsupported, filepath.Base(path))
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(jsonLoader{})
}

var (
	plainNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)
	// monthDot matches month.day spellings such as 3.14 or 12.25.
	monthDot = regexp.MustCompile(`^(0?[1-9]|1[0-2])\.(0?[1-9]|[12][0-9]|3[01])$`)
)

// cellValue types a text cell: blank cells are missing and plain decimal
// numbers become float64. Month.day values and everything else stay strings;
// numeric consumers coerce them with scalar.ToNumber.
func cellValue(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if plainNumber.MatchString(t) && !monthDot.MatchString(t) {
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return s
}

func textTable(header []string, rows [][]string) *dataset.Dataset {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		row := make([]any, len(r))
		for i, c := range r {
			row[i] = cellValue(c)
		}
		vals = append(vals, row)
	}
	return dataset.FromTable(header, vals)
}
