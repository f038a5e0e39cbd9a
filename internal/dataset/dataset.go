// Package dataset provides an in-memory table of named string columns and
// its CSV/TSV codec.
package dataset

import (
	"fmt"
	"strings"
)

// Missing is the value written for cells without data.
const Missing = ""

// missingValues are read as missing, matching common spreadsheet and
// dataframe exports.
var missingValues = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"None": true,
	"null": true,
}

// IsMissing reports whether a cell value denotes missing data.
func IsMissing(v string) bool {
	return missingValues[strings.TrimSpace(v)]
}

// Dataset is a table of rows with named columns. Every row has one value
// per column.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// New creates a dataset, checking that column names are unique and rows
// have one value per column.
func New(columns []string, rows [][]string) (*Dataset, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i+1, len(row), len(columns))
		}
	}
	return &Dataset{Columns: columns, Rows: rows}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of a column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the dataset has a column.
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// Column returns a copy of a column's values, or nil if it does not exist.
func (d *Dataset) Column(name string) []string {
	i := d.ColumnIndex(name)
	if i < 0 {
		return nil
	}
	out := make([]string, len(d.Rows))
	for r, row := range d.Rows {
		out[r] = row[i]
	}
	return out
}

// SetColumn replaces a column's values. values must have one entry per row.
func (d *Dataset) SetColumn(name string, values []string) error {
	i := d.ColumnIndex(name)
	if i < 0 {
		return fmt.Errorf("no column %q", name)
	}
	if len(values) != len(d.Rows) {
		return fmt.Errorf("column %q: got %d values for %d rows", name, len(values), len(d.Rows))
	}
	for r, v := range values {
		d.Rows[r][i] = v
	}
	return nil
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([][]string, len(d.Rows)),
	}
	for i, row := range d.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
