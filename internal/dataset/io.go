package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a delimited-text file format.
type Format int

const (
	CSV Format = iota
	TSV
)

// Delimiter returns the field separator of the format.
func (f Format) Delimiter() rune {
	if f == TSV {
		return '\t'
	}
	return ','
}

func (f Format) String() string {
	if f == TSV {
		return "tsv"
	}
	return "csv"
}

// FormatFromPath infers the format from a .csv or .tsv extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, true
	case ".tsv":
		return TSV, true
	}
	return CSV, false
}

// ParseError reports a malformed input table.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ReadFile reads a .csv or .tsv file.
func ReadFile(path string) (*Dataset, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported extension, expected .csv or .tsv", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input table: %w", err)
	}
	defer f.Close()

	d, err := Read(f, format)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return d, nil
}

// Read parses a delimited table whose first record is the header.
func Read(r io.Reader, format Format) (*Dataset, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = format.Delimiter()
	cr.FieldsPerRecord = -1
	if format == TSV {
		cr.LazyQuotes = true
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Line: 1, Message: "no header line found"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{
				Line:    line,
				Message: fmt.Sprintf("expected %d columns, found %d", len(header), len(rec)),
			}
		}
		rows = append(rows, rec)
	}

	d, err := New(header, rows)
	if err != nil {
		return nil, &ParseError{Line: 1, Message: err.Error()}
	}
	return d, nil
}

// WriteFile writes a dataset as .csv or .tsv, chosen by extension.
func WriteFile(path string, d *Dataset) error {
	format, ok := FormatFromPath(path)
	if !ok {
		return fmt.Errorf("%s: unsupported extension, expected .csv or .tsv", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output table: %w", err)
	}
	if err := Write(f, d, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes the header and every row.
func Write(w io.Writer, d *Dataset, format Format) error {
	cw := csv.NewWriter(w)
	cw.Comma = format.Delimiter()

	if err := cw.Write(d.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range d.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
