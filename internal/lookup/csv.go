package lookup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// WriteCSV writes the table with its header row.
func WriteCSV(w io.Writer, t *Table) error {
	cols := t.Kind.Columns()
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = string(c)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(cols))
	for _, r := range t.Records {
		for i, c := range cols {
			row[i] = r.Get(c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s row: %w", t.Kind, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table of the given kind. The header must match the
// kind's column order exactly.
func ReadCSV(r io.Reader, kind Kind) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(kind.Columns())
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("read %s table: missing header", kind)
		}
		return nil, fmt.Errorf("read %s table header: %w", kind, err)
	}

	cols := kind.Columns()
	for i, c := range cols {
		if strings.TrimPrefix(header[i], "\ufeff") != string(c) {
			return nil, fmt.Errorf("read %s table: column %d is %q, expected %q", kind, i+1, header[i], c)
		}
	}

	t := &Table{Kind: kind}
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s table: %w", kind, err)
		}

		var rec Record
		for i, c := range cols {
			set(&rec, c, fields[i])
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func set(r *Record, c Convention, v string) {
	switch c {
	case IMGT:
		r.IMGT = v
	case TenX:
		r.TenX = v
	case Adaptive:
		r.Adaptive = v
	case AdaptiveV2:
		r.AdaptiveV2 = v
	}
}
