package lookup

import "fmt"

// Kind identifies one of the three lookup tables.
type Kind int

const (
	// KindIMGT is keyed by IMGT name, one row per allele.
	KindIMGT Kind = iota
	// KindTenX is keyed by 10X name, one representative allele per name.
	KindTenX
	// KindAdaptive is keyed by Adaptive name, with and without allele.
	KindAdaptive
)

// Kinds returns every table kind.
func Kinds() []Kind {
	return []Kind{KindIMGT, KindTenX, KindAdaptive}
}

// FileName returns the CSV file name of the table.
func (k Kind) FileName() string {
	switch k {
	case KindTenX:
		return "lookup_from_tenx.csv"
	case KindAdaptive:
		return "lookup_from_adaptive.csv"
	}
	return "lookup.csv"
}

// Columns returns the table's column order, which is also its CSV header.
func (k Kind) Columns() []Convention {
	switch k {
	case KindTenX:
		return []Convention{TenX, IMGT, Adaptive, AdaptiveV2}
	case KindAdaptive:
		return []Convention{Adaptive, AdaptiveV2, IMGT, TenX}
	}
	return []Convention{IMGT, TenX, Adaptive, AdaptiveV2}
}

func (k Kind) String() string {
	switch k {
	case KindIMGT:
		return "imgt"
	case KindTenX:
		return "tenx"
	case KindAdaptive:
		return "adaptive"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Record holds one gene name in every convention.
type Record struct {
	IMGT       string
	TenX       string
	Adaptive   string
	AdaptiveV2 string
}

// Get returns the name in convention c.
func (r Record) Get(c Convention) string {
	switch c {
	case IMGT:
		return r.IMGT
	case TenX:
		return r.TenX
	case Adaptive:
		return r.Adaptive
	case AdaptiveV2:
		return r.AdaptiveV2
	}
	return ""
}

// Table is an ordered list of records.
type Table struct {
	Kind    Kind
	Records []Record
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Records)
}

// Index maps each value of column from to the value of column to in the
// first row carrying it.
func (t *Table) Index(from, to Convention) map[string]string {
	idx := make(map[string]string, len(t.Records))
	for _, r := range t.Records {
		key := r.Get(from)
		if _, ok := idx[key]; ok {
			continue
		}
		idx[key] = r.Get(to)
	}
	return idx
}

// TableSet is the three tables built from one reference release.
type TableSet struct {
	IMGT     *Table
	TenX     *Table
	Adaptive *Table
}

// Table returns the table of the given kind.
func (s *TableSet) Table(k Kind) *Table {
	switch k {
	case KindTenX:
		return s.TenX
	case KindAdaptive:
		return s.Adaptive
	}
	return s.IMGT
}
