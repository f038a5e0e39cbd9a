package convert

import (
	"fmt"
	"strings"

	"github.com/inodb/tcrconvert/internal/lookup"
)

// Segment is the gene segment a column holds.
type Segment int

const (
	SegmentV Segment = iota
	SegmentD
	SegmentJ
	SegmentC

	// SegmentUnknown marks a column given without a role.
	SegmentUnknown Segment = -1
)

// Segments returns every segment in V, D, J, C order.
func Segments() []Segment {
	return []Segment{SegmentV, SegmentD, SegmentJ, SegmentC}
}

func (s Segment) String() string {
	switch s {
	case SegmentV:
		return "V"
	case SegmentD:
		return "D"
	case SegmentJ:
		return "J"
	case SegmentC:
		return "C"
	case SegmentUnknown:
		return "?"
	}
	return fmt.Sprintf("Segment(%d)", int(s))
}

// ParseSegment parses "v", "d", "j" or "c", case-insensitively.
func ParseSegment(s string) (Segment, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "V":
		return SegmentV, nil
	case "D":
		return SegmentD, nil
	case "J":
		return SegmentJ, nil
	case "C":
		return SegmentC, nil
	}
	return 0, &lookup.ValidationError{
		Field:   "column role",
		Value:   s,
		Message: "must be one of v, d, j, c",
	}
}

// Column is a dataset column holding gene names of one segment.
type Column struct {
	Segment Segment
	Name    string
}

// ColumnSet is an ordered set of gene columns, at most one per segment.
type ColumnSet []Column

// Names returns the column names in order.
func (cs ColumnSet) Names() []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

// Name returns the column for segment s, or "".
func (cs ColumnSet) Name(s Segment) string {
	for _, c := range cs {
		if c.Segment == s {
			return c.Name
		}
	}
	return ""
}

// ParseColumnSet parses column arguments. Arguments are either all plain
// column names, whose segment is left unknown, or all role-qualified
// ("v=myV"). An empty argument list yields an empty set.
func ParseColumnSet(args []string) (ColumnSet, error) {
	var cleaned []string
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			cleaned = append(cleaned, a)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	if len(cleaned) > len(Segments()) {
		return nil, &lookup.ValidationError{
			Field:   "columns",
			Value:   strings.Join(cleaned, ","),
			Message: fmt.Sprintf("at most %d gene columns (V, D, J, C) can be given", len(Segments())),
		}
	}

	qualified := 0
	for _, a := range cleaned {
		if strings.Contains(a, "=") {
			qualified++
		}
	}
	if qualified != 0 && qualified != len(cleaned) {
		return nil, &lookup.ValidationError{
			Field:   "columns",
			Value:   strings.Join(cleaned, ","),
			Message: "mix of positional and role=name columns",
		}
	}

	cs := make(ColumnSet, 0, len(cleaned))
	for _, a := range cleaned {
		col := Column{Segment: SegmentUnknown, Name: a}
		if qualified > 0 {
			role, name, _ := strings.Cut(a, "=")
			seg, err := ParseSegment(role)
			if err != nil {
				return nil, err
			}
			col = Column{Segment: seg, Name: strings.TrimSpace(name)}
			if col.Name == "" {
				return nil, &lookup.ValidationError{Field: "columns", Value: a, Message: "empty column name"}
			}
		}
		cs = append(cs, col)
	}

	if err := cs.validate(); err != nil {
		return nil, err
	}
	return cs, nil
}

func (cs ColumnSet) validate() error {
	segs := make(map[Segment]bool, len(cs))
	names := make(map[string]bool, len(cs))
	for _, c := range cs {
		if c.Segment != SegmentUnknown && segs[c.Segment] {
			return &lookup.ValidationError{
				Field:   "columns",
				Value:   c.Name,
				Message: fmt.Sprintf("segment %s given more than once", c.Segment),
			}
		}
		if names[c.Name] {
			return &lookup.ValidationError{
				Field:   "columns",
				Value:   c.Name,
				Message: "column given more than once",
			}
		}
		segs[c.Segment] = true
		names[c.Name] = true
	}
	return nil
}

// defaultColumns are the column names each platform exports. Adaptive
// exports have no C column.
var defaultColumns = map[lookup.Convention][]string{
	lookup.IMGT:       {"v_gene", "d_gene", "j_gene", "c_gene"},
	lookup.TenX:       {"v_gene", "d_gene", "j_gene", "c_gene"},
	lookup.Adaptive:   {"v_resolved", "d_resolved", "j_resolved"},
	lookup.AdaptiveV2: {"vMaxResolved", "dMaxResolved", "jMaxResolved"},
}

// DefaultColumns returns the gene columns of a convention's usual export
// format. IMGT has none of its own and uses the 10X names.
func DefaultColumns(c lookup.Convention) ColumnSet {
	names := defaultColumns[c]
	cs := make(ColumnSet, len(names))
	for i, n := range names {
		cs[i] = Column{Segment: Segment(i), Name: n}
	}
	return cs
}
