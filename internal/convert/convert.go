// Package convert rewrites gene-name columns of a dataset from one naming
// convention to another using a species' lookup tables.
package convert

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/tcrconvert/internal/dataset"
	"github.com/inodb/tcrconvert/internal/diag"
	"github.com/inodb/tcrconvert/internal/genename"
	"github.com/inodb/tcrconvert/internal/lookup"
	"github.com/inodb/tcrconvert/internal/store"
)

// TableSource loads a species' lookup table.
type TableSource interface {
	Load(species string, kind lookup.Kind) (*lookup.Table, error)
}

// Request describes one conversion.
type Request struct {
	From    lookup.Convention
	To      lookup.Convention
	Species string
	// Columns overrides the source convention's default gene columns.
	Columns ColumnSet
	// Rename renames converted columns to the target convention's
	// default names where that does not clash with an existing column.
	Rename bool
}

// Converter converts datasets between naming conventions.
type Converter struct {
	tables TableSource
	joiner Joiner
	logger *zap.Logger
}

// New creates a converter reading tables from src and joining in memory.
func New(src TableSource) *Converter {
	return &Converter{
		tables: src,
		joiner: MemoryJoiner{},
		logger: zap.NewNop(),
	}
}

// SetJoiner replaces the join engine.
func (c *Converter) SetJoiner(j Joiner) {
	c.joiner = j
}

// SetLogger sets the logger for debug output.
func (c *Converter) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SelectTable picks the lookup table for a conversion, along with notes
// about alleles that will be assumed.
func SelectTable(from, to lookup.Convention) (lookup.Kind, []diag.Entry) {
	switch {
	case from == lookup.TenX:
		return lookup.KindTenX, []diag.Entry{{
			Level:   diag.LevelInfo,
			Code:    diag.CodeAlleleAssumed,
			Message: "Converting from 10X which lacks allele info. Choosing *01 as allele for all genes.",
		}}
	case from.IsAdaptive():
		var notes []diag.Entry
		if to == lookup.IMGT {
			notes = append(notes, diag.Entry{
				Level:   diag.LevelInfo,
				Code:    diag.CodeAlleleAssumed,
				Message: "Converting from Adaptive to IMGT. Using *01 for genes lacking alleles.",
			})
		}
		return lookup.KindAdaptive, notes
	}
	return lookup.KindIMGT, nil
}

// LoadTable loads a species' table of the given kind.
func (c *Converter) LoadTable(species string, kind lookup.Kind) (*lookup.Table, error) {
	if err := store.ValidateSpecies(species); err != nil {
		return nil, err
	}
	t, err := c.tables.Load(species, kind)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("loaded lookup table",
		zap.String("species", species),
		zap.Stringer("kind", kind),
		zap.Int("rows", t.Len()))
	return t, nil
}

// ResolveColumns returns the gene columns to convert. Explicit columns
// must all exist in the dataset. Otherwise the source convention's
// default columns that are present are used.
func ResolveColumns(ds *dataset.Dataset, from lookup.Convention, explicit ColumnSet, d *diag.Diagnostics) (ColumnSet, error) {
	if len(explicit) > 0 {
		var missing []string
		for _, col := range explicit {
			if !ds.HasColumn(col.Name) {
				missing = append(missing, col.Name)
			}
		}
		if len(missing) > 0 {
			return nil, &lookup.ValidationError{
				Field:   "columns",
				Value:   strings.Join(missing, ","),
				Message: "not found in input data",
			}
		}
		d.Add(diag.Entry{
			Level:   diag.LevelInfo,
			Code:    diag.CodeCustomColumns,
			Message: fmt.Sprintf("Using custom column names: %v", explicit.Names()),
			Values:  explicit.Names(),
		})
		return explicit, nil
	}

	defaults := DefaultColumns(from)
	if from == lookup.IMGT {
		d.Add(diag.Entry{
			Level:   diag.LevelWarn,
			Code:    diag.CodeDefaultColumns,
			Message: fmt.Sprintf("No column names for IMGT data. Using 10X columns: %v", defaults.Names()),
			Values:  defaults.Names(),
		})
	}

	var present ColumnSet
	for _, col := range defaults {
		if !ds.HasColumn(col.Name) {
			d.Add(diag.Entry{
				Level:   diag.LevelDebug,
				Code:    diag.CodeColumnAbsent,
				Message: "default column not in input data",
				Column:  col.Name,
			})
			continue
		}
		present = append(present, col)
	}
	if len(present) == 0 {
		return nil, &lookup.ValidationError{
			Field:   "columns",
			Value:   strings.Join(defaults.Names(), ","),
			Message: fmt.Sprintf("none of the default %s columns are in the input data; name the gene columns explicitly", from.Label()),
		}
	}
	return present, nil
}

func (c *Converter) validate(ds *dataset.Dataset, req Request) error {
	for _, conv := range []lookup.Convention{req.From, req.To} {
		if !conv.Valid() {
			return &lookup.ValidationError{
				Field:   "convention",
				Value:   string(conv),
				Message: "unsupported naming convention",
			}
		}
	}
	if req.From == req.To {
		return &lookup.ValidationError{
			Field:   "to",
			Value:   string(req.To),
			Message: "source and target conventions must differ",
		}
	}
	if ds == nil || ds.Len() == 0 {
		return &lookup.ValidationError{
			Field:   "dataset",
			Value:   "",
			Message: "input data has no rows",
		}
	}
	return store.ValidateSpecies(req.Species)
}

// Convert returns a copy of ds with its gene columns converted. Input is
// validated before any table is read. Values that cannot be converted
// become missing and are reported once as an unmapped diagnostic. A column
// in which no value converts is left unchanged and reported as skipped.
func (c *Converter) Convert(ds *dataset.Dataset, req Request, d *diag.Diagnostics) (*dataset.Dataset, error) {
	if d == nil {
		d = diag.Discard()
	}
	if err := c.validate(ds, req); err != nil {
		return nil, err
	}

	cols, err := ResolveColumns(ds, req.From, req.Columns, d)
	if err != nil {
		return nil, err
	}

	kind, notes := SelectTable(req.From, req.To)
	for _, n := range notes {
		d.Add(n)
	}
	if req.To.IsAdaptive() {
		d.Add(diag.Entry{
			Level:   diag.LevelInfo,
			Code:    diag.CodeConstantUnsupported,
			Message: "Adaptive only captures VDJ genes, any C genes will become missing.",
		})
	}

	table, err := c.LoadTable(req.Species, kind)
	if err != nil {
		return nil, err
	}

	out := ds.Clone()
	unmapped := make(map[string]bool)
	var converted ColumnSet
	for _, col := range cols {
		ok, err := c.convertColumn(out, col.Name, table, req, unmapped, d)
		if err != nil {
			return nil, err
		}
		if ok {
			converted = append(converted, col)
		}
	}

	if len(unmapped) > 0 {
		values := make([]string, 0, len(unmapped))
		for v := range unmapped {
			values = append(values, v)
		}
		sort.Strings(values)
		d.Add(diag.Entry{
			Level:   diag.LevelWarn,
			Code:    diag.CodeUnmapped,
			Message: "These genes are not in IMGT for this species and will be replaced with missing values",
			Values:  values,
		})
	}

	if req.Rename {
		renameColumns(out, converted, req.To, d)
	}
	return out, nil
}

// convertColumn rewrites one column in place. It reports false when the
// column was skipped because none of its values converted.
func (c *Converter) convertColumn(ds *dataset.Dataset, name string, table *lookup.Table, req Request, unmapped map[string]bool, d *diag.Diagnostics) (bool, error) {
	values := ds.Column(name)
	keys := make([]string, len(values))
	present := 0
	for i, v := range values {
		if dataset.IsMissing(v) {
			continue
		}
		keys[i] = strings.TrimSpace(v)
		present++
	}

	matches, err := c.joiner.Join(table, req.From, req.To, keys)
	if err != nil {
		return false, fmt.Errorf("join column %q: %w", name, err)
	}

	found := 0
	for i, m := range matches {
		if keys[i] != "" && m.Found {
			found++
		}
	}
	if present > 0 && found == 0 {
		d.Add(diag.Entry{
			Level:   diag.LevelWarn,
			Code:    diag.CodeColumnSkipped,
			Message: fmt.Sprintf("No values in column %q are %s gene names; leaving it unchanged", name, req.From.Label()),
			Column:  name,
		})
		return false, nil
	}

	var columnUnmapped []string
	for i, m := range matches {
		switch {
		case keys[i] == "":
			values[i] = dataset.Missing
		case !m.Found:
			values[i] = dataset.Missing
			if !unmapped[keys[i]] {
				columnUnmapped = append(columnUnmapped, keys[i])
			}
			unmapped[keys[i]] = true
		case m.Value == genename.NoData:
			values[i] = dataset.Missing
		default:
			values[i] = m.Value
		}
	}

	c.logger.Debug("converted column",
		zap.String("column", name),
		zap.Int("values", present),
		zap.Int("matched", found),
		zap.Strings("unmapped", columnUnmapped))
	return true, ds.SetColumn(name, values)
}

// renameColumns gives converted columns the target convention's default
// names. Columns given without a role take the segment their converted
// genes share; a column whose genes disagree keeps its name.
func renameColumns(ds *dataset.Dataset, cols ColumnSet, to lookup.Convention, d *diag.Diagnostics) {
	targets := DefaultColumns(to)
	for _, col := range cols {
		seg := col.Segment
		if seg == SegmentUnknown {
			seg = inferSegment(ds.Column(col.Name))
		}
		if seg == SegmentUnknown {
			level := diag.LevelWarn
			if allMissing(ds.Column(col.Name)) {
				level = diag.LevelDebug
			}
			d.Add(diag.Entry{
				Level:   level,
				Code:    diag.CodeRenameSkipped,
				Message: fmt.Sprintf("Cannot tell which gene segment column %q holds; keeping its name", col.Name),
				Column:  col.Name,
			})
			continue
		}

		target := targets.Name(seg)
		if target == "" || target == col.Name || ds.HasColumn(target) {
			continue
		}
		ds.Columns[ds.ColumnIndex(col.Name)] = target
	}
}

// inferSegment returns the segment shared by every non-missing gene name,
// or SegmentUnknown when there is none or they differ.
func inferSegment(values []string) Segment {
	var letter byte
	for _, v := range values {
		if dataset.IsMissing(v) {
			continue
		}
		l := genename.SegmentLetter(v)
		if l == 0 || (letter != 0 && l != letter) {
			return SegmentUnknown
		}
		letter = l
	}
	if letter == 0 {
		return SegmentUnknown
	}
	seg, err := ParseSegment(string(letter))
	if err != nil {
		return SegmentUnknown
	}
	return seg
}

func allMissing(values []string) bool {
	for _, v := range values {
		if !dataset.IsMissing(v) {
			return false
		}
	}
	return true
}
