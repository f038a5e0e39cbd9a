// Package diag collects non-fatal data-quality diagnostics.
//
// Every entry is recorded regardless of level; only entries at or above
// the minimum level are forwarded to the logger.
package diag

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Level is a diagnostic severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel parses "debug", "info" or "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	}
	return LevelInfo, fmt.Errorf("unknown diagnostic level %q", s)
}

// Code identifies the kind of diagnostic.
type Code string

const (
	CodeAlleleAssumed       Code = "allele_assumed"
	CodeCustomColumns       Code = "custom_columns"
	CodeDefaultColumns      Code = "default_columns"
	CodeColumnAbsent        Code = "column_absent"
	CodeConstantUnsupported Code = "constant_unsupported"
	CodeUnmapped            Code = "unmapped"
	CodeColumnSkipped       Code = "column_skipped"
	CodeRenameSkipped       Code = "rename_skipped"
)

// Entry is one diagnostic.
type Entry struct {
	Level   Level
	Code    Code
	Message string
	Column  string   // set for per-column diagnostics
	Values  []string // gene names or column names the message refers to
}

// Diagnostics records entries and forwards them to a logger.
type Diagnostics struct {
	entries []Entry
	min     Level
	logger  *zap.Logger
}

// New creates diagnostics that forward entries at or above min to logger.
// A nil logger forwards nothing.
func New(logger *zap.Logger, min Level) *Diagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diagnostics{min: min, logger: logger}
}

// Discard returns diagnostics that record entries without logging them.
func Discard() *Diagnostics {
	return New(nil, LevelWarn)
}

// SetMinLevel changes the forwarding threshold.
func (d *Diagnostics) SetMinLevel(l Level) {
	d.min = l
}

// Add records e and logs it if its level passes the filter.
func (d *Diagnostics) Add(e Entry) {
	d.entries = append(d.entries, e)
	if e.Level < d.min {
		return
	}

	fields := []zap.Field{zap.String("code", string(e.Code))}
	if e.Column != "" {
		fields = append(fields, zap.String("column", e.Column))
	}
	if len(e.Values) > 0 {
		fields = append(fields, zap.Strings("values", e.Values))
	}

	switch e.Level {
	case LevelDebug:
		d.logger.Debug(e.Message, fields...)
	case LevelInfo:
		d.logger.Info(e.Message, fields...)
	default:
		d.logger.Warn(e.Message, fields...)
	}
}

// Entries returns all recorded entries in order.
func (d *Diagnostics) Entries() []Entry {
	return d.entries
}

// ByCode returns the recorded entries with the given code.
func (d *Diagnostics) ByCode(c Code) []Entry {
	var out []Entry
	for _, e := range d.entries {
		if e.Code == c {
			out = append(out, e)
		}
	}
	return out
}

// Has reports whether an entry with the given code was recorded.
func (d *Diagnostics) Has(c Code) bool {
	return len(d.ByCode(c)) > 0
}

// Unmapped returns the gene names that could not be converted.
func (d *Diagnostics) Unmapped() []string {
	var out []string
	for _, e := range d.ByCode(CodeUnmapped) {
		out = append(out, e.Values...)
	}
	return out
}

// Skipped returns the columns left unchanged because nothing in them matched.
func (d *Diagnostics) Skipped() []string {
	var out []string
	for _, e := range d.ByCode(CodeColumnSkipped) {
		out = append(out, e.Column)
	}
	return out
}
