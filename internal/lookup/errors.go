package lookup

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrValidation marks errors caused by bad caller input.
	ErrValidation = errors.New("invalid input")
	// ErrTablesNotFound marks a species without lookup tables.
	ErrTablesNotFound = errors.New("lookup tables not found")
)

// ValidationError reports input rejected before any table I/O.
type ValidationError struct {
	Field      string
	Value      string
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (try %q)", e.Suggestion)
	}
	return msg
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TablesNotFoundError reports a species with no lookup tables on disk.
type TablesNotFoundError struct {
	Species string
	Dir     string
}

func (e *TablesNotFoundError) Error() string {
	return fmt.Sprintf("no lookup tables for species %q in %s; build them with: tcrconvert build <reference-dir> --species %s",
		e.Species, e.Dir, e.Species)
}

// Is makes errors.Is(err, ErrTablesNotFound) match.
func (e *TablesNotFoundError) Is(target error) bool {
	return target == ErrTablesNotFound
}

// CollisionError reports two IMGT names that collapse to the same 10X name
// and allele. It indicates bad reference data.
type CollisionError struct {
	TenX   string
	Allele string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("reference data error: %q and %q both map to 10X name %q with allele %q",
		e.First, e.Second, e.TenX, e.Allele)
}
