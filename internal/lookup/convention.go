// Package lookup holds the gene-name translation tables and builds them
// from a list of IMGT names.
package lookup

import (
	"fmt"
	"strings"
)

// Convention is a TCR gene naming convention.
type Convention string

// Supported conventions. The string values are the lookup table column names.
const (
	IMGT       Convention = "imgt"
	TenX       Convention = "tenx"
	Adaptive   Convention = "adaptive"
	AdaptiveV2 Convention = "adaptivev2"
)

// Conventions returns all conventions in table column order.
func Conventions() []Convention {
	return []Convention{IMGT, TenX, Adaptive, AdaptiveV2}
}

// ParseConvention parses a convention name. Matching is case-insensitive and
// accepts "10x" and "adaptive_v2" as aliases.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "imgt":
		return IMGT, nil
	case "tenx", "10x":
		return TenX, nil
	case "adaptive":
		return Adaptive, nil
	case "adaptivev2", "adaptive_v2":
		return AdaptiveV2, nil
	}
	return "", &ValidationError{
		Field:   "convention",
		Value:   s,
		Message: fmt.Sprintf("must be one of %s", strings.Join(conventionNames(), ", ")),
	}
}

// Label returns the display name of the convention.
func (c Convention) Label() string {
	switch c {
	case IMGT:
		return "IMGT"
	case TenX:
		return "10X"
	case Adaptive:
		return "Adaptive"
	case AdaptiveV2:
		return "Adaptive v2"
	}
	return string(c)
}

// IsAdaptive reports whether c is one of the Adaptive conventions.
func (c Convention) IsAdaptive() bool {
	return c == Adaptive || c == AdaptiveV2
}

// Valid reports whether c is a supported convention.
func (c Convention) Valid() bool {
	switch c {
	case IMGT, TenX, Adaptive, AdaptiveV2:
		return true
	}
	return false
}

func conventionNames() []string {
	names := make([]string, 0, 4)
	for _, c := range Conventions() {
		names = append(names, string(c))
	}
	return names
}
