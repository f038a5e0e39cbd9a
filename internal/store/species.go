package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/inodb/tcrconvert/internal/lookup"
)

// reservedChars cannot appear in a directory name on at least one of the
// platforms tables are stored on.
const reservedChars = `<>:"/\|?*`

// reservedNames are device names Windows refuses as file names.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// ValidateSpecies checks that a species label can be used as a directory
// name. The returned *lookup.ValidationError carries a sanitized suggestion.
func ValidateSpecies(species string) error {
	msg := ""
	switch {
	case strings.TrimSpace(species) == "":
		msg = "must not be empty"
	case species == "." || species == "..":
		msg = "must not be a relative path element"
	case strings.ContainsAny(species, reservedChars) || hasControl(species):
		msg = "must not contain any of " + reservedChars + " or control characters"
	case strings.HasSuffix(species, ".") || strings.HasSuffix(species, " "):
		msg = "must not end with a dot or space"
	case reservedNames[strings.ToUpper(species)]:
		msg = "is a reserved file name"
	default:
		return nil
	}

	return &lookup.ValidationError{
		Field:      "species",
		Value:      species,
		Message:    msg,
		Suggestion: SanitizeSpecies(species),
	}
}

// SanitizeSpecies returns a usable species label close to the given one.
func SanitizeSpecies(species string) string {
	s := norm.NFKC.String(species)

	var b strings.Builder
	for _, r := range s {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(reservedChars, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), " .")
	if out == "" {
		return "species"
	}
	if reservedNames[strings.ToUpper(out)] {
		out += "_"
	}
	return out
}

func hasControl(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}
