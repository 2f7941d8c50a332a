package schematic

import (
	"unicode"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when an operation names a component that does
	// not exist.
	ErrNotFound = errors.New("schematic: component not found")

	// ErrDuplicateIdentifier is returned when an add or rename would give two
	// components the same identifier.
	ErrDuplicateIdentifier = errors.New("schematic: duplicate identifier")

	// ErrInvalid is returned for malformed identifiers or parameters.
	ErrInvalid = errors.New("schematic: invalid component")
)

// ValidID reports whether s can be used as a component identifier: a non
// empty run of printable characters without spaces, quotes, parentheses,
// semicolons or dots (the dot separates component and pin names).
func ValidID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
		switch r {
		case '(', ')', '"', ';', '.', '\\':
			return false
		}
	}
	return true
}
