package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds component and node identifiers.
const maxNameLength = 256

// reservedChars separates the core fields of a netlist line from its hints.
const reservedChars = ";"

// ValidateName validates a component or node identifier so that it survives a
// serialize/parse round trip.
//
// The validation rules:
//   - No empty names
//   - No whitespace or control characters
//   - No hint separator ;
//   - Maximum length of 256 characters
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "%s name too long (max %d characters)", kind, maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s name %q contains whitespace or control characters", kind, name)
		}
	}

	if i := strings.IndexAny(name, reservedChars); i >= 0 {
		return New(ErrCodeInvalidInput, "%s name %q contains reserved character %q", kind, name, name[i])
	}

	return nil
}

// ValidateSymbol validates an explicit display symbol. Symbols are free-form
// markup but must stay a single netlist field.
func ValidateSymbol(symbol string) error {
	for _, r := range symbol {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "symbol %q contains whitespace or control characters", symbol)
		}
	}
	if strings.Contains(symbol, ";") {
		return New(ErrCodeInvalidInput, "symbol %q contains reserved character ';'", symbol)
	}
	return nil
}
