package errors

import (
	"strings"
	"unicode"
)

// ValidatePadding validates the fractional padding arguments of a text
// layout call. Padding fractions shrink the usable span, so the left and
// right fractions together must leave room for at least one token.
//
// The validation rules are:
//   - No negative fractions
//   - left + right must be strictly below 1 (the whole span)
//
// Validation runs before any token is measured or drawn, so a failing call
// leaves no partial layout behind.
func ValidatePadding(left, right, top float64) error {
	if left < 0 {
		return New(ErrCodeInvalidArgument, "left padding must be non-negative: %g", left)
	}
	if right < 0 {
		return New(ErrCodeInvalidArgument, "right padding must be non-negative: %g", right)
	}
	if top < 0 {
		return New(ErrCodeInvalidArgument, "top padding must be non-negative: %g", top)
	}
	if left+right >= 1 {
		return New(ErrCodeInvalidArgument, "left and right padding consume the whole span: %g + %g >= 1", left, right)
	}
	return nil
}

// ValidateDocumentName validates a stored document name for safety.
// Names become store keys and file names, so they must be simple:
//
//   - Not empty, at most 256 characters
//   - No control characters or null bytes
//   - No path separators or traversal sequences
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDocument, "document name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidDocument, "document name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDocument, "document name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidDocument, "document name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateFontName validates a font family or file name before it is handed
// to the system font resolver. It ensures the name is a simple identifier,
// not a path.
func ValidateFontName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidArgument, "font name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidArgument, "font name cannot contain path separators")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "font name contains invalid control characters")
		}
	}

	return nil
}
