package errors

import (
	"strings"
	"unicode"
)

// ValidateRouterID validates an OSPF router or network identifier for safety.
// Identifiers come straight out of untrusted text dumps and end up in file
// names, HTML attributes, and store keys, so the rules are conservative:
//   - No empty identifiers
//   - No control characters
//   - No path traversal sequences
//   - Maximum length of 256 characters
//
// Dotted-quad format is not enforced here; malformed but harmless IDs are
// still rendered (as ghost-adjacent nodes) rather than rejected outright.
func ValidateRouterID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "identifier contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
