package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxIDLength bounds board and item identifiers.
const MaxIDLength = 128

// ValidateID validates a board or item identifier for safety.
// IDs end up in file names and URLs, so they are kept conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of MaxIDLength characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "id contains invalid characters: %q", id)
		}
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "id cannot contain path separators: %q", id)
	}
	return nil
}

// ValidatePath validates a board file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Extension must be .toml or .json
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".json":
		return nil
	}
	return New(ErrCodeInvalidPath, "unsupported file type %q (want .toml or .json)", filepath.Ext(path))
}

// ValidateURL validates a cover URL.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
