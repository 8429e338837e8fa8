package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "6f1c2a9e-4b7d-4c1e-9a51-0d3e5f7a8b9c", false},
		{"slug", "dune-1965", false},
		{"with dots", "v1.2", false},
		{"unicode", "mädchen", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
		{"space", "two words", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "..", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"toml", "boards/shelf.toml", false},
		{"json", "shelf.json", false},
		{"upper ext", "SHELF.TOML", false},
		{"absolute", "/tmp/shelf.toml", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600) + ".toml", true},
		{"null byte", "foo\x00.toml", true},
		{"newline", "foo\n.toml", true},
		{"yaml", "shelf.yaml", true},
		{"no ext", "shelf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://covers.example.org/dune.jpg", false},
		{"http://localhost:8080/a.png", false},
		{"", true},
		{"ftp://example.org/a.png", true},
		{"javascript:alert(1)", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidColumns,
		ErrCodeInvalidMinRows,
		ErrCodeInvalidPolicy,
		ErrCodeInvalidRatio,
		ErrCodeInvalidFormat,
		ErrCodeInvalidID,
		ErrCodeInvalidPath,
		ErrCodeDuplicateItem,
		ErrCodeNotFound,
		ErrCodeBoardNotFound,
		ErrCodeItemNotFound,
		ErrCodeFileNotFound,
		ErrCodeStore,
		ErrCodeCache,
		ErrCodeTimeout,
		ErrCodeRateLimited,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
