package board

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"

	"github.com/matzehuels/scrapbook/pkg/errors"
)

// Load reads a board from a .toml or .json file. Missing settings take the
// defaults, so a hand-written file only needs a title and [[items]].
func Load(path string) (*Board, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "board file %s", path)
		}
		return nil, fmt.Errorf("read board file: %w", err)
	}
	return Decode(data, formatOf(path))
}

// Decode parses a board in "toml" or "json" format and validates it.
func Decode(data []byte, format string) (*Board, error) {
	var b Board
	var err error
	switch format {
	case "toml":
		_, err = toml.Decode(string(data), &b)
	case "json":
		err = json.Unmarshal(data, &b)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported board format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s board", format)
	}
	b.setDefaults()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Save writes a board to path, choosing TOML or JSON from the extension.
func Save(path string, b *Board) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := Encode(b, formatOf(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write board file: %w", err)
	}
	return nil
}

// Encode serializes a board in "toml" or "json" format.
func Encode(b *Board, format string) ([]byte, error) {
	switch format {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(b); err != nil {
			return nil, fmt.Errorf("encode toml board: %w", err)
		}
		return buf.Bytes(), nil
	case "json":
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json board: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported board format %q", format)
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
