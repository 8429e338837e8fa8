package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"

	"github.com/matzehuels/scrapbook/pkg/core/media"
	"github.com/matzehuels/scrapbook/pkg/errors"
)

// itemsFile is the TOML shape of an items list: a sequence of [[items]] tables.
type itemsFile struct {
	Items []media.Item `toml:"items" json:"items"`
}

// ReadItems decodes an items list. JSON input may be a bare array or an
// object with an "items" key; TOML input uses [[items]] tables. format is
// "json" or "toml"; empty means sniff from the content.
func ReadItems(r io.Reader, format string) ([]media.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = sniffFormat(data)
	}

	var f itemsFile
	switch format {
	case "json":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err = json.Unmarshal(trimmed, &f.Items)
		} else {
			err = json.Unmarshal(trimmed, &f)
		}
	case "toml":
		_, err = toml.Decode(string(data), &f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported items format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s items", format)
	}
	if err := ValidateItems(f.Items); err != nil {
		return nil, err
	}
	return f.Items, nil
}

// FormatFromPath returns "json" or "toml" from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	}
	return ""
}

func sniffFormat(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' && !bytes.HasPrefix(trimmed, []byte("[[")) || trimmed[0] == '{') {
		return "json"
	}
	return "toml"
}

// ItemsSummary returns a one-line description used in log output.
func ItemsSummary(items []media.Item) string {
	counts := make(map[media.Type]int)
	for _, it := range items {
		counts[it.Type]++
	}
	var parts []string
	for _, t := range []media.Type{media.TypeMovie, media.TypeTV, media.TypeBook, media.TypeAlbum, media.TypeGame, media.TypePodcast, media.TypeCustom} {
		if n := counts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, t))
			delete(counts, t)
		}
	}
	other := 0
	for _, n := range counts {
		other += n
	}
	if other > 0 {
		parts = append(parts, fmt.Sprintf("%d other", other))
	}
	if len(parts) == 0 {
		return "no items"
	}
	return strings.Join(parts, ", ")
}
