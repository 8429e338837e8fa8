package board

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/scrapbook/pkg/core/grid"
	"github.com/matzehuels/scrapbook/pkg/core/media"
	"github.com/matzehuels/scrapbook/pkg/errors"
)

const handWritten = `
title = "Consoles"
policy = "chimney"

[[items]]
id = "zelda"
type = "game"
title = "Breath of the Wild"

[[items]]
id = "panorama"
type = "custom"
aspect_ratio = 3.0
`

func TestLoadHandWrittenTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consoles.toml")
	if err := os.WriteFile(path, []byte(handWritten), 0600); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b.ID == "" || b.Title != "Consoles" {
		t.Errorf("board = %+v", b)
	}
	if b.Columns != DefaultColumns || b.MinRows != DefaultMinRows || b.Policy != grid.PolicyChimney {
		t.Errorf("settings = %d/%d/%s", b.Columns, b.MinRows, b.Policy)
	}
	if !slices.Equal(b.IDs(), []string{"zelda", "panorama"}) {
		t.Errorf("IDs() = %v", b.IDs())
	}
	if b.Items[0].Type != media.TypeGame {
		t.Errorf("type = %q", b.Items[0].Type)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			b := New("roundtrip")
			_ = b.Add(media.Item{ID: "a", Type: media.TypeAlbum, Caption: "on repeat"})
			_ = b.Add(media.Item{ID: "b", Type: media.TypeCustom, AspectRatio: media.Ratio(1.25)})
			_ = b.SetColumns(3)

			path := filepath.Join(t.TempDir(), "board"+ext)
			if err := Save(path, b); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got.ID != b.ID || got.Columns != 3 || !slices.Equal(got.IDs(), b.IDs()) {
				t.Errorf("Load() = %+v", got)
			}
			if !got.CreatedAt.Equal(b.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, b.CreatedAt)
			}
			if got.Items[0].Caption != "on repeat" || *got.Items[1].AspectRatio != 1.25 {
				t.Errorf("items = %+v", got.Items)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"title":"x","columns":20}`), 0600)

	tests := []struct {
		path string
		code errors.Code
	}{
		{filepath.Join(dir, "board.yaml"), errors.ErrCodeInvalidPath},
		{filepath.Join(dir, "missing.toml"), errors.ErrCodeFileNotFound},
		{bad, errors.ErrCodeInvalidColumns},
	}
	for _, tt := range tests {
		if _, err := Load(tt.path); !errors.Is(err, tt.code) {
			t.Errorf("Load(%s) error = %v, want %s", filepath.Base(tt.path), err, tt.code)
		}
	}
}
