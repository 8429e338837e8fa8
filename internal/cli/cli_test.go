package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/scrapbook/internal/config"
	"github.com/matzehuels/scrapbook/pkg/board"
	"github.com/matzehuels/scrapbook/pkg/core/render"
)

// setupEnv points every XDG location at a fresh temp dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv(config.EnvRedisAddr, "")
	t.Setenv(config.EnvMongoURI, "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeItems(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "shelf.json")
	data := `[
  {"id": "dune", "type": "book", "title": "Dune"},
  {"id": "blue", "type": "album", "title": "Kind of Blue"},
  {"id": "alien", "type": "movie", "title": "Alien"}
]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"json", []string{"json"}},
		{"SVG, png", []string{"svg", "png"}},
		{"svg,,pdf,", []string{"svg", "pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input string
		single        bool
		want          string
	}{
		{"", "shelf.toml", true, "shelf"},
		{"", "dir/shelf.json", false, "dir/shelf"},
		{"", "-", true, "scrapbook"},
		{"out.svg", "shelf.toml", true, "out.svg"},
		{"out.svg", "shelf.toml", false, "out"},
		{"out.tar", "shelf.toml", false, "out.tar"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input, tt.single); got != tt.want {
			t.Errorf("basePath(%q, %q, %v) = %q, want %q", tt.output, tt.input, tt.single, got, tt.want)
		}
	}
}

func TestPackToFiles(t *testing.T) {
	dir := setupEnv(t)
	items := writeItems(t, dir)
	base := filepath.Join(dir, "out", "shelf")

	if _, err := runCLI(t, "pack", items, "-f", "json,svg", "-o", base, "--columns", "3"); err != nil {
		t.Fatalf("pack: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg output is not an SVG document")
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	view, err := render.ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Rows) != 1 || len(view.Tiles()) != 3 {
		t.Errorf("got %d rows, %d tiles; want 1 row of 3", len(view.Rows), len(view.Tiles()))
	}
}

func TestPackToStdout(t *testing.T) {
	dir := setupEnv(t)
	items := writeItems(t, dir)

	out, err := runCLI(t, "pack", items, "-f", "json", "--columns", "2", "--no-cache")
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	view, err := render.ParseJSON([]byte(out))
	if err != nil {
		t.Fatalf("stdout is not a JSON view: %v", err)
	}
	if len(view.Rows) != 2 {
		t.Errorf("got %d rows, want 2", len(view.Rows))
	}
}

func TestPackErrors(t *testing.T) {
	dir := setupEnv(t)
	items := writeItems(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"columns out of range", []string{"pack", items, "--columns", "12"}},
		{"unknown policy", []string{"pack", items, "--policy", "masonry"}},
		{"unknown format", []string{"pack", items, "-f", "gif"}},
		{"missing file", []string{"pack", filepath.Join(dir, "nope.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestBoardCommands(t *testing.T) {
	dir := setupEnv(t)
	ctx := context.Background()

	if _, err := runCLI(t, "board", "new", "Watchlist", "--columns", "3"); err != nil {
		t.Fatalf("board new: %v", err)
	}
	store, err := board.NewFileStore(filepath.Join(dir, "config", "scrapbook", "boards"))
	if err != nil {
		t.Fatal(err)
	}
	boards, err := store.List(ctx)
	if err != nil || len(boards) != 1 {
		t.Fatalf("List = %d boards, %v; want 1", len(boards), err)
	}
	id := boards[0].ID
	if boards[0].Columns != 3 {
		t.Errorf("Columns = %d, want 3", boards[0].Columns)
	}

	steps := [][]string{
		{"board", "add", id, "dune", "--type", "book", "--title", "Dune"},
		{"board", "add", id, "alien", "--type", "movie", "--ratio", "16:9"},
		{"board", "add", id, "blue", "--type", "album"},
		{"board", "move", id, "blue", "dune"},
		{"board", "caption", id, "dune", "re-read"},
		{"board", "remove", id, "alien"},
		{"board", "set", id, "--policy", "chimney", "--title", "Shelf"},
	}
	for _, args := range steps {
		if _, err := runCLI(t, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	b, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := b.IDs(), []string{"blue", "dune"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs = %v, want %v", got, want)
	}
	if it, _ := b.Item("dune"); it.Caption != "re-read" {
		t.Errorf("caption = %q", it.Caption)
	}
	if b.Title != "Shelf" || b.Policy != "chimney" {
		t.Errorf("settings = %q %q", b.Title, b.Policy)
	}

	out, err := runCLI(t, "board", "show", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Shelf") || !strings.Contains(out, "dune") {
		t.Errorf("show output missing board details:\n%s", out)
	}

	exported := filepath.Join(dir, "shelf.toml")
	if _, err := runCLI(t, "board", "export", id, "-o", exported); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := runCLI(t, "board", "delete", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, id); err == nil {
		t.Fatal("board still present after delete")
	}
	if _, err := runCLI(t, "board", "import", exported); err != nil {
		t.Fatalf("import: %v", err)
	}
	b, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("imported board: %v", err)
	}
	if len(b.Items) != 2 {
		t.Errorf("imported %d items, want 2", len(b.Items))
	}
}

func TestBoardCommandErrors(t *testing.T) {
	dir := setupEnv(t)
	store, err := board.NewFileStore(filepath.Join(dir, "config", "scrapbook", "boards"))
	if err != nil {
		t.Fatal(err)
	}
	b := board.New("Errors")
	if err := b.Add(itemFixture("dune")); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), b); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"duplicate item", []string{"board", "add", b.ID, "dune"}},
		{"bad ratio", []string{"board", "add", b.ID, "x", "--ratio", "0"}},
		{"columns out of range", []string{"board", "set", b.ID, "--columns", "9"}},
		{"unknown board", []string{"board", "show", "missing"}},
		{"unknown item", []string{"board", "remove", b.ID, "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCachePath(t *testing.T) {
	dir := setupEnv(t)
	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", "scrapbook"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}
