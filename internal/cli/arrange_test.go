package cli

import (
	"context"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/scrapbook/pkg/board"
	"github.com/matzehuels/scrapbook/pkg/core/media"
	"github.com/matzehuels/scrapbook/pkg/core/reorder"
	"github.com/matzehuels/scrapbook/pkg/core/render"
	"github.com/matzehuels/scrapbook/pkg/core/viewport"
)

func itemFixture(id string) media.Item {
	return media.Item{ID: id, Type: media.TypeMovie, Title: strings.ToUpper(id)}
}

// newTestArrange returns a model over a four-movie board sized to an 80x23
// terminal, and a pointer to the number of saves.
func newTestArrange(t *testing.T) (*arrangeModel, *int) {
	t.Helper()
	b := board.New("Watchlist")
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := b.Add(itemFixture(id)); err != nil {
			t.Fatal(err)
		}
	}
	saves := 0
	m := newArrangeModel(context.Background(), b, func(*board.Board) error { saves++; return nil }, viewport.Immediate{})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 23})
	return m, &saves
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cellOf returns the terminal cell at the center of a tile.
func cellOf(tile render.Tile) (int, int) {
	return int(tile.CenterX()), int(tile.CenterY()/cellAspect) + headerLines
}

func TestArrangeResize(t *testing.T) {
	m, _ := newTestArrange(t)
	if got := len(m.view.Tiles()); got != 4 {
		t.Fatalf("got %d tiles, want 4", got)
	}
	if m.dims.Width != 80 || m.dims.Height != 40 {
		t.Errorf("dims = %+v, want 80x40", m.dims)
	}

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 13})
	for _, tile := range m.view.Tiles() {
		if tile.Right() > 40+1e-9 {
			t.Errorf("tile %s overflows the resized width: right=%v", tile.ID, tile.Right())
		}
	}
}

func TestArrangeKeyboardReorder(t *testing.T) {
	m, saves := newTestArrange(t)

	m.Update(key("enter"))
	if m.ctrl.State() == reorder.Idle {
		t.Fatal("enter should pick up the focused tile")
	}
	m.Update(key("right"))
	m.Update(key("enter"))

	if got, want := m.board.IDs(), []string{"b", "a", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs = %v, want %v", got, want)
	}
	if *saves != 1 || m.moves != 1 {
		t.Errorf("saves = %d, moves = %d; want 1, 1", *saves, m.moves)
	}
}

func TestArrangeMouseReorder(t *testing.T) {
	m, saves := newTestArrange(t)
	tiles := m.view.Tiles()
	ax, ay := cellOf(tiles[0])
	cx, cy := cellOf(tiles[2])

	m.Update(tea.MouseMsg{X: ax, Y: ay, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: cx, Y: cy, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if !m.view.Rows[0].Tiles[2].Over {
		t.Error("hovered tile should be marked as drop target")
	}
	m.Update(tea.MouseMsg{X: cx, Y: cy, Action: tea.MouseActionRelease})

	if got, want := m.board.IDs(), []string{"b", "c", "a", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs = %v, want %v", got, want)
	}
	if *saves != 1 {
		t.Errorf("saves = %d, want 1", *saves)
	}
}

func TestArrangeClickDoesNotReorder(t *testing.T) {
	m, saves := newTestArrange(t)
	x, y := cellOf(m.view.Tiles()[1])

	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})

	if got, want := m.board.IDs(), []string{"a", "b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs = %v, want %v", got, want)
	}
	if *saves != 0 {
		t.Errorf("saves = %d, want 0", *saves)
	}
}

func TestArrangeLayoutChangeCancelsDrag(t *testing.T) {
	m, saves := newTestArrange(t)

	m.Update(key("enter"))
	m.Update(key("+"))

	if m.ctrl.State() != reorder.Idle {
		t.Error("changing columns should cancel the drag")
	}
	if m.board.Columns != 5 {
		t.Errorf("Columns = %d, want 5", m.board.Columns)
	}
	if !strings.Contains(m.status, "cancelled") {
		t.Errorf("status = %q", m.status)
	}
	if *saves != 1 {
		t.Errorf("saves = %d, want 1", *saves)
	}
}

func TestArrangeSettingsKeys(t *testing.T) {
	m, _ := newTestArrange(t)

	m.Update(key("p"))
	if m.board.Policy != "chimney" {
		t.Errorf("Policy = %q, want chimney", m.board.Policy)
	}
	m.Update(key("-"))
	if m.board.Columns != 3 {
		t.Errorf("Columns = %d, want 3", m.board.Columns)
	}

	for range 6 {
		m.Update(key("+"))
	}
	if m.board.Columns != 8 {
		t.Errorf("Columns = %d, want capped at 8", m.board.Columns)
	}
	if m.status == "" {
		t.Error("out of range column change should report an error")
	}
}

func TestArrangeQuit(t *testing.T) {
	m, _ := newTestArrange(t)

	m.Update(key("enter"))
	if _, cmd := m.Update(key("esc")); cmd != nil {
		t.Error("esc while dragging should cancel, not quit")
	}
	if m.ctrl.State() != reorder.Idle {
		t.Error("esc should cancel the drag")
	}
	if _, cmd := m.Update(key("esc")); cmd == nil {
		t.Error("esc while idle should quit")
	}
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestArrangeView(t *testing.T) {
	m, _ := newTestArrange(t)
	view := m.View()

	if !strings.Contains(view, "Watchlist") {
		t.Error("view should show the board title")
	}
	for _, label := range []string{"A", "B", "C", "D"} {
		if !strings.Contains(view, label) {
			t.Errorf("view missing tile %s", label)
		}
	}
	if got := strings.Count(view, "╭"); got != 4 {
		t.Errorf("drew %d tiles, want 4", got)
	}
}

func TestCanvasText(t *testing.T) {
	cv := newCanvas(6, 1)
	cv.text(0, 0, 4, "scrapbook", 0)
	if got := strings.TrimRight(cv.String(), " \n"); got != "scr…" {
		t.Errorf("canvas = %q, want %q", got, "scr…")
	}
}
