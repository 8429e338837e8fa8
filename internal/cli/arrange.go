package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scrapbook/pkg/board"
	"github.com/matzehuels/scrapbook/pkg/core/grid"
	"github.com/matzehuels/scrapbook/pkg/core/reorder"
	"github.com/matzehuels/scrapbook/pkg/core/render"
	"github.com/matzehuels/scrapbook/pkg/core/viewport"
)

// Terminal geometry. Layout runs in units where a cell is one unit wide and
// cellAspect units tall, so covers keep roughly their real proportions.
const (
	cellAspect  = 2.0
	tileGap     = 1.0
	headerLines = 1
	footerLines = 2
)

// terminalActivation starts a mouse drag after one cell of movement.
var terminalActivation = reorder.Activation{Distance: 1}

// Arrange styles
var (
	styleTileFocus = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleTileOver  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleTileHeld  = lipgloss.NewStyle().Foreground(colorDim).Faint(true)
)

// arrangeCommand creates the interactive arrange command.
func (c *CLI) arrangeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "arrange <board>",
		Short: "Reorder a board interactively in the terminal",
		Long: `Arrange shows a board as a grid of tiles. Drag tiles with the mouse, or use
the arrow keys to move focus, enter to pick up and enter again to drop.

Every drop is saved immediately.

Keys:
  ←↑↓→ / hjkl   move focus or drop target
  enter, space  pick up / drop
  esc           cancel drag (quit when idle)
  + / -         more / fewer columns
  p             toggle layout policy
  q             quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store board.Store) error {
				b, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				save := func(b *board.Board) error { return store.Put(ctx, b) }

				sched := &programScheduler{}
				m := newArrangeModel(ctx, b, save, sched)
				defer m.Close()

				p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
				sched.send = p.Send
				if _, err := p.Run(); err != nil {
					return err
				}
				if m.err != nil {
					return m.err
				}
				if m.moves > 0 {
					printSuccess("Saved %s (%d moves)", b.Title, m.moves)
				}
				return nil
			})
		},
	}
}

// =============================================================================
// Frame Scheduling
// =============================================================================

// frameMsg carries a scheduled frame into the bubbletea event loop so that
// resize measurements run on the same goroutine as Update.
type frameMsg func()

// programScheduler coalesces resizes at display frame boundaries and
// delivers them as messages.
type programScheduler struct {
	send func(tea.Msg)
}

// Schedule implements viewport.Scheduler.
func (s *programScheduler) Schedule(fn func()) {
	time.AfterFunc(viewport.DefaultFrameInterval, func() {
		if s.send != nil {
			s.send(frameMsg(fn))
		}
	})
}

// =============================================================================
// arrangeModel
// =============================================================================

// arrangeModel is the bubbletea model behind "scrapbook arrange". It is a
// pointer model because the controller and tracker call back into it.
type arrangeModel struct {
	board *board.Board
	save  func(*board.Board) error

	ctrl    *reorder.Controller
	pointer *reorder.PointerSensor
	keys    *reorder.KeyboardSensor
	box     *viewport.Box
	stop    func()

	dims   viewport.Dimensions
	view   render.View
	width  int
	height int

	status string
	moves  int
	err    error
}

func newArrangeModel(ctx context.Context, b *board.Board, save func(*board.Board) error, sched viewport.Scheduler) *arrangeModel {
	m := &arrangeModel{board: b, save: save}
	m.ctrl = reorder.NewController(m.onReorder, reorder.WithContext(ctx), reorder.WithLayout(b.Layout()))
	m.pointer = reorder.NewPointerSensor(m.ctrl, terminalActivation)
	m.keys = reorder.NewKeyboardSensor(m.ctrl)
	m.box = viewport.NewBox(0, 0, 0, tileGap)

	tracker := viewport.NewTracker(viewport.WithScheduler(sched), viewport.WithMaxWidth(0))
	m.stop = tracker.ObserveResize(m.box, m.box, m.onResize)
	return m
}

// Close stops resize observation.
func (m *arrangeModel) Close() {
	m.stop()
}

func (m *arrangeModel) Init() tea.Cmd {
	return nil
}

func (m *arrangeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		msg()
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := max(msg.Height-headerLines-footerLines, 0)
		m.box.Resize(float64(msg.Width), float64(rows)*cellAspect)
		return m, nil
	case tea.KeyMsg:
		if cmd := m.handleKey(msg.String()); cmd != nil {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	m.relayout()
	return m, nil
}

func (m *arrangeModel) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		m.cancelDrag()
		return tea.Quit
	case "esc":
		if m.ctrl.State() == reorder.Idle {
			return tea.Quit
		}
		m.cancelDrag()
		m.status = "Drag cancelled"
	case "+", "=":
		m.changeSettings(func(b *board.Board) error { return b.SetColumns(b.Columns + 1) })
	case "-":
		m.changeSettings(func(b *board.Board) error { return b.SetColumns(b.Columns - 1) })
	case "p":
		m.changeSettings(func(b *board.Board) error {
			if b.Policy == grid.PolicyChimney {
				return b.SetPolicy(string(grid.PolicyFixedRowHeight))
			}
			return b.SetPolicy(string(grid.PolicyChimney))
		})
	default:
		if k := reorder.ParseKey(key); k != reorder.KeyNone {
			m.keys.Handle(k)
		}
	}
	return nil
}

func (m *arrangeModel) handleMouse(msg tea.MouseMsg) {
	x := float64(msg.X) + 0.5
	y := (float64(msg.Y-headerLines) + 0.5) * cellAspect

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointer.Down(x, y)
		}
	case tea.MouseActionMotion:
		m.pointer.Move(x, y)
	case tea.MouseActionRelease:
		m.pointer.Up(x, y)
	}
}

func (m *arrangeModel) cancelDrag() {
	m.pointer.Cancel()
	m.ctrl.OnDragCancel()
}

// changeSettings applies a settings change and saves the board. A drag in
// progress is cancelled when the row structure changes under it.
func (m *arrangeModel) changeSettings(fn func(*board.Board) error) {
	if err := fn(m.board); err != nil {
		m.status = err.Error()
		return
	}
	if m.ctrl.SetLayout(m.board.Layout()) {
		m.pointer.Cancel()
		m.status = "Drag cancelled: layout changed"
	} else {
		m.status = fmt.Sprintf("%d columns, %s", m.board.Columns, m.board.Policy)
	}
	m.persist()
}

func (m *arrangeModel) onResize(d viewport.Dimensions) {
	m.dims = d
	m.relayout()
}

func (m *arrangeModel) onReorder(in reorder.Intent) {
	if !m.board.Apply(in) {
		return
	}
	m.moves++
	m.status = fmt.Sprintf("Moved %s onto %s", in.SourceID, in.TargetID)
	m.persist()
}

func (m *arrangeModel) persist() {
	if err := m.save(m.board); err != nil {
		m.err = err
		m.status = "save failed: " + err.Error()
	}
}

// relayout packs the board into the current dimensions and refreshes the
// sensors' geometry.
func (m *arrangeModel) relayout() {
	b := m.board
	p := m.dims.Params(b.Columns, b.MinRows, b.Policy)
	rows := grid.Pack(b.Items, p)
	m.view = render.Build(rows, p, m.ctrl.Snapshot())
	m.pointer.SetRects(m.view.Rects())
	m.keys.SetRows(grid.IDs(rows))
}

// =============================================================================
// View
// =============================================================================

func (m *arrangeModel) View() string {
	var sb strings.Builder

	header := StyleTitle.Render(m.board.Title) + StyleDim.Render(fmt.Sprintf(" · %d items · %d columns · %s", len(m.board.Items), m.board.Columns, m.board.Policy))
	sb.WriteString(header)
	sb.WriteString("\n")

	rows := max(m.height-headerLines-footerLines, 0)
	sb.WriteString(m.canvas(m.width, rows).String())

	sb.WriteString(StyleDim.Render(m.status))
	sb.WriteString("\n")
	sb.WriteString(StyleDim.Render("drag or ←↑↓→ + enter to move  +/- columns  p policy  q quit"))
	return sb.String()
}

// canvas draws every tile of the current view into a character grid.
func (m *arrangeModel) canvas(width, height int) *canvas {
	cv := newCanvas(width, height)
	focus := ""
	if m.ctrl.State() == reorder.Idle {
		focus = m.keys.Focus()
	}
	for _, t := range m.view.Tiles() {
		style := lipgloss.NewStyle().Foreground(typeColor(t.Type))
		switch {
		case t.Over:
			style = styleTileOver
		case t.Active:
			style = styleTileHeld
		case t.ID == focus:
			style = styleTileFocus
		}
		cv.tile(t, style)
	}
	return cv
}

// canvas is a fixed-size grid of styled cells.
type canvas struct {
	width  int
	height int
	cells  [][]rune
	styles [][]int
	table  []lipgloss.Style
}

func newCanvas(width, height int) *canvas {
	cv := &canvas{width: width, height: height, table: []lipgloss.Style{lipgloss.NewStyle()}}
	cv.cells = make([][]rune, height)
	cv.styles = make([][]int, height)
	for y := range cv.cells {
		cv.cells[y] = []rune(strings.Repeat(" ", width))
		cv.styles[y] = make([]int, width)
	}
	return cv
}

func (cv *canvas) set(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= cv.width || y >= cv.height {
		return
	}
	cv.cells[y][x] = r
	cv.styles[y][x] = style
}

func (cv *canvas) text(x, y, width int, s string, style int) {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			runes = runes[:max(width, 0)]
		} else {
			runes = append(runes[:width-1], '…')
		}
	}
	for i, r := range runes {
		cv.set(x+i, y, r, style)
	}
}

// tile draws a rounded box with the tile's label and caption inside.
func (cv *canvas) tile(t render.Tile, style lipgloss.Style) {
	x0, x1 := int(math.Round(t.X)), int(math.Round(t.Right()))-1
	y0, y1 := int(math.Round(t.Y/cellAspect)), int(math.Round(t.Bottom()/cellAspect))-1
	if x1 <= x0 || y1 < y0 {
		return
	}
	cv.table = append(cv.table, style)
	s := len(cv.table) - 1

	if y1 == y0 {
		cv.text(x0, y0, x1-x0+1, t.Label(), s)
		return
	}

	for x := x0 + 1; x < x1; x++ {
		cv.set(x, y0, '─', s)
		cv.set(x, y1, '─', s)
	}
	for y := y0 + 1; y < y1; y++ {
		cv.set(x0, y, '│', s)
		cv.set(x1, y, '│', s)
	}
	cv.set(x0, y0, '╭', s)
	cv.set(x1, y0, '╮', s)
	cv.set(x0, y1, '╰', s)
	cv.set(x1, y1, '╯', s)

	inner := x1 - x0 - 1
	if y1-y0 >= 2 {
		cv.text(x0+1, y0+1, inner, t.Label(), s)
	}
	if t.Caption != "" && y1-y0 >= 4 {
		cv.text(x0+1, y1-1, inner, t.Caption, s)
	}
}

// String renders the canvas, one line per row, grouping runs of equal style.
func (cv *canvas) String() string {
	var sb strings.Builder
	for y := range cv.cells {
		start := 0
		for x := 1; x <= cv.width; x++ {
			if x < cv.width && cv.styles[y][x] == cv.styles[y][start] {
				continue
			}
			sb.WriteString(cv.table[cv.styles[y][start]].Render(string(cv.cells[y][start:x])))
			start = x
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
