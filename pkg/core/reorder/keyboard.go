package reorder

// Key is a logical key understood by KeyboardSensor.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySelect // pick up or drop
	KeyCancel
)

// ParseKey maps common key names to a Key.
func ParseKey(s string) Key {
	switch s {
	case "left", "h":
		return KeyLeft
	case "right", "l":
		return KeyRight
	case "up", "k":
		return KeyUp
	case "down", "j":
		return KeyDown
	case " ", "space", "enter":
		return KeySelect
	case "esc":
		return KeyCancel
	}
	return KeyNone
}

// KeyboardSensor moves a focus cursor over the grid and drives a Controller.
// While idle, arrows move focus and select picks up the focused item.
// While dragging, arrows move the hover target and select drops.
type KeyboardSensor struct {
	ctrl *Controller
	rows [][]string
	row  int
	col  int
}

// NewKeyboardSensor returns a sensor driving ctrl.
func NewKeyboardSensor(ctrl *Controller) *KeyboardSensor {
	return &KeyboardSensor{ctrl: ctrl}
}

// SetRows replaces the id grid, keeping focus on the same id if it is still present.
func (s *KeyboardSensor) SetRows(rows [][]string) {
	focus := s.Focus()
	s.rows = rows
	for r, ids := range rows {
		for c, id := range ids {
			if id == focus {
				s.row, s.col = r, c
				return
			}
		}
	}
	s.clamp()
}

// Focus returns the focused id, or "" for an empty grid.
func (s *KeyboardSensor) Focus() string {
	if s.row < 0 || s.row >= len(s.rows) || s.col < 0 || s.col >= len(s.rows[s.row]) {
		return ""
	}
	return s.rows[s.row][s.col]
}

// Handle processes one key press. It returns an intent when a drop emits one.
func (s *KeyboardSensor) Handle(k Key) (Intent, bool) {
	switch k {
	case KeyLeft:
		s.step(0, -1)
	case KeyRight:
		s.step(0, 1)
	case KeyUp:
		s.step(-1, 0)
	case KeyDown:
		s.step(1, 0)
	case KeySelect:
		if s.ctrl.State() == Idle {
			s.ctrl.OnDragStart(s.Focus())
			return Intent{}, false
		}
		return s.ctrl.OnDragEnd()
	case KeyCancel:
		s.ctrl.OnDragCancel()
	}
	return Intent{}, false
}

func (s *KeyboardSensor) step(dr, dc int) {
	if len(s.rows) == 0 {
		return
	}
	if dc != 0 {
		s.col += dc
		// Wrap across row boundaries so every item is reachable.
		if s.col < 0 && s.row > 0 {
			s.row--
			s.col = len(s.rows[s.row]) - 1
		} else if s.col >= len(s.rows[s.row]) && s.row < len(s.rows)-1 {
			s.row++
			s.col = 0
		}
	}
	s.row += dr
	s.clamp()

	if s.ctrl.State() != Idle {
		s.ctrl.OnDragOver(s.Focus())
	}
}

func (s *KeyboardSensor) clamp() {
	if len(s.rows) == 0 {
		s.row, s.col = 0, 0
		return
	}
	s.row = min(max(s.row, 0), len(s.rows)-1)
	s.col = min(max(s.col, 0), len(s.rows[s.row])-1)
}
