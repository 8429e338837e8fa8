package reorder

import (
	"math"
	"time"
)

// Activation decides when a press becomes a drag.
//
// With a Delay, the pointer must be held for Delay without moving further
// than Tolerance; moving too far first aborts the press. Without a Delay,
// the pointer must move at least Distance from where it was pressed.
type Activation struct {
	Distance  float64
	Delay     time.Duration
	Tolerance float64
}

// Default activation constraints for mouse and touch input.
var (
	MouseActivation = Activation{Distance: 8}
	TouchActivation = Activation{Delay: 250 * time.Millisecond, Tolerance: 5}
)

// PointerSensor recognises drags from raw pointer events and forwards them
// to a Controller.
type PointerSensor struct {
	ctrl       *Controller
	activation Activation
	rects      []Rect

	// Now is the clock used for delay activation.
	Now func() time.Time

	pressed   bool
	activated bool
	source    Rect
	originX   float64
	originY   float64
	pressedAt time.Time
}

// NewPointerSensor returns a sensor driving ctrl.
func NewPointerSensor(ctrl *Controller, a Activation) *PointerSensor {
	return &PointerSensor{ctrl: ctrl, activation: a, Now: time.Now}
}

// SetRects replaces the item rectangles used for hit testing and collision.
// Call it after every layout pass.
func (s *PointerSensor) SetRects(rects []Rect) {
	s.rects = rects
	if !s.pressed {
		return
	}
	for _, r := range rects {
		if r.ID == s.source.ID {
			s.source = r
			return
		}
	}
}

// Pressed reports whether a press is being tracked.
func (s *PointerSensor) Pressed() bool { return s.pressed }

// Down starts tracking a press at (x, y). Presses outside every item are ignored.
func (s *PointerSensor) Down(x, y float64) {
	s.reset()
	for _, r := range s.rects {
		if r.Contains(x, y) {
			s.pressed = true
			s.source = r
			s.originX, s.originY = x, y
			s.pressedAt = s.Now()
			return
		}
	}
}

// Move updates the pointer position, activating the drag once the
// constraint is met and updating the hover target afterwards.
func (s *PointerSensor) Move(x, y float64) {
	if !s.pressed {
		return
	}
	if !s.activated && !s.tryActivate(x, y) {
		return
	}
	s.hover(x, y)
}

// Poll activates a delay-constrained press that has been held long enough
// without movement. Event loops with a timer call it periodically.
func (s *PointerSensor) Poll() {
	if s.pressed && !s.activated && s.activation.Delay > 0 {
		s.tryActivate(s.originX, s.originY)
	}
}

// Up ends the press. A press that never activated is a click and produces
// nothing. Otherwise the drag is dropped at (x, y).
func (s *PointerSensor) Up(x, y float64) (Intent, bool) {
	defer s.reset()
	if !s.activated {
		return Intent{}, false
	}
	s.hover(x, y)
	return s.ctrl.OnDragEnd()
}

// Cancel aborts the press and any active drag.
func (s *PointerSensor) Cancel() {
	if s.activated {
		s.ctrl.OnDragCancel()
	}
	s.reset()
}

func (s *PointerSensor) tryActivate(x, y float64) bool {
	dist := math.Hypot(x-s.originX, y-s.originY)
	a := s.activation

	if a.Delay > 0 {
		if dist > a.Tolerance {
			s.reset()
			return false
		}
		if s.Now().Sub(s.pressedAt) < a.Delay {
			return false
		}
	} else if dist < a.Distance {
		return false
	}

	s.activated = true
	s.ctrl.OnDragStart(s.source.ID)
	return true
}

func (s *PointerSensor) hover(x, y float64) {
	// Controller state can be reset underneath us by a layout change.
	if s.ctrl.State() == Idle {
		s.reset()
		return
	}
	probe := s.source.Offset(x-s.originX, y-s.originY)
	id, _ := ClosestCenter(s.rects, probe)
	s.ctrl.OnDragOver(id)
}

func (s *PointerSensor) reset() {
	s.pressed = false
	s.activated = false
	s.source = Rect{}
}
