package reorder

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scrapbook/pkg/core/grid"
	"github.com/matzehuels/scrapbook/pkg/observability"
)

// State is the controller's position in the drag lifecycle.
type State int

const (
	Idle State = iota
	Dragging
	Hovering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Hovering:
		return "hovering"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Intent asks the list owner to move SourceID to TargetID's position.
type Intent struct {
	SourceID string `json:"source_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
}

// DragState is the transient drag information the renderer needs.
type DragState struct {
	ActiveID string `json:"active_id,omitempty"`
	OverID   string `json:"over_id,omitempty"`
}

// Dragging reports whether a drag is in progress.
func (d DragState) Dragging() bool { return d.ActiveID != "" }

// Layout is the subset of grid settings that defines the row structure.
type Layout struct {
	Columns int
	MinRows int
	Policy  grid.Policy
}

// Cancel reasons passed to drag hooks.
const (
	CancelUser   = "user"
	CancelLayout = "layout"
)

// Controller tracks one drag gesture at a time. It is driven by a single
// event loop and is not safe for concurrent use.
type Controller struct {
	// OnReorder, if set, receives every emitted intent.
	OnReorder func(Intent)

	ctx    context.Context
	logger *log.Logger

	state  State
	active string
	over   string

	layout      Layout
	startLayout Layout
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithContext sets the context passed to drag hooks.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithLayout sets the initial layout settings.
func WithLayout(l Layout) Option {
	return func(c *Controller) { c.layout = l }
}

// NewController returns an idle controller.
func NewController(onReorder func(Intent), opts ...Option) *Controller {
	c := &Controller{
		OnReorder: onReorder,
		ctx:       context.Background(),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Active returns the id being dragged, or "".
func (c *Controller) Active() string { return c.active }

// Over returns the id under the pointer, or "".
func (c *Controller) Over() string { return c.over }

// Snapshot returns the drag state for rendering.
func (c *Controller) Snapshot() DragState {
	return DragState{ActiveID: c.active, OverID: c.over}
}

// OnDragStart begins a drag of id. An empty id is ignored. Starting while a
// drag is already active replaces it without emitting an intent.
func (c *Controller) OnDragStart(id string) {
	if id == "" {
		return
	}
	c.state = Dragging
	c.active = id
	c.over = ""
	c.startLayout = c.layout

	c.logger.Debug("drag start", "id", id)
	observability.Drag().OnDragStart(c.ctx, id)
}

// OnDragOver sets the hover target. An empty id clears it. Ignored when idle.
func (c *Controller) OnDragOver(id string) {
	if c.state == Idle {
		return
	}
	c.over = id
	if id == "" {
		c.state = Dragging
	} else {
		c.state = Hovering
	}
}

// OnDragEnd drops the dragged item. It returns the emitted intent, if any.
// No intent is emitted when nothing is hovered or the item is dropped on
// itself. The controller is idle afterwards.
func (c *Controller) OnDragEnd() (Intent, bool) {
	if c.state == Idle {
		return Intent{}, false
	}
	in := Intent{SourceID: c.active, TargetID: c.over}
	ok := in.TargetID != "" && in.TargetID != in.SourceID
	c.reset()

	c.logger.Debug("drag end", "source", in.SourceID, "target", in.TargetID, "emitted", ok)
	observability.Drag().OnDragEnd(c.ctx, ok)
	if !ok {
		return Intent{}, false
	}
	if c.OnReorder != nil {
		c.OnReorder(in)
	}
	return in, true
}

// OnDragCancel aborts the drag without emitting an intent.
func (c *Controller) OnDragCancel() {
	c.cancel(CancelUser)
}

// SetLayout records new layout settings. If a drag is in progress and the
// settings differ from those at drag start, the row structure the user was
// aiming at no longer exists and the drag is cancelled. It reports whether a
// drag was cancelled.
func (c *Controller) SetLayout(l Layout) bool {
	c.layout = l
	if c.state == Idle || l == c.startLayout {
		return false
	}
	c.cancel(CancelLayout)
	return true
}

func (c *Controller) cancel(reason string) {
	if c.state == Idle {
		return
	}
	id := c.active
	c.reset()
	c.logger.Debug("drag cancelled", "id", id, "reason", reason)
	observability.Drag().OnDragCancel(c.ctx, reason)
}

func (c *Controller) reset() {
	c.state = Idle
	c.active = ""
	c.over = ""
}
