package viewport

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Tracker publishes container dimensions to a callback.
type Tracker struct {
	maxWidth float64
	sched    Scheduler
	logger   *log.Logger

	mu      sync.Mutex
	current Dimensions
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMaxWidth overrides MaxGridWidth. Non-positive values disable the cap.
func WithMaxWidth(w float64) Option {
	return func(t *Tracker) { t.maxWidth = w }
}

// WithScheduler sets the frame scheduler used to coalesce resizes.
func WithScheduler(s Scheduler) Option {
	return func(t *Tracker) {
		if s != nil {
			t.sched = s
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTracker creates a tracker with a 16ms FrameClock and the default width cap.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		maxWidth: MaxGridWidth,
		sched:    FrameClock{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Current returns the most recently published dimensions.
func (t *Tracker) Current() Dimensions {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Measure reads c and applies the width cap.
func (t *Tracker) Measure(c Container) Dimensions {
	w, h := c.ContentBox()
	if t.maxWidth > 0 && w > t.maxWidth {
		w = t.maxWidth
	}
	return Dimensions{Width: w, Height: h, Gap: c.Gap()}
}

// observation is the per-subscription coalescing state.
type observation struct {
	t  *Tracker
	c  Container
	cb func(Dimensions)

	mu      sync.Mutex
	pending bool
	stopped bool
}

// ObserveResize measures c and calls cb synchronously, then again after
// every resize notification from src. Notifications that arrive while a
// measurement is already scheduled are folded into it. The returned function
// stops observation; a frame that is already scheduled will not call cb.
func (t *Tracker) ObserveResize(c Container, src ResizeSource, cb func(Dimensions)) (unsubscribe func()) {
	o := &observation{t: t, c: c, cb: cb}
	o.publish()

	stop := src.OnResize(o.notify)
	return func() {
		o.mu.Lock()
		o.stopped = true
		o.mu.Unlock()
		stop()
	}
}

func (o *observation) notify() {
	o.mu.Lock()
	if o.stopped || o.pending {
		o.mu.Unlock()
		return
	}
	o.pending = true
	o.mu.Unlock()

	o.t.sched.Schedule(o.frame)
}

func (o *observation) frame() {
	o.mu.Lock()
	o.pending = false
	stopped := o.stopped
	o.mu.Unlock()
	if stopped {
		return
	}
	o.publish()
}

func (o *observation) publish() {
	d := o.t.Measure(o.c)
	o.t.mu.Lock()
	o.t.current = d
	o.t.mu.Unlock()

	o.t.logger.Debug("container measured", "width", d.Width, "height", d.Height, "gap", d.Gap)
	o.cb(d)
}
