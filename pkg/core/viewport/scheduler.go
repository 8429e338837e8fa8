package viewport

import "time"

// DefaultFrameInterval approximates one display frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Scheduler runs a function at the next frame boundary.
type Scheduler interface {
	Schedule(fn func())
}

// FrameClock is a time-based Scheduler. The zero value uses DefaultFrameInterval.
type FrameClock struct {
	Interval time.Duration
}

// Schedule runs fn on its own goroutine after one frame interval.
func (c FrameClock) Schedule(fn func()) {
	d := c.Interval
	if d <= 0 {
		d = DefaultFrameInterval
	}
	time.AfterFunc(d, fn)
}

// Immediate runs scheduled functions synchronously. Useful where there is no
// frame loop to coalesce against, such as one-shot CLI renders.
type Immediate struct{}

// Schedule calls fn.
func (Immediate) Schedule(fn func()) { fn() }
