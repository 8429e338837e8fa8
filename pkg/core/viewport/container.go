package viewport

import (
	"sync"

	"github.com/matzehuels/scrapbook/pkg/core/grid"
)

// MaxGridWidth is the widest the grid is allowed to grow.
const MaxGridWidth = 1600.0

// Dimensions are the measured inputs the packer needs from the container.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Gap    float64 `json:"gap"`
}

// Measured reports whether both sides are positive.
func (d Dimensions) Measured() bool {
	return d.Width > 0 && d.Height > 0
}

// Params combines the dimensions with the user's layout settings.
func (d Dimensions) Params(columns, minRows int, policy grid.Policy) grid.Params {
	return grid.Params{
		Columns: columns,
		Width:   d.Width,
		Height:  d.Height,
		Gap:     d.Gap,
		MinRows: minRows,
		Policy:  policy,
	}
}

// Container is a measurable layout element.
type Container interface {
	// ContentBox returns the width and height excluding padding.
	ContentBox() (width, height float64)

	// Gap returns the spacing between rows and between cells.
	Gap() float64
}

// ResizeSource delivers resize notifications for a container.
type ResizeSource interface {
	// OnResize registers notify and returns a function that unregisters it.
	OnResize(notify func()) (stop func())
}

// Box is a settable Container that is also its own ResizeSource.
// Every call to Resize notifies registered listeners. Box is safe for
// concurrent use.
type Box struct {
	mu      sync.Mutex
	width   float64
	height  float64
	padding float64
	gap     float64

	nextID    int
	listeners map[int]func()
}

// NewBox returns a box with the given outer size, uniform padding and gap.
func NewBox(width, height, padding, gap float64) *Box {
	return &Box{width: width, height: height, padding: padding, gap: gap}
}

// ContentBox implements Container.
func (b *Box) ContentBox() (float64, float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return max(b.width-2*b.padding, 0), max(b.height-2*b.padding, 0)
}

// Gap implements Container.
func (b *Box) Gap() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gap
}

// Resize sets the outer size and notifies listeners.
func (b *Box) Resize(width, height float64) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.mu.Unlock()
	b.notify()
}

// SetGap changes the gap and notifies listeners.
func (b *Box) SetGap(gap float64) {
	b.mu.Lock()
	b.gap = gap
	b.mu.Unlock()
	b.notify()
}

// OnResize implements ResizeSource.
func (b *Box) OnResize(notify func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[int]func())
	}
	id := b.nextID
	b.nextID++
	b.listeners[id] = notify

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

func (b *Box) notify() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
