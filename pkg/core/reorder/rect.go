package reorder

import "math"

// Rect is an item's bounding box in container coordinates.
type Rect struct {
	ID     string
	X, Y   float64
	Width  float64
	Height float64
}

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Offset returns r moved by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// HitTest returns the id of the first rect containing (x, y).
func HitTest(rects []Rect, x, y float64) (string, bool) {
	for _, r := range rects {
		if r.Contains(x, y) {
			return r.ID, true
		}
	}
	return "", false
}

// ClosestCenter returns the id of the rect whose center is nearest to the
// center of probe. Ties go to the earlier rect.
func ClosestCenter(rects []Rect, probe Rect) (string, bool) {
	px, py := probe.CenterX(), probe.CenterY()
	best, bestDist := "", math.Inf(1)
	for _, r := range rects {
		d := math.Hypot(r.CenterX()-px, r.CenterY()-py)
		if d < bestDist {
			best, bestDist = r.ID, d
		}
	}
	return best, best != ""
}
