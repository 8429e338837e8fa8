package render

import (
	"fmt"

	"github.com/matzehuels/scrapbook/pkg/core/grid"
	"github.com/matzehuels/scrapbook/pkg/core/media"
	"github.com/matzehuels/scrapbook/pkg/core/reorder"
)

// Align controls horizontal placement of rows narrower than the container.
type Align string

const (
	AlignStart  Align = "start"
	AlignCenter Align = "center"
)

// ParseAlign converts a string to an Align. The empty string maps to AlignCenter.
func ParseAlign(s string) (Align, error) {
	switch Align(s) {
	case "":
		return AlignCenter, nil
	case AlignStart, AlignCenter:
		return Align(s), nil
	}
	return "", fmt.Errorf("invalid align: %q (must be start or center)", s)
}

// Tile is one positioned cover. Coordinates are in container units with the
// origin at the top left.
type Tile struct {
	ID       string     `json:"id"`
	Type     media.Type `json:"type"`
	Title    string     `json:"title,omitempty"`
	Caption  string     `json:"caption,omitempty"`
	CoverURL string     `json:"cover_url,omitempty"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Active   bool       `json:"active,omitempty"`
	Over     bool       `json:"over,omitempty"`
}

// Right returns the right edge.
func (t Tile) Right() float64 { return t.X + t.Width }

// Bottom returns the bottom edge.
func (t Tile) Bottom() float64 { return t.Y + t.Height }

// CenterX returns the horizontal center.
func (t Tile) CenterX() float64 { return t.X + t.Width/2 }

// CenterY returns the vertical center.
func (t Tile) CenterY() float64 { return t.Y + t.Height/2 }

// Contains reports whether (x, y) is inside the tile.
func (t Tile) Contains(x, y float64) bool {
	return x >= t.X && x < t.Right() && y >= t.Y && y < t.Bottom()
}

// Label returns the title, falling back to the id.
func (t Tile) Label() string {
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}

// RowView is one positioned row.
type RowView struct {
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
	Tiles  []Tile  `json:"tiles"`
}

// View is a fully positioned grid.
type View struct {
	Width  float64           `json:"width"`
	Height float64           `json:"height"`
	Gap    float64           `json:"gap"`
	Policy grid.Policy       `json:"policy"`
	Drag   reorder.DragState `json:"drag"`
	Rows   []RowView         `json:"rows"`
}

// Tiles returns every tile in display order.
func (v View) Tiles() []Tile {
	var out []Tile
	for _, r := range v.Rows {
		out = append(out, r.Tiles...)
	}
	return out
}

// Rects returns tile bounds for pointer collision detection.
func (v View) Rects() []reorder.Rect {
	var out []reorder.Rect
	for _, r := range v.Rows {
		for _, t := range r.Tiles {
			out = append(out, reorder.Rect{ID: t.ID, X: t.X, Y: t.Y, Width: t.Width, Height: t.Height})
		}
	}
	return out
}

// TileAt returns the tile containing (x, y).
func (v View) TileAt(x, y float64) (Tile, bool) {
	for _, r := range v.Rows {
		if y < r.Y || y >= r.Y+r.Height {
			continue
		}
		for _, t := range r.Tiles {
			if t.Contains(x, y) {
				return t, true
			}
		}
	}
	return Tile{}, false
}

// Option configures Build.
type Option func(*builder)

type builder struct {
	align Align
}

// WithAlign sets row alignment.
func WithAlign(a Align) Option {
	return func(b *builder) {
		if a != "" {
			b.align = a
		}
	}
}

// Build positions rows inside a container described by p.
func Build(rows []grid.Row, p grid.Params, drag reorder.DragState, opts ...Option) View {
	b := builder{align: AlignCenter}
	for _, opt := range opts {
		opt(&b)
	}

	v := View{
		Width:  p.Width,
		Height: grid.TotalHeight(rows, p.Gap),
		Gap:    p.Gap,
		Policy: p.Policy,
		Drag:   drag,
		Rows:   make([]RowView, len(rows)),
	}

	y := 0.0
	for i, r := range rows {
		x := 0.0
		if b.align == AlignCenter {
			x = max((p.Width-r.Width(p.Gap))/2, 0)
		}

		rv := RowView{Y: y, Height: r.Height, Tiles: make([]Tile, len(r.Items))}
		for j, c := range r.Items {
			rv.Tiles[j] = Tile{
				ID:       c.Item.ID,
				Type:     c.Item.Type,
				Title:    c.Item.Title,
				Caption:  c.Item.Caption,
				CoverURL: c.Item.CoverURL,
				X:        x,
				Y:        y,
				Width:    c.Width,
				Height:   r.Height,
				Active:   drag.ActiveID != "" && c.Item.ID == drag.ActiveID,
				Over:     drag.OverID != "" && c.Item.ID == drag.OverID && drag.OverID != drag.ActiveID,
			}
			x += c.Width + p.Gap
		}
		v.Rows[i] = rv
		y += r.Height + p.Gap
	}
	return v
}
