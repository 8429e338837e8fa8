// Package board holds a user's scrapbook: an ordered list of media items plus
// the grid settings used to lay them out.
//
// A [Board] is the list owner the reorder controller talks to. The
// controller emits a [reorder.Intent]; [Board.Apply] moves the item. Boards
// are persisted through a [Store]: [FileStore] for the CLI and [MongoStore]
// for the API server.
//
// # Usage
//
//	b := board.New("Summer reading")
//	_ = b.Add(media.Item{ID: "dune", Type: media.TypeBook, Title: "Dune"})
//	_ = b.Add(media.Item{ID: "emma", Type: media.TypeBook, Title: "Emma"})
//	b.Apply(reorder.Intent{SourceID: "emma", TargetID: "dune"})
//	// b.IDs() == ["emma", "dune"]
package board

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/scrapbook/pkg/core/grid"
	"github.com/matzehuels/scrapbook/pkg/core/media"
	"github.com/matzehuels/scrapbook/pkg/core/reorder"
	"github.com/matzehuels/scrapbook/pkg/errors"
)

// Default settings for new boards.
const (
	DefaultColumns = 4
	DefaultMinRows = 2
	DefaultPolicy  = grid.PolicyFixedRowHeight
)

// now is replaced in tests.
var now = time.Now

// Board is an ordered collection of media items with grid settings.
type Board struct {
	ID        string       `json:"id" toml:"id" bson:"_id"`
	Title     string       `json:"title" toml:"title" bson:"title"`
	Columns   int          `json:"columns" toml:"columns" bson:"columns"`
	MinRows   int          `json:"min_rows" toml:"min_rows" bson:"min_rows"`
	Policy    grid.Policy  `json:"policy" toml:"policy" bson:"policy"`
	Items     []media.Item `json:"items" toml:"items" bson:"items"`
	CreatedAt time.Time    `json:"created_at" toml:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" toml:"updated_at" bson:"updated_at"`
}

// New creates an empty board with a random id and default settings.
func New(title string) *Board {
	t := now().UTC()
	return &Board{
		ID:        uuid.NewString(),
		Title:     title,
		Columns:   DefaultColumns,
		MinRows:   DefaultMinRows,
		Policy:    DefaultPolicy,
		Items:     []media.Item{},
		CreatedAt: t,
		UpdatedAt: t,
	}
}

// IDs returns the item ids in display order.
func (b *Board) IDs() []string {
	ids := make([]string, len(b.Items))
	for i, it := range b.Items {
		ids[i] = it.ID
	}
	return ids
}

// Index returns the position of the item with the given id, or -1.
func (b *Board) Index(id string) int {
	return slices.IndexFunc(b.Items, func(it media.Item) bool { return it.ID == id })
}

// Item returns the item with the given id.
func (b *Board) Item(id string) (media.Item, bool) {
	if i := b.Index(id); i >= 0 {
		return b.Items[i], true
	}
	return media.Item{}, false
}

// Layout returns the settings that determine row structure.
func (b *Board) Layout() reorder.Layout {
	return reorder.Layout{Columns: b.Columns, MinRows: b.MinRows, Policy: b.Policy}
}

// =============================================================================
// Mutations
// =============================================================================

// Add appends an item. Item ids must be unique within a board.
func (b *Board) Add(it media.Item) error {
	if err := errors.ValidateID(it.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidID, err, "add item")
	}
	if it.AspectRatio != nil && !media.ValidRatio(*it.AspectRatio) {
		return errors.New(errors.ErrCodeInvalidRatio, "item %q: aspect ratio must be positive and finite", it.ID)
	}
	if b.Index(it.ID) >= 0 {
		return errors.New(errors.ErrCodeDuplicateItem, "item %q is already on the board", it.ID)
	}
	b.Items = append(b.Items, it)
	b.touch()
	return nil
}

// Remove deletes an item.
func (b *Board) Remove(id string) error {
	i := b.Index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeItemNotFound, "item %q not found", id)
	}
	b.Items = slices.Delete(b.Items, i, i+1)
	b.touch()
	return nil
}

// SetCaption replaces an item's caption. An empty caption clears it.
func (b *Board) SetCaption(id, caption string) error {
	i := b.Index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeItemNotFound, "item %q not found", id)
	}
	b.Items[i].Caption = caption
	b.touch()
	return nil
}

// SetColumns sets the maximum items per row (1-8).
func (b *Board) SetColumns(n int) error {
	if n < grid.MinColumns || n > grid.MaxColumns {
		return errors.New(errors.ErrCodeInvalidColumns, "columns must be between %d and %d, got %d", grid.MinColumns, grid.MaxColumns, n)
	}
	b.Columns = n
	b.touch()
	return nil
}

// SetMinRows sets the number of rows the height budget assumes (1-6).
func (b *Board) SetMinRows(n int) error {
	if n < grid.MinRowsMin || n > grid.MinRowsMax {
		return errors.New(errors.ErrCodeInvalidMinRows, "min rows must be between %d and %d, got %d", grid.MinRowsMin, grid.MinRowsMax, n)
	}
	b.MinRows = n
	b.touch()
	return nil
}

// SetPolicy sets the packing policy by name.
func (b *Board) SetPolicy(name string) error {
	p, err := grid.ParsePolicy(name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPolicy, err, "set policy")
	}
	b.Policy = p
	b.touch()
	return nil
}

// Apply moves the intent's source item to the target's index, shifting the
// items in between. Unknown ids and equal ids leave the board unchanged.
// It reports whether the order changed.
func (b *Board) Apply(in reorder.Intent) bool {
	if in.SourceID == in.TargetID {
		return false
	}
	from, to := b.Index(in.SourceID), b.Index(in.TargetID)
	if from < 0 || to < 0 {
		return false
	}
	b.Items = move(b.Items, from, to)
	b.touch()
	return true
}

// Validate checks settings and items of a board read from outside.
func (b *Board) Validate() error {
	if err := errors.ValidateID(b.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidID, err, "board id")
	}
	if b.Columns < grid.MinColumns || b.Columns > grid.MaxColumns {
		return errors.New(errors.ErrCodeInvalidColumns, "columns must be between %d and %d, got %d", grid.MinColumns, grid.MaxColumns, b.Columns)
	}
	if b.MinRows < grid.MinRowsMin || b.MinRows > grid.MinRowsMax {
		return errors.New(errors.ErrCodeInvalidMinRows, "min rows must be between %d and %d, got %d", grid.MinRowsMin, grid.MinRowsMax, b.MinRows)
	}
	if _, err := grid.ParsePolicy(string(b.Policy)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPolicy, err, "board policy")
	}
	seen := make(map[string]bool, len(b.Items))
	for _, it := range b.Items {
		if err := errors.ValidateID(it.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidID, err, "item id")
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeDuplicateItem, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if it.AspectRatio != nil && !media.ValidRatio(*it.AspectRatio) {
			return errors.New(errors.ErrCodeInvalidRatio, "item %q: aspect ratio must be positive and finite", it.ID)
		}
	}
	return nil
}

// setDefaults fills zero settings, used for hand-written board files.
func (b *Board) setDefaults() {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Columns == 0 {
		b.Columns = DefaultColumns
	}
	if b.MinRows == 0 {
		b.MinRows = DefaultMinRows
	}
	if b.Policy == "" {
		b.Policy = DefaultPolicy
	}
	if b.Items == nil {
		b.Items = []media.Item{}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now().UTC()
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
}

func (b *Board) touch() {
	b.UpdatedAt = now().UTC()
}

// move relocates s[from] to index to.
func move[T any](s []T, from, to int) []T {
	v := s[from]
	s = slices.Delete(s, from, from+1)
	return slices.Insert(s, to, v)
}
