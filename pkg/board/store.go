package board

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/scrapbook/pkg/errors"
)

// ErrNotFound is returned when a board does not exist. It carries the
// BOARD_NOT_FOUND code so API handlers map it to 404.
var ErrNotFound = errors.New(errors.ErrCodeBoardNotFound, "board not found")

// Store persists boards.
type Store interface {
	// Get returns the board or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (*Board, error)

	// Put inserts or replaces a board.
	Put(ctx context.Context, b *Board) error

	// Delete removes a board. Missing boards return ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns all boards, oldest first.
	List(ctx context.Context) ([]*Board, error)

	// Close releases resources held by the store.
	Close() error
}

func notFound(id string) error {
	return fmt.Errorf("board %q: %w", id, ErrNotFound)
}

// sortBoards orders boards by creation time, then id.
func sortBoards(bs []*Board) {
	slices.SortFunc(bs, func(a, b *Board) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
