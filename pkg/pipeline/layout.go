package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/scrapbook/pkg/core/grid"
	"github.com/matzehuels/scrapbook/pkg/core/media"
	"github.com/matzehuels/scrapbook/pkg/core/render"
	"github.com/matzehuels/scrapbook/pkg/core/reorder"
	"github.com/matzehuels/scrapbook/pkg/errors"
	"github.com/matzehuels/scrapbook/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout packs items and positions the rows. Options must already be
// validated with ValidateForLayout.
func GenerateLayout(ctx context.Context, items []media.Item, opts Options) render.View {
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Policy, len(items))

	p := opts.Params()
	rows := grid.Pack(items, p)
	view := render.Build(rows, p, reorder.DragState{}, render.WithAlign(render.Align(opts.Align)))

	observability.Pipeline().OnLayoutComplete(ctx, opts.Policy, len(rows), time.Since(start), nil)
	if opts.Logger != nil {
		opts.Logger.Debug("packed rows",
			"items", len(items),
			"rows", len(rows),
			"policy", p.Policy,
			"width", p.Width,
			"height", p.Height)
	}
	return view
}

// ValidateItems checks item ids and explicit ratios before packing.
// Duplicate ids are rejected here so the packer never sees them.
func ValidateItems(items []media.Item) error {
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if err := errors.ValidateID(it.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidID, err, "item %d", i)
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeDuplicateItem, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if it.AspectRatio != nil && !media.ValidRatio(*it.AspectRatio) {
			return errors.New(errors.ErrCodeInvalidRatio, "item %q: aspect ratio must be positive and finite, got %v", it.ID, *it.AspectRatio)
		}
	}
	return nil
}
