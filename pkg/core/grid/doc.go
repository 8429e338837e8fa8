// Package grid packs media covers into justified rows.
//
// # Overview
//
// Items are bucketed, in input order, into chunks of at most Columns items.
// Each chunk becomes one [Row]. A row's height is chosen so its covers sit side
// by side at their natural aspect ratios, and each cover's width is derived
// from that height. Items never reflow between rows beyond this chunking.
//
// # Policies
//
// Two policies trade width-fill against height consistency:
//
//   - [PolicyFixedRowHeight]: every row is capped at a per-row budget derived from
//     max(rowCount, MinRows). Sparse rows stop short of the full width instead of
//     growing taller than the budget.
//
//   - [PolicyChimney]: every row fills the width exactly, then all rows are
//     uniformly shrunk (never grown) so the whole grid fits the available height.
//
// # Packing
//
//	rows := grid.Pack(items, grid.Params{
//	    Columns: 4,
//	    Width:   1200,
//	    Height:  800,
//	    Gap:     16,
//	    MinRows: 2,
//	    Policy:  grid.PolicyChimney,
//	})
//
// Pack is pure and deterministic: the same inputs always produce bit-identical
// rows, so callers may memoize it freely. All arithmetic is float64 and nothing is
// rounded; rounding belongs to whoever draws the result.
//
// # Degenerate Input
//
// An empty item list, a non-positive width or height, or Columns < 1 yields an
// empty layout. This is the normal state before a container has been measured
// and is retried on the next recomputation.
//
// A non-positive or non-finite aspect ratio reaching the packer is a caller bug
// and panics. The default resolver in the media package never produces one.
package grid
