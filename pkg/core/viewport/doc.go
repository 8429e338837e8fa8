// Package viewport tracks the measured size of the grid container.
//
// A [Tracker] observes one [Container] through a [ResizeSource]. It publishes
// [Dimensions] once synchronously when observation starts, then again after
// resize notifications, coalesced so that at most one measurement runs per
// frame. Width is capped at [MaxGridWidth] before it is published.
//
// The package is the reactive half of the layout engine; the pure math lives
// in package grid:
//
//	tr := viewport.NewTracker()
//	stop := tr.ObserveResize(box, box, func(d viewport.Dimensions) {
//	    rows := grid.Pack(items, d.Params(columns, minRows, policy))
//	    // ...
//	})
//	defer stop()
package viewport
