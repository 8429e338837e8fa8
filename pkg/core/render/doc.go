// Package render positions packed rows in container coordinates and writes
// them out.
//
// [Build] takes the rows produced by grid.Pack and places them top to bottom,
// cells left to right, separated by the gap. It owns no sizing math: heights
// and widths come from the packer unchanged, and Build only computes offsets.
// Rows that do not span the full width are aligned per [Align].
//
// The resulting [View] carries the transient drag state so that sinks can
// highlight the dragged tile and the hover target:
//
//	rows := grid.Pack(items, p)
//	view := render.Build(rows, p, ctrl.Snapshot())
//	svg := render.SVG(view, render.WithCaptions())
//
// # Output Formats
//
//   - [JSON]: tile geometry for clients that draw the grid themselves
//   - [SVG]: a contact sheet with labelled tiles
package render
