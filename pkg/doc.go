// Package pkg provides the core libraries for Scrapbook media grids.
//
// # Overview
//
// Scrapbook arranges media covers (movie posters, album art, book covers,
// game boxes) into rows that fill a container, and lets users reorder them by
// drag and drop. The pkg directory is organized into four areas:
//
//  1. [core] - Domain logic (aspect ratios, row packing, measurement, drag reorder, rendering)
//  2. [board] - Stored, ordered collections of items with grid settings
//  3. [cache] - Byte caches for computed layouts and rendered artifacts
//  4. [pipeline] - Orchestration (pack → position → render)
//
// # Architecture
//
// The typical data flow through Scrapbook:
//
//	Items (TOML/JSON file, board, API request)
//	         ↓
//	    [core/media] package (resolve display aspect ratios)
//	         ↓
//	    [core/viewport] package (measure the container)
//	         ↓
//	    [core/grid] package (pack items into rows)
//	         ↓
//	    [core/render] package (position tiles, write SVG/JSON/PNG/PDF)
//
// Reordering runs alongside: [core/reorder] turns pointer and keyboard input
// into move intents that the list owner, usually a [board.Board], applies.
//
// # Quick Start
//
// Pack a handful of covers into a 1200×800 container:
//
//	import (
//	    "github.com/matzehuels/scrapbook/pkg/core/grid"
//	    "github.com/matzehuels/scrapbook/pkg/core/media"
//	    "github.com/matzehuels/scrapbook/pkg/core/render"
//	    "github.com/matzehuels/scrapbook/pkg/core/reorder"
//	)
//
//	items := []media.Item{
//	    {ID: "dune", Type: media.TypeBook},
//	    {ID: "kind-of-blue", Type: media.TypeAlbum},
//	    {ID: "alien", Type: media.TypeMovie},
//	}
//	p := grid.Params{Columns: 4, Width: 1200, Height: 800, Gap: 16, MinRows: 2}
//	rows := grid.Pack(items, p)
//	view := render.Build(rows, p, reorder.DragState{})
//	svg := render.SVG(view)
//
// # Main Packages
//
// [core/media] - Item types and the aspect ratio resolver. Explicit ratios
// win; otherwise each media type has a default (2:3 posters, square albums).
//
// [core/grid] - The row packer. Items are chunked into rows of at most
// Columns covers; each row is sized to fill the width, then bounded by the
// fixed-row-height or chimney policy.
//
// [core/viewport] - Container measurement with resize coalescing at frame
// boundaries and a maximum grid width.
//
// [core/reorder] - The drag state machine plus pointer and keyboard sensors
// with activation constraints.
//
// [core/render] - Positioned views, SVG and JSON writers, and PNG/PDF
// conversion through rsvg-convert.
//
// [board] - Boards and their stores: a directory of JSON files for the CLI
// and MongoDB for shared deployments.
//
// [cache] - Null, file and Redis caches, plus an instrumented wrapper that
// reports hits and misses.
//
// [pipeline] - The layout and render stages shared by the CLI and the API
// server, with content-hash cache keys.
//
// [observability] - Hook interfaces for layout, drag, cache and HTTP events.
//
// [errors] - Coded errors shared by every entry point.
//
// [buildinfo] - Version information stamped at build time.
package pkg
