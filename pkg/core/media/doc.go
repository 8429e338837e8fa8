// Package media defines the cover items that make up a scrapbook grid and
// resolves their display aspect ratios.
//
// # Items
//
// An [Item] is owned by whoever holds the collection (see the board package).
// The layout core only reads three fields:
//
//   - ID: stable identifier, unique within one grid
//   - Type: discriminator used for the default aspect ratio
//   - AspectRatio: optional explicit width/height ratio
//
// Duplicate IDs within one list are undefined behavior for the packer and the
// drag controller. They are not guarded against here; the board package rejects
// them on insert.
//
// # Aspect Ratios
//
// [Resolve] always returns a positive, finite ratio:
//
//	r := media.Resolve(media.Item{ID: "dune", Type: media.TypeMovie}) // 2/3
//
// An explicit ratio wins when it is positive and finite. Otherwise the type table
// applies (2:3 for posters and book covers, 1:1 for album art, 3:4 for game box
// art), and unknown types fall back to 2:3. Use a custom [Resolver] to change
// the table.
package media
