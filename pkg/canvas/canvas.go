// Package canvas defines the canvas-writer collaborator boundary.
//
// A Writer turns placement records into a page-description document.
// The placement engine never draws; it hands each sheet's records to a
// Writer and moves on. Per-tile draw failures are reported through the
// DrawTile error but must not invalidate the sheet: the caller logs the
// failure, leaves the cell blank, and continues with the next tile.
package canvas

import (
	"github.com/inkfold/imposer/pkg/impose"
	"github.com/inkfold/imposer/pkg/raster"
)

// Writer receives sheets and tile draw calls in order.
//
// The call sequence is BeginSheet, zero or more DrawTile calls for that
// sheet, repeated per sheet, then a single Save.
type Writer interface {
	// BeginSheet starts a new physical page of the given size.
	BeginSheet(sheet impose.SheetSpec) error

	// DrawTile draws one tile at its placement on the current sheet.
	// An error marks this tile only; the sheet remains usable.
	DrawTile(tile raster.Tile, p impose.Placement) error

	// Save finalizes the document and writes it to path.
	Save(path string) error
}
