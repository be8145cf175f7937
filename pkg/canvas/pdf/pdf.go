// Package pdf writes imposed sheets to a PDF document.
package pdf

import (
	"fmt"

	"github.com/signintech/gopdf"

	"github.com/inkfold/imposer/pkg/canvas"
	"github.com/inkfold/imposer/pkg/impose"
	"github.com/inkfold/imposer/pkg/raster"
)

// Writer renders placements into a PDF. Placement coordinates use a
// bottom-left origin; gopdf uses top-left, so every draw call flips the
// vertical axis against the current sheet height.
type Writer struct {
	pdf         gopdf.GoPdf
	started     bool
	sheetHeight float64
}

// New creates an empty PDF writer. Sheets are added with BeginSheet.
func New() *Writer {
	return &Writer{}
}

// BeginSheet starts a new page of the given size. The first call also
// initializes the underlying document.
func (w *Writer) BeginSheet(sheet impose.SheetSpec) error {
	if !sheet.Valid() {
		return fmt.Errorf("begin sheet: non-positive size %.2fx%.2fpt", sheet.Width, sheet.Height)
	}

	rect := gopdf.Rect{W: sheet.Width, H: sheet.Height}
	if !w.started {
		w.pdf.Start(gopdf.Config{PageSize: rect, Unit: gopdf.UnitPT})
		w.started = true
	}
	w.pdf.AddPageWithOption(gopdf.PageOption{PageSize: &rect})
	w.sheetHeight = sheet.Height
	return nil
}

// DrawTile draws the tile image stretched to its placement cell.
func (w *Writer) DrawTile(tile raster.Tile, p impose.Placement) error {
	if !w.started {
		return fmt.Errorf("draw tile %d: no sheet begun", p.TileIndex)
	}

	yTop := w.sheetHeight - p.Y - p.Height
	if err := w.pdf.Image(tile.Path, p.X, yTop, &gopdf.Rect{W: p.Width, H: p.Height}); err != nil {
		return fmt.Errorf("draw tile %d at (%d,%d): %w", p.TileIndex, p.Col, p.Row, err)
	}
	return nil
}

// Save finalizes the document and writes it to path.
func (w *Writer) Save(path string) error {
	if !w.started {
		return fmt.Errorf("save: document has no sheets")
	}
	if err := w.pdf.WritePdf(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}

// Ensure Writer implements canvas.Writer.
var _ canvas.Writer = (*Writer)(nil)
