package pdf

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/inkfold/imposer/pkg/impose"
	"github.com/inkfold/imposer/pkg/raster"
	"github.com/inkfold/imposer/pkg/units"
)

// writeTilePNG creates a small real PNG the writer can embed.
func writeTilePNG(t *testing.T, dir, name string) raster.Tile {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 40))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return raster.Tile{Path: path, WidthPx: 40, HeightPx: 40}
}

func TestWriterSheetLifecycle(t *testing.T) {
	dir := t.TempDir()
	tile := writeTilePNG(t, dir, "tile.png")

	w := New()
	sheet := impose.SheetSpec{Width: units.MM(297), Height: units.MM(210)}
	if err := w.BeginSheet(sheet); err != nil {
		t.Fatalf("BeginSheet error: %v", err)
	}

	p := impose.Placement{TileIndex: 0, X: units.MM(5), Y: units.MM(5), Width: units.MM(50), Height: units.MM(50)}
	if err := w.DrawTile(tile, p); err != nil {
		t.Fatalf("DrawTile error: %v", err)
	}

	// A second sheet of a different size is allowed.
	if err := w.BeginSheet(impose.SheetSpec{Width: units.MM(460), Height: units.MM(124)}); err != nil {
		t.Fatalf("second BeginSheet error: %v", err)
	}
	if err := w.DrawTile(tile, p); err != nil {
		t.Fatalf("DrawTile on second sheet error: %v", err)
	}

	out := filepath.Join(dir, "out.pdf")
	if err := w.Save(out); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output PDF is empty")
	}
}

func TestWriterOrderErrors(t *testing.T) {
	dir := t.TempDir()
	tile := writeTilePNG(t, dir, "tile.png")

	w := New()
	if err := w.DrawTile(tile, impose.Placement{}); err == nil {
		t.Error("DrawTile before BeginSheet should error")
	}
	if err := w.Save(filepath.Join(dir, "out.pdf")); err == nil {
		t.Error("Save with no sheets should error")
	}
	if err := w.BeginSheet(impose.SheetSpec{}); err == nil {
		t.Error("BeginSheet with zero size should error")
	}
}

// A missing tile image must fail that draw call only: the sheet stays
// usable and the document still saves.
func TestWriterDrawFailureIsPerTile(t *testing.T) {
	dir := t.TempDir()
	good := writeTilePNG(t, dir, "good.png")
	bad := raster.Tile{Path: filepath.Join(dir, "missing.png")}

	w := New()
	if err := w.BeginSheet(impose.SheetSpec{Width: 500, Height: 400}); err != nil {
		t.Fatalf("BeginSheet error: %v", err)
	}

	p := impose.Placement{X: 10, Y: 10, Width: 100, Height: 100}
	if err := w.DrawTile(bad, p); err == nil {
		t.Error("drawing a missing image should error")
	}
	if err := w.DrawTile(good, impose.Placement{X: 120, Y: 10, Width: 100, Height: 100}); err != nil {
		t.Fatalf("good tile after failed tile: %v", err)
	}

	if err := w.Save(filepath.Join(dir, "out.pdf")); err != nil {
		t.Fatalf("Save after per-tile failure: %v", err)
	}
}

func TestDrawPrintMark(t *testing.T) {
	dir := t.TempDir()

	w := New()
	if err := w.BeginSheet(impose.SheetSpec{Width: units.MM(460), Height: units.MM(124)}); err != nil {
		t.Fatalf("BeginSheet error: %v", err)
	}

	// The 8mm reserved strip along the grid's left edge.
	if err := w.DrawPrintMark("JOB-1234", units.MM(2.2), units.MM(6), units.MM(8), units.MM(106)); err != nil {
		t.Fatalf("DrawPrintMark error: %v", err)
	}

	out := filepath.Join(dir, "marked.pdf")
	if err := w.Save(out); err != nil {
		t.Fatalf("Save error: %v", err)
	}
}

func TestDrawPrintMarkRequiresSheet(t *testing.T) {
	w := New()
	if err := w.DrawPrintMark("x", 0, 0, 10, 10); err == nil {
		t.Error("DrawPrintMark before BeginSheet should error")
	}
}
