// Package preview composes a low-fidelity bitmap of an imposition.
//
// It reuses the exact placement math of [impose.Plan] and maps the
// resulting point coordinates to pixels at a fixed preview scale,
// independent of the job's output DPI. Previews cover the first sheet
// only and never paginate; they exist for quick visual verification of
// a layout, not for print.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/inkfold/imposer/pkg/impose"
	"github.com/inkfold/imposer/pkg/raster"
)

// DefaultScale is one pixel per point (72 DPI), matching the sheet's
// physical proportions at screen resolution.
const DefaultScale = 1.0

// tileInset keeps a small visual gap between a tile and its cell edge.
const tileInset = 2

// Preview colors.
var (
	colorGrid        = color.RGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff} // light gray
	colorPlaceholder = color.RGBA{R: 0xff, G: 0xb6, B: 0xc1, A: 0xff} // light pink
	colorFailure     = color.RGBA{R: 0xcc, G: 0x22, B: 0x22, A: 0xff} // red
)

// Options configures preview rendering.
type Options struct {
	// Scale is the pixel-per-point factor; DefaultScale if zero.
	Scale float64
}

// Render composes the first sheet of the job into a bitmap. Tiles are
// fit into their cells preserving aspect ratio and centered; a tile
// whose image cannot be loaded is replaced by a labeled placeholder
// rather than failing the preview.
func Render(job impose.Job, tiles []raster.Tile, opts Options) (image.Image, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	placements, err := impose.Plan(job)
	if err != nil {
		return nil, err
	}

	width := int(job.Sheet.Width * scale)
	height := int(job.Sheet.Height * scale)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("preview: degenerate bitmap %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawGrid(dc, job, scale, width, height)

	for _, p := range placements {
		if p.SheetIndex != 0 {
			// Previews never paginate; grid mode placements are in
			// sheet order, so nothing later belongs to sheet 0.
			break
		}
		drawTile(dc, p, tiles, scale, job.Sheet.Height)
	}

	return dc.Image(), nil
}

// drawGrid strokes light-gray lines at every column and row boundary.
func drawGrid(dc *gg.Context, job impose.Job, scale float64, width, height int) {
	m := job.Margins
	cw, ch, err := impose.CellSize(job.Sheet, job.Grid, m)
	if err != nil {
		return
	}

	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)

	for col := 0; col <= job.Grid.Columns; col++ {
		x := m.Left + float64(col)*(cw+m.GapX)
		if col == job.Grid.Columns {
			x -= m.GapX // trailing boundary is the last cell's right edge
		}
		dc.DrawLine(x*scale, 0, x*scale, float64(height))
		dc.Stroke()
	}
	for row := 0; row <= job.Grid.Rows; row++ {
		yTop := m.Top + float64(row)*(ch+m.GapY)
		if row == job.Grid.Rows {
			yTop -= m.GapY
		}
		dc.DrawLine(0, yTop*scale, float64(width), yTop*scale)
		dc.Stroke()
	}
}

// drawTile renders one placement: the fitted tile image, or a labeled
// placeholder when the image cannot be loaded.
func drawTile(dc *gg.Context, p impose.Placement, tiles []raster.Tile, scale, sheetHeight float64) {
	// Bottom-left placement coordinates to top-left pixel coordinates.
	px := int(p.X * scale)
	py := int((sheetHeight - p.Y - p.Height) * scale)
	cellW := int(p.Width * scale)
	cellH := int(p.Height * scale)

	if p.TileIndex < len(tiles) {
		if img, err := imaging.Open(tiles[p.TileIndex].Path); err == nil {
			fitted := imaging.Fit(img, cellW-2*tileInset, cellH-2*tileInset, imaging.Lanczos)
			// Center the fitted image in the cell.
			offX := px + (cellW-fitted.Bounds().Dx())/2
			offY := py + (cellH-fitted.Bounds().Dy())/2
			dc.DrawImage(fitted, offX, offY)
			return
		}
	}

	// Placeholder: pink fill, red outline, page label.
	dc.SetColor(colorPlaceholder)
	dc.DrawRectangle(float64(px+tileInset), float64(py+tileInset), float64(cellW-2*tileInset), float64(cellH-2*tileInset))
	dc.Fill()
	dc.SetColor(colorFailure)
	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(px+tileInset), float64(py+tileInset), float64(cellW-2*tileInset), float64(cellH-2*tileInset))
	dc.Stroke()
	dc.DrawString(fmt.Sprintf("Page %d", p.TileIndex+1), float64(px+10), float64(py+18))
}

// Save writes a rendered preview to path as PNG.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save preview %s: %w", path, err)
	}
	return nil
}
