package impose

import "fmt"

// CellSize computes the per-cell width and height left over after the
// margin policy is applied to the sheet. Both dimensions must come out
// strictly positive; a grid that does not fit fails with
// ErrLayoutOverflow.
func CellSize(sheet SheetSpec, grid GridSpec, m MarginPolicy) (w, h float64, err error) {
	w = (sheet.Width - m.Left - m.Right - float64(grid.Columns-1)*m.GapX) / float64(grid.Columns)
	h = (sheet.Height - m.Top - m.Bottom - float64(grid.Rows-1)*m.GapY) / float64(grid.Rows)
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: cell size %.2fx%.2fpt for %dx%d grid on %.2fx%.2fpt sheet",
			ErrLayoutOverflow, w, h, grid.Columns, grid.Rows, sheet.Width, sheet.Height)
	}
	return w, h, nil
}

// SolveExactMargins works the margin values backward from a fixed sheet
// footprint, a fixed square cell size, and two reserved edge zones. The
// horizontal leftover after cells and zones is split into one spacing
// unit per internal gap plus one per outer margin; each outer margin
// then absorbs its reserved zone on top of that unit. Vertical leftover
// is split evenly above, between, and below the rows.
func SolveExactMargins(sheet SheetSpec, grid GridSpec, cell, reservedLeft, reservedRight float64) (MarginPolicy, error) {
	remainingW := sheet.Width - float64(grid.Columns)*cell
	remainingH := sheet.Height - float64(grid.Rows)*cell

	forGaps := remainingW - reservedLeft - reservedRight
	if forGaps < 0 || remainingH < 0 {
		return MarginPolicy{}, fmt.Errorf("%w: %.0fpt cells plus reserved zones exceed %.2fx%.2fpt footprint",
			ErrLayoutOverflow, cell, sheet.Width, sheet.Height)
	}

	// One unit per internal gap, plus one each for the left and right margins.
	hUnit := forGaps / float64(grid.Columns-1+2)
	vUnit := remainingH / float64(grid.Rows+1)

	return MarginPolicy{
		Left:   hUnit + reservedLeft,
		Right:  hUnit + reservedRight,
		Top:    vUnit,
		Bottom: vUnit,
		GapX:   hUnit,
		GapY:   vUnit,
	}, nil
}
