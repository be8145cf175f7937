package impose

import "fmt"

// Plan maps every tile of the job to a sheet, a grid cell, and an
// anchor coordinate. It validates the full configuration before
// computing anything, so an error means no placements were produced.
// Planning is deterministic: identical jobs yield identical records.
func Plan(job Job) ([]Placement, error) {
	if !job.Grid.Valid() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidLayout, job.Grid.Columns, job.Grid.Rows)
	}
	if !job.Sheet.Valid() {
		return nil, fmt.Errorf("%w: sheet %.2fx%.2fpt", ErrLayoutOverflow, job.Sheet.Width, job.Sheet.Height)
	}

	cw, ch, err := CellSize(job.Sheet, job.Grid, job.Margins)
	if err != nil {
		return nil, err
	}

	switch job.Mode {
	case ModeGrid, "":
		return planGrid(job, cw, ch), nil
	case ModeExact:
		return planExact(job, cw, ch), nil
	case ModeDuplicate:
		return planDuplicate(job, cw, ch)
	default:
		return nil, fmt.Errorf("%w: mode %q", ErrInvalidLayout, job.Mode)
	}
}

// anchor returns the bottom-left corner of the cell at (col, row).
// The sheet origin is bottom-left, so rows count down from the top edge.
func anchor(job Job, cw, ch float64, col, row int) (x, y float64) {
	m := job.Margins
	x = m.Left + float64(col)*(cw+m.GapX)
	y = job.Sheet.Height - m.Top - float64(row+1)*ch - float64(row)*m.GapY
	return x, y
}

// planGrid consumes tiles in order, starting a new sheet every
// capacity tiles. An empty input yields zero sheets and zero records.
func planGrid(job Job, cw, ch float64) []Placement {
	capacity := job.Grid.Capacity()
	placements := make([]Placement, 0, job.TileCount)

	for i := 0; i < job.TileCount; i++ {
		local := i % capacity
		col := local % job.Grid.Columns
		row := local / job.Grid.Columns
		x, y := anchor(job, cw, ch, col, row)

		placements = append(placements, Placement{
			TileIndex:  i,
			SheetIndex: i / capacity,
			Col:        col,
			Row:        row,
			X:          x,
			Y:          y,
			Width:      cw,
			Height:     ch,
		})
	}
	return placements
}

// planExact fills a single fixed-footprint sheet. This mode never
// paginates; tiles beyond the grid capacity are silently dropped.
func planExact(job Job, cw, ch float64) []Placement {
	n := job.TileCount
	if capacity := job.Grid.Capacity(); n > capacity {
		n = capacity
	}

	placements := make([]Placement, 0, n)
	for i := 0; i < n; i++ {
		col := i % job.Grid.Columns
		row := i / job.Grid.Columns
		x, y := anchor(job, cw, ch, col, row)

		placements = append(placements, Placement{
			TileIndex:  i,
			SheetIndex: 0,
			Col:        col,
			Row:        row,
			X:          x,
			Y:          y,
			Width:      cw,
			Height:     ch,
		})
	}
	return placements
}

// planDuplicate fills every cell of a single sheet from a fixed pool of
// source tiles. The pool is the first PoolSize tiles; when fewer are
// supplied the available tiles are cycled to fill it, so cell index c
// draws tile (c % pool) % tileCount.
func planDuplicate(job Job, cw, ch float64) ([]Placement, error) {
	if job.TileCount <= 0 {
		return nil, fmt.Errorf("%w: duplicate mapping needs at least one tile", ErrInsufficientTiles)
	}
	pool := job.PoolSize
	if pool <= 0 {
		return nil, fmt.Errorf("%w: duplicate pool size %d", ErrInvalidLayout, pool)
	}

	capacity := job.Grid.Capacity()
	placements := make([]Placement, 0, capacity)

	for cell := 0; cell < capacity; cell++ {
		src := (cell % pool) % job.TileCount
		col := cell % job.Grid.Columns
		row := cell / job.Grid.Columns
		x, y := anchor(job, cw, ch, col, row)

		placements = append(placements, Placement{
			TileIndex:  src,
			SheetIndex: 0,
			Col:        col,
			Row:        row,
			X:          x,
			Y:          y,
			Width:      cw,
			Height:     ch,
		})
	}
	return placements, nil
}

// SheetCount returns the number of sheets a plan spans. Placements are
// produced in sheet order, so the last record carries the highest index.
func SheetCount(placements []Placement) int {
	if len(placements) == 0 {
		return 0
	}
	return placements[len(placements)-1].SheetIndex + 1
}
