package impose

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/inkfold/imposer/pkg/units"
)

const eps = 1e-9

// a4Landscape is the common test sheet: A4 swapped to landscape.
func a4Landscape() SheetSpec {
	return SheetSpec{Width: units.MM(297), Height: units.MM(210)}
}

func TestPlanGridPagination(t *testing.T) {
	tests := []struct {
		name       string
		tiles      int
		columns    int
		rows       int
		wantSheets int
	}{
		{name: "empty input", tiles: 0, columns: 2, rows: 2, wantSheets: 0},
		{name: "single tile", tiles: 1, columns: 2, rows: 2, wantSheets: 1},
		{name: "exactly one sheet", tiles: 4, columns: 2, rows: 2, wantSheets: 1},
		{name: "one over capacity", tiles: 5, columns: 2, rows: 2, wantSheets: 2},
		{name: "many sheets", tiles: 33, columns: 4, rows: 4, wantSheets: 3},
		{name: "single cell grid", tiles: 7, columns: 1, rows: 1, wantSheets: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := Job{
				TileCount: tt.tiles,
				Sheet:     a4Landscape(),
				Grid:      GridSpec{Columns: tt.columns, Rows: tt.rows},
				Margins:   Uniform(units.MM(5)),
				Mode:      ModeGrid,
			}
			placements, err := Plan(job)
			if err != nil {
				t.Fatalf("Plan error: %v", err)
			}
			if len(placements) != tt.tiles {
				t.Fatalf("got %d placements, want %d", len(placements), tt.tiles)
			}
			if got := SheetCount(placements); got != tt.wantSheets {
				t.Errorf("SheetCount = %d, want %d", got, tt.wantSheets)
			}

			capacity := tt.columns * tt.rows
			for i, p := range placements {
				if p.TileIndex != i {
					t.Errorf("placement %d: TileIndex = %d", i, p.TileIndex)
				}
				if want := i / capacity; p.SheetIndex != want {
					t.Errorf("tile %d: SheetIndex = %d, want %d", i, p.SheetIndex, want)
				}
				local := i % capacity
				if wantCol := local % tt.columns; p.Col != wantCol {
					t.Errorf("tile %d: Col = %d, want %d", i, p.Col, wantCol)
				}
				if wantRow := local / tt.columns; p.Row != wantRow {
					t.Errorf("tile %d: Row = %d, want %d", i, p.Row, wantRow)
				}
			}
		})
	}
}

func TestPlanGridAnchors(t *testing.T) {
	sheet := a4Landscape()
	margin := units.MM(5)
	job := Job{
		TileCount: 4,
		Sheet:     sheet,
		Grid:      GridSpec{Columns: 2, Rows: 2},
		Margins:   Uniform(margin),
		Mode:      ModeGrid,
	}

	placements, err := Plan(job)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}

	cw := (sheet.Width - 3*margin) / 2
	ch := (sheet.Height - 3*margin) / 2

	wantAnchors := []struct{ x, y float64 }{
		{margin, sheet.Height - margin - ch},             // (0,0)
		{margin + cw + margin, sheet.Height - margin - ch}, // (1,0)
		{margin, sheet.Height - margin - 2*ch - margin},    // (0,1)
		{margin + cw + margin, sheet.Height - margin - 2*ch - margin}, // (1,1)
	}

	for i, p := range placements {
		if math.Abs(p.X-wantAnchors[i].x) > eps || math.Abs(p.Y-wantAnchors[i].y) > eps {
			t.Errorf("tile %d anchor = (%.4f, %.4f), want (%.4f, %.4f)",
				i, p.X, p.Y, wantAnchors[i].x, wantAnchors[i].y)
		}
		if math.Abs(p.Width-cw) > eps || math.Abs(p.Height-ch) > eps {
			t.Errorf("tile %d cell = %.4fx%.4f, want %.4fx%.4f", i, p.Width, p.Height, cw, ch)
		}
	}

	// Bottom row must sit exactly on the bottom margin.
	if math.Abs(placements[2].Y-margin) > eps {
		t.Errorf("bottom row Y = %.6f, want %.6f", placements[2].Y, margin)
	}
}

// The scenario from the original press setup: 18 tiles on an 8x2 grid
// with 5mm uniform margins on landscape A4 must span two sheets, the
// second holding only the first two cells of its top row.
func TestPlanGridEndToEnd(t *testing.T) {
	job := Job{
		TileCount: 18,
		Sheet:     a4Landscape(),
		Grid:      GridSpec{Columns: 8, Rows: 2},
		Margins:   Uniform(units.MM(5)),
		Mode:      ModeGrid,
	}

	placements, err := Plan(job)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if got := SheetCount(placements); got != 2 {
		t.Fatalf("SheetCount = %d, want 2", got)
	}

	for i := 0; i < 16; i++ {
		if placements[i].SheetIndex != 0 {
			t.Errorf("tile %d on sheet %d, want 0", i, placements[i].SheetIndex)
		}
	}
	for i, want := range []struct{ col, row int }{{0, 0}, {1, 0}} {
		p := placements[16+i]
		if p.SheetIndex != 1 || p.Col != want.col || p.Row != want.row {
			t.Errorf("tile %d = sheet %d cell (%d,%d), want sheet 1 cell (%d,%d)",
				16+i, p.SheetIndex, p.Col, p.Row, want.col, want.row)
		}
	}
}

func TestPlanExactPreset(t *testing.T) {
	resolved, err := Resolve("8x2")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	// The preset fixes the physical footprint regardless of caller input.
	job := resolved.Job(20, a4Landscape(), Uniform(units.MM(30)))

	if math.Abs(job.Sheet.Width-units.MM(460)) > eps {
		t.Errorf("sheet width = %vpt, want 460mm", job.Sheet.Width)
	}
	if math.Abs(job.Sheet.Height-units.MM(124)) > eps {
		t.Errorf("sheet height = %vpt, want 124mm", job.Sheet.Height)
	}

	placements, err := Plan(job)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}

	// Never paginates: 20 tiles truncate to the 16-cell capacity.
	if len(placements) != 16 {
		t.Fatalf("got %d placements, want 16", len(placements))
	}
	if got := SheetCount(placements); got != 1 {
		t.Errorf("SheetCount = %d, want 1", got)
	}

	// Square 53mm cells, reproduced to sub-point precision.
	for _, p := range placements {
		if math.Abs(p.Width-units.MM(53)) > eps || math.Abs(p.Height-units.MM(53)) > eps {
			t.Fatalf("cell = %.9fx%.9fpt, want 53mm square", p.Width, p.Height)
		}
	}

	// Margins carry the 8mm reserved zones plus one spacing unit.
	// Horizontal leftover: 460 - 8*53 = 36mm; minus two 8mm zones
	// leaves 20mm over 9 units.
	hUnit := units.MM(20.0 / 9.0)
	if math.Abs(job.Margins.Left-(hUnit+units.MM(8))) > eps {
		t.Errorf("left margin = %.9fpt, want %.9fpt", job.Margins.Left, hUnit+units.MM(8))
	}
	if math.Abs(job.Margins.Right-(hUnit+units.MM(8))) > eps {
		t.Errorf("right margin = %.9fpt, want %.9fpt", job.Margins.Right, hUnit+units.MM(8))
	}
	if math.Abs(job.Margins.GapX-hUnit) > eps {
		t.Errorf("horizontal gap = %.9fpt, want %.9fpt", job.Margins.GapX, hUnit)
	}

	// Vertical leftover: 124 - 2*53 = 18mm over 3 units of 6mm.
	if math.Abs(job.Margins.Top-units.MM(6)) > eps {
		t.Errorf("top margin = %.9fpt, want 6mm", job.Margins.Top)
	}

	// First tile anchors at the left margin; first row hangs from the top.
	p0 := placements[0]
	if math.Abs(p0.X-job.Margins.Left) > eps {
		t.Errorf("tile 0 X = %.9f, want %.9f", p0.X, job.Margins.Left)
	}
	wantY := job.Sheet.Height - units.MM(6) - units.MM(53)
	if math.Abs(p0.Y-wantY) > eps {
		t.Errorf("tile 0 Y = %.9f, want %.9f", p0.Y, wantY)
	}

	// The grid plus margins must tile the footprint exactly.
	last := placements[7]
	if diff := math.Abs(last.X + last.Width + job.Margins.Right - job.Sheet.Width); diff > eps {
		t.Errorf("right edge off by %.12fpt", diff)
	}
}

func TestPlanDuplicateMapping(t *testing.T) {
	tests := []struct {
		name      string
		tiles     int
		wantTiles []int // expected TileIndex per cell 0..7
	}{
		{
			name:      "full pool",
			tiles:     4,
			wantTiles: []int{0, 1, 2, 3, 0, 1, 2, 3},
		},
		{
			name:      "pool larger than input cycles",
			tiles:     3,
			wantTiles: []int{0, 1, 2, 0, 0, 1, 2, 0},
		},
		{
			name:      "single tile fills sheet",
			tiles:     1,
			wantTiles: []int{0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:      "extra tiles beyond pool ignored",
			tiles:     9,
			wantTiles: []int{0, 1, 2, 3, 0, 1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := Resolve("4up_dup")
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			placements, err := Plan(resolved.Job(tt.tiles, SheetSpec{}, MarginPolicy{}))
			if err != nil {
				t.Fatalf("Plan error: %v", err)
			}
			if len(placements) != 8 {
				t.Fatalf("got %d placements, want 8", len(placements))
			}
			for cell, p := range placements {
				if p.TileIndex != tt.wantTiles[cell] {
					t.Errorf("cell %d: TileIndex = %d, want %d", cell, p.TileIndex, tt.wantTiles[cell])
				}
				if p.SheetIndex != 0 {
					t.Errorf("cell %d: SheetIndex = %d, want 0", cell, p.SheetIndex)
				}
			}
		})
	}
}

// Each pooled tile must appear at cell indices {i, i+4}: once in the top
// row and once directly below it.
func TestPlanDuplicatePairs(t *testing.T) {
	resolved, _ := Resolve("4up_dup")
	placements, err := Plan(resolved.Job(4, SheetSpec{}, MarginPolicy{}))
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}

	cells := make(map[int][]int) // tile -> cell indices
	for cell, p := range placements {
		cells[p.TileIndex] = append(cells[p.TileIndex], cell)
	}
	for i := 0; i < 4; i++ {
		want := []int{i, i + 4}
		if !reflect.DeepEqual(cells[i], want) {
			t.Errorf("tile %d at cells %v, want %v", i, cells[i], want)
		}
	}
}

func TestPlanDuplicateEmpty(t *testing.T) {
	resolved, _ := Resolve("4up_dup")
	_, err := Plan(resolved.Job(0, SheetSpec{}, MarginPolicy{}))
	if !errors.Is(err, ErrInsufficientTiles) {
		t.Fatalf("Plan with empty input = %v, want ErrInsufficientTiles", err)
	}
}

func TestPlanValidation(t *testing.T) {
	tests := []struct {
		name    string
		job     Job
		wantErr error
	}{
		{
			name: "zero columns",
			job: Job{
				TileCount: 1,
				Sheet:     a4Landscape(),
				Grid:      GridSpec{Columns: 0, Rows: 2},
				Margins:   Uniform(units.MM(5)),
				Mode:      ModeGrid,
			},
			wantErr: ErrInvalidLayout,
		},
		{
			name: "negative rows",
			job: Job{
				TileCount: 1,
				Sheet:     a4Landscape(),
				Grid:      GridSpec{Columns: 2, Rows: -1},
				Margins:   Uniform(units.MM(5)),
				Mode:      ModeGrid,
			},
			wantErr: ErrInvalidLayout,
		},
		{
			name: "margin swallows sheet",
			job: Job{
				TileCount: 1,
				Sheet:     SheetSpec{Width: units.MM(100), Height: units.MM(100)},
				Grid:      GridSpec{Columns: 2, Rows: 2},
				Margins:   Uniform(units.MM(40)),
				Mode:      ModeGrid,
			},
			wantErr: ErrLayoutOverflow,
		},
		{
			name: "zero-size sheet",
			job: Job{
				TileCount: 1,
				Sheet:     SheetSpec{},
				Grid:      GridSpec{Columns: 2, Rows: 2},
				Margins:   Uniform(units.MM(5)),
				Mode:      ModeGrid,
			},
			wantErr: ErrLayoutOverflow,
		},
		{
			name: "unknown mode",
			job: Job{
				TileCount: 1,
				Sheet:     a4Landscape(),
				Grid:      GridSpec{Columns: 2, Rows: 2},
				Margins:   Uniform(units.MM(5)),
				Mode:      "spiral",
			},
			wantErr: ErrInvalidLayout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placements, err := Plan(tt.job)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Plan = %v, want %v", err, tt.wantErr)
			}
			if placements != nil {
				t.Errorf("failed Plan returned %d placements, want none", len(placements))
			}
		})
	}
}

func TestPlanIdempotent(t *testing.T) {
	jobs := []Job{
		{
			TileCount: 18,
			Sheet:     a4Landscape(),
			Grid:      GridSpec{Columns: 8, Rows: 2},
			Margins:   Uniform(units.MM(5)),
			Mode:      ModeGrid,
		},
	}
	if resolved, err := Resolve("8x2"); err == nil {
		jobs = append(jobs, resolved.Job(16, SheetSpec{}, MarginPolicy{}))
	}
	if resolved, err := Resolve("4up_dup"); err == nil {
		jobs = append(jobs, resolved.Job(4, SheetSpec{}, MarginPolicy{}))
	}

	for _, job := range jobs {
		first, err := Plan(job)
		if err != nil {
			t.Fatalf("Plan error: %v", err)
		}
		second, err := Plan(job)
		if err != nil {
			t.Fatalf("Plan error: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%v: repeated Plan calls differ", job)
		}
	}
}

func TestSheetCountEmpty(t *testing.T) {
	if got := SheetCount(nil); got != 0 {
		t.Errorf("SheetCount(nil) = %d, want 0", got)
	}
}
