package impose

import "fmt"

// Mode selects the placement strategy for a job.
type Mode string

// Placement modes.
const (
	// ModeGrid fills the grid in reading order, paginating across as
	// many sheets as needed.
	ModeGrid Mode = "grid"

	// ModeExact targets a single fixed-footprint sheet with asymmetric
	// reserved zones; tiles beyond capacity are dropped.
	ModeExact Mode = "exact"

	// ModeDuplicate repeats a small tile pool across one sheet's cells.
	ModeDuplicate Mode = "duplicate"
)

// SheetSpec is one physical output sheet in points. Orientation is the
// caller's concern: swap width and height before construction for
// landscape. SheetSpec itself is orientation-agnostic.
type SheetSpec struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are strictly positive.
func (s SheetSpec) Valid() bool { return s.Width > 0 && s.Height > 0 }

// GridSpec is the cell grid of a sheet.
type GridSpec struct {
	Columns int
	Rows    int
}

// Capacity returns the number of cells per sheet.
func (g GridSpec) Capacity() int { return g.Columns * g.Rows }

// Valid reports whether both dimensions are at least 1.
func (g GridSpec) Valid() bool { return g.Columns >= 1 && g.Rows >= 1 }

// MarginPolicy describes the space around the sheet edge and between
// cells, in points. Uniform margins use one value everywhere; asymmetric
// margins carry independent edge values plus per-axis inter-cell gaps,
// used when a fixed physical footprint must reserve unequal space on two
// sides (a barcode strip and a text strip flanking the grid).
type MarginPolicy struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
	GapX   float64
	GapY   float64
}

// Uniform returns a policy applying m identically on all four sides and
// between all cells.
func Uniform(m float64) MarginPolicy {
	return MarginPolicy{Left: m, Right: m, Top: m, Bottom: m, GapX: m, GapY: m}
}

// Placement assigns one drawn cell: which tile goes on which sheet, in
// which cell, and at what anchor. X/Y is the bottom-left corner of the
// cell in sheet coordinates. Records are immutable once produced.
type Placement struct {
	TileIndex  int
	SheetIndex int
	Col        int
	Row        int
	X          float64
	Y          float64
	Width      float64
	Height     float64
}

// Job is the full input to the placement engine. The engine reads it
// and owns no mutable state across calls: planning is a pure function
// of the job, so independent jobs may be planned concurrently.
type Job struct {
	// TileCount is the length of the caller's flat ordered tile sequence.
	TileCount int

	Sheet   SheetSpec
	Grid    GridSpec
	Margins MarginPolicy
	Mode    Mode

	// PoolSize is the source pool for ModeDuplicate; ignored otherwise.
	PoolSize int
}

func (j Job) String() string {
	return fmt.Sprintf("%s %dx%d (%d tiles)", j.Mode, j.Grid.Columns, j.Grid.Rows, j.TileCount)
}
