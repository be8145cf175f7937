package impose

import (
	"fmt"
	"sort"

	"github.com/inkfold/imposer/pkg/units"
)

// Fixed business constants of the 8x2 exact-footprint preset. The sheet
// targets a 460x124mm press format with square 53mm cells; the 8mm zones
// flanking the grid are reserved for a barcode strip (left) and a text
// strip (right) applied later in the print chain.
const (
	ExactSheetWidthMM  = 460.0
	ExactSheetHeightMM = 124.0
	ExactCellMM        = 53.0
	ExactReservedMM    = 8.0
)

// Fixed sheet of the 4up duplicate preset, in points. Matches the press
// sample this layout reproduces.
const (
	duplicateSheetWidthPt  = 1326.614
	duplicateSheetHeightPt = 805.039
	duplicateMarginMM      = 5.0
	duplicatePoolSize      = 4
)

// preset is one named layout entry.
type preset struct {
	columns     int
	rows        int
	mode        Mode
	description string
}

var presets = map[string]preset{
	"2up":     {2, 1, ModeGrid, "2-up (2x1)"},
	"4up":     {2, 2, ModeGrid, "4-up (2x2)"},
	"4up_dup": {4, 2, ModeDuplicate, "4-up duplicated (4x2, 8 total)"},
	"8up":     {4, 2, ModeGrid, "8-up (4x2)"},
	"8x2":     {8, 2, ModeExact, "8x2 exact sheet (460x124mm)"},
	"16up":    {4, 4, ModeGrid, "16-up (4x4)"},
}

// Resolved is the output of layout resolution: a grid, a mode, and, for
// presets that fix their physical sheet, the SheetSpec and MarginPolicy
// the caller must adopt in place of its own.
type Resolved struct {
	Name string
	Grid GridSpec
	Mode Mode

	// Sheet and Margins are non-nil only for fixed-sheet presets
	// (the exact and duplicate layouts) and override caller-supplied
	// paper size and margin.
	Sheet   *SheetSpec
	Margins *MarginPolicy

	// PoolSize is the duplicate-mode source pool; zero otherwise.
	PoolSize int

	Description string
}

// Resolve looks up a named layout preset.
func Resolve(name string) (Resolved, error) {
	p, ok := presets[name]
	if !ok {
		return Resolved{}, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}

	r := Resolved{
		Name:        name,
		Grid:        GridSpec{Columns: p.columns, Rows: p.rows},
		Mode:        p.mode,
		Description: p.description,
	}

	switch p.mode {
	case ModeExact:
		sheet := SheetSpec{Width: units.MM(ExactSheetWidthMM), Height: units.MM(ExactSheetHeightMM)}
		margins, err := SolveExactMargins(sheet, r.Grid,
			units.MM(ExactCellMM), units.MM(ExactReservedMM), units.MM(ExactReservedMM))
		if err != nil {
			return Resolved{}, err
		}
		r.Sheet = &sheet
		r.Margins = &margins
	case ModeDuplicate:
		sheet := SheetSpec{Width: duplicateSheetWidthPt, Height: duplicateSheetHeightPt}
		margins := Uniform(units.MM(duplicateMarginMM))
		r.Sheet = &sheet
		r.Margins = &margins
		r.PoolSize = duplicatePoolSize
	}

	return r, nil
}

// ResolveCustom builds a resolved layout from explicit grid dimensions.
func ResolveCustom(columns, rows int) (Resolved, error) {
	g := GridSpec{Columns: columns, Rows: rows}
	if !g.Valid() {
		return Resolved{}, fmt.Errorf("%w: %dx%d", ErrInvalidLayout, columns, rows)
	}
	return Resolved{
		Name:        "custom",
		Grid:        g,
		Mode:        ModeGrid,
		Description: fmt.Sprintf("custom (%dx%d)", columns, rows),
	}, nil
}

// Job assembles a placement job from the resolved layout, adopting the
// preset's fixed sheet and margins when present and the caller's
// otherwise.
func (r Resolved) Job(tileCount int, sheet SheetSpec, margins MarginPolicy) Job {
	if r.Sheet != nil {
		sheet = *r.Sheet
	}
	if r.Margins != nil {
		margins = *r.Margins
	}
	return Job{
		TileCount: tileCount,
		Sheet:     sheet,
		Grid:      r.Grid,
		Margins:   margins,
		Mode:      r.Mode,
		PoolSize:  r.PoolSize,
	}
}

// LayoutNames lists the registered preset names in sorted order.
func LayoutNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the human description of a preset, or "" if unknown.
func Describe(name string) string {
	return presets[name].description
}
