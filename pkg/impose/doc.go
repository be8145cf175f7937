// Package impose computes grid placements for print imposition.
//
// Imposition arranges a flat sequence of rasterized source pages
// ("tiles") onto one or more physical output sheets. This package is
// the geometry core: it resolves named layouts into grids, derives the
// spacing between cells, and maps every tile index to a sheet, a grid
// cell, and an anchor coordinate in points. It performs no I/O and owns
// no state; collaborators rasterize tiles ([raster]) and draw the
// resulting placements ([canvas]).
//
// # Placement modes
//
// Three mutually exclusive modes share a single anchor formula:
//
//   - ModeGrid fills cells in reading order and paginates onto as many
//     sheets as the tile count requires.
//   - ModeExact targets one fixed-footprint sheet whose margins are
//     solved backward from the footprint, the cell size, and reserved
//     print-mark zones. Tiles beyond the grid capacity are dropped.
//   - ModeDuplicate repeats a small pool of tiles across every cell of
//     a single sheet.
//
// # Coordinates
//
// All lengths are PDF points with a bottom-left sheet origin. A
// placement's X/Y is the bottom-left corner of its cell; callers using
// top-left canvases convert with yTop = sheetHeight - y - height.
//
// # Usage
//
//	resolved, err := impose.Resolve("8x2")
//	if err != nil {
//	    return err
//	}
//	job := resolved.Job(tileCount, sheet, impose.Uniform(units.MM(5)))
//	placements, err := impose.Plan(job)
package impose
