// Package raster defines the rasterizer collaborator boundary.
//
// A Rasterizer turns a source PDF into an ordered sequence of tile
// handles, one per page, with known pixel dimensions. The placement
// engine treats tiles as opaque; only the preview and canvas writers
// open them. Implementations own the lifecycle of the files they
// produce: Close releases everything on all exit paths.
package raster

import (
	"context"
	"errors"
)

// ErrRasterizationFailed is returned when a source document cannot be
// rasterized. Failures from the external tool are wrapped unchanged.
var ErrRasterizationFailed = errors.New("rasterization failed")

// Tile is one rasterized source page: the atomic unit placed into a
// grid cell.
type Tile struct {
	// Path is the rasterized image on disk.
	Path string

	// WidthPx and HeightPx are the image's pixel dimensions.
	WidthPx  int
	HeightPx int
}

// Rasterizer converts source documents to page tiles.
type Rasterizer interface {
	// Rasterize renders every page of the document at path to an image
	// at the given DPI and returns the tiles in page order.
	Rasterize(ctx context.Context, path string, dpi int) ([]Tile, error)

	// Close removes any temporary artifacts the rasterizer produced.
	// Tiles are invalid after Close.
	Close() error
}
