// Package poppler rasterizes PDFs by shelling out to pdftoppm.
package poppler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "image/png"

	"github.com/inkfold/imposer/pkg/raster"
)

// Rasterizer renders PDF pages to PNG images with pdftoppm. All output
// lives in a private temp directory that Close removes.
type Rasterizer struct {
	dir string
}

// New creates a poppler-backed rasterizer with its own temp directory.
func New() (*Rasterizer, error) {
	dir, err := os.MkdirTemp("", "imposer-tiles-")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	return &Rasterizer{dir: dir}, nil
}

// Dir returns the directory holding the rasterized images.
func (r *Rasterizer) Dir() string { return r.dir }

// Rasterize renders every page of the PDF at path to a PNG at the given
// DPI and returns the tiles in page order.
// Requires poppler-utils: brew install poppler (macOS), apt install poppler-utils (Linux).
func (r *Rasterizer) Rasterize(ctx context.Context, path string, dpi int) ([]raster.Tile, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return nil, fmt.Errorf("%w: rasterizing requires poppler. Install with:\n  macOS:  brew install poppler\n  Linux:  apt install poppler-utils", raster.ErrRasterizationFailed)
	}

	prefix, err := r.callPrefix(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrRasterizationFailed, err)
	}

	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", strconv.Itoa(dpi), path, prefix)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: pdftoppm %s: %v: %s", raster.ErrRasterizationFailed, path, err, errBuf.String())
	}

	// pdftoppm writes <prefix>-<page>.png with zero-padded page numbers,
	// so a lexical sort restores page order.
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrRasterizationFailed, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: pdftoppm produced no pages for %s", raster.ErrRasterizationFailed, path)
	}
	sort.Strings(matches)

	tiles := make([]raster.Tile, 0, len(matches))
	for _, m := range matches {
		w, h, err := pixelSize(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", raster.ErrRasterizationFailed, err)
		}
		tiles = append(tiles, raster.Tile{Path: m, WidthPx: w, HeightPx: h})
	}
	return tiles, nil
}

// callPrefix creates a fresh subdirectory for one document's pages and
// returns the pdftoppm output prefix inside it. Each call renders into
// its own subdirectory: two inputs can share a base name (a/x.pdf,
// b/x.pdf) and must not share a glob prefix.
func (r *Rasterizer) callPrefix(path string) (string, error) {
	dir, err := os.MkdirTemp(r.dir, "doc-")
	if err != nil {
		return "", err
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, stem), nil
}

// Close removes the temp directory and every tile in it.
func (r *Rasterizer) Close() error {
	if r.dir == "" {
		return nil
	}
	err := os.RemoveAll(r.dir)
	r.dir = ""
	return err
}

// pixelSize reads the image dimensions from the PNG header without
// decoding the full image.
func pixelSize(path string) (w, h int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
