package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/inkfold/imposer/pkg/cache"
	"github.com/inkfold/imposer/pkg/canvas"
	"github.com/inkfold/imposer/pkg/canvas/pdf"
	"github.com/inkfold/imposer/pkg/impose"
	"github.com/inkfold/imposer/pkg/impose/preview"
	"github.com/inkfold/imposer/pkg/observability"
	"github.com/inkfold/imposer/pkg/raster"
	"github.com/inkfold/imposer/pkg/raster/poppler"
	"github.com/inkfold/imposer/pkg/units"
)

// printMarker is implemented by writers that can place a QR mark in a
// reserved zone. The PDF writer implements it; test doubles need not.
type printMarker interface {
	DrawPrintMark(content string, x, y, width, height float64) error
}

// Stats captures per-stage timing of a run.
type Stats struct {
	RasterizeTime time.Duration `json:"rasterize_time"`
	PlanTime      time.Duration `json:"plan_time"`
	WriteTime     time.Duration `json:"write_time"`
}

// Result describes a completed imposition run.
type Result struct {
	Output       string `json:"output"`
	TileCount    int    `json:"tile_count"`
	SheetCount   int    `json:"sheet_count"`
	DrawFailures int    `json:"draw_failures"`
	Stats        Stats  `json:"stats"`
}

// Runner executes imposition runs. The zero value is usable; NewRunner
// fills in optional collaborators.
type Runner struct {
	// Cache, when non-nil, caches rasterized tiles keyed by source
	// content and DPI.
	Cache cache.Cache

	// NewRasterizer builds the page rasterizer for a run. Defaults
	// to poppler's pdftoppm. The runner closes it when the run ends.
	NewRasterizer func() (raster.Rasterizer, error)

	// NewWriter builds the sheet writer for a run. Defaults to the
	// PDF writer.
	NewWriter func() canvas.Writer
}

// NewRunner creates a Runner with the given cache, which may be nil.
func NewRunner(c cache.Cache) *Runner {
	return &Runner{Cache: c}
}

func (r *Runner) rasterizer() (raster.Rasterizer, error) {
	var (
		ras raster.Rasterizer
		err error
	)
	if r.NewRasterizer != nil {
		ras, err = r.NewRasterizer()
	} else {
		ras, err = poppler.New()
	}
	if err != nil {
		return nil, err
	}
	if r.Cache != nil {
		return raster.NewCached(ras, r.Cache)
	}
	return ras, nil
}

func (r *Runner) writer() canvas.Writer {
	if r.NewWriter != nil {
		return r.NewWriter()
	}
	return pdf.New()
}

// rasterize renders every input to page tiles, concatenated in input
// order. When max is positive the stage stops once that many tiles
// have been gathered.
func (r *Runner) rasterize(ctx context.Context, ras raster.Rasterizer, opts *Options, max int) ([]raster.Tile, error) {
	logger := opts.Logger
	var tiles []raster.Tile
	for _, in := range opts.Inputs {
		start := time.Now()
		observability.Pipeline().OnRasterizeStart(ctx, in, opts.DPI)
		pages, err := ras.Rasterize(ctx, in, opts.DPI)
		observability.Pipeline().OnRasterizeComplete(ctx, in, len(pages), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("rasterizing %s: %w", in, err)
		}
		logger.Debug("rasterized input", "path", in, "pages", len(pages), "duration", time.Since(start))
		tiles = append(tiles, pages...)
		if max > 0 && len(tiles) >= max {
			tiles = tiles[:max]
			break
		}
	}
	if len(tiles) == 0 {
		return nil, fmt.Errorf("inputs produced no pages")
	}
	return tiles, nil
}

// Execute runs the full pipeline: rasterize the inputs, resolve the
// layout, plan placements, and write the imposed PDF to opts.Output.
func (r *Runner) Execute(ctx context.Context, opts *Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Output == "" {
		return nil, fmt.Errorf("output path is required")
	}
	logger := opts.Logger

	ras, err := r.rasterizer()
	if err != nil {
		return nil, err
	}
	defer ras.Close()

	result := &Result{Output: opts.Output}

	// ===== Rasterize =====
	start := time.Now()
	tiles, err := r.rasterize(ctx, ras, opts, 0)
	if err != nil {
		return nil, err
	}
	result.TileCount = len(tiles)
	result.Stats.RasterizeTime = time.Since(start)
	logger.Info("rasterized inputs", "inputs", len(opts.Inputs), "tiles", len(tiles), "duration", result.Stats.RasterizeTime)

	// ===== Plan =====
	start = time.Now()
	job, resolved, err := r.plan(opts, len(tiles))
	if err != nil {
		return nil, err
	}
	observability.Pipeline().OnPlanStart(ctx, resolved.Name, len(tiles))
	placements, err := impose.Plan(job)
	result.Stats.PlanTime = time.Since(start)
	observability.Pipeline().OnPlanComplete(ctx, resolved.Name, impose.SheetCount(placements), result.Stats.PlanTime, err)
	if err != nil {
		return nil, fmt.Errorf("planning layout %s: %w", resolved.Name, err)
	}
	result.SheetCount = impose.SheetCount(placements)
	logger.Info("planned placements", "layout", resolved.Name, "sheets", result.SheetCount, "duration", result.Stats.PlanTime)

	// ===== Write =====
	start = time.Now()
	observability.Pipeline().OnWriteStart(ctx, opts.Output)
	failures, err := r.write(opts, job, resolved, tiles, placements)
	result.Stats.WriteTime = time.Since(start)
	observability.Pipeline().OnWriteComplete(ctx, opts.Output, result.Stats.WriteTime, err)
	if err != nil {
		return nil, err
	}
	result.DrawFailures = failures
	logger.Info("wrote output", "path", opts.Output, "sheets", result.SheetCount, "duration", result.Stats.WriteTime)

	return result, nil
}

// plan resolves the layout and sheet into a concrete job.
func (r *Runner) plan(opts *Options, tileCount int) (impose.Job, impose.Resolved, error) {
	resolved, err := opts.ResolveLayout()
	if err != nil {
		return impose.Job{}, impose.Resolved{}, err
	}
	sheet, err := opts.ResolveSheet()
	if err != nil {
		return impose.Job{}, impose.Resolved{}, err
	}
	return resolved.Job(tileCount, sheet, opts.Margins()), resolved, nil
}

// write drives the sheet writer, beginning a new sheet whenever the
// placement stream crosses a sheet boundary. A tile that fails to draw
// leaves its cell blank and is counted, not fatal.
func (r *Runner) write(opts *Options, job impose.Job, resolved impose.Resolved, tiles []raster.Tile, placements []impose.Placement) (int, error) {
	w := r.writer()
	logger := opts.Logger

	failures := 0
	sheet := -1
	for _, p := range placements {
		if p.SheetIndex != sheet {
			if err := w.BeginSheet(job.Sheet); err != nil {
				return failures, fmt.Errorf("beginning sheet %d: %w", p.SheetIndex, err)
			}
			sheet = p.SheetIndex
		}
		if err := w.DrawTile(tiles[p.TileIndex], p); err != nil {
			logger.Warn("skipping tile", "tile", p.TileIndex, "sheet", p.SheetIndex, "error", err)
			failures++
		}
	}

	if opts.PrintMark != "" {
		if err := r.drawPrintMark(w, opts, job, resolved); err != nil {
			return failures, err
		}
	}

	if err := w.Save(opts.Output); err != nil {
		return failures, fmt.Errorf("saving %s: %w", opts.Output, err)
	}
	return failures, nil
}

// drawPrintMark places the QR mark in the left reserved zone of the
// last sheet. Only layouts with reserved zones carry one.
func (r *Runner) drawPrintMark(w canvas.Writer, opts *Options, job impose.Job, resolved impose.Resolved) error {
	if resolved.Mode != impose.ModeExact {
		return fmt.Errorf("layout %s has no reserved zone for a print mark", resolved.Name)
	}
	marker, ok := w.(printMarker)
	if !ok {
		return nil
	}
	reserved := units.MM(impose.ExactReservedMM)
	x := job.Margins.Left - reserved
	y := job.Margins.Bottom
	height := job.Sheet.Height - job.Margins.Top - job.Margins.Bottom
	return marker.DrawPrintMark(opts.PrintMark, x, y, reserved, height)
}

// Preview rasterizes just enough pages to fill the first sheet and
// renders it as an image.
func (r *Runner) Preview(ctx context.Context, opts *Options) (image.Image, error) {
	if opts.DPI == 0 {
		opts.DPI = DefaultPreviewDPI
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	ras, err := r.rasterizer()
	if err != nil {
		return nil, err
	}
	defer ras.Close()

	resolved, err := opts.ResolveLayout()
	if err != nil {
		return nil, err
	}
	sheet, err := opts.ResolveSheet()
	if err != nil {
		return nil, err
	}

	max := resolved.Grid.Capacity()
	if resolved.Mode == impose.ModeDuplicate {
		// Duplicate layouts replicate a small pool across the grid.
		max = resolved.PoolSize
	}
	tiles, err := r.rasterize(ctx, ras, opts, max)
	if err != nil {
		return nil, err
	}

	job := resolved.Job(len(tiles), sheet, opts.Margins())
	return preview.Render(job, tiles, preview.Options{})
}
