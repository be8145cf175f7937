package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/inkfold/imposer/pkg/impose"
)

type plan struct {
	Job        jobSpec     `json:"job"`
	Placements []placement `json:"placements"`
}

type jobSpec struct {
	TileCount int     `json:"tile_count"`
	Sheet     sheet   `json:"sheet"`
	Grid      grid    `json:"grid"`
	Margins   margins `json:"margins"`
	Mode      string  `json:"mode"`
	PoolSize  int     `json:"pool_size,omitempty"`
}

type sheet struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type grid struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

type margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	GapX   float64 `json:"gap_x"`
	GapY   float64 `json:"gap_y"`
}

type placement struct {
	Tile   int     `json:"tile"`
	Sheet  int     `json:"sheet"`
	Col    int     `json:"col"`
	Row    int     `json:"row"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WriteJSON encodes a job and its placements as JSON and writes it to w.
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(job impose.Job, placements []impose.Placement, w io.Writer) error {
	out := plan{
		Job: jobSpec{
			TileCount: job.TileCount,
			Sheet:     sheet{Width: job.Sheet.Width, Height: job.Sheet.Height},
			Grid:      grid{Columns: job.Grid.Columns, Rows: job.Grid.Rows},
			Margins: margins{
				Left:   job.Margins.Left,
				Right:  job.Margins.Right,
				Top:    job.Margins.Top,
				Bottom: job.Margins.Bottom,
				GapX:   job.Margins.GapX,
				GapY:   job.Margins.GapY,
			},
			Mode:     string(job.Mode),
			PoolSize: job.PoolSize,
		},
		Placements: make([]placement, len(placements)),
	}

	for i, p := range placements {
		out.Placements[i] = placement{
			Tile:   p.TileIndex,
			Sheet:  p.SheetIndex,
			Col:    p.Col,
			Row:    p.Row,
			X:      p.X,
			Y:      p.Y,
			Width:  p.Width,
			Height: p.Height,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a placement plan to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(job impose.Job, placements []impose.Placement, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(job, placements, f)
}
