package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/inkfold/imposer/pkg/impose"
)

// ReadJSON decodes a placement plan from r.
//
// The input must be a JSON object with a "job" object and a
// "placements" array as produced by [WriteJSON]. ReadJSON returns an
// error if the JSON is malformed, if the job's grid or sheet is
// invalid, or if a placement references a tile outside the job's tile
// sequence.
//
// The returned values are independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (impose.Job, []impose.Placement, error) {
	var data plan
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return impose.Job{}, nil, fmt.Errorf("decode: %w", err)
	}

	job := impose.Job{
		TileCount: data.Job.TileCount,
		Sheet:     impose.SheetSpec{Width: data.Job.Sheet.Width, Height: data.Job.Sheet.Height},
		Grid:      impose.GridSpec{Columns: data.Job.Grid.Columns, Rows: data.Job.Grid.Rows},
		Margins: impose.MarginPolicy{
			Left:   data.Job.Margins.Left,
			Right:  data.Job.Margins.Right,
			Top:    data.Job.Margins.Top,
			Bottom: data.Job.Margins.Bottom,
			GapX:   data.Job.Margins.GapX,
			GapY:   data.Job.Margins.GapY,
		},
		Mode:     impose.Mode(data.Job.Mode),
		PoolSize: data.Job.PoolSize,
	}
	if !job.Grid.Valid() {
		return impose.Job{}, nil, fmt.Errorf("job: %w", impose.ErrInvalidLayout)
	}
	if !job.Sheet.Valid() {
		return impose.Job{}, nil, fmt.Errorf("job: %w", impose.ErrInvalidLayout)
	}

	placements := make([]impose.Placement, len(data.Placements))
	for i, p := range data.Placements {
		if p.Tile < 0 || p.Tile >= job.TileCount {
			return impose.Job{}, nil, fmt.Errorf("placement %d: tile %d out of range", i, p.Tile)
		}
		placements[i] = impose.Placement{
			TileIndex:  p.Tile,
			SheetIndex: p.Sheet,
			Col:        p.Col,
			Row:        p.Row,
			X:          p.X,
			Y:          p.Y,
			Width:      p.Width,
			Height:     p.Height,
		}
	}

	return job, placements, nil
}

// ImportJSON reads a JSON file at path and returns the decoded plan.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes
// the file. Errors wrap the underlying cause with the file path for
// context.
func ImportJSON(path string) (impose.Job, []impose.Placement, error) {
	f, err := os.Open(path)
	if err != nil {
		return impose.Job{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	job, placements, err := ReadJSON(f)
	if err != nil {
		return impose.Job{}, nil, fmt.Errorf("import %s: %w", path, err)
	}
	return job, placements, nil
}
