package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// BatchConfig describes a batch of imposition jobs loaded from a TOML
// file.
type BatchConfig struct {
	// Name labels the batch in log output.
	Name string `toml:"name"`

	Jobs []BatchJob `toml:"jobs"`
}

// BatchJob is one imposition job inside a batch config.
type BatchJob struct {
	Name          string   `toml:"name"`
	Inputs        []string `toml:"inputs"`
	Output        string   `toml:"output"`
	Layout        string   `toml:"layout"`
	Columns       int      `toml:"columns"`
	Rows          int      `toml:"rows"`
	Paper         string   `toml:"paper"`
	PaperWidthMM  float64  `toml:"paper_width_mm"`
	PaperHeightMM float64  `toml:"paper_height_mm"`
	MarginMM      float64  `toml:"margin_mm"`
	Portrait      bool     `toml:"portrait"`
	DPI           int      `toml:"dpi"`
	PrintMark     string   `toml:"print_mark"`
}

// Options converts the job into runnable pipeline options.
func (j BatchJob) Options(logger *log.Logger) *Options {
	return &Options{
		Inputs:        j.Inputs,
		Output:        j.Output,
		Layout:        j.Layout,
		Columns:       j.Columns,
		Rows:          j.Rows,
		Paper:         j.Paper,
		PaperWidthMM:  j.PaperWidthMM,
		PaperHeightMM: j.PaperHeightMM,
		MarginMM:      j.MarginMM,
		Portrait:      j.Portrait,
		DPI:           j.DPI,
		PrintMark:     j.PrintMark,
		Logger:        logger,
	}
}

// LoadBatch reads and parses a batch config file.
func LoadBatch(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg BatchConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(cfg.Jobs) == 0 {
		return nil, fmt.Errorf("%s defines no jobs", path)
	}
	return &cfg, nil
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Results []*Result
	Failed  []string
}

// ExecuteBatch runs every job in the config. A failed job is logged
// and recorded; the remaining jobs still run.
func (r *Runner) ExecuteBatch(ctx context.Context, cfg *BatchConfig, logger *log.Logger) (*BatchResult, error) {
	if logger == nil {
		logger = log.Default()
	}

	batch := &BatchResult{}
	for i, job := range cfg.Jobs {
		name := job.Name
		if name == "" {
			name = fmt.Sprintf("job %d", i+1)
		}
		logger.Info("running job", "name", name, "inputs", len(job.Inputs))

		res, err := r.Execute(ctx, job.Options(logger))
		if err != nil {
			logger.Error("job failed", "name", name, "error", err)
			batch.Failed = append(batch.Failed, name)
			continue
		}
		batch.Results = append(batch.Results, res)
	}

	if len(batch.Results) == 0 {
		return batch, fmt.Errorf("all %d jobs failed", len(cfg.Jobs))
	}
	return batch, nil
}

// SampleBatchConfig is a starter config written by the CLI's
// batch --init flag.
const SampleBatchConfig = `# Imposition batch configuration.
name = "example batch"

[[jobs]]
name = "labels"
inputs = ["labels.pdf"]
output = "labels-imposed.pdf"
layout = "8x2"
print_mark = "LOT-2024-001"

[[jobs]]
name = "flyers"
inputs = ["flyer-front.pdf", "flyer-back.pdf"]
output = "flyers-imposed.pdf"
layout = "4up"
paper = "A3"
margin_mm = 10.0
dpi = 300
`
