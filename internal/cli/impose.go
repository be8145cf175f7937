package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkfold/imposer/pkg/pipeline"
)

// imposeCommand creates the impose command, the main entry point for
// arranging input PDFs onto sheets.
func (c *CLI) imposeCommand() *cobra.Command {
	var (
		output    string
		layout    string
		columns   int
		rows      int
		paperName string
		paperSize string
		marginMM  float64
		portrait  bool
		dpi       int
		printMark string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "impose <input.pdf> [input2.pdf ...]",
		Short: "Arrange PDF pages onto press sheets",
		Long: `Impose rasterizes the pages of one or more input PDFs and places them
on larger sheets according to a grid layout. Inputs are imposed in the
order given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &pipeline.Options{
				Inputs:    args,
				Output:    output,
				Layout:    layout,
				Columns:   columns,
				Rows:      rows,
				Paper:     paperName,
				MarginMM:  marginMM,
				Portrait:  portrait,
				DPI:       dpi,
				PrintMark: printMark,
				Logger:    c.Logger,
			}
			if paperSize != "" {
				w, h, err := parsePaperSize(paperSize)
				if err != nil {
					return err
				}
				opts.PaperWidthMM = w
				opts.PaperHeightMM = h
			}

			runner := c.newRunner(noCache)

			spinner := newSpinnerWithContext(cmd.Context(), "Imposing pages...")
			spinner.Start()
			prog := newProgress(c.Logger)
			res, err := runner.Execute(cmd.Context(), opts)
			spinner.Stop()
			if err != nil {
				if spinner.Cancelled() {
					printWarning("Cancelled")
					return nil
				}
				return err
			}
			prog.done(fmt.Sprintf("Imposed %d pages", res.TileCount))

			printSuccess("Wrote %d sheets", res.SheetCount)
			printStats(res.TileCount, res.SheetCount, res.DrawFailures)
			printFile(res.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "imposed.pdf", "output PDF path")
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "layout preset (see 'imposer layouts')")
	cmd.Flags().IntVar(&columns, "columns", 0, "custom grid columns")
	cmd.Flags().IntVar(&rows, "rows", 0, "custom grid rows")
	cmd.Flags().StringVarP(&paperName, "paper", "p", "", "sheet size name (see 'imposer papers')")
	cmd.Flags().StringVar(&paperSize, "paper-size", "", "custom sheet size in mm, e.g. 460x124")
	cmd.Flags().Float64VarP(&marginMM, "margin", "m", 0, "sheet margin in mm")
	cmd.Flags().BoolVar(&portrait, "portrait", false, "keep the sheet in portrait orientation")
	cmd.Flags().IntVar(&dpi, "dpi", 0, "rasterization resolution")
	cmd.Flags().StringVar(&printMark, "mark", "", "QR print mark content for layouts with a reserved zone")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the tile cache")

	return cmd
}

// parsePaperSize parses "WxH" in millimeters, e.g. "460x124".
func parsePaperSize(s string) (w, h float64, err error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid paper size %q, expected WxH in mm", s)
	}
	w, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid paper width %q", parts[0])
	}
	h, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid paper height %q", parts[1])
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("paper size must be positive, got %gx%g", w, h)
	}
	return w, h, nil
}
