package cli

import (
	"github.com/spf13/cobra"

	"github.com/inkfold/imposer/pkg/impose"
	planio "github.com/inkfold/imposer/pkg/io"
	"github.com/inkfold/imposer/pkg/pipeline"
)

// planCommand creates the plan command, a debug tool that computes
// placements for a hypothetical page count and exports them as JSON.
// No rasterization happens; the plan is pure geometry.
func (c *CLI) planCommand() *cobra.Command {
	var (
		output    string
		layout    string
		columns   int
		rows      int
		paperName string
		paperSize string
		marginMM  float64
		portrait  bool
		pages     int
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a placement plan and export it as JSON",
		Long: `Plan computes cell placements for a given layout and page count
without touching any PDF. The JSON output describes every placement in
points with a bottom-left origin, for inspection or external tooling.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &pipeline.Options{
				Inputs:   []string{"unused.pdf"}, // plan needs no real input
				Layout:   layout,
				Columns:  columns,
				Rows:     rows,
				Paper:    paperName,
				MarginMM: marginMM,
				Portrait: portrait,
				Logger:   c.Logger,
			}
			if paperSize != "" {
				w, h, err := parsePaperSize(paperSize)
				if err != nil {
					return err
				}
				opts.PaperWidthMM = w
				opts.PaperHeightMM = h
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			resolved, err := opts.ResolveLayout()
			if err != nil {
				return err
			}
			sheet, err := opts.ResolveSheet()
			if err != nil {
				return err
			}

			job := resolved.Job(pages, sheet, opts.Margins())
			placements, err := impose.Plan(job)
			if err != nil {
				return err
			}

			if err := planio.ExportJSON(job, placements, output); err != nil {
				return err
			}

			printSuccess("Planned %d placements on %d sheets", len(placements), impose.SheetCount(placements))
			printDetail("Layout: %s", job.String())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "plan.json", "output JSON path")
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "layout preset (see 'imposer layouts')")
	cmd.Flags().IntVar(&columns, "columns", 0, "custom grid columns")
	cmd.Flags().IntVar(&rows, "rows", 0, "custom grid rows")
	cmd.Flags().StringVarP(&paperName, "paper", "p", "", "sheet size name")
	cmd.Flags().StringVar(&paperSize, "paper-size", "", "custom sheet size in mm, e.g. 460x124")
	cmd.Flags().Float64VarP(&marginMM, "margin", "m", 0, "sheet margin in mm")
	cmd.Flags().BoolVar(&portrait, "portrait", false, "keep the sheet in portrait orientation")
	cmd.Flags().IntVar(&pages, "pages", 16, "number of pages to plan for")

	_ = cmd.MarkFlagFilename("output", "json")
	return cmd
}
