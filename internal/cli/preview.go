package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkfold/imposer/pkg/impose/preview"
	"github.com/inkfold/imposer/pkg/pipeline"
)

// previewCommand creates the preview command, which renders the first
// sheet of an imposition as a PNG without writing a PDF.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output    string
		layout    string
		columns   int
		rows      int
		paperName string
		marginMM  float64
		portrait  bool
		pick      bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "preview <input.pdf> [input2.pdf ...]",
		Short: "Render the first sheet of an imposition as an image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick {
				chosen, err := pickLayout()
				if err != nil {
					return err
				}
				if chosen == "" {
					printWarning("No layout selected")
					return nil
				}
				layout = chosen
			}

			opts := &pipeline.Options{
				Inputs:   args,
				Layout:   layout,
				Columns:  columns,
				Rows:     rows,
				Paper:    paperName,
				MarginMM: marginMM,
				Portrait: portrait,
				Logger:   c.Logger,
			}

			runner := c.newRunner(noCache)

			spinner := newSpinnerWithContext(cmd.Context(), "Rendering preview...")
			spinner.Start()
			img, err := runner.Preview(cmd.Context(), opts)
			spinner.Stop()
			if err != nil {
				if spinner.Cancelled() {
					printWarning("Cancelled")
					return nil
				}
				return err
			}

			if err := preview.Save(img, output); err != nil {
				return fmt.Errorf("saving preview: %w", err)
			}

			printSuccess("Rendered preview")
			printFile(output)
			printNextStep("Impose for real", fmt.Sprintf("imposer impose %s -l %s", args[0], opts.Layout))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "preview.png", "output image path")
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "layout preset (see 'imposer layouts')")
	cmd.Flags().IntVar(&columns, "columns", 0, "custom grid columns")
	cmd.Flags().IntVar(&rows, "rows", 0, "custom grid rows")
	cmd.Flags().StringVarP(&paperName, "paper", "p", "", "sheet size name")
	cmd.Flags().Float64VarP(&marginMM, "margin", "m", 0, "sheet margin in mm")
	cmd.Flags().BoolVar(&portrait, "portrait", false, "keep the sheet in portrait orientation")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the layout interactively")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the tile cache")

	return cmd
}
