package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkfold/imposer/pkg/impose"
	"github.com/inkfold/imposer/pkg/paper"
)

// layoutsCommand creates the layouts listing command.
func (c *CLI) layoutsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List the available layout presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Layouts"))
			for _, name := range impose.LayoutNames() {
				printKeyValue(name, impose.Describe(name))
			}
			printNewline()
			printNextStep("Use a layout", "imposer impose input.pdf -l 8x2")
			return nil
		},
	}
}

// papersCommand creates the paper size listing command.
func (c *CLI) papersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "papers",
		Short: "List the known sheet sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Papers"))
			for _, name := range paper.Names() {
				size, err := paper.Lookup(name)
				if err != nil {
					continue
				}
				printKeyValue(name, fmt.Sprintf("%.0f x %.0f pt", size.Width, size.Height))
			}
			printNewline()
			printDetail("Sizes are portrait; sheets are rotated to landscape unless --portrait is set")
			return nil
		},
	}
}
