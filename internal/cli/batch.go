package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkfold/imposer/pkg/pipeline"
)

// batchCommand creates the batch command, which runs every job in a
// TOML config file.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		initConfig bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "batch <config.toml>",
		Short: "Run a batch of imposition jobs from a config file",
		Long: `Batch runs every job defined in a TOML config file. Jobs run in
order; a failing job is reported and the rest still run.

Generate a starter config with --init.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if initConfig {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists", path)
				}
				if err := os.WriteFile(path, []byte(pipeline.SampleBatchConfig), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				printSuccess("Wrote sample config")
				printFile(path)
				printNextStep("Edit it, then run", "imposer batch "+path)
				return nil
			}

			cfg, err := pipeline.LoadBatch(path)
			if err != nil {
				return err
			}
			if cfg.Name != "" {
				printInfo("Running batch %q with %d jobs", cfg.Name, len(cfg.Jobs))
			}

			runner := c.newRunner(noCache)
			prog := newProgress(c.Logger)
			res, err := runner.ExecuteBatch(cmd.Context(), cfg, c.Logger)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Finished %d jobs", len(res.Results)))

			for _, r := range res.Results {
				printSuccess("%d sheets", r.SheetCount)
				printFile(r.Output)
			}
			for _, name := range res.Failed {
				printError("Job %s failed", name)
			}
			if len(res.Failed) > 0 {
				return fmt.Errorf("%d of %d jobs failed", len(res.Failed), len(cfg.Jobs))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&initConfig, "init", false, "write a sample config and exit")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the tile cache")

	return cmd
}
