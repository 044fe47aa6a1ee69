package langbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/accuracy"
	"github.com/mwiater/langbench/internal/metrics"
	"github.com/mwiater/langbench/internal/pipeline"
	"github.com/mwiater/langbench/internal/report"
)

// summaryCmd previews the aggregate rows in the terminal.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print mean, median and standard deviation per column",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		opts, err := pipelineOptions(cfg)
		if err != nil {
			return err
		}
		if opts.Input == "" {
			return fmt.Errorf("no input file given (use --input)")
		}
		ds, err := accuracy.Load(opts.Input, opts.Load)
		if err != nil {
			return err
		}
		return report.RenderSummary(cmd.OutOrStdout(), ds, metrics.Summarize(ds))
	},
}

// validateCmd loads and classifies the input without writing anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the input file without writing any output",
	Long: `Load the accuracy values and classify every cell and mean. Reports the
first malformed cell or out-of-range value with its language and column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		opts, err := pipelineOptions(cfg)
		if err != nil {
			return err
		}
		opts.SkipCharts = true
		opts.ExportSpecs = ""
		res, err := pipeline.Build(opts)
		if err != nil {
			return err
		}
		missing := 0
		for _, obs := range res.Dataset.Tidy() {
			if !obs.Value.Valid {
				missing++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s has %d languages, %d columns, %d missing values\n",
			successLabel("✓ Valid:"), opts.Input, len(res.Dataset.Languages()), len(res.Dataset.Columns()), missing)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(validateCmd)
}
