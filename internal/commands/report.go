package langbench

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/accuracy"
	"github.com/mwiater/langbench/internal/charts"
	"github.com/mwiater/langbench/internal/pipeline"
)

// reportCmd runs the full batch: comparison table plus every chart.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the accuracy table and all charts",
	Long: `Load the accuracy values, compute the summary rows and write both the
color-coded comparison table and the bar, box and line charts for every
detection category. Nothing is written unless every step succeeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, func(opts *pipeline.Options) {})
	},
}

// tableCmd writes only the comparison table.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Generate the accuracy comparison table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, func(opts *pipeline.Options) { opts.SkipCharts = true })
	},
}

var chartCategory string

// chartsCmd writes only the chart images, optionally exporting the specs.
var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Generate the bar, box and line charts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var category accuracy.Category
		if chartCategory != "" {
			c, err := accuracy.ParseCategory(chartCategory)
			if err != nil {
				return err
			}
			category = c
		}
		return runPipeline(cmd, func(opts *pipeline.Options) {
			opts.SkipTable = true
			opts.Category = category
		})
	},
}

func runPipeline(cmd *cobra.Command, adjust func(*pipeline.Options)) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	opts, err := pipelineOptions(cfg)
	if err != nil {
		return err
	}
	adjust(&opts)

	out := cmd.OutOrStdout()
	res, err := pipeline.Run(opts, out)
	if err != nil {
		return err
	}
	if DebugEnabled() && len(res.Specs) > 0 {
		dumpSpecs(out, res.Specs)
	}
	fmt.Fprintf(out, "%s %d languages, %d columns from %s\n", successLabel("✓ Report complete:"), len(res.Dataset.Languages()), len(res.Dataset.Columns()), opts.Input)
	return nil
}

// dumpSpecs pretty prints chart specs without their per-point data.
func dumpSpecs(out io.Writer, specs []charts.Spec) {
	type specHeader struct {
		Filename string
		Title    string
		Range    charts.Range
		Legend   []string
		Empty    bool
	}
	headers := make([]specHeader, 0, len(specs))
	for _, s := range specs {
		headers = append(headers, specHeader{Filename: s.Filename, Title: s.Title, Range: s.YRange, Legend: s.Legend, Empty: s.Empty})
	}
	pp.Fprintln(out, headers)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().StringVar(&chartCategory, "category", "", "only chart this category (single-words, word-pairs, sentences, average)")
}
