package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/langbench/internal/accuracy"
	"github.com/mwiater/langbench/internal/metrics"
	"github.com/mwiater/langbench/internal/util"
)

// maxColumnWidth caps the column label width of the terminal summary.
const maxColumnWidth = 32

var bucketColors = map[metrics.Bucket]lipgloss.Color{
	metrics.Grey:       lipgloss.Color("245"),
	metrics.Red:        lipgloss.Color("196"),
	metrics.Orange:     lipgloss.Color("208"),
	metrics.Yellow:     lipgloss.Color("226"),
	metrics.LightGreen: lipgloss.Color("120"),
	metrics.Green:      lipgloss.Color("46"),
}

// RenderSummary prints one line per column with its aggregates, the mean
// colored by severity bucket. Every cell is range checked first, so an
// out-of-range value fails even when the column mean looks plausible.
func RenderSummary(w io.Writer, ds *accuracy.Dataset, summary metrics.Summary) error {
	if err := metrics.CheckRange(ds); err != nil {
		return err
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	columns := ds.Columns()
	labels := make([]string, len(columns))
	width := utf8.RuneCountInString("Column")
	for i, key := range columns {
		labels[i] = util.TruncateRunes(key.String(), maxColumnWidth)
		if n := utf8.RuneCountInString(labels[i]); n > width {
			width = n
		}
	}

	fmt.Fprintf(w, "%s\n", headerStyle.Render(fmt.Sprintf("%-*s %6s %8s %8s", width, "Column", "Mean", "Median", "StdDev")))
	var current accuracy.Category
	for i, key := range columns {
		if key.Category != current {
			current = key.Category
			fmt.Fprintln(w, categoryStyle.Render(current.Title()))
		}
		meanVal := summary.Mean[key]
		bucket, err := metrics.Classify(meanVal)
		if err != nil {
			return fmt.Errorf("mean of column %s: %w", key, err)
		}
		meanStyle := lipgloss.NewStyle().Foreground(bucketColors[bucket])
		meanText := fmt.Sprintf("%6s", integerText(meanVal, DefaultPlaceholder))
		fmt.Fprintf(w, "%s %s %8s %8s\n",
			labels[i]+strings.Repeat(" ", width-utf8.RuneCountInString(labels[i])),
			meanStyle.Render(meanText),
			decimalText(summary.Median[key], DefaultPlaceholder),
			decimalText(summary.StdDev[key], DefaultPlaceholder),
		)
	}
	return nil
}
