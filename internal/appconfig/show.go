package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	style := cfg.ChartStyle()
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Input:           %s\n", cfg.Input)
	fmt.Fprintf(out, "  Language Column: %s\n", cfg.LanguageColumn)
	if cfg.Sheet != "" {
		fmt.Fprintf(out, "  Sheet:           %s\n", cfg.Sheet)
	}
	fmt.Fprintf(out, "  Output Dir:      %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "  Table File:      %s\n", cfg.TableFile)
	fmt.Fprintf(out, "  Plots Dir:       %s\n", cfg.PlotsDir)
	fmt.Fprintf(out, "  Image Dir:       %s\n", cfg.ImageDir)
	fmt.Fprintf(out, "  Bar Orientation: %s\n", cfg.BarOrientation)
	fmt.Fprintf(out, "  Export Specs:    %s\n", valueOrNone(cfg.ExportSpecs))
	fmt.Fprintf(out, "  Export Format:   %s\n", cfg.ExportFormat)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Figure:          %dx%d px @ %g dpi\n", style.Width, style.Height, style.DPI)
	fmt.Fprintf(out, "  Fonts:           title %g, labels %g, ticks %g, legend %g\n", style.TitleFontSize, style.LabelFontSize, style.TickFontSize, style.LegendFontSize)
	fmt.Fprintf(out, "  Grid Color:      %s\n", style.GridColor)
	fmt.Fprintf(out, "  Line Width:      %g\n", style.LineWidth)
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
