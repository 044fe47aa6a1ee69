// Package pipeline runs the batch report: load, aggregate, render, write.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/langbench/internal/accuracy"
	"github.com/mwiater/langbench/internal/charts"
	"github.com/mwiater/langbench/internal/logging"
	"github.com/mwiater/langbench/internal/metrics"
	"github.com/mwiater/langbench/internal/render"
	"github.com/mwiater/langbench/internal/report"
	"github.com/mwiater/langbench/internal/util"
)

const (
	// DefaultTableFile is the name of the generated comparison table.
	DefaultTableFile = "ACCURACY_TABLE.md"
	// DefaultPlotsDir holds the chart images, relative to the output dir.
	DefaultPlotsDir = "images/plots"
)

// Options configures a pipeline run.
type Options struct {
	Input      string
	Load       accuracy.LoadOptions
	OutputDir  string
	TableFile  string
	PlotsDir   string
	ImageDir   string
	SkipTable  bool
	SkipCharts bool
	// Category limits charts to one category; empty means all of them.
	Category     accuracy.Category
	ExportSpecs  string
	ExportFormat string
	Orientation  charts.Orientation
	Style        charts.Style
	// Renderer defaults to a PNG renderer.
	Renderer render.Renderer
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.OutputDir) == "" {
		o.OutputDir = "."
	}
	if strings.TrimSpace(o.TableFile) == "" {
		o.TableFile = DefaultTableFile
	}
	if strings.TrimSpace(o.PlotsDir) == "" {
		o.PlotsDir = DefaultPlotsDir
	}
	if strings.TrimSpace(o.ImageDir) == "" {
		o.ImageDir = report.DefaultImageDir
	}
	if o.Style == (charts.Style{}) {
		o.Style = charts.DefaultStyle()
	}
	if o.Renderer == nil {
		o.Renderer = render.NewPNGRenderer()
	}
	return o
}

// Result is everything a run produced, held in memory until written.
type Result struct {
	Dataset *accuracy.Dataset
	Summary metrics.Summary
	Table   string
	Specs   []charts.Spec
	Images  []render.Image
	Export  []byte
}

// Build performs every computation of a run without touching the output
// directory. Any error here means nothing gets written.
func Build(opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if strings.TrimSpace(opts.Input) == "" {
		return nil, errors.New("no input file given")
	}

	ds, err := accuracy.Load(opts.Input, opts.Load)
	if err != nil {
		return nil, err
	}
	// Charts clamp to their axes, so range errors are caught here rather
	// than left to the table.
	if err := metrics.CheckRange(ds); err != nil {
		return nil, err
	}
	res := &Result{Dataset: ds, Summary: metrics.Summarize(ds)}
	logging.LogDebug("summary computed for %d columns", len(ds.Columns()))

	if !opts.SkipTable {
		table, err := report.RenderTable(ds, res.Summary, report.TableOptions{ImageDir: opts.ImageDir})
		if err != nil {
			return nil, err
		}
		res.Table = table
	}

	if !opts.SkipCharts || opts.ExportSpecs != "" {
		var specs []charts.Spec
		if opts.Category != "" {
			specs, err = charts.ComposeCategory(ds, opts.Style, opts.Orientation, opts.Category)
		} else {
			specs, err = charts.Compose(ds, opts.Style, opts.Orientation)
		}
		if err != nil {
			return nil, err
		}
		res.Specs = specs
	}
	if !opts.SkipCharts {
		images, err := render.RenderAll(opts.Renderer, res.Specs)
		if err != nil {
			return nil, err
		}
		res.Images = images
	}
	if opts.ExportSpecs != "" {
		var buf bytes.Buffer
		if err := charts.Encode(&buf, res.Specs, opts.ExportFormat); err != nil {
			return nil, err
		}
		res.Export = buf.Bytes()
	}
	return res, nil
}

// Write stores a built result below the output directory and reports each
// artifact on out.
func Write(res *Result, opts Options, out io.Writer) error {
	opts = opts.withDefaults()
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if res.Table != "" {
		path := filepath.Join(opts.OutputDir, opts.TableFile)
		data := []byte(res.Table + "\n")
		if err := util.WriteFile(path, data); err != nil {
			return err
		}
		logging.LogArtifact("table", path, len(data), nil)
		fmt.Fprintf(out, "Table written to %s\n", path)
	}

	if len(res.Images) > 0 {
		dir := filepath.Join(opts.OutputDir, filepath.FromSlash(opts.PlotsDir))
		for _, img := range res.Images {
			path := filepath.Join(dir, img.Filename)
			if err := util.WriteFile(path, img.Data); err != nil {
				return err
			}
			logging.LogArtifact("chart", path, len(img.Data), nil)
		}
		fmt.Fprintf(out, "%d charts written to %s\n", len(res.Images), dir)
	}

	if res.Export != nil {
		if err := util.WriteFile(opts.ExportSpecs, res.Export); err != nil {
			return err
		}
		logging.LogArtifact("specs", opts.ExportSpecs, len(res.Export), opts.ExportFormat)
		fmt.Fprintf(out, "Chart specs written to %s\n", opts.ExportSpecs)
	}
	return nil
}

// Run builds the full report and writes it.
func Run(opts Options, out io.Writer) (*Result, error) {
	res, err := Build(opts)
	if err != nil {
		return nil, err
	}
	if err := Write(res, opts, out); err != nil {
		return nil, err
	}
	logging.LogEvent("[PIPELINE] %s: %d languages, %d columns, %d charts", opts.Input, len(res.Dataset.Languages()), len(res.Dataset.Columns()), len(res.Images))
	return res, nil
}
