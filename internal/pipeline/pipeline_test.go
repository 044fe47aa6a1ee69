package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/langbench/internal/accuracy"
	"github.com/mwiater/langbench/internal/charts"
	"github.com/mwiater/langbench/internal/metrics"
)

// stubRenderer avoids rasterizing in pipeline tests.
type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(spec charts.Spec) ([]byte, error) {
	s.calls++
	return []byte("png:" + spec.Filename), nil
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "aggregated-accuracy-values.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

const input = "language,average-lingua-high,average-tika,sentences-tika\nEnglish,95,80,99\nGerman,88,60,97\n"

func TestRunWritesTableAndCharts(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	renderer := &stubRenderer{}
	var out bytes.Buffer

	res, err := Run(Options{Input: writeInput(t, dir, input), OutputDir: outDir, Renderer: renderer}, &out)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	table, err := os.ReadFile(filepath.Join(outDir, DefaultTableFile))
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	if !strings.Contains(string(table), `<img src="images/green.png"> <strong>92</strong>`) {
		t.Fatalf("unexpected table:\n%s", table)
	}
	if renderer.calls != 6 || len(res.Images) != 6 {
		t.Fatalf("expected 6 rendered charts, got %d calls, %d images", renderer.calls, len(res.Images))
	}
	data, err := os.ReadFile(filepath.Join(outDir, "images", "plots", "boxplot-sentences.png"))
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if string(data) != "png:boxplot-sentences.png" {
		t.Fatalf("unexpected chart bytes %q", data)
	}
	if _, err := os.Stat(filepath.Join(outDir, "images", "plots", "lineplot-word-pairs.png")); !os.IsNotExist(err) {
		t.Fatalf("expected no image for an empty category, stat err = %v", err)
	}
	for _, want := range []string{"Table written to", "6 charts written to"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected output to contain %q, got %q", want, out.String())
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, input)
	opts := Options{Input: path, OutputDir: filepath.Join(dir, "out"), Renderer: &stubRenderer{}}

	first, err := Run(opts, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	firstTable, _ := os.ReadFile(filepath.Join(opts.OutputDir, DefaultTableFile))
	second, err := Run(opts, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	secondTable, _ := os.ReadFile(filepath.Join(opts.OutputDir, DefaultTableFile))
	if !bytes.Equal(firstTable, secondTable) || first.Table != second.Table {
		t.Fatalf("expected byte-identical tables across runs")
	}
	var a, b bytes.Buffer
	if err := charts.Encode(&a, first.Specs, charts.FormatJSON); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := charts.Encode(&b, second.Specs, charts.FormatJSON); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("expected identical chart specs across runs")
	}
}

func TestRunWritesNothingOnRangeError(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	path := writeInput(t, dir, "language,average-tika\nEnglish,80\nGerman,130\n")

	_, err := Run(Options{Input: path, OutputDir: outDir, Renderer: &stubRenderer{}}, &bytes.Buffer{})
	var rangeErr *metrics.DataRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected DataRangeError, got %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatalf("expected no output directory, stat err = %v", err)
	}
}

func TestChartsOnlyRunRejectsOutOfRangeValues(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	path := writeInput(t, dir, "language,average-tika\nEnglish,150\nGerman,-5\n")
	renderer := &stubRenderer{}

	_, err := Run(Options{Input: path, OutputDir: outDir, SkipTable: true, Renderer: renderer}, &bytes.Buffer{})
	var rangeErr *metrics.DataRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected DataRangeError, got %v", err)
	}
	if rangeErr.Language != "English" || rangeErr.Column != "average-tika" {
		t.Fatalf("expected error to name the offending cell, got %+v", rangeErr)
	}
	if renderer.calls != 0 {
		t.Fatalf("expected no charts rendered, got %d calls", renderer.calls)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatalf("expected no output directory, stat err = %v", err)
	}
}

func TestBuildExportOnlyRejectsOutOfRangeValues(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "language,sentences-tika\nEnglish,99\nGerman,100.4\n")
	_, err := Build(Options{Input: path, SkipTable: true, SkipCharts: true, ExportSpecs: filepath.Join(dir, "specs.json")})
	var rangeErr *metrics.DataRangeError
	if !errors.As(err, &rangeErr) || rangeErr.Language != "German" {
		t.Fatalf("expected DataRangeError for German, got %v", err)
	}
}

func TestRunWritesNothingOnMalformedInput(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	path := writeInput(t, dir, "language,average-tika\nEnglish,eighty\n")

	_, err := Run(Options{Input: path, OutputDir: outDir, Renderer: &stubRenderer{}}, &bytes.Buffer{})
	var malformed *accuracy.MalformedDatasetError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDatasetError, got %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatalf("expected no output directory, stat err = %v", err)
	}
}

func TestRunExportsSpecsWithoutRendering(t *testing.T) {
	dir := t.TempDir()
	renderer := &stubRenderer{}
	export := filepath.Join(dir, "specs", "charts.msgpack")

	res, err := Run(Options{
		Input:        writeInput(t, dir, input),
		OutputDir:    filepath.Join(dir, "out"),
		SkipTable:    true,
		SkipCharts:   true,
		ExportSpecs:  export,
		ExportFormat: charts.FormatMsgpack,
		Renderer:     renderer,
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if renderer.calls != 0 || res.Table != "" {
		t.Fatalf("expected no rendering, got %d calls", renderer.calls)
	}
	f, err := os.Open(export)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	specs, err := charts.Decode(f, charts.FormatMsgpack)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(specs) != 12 {
		t.Fatalf("expected 12 specs, got %d", len(specs))
	}
	if _, err := os.Stat(filepath.Join(dir, "out", DefaultTableFile)); !os.IsNotExist(err) {
		t.Fatalf("expected no table file, stat err = %v", err)
	}
}

func TestRunLimitsChartsToCategory(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	renderer := &stubRenderer{}

	res, err := Run(Options{
		Input:     writeInput(t, dir, input),
		OutputDir: outDir,
		SkipTable: true,
		Category:  accuracy.Sentences,
		Renderer:  renderer,
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(res.Specs) != 3 || renderer.calls != 3 {
		t.Fatalf("expected 3 sentence charts, got %d specs, %d calls", len(res.Specs), renderer.calls)
	}
	for _, spec := range res.Specs {
		if spec.Category != accuracy.Sentences {
			t.Fatalf("unexpected category %s", spec.Category)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "images", "plots", "lineplot-average.png")); !os.IsNotExist(err) {
		t.Fatalf("expected no average chart, stat err = %v", err)
	}
}

func TestBuildRequiresInput(t *testing.T) {
	if _, err := Build(Options{}); err == nil {
		t.Fatalf("expected error for missing input")
	}
}
