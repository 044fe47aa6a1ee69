package langbench

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mwiater/langbench/internal/logging"
	"github.com/mwiater/langbench/internal/metrics"
)

const smallStyleConfig = `
style:
  width: 400
  height: 200
  titleFontSize: 12
  labelFontSize: 10
  tickFontSize: 9
  legendFontSize: 8
  lineWidth: 2
`

func resetFlags(t *testing.T) {
	t.Helper()
	rootCmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// execute runs the root command with args and isolated flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	prevCfgFile := cfgFile
	t.Cleanup(func() {
		resetFlags(t)
		chartCategory = ""
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
		rootCmd.SetArgs([]string{})
		_ = logging.Close()
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return buf.String(), err
}

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, "config.yaml", "input: from-config.csv\ntableFile: CONFIG.md\n")

	_, err := execute(t,
		"--config", configPath,
		"--input", "from-flag.csv",
		"--barOrientation", "by-language",
		"--export", "specs.json",
		"--debug",
		"--logFile", filepath.Join(dir, "langbench.log"),
		"show", "config",
	)
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	if currentConfig == nil || currentConfig.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s, got %+v", configPath, currentConfig)
	}
	if currentConfig.Input != "from-flag.csv" {
		t.Fatalf("expected flag to override config input, got %s", currentConfig.Input)
	}
	if currentConfig.TableFile != "CONFIG.md" {
		t.Fatalf("expected config value to survive, got %s", currentConfig.TableFile)
	}
	if !currentConfig.Debug || currentConfig.BarOrientation != "by-language" || currentConfig.ExportSpecs != "specs.json" {
		t.Fatalf("expected flag values to flow into config: %+v", currentConfig)
	}
}

func TestPersistentPreRunERejectsBadOrientation(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, "config.yaml", "barOrientation: diagonal\n")
	_, err := execute(t, "--config", configPath, "--logFile", filepath.Join(dir, "l.log"), "show", "config")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("expected invalid configuration error, got %v", err)
	}
}

func TestShowConfigCommandOutput(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, "config.yaml", "input: data.tsv\n")

	out, err := execute(t, "--config", configPath, "--debug", "--logFile", filepath.Join(dir, "l.log"), "show", "config")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	if !strings.Contains(out, "Config file: "+configPath) {
		t.Fatalf("expected config file path in output, got %s", out)
	}
	if !strings.Contains(out, "Debug:           true") {
		t.Fatalf("expected debug in output, got %s", out)
	}
	if !strings.Contains(out, "Input:           data.tsv") {
		t.Fatalf("expected input in output, got %s", out)
	}
}

func TestReportCommandWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, "config.yaml", smallStyleConfig)
	input := writeTempFile(t, dir, "values.csv", "language,average-lingua-high,average-tika\nEnglish,95,80\nGerman,88,60\n")
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "--config", configPath, "--input", input, "--outputDir", outDir, "--logFile", filepath.Join(dir, "l.log"), "report")
	if err != nil {
		t.Fatalf("report error: %v", err)
	}
	if !strings.Contains(out, "Report complete") {
		t.Fatalf("expected completion line, got %s", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "ACCURACY_TABLE.md")); err != nil {
		t.Fatalf("expected table file: %v", err)
	}
	for _, name := range []string{"barplot-average.png", "boxplot-average.png", "lineplot-average.png"} {
		if _, err := os.Stat(filepath.Join(outDir, "images", "plots", name)); err != nil {
			t.Fatalf("expected chart %s: %v", name, err)
		}
	}
}

func TestTableCommandSkipsCharts(t *testing.T) {
	dir := t.TempDir()
	input := writeTempFile(t, dir, "values.csv", "language,average-tika\nEnglish,80\n")
	outDir := filepath.Join(dir, "out")
	configPath := writeTempFile(t, dir, "config.yaml", "tableFile: TABLE.md\n")

	if _, err := execute(t, "--config", configPath, "--input", input, "--outputDir", outDir, "--logFile", filepath.Join(dir, "l.log"), "table"); err != nil {
		t.Fatalf("table error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "TABLE.md")); err != nil {
		t.Fatalf("expected table file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "images")); !os.IsNotExist(err) {
		t.Fatalf("expected no chart directory, stat err = %v", err)
	}
}

func TestValidateCommandReportsRangeError(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, "config.yaml", "outputDir: "+filepath.Join(dir, "out")+"\n")
	input := writeTempFile(t, dir, "values.csv", "language,average-tika\nEnglish,80\nGerman,101\n")

	_, err := execute(t, "--config", configPath, "--input", input, "--logFile", filepath.Join(dir, "l.log"), "validate")
	var rangeErr *metrics.DataRangeError
	if !errors.As(err, &rangeErr) || rangeErr.Language != "German" {
		t.Fatalf("expected DataRangeError for German, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Fatalf("validate must not write output, stat err = %v", err)
	}

	good := writeTempFile(t, dir, "good.csv", "language,average-tika\nEnglish,80\nGerman,\n")
	out, err := execute(t, "--config", configPath, "--input", good, "--logFile", filepath.Join(dir, "l.log"), "validate")
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if !strings.Contains(out, "2 languages, 1 columns, 1 missing values") {
		t.Fatalf("unexpected validate output %s", out)
	}
}

func TestSummaryCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, "config.yaml", "languageColumn: lang\n")
	input := writeTempFile(t, dir, "values.tsv", "lang\taverage-tika\nEnglish\t80\nGerman\t60\n")

	out, err := execute(t, "--config", configPath, "--input", input, "--logFile", filepath.Join(dir, "l.log"), "summary")
	if err != nil {
		t.Fatalf("summary error: %v", err)
	}
	if !strings.Contains(out, "average-tika") || !strings.Contains(out, "70") {
		t.Fatalf("unexpected summary output %s", out)
	}
}

func TestChartsCommandLimitsCategory(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, "config.yaml", smallStyleConfig)
	input := writeTempFile(t, dir, "values.csv", "language,average-tika,sentences-tika\nEnglish,80,99\nGerman,60,97\n")
	outDir := filepath.Join(dir, "out")

	if _, err := execute(t, "--config", configPath, "--input", input, "--outputDir", outDir, "--logFile", filepath.Join(dir, "l.log"), "charts", "--category", "sentences"); err != nil {
		t.Fatalf("charts error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "images", "plots", "boxplot-sentences.png")); err != nil {
		t.Fatalf("expected sentence chart: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "images", "plots", "boxplot-average.png")); !os.IsNotExist(err) {
		t.Fatalf("expected no average chart, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "ACCURACY_TABLE.md")); !os.IsNotExist(err) {
		t.Fatalf("expected no table, stat err = %v", err)
	}

	_, err := execute(t, "--config", configPath, "--input", input, "--outputDir", outDir, "--logFile", filepath.Join(dir, "l.log"), "charts", "--category", "paragraphs")
	if err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Fatalf("expected unknown category error, got %v", err)
	}
}

func TestChartsCommandRejectsOutOfRangeValues(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, "config.yaml", smallStyleConfig)
	input := writeTempFile(t, dir, "values.csv", "language,average-tika\nEnglish,150\nGerman,-5\n")
	outDir := filepath.Join(dir, "out")

	_, err := execute(t, "--config", configPath, "--input", input, "--outputDir", outDir, "--logFile", filepath.Join(dir, "l.log"), "charts")
	var rangeErr *metrics.DataRangeError
	if !errors.As(err, &rangeErr) || rangeErr.Language != "English" {
		t.Fatalf("expected DataRangeError for English, got %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatalf("expected no output, stat err = %v", err)
	}
}

func TestExplicitMissingConfigFails(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--config", filepath.Join(dir, "missing.yaml"), "--logFile", filepath.Join(dir, "l.log"), "show", "config")
	if err == nil || !strings.Contains(err.Error(), "could not read config file") {
		t.Fatalf("expected config read error, got %v", err)
	}
}
