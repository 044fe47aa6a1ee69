// internal/commands/root.go
package langbench

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/langbench/internal/accuracy"
	"github.com/mwiater/langbench/internal/appconfig"
	"github.com/mwiater/langbench/internal/logging"
	"github.com/mwiater/langbench/internal/pipeline"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"

	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	successLabel = color.New(color.FgGreen).SprintFunc()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "langbench",
	Short:         "langbench: charts and summary tables for language detection accuracy reports",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing default file is fine; a missing file named with --config is not.
		explicit := cmd.Root().PersistentFlags().Changed("config")
		cfg, err := appconfig.Load(viper.GetViper(), cfgFile, explicit)
		if err != nil {
			return err
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(cfg.Debug)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel("✗ Error:"), err)
		logging.Close()
		os.Exit(1)
	}
}

func init() {
	appconfig.SetDefaults(viper.GetViper())
	appconfig.BindEnv(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (yaml or json)")

	flags.Bool("debug", false, "enable debug logging")
	flags.StringP("input", "i", "", "accuracy values file (.csv, .tsv, .txt or .xlsx)")
	flags.StringP("outputDir", "o", "", "directory receiving the table and chart images")
	flags.String("tableFile", "", "file name of the comparison table")
	flags.String("plotsDir", "", "chart image directory, relative to outputDir")
	flags.String("imageDir", "", "directory the table's bucket images are served from")
	flags.String("languageColumn", "", "header of the language column")
	flags.String("sheet", "", "worksheet to read from .xlsx input")
	flags.String("barOrientation", "", "bar grouping: by-classifier or by-language")
	flags.String("export", "", "also write the chart specs to this file")
	flags.String("exportFormat", "", "chart spec export format: json or msgpack")
	flags.String("logFile", "", "path to the log file")

	for key, flag := range map[string]string{
		"debug":          "debug",
		"input":          "input",
		"outputDir":      "outputDir",
		"tableFile":      "tableFile",
		"plotsDir":       "plotsDir",
		"imageDir":       "imageDir",
		"languageColumn": "languageColumn",
		"sheet":          "sheet",
		"barOrientation": "barOrientation",
		"exportSpecs":    "export",
		"exportFormat":   "exportFormat",
		"logFile":        "logFile",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// pipelineOptions maps the loaded configuration onto a pipeline run.
func pipelineOptions(cfg *appconfig.Config) (pipeline.Options, error) {
	orientation, err := cfg.Orientation()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Input: cfg.Input,
		Load: accuracy.LoadOptions{
			LanguageColumn: cfg.LanguageColumn,
			Sheet:          cfg.Sheet,
		},
		OutputDir:    cfg.OutputDir,
		TableFile:    cfg.TableFile,
		PlotsDir:     cfg.PlotsDir,
		ImageDir:     cfg.ImageDir,
		ExportSpecs:  cfg.ExportSpecs,
		ExportFormat: cfg.ExportFormat,
		Orientation:  orientation,
		Style:        cfg.ChartStyle(),
	}, nil
}
