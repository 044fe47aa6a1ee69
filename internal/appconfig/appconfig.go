// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mwiater/langbench/internal/charts"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. LANGBENCH_INPUT.
	EnvPrefix = "LANGBENCH"
	// defaultLogFile is used when the configuration names no log file.
	defaultLogFile = "langbench.log"
)

// Config represents the top-level application configuration.
type Config struct {
	Input          string       `mapstructure:"input" json:"input"`
	OutputDir      string       `mapstructure:"outputDir" json:"outputDir"`
	TableFile      string       `mapstructure:"tableFile" json:"tableFile"`
	PlotsDir       string       `mapstructure:"plotsDir" json:"plotsDir"`
	ImageDir       string       `mapstructure:"imageDir" json:"imageDir"`
	LanguageColumn string       `mapstructure:"languageColumn" json:"languageColumn"`
	Sheet          string       `mapstructure:"sheet" json:"sheet,omitempty"`
	BarOrientation string       `mapstructure:"barOrientation" json:"barOrientation"`
	LogFile        string       `mapstructure:"logFile" json:"logFile,omitempty"`
	Debug          bool         `mapstructure:"debug" json:"debug"`
	ExportSpecs    string       `mapstructure:"exportSpecs" json:"exportSpecs,omitempty"`
	ExportFormat   string       `mapstructure:"exportFormat" json:"exportFormat"`
	Style          charts.Style `mapstructure:"style" json:"style"`
	ConfigPath     string       `mapstructure:"-" json:"-"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	style := charts.DefaultStyle()
	v.SetDefault("input", "accuracy-reports/aggregated-accuracy-values.csv")
	v.SetDefault("outputDir", ".")
	v.SetDefault("tableFile", "ACCURACY_TABLE.md")
	v.SetDefault("plotsDir", "images/plots")
	v.SetDefault("imageDir", "images")
	v.SetDefault("languageColumn", "language")
	v.SetDefault("barOrientation", string(charts.ByClassifier))
	v.SetDefault("exportFormat", charts.FormatJSON)
	v.SetDefault("style.width", style.Width)
	v.SetDefault("style.height", style.Height)
	v.SetDefault("style.dpi", style.DPI)
	v.SetDefault("style.titleFontSize", style.TitleFontSize)
	v.SetDefault("style.labelFontSize", style.LabelFontSize)
	v.SetDefault("style.tickFontSize", style.TickFontSize)
	v.SetDefault("style.legendFontSize", style.LegendFontSize)
	v.SetDefault("style.gridColor", style.GridColor)
	v.SetDefault("style.lineWidth", style.LineWidth)
	v.SetDefault("style.legendPosition", style.LegendPosition)
}

// BindEnv makes every key overridable through LANGBENCH_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// ChartStyle returns the configured style, or the default style when none is set.
func (c Config) ChartStyle() charts.Style {
	if c.Style == (charts.Style{}) {
		return charts.DefaultStyle()
	}
	return c.Style
}

// Orientation parses the configured bar orientation.
func (c Config) Orientation() (charts.Orientation, error) {
	return charts.ParseOrientation(c.BarOrientation)
}

// Validate reports configuration values the pipeline cannot honor.
func (c Config) Validate() error {
	if _, err := c.Orientation(); err != nil {
		return err
	}
	switch strings.ToLower(c.ExportFormat) {
	case "", charts.FormatJSON, charts.FormatMsgpack:
	default:
		return fmt.Errorf("unknown export format %q", c.ExportFormat)
	}
	return c.ChartStyle().Validate()
}

// Load reads the configuration file at path into v and decodes the merged
// result. v must already carry defaults, env bindings and any flag bindings.
// An empty path means DefaultConfigPath. A missing file falls back to
// defaults unless required is set.
func Load(v *viper.Viper, path string, required bool) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if required || !(errors.As(err, &notFound) || isNotExist(err)) {
			return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
		}
		path = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
