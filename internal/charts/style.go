// Package charts composes chart specifications from an accuracy dataset.
// Specs carry data, styling and axis bounds; rasterization happens elsewhere.
package charts

import (
	"errors"
	"fmt"
	"strings"
)

// Style holds the figure-wide presentation settings. It is passed by value
// into Compose and copied into every spec.
type Style struct {
	Width          int     `json:"width" msgpack:"width" mapstructure:"width"`
	Height         int     `json:"height" msgpack:"height" mapstructure:"height"`
	DPI            float64 `json:"dpi" msgpack:"dpi" mapstructure:"dpi"`
	TitleFontSize  float64 `json:"titleFontSize" msgpack:"titleFontSize" mapstructure:"titleFontSize"`
	LabelFontSize  float64 `json:"labelFontSize" msgpack:"labelFontSize" mapstructure:"labelFontSize"`
	TickFontSize   float64 `json:"tickFontSize" msgpack:"tickFontSize" mapstructure:"tickFontSize"`
	LegendFontSize float64 `json:"legendFontSize" msgpack:"legendFontSize" mapstructure:"legendFontSize"`
	GridColor      string  `json:"gridColor" msgpack:"gridColor" mapstructure:"gridColor"`
	LineWidth      float64 `json:"lineWidth" msgpack:"lineWidth" mapstructure:"lineWidth"`
	LegendPosition string  `json:"legendPosition" msgpack:"legendPosition" mapstructure:"legendPosition"`
}

// DefaultStyle matches the published plots: 32x12 inches at 72 dpi.
func DefaultStyle() Style {
	return Style{
		Width:          32 * 72,
		Height:         12 * 72,
		DPI:            72,
		TitleFontSize:  45,
		LabelFontSize:  38,
		TickFontSize:   35,
		LegendFontSize: 28,
		GridColor:      "#A6A6A6",
		LineWidth:      5,
		LegendPosition: "lower left",
	}
}

// Validate reports settings no renderer could honor.
func (s Style) Validate() error {
	var problems []string
	if s.Width <= 0 || s.Height <= 0 {
		problems = append(problems, fmt.Sprintf("figure size %dx%d must be positive", s.Width, s.Height))
	}
	if s.DPI <= 0 {
		problems = append(problems, fmt.Sprintf("dpi %g must be positive", s.DPI))
	}
	if s.LineWidth < 0 {
		problems = append(problems, fmt.Sprintf("line width %g must not be negative", s.LineWidth))
	}
	if s.TitleFontSize <= 0 || s.LabelFontSize <= 0 || s.TickFontSize <= 0 || s.LegendFontSize <= 0 {
		problems = append(problems, "font sizes must be positive")
	}
	if len(problems) > 0 {
		return errors.New("invalid chart style: " + strings.Join(problems, "; "))
	}
	return nil
}
