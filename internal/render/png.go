package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mwiater/langbench/internal/charts"
	"github.com/mwiater/langbench/internal/logging"
)

const (
	barGroupWidth = 0.8
	boxHalfWidth  = 0.3
	capHalfWidth  = 0.1
)

// hatchDashes maps hatch codes onto stroke dash patterns for bar outlines.
var hatchDashes = map[string][]float64{
	"":     nil,
	"//":   {12, 6},
	"\\\\": {6, 6},
	"xx":   {12, 4, 4, 4},
	"..":   {3, 6},
}

// PNGRenderer draws specs with go-chart.
type PNGRenderer struct{}

// NewPNGRenderer returns a renderer producing PNG images.
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

// Render draws spec and returns the PNG bytes.
func (r *PNGRenderer) Render(spec charts.Spec) ([]byte, error) {
	if spec.Empty || len(spec.Series) == 0 {
		return nil, ErrEmptySpec
	}
	if err := spec.Style.Validate(); err != nil {
		return nil, err
	}

	ch := baseChart(spec)
	legend := true
	switch spec.Type {
	case charts.LinePlot:
		ch.Series = lineSeries(spec)
	case charts.BoxPlot:
		ch.Series = boxSeries(spec)
		legend = false
	case charts.BarChart:
		if spec.Orientation == charts.ByLanguage {
			ch.Series = groupedBarSeries(spec)
		} else {
			ch.Series = meanBarSeries(spec)
			legend = false
		}
	default:
		return nil, fmt.Errorf("unsupported chart type %q", spec.Type)
	}
	if legend {
		ch.Elements = []chart.Renderable{legendFor(&ch, spec.Style)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("draw %s: %w", spec.Filename, err)
	}
	logging.LogEvent("[RENDER] %s %dx%d (%d bytes)", spec.Filename, spec.Style.Width, spec.Style.Height, buf.Len())
	return buf.Bytes(), nil
}

func baseChart(spec charts.Spec) chart.Chart {
	st := spec.Style
	grid := chart.Style{StrokeColor: hexColor(st.GridColor), StrokeWidth: 1}
	return chart.Chart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontSize: st.TitleFontSize},
		Width:      st.Width,
		Height:     st.Height,
		DPI:        st.DPI,
		Background: chart.Style{Padding: chart.Box{
			Top:    int(st.TitleFontSize * 2),
			Left:   20,
			Right:  20,
			Bottom: 20,
		}},
		XAxis: chart.XAxis{
			Name:           spec.XLabel,
			NameStyle:      chart.Style{FontSize: st.LabelFontSize},
			Style:          chart.Style{FontSize: st.TickFontSize},
			TickStyle:      chart.Style{FontSize: st.TickFontSize, TextRotationDegrees: spec.LabelRotation},
			Range:          &chart.ContinuousRange{Min: -0.5, Max: float64(len(spec.XTicks)) - 0.5},
			Ticks:          slotTicks(spec.XTicks),
			GridMajorStyle: grid,
			GridMinorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           spec.YLabel,
			NameStyle:      chart.Style{FontSize: st.LabelFontSize},
			Style:          chart.Style{FontSize: st.TickFontSize},
			Range:          &chart.ContinuousRange{Min: spec.YRange.Min, Max: spec.YRange.Max},
			Ticks:          valueTicks(spec.YRange),
			GridMajorStyle: grid,
			GridMinorStyle: grid,
		},
	}
}

// legendFor picks a go-chart legend layout for the configured position.
// Anything unrecognized gets the boxed legend inside the plot area.
func legendFor(ch *chart.Chart, st charts.Style) chart.Renderable {
	defaults := chart.Style{FontSize: st.LegendFontSize}
	switch strings.ToLower(strings.TrimSpace(st.LegendPosition)) {
	case "left", "outside left":
		return chart.LegendLeft(ch, defaults)
	case "top", "thin":
		return chart.LegendThin(ch, defaults)
	default:
		return chart.Legend(ch, defaults)
	}
}

func slotTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(labels))
	for i, label := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}
	return ticks
}

// valueTicks steps by 10 on narrow ranges and by 20 otherwise.
func valueTicks(r charts.Range) []chart.Tick {
	step := 20.0
	if r.Max-r.Min <= 50 {
		step = 10
	}
	var ticks []chart.Tick
	for v := r.Min; v <= r.Max+1e-9; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return ticks
}

func lineSeries(spec charts.Spec) []chart.Series {
	out := make([]chart.Series, 0, len(spec.Series))
	for _, s := range spec.Series {
		col := hexColor(s.Color)
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			xs = append(xs, float64(p.Index))
			ys = append(ys, clamp(p.Value, spec.YRange))
		}
		out = append(out, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: spec.Style.LineWidth,
				DotColor:    col,
				DotWidth:    spec.Style.LineWidth,
			},
		})
	}
	return out
}

// groupedBarSeries draws each classifier as one comb-shaped polyline with
// a tooth per language, filled down to the axis floor.
func groupedBarSeries(spec charts.Spec) []chart.Series {
	width := barGroupWidth / float64(len(spec.Series))
	out := make([]chart.Series, 0, len(spec.Series))
	for i, s := range spec.Series {
		var xs, ys []float64
		for _, p := range s.Points {
			x0 := float64(p.Index) - barGroupWidth/2 + float64(i)*width
			xs, ys = appendBar(xs, ys, x0, x0+width, clamp(p.Value, spec.YRange), spec.YRange.Min)
		}
		out = append(out, chart.ContinuousSeries{Name: s.Label, XValues: xs, YValues: ys, Style: barStyle(s)})
	}
	return out
}

// meanBarSeries draws one bar per classifier with a standard deviation
// error bar on top.
func meanBarSeries(spec charts.Spec) []chart.Series {
	var out []chart.Series
	errStyle := chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: spec.Style.LineWidth}
	for i, s := range spec.Series {
		if s.Bar == nil {
			continue
		}
		x := float64(i)
		xs, ys := appendBar(nil, nil, x-boxHalfWidth, x+boxHalfWidth, clamp(s.Bar.Mean, spec.YRange), spec.YRange.Min)
		out = append(out, chart.ContinuousSeries{Name: s.Label, XValues: xs, YValues: ys, Style: barStyle(s)})
		if s.Bar.StdDev > 0 {
			lo := clamp(s.Bar.Mean-s.Bar.StdDev, spec.YRange)
			hi := clamp(s.Bar.Mean+s.Bar.StdDev, spec.YRange)
			out = append(out,
				segment(x, lo, x, hi, errStyle),
				segment(x-capHalfWidth, lo, x+capHalfWidth, lo, errStyle),
				segment(x-capHalfWidth, hi, x+capHalfWidth, hi, errStyle),
			)
		}
	}
	return out
}

// boxSeries traces each box outline, median and whiskers as polylines and
// draws outliers as dots.
func boxSeries(spec charts.Spec) []chart.Series {
	var out []chart.Series
	for i, s := range spec.Series {
		if s.Box == nil || s.Box.Count == 0 {
			continue
		}
		b := s.Box
		x := float64(i)
		y := func(v float64) float64 { return clamp(v, spec.YRange) }
		col := hexColor(s.Color)
		// go-chart fills down to the axis floor, so boxes are outlined only.
		outline := chart.Style{StrokeColor: col, StrokeWidth: spec.Style.LineWidth}
		line := chart.Style{StrokeColor: darken(col), StrokeWidth: spec.Style.LineWidth}

		out = append(out, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: []float64{x - boxHalfWidth, x - boxHalfWidth, x + boxHalfWidth, x + boxHalfWidth, x - boxHalfWidth},
			YValues: []float64{y(b.Q1), y(b.Q3), y(b.Q3), y(b.Q1), y(b.Q1)},
			Style:   outline,
		})
		out = append(out,
			segment(x-boxHalfWidth, y(b.Median), x+boxHalfWidth, y(b.Median), line),
			segment(x, y(b.Q3), x, y(b.UpperWhisker), line),
			segment(x, y(b.Q1), x, y(b.LowerWhisker), line),
			segment(x-capHalfWidth, y(b.UpperWhisker), x+capHalfWidth, y(b.UpperWhisker), line),
			segment(x-capHalfWidth, y(b.LowerWhisker), x+capHalfWidth, y(b.LowerWhisker), line),
		)
		if len(b.Outliers) > 0 {
			xs := make([]float64, 0, len(b.Outliers))
			ys := make([]float64, 0, len(b.Outliers))
			for _, o := range b.Outliers {
				xs = append(xs, x)
				ys = append(ys, y(o))
			}
			out = append(out, chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotColor: darken(col), DotWidth: spec.Style.LineWidth * 2},
			})
		}
	}
	return out
}

func appendBar(xs, ys []float64, x0, x1, top, floor float64) ([]float64, []float64) {
	xs = append(xs, x0, x0, x1, x1)
	ys = append(ys, floor, top, top, floor)
	return xs, ys
}

func segment(x0, y0, x1, y1 float64, style chart.Style) chart.ContinuousSeries {
	return chart.ContinuousSeries{XValues: []float64{x0, x1}, YValues: []float64{y0, y1}, Style: style}
}

func barStyle(s charts.Series) chart.Style {
	col := hexColor(s.Color)
	dashes, ok := hatchDashes[s.Hatch]
	if !ok {
		dashes = []float64{8, 8}
	}
	return chart.Style{
		FillColor:       col,
		StrokeColor:     darken(col),
		StrokeWidth:     3,
		StrokeDashArray: dashes,
	}
}

func clamp(v float64, r charts.Range) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
}

func darken(c drawing.Color) drawing.Color {
	return drawing.Color{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
}
