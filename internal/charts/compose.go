package charts

import (
	"fmt"

	"github.com/mwiater/langbench/internal/accuracy"
	"github.com/mwiater/langbench/internal/logging"
	"github.com/mwiater/langbench/internal/metrics"
)

// ChartType names a kind of chart. Its value prefixes the image filename.
type ChartType string

const (
	BarChart ChartType = "barplot"
	BoxPlot  ChartType = "boxplot"
	LinePlot ChartType = "lineplot"
)

// Orientation selects how bar charts group their bars.
type Orientation string

const (
	// ByClassifier draws one bar per classifier at its mean, with a
	// standard deviation error bar.
	ByClassifier Orientation = "by-classifier"
	// ByLanguage draws one group per language, one bar per classifier.
	ByLanguage Orientation = "by-language"
)

// ParseOrientation validates a configured orientation; empty means ByClassifier.
func ParseOrientation(raw string) (Orientation, error) {
	switch Orientation(raw) {
	case "", ByClassifier:
		return ByClassifier, nil
	case ByLanguage:
		return ByLanguage, nil
	}
	return "", fmt.Errorf("unknown bar orientation %q (want %q or %q)", raw, ByClassifier, ByLanguage)
}

// Point is one value plotted at a category slot on the x axis.
type Point struct {
	Index int     `json:"index" msgpack:"index"`
	Label string  `json:"label" msgpack:"label"`
	Value float64 `json:"value" msgpack:"value"`
}

// BarStat is the height and error of a single aggregated bar.
type BarStat struct {
	Mean   float64 `json:"mean" msgpack:"mean"`
	StdDev float64 `json:"stdDev" msgpack:"stdDev"`
}

// Series is the data and encoding for one classifier.
type Series struct {
	Column string       `json:"column" msgpack:"column"`
	Label  string       `json:"label" msgpack:"label"`
	Color  string       `json:"color" msgpack:"color"`
	Hatch  string       `json:"hatch" msgpack:"hatch"`
	Points []Point      `json:"points,omitempty" msgpack:"points,omitempty"`
	Bar    *BarStat     `json:"bar,omitempty" msgpack:"bar,omitempty"`
	Box    *metrics.Box `json:"box,omitempty" msgpack:"box,omitempty"`
}

// Spec describes one chart completely. Renderers need nothing else.
type Spec struct {
	Type          ChartType         `json:"type" msgpack:"type"`
	Category      accuracy.Category `json:"category" msgpack:"category"`
	Title         string            `json:"title" msgpack:"title"`
	Filename      string            `json:"filename" msgpack:"filename"`
	Orientation   Orientation       `json:"orientation,omitempty" msgpack:"orientation,omitempty"`
	XLabel        string            `json:"xLabel" msgpack:"xLabel"`
	YLabel        string            `json:"yLabel" msgpack:"yLabel"`
	XTicks        []string          `json:"xTicks" msgpack:"xTicks"`
	LabelRotation float64           `json:"labelRotation" msgpack:"labelRotation"`
	YRange        Range             `json:"yRange" msgpack:"yRange"`
	Legend        []string          `json:"legend" msgpack:"legend"`
	Series        []Series          `json:"series" msgpack:"series"`
	Empty         bool              `json:"empty" msgpack:"empty"`
	Style         Style             `json:"style" msgpack:"style"`
}

// Compose builds a bar, box and line spec for every category, in that
// order. Columns the dataset lacks are skipped; a spec left without series
// is marked Empty.
func Compose(ds *accuracy.Dataset, style Style, orientation Orientation) ([]Spec, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	orientation, err := ParseOrientation(string(orientation))
	if err != nil {
		return nil, err
	}

	var specs []Spec
	for _, plan := range Plans() {
		specs = append(specs, composePlan(ds, plan, style, orientation)...)
	}
	logging.LogEvent("[CHARTS] composed %d chart specs over %d languages", len(specs), len(ds.Languages()))
	return specs, nil
}

// ComposeCategory builds the bar, box and line specs of a single category.
func ComposeCategory(ds *accuracy.Dataset, style Style, orientation Orientation, category accuracy.Category) ([]Spec, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	orientation, err := ParseOrientation(string(orientation))
	if err != nil {
		return nil, err
	}
	plan, ok := PlanFor(category)
	if !ok {
		return nil, fmt.Errorf("no chart plan for category %q", category)
	}
	specs := composePlan(ds, plan, style, orientation)
	logging.LogEvent("[CHARTS] composed %d chart specs for %s", len(specs), category)
	return specs, nil
}

func composePlan(ds *accuracy.Dataset, plan Plan, style Style, orientation Orientation) []Spec {
	bar := composeBar(ds, plan, orientation)
	box := composeBox(ds, plan)
	line := composeLine(ds, plan)
	specs := make([]Spec, 0, 3)
	for _, spec := range []Spec{bar, box, line} {
		spec.Category = plan.Category
		spec.Title = plan.Title
		spec.Filename = fmt.Sprintf("%s-%s.png", spec.Type, plan.Category)
		spec.Style = style
		spec.Empty = len(spec.Series) == 0
		spec.Legend = make([]string, 0, len(spec.Series))
		for _, s := range spec.Series {
			spec.Legend = append(spec.Legend, s.Label)
		}
		if spec.XTicks == nil {
			spec.XTicks = []string{}
		}
		if spec.Series == nil {
			spec.Series = []Series{}
		}
		specs = append(specs, spec)
	}
	return specs
}

func newSeries(key accuracy.ColumnKey) Series {
	style, _ := accuracy.LookupClassifier(key.Classifier)
	return Series{Column: key.String(), Label: style.Label, Color: style.Color, Hatch: style.Hatch}
}

// languagePoints returns the non-missing cells of a column, indexed by the
// language's position in the dataset.
func languagePoints(ds *accuracy.Dataset, key accuracy.ColumnKey) []Point {
	var points []Point
	for i, lang := range ds.Languages() {
		v := ds.Value(lang, key)
		if !v.Valid {
			continue
		}
		points = append(points, Point{Index: i, Label: lang, Value: v.Number})
	}
	return points
}

func composeLine(ds *accuracy.Dataset, plan Plan) Spec {
	spec := Spec{
		Type:          LinePlot,
		XLabel:        "Language",
		YLabel:        "Accuracy (%)",
		XTicks:        ds.Languages(),
		LabelRotation: 90,
		YRange:        plan.Line,
	}
	for _, key := range plan.lineColumns(ds) {
		points := languagePoints(ds, key)
		if len(points) == 0 {
			continue
		}
		s := newSeries(key)
		s.Points = points
		spec.Series = append(spec.Series, s)
	}
	return spec
}

func composeBox(ds *accuracy.Dataset, plan Plan) Spec {
	spec := Spec{
		Type:   BoxPlot,
		XLabel: "Classifier",
		YLabel: "Accuracy (%)",
		YRange: plan.Box,
	}
	for _, key := range plan.rankedColumns(ds) {
		values := ds.Present(key)
		if len(values) == 0 {
			continue
		}
		s := newSeries(key)
		box := metrics.BoxStats(values)
		s.Box = &box
		spec.Series = append(spec.Series, s)
		spec.XTicks = append(spec.XTicks, s.Label)
	}
	return spec
}

func composeBar(ds *accuracy.Dataset, plan Plan, orientation Orientation) Spec {
	spec := Spec{
		Type:        BarChart,
		Orientation: orientation,
		YRange:      plan.Bar,
	}
	if orientation == ByLanguage {
		spec.XLabel = "Language"
		spec.YLabel = "Accuracy (%)"
		spec.XTicks = ds.Languages()
		spec.LabelRotation = 90
	} else {
		spec.XLabel = "Classifier"
		spec.YLabel = "Mean Accuracy (%)"
	}
	for _, key := range plan.rankedColumns(ds) {
		values := ds.Present(key)
		if len(values) == 0 {
			continue
		}
		s := newSeries(key)
		if orientation == ByLanguage {
			s.Points = languagePoints(ds, key)
		} else {
			meanVal, sd := metrics.MeanStdDev(values)
			s.Bar = &BarStat{Mean: meanVal, StdDev: sd}
			spec.XTicks = append(spec.XTicks, s.Label)
		}
		spec.Series = append(spec.Series, s)
	}
	return spec
}
