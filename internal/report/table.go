// internal/report/table.go
package report

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"path"
	"strconv"
	"strings"

	"github.com/mwiater/langbench/internal/accuracy"
	"github.com/mwiater/langbench/internal/logging"
	"github.com/mwiater/langbench/internal/metrics"
)

const (
	// DefaultImageDir is where the bucket square images are served from.
	DefaultImageDir = "images"
	// DefaultPlaceholder stands in for missing values.
	DefaultPlaceholder = "-"
)

// TableOptions controls the presentation of the comparison table.
type TableOptions struct {
	ImageDir    string
	Placeholder string
}

func (o TableOptions) withDefaults() TableOptions {
	if strings.TrimSpace(o.ImageDir) == "" {
		o.ImageDir = DefaultImageDir
	}
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	return o
}

type headerGroup struct {
	Title string
	Span  int
}

type tableCell struct {
	Image string
	Text  string
	Bold  bool
}

type tableRow struct {
	Label string
	Bold  bool
	Cells []tableCell
}

type tableView struct {
	Groups      []headerGroup
	Labels      []template.HTML
	Body        []tableRow
	Mean        tableRow
	Median      tableRow
	StdDev      tableRow
	SpacerWidth int
}

// RenderTable builds the HTML comparison table for ds. Columns appear in the
// dataset's lexicographic order. A value outside [0,100] aborts rendering with
// a *metrics.DataRangeError naming the language and column.
func RenderTable(ds *accuracy.Dataset, summary metrics.Summary, opts TableOptions) (string, error) {
	opts = opts.withDefaults()
	columns := ds.Columns()

	view := tableView{
		Groups:      groupHeaders(columns),
		Labels:      make([]template.HTML, 0, len(columns)),
		SpacerWidth: len(columns) + 1,
	}
	for _, key := range columns {
		style, _ := accuracy.LookupClassifier(key.Classifier)
		view.Labels = append(view.Labels, style.TableLabel)
	}

	for _, lang := range ds.Languages() {
		row := tableRow{Label: lang, Cells: make([]tableCell, 0, len(columns))}
		for _, key := range columns {
			v := ds.Value(lang, key)
			bucket, err := classifyAt(v, key, func(e *metrics.DataRangeError) { e.Language = lang })
			if err != nil {
				return "", err
			}
			row.Cells = append(row.Cells, tableCell{
				Image: bucketImage(opts.ImageDir, bucket),
				Text:  integerText(v, opts.Placeholder),
			})
		}
		view.Body = append(view.Body, row)
	}

	view.Mean = tableRow{Label: "Mean", Bold: true}
	view.Median = tableRow{Label: "Median"}
	view.StdDev = tableRow{Label: "Standard Deviation"}
	for _, key := range columns {
		meanVal := summary.Mean[key]
		bucket, err := classifyAt(meanVal, key, func(e *metrics.DataRangeError) { e.Row = "Mean" })
		if err != nil {
			return "", err
		}
		view.Mean.Cells = append(view.Mean.Cells, tableCell{
			Image: bucketImage(opts.ImageDir, bucket),
			Text:  integerText(meanVal, opts.Placeholder),
			Bold:  true,
		})
		view.Median.Cells = append(view.Median.Cells, tableCell{Text: decimalText(summary.Median[key], opts.Placeholder)})
		view.StdDev.Cells = append(view.StdDev.Cells, tableCell{Text: decimalText(summary.StdDev[key], opts.Placeholder)})
	}

	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render comparison table: %w", err)
	}
	logging.LogEvent("[TABLE] rendered %d languages x %d columns", len(view.Body), len(columns))
	return buf.String(), nil
}

// groupHeaders collapses consecutive columns of the same category into one
// spanning header cell.
func groupHeaders(columns []accuracy.ColumnKey) []headerGroup {
	var groups []headerGroup
	for _, key := range columns {
		title := key.Category.Title()
		if n := len(groups); n > 0 && groups[n-1].Title == title {
			groups[n-1].Span++
			continue
		}
		groups = append(groups, headerGroup{Title: title, Span: 1})
	}
	return groups
}

// classifyAt classifies v and tags a range error with its column; locate
// fills in the row.
func classifyAt(v accuracy.Value, key accuracy.ColumnKey, locate func(*metrics.DataRangeError)) (metrics.Bucket, error) {
	bucket, err := metrics.Classify(v)
	if err != nil {
		var rangeErr *metrics.DataRangeError
		if errors.As(err, &rangeErr) {
			locate(rangeErr)
			rangeErr.Column = key.String()
		}
		return "", err
	}
	return bucket, nil
}

func bucketImage(dir string, bucket metrics.Bucket) string {
	return path.Join(dir, string(bucket)+".png")
}

func integerText(v accuracy.Value, placeholder string) string {
	if !v.Valid {
		return placeholder
	}
	return strconv.Itoa(int(metrics.RoundTo(v.Number, 0)))
}

// decimalText keeps at least one fractional digit, so 20 prints as 20.0.
func decimalText(v accuracy.Value, placeholder string) string {
	if !v.Valid {
		return placeholder
	}
	s := strconv.FormatFloat(v.Number, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var tableTemplate = template.Must(template.New("accuracy-table").Parse(tableTemplateHTML))

const tableTemplateHTML = `<table>
	<tr>
		<th>Language</th>
{{- range .Groups }}
		<th colspan="{{ .Span }}">{{ .Title }}</th>
{{- end }}
	</tr>
	<tr>
		<th></th>
{{- range .Labels }}
		<th>{{ . }}</th>
{{- end }}
	</tr>
{{- range .Body }}
{{ template "row" . }}
{{- end }}
	<tr>
		<td colspan="{{ .SpacerWidth }}"></td>
	</tr>
{{ template "row" .Mean }}
	<tr>
		<td colspan="{{ .SpacerWidth }}"></td>
	</tr>
{{ template "row" .Median }}
{{ template "row" .StdDev }}
</table>
{{- define "row" }}	<tr>
		<td>{{ if .Bold }}<strong>{{ .Label }}</strong>{{ else }}{{ .Label }}{{ end }}</td>
{{- range .Cells }}
		<td>{{ if .Image }}<img src="{{ .Image }}"> {{ end }}{{ if .Bold }}<strong>{{ .Text }}</strong>{{ else }}{{ .Text }}{{ end }}</td>
{{- end }}
	</tr>
{{- end }}`
