// internal/accuracy/types.go
package accuracy

import (
	"fmt"
	"html/template"
	"math"
	"sort"
	"strings"
)

// Category describes the granularity of the text a classifier was asked to detect.
type Category string

const (
	SingleWords Category = "single-words"
	WordPairs   Category = "word-pairs"
	Sentences   Category = "sentences"
	Average     Category = "average"
)

var categoryTitles = map[Category]string{
	Average:     "Average",
	SingleWords: "Single Words",
	WordPairs:   "Word Pairs",
	Sentences:   "Sentences",
}

// Categories returns every known category in presentation order.
func Categories() []Category {
	return []Category{SingleWords, WordPairs, Sentences, Average}
}

// Title returns the header text used for the category in rendered tables.
func (c Category) Title() string {
	if title, ok := categoryTitles[c]; ok {
		return title
	}
	return string(c)
}

// ParseCategory validates a raw category identifier.
func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// ClassifierStyle is the static presentation data for one competing detector.
type ClassifierStyle struct {
	ID         string
	Label      string
	TableLabel template.HTML
	Color      string
	Hatch      string
}

// classifiers is ranked best first; chart legends rely on this order.
var classifiers = []ClassifierStyle{
	{ID: "lingua-high", Label: "Lingua (high accuracy mode)", TableLabel: "Lingua<br>(high accuracy mode)", Color: "#2E7D32", Hatch: ""},
	{ID: "lingua-low", Label: "Lingua (low accuracy mode)", TableLabel: "Lingua<br>(low accuracy mode)", Color: "#8BC34A", Hatch: "//"},
	{ID: "tika", Label: "Tika", TableLabel: "&nbsp;&nbsp;Tika&nbsp;&nbsp;", Color: "#FF9800", Hatch: "\\\\"},
	{ID: "opennlp", Label: "OpenNLP", TableLabel: "OpenNLP", Color: "#1E88E5", Hatch: "xx"},
	{ID: "optimaize", Label: "Optimaize", TableLabel: "Optimaize", Color: "#E53935", Hatch: ".."},
}

const unknownClassifierColor = "#9E9E9E"

// Classifiers returns a copy of the static classifier table.
func Classifiers() []ClassifierStyle {
	out := make([]ClassifierStyle, len(classifiers))
	copy(out, classifiers)
	return out
}

// LookupClassifier returns the style for id. Unknown ids get a neutral style
// labelled with the raw id and ok=false.
func LookupClassifier(id string) (ClassifierStyle, bool) {
	for _, c := range classifiers {
		if c.ID == id {
			return c, true
		}
	}
	return ClassifierStyle{
		ID:         id,
		Label:      id,
		TableLabel: template.HTML(template.HTMLEscapeString(id)),
		Color:      unknownClassifierColor,
	}, false
}

// ColumnKey identifies a dataset column as a (category, classifier) pair.
type ColumnKey struct {
	Category   Category
	Classifier string
}

// Key builds a column key from its parts.
func Key(category Category, classifier string) ColumnKey {
	return ColumnKey{Category: category, Classifier: classifier}
}

func (k ColumnKey) String() string {
	return string(k.Category) + "-" + k.Classifier
}

// ParseColumnKey splits a header of the form <category>-<classifier>. Category
// names contain hyphens themselves, so the longest matching category wins.
func ParseColumnKey(raw string) (ColumnKey, error) {
	raw = strings.TrimSpace(raw)
	var best Category
	for _, c := range Categories() {
		prefix := string(c) + "-"
		if strings.HasPrefix(raw, prefix) && len(c) > len(best) {
			best = c
		}
	}
	if best == "" {
		return ColumnKey{}, fmt.Errorf("column %q does not start with a known category", raw)
	}
	classifier := strings.TrimPrefix(raw, string(best)+"-")
	if classifier == "" {
		return ColumnKey{}, fmt.Errorf("column %q has no classifier", raw)
	}
	return ColumnKey{Category: best, Classifier: classifier}, nil
}

// SortColumnKeys orders keys lexicographically by their string form.
func SortColumnKeys(keys []ColumnKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
}

// Value is an accuracy percentage or the missing marker.
type Value struct {
	Number float64
	Valid  bool
}

// Of wraps a number. NaN is treated as missing.
func Of(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{Number: v, Valid: true}
}

// Missing returns the missing marker.
func Missing() Value {
	return Value{}
}

func (v Value) String() string {
	if !v.Valid {
		return "NaN"
	}
	return fmt.Sprintf("%g", v.Number)
}

// Observation is one atomic (language, category, classifier, value) tuple.
type Observation struct {
	Language   string
	Category   Category
	Classifier string
	Value      Value
}
