package charts

import "github.com/mwiater/langbench/internal/accuracy"

// Range bounds the value axis of a chart.
type Range struct {
	Min float64 `json:"min" msgpack:"min"`
	Max float64 `json:"max" msgpack:"max"`
}

// Plan is the fixed chart layout for one category.
type Plan struct {
	Category accuracy.Category
	Title    string
	// Classifiers lists series best first. Line charts use this order, bar
	// and box charts reverse it so the strongest system is drawn last.
	Classifiers []string
	Line        Range
	Box         Range
	Bar         Range
}

var plans = []Plan{
	{Category: accuracy.SingleWords, Title: "Single Word Detection", Line: Range{0, 100}, Box: Range{0, 100}, Bar: Range{0, 100}},
	{Category: accuracy.WordPairs, Title: "Word Pair Detection", Line: Range{0, 100}, Box: Range{0, 100}, Bar: Range{0, 120}},
	{Category: accuracy.Sentences, Title: "Sentence Detection", Line: Range{10, 100}, Box: Range{75, 100}, Bar: Range{0, 120}},
	{Category: accuracy.Average, Title: "Average Detection", Line: Range{0, 100}, Box: Range{0, 100}, Bar: Range{0, 100}},
}

// Plans returns the layout for every category in presentation order. The
// static classifier table is already ranked best first.
func Plans() []Plan {
	var ranked []string
	for _, c := range accuracy.Classifiers() {
		ranked = append(ranked, c.ID)
	}
	out := make([]Plan, len(plans))
	for i, p := range plans {
		p.Classifiers = append([]string(nil), ranked...)
		out[i] = p
	}
	return out
}

// PlanFor returns the layout of a single category.
func PlanFor(category accuracy.Category) (Plan, bool) {
	for _, p := range Plans() {
		if p.Category == category {
			return p, true
		}
	}
	return Plan{}, false
}

// lineColumns resolves the plan against ds, best first. Columns of the
// category that the plan does not rank follow in sorted order.
func (p Plan) lineColumns(ds *accuracy.Dataset) []accuracy.ColumnKey {
	var out []accuracy.ColumnKey
	ranked := make(map[string]struct{}, len(p.Classifiers))
	for _, id := range p.Classifiers {
		ranked[id] = struct{}{}
		key := accuracy.Key(p.Category, id)
		if ds.HasColumn(key) {
			out = append(out, key)
		}
	}
	var extra []accuracy.ColumnKey
	for _, key := range ds.Columns() {
		if key.Category != p.Category {
			continue
		}
		if _, ok := ranked[key.Classifier]; !ok {
			extra = append(extra, key)
		}
	}
	accuracy.SortColumnKeys(extra)
	return append(out, extra...)
}

// rankedColumns is lineColumns reversed: weakest first, best last.
func (p Plan) rankedColumns(ds *accuracy.Dataset) []accuracy.ColumnKey {
	cols := p.lineColumns(ds)
	for i, j := 0, len(cols)-1; i < j; i, j = i+1, j-1 {
		cols[i], cols[j] = cols[j], cols[i]
	}
	return cols
}
