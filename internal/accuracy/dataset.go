// internal/accuracy/dataset.go
package accuracy

import "fmt"

// Dataset maps languages to per-column accuracy values. It is built once by
// the loader and never mutated afterwards; accessors hand out copies.
type Dataset struct {
	languages []string
	columns   []ColumnKey
	cells     map[string]map[ColumnKey]Value
}

// NewDataset builds a dataset from rows keyed by language. Language order is
// kept as given, columns are sorted. Every row must carry exactly the columns
// listed; absent cells are an error rather than implicit missing values.
func NewDataset(languages []string, columns []ColumnKey, rows map[string]map[ColumnKey]Value) (*Dataset, error) {
	ds := &Dataset{
		languages: make([]string, 0, len(languages)),
		columns:   make([]ColumnKey, len(columns)),
		cells:     make(map[string]map[ColumnKey]Value, len(languages)),
	}
	copy(ds.columns, columns)
	SortColumnKeys(ds.columns)

	seenCols := make(map[ColumnKey]struct{}, len(columns))
	for _, c := range ds.columns {
		if _, dup := seenCols[c]; dup {
			return nil, &MalformedDatasetError{Column: c.String(), Reason: "duplicate column"}
		}
		seenCols[c] = struct{}{}
	}

	for _, lang := range languages {
		if _, dup := ds.cells[lang]; dup {
			return nil, &MalformedDatasetError{Language: lang, Reason: "duplicate language"}
		}
		row, ok := rows[lang]
		if !ok {
			return nil, &MalformedDatasetError{Language: lang, Reason: "no values for language"}
		}
		if len(row) != len(ds.columns) {
			return nil, &MalformedDatasetError{Language: lang, Reason: fmt.Sprintf("expected %d columns, got %d", len(ds.columns), len(row))}
		}
		cells := make(map[ColumnKey]Value, len(row))
		for _, c := range ds.columns {
			v, ok := row[c]
			if !ok {
				return nil, &MalformedDatasetError{Language: lang, Column: c.String(), Reason: "column missing from row"}
			}
			cells[c] = v
		}
		ds.languages = append(ds.languages, lang)
		ds.cells[lang] = cells
	}
	return ds, nil
}

// Languages returns the row keys in input order.
func (d *Dataset) Languages() []string {
	out := make([]string, len(d.languages))
	copy(out, d.languages)
	return out
}

// Columns returns the column keys in lexicographic order.
func (d *Dataset) Columns() []ColumnKey {
	out := make([]ColumnKey, len(d.columns))
	copy(out, d.columns)
	return out
}

// HasColumn reports whether the dataset carries the given column.
func (d *Dataset) HasColumn(key ColumnKey) bool {
	for _, c := range d.columns {
		if c == key {
			return true
		}
	}
	return false
}

// Value returns the cell for language and column; unknown cells are missing.
func (d *Dataset) Value(language string, key ColumnKey) Value {
	row, ok := d.cells[language]
	if !ok {
		return Missing()
	}
	return row[key]
}

// Column returns the values of one column in language order.
func (d *Dataset) Column(key ColumnKey) []Value {
	out := make([]Value, 0, len(d.languages))
	for _, lang := range d.languages {
		out = append(out, d.cells[lang][key])
	}
	return out
}

// Present returns the non-missing numbers of a column in language order.
func (d *Dataset) Present(key ColumnKey) []float64 {
	var out []float64
	for _, v := range d.Column(key) {
		if v.Valid {
			out = append(out, v.Number)
		}
	}
	return out
}

// Tidy returns the long form of the dataset: one observation per cell,
// ordered by language, then column.
func (d *Dataset) Tidy() []Observation {
	out := make([]Observation, 0, len(d.languages)*len(d.columns))
	for _, lang := range d.languages {
		for _, c := range d.columns {
			out = append(out, Observation{
				Language:   lang,
				Category:   c.Category,
				Classifier: c.Classifier,
				Value:      d.cells[lang][c],
			})
		}
	}
	return out
}
