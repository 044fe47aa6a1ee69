// internal/metrics/severity.go
package metrics

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mwiater/langbench/internal/accuracy"
)

// Bucket is the color band an accuracy value falls into.
type Bucket string

const (
	Grey       Bucket = "grey"
	Red        Bucket = "red"
	Orange     Bucket = "orange"
	Yellow     Bucket = "yellow"
	LightGreen Bucket = "lightgreen"
	Green      Bucket = "green"
)

// DataRangeError reports an accuracy value outside [0,100]. Language is set
// for dataset cells, Row for summary rows such as "Mean".
type DataRangeError struct {
	Value    float64
	Language string
	Row      string
	Column   string
}

func (e *DataRangeError) Error() string {
	msg := fmt.Sprintf("invalid accuracy value %g: outside [0,100]", e.Value)
	var where []string
	if e.Language != "" {
		where = append(where, fmt.Sprintf("language=%q", e.Language))
	}
	if e.Row != "" {
		where = append(where, fmt.Sprintf("row=%q", e.Row))
	}
	if e.Column != "" {
		where = append(where, fmt.Sprintf("column=%q", e.Column))
	}
	if len(where) > 0 {
		msg += " (" + strings.Join(where, " ") + ")"
	}
	return msg
}

type band struct {
	low, high int
	bucket    Bucket
}

// bands partition [0,100]; boundaries are inclusive on both ends.
var bands = []band{
	{0, 20, Red},
	{21, 40, Orange},
	{41, 60, Yellow},
	{61, 80, LightGreen},
	{81, 100, Green},
}

// Classify maps a value to its bucket. The value is rounded to the integer
// shown in the table before banding; the range check uses the raw value.
func Classify(v accuracy.Value) (Bucket, error) {
	if !v.Valid {
		return Grey, nil
	}
	if math.IsInf(v.Number, 0) || v.Number < 0 || v.Number > 100 {
		return "", &DataRangeError{Value: v.Number}
	}
	n := int(RoundTo(v.Number, 0))
	for _, b := range bands {
		if n >= b.low && n <= b.high {
			return b.bucket, nil
		}
	}
	return "", &DataRangeError{Value: v.Number}
}

// CheckRange classifies every cell of ds and returns the first
// *DataRangeError, in language then column order.
func CheckRange(ds *accuracy.Dataset) error {
	for _, lang := range ds.Languages() {
		for _, key := range ds.Columns() {
			if _, err := Classify(ds.Value(lang, key)); err != nil {
				var rangeErr *DataRangeError
				if errors.As(err, &rangeErr) {
					rangeErr.Language = lang
					rangeErr.Column = key.String()
				}
				return err
			}
		}
	}
	return nil
}
