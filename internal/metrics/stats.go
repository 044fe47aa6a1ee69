// internal/metrics/stats.go
package metrics

import (
	"math"
	"sort"

	"github.com/mwiater/langbench/internal/accuracy"
	"github.com/mwiater/langbench/internal/logging"
)

// Summary holds the aggregate rows rendered under the comparison table.
// Mean is rounded to an integer, Median and StdDev to two decimals; every
// rounding step rounds half to even.
type Summary struct {
	Mean   map[accuracy.ColumnKey]accuracy.Value
	Median map[accuracy.ColumnKey]accuracy.Value
	StdDev map[accuracy.ColumnKey]accuracy.Value
}

// Summarize computes mean, median and sample standard deviation per column,
// ignoring missing cells. Columns without values yield missing aggregates.
func Summarize(ds *accuracy.Dataset) Summary {
	columns := ds.Columns()
	summary := Summary{
		Mean:   make(map[accuracy.ColumnKey]accuracy.Value, len(columns)),
		Median: make(map[accuracy.ColumnKey]accuracy.Value, len(columns)),
		StdDev: make(map[accuracy.ColumnKey]accuracy.Value, len(columns)),
	}
	for _, key := range columns {
		values := ds.Present(key)
		if len(values) == 0 {
			summary.Mean[key] = accuracy.Missing()
			summary.Median[key] = accuracy.Missing()
			summary.StdDev[key] = accuracy.Missing()
			logging.LogEvent("[STATS] %s has no values", key)
			continue
		}
		meanVal := mean(values)
		summary.Mean[key] = accuracy.Of(RoundTo(meanVal, 0))
		summary.Median[key] = accuracy.Of(RoundTo(percentile(values, 50), 2))
		if len(values) < 2 {
			summary.StdDev[key] = accuracy.Missing()
		} else {
			summary.StdDev[key] = accuracy.Of(RoundTo(stddev(values, meanVal), 2))
		}
	}
	return summary
}

// RoundTo rounds v to the given number of decimals, half to even.
func RoundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(v*scale) / scale
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev uses one delta degree of freedom.
func stddev(values []float64, meanVal float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		diff := v - meanVal
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// percentile interpolates linearly between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	pos := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	weight := pos - float64(lower)
	return sorted[lower] + weight*(sorted[upper]-sorted[lower])
}

// MeanStdDev returns the unrounded mean and sample standard deviation of
// values. The deviation is zero when fewer than two values are given.
func MeanStdDev(values []float64) (float64, float64) {
	m := mean(values)
	return m, stddev(values, m)
}
