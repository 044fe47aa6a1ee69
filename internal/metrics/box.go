package metrics

import "sort"

// Box summarizes a distribution the way box plots draw it. Whiskers reach
// the most extreme values within 1.5 IQR of the quartiles; anything beyond
// is listed in Outliers.
type Box struct {
	Count        int       `json:"count" msgpack:"count"`
	Q1           float64   `json:"q1" msgpack:"q1"`
	Median       float64   `json:"median" msgpack:"median"`
	Q3           float64   `json:"q3" msgpack:"q3"`
	LowerWhisker float64   `json:"lowerWhisker" msgpack:"lowerWhisker"`
	UpperWhisker float64   `json:"upperWhisker" msgpack:"upperWhisker"`
	Outliers     []float64 `json:"outliers" msgpack:"outliers"`
}

// BoxStats computes quartiles, whiskers and outliers. An empty input yields
// the zero Box.
func BoxStats(values []float64) Box {
	if len(values) == 0 {
		return Box{Outliers: []float64{}}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	box := Box{
		Count:    len(sorted),
		Q1:       percentile(sorted, 25),
		Median:   percentile(sorted, 50),
		Q3:       percentile(sorted, 75),
		Outliers: []float64{},
	}
	iqr := box.Q3 - box.Q1
	lowFence := box.Q1 - 1.5*iqr
	highFence := box.Q3 + 1.5*iqr

	box.LowerWhisker = box.Q1
	box.UpperWhisker = box.Q3
	for _, v := range sorted {
		if v >= lowFence {
			box.LowerWhisker = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highFence {
			box.UpperWhisker = sorted[i]
			break
		}
	}
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			box.Outliers = append(box.Outliers, v)
		}
	}
	return box
}
