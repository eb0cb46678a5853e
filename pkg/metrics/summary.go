package metrics

import (
	"math"
	"sort"
)

// Summary captures descriptive statistics for a batch of AQI predictions.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes count/mean/median/min/max over values, rounded to two
// decimals. NaN entries are skipped.
func Summarize(values []float64) Summary {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		return Summary{}
	}

	sort.Float64s(clean)
	total := 0.0
	for _, v := range clean {
		total += v
	}

	return Summary{
		Count:  len(clean),
		Mean:   Round2(total / float64(len(clean))),
		Median: Round2(median(clean)),
		Min:    Round2(clean[0]),
		Max:    Round2(clean[len(clean)-1]),
	}
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Round2 rounds to two decimal places, matching the wire precision used by
// the API layer.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
