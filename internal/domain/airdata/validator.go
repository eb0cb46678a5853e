package airdata

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// Range is the plausible physical interval for a metric. Values outside it
// are treated as sensor faults, not extremes.
type Range struct {
	Min, Max float64
}

// ValidRanges covers every metric the validator inspects. CO is in µg/m³,
// which is why its ceiling dwarfs the others.
var ValidRanges = map[string]Range{
	MetricAQI:         {0, 500},
	MetricPM25:        {0, 500},
	MetricPM10:        {0, 600},
	MetricNO2:         {0, 2000},
	MetricSO2:         {0, 1000},
	MetricO3:          {0, 500},
	MetricCO:          {0, 50000},
	MetricTemperature: {-50, 60},
	MetricHumidity:    {0, 100},
	MetricPressure:    {900, 1100},
	MetricWindSpeed:   {0, 150},
}

// OutlierStat describes IQR outliers found for one metric.
type OutlierStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// ValidationReport summarizes dataset quality checks.
type ValidationReport struct {
	Valid            int                    `json:"valid_records"`
	TotalRecords     int                    `json:"total_records"`
	Warnings         []string               `json:"warnings"`
	Duplicates       int                    `json:"duplicates"`
	MissingByMetric  map[string]int         `json:"missing_by_metric"`
	OutOfRange       map[string]int         `json:"out_of_range_by_metric"`
	FutureTimestamps int                    `json:"future_timestamps"`
	StaleTimestamps  int                    `json:"stale_timestamps"`
	LargeGaps        int                    `json:"large_gaps"`
	Outliers         map[string]OutlierStat `json:"outliers"`
}

// Validator checks readings for range violations, duplicates, temporal
// inconsistencies and statistical outliers, and can auto-clean them.
type Validator struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{logger: logger, now: time.Now}
}

// Validate inspects the dataset without modifying it.
func (v *Validator) Validate(readings []Reading) ValidationReport {
	report := ValidationReport{
		TotalRecords:    len(readings),
		MissingByMetric: make(map[string]int),
		OutOfRange:      make(map[string]int),
		Outliers:        make(map[string]OutlierStat),
	}

	now := v.now()
	seen := make(map[string]bool, len(readings))
	for _, r := range readings {
		key := dedupeKey(r)
		if seen[key] {
			report.Duplicates++
		}
		seen[key] = true

		if r.Timestamp.After(now) {
			report.FutureTimestamps++
		}
		if r.Timestamp.Before(now.AddDate(-10, 0, 0)) {
			report.StaleTimestamps++
		}

		for _, name := range NumericMetrics {
			value, ok := r.Get(name)
			if !ok {
				report.MissingByMetric[name]++
				continue
			}
			if bounds, known := ValidRanges[name]; known {
				if value < bounds.Min || value > bounds.Max {
					report.OutOfRange[name]++
				}
			}
		}
	}

	sorted := make([]Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Timestamp.Sub(sorted[i-1].Timestamp) > 7*24*time.Hour {
			report.LargeGaps++
		}
	}

	for name := range ValidRanges {
		if stat, ok := detectOutliers(readings, name); ok {
			report.Outliers[name] = stat
		}
	}

	report.Valid = report.TotalRecords - report.Duplicates - report.FutureTimestamps

	if report.Duplicates > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("found %d duplicate records", report.Duplicates))
	}
	if report.FutureTimestamps > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("found %d records with future timestamps", report.FutureTimestamps))
	}
	if report.LargeGaps > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("found %d time gaps larger than 7 days", report.LargeGaps))
	}
	for name, count := range report.OutOfRange {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%s: %d values outside valid range", name, count))
	}
	sort.Strings(report.Warnings)

	if v.logger != nil {
		v.logger.Info("validation complete",
			"records", report.TotalRecords,
			"warnings", len(report.Warnings))
	}
	return report
}

// Clean removes duplicates (keeping the last occurrence), drops future
// timestamped rows, nulls out-of-range metric values, and sorts by time.
func (v *Validator) Clean(readings []Reading) []Reading {
	now := v.now()

	lastByKey := make(map[string]int, len(readings))
	for i, r := range readings {
		lastByKey[dedupeKey(r)] = i
	}

	out := make([]Reading, 0, len(readings))
	for i, r := range readings {
		if lastByKey[dedupeKey(r)] != i {
			continue
		}
		if r.Timestamp.After(now) {
			continue
		}
		c := r.Clone()
		for name, bounds := range ValidRanges {
			if value, ok := c.Get(name); ok {
				if value < bounds.Min || value > bounds.Max {
					delete(c.Metrics, name)
				}
			}
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	if v.logger != nil {
		v.logger.Info("auto-clean complete", "input", len(readings), "output", len(out))
	}
	return out
}

func dedupeKey(r Reading) string {
	return r.Timestamp.UTC().Format(time.RFC3339) + "|" + r.Source
}

func detectOutliers(readings []Reading, name string) (OutlierStat, bool) {
	var values []float64
	for _, r := range readings {
		if v, ok := r.Get(name); ok && !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) < 4 {
		return OutlierStat{}, false
	}
	sort.Float64s(values)

	q1 := quantile(values, 0.25)
	q3 := quantile(values, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	count := 0
	for _, v := range values {
		if v < lower || v > upper {
			count++
		}
	}
	if count == 0 {
		return OutlierStat{}, false
	}
	return OutlierStat{
		Count:      count,
		Percentage: math.Round(float64(count)/float64(len(values))*10000) / 100,
		LowerBound: math.Round(lower*100) / 100,
		UpperBound: math.Round(upper*100) / 100,
	}, true
}

// quantile uses linear interpolation over a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
