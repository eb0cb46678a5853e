package airdata

import (
	"log/slog"
	"math"
)

// The original collector stored OpenWeather's 1-5 AQI index in a column the
// rest of the system treats as the 0-500 EPA scale. ScaleReport captures the
// signals used to decide whether a dataset suffers from that defect.
type ScaleReport struct {
	Samples      int     `json:"samples"`
	MeanAQI      float64 `json:"mean_aqi"`
	MeanExpected float64 `json:"mean_expected"`
	Ratio        float64 `json:"ratio"`
	Correlation  float64 `json:"correlation"`
	LowValuePct  float64 `json:"low_value_pct"`
	WrongScale   bool    `json:"wrong_scale"`
}

// minScaleSamples guards against deciding off a handful of rows.
const minScaleSamples = 10

// DetectScaleDefect compares stored AQI values against AQI recomputed from
// PM2.5 and flags the dataset when the stored values cannot plausibly be on
// the EPA scale: poor correlation, mostly tiny values, or a mean far below
// the expected mean.
func DetectScaleDefect(readings []Reading) ScaleReport {
	var stored, expected []float64
	low := 0
	for _, r := range readings {
		aqi, okAQI := r.Get(MetricAQI)
		pm25, okPM := r.Get(MetricPM25)
		if !okAQI || !okPM {
			continue
		}
		derived, ok := AQIFromPM25(pm25)
		if !ok {
			continue
		}
		stored = append(stored, aqi)
		expected = append(expected, derived)
		if aqi <= 10 {
			low++
		}
	}

	report := ScaleReport{Samples: len(stored)}
	if len(stored) < minScaleSamples {
		return report
	}

	report.MeanAQI = mean(stored)
	report.MeanExpected = mean(expected)
	if report.MeanExpected > 0 {
		report.Ratio = report.MeanAQI / report.MeanExpected
	}
	report.Correlation = pearson(stored, expected)
	report.LowValuePct = float64(low) / float64(len(stored))

	report.WrongScale = report.Correlation < 0.7 ||
		report.LowValuePct > 0.7 ||
		report.Ratio < 0.2
	return report
}

// CorrectScale recalculates AQI from PM2.5 for every reading that has a
// PM2.5 value, preserving the original under aqi_original. Readings without
// PM2.5 lose their (untrustworthy) AQI entirely.
func CorrectScale(readings []Reading, logger *slog.Logger) []Reading {
	out := make([]Reading, 0, len(readings))
	corrected := 0
	for _, r := range readings {
		c := r.Clone()
		if orig, ok := c.Get(MetricAQI); ok {
			c.Set("aqi_original", orig)
		}
		if pm25, ok := c.Get(MetricPM25); ok {
			if aqi, valid := AQIFromPM25(pm25); valid {
				c.Set(MetricAQI, aqi)
				corrected++
			}
		} else {
			delete(c.Metrics, MetricAQI)
		}
		out = append(out, c)
	}
	if logger != nil {
		logger.Info("aqi scale corrected", "readings", len(out), "recalculated", corrected)
	}
	return out
}

// ValidateCorrection checks that corrected AQI values now track PM2.5:
// correlation above 0.85 and mean within 15% of the PM2.5-derived mean.
func ValidateCorrection(readings []Reading) bool {
	report := DetectScaleDefect(readings)
	if report.Samples < minScaleSamples {
		return false
	}
	if report.MeanExpected == 0 {
		return false
	}
	meanDiffPct := math.Abs(report.MeanAQI-report.MeanExpected) / report.MeanExpected * 100
	return report.Correlation > 0.85 && meanDiffPct < 15
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) == 0 {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
