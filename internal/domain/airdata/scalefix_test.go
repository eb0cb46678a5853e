package airdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func scaleReadings(t *testing.T, aqiFor func(pm25 float64) float64) []Reading {
	t.Helper()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pm25Values := []float64{8, 15, 22, 35, 48, 60, 75, 90, 110, 130, 150, 180}
	out := make([]Reading, 0, len(pm25Values))
	for i, pm := range pm25Values {
		r := Reading{Timestamp: base.Add(time.Duration(i) * time.Hour), Source: "openweather"}
		r.Set(MetricPM25, pm)
		r.Set(MetricAQI, aqiFor(pm))
		out = append(out, r)
	}
	return out
}

func TestDetectScaleDefectFlagsIndexScale(t *testing.T) {
	// OpenWeather's 1-5 index stored where 0-500 EPA values belong.
	readings := scaleReadings(t, func(pm float64) float64 {
		switch {
		case pm <= 20:
			return 1
		case pm <= 50:
			return 2
		case pm <= 100:
			return 3
		case pm <= 150:
			return 4
		default:
			return 5
		}
	})

	report := DetectScaleDefect(readings)
	require.True(t, report.WrongScale)
	require.Greater(t, report.LowValuePct, 0.7)
	require.Less(t, report.Ratio, 0.2)
}

func TestDetectScaleDefectAcceptsEPAScale(t *testing.T) {
	readings := scaleReadings(t, func(pm float64) float64 {
		aqi, _ := AQIFromPM25(pm)
		return aqi
	})

	report := DetectScaleDefect(readings)
	require.False(t, report.WrongScale)
	require.Greater(t, report.Correlation, 0.99)
	require.InDelta(t, 1.0, report.Ratio, 0.05)
}

func TestDetectScaleDefectNeedsEnoughSamples(t *testing.T) {
	readings := scaleReadings(t, func(float64) float64 { return 1 })[:5]
	report := DetectScaleDefect(readings)
	require.False(t, report.WrongScale)
	require.Equal(t, 5, report.Samples)
}

func TestCorrectScaleRecalculatesAndPreservesOriginal(t *testing.T) {
	readings := scaleReadings(t, func(float64) float64 { return 3 })
	fixed := CorrectScale(readings, nil)
	require.Len(t, fixed, len(readings))

	for i, r := range fixed {
		orig, ok := r.Get("aqi_original")
		require.True(t, ok)
		require.Equal(t, 3.0, orig)

		pm25, _ := r.Get(MetricPM25)
		want, _ := AQIFromPM25(pm25)
		got, ok := r.Get(MetricAQI)
		require.True(t, ok)
		require.Equal(t, want, got, "row=%d", i)
	}

	// Input untouched.
	aqi, _ := readings[0].Get(MetricAQI)
	require.Equal(t, 3.0, aqi)
}

func TestCorrectScaleThenValidate(t *testing.T) {
	broken := scaleReadings(t, func(float64) float64 { return 2 })
	require.False(t, ValidateCorrection(broken))

	fixed := CorrectScale(broken, nil)
	require.True(t, ValidateCorrection(fixed))
}
