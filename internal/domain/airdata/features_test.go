package airdata

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func hourlySeries(n int) []Reading {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) // a Monday
	out := make([]Reading, 0, n)
	for i := 0; i < n; i++ {
		r := Reading{Timestamp: base.Add(time.Duration(i) * time.Hour), Source: "s", City: "karachi"}
		r.Set(MetricAQI, 100+float64(i))
		r.Set(MetricPM25, 30+float64(i))
		r.Set(MetricPM10, 60+float64(i))
		r.Set(MetricTemperature, 25)
		r.Set(MetricHumidity, 50)
		r.Set(MetricPressure, 1010+float64(i))
		r.Set(MetricWindSpeed, 4)
		out = append(out, r)
	}
	return out
}

func TestEngineerTemporalFeatures(t *testing.T) {
	e := NewFeatureEngineer()
	rows := e.Engineer(hourlySeries(26))

	first := rows[0]
	require.Equal(t, 0.0, first["hour"])
	require.Equal(t, 0.0, first["day_of_week"]) // Monday
	require.Equal(t, 6.0, first["month"])
	require.Equal(t, 3.0, first["season"]) // June is summer
	require.Equal(t, 0.0, first["is_weekend"])
	require.Equal(t, 1.0, first["is_night"])
	require.InDelta(t, 0.0, first["hour_sin"], 1e-9)
	require.InDelta(t, 1.0, first["hour_cos"], 1e-9)

	eight := rows[8]
	require.Equal(t, 8.0, eight["hour"])
	require.Equal(t, 1.0, eight["is_rush_hour"])
	require.Equal(t, 0.0, eight["is_night"])

	twenty := rows[20]
	require.Equal(t, 1.0, twenty["is_peak_pollution"])
}

func TestEngineerCyclicalEncodingStaysOnUnitCircle(t *testing.T) {
	e := NewFeatureEngineer()
	rows := e.Engineer(hourlySeries(48))
	for i, row := range rows {
		for _, pair := range [][2]string{
			{"hour_sin", "hour_cos"},
			{"dow_sin", "dow_cos"},
			{"month_sin", "month_cos"},
			{"day_of_year_sin", "day_of_year_cos"},
		} {
			s, c := row[pair[0]], row[pair[1]]
			require.InDelta(t, 1.0, s*s+c*c, 1e-9, "row=%d pair=%v", i, pair)
		}
	}
}

func TestEngineerLagFeatures(t *testing.T) {
	e := NewFeatureEngineer()
	rows := e.Engineer(hourlySeries(30))

	// Row 24 looks back exactly 24 hours.
	v, ok := rows[24].Get("aqi_lag_24h")
	require.True(t, ok)
	require.Equal(t, 100.0, v)

	v, ok = rows[24].Get("pm25_lag_1h")
	require.True(t, ok)
	require.Equal(t, 53.0, v)

	// Lags reaching before the series start stay missing.
	_, ok = rows[5].Get("aqi_lag_24h")
	require.False(t, ok)
	_, ok = rows[0].Get("aqi_lag_1h")
	require.False(t, ok)
}

func TestEngineerRollingFeatures(t *testing.T) {
	e := NewFeatureEngineer()
	rows := e.Engineer(hourlySeries(10))

	// aqi over rows 3..5 is 103,104,105.
	require.Equal(t, 104.0, rows[5]["aqi_rolling_3h_mean"])
	require.Equal(t, 103.0, rows[5]["aqi_rolling_3h_min"])
	require.Equal(t, 105.0, rows[5]["aqi_rolling_3h_max"])
	require.InDelta(t, 1.0, rows[5]["aqi_rolling_3h_std"], 1e-9)

	// min_periods=1: the first row still gets a window of itself.
	require.Equal(t, 100.0, rows[0]["aqi_rolling_24h_mean"])
	_, ok := rows[0].Get("aqi_rolling_24h_std")
	require.False(t, ok)
}

func TestEngineerChangeFeatures(t *testing.T) {
	e := NewFeatureEngineer()
	rows := e.Engineer(hourlySeries(30))

	require.Equal(t, 6.0, rows[10]["aqi_change_6h"])
	require.InDelta(t, 6.0/104.0*100, rows[10]["aqi_pct_change_6h"], 1e-9)
	_, ok := rows[2].Get("aqi_change_6h")
	require.False(t, ok)
}

func TestEngineerWeatherInteractions(t *testing.T) {
	e := NewFeatureEngineer()
	rows := e.Engineer(hourlySeries(10))

	row := rows[4]
	require.Equal(t, 25.0*50.0, row["temp_humidity_interaction"])
	require.Equal(t, 25.0+0.4*50.0, row["comfort_index"])
	require.Equal(t, 625.0, row["temperature_squared"])
	require.Equal(t, 2500.0, row["humidity_squared"])
	require.Equal(t, 25.0-4.0*0.5, row["wind_chill"])
	require.Equal(t, 3.0, row["pressure_change_3h"])
}

func TestEngineerPollutantRatios(t *testing.T) {
	e := NewFeatureEngineer()
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	r := Reading{Timestamp: base, Source: "s"}
	r.Set(MetricPM25, 30)
	r.Set(MetricPM10, 60)
	r.Set(MetricNO2, 40)
	r.Set(MetricO3, 80)
	r.Set(MetricSO2, 10)

	rows := e.Engineer([]Reading{r})
	row := rows[0]
	require.InDelta(t, 0.5, row["pm25_pm10_ratio"], 1e-6)
	require.Equal(t, 90.0, row["total_pm"])
	require.InDelta(t, 0.5, row["no2_o3_ratio"], 1e-6)
	require.InDelta(t, 0.25, row["so2_no2_ratio"], 1e-6)
}

func TestEngineerSkipsRatiosWhenInputsMissing(t *testing.T) {
	e := NewFeatureEngineer()
	r := Reading{Timestamp: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Source: "s"}
	r.Set(MetricPM25, 30)

	rows := e.Engineer([]Reading{r})
	_, ok := rows[0].Get("pm25_pm10_ratio")
	require.False(t, ok)
	_, ok = rows[0].Get("no2_o3_ratio")
	require.False(t, ok)
}

func TestEngineerSortsUnorderedInput(t *testing.T) {
	e := NewFeatureEngineer()
	series := hourlySeries(5)
	shuffled := []Reading{series[3], series[0], series[4], series[1], series[2]}

	rows := e.Engineer(shuffled)
	v, ok := rows[4].Get("aqi_lag_1h")
	require.True(t, ok)
	require.Equal(t, 103.0, v)
}

func TestEngineerDoesNotProduceNaN(t *testing.T) {
	e := NewFeatureEngineer()
	rows := e.Engineer(hourlySeries(48))
	for i, row := range rows {
		for name, v := range row {
			require.False(t, math.IsNaN(v), "row=%d feature=%s", i, name)
		}
	}
}
