package airdata

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// FeatureRow is one engineered observation: feature name to value. An absent
// key means the feature could not be computed for that row (e.g. a lag
// reaching before the start of the series).
type FeatureRow map[string]float64

// Get returns the feature value and whether it is present.
func (f FeatureRow) Get(name string) (float64, bool) {
	v, ok := f[name]
	return v, ok
}

// FeatureEngineer derives model features from an hourly series of cleaned
// readings for a single city. Offsets are in rows, which equals hours for a
// gap-filled hourly series.
type FeatureEngineer struct {
	LagHours       []int
	RollingWindows []int
	ChangePeriods  []int
}

func NewFeatureEngineer() *FeatureEngineer {
	return &FeatureEngineer{
		LagHours:       []int{1, 3, 6, 12, 24, 48, 72, 168},
		RollingWindows: []int{3, 6, 12, 24, 48, 72},
		ChangePeriods:  []int{1, 3, 6, 12, 24},
	}
}

var (
	defaultLagMetrics     = []string{MetricAQI, MetricPM25, MetricPM10, MetricTemperature, MetricHumidity}
	defaultRollingMetrics = []string{MetricAQI, MetricPM25, MetricPM10}
	defaultChangeMetrics  = []string{MetricAQI, MetricPM25, MetricTemperature, MetricPressure}
)

// Engineer runs the full pipeline: temporal encodings, lags, rolling
// statistics, rates of change, weather interactions and pollutant ratios.
// Input readings must belong to one city; they are sorted by time here.
func (e *FeatureEngineer) Engineer(readings []Reading) []FeatureRow {
	series := make([]Reading, len(readings))
	copy(series, readings)
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	rows := make([]FeatureRow, len(series))
	for i, r := range series {
		row := make(FeatureRow, len(r.Metrics)+32)
		for k, v := range r.Metrics {
			row[k] = v
		}
		rows[i] = row
	}

	e.addTemporal(series, rows)
	e.addLags(series, rows, defaultLagMetrics)
	e.addRolling(series, rows, defaultRollingMetrics)
	e.addChanges(series, rows, defaultChangeMetrics)
	e.addWeatherInteractions(series, rows)
	e.addPollutantRatios(rows)
	return rows
}

func (e *FeatureEngineer) addTemporal(series []Reading, rows []FeatureRow) {
	for i, r := range series {
		ts := r.Timestamp
		hour := float64(ts.Hour())
		dow := float64((int(ts.Weekday()) + 6) % 7) // Monday=0, as the model was trained
		month := float64(ts.Month())
		doy := float64(ts.YearDay())
		_, week := ts.ISOWeek()

		row := rows[i]
		row["hour"] = hour
		row["day_of_week"] = dow
		row["month"] = month
		row["day_of_year"] = doy
		row["week_of_year"] = float64(week)

		row["hour_sin"] = math.Sin(2 * math.Pi * hour / 24)
		row["hour_cos"] = math.Cos(2 * math.Pi * hour / 24)
		row["dow_sin"] = math.Sin(2 * math.Pi * dow / 7)
		row["dow_cos"] = math.Cos(2 * math.Pi * dow / 7)
		row["month_sin"] = math.Sin(2 * math.Pi * (month - 1) / 12)
		row["month_cos"] = math.Cos(2 * math.Pi * (month - 1) / 12)
		row["day_of_year_sin"] = math.Sin(2 * math.Pi * (doy - 1) / 365)
		row["day_of_year_cos"] = math.Cos(2 * math.Pi * (doy - 1) / 365)

		row["is_weekend"] = boolFeature(dow >= 5)
		row["is_rush_hour"] = boolFeature(hour == 7 || hour == 8 || hour == 9 ||
			hour == 17 || hour == 18 || hour == 19 || hour == 20)
		row["is_night"] = boolFeature(hour < 6)
		row["is_peak_pollution"] = boolFeature(hour == 19 || hour == 20 || hour == 21)
		row["season"] = season(ts.Month())
	}
}

func (e *FeatureEngineer) addLags(series []Reading, rows []FeatureRow, metrics []string) {
	for _, metric := range metrics {
		for _, lag := range e.LagHours {
			name := fmt.Sprintf("%s_lag_%dh", metric, lag)
			for i := range series {
				if i-lag < 0 {
					continue
				}
				if v, ok := series[i-lag].Get(metric); ok {
					rows[i][name] = v
				}
			}
		}
	}
}

func (e *FeatureEngineer) addRolling(series []Reading, rows []FeatureRow, metrics []string) {
	for _, metric := range metrics {
		for _, window := range e.RollingWindows {
			for i := range series {
				start := i - window + 1
				if start < 0 {
					start = 0
				}
				var values []float64
				for j := start; j <= i; j++ {
					if v, ok := series[j].Get(metric); ok {
						values = append(values, v)
					}
				}
				if len(values) == 0 {
					continue
				}
				prefix := fmt.Sprintf("%s_rolling_%dh", metric, window)
				rows[i][prefix+"_mean"] = mean(values)
				rows[i][prefix+"_min"] = minOf(values)
				rows[i][prefix+"_max"] = maxOf(values)
				if len(values) > 1 {
					rows[i][prefix+"_std"] = sampleStd(values)
				}
			}
		}
	}
}

func (e *FeatureEngineer) addChanges(series []Reading, rows []FeatureRow, metrics []string) {
	for _, metric := range metrics {
		for _, period := range e.ChangePeriods {
			abs := fmt.Sprintf("%s_change_%dh", metric, period)
			pct := fmt.Sprintf("%s_pct_change_%dh", metric, period)
			for i := range series {
				if i-period < 0 {
					continue
				}
				cur, okCur := series[i].Get(metric)
				prev, okPrev := series[i-period].Get(metric)
				if !okCur || !okPrev {
					continue
				}
				rows[i][abs] = cur - prev
				if prev != 0 {
					rows[i][pct] = (cur - prev) / prev * 100
				}
			}
		}
	}
}

func (e *FeatureEngineer) addWeatherInteractions(series []Reading, rows []FeatureRow) {
	for i, r := range series {
		row := rows[i]
		temp, hasTemp := r.Get(MetricTemperature)
		hum, hasHum := r.Get(MetricHumidity)
		wind, hasWind := r.Get(MetricWindSpeed)

		if hasTemp && hasHum {
			row["temp_humidity_interaction"] = temp * hum
			row["comfort_index"] = temp + 0.4*hum
		}
		if hasTemp {
			row["temperature_squared"] = temp * temp
		}
		if hasHum {
			row["humidity_squared"] = hum * hum
		}
		if hasTemp && hasWind {
			row["wind_chill"] = temp - wind*0.5
		}
		if i >= 3 {
			cur, okCur := r.Get(MetricPressure)
			prev, okPrev := series[i-3].Get(MetricPressure)
			if okCur && okPrev {
				row["pressure_change_3h"] = cur - prev
			}
		}
	}
}

func (e *FeatureEngineer) addPollutantRatios(rows []FeatureRow) {
	const eps = 1e-6
	for _, row := range rows {
		pm25, hasPM25 := row.Get(MetricPM25)
		pm10, hasPM10 := row.Get(MetricPM10)
		no2, hasNO2 := row.Get(MetricNO2)
		o3, hasO3 := row.Get(MetricO3)
		so2, hasSO2 := row.Get(MetricSO2)

		if hasPM25 && hasPM10 {
			row["pm25_pm10_ratio"] = pm25 / (pm10 + eps)
			row["total_pm"] = pm25 + pm10
		}
		if hasNO2 && hasO3 {
			row["no2_o3_ratio"] = no2 / (o3 + eps)
		}
		if hasSO2 && hasNO2 {
			row["so2_no2_ratio"] = so2 / (no2 + eps)
		}
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// season follows the Northern Hemisphere convention: 1 winter, 2 spring,
// 3 summer, 4 fall.
func season(m time.Month) float64 {
	switch m {
	case time.December, time.January, time.February:
		return 1
	case time.March, time.April, time.May:
		return 2
	case time.June, time.July, time.August:
		return 3
	default:
		return 4
	}
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func sampleStd(values []float64) float64 {
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
