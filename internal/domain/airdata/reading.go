package airdata

import "time"

// Canonical metric names shared by the pipeline, the validator and the
// feature engineer. Upstream parameter aliases are normalized onto these.
const (
	MetricAQI         = "aqi"
	MetricPM25        = "pm25"
	MetricPM10        = "pm10"
	MetricNO2         = "no2"
	MetricSO2         = "so2"
	MetricO3          = "o3"
	MetricCO          = "co"
	MetricTemperature = "temperature"
	MetricHumidity    = "humidity"
	MetricPressure    = "pressure"
	MetricWindSpeed   = "wind_speed"
	MetricWindDir     = "wind_direction"
)

// PollutantAliases maps upstream parameter spellings to canonical names.
var PollutantAliases = map[string]string{
	"pm2.5": MetricPM25,
	"pm2_5": MetricPM25,
	"pm25":  MetricPM25,
	"pm10":  MetricPM10,
	"no2":   MetricNO2,
	"so2":   MetricSO2,
	"o3":    MetricO3,
	"co":    MetricCO,
}

// NumericMetrics lists every metric the cleaner gap-fills, in a stable order.
var NumericMetrics = []string{
	MetricAQI, MetricPM25, MetricPM10, MetricNO2, MetricSO2, MetricO3, MetricCO,
	MetricTemperature, MetricHumidity, MetricPressure, MetricWindSpeed, MetricWindDir,
}

// criticalMetrics: a reading missing all of these carries no usable signal.
var criticalMetrics = []string{MetricPM25, MetricAQI}

// Reading is a single timestamped observation from one source. Metrics holds
// only the values the source actually reported; an absent key means missing.
type Reading struct {
	Timestamp time.Time
	Source    string
	City      string
	Country   string
	Latitude  float64
	Longitude float64
	Metrics   map[string]float64
}

// Get returns the metric value and whether it was reported.
func (r Reading) Get(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// Set records a metric value, allocating the map on first use.
func (r *Reading) Set(name string, value float64) {
	if r.Metrics == nil {
		r.Metrics = make(map[string]float64)
	}
	r.Metrics[name] = value
}

// Clone returns a deep copy so pipeline stages never mutate caller data.
func (r Reading) Clone() Reading {
	out := r
	out.Metrics = make(map[string]float64, len(r.Metrics))
	for k, v := range r.Metrics {
		out.Metrics[k] = v
	}
	return out
}

func (r Reading) hasAnyCritical() bool {
	for _, name := range criticalMetrics {
		if _, ok := r.Metrics[name]; ok {
			return true
		}
	}
	return false
}
