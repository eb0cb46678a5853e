package prediction

import (
	"time"

	"github.com/priyadesai/airhealth/internal/domain/health"
)

// Prediction is a single model score with its health classification.
type Prediction struct {
	AQIPredicted float64          `json:"aqi_predicted"`
	Category     health.Category  `json:"aqi_category"`
	RiskLevel    health.RiskLevel `json:"risk_level"`
	Timestamp    time.Time        `json:"timestamp"`
	City         string           `json:"city,omitempty"`
}

// CurrentConditions is the latest assessed state for a city.
type CurrentConditions struct {
	City               string           `json:"city"`
	Timestamp          time.Time        `json:"timestamp"`
	AQI                float64          `json:"aqi"`
	Category           health.Category  `json:"category"`
	RiskLevel          health.RiskLevel `json:"risk_level"`
	HealthMessage      string           `json:"health_message"`
	OutdoorActivity    string           `json:"outdoor_activity"`
	MaskRecommendation string           `json:"mask_recommendation"`
	Recommendations    []string         `json:"recommendations"`
}

// ForecastEntry is one hour of a forecast.
type ForecastEntry struct {
	Hour      int              `json:"hour"`
	Timestamp time.Time        `json:"timestamp"`
	AQI       float64          `json:"aqi"`
	Category  health.Category  `json:"category"`
	RiskLevel health.RiskLevel `json:"risk_level"`
}

// Forecast is a multi-hour outlook with the best and worst hours called out.
// BestWindow is the lowest-pollution contiguous slot for outdoor activity; it
// is omitted when the outlook is shorter than the window.
type Forecast struct {
	City       string                `json:"city"`
	Entries    []ForecastEntry       `json:"forecast"`
	BestHour   int                   `json:"best_hour"`
	WorstHour  int                   `json:"worst_hour"`
	BestWindow *health.OutdoorWindow `json:"best_outdoor_window,omitempty"`
}

// CityList enumerates the cities the service can answer for.
type CityList struct {
	Cities []string `json:"cities"`
	Count  int      `json:"count"`
}

// Stats aggregates model output over the whole evaluation dataset.
type Stats struct {
	TotalPredictions     int            `json:"total_predictions"`
	AverageAQI           float64        `json:"average_aqi"`
	MedianAQI            float64        `json:"median_aqi"`
	MaxAQI               float64        `json:"max_aqi"`
	MinAQI               float64        `json:"min_aqi"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	CitiesCount          int            `json:"cities_count"`
}
