package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/priyadesai/airhealth/internal/domain/airdata"
	"github.com/priyadesai/airhealth/internal/domain/health"
	apperrors "github.com/priyadesai/airhealth/pkg/errors"
	"github.com/priyadesai/airhealth/pkg/metrics"
)

const (
	CodeCityNotFound = "city_not_found"
	CodeDataError    = "data_error"
)

// MaxForecastHours caps the forecast horizon.
const MaxForecastHours = 168

// outdoorWindowHours is the slot length recommended for outdoor activity.
const outdoorWindowHours = 3

// Service exposes AQI prediction capabilities backed by the trained model.
type Service interface {
	Predict(ctx context.Context, features map[string]float64, city string) (Prediction, error)
	Current(ctx context.Context, city string) (CurrentConditions, error)
	Forecast(ctx context.Context, city string, hours int) (Forecast, error)
	Cities(ctx context.Context) (CityList, error)
	Stats(ctx context.Context) (Stats, error)
}

// ReadingSource provides engineered feature rows for cities. Rows come back
// oldest first.
type ReadingSource interface {
	Latest(ctx context.Context, city string) (airdata.FeatureRow, error)
	Recent(ctx context.Context, city string, limit int) ([]airdata.FeatureRow, error)
	Cities(ctx context.Context) ([]string, error)
	All(ctx context.Context) ([]airdata.FeatureRow, error)
}

// Cache stores rendered results keyed by city. Implementations decide the
// backend; a failed cache never fails a request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config tunes the prediction service.
type Config struct {
	CurrentTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.CurrentTTL <= 0 {
		c.CurrentTTL = 5 * time.Minute
	}
	return c
}

type service struct {
	cfg      Config
	model    *Model
	features []string
	source   ReadingSource
	cache    Cache
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the prediction domain. features is the ordered list
// the model was trained on, usually the manifest's comprehensive set.
func NewService(cfg Config, model *Model, features []string, source ReadingSource, cache Cache, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg.withDefaults(),
		model:    model,
		features: features,
		source:   source,
		cache:    cache,
		logger:   logger.With("component", "prediction.service"),
		now:      time.Now,
	}
}

func (s *service) Predict(ctx context.Context, features map[string]float64, city string) (Prediction, error) {
	if len(features) == 0 {
		return Prediction{}, apperrors.New(health.CodeInvalidInput, "features must not be empty")
	}
	x := Vectorize(s.features, features)
	aqi := clampAQI(s.model.Predict(x))

	category, err := health.Classify(aqi)
	if err != nil {
		return Prediction{}, err
	}
	assessment, err := health.Assess(aqi, nil)
	if err != nil {
		return Prediction{}, err
	}

	s.logger.Info("prediction served", "city", city, "aqi", metrics.Round2(aqi))
	return Prediction{
		AQIPredicted: metrics.Round2(aqi),
		Category:     category,
		RiskLevel:    assessment.RiskLevel,
		Timestamp:    s.now().UTC(),
		City:         city,
	}, nil
}

func (s *service) Current(ctx context.Context, city string) (CurrentConditions, error) {
	key := "current:" + strings.ToLower(city)
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("cache get failed", "key", key, "error", err)
		} else if ok {
			var cached CurrentConditions
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			s.logger.Warn("cache entry malformed", "key", key)
		}
	}

	row, err := s.source.Latest(ctx, city)
	if err != nil {
		return CurrentConditions{}, err
	}

	aqi := clampAQI(s.model.Predict(Vectorize(s.features, row)))
	assessment, err := health.Assess(aqi, nil)
	if err != nil {
		return CurrentConditions{}, err
	}

	recs := assessment.Recommendations
	if len(recs) > 3 {
		recs = recs[:3]
	}
	out := CurrentConditions{
		City:               city,
		Timestamp:          s.now().UTC(),
		AQI:                metrics.Round2(aqi),
		Category:           assessment.Category,
		RiskLevel:          assessment.RiskLevel,
		HealthMessage:      assessment.HealthMessage,
		OutdoorActivity:    assessment.OutdoorActivityLevel,
		MaskRecommendation: assessment.MaskRecommendation,
		Recommendations:    recs,
	}

	if s.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cfg.CurrentTTL); err != nil {
				s.logger.Warn("cache set failed", "key", key, "error", err)
			}
		}
	}
	return out, nil
}

func (s *service) Forecast(ctx context.Context, city string, hours int) (Forecast, error) {
	if hours < 1 || hours > MaxForecastHours {
		return Forecast{}, apperrors.New(health.CodeInvalidInput,
			fmt.Sprintf("forecast hours must be between 1 and %d", MaxForecastHours))
	}

	rows, err := s.source.Recent(ctx, city, hours)
	if err != nil {
		return Forecast{}, err
	}
	if len(rows) == 0 {
		return Forecast{}, apperrors.New(CodeCityNotFound,
			fmt.Sprintf("no data available for city %q", city))
	}

	vectors := make([][]float64, len(rows))
	for i, row := range rows {
		vectors[i] = Vectorize(s.features, row)
	}
	predictions := s.model.PredictBatch(vectors)

	base := s.now().UTC()
	entries := make([]ForecastEntry, 0, len(predictions))
	bestHour, worstHour := 0, 0
	for hour, raw := range predictions {
		aqi := clampAQI(raw)
		category, err := health.Classify(aqi)
		if err != nil {
			return Forecast{}, err
		}
		assessment, err := health.Assess(aqi, nil)
		if err != nil {
			return Forecast{}, err
		}
		entries = append(entries, ForecastEntry{
			Hour:      hour,
			Timestamp: base.Add(time.Duration(hour) * time.Hour),
			AQI:       metrics.Round2(aqi),
			Category:  category,
			RiskLevel: assessment.RiskLevel,
		})
		if entries[hour].AQI < entries[bestHour].AQI {
			bestHour = hour
		}
		if entries[hour].AQI > entries[worstHour].AQI {
			worstHour = hour
		}
	}

	out := Forecast{
		City:      city,
		Entries:   entries,
		BestHour:  bestHour,
		WorstHour: worstHour,
	}
	hourly := make(map[int]float64, len(entries))
	for _, entry := range entries {
		hourly[entry.Hour] = entry.AQI
	}
	if window, ok := health.BestOutdoorWindow(hourly, outdoorWindowHours); ok {
		window.AverageAQI = metrics.Round2(window.AverageAQI)
		out.BestWindow = &window
	}

	s.logger.Info("forecast served", "city", city, "hours", len(entries))
	return out, nil
}

func (s *service) Cities(ctx context.Context) (CityList, error) {
	cities, err := s.source.Cities(ctx)
	if err != nil {
		return CityList{}, apperrors.Wrap(CodeDataError, "failed to list cities", err)
	}
	sorted := make([]string, len(cities))
	copy(sorted, cities)
	sort.Strings(sorted)
	return CityList{Cities: sorted, Count: len(sorted)}, nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.source.All(ctx)
	if err != nil {
		return Stats{}, apperrors.Wrap(CodeDataError, "failed to load dataset", err)
	}
	if len(rows) == 0 {
		return Stats{}, apperrors.New(CodeDataError, "no data available for statistics")
	}

	cities, err := s.source.Cities(ctx)
	if err != nil {
		return Stats{}, apperrors.Wrap(CodeDataError, "failed to list cities", err)
	}

	predictions := make([]float64, 0, len(rows))
	distribution := make(map[string]int)
	for _, row := range rows {
		aqi := clampAQI(s.model.Predict(Vectorize(s.features, row)))
		predictions = append(predictions, aqi)
		if category, err := health.Classify(aqi); err == nil {
			distribution[string(category)]++
		}
	}

	summary := metrics.Summarize(predictions)
	return Stats{
		TotalPredictions:     summary.Count,
		AverageAQI:           summary.Mean,
		MedianAQI:            summary.Median,
		MaxAQI:               summary.Max,
		MinAQI:               summary.Min,
		CategoryDistribution: distribution,
		CitiesCount:          len(cities),
	}, nil
}

// clampAQI keeps regression output inside the AQI domain so classification
// never fails on a slightly negative score.
func clampAQI(aqi float64) float64 {
	if aqi < 0 {
		return 0
	}
	if aqi > 500 {
		return 500
	}
	return aqi
}
