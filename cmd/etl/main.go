// Command etl collects readings from the upstream air quality APIs, runs
// them through the cleaning and feature engineering pipeline, and writes an
// engineered dataset ready for model scoring.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/priyadesai/airhealth/internal/domain/airdata"
	"github.com/priyadesai/airhealth/internal/infra/airapi/openweather"
	"github.com/priyadesai/airhealth/internal/infra/airapi/waqi"
	"github.com/priyadesai/airhealth/internal/infra/config"
	"github.com/priyadesai/airhealth/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New().With("component", "etl")
	if err := run(ctx, cfg, logg); err != nil {
		log.Fatalf("etl pipeline failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *slog.Logger) error {
	ow := openweather.NewClient(
		cfg.Collector.OpenWeather.APIKey,
		cfg.Collector.OpenWeather.BaseURL,
		cfg.Collector.OpenWeather.AirBaseURL,
		cfg.Collector.RequestTimeout)
	wq := waqi.NewClient(cfg.Collector.WAQI.Token, cfg.Collector.WAQI.BaseURL, cfg.Collector.RequestTimeout)

	processor := airdata.NewProcessor(logg)
	validator := airdata.NewValidator(logg)
	engineer := airdata.NewFeatureEngineer()

	var dataset []record

	for _, city := range cfg.Collector.Cities {
		if err := ctx.Err(); err != nil {
			return err
		}
		readings := collectCity(ctx, ow, wq, processor, city, logg)
		if len(readings) == 0 {
			logg.Warn("no readings collected", "city", city.Name)
			continue
		}

		cleaned := processor.Clean(readings)

		// Some feeds report an index on the wrong scale; detect and
		// rescale before gap filling so AQI recomputation sees real
		// concentrations.
		if report := airdata.DetectScaleDefect(cleaned); report.WrongScale {
			logg.Warn("aqi scale defect detected",
				"city", city.Name,
				"correlation", report.Correlation,
				"low_value_pct", report.LowValuePct,
				"ratio", report.Ratio)
			cleaned = airdata.CorrectScale(cleaned, logg)
			if !airdata.ValidateCorrection(cleaned) {
				logg.Warn("scale correction failed validation", "city", city.Name)
			}
		}

		cleaned = processor.FillMissingAQI(cleaned)
		cleaned = validator.Clean(cleaned)

		report := validator.Validate(cleaned)
		logg.Info("validation report",
			"city", city.Name,
			"records", report.TotalRecords,
			"valid", report.Valid,
			"warnings", len(report.Warnings))

		rows := engineer.Engineer(cleaned)
		for i, row := range rows {
			dataset = append(dataset, record{city: city.Name, timestamp: cleaned[i].Timestamp, row: row})
		}
		logg.Info("city processed", "city", city.Name, "readings", len(readings), "rows", len(rows))
	}

	if len(dataset) == 0 {
		return fmt.Errorf("no data collected for any configured city")
	}

	columns := featureColumns(dataset)
	path := cfg.Collector.OutputPath
	if err := writeCSV(path, columns, dataset); err != nil {
		return err
	}

	logg.Info("dataset written", "path", path, "columns", len(columns)+2)
	return nil
}

func collectCity(ctx context.Context, ow *openweather.Client, wq *waqi.Client, processor *airdata.Processor, city config.CityConfig, logg *slog.Logger) []airdata.Reading {
	var batches [][]airdata.Reading

	air, err := ow.AirQuality(ctx, city.Lat, city.Lon)
	if err != nil {
		logg.Warn("openweather air quality fetch failed", "city", city.Name, "error", err)
	} else {
		batches = append(batches, air)
	}

	weather, err := ow.Weather(ctx, city.Lat, city.Lon)
	if err != nil {
		logg.Warn("openweather weather fetch failed", "city", city.Name, "error", err)
	} else {
		batches = append(batches, []airdata.Reading{weather})
	}

	feed, err := wq.CityFeed(ctx, city.Name)
	if err != nil {
		logg.Warn("waqi feed fetch failed", "city", city.Name, "error", err)
	} else {
		batches = append(batches, []airdata.Reading{feed})
	}

	merged := processor.Merge(batches...)
	for i := range merged {
		merged[i].City = city.Name
		merged[i].Country = city.Country
	}
	return merged
}

// record is one engineered observation ready for serialization.
type record struct {
	city      string
	timestamp time.Time
	row       airdata.FeatureRow
}

// featureColumns collects the union of feature names across all rows so every
// record serializes against the same header.
func featureColumns(dataset []record) []string {
	seen := make(map[string]struct{})
	for _, rec := range dataset {
		for name := range rec.row {
			seen[name] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}

func writeCSV(path string, columns []string, dataset []record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"city_name", "timestamp"}, columns...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := make([]string, len(header))
	for _, rec := range dataset {
		line[0] = rec.city
		line[1] = rec.timestamp.UTC().Format(time.RFC3339)
		for i, col := range columns {
			if v, ok := rec.row.Get(col); ok {
				line[i+2] = strconv.FormatFloat(v, 'f', -1, 64)
			} else {
				line[i+2] = ""
			}
		}
		if err := w.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
