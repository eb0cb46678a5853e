package readingrepo

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/priyadesai/airhealth/internal/domain/airdata"
	"github.com/priyadesai/airhealth/internal/domain/prediction"
	apperrors "github.com/priyadesai/airhealth/pkg/errors"
)

// Row is one engineered dataset record.
type Row struct {
	City      string
	Timestamp time.Time
	Features  airdata.FeatureRow
}

// MemoryRepository serves feature rows from an in-memory dataset, typically
// loaded from the evaluation CSV. It is the fallback when Postgres is not
// configured.
type MemoryRepository struct {
	byCity map[string][]Row
	names  map[string]string
}

// NewMemoryRepository indexes rows by lowercased city name.
func NewMemoryRepository(rows []Row) *MemoryRepository {
	repo := &MemoryRepository{
		byCity: make(map[string][]Row),
		names:  make(map[string]string),
	}
	for _, row := range rows {
		key := strings.ToLower(row.City)
		repo.byCity[key] = append(repo.byCity[key], row)
		repo.names[key] = row.City
	}
	for key := range repo.byCity {
		rows := repo.byCity[key]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Timestamp.Before(rows[j].Timestamp)
		})
	}
	return repo
}

// NewMemoryRepositoryFromCSV loads the engineered dataset from disk.
func NewMemoryRepositoryFromCSV(path string, logger *slog.Logger) (*MemoryRepository, error) {
	rows, err := loadCSV(path)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded", "path", path, "rows", len(rows))
	return NewMemoryRepository(rows), nil
}

func (r *MemoryRepository) Latest(_ context.Context, city string) (airdata.FeatureRow, error) {
	rows, ok := r.byCity[strings.ToLower(city)]
	if !ok || len(rows) == 0 {
		return nil, apperrors.New(prediction.CodeCityNotFound,
			fmt.Sprintf("city %q not found", city))
	}
	return rows[len(rows)-1].Features, nil
}

func (r *MemoryRepository) Recent(_ context.Context, city string, limit int) ([]airdata.FeatureRow, error) {
	rows, ok := r.byCity[strings.ToLower(city)]
	if !ok || len(rows) == 0 {
		return nil, apperrors.New(prediction.CodeCityNotFound,
			fmt.Sprintf("city %q not found", city))
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	out := make([]airdata.FeatureRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Features)
	}
	return out, nil
}

func (r *MemoryRepository) Cities(context.Context) ([]string, error) {
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryRepository) All(context.Context) ([]airdata.FeatureRow, error) {
	var out []airdata.FeatureRow
	keys := make([]string, 0, len(r.byCity))
	for key := range r.byCity {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, row := range r.byCity[key] {
			out = append(out, row.Features)
		}
	}
	return out, nil
}

// loadCSV parses the dataset export. The city_name and timestamp columns are
// metadata; every other column is treated as a numeric feature, with
// unparseable cells left missing.
func loadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	cityIdx, tsIdx := -1, -1
	for i, name := range header {
		switch name {
		case "city_name", "city":
			cityIdx = i
		case "timestamp":
			tsIdx = i
		}
	}
	if cityIdx < 0 {
		return nil, fmt.Errorf("dataset %s has no city_name column", path)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		row := Row{Features: make(airdata.FeatureRow, len(header))}
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			switch i {
			case cityIdx:
				row.City = cell
			case tsIdx:
				row.Timestamp = parseTimestamp(cell)
			default:
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					row.Features[header[i]] = v
				}
			}
		}
		if row.City == "" {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s has no usable rows", path)
	}
	return rows, nil
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

var _ prediction.ReadingSource = (*MemoryRepository)(nil)
