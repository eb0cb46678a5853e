package readingrepo

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/priyadesai/airhealth/internal/domain/airdata"
	"github.com/priyadesai/airhealth/internal/domain/prediction"
	apperrors "github.com/priyadesai/airhealth/pkg/errors"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features_test.csv")
	content := "timestamp,city_name,aqi_lag_1h,pm25,hour\n" +
		"2025-06-01 10:00:00,Karachi,120,45.2,10\n" +
		"2025-06-01 11:00:00,Karachi,125,47.0,11\n" +
		"2025-06-01 10:00:00,Lahore,180,,10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMemoryRepositoryFromCSV(t *testing.T) {
	repo, err := NewMemoryRepositoryFromCSV(writeDataset(t), slog.Default())
	require.NoError(t, err)
	ctx := context.Background()

	cities, err := repo.Cities(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Karachi", "Lahore"}, cities)

	latest, err := repo.Latest(ctx, "KARACHI")
	require.NoError(t, err)
	require.Equal(t, 125.0, latest["aqi_lag_1h"])

	// Empty cells stay missing rather than becoming zero.
	lahore, err := repo.Latest(ctx, "lahore")
	require.NoError(t, err)
	_, ok := lahore.Get("pm25")
	require.False(t, ok)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestMemoryRepositoryRecentOrdersOldestFirst(t *testing.T) {
	repo := NewMemoryRepository([]Row{
		{City: "Karachi", Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), Features: airdata.FeatureRow{"hour": 12}},
		{City: "Karachi", Timestamp: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), Features: airdata.FeatureRow{"hour": 10}},
		{City: "Karachi", Timestamp: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), Features: airdata.FeatureRow{"hour": 11}},
	})

	rows, err := repo.Recent(context.Background(), "karachi", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 11.0, rows[0]["hour"])
	require.Equal(t, 12.0, rows[1]["hour"])
}

func TestMemoryRepositoryUnknownCity(t *testing.T) {
	repo := NewMemoryRepository(nil)

	_, err := repo.Latest(context.Background(), "atlantis")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, prediction.CodeCityNotFound))

	_, err = repo.Recent(context.Background(), "atlantis", 5)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, prediction.CodeCityNotFound))
}
