package health

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBestOutdoorWindow(t *testing.T) {
	hourly := map[int]float64{
		6: 45, 7: 52, 8: 68, 9: 85, 10: 92,
		11: 98, 12: 105, 13: 112, 14: 108, 15: 95,
		16: 87, 17: 78, 18: 65, 19: 55, 20: 48,
	}
	window, ok := BestOutdoorWindow(hourly, 2)
	require.True(t, ok)
	require.Equal(t, 6, window.StartHour)
	require.InDelta(t, 48.5, window.AverageAQI, 0.01)
}

func TestBestOutdoorWindowNoFullWindow(t *testing.T) {
	_, ok := BestOutdoorWindow(map[int]float64{6: 45}, 2)
	require.False(t, ok)

	_, ok = BestOutdoorWindow(nil, 2)
	require.False(t, ok)

	_, ok = BestOutdoorWindow(map[int]float64{6: 45}, 0)
	require.False(t, ok)
}

func TestDailyExposure(t *testing.T) {
	hourly := map[int]float64{8: 60, 9: 80, 10: 100}
	exposure := DailyExposure(hourly, []int{8, 9, 10})
	require.Equal(t, 240.0, exposure.TotalExposure)
	require.Equal(t, 80.0, exposure.AverageExposure)
	require.Equal(t, 100.0, exposure.PeakExposure)
	require.Equal(t, 3, exposure.HoursOutdoors)
	require.Equal(t, "Moderate", exposure.Category)
}

func TestDailyExposureNoOutdoorHours(t *testing.T) {
	exposure := DailyExposure(map[int]float64{8: 60}, nil)
	require.Equal(t, "Minimal", exposure.Category)
	require.Zero(t, exposure.TotalExposure)
	require.Zero(t, exposure.HoursOutdoors)
}
