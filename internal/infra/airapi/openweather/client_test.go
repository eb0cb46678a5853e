package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/priyadesai/airhealth/internal/domain/airdata"
)

func TestAirQuality(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forecast", r.URL.Path)
		require.Equal(t, "key", r.URL.Query().Get("appid"))
		require.Equal(t, "24.8607", r.URL.Query().Get("lat"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"list": [
				{
					"dt": 1748779200,
					"main": {"aqi": 3},
					"components": {"pm2_5": 42.1, "pm10": 80.5, "no2": 18.2, "o3": 55.0, "co": 410.3}
				},
				{
					"dt": 1748782800,
					"main": {"aqi": 2},
					"components": {"pm2_5": 30.0}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, server.URL, time.Second)
	readings, err := client.AirQuality(context.Background(), 24.8607, 67.0011)
	require.NoError(t, err)
	require.Len(t, readings, 2)

	first := readings[0]
	require.Equal(t, "openweather", first.Source)
	require.Equal(t, time.Unix(1748779200, 0).UTC(), first.Timestamp)
	require.Equal(t, 24.8607, first.Latitude)

	pm25, ok := first.Get(airdata.MetricPM25)
	require.True(t, ok)
	require.Equal(t, 42.1, pm25)
	aqi, ok := first.Get(airdata.MetricAQI)
	require.True(t, ok)
	require.Equal(t, 3.0, aqi)

	// Absent components stay missing instead of becoming zeros.
	_, ok = readings[1].Get(airdata.MetricSO2)
	require.False(t, ok)
}

func TestWeather(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/weather", r.URL.Path)
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Write([]byte(`{
			"dt": 1748779200,
			"main": {"temp": 33.4, "humidity": 58, "pressure": 1003},
			"wind": {"speed": 5.2, "deg": 240}
		}`))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, server.URL, time.Second)
	reading, err := client.Weather(context.Background(), 24.8607, 67.0011)
	require.NoError(t, err)

	temp, ok := reading.Get(airdata.MetricTemperature)
	require.True(t, ok)
	require.Equal(t, 33.4, temp)
	wind, ok := reading.Get(airdata.MetricWindSpeed)
	require.True(t, ok)
	require.Equal(t, 5.2, wind)
	dir, ok := reading.Get(airdata.MetricWindDir)
	require.True(t, ok)
	require.Equal(t, 240.0, dir)
}

func TestAirQualityHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad", server.URL, server.URL, time.Second)
	_, err := client.AirQuality(context.Background(), 0, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=401")
}
