package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/priyadesai/airhealth/internal/domain/airdata"
)

const (
	defaultBaseURL    = "https://api.openweathermap.org/data/2.5"
	defaultAirBaseURL = "https://api.openweathermap.org/data/2.5/air_pollution"
)

// Client fetches air pollution and weather data from OpenWeatherMap.
type Client struct {
	apiKey     string
	baseURL    string
	airBaseURL string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL, airBaseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(airBaseURL) == "" {
		airBaseURL = defaultAirBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		airBaseURL: strings.TrimRight(airBaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AirQuality fetches the hourly air pollution forecast for a location.
// Note the aqi field is OpenWeather's 1-5 index, not the EPA scale; the
// pipeline recalculates EPA AQI from PM2.5 downstream.
func (c *Client) AirQuality(ctx context.Context, lat, lon float64) ([]airdata.Reading, error) {
	endpoint := fmt.Sprintf("%s/forecast?lat=%s&lon=%s&appid=%s",
		c.airBaseURL, formatCoord(lat), formatCoord(lon), url.QueryEscape(c.apiKey))

	var raw airResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	out := make([]airdata.Reading, 0, len(raw.List))
	for _, item := range raw.List {
		r := airdata.Reading{
			Timestamp: time.Unix(item.Dt, 0).UTC(),
			Source:    "openweather",
			Latitude:  lat,
			Longitude: lon,
		}
		if item.Main.AQI != nil {
			r.Set(airdata.MetricAQI, *item.Main.AQI)
		}
		setIfPresent(&r, airdata.MetricPM25, item.Components.PM25)
		setIfPresent(&r, airdata.MetricPM10, item.Components.PM10)
		setIfPresent(&r, airdata.MetricNO2, item.Components.NO2)
		setIfPresent(&r, airdata.MetricSO2, item.Components.SO2)
		setIfPresent(&r, airdata.MetricO3, item.Components.O3)
		setIfPresent(&r, airdata.MetricCO, item.Components.CO)
		out = append(out, r)
	}
	return out, nil
}

// Weather fetches current weather conditions for a location.
func (c *Client) Weather(ctx context.Context, lat, lon float64) (airdata.Reading, error) {
	endpoint := fmt.Sprintf("%s/weather?lat=%s&lon=%s&units=metric&appid=%s",
		c.baseURL, formatCoord(lat), formatCoord(lon), url.QueryEscape(c.apiKey))

	var raw weatherResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return airdata.Reading{}, err
	}

	r := airdata.Reading{
		Timestamp: time.Unix(raw.Dt, 0).UTC(),
		Source:    "openweather",
		Latitude:  lat,
		Longitude: lon,
	}
	setIfPresent(&r, airdata.MetricTemperature, raw.Main.Temp)
	setIfPresent(&r, airdata.MetricHumidity, raw.Main.Humidity)
	setIfPresent(&r, airdata.MetricPressure, raw.Main.Pressure)
	setIfPresent(&r, airdata.MetricWindSpeed, raw.Wind.Speed)
	setIfPresent(&r, airdata.MetricWindDir, raw.Wind.Deg)
	return r, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build openweather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openweather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("openweather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openweather response: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode openweather response: %w", err)
	}
	return nil
}

type airResponse struct {
	List []airItem `json:"list"`
}

type airItem struct {
	Dt         int64         `json:"dt"`
	Main       airMain       `json:"main"`
	Components airComponents `json:"components"`
}

type airMain struct {
	AQI *float64 `json:"aqi"`
}

type airComponents struct {
	PM25 *float64 `json:"pm2_5"`
	PM10 *float64 `json:"pm10"`
	NO2  *float64 `json:"no2"`
	SO2  *float64 `json:"so2"`
	O3   *float64 `json:"o3"`
	CO   *float64 `json:"co"`
}

type weatherResponse struct {
	Dt   int64       `json:"dt"`
	Main weatherMain `json:"main"`
	Wind weatherWind `json:"wind"`
}

type weatherMain struct {
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
	Pressure *float64 `json:"pressure"`
}

type weatherWind struct {
	Speed *float64 `json:"speed"`
	Deg   *float64 `json:"deg"`
}

func setIfPresent(r *airdata.Reading, name string, value *float64) {
	if value != nil {
		r.Set(name, *value)
	}
}

func formatCoord(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
