package waqi

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

const defaultBaseURL = "https://api.waqi.info"

// Client fetches station data from the World Air Quality Index project.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(token, baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CityFeed fetches the current reading for a city station.
func (c *Client) CityFeed(ctx context.Context, city string) (airdata.Reading, error) {
	endpoint := fmt.Sprintf("%s/feed/%s/?token=%s",
		c.baseURL, url.PathEscape(strings.ToLower(city)), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return airdata.Reading{}, fmt.Errorf("build waqi request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return airdata.Reading{}, fmt.Errorf("waqi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return airdata.Reading{}, fmt.Errorf("waqi request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return airdata.Reading{}, fmt.Errorf("read waqi response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return airdata.Reading{}, fmt.Errorf("decode waqi response: %w", err)
	}
	if raw.Status != "ok" {
		return airdata.Reading{}, fmt.Errorf("waqi api error: status=%s", raw.Status)
	}

	return normalizeFeed(raw.Data), nil
}

type apiResponse struct {
	Status string `json:"status"`
	Data   feed   `json:"data"`
}

type feed struct {
	AQI  *float64             `json:"aqi"`
	City feedCity             `json:"city"`
	Time feedTime             `json:"time"`
	IAQI map[string]iaqiValue `json:"iaqi"`
}

type feedCity struct {
	Name string    `json:"name"`
	Geo  []float64 `json:"geo"`
}

type feedTime struct {
	S  string `json:"s"`
	TZ string `json:"tz"`
}

type iaqiValue struct {
	V *float64 `json:"v"`
}

// iaqiMetrics maps WAQI's iaqi keys onto canonical metric names. The t/h/p/w
// keys carry weather readings.
var iaqiMetrics = map[string]string{
	"pm25": airdata.MetricPM25,
	"pm10": airdata.MetricPM10,
	"no2":  airdata.MetricNO2,
	"so2":  airdata.MetricSO2,
	"o3":   airdata.MetricO3,
	"co":   airdata.MetricCO,
	"t":    airdata.MetricTemperature,
	"h":    airdata.MetricHumidity,
	"p":    airdata.MetricPressure,
	"w":    airdata.MetricWindSpeed,
}

func normalizeFeed(data feed) airdata.Reading {
	r := airdata.Reading{
		Timestamp: parseFeedTime(data.Time),
		Source:    "waqi",
		City:      data.City.Name,
	}
	if len(data.City.Geo) == 2 {
		r.Latitude = data.City.Geo[0]
		r.Longitude = data.City.Geo[1]
	}
	if data.AQI != nil {
		r.Set(airdata.MetricAQI, *data.AQI)
	}
	for key, value := range data.IAQI {
		if value.V == nil {
			continue
		}
		if metric, ok := iaqiMetrics[key]; ok {
			r.Set(metric, *value.V)
		}
	}
	return r
}

func parseFeedTime(t feedTime) time.Time {
	if t.S == "" {
		return time.Time{}
	}
	if t.TZ != "" {
		if ts, err := time.Parse("2006-01-02 15:04:05 -07:00", t.S+" "+t.TZ); err == nil {
			return ts.UTC()
		}
	}
	if ts, err := time.Parse("2006-01-02 15:04:05", t.S); err == nil {
		return ts.UTC()
	}
	return time.Time{}
}
