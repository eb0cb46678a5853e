package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Model     ModelConfig     `yaml:"model"`
	Cache     CacheConfig     `yaml:"cache"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Collector CollectorConfig `yaml:"collector"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// ModelConfig locates the trained model artifacts.
type ModelConfig struct {
	Path         string `yaml:"path"`
	ManifestPath string `yaml:"manifestPath"`
	FeatureSet   string `yaml:"featureSet"`
	DatasetPath  string `yaml:"datasetPath"`
}

// CacheConfig controls result caching.
type CacheConfig struct {
	CurrentTTL time.Duration `yaml:"currentTtl"`
	Valkey     ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings. An empty DSN selects the
// in-memory CSV-backed repository.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// CollectorConfig drives the data collection pipeline.
type CollectorConfig struct {
	OpenWeather    OpenWeatherConfig `yaml:"openweather"`
	WAQI           WAQIConfig        `yaml:"waqi"`
	Cities         []CityConfig      `yaml:"cities"`
	RequestTimeout time.Duration     `yaml:"requestTimeout"`
	OutputPath     string            `yaml:"outputPath"`
}

// OpenWeatherConfig holds OpenWeatherMap credentials and endpoints.
type OpenWeatherConfig struct {
	APIKey     string `yaml:"apiKey"`
	BaseURL    string `yaml:"baseUrl"`
	AirBaseURL string `yaml:"airBaseUrl"`
}

// WAQIConfig holds World Air Quality Index credentials.
type WAQIConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"baseUrl"`
}

// CityConfig identifies a monitored city.
type CityConfig struct {
	Name    string  `yaml:"name"`
	Country string  `yaml:"country"`
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("MODEL_MANIFEST_PATH"); v != "" {
		cfg.Model.ManifestPath = v
	}
	if v := os.Getenv("MODEL_FEATURE_SET"); v != "" {
		cfg.Model.FeatureSet = v
	}
	if v := os.Getenv("MODEL_DATASET_PATH"); v != "" {
		cfg.Model.DatasetPath = v
	}
	if v := os.Getenv("CACHE_CURRENT_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.CurrentTTL = parsed
		}
	}
	if v := os.Getenv("CACHE_VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.Collector.OpenWeather.APIKey = v
	}
	if v := os.Getenv("OPENWEATHER_BASE_URL"); v != "" {
		cfg.Collector.OpenWeather.BaseURL = v
	}
	if v := os.Getenv("OPENWEATHER_AIR_BASE_URL"); v != "" {
		cfg.Collector.OpenWeather.AirBaseURL = v
	}
	if v := os.Getenv("WAQI_TOKEN"); v != "" {
		cfg.Collector.WAQI.Token = v
	}
	if v := os.Getenv("WAQI_BASE_URL"); v != "" {
		cfg.Collector.WAQI.BaseURL = v
	}
	if v := os.Getenv("COLLECTOR_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Collector.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("COLLECTOR_OUTPUT_PATH"); v != "" {
		cfg.Collector.OutputPath = v
	}
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Model: ModelConfig{
			Path:         "data/models/gradient_boosting.json",
			ManifestPath: "data/processed/feature_sets.json",
			FeatureSet:   "comprehensive",
			DatasetPath:  "data/processed/features_test.csv",
		},
		Cache: CacheConfig{
			CurrentTTL: 5 * time.Minute,
			Valkey: ValkeyConfig{
				Enabled: false,
				Addr:    "",
			},
		},
		Postgres: PostgresConfig{
			DSN:      "",
			MaxConns: 4,
			MinConns: 0,
		},
		Collector: CollectorConfig{
			OpenWeather: OpenWeatherConfig{
				BaseURL:    "https://api.openweathermap.org/data/2.5",
				AirBaseURL: "https://api.openweathermap.org/data/2.5/air_pollution",
			},
			WAQI: WAQIConfig{
				BaseURL: "https://api.waqi.info",
			},
			Cities: []CityConfig{
				{Name: "Karachi", Country: "PK", Lat: 24.8607, Lon: 67.0011},
				{Name: "Lahore", Country: "PK", Lat: 31.5204, Lon: 74.3587},
				{Name: "Islamabad", Country: "PK", Lat: 33.6844, Lon: 73.0479},
			},
			RequestTimeout: 10 * time.Second,
			OutputPath:     "data/raw/collected.csv",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Model.Path) == "" {
		return errors.New("model.path cannot be empty")
	}
	if strings.TrimSpace(c.Model.ManifestPath) == "" {
		return errors.New("model.manifestPath cannot be empty")
	}
	if strings.TrimSpace(c.Model.FeatureSet) == "" {
		return errors.New("model.featureSet cannot be empty")
	}
	if c.Cache.CurrentTTL < 0 {
		return errors.New("cache.currentTtl cannot be negative")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Collector.RequestTimeout <= 0 {
		return errors.New("collector.requestTimeout must be positive")
	}
	for _, city := range c.Collector.Cities {
		if strings.TrimSpace(city.Name) == "" {
			return errors.New("collector.cities entries must have a name")
		}
	}
	return nil
}
