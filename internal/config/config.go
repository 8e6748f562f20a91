package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type AppConfig struct {
	Host string
	Port string `validate:"required"`

	// Optional backing services. Absence of RedisURL forces local-only rate
	// limiting; absence of MongoURI disables persistence.
	RedisURL string
	MongoURI string

	// Upstream API keys. A missing key degrades that source to its
	// empty/default value instead of failing requests.
	OpenWeatherAPIKey string
	NewsAPIKey        string

	// HTTPTimeout applies to the shared outbound HTTP client.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Rate limit admission bounds per client.
	RateLimitRequests int           `validate:"gt=0"`
	RateLimitWindow   time.Duration `validate:"gt=0"`

	// RefreshInterval enables the background snapshot refresh job when
	// greater than zero.
	RefreshInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Host:              os.Getenv("HOST"),
		Port:              getenvDefault("PORT", "3333"),
		RedisURL:          os.Getenv("REDIS_URL"),
		MongoURI:          os.Getenv("MONGODB_URI"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		NewsAPIKey:        os.Getenv("NEWSAPI_KEY"),
		RateLimitRequests: getenvInt("RATE_LIMIT_REQUESTS", 5),
	}

	timeout, err := getenvDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	window, err := getenvDuration("RATE_LIMIT_WINDOW", 60*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitWindow = window

	refresh, err := getenvDuration("REFRESH_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	cfg.RefreshInterval = refresh

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
