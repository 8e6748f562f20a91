package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/superdark1999/multi-api-integration/internal/aggregate"
)

// OpenWeatherSource implements aggregate.WeatherSource using the
// OpenWeatherMap current-weather endpoint.
type OpenWeatherSource struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherSource(client *http.Client, apiKey string) *OpenWeatherSource {
	return &OpenWeatherSource{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("openweather"),
	}
}

func (s *OpenWeatherSource) Name() string {
	return s.name
}

func (s *OpenWeatherSource) FetchWeather(ctx context.Context, city string) (aggregate.WeatherReport, error) {
	if s.apiKey == "" {
		return aggregate.WeatherReport{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", s.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s/weather?%s", s.baseURL, values.Encode())

	var payload struct {
		Name string `json:"name"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}
	if err := fetchJSON(ctx, s.httpCfg, s.circuit, u, &payload); err != nil {
		return aggregate.WeatherReport{}, err
	}

	report := aggregate.WeatherReport{
		City:        city,
		Temperature: int(math.Round(payload.Main.Temp)),
		Condition:   "Unknown",
	}
	if payload.Name != "" {
		report.City = payload.Name
	}
	if len(payload.Weather) > 0 && payload.Weather[0].Main != "" {
		report.Condition = payload.Weather[0].Main
	}

	return report, nil
}
