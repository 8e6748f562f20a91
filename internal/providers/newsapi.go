package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/superdark1999/multi-api-integration/internal/aggregate"
)

const newsPageSize = "5"

// NewsAPISource implements aggregate.NewsSource using NewsAPI.org. With a
// keyword it searches everything sorted by publish time; without one it
// returns US top headlines.
type NewsAPISource struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNewsAPISource(client *http.Client, apiKey string) *NewsAPISource {
	return &NewsAPISource{
		name:    "newsapi",
		apiKey:  apiKey,
		baseURL: "https://newsapi.org/v2",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("newsapi"),
	}
}

func (s *NewsAPISource) Name() string {
	return s.name
}

func (s *NewsAPISource) FetchNews(ctx context.Context, keyword string) ([]aggregate.NewsItem, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("newsapi: %w", errMissingAPIKey)
	}

	var u string
	if keyword != "" {
		values := url.Values{}
		values.Set("q", keyword)
		values.Set("pageSize", newsPageSize)
		values.Set("sortBy", "publishedAt")
		values.Set("apiKey", s.apiKey)
		u = fmt.Sprintf("%s/everything?%s", s.baseURL, values.Encode())
	} else {
		values := url.Values{}
		values.Set("country", "us")
		values.Set("pageSize", newsPageSize)
		values.Set("apiKey", s.apiKey)
		u = fmt.Sprintf("%s/top-headlines?%s", s.baseURL, values.Encode())
	}

	var payload struct {
		Articles []struct {
			Title  string `json:"title"`
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			URL string `json:"url"`
		} `json:"articles"`
	}
	if err := fetchJSON(ctx, s.httpCfg, s.circuit, u, &payload); err != nil {
		return nil, err
	}

	items := make([]aggregate.NewsItem, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" {
			continue
		}
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		items = append(items, aggregate.NewsItem{
			Title:  a.Title,
			Source: source,
			URL:    a.URL,
		})
	}

	return items, nil
}
