package aggregate

import "context"

// CryptoSource abstracts a market-price provider (e.g. CoinGecko).
// FetchQuotes returns raw quotes; price-bound filtering and ordering are
// applied by the Service.
type CryptoSource interface {
	Name() string
	FetchQuotes(ctx context.Context) ([]CryptoQuote, error)
}

// WeatherSource abstracts a current-weather provider (e.g. OpenWeatherMap).
type WeatherSource interface {
	Name() string
	FetchWeather(ctx context.Context, city string) (WeatherReport, error)
}

// NewsSource abstracts a headline provider (e.g. NewsAPI). An empty keyword
// requests top headlines.
type NewsSource interface {
	Name() string
	FetchNews(ctx context.Context, keyword string) ([]NewsItem, error)
}

// SnapshotSink is the contract any snapshot persistence backend must satisfy.
// A nil sink is a legal no-op.
type SnapshotSink interface {
	Persist(ctx context.Context, snapshot Snapshot) error
}
