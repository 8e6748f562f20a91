package aggregate

import (
	"time"
)

// CryptoQuote is a single market-price entry in an aggregated snapshot.
type CryptoQuote struct {
	Name      string  `json:"name" bson:"name"`
	Symbol    string  `json:"symbol" bson:"symbol"`
	Price     float64 `json:"price" bson:"price"`
	MarketCap float64 `json:"market_cap" bson:"market_cap"`
}

// WeatherReport is the normalized current-weather view for one city.
// Temperature is rounded to whole degrees Celsius.
type WeatherReport struct {
	City        string `json:"city" bson:"city"`
	Temperature int    `json:"temperature" bson:"temperature"`
	Condition   string `json:"condition" bson:"condition"`
}

// DefaultWeather stands in whenever the weather source is unconfigured,
// unreachable, or returns malformed data. It is a well-formed report, never
// an absent marker.
var DefaultWeather = WeatherReport{
	City:        "New York",
	Temperature: 0,
	Condition:   "Unknown",
}

// NewsItem is a single headline in an aggregated snapshot.
type NewsItem struct {
	Title  string `json:"title" bson:"title"`
	Source string `json:"source" bson:"source"`
	URL    string `json:"url" bson:"url"`
}

// Snapshot is the merged result of one aggregation pass. It is constructed
// once per request and immutable afterwards.
type Snapshot struct {
	Crypto     []CryptoQuote `json:"crypto" bson:"crypto"`
	Weather    WeatherReport `json:"weather" bson:"weather"`
	LatestNews []NewsItem    `json:"latest_news" bson:"latest_news"`
	FetchedAt  time.Time     `json:"fetchedAt" bson:"fetchedAt"`
}

// Params are the optional inputs of one aggregation pass. Nil price bounds
// mean "no bound"; an empty city falls back to the default city.
type Params struct {
	City        string
	NewsKeyword string
	MinPrice    *float64
	MaxPrice    *float64
}
