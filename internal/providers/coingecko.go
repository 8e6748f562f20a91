package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/superdark1999/multi-api-integration/internal/aggregate"
)

// Tracked CoinGecko asset ids and their display metadata. Ids missing from
// the maps pass through with the raw id and an uppercased symbol.
var (
	coinIDs = []string{"bitcoin", "ethereum", "solana", "cardano", "dogecoin"}

	coinNames = map[string]string{
		"bitcoin":  "Bitcoin",
		"ethereum": "Ethereum",
		"solana":   "Solana",
		"cardano":  "Cardano",
		"dogecoin": "Dogecoin",
	}

	coinSymbols = map[string]string{
		"bitcoin":  "BTC",
		"ethereum": "ETH",
		"solana":   "SOL",
		"cardano":  "ADA",
		"dogecoin": "DOGE",
	}
)

// CoinGeckoSource implements aggregate.CryptoSource using the public
// CoinGecko simple-price endpoint. No API key is required.
type CoinGeckoSource struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewCoinGeckoSource(client *http.Client) *CoinGeckoSource {
	return &CoinGeckoSource{
		name:    "coingecko",
		baseURL: "https://api.coingecko.com/api/v3",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newBreaker("coingecko"),
	}
}

func (s *CoinGeckoSource) Name() string {
	return s.name
}

func (s *CoinGeckoSource) FetchQuotes(ctx context.Context) ([]aggregate.CryptoQuote, error) {
	values := url.Values{}
	values.Set("ids", strings.Join(coinIDs, ","))
	values.Set("vs_currencies", "usd")
	values.Set("include_market_cap", "true")

	u := fmt.Sprintf("%s/simple/price?%s", s.baseURL, values.Encode())

	var payload map[string]struct {
		USD          float64 `json:"usd"`
		USDMarketCap float64 `json:"usd_market_cap"`
	}
	if err := fetchJSON(ctx, s.httpCfg, s.circuit, u, &payload); err != nil {
		return nil, err
	}

	quotes := make([]aggregate.CryptoQuote, 0, len(payload))
	for id, v := range payload {
		// Entries without a usable price are dropped here, before the merge.
		if v.USD == 0 {
			continue
		}

		name, ok := coinNames[id]
		if !ok {
			name = id
		}
		symbol, ok := coinSymbols[id]
		if !ok {
			symbol = strings.ToUpper(id)
		}

		quotes = append(quotes, aggregate.CryptoQuote{
			Name:      name,
			Symbol:    symbol,
			Price:     v.USD,
			MarketCap: v.USDMarketCap,
		})
	}

	return quotes, nil
}
