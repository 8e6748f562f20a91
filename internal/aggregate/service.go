package aggregate

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

// DefaultSourceTimeout bounds each individual provider call within one
// aggregation pass.
const DefaultSourceTimeout = 10 * time.Second

// Service orchestrates the concurrent fan-out to the three sources and the
// optional persistence of the merged snapshot.
type Service struct {
	crypto  CryptoSource
	weather WeatherSource
	news    NewsSource
	sink    SnapshotSink

	sourceTimeout time.Duration
}

// NewService creates a new Service. Any source may be nil, in which case it
// degrades to its empty/default value. A nil sink disables persistence.
func NewService(crypto CryptoSource, weather WeatherSource, news NewsSource, sink SnapshotSink) *Service {
	return &Service{
		crypto:        crypto,
		weather:       weather,
		news:          news,
		sink:          sink,
		sourceTimeout: DefaultSourceTimeout,
	}
}

// Collect fetches from all three sources concurrently, merges the results
// into a single Snapshot, and hands it to the sink when one is configured.
//
// A failing or absent individual source never fails the whole pass; it
// contributes its empty/default value instead. Only cancellation of ctx
// itself surfaces as an error, and then no snapshot is returned.
func (s *Service) Collect(ctx context.Context, params Params) (Snapshot, error) {
	city := params.City
	if city == "" {
		city = DefaultWeather.City
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		quotes  []CryptoQuote
		weather = DefaultWeather
		news    []NewsItem
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if s.crypto == nil {
			return
		}
		cctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
		defer cancel()

		q, err := s.crypto.FetchQuotes(cctx)
		if err != nil {
			log.Printf("source %s fetch failed: %v", s.crypto.Name(), err)
			return
		}
		mu.Lock()
		quotes = q
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if s.weather == nil {
			return
		}
		wctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
		defer cancel()

		w, err := s.weather.FetchWeather(wctx, city)
		if err != nil {
			log.Printf("source %s fetch failed for %q: %v", s.weather.Name(), city, err)
			return
		}
		mu.Lock()
		weather = w
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if s.news == nil {
			return
		}
		nctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
		defer cancel()

		items, err := s.news.FetchNews(nctx, params.NewsKeyword)
		if err != nil {
			log.Printf("source %s fetch failed: %v", s.news.Name(), err)
			return
		}
		mu.Lock()
		news = items
		mu.Unlock()
	}()

	wg.Wait()

	// A cancelled request gets no partial snapshot, even though individual
	// degraded sources are fine on a live one.
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		Crypto:     mergeQuotes(quotes, params.MinPrice, params.MaxPrice),
		Weather:    weather,
		LatestNews: mergeNews(news),
		FetchedAt:  time.Now().UTC(),
	}

	if s.sink != nil {
		if err := s.sink.Persist(ctx, snapshot); err != nil {
			// Persistence is best-effort; the caller still gets the snapshot.
			log.Printf("failed to persist snapshot: %v", err)
		}
	}

	return snapshot, nil
}

// mergeQuotes applies the optional inclusive price bounds and orders the
// result by market cap, highest first.
func mergeQuotes(quotes []CryptoQuote, minPrice, maxPrice *float64) []CryptoQuote {
	result := make([]CryptoQuote, 0, len(quotes))
	for _, q := range quotes {
		if minPrice != nil && q.Price < *minPrice {
			continue
		}
		if maxPrice != nil && q.Price > *maxPrice {
			continue
		}
		result = append(result, q)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MarketCap > result[j].MarketCap
	})
	return result
}

// mergeNews drops items without a title before they reach the snapshot.
func mergeNews(items []NewsItem) []NewsItem {
	result := make([]NewsItem, 0, len(items))
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		result = append(result, item)
	}
	return result
}
