package collector

import (
	"fmt"
	"sort"

	"github.com/ksw6895/stocksignalbot/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Candles []model.Candle
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ string, _ Granularity, limit int) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	candles := m.Candles
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	// Copy so callers can't mutate the fixture.
	out := make([]model.Candle, len(candles))
	copy(out, candles)
	return out, nil
}

// Collector fetches the candle history of a symbol and shapes it into a
// validated Series. Out-of-order input from a source is re-sorted here;
// duplicate timestamps still fail validation because a series with ambiguous
// ordering must not reach the strategy.
type Collector struct {
	Fetcher     Fetcher
	Granularity Granularity
	Limit       int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, granularity Granularity, limit int) *Collector {
	return &Collector{Fetcher: fetcher, Granularity: granularity, Limit: limit}
}

// Collect builds the candle series for one symbol.
func (c *Collector) Collect(symbol string) (*model.Series, error) {
	candles, err := c.Fetcher.FetchCandles(symbol, c.Granularity, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", symbol, err)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })

	series := &model.Series{Symbol: symbol, Candles: candles}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
