package collector

import "github.com/ksw6895/stocksignalbot/internal/model"

// Granularity selects the candle bucket size.
type Granularity string

const (
	GranularityDaily  Granularity = "daily"
	GranularityWeekly Granularity = "weekly"
)

// Fetcher defines the interface for retrieving candle history.
type Fetcher interface {
	FetchCandles(symbol string, granularity Granularity, limit int) ([]model.Candle, error)
	Name() string
}
