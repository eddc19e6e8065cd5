package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/ksw6895/stocksignalbot/internal/model"
)

// FMPFetcher implements Fetcher using the Financial Modeling Prep historical
// price API. FMP only serves daily bars, so weekly candles are aggregated
// from daily ones by ISO week.
type FMPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFMPFetcher creates a fetcher with optional proxy support.
func NewFMPFetcher(baseURL, apiKey, proxyURL string) *FMPFetcher {
	if baseURL == "" {
		baseURL = "https://financialmodelingprep.com/api"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FMPFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FMPFetcher) Name() string { return "fmp" }

// fmpBar is one entry of the historical-price-full response.
type fmpBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func (f *FMPFetcher) FetchCandles(symbol string, granularity Granularity, limit int) ([]model.Candle, error) {
	days := limit
	if granularity == GranularityWeekly {
		days = limit * 7
	}
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	endpoint := fmt.Sprintf("%s/v3/historical-price-full/%s?from=%s&to=%s&apikey=%s",
		f.BaseURL, url.PathEscape(symbol),
		from.Format("2006-01-02"), to.Format("2006-01-02"), url.QueryEscape(f.APIKey))

	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fmp fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fmp read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fmp: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Symbol     string   `json:"symbol"`
		Historical []fmpBar `json:"historical"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("fmp decode: %w", err)
	}
	if len(payload.Historical) == 0 {
		return nil, fmt.Errorf("fmp: no data for %s", symbol)
	}

	candles := make([]model.Candle, 0, len(payload.Historical))
	for _, bar := range payload.Historical {
		ts, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			continue
		}
		candles = append(candles, model.Candle{
			Time:   ts,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}

	// FMP returns newest first.
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })

	if granularity == GranularityWeekly {
		candles = aggregateDailyToWeekly(candles)
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

// aggregateDailyToWeekly folds daily candles into weekly ones by ISO week.
func aggregateDailyToWeekly(daily []model.Candle) []model.Candle {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.Candle
	var week model.Candle
	var started bool

	for _, d := range daily {
		year, isoWeek := d.Time.ISOWeek()
		key := year*100 + isoWeek

		if !started {
			week = d
			started = true
			continue
		}

		cy, cw := week.Time.ISOWeek()
		currentKey := cy*100 + cw

		if key != currentKey {
			weekly = append(weekly, week)
			week = d
		} else {
			if d.High > week.High {
				week.High = d.High
			}
			if d.Low < week.Low {
				week.Low = d.Low
			}
			week.Close = d.Close
			week.Volume += d.Volume
		}
	}
	if started {
		weekly = append(weekly, week)
	}
	return weekly
}
