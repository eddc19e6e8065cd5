package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/ksw6895/stocksignalbot/internal/model"
)

// BinanceFetcher implements Fetcher using the Binance spot klines API.
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewBinanceFetcher creates a fetcher with optional proxy support.
func NewBinanceFetcher(baseURL, proxyURL string) *BinanceFetcher {
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BinanceFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) FetchCandles(symbol string, granularity Granularity, limit int) ([]model.Candle, error) {
	interval := "1d"
	if granularity == GranularityWeekly {
		interval = "1w"
	}
	endpoint := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		f.BaseURL, url.QueryEscape(symbol), interval, limit)

	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance: status %d, body: %s", resp.StatusCode, string(body))
	}

	// Kline rows mix numbers and strings:
	// [openTime, "open", "high", "low", "close", "volume", closeTime, ...]
	var rows [][]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("binance decode: %w", err)
	}

	candles := make([]model.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		openTime, ok := row[0].(float64)
		if !ok {
			continue
		}
		o, err1 := klineField(row[1])
		h, err2 := klineField(row[2])
		l, err3 := klineField(row[3])
		c, err4 := klineField(row[4])
		v, err5 := klineField(row[5])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			return nil, fmt.Errorf("binance: malformed kline row for %s", symbol)
		}
		candles = append(candles, model.Candle{
			Time:   time.UnixMilli(int64(openTime)),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

func klineField(v any) (float64, error) {
	switch n := v.(type) {
	case string:
		return strconv.ParseFloat(n, 64)
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected kline field type %T", v)
	}
}
