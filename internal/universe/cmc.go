package universe

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const cmcPageSize = 5000

// PairValidator reports which trading pairs an exchange actually lists.
type PairValidator interface {
	ValidPairs() (map[string]bool, error)
}

// CMCProvider builds the symbol universe from CoinMarketCap listings filtered
// by market cap, mapping each coin to its USDT pair. When a PairValidator is
// configured, pairs not listed on the exchange are dropped; when validation
// fails the unfiltered list is truncated to MaxSymbols instead of aborting
// the scan.
type CMCProvider struct {
	BaseURL    string
	APIKey     string
	MinCap     float64
	MaxCap     float64
	MaxPages   int
	MaxSymbols int
	Validator  PairValidator
	Client     *http.Client
}

// NewCMCProvider creates a provider with sane defaults.
func NewCMCProvider(baseURL, apiKey string, minCap, maxCap float64, maxPages, maxSymbols int, validator PairValidator) *CMCProvider {
	if baseURL == "" {
		baseURL = "https://pro-api.coinmarketcap.com"
	}
	if maxPages <= 0 {
		maxPages = 1
	}
	if maxSymbols <= 0 {
		maxSymbols = 100
	}
	return &CMCProvider{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		MinCap:     minCap,
		MaxCap:     maxCap,
		MaxPages:   maxPages,
		MaxSymbols: maxSymbols,
		Validator:  validator,
		Client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *CMCProvider) Name() string { return "coinmarketcap" }

// cmcListing is one coin of the listings response.
type cmcListing struct {
	Symbol string `json:"symbol"`
	Quote  struct {
		USD struct {
			MarketCap *float64 `json:"market_cap"`
		} `json:"USD"`
	} `json:"quote"`
}

func (p *CMCProvider) Symbols() ([]string, error) {
	var coins []cmcListing
	for page := 0; page < p.MaxPages; page++ {
		pageCoins, err := p.fetchPage(page*cmcPageSize + 1)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			log.Printf("[WARN] cmc page %d failed, continuing with %d coins: %v", page+1, len(coins), err)
			break
		}
		if len(pageCoins) == 0 {
			break
		}
		coins = append(coins, pageCoins...)
		if len(pageCoins) < cmcPageSize {
			break
		}
	}

	var symbols []string
	for _, coin := range coins {
		mcap := coin.Quote.USD.MarketCap
		if mcap == nil || *mcap < p.MinCap || *mcap > p.MaxCap {
			continue
		}
		if coin.Symbol == "" {
			continue
		}
		symbols = append(symbols, strings.ToUpper(coin.Symbol)+"USDT")
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("cmc: no coins within market cap range %.0f..%.0f", p.MinCap, p.MaxCap)
	}

	if p.Validator != nil {
		valid, err := p.Validator.ValidPairs()
		if err != nil || len(valid) == 0 {
			log.Printf("[WARN] cannot verify exchange pairs, truncating to %d symbols: %v", p.MaxSymbols, err)
			return truncate(symbols, p.MaxSymbols), nil
		}
		filtered := symbols[:0]
		for _, sym := range symbols {
			if valid[sym] {
				filtered = append(filtered, sym)
			}
		}
		symbols = filtered
	}
	return truncate(symbols, p.MaxSymbols), nil
}

func (p *CMCProvider) fetchPage(start int) ([]cmcListing, error) {
	endpoint := fmt.Sprintf("%s/v1/cryptocurrency/listings/latest?start=%d&limit=%d&convert=USD",
		p.BaseURL, start, cmcPageSize)
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accepts", "application/json")
	req.Header.Set("X-CMC_PRO_API_KEY", p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cmc fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cmc read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cmc: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data []cmcListing `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("cmc decode: %w", err)
	}
	return payload.Data, nil
}

func truncate(symbols []string, max int) []string {
	if len(symbols) > max {
		return symbols[:max]
	}
	return symbols
}

// BinancePairs validates symbols against the Binance exchangeInfo endpoint,
// keeping only USDT pairs in TRADING status.
type BinancePairs struct {
	BaseURL string
	Client  *http.Client
}

func NewBinancePairs(baseURL string) *BinancePairs {
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	return &BinancePairs{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (b *BinancePairs) ValidPairs() (map[string]bool, error) {
	endpoint := b.BaseURL + "/api/v3/exchangeInfo"
	resp, err := b.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange info: status %d", resp.StatusCode)
	}

	var payload struct {
		Symbols []struct {
			Symbol     string `json:"symbol"`
			QuoteAsset string `json:"quoteAsset"`
			Status     string `json:"status"`
		} `json:"symbols"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("exchange info decode: %w", err)
	}

	valid := make(map[string]bool, len(payload.Symbols))
	for _, s := range payload.Symbols {
		if s.QuoteAsset == "USDT" && s.Status == "TRADING" {
			valid[s.Symbol] = true
		}
	}
	return valid, nil
}
