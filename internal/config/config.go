package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider    string `yaml:"provider"` // "binance" or "fmp"
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		Granularity string `yaml:"granularity"` // "weekly" or "daily"
		CandleLimit int    `yaml:"candle_limit"`
	} `yaml:"data_source"`
	Universe struct {
		Provider     string  `yaml:"provider"` // "cmc", "file", "static"
		SymbolsFile  string  `yaml:"symbols_file"`
		CMCAPIKey    string  `yaml:"cmc_api_key"`
		CMCBaseURL   string  `yaml:"cmc_base_url"`
		MinMarketCap float64 `yaml:"min_market_cap"`
		MaxMarketCap float64 `yaml:"max_market_cap"`
		MaxPages     int     `yaml:"max_pages"`
		MaxSymbols   int     `yaml:"max_symbols"`
	} `yaml:"universe"`
	Strategy struct {
		TPRatio       float64 `yaml:"tp_ratio"`
		SLRatio       float64 `yaml:"sl_ratio"`
		MinRiskReward float64 `yaml:"min_risk_reward"`
		RecentWindow  int     `yaml:"recent_window"`
		TotalWindow   int     `yaml:"total_window"`
		BearishWindow int     `yaml:"bearish_window"`
		// Buffer is a pointer so an explicit `buffer: 0` in YAML is
		// distinguishable from the field being absent.
		Buffer *float64 `yaml:"buffer"`
	} `yaml:"strategy"`
	Schedule struct {
		ScanCron   string `yaml:"scan_cron"`
		StatusCron string `yaml:"status_cron"`
	} `yaml:"schedule"`
	Dedup struct {
		Backend     string `yaml:"backend"` // "sqlite", "redis", "none"
		SQLitePath  string `yaml:"sqlite_path"`
		RedisAddr   string `yaml:"redis_addr"`
		RedisDB     int    `yaml:"redis_db"`
		ExpiryHours int    `yaml:"expiry_hours"`
	} `yaml:"dedup"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from an optional .env file and a YAML file, then applies
// environment variable overrides and granularity-dependent defaults.
func Load(path string) (*Config, error) {
	// .env is optional; real env vars win over its contents.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("COINMARKETCAP_API_KEY"); v != "" {
		cfg.Universe.CMCAPIKey = v
	}
	if v := os.Getenv("TP_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Strategy.TPRatio = f
		}
	}
	if v := os.Getenv("SL_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Strategy.SLRatio = f
		}
	}
	if v := os.Getenv("MIN_MARKET_CAP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Universe.MinMarketCap = f
		}
	}
	if v := os.Getenv("MAX_MARKET_CAP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Universe.MaxMarketCap = f
		}
	}
	if v := os.Getenv("CMC_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Universe.MaxPages = n
		}
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Dedup.RedisAddr = v
		cfg.Dedup.Backend = "redis"
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Dedup.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "binance"
	}
	if cfg.DataSource.Granularity == "" {
		cfg.DataSource.Granularity = "weekly"
	}
	if cfg.DataSource.CandleLimit == 0 {
		cfg.DataSource.CandleLimit = 60
	}
	if cfg.Universe.Provider == "" {
		cfg.Universe.Provider = "static"
	}
	if cfg.Universe.MinMarketCap == 0 {
		cfg.Universe.MinMarketCap = 150_000_000
	}
	if cfg.Universe.MaxMarketCap == 0 {
		cfg.Universe.MaxMarketCap = 20_000_000_000
	}
	if cfg.Universe.MaxPages == 0 {
		cfg.Universe.MaxPages = 5
	}
	if cfg.Universe.MaxSymbols == 0 {
		cfg.Universe.MaxSymbols = 100
	}
	if cfg.Universe.SymbolsFile == "" {
		cfg.Universe.SymbolsFile = "filtered_coins.txt"
	}

	if cfg.Strategy.TPRatio == 0 {
		cfg.Strategy.TPRatio = 0.10
	}
	if cfg.Strategy.SLRatio == 0 {
		cfg.Strategy.SLRatio = 0.05
	}
	if cfg.Strategy.MinRiskReward == 0 {
		cfg.Strategy.MinRiskReward = 1.5
	}
	if cfg.Strategy.BearishWindow == 0 {
		cfg.Strategy.BearishWindow = 7
	}
	// Window preset by granularity, unless overridden.
	if cfg.DataSource.Granularity == "daily" {
		if cfg.Strategy.RecentWindow == 0 {
			cfg.Strategy.RecentWindow = 7
		}
		if cfg.Strategy.TotalWindow == 0 {
			cfg.Strategy.TotalWindow = 200
		}
		if cfg.Strategy.Buffer == nil {
			v := 0.1
			cfg.Strategy.Buffer = &v
		}
	} else {
		if cfg.Strategy.RecentWindow == 0 {
			cfg.Strategy.RecentWindow = 5
		}
		if cfg.Strategy.TotalWindow == 0 {
			cfg.Strategy.TotalWindow = 52
		}
		if cfg.Strategy.Buffer == nil {
			v := 0.2
			cfg.Strategy.Buffer = &v
		}
	}

	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 0 * * * *" // hourly
	}
	if cfg.Schedule.StatusCron == "" {
		cfg.Schedule.StatusCron = "0 0 12 * * *" // daily at 12:00 UTC
	}

	if cfg.Dedup.Backend == "" {
		cfg.Dedup.Backend = "sqlite"
	}
	if cfg.Dedup.SQLitePath == "" {
		cfg.Dedup.SQLitePath = "data/signals.db"
	}
	if cfg.Dedup.ExpiryHours == 0 {
		cfg.Dedup.ExpiryHours = 168
	}
}

// Validate checks that all required fields are set and coherent.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	switch c.DataSource.Provider {
	case "binance", "fmp":
	default:
		return fmt.Errorf("data_source.provider must be binance or fmp, got %q", c.DataSource.Provider)
	}
	switch c.DataSource.Granularity {
	case "weekly", "daily":
	default:
		return fmt.Errorf("data_source.granularity must be weekly or daily, got %q", c.DataSource.Granularity)
	}
	switch c.Universe.Provider {
	case "cmc", "file", "static":
	default:
		return fmt.Errorf("universe.provider must be cmc, file or static, got %q", c.Universe.Provider)
	}
	if c.Universe.Provider == "cmc" && c.Universe.CMCAPIKey == "" {
		return fmt.Errorf("universe.cmc_api_key is required for the cmc provider")
	}
	if c.Strategy.TPRatio <= 0 || c.Strategy.SLRatio <= 0 {
		return fmt.Errorf("strategy ratios must be positive")
	}
	if c.Strategy.Buffer == nil || *c.Strategy.Buffer < 0 {
		return fmt.Errorf("strategy.buffer must be zero or positive")
	}
	switch c.Dedup.Backend {
	case "sqlite", "redis", "none":
	default:
		return fmt.Errorf("dedup.backend must be sqlite, redis or none, got %q", c.Dedup.Backend)
	}
	if c.Dedup.Backend == "redis" && c.Dedup.RedisAddr == "" {
		return fmt.Errorf("dedup.redis_addr is required for the redis backend")
	}
	return nil
}
