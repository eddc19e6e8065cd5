package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ksw6895/stocksignalbot/internal/collector"
	"github.com/ksw6895/stocksignalbot/internal/config"
	"github.com/ksw6895/stocksignalbot/internal/notifier"
	"github.com/ksw6895/stocksignalbot/internal/recorder"
	"github.com/ksw6895/stocksignalbot/internal/scheduler"
	"github.com/ksw6895/stocksignalbot/internal/strategy"
	"github.com/ksw6895/stocksignalbot/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] stocksignalbot starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init candle fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "fmp":
		fetcher = collector.NewFMPFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		fetcher = collector.NewBinanceFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s (%s)", fetcher.Name(), cfg.DataSource.Granularity)

	granularity := collector.Granularity(cfg.DataSource.Granularity)
	col := collector.NewCollector(fetcher, granularity, cfg.DataSource.CandleLimit)

	// Init symbol universe
	var uni universe.Provider
	switch cfg.Universe.Provider {
	case "cmc":
		uni = universe.NewCMCProvider(cfg.Universe.CMCBaseURL, cfg.Universe.CMCAPIKey,
			cfg.Universe.MinMarketCap, cfg.Universe.MaxMarketCap,
			cfg.Universe.MaxPages, cfg.Universe.MaxSymbols,
			universe.NewBinancePairs(""))
	case "file":
		uni = universe.NewFileProvider(cfg.Universe.SymbolsFile)
	default:
		uni = universe.NewStaticProvider(nil)
	}
	log.Printf("[INFO] symbol universe: %s", uni.Name())

	// Init strategy engine
	params := strategy.Params{
		RecentWindow:  cfg.Strategy.RecentWindow,
		TotalWindow:   cfg.Strategy.TotalWindow,
		BearishWindow: cfg.Strategy.BearishWindow,
		Buffer:        *cfg.Strategy.Buffer,
		TPRatio:       cfg.Strategy.TPRatio,
		SLRatio:       cfg.Strategy.SLRatio,
		MinRiskReward: cfg.Strategy.MinRiskReward,
	}
	engine, err := strategy.NewEngine(params)
	if err != nil {
		log.Fatalf("[FATAL] init strategy engine: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init signal recorder
	expiry := time.Duration(cfg.Dedup.ExpiryHours) * time.Hour
	var rec recorder.Recorder
	switch cfg.Dedup.Backend {
	case "redis":
		rr, err := recorder.NewRedisRecorder(cfg.Dedup.RedisAddr, cfg.Dedup.RedisDB, expiry)
		if err != nil {
			log.Fatalf("[FATAL] init redis recorder: %v", err)
		}
		rec = rr
	case "none":
		rec = recorder.NewNoopRecorder()
	default:
		sr, err := recorder.NewSQLiteRecorder(cfg.Dedup.SQLitePath, expiry)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, uni, col, engine, tn, rec)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.StatusCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	go sched.SendStartup()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] stocksignalbot is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] stocksignalbot stopped")
}
