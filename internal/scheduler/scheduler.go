package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ksw6895/stocksignalbot/internal/collector"
	"github.com/ksw6895/stocksignalbot/internal/model"
	"github.com/ksw6895/stocksignalbot/internal/notifier"
	"github.com/ksw6895/stocksignalbot/internal/recorder"
	"github.com/ksw6895/stocksignalbot/internal/strategy"
	"github.com/ksw6895/stocksignalbot/internal/universe"
)

// Notifier is the outbound messaging surface the scheduler needs.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler drives the periodic scan: it walks the symbol universe, runs the
// strategy per symbol with a bounded worker pool, notifies new BUY signals,
// and records them for dedup.
type Scheduler struct {
	Cron      *cron.Cron
	Universe  universe.Provider
	Collector *collector.Collector
	Engine    *strategy.Engine
	Notifier  Notifier
	Recorder  recorder.Recorder
	Ctx       context.Context

	// Workers bounds concurrent per-symbol analyses. Each analysis is pure
	// and independent, so only I/O politeness limits the fan-out.
	Workers int

	scanEntry cron.EntryID

	mu           sync.Mutex
	scanning     bool
	lastScan     time.Time
	totalScans   int
	totalSignals int
	symbolCount  int
	startedAt    time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, uni universe.Provider, col *collector.Collector,
	eng *strategy.Engine, tn Notifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Universe:  uni,
		Collector: col,
		Engine:    eng,
		Notifier:  tn,
		Recorder:  rec,
		Ctx:       ctx,
		Workers:   4,
		startedAt: time.Now(),
	}
}

// RegisterAll registers the scan and status cron tasks.
func (s *Scheduler) RegisterAll(scanCron, statusCron string) error {
	id, err := s.Cron.AddFunc(scanCron, s.scanTask)
	if err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	s.scanEntry = id
	if _, err := s.Cron.AddFunc(statusCron, s.statusTask); err != nil {
		return fmt.Errorf("register status task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		log.Println("[WARN] scan already in progress, skipping")
		return
	}
	s.scanning = true
	s.lastScan = time.Now()
	s.totalScans++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.scanning = false
		s.mu.Unlock()
	}()

	symbols, err := s.Universe.Symbols()
	if err != nil {
		log.Printf("[ERROR] load symbol universe: %v", err)
		return
	}
	s.mu.Lock()
	s.symbolCount = len(symbols)
	s.mu.Unlock()
	log.Printf("[INFO] scanning %d symbols from %s", len(symbols), s.Universe.Name())

	workers := s.Workers
	if workers <= 0 {
		workers = 4
	}
	jobs := make(chan string)
	results := make(chan *model.Signal, len(symbols))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				if sig := s.checkSymbol(symbol); sig != nil {
					results <- sig
				}
			}
		}()
	}

feed:
	for _, symbol := range symbols {
		select {
		case <-s.Ctx.Done():
			break feed
		case jobs <- symbol:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	var signals []*model.Signal
	for sig := range results {
		signals = append(signals, sig)
	}

	s.mu.Lock()
	s.totalSignals += len(signals)
	s.mu.Unlock()

	if len(signals) > 1 {
		s.trySend(notifier.FormatSummary(signals))
	}
	log.Printf("[INFO] scan complete: %d signals found", len(signals))
}

// checkSymbol runs the pipeline for one symbol and returns the signal when a
// new BUY was found and notified.
func (s *Scheduler) checkSymbol(symbol string) *model.Signal {
	seen, err := s.Recorder.Seen(symbol)
	if err != nil {
		log.Printf("[WARN] dedup lookup for %s: %v", symbol, err)
	}
	if seen {
		return nil
	}

	series, err := s.Collector.Collect(symbol)
	if err != nil {
		log.Printf("[WARN] collect %s: %v", symbol, err)
		return nil
	}

	sig, err := s.Engine.Analyze(series)
	if err != nil {
		log.Printf("[ERROR] analyze %s: %v", symbol, err)
		return nil
	}
	if !sig.Buy() {
		return nil
	}

	log.Printf("[INFO] BUY signal for %s (pattern=%s, ema=%d, entry=%.2f)",
		symbol, sig.Pattern, sig.EMAPeriod, sig.EntryPrice)

	params := s.Engine.Params()
	s.trySend(notifier.FormatSignal(sig, params.TPRatio, params.SLRatio))

	if err := s.Recorder.Record(recorder.FromSignal(sig)); err != nil {
		log.Printf("[ERROR] record signal for %s: %v", symbol, err)
	}
	return sig
}

func (s *Scheduler) statusTask() {
	s.trySend(notifier.FormatStatus(s.Status()))
}

// Status snapshots the runtime counters.
func (s *Scheduler) Status() notifier.BotStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := notifier.BotStatus{
		StartedAt:    s.startedAt,
		LastScan:     s.lastScan,
		TotalScans:   s.totalScans,
		TotalSignals: s.totalSignals,
		SymbolCount:  s.symbolCount,
		Scanning:     s.scanning,
		Granularity:  string(s.Collector.Granularity),
	}
	if entry := s.Cron.Entry(s.scanEntry); entry.ID != 0 {
		st.NextScan = entry.Next
	}
	return st
}

// SendStartup notifies that the bot is up, including the initial universe size.
func (s *Scheduler) SendStartup() {
	symbols, err := s.Universe.Symbols()
	if err != nil {
		log.Printf("[WARN] load symbol universe for startup message: %v", err)
	}
	s.mu.Lock()
	s.symbolCount = len(symbols)
	s.mu.Unlock()

	params := s.Engine.Params()
	s.trySend(notifier.FormatStartup(string(s.Collector.Granularity),
		params.TPRatio, params.SLRatio, len(symbols)))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string, args []string) string {
	switch command {
	case "/scan":
		s.mu.Lock()
		busy := s.scanning
		s.mu.Unlock()
		if busy {
			return "⚠️ A scan is already in progress. Please wait..."
		}
		go s.scanTask()
		return "🔍 Starting immediate scan..."
	case "/status":
		return notifier.FormatStatus(s.Status())
	case "/history":
		records, err := s.Recorder.Recent(10)
		if err != nil {
			log.Printf("[ERROR] load history: %v", err)
			return "❌ Could not load signal history."
		}
		return notifier.FormatHistory(records)
	case "/interval":
		if len(args) == 0 {
			return "Usage: /interval <hours>"
		}
		hours, err := strconv.Atoi(args[0])
		if err != nil || hours < 1 || hours > 168 {
			return "⚠️ Interval must be a whole number between 1 and 168 hours."
		}
		s.mu.Lock()
		s.Cron.Remove(s.scanEntry)
		id, err := s.Cron.AddFunc(fmt.Sprintf("@every %dh", hours), s.scanTask)
		if err != nil {
			s.mu.Unlock()
			log.Printf("[ERROR] reschedule scan: %v", err)
			return "❌ Could not update the scan interval."
		}
		s.scanEntry = id
		s.mu.Unlock()
		log.Printf("[INFO] scan interval changed to every %dh", hours)
		return fmt.Sprintf("✅ Scan interval set to every %d hour(s).", hours)
	case "/clear":
		if err := s.Recorder.Clear(); err != nil {
			log.Printf("[ERROR] clear history: %v", err)
			return "❌ Could not clear signal history."
		}
		return "✅ Signal history cleared."
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
