package scheduler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ksw6895/stocksignalbot/internal/collector"
	"github.com/ksw6895/stocksignalbot/internal/model"
	"github.com/ksw6895/stocksignalbot/internal/recorder"
	"github.com/ksw6895/stocksignalbot/internal/strategy"
	"github.com/ksw6895/stocksignalbot/internal/universe"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

type memRecorder struct {
	mu      sync.Mutex
	records []recorder.Record
}

func (m *memRecorder) Seen(symbol string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.Symbol == symbol {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRecorder) Record(rec *recorder.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *memRecorder) Recent(limit int) ([]recorder.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.records)
	if n > limit {
		n = limit
	}
	out := make([]recorder.Record, 0, n)
	for i := len(m.records) - 1; i >= len(m.records)-n; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *memRecorder) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

func (m *memRecorder) Close() error { return nil }

// buyCandles builds a series that produces a BUY: an uptrend into a blow-off
// peak followed by an all-bearish decline through the EMA.
func buyCandles() []model.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(i int, open, high, low, close float64) model.Candle {
		return model.Candle{
			Time: base.Add(time.Duration(i) * 7 * 24 * time.Hour),
			Open: open, High: high, Low: low, Close: close, Volume: 1000,
		}
	}
	candles := make([]model.Candle, 0, 52)
	for i := 0; i < 44; i++ {
		close := 100 + 0.25*float64(i)
		candles = append(candles, mk(i, close-0.1, close+0.5, close-0.5, close))
	}
	candles = append(candles, mk(44, 125, 140, 124, 132))
	tail := [][4]float64{
		{130, 131, 125, 126},
		{126, 127, 121, 122},
		{122, 123, 117, 118},
		{118, 119, 113, 114},
		{114, 115, 110, 111},
		{111, 112, 107, 108},
		{108, 109, 101, 104},
	}
	for j, c := range tail {
		candles = append(candles, mk(45+j, c[0], c[1], c[2], c[3]))
	}
	return candles
}

func newTestScheduler(t *testing.T, symbols []string) (*Scheduler, *fakeNotifier, *memRecorder) {
	t.Helper()
	eng, err := strategy.NewEngine(strategy.Params{
		RecentWindow:  10,
		TotalWindow:   52,
		BearishWindow: 7,
		Buffer:        0.2,
		TPRatio:       0.10,
		SLRatio:       0.05,
		MinRiskReward: 1.5,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	col := collector.NewCollector(
		&collector.MockFetcher{Candles: buyCandles()},
		collector.GranularityWeekly, 60)
	fn := &fakeNotifier{}
	rec := &memRecorder{}
	s := NewScheduler(context.Background(), universe.NewStaticProvider(symbols), col, eng, fn, rec)
	return s, fn, rec
}

func TestScan_NotifiesAndRecordsSignals(t *testing.T) {
	s, fn, rec := newTestScheduler(t, []string{"BTCUSDT", "ETHUSDT"})

	s.RunScanNow()

	msgs := fn.messages()
	// Two signal messages plus one summary.
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d: %v", len(msgs), msgs)
	}
	var summaries int
	for _, m := range msgs {
		if strings.Contains(m, "SIGNAL SUMMARY") {
			summaries++
		}
	}
	if summaries != 1 {
		t.Errorf("expected exactly 1 summary, got %d", summaries)
	}

	records, err := rec.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	st := s.Status()
	if st.TotalScans != 1 || st.TotalSignals != 2 || st.SymbolCount != 2 {
		t.Errorf("unexpected counters: %+v", st)
	}
	if st.Scanning {
		t.Error("scan must be marked finished")
	}
}

func TestScan_DeduplicatesAcrossScans(t *testing.T) {
	s, fn, _ := newTestScheduler(t, []string{"BTCUSDT"})

	s.RunScanNow()
	first := len(fn.messages())
	if first != 1 {
		t.Fatalf("expected 1 message after first scan, got %d", first)
	}

	s.RunScanNow()
	if got := len(fn.messages()); got != first {
		t.Errorf("seen symbol must not be re-notified, got %d messages", got)
	}

	st := s.Status()
	if st.TotalScans != 2 || st.TotalSignals != 1 {
		t.Errorf("unexpected counters: %+v", st)
	}
}

func TestScan_SingleSignalSkipsSummary(t *testing.T) {
	s, fn, _ := newTestScheduler(t, []string{"BTCUSDT"})

	s.RunScanNow()

	for _, m := range fn.messages() {
		if strings.Contains(m, "SIGNAL SUMMARY") {
			t.Error("summary must be skipped for a single signal")
		}
	}
}

func TestHandleCommand_Status(t *testing.T) {
	s, _, _ := newTestScheduler(t, []string{"BTCUSDT"})

	reply := s.HandleCommand("/status", nil)
	if !strings.Contains(reply, "Bot Status") {
		t.Errorf("unexpected /status reply: %s", reply)
	}
}

func TestHandleCommand_HistoryAndClear(t *testing.T) {
	s, _, _ := newTestScheduler(t, []string{"BTCUSDT"})
	s.RunScanNow()

	reply := s.HandleCommand("/history", nil)
	if !strings.Contains(reply, "BTCUSDT") {
		t.Errorf("expected history to list BTCUSDT: %s", reply)
	}

	reply = s.HandleCommand("/clear", nil)
	if !strings.Contains(reply, "cleared") {
		t.Errorf("unexpected /clear reply: %s", reply)
	}

	reply = s.HandleCommand("/history", nil)
	if !strings.Contains(reply, "No signals") {
		t.Errorf("expected empty history after clear: %s", reply)
	}
}

func TestHandleCommand_Interval(t *testing.T) {
	s, _, _ := newTestScheduler(t, []string{"BTCUSDT"})
	if err := s.RegisterAll("0 0 * * * *", "0 0 12 * * *"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}

	reply := s.HandleCommand("/interval", nil)
	if !strings.Contains(reply, "Usage") {
		t.Errorf("missing argument must return usage: %s", reply)
	}

	reply = s.HandleCommand("/interval", []string{"nope"})
	if !strings.Contains(reply, "between 1 and 168") {
		t.Errorf("non-numeric argument must be rejected: %s", reply)
	}

	reply = s.HandleCommand("/interval", []string{"0"})
	if !strings.Contains(reply, "between 1 and 168") {
		t.Errorf("out-of-range argument must be rejected: %s", reply)
	}

	reply = s.HandleCommand("/interval", []string{"2"})
	if !strings.Contains(reply, "every 2 hour") {
		t.Errorf("unexpected /interval reply: %s", reply)
	}
}

func TestHandleCommand_UnknownShowsHelp(t *testing.T) {
	s, _, _ := newTestScheduler(t, []string{"BTCUSDT"})

	reply := s.HandleCommand("/bogus", nil)
	if !strings.Contains(reply, "Available Commands") {
		t.Errorf("unknown command must return help: %s", reply)
	}
}

func TestSendStartup(t *testing.T) {
	s, fn, _ := newTestScheduler(t, []string{"BTCUSDT", "ETHUSDT"})

	s.SendStartup()

	msgs := fn.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 startup message, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0], "Initial symbols: 2") {
		t.Errorf("startup message wrong:\n%s", msgs[0])
	}
}
