package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/ksw6895/stocksignalbot/internal/model"
	"github.com/ksw6895/stocksignalbot/internal/recorder"
)

func buySignal() *model.Signal {
	return &model.Signal{
		Symbol:       "BTCUSDT",
		Decision:     model.DecisionBuy,
		EMAPeriod:    15,
		EntryPrice:   112.45,
		TakeProfit:   123.70,
		StopLoss:     106.83,
		RiskReward:   2.0,
		CurrentPrice: 104,
		PeakPrice:    140,
		PullbackPct:  -25.71,
		Pattern:      model.PatternAll,
		Strength:     model.StrengthModerate,
	}
}

func TestFormatSignal(t *testing.T) {
	msg := FormatSignal(buySignal(), 0.10, 0.05)

	for _, want := range []string{
		"BUY SIGNAL",
		"BTCUSDT",
		"EMA 15",
		"112.45",
		"123.70 (+10.0%)",
		"106.83 (-5.0%)",
		"2.00",
		"all | *Strength:* MODERATE",
		"-25.71%",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatSummary(t *testing.T) {
	signals := []*model.Signal{buySignal(), buySignal()}
	signals[1].Symbol = "ETHUSDT"

	msg := FormatSummary(signals)
	if !strings.Contains(msg, "*2* buy signals") {
		t.Errorf("summary missing count:\n%s", msg)
	}
	if !strings.Contains(msg, "BTCUSDT") || !strings.Contains(msg, "ETHUSDT") {
		t.Errorf("summary missing symbols:\n%s", msg)
	}
}

func TestFormatStatus(t *testing.T) {
	st := BotStatus{
		StartedAt:    time.Now().Add(-48 * time.Hour),
		LastScan:     time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		NextScan:     time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
		TotalScans:   48,
		TotalSignals: 3,
		SymbolCount:  80,
		Scanning:     true,
		Granularity:  "weekly",
	}
	msg := FormatStatus(st)

	for _, want := range []string{
		"Total Scans: 48",
		"Signals Found: 3",
		"Symbols Monitored: ~80",
		"Timeframe: weekly",
		"Currently scanning",
		"Last Scan: 2024-06-01 10:00:00",
		"Next Scan: 2024-06-01 11:00:00",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("status missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatStatus_OmitsUnsetScans(t *testing.T) {
	msg := FormatStatus(BotStatus{StartedAt: time.Now()})
	if strings.Contains(msg, "Last Scan") || strings.Contains(msg, "Next Scan") {
		t.Errorf("zero scan times must be omitted:\n%s", msg)
	}
}

func TestFormatHistory(t *testing.T) {
	if got := FormatHistory(nil); !strings.Contains(got, "No signals") {
		t.Errorf("empty history message wrong: %s", got)
	}

	records := []recorder.Record{{
		Symbol:     "BTCUSDT",
		EMAPeriod:  33,
		EntryPrice: 110.17,
		SentAt:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}}
	msg := FormatHistory(records)
	if !strings.Contains(msg, "BTCUSDT - 2024-06-01 (EMA 33, entry 110.17)") {
		t.Errorf("history entry wrong:\n%s", msg)
	}
}

func TestFormatStartupAndHelp(t *testing.T) {
	msg := FormatStartup("weekly", 0.10, 0.05, 20)
	for _, want := range []string{"weekly", "+10.0% / -5.0%", "Initial symbols: 20"} {
		if !strings.Contains(msg, want) {
			t.Errorf("startup missing %q:\n%s", want, msg)
		}
	}

	help := FormatHelp()
	for _, cmd := range []string{"/scan", "/status", "/history", "/interval", "/clear", "/help"} {
		if !strings.Contains(help, cmd) {
			t.Errorf("help missing %s", cmd)
		}
	}
}
