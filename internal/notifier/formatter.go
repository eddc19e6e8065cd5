package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/ksw6895/stocksignalbot/internal/model"
	"github.com/ksw6895/stocksignalbot/internal/recorder"
)

// BotStatus aggregates the runtime counters shown by /status and the daily
// status update.
type BotStatus struct {
	StartedAt    time.Time
	LastScan     time.Time
	NextScan     time.Time
	TotalScans   int
	TotalSignals int
	SymbolCount  int
	Scanning     bool
	Granularity  string
}

// FormatSignal renders a BUY signal as a Telegram message.
func FormatSignal(sig *model.Signal, tpRatio, slRatio float64) string {
	var b strings.Builder

	b.WriteString("🚨 *BUY SIGNAL* 🚨\n\n")
	b.WriteString(fmt.Sprintf("📊 *Symbol:* %s\n", sig.Symbol))
	b.WriteString(fmt.Sprintf("💹 *Strategy:* Upper Section (EMA %d)\n", sig.EMAPeriod))
	b.WriteString(fmt.Sprintf("📐 *Pattern:* %s | *Strength:* %s\n\n", sig.Pattern, sig.Strength))

	b.WriteString(fmt.Sprintf("💰 *Entry Price:* %.2f\n", sig.EntryPrice))
	b.WriteString(fmt.Sprintf("📈 *Current Price:* %.2f\n", sig.CurrentPrice))
	b.WriteString(fmt.Sprintf("🎯 *Take Profit:* %.2f (+%.1f%%)\n", sig.TakeProfit, tpRatio*100))
	b.WriteString(fmt.Sprintf("🛑 *Stop Loss:* %.2f (-%.1f%%)\n", sig.StopLoss, slRatio*100))
	b.WriteString(fmt.Sprintf("⚖️ *Risk/Reward:* %.2f\n\n", sig.RiskReward))

	b.WriteString(fmt.Sprintf("🔺 *Peak:* %.2f | *Pullback:* %+.2f%%\n", sig.PeakPrice, sig.PullbackPct))
	b.WriteString(fmt.Sprintf("\n⏰ %s UTC\n", time.Now().UTC().Format("2006-01-02 15:04:05")))
	b.WriteString("\n⚠️ Automated signal. Always do your own research before trading.")

	return b.String()
}

// FormatSummary renders a digest of multiple signals from one scan.
func FormatSummary(signals []*model.Signal) string {
	var b strings.Builder
	b.WriteString("📊 *SIGNAL SUMMARY* 📊\n\n")
	b.WriteString(fmt.Sprintf("Found *%d* buy signals in this scan:\n\n", len(signals)))
	for _, sig := range signals {
		b.WriteString(fmt.Sprintf("• %s - Entry: %.2f (EMA %d)\n", sig.Symbol, sig.EntryPrice, sig.EMAPeriod))
	}
	b.WriteString("\n_Check individual messages for detailed information._")
	return b.String()
}

// FormatStatus renders the bot status report.
func FormatStatus(st BotStatus) string {
	uptime := time.Since(st.StartedAt)
	hours := uptime.Hours()

	var b strings.Builder
	b.WriteString("📊 *Bot Status*\n\n")
	b.WriteString(fmt.Sprintf("• Uptime: %.1f days (%.1f hours)\n", hours/24, hours))
	b.WriteString(fmt.Sprintf("• Total Scans: %d\n", st.TotalScans))
	b.WriteString(fmt.Sprintf("• Signals Found: %d\n", st.TotalSignals))
	b.WriteString(fmt.Sprintf("• Symbols Monitored: ~%d\n", st.SymbolCount))
	b.WriteString(fmt.Sprintf("• Timeframe: %s\n", st.Granularity))

	if st.Scanning {
		b.WriteString("\n⚙️ *Currently scanning...*\n")
	}
	if !st.LastScan.IsZero() {
		b.WriteString(fmt.Sprintf("\n⏰ Last Scan: %s", st.LastScan.UTC().Format("2006-01-02 15:04:05")))
	}
	if !st.NextScan.IsZero() {
		b.WriteString(fmt.Sprintf("\n⏰ Next Scan: %s", st.NextScan.UTC().Format("2006-01-02 15:04:05")))
	}
	return b.String()
}

// FormatStartup renders the startup notification.
func FormatStartup(granularity string, tpRatio, slRatio float64, symbolCount int) string {
	var b strings.Builder
	b.WriteString("🤖 *Signal Bot Started* 🤖\n\n")
	b.WriteString("• Strategy: Single Peak + Bearish Pattern + EMA Entry\n")
	b.WriteString(fmt.Sprintf("• Timeframe: %s\n", granularity))
	b.WriteString(fmt.Sprintf("• TP/SL: +%.1f%% / -%.1f%%\n", tpRatio*100, slRatio*100))
	b.WriteString(fmt.Sprintf("• Initial symbols: %d\n", symbolCount))
	b.WriteString("\nType /help to see available commands.")
	return b.String()
}

// FormatHistory renders the recent signal history for the /history command.
func FormatHistory(records []recorder.Record) string {
	if len(records) == 0 {
		return "No signals in history yet."
	}
	var b strings.Builder
	b.WriteString("📜 *Recent Signals:*\n\n")
	for _, rec := range records {
		b.WriteString(fmt.Sprintf("• %s - %s (EMA %d, entry %.2f)\n",
			rec.Symbol, rec.SentAt.Format("2006-01-02"), rec.EMAPeriod, rec.EntryPrice))
	}
	return b.String()
}

// FormatHelp lists the available commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("📚 *Available Commands:*\n\n")
	b.WriteString("/scan - Trigger an immediate scan\n")
	b.WriteString("/status - Show bot status and statistics\n")
	b.WriteString("/history - Show recent signals\n")
	b.WriteString("/interval <hours> - Change the scan interval\n")
	b.WriteString("/clear - Clear signal history\n")
	b.WriteString("/help - Show this help message\n")
	return b.String()
}
