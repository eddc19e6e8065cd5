package recorder

import (
	"time"

	"github.com/google/uuid"

	"github.com/ksw6895/stocksignalbot/internal/model"
)

// Record is one notified signal, persisted for deduplication and history.
type Record struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Decision   string    `json:"decision"`
	EMAPeriod  int       `json:"ema_period"`
	EntryPrice float64   `json:"entry_price"`
	TakeProfit float64   `json:"take_profit"`
	StopLoss   float64   `json:"stop_loss"`
	RiskReward float64   `json:"risk_reward"`
	Pattern    string    `json:"pattern"`
	Strength   string    `json:"strength"`
	SentAt     time.Time `json:"sent_at"`
}

// FromSignal builds a Record for a signal that is about to be sent.
func FromSignal(sig *model.Signal) *Record {
	return &Record{
		ID:         uuid.NewString(),
		Symbol:     sig.Symbol,
		Decision:   string(sig.Decision),
		EMAPeriod:  sig.EMAPeriod,
		EntryPrice: sig.EntryPrice,
		TakeProfit: sig.TakeProfit,
		StopLoss:   sig.StopLoss,
		RiskReward: sig.RiskReward,
		Pattern:    string(sig.Pattern),
		Strength:   string(sig.Strength),
		SentAt:     time.Now().UTC(),
	}
}

// Recorder persists notified signals and answers dedup queries. Seen reports
// whether a signal for the symbol was recorded within the store's expiry
// window, so a symbol is not re-notified while its signal is still fresh.
type Recorder interface {
	Seen(symbol string) (bool, error)
	Record(rec *Record) error
	Recent(limit int) ([]Record, error)
	Clear() error
	Close() error
}
