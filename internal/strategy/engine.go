package strategy

import (
	"fmt"
	"math"

	"github.com/ksw6895/stocksignalbot/internal/calculator"
	"github.com/ksw6895/stocksignalbot/internal/model"
)

// Engine runs the upper-section pattern analysis: find a single qualifying
// peak, classify the bearish run after it, pick an EMA period from the
// classification, and emit a BUY signal when the latest low undercuts that
// EMA. The engine holds no mutable state; one instance may serve any number
// of concurrent Analyze calls.
type Engine struct {
	params Params
}

// NewEngine validates the parameters and returns an Engine.
func NewEngine(params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("strategy params: %w", err)
	}
	return &Engine{params: params}, nil
}

// Params returns the engine's parameter set.
func (e *Engine) Params() Params { return e.params }

// Analyze runs the full pipeline over one candle series. A missing pattern
// is a normal outcome and returns a Signal with Decision NO; errors are
// reserved for contract violations on the input.
func (e *Engine) Analyze(series *model.Series) (*model.Signal, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	sig := &model.Signal{
		Symbol:   series.Symbol,
		Decision: model.DecisionNo,
		Pattern:  model.PatternNone,
	}

	candles := series.Candles
	peak := findPeak(candles, e.params.RecentWindow, e.params.TotalWindow)
	if peak < 0 {
		return sig, nil
	}
	sig.PeakPrice = round2(candles[peak].High)

	pattern := classifyRun(candles, peak, e.params.BearishWindow, e.params.Buffer)
	sig.Pattern = pattern

	var period int
	switch pattern {
	case model.PatternAll:
		period = emaShortPeriod
	case model.PatternAllButOne:
		period = emaLongPeriod
	default:
		return sig, nil
	}

	ema, err := calculator.EMASeries(series.Closes(), period)
	if err != nil {
		return nil, err
	}
	last := len(candles) - 1
	level := ema[last]
	if math.IsNaN(level) {
		return sig, nil
	}

	// Entry condition: the latest low must undercut the selected EMA.
	if candles[last].Low >= level {
		return sig, nil
	}

	entry := level
	tp := entry * (1 + e.params.TPRatio)
	sl := entry * (1 - e.params.SLRatio)
	if sl >= entry || entry <= 0 {
		return sig, nil
	}
	rr := (tp - entry) / (entry - sl)
	if rr < e.params.MinRiskReward {
		return sig, nil
	}

	current := candles[last].Close
	sig.Decision = model.DecisionBuy
	sig.EMAPeriod = period
	sig.EntryPrice = round2(entry)
	sig.TakeProfit = round2(tp)
	sig.StopLoss = round2(sl)
	sig.RiskReward = round2(rr)
	sig.CurrentPrice = round2(current)
	sig.PullbackPct = round2((current - candles[peak].High) / candles[peak].High * 100)
	gradeStrength(sig, candles, peak)

	return sig, nil
}

// round2 rounds to display precision. Applied only at the output boundary so
// intermediate math keeps full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
