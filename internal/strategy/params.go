package strategy

import "errors"

const (
	// emaShortPeriod is used when every post-peak candle is bearish;
	// emaLongPeriod when exactly one is bullish.
	emaShortPeriod = 15
	emaLongPeriod  = 33

	// peakEMARatio is the minimum ratio of the peak high to the short EMA at
	// the peak position. Below it the "peak" is trend noise, not a breakout.
	peakEMARatio = 1.2

	// minLookback is the fewest candles required before the recent window so
	// the peak has price context to break out of.
	minLookback = 7
)

// Params holds every knob of one analysis call. Nothing is ambient: passing
// the full set explicitly keeps concurrent per-symbol analyses independent.
type Params struct {
	// RecentWindow is how far back from now the peak may fall; TotalWindow is
	// how far back the detector looks for context.
	RecentWindow int
	TotalWindow  int

	// BearishWindow is the maximum length of the post-peak run to classify.
	BearishWindow int

	// Buffer is the upper-wick tolerance of the third bullish test,
	// granularity dependent (0.2 weekly, 0.1 daily).
	Buffer float64

	// TPRatio and SLRatio offset the entry price to the take-profit and
	// stop-loss levels.
	TPRatio float64
	SLRatio float64

	// MinRiskReward rejects signals whose reward does not justify the risk.
	MinRiskReward float64
}

// WeeklyParams returns the preset used for weekly candles.
func WeeklyParams(tpRatio, slRatio float64) Params {
	return Params{
		RecentWindow:  5,
		TotalWindow:   52,
		BearishWindow: 7,
		Buffer:        0.2,
		TPRatio:       tpRatio,
		SLRatio:       slRatio,
		MinRiskReward: 1.5,
	}
}

// DailyParams returns the preset used for daily candles.
func DailyParams(tpRatio, slRatio float64) Params {
	return Params{
		RecentWindow:  7,
		TotalWindow:   200,
		BearishWindow: 7,
		Buffer:        0.1,
		TPRatio:       tpRatio,
		SLRatio:       slRatio,
		MinRiskReward: 1.5,
	}
}

// Validate checks the parameter contract.
func (p Params) Validate() error {
	if p.RecentWindow <= 0 || p.TotalWindow <= 0 || p.BearishWindow <= 0 {
		return errors.New("window sizes must be positive")
	}
	if p.TPRatio <= 0 || p.SLRatio <= 0 {
		return errors.New("tp and sl ratios must be positive")
	}
	if p.SLRatio >= 1 {
		return errors.New("sl ratio must be below 1")
	}
	if p.Buffer < 0 {
		return errors.New("buffer must not be negative")
	}
	return nil
}
