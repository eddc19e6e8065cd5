package model

// Decision is the terminal outcome of one analysis call.
type Decision string

const (
	DecisionNo  Decision = "NO"
	DecisionBuy Decision = "BUY"
)

// PatternClass labels the candle run following a peak.
type PatternClass string

const (
	PatternAll       PatternClass = "all"
	PatternAllButOne PatternClass = "all_but_one"
	PatternNone      PatternClass = "none"
)

// Strength is a diagnostic grade for a BUY signal. It never gates the
// decision itself.
type Strength string

const (
	StrengthWeak     Strength = "WEAK"
	StrengthModerate Strength = "MODERATE"
	StrengthStrong   Strength = "STRONG"
)

// Signal is the output of one analysis call. Monetary fields are rounded to
// two decimals at this boundary; everything upstream computes at full
// float64 precision. A Signal is immutable once produced.
type Signal struct {
	Symbol   string
	Decision Decision

	// Entry setup, populated only for BUY decisions.
	EMAPeriod  int
	EntryPrice float64
	TakeProfit float64
	StopLoss   float64
	RiskReward float64

	// Diagnostics.
	CurrentPrice float64
	PeakPrice    float64
	PullbackPct  float64
	Pattern      PatternClass
	Strength     Strength
	VolumeRatio  float64
}

// Buy reports whether the signal is an actionable BUY.
func (s *Signal) Buy() bool { return s != nil && s.Decision == DecisionBuy }
