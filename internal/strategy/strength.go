package strategy

import (
	"math"

	"github.com/ksw6895/stocksignalbot/internal/calculator"
	"github.com/ksw6895/stocksignalbot/internal/model"
)

// gradeStrength attaches the diagnostic strength label to a BUY signal. The
// score rewards a healthy pullback from the peak, expanding volume, calm
// recent volatility, and a cooled-off RSI. The label never gates the
// decision.
func gradeStrength(sig *model.Signal, candles []model.Candle, peakIdx int) {
	score := 0

	peakHigh := candles[peakIdx].High
	current := candles[len(candles)-1].Close
	pullback := math.Abs(current-peakHigh) / peakHigh
	switch {
	case pullback >= 0.15 && pullback <= 0.30:
		score += 2
	case pullback >= 0.10 && pullback < 0.15:
		score++
	}

	ratio := volumeRatio(candles)
	sig.VolumeRatio = round2(ratio)
	switch {
	case ratio > 1.5:
		score += 2
	case ratio > 1.0:
		score++
	}

	if calculator.Volatility(lastCloses(candles, 20)) < 0.03 {
		score++
	}

	if rsi, ok := calculator.RSI(lastCloses(candles, 15), 14); ok {
		switch {
		case rsi < 40:
			score += 2
		case rsi < 50:
			score++
		}
	}

	switch {
	case score >= 5:
		sig.Strength = model.StrengthStrong
	case score >= 3:
		sig.Strength = model.StrengthModerate
	default:
		sig.Strength = model.StrengthWeak
	}
}

// volumeRatio compares the latest candle's volume against the 20-bar average.
func volumeRatio(candles []model.Candle) float64 {
	n := len(candles)
	start := n - 20
	if start < 0 {
		start = 0
	}
	var sum float64
	for _, c := range candles[start:] {
		sum += c.Volume
	}
	avg := sum / float64(n-start)
	if avg <= 0 {
		return 1
	}
	return candles[n-1].Volume / avg
}

func lastCloses(candles []model.Candle, n int) []float64 {
	start := len(candles) - n
	if start < 0 {
		start = 0
	}
	return closesOf(candles[start:])
}
