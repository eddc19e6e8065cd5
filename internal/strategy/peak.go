package strategy

import (
	"math"

	"github.com/ksw6895/stocksignalbot/internal/calculator"
	"github.com/ksw6895/stocksignalbot/internal/model"
)

// findPeak locates the single qualifying peak inside the analysis window and
// returns its index in the full candle slice, or -1 when no valid peak
// exists. Every rejection here is fail-closed: ties and undefined EMA values
// are never resolved by a secondary rule.
func findPeak(candles []model.Candle, recentWindow, totalWindow int) int {
	n := len(candles)
	size := totalWindow
	if n < size {
		size = n
	}
	if size < recentWindow+minLookback {
		return -1
	}
	subset := candles[n-size:]

	// Single strict maximum high. Two candles sharing the maximum make the
	// pattern ambiguous and reject it outright.
	peak := 0
	tied := false
	for i := 1; i < len(subset); i++ {
		switch {
		case subset[i].High > subset[peak].High:
			peak = i
			tied = false
		case subset[i].High == subset[peak].High:
			tied = true
		}
	}
	if tied {
		return -1
	}

	// The peak must fall within the recent window.
	if peak < len(subset)-recentWindow {
		return -1
	}

	// The peak must stand clear above trend, not ride it.
	ema, err := calculator.EMASeries(closesOf(subset), emaShortPeriod)
	if err != nil {
		return -1
	}
	if math.IsNaN(ema[peak]) || subset[peak].High < peakEMARatio*ema[peak] {
		return -1
	}

	// Breakout confirmation: at least one close among the recent-window-plus-
	// peak candles must exceed every high before that stretch. A peak inside
	// a consolidation range is not a new high.
	boundary := len(subset) - recentWindow - 1
	earlierMax := math.Inf(-1)
	for _, c := range subset[:boundary] {
		if c.High > earlierMax {
			earlierMax = c.High
		}
	}
	broke := false
	for _, c := range subset[boundary:] {
		if c.Close > earlierMax {
			broke = true
			break
		}
	}
	if !broke {
		return -1
	}

	// The peak must have been closed into, not just wicked: its close or the
	// close immediately before it must exceed the highs of everything
	// strictly before the candle preceding the peak.
	if peak > 0 {
		priorMax := math.Inf(-1)
		for _, c := range subset[:peak-1] {
			if c.High > priorMax {
				priorMax = c.High
			}
		}
		if subset[peak].Close <= priorMax && subset[peak-1].Close <= priorMax {
			return -1
		}
	}

	return n - size + peak
}

func closesOf(candles []model.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
