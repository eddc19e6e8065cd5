package strategy

import "github.com/ksw6895/stocksignalbot/internal/model"

// classifyRun labels the candles following a peak. The run starts at the
// candle immediately after the peak (the peak candle itself serves as the
// first predecessor) and extends at most window candles. An empty run can
// confirm nothing and classifies as none.
func classifyRun(candles []model.Candle, peakIdx, window int, buffer float64) model.PatternClass {
	start := peakIdx + 1
	if start >= len(candles) {
		return model.PatternNone
	}
	end := start + window
	if end > len(candles) {
		end = len(candles)
	}

	bullish := 0
	for i := start; i < end; i++ {
		if isBullish(candles[i], candles[i-1], buffer) {
			bullish++
			if bullish > 1 {
				return model.PatternNone
			}
		}
	}
	if bullish == 0 {
		return model.PatternAll
	}
	return model.PatternAllButOne
}

// isBullish applies the three bullish tests in order: a new local high, a
// green body, or an upper wick stretching beyond the buffer tolerance.
func isBullish(c, prev model.Candle, buffer float64) bool {
	if c.High > prev.High {
		return true
	}
	if c.Close > c.Open {
		return true
	}
	return c.High > (1+buffer)*c.Open
}
