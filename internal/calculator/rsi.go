package calculator

import "math"

// RSI computes a simple (non-smoothed) relative strength index over the last
// period close-to-close changes. ok is false when fewer than period+1 closes
// are available.
func RSI(closes []float64, period int) (rsi float64, ok bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	if loss == 0 {
		return 100, true
	}
	rs := gain / loss
	return 100 - 100/(1+rs), true
}

// Volatility returns the standard deviation of close-to-close returns.
// Shorter-than-two inputs carry no return information and yield 0.
func Volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	if len(returns) == 0 {
		return 0
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}
