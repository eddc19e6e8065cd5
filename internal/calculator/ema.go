package calculator

import (
	"errors"
	"math"
)

// EMASeries computes the exponential moving average of prices over the given
// period. The result is aligned 1:1 with the input: the first period-1
// entries are NaN ("no value yet"), entry period-1 seeds the recurrence with
// the arithmetic mean of the first period prices, and each later entry is
// price[i]*alpha + prev*(1-alpha) with alpha = 2/(period+1).
//
// If len(prices) < period every entry is NaN. An empty input yields an empty
// output. A non-positive period is a contract violation and returns an error.
func EMASeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(prices) < period {
		return out, nil
	}

	sum := 0.0
	for _, p := range prices[:period] {
		sum += p
	}
	out[period-1] = sum / float64(period)

	alpha := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		out[i] = prices[i]*alpha + out[i-1]*(1-alpha)
	}
	return out, nil
}
