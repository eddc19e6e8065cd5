package model

import (
	"fmt"
	"time"
)

// Candle represents a single OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series holds the ordered candle history of one symbol. Candles must be
// sorted ascending by timestamp with no duplicates; Validate enforces the
// contract before any analysis runs.
type Series struct {
	Symbol  string
	Candles []Candle
}

// Validate checks the input contract: at least one candle and strictly
// increasing timestamps.
func (s *Series) Validate() error {
	if len(s.Candles) == 0 {
		return fmt.Errorf("series %s: empty candle sequence", s.Symbol)
	}
	for i := 1; i < len(s.Candles); i++ {
		if !s.Candles[i].Time.After(s.Candles[i-1].Time) {
			return fmt.Errorf("series %s: non-increasing timestamp at index %d", s.Symbol, i)
		}
	}
	return nil
}

// Len returns the number of candles.
func (s *Series) Len() int { return len(s.Candles) }

// Last returns the most recent candle. Callers must validate first.
func (s *Series) Last() Candle { return s.Candles[len(s.Candles)-1] }

// Closes extracts the close price sequence.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}
