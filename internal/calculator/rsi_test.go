package calculator

import (
	"math"
	"testing"
)

func TestRSI_InsufficientData(t *testing.T) {
	if _, ok := RSI([]float64{1, 2, 3}, 14); ok {
		t.Error("expected ok=false for short input")
	}
	if _, ok := RSI(nil, 14); ok {
		t.Error("expected ok=false for nil input")
	}
	if _, ok := RSI([]float64{1, 2, 3}, 0); ok {
		t.Error("expected ok=false for non-positive period")
	}
}

func TestRSI_AllGains(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6}
	rsi, ok := RSI(closes, 5)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if rsi != 100 {
		t.Errorf("expected RSI 100 for monotone gains, got %v", rsi)
	}
}

func TestRSI_AllLosses(t *testing.T) {
	closes := []float64{6, 5, 4, 3, 2, 1}
	rsi, ok := RSI(closes, 5)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if rsi != 0 {
		t.Errorf("expected RSI 0 for monotone losses, got %v", rsi)
	}
}

func TestRSI_Balanced(t *testing.T) {
	// gains and losses of equal magnitude -> RS=1 -> RSI=50
	closes := []float64{100, 101, 100, 101, 100, 101, 100}
	rsi, ok := RSI(closes, 6)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if math.Abs(rsi-50) > 1e-9 {
		t.Errorf("expected RSI 50, got %v", rsi)
	}
}

func TestVolatility_ShortInput(t *testing.T) {
	if v := Volatility(nil); v != 0 {
		t.Errorf("expected 0 for nil, got %v", v)
	}
	if v := Volatility([]float64{100}); v != 0 {
		t.Errorf("expected 0 for single close, got %v", v)
	}
}

func TestVolatility_ConstantSeries(t *testing.T) {
	closes := []float64{100, 100, 100, 100}
	if v := Volatility(closes); v != 0 {
		t.Errorf("expected 0 for flat series, got %v", v)
	}
}

func TestVolatility_KnownValue(t *testing.T) {
	// returns: +10%, -10% -> mean 0, variance 0.01, stddev 0.1
	closes := []float64{100, 110, 99}
	got := Volatility(closes)
	if math.Abs(got-0.1) > 1e-9 {
		t.Errorf("expected 0.1, got %v", got)
	}
}
