package calculator

import (
	"math"
	"testing"

	"TrendWatch/internal/model"
)

func TestRSI_InsufficientData(t *testing.T) {
	rsi, err := RSI([]float64{1, 2, 3}, RSIPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 50 {
		t.Errorf("expected default 50, got %.2f", rsi)
	}
	if _, err := RSI([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestRSI_Extremes(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = float64(100 + i)
		down[i] = float64(100 - i)
	}
	if rsi, _ := RSI(up, RSIPeriod); rsi != 100 {
		t.Errorf("rising series: expected 100, got %.2f", rsi)
	}
	if rsi, _ := RSI(down, RSIPeriod); rsi > 0.0001 {
		t.Errorf("falling series: expected ~0, got %.2f", rsi)
	}
}

func TestRSI_Alternating(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
		if i%2 == 1 {
			closes[i] = 101
		}
	}
	rsi, _ := RSI(closes, RSIPeriod)
	if math.Abs(rsi-50) > 5 {
		t.Errorf("alternating series: expected ~50, got %.2f", rsi)
	}
}

func TestPercentChange(t *testing.T) {
	got, err := PercentChange([]float64{200, 250, 210})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-5) > 1e-9 {
		t.Errorf("expected 5%%, got %.4f", got)
	}
	if _, err := PercentChange([]float64{1}); err == nil {
		t.Error("expected error for a single close")
	}
	if _, err := PercentChange([]float64{0, 1}); err == nil {
		t.Error("expected error for zero first close")
	}
}

func TestVolatility(t *testing.T) {
	if v := Volatility([]float64{100, 100, 100, 100}); v != 0 {
		t.Errorf("flat series: expected 0, got %.4f", v)
	}
	if v := Volatility([]float64{100, 102, 99, 103, 98}); v <= 0 {
		t.Errorf("noisy series: expected positive volatility, got %.4f", v)
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		change, rsi float64
		want        model.Trend
	}{
		{6, 75, model.TrendStronglyBullish},
		{6, 60, model.TrendBullish},
		{2, 56, model.TrendBullish},
		{2, 50, model.TrendNeutral},
		{-6, 25, model.TrendStronglyBearish},
		{-2, 40, model.TrendBearish},
		{-2, 50, model.TrendNeutral},
		{0, 50, model.TrendNeutral},
	}
	for _, tt := range tests {
		if got := ClassifyTrend(tt.change, tt.rsi); got != tt.want {
			t.Errorf("ClassifyTrend(%.1f, %.1f) = %s, want %s", tt.change, tt.rsi, got, tt.want)
		}
	}
}

func TestConfidence_Bounds(t *testing.T) {
	if c := Confidence(50, 100, 0); c != 1 {
		t.Errorf("expected clamp to 1, got %.2f", c)
	}
	if c := Confidence(3, 70, 20); c != 0 {
		t.Errorf("high volatility should zero confidence, got %.2f", c)
	}
	c := Confidence(2.5, 60, 5)
	want := (0.2 + 0.5) * 0.5
	if math.Abs(c-want) > 1e-9 {
		t.Errorf("expected %.3f, got %.3f", want, c)
	}
}
