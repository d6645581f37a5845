package backtest

import (
	"math"
	"testing"
)

func TestComputeDrawdown(t *testing.T) {
	equity := []float64{100, 120, 90, 130}
	if got := computeDrawdown(equity); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("expected drawdown 0.25, got %f", got)
	}
}

func TestComputeDrawdown_MonotonicIsZero(t *testing.T) {
	equity := []float64{100, 110, 120, 130}
	if got := computeDrawdown(equity); got != 0 {
		t.Errorf("expected zero drawdown, got %f", got)
	}
}

func TestComputeSharpe_ZeroVariance(t *testing.T) {
	returns := []float64{0.01, 0.01, 0.01}
	if got := computeSharpe(returns, 252); got != 0 {
		t.Errorf("expected sharpe 0 on zero variance, got %f", got)
	}
}

func TestComputeSharpe_AnnualizationScaling(t *testing.T) {
	returns := []float64{0.02, -0.01, 0.03, 0.01, -0.02}
	daily := computeSharpe(returns, 1)
	annual := computeSharpe(returns, 252)
	if math.Abs(annual-daily*math.Sqrt(252)) > 1e-9 {
		t.Errorf("expected annualized sharpe %f, got %f", daily*math.Sqrt(252), annual)
	}
}

func TestCalculatePerformance_NoTrades(t *testing.T) {
	perf := calculatePerformance(1000, []float64{1000, 1000}, []float64{0}, nil, 252)
	if perf.WinRate != 0 {
		t.Errorf("expected win rate 0 without trades, got %f", perf.WinRate)
	}
	if perf.TotalReturn != 0 {
		t.Errorf("expected total return 0, got %f", perf.TotalReturn)
	}
	if perf.FinalValue != 1000 {
		t.Errorf("expected final value 1000, got %f", perf.FinalValue)
	}
}

func TestCalculatePerformance_WinRate(t *testing.T) {
	trades := []Trade{
		{Profit: 50},
		{Profit: -20},
		{Profit: 30},
		{Profit: 0},
	}
	perf := calculatePerformance(1000, []float64{1000, 1060}, []float64{0.06}, trades, 252)
	if math.Abs(perf.WinRate-0.5) > 1e-9 {
		t.Errorf("expected win rate 0.5, got %f", perf.WinRate)
	}
}
