package strategy

import (
	"errors"
	"math"
	"testing"

	"stock-analyzer/internal/config"
	"stock-analyzer/internal/indicator"
)

var nan = math.NaN()

func defaultStrategyConfig() config.StrategyConfig {
	return config.StrategyConfig{
		RSIOversold:    30,
		RSIOverbought:  70,
		DipDropPercent: 0.10,
		DipRisePercent: 0.10,
	}
}

func TestRegistry_UnknownStrategy(t *testing.T) {
	registry, err := NewDefaultRegistry(defaultStrategyConfig())
	if err != nil {
		t.Fatalf("NewDefaultRegistry returned error: %v", err)
	}

	if _, err := registry.New("momentum_magic"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestRegistry_RejectsDuplicateAndEmpty(t *testing.T) {
	registry := NewRegistry()
	factory := func() Strategy { return NewBuyHold() }

	if err := registry.Register("", factory); err == nil {
		t.Errorf("expected error for empty name")
	}
	if err := registry.Register("buy_hold", factory); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := registry.Register("buy_hold", factory); err == nil {
		t.Errorf("expected error for duplicate registration")
	}
}

func TestRegistry_NewReturnsFreshInstances(t *testing.T) {
	registry, err := NewDefaultRegistry(defaultStrategyConfig())
	if err != nil {
		t.Fatalf("NewDefaultRegistry returned error: %v", err)
	}

	first, err := registry.New("buy_hold")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	second, err := registry.New("buy_hold")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	frame := &indicator.Frame{Close: []float64{1, 2}}
	if got := first.Next(0, frame); got != Buy {
		t.Fatalf("expected first instance to buy, got %s", got)
	}
	if got := second.Next(0, frame); got != Buy {
		t.Errorf("expected fresh instance unaffected by first, got %s", got)
	}
}

func TestRSIReversion_Table(t *testing.T) {
	frame := &indicator.Frame{
		Close: []float64{10, 10, 10, 10},
		RSI:   []float64{nan, 25, 50, 75},
	}
	strat := NewRSIReversion(30, 70)

	expected := []Kind{Hold, Buy, Hold, Sell}
	for i, want := range expected {
		if got := strat.Next(i, frame); got != want {
			t.Errorf("bar %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestBollingerReversion_Table(t *testing.T) {
	frame := &indicator.Frame{
		Close:   []float64{10, 8, 10, 13},
		BBUpper: []float64{nan, 12, 12, 12},
		BBLower: []float64{nan, 9, 9, 9},
	}
	strat := NewBollingerReversion()

	expected := []Kind{Hold, Buy, Hold, Sell}
	for i, want := range expected {
		if got := strat.Next(i, frame); got != want {
			t.Errorf("bar %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestMACDCrossover_RequiresPreviousBarDefined(t *testing.T) {
	frame := &indicator.Frame{
		Close:      []float64{10, 10, 10, 10, 10},
		MACDLine:   []float64{nan, nan, -1, 1, -1},
		MACDSignal: []float64{nan, nan, 0, 0, 0},
	}
	strat := NewMACDCrossover()

	// 第2根：前一根未定义，必须持有
	expected := []Kind{Hold, Hold, Hold, Buy, Sell}
	for i, want := range expected {
		if got := strat.Next(i, frame); got != want {
			t.Errorf("bar %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestSMACrossover_Table(t *testing.T) {
	frame := &indicator.Frame{
		Close:   []float64{10, 10, 10, 10},
		SMAFast: []float64{1, 2, 3, 1},
		SMASlow: []float64{2, 2, 2, 2},
	}
	strat := NewSMACrossover()

	// 相等后上穿触发买入，跌破后触发卖出
	expected := []Kind{Hold, Hold, Buy, Sell}
	for i, want := range expected {
		if got := strat.Next(i, frame); got != want {
			t.Errorf("bar %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestDipRebound_Sequence(t *testing.T) {
	frame := &indicator.Frame{
		Close: []float64{10, 11, 9, 12, 8, 15},
	}
	strat := NewDipRebound(0.10, 0.10)

	expected := []Kind{Hold, Hold, Buy, Sell, Buy, Sell}
	for i, want := range expected {
		if got := strat.Next(i, frame); got != want {
			t.Errorf("bar %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestBuyHold_BuysOnceOnly(t *testing.T) {
	frame := &indicator.Frame{Close: []float64{5, 6, 7}}
	strat := NewBuyHold()

	if got := strat.Next(0, frame); got != Buy {
		t.Fatalf("expected buy on first bar, got %s", got)
	}
	for i := 1; i < 3; i++ {
		if got := strat.Next(i, frame); got != Hold {
			t.Errorf("bar %d: expected hold, got %s", i, got)
		}
	}
}
