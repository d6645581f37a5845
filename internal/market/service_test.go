package market

import (
	"context"
	"testing"
	"time"

	"stock-analyzer/internal/config"
)

type fakeSource struct {
	bars  []Bar
	calls int
}

func (f *fakeSource) FetchBars(ctx context.Context, symbol string, limit int64) ([]Bar, error) {
	f.calls++
	return f.bars, nil
}

type fakeStore struct {
	bars  map[string][]Bar
	saves int
}

func newFakeStore() *fakeStore {
	return &fakeStore{bars: make(map[string][]Bar)}
}

func (f *fakeStore) LoadBars(ctx context.Context, symbol string, maxAge time.Duration) ([]Bar, bool, error) {
	bars, ok := f.bars[symbol]
	return bars, ok, nil
}

func (f *fakeStore) SaveBars(ctx context.Context, symbol string, bars []Bar) error {
	f.saves++
	f.bars[symbol] = bars
	return nil
}

func TestServiceHistory_FetchesAndCaches(t *testing.T) {
	source := &fakeSource{bars: makeBars(10, 11, 12)}
	store := newFakeStore()

	svc, err := NewService(config.MarketConfig{BarLimit: 365}, source, store, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	history, err := svc.History(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if history.Len() != 3 {
		t.Fatalf("expected 3 bars, got %d", history.Len())
	}
	if source.calls != 1 || store.saves != 1 {
		t.Errorf("expected one fetch and one save, got fetch=%d save=%d", source.calls, store.saves)
	}

	// 第二次读取应命中缓存，不再触发数据源
	if _, err := svc.History(context.Background(), "AAPL"); err != nil {
		t.Fatalf("second History returned error: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("expected cache hit, source called %d times", source.calls)
	}
}

func TestServiceHistories_FansOut(t *testing.T) {
	source := &fakeSource{bars: makeBars(10, 11)}

	svc, err := NewService(config.MarketConfig{BarLimit: 365}, source, nil, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	result, err := svc.Histories(context.Background(), []string{"AAPL", "MSFT", "TSLA"})
	if err != nil {
		t.Fatalf("Histories returned error: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("expected 3 histories, got %d", len(result))
	}
	for symbol, history := range result {
		if history.Symbol() != symbol {
			t.Errorf("expected history keyed by its symbol, got %s under %s", history.Symbol(), symbol)
		}
	}
}

func TestServiceSnapshot(t *testing.T) {
	source := &fakeSource{bars: makeBars(100, 110)}

	svc, err := NewService(config.MarketConfig{
		BarLimit:          365,
		SharesOutstanding: map[string]float64{"AAPL": 500},
	}, source, nil, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	snapshot, err := svc.Snapshot(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if snapshot.Quote.CurrentPrice != 110 {
		t.Errorf("expected quote price 110, got %f", snapshot.Quote.CurrentPrice)
	}
	if snapshot.Quote.MarketCap == nil || *snapshot.Quote.MarketCap != 55000 {
		t.Errorf("expected market cap 55000, got %v", snapshot.Quote.MarketCap)
	}
}
